package config

import "time"

// Version is the current version of blockscope
const Version = "v1.0.0"

// Author is the author of the tool
const Author = "@lcalzada-xor"

// Default Values
const (
	DefaultConcurrency = 8
	DefaultTimeout     = 10 * time.Second
	DefaultFormat      = "js"
	DefaultUserAgent   = "blockscope/" + Version
)

// Formats lists the accepted --output values.
var Formats = []string{"js", "json", "human"}

// ScriptExtensions and HTMLExtensions select which files a directory walk picks up.
var (
	ScriptExtensions = []string{".js", ".mjs", ".cjs"}
	HTMLExtensions   = []string{".html", ".htm"}
)

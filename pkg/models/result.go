package models

import "time"

// InputKind classifies what an input holds.
type InputKind string

const (
	InputScript InputKind = "js"
	InputHTML   InputKind = "html"
)

// VerifyStatus is the outcome of running an input and its lowered form.
type VerifyStatus string

const (
	VerifySkipped  VerifyStatus = ""
	VerifyMatch    VerifyStatus = "match"
	VerifyMismatch VerifyStatus = "mismatch"
)

// Stats counts what the lowering pass changed in one compilation unit.
type Stats struct {
	Renamed     int `json:"renamed"`
	Normalized  int `json:"normalized"`
	LoopObjects int `json:"loop_objects"`
	Captured    int `json:"captured"`
	Wrapped     int `json:"wrapped"`
	Lowered     int `json:"lowered"`
}

// Add returns the field-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Renamed:     s.Renamed + o.Renamed,
		Normalized:  s.Normalized + o.Normalized,
		LoopObjects: s.LoopObjects + o.LoopObjects,
		Captured:    s.Captured + o.Captured,
		Wrapped:     s.Wrapped + o.Wrapped,
		Lowered:     s.Lowered + o.Lowered,
	}
}

// Result is the outcome of lowering one input.
type Result struct {
	Input string    `json:"input"`
	Kind  InputKind `json:"kind"`
	// Output is the file written with --out-dir; empty when printing.
	Output   string        `json:"output,omitempty"`
	Code     string        `json:"code,omitempty"`
	Scripts  int           `json:"scripts,omitempty"` // inline scripts lowered, html only
	Stats    Stats         `json:"stats"`
	Verified VerifyStatus  `json:"verified,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Failed reports whether the input could not be lowered or verified.
func (r Result) Failed() bool {
	return r.Error != "" || r.Verified == VerifyMismatch
}

// Summary totals a run.
type Summary struct {
	Inputs     int           `json:"inputs"`
	Failed     int           `json:"failed"`
	Mismatches int           `json:"mismatches"`
	Stats      Stats         `json:"stats"`
	Elapsed    time.Duration `json:"elapsed_ns"`
}

// Record folds res into the summary.
func (s *Summary) Record(res Result) {
	s.Inputs++
	if res.Failed() {
		s.Failed++
	}
	if res.Verified == VerifyMismatch {
		s.Mismatches++
	}
	s.Stats = s.Stats.Add(res.Stats)
}

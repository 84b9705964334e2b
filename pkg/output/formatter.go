package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lcalzada-xor/blockscope/pkg/models"
)

const (
	cPurple      = "\x1b[38;5;129m"
	cLightPurple = "\x1b[38;5;141m"
	cDarkPurple  = "\x1b[38;5;93m"
	cRed         = "\x1b[38;5;196m"
	cOrange      = "\x1b[38;5;214m"
	cGreen       = "\x1b[38;5;78m"
	cReset       = "\x1b[0m"
)

// Format returns the formatted result string based on the selected format
func Format(res models.Result, format string) string {
	switch format {
	case "human":
		var sb strings.Builder

		if res.Error != "" {
			sb.WriteString(fmt.Sprintf("\n%s[!] %s%s\n", cRed, res.Input, cReset))
			sb.WriteString(fmt.Sprintf("    %sError:%s      %s%s%s\n", cDarkPurple, cReset, cRed, res.Error, cReset))
			return sb.String()
		}

		sb.WriteString(fmt.Sprintf("\n%s[+] %s%s\n", cPurple, res.Input, cReset))
		field := func(name string, value any) {
			sb.WriteString(fmt.Sprintf("    %s%-12s%s%s%v%s\n", cDarkPurple, name+":", cReset, cLightPurple, value, cReset))
		}
		if res.Output != "" {
			field("Output", res.Output)
		}
		if res.Kind == models.InputHTML {
			field("Scripts", res.Scripts)
		}
		field("Renamed", res.Stats.Renamed)
		field("Loop objs", res.Stats.LoopObjects)
		field("Captured", res.Stats.Captured)
		field("Wrapped", res.Stats.Wrapped)
		field("Lowered", res.Stats.Lowered)

		switch res.Verified {
		case models.VerifyMatch:
			sb.WriteString(fmt.Sprintf("    %sVerified:%s   %smatch%s\n", cDarkPurple, cReset, cGreen, cReset))
		case models.VerifyMismatch:
			sb.WriteString(fmt.Sprintf("    %sVerified:%s   %smismatch%s\n", cDarkPurple, cReset, cOrange, cReset))
		}
		return sb.String()

	case "json":
		output, err := json.Marshal(res)
		if err != nil {
			// Return error as JSON instead of empty string
			return fmt.Sprintf("{\"error\":\"failed to marshal result: %v\"}", err)
		}
		return string(output)

	default:
		// js: the lowered code, or nothing when it went to a file
		if res.Error != "" || res.Output != "" {
			return ""
		}
		return strings.TrimSuffix(res.Code, "\n")
	}
}

// FormatSummary renders the run totals. Only the human format has a
// summary; the js and json streams stay one record per input.
func FormatSummary(sum models.Summary, format string) string {
	if format != "human" {
		return ""
	}

	color := cGreen
	if sum.Failed > 0 {
		color = cRed
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n%s[+] Summary%s\n", cPurple, cReset))
	sb.WriteString(fmt.Sprintf("    %sInputs:%s     %s%d%s\n", cDarkPurple, cReset, cLightPurple, sum.Inputs, cReset))
	sb.WriteString(fmt.Sprintf("    %sFailed:%s     %s%d%s\n", cDarkPurple, cReset, color, sum.Failed, cReset))
	if sum.Mismatches > 0 {
		sb.WriteString(fmt.Sprintf("    %sMismatches:%s %s%d%s\n", cDarkPurple, cReset, cOrange, sum.Mismatches, cReset))
	}
	sb.WriteString(fmt.Sprintf("    %sRenamed:%s    %s%d%s\n", cDarkPurple, cReset, cLightPurple, sum.Stats.Renamed, cReset))
	sb.WriteString(fmt.Sprintf("    %sLowered:%s    %s%d%s\n", cDarkPurple, cReset, cLightPurple, sum.Stats.Lowered, cReset))
	sb.WriteString(fmt.Sprintf("    %sElapsed:%s    %s%s%s\n", cDarkPurple, cReset, cLightPurple, sum.Elapsed.Round(1e6), cReset))
	return sb.String()
}

package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/corey/nglint/internal/app"
	"github.com/corey/nglint/internal/ports"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// formatResult renders a full run in the given format.
func formatResult(res *app.Result, format string, useColor bool) (string, error) {
	switch format {
	case "json":
		return formatJSON(res)
	case "github":
		return formatGitHub(res), nil
	default:
		return formatText(res, useColor), nil
	}
}

// formatText renders findings grouped by file, with a summary line.
//
//	src/app/cart.component.ts
//	  12 warning  observable-suffix   items should end in $ (CartComponent)
//	⚡ 3 findings (1 error, 2 warnings) │ 42 files │ 12ms
func formatText(res *app.Result, useColor bool) string {
	c := func(code string) string {
		if useColor {
			return code
		}
		return ""
	}

	var sb strings.Builder
	for _, fr := range res.Files {
		sb.WriteString(fmt.Sprintf("%s%s%s\n", c(colorCyan), fr.Path, c(colorReset)))
		for _, f := range fr.Findings {
			sevColor := colorGray
			switch f.Severity {
			case "error":
				sevColor = colorRed
			case "warning":
				sevColor = colorYellow
			}
			sb.WriteString(fmt.Sprintf("  %4d %s%-7s%s %-26s %s",
				f.Line, c(sevColor), f.Severity, c(colorReset), f.RuleID, f.Label))
			if f.Symbol != "" {
				sb.WriteString(fmt.Sprintf(" %s(%s)%s", c(colorGray), f.Symbol, c(colorReset)))
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString(fmt.Sprintf("%s⚡ %d findings%s (%d errors, %d warnings, %d info) │ %d files",
		c(colorBold), res.TotalFindings(), c(colorReset),
		res.Errors, res.Warnings, res.Infos, res.FileCount))
	if res.CachedCount > 0 {
		sb.WriteString(fmt.Sprintf(" (%d cached)", res.CachedCount))
	}
	sb.WriteString(fmt.Sprintf(" │ %dms\n", res.Elapsed.Milliseconds()))
	return sb.String()
}

// formatJSON renders the machine-readable report.
func formatJSON(res *app.Result) (string, error) {
	report := struct {
		Files     []ports.FileResult `json:"files"`
		FileCount int                `json:"file_count"`
		Errors    int                `json:"errors"`
		Warnings  int                `json:"warnings"`
		Infos     int                `json:"infos"`
		ElapsedMs int64              `json:"elapsed_ms"`
	}{
		Files:     res.Files,
		FileCount: res.FileCount,
		Errors:    res.Errors,
		Warnings:  res.Warnings,
		Infos:     res.Infos,
		ElapsedMs: res.Elapsed.Milliseconds(),
	}
	if report.Files == nil {
		report.Files = []ports.FileResult{}
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

// formatGitHub renders workflow annotation commands, one per finding.
func formatGitHub(res *app.Result) string {
	var sb strings.Builder
	for _, fr := range res.Files {
		for _, f := range fr.Findings {
			level := "notice"
			switch f.Severity {
			case "error":
				level = "error"
			case "warning":
				level = "warning"
			}
			sb.WriteString(fmt.Sprintf("::%s file=%s,line=%d,title=%s::%s\n",
				level, fr.Path, f.Line, f.RuleID, f.Label))
		}
	}
	return sb.String()
}

// formatFileFindings renders one file's findings for watch mode.
func formatFileFindings(fr *ports.FileResult, useColor bool) string {
	c := func(code string) string {
		if useColor {
			return code
		}
		return ""
	}

	if len(fr.Findings) == 0 {
		return fmt.Sprintf("%s%s%s: clean\n", c(colorCyan), fr.Path, c(colorReset))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s%s%s\n", c(colorCyan), fr.Path, c(colorReset)))
	for _, f := range fr.Findings {
		sevColor := colorGray
		switch f.Severity {
		case "error":
			sevColor = colorRed
		case "warning":
			sevColor = colorYellow
		}
		sb.WriteString(fmt.Sprintf("  %4d %s%-7s%s %-26s %s\n",
			f.Line, c(sevColor), f.Severity, c(colorReset), f.RuleID, f.Label))
	}
	return sb.String()
}

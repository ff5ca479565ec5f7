// Package guide checks the structural health of a markdown style guide:
// table-of-contents links must resolve to real headings, every numbered
// convention section must carry Do/Avoid guidance, and fenced code blocks
// must be closed. These are the editorial invariants that keep a long guide
// navigable as it grows.
package guide

import (
	"regexp"
	"strings"

	"github.com/corey/nglint/internal/ports"
)

// Check rule IDs.
const (
	RuleBrokenAnchor   = "guide-broken-anchor"
	RuleMissingAdvice  = "guide-missing-advice"
	RuleUnclosedFence  = "guide-unclosed-fence"
	RuleEmptySection   = "guide-empty-section"
)

var (
	headingRe  = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*$`)
	anchorRe   = regexp.MustCompile(`\]\(#([^)]+)\)`)
	fenceRe    = regexp.MustCompile("^(```|~~~)")
	numberedRe = regexp.MustCompile(`^\d+(\.\d+)*[.)]?\s`)
	adviceRe   = regexp.MustCompile(`^\s*[-*]\s+\*\*(Do|Avoid|Consider|Why)\b`)
)

// section is one heading and the line range of its body.
type section struct {
	title     string
	level     int
	line      int // heading line, 1-based
	bodyStart int
	bodyEnd   int // exclusive
}

// CheckDocument runs all structural checks over one markdown document and
// returns the findings sorted by line.
func CheckDocument(content []byte) []ports.Finding {
	lines := strings.Split(string(content), "\n")

	var findings []ports.Finding
	findings = append(findings, checkFences(lines)...)

	sections := parseSections(lines)

	anchors := make(map[string]bool, len(sections))
	for _, s := range sections {
		anchors[slugify(s.title)] = true
	}

	findings = append(findings, checkAnchors(lines, anchors)...)
	findings = append(findings, checkSections(lines, sections)...)
	return findings
}

// parseSections extracts every heading outside fenced code blocks, with the
// body span running to the next heading of any level.
func parseSections(lines []string) []section {
	var sections []section
	inFence := false
	fenceMark := ""

	for i, line := range lines {
		if m := fenceRe.FindString(strings.TrimSpace(line)); m != "" {
			if !inFence {
				inFence = true
				fenceMark = m
			} else if strings.HasPrefix(strings.TrimSpace(line), fenceMark) {
				inFence = false
			}
			continue
		}
		if inFence {
			continue
		}
		if m := headingRe.FindStringSubmatch(line); m != nil {
			if n := len(sections); n > 0 {
				sections[n-1].bodyEnd = i
			}
			sections = append(sections, section{
				title:     m[2],
				level:     len(m[1]),
				line:      i + 1,
				bodyStart: i + 1,
				bodyEnd:   len(lines),
			})
		}
	}
	return sections
}

// checkFences flags a fence opened but never closed.
func checkFences(lines []string) []ports.Finding {
	openLine := 0
	inFence := false
	fenceMark := ""

	for i, line := range lines {
		t := strings.TrimSpace(line)
		m := fenceRe.FindString(t)
		if m == "" {
			continue
		}
		if !inFence {
			inFence = true
			fenceMark = m
			openLine = i + 1
		} else if strings.HasPrefix(t, fenceMark) {
			inFence = false
		}
	}

	if !inFence {
		return nil
	}
	return []ports.Finding{{
		RuleID:   RuleUnclosedFence,
		Label:    "Fenced code block is never closed",
		Category: "guide",
		Severity: "error",
		Line:     openLine,
	}}
}

// checkAnchors flags TOC-style links whose fragment resolves to no heading.
func checkAnchors(lines []string, anchors map[string]bool) []ports.Finding {
	var findings []ports.Finding
	inFence := false
	fenceMark := ""

	for i, line := range lines {
		t := strings.TrimSpace(line)
		if m := fenceRe.FindString(t); m != "" {
			if !inFence {
				inFence = true
				fenceMark = m
			} else if strings.HasPrefix(t, fenceMark) {
				inFence = false
			}
			continue
		}
		if inFence {
			continue
		}
		for _, m := range anchorRe.FindAllStringSubmatch(line, -1) {
			frag := m[1]
			if anchors[frag] {
				continue
			}
			findings = append(findings, ports.Finding{
				RuleID:   RuleBrokenAnchor,
				Label:    "Link fragment #" + frag + " matches no heading",
				Category: "guide",
				Severity: "error",
				Line:     i + 1,
				Symbol:   frag,
			})
		}
	}
	return findings
}

// checkSections flags numbered convention sections with empty bodies or
// without a Do/Avoid bullet.
func checkSections(lines []string, sections []section) []ports.Finding {
	var findings []ports.Finding

	for _, s := range sections {
		if !numberedRe.MatchString(s.title) {
			continue
		}

		body := lines[s.bodyStart:min(s.bodyEnd, len(lines))]
		hasContent := false
		hasAdvice := false
		for _, line := range body {
			if strings.TrimSpace(line) != "" {
				hasContent = true
			}
			if adviceRe.MatchString(line) {
				hasAdvice = true
			}
		}

		if !hasContent {
			findings = append(findings, ports.Finding{
				RuleID:   RuleEmptySection,
				Label:    "Section has no body",
				Category: "guide",
				Severity: "warning",
				Line:     s.line,
				Symbol:   s.title,
			})
			continue
		}
		if !hasAdvice {
			findings = append(findings, ports.Finding{
				RuleID:   RuleMissingAdvice,
				Label:    "Section has no **Do** or **Avoid** bullet",
				Category: "guide",
				Severity: "warning",
				Line:     s.line,
				Symbol:   s.title,
			})
		}
	}
	return findings
}

// slugify converts a heading title to its GitHub anchor form: lowercase,
// punctuation stripped, spaces as hyphens.
func slugify(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		case r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}

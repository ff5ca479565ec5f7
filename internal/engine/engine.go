// Package engine evaluates the rule catalog against source files. Detection
// is layered: a single Aho-Corasick pass finds text pattern hits, a regex
// layer confirms the matched lines, and a tree-sitter walk evaluates
// structural checks. Composite rules fire only when the text and structural
// layers agree on nearly the same line.
package engine

import (
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/corey/nglint/internal/adapters/ahocorasick"
	"github.com/corey/nglint/internal/adapters/treesitter"
	"github.com/corey/nglint/internal/domain/rules"
	"github.com/corey/nglint/internal/ports"
)

// Options tunes evaluation thresholds.
type Options struct {
	ComponentPrefix string
	MaxMethodLines  int
}

// textRuleEntry attributes an automaton pattern back to its rule.
type textRuleEntry struct {
	rule *rules.Rule
}

// Engine lints files against a fixed rule catalog. Safe for reuse across
// files; not safe for concurrent use.
type Engine struct {
	rules   []rules.Rule
	scanner *ahocorasick.TextScanner
	parser  *treesitter.Parser

	// patternRules[i] is the rule owning automaton pattern i.
	patternRules []textRuleEntry
	regexCache   map[string]*regexp.Regexp
	opts         Options
}

// NewEngine builds an engine over the given catalog. Text patterns from text
// and composite rules are compiled into one automaton up front.
func NewEngine(catalog []rules.Rule, parser *treesitter.Parser, opts Options) *Engine {
	e := &Engine{
		rules:      catalog,
		parser:     parser,
		regexCache: make(map[string]*regexp.Regexp),
		opts:       opts,
	}

	var patterns []string
	for i := range catalog {
		r := &catalog[i]
		if r.Kind != rules.RuleText && r.Kind != rules.RuleComposite {
			continue
		}
		for _, p := range r.TextPatterns {
			patterns = append(patterns, p)
			e.patternRules = append(e.patternRules, textRuleEntry{rule: r})
		}
	}
	e.scanner = ahocorasick.NewTextScanner(patterns)
	return e
}

// Rules returns the catalog the engine was built with.
func (e *Engine) Rules() []rules.Rule {
	return e.rules
}

// LintFile evaluates every applicable rule against one file. relPath is
// slash-separated and relative to the project root; it drives path rules and
// applicability filters. Returns the findings and the detected language name
// ("" for unparsed files).
func (e *Engine) LintFile(relPath string, source []byte) ([]ports.Finding, string) {
	lang := e.parser.LanguageFor(relPath)
	// Empty files produce no findings, path rules included.
	if len(source) == 0 {
		return nil, lang
	}
	lineOffsets := buildLineOffsets(source)

	var raw []rules.RuleFinding
	// composite text hits wait for structural confirmation
	compositeHits := make(map[string][]int) // rule ID -> hit lines

	// Text layer.
	seen := make(map[string]map[int]bool) // rule ID -> line -> seen
	for _, m := range e.scanner.Scan(source) {
		r := e.patternRules[m.PatternIndex].rule
		if !r.AppliesToLanguage(lang) || !r.AppliesToPath(relPath) {
			continue
		}

		line := offsetToLine(lineOffsets, m.Start)
		if seen[r.ID] == nil {
			seen[r.ID] = make(map[int]bool)
		}
		if seen[r.ID][line] {
			continue
		}
		seen[r.ID][line] = true

		lineText := extractLineText(source, lineOffsets, line)
		if isCommentLine(lineText) && !r.MatchComments {
			continue
		}
		if r.Regex != "" && !e.compiled(r.Regex).MatchString(lineText) {
			continue
		}

		if r.Kind == rules.RuleComposite {
			compositeHits[r.ID] = append(compositeHits[r.ID], line)
			continue
		}
		raw = append(raw, rules.RuleFinding{RuleID: r.ID, Line: line})
	}

	// Structural layer.
	var symbols []rules.SymbolSpan
	structRules := e.applicableStructural(relPath, lang)
	if len(structRules) > 0 {
		tree, _, err := e.parser.ParseToTree(relPath, source)
		if err == nil && tree != nil {
			walkRes := treesitter.WalkForRules(tree.RootNode(), source, lang, structRules, treesitter.WalkOptions{
				ComponentPrefix: e.opts.ComponentPrefix,
				MaxMethodLines:  e.opts.MaxMethodLines,
			})
			tree.Close()
			symbols = walkRes.Symbols

			for _, f := range walkRes.Findings {
				r := e.ruleByID(f.RuleID)
				if r == nil {
					continue
				}
				if r.Kind == rules.RuleComposite {
					// Structural evidence confirms a nearby text hit.
					if hasNearbyLine(compositeHits[r.ID], f.Line, 3) {
						raw = append(raw, f)
					}
					continue
				}
				raw = append(raw, f)
			}
		}
	}

	// Path layer.
	for i := range e.rules {
		r := &e.rules[i]
		if r.Kind != rules.RulePath || !r.AppliesToPath(relPath) {
			continue
		}
		if e.compiled(r.Regex).MatchString(relPath) {
			raw = append(raw, rules.RuleFinding{RuleID: r.ID, Line: 1, Symbol: path.Base(relPath)})
		}
	}

	findings := e.decorate(raw, symbols)
	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Line != findings[j].Line {
			return findings[i].Line < findings[j].Line
		}
		return findings[i].RuleID < findings[j].RuleID
	})
	return findings, lang
}

// applicableStructural filters the catalog down to structural/composite rules
// that apply to this file.
func (e *Engine) applicableStructural(relPath, lang string) []rules.Rule {
	var out []rules.Rule
	for _, r := range e.rules {
		if r.Kind != rules.RuleStructural && r.Kind != rules.RuleComposite {
			continue
		}
		if !r.AppliesToLanguage(lang) || !r.AppliesToPath(relPath) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (e *Engine) ruleByID(id string) *rules.Rule {
	for i := range e.rules {
		if e.rules[i].ID == id {
			return &e.rules[i]
		}
	}
	return nil
}

// decorate turns raw layer findings into reportable findings with rule
// metadata and enclosing symbol attribution.
func (e *Engine) decorate(raw []rules.RuleFinding, symbols []rules.SymbolSpan) []ports.Finding {
	out := make([]ports.Finding, 0, len(raw))
	for _, f := range raw {
		r := e.ruleByID(f.RuleID)
		if r == nil {
			continue
		}
		symbol := f.Symbol
		if symbol == "" {
			symbol = rules.EnclosingSymbol(symbols, f.Line)
		}
		out = append(out, ports.Finding{
			RuleID:   r.ID,
			Label:    r.Label,
			Category: rules.CategoryName(r.Category),
			Severity: rules.SeverityName(r.Severity),
			Line:     f.Line,
			Symbol:   symbol,
			Guide:    r.Guide,
		})
	}
	return out
}

// compiled returns a cached compiled regex. Catalog loading already validated
// every pattern, so compile errors cannot occur here.
func (e *Engine) compiled(pattern string) *regexp.Regexp {
	if re, ok := e.regexCache[pattern]; ok {
		return re
	}
	re := regexp.MustCompile(pattern)
	e.regexCache[pattern] = re
	return re
}

// buildLineOffsets returns the byte offset where each line starts.
func buildLineOffsets(content []byte) []int {
	offsets := []int{0}
	for i, b := range content {
		if b == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// offsetToLine converts a byte offset to a 1-based line number via binary
// search over the line offset table.
func offsetToLine(offsets []int, offset int) int {
	lo, hi := 0, len(offsets)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if offsets[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1
}

// extractLineText returns the text of a 1-based line, without the newline.
func extractLineText(content []byte, offsets []int, line int) string {
	if line < 1 || line > len(offsets) {
		return ""
	}
	start := offsets[line-1]
	end := len(content)
	if line < len(offsets) {
		end = offsets[line] - 1
	}
	if start > end {
		return ""
	}
	return string(content[start:end])
}

// isCommentLine reports whether a line is purely a comment. Block comment
// interiors are approximated by a leading '*'.
func isCommentLine(lineText string) bool {
	t := strings.TrimSpace(lineText)
	return strings.HasPrefix(t, "//") ||
		strings.HasPrefix(t, "/*") ||
		strings.HasPrefix(t, "*") ||
		strings.HasPrefix(t, "<!--")
}

// hasNearbyLine reports whether any of lines is within dist of target.
func hasNearbyLine(lines []int, target, dist int) bool {
	for _, l := range lines {
		d := l - target
		if d < 0 {
			d = -d
		}
		if d <= dist {
			return true
		}
	}
	return false
}

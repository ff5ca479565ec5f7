// Package ahocorasick provides multi-pattern string matching using an
// Aho-Corasick automaton. A single pass over a file finds every rule text
// pattern simultaneously, O(n + m + z) regardless of how many patterns the
// catalog carries.
package ahocorasick

import (
	aho "github.com/petar-dambovaliev/aho-corasick"
)

// TextMatch represents a match with byte offsets.
type TextMatch struct {
	PatternIndex int // index into the original patterns slice
	Start        int // byte offset start (inclusive)
	End          int // byte offset end (exclusive)
}

// TextScanner wraps an Aho-Corasick automaton for rule text scanning.
// It returns byte offsets for each match, suitable for line-number computation.
type TextScanner struct {
	automaton aho.AhoCorasick
	patterns  []string
}

// NewTextScanner builds a text scanner from the given patterns.
func NewTextScanner(patterns []string) *TextScanner {
	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		DFA: true,
	})
	p := make([]string, len(patterns))
	copy(p, patterns)
	return &TextScanner{
		automaton: builder.Build(p),
		patterns:  p,
	}
}

// Scan finds all pattern matches in content and returns them with byte offsets.
func (s *TextScanner) Scan(content []byte) []TextMatch {
	iter := s.automaton.IterOverlappingByte(content)
	var matches []TextMatch
	for next := iter.Next(); next != nil; next = iter.Next() {
		m := *next
		matches = append(matches, TextMatch{
			PatternIndex: m.Pattern(),
			Start:        m.Start(),
			End:          m.End(),
		})
	}
	return matches
}

// PatternCount returns the number of patterns in the automaton.
func (s *TextScanner) PatternCount() int {
	return len(s.patterns)
}

// Pattern returns the pattern string at the given index.
func (s *TextScanner) Pattern(idx int) string {
	if idx < 0 || idx >= len(s.patterns) {
		return ""
	}
	return s.patterns[idx]
}

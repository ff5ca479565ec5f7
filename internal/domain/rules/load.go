package rules

import (
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlRule is the YAML-serialized form of a Rule.
type yamlRule struct {
	ID              string   `yaml:"id"`
	Label           string   `yaml:"label"`
	Category        string   `yaml:"category"`
	Dimension       string   `yaml:"dimension"`
	Severity        string   `yaml:"severity"`
	Kind            string   `yaml:"kind"`
	TextPatterns    []string `yaml:"text_patterns,omitempty"`
	Regex           string   `yaml:"regex,omitempty"`
	StructuralCheck string   `yaml:"structural_check,omitempty"`
	Languages       []string `yaml:"languages,omitempty"`
	FileSuffixes    []string `yaml:"file_suffixes,omitempty"`
	SkipSpec        bool     `yaml:"skip_spec,omitempty"`
	MatchComments   bool     `yaml:"match_comments,omitempty"`
	Guide           string   `yaml:"guide,omitempty"`
}

// LoadFromFS loads all YAML rule files from a filesystem (usually the
// embedded catalog). Files load in sorted name order so the resulting rule
// slice is deterministic.
func LoadFromFS(fsys fs.FS, dir string) ([]Rule, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read rules dir %q: %w", dir, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var all []Rule
	seenIDs := make(map[string]string) // id → source file

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := entry.Name()
		if dir != "." {
			path = dir + "/" + entry.Name()
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		var yamlRules []yamlRule
		if err := yaml.Unmarshal(data, &yamlRules); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}

		for _, yr := range yamlRules {
			rule, err := convertRule(yr)
			if err != nil {
				return nil, fmt.Errorf("%s: rule %q: %w", entry.Name(), yr.ID, err)
			}

			if prev, ok := seenIDs[rule.ID]; ok {
				return nil, fmt.Errorf("duplicate rule ID %q (first in %s, again in %s)", rule.ID, prev, entry.Name())
			}
			seenIDs[rule.ID] = entry.Name()

			all = append(all, rule)
		}
	}

	return all, nil
}

// convertRule converts a yamlRule to a Rule, validating as it goes.
func convertRule(yr yamlRule) (Rule, error) {
	if yr.ID == "" {
		return Rule{}, fmt.Errorf("missing id")
	}
	if yr.Label == "" {
		return Rule{}, fmt.Errorf("missing label")
	}

	cat := CategoryFromName(yr.Category)
	if cat < 0 {
		return Rule{}, fmt.Errorf("unknown category %q", yr.Category)
	}

	sev := SeverityFromName(yr.Severity)
	if sev < 0 {
		return Rule{}, fmt.Errorf("unknown severity %q", yr.Severity)
	}

	kind := RuleKindFromName(yr.Kind)
	if kind < 0 {
		return Rule{}, fmt.Errorf("unknown kind %q", yr.Kind)
	}

	// Validate kind-specific fields
	switch kind {
	case RuleText:
		if len(yr.TextPatterns) == 0 {
			return Rule{}, fmt.Errorf("text rule must have text_patterns")
		}
	case RuleStructural:
		if yr.StructuralCheck == "" {
			return Rule{}, fmt.Errorf("structural rule must have structural_check")
		}
	case RuleComposite:
		if len(yr.TextPatterns) == 0 || yr.StructuralCheck == "" {
			return Rule{}, fmt.Errorf("composite rule must have text_patterns and structural_check")
		}
	case RulePath:
		if yr.Regex == "" {
			return Rule{}, fmt.Errorf("path rule must have regex")
		}
	}

	if yr.Regex != "" {
		if _, err := regexp.Compile(yr.Regex); err != nil {
			return Rule{}, fmt.Errorf("invalid regex: %w", err)
		}
	}

	return Rule{
		ID:              yr.ID,
		Label:           yr.Label,
		Category:        cat,
		Dimension:       yr.Dimension,
		Severity:        sev,
		Kind:            kind,
		TextPatterns:    yr.TextPatterns,
		Regex:           yr.Regex,
		StructuralCheck: yr.StructuralCheck,
		Languages:       yr.Languages,
		FileSuffixes:    yr.FileSuffixes,
		SkipSpec:        yr.SkipSpec,
		MatchComments:   yr.MatchComments,
		Guide:           yr.Guide,
	}, nil
}

// ApplyOverrides returns a rule slice with per-rule severity overrides
// applied. An override value of "off" drops the rule; any other value must be
// a valid severity name. Unknown rule IDs are an error so typos in project
// config surface immediately.
func ApplyOverrides(all []Rule, overrides map[string]string) ([]Rule, error) {
	if len(overrides) == 0 {
		out := make([]Rule, len(all))
		copy(out, all)
		return out, nil
	}

	byID := make(map[string]bool, len(all))
	for _, r := range all {
		byID[r.ID] = true
	}
	for id := range overrides {
		if !byID[id] {
			return nil, fmt.Errorf("rule override for unknown rule %q", id)
		}
	}

	var out []Rule
	for _, r := range all {
		ov, ok := overrides[r.ID]
		if !ok {
			out = append(out, r)
			continue
		}
		if ov == "off" {
			continue
		}
		sev := SeverityFromName(ov)
		if sev < 0 {
			return nil, fmt.Errorf("rule %q: invalid severity override %q", r.ID, ov)
		}
		r.Severity = sev
		out = append(out, r)
	}
	return out, nil
}

// Package rules defines the style-rule model: one Rule per documented
// convention, with the detection layers the engine evaluates (text patterns,
// regex confirmation, structural AST checks). All types are pure Go with no
// external dependencies except YAML loading.
package rules

import "strings"

// Category groups rules by the area of the style guide they enforce.
type Category int

const (
	CatComponents Category = iota
	CatTemplates
	CatState
	CatStreams
	CatQuality
	CatStructure
)

// CategoryName returns the string label for a category constant.
func CategoryName(c Category) string {
	switch c {
	case CatComponents:
		return "components"
	case CatTemplates:
		return "templates"
	case CatState:
		return "state"
	case CatStreams:
		return "streams"
	case CatQuality:
		return "quality"
	case CatStructure:
		return "structure"
	default:
		return "unknown"
	}
}

// CategoryFromName maps a string category name to its constant.
// Returns -1 for unknown names.
func CategoryFromName(name string) Category {
	switch name {
	case "components":
		return CatComponents
	case "templates":
		return CatTemplates
	case "state":
		return CatState
	case "streams":
		return CatStreams
	case "quality":
		return CatQuality
	case "structure":
		return CatStructure
	default:
		return -1
	}
}

// Severity ranks how strongly a convention is held.
type Severity int

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

// SeverityName returns the string label for a severity constant.
func SeverityName(s Severity) string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	default:
		return "unknown"
	}
}

// SeverityFromName maps a string severity name to its constant.
// Returns -1 for unknown names.
func SeverityFromName(name string) Severity {
	switch name {
	case "info":
		return SevInfo
	case "warning":
		return SevWarning
	case "error":
		return SevError
	default:
		return -1
	}
}

// RuleKind selects which detection layers a rule uses.
type RuleKind int

const (
	// RuleText fires on an Aho-Corasick pattern hit, optionally confirmed
	// by a regex against the matched line.
	RuleText RuleKind = iota
	// RuleStructural fires on a named AST check during the structural walk.
	RuleStructural
	// RuleComposite requires the text layer AND the structural layer to
	// agree on (nearly) the same line.
	RuleComposite
	// RulePath evaluates the rule regex against the file's relative path
	// instead of its content.
	RulePath
)

// RuleKindFromName maps a string kind name to its constant.
// Returns -1 for unknown names.
func RuleKindFromName(name string) RuleKind {
	switch name {
	case "text":
		return RuleText
	case "structural":
		return RuleStructural
	case "composite":
		return RuleComposite
	case "path":
		return RulePath
	default:
		return -1
	}
}

// RuleKindName returns the string label for a kind constant.
func RuleKindName(k RuleKind) string {
	switch k {
	case RuleText:
		return "text"
	case RuleStructural:
		return "structural"
	case RuleComposite:
		return "composite"
	case RulePath:
		return "path"
	default:
		return "unknown"
	}
}

// Rule is one enforceable style convention.
type Rule struct {
	ID        string
	Label     string
	Category  Category
	Dimension string
	Severity  Severity
	Kind      RuleKind

	// Detection layers. Which ones apply depends on Kind.
	TextPatterns    []string // Aho-Corasick literals
	Regex           string   // confirmation regex (line text, or path for RulePath)
	StructuralCheck string   // named AST check run by the walker

	// Applicability filters. Empty means "applies everywhere".
	Languages     []string // parser language names ("typescript", "html", ...)
	FileSuffixes  []string // e.g. ".reducer.ts", ".component.ts"
	SkipSpec      bool     // skip *.spec.ts / *.test.ts files
	MatchComments bool     // text hits on comment lines still count

	// Guide is the style guide anchor documenting this convention.
	Guide string
}

// AppliesToLanguage reports whether the rule applies to a parser language.
// An empty Languages list matches every language, including unparsed files.
func (r *Rule) AppliesToLanguage(lang string) bool {
	if len(r.Languages) == 0 {
		return true
	}
	for _, l := range r.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// AppliesToPath reports whether the rule applies to a relative file path,
// honoring FileSuffixes and SkipSpec.
func (r *Rule) AppliesToPath(relPath string) bool {
	if r.SkipSpec && IsSpecPath(relPath) {
		return false
	}
	if len(r.FileSuffixes) == 0 {
		return true
	}
	for _, suf := range r.FileSuffixes {
		if strings.HasSuffix(relPath, suf) {
			return true
		}
	}
	return false
}

// IsSpecPath reports whether a path names a test/spec file.
func IsSpecPath(relPath string) bool {
	return strings.HasSuffix(relPath, ".spec.ts") ||
		strings.HasSuffix(relPath, ".spec.tsx") ||
		strings.HasSuffix(relPath, ".test.ts") ||
		strings.HasSuffix(relPath, ".test.tsx") ||
		strings.HasSuffix(relPath, ".test.js") ||
		strings.HasSuffix(relPath, ".spec.js")
}

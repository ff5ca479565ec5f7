package rules

// RuleFinding is a raw detection emitted by a single layer (text scan or
// structural walk) before the engine decorates it with rule metadata.
type RuleFinding struct {
	RuleID string
	Line   int
	Symbol string
}

// SymbolSpan records a named declaration's line range, used to attribute
// findings to their enclosing class or method.
type SymbolSpan struct {
	Name      string
	StartLine int
	EndLine   int
}

// EnclosingSymbol returns the name of the innermost span containing line,
// or "" if none does. Spans are expected in document order.
func EnclosingSymbol(spans []SymbolSpan, line int) string {
	for i := len(spans) - 1; i >= 0; i-- {
		if line >= spans[i].StartLine && (spans[i].EndLine == 0 || line <= spans[i].EndLine) {
			return spans[i].Name
		}
	}
	return ""
}

package treesitter

import (
	"regexp"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/corey/nglint/internal/domain/rules"
)

// WalkOptions carries the configurable thresholds structural checks need.
type WalkOptions struct {
	ComponentPrefix string // expected selector prefix, e.g. "app"
	MaxMethodLines  int    // long-method threshold
}

// WalkResult holds the findings from a structural AST walk.
type WalkResult struct {
	Findings []rules.RuleFinding
	Symbols  []rules.SymbolSpan
}

// WalkForRules walks the AST looking for structural rule violations.
// Only rules of kind structural or composite are evaluated; the caller is
// expected to have filtered the slice to rules applicable to this file.
func WalkForRules(root *tree_sitter.Node, source []byte, lang string, rs []rules.Rule, opts WalkOptions) WalkResult {
	var result WalkResult

	structRules := make([]rules.Rule, 0)
	for _, r := range rs {
		if r.Kind == rules.RuleStructural || r.Kind == rules.RuleComposite {
			structRules = append(structRules, r)
		}
	}
	if len(structRules) == 0 {
		return result
	}

	ctx := &walkContext{
		source: source,
		lang:   lang,
		rules:  structRules,
		opts:   opts,
	}
	ctx.walk(root, &result)
	return result
}

type walkContext struct {
	source           []byte
	lang             string
	rules            []rules.Rule
	opts             WalkOptions
	subscribeDepth   int // nesting inside subscribe() callback arguments
	constructorDepth int // nesting inside a constructor body
}

func (ctx *walkContext) walk(n *tree_sitter.Node, result *WalkResult) {
	kind := n.Kind()

	// Track symbol spans for finding attribution.
	if isSymbolNode(ctx.lang, kind) {
		if name := extractSymbolName(n, ctx.source); name != "" {
			result.Symbols = append(result.Symbols, rules.SymbolSpan{
				Name:      name,
				StartLine: int(n.StartPosition().Row + 1),
				EndLine:   int(n.EndPosition().Row + 1),
			})
		}
	}

	isSub := ctx.isSubscribeCall(n)
	isCtor := kind == "method_definition" && methodName(n, ctx.source) == "constructor"

	for _, r := range ctx.rules {
		switch r.StructuralCheck {
		case "checkNestedSubscribe":
			if isSub && ctx.subscribeDepth > 0 {
				ctx.emit(n, r, "", result)
			}
		case "checkSubscribeInConstructor":
			if isSub && ctx.constructorDepth > 0 {
				ctx.emit(n, r, "", result)
			}
		case "checkObservableSuffix":
			ctx.checkObservableSuffix(n, r, result)
		case "checkExposedSubject":
			ctx.checkExposedSubject(n, r, result)
		case "checkStateMutation":
			ctx.checkStateMutation(n, r, result)
		case "checkSelectorPrefix":
			ctx.checkSelectorPrefix(n, r, result)
		case "checkComponentSelector":
			ctx.checkComponentSelector(n, r, result)
		case "checkLifecycleInterface":
			ctx.checkLifecycleInterface(n, r, result)
		case "checkLongMethod":
			ctx.checkLongMethod(n, r, result)
		case "checkMissingTeardown":
			ctx.checkMissingTeardown(n, r, result)
		case "checkNgForTrackBy":
			ctx.checkNgForTrackBy(n, r, result)
		}
	}

	if isSub {
		ctx.subscribeDepth++
	}
	if isCtor {
		ctx.constructorDepth++
	}

	for i := uint(0); i < uint(n.ChildCount()); i++ {
		ctx.walk(n.Child(i), result)
	}

	if isSub {
		ctx.subscribeDepth--
	}
	if isCtor {
		ctx.constructorDepth--
	}
}

func (ctx *walkContext) emit(n *tree_sitter.Node, r rules.Rule, symbol string, result *WalkResult) {
	result.Findings = append(result.Findings, rules.RuleFinding{
		RuleID: r.ID,
		Line:   int(n.StartPosition().Row + 1),
		Symbol: symbol,
	})
}

// isSubscribeCall: call_expression whose callee is a member expression ending
// in ".subscribe".
func (ctx *walkContext) isSubscribeCall(n *tree_sitter.Node) bool {
	if n.Kind() != "call_expression" {
		return false
	}
	fn := n.Child(0)
	if fn == nil || fn.Kind() != "member_expression" {
		return false
	}
	prop := childByKind(fn, "property_identifier")
	return prop != nil && nodeText(prop, ctx.source) == "subscribe"
}

// observableTypes are the reactive types whose members take a $ suffix.
// EventEmitter is excluded: outputs are conventionally unsuffixed.
var observableTypes = []string{"Observable<", "Subject<", "BehaviorSubject<", "ReplaySubject<", "AsyncSubject<"}

// checkObservableSuffix: a field or variable typed as an observable stream
// should carry a $ suffix.
func (ctx *walkContext) checkObservableSuffix(n *tree_sitter.Node, r rules.Rule, result *WalkResult) {
	kind := n.Kind()
	if kind != "public_field_definition" && kind != "variable_declarator" && kind != "property_signature" {
		return
	}
	ann := childByKind(n, "type_annotation")
	if ann == nil {
		return
	}
	annText := nodeText(ann, ctx.source)
	typed := false
	for _, t := range observableTypes {
		if strings.Contains(annText, t) {
			typed = true
			break
		}
	}
	if !typed {
		return
	}

	name := declarationName(n, ctx.source)
	if name == "" || strings.HasSuffix(name, "$") {
		return
	}
	ctx.emit(n, r, name, result)
}

// checkExposedSubject: a Subject-typed field with public visibility leaks
// write access; callers should get an Observable via asObservable().
func (ctx *walkContext) checkExposedSubject(n *tree_sitter.Node, r rules.Rule, result *WalkResult) {
	if n.Kind() != "public_field_definition" {
		return
	}
	ann := childByKind(n, "type_annotation")
	if ann == nil || !strings.Contains(nodeText(ann, ctx.source), "Subject<") {
		return
	}
	if mod := childByKind(n, "accessibility_modifier"); mod != nil {
		switch nodeText(mod, ctx.source) {
		case "private", "protected":
			return
		}
	}
	ctx.emit(n, r, declarationName(n, ctx.source), result)
}

// arrayMutators are methods that mutate an array in place.
var arrayMutators = map[string]bool{
	"push": true, "pop": true, "shift": true, "unshift": true,
	"splice": true, "sort": true, "reverse": true, "fill": true,
}

// checkStateMutation: assignment to (or in-place mutation of) the reducer's
// state argument.
func (ctx *walkContext) checkStateMutation(n *tree_sitter.Node, r rules.Rule, result *WalkResult) {
	kind := n.Kind()

	switch kind {
	case "assignment_expression", "augmented_assignment_expression":
		left := n.Child(0)
		if left == nil {
			return
		}
		lhs := nodeText(left, ctx.source)
		if strings.HasPrefix(lhs, "state.") || strings.HasPrefix(lhs, "state[") {
			ctx.emit(n, r, "", result)
		}
	case "update_expression":
		// state.count++ and friends
		if strings.Contains(nodeText(n, ctx.source), "state.") {
			ctx.emit(n, r, "", result)
		}
	case "call_expression":
		fn := n.Child(0)
		if fn == nil || fn.Kind() != "member_expression" {
			return
		}
		prop := childByKind(fn, "property_identifier")
		if prop == nil || !arrayMutators[nodeText(prop, ctx.source)] {
			return
		}
		obj := fn.Child(0)
		if obj == nil {
			return
		}
		objText := nodeText(obj, ctx.source)
		if objText == "state" || strings.HasPrefix(objText, "state.") {
			ctx.emit(n, r, "", result)
		}
	}
}

// checkSelectorPrefix: a const initialized with createSelector or
// createFeatureSelector should be named select*.
func (ctx *walkContext) checkSelectorPrefix(n *tree_sitter.Node, r rules.Rule, result *WalkResult) {
	if n.Kind() != "variable_declarator" {
		return
	}
	value := childByKind(n, "call_expression")
	if value == nil {
		return
	}
	callee := value.Child(0)
	if callee == nil {
		return
	}
	calleeText := nodeText(callee, ctx.source)
	if calleeText != "createSelector" && calleeText != "createFeatureSelector" {
		return
	}

	nameNode := childByKind(n, "identifier")
	if nameNode == nil {
		return
	}
	name := nodeText(nameNode, ctx.source)
	if strings.HasPrefix(name, "select") {
		return
	}
	ctx.emit(n, r, name, result)
}

// kebabSelector matches a multi-segment kebab-case element selector.
var kebabSelector = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)+$`)

// checkComponentSelector: the selector string inside a @Component decorator
// must be kebab-case and carry the configured prefix. Attribute selectors
// ("[appFoo]") are exempt.
func (ctx *walkContext) checkComponentSelector(n *tree_sitter.Node, r rules.Rule, result *WalkResult) {
	if n.Kind() != "decorator" {
		return
	}
	if !strings.HasPrefix(nodeText(n, ctx.source), "@Component") {
		return
	}

	sel, selNode := findDecoratorString(n, ctx.source, "selector")
	if selNode == nil || sel == "" {
		return
	}
	if strings.HasPrefix(sel, "[") {
		return
	}

	ok := kebabSelector.MatchString(sel)
	if ok && ctx.opts.ComponentPrefix != "" {
		ok = strings.HasPrefix(sel, ctx.opts.ComponentPrefix+"-")
	}
	if ok {
		return
	}
	result.Findings = append(result.Findings, rules.RuleFinding{
		RuleID: r.ID,
		Line:   int(selNode.StartPosition().Row + 1),
	})
}

// lifecycleInterfaces maps hook methods to the interface that declares them.
var lifecycleInterfaces = map[string]string{
	"ngOnInit":           "OnInit",
	"ngOnDestroy":        "OnDestroy",
	"ngOnChanges":        "OnChanges",
	"ngAfterViewInit":    "AfterViewInit",
	"ngAfterContentInit": "AfterContentInit",
	"ngAfterViewChecked": "AfterViewChecked",
	"ngDoCheck":          "DoCheck",
}

// checkLifecycleInterface: a class implementing a lifecycle hook should also
// declare the corresponding interface in its heritage clause.
func (ctx *walkContext) checkLifecycleInterface(n *tree_sitter.Node, r rules.Rule, result *WalkResult) {
	if n.Kind() != "class_declaration" {
		return
	}
	heritage := ""
	if h := childByKind(n, "class_heritage"); h != nil {
		heritage = nodeText(h, ctx.source)
	}

	body := childByKind(n, "class_body")
	if body == nil {
		return
	}
	for i := uint(0); i < uint(body.ChildCount()); i++ {
		m := body.Child(i)
		if m.Kind() != "method_definition" {
			continue
		}
		name := methodName(m, ctx.source)
		iface, isHook := lifecycleInterfaces[name]
		if !isHook {
			continue
		}
		if strings.Contains(heritage, iface) {
			continue
		}
		result.Findings = append(result.Findings, rules.RuleFinding{
			RuleID: r.ID,
			Line:   int(m.StartPosition().Row + 1),
			Symbol: name,
		})
	}
}

// checkLongMethod: method or function body exceeds the configured line count.
func (ctx *walkContext) checkLongMethod(n *tree_sitter.Node, r rules.Rule, result *WalkResult) {
	kind := n.Kind()
	if kind != "method_definition" && kind != "function_declaration" {
		return
	}
	max := ctx.opts.MaxMethodLines
	if max <= 0 {
		max = 75
	}
	startLine := int(n.StartPosition().Row + 1)
	endLine := int(n.EndPosition().Row + 1)
	if endLine-startLine <= max {
		return
	}
	result.Findings = append(result.Findings, rules.RuleFinding{
		RuleID: r.ID,
		Line:   startLine,
		Symbol: extractSymbolName(n, ctx.source),
	})
}

// checkMissingTeardown: a component class that subscribes but shows no sign
// of tearing the subscription down.
func (ctx *walkContext) checkMissingTeardown(n *tree_sitter.Node, r rules.Rule, result *WalkResult) {
	if n.Kind() != "class_declaration" {
		return
	}
	text := nodeText(n, ctx.source)
	if !strings.Contains(text, ".subscribe(") {
		return
	}
	for _, teardown := range []string{"ngOnDestroy", "takeUntil", "takeUntilDestroyed", "DestroyRef", "Subscription"} {
		if strings.Contains(text, teardown) {
			return
		}
	}
	result.Findings = append(result.Findings, rules.RuleFinding{
		RuleID: r.ID,
		Line:   int(n.StartPosition().Row + 1),
		Symbol: extractSymbolName(n, ctx.source),
	})
}

// checkNgForTrackBy: an *ngFor attribute whose expression has no trackBy.
func (ctx *walkContext) checkNgForTrackBy(n *tree_sitter.Node, r rules.Rule, result *WalkResult) {
	if n.Kind() != "attribute" {
		return
	}
	nameNode := childByKind(n, "attribute_name")
	if nameNode == nil || !strings.HasPrefix(nodeText(nameNode, ctx.source), "*ngFor") {
		return
	}
	value := ""
	if qv := childByKind(n, "quoted_attribute_value"); qv != nil {
		if av := childByKind(qv, "attribute_value"); av != nil {
			value = nodeText(av, ctx.source)
		}
	}
	if strings.Contains(value, "trackBy") {
		return
	}
	ctx.emit(n, r, "", result)
}

// findDecoratorString locates a `key: '...'` pair inside a decorator's
// argument object and returns the string content plus its node.
func findDecoratorString(n *tree_sitter.Node, source []byte, key string) (string, *tree_sitter.Node) {
	var found *tree_sitter.Node
	var value string

	var visit func(node *tree_sitter.Node)
	visit = func(node *tree_sitter.Node) {
		if found != nil {
			return
		}
		if node.Kind() == "pair" {
			k := node.Child(0)
			if k != nil && nodeText(k, source) == key {
				if s := childByKind(node, "string"); s != nil {
					if frag := childByKind(s, "string_fragment"); frag != nil {
						found = s
						value = nodeText(frag, source)
						return
					}
					// empty string literal
					found = s
					return
				}
			}
		}
		for i := uint(0); i < uint(node.ChildCount()); i++ {
			visit(node.Child(i))
		}
	}
	visit(n)
	return value, found
}

// declarationName extracts the declared name from a field or variable node.
func declarationName(n *tree_sitter.Node, source []byte) string {
	for _, kind := range []string{"property_identifier", "identifier", "private_property_identifier"} {
		if c := childByKind(n, kind); c != nil {
			return nodeText(c, source)
		}
	}
	return ""
}

// methodName extracts the name of a method_definition node.
func methodName(n *tree_sitter.Node, source []byte) string {
	if c := childByKind(n, "property_identifier"); c != nil {
		return nodeText(c, source)
	}
	return ""
}

// isSymbolNode returns true if this node kind declares a class/method/function.
func isSymbolNode(lang, kind string) bool {
	switch lang {
	case "typescript", "tsx", "javascript":
		return kind == "class_declaration" || kind == "method_definition" ||
			kind == "function_declaration"
	default:
		return false
	}
}

// extractSymbolName finds the identifier/name node in a symbol declaration.
func extractSymbolName(n *tree_sitter.Node, source []byte) string {
	nameKinds := []string{"type_identifier", "identifier", "property_identifier"}
	for _, kind := range nameKinds {
		if c := childByKind(n, kind); c != nil {
			return nodeText(c, source)
		}
	}
	return ""
}

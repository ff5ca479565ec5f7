// Package treesitter implements source code parsing using tree-sitter
// grammars. Five grammars are compiled in via CGo from the official
// tree-sitter repos: TypeScript, TSX, JavaScript, HTML, and CSS — the
// languages a front-end codebase is made of. The structural walker in this
// package evaluates AST-level rule checks against the parsed trees.
package treesitter

import (
	"path/filepath"
	"strings"
	"unsafe"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	ts_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
	ts_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Parser maps file extensions to grammars and produces parse trees.
type Parser struct {
	languages map[string]*tree_sitter.Language // lang name -> language
	extToLang map[string]string                // extension -> lang name
}

// NewParser creates a parser with all built-in grammars registered.
func NewParser() *Parser {
	p := &Parser{
		languages: make(map[string]*tree_sitter.Language),
		extToLang: make(map[string]string),
	}
	p.registerLanguages()
	p.registerExtensions()
	return p
}

// langPtr wraps a Language() call that returns unsafe.Pointer.
func langPtr(ptr unsafe.Pointer) *tree_sitter.Language {
	return tree_sitter.NewLanguage(ptr)
}

func (p *Parser) registerLanguages() {
	p.languages["typescript"] = langPtr(ts_typescript.LanguageTypescript())
	p.languages["tsx"] = langPtr(ts_typescript.LanguageTSX())
	p.languages["javascript"] = langPtr(ts_javascript.Language())
	p.languages["html"] = langPtr(ts_html.Language())
	p.languages["css"] = langPtr(ts_css.Language())
}

func (p *Parser) registerExtensions() {
	add := func(lang string, exts ...string) {
		for _, ext := range exts {
			p.extToLang[ext] = lang
		}
	}
	add("typescript", ".ts", ".mts", ".cts")
	add("tsx", ".tsx")
	add("javascript", ".js", ".jsx", ".mjs", ".cjs")
	add("html", ".html", ".htm")
	// SCSS parses imperfectly with the CSS grammar; text-layer rules still
	// apply, and structural checks don't target stylesheets.
	add("css", ".css", ".scss")
}

// LanguageFor determines the language name for a file path.
// Returns "" for unsupported extensions.
func (p *Parser) LanguageFor(filePath string) string {
	ext := strings.ToLower(filepath.Ext(filePath))
	return p.extToLang[ext]
}

// SupportsExtension returns true if the parser recognizes this file extension.
// Extension includes the leading dot.
func (p *Parser) SupportsExtension(ext string) bool {
	_, ok := p.extToLang[strings.ToLower(ext)]
	return ok
}

// SupportedExtensions returns all registered file extensions.
func (p *Parser) SupportedExtensions() []string {
	exts := make([]string, 0, len(p.extToLang))
	for ext := range p.extToLang {
		exts = append(exts, ext)
	}
	return exts
}

// ParseToTree parses source into an AST. Returns a nil tree for unsupported
// extensions — not an error. The caller owns the tree and must Close it.
func (p *Parser) ParseToTree(filePath string, source []byte) (*tree_sitter.Tree, string, error) {
	langName := p.LanguageFor(filePath)
	if langName == "" {
		return nil, "", nil
	}

	lang, ok := p.languages[langName]
	if !ok || len(source) == 0 {
		return nil, langName, nil
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(lang); err != nil {
		return nil, langName, err
	}

	tree := parser.Parse(source, nil)
	return tree, langName, nil
}

// nodeText returns the source text for a node.
func nodeText(n *tree_sitter.Node, source []byte) string {
	start := n.StartByte()
	end := n.EndByte()
	if int(start) >= len(source) || int(end) > len(source) {
		return ""
	}
	return string(source[start:end])
}

// childByKind finds the first child with the given kind.
func childByKind(n *tree_sitter.Node, kind string) *tree_sitter.Node {
	for i := uint(0); i < uint(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}

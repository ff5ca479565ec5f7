package treesitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_LanguageFor(t *testing.T) {
	p := NewParser()

	cases := map[string]string{
		"src/app/cart.component.ts":   "typescript",
		"src/app/cart.component.tsx":  "tsx",
		"src/main.js":                 "javascript",
		"src/app/cart.component.html": "html",
		"src/styles.css":              "css",
		"src/styles.scss":             "css",
		"README.md":                   "",
		"Makefile":                    "",
	}
	for path, want := range cases {
		assert.Equal(t, want, p.LanguageFor(path), path)
	}
}

func TestParser_SupportsExtension(t *testing.T) {
	p := NewParser()
	assert.True(t, p.SupportsExtension(".ts"))
	assert.True(t, p.SupportsExtension(".TS"))
	assert.True(t, p.SupportsExtension(".html"))
	assert.False(t, p.SupportsExtension(".go"))
	assert.False(t, p.SupportsExtension(""))
}

func TestParser_ParseTypeScript(t *testing.T) {
	p := NewParser()

	source := []byte(`export class CartComponent {
  private items$: Observable<Item[]>;
  load(): void {}
}
`)
	tree, lang, err := p.ParseToTree("cart.component.ts", source)
	require.NoError(t, err)
	require.NotNil(t, tree)
	defer tree.Close()

	assert.Equal(t, "typescript", lang)
	root := tree.RootNode()
	assert.Equal(t, "program", root.Kind())
	assert.False(t, root.HasError())
}

func TestParser_ParseHTML(t *testing.T) {
	p := NewParser()

	source := []byte(`<ul><li *ngFor="let item of items">{{ item.name }}</li></ul>`)
	tree, lang, err := p.ParseToTree("list.component.html", source)
	require.NoError(t, err)
	require.NotNil(t, tree)
	defer tree.Close()

	assert.Equal(t, "html", lang)
}

func TestParser_UnsupportedAndEmpty(t *testing.T) {
	p := NewParser()

	tree, lang, err := p.ParseToTree("main.go", []byte("package main"))
	require.NoError(t, err)
	assert.Nil(t, tree)
	assert.Equal(t, "", lang)

	tree, lang, err = p.ParseToTree("empty.ts", nil)
	require.NoError(t, err)
	assert.Nil(t, tree)
	assert.Equal(t, "typescript", lang)
}

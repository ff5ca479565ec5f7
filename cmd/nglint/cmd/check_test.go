package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/nglint/internal/app"
	"github.com/corey/nglint/internal/domain/rules"
	catalog "github.com/corey/nglint/rules"
)

func resetCheckFlags() {
	checkFormat = ""
	checkFailOn = ""
	checkRules = nil
}

func TestApplyCheckFlags_Overrides(t *testing.T) {
	resetCheckFlags()
	t.Cleanup(resetCheckFlags)

	checkFormat = "json"
	checkFailOn = "error"
	checkRules = []string{"any-type=error", "todo-marker=off"}

	cfg := app.DefaultConfig()
	require.NoError(t, applyCheckFlags(&cfg))

	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "error", cfg.FailOn)
	assert.Equal(t, "error", cfg.Rules["any-type"])
	assert.Equal(t, "off", cfg.Rules["todo-marker"])
}

func TestApplyCheckFlags_MalformedRuleEntry(t *testing.T) {
	resetCheckFlags()
	t.Cleanup(resetCheckFlags)

	cases := []string{"any-type", "=error", "any-type="}
	for _, spec := range cases {
		checkRules = []string{spec}
		cfg := app.DefaultConfig()
		err := applyCheckFlags(&cfg)
		require.Error(t, err, spec)
		assert.Contains(t, err.Error(), spec)
	}
}

func TestFormatRules_ListsKindColumn(t *testing.T) {
	all, err := rules.LoadFromFS(catalog.FS, ".")
	require.NoError(t, err)

	out := formatRules(all, "", false)

	assert.Contains(t, out, "STREAMS")
	assert.Contains(t, out, "observable-suffix")
	assert.Contains(t, out, "structural")
	assert.Contains(t, out, "composite")
	assert.Contains(t, out, "text")
	assert.Contains(t, out, "path")
}

func TestFormatRules_CategoryFilter(t *testing.T) {
	all, err := rules.LoadFromFS(catalog.FS, ".")
	require.NoError(t, err)

	out := formatRules(all, "templates", false)
	assert.Contains(t, out, "TEMPLATES")
	assert.Contains(t, out, "ngfor-trackby")
	assert.NotContains(t, out, "STREAMS")
}
package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rulesdomain "github.com/corey/nglint/internal/domain/rules"
	catalog "github.com/corey/nglint/rules"
)

// The embedded catalog must always load cleanly: every rule valid, IDs
// unique, regexes compilable.
func TestCatalog_Loads(t *testing.T) {
	rs, err := rulesdomain.LoadFromFS(catalog.FS, ".")
	require.NoError(t, err)
	assert.NotEmpty(t, rs)

	byID := make(map[string]bool)
	for _, r := range rs {
		assert.False(t, byID[r.ID], "duplicate id %s", r.ID)
		byID[r.ID] = true
		assert.NotEmpty(t, r.Label, "rule %s has no label", r.ID)
	}

	// Anchor rules the docs and tests lean on.
	for _, id := range []string{
		"observable-suffix", "nested-subscribe", "reducer-state-mutation",
		"component-selector-format", "ngfor-trackby", "any-type", "file-naming",
	} {
		assert.True(t, byID[id], "expected catalog rule %s", id)
	}
}

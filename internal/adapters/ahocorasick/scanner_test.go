package ahocorasick

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextScanner_FindsAllPatterns(t *testing.T) {
	s := NewTextScanner([]string{".subscribe(", "console.log(", ": any"})

	content := []byte(`const x: any = 1;
this.items$.subscribe(v => console.log(v));
`)

	matches := s.Scan(content)
	require.Len(t, matches, 3)

	found := map[int]bool{}
	for _, m := range matches {
		found[m.PatternIndex] = true
		assert.Equal(t, s.Pattern(m.PatternIndex), string(content[m.Start:m.End]))
	}
	assert.True(t, found[0])
	assert.True(t, found[1])
	assert.True(t, found[2])
}

func TestTextScanner_OverlappingMatches(t *testing.T) {
	// Overlapping patterns must both report.
	s := NewTextScanner([]string{"createAction", "Action("})

	matches := s.Scan([]byte(`export const load = createAction('[Cart] Load');`))
	require.Len(t, matches, 2)
}

func TestTextScanner_NoMatches(t *testing.T) {
	s := NewTextScanner([]string{".toPromise()"})
	assert.Empty(t, s.Scan([]byte("const a = firstValueFrom(obs$);")))
	assert.Empty(t, s.Scan(nil))
}

func TestTextScanner_PatternAccessors(t *testing.T) {
	s := NewTextScanner([]string{"a", "b"})
	assert.Equal(t, 2, s.PatternCount())
	assert.Equal(t, "a", s.Pattern(0))
	assert.Equal(t, "", s.Pattern(5))
	assert.Equal(t, "", s.Pattern(-1))
}

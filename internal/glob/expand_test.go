package glob

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackchuka/sift/internal/model"
)

func TestExpandBraces(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		expected []string
	}{
		{name: "no braces", pattern: "src/**/*.ts", expected: []string{"src/**/*.ts"}},
		{name: "simple group", pattern: "a/{b,c}.html", expected: []string{"a/b.html", "a/c.html"}},
		{name: "two groups", pattern: "{a,b}/{c,d}", expected: []string{"a/c", "a/d", "b/c", "b/d"}},
		{name: "nested", pattern: "{a,b{c,d}}.js", expected: []string{"a.js", "bc.js", "bd.js"}},
		{name: "empty alternative", pattern: "index{,.min}.js", expected: []string{"index.js", "index.min.js"}},
		{name: "numeric range", pattern: "page{1..3}.html", expected: []string{"page1.html", "page2.html", "page3.html"}},
		{name: "descending range", pattern: "v{3..1}", expected: []string{"v3", "v2", "v1"}},
		{name: "single alternative kept", pattern: "{x}.md", expected: []string{"{x}.md"}},
		{name: "single alternative with nested group", pattern: "{a{b,c}}", expected: []string{"{ab}", "{ac}"}},
		{name: "escaped braces", pattern: `\{a,b\}`, expected: []string{`\{a,b\}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandBraces(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExpandBraces_Malformed(t *testing.T) {
	for _, pattern := range []string{"{a,b", "a}b", "{a,{b,c}", "x{y,z}}"} {
		t.Run(pattern, func(t *testing.T) {
			_, err := ExpandBraces(pattern)
			assert.Error(t, err)
		})
	}
}

func TestExpandBraces_TooMany(t *testing.T) {
	_, err := ExpandBraces(strings.Repeat("{a,b}", 13))
	assert.ErrorIs(t, err, errTooManyExpansions)
}

func TestExpand(t *testing.T) {
	t.Run("cartesian product", func(t *testing.T) {
		got := Expand([]model.GlobEntry{{Base: "X", Pattern: "a/{b,c}.html"}})
		assert.Equal(t, []model.GlobEntry{
			{Base: "X", Pattern: "a/b.html"},
			{Base: "X", Pattern: "a/c.html"},
		}, got)
	})

	t.Run("malformed passes through", func(t *testing.T) {
		in := []model.GlobEntry{{Base: "X", Pattern: "a/{b,c.html"}}
		assert.Equal(t, in, Expand(in))
	})

	t.Run("stray closing brace passes through", func(t *testing.T) {
		in := []model.GlobEntry{{Base: "X", Pattern: "a}b/*.html"}}
		assert.Equal(t, in, Expand(in))
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		got := Expand([]model.GlobEntry{{Base: "X", Pattern: "{a,a,b}"}})
		assert.Equal(t, []model.GlobEntry{
			{Base: "X", Pattern: "a"},
			{Base: "X", Pattern: "b"},
		}, got)
	})

	t.Run("order across entries preserved", func(t *testing.T) {
		got := Expand([]model.GlobEntry{
			{Base: "B", Pattern: "*.css"},
			{Base: "A", Pattern: "{x,y}.js"},
		})
		assert.Equal(t, []model.GlobEntry{
			{Base: "B", Pattern: "*.css"},
			{Base: "A", Pattern: "x.js"},
			{Base: "A", Pattern: "y.js"},
		}, got)
	})
}

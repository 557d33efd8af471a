// internal/model/source.go
package model

import (
	"path/filepath"
	"strings"
)

// GlobEntry is one file-selection rule, always evaluated as Base joined with Pattern.
type GlobEntry struct {
	Base    string `yaml:"base"`
	Pattern string `yaml:"pattern"`
}

// Path returns the base and pattern joined into a single path-like string.
func (g GlobEntry) Path() string {
	if g.Pattern == "" {
		return g.Base
	}
	return filepath.Join(g.Base, g.Pattern)
}

func (g GlobEntry) String() string {
	return g.Base + ":" + g.Pattern
}

// ParseGlobEntry parses the "base:pattern" form used on the command line.
// A value without a separator is a pattern relative to the current directory.
func ParseGlobEntry(s string) GlobEntry {
	idx := strings.LastIndex(s, ":")
	if idx <= 0 {
		return GlobEntry{Base: ".", Pattern: s}
	}
	return GlobEntry{Base: s[:idx], Pattern: s[idx+1:]}
}

// ChangedContent is a unit of input for extraction. Inline Content wins when
// present; otherwise File is read from disk.
type ChangedContent struct {
	File    string
	Content *string
}

func FileContent(path string) ChangedContent {
	return ChangedContent{File: path}
}

func InlineContent(content string) ChangedContent {
	return ChangedContent{Content: &content}
}

// IsInline reports whether the item carries its own content.
func (c ChangedContent) IsInline() bool {
	return c.Content != nil
}

// Position is a candidate occurrence at a byte offset of its input.
type Position struct {
	Candidate string
	Offset    int
}

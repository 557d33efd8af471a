// internal/scanner/content.go
package scanner

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackchuka/sift/internal/model"
)

// Preprocessor rewrites file content before extraction.
type Preprocessor func(content []byte) []byte

func defaultPreprocessors() map[string]Preprocessor {
	return map[string]Preprocessor{
		".svelte": svelteClassDirectives,
	}
}

// svelteClassDirectives turns `class:active={on}` into `active={on}` so the
// directive's class name is seen as a standalone candidate.
func svelteClassDirectives(content []byte) []byte {
	return bytes.ReplaceAll(content, []byte(" class:"), []byte(" "))
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// readContent returns the bytes to extract from an item. Inline content is
// used verbatim; file content passes through the extension's preprocessor.
func (s *Scanner) readContent(item model.ChangedContent) ([]byte, bool) {
	if item.Content != nil {
		return []byte(*item.Content), true
	}
	if item.File == "" {
		return nil, false
	}

	data, err := os.ReadFile(item.File)
	if err != nil {
		s.log.Warn("failed to read file", slog.String("path", item.File), slog.Any("error", err))
		return nil, false
	}

	if fn, ok := s.opts.preprocessors[strings.ToLower(filepath.Ext(item.File))]; ok {
		data = fn(data)
	}
	return data, true
}

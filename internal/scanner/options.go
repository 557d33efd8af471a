// internal/scanner/options.go
package scanner

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/jackchuka/sift/internal/sources"
)

// Option configures a Scanner.
type Option func(*options) error

type options struct {
	logger            *slog.Logger
	workers           int
	preprocessors     map[string]Preprocessor
	ignoredExtensions []string
	ignoredDirs       []string
	trace             bool
	positionCacheSize int
}

const defaultPositionCacheSize = 256

func defaultOptions() options {
	return options{
		logger:            slog.New(slog.DiscardHandler),
		workers:           runtime.NumCPU(),
		preprocessors:     defaultPreprocessors(),
		ignoredDirs:       sources.DefaultIgnoredDirs,
		positionCacheSize: defaultPositionCacheSize,
	}
}

// WithLogger sets the logger used for warnings and trace output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) error {
		if l != nil {
			o.logger = l
		}
		return nil
	}
}

// WithWorkers bounds the number of files read and extracted concurrently.
// Zero selects the number of CPUs.
func WithWorkers(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return fmt.Errorf("workers must not be negative, got %d", n)
		}
		if n == 0 {
			n = runtime.NumCPU()
		}
		o.workers = n
		return nil
	}
}

// WithPreprocessor registers a content transform for files with the given
// extension, replacing any existing one.
func WithPreprocessor(ext string, fn Preprocessor) Option {
	return func(o *options) error {
		key := normalizeExt(ext)
		if key == "" {
			return errors.New("preprocessor extension must not be empty")
		}
		if fn == nil {
			return fmt.Errorf("preprocessor for %s must not be nil", key)
		}
		o.preprocessors[key] = fn
		return nil
	}
}

// WithIgnoredExtensions adds extensions skipped during auto detection on top
// of the built-in binary denylist.
func WithIgnoredExtensions(exts ...string) Option {
	return func(o *options) error {
		o.ignoredExtensions = append(o.ignoredExtensions, exts...)
		return nil
	}
}

// WithIgnoredDirs replaces the directory names skipped by every walk.
func WithIgnoredDirs(dirs ...string) Option {
	return func(o *options) error {
		o.ignoredDirs = dirs
		return nil
	}
}

// WithTrace enables debug-level timing and count diagnostics.
func WithTrace(enabled bool) Option {
	return func(o *options) error {
		o.trace = enabled
		return nil
	}
}

// WithPositionCacheSize sets how many file-backed positional extractions are
// cached. Zero disables the cache.
func WithPositionCacheSize(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return fmt.Errorf("position cache size must not be negative, got %d", n)
		}
		o.positionCacheSize = n
		return nil
	}
}

// internal/sources/extensions.go
package sources

import (
	"path/filepath"
	"strings"
)

// DefaultIgnoredExtensions lists file types that never contain readable
// class names: images, fonts, archives, media, compiled objects.
var DefaultIgnoredExtensions = []string{
	// images
	".png", ".jpg", ".jpeg", ".gif", ".webp", ".avif", ".ico", ".bmp", ".tif", ".tiff", ".psd", ".heic",
	// fonts
	".woff", ".woff2", ".ttf", ".otf", ".eot",
	// archives
	".zip", ".gz", ".tgz", ".bz2", ".xz", ".zst", ".7z", ".rar", ".tar", ".jar", ".war",
	// media
	".mp3", ".mp4", ".m4a", ".wav", ".ogg", ".flac", ".webm", ".mov", ".avi", ".mkv",
	// documents and compiled output
	".pdf", ".exe", ".dll", ".so", ".dylib", ".o", ".a", ".class", ".pyc", ".wasm", ".bin",
	".db", ".sqlite", ".lock", ".lockb", ".map",
}

// DefaultIgnoredFiles lists lock files and other generated names that are
// skipped during auto detection.
var DefaultIgnoredFiles = []string{
	"package-lock.json",
	"npm-shrinkwrap.json",
	"pnpm-lock.yaml",
	"yarn.lock",
	"bun.lockb",
	"composer.lock",
	"Gemfile.lock",
	"Cargo.lock",
	"poetry.lock",
	"go.sum",
	".DS_Store",
}

// DefaultIgnoredDirs lists dependency and build directories skipped by
// every walk. A .git directory is always skipped.
var DefaultIgnoredDirs = []string{
	"node_modules",
	"vendor",
	".cache",
	".npm",
	".pnpm-store",
	"__pycache__",
	".venv",
	".svn",
	".hg",
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func toSet(items []string, normalize func(string) string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		if normalize != nil {
			item = normalize(item)
		}
		if item != "" {
			set[item] = struct{}{}
		}
	}
	return set
}

func extOf(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

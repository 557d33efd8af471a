// internal/config/debug.go
package config

import (
	"os"
	"strings"
	"sync"
)

var debugFromEnv = sync.OnceValue(func() bool {
	return ParseDebug(os.Getenv("DEBUG"))
})

// Debug reports whether the DEBUG environment variable enables verbose
// diagnostics. It is read once per process.
func Debug() bool {
	return debugFromEnv()
}

// ParseDebug accepts "*", "1", "true", or any value mentioning sift.
func ParseDebug(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "*", "1", "true":
		return true
	}
	return strings.Contains(v, "sift")
}

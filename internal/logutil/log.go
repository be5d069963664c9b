package logutil

import (
	"strings"

	"github.com/rs/zerolog"
)

// Setup configures the process-wide log level. Unknown values fall back
// to info rather than failing startup.
func Setup(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

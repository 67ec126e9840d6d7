package utils

import (
	"os"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog.Logger tagged with the service name. Unknown levels fall
// back to info.
func NewLogger(serviceName, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}

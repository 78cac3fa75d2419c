package config

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a text logger writing to w. The level comes from
// DWG_EXTRACT_LOG_LEVEL (debug, info, warn, error) and defaults to info.
func NewLogger(w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(LogLevel(os.Getenv(EnvLogLevel)))
	return log
}

// LogLevel parses a level name, falling back to info for empty or unknown names.
func LogLevel(name string) logrus.Level {
	level, err := logrus.ParseLevel(strings.TrimSpace(name))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

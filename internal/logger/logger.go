// Package logger builds the service logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/eventplanner/eventplanner-api/internal/config"
)

// New returns a logger writing to stderr, configured from cfg.
func New(cfg config.LogConfig) *log.Logger {
	return NewWithWriter(os.Stderr, cfg)
}

// NewWithWriter returns a logger writing to w, configured from cfg.
func NewWithWriter(w io.Writer, cfg config.LogConfig) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
	})

	if lvl, err := log.ParseLevel(strings.ToLower(cfg.Level)); err == nil {
		logger.SetLevel(lvl)
	} else if cfg.Level != "" {
		logger.Warn("unknown log level, using info", "level", cfg.Level)
	}

	switch strings.ToLower(cfg.Format) {
	case "json":
		logger.SetFormatter(log.JSONFormatter)
	case "logfmt":
		logger.SetFormatter(log.LogfmtFormatter)
	case "text", "":
		logger.SetFormatter(log.TextFormatter)
	}

	return logger
}

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SlowQueryThreshold is the duration after which a statement is logged as slow.
const SlowQueryThreshold = 200 * time.Millisecond

// Logger adapts a charm logger to gorm's logger interface.
type Logger struct {
	logger *log.Logger
	level  gormlogger.LogLevel
	trace  bool
}

var _ gormlogger.Interface = (*Logger)(nil)

// NewLogger returns a gorm logger. When trace is set every statement is
// logged at debug level. A nil logger discards everything.
func NewLogger(logger *log.Logger, trace bool) *Logger {
	lvl := gormlogger.Warn
	if logger == nil {
		lvl = gormlogger.Silent
	}
	return &Logger{logger: logger, level: lvl, trace: trace}
}

// LogMode implements gormlogger.Interface.
func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	nl := *l
	nl.level = level
	return &nl
}

// Info implements gormlogger.Interface.
func (l *Logger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.enabled(gormlogger.Info) {
		l.logger.Info(fmt.Sprintf(msg, args...))
	}
}

// Warn implements gormlogger.Interface.
func (l *Logger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.enabled(gormlogger.Warn) {
		l.logger.Warn(fmt.Sprintf(msg, args...))
	}
}

// Error implements gormlogger.Interface.
func (l *Logger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.enabled(gormlogger.Error) {
		l.logger.Error(fmt.Sprintf(msg, args...))
	}
}

// Trace implements gormlogger.Interface.
func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if !l.enabled(gormlogger.Error) {
		return
	}

	elapsed := time.Since(begin)
	switch {
	// Missing rows and constraint hits are expected outcomes, reported by the callers.
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && WrapError(err) != ErrDuplicate:
		query, rows := fc()
		l.logger.Error("query failed", "err", err, "query", squash(query), "rows", rows, "elapsed", elapsed)
	case elapsed > SlowQueryThreshold && l.enabled(gormlogger.Warn):
		query, rows := fc()
		l.logger.Warn("slow query", "query", squash(query), "rows", rows, "elapsed", elapsed)
	case l.trace:
		query, rows := fc()
		l.logger.Debug("trace", "query", squash(query), "rows", rows, "elapsed", elapsed)
	}
}

func (l *Logger) enabled(level gormlogger.LogLevel) bool {
	return l.logger != nil && l.level >= level
}

func squash(query string) string {
	query = strings.ReplaceAll(query, "\t", "")
	query = strings.ReplaceAll(query, "\n", " ")
	return strings.TrimSpace(query)
}

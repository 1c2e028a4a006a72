// Package log is the process-wide logging facade. Calls take a printf-style format,
// matching the rest of the code base; output is produced by zap.
package log

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

var (
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger atomic.Pointer[zap.SugaredLogger]
)

func init() {
	l, err := newConfig(nil).Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	logger.Store(l.Sugar())
}

func newConfig(outputs []string) zap.Config {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}
	return zap.Config{
		Level:            level,
		Encoding:         "console",
		EncoderConfig:    encCfg,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	}
}

// ParseLevel maps a config level name onto a zap level.
func ParseLevel(name string) (zapcore.Level, error) {
	switch strings.ToLower(name) {
	case LevelDebug:
		return zapcore.DebugLevel, nil
	case LevelInfo, "":
		return zapcore.InfoLevel, nil
	case LevelWarn:
		return zapcore.WarnLevel, nil
	case LevelError:
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, errors.Errorf("invalid log level[%v]", name)
}

// InitFileLog redirects output to <logPath>/<module>.log at the given level.
// An empty logPath keeps logging on stderr.
func InitFileLog(logPath, module, levelName string) error {
	lvl, err := ParseLevel(levelName)
	if err != nil {
		return err
	}
	var outputs []string
	if logPath != "" {
		if err := os.MkdirAll(logPath, os.ModePerm); err != nil {
			return errors.Wrapf(err, "create log path[%v]", logPath)
		}
		outputs = []string{filepath.Join(logPath, module+".log")}
	}
	l, err := newConfig(outputs).Build(zap.AddCallerSkip(1))
	if err != nil {
		return errors.Wrap(err, "build logger")
	}
	level.SetLevel(lvl)
	if old := logger.Swap(l.Sugar()); old != nil {
		_ = old.Sync()
	}
	return nil
}

// SetLevel changes the level of the active logger.
func SetLevel(levelName string) error {
	lvl, err := ParseLevel(levelName)
	if err != nil {
		return err
	}
	level.SetLevel(lvl)
	return nil
}

// IsDebug reports whether debug output is enabled.
func IsDebug() bool {
	return level.Enabled(zapcore.DebugLevel)
}

// Sugar exposes the underlying logger for adapters.
func Sugar() *zap.SugaredLogger {
	return logger.Load()
}

func Sync() {
	_ = logger.Load().Sync()
}

func Debug(format string, args ...interface{}) {
	logger.Load().Debugf(format, args...)
}

func Info(format string, args ...interface{}) {
	logger.Load().Infof(format, args...)
}

func Warn(format string, args ...interface{}) {
	logger.Load().Warnf(format, args...)
}

func Error(format string, args ...interface{}) {
	logger.Load().Errorf(format, args...)
}

func Fatal(format string, args ...interface{}) {
	logger.Load().Fatalf(format, args...)
}

func Panic(format string, args ...interface{}) {
	logger.Load().Panicf(format, args...)
}

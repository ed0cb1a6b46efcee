package logging

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/janisto/greeting-service/internal/platform/timeutil"
)

// severities are the Cloud Logging names for zap levels.
var severities = map[zapcore.Level]string{
	zapcore.DebugLevel:  "DEBUG",
	zapcore.InfoLevel:   "INFO",
	zapcore.WarnLevel:   "WARNING",
	zapcore.ErrorLevel:  "ERROR",
	zapcore.DPanicLevel: "CRITICAL",
	zapcore.PanicLevel:  "ALERT",
	zapcore.FatalLevel:  "EMERGENCY",
}

var (
	initOnce   sync.Once
	procLogger *zap.Logger
	procErr    error
	level      = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

func encodeSeverity(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	s, ok := severities[l]
	if !ok {
		s = "DEFAULT"
	}
	enc.AppendString(s)
}

func encodeTimeMicros(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.UTC().Format(timeutil.RFC3339Micros))
}

// newProcessLogger writes JSON lines to stdout using the field names Cloud
// Logging recognises: timestamp, severity, message.
func newProcessLogger() (*zap.Logger, error) {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "timestamp"
	enc.LevelKey = "severity"
	enc.MessageKey = "message"
	enc.EncodeTime = encodeTimeMicros
	enc.EncodeLevel = encodeSeverity

	cfg := zap.Config{
		Level:            level,
		Encoding:         "json",
		EncoderConfig:    enc,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stdout"},
	}
	return cfg.Build(zap.AddCaller())
}

func initProcessLogger() {
	procLogger, procErr = newProcessLogger()
	if procErr != nil {
		procLogger = zap.NewNop()
	}
}

// SetLevel changes the minimum level of the process logger and every logger
// derived from it. name is a zap level name such as "debug" or "warn".
func SetLevel(name string) error {
	l, err := zapcore.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", name, err)
	}
	level.SetLevel(l)
	return nil
}

// Logger returns the process logger, building it on first use.
func Logger() *zap.Logger {
	initOnce.Do(initProcessLogger)
	return procLogger
}

func Sugar() *zap.SugaredLogger {
	return Logger().Sugar()
}

// Sync flushes buffered entries. Call before the process exits.
func Sync() error {
	return Logger().Sync()
}

// Err reports why the process logger could not be built. A no-op logger is
// used in that case.
func Err() error {
	initOnce.Do(initProcessLogger)
	return procErr
}

//
//
// Tencent is pleased to support the open source community by making tRPC available.
//
// Copyright (C) 2023 Tencent.
// All rights reserved.
//
// If you have downloaded a copy of the tRPC source code from Tencent,
// please note that tRPC source code is licensed under the  Apache 2.0 License,
// A copy of the Apache 2.0 License is included in this file.
//
//

package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lestrrat-go/strftime"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"trpc.group/trpc-go/linkstack/errs"
)

var defaultConfig = Config{
	{
		Writer:    OutputConsole,
		Level:     "debug",
		Formatter: "console",
	},
}

// Levels is the map from string to zapcore.Level.
var Levels = map[string]zapcore.Level{
	"":      zapcore.DebugLevel,
	"trace": zapcore.DebugLevel,
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
	"fatal": zapcore.FatalLevel,
}

var levelToZapLevel = map[Level]zapcore.Level{
	LevelTrace: zapcore.DebugLevel,
	LevelDebug: zapcore.DebugLevel,
	LevelInfo:  zapcore.InfoLevel,
	LevelWarn:  zapcore.WarnLevel,
	LevelError: zapcore.ErrorLevel,
	LevelFatal: zapcore.FatalLevel,
}

var zapLevelToLevel = map[zapcore.Level]Level{
	zapcore.DebugLevel: LevelDebug,
	zapcore.InfoLevel:  LevelInfo,
	zapcore.WarnLevel:  LevelWarn,
	zapcore.ErrorLevel: LevelError,
	zapcore.FatalLevel: LevelFatal,
}

// NewZapLog creates a Logger from zap whose caller skip is set to 2.
func NewZapLog(c Config) (Logger, error) {
	return NewZapLogWithCallerSkip(c, 2)
}

// NewZapLogWithCallerSkip creates a Logger from zap, teeing one core per output.
func NewZapLogWithCallerSkip(cfg Config, callerSkip int) (Logger, error) {
	var (
		cores   []zapcore.Core
		levels  []zap.AtomicLevel
		closers []io.Closer
	)
	for i := range cfg {
		c := &cfg[i]
		if _, ok := Levels[c.Level]; !ok {
			closeAll(closers)
			return nil, errs.Newf(errs.RetConfigInvalid, "log: output %d: unknown level %q", i, c.Level)
		}
		ws, closer, err := newWriteSyncer(c)
		if err != nil {
			closeAll(closers)
			return nil, err
		}
		if closer != nil {
			closers = append(closers, closer)
		}
		lvl := zap.NewAtomicLevelAt(Levels[c.Level])
		cores = append(cores, zapcore.NewCore(newEncoder(c), ws, lvl))
		levels = append(levels, lvl)
	}
	return &zapLog{
		levels:  levels,
		closers: closers,
		logger: zap.New(
			zapcore.NewTee(cores...),
			zap.AddCallerSkip(callerSkip),
			zap.AddCaller(),
		),
	}, nil
}

// NewZapLogWithCore wraps an existing zap core, mainly for tests and embedding.
func NewZapLogWithCore(core zapcore.Core, level zap.AtomicLevel) Logger {
	return &zapLog{
		levels: []zap.AtomicLevel{level},
		logger: zap.New(core, zap.AddCallerSkip(2), zap.AddCaller()),
	}
}

// newWriteSyncer returns the writer of an output and, for files, the closer
// releasing it.
func newWriteSyncer(c *OutputConfig) (zapcore.WriteSyncer, io.Closer, error) {
	switch c.Writer {
	case OutputConsole:
		return zapcore.Lock(os.Stdout), nil, nil
	case OutputFile:
		f, err := newFileWriter(c.WriteConfig.Filename)
		if err != nil {
			return nil, nil, err
		}
		return zapcore.Lock(f), f, nil
	default:
		return nil, nil, errs.Newf(errs.RetConfigInvalid, "log: writer %q not supported", c.Writer)
	}
}

// newFileWriter opens the file named by expanding pattern at the current time.
func newFileWriter(pattern string) (*os.File, error) {
	if pattern == "" {
		return nil, errs.New(errs.RetConfigInvalid, "log: file writer requires write_config.filename")
	}
	p, err := strftime.New(pattern)
	if err != nil {
		return nil, errs.Wrapf(err, errs.RetConfigInvalid, "log: bad filename pattern %q", pattern)
	}
	name := p.FormatString(time.Now())
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return nil, errs.Wrapf(err, errs.RetConfigInvalid, "log: create dir for %s", name)
	}
	f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errs.Wrapf(err, errs.RetConfigInvalid, "log: open %s", name)
	}
	return f, nil
}

func closeAll(closers []io.Closer) error {
	var err error
	for _, c := range closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}

func newEncoder(c *OutputConfig) zapcore.Encoder {
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        encoderKey("T", c.FormatConfig.TimeKey),
		LevelKey:       encoderKey("L", c.FormatConfig.LevelKey),
		NameKey:        encoderKey("N", c.FormatConfig.NameKey),
		CallerKey:      encoderKey("C", c.FormatConfig.CallerKey),
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     encoderKey("M", c.FormatConfig.MessageKey),
		StacktraceKey:  encoderKey("S", c.FormatConfig.StacktraceKey),
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     NewTimeEncoder(c.FormatConfig.TimeFmt),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if c.EnableColor {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if c.Formatter == "json" {
		return zapcore.NewJSONEncoder(encoderCfg)
	}
	return zapcore.NewConsoleEncoder(encoderCfg)
}

func encoderKey(defKey, key string) string {
	if key == "" {
		return defKey
	}
	return key
}

// NewTimeEncoder creates a time format encoder.
func NewTimeEncoder(format string) zapcore.TimeEncoder {
	switch format {
	case "":
		return zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	case "seconds":
		return zapcore.EpochTimeEncoder
	case "milliseconds":
		return zapcore.EpochMillisTimeEncoder
	case "nanoseconds":
		return zapcore.EpochNanosTimeEncoder
	default:
		return zapcore.TimeEncoderOfLayout(format)
	}
}

// zapLog is a Logger implementation based on zap.
type zapLog struct {
	levels  []zap.AtomicLevel
	logger  *zap.Logger
	closers []io.Closer // files opened by NewZapLog, nil on loggers from With.
}

// With adds user defined fields to Logger. Field support multiple values.
func (l *zapLog) With(fields ...Field) Logger {
	zapFields := make([]zap.Field, len(fields))
	for i := range fields {
		zapFields[i] = zap.Any(fields[i].Key, fields[i].Value)
	}
	return &zapLog{
		levels: l.levels,
		logger: l.logger.With(zapFields...),
	}
}

func (l *zapLog) enabled(lvl zapcore.Level) bool {
	return l.logger.Core().Enabled(lvl)
}

// Trace logs to TRACE log when trace is enabled.
func (l *zapLog) Trace(args ...interface{}) {
	if traceEnabled && l.enabled(zapcore.DebugLevel) {
		l.logger.Debug(fmt.Sprint(args...))
	}
}

// Tracef logs to TRACE log when trace is enabled.
func (l *zapLog) Tracef(format string, args ...interface{}) {
	if traceEnabled && l.enabled(zapcore.DebugLevel) {
		l.logger.Debug(fmt.Sprintf(format, args...))
	}
}

// Debug logs to DEBUG log. Arguments are handled in the manner of fmt.Print.
func (l *zapLog) Debug(args ...interface{}) {
	if l.enabled(zapcore.DebugLevel) {
		l.logger.Debug(fmt.Sprint(args...))
	}
}

// Debugf logs to DEBUG log. Arguments are handled in the manner of fmt.Printf.
func (l *zapLog) Debugf(format string, args ...interface{}) {
	if l.enabled(zapcore.DebugLevel) {
		l.logger.Debug(fmt.Sprintf(format, args...))
	}
}

// Info logs to INFO log. Arguments are handled in the manner of fmt.Print.
func (l *zapLog) Info(args ...interface{}) {
	if l.enabled(zapcore.InfoLevel) {
		l.logger.Info(fmt.Sprint(args...))
	}
}

// Infof logs to INFO log. Arguments are handled in the manner of fmt.Printf.
func (l *zapLog) Infof(format string, args ...interface{}) {
	if l.enabled(zapcore.InfoLevel) {
		l.logger.Info(fmt.Sprintf(format, args...))
	}
}

// Warn logs to WARNING log. Arguments are handled in the manner of fmt.Print.
func (l *zapLog) Warn(args ...interface{}) {
	if l.enabled(zapcore.WarnLevel) {
		l.logger.Warn(fmt.Sprint(args...))
	}
}

// Warnf logs to WARNING log. Arguments are handled in the manner of fmt.Printf.
func (l *zapLog) Warnf(format string, args ...interface{}) {
	if l.enabled(zapcore.WarnLevel) {
		l.logger.Warn(fmt.Sprintf(format, args...))
	}
}

// Error logs to ERROR log. Arguments are handled in the manner of fmt.Print.
func (l *zapLog) Error(args ...interface{}) {
	if l.enabled(zapcore.ErrorLevel) {
		l.logger.Error(fmt.Sprint(args...))
	}
}

// Errorf logs to ERROR log. Arguments are handled in the manner of fmt.Printf.
func (l *zapLog) Errorf(format string, args ...interface{}) {
	if l.enabled(zapcore.ErrorLevel) {
		l.logger.Error(fmt.Sprintf(format, args...))
	}
}

// Fatal logs to FATAL log. Arguments are handled in the manner of fmt.Print.
func (l *zapLog) Fatal(args ...interface{}) {
	if l.enabled(zapcore.FatalLevel) {
		l.logger.Fatal(fmt.Sprint(args...))
	}
}

// Fatalf logs to FATAL log. Arguments are handled in the manner of fmt.Printf.
func (l *zapLog) Fatalf(format string, args ...interface{}) {
	if l.enabled(zapcore.FatalLevel) {
		l.logger.Fatal(fmt.Sprintf(format, args...))
	}
}

// Sync calls the zap logger's Sync method, flushing any buffered log entries.
func (l *zapLog) Sync() error {
	return l.logger.Sync()
}

// Close flushes the logger and closes the files it opened. The logger must
// not be used afterwards. Loggers returned by With only flush.
func (l *zapLog) Close() error {
	if len(l.closers) == 0 {
		return l.Sync()
	}
	err := l.Sync()
	closers := l.closers
	l.closers = nil
	return multierr.Append(err, closeAll(closers))
}

// SetLevel sets output log level.
func (l *zapLog) SetLevel(output string, level Level) {
	i, e := strconv.Atoi(output)
	if e != nil || i < 0 || i >= len(l.levels) {
		return
	}
	l.levels[i].SetLevel(levelToZapLevel[level])
}

// GetLevel gets output log level.
func (l *zapLog) GetLevel(output string) Level {
	i, e := strconv.Atoi(output)
	if e != nil || i < 0 || i >= len(l.levels) {
		return LevelDebug
	}
	return zapLevelToLevel[l.levels[i].Level()]
}

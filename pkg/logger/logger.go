package logger

import (
	"context"
	"fmt"
	multi "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
)

const (
	LevelTrace = slog.Level(-8)
	LevelFatal = slog.Level(12)
)

const DefaultLogFile = "logs/main.log"

type Logger interface {
	SetLogLevel(levelStr string)
	GetLogLevel() string

	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, err error, args ...any)
	Fatal(msg string, err error, args ...any)
}

type SlogLogger struct {
	log        *slog.Logger
	level      *slog.LevelVar
	levelNames map[slog.Leveler]string
	exit       func(code int)
}

// New writes human readable records to stdout and JSON records to a rotated file.
// An empty logFile disables the file sink.
func New(logFile string) *SlogLogger {
	return NewWithWriter(os.Stdout, logFile)
}

// NewWithWriter is New with the console sink replaced by w.
func NewWithWriter(w io.Writer, logFile string) *SlogLogger {
	l := &SlogLogger{
		level: &slog.LevelVar{},
		levelNames: map[slog.Leveler]string{
			LevelTrace: "TRACE",
			LevelFatal: "FATAL",
		},
		exit: os.Exit,
	}
	l.level.Set(slog.LevelInfo)

	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     l.level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				level, ok := a.Value.Any().(slog.Level)
				if !ok {
					return a
				}
				levelLabel, exists := l.levelNames[level]
				if !exists {
					levelLabel = level.String()
				}

				a.Value = slog.StringValue(levelLabel)
			}
			if a.Key == "source" {
				a.Value = slog.StringValue(callerOutsideLogger(10))
			}

			return a
		},
	}

	handlers := []slog.Handler{slog.NewTextHandler(w, opts)}
	if logFile != "" {
		handlers = append(handlers, slog.NewJSONHandler(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    64,
			MaxBackups: 32,
			MaxAge:     30,
			Compress:   true,
		}, opts))
	}

	l.log = slog.New(multi.Fanout(handlers...))
	return l
}

// Discard returns a logger that drops everything; used by tests.
func Discard() *SlogLogger {
	return NewWithWriter(io.Discard, "")
}

func (l *SlogLogger) SetLogLevel(levelStr string) {
	switch levelStr {
	case "trace":
		l.level.Set(LevelTrace)
	case "debug":
		l.level.Set(slog.LevelDebug)
	case "info":
		l.level.Set(slog.LevelInfo)
	case "warn":
		l.level.Set(slog.LevelWarn)
	case "error":
		l.level.Set(slog.LevelError)
	case "fatal":
		l.level.Set(LevelFatal)
	default:
		l.level.Set(slog.LevelInfo)
	}
}

func (l *SlogLogger) GetLogLevel() string {
	switch l.level.Level() {
	case LevelTrace:
		return "trace"
	case slog.LevelDebug:
		return "debug"
	case slog.LevelInfo:
		return "info"
	case slog.LevelWarn:
		return "warn"
	case slog.LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}

	return "info"
}

func (l *SlogLogger) Trace(msg string, args ...any) {
	l.log.Log(context.Background(), LevelTrace, msg, args...)
}

func (l *SlogLogger) Debug(msg string, args ...any) {
	l.log.Debug(msg, args...)
}

func (l *SlogLogger) Info(msg string, args ...any) {
	l.log.Info(msg, args...)
}

func (l *SlogLogger) Warn(msg string, args ...any) {
	l.log.Warn(msg, args...)
}

func (l *SlogLogger) Error(msg string, err error, args ...any) {
	if err != nil {
		l.log.Error(msg, append([]any{slog.Any("error", err.Error())}, args...)...)
	} else {
		l.log.Error(msg, args...)
	}
}

// Fatal logs and terminates the process with exit code 1.
func (l *SlogLogger) Fatal(msg string, err error, args ...any) {
	if err != nil {
		l.log.Log(context.Background(), LevelFatal, msg, append([]any{slog.Any("error", err.Error())}, args...)...)
	} else {
		l.log.Log(context.Background(), LevelFatal, msg, args...)
	}

	l.exit(1)
}

func callerOutsideLogger(skip int) string {
	for i := skip; ; i++ {
		_, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		if !strings.Contains(file, "logger") {
			return fmt.Sprintf("%s:%d", file, line)
		}
	}
	return "unknown"
}

// Package log provides the structured logger shared by the player.
package log

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"
	"sync"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger    = logrus.New()
	sessionID = uuid.NewString()
	mu        sync.RWMutex
)

// SessionKey is the field carrying the per-run identifier.
const SessionKey = "session_id"

type Fields = logrus.Fields

// Options configures the logger.
type Options struct {
	// Level is a logrus level name ("debug", "info", ...).
	Level string
	// File, when set, receives a copy of the log with size-based rotation.
	File string
	// Output replaces stderr; used by tests.
	Output io.Writer
}

// Setup configures the package logger and returns it.
func Setup(opts Options) (*logrus.Logger, error) {
	l := logrus.New()

	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	l.SetLevel(level)

	l.SetFormatter(&formatter.Formatter{
		NoColors:        opts.Output != nil,
		TimestampFormat: "02 Jan 06 - 15:04:05",
		HideKeys:        false,
		CallerFirst:     true,
		CustomCallerFormatter: func(f *runtime.Frame) string {
			s := strings.Split(f.Function, ".")
			funcName := s[len(s)-1]
			return fmt.Sprintf(" [%s:%d][%s()]", path.Base(f.File), f.Line, funcName)
		},
	})

	var out io.Writer = os.Stderr
	if opts.Output != nil {
		out = opts.Output
	}
	writers := []io.Writer{out}
	if opts.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.File,
			LocalTime:  true,
			Compress:   true,
			MaxSize:    20,
			MaxAge:     7,
			MaxBackups: 3,
		})
	}
	l.SetOutput(io.MultiWriter(writers...))
	l.SetReportCaller(level >= logrus.DebugLevel)

	mu.Lock()
	logger = l
	mu.Unlock()

	return l, nil
}

func current() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// entry builds a log entry from a copy of fields, so callers may reuse
// their map.
func entry(fields Fields) *logrus.Entry {
	out := make(Fields, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out[SessionKey] = sessionID
	return current().WithFields(out)
}

func Debug(fields Fields, msg string) {
	entry(fields).Debug(msg)
}

func Info(fields Fields, msg string) {
	entry(fields).Info(msg)
}

func Warn(fields Fields, msg string) {
	entry(fields).Warn(msg)
}

func Error(fields Fields, msg string) {
	entry(fields).Error(msg)
}

// Fatal logs msg and exits the process with status 1.
func Fatal(fields Fields, msg string) {
	entry(fields).Fatal(msg)
}

// ErrorWithTraceID logs msg with a fresh trace_id and returns it so the
// caller can show it to the user.
func ErrorWithTraceID(fields Fields, msg string) string {
	traceID := "unknown"
	if id, err := uuid.NewRandom(); err == nil {
		traceID = id.String()
	}

	entry(fields).WithField("trace_id", traceID).Error(msg)

	return traceID
}

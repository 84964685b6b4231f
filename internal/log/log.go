// Package log provides the process-wide structured logger for asana.
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
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger *logrus.Logger
	once   sync.Once
)

// Fields is an alias so callers don't need to import logrus.
type Fields = logrus.Fields

// Options controls how the logger is built. It is applied once; later calls
// to Init are no-ops.
type Options struct {
	Level string
	File  string
}

// Init builds the global logger. Output goes to stderr and, when File is
// set, to a size-rotated log file.
func Init(opts Options) *logrus.Logger {
	once.Do(func() {
		logger = logrus.New()

		level, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			level = logrus.InfoLevel
		}
		logger.SetLevel(level)

		logger.SetFormatter(&formatter.Formatter{
			TimestampFormat: "15:04:05.000",
			HideKeys:        false,
			CallerFirst:     true,
			CustomCallerFormatter: func(f *runtime.Frame) string {
				s := strings.Split(f.Function, ".")
				funcName := s[len(s)-1]
				return fmt.Sprintf(" [%s:%d][%s()]", path.Base(f.File), f.Line, funcName)
			},
		})

		writers := []io.Writer{os.Stderr}
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

		logger.SetOutput(io.MultiWriter(writers...))
		logger.SetReportCaller(true)
	})

	return logger
}

// L returns the global logger, building a default one if Init was never called.
func L() *logrus.Logger {
	if logger == nil {
		return Init(Options{Level: "info"})
	}
	return logger
}

func Debug(fields Fields, msg string) {
	L().WithFields(orEmpty(fields)).Debug(msg)
}

func Info(fields Fields, msg string) {
	L().WithFields(orEmpty(fields)).Info(msg)
}

func Warn(fields Fields, msg string) {
	L().WithFields(orEmpty(fields)).Warn(msg)
}

func Error(fields Fields, msg string) {
	L().WithFields(orEmpty(fields)).Error(msg)
}

func Fatal(fields Fields, msg string) {
	L().WithFields(orEmpty(fields)).Fatal(msg)
}

func orEmpty(fields Fields) Fields {
	if fields == nil {
		return Fields{}
	}
	return fields
}

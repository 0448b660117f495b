package logger

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options параметры логгера
type Options struct {
	Level  string // debug, info, warn, error
	Format string // json или text
	File   string // путь к файлу с ротацией, пусто - без файла
}

// New создает логгер приложения
func New(opts Options) *logrus.Logger {
	return NewWithWriter(opts, os.Stdout)
}

// NewWithWriter создает логгер с указанным основным выводом
func NewWithWriter(opts Options, out io.Writer) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	switch opts.Format {
	case "text":
		log.SetReportCaller(true)
		log.SetFormatter(&formatter.Formatter{
			NoColors:        true,
			TimestampFormat: "02 Jan 06 - 15:04:05",
			HideKeys:        false,
			CallerFirst:     true,
			CustomCallerFormatter: func(f *runtime.Frame) string {
				s := strings.Split(f.Function, ".")
				funcName := s[len(s)-1]
				return fmt.Sprintf(" [%s:%d][%s()]", path.Base(f.File), f.Line, funcName)
			},
		})
	default:
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	writers := []io.Writer{out}
	if opts.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.File,
			LocalTime:  true,
			Compress:   true,
			MaxSize:    100, // мегабайты
			MaxAge:     7,
			MaxBackups: 3,
		})
	}
	log.SetOutput(io.MultiWriter(writers...))

	return log
}

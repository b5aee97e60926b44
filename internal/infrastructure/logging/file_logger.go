package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"zipcompressor/internal/domain/repositories"
)

// FileLogger реализация логгера поверх logrus с ротацией файла
type FileLogger struct {
	entry  *logrus.Entry
	closer io.Closer
}

// Options параметры логгера
type Options struct {
	Level     string
	LogToFile bool
	FileName  string
	MaxSizeMB int
	// Console вывод в stderr. Отключается, когда логи показывает TUI.
	Console bool
}

// NewFileLogger создает новый логгер
func NewFileLogger(opts Options) (*FileLogger, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(parseLevel(opts.Level))

	var writers []io.Writer
	var closer io.Closer

	if opts.Console {
		writers = append(writers, os.Stderr)
	}

	if opts.LogToFile {
		if opts.FileName == "" {
			return nil, fmt.Errorf("не указано имя файла журнала")
		}
		maxSize := opts.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 10
		}
		rotator := &lumberjack.Logger{
			Filename:   opts.FileName,
			MaxSize:    maxSize,
			MaxBackups: 3,
		}
		writers = append(writers, rotator)
		closer = rotator
	}

	switch len(writers) {
	case 0:
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}

	return &FileLogger{
		entry:  logrus.NewEntry(logger),
		closer: closer,
	}, nil
}

// NewWriterLogger создает логгер, пишущий в произвольный writer
func NewWriterLogger(w io.Writer, level string) *FileLogger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(parseLevel(level))
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	return &FileLogger{entry: logrus.NewEntry(logger)}
}

// Debug логирует отладочное сообщение
func (l *FileLogger) Debug(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

// Info логирует информационное сообщение
func (l *FileLogger) Info(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

// Warning логирует предупреждение
func (l *FileLogger) Warning(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

// Error логирует ошибку
func (l *FileLogger) Error(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// Success логирует успешное выполнение
func (l *FileLogger) Success(format string, args ...interface{}) {
	l.entry.WithField("result", "success").Infof(format, args...)
}

// WithField возвращает логгер с дополнительным полем
func (l *FileLogger) WithField(key string, value interface{}) repositories.Logger {
	return &FileLogger{
		entry:  l.entry.WithField(key, value),
		closer: l.closer,
	}
}

// Close закрывает файл журнала
func (l *FileLogger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warning", "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

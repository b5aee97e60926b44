package usecases

import "zipcompressor/internal/domain/repositories"

// discardLogger используется, когда логгер не передан
type discardLogger struct{}

func (discardLogger) Debug(string, ...interface{})   {}
func (discardLogger) Info(string, ...interface{})    {}
func (discardLogger) Warning(string, ...interface{}) {}
func (discardLogger) Error(string, ...interface{})   {}
func (discardLogger) Success(string, ...interface{}) {}
func (discardLogger) Close() error                   { return nil }

func (d discardLogger) WithField(string, interface{}) repositories.Logger { return d }

func loggerOrDiscard(logger repositories.Logger) repositories.Logger {
	if logger == nil {
		return discardLogger{}
	}
	return logger
}

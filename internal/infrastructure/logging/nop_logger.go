package logging

import "zipcompressor/internal/domain/repositories"

// NopLogger логгер, отбрасывающий все сообщения
type NopLogger struct{}

// NewNopLogger создает пустой логгер
func NewNopLogger() *NopLogger {
	return &NopLogger{}
}

func (NopLogger) Debug(string, ...interface{})   {}
func (NopLogger) Info(string, ...interface{})    {}
func (NopLogger) Warning(string, ...interface{}) {}
func (NopLogger) Error(string, ...interface{})   {}
func (NopLogger) Success(string, ...interface{}) {}

func (n NopLogger) WithField(string, interface{}) repositories.Logger { return n }

func (NopLogger) Close() error { return nil }

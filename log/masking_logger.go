/*
Copyright © 2025 ISMP Tools.

Released under MIT license.
*/

package log

import (
	"errors"
	"fmt"

	"github.com/ssgreg/logf"
)

// MaskingLogger is a logger that masks secrets in log fields.
// Use it to make sure the document signature and other credentials are not leaked in logs,
// e.g. when request and response bodies are dumped in debug mode.
type MaskingLogger struct {
	log    FieldLogger
	masker StringMasker
}

// StringMasker masks secrets in a string.
type StringMasker interface {
	Mask(s string) string
}

// NewMaskingLogger creates a new MaskingLogger.
func NewMaskingLogger(l FieldLogger, m StringMasker) FieldLogger {
	return MaskingLogger{l, m}
}

// With returns a new logger with the given additional fields.
func (l MaskingLogger) With(fs ...Field) FieldLogger {
	return MaskingLogger{l.log.With(l.maskFields(fs)...), l.masker}
}

// Debug logs a formatted message at "debug" level.
func (l MaskingLogger) Debug(text string, fs ...Field) {
	l.log.Debug(l.masker.Mask(text), l.maskFields(fs)...)
}

// Info logs a formatted message at "info" level.
func (l MaskingLogger) Info(text string, fs ...Field) {
	l.log.Info(l.masker.Mask(text), l.maskFields(fs)...)
}

// Warn logs a formatted message at "warn" level.
func (l MaskingLogger) Warn(text string, fs ...Field) {
	l.log.Warn(l.masker.Mask(text), l.maskFields(fs)...)
}

// Error logs a formatted message at "error" level.
func (l MaskingLogger) Error(text string, fs ...Field) {
	l.log.Error(l.masker.Mask(text), l.maskFields(fs)...)
}

// Debugf logs a formatted message at "debug" level.
func (l MaskingLogger) Debugf(format string, args ...interface{}) {
	l.Debug(fmt.Sprintf(format, args...))
}

// Infof logs a formatted message at "info" level.
func (l MaskingLogger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// Warnf logs a formatted message at "warn" level.
func (l MaskingLogger) Warnf(format string, args ...interface{}) {
	l.Warn(fmt.Sprintf(format, args...))
}

// Errorf logs a formatted message at "error" level.
func (l MaskingLogger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// AtLevel calls the given fn if logging a message at the specified level
// is enabled, passing a LogFunc with the bound level.
func (l MaskingLogger) AtLevel(level Level, fn func(logFunc LogFunc)) {
	l.log.AtLevel(level, func(logFunc LogFunc) {
		fn(func(msg string, fs ...Field) {
			logFunc(l.masker.Mask(msg), l.maskFields(fs)...)
		})
	})
}

// WithLevel returns a new logger with additional level check.
func (l MaskingLogger) WithLevel(level Level) FieldLogger {
	return MaskingLogger{l.log.WithLevel(level), l.masker}
}

func (l MaskingLogger) maskFields(fs []Field) []Field {
	masked := make([]Field, len(fs))
	for i, f := range fs {
		masked[i] = l.maskField(f)
	}
	return masked
}

func (l MaskingLogger) maskField(f Field) Field {
	switch f.Type {
	case logf.FieldTypeBytesToString:
		masked := l.masker.Mask(string(f.Bytes))
		if masked != string(f.Bytes) {
			return String(f.Key, masked)
		}
	case logf.FieldTypeBytes, logf.FieldTypeRawBytes:
		if f.Bytes != nil {
			masked := l.masker.Mask(string(f.Bytes))
			if masked != string(f.Bytes) {
				return logf.ConstBytes(f.Key, []byte(masked))
			}
		}
	case logf.FieldTypeError:
		if err, ok := f.Any.(error); ok {
			masked := l.masker.Mask(err.Error())
			if masked != err.Error() {
				return NamedError(f.Key, errors.New(masked))
			}
		}
	}
	return f
}

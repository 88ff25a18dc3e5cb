// Package errortypes provides the error types shared by pagesummary
// components: AppError for infrastructure failures and SummaryError for the
// failures a summarization request reports to its caller.
package errortypes

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
)

// ErrorType categorizes infrastructure errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeDatabase   ErrorType = "database"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// AppError wraps an underlying error with a category, the place it was
// raised and optional context fields.
type AppError struct {
	Err     error
	Type    ErrorType
	Message string
	Origin  string
	Fields  map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error { return e.Err }

// WithField attaches a context field. Never attach credentials.
func (e *AppError) WithField(key string, value interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = map[string]interface{}{}
	}
	e.Fields[key] = value
	return e
}

// Wrap returns err as an AppError of type t. The origin is the caller of
// the exported constructor.
func (t ErrorType) Wrap(err error, message string) *AppError {
	return wrap(t, err, message)
}

func wrap(t ErrorType, err error, message string) *AppError {
	if err == nil {
		err = errors.New("unknown error")
	}
	appErr := &AppError{Err: err, Type: t, Message: message}
	if _, file, line, ok := runtime.Caller(2); ok {
		appErr.Origin = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	return appErr
}

func ValidationError(err error, message string) *AppError {
	return wrap(ErrorTypeValidation, err, message)
}

func DatabaseError(err error, message string) *AppError {
	return wrap(ErrorTypeDatabase, err, message)
}

func NetworkError(err error, message string) *AppError {
	return wrap(ErrorTypeNetwork, err, message)
}

func ConfigError(err error, message string) *AppError {
	return wrap(ErrorTypeConfig, err, message)
}

func InternalError(err error, message string) *AppError {
	return wrap(ErrorTypeInternal, err, message)
}

// IsType reports whether err wraps an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// LogError logs err with its structured context using logger, or the
// default slog logger when logger is nil. Credentials are never part of the
// fields attached by this package.
func LogError(logger *slog.Logger, err error) {
	if logger == nil {
		logger = slog.Default()
	}

	var summaryErr *SummaryError
	if errors.As(err, &summaryErr) {
		args := []any{"kind", string(summaryErr.Kind)}
		if summaryErr.Provider != "" {
			args = append(args, "provider", summaryErr.Provider)
		}
		if summaryErr.StatusCode != 0 {
			args = append(args, "status_code", summaryErr.StatusCode)
		}
		if summaryErr.Reason != "" {
			args = append(args, "reason", summaryErr.Reason)
		}
		if summaryErr.Err != nil {
			args = append(args, "cause", summaryErr.Err.Error())
		}
		logger.Error(summaryErr.Message, args...)
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		args := []any{
			"type", string(appErr.Type),
			"original_error", appErr.Err.Error(),
		}
		if appErr.Origin != "" {
			args = append(args, "origin", appErr.Origin)
		}
		for k, v := range appErr.Fields {
			args = append(args, k, v)
		}
		logger.Error(appErr.Message, args...)
		return
	}

	logger.Error(err.Error(), "error", err)
}

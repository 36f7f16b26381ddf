package errors

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// StatementError reports a workload statement the pre-parser rejected
type StatementError struct {
	File    string
	Line    int
	Column  int
	Message string
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
}

// NewStatementError creates a new StatementError
func NewStatementError(file string, line, column int, message string) *StatementError {
	return &StatementError{
		File:    file,
		Line:    line,
		Column:  column,
		Message: message,
	}
}

// ConnectionError represents PostgreSQL connection failure
type ConnectionError struct {
	Host       string
	Port       int
	Message    string
	Suggestion string
}

func (e *ConnectionError) Error() string {
	msg := e.Message
	if e.Host != "" {
		msg = fmt.Sprintf("failed to connect to %s:%d: %s", e.Host, e.Port, e.Message)
	}
	if e.Suggestion != "" {
		msg += "\n  Suggestion: " + e.Suggestion
	}
	return msg
}

// NewConnectionError creates a new ConnectionError
func NewConnectionError(host string, port int, message string) *ConnectionError {
	return &ConnectionError{
		Host:    host,
		Port:    port,
		Message: message,
	}
}

// ConfigError represents an invalid configuration value
type ConfigError struct {
	Field      string
	Value      any
	Message    string
	Suggestion string
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Message)
	if e.Suggestion != "" {
		msg += "\n  Suggestion: " + e.Suggestion
	}
	return msg
}

// NewConfigError creates a new ConfigError
func NewConfigError(field string, value any, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// CatalogError represents a failure to store a statement shape
type CatalogError struct {
	Shape    string
	SQLError *pgconn.PgError // PostgreSQL error details
}

func (e *CatalogError) Error() string {
	if e.SQLError != nil {
		return fmt.Sprintf("storing shape %q failed: [%s] %s", e.Shape, e.SQLError.Code, e.SQLError.Message)
	}
	return fmt.Sprintf("storing shape %q failed", e.Shape)
}

// NewCatalogError creates a new CatalogError
func NewCatalogError(shape string, sqlError *pgconn.PgError) *CatalogError {
	return &CatalogError{
		Shape:    shape,
		SQLError: sqlError,
	}
}

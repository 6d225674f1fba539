package gen

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidSchema indicates a database tree that cannot be generated.
	ErrInvalidSchema = errors.New("dbtypegen: invalid schema")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("dbtypegen: missing configuration")
	// ErrGenerationFailed indicates a failure to build, format or write an artifact.
	ErrGenerationFailed = errors.New("dbtypegen: code generation failed")
	// ErrExist indicates that a create-once artifact already exists.
	ErrExist = errors.New("dbtypegen: artifact already exists")
)

// SchemaError represents a database tree that cannot be generated as is,
// e.g. two identifiers that normalize to the same canonical name.
type SchemaError struct {
	Schema  string
	Table   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("dbtypegen: schema error")
	if e.Schema != "" {
		b.WriteString(" in schema ")
		b.WriteString(e.Schema)
	}
	if e.Table != "" {
		b.WriteString(" table ")
		b.WriteString(e.Table)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(schema, table, message string, cause error) *SchemaError {
	return &SchemaError{
		Schema:  schema,
		Table:   table,
		Message: message,
		Cause:   cause,
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("dbtypegen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("dbtypegen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// GenerationError represents a failure in one phase of a generation run.
type GenerationError struct {
	Phase   string // "build", "format", "write", "cleanup"
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("dbtypegen: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// ExistsError is returned by Writer.Create when the target path is taken.
// The generator treats it as "leave the existing file alone".
type ExistsError struct {
	Path string
}

// Error implements the error interface.
func (e *ExistsError) Error() string {
	return fmt.Sprintf("dbtypegen: %s already exists", e.Path)
}

// Is reports whether the target is ErrExist or fs.ErrExist.
func (e *ExistsError) Is(target error) bool {
	return target == ErrExist || target == fs.ErrExist
}

// IsSchemaError reports whether the error is a SchemaError.
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}

// IsExistsError reports whether the error is an ExistsError.
func IsExistsError(err error) bool {
	var existsErr *ExistsError
	return errors.As(err, &existsErr)
}

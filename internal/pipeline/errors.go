package pipeline

import (
	"errors"
	"fmt"
)

// ErrorType classifies a pipeline error for the run log and exit handling
type ErrorType string

const (
	// ErrorTypeFatalConfig aborts the run before any file is processed:
	// missing credential, unusable directories, absent converter script.
	ErrorTypeFatalConfig ErrorType = "fatal_config"

	// ErrorTypeIO covers per-file filesystem failures (backup, staging).
	ErrorTypeIO ErrorType = "io"

	// ErrorTypeConversion covers external converter failures.
	ErrorTypeConversion ErrorType = "conversion"

	// ErrorTypeUpload covers remote repository failures.
	ErrorTypeUpload ErrorType = "upload"

	// ErrorTypeCleanup covers post-upload deletion failures. These never
	// fail the candidate; the uploads are already confirmed.
	ErrorTypeCleanup ErrorType = "cleanup"
)

// PipelineError carries the stage and file a failure belongs to. Per-file
// errors are logged and the run continues; only fatal_config stops it.
type PipelineError struct {
	Type    ErrorType
	Stage   string
	File    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e == nil {
		return "unknown pipeline error"
	}
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.File != "" {
		return fmt.Sprintf("[%s] %s %s: %s", e.Type, e.Stage, e.File, msg)
	}
	if e.Stage != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Stage, msg)
	}
	return fmt.Sprintf("[%s] %s", e.Type, msg)
}

// Unwrap returns the underlying error
func (e *PipelineError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewFatalConfigError creates an error that aborts the run during startup
func NewFatalConfigError(message string, cause error) *PipelineError {
	return &PipelineError{
		Type:    ErrorTypeFatalConfig,
		Message: message,
		Cause:   cause,
	}
}

// NewIOError creates a per-file filesystem error
func NewIOError(stage, file string, cause error) *PipelineError {
	return &PipelineError{
		Type:  ErrorTypeIO,
		Stage: stage,
		File:  file,
		Cause: cause,
	}
}

// NewConversionError creates a per-file converter error
func NewConversionError(file string, cause error) *PipelineError {
	return &PipelineError{
		Type:  ErrorTypeConversion,
		Stage: "convert",
		File:  file,
		Cause: cause,
	}
}

// NewUploadError creates a per-file upload error
func NewUploadError(file string, cause error) *PipelineError {
	return &PipelineError{
		Type:  ErrorTypeUpload,
		Stage: "upload",
		File:  file,
		Cause: cause,
	}
}

// NewCleanupError creates a post-upload deletion error
func NewCleanupError(file string, cause error) *PipelineError {
	return &PipelineError{
		Type:  ErrorTypeCleanup,
		Stage: "cleanup",
		File:  file,
		Cause: cause,
	}
}

// GetErrorType returns the classification of an error
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ""
	}
	var pErr *PipelineError
	if errors.As(err, &pErr) {
		return pErr.Type
	}
	return ErrorTypeIO
}

// IsFatal reports whether an error must abort the run
func IsFatal(err error) bool {
	return GetErrorType(err) == ErrorTypeFatalConfig
}

package errors

import (
	"fmt"
)

// UnsupportedSourceError indicates the analysis root is missing, empty, or
// not a directory. The whole run aborts.
type UnsupportedSourceError struct {
	Path   string
	Reason string
}

func (e *UnsupportedSourceError) Error() string {
	return fmt.Sprintf("unsupported source %q: %s", e.Path, e.Reason)
}

// NewUnsupportedSourceError creates an UnsupportedSourceError.
func NewUnsupportedSourceError(path, reason string) error {
	return &UnsupportedSourceError{Path: path, Reason: reason}
}

// FileReadError indicates a single file could not be read. It is recorded as
// a diagnostic on the result and never aborts a run.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("failed to read file %q: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}

// NewFileReadError creates a FileReadError.
func NewFileReadError(path string, err error) error {
	return &FileReadError{Path: path, Err: err}
}

// RegistryLoadError indicates the pattern registry is malformed. The run
// aborts before any scanning starts.
type RegistryLoadError struct {
	Source string
	Err    error
}

func (e *RegistryLoadError) Error() string {
	return fmt.Sprintf("failed to load pattern registry from %q: %v", e.Source, e.Err)
}

func (e *RegistryLoadError) Unwrap() error {
	return e.Err
}

// NewRegistryLoadError creates a RegistryLoadError.
func NewRegistryLoadError(source string, err error) error {
	return &RegistryLoadError{Source: source, Err: err}
}

// TimeoutExceededError indicates the run deadline expired. The partial result
// carried alongside this error is valid and marked incomplete.
type TimeoutExceededError struct {
	Operation string
	Unscanned int
}

func (e *TimeoutExceededError) Error() string {
	if e.Unscanned > 0 {
		return fmt.Sprintf("%s deadline exceeded, %d files left unscanned", e.Operation, e.Unscanned)
	}
	return fmt.Sprintf("%s deadline exceeded", e.Operation)
}

// NewTimeoutExceededError creates a TimeoutExceededError.
func NewTimeoutExceededError(operation string, unscanned int) error {
	return &TimeoutExceededError{Operation: operation, Unscanned: unscanned}
}

// MutationConflictError indicates a file changed under a remediation action,
// or two actions raced on the same file. Surfaced as fatal, never merged.
type MutationConflictError struct {
	Path   string
	Reason string
}

func (e *MutationConflictError) Error() string {
	return fmt.Sprintf("mutation conflict on %q: %s", e.Path, e.Reason)
}

// NewMutationConflictError creates a MutationConflictError.
func NewMutationConflictError(path, reason string) error {
	return &MutationConflictError{Path: path, Reason: reason}
}

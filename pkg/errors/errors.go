package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Patch generation errors
	ErrFileTooLarge     ErrorCode = "FILE_TOO_LARGE"
	ErrGenerationFailed ErrorCode = "GENERATION_FAILED"

	// Rollback errors
	ErrTransactionNotFound ErrorCode = "TRANSACTION_NOT_FOUND"
	ErrAlreadyRolledBack   ErrorCode = "ALREADY_ROLLED_BACK"
	ErrBackupNotFound      ErrorCode = "BACKUP_NOT_FOUND"
	ErrPermissionDenied    ErrorCode = "PERMISSION_DENIED"
	ErrIO                  ErrorCode = "IO_ERROR"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"
)

// Domain separates the generation taxonomy from the rollback taxonomy.
// INVALID_INPUT exists in both, so the domain is recorded on the error
// rather than derived from the code alone.
type Domain string

const (
	DomainGeneral    Domain = "general"
	DomainGeneration Domain = "generation"
	DomainRollback   Domain = "rollback"
)

// Detail keys shared across packages
const (
	DetailPath          = "path"
	DetailTransactionID = "transactionId"
	DetailIssueID       = "issueId"
	DetailIndex         = "index"
	DetailErrors        = "errors"
	DetailSize          = "size"
	DetailLimit         = "limit"
)

// AutofixError represents a structured error with code and details
type AutofixError struct {
	Code    ErrorCode
	Domain  Domain
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *AutofixError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *AutofixError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *AutofixError) Is(target error) bool {
	var targetErr *AutofixError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new AutofixError with the given code and message
func New(code ErrorCode, message string) *AutofixError {
	return &AutofixError{
		Code:    code,
		Domain:  domainOf(code),
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new AutofixError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *AutofixError {
	return &AutofixError{
		Code:    code,
		Domain:  domainOf(code),
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an AutofixError
func Wrap(err error, code ErrorCode, message string) *AutofixError {
	if err == nil {
		return nil
	}
	return &AutofixError{
		Code:    code,
		Domain:  domainOf(code),
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AutofixError {
	if err == nil {
		return nil
	}
	return &AutofixError{
		Code:    code,
		Domain:  domainOf(code),
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *AutofixError) WithDetail(key string, value interface{}) *AutofixError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *AutofixError) WithDetails(details map[string]interface{}) *AutofixError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// In pins the error to a domain
func (e *AutofixError) In(domain Domain) *AutofixError {
	e.Domain = domain
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var autofixErr *AutofixError
	if errors.As(err, &autofixErr) {
		return autofixErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an AutofixError
func GetErrorCode(err error) ErrorCode {
	var autofixErr *AutofixError
	if errors.As(err, &autofixErr) {
		return autofixErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an AutofixError
func GetErrorDetails(err error) map[string]interface{} {
	var autofixErr *AutofixError
	if errors.As(err, &autofixErr) {
		return autofixErr.Details
	}
	return nil
}

// GetDomain returns the domain of the outermost AutofixError in the chain
func GetDomain(err error) Domain {
	var autofixErr *AutofixError
	if errors.As(err, &autofixErr) {
		return autofixErr.Domain
	}
	return DomainGeneral
}

func domainOf(code ErrorCode) Domain {
	switch code {
	case ErrFileTooLarge, ErrGenerationFailed:
		return DomainGeneration
	case ErrTransactionNotFound, ErrAlreadyRolledBack, ErrBackupNotFound, ErrPermissionDenied, ErrIO:
		return DomainRollback
	default:
		return DomainGeneral
	}
}

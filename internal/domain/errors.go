// Package domain contains the board and symbol model plus the business errors.
// Domain errors represent board-level failures, NOT HTTP errors.
// Adapters map them to status codes or CLI exit messages.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates the operation clashes with work already in progress.
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates an argument failed a board rule.
	ErrValidation = errors.New("validation failed")

	// ErrMalformedImport indicates a board document could not be decoded.
	ErrMalformedImport = errors.New("malformed import")

	// ErrUnavailable indicates a dependency (symbol service, storage) is unavailable.
	ErrUnavailable = errors.New("unavailable")
)

// Kind classifies an error for the adapters that report it.
type Kind uint8

// Kinds in the order KindOf tests them.
const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindValidation
	KindMalformedImport
	KindUnavailable
)

var kindSentinels = [...]error{
	KindNotFound:        ErrNotFound,
	KindConflict:        ErrConflict,
	KindValidation:      ErrValidation,
	KindMalformedImport: ErrMalformedImport,
	KindUnavailable:     ErrUnavailable,
}

func (k Kind) String() string {
	if k == KindInternal || int(k) >= len(kindSentinels) {
		return "internal"
	}

	return kindSentinels[k].Error()
}

// KindOf reports the first kind whose sentinel is in err's chain, or
// KindInternal when none is.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}

	for k := KindNotFound; int(k) < len(kindSentinels); k++ {
		if errors.Is(err, kindSentinels[k]) {
			return k
		}
	}

	return KindInternal
}

// Error is a classified failure about one subject: an entity for not found
// and conflict, a service for unavailable.
type Error struct {
	Kind    Kind
	Subject string
	msg     string
}

func (e *Error) Error() string {
	return e.msg
}

// Unwrap returns the kind's sentinel.
func (e *Error) Unwrap() error {
	return kindSentinels[e.Kind]
}

// NewNotFoundError reports a missing entity. id may be empty.
func NewNotFoundError(entity, id string) error {
	msg := entity + " not found"
	if id != "" {
		msg = fmt.Sprintf("%s with id %q not found", entity, id)
	}

	return &Error{Kind: KindNotFound, Subject: entity, msg: msg}
}

// NewConflictError reports an operation the entity's current state refuses.
func NewConflictError(entity, reason string) error {
	return &Error{Kind: KindConflict, Subject: entity, msg: fmt.Sprintf("%s conflict: %s", entity, reason)}
}

// NewUnavailableError reports a dependency that gave no answer. reason may
// be empty.
func NewUnavailableError(service, reason string) error {
	msg := fmt.Sprintf("service %q unavailable", service)
	if reason != "" {
		msg += ": " + reason
	}

	return &Error{Kind: KindUnavailable, Subject: service, msg: msg}
}

// ValidationError names the argument that broke a board rule.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError reports a rejected argument.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue reports a rejected argument and keeps the value.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// MalformedImportError reports why a board document was rejected.
// The live board is never touched when this error is returned.
type MalformedImportError struct {
	Reason string
	Err    error
}

func (e *MalformedImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed board document: %s: %v", e.Reason, e.Err)
	}

	return "malformed board document: " + e.Reason
}

// Unwrap exposes both ErrMalformedImport and the decode failure.
func (e *MalformedImportError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedImport, e.Err}
	}

	return []error{ErrMalformedImport}
}

// NewMalformedImportError wraps the decode failure behind a rejected document.
func NewMalformedImportError(reason string, err error) error {
	return &MalformedImportError{Reason: reason, Err: err}
}

// IsNotFound reports whether err is classified KindNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err is classified KindConflict.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsValidation reports whether err is classified KindValidation.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsMalformedImport reports whether err is classified KindMalformedImport.
func IsMalformedImport(err error) bool { return errors.Is(err, ErrMalformedImport) }

// IsUnavailable reports whether err is classified KindUnavailable.
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }

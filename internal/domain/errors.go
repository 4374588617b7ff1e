package domain

import "errors"

// Error kinds map one-to-one onto response statuses. Precondition failures
// (including lookups that miss) are reported as bad requests; only ownership
// mismatches are forbidden.
type ErrKind int

const (
	KindBadRequest ErrKind = iota
	KindUnauthorized
	KindForbidden
	KindInternal
)

type Error struct {
	Kind    ErrKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func BadRequest(message string) error {
	return &Error{Kind: KindBadRequest, Message: message}
}

func Unauthorized(message string) error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) error {
	return &Error{Kind: KindForbidden, Message: message}
}

// KindOf classifies err; anything that is not a domain error is internal.
func KindOf(err error) ErrKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return KindBadRequest
	}
	return KindInternal
}

// ValidationError carries a field-to-message map for request validation
// failures so handlers can render it alongside the error body.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// FieldErrors extracts the field map if err is a validation error.
func FieldErrors(err error) map[string]string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}

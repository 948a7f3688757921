package models

import "errors"

type ErrorKind string

const (
	KindNotFound         ErrorKind = "not_found"
	KindPermissionDenied ErrorKind = "permission_denied"
	KindValidation       ErrorKind = "validation_error"
)

// Error is the domain error returned by all core operations. Field names
// the offending input where one exists; handlers map Kind to an HTTP
// status and leave the rendering to the caller.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	if e.Field != "" {
		return string(e.Kind) + " (" + e.Field + "): " + e.Message
	}
	return string(e.Kind) + ": " + e.Message
}

func NotFound(field, message string) error {
	return &Error{Kind: KindNotFound, Field: field, Message: message}
}

func PermissionDenied(message string) error {
	return &Error{Kind: KindPermissionDenied, Message: message}
}

func Validation(field, message string) error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

func IsNotFound(err error) bool         { return kindOf(err) == KindNotFound }
func IsPermissionDenied(err error) bool { return kindOf(err) == KindPermissionDenied }
func IsValidation(err error) bool       { return kindOf(err) == KindValidation }

func kindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

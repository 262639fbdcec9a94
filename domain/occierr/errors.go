// Package occierr defines the protocol error taxonomy. Every internal
// failure terminates in one of these values, and the renderer's error
// mapping over them is total: anything unknown degrades to a generic
// internal error instead of failing to render.
package occierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes, one per taxonomy entry.
const (
	CodeMalformed             = "malformed_representation"
	CodeCategoryNotFound      = "category_not_found"
	CodeCategoryConflict      = "category_conflict"
	CodeInvalidCategory       = "invalid_category"
	CodeMissingCategory       = "missing_category"
	CodeUnexpectedCategory    = "unexpected_category"
	CodeInvalidAttribute      = "invalid_attribute"
	CodeMissingAttribute      = "missing_attribute"
	CodeInvalidAttributeValue = "invalid_attribute_value"
	CodeInvalidAction         = "invalid_action"
	CodeActionNotSupported    = "action_not_supported"
	CodeUnauthorized          = "unauthorized"
	CodeNotImplemented        = "not_implemented"
	CodeNotFound              = "not_found"
	CodeNotAcceptable         = "not_acceptable"
	CodeBackendFailure        = "backend_failure"
	CodeInternal              = "internal_error"
)

// Error is a protocol-level error value: a machine-readable code, the
// status the response must carry, and a human-readable message.
type Error struct {
	Code    string
	Status  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// MalformedRepresentation signals a syntactic failure in the parser.
func MalformedRepresentation(format string, args ...any) *Error {
	return &Error{Code: CodeMalformed, Status: http.StatusBadRequest,
		Message: fmt.Sprintf(format, args...)}
}

// CategoryNotFound signals a registry lookup miss.
func CategoryNotFound(scheme, term string) *Error {
	return &Error{Code: CodeCategoryNotFound, Status: http.StatusNotFound,
		Message: fmt.Sprintf("category %s%s is not registered", scheme, term)}
}

// CategoryConflict signals a conflicting re-registration.
func CategoryConflict(scheme, term string) *Error {
	return &Error{Code: CodeCategoryConflict, Status: http.StatusConflict,
		Message: fmt.Sprintf("a different definition already occupies %s%s", scheme, term)}
}

// InvalidCategory signals a primary category mismatch against the scheme.
func InvalidCategory(want, got string) *Error {
	return &Error{Code: CodeInvalidCategory, Status: http.StatusBadRequest,
		Message: fmt.Sprintf("expected category %s, got %s", want, got)}
}

// MissingCategory signals an absent required mixin or category.
func MissingCategory(id string) *Error {
	return &Error{Code: CodeMissingCategory, Status: http.StatusBadRequest,
		Message: fmt.Sprintf("required category %s is not present", id)}
}

// UnexpectedCategory signals a declared category the scheme does not allow.
func UnexpectedCategory(id string) *Error {
	return &Error{Code: CodeUnexpectedCategory, Status: http.StatusBadRequest,
		Message: fmt.Sprintf("category %s is not expected by this operation", id)}
}

// InvalidAttribute signals an attribute name not declared by the resolved
// kind or attached mixins.
func InvalidAttribute(name string) *Error {
	return &Error{Code: CodeInvalidAttribute, Status: http.StatusBadRequest,
		Message: fmt.Sprintf("attribute %s is not declared", name)}
}

// MissingAttribute signals an absent required attribute.
func MissingAttribute(name string) *Error {
	return &Error{Code: CodeMissingAttribute, Status: http.StatusBadRequest,
		Message: fmt.Sprintf("required attribute %s is not present", name)}
}

// InvalidAttributeValue signals a value that does not coerce to the
// declared attribute type.
func InvalidAttributeValue(name string, detail error) *Error {
	return &Error{Code: CodeInvalidAttributeValue, Status: http.StatusBadRequest,
		Message: fmt.Sprintf("invalid value for attribute %s: %v", name, detail)}
}

// InvalidAction signals an unknown or absent action term.
func InvalidAction(term string) *Error {
	return &Error{Code: CodeInvalidAction, Status: http.StatusBadRequest,
		Message: fmt.Sprintf("action %q is not valid", term)}
}

// ActionNotSupported signals an action the resource's kind does not offer.
func ActionNotSupported(term string) *Error {
	return &Error{Code: CodeActionNotSupported, Status: http.StatusMethodNotAllowed,
		Message: fmt.Sprintf("action %q is not supported by this resource", term)}
}

// Unauthorized signals a request with no usable caller identity.
func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Status: http.StatusUnauthorized, Message: message}
}

// NotImplemented signals an operation the backend cannot perform yet.
func NotImplemented(what string) *Error {
	return &Error{Code: CodeNotImplemented, Status: http.StatusNotImplemented,
		Message: fmt.Sprintf("%s is not implemented", what)}
}

// NotFound signals a resource the backend does not know.
func NotFound(id string) *Error {
	return &Error{Code: CodeNotFound, Status: http.StatusNotFound,
		Message: fmt.Sprintf("resource %s could not be found", id)}
}

// NotAcceptable signals an unsupported content type or Accept header.
func NotAcceptable(contentType string) *Error {
	return &Error{Code: CodeNotAcceptable, Status: http.StatusNotAcceptable,
		Message: fmt.Sprintf("content type %q is not supported", contentType)}
}

// Internal is the generic internal error every unmapped failure degrades to.
func Internal() *Error {
	return &Error{Code: CodeInternal, Status: http.StatusInternalServerError,
		Message: "internal error"}
}

// backendStatuses are the collaborator statuses that map through to the
// protocol unchanged. Anything else degrades to a 500.
var backendStatuses = map[int]bool{
	http.StatusBadRequest:            true,
	http.StatusUnauthorized:          true,
	http.StatusForbidden:             true,
	http.StatusNotFound:              true,
	http.StatusMethodNotAllowed:      true,
	http.StatusNotAcceptable:         true,
	http.StatusConflict:              true,
	http.StatusRequestEntityTooLarge: true,
	http.StatusUnsupportedMediaType:  true,
	http.StatusTooManyRequests:       true,
	http.StatusNotImplemented:        true,
	http.StatusServiceUnavailable:    true,
}

// FromBackend wraps a collaborator failure, preserving its status and
// message when the status has a direct protocol mapping.
func FromBackend(status int, message string) *Error {
	if !backendStatuses[status] {
		return &Error{Code: CodeBackendFailure, Status: http.StatusInternalServerError,
			Message: "internal error"}
	}
	return &Error{Code: CodeBackendFailure, Status: status, Message: message}
}

// Status extracts the protocol status from an error, defaulting to 500
// for anything outside the taxonomy.
func Status(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}

// CodeOf extracts the taxonomy code from an error, defaulting to the
// generic internal code.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// Is supports errors.Is matching by code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

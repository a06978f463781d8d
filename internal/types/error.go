package types

import (
	"errors"
	"fmt"
)

// CustomError is a transport level failure with an explicit HTTP status.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// ErrorKind identifies a domain failure.
type ErrorKind string

const (
	KindNotFound            ErrorKind = "notFound"
	KindClientNotFound      ErrorKind = "clientNotFound"
	KindDuplicateUsername   ErrorKind = "duplicateUsername"
	KindDuplicateBusinessID ErrorKind = "duplicateBusinessId"
	KindConflict            ErrorKind = "conflict"
	KindValidation          ErrorKind = "validation"
	KindIDGeneration        ErrorKind = "idGeneration"
	KindInvalidIDFormat     ErrorKind = "invalidIdFormat"
	KindInvalidCredentials  ErrorKind = "invalidCredentials"
	KindForbidden           ErrorKind = "forbidden"
	KindInternal            ErrorKind = "internal"
)

// Category is the stable outcome a kind maps to at the transport boundary.
type Category string

const (
	CategoryNotFound     Category = "not-found"
	CategoryConflict     Category = "conflict"
	CategoryBadRequest   Category = "bad-request"
	CategoryUnauthorized Category = "unauthorized"
	CategoryForbidden    Category = "forbidden"
	CategoryInternal     Category = "internal"
)

// Category returns the outcome category for the kind.
func (k ErrorKind) Category() Category {
	switch k {
	case KindNotFound, KindClientNotFound:
		return CategoryNotFound
	case KindDuplicateUsername, KindDuplicateBusinessID, KindConflict, KindIDGeneration:
		return CategoryConflict
	case KindValidation, KindInvalidIDFormat:
		return CategoryBadRequest
	case KindInvalidCredentials:
		return CategoryUnauthorized
	case KindForbidden:
		return CategoryForbidden
	}
	return CategoryInternal
}

// DomainError is returned by the service layer. Two domain errors match
// under errors.Is when their kinds are equal, so the sentinels below can
// be used as targets.
type DomainError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports kind equality.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNotFound            = &DomainError{Kind: KindNotFound, Message: "not found"}
	ErrClientNotFound      = &DomainError{Kind: KindClientNotFound, Message: "client not found"}
	ErrDuplicateUsername   = &DomainError{Kind: KindDuplicateUsername, Message: "Username already exists!"}
	ErrDuplicateBusinessID = &DomainError{Kind: KindDuplicateBusinessID, Message: "business id already exists"}
	ErrConflict            = &DomainError{Kind: KindConflict, Message: "conflict"}
	ErrValidation          = &DomainError{Kind: KindValidation, Message: "validation failed"}
	ErrIDGeneration        = &DomainError{Kind: KindIDGeneration, Message: "id generation failed"}
	ErrInvalidIDFormat     = &DomainError{Kind: KindInvalidIDFormat, Message: "invalid id format"}
	ErrInvalidCredentials  = &DomainError{Kind: KindInvalidCredentials, Message: "invalid username or password"}
	ErrForbidden           = &DomainError{Kind: KindForbidden, Message: "forbidden"}
)

// NotFound reports a missing entity of the given kind.
func NotFound(entity string, id any) error {
	return &DomainError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found with id: %v", entity, id)}
}

// ClientNotFound reports a client reference that does not resolve.
func ClientNotFound(id any) error {
	return &DomainError{Kind: KindClientNotFound, Message: fmt.Sprintf("Client not found with id: %v", id)}
}

// DuplicateBusinessID reports a business id that is already taken.
func DuplicateBusinessID(businessID string) error {
	return &DomainError{Kind: KindDuplicateBusinessID, Message: fmt.Sprintf("business id %q already exists", businessID)}
}

// Conflict reports a uniqueness violation other than username or business id.
func Conflict(format string, args ...any) error {
	return &DomainError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Validation reports a broken domain rule.
func Validation(format string, args ...any) error {
	return &DomainError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// IDGeneration reports a stored business id that cannot be parsed.
func IDGeneration(businessID string) error {
	return &DomainError{Kind: KindIDGeneration, Message: fmt.Sprintf("cannot derive next id from %q", businessID)}
}

// InvalidIDFormat reports a caller supplied id that is not numeric.
func InvalidIDFormat(id string, err error) error {
	return &DomainError{Kind: KindInvalidIDFormat, Message: fmt.Sprintf("Invalid project ID format: %q", id), Err: err}
}

// Forbidden reports an authenticated principal without the required role.
func Forbidden(format string, args ...any) error {
	return &DomainError{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind of err, KindInternal for non domain errors.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

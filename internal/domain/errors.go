package domain

import (
	"errors"
	"fmt"
)

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// ErrEmailTaken is returned when an email address is already bound to
// a verified member. Uniqueness is enforced at the application level,
// not by a database constraint.
var ErrEmailTaken = errors.New("email already verified")

// ErrorKind classifies user-visible failures.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindNotFound
	KindUnauthorized
	KindFault
)

// UserError carries a message suitable for showing to the end user.
// KindFault wraps a collaborator error; the other kinds cause no
// state change and are not logged as faults.
type UserError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e UserError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e UserError) Unwrap() error {
	return e.Err
}

func Validation(msg string) error {
	return UserError{Kind: KindValidation, Message: msg}
}

func NotFoundMsg(msg string) error {
	return UserError{Kind: KindNotFound, Message: msg}
}

func Unauthorized(msg string) error {
	return UserError{Kind: KindUnauthorized, Message: msg}
}

func Fault(err error) error {
	return UserError{Kind: KindFault, Message: "Something went wrong!", Err: err}
}

// AsUserError unwraps err into a UserError if it is one.
func AsUserError(err error) (UserError, bool) {
	var ue UserError
	ok := errors.As(err, &ue)
	return ue, ok
}

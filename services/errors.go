package services

import (
	"errors"

	"github.com/sahilchouksey/shikshachain/database"
	"github.com/sahilchouksey/shikshachain/utils/response"
)

// ErrorKind classifies service failures for the HTTP edge
type ErrorKind string

const (
	KindDuplicateEntity ErrorKind = response.KindDuplicateEntity
	KindNotFound        ErrorKind = response.KindNotFound
	KindInternal        ErrorKind = "internal"
)

// Error is returned by every service operation that fails
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorKind lets the response package map the error to a status code
func (e *Error) ErrorKind() string {
	return string(e.Kind)
}

func duplicateEntity(message string) *Error {
	return &Error{Kind: KindDuplicateEntity, Message: message}
}

func notFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// internal keeps the store's error text as the message
func internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: err.Error(), Err: err}
}

// IsKind reports whether err is a service error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var serviceErr *Error
	return errors.As(err, &serviceErr) && serviceErr.Kind == kind
}

func isNotFound(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, database.ErrDuplicate)
}

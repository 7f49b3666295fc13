package models

import "fmt"

type ErrorValidation struct {
	Message string
}

func (e *ErrorValidation) Error() string { return e.Message }

type ErrorUnauthorized struct {
	Message string
}

func (e *ErrorUnauthorized) Error() string { return e.Message }

type ErrorNotFound struct {
	Message string
}

func (e *ErrorNotFound) Error() string { return e.Message }

// ErrorConflict reports a uniqueness violation such as a duplicate slug.
type ErrorConflict struct {
	Message string
}

func (e *ErrorConflict) Error() string { return e.Message }

type ErrorInternalServer struct {
	Message string
	Err     error
}

func (e *ErrorInternalServer) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ErrorInternalServer) Unwrap() error { return e.Err }

func NewInternalError(message string, err error) *ErrorInternalServer {
	return &ErrorInternalServer{Message: message, Err: err}
}

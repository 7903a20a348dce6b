// Copyright 2024-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

package itemdata

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"

	"github.com/treeline-io/go-arbor/arbor"
)

// ErrorStatus describes errors that correspond to specific HTTP
// status codes.
type ErrorStatus interface {
	// HTTPStatus returns the HTTP status code for this error.
	HTTPStatus() int
}

// ErrUnsupportedMediaType is returned from Decode() if the provided
// Content-Type: is unrecognized.  This translates directly into the
// equivalent HTTP 415 error.
type ErrUnsupportedMediaType struct {
	Type string
}

func (e ErrUnsupportedMediaType) Error() string {
	return fmt.Sprintf("Unsupported media type %q", e.Type)
}

// HTTPStatus returns a fixed 415 Unsupported Media Type error code.
func (e ErrUnsupportedMediaType) HTTPStatus() int {
	return http.StatusUnsupportedMediaType
}

// ErrNotFound is a wrapper error that indicates that, due to the
// embedded error, a REST service should return a 404 Not Found error.
type ErrNotFound struct {
	Err error
}

func (e ErrNotFound) Error() string {
	return e.Err.Error()
}

// HTTPStatus returns a fixed 404 Not Found error code.
func (e ErrNotFound) HTTPStatus() int {
	return http.StatusNotFound
}

// ErrBadRequest is returned as an error when there is an error
// decoding HTTP headers, query parameters, or the request body.
type ErrBadRequest struct {
	Err error
}

func (e ErrBadRequest) Error() string {
	return e.Err.Error()
}

// HTTPStatus returns a fixed 400 Bad Request HTTP status code.
func (e ErrBadRequest) HTTPStatus() int {
	return http.StatusBadRequest
}

// ErrorResponse can be a response to any method, generally
// accompanied by a failing HTTP status code.
type ErrorResponse struct {
	// Error is a short description of the failure.  This may be
	// the name of a well-known arbor API error, the string
	// "panic", or the string "error" for some other kind of error.
	Error string `json:"error"`

	// Message is a human-readable description of the failure.
	Message string `json:"message"`

	// Value is an extra string parameter to the error, such as a
	// finder or action name, if applicable.
	Value string `json:"value,omitempty"`

	// KeyType is the item type the error refers to, if applicable.
	KeyType arbor.TypeName `json:"kt,omitempty"`

	// Key is the item key the error refers to, if applicable.
	Key *arbor.KeyRecord `json:"key,omitempty"`

	// Stack holds a formatted backtrace, if the method failed due
	// to a panic.
	Stack string `json:"stack,omitempty"`
}

// FromError populates an ErrorResponse based on an error value.
// This remaps the well-known arbor errors to specific e.Error codes.
func (e *ErrorResponse) FromError(err error) {
	switch err {
	case arbor.ErrNoKeyType:
		e.Error = "ErrNoKeyType"
	case arbor.ErrGone:
		e.Error = "ErrGone"
	}
	switch et := err.(type) {
	case arbor.ErrNoSuchItem:
		e.Error = "ErrNoSuchItem"
		key := et.Key
		e.Key = &key
	case arbor.ErrNoSuchFinder:
		e.Error = "ErrNoSuchFinder"
		e.KeyType = et.KeyType
		e.Value = et.Name
	case arbor.ErrNoSuchAction:
		e.Error = "ErrNoSuchAction"
		e.KeyType = et.KeyType
		e.Value = et.Name
	case arbor.ErrMissingLocation:
		e.Error = "ErrMissingLocation"
		e.KeyType = et.KeyType
	case ErrNotFound:
		// Discard this wrapper and return the embedded error
		e.FromError(et.Err)
	case ErrBadRequest:
		e.FromError(et.Err)
	}
}

// ToError converts e back to an arbor error, if that is possible.
// If not, returns a plain error with e.Message text.
func (e *ErrorResponse) ToError() error {
	switch e.Error {
	case "ErrNoKeyType":
		return arbor.ErrNoKeyType
	case "ErrGone":
		return arbor.ErrGone
	case "ErrNoSuchItem":
		err := arbor.ErrNoSuchItem{}
		if e.Key != nil {
			err.Key = *e.Key
		}
		return err
	case "ErrNoSuchFinder":
		return arbor.ErrNoSuchFinder{KeyType: e.KeyType, Name: e.Value}
	case "ErrNoSuchAction":
		return arbor.ErrNoSuchAction{KeyType: e.KeyType, Name: e.Value}
	case "ErrMissingLocation":
		return arbor.ErrMissingLocation{KeyType: e.KeyType}
	default:
		return errors.New(e.Message)
	}
}

// FromPanic populates an error response based on a panic.  Typical
// use is:
//
//	defer func() {
//	    if obj := recover(); obj != nil {
//	        resp := itemdata.ErrorResponse{}
//	        resp.FromPanic(obj)
//	        // write resp out as makes sense
//	    }
//	}
func (e *ErrorResponse) FromPanic(obj interface{}) {
	e.Error = "panic"
	if recoveredError, isError := obj.(error); isError {
		e.Message = recoveredError.Error()
	} else {
		e.Message = fmt.Sprintf("%+v", obj)
	}
	var stack [4096]byte
	len := runtime.Stack(stack[:], false)
	e.Stack = string(stack[:len])
}

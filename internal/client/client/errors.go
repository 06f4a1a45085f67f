package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Every error returned by HTTPClient matches exactly one of them
// with errors.Is.
var (
	ErrNetwork           = errors.New("network error")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrSizeLimitExceeded = errors.New("size limit exceeded")
	ErrUnknown           = errors.New("unknown error")
)

var kinds = []error{
	ErrNetwork, ErrUnauthorized, ErrValidation, ErrNotFound,
	ErrConflict, ErrSizeLimitExceeded, ErrUnknown,
}

// APIError is a failed API call. Kind is one of the sentinel errors above;
// Message carries the server's explanation when the response envelope had one.
type APIError struct {
	Kind    error
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("%v (%d): %s", e.Kind, e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%v (%d)", e.Kind, e.Status)
	case e.Message != "":
		return fmt.Sprintf("%v: %s", e.Kind, e.Message)
	}
	return e.Kind.Error()
}

func (e *APIError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Kind returns the sentinel kind err matches, or ErrUnknown.
func Kind(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrUnknown
}

// kindForStatus maps a non-2xx HTTP status to an error kind.
func kindForStatus(code int) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidation
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusRequestEntityTooLarge:
		return ErrSizeLimitExceeded
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ErrNetwork
	default:
		return ErrUnknown
	}
}

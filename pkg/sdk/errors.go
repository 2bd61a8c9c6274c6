package patentsim

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors. Use errors.Is() to check.
var (
	ErrNotFound           = errors.New("patentsim: not found")
	ErrBadRequest         = errors.New("patentsim: bad request")
	ErrEncoderUnavailable = errors.New("patentsim: encoder unavailable")
	ErrUnavailable        = errors.New("patentsim: service unavailable")
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("patentsim: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("patentsim: HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap maps the status code to a sentinel error.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusBadGateway:
		return ErrEncoderUnavailable
	case http.StatusServiceUnavailable:
		return ErrUnavailable
	default:
		return nil
	}
}

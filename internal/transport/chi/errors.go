package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kailas-cloud/patentsim/internal/domain"
)

// errorCode is the machine-readable error code in JSON error responses.
type errorCode string

const (
	codeBadRequest         errorCode = "bad_request"
	codePatentNotFound     errorCode = "patent_not_found"
	codeEncoderUnavailable errorCode = "encoder_unavailable"
	codeEncoderError       errorCode = "encoder_error"
	codeNotFound           errorCode = "not_found"
	codeMethodNotAllowed   errorCode = "method_not_allowed"
	codeInternalError      errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrPatentNotFound,
		domain.ErrInvalidQuery,
		domain.ErrEncoderUnavailable,
		domain.ErrEncoderMismatch,
		domain.ErrVectorDimMismatch,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/apperr"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/logger"
	"go.uber.org/zap"
)

const genericMessage = "something went wrong"

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", zap.Error(err))
	}
}

func WriteError(w http.ResponseWriter, code int, msg string) {
	status := "fail"
	if code >= http.StatusInternalServerError {
		status = "error"
	}
	WriteJSON(w, code, ErrorResponse{Status: status, Message: msg})
}

// WriteAppError renders err by its apperr kind. The wrapped cause is only
// included when debug is set.
func WriteAppError(w http.ResponseWriter, r *http.Request, err error, debug bool) {
	e, ok := apperr.As(err)
	if !ok {
		e = apperr.Wrap(apperr.Internal, genericMessage, err)
	}
	code := e.Kind.HTTPStatus()

	if code >= http.StatusInternalServerError {
		logger.Log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}

	resp := ErrorResponse{Status: "fail", Message: e.Message}
	if code >= http.StatusInternalServerError {
		resp.Status = "error"
	}
	if debug && e.Err != nil {
		resp.Error = e.Err.Error()
	}
	WriteJSON(w, code, resp)
}

// MaxBodyBytes caps request bodies read by DecodeJSON.
const MaxBodyBytes = 1 << 20

// DecodeJSON decodes the request body into v. An empty or malformed body is
// an InvalidArgument error, a body over MaxBodyBytes is TooLarge.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apperr.New(apperr.TooLarge, "request body too large")
		case errors.Is(err, io.EOF):
			return apperr.New(apperr.InvalidArgument, "request body is required")
		}
		return apperr.Wrap(apperr.InvalidArgument, "invalid request body", err)
	}
	return nil
}

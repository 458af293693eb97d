// Package httpx reúne los helpers HTTP que antes estaban duplicados en cada handler.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"rafikipets-api/internal/platform/apperr"
	"rafikipets-api/internal/platform/logger"
	"rafikipets-api/internal/platform/validate"

	chimw "github.com/go-chi/chi/v5/middleware"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Detail string `json:"detail"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// StatusFor traduce la taxonomía de apperr a un código HTTP.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrExternal):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteError escribe {"detail": ...}. Los 500 no exponen el error interno y se loguean.
func WriteError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	status := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		if log != nil {
			log.Error("request failed", map[string]any{
				"err":        err.Error(),
				"method":     r.Method,
				"path":       r.URL.Path,
				"request_id": chimw.GetReqID(r.Context()),
			})
		}
		msg = "internal error"
	}
	WriteJSON(w, status, errorBody{Detail: msg})
}

// DecodeJSON decodifica el body y corre las validaciones de tags.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("request body required")
		}
		return apperr.Validation("invalid json")
	}
	return validate.Struct(dst)
}

// QueryRequired lee un query param obligatorio.
func QueryRequired(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return "", apperr.Validation(name + " is required")
	}
	return v, nil
}

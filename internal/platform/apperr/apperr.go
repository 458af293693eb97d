// Package apperr define la taxonomía de errores compartida por todos los módulos.
// Los handlers la traducen a códigos HTTP en httpx.WriteError.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrExternal        = errors.New("external provider error")

	// ErrConflict es un caso particular de validación (p.ej. email duplicado).
	ErrConflict = fmt.Errorf("%w: already exists", ErrValidation)
)

// Error permite adjuntar un mensaje para el cliente sin perder el kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Kind }

func New(kind error, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

func Validation(msg string) error      { return New(ErrValidation, msg) }
func Unauthenticated(msg string) error { return New(ErrUnauthenticated, msg) }
func Forbidden(msg string) error       { return New(ErrForbidden, msg) }
func NotFound(msg string) error        { return New(ErrNotFound, msg) }

// External envuelve la falla de un proveedor externo conservando su mensaje.
func External(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: ErrExternal, Msg: err.Error()}
}

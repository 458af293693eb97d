package identity

import (
	"context"
	"errors"
)

// ErrInvalidSession: el proveedor respondió pero rechazó el session id.
var ErrInvalidSession = errors.New("identity: invalid session")

// Identity es el perfil verificado que devuelve el proveedor federado.
// SessionToken lo emite el proveedor y se adopta tal cual como token de sesión local.
type Identity struct {
	Email        string
	Name         string
	Picture      string
	SessionToken string
}

// Provider intercambia un session id externo (de vida corta) por una Identity.
// Un rechazo explícito devuelve ErrInvalidSession; fallas de transporte vuelven tal cual.
type Provider interface {
	Exchange(ctx context.Context, sessionID string) (Identity, error)
}

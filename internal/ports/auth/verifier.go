package auth

import "context"

// AuthVerifier resuelve un token opaco a claims o devuelve error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

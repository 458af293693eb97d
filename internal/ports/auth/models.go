package auth

// Claims representa al usuario resuelto a partir del token de sesión.
// Role se lee del usuario en cada request, así que refleja promociones recientes.
type Claims struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

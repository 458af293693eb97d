package sessions

import "time"

// TTL de toda sesión emitida, sin refresh-on-use.
const TTL = 7 * 24 * time.Hour

type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Evaluate decide si la sesión sigue viva. Es pura: el borrado de una sesión
// vencida lo hace quien llama (expiración lazy, sin sweep en background).
// Un ExpiresAt sin zona se interpreta como UTC; expira estrictamente después de ExpiresAt.
func Evaluate(s Session, now time.Time) (valid bool, shouldDelete bool) {
	exp := s.ExpiresAt
	if exp.Location() != time.UTC {
		exp = exp.UTC()
	}
	if exp.Before(now.UTC()) {
		return false, true
	}
	return true, false
}

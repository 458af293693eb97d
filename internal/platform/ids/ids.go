package ids

import (
	"strings"

	"github.com/google/uuid"
)

// New genera un id con prefijo legible: "apt_3f2a9c0b1d4e".
func New(prefix string) string {
	return prefix + "_" + hex()[:12]
}

// Token genera un token opaco de sesión (128 bits de uuid v4).
func Token() string {
	return "session_" + hex()
}

func hex() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

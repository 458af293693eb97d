package vets

import "time"

// Profile es el perfil profesional de un vet. Máximo uno por usuario (UserID es la clave).
type Profile struct {
	UserID          string
	LicenseNumber   string
	Specialty       string
	Location        string
	Phone           *string
	Bio             *string
	ExperienceYears int
	Available       bool
	Rating          float64

	CreatedAt time.Time
}

// Listing es un Profile enriquecido con datos públicos del usuario.
// Name vacío => el usuario no se encontró (enriquecimiento best-effort).
type Listing struct {
	Profile
	Name    string
	Picture *string
}

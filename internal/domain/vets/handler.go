package vets

import (
	"net/http"
	"time"

	"rafikipets-api/internal/middleware"
	"rafikipets-api/internal/platform/httpx"
	"rafikipets-api/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	// Perfil propio (requiere sesión)
	r.Route("/vet/profile", func(pr chi.Router) {
		pr.Post("/", createProfileHandler(svc, log))
		pr.Get("/me", myProfileHandler(svc, log))
	})

	// Directorio público
	r.Get("/vets", listVetsHandler(svc, log))
	r.Get("/vets/{vetID}", getVetHandler(svc, log))
}

type profileResponse struct {
	UserID          string    `json:"user_id"`
	LicenseNumber   string    `json:"license_number"`
	Specialty       string    `json:"specialty"`
	Location        string    `json:"location"`
	Phone           *string   `json:"phone"`
	Bio             *string   `json:"bio"`
	ExperienceYears int       `json:"experience_years"`
	Available       bool      `json:"available"`
	Rating          float64   `json:"rating"`
	CreatedAt       time.Time `json:"created_at"`
}

type listingResponse struct {
	profileResponse
	Name    string  `json:"name,omitempty"`
	Picture *string `json:"picture,omitempty"`
}

// createProfileHandler godoc
// @Summary Crear perfil de vet
// @Description Crea el perfil profesional del usuario actual y lo promueve a `vet`. Un usuario solo puede tener un perfil.
// @Tags vets
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer <session_token> (alternativa a la cookie)"
// @Param payload body CreateInput true "Datos del perfil"
// @Success 200 {object} profileResponse
// @Failure 400 {object} object "Profile already exists / validación"
// @Failure 401 {object} object "Not authenticated"
// @Router /vet/profile [post]
func createProfileHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.RequireClaims(r.Context())
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		var req CreateInput
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		p, err := svc.Create(r.Context(), claims.UserID, req)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

// myProfileHandler godoc
// @Summary Mi perfil de vet
// @Tags vets
// @Produce json
// @Param Authorization header string false "Bearer <session_token> (alternativa a la cookie)"
// @Success 200 {object} profileResponse
// @Failure 401 {object} object "Not authenticated"
// @Failure 404 {object} object "Profile not found"
// @Router /vet/profile/me [get]
func myProfileHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.RequireClaims(r.Context())
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		p, err := svc.GetMine(r.Context(), claims.UserID)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

// listVetsHandler godoc
// @Summary Listar vets disponibles
// @Description Filtros opcionales por substring, sin distinguir mayúsculas. Máximo 100 resultados.
// @Tags vets
// @Produce json
// @Param specialty query string false "Especialidad"
// @Param location query string false "Ubicación"
// @Success 200 {array} listingResponse
// @Router /vets [get]
func listVetsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		items, err := svc.List(r.Context(), q.Get("specialty"), q.Get("location"))
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		out := make([]listingResponse, 0, len(items))
		for _, l := range items {
			out = append(out, toListingResponse(l))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// getVetHandler godoc
// @Summary Detalle de vet
// @Tags vets
// @Produce json
// @Param vetID path string true "user_id del vet"
// @Success 200 {object} listingResponse
// @Failure 404 {object} object "Vet not found"
// @Router /vets/{vetID} [get]
func getVetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, err := svc.Get(r.Context(), chi.URLParam(r, "vetID"))
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toListingResponse(l))
	}
}

func toProfileResponse(p Profile) profileResponse {
	return profileResponse{
		UserID:          p.UserID,
		LicenseNumber:   p.LicenseNumber,
		Specialty:       p.Specialty,
		Location:        p.Location,
		Phone:           p.Phone,
		Bio:             p.Bio,
		ExperienceYears: p.ExperienceYears,
		Available:       p.Available,
		Rating:          p.Rating,
		CreatedAt:       p.CreatedAt,
	}
}

func toListingResponse(l Listing) listingResponse {
	return listingResponse{
		profileResponse: toProfileResponse(l.Profile),
		Name:            l.Name,
		Picture:         l.Picture,
	}
}

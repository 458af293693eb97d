package emergencies

import (
	"net/http"
	"time"

	"rafikipets-api/internal/domain/users"
	"rafikipets-api/internal/middleware"
	"rafikipets-api/internal/platform/httpx"
	"rafikipets-api/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/emergency", func(er chi.Router) {
		er.Post("/", createEmergencyHandler(svc, log))
		er.Get("/", listEmergenciesHandler(svc, log))
		er.Patch("/{requestID}/accept", acceptEmergencyHandler(svc, log))
	})
}

type requestResponse struct {
	RequestID     string    `json:"request_id"`
	PetOwnerID    string    `json:"pet_owner_id"`
	Location      string    `json:"location"`
	Description   string    `json:"description"`
	PetName       string    `json:"pet_name"`
	PetType       string    `json:"pet_type"`
	Status        Status    `json:"status"`
	AssignedVetID *string   `json:"assigned_vet_id"`
	CreatedAt     time.Time `json:"created_at"`
}

type entryResponse struct {
	requestResponse
	OwnerName string `json:"owner_name,omitempty"`
	VetName   string `json:"vet_name,omitempty"`
}

// createEmergencyHandler godoc
// @Summary Crear solicitud de emergencia
// @Tags emergency
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer <session_token> (alternativa a la cookie)"
// @Param payload body CreateInput true "Datos de la emergencia"
// @Success 200 {object} requestResponse
// @Failure 400 {object} object "validación"
// @Failure 401 {object} object "Not authenticated"
// @Router /emergency [post]
func createEmergencyHandler(svc *Service, log logger.Logger) http.HandlerFunc {
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

		e, err := svc.Create(r.Context(), claims.UserID, req)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toRequestResponse(e))
	}
}

// listEmergenciesHandler godoc
// @Summary Listar emergencias
// @Description Vets: todas las activas más las que aceptaron. Dueños: las propias.
// @Tags emergency
// @Produce json
// @Param Authorization header string false "Bearer <session_token> (alternativa a la cookie)"
// @Success 200 {array} entryResponse
// @Failure 401 {object} object "Not authenticated"
// @Router /emergency [get]
func listEmergenciesHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.RequireClaims(r.Context())
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		items, err := svc.ListFor(r.Context(), claims.UserID, users.Role(claims.Role))
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		out := make([]entryResponse, 0, len(items))
		for _, e := range items {
			out = append(out, entryResponse{
				requestResponse: toRequestResponse(e.Request),
				OwnerName:       e.OwnerName,
				VetName:         e.VetName,
			})
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// acceptEmergencyHandler godoc
// @Summary Aceptar emergencia
// @Description Solo vets. Asigna la solicitud al vet actual; una segunda aceptación pisa la anterior.
// @Tags emergency
// @Produce json
// @Param Authorization header string false "Bearer <session_token> (alternativa a la cookie)"
// @Param requestID path string true "ID de la solicitud"
// @Success 200 {object} requestResponse
// @Failure 401 {object} object "Not authenticated"
// @Failure 403 {object} object "Only vets can accept emergency requests"
// @Failure 404 {object} object "Emergency request not found"
// @Router /emergency/{requestID}/accept [patch]
func acceptEmergencyHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.RequireClaims(r.Context())
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		e, err := svc.Accept(r.Context(), claims.UserID, users.Role(claims.Role), chi.URLParam(r, "requestID"))
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toRequestResponse(e))
	}
}

func toRequestResponse(e Request) requestResponse {
	return requestResponse{
		RequestID:     e.ID,
		PetOwnerID:    e.PetOwnerID,
		Location:      e.Location,
		Description:   e.Description,
		PetName:       e.PetName,
		PetType:       e.PetType,
		Status:        e.Status,
		AssignedVetID: e.AssignedVetID,
		CreatedAt:     e.CreatedAt,
	}
}

package appointments

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
	r.Route("/appointments", func(ar chi.Router) {
		ar.Post("/", createAppointmentHandler(svc, log))
		ar.Get("/", listAppointmentsHandler(svc, log))
		ar.Patch("/{appointmentID}", updateStatusHandler(svc, log))
	})
}

type appointmentResponse struct {
	AppointmentID   string        `json:"appointment_id"`
	PetOwnerID      string        `json:"pet_owner_id"`
	VetID           string        `json:"vet_id"`
	AppointmentDate string        `json:"appointment_date"`
	AppointmentTime string        `json:"appointment_time"`
	PetName         string        `json:"pet_name"`
	PetType         string        `json:"pet_type"`
	Reason          string        `json:"reason"`
	Status          Status        `json:"status"`
	Amount          float64       `json:"amount"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	CreatedAt       time.Time     `json:"created_at"`
}

type entryResponse struct {
	appointmentResponse
	VetName   string `json:"vet_name,omitempty"`
	OwnerName string `json:"owner_name,omitempty"`
}

// createAppointmentHandler godoc
// @Summary Reservar turno
// @Description Crea un turno en estado `pending` con tarifa fija de 50.0 y pago `pending`.
// @Tags appointments
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer <session_token> (alternativa a la cookie)"
// @Param payload body CreateInput true "Datos del turno"
// @Success 200 {object} appointmentResponse
// @Failure 400 {object} object "validación"
// @Failure 401 {object} object "Not authenticated"
// @Router /appointments [post]
func createAppointmentHandler(svc *Service, log logger.Logger) http.HandlerFunc {
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

		a, err := svc.Create(r.Context(), claims.UserID, req)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

// listAppointmentsHandler godoc
// @Summary Mis turnos
// @Description Un vet ve los turnos donde es el vet; un dueño los que reservó. Máximo 100.
// @Tags appointments
// @Produce json
// @Param Authorization header string false "Bearer <session_token> (alternativa a la cookie)"
// @Success 200 {array} entryResponse
// @Failure 401 {object} object "Not authenticated"
// @Router /appointments [get]
func listAppointmentsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
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
				appointmentResponse: toAppointmentResponse(e.Appointment),
				VetName:             e.VetName,
				OwnerName:           e.OwnerName,
			})
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// updateStatusHandler godoc
// @Summary Cambiar estado de turno
// @Tags appointments
// @Produce json
// @Param Authorization header string false "Bearer <session_token> (alternativa a la cookie)"
// @Param appointmentID path string true "ID del turno"
// @Param status query string true "pending | confirmed | completed | cancelled"
// @Success 200 {object} appointmentResponse
// @Failure 400 {object} object "status inválido"
// @Failure 401 {object} object "Not authenticated"
// @Failure 404 {object} object "Appointment not found"
// @Router /appointments/{appointmentID} [patch]
func updateStatusHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.RequireClaims(r.Context())
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		status, err := httpx.QueryRequired(r, "status")
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		a, err := svc.SetStatus(r.Context(), claims.UserID, chi.URLParam(r, "appointmentID"), Status(status))
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

func toAppointmentResponse(a Appointment) appointmentResponse {
	return appointmentResponse{
		AppointmentID:   a.ID,
		PetOwnerID:      a.PetOwnerID,
		VetID:           a.VetID,
		AppointmentDate: a.Date,
		AppointmentTime: a.Time,
		PetName:         a.PetName,
		PetType:         a.PetType,
		Reason:          a.Reason,
		Status:          a.Status,
		Amount:          a.Amount,
		PaymentStatus:   a.PaymentStatus,
		CreatedAt:       a.CreatedAt,
	}
}

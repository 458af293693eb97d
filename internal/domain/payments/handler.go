package payments

import (
	"io"
	"net/http"

	"rafikipets-api/internal/middleware"
	"rafikipets-api/internal/platform/apperr"
	"rafikipets-api/internal/platform/httpx"
	"rafikipets-api/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// Stripe no manda payloads grandes; 64KB alcanza.
const maxWebhookBytes = 64 << 10

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Post("/payments/checkout", checkoutHandler(svc, log))
	r.Get("/payments/status/{sessionID}", statusHandler(svc, log))
	r.Post("/webhook/stripe", webhookHandler(svc, log))
}

type checkoutResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

type statusResponse struct {
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata"`
}

type webhookResponse struct {
	Status string `json:"status"`
}

// checkoutHandler godoc
// @Summary Iniciar pago de turno
// @Description Crea la sesión de checkout en el proveedor y registra la transacción `pending`.
// @Tags payments
// @Produce json
// @Param Authorization header string false "Bearer <session_token> (alternativa a la cookie)"
// @Param appointment_id query string true "ID del turno"
// @Param origin_url query string true "Origen del frontend para las URLs de retorno"
// @Success 200 {object} checkoutResponse
// @Failure 400 {object} object "validación / error del proveedor"
// @Failure 401 {object} object "Not authenticated"
// @Failure 404 {object} object "Appointment not found"
// @Router /payments/checkout [post]
func checkoutHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.RequireClaims(r.Context())
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		appointmentID, err := httpx.QueryRequired(r, "appointment_id")
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		sess, err := svc.Checkout(r.Context(), claims.UserID, appointmentID, r.URL.Query().Get("origin_url"))
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, checkoutResponse{URL: sess.URL, SessionID: sess.ID})
	}
}

// statusHandler godoc
// @Summary Estado de pago
// @Description Consulta el proveedor; si está pagado y la transacción local no, marca transacción y turno como pagados.
// @Tags payments
// @Produce json
// @Param sessionID path string true "ID de la sesión de checkout"
// @Success 200 {object} statusResponse
// @Failure 400 {object} object "error del proveedor"
// @Router /payments/status/{sessionID} [get]
func statusHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.Status(r.Context(), chi.URLParam(r, "sessionID"))
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, statusResponse{
			Status:        st.Status,
			PaymentStatus: st.PaymentStatus,
			AmountTotal:   st.AmountTotal,
			Currency:      st.Currency,
			Metadata:      st.Metadata,
		})
	}
}

// webhookHandler godoc
// @Summary Webhook de Stripe
// @Description Verifica `Stripe-Signature` y reconcilia los pagos confirmados.
// @Tags payments
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Firma del evento"
// @Success 200 {object} webhookResponse
// @Failure 400 {object} object "firma inválida / error del proveedor"
// @Router /webhook/stripe [post]
func webhookHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
		if err != nil {
			httpx.WriteError(w, r, log, apperr.Validation("cannot read body"))
			return
		}

		if err := svc.Webhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, webhookResponse{Status: "success"})
	}
}

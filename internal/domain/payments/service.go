package payments

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"rafikipets-api/internal/domain/appointments"
	"rafikipets-api/internal/platform/apperr"
	"rafikipets-api/internal/platform/ids"
	"rafikipets-api/internal/platform/logger"
	"rafikipets-api/internal/platform/metrics"
	"rafikipets-api/internal/ports/checkout"
)

const (
	SourcePoll    = "poll"
	SourceWebhook = "webhook"
)

type Service struct {
	repo     Repository
	appts    *appointments.Service
	provider checkout.Provider
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, appts *appointments.Service, provider checkout.Provider, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:     repo,
		appts:    appts,
		provider: provider,
		log:      log,
		now:      time.Now,
	}
}

// Checkout crea la sesión hospedada para el turno y persiste la transacción pendiente.
func (s *Service) Checkout(ctx context.Context, userID, appointmentID, originURL string) (checkout.Session, error) {
	origin, err := normalizeOrigin(originURL)
	if err != nil {
		return checkout.Session{}, err
	}

	a, err := s.appts.Get(ctx, appointmentID)
	if err != nil {
		return checkout.Session{}, err
	}
	if s.provider == nil {
		return checkout.Session{}, apperr.External(checkout.ErrNotConfigured)
	}

	sess, err := s.provider.CreateSession(ctx, checkout.SessionRequest{
		Amount:      a.Amount,
		Currency:    Currency,
		Description: fmt.Sprintf("Consulta veterinaria %s (%s)", a.PetName, a.Date),
		SuccessURL:  origin + "/payment/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   origin + "/appointments",
		Metadata: map[string]string{
			"appointment_id": a.ID,
			"user_id":        userID,
		},
	})
	if err != nil {
		return checkout.Session{}, apperr.External(err)
	}

	tx := Transaction{
		ID:            ids.New("pay"),
		SessionID:     sess.ID,
		AppointmentID: a.ID,
		UserID:        userID,
		Amount:        a.Amount,
		Currency:      Currency,
		PaymentStatus: StatusPending,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.repo.Create(ctx, tx); err != nil {
		return checkout.Session{}, err
	}

	s.log.Info("checkout session created", map[string]any{
		"payment_id":     tx.ID,
		"session_id":     sess.ID,
		"appointment_id": a.ID,
	})
	return sess, nil
}

// Status consulta al proveedor y reconcilia si ya está pagado.
func (s *Service) Status(ctx context.Context, sessionID string) (checkout.Status, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return checkout.Status{}, apperr.Validation("session_id is required")
	}
	if s.provider == nil {
		return checkout.Status{}, apperr.External(checkout.ErrNotConfigured)
	}

	st, err := s.provider.GetStatus(ctx, sessionID)
	if err != nil {
		return checkout.Status{}, apperr.External(err)
	}

	if st.PaymentStatus == checkout.PaymentStatusPaid {
		if err := s.reconcile(ctx, sessionID, SourcePoll); err != nil {
			return checkout.Status{}, err
		}
	}
	return st, nil
}

// Webhook verifica la firma vía proveedor y reconcilia los eventos pagados.
func (s *Service) Webhook(ctx context.Context, payload []byte, signature string) error {
	if s.provider == nil {
		return apperr.External(checkout.ErrNotConfigured)
	}

	ev, err := s.provider.ParseWebhook(ctx, payload, signature)
	if err != nil {
		s.log.Error("webhook error", map[string]any{"err": err.Error()})
		return apperr.External(err)
	}

	s.log.Debug("webhook received", map[string]any{
		"event_id":       ev.EventID,
		"event_type":     ev.EventType,
		"session_id":     ev.SessionID,
		"payment_status": ev.PaymentStatus,
	})

	if ev.PaymentStatus != checkout.PaymentStatusPaid || ev.SessionID == "" {
		return nil
	}
	return s.reconcile(ctx, ev.SessionID, SourceWebhook)
}

// reconcile: check-then-write, sin transacción. Dos llamadas concurrentes pueden pasar
// el check y escribir ambas; escriben el mismo valor terminal.
func (s *Service) reconcile(ctx context.Context, sessionID, source string) error {
	tx, err := s.repo.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			s.log.Warn("paid session without local transaction", map[string]any{
				"session_id": sessionID,
				"source":     source,
			})
			return nil
		}
		return err
	}
	if tx.Paid() {
		return nil
	}

	if err := s.repo.MarkPaid(ctx, sessionID); err != nil {
		return err
	}
	if err := s.appts.MarkPaid(ctx, tx.AppointmentID); err != nil {
		return err
	}

	metrics.PaymentReconciled(source)
	s.log.Info("payment reconciled", map[string]any{
		"payment_id":     tx.ID,
		"appointment_id": tx.AppointmentID,
		"source":         source,
	})
	return nil
}

func normalizeOrigin(raw string) (string, error) {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		return "", apperr.Validation("origin_url is required")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", apperr.Validation("origin_url must be an absolute http(s) url")
	}
	return raw, nil
}

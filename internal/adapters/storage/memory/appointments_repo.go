package memory

import (
	"context"
	"sort"
	"sync"

	"rafikipets-api/internal/domain/appointments"
	"rafikipets-api/internal/platform/apperr"
)

type appointmentRepo struct {
	mu   sync.RWMutex
	byID map[string]appointments.Appointment
}

func NewAppointmentRepo() appointments.Repository {
	return &appointmentRepo{byID: make(map[string]appointments.Appointment)}
}

func (r *appointmentRepo) Create(ctx context.Context, a appointments.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[a.ID]; exists {
		return apperr.ErrConflict
	}
	r.byID[a.ID] = a
	return nil
}

func (r *appointmentRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return appointments.Appointment{}, apperr.ErrNotFound
	}
	return a, nil
}

func (r *appointmentRepo) List(ctx context.Context, f appointments.ListFilter) ([]appointments.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]appointments.Appointment, 0)
	for _, a := range r.byID {
		if f.PetOwnerID != "" && a.PetOwnerID != f.PetOwnerID {
			continue
		}
		if f.VetID != "" && a.VetID != f.VetID {
			continue
		}
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return limit(out, f.Limit), nil
}

func (r *appointmentRepo) SetStatus(ctx context.Context, id string, status appointments.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return apperr.ErrNotFound
	}
	a.Status = status
	r.byID[id] = a
	return nil
}

func (r *appointmentRepo) SetPayment(ctx context.Context, id string, payment appointments.PaymentStatus, status appointments.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return apperr.ErrNotFound
	}
	a.PaymentStatus = payment
	a.Status = status
	r.byID[id] = a
	return nil
}

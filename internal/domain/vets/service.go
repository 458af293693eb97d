package vets

import (
	"context"
	"errors"
	"strings"
	"time"

	"rafikipets-api/internal/domain/users"
	"rafikipets-api/internal/platform/apperr"
)

var (
	ErrProfileExists   = apperr.New(apperr.ErrConflict, "Profile already exists")
	ErrProfileNotFound = apperr.NotFound("Profile not found")
	ErrVetNotFound     = apperr.NotFound("Vet not found")
)

type Service struct {
	repo  Repository
	users *users.Service
	now   func() time.Time
}

func NewService(repo Repository, us *users.Service) *Service {
	return &Service{
		repo:  repo,
		users: us,
		now:   time.Now,
	}
}

type CreateInput struct {
	LicenseNumber   string  `json:"license_number" validate:"required"`
	Specialty       string  `json:"specialty" validate:"required"`
	Location        string  `json:"location" validate:"required"`
	Phone           *string `json:"phone"`
	Bio             *string `json:"bio"`
	ExperienceYears int     `json:"experience_years" validate:"min=0"`
}

// Create crea el perfil y promueve al usuario a vet.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Profile, error) {
	if _, err := s.repo.GetByUserID(ctx, userID); err == nil {
		return Profile{}, ErrProfileExists
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return Profile{}, err
	}

	p := Profile{
		UserID:          userID,
		LicenseNumber:   strings.TrimSpace(in.LicenseNumber),
		Specialty:       strings.TrimSpace(in.Specialty),
		Location:        strings.TrimSpace(in.Location),
		Phone:           in.Phone,
		Bio:             in.Bio,
		ExperienceYears: in.ExperienceYears,
		Available:       true,
		Rating:          0,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return Profile{}, ErrProfileExists
		}
		return Profile{}, err
	}

	if _, err := s.users.Promote(ctx, userID, users.RoleVet); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (s *Service) GetMine(ctx context.Context, userID string) (Profile, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		return Profile{}, ErrProfileNotFound
	}
	return p, err
}

func (s *Service) Get(ctx context.Context, vetID string) (Listing, error) {
	p, err := s.repo.GetByUserID(ctx, strings.TrimSpace(vetID))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Listing{}, ErrVetNotFound
		}
		return Listing{}, err
	}
	return s.enrich(ctx, p), nil
}

func (s *Service) List(ctx context.Context, specialty, location string) ([]Listing, error) {
	items, err := s.repo.List(ctx, ListFilter{
		Specialty: strings.TrimSpace(specialty),
		Location:  strings.TrimSpace(location),
		Limit:     MaxList,
	})
	if err != nil {
		return nil, err
	}

	out := make([]Listing, 0, len(items))
	for _, p := range items {
		out = append(out, s.enrich(ctx, p))
	}
	return out, nil
}

func (s *Service) enrich(ctx context.Context, p Profile) Listing {
	l := Listing{Profile: p}
	if u, ok := s.users.Lookup(ctx, p.UserID); ok {
		l.Name = u.Name
		l.Picture = u.Picture
	}
	return l
}

// Package accounts emite sesiones: registro con password, login y login federado.
package accounts

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"rafikipets-api/internal/domain/sessions"
	"rafikipets-api/internal/domain/users"
	"rafikipets-api/internal/platform/apperr"
	"rafikipets-api/internal/platform/logger"
	"rafikipets-api/internal/platform/validate"
	"rafikipets-api/internal/ports/identity"
)

var (
	ErrEmailTaken         = apperr.New(apperr.ErrConflict, "Email already registered")
	ErrInvalidCredentials = apperr.Unauthenticated("Invalid credentials")
	ErrSessionIDRequired  = apperr.Validation("Session ID required")
	ErrInvalidSession     = apperr.Unauthenticated("Invalid session")
)

type Service struct {
	users    *users.Service
	sessions *sessions.Service
	identity identity.Provider
	log      logger.Logger

	hashCost int
}

func NewService(us *users.Service, ss *sessions.Service, idp identity.Provider, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		users:    us,
		sessions: ss,
		identity: idp,
		log:      log,
		hashCost: bcrypt.DefaultCost,
	}
}

// Result es lo que devuelven todos los flujos de login.
type Result struct {
	User    users.User
	Session sessions.Session
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"user_type" validate:"required,oneof=pet_owner vet"`
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Result, error) {
	if err := validate.Struct(in); err != nil {
		return Result{}, err
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return Result{}, ErrEmailTaken
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return Result{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return Result{}, apperr.Validation("password is too long")
		}
		return Result{}, err
	}

	u, err := s.users.Create(ctx, users.CreateInput{
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		Role:         users.Role(in.Role),
	})
	if err != nil {
		// Carrera con otro registro del mismo email: lo resuelve el unique index.
		if errors.Is(err, apperr.ErrConflict) {
			return Result{}, ErrEmailTaken
		}
		return Result{}, err
	}

	return s.issue(ctx, u, "")
}

// Login no distingue "email desconocido" de "password incorrecto".
func (s *Service) Login(ctx context.Context, email, password string) (Result, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Result{}, ErrInvalidCredentials
		}
		return Result{}, err
	}
	if !u.HasPassword() {
		return Result{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return Result{}, ErrInvalidCredentials
	}

	return s.issue(ctx, u, "")
}

// FederatedLogin intercambia el session id externo y hace upsert del usuario por email.
// Un usuario existente solo refresca nombre y foto.
func (s *Service) FederatedLogin(ctx context.Context, externalSessionID string) (Result, error) {
	externalSessionID = strings.TrimSpace(externalSessionID)
	if externalSessionID == "" {
		return Result{}, ErrSessionIDRequired
	}
	if s.identity == nil {
		return Result{}, apperr.External(errors.New("identity provider not configured"))
	}

	id, err := s.identity.Exchange(ctx, externalSessionID)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidSession) {
			return Result{}, ErrInvalidSession
		}
		s.log.Warn("identity exchange failed", map[string]any{"err": err.Error()})
		return Result{}, apperr.External(err)
	}
	if strings.TrimSpace(id.Email) == "" {
		return Result{}, ErrInvalidSession
	}

	var picture *string
	if id.Picture != "" {
		p := id.Picture
		picture = &p
	}

	u, err := s.users.GetByEmail(ctx, id.Email)
	switch {
	case err == nil:
		u, err = s.users.RefreshProfile(ctx, u.ID, id.Name, picture)
		if err != nil {
			return Result{}, err
		}
	case errors.Is(err, apperr.ErrNotFound):
		u, err = s.users.Create(ctx, users.CreateInput{
			Email:   id.Email,
			Name:    id.Name,
			Picture: picture,
			Role:    users.RolePetOwner,
		})
		if err != nil {
			return Result{}, err
		}
		s.log.Info("federated user created", map[string]any{"user_id": u.ID})
	default:
		return Result{}, err
	}

	return s.issue(ctx, u, id.SessionToken)
}

// Me resuelve el token presentado al usuario actual.
func (s *Service) Me(ctx context.Context, token string) (users.User, error) {
	u, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, apperr.ErrUnauthenticated) {
			return users.User{}, apperr.Unauthenticated("Not authenticated")
		}
		return users.User{}, err
	}
	return u, nil
}

// Logout borra la sesión presentada, si hay. Siempre exitoso para el cliente.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

func (s *Service) issue(ctx context.Context, u users.User, token string) (Result, error) {
	sess, err := s.sessions.Issue(ctx, u.ID, token)
	if err != nil {
		return Result{}, err
	}
	return Result{User: u, Session: sess}, nil
}

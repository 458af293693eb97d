package accounts

import (
	"net/http"
	"time"

	"rafikipets-api/internal/domain/sessions"
	"rafikipets-api/internal/domain/users"
	"rafikipets-api/internal/middleware"
	"rafikipets-api/internal/platform/httpx"
	"rafikipets-api/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/register", registerHandler(svc, log))
		ar.Post("/login", loginHandler(svc, log))
		ar.Post("/google-session", googleSessionHandler(svc, log))
		ar.Get("/me", meHandler(svc, log))
		ar.Post("/logout", logoutHandler(svc, log))
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	UserType  string    `json:"user_type"`
	Picture   *string   `json:"picture"`
	CreatedAt time.Time `json:"created_at"`
}

type authResponse struct {
	User         userResponse `json:"user"`
	SessionToken string       `json:"session_token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// registerHandler godoc
// @Summary Registrar cuenta
// @Description Crea la cuenta con password y emite una sesión de 7 días (body y cookie `session_token`).
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body RegisterInput true "email, password, name, user_type (pet_owner|vet)"
// @Success 200 {object} authResponse
// @Failure 400 {object} object "Email already registered / validación"
// @Router /auth/register [post]
func registerHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterInput
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		res, err := svc.Register(r.Context(), req)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		writeAuth(w, res)
	}
}

// loginHandler godoc
// @Summary Login con password
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} authResponse
// @Failure 401 {object} object "Invalid credentials"
// @Router /auth/login [post]
func loginHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		res, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		writeAuth(w, res)
	}
}

// googleSessionHandler godoc
// @Summary Login federado
// @Description Intercambia el `X-Session-ID` del proveedor de identidad por un perfil verificado. Adopta el token del proveedor como sesión local.
// @Tags auth
// @Produce json
// @Param X-Session-ID header string true "Session id emitido por el proveedor"
// @Success 200 {object} authResponse
// @Failure 400 {object} object "Session ID required"
// @Failure 401 {object} object "Invalid session"
// @Router /auth/google-session [post]
func googleSessionHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.FederatedLogin(r.Context(), r.Header.Get("X-Session-ID"))
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		writeAuth(w, res)
	}
}

// meHandler godoc
// @Summary Usuario actual
// @Tags auth
// @Produce json
// @Param Authorization header string false "Bearer <session_token> (alternativa a la cookie)"
// @Success 200 {object} userResponse
// @Failure 401 {object} object "Not authenticated"
// @Router /auth/me [get]
func meHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.Me(r.Context(), middleware.TokenFromRequest(r))
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
	}
}

// logoutHandler godoc
// @Summary Logout
// @Description Borra la sesión presentada (si hay) y limpia la cookie. Siempre 200.
// @Tags auth
// @Produce json
// @Success 200 {object} messageResponse
// @Router /auth/logout [post]
func logoutHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := middleware.TokenFromRequest(r); token != "" {
			if err := svc.Logout(r.Context(), token); err != nil {
				log.Warn("logout: delete session failed", map[string]any{"err": err.Error()})
			}
		}

		http.SetCookie(w, &http.Cookie{
			Name:     middleware.SessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteNoneMode,
		})
		httpx.WriteJSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
	}
}

func writeAuth(w http.ResponseWriter, res Result) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    res.Session.Token,
		Path:     "/",
		MaxAge:   int(sessions.TTL / time.Second),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	httpx.WriteJSON(w, http.StatusOK, authResponse{
		User:         toUserResponse(res.User),
		SessionToken: res.Session.Token,
	})
}

func toUserResponse(u users.User) userResponse {
	return userResponse{
		UserID:    u.ID,
		Email:     u.Email,
		Name:      u.Name,
		UserType:  string(u.Role),
		Picture:   u.Picture,
		CreatedAt: u.CreatedAt,
	}
}

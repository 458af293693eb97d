package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "rafikipets-api/docs"
	"rafikipets-api/internal/domain/accounts"
	"rafikipets-api/internal/domain/appointments"
	"rafikipets-api/internal/domain/chats"
	"rafikipets-api/internal/domain/emergencies"
	"rafikipets-api/internal/domain/payments"
	"rafikipets-api/internal/domain/sessions"
	"rafikipets-api/internal/domain/users"
	"rafikipets-api/internal/domain/vets"
	"rafikipets-api/internal/middleware"
	"rafikipets-api/internal/platform/httpx"
	"rafikipets-api/internal/platform/logger"
	"rafikipets-api/internal/platform/metrics"
	"rafikipets-api/internal/ports/checkout"
	"rafikipets-api/internal/ports/identity"
)

type Options struct {
	Log    logger.Logger
	Stores Stores

	// Pueden ser nil: los endpoints que los usan responden error de proveedor.
	Identity identity.Provider
	Checkout checkout.Provider

	AllowedOrigins []string
}

type rootResponse struct {
	Message string `json:"message"`
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	st := opts.Stores

	// Services por módulo
	usersSvc := users.NewService(st.Users)
	sessionsSvc := sessions.NewService(st.Sessions, usersSvc, log)
	accountsSvc := accounts.NewService(usersSvc, sessionsSvc, opts.Identity, log)
	vetsSvc := vets.NewService(st.Vets, usersSvc)
	apptsSvc := appointments.NewService(st.Appointments, usersSvc, log)
	emergSvc := emergencies.NewService(st.Emergencies, usersSvc, log)
	chatsSvc := chats.NewService(st.Chats, st.Messages, usersSvc)
	paymentsSvc := payments.NewService(st.Payments, apptsSvc, opts.Checkout, log)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(metrics.Instrument)

	r.Use(middleware.AuthContext(sessionsSvc))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api", func(api chi.Router) {
		api.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			httpx.WriteJSON(w, http.StatusOK, rootResponse{Message: "RafikiPets API"})
		})

		// Rutas por módulo
		accounts.RegisterRoutes(api, accountsSvc, log)
		vets.RegisterRoutes(api, vetsSvc, log)
		appointments.RegisterRoutes(api, apptsSvc, log)
		emergencies.RegisterRoutes(api, emergSvc, log)
		chats.RegisterRoutes(api, chatsSvc, log)
		payments.RegisterRoutes(api, paymentsSvc, log)
	})

	return r
}

// Package httpapi отдаёт JSON API поверх сервисов слотов, обменов и пользователей.
package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/slot_swapper/internal/auth"
	"github.com/Freeeeeet/slot_swapper/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type Server struct {
	users    *service.UserService
	slots    *service.SlotService
	swaps    *service.SwapService
	tokens   *auth.TokenIssuer
	validate *validator.Validate
	logger   *zap.Logger
}

func NewServer(
	users *service.UserService,
	slots *service.SlotService,
	swaps *service.SwapService,
	tokens *auth.TokenIssuer,
	logger *zap.Logger,
) *Server {
	return &Server{
		users:    users,
		slots:    slots,
		swaps:    swaps,
		tokens:   tokens,
		validate: validator.New(),
		logger:   logger,
	}
}

// Routes собирает роутер API
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(s.accessLog)
	r.Use(s.recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", s.handleSignup)
			r.Post("/login", s.handleLogin)
			r.Post("/reset-password", s.handleResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(s.authenticate)
				r.Get("/me", s.handleMe)
				r.Put("/profile", s.handleUpdateProfile)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Route("/events", func(r chi.Router) {
				r.Get("/", s.handleListEvents)
				r.Post("/", s.handleCreateEvent)
				r.Put("/{id}", s.handleUpdateEvent)
				r.Delete("/{id}", s.handleDeleteEvent)
				r.Put("/{id}/status", s.handleSetEventStatus)
			})

			r.Route("/swap", func(r chi.Router) {
				r.Get("/swappable-slots", s.handleSwappableSlots)
				r.Post("/swap-request", s.handleSwapRequest)
				r.Get("/swap-requests", s.handleSwapRequests)
				r.Post("/swap-response/{requestId}", s.handleSwapResponse)
			})
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK", "message": "SlotSwapper API is running"})
}

// Package rest exposes the user service over HTTP. Routing is gorilla/mux;
// every response body is JSON, and failures are serialized as the
// common.ServiceError envelope.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/validoio/valido/internal/logging"
	"github.com/validoio/valido/internal/server/auth"
	"github.com/validoio/valido/internal/server/services"
)

type Server struct {
	address string
	logger  logging.Logger
	users   *services.UserService
	codec   *auth.Codec
}

func NewServer(address string, logger logging.Logger, users *services.UserService, codec *auth.Codec) *Server {
	return &Server{
		address: address,
		logger:  logger.With("module", "rest_server"),
		users:   users,
		codec:   codec,
	}
}

// Router builds the route table. Auth endpoints are public; the user
// directory sits behind the bearer-token middleware.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.corsMiddleware)

	// Preflight requests must match a route for the CORS middleware to run;
	// the middleware answers them before this handler is reached.
	r.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/ping", s.handlePing).Methods(http.MethodGet)

	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/signup", s.handleSignup).Methods(http.MethodPost)
	api.HandleFunc("/auth/verify-otp", s.handleVerifyOtp).Methods(http.MethodPost)
	api.HandleFunc("/auth/resend-otp", s.handleResendOtp).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", s.handleRefresh).Methods(http.MethodPost)

	protected := api.PathPrefix("/users").Subrouter()
	protected.Use(s.authMiddleware)
	protected.HandleFunc("", s.handleListUsers).Methods(http.MethodGet)
	protected.HandleFunc("/{id}", s.handleGetUser).Methods(http.MethodGet)

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ssvlabs/ssv-bridge/api"
	"github.com/ssvlabs/ssv-bridge/api/handlers"
	"github.com/ssvlabs/ssv-bridge/logging"
	"github.com/ssvlabs/ssv-bridge/logging/fields"
)

type Server struct {
	logger *zap.Logger
	addr   string
	bridge *handlers.Bridge
	server *http.Server
}

func New(logger *zap.Logger, addr string, bridge *handlers.Bridge) *Server {
	return &Server{
		logger: logger.Named(logging.NameAPIServer),
		addr:   addr,
		bridge: bridge,
	}
}

// Router returns the API routes.
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Throttle(maxConcurrentRequests))

	router.Get("/v1/bridge/quorum", api.Handler(s.bridge.Quorum))
	router.Get("/v1/bridge/counter", api.Handler(s.bridge.Counter))
	router.Get("/v1/bridge/vaults/{mint}", api.Handler(s.bridge.Vault))
	router.Get("/v1/accounts/{pubkey}", api.Handler(s.bridge.Account))
	return router
}

const maxConcurrentRequests = 64

// Run serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("serving bridge API", fields.Address(s.addr))

	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.Router(),
		ReadTimeout:  12 * time.Second,
		WriteTimeout: 12 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("could not shut down API server", zap.Error(err))
		}
	}()

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/ai"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

const shutdownTimeout = 5 * time.Second

type MovePicker interface {
	PickMove(board tictactoe.Board, player tictactoe.Player) (ai.Move, error)
}

// Server exposes the board model and the move pickers over stateless HTTP endpoints.
type Server struct {
	logger *slog.Logger

	defaultStrategy ai.Strategy
	pickers         map[ai.Strategy]MovePicker
}

func New(logger *slog.Logger, defaultStrategy ai.Strategy, pickers map[ai.Strategy]MovePicker) *Server {
	return &Server{
		logger: logger.With("component", "rest"),

		defaultStrategy: defaultStrategy,
		pickers:         pickers,
	}
}

// Router builds the HTTP handler with all routes mounted.
func (that *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/ping", pingHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/classify", that.handleClassify)
		r.Post("/move", that.handleMove)
	})

	return r
}

// Start - starts HTTP server and blocks until ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	that.logger.Info("HTTP server stopped")

	return nil
}

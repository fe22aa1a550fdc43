package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/ai"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

const (
	pingInterval    = 30 * time.Second
	pongWait        = 2 * pingInterval
	writeWait       = 10 * time.Second
	maxMessageSize  = 4 << 10
	sendBufferSize  = 16
	shutdownTimeout = 5 * time.Second
)

var errWriterStopped = errors.New("writer stopped")

type gameUseCase interface {
	CreateGame(ctx context.Context, mode entity.Mode, strategy ai.Strategy, humanMark tictactoe.Player) (*entity.Game, error)
	MakeTurn(ctx context.Context, gameID string, player tictactoe.Player, row, col int) (*entity.Game, error)
	Restart(ctx context.Context, gameID string) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
}

type handlerFunc func(ctx context.Context, message *Message) (*entity.Game, error)

type Server struct {
	logger   *slog.Logger
	uGame    gameUseCase
	upgrader websocket.Upgrader

	defaultStrategy ai.Strategy
	handlers        map[string]handlerFunc

	connsMutex sync.Mutex
	conns      map[*websocket.Conn]struct{}
}

func New(logger *slog.Logger, uGame gameUseCase, defaultStrategy ai.Strategy) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		uGame:  uGame,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},

		defaultStrategy: defaultStrategy,
		handlers:        make(map[string]handlerFunc),
		conns:           make(map[*websocket.Conn]struct{}),
	}

	server.handlers[actionNewGame] = server.handleNewGame
	server.handlers[actionTurn] = server.handleGameTurn
	server.handlers[actionRestart] = server.handleRestart
	server.handlers[actionState] = server.handleState

	return server
}

func (that *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/ws", that.upgradeToWebSocket)

	return r
}

// Start - starts WebSocket server and blocks until ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
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

	err := srv.Shutdown(shutdownCtx)
	that.closeConnections()

	if err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	that.logger.Info("WebSocket server stopped")

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket and serves it until the client leaves.
func (that *Server) upgradeToWebSocket(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	that.track(conn)
	defer that.untrack(conn)

	log.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	send := make(chan []byte, sendBufferSize)
	done := make(chan struct{})

	go func() {
		defer close(done)

		if err := that.writeMessages(conn, send); err != nil {
			log.Debug("writer stopped", "error", err)
			conn.Close()
		}
	}()

	if err = that.handleMessages(req.Context(), conn, send, done); err != nil {
		log.Debug("reader stopped", "error", err)
	}

	close(send)
	<-done
	conn.Close()
}

// handleMessages - reads client messages and queues one response per message.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn, send chan<- []byte, writerDone <-chan struct{}) error {
	log := that.logger.With("method", "handleMessages")

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return err
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("connection closed unexpectedly", "error", err)
			}

			return err
		}

		var response []byte

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			response = that.errorResponse(actionError, fmt.Errorf("malformed message: %w", err))
		} else {
			response = that.dispatch(ctx, &message)
		}

		select {
		case send <- response:
		case <-writerDone:
			return errWriterStopped
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (that *Server) dispatch(ctx context.Context, message *Message) []byte {
	log := that.logger.With("method", "dispatch", "action", message.Action)

	handler, ok := that.handlers[message.Action]
	if !ok {
		return that.errorResponse(message.Action, fmt.Errorf("unknown action %q", message.Action))
	}

	game, err := handler(ctx, message)
	if err != nil {
		log.Info("action failed", "error", err)
		return that.errorResponse(message.Action, err)
	}

	response, err := encodeMessage(message.Action, ResponsePayload{Game: game})
	if err != nil {
		log.Error("failed to encode response", "error", err)
		return that.errorResponse(message.Action, err)
	}

	return response
}

func (that *Server) errorResponse(action string, err error) []byte {
	if action == "" {
		action = actionError
	}

	response, encodeErr := encodeMessage(action, ResponsePayload{Error: err.Error()})
	if encodeErr != nil {
		that.logger.Error("failed to encode error response", "error", encodeErr)
		return nil
	}

	return response
}

// writeMessages - the only writer of conn: it drains send and pings idle clients.
func (that *Server) writeMessages(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			}
			if msg == nil {
				continue
			}

			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}

func (that *Server) track(conn *websocket.Conn) {
	that.connsMutex.Lock()
	defer that.connsMutex.Unlock()

	that.conns[conn] = struct{}{}
}

func (that *Server) untrack(conn *websocket.Conn) {
	that.connsMutex.Lock()
	defer that.connsMutex.Unlock()

	delete(that.conns, conn)
}

// closeConnections closes hijacked connections that http.Server.Shutdown leaves open.
func (that *Server) closeConnections() {
	that.connsMutex.Lock()
	defer that.connsMutex.Unlock()

	for conn := range that.conns {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"), time.Now().Add(time.Second))
		conn.Close()
	}
}

package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/ai"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

const maxBodyBytes = 4 << 10

type classifyRequest struct {
	Board tictactoe.Board `json:"board"`
}

type classifyResponse struct {
	Outcome tictactoe.Outcome `json:"outcome"`
}

type moveRequest struct {
	Board    tictactoe.Board `json:"board"`
	Player   string          `json:"player"`
	Strategy string          `json:"strategy,omitempty"`
}

type moveResponse struct {
	Row     int               `json:"row"`
	Col     int               `json:"col"`
	Board   tictactoe.Board   `json:"board"`
	Outcome tictactoe.Outcome `json:"outcome"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := that.decode(w, r, &req); err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, classifyResponse{Outcome: tictactoe.Classify(req.Board)})
}

func (that *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleMove", "requestID", middleware.GetReqID(r.Context()))

	var req moveRequest
	if err := that.decode(w, r, &req); err != nil {
		that.writeError(w, r, err)
		return
	}

	player, err := tictactoe.ParsePlayer(req.Player)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	picker, err := that.picker(req.Strategy)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	if outcome := tictactoe.Classify(req.Board); outcome.IsTerminal() {
		that.writeError(w, r, fmt.Errorf("%w: %s", apperror.ErrGameFinished, outcome))
		return
	}

	move, err := picker.PickMove(req.Board, player)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	board, err := tictactoe.PlaceMark(req.Board, move.Row, move.Col, player)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	log.Debug("move picked", "player", player, "row", move.Row, "col", move.Col, "board", board.String())

	that.writeJSON(w, http.StatusOK, moveResponse{
		Row:     move.Row,
		Col:     move.Col,
		Board:   board,
		Outcome: tictactoe.Classify(board),
	})
}

func (that *Server) picker(name string) (MovePicker, error) {
	strategy := that.defaultStrategy
	if name != "" {
		parsed, err := ai.ParseStrategy(name)
		if err != nil {
			return nil, err
		}
		strategy = parsed
	}

	picker, ok := that.pickers[strategy]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownStrategy, strategy)
	}

	return picker, nil
}

// decode reads a JSON body and rejects boards holding anything but X, O or empty.
func (that *Server) decode(w http.ResponseWriter, r *http.Request, req interface{ board() tictactoe.Board }) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(req); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidBoard, err)
	}

	board := req.board()
	if err := board.Validate(); err != nil {
		return err
	}

	return nil
}

func (that *classifyRequest) board() tictactoe.Board { return that.Board }
func (that *moveRequest) board() tictactoe.Board     { return that.Board }

func (that *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "path", r.URL.Path, "requestID", middleware.GetReqID(r.Context()), "error", err)
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, apperror.ErrNoMovesAvailable), errors.Is(err, apperror.ErrGameFinished):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrInvalidBoard),
		errors.Is(err, apperror.ErrInvalidMove),
		errors.Is(err, apperror.ErrUnknownStrategy):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

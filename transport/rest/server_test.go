package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/ai"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

type failingPicker struct{}

func (failingPicker) PickMove(tictactoe.Board, tictactoe.Player) (ai.Move, error) {
	return ai.Move{}, errors.New("search exploded")
}

func newTestRouter() http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return New(logger, ai.StrategyMinimax, map[ai.Strategy]MovePicker{
		ai.StrategyMinimax: ai.NewPicker(ai.StrategyMinimax, nil),
		ai.StrategyRandom:  ai.NewPicker(ai.StrategyRandom, rand.New(rand.NewPCG(1, 1))),
	}).Router()
}

func mustBoard(t *testing.T, s string) tictactoe.Board {
	t.Helper()

	board, err := tictactoe.ParseBoard(s)
	require.NoError(t, err)

	return board
}

func post(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var raw []byte
	switch v := body.(type) {
	case string:
		raw = []byte(v)
	default:
		var err error
		raw, err = json.Marshal(v)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestPing(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestClassify(t *testing.T) {
	router := newTestRouter()

	cases := map[string]tictactoe.Outcome{
		"XXX/OO./...": tictactoe.XWins,
		"X.O/XO./O..": tictactoe.OWins,
		"XOX/XOO/OXX": tictactoe.Draw,
		"X../.O./...": tictactoe.Ongoing,
	}

	for board, want := range cases {
		t.Run(board, func(t *testing.T) {
			rec := post(t, router, "/api/v1/classify", classifyRequest{Board: mustBoard(t, board)})

			require.Equal(t, http.StatusOK, rec.Code)

			var resp classifyResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, want, resp.Outcome)
		})
	}

	t.Run("Unknown cell value", func(t *testing.T) {
		rec := post(t, router, "/api/v1/classify", `{"board":[["Z","",""],["","",""],["","",""]]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid board")
	})

	t.Run("Malformed body", func(t *testing.T) {
		rec := post(t, router, "/api/v1/classify", `{"board":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMove(t *testing.T) {
	router := newTestRouter()

	t.Run("Minimax takes the win", func(t *testing.T) {
		// Given: X X . / O O . / . . . with O to move
		req := moveRequest{Board: mustBoard(t, "XX./OO./..."), Player: "O", Strategy: "minimax"}

		// When: asking for a move
		rec := post(t, router, "/api/v1/move", req)

		// Then: O completes the middle row
		require.Equal(t, http.StatusOK, rec.Code)

		var resp moveResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, 1, resp.Row)
		assert.Equal(t, 2, resp.Col)
		assert.Equal(t, "XX./OOO/...", resp.Board.String())
		assert.Equal(t, tictactoe.OWins, resp.Outcome)
	})

	t.Run("Default strategy opens in the center", func(t *testing.T) {
		rec := post(t, router, "/api/v1/move", moveRequest{Board: tictactoe.EmptyBoard(), Player: "x"})

		require.Equal(t, http.StatusOK, rec.Code)

		var resp moveResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, 1, resp.Row)
		assert.Equal(t, 1, resp.Col)
		assert.Equal(t, tictactoe.Ongoing, resp.Outcome)
	})

	t.Run("Random strategy plays an empty cell", func(t *testing.T) {
		board := mustBoard(t, "XOX/OX./OXO")

		rec := post(t, router, "/api/v1/move", moveRequest{Board: board, Player: "X", Strategy: "easy"})

		require.Equal(t, http.StatusOK, rec.Code)

		var resp moveResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, 1, resp.Row)
		assert.Equal(t, 2, resp.Col)
	})

	t.Run("Finished board is a conflict", func(t *testing.T) {
		for _, board := range []string{"XOX/XOO/OXX", "XXX/OO./..."} {
			rec := post(t, router, "/api/v1/move", moveRequest{Board: mustBoard(t, board), Player: "O"})

			assert.Equal(t, http.StatusConflict, rec.Code, board)
		}
	})

	t.Run("Bad input", func(t *testing.T) {
		cases := map[string]moveRequest{
			"unknown player":   {Board: tictactoe.EmptyBoard(), Player: "Z"},
			"missing player":   {Board: tictactoe.EmptyBoard()},
			"unknown strategy": {Board: tictactoe.EmptyBoard(), Player: "X", Strategy: "oracle"},
		}

		for name, req := range cases {
			rec := post(t, router, "/api/v1/move", req)

			assert.Equal(t, http.StatusBadRequest, rec.Code, name)
		}
	})

	t.Run("Picker failure", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		broken := New(logger, ai.StrategyMinimax, map[ai.Strategy]MovePicker{ai.StrategyMinimax: failingPicker{}}).Router()

		rec := post(t, broken, "/api/v1/move", moveRequest{Board: tictactoe.EmptyBoard(), Player: "X"})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

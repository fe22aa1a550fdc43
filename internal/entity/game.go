package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/ai"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

type Mode string

const (
	// ModePvP is a hot-seat game: both marks are played by humans on one session.
	ModePvP Mode = "pvp"
	ModeBot Mode = "bot"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case ModePvP:
		return ModePvP, nil
	case ModeBot, "":
		return ModeBot, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrUnknownMode, s)
	}
}

// Game is one session hosted by the server. It owns the turn state machine; the board
// model and the search never see it.
type Game struct {
	ID       string            `json:"id"`
	Board    tictactoe.Board   `json:"board"`
	Turn     tictactoe.Player  `json:"turn,omitempty"`
	Outcome  tictactoe.Outcome `json:"outcome"`
	Mode     Mode              `json:"mode"`
	Strategy ai.Strategy       `json:"strategy,omitempty"`
	BotMark  tictactoe.Player  `json:"bot_mark,omitempty"`
	Moves    int               `json:"moves"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewGame(id string, mode Mode, strategy ai.Strategy, botMark tictactoe.Player) *Game {
	now := time.Now().UTC()

	game := &Game{
		ID:        id,
		Board:     tictactoe.EmptyBoard(),
		Turn:      tictactoe.PlayerX,
		Outcome:   tictactoe.Ongoing,
		Mode:      mode,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if mode == ModeBot {
		game.Strategy = strategy
		game.BotMark = botMark
	}

	return game
}

// MakeTurn applies player's mark at (row, col). On error the game is left unchanged.
func (that *Game) MakeTurn(player tictactoe.Player, row, col int) error {
	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if that.Turn != player {
		return fmt.Errorf("%w: %s to move", apperror.ErrNotYourTurn, that.Turn)
	}

	board, err := tictactoe.PlaceMark(that.Board, row, col, player)
	if err != nil {
		return fmt.Errorf("failed to place mark: %w", err)
	}

	that.Board = board
	that.Moves++
	that.UpdatedAt = time.Now().UTC()
	that.UpdateGameState(player.Opponent())

	return nil
}

// UpdateGameState recomputes the outcome and hands the turn to next while ongoing.
func (that *Game) UpdateGameState(next tictactoe.Player) {
	that.Outcome = tictactoe.Classify(that.Board)

	switch that.Outcome {
	// one player wins or tie
	case tictactoe.XWins, tictactoe.OWins, tictactoe.Draw:
		that.Turn = ""
	// game continue
	default:
		that.Turn = next
	}
}

// Reset starts the session over with X to move.
func (that *Game) Reset() {
	that.Board = tictactoe.EmptyBoard()
	that.Turn = tictactoe.PlayerX
	that.Outcome = tictactoe.Ongoing
	that.Moves = 0
	that.UpdatedAt = time.Now().UTC()
}

func (that *Game) IsFinished() bool {
	return that.Outcome.IsTerminal()
}

func (that *Game) IsWithBot() bool {
	return that.Mode == ModeBot
}

func (that *Game) IsBotTurn() bool {
	return that.IsWithBot() && !that.IsFinished() && that.Turn == that.BotMark
}

func (that *Game) Winner() (tictactoe.Player, bool) {
	return that.Outcome.Winner()
}

package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
)

func mustParse(t *testing.T, s string) Board {
	t.Helper()

	board, err := ParseBoard(s)
	require.NoError(t, err)

	return board
}

func TestEmptyBoard(t *testing.T) {
	// When: an empty board is created
	board := EmptyBoard()

	// Then: every cell is empty and the game is ongoing
	assert.Len(t, board.EmptyCells(), 9)
	assert.Equal(t, Ongoing, Classify(board))
	assert.Equal(t, ".../.../...", board.String())
}

func TestClassify(t *testing.T) {
	t.Run("Every line wins for X", func(t *testing.T) {
		for _, line := range Lines {
			// Given: a board where X completes exactly this line
			board := EmptyBoard()
			for _, cell := range line {
				board[cell[0]][cell[1]] = X
			}

			// When: classifying the board
			outcome := Classify(board)

			// Then: X wins
			assert.Equal(t, XWins, outcome, "line %v", line)
		}
	})

	t.Run("Every line wins for O", func(t *testing.T) {
		for _, line := range Lines {
			// Given: a board where O completes exactly this line
			board := EmptyBoard()
			for _, cell := range line {
				board[cell[0]][cell[1]] = O
			}

			// When: classifying the board
			outcome := Classify(board)

			// Then: O wins
			assert.Equal(t, OWins, outcome, "line %v", line)
		}
	})

	t.Run("Full board with a line is a win, not a draw", func(t *testing.T) {
		// Given: a full board where X has the left column
		board := mustParse(t, "XOX/XOO/XXO")

		// Then: X wins
		assert.Equal(t, XWins, Classify(board))
	})

	t.Run("Full board without a line is a draw", func(t *testing.T) {
		// Given: a full board with no completed line
		board := mustParse(t, "XOX/XOO/OXX")

		// Then: it is a draw
		assert.Equal(t, Draw, Classify(board))
	})

	t.Run("Open board without a line is ongoing", func(t *testing.T) {
		// Given: a board with empty cells and no completed line
		board := mustParse(t, "XO./.X./..O")

		// Then: the game continues
		assert.Equal(t, Ongoing, Classify(board))
	})

	t.Run("Two marks in a line are not a win", func(t *testing.T) {
		// Given: X has two in the top row
		board := mustParse(t, "XX./OO./...")

		// Then: the game continues
		assert.Equal(t, Ongoing, Classify(board))
	})
}

func TestPlaceMark(t *testing.T) {
	t.Run("Places the mark on a copy", func(t *testing.T) {
		// Given: an empty board
		board := EmptyBoard()

		// When: X is placed in the center
		next, err := PlaceMark(board, 1, 1, PlayerX)

		// Then: the returned board has X in the center and the input is untouched
		require.NoError(t, err)
		assert.Equal(t, X, next[1][1])
		assert.Equal(t, EmptyBoard(), board)
	})

	t.Run("Occupied cell is rejected and the board is unchanged", func(t *testing.T) {
		// Given: a board with X in the corner
		board := mustParse(t, "X../.../...")

		// When: O tries the same cell
		next, err := PlaceMark(board, 0, 0, PlayerO)

		// Then: ErrInvalidMove is returned and nothing changed
		require.ErrorIs(t, err, apperror.ErrInvalidMove)
		assert.Equal(t, board, next)
		assert.Equal(t, X, board[0][0])
	})

	t.Run("Out of range coordinates are rejected", func(t *testing.T) {
		coords := [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {20, 20}}

		for _, rc := range coords {
			// When: a mark is placed outside the grid
			_, err := PlaceMark(EmptyBoard(), rc[0], rc[1], PlayerX)

			// Then: ErrInvalidMove is returned
			assert.ErrorIs(t, err, apperror.ErrInvalidMove, "coords %v", rc)
		}
	})

	t.Run("Unknown mark is rejected", func(t *testing.T) {
		// When: an empty player is placed
		_, err := PlaceMark(EmptyBoard(), 0, 0, Player(""))

		// Then: ErrInvalidMove is returned
		assert.ErrorIs(t, err, apperror.ErrInvalidMove)
	})
}

func TestParseBoard(t *testing.T) {
	t.Run("Round trips through String", func(t *testing.T) {
		// Given: a textual board
		text := "XO./.X./..O"

		// When: parsing and printing it
		board := mustParse(t, text)

		// Then: the text is reproduced
		assert.Equal(t, text, board.String())
		assert.Equal(t, 2, board.Count(X))
		assert.Equal(t, 2, board.Count(O))
	})

	t.Run("Accepts newlines and lowercase marks", func(t *testing.T) {
		// When: parsing a multi-line board
		board := mustParse(t, "x--\n-o-\n---")

		// Then: marks are normalised
		assert.Equal(t, "X../.O./...", board.String())
	})

	t.Run("Rejects malformed input", func(t *testing.T) {
		for _, text := range []string{"", "XXX/OOO", "XXXX/.../...", "X?./.../..."} {
			_, err := ParseBoard(text)
			assert.ErrorIs(t, err, apperror.ErrInvalidBoard, "input %q", text)
		}
	})
}

func TestBoard_Validate(t *testing.T) {
	// Given: a board with a foreign symbol
	board := EmptyBoard()
	board[2][1] = Cell("Z")

	// When: validating it
	err := board.Validate()

	// Then: ErrInvalidBoard is returned
	require.ErrorIs(t, err, apperror.ErrInvalidBoard)
	assert.NoError(t, EmptyBoard().Validate())
}

func TestPlayer(t *testing.T) {
	assert.Equal(t, PlayerO, PlayerX.Opponent())
	assert.Equal(t, PlayerX, PlayerO.Opponent())
	assert.Equal(t, X, PlayerX.Mark())

	player, err := ParsePlayer("o")
	require.NoError(t, err)
	assert.Equal(t, PlayerO, player)

	_, err = ParsePlayer("Z")
	assert.ErrorIs(t, err, apperror.ErrInvalidMove)
}

func TestOutcome(t *testing.T) {
	winner, ok := XWins.Winner()
	assert.True(t, ok)
	assert.Equal(t, PlayerX, winner)

	_, ok = Draw.Winner()
	assert.False(t, ok)

	assert.True(t, Draw.IsTerminal())
	assert.False(t, Ongoing.IsTerminal())
	assert.Equal(t, "O wins", OWins.Summary())
}

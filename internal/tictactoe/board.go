package tictactoe

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
)

const Size = 3

// Cell is the content of one square.
type Cell string

const (
	Empty Cell = ""
	X     Cell = "X"
	O     Cell = "O"
)

// Player is the side to move. The core never stores it between calls.
type Player string

const (
	PlayerX Player = "X"
	PlayerO Player = "O"
)

type Outcome string

const (
	Ongoing Outcome = "ongoing"
	XWins   Outcome = "x_wins"
	OWins   Outcome = "o_wins"
	Draw    Outcome = "draw"
)

// Board is a row-major 3x3 grid. It is a value: copies never share cells.
type Board [Size][Size]Cell

// Lines holds every row, column and diagonal as (row, col) triples.
var Lines = [8][3][2]int{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{2, 0}, {1, 1}, {0, 2}},
}

func EmptyBoard() Board {
	return Board{}
}

// Classify reports whether the board is won, drawn or still open.
func Classify(board Board) Outcome {
	for _, line := range Lines {
		a := board[line[0][0]][line[0][1]]
		b := board[line[1][0]][line[1][1]]
		c := board[line[2][0]][line[2][1]]

		if a != Empty && a == b && b == c {
			if a == X {
				return XWins
			}
			return OWins
		}
	}

	// the game will continue until all the squares are full
	if !board.IsFull() {
		return Ongoing
	}

	return Draw
}

// PlaceMark returns a copy of board with mark written at (row, col).
func PlaceMark(board Board, row, col int, mark Player) (Board, error) {
	if !mark.Valid() {
		return board, fmt.Errorf("%w: unknown mark %q", apperror.ErrInvalidMove, mark)
	}

	if !InBounds(row, col) {
		return board, fmt.Errorf("%w: cell (%d, %d) is out of range", apperror.ErrInvalidMove, row, col)
	}

	if board[row][col] != Empty {
		return board, fmt.Errorf("%w: cell (%d, %d) is already occupied", apperror.ErrInvalidMove, row, col)
	}

	board[row][col] = mark.Mark()

	return board, nil
}

func InBounds(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

func (that Board) IsFull() bool {
	for _, row := range that {
		for _, cell := range row {
			if cell == Empty {
				return false
			}
		}
	}

	return true
}

// EmptyCells lists free squares in row-major order.
func (that Board) EmptyCells() [][2]int {
	cells := make([][2]int, 0, Size*Size)

	for r, row := range that {
		for c, cell := range row {
			if cell == Empty {
				cells = append(cells, [2]int{r, c})
			}
		}
	}

	return cells
}

func (that Board) Count(mark Cell) int {
	n := 0

	for _, row := range that {
		for _, cell := range row {
			if cell == mark {
				n++
			}
		}
	}

	return n
}

// Validate rejects cells other than Empty, X and O. Decoded JSON can carry anything.
func (that Board) Validate() error {
	for r, row := range that {
		for c, cell := range row {
			switch cell {
			case Empty, X, O:
			default:
				return fmt.Errorf("%w: cell (%d, %d) holds %q", apperror.ErrInvalidBoard, r, c, cell)
			}
		}
	}

	return nil
}

// String renders the board as "X../.O./..." with '.' for empty cells.
func (that Board) String() string {
	var sb strings.Builder

	for r, row := range that {
		if r > 0 {
			sb.WriteByte('/')
		}

		for _, cell := range row {
			if cell == Empty {
				sb.WriteByte('.')
				continue
			}
			sb.WriteString(string(cell))
		}
	}

	return sb.String()
}

// ParseBoard is the inverse of Board.String. Spaces and newlines are accepted as row
// separators too, and '-' or '_' as empty cells.
func ParseBoard(s string) (Board, error) {
	var board Board

	rows := strings.FieldsFunc(s, func(r rune) bool {
		return r == '/' || r == '\n' || r == ' '
	})
	if len(rows) != Size {
		return board, fmt.Errorf("%w: want %d rows, got %d", apperror.ErrInvalidBoard, Size, len(rows))
	}

	for r, row := range rows {
		if len(row) != Size {
			return board, fmt.Errorf("%w: row %d has %d cells", apperror.ErrInvalidBoard, r, len(row))
		}

		for c, ch := range row {
			switch ch {
			case '.', '-', '_':
				board[r][c] = Empty
			case 'X', 'x':
				board[r][c] = X
			case 'O', 'o':
				board[r][c] = O
			default:
				return board, fmt.Errorf("%w: unexpected %q at (%d, %d)", apperror.ErrInvalidBoard, ch, r, c)
			}
		}
	}

	return board, nil
}

func (that Player) Valid() bool {
	return that == PlayerX || that == PlayerO
}

func (that Player) Mark() Cell {
	return Cell(that)
}

func (that Player) Opponent() Player {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// ParsePlayer accepts "X" or "O" in either case.
func ParsePlayer(s string) (Player, error) {
	switch strings.ToUpper(s) {
	case string(PlayerX):
		return PlayerX, nil
	case string(PlayerO):
		return PlayerO, nil
	default:
		return "", fmt.Errorf("%w: unknown player %q", apperror.ErrInvalidMove, s)
	}
}

func (that Outcome) IsTerminal() bool {
	return that == XWins || that == OWins || that == Draw
}

// Winner returns the winning player, if any.
func (that Outcome) Winner() (Player, bool) {
	switch that {
	case XWins:
		return PlayerX, true
	case OWins:
		return PlayerO, true
	default:
		return "", false
	}
}

// Summary is the human-readable result line.
func (that Outcome) Summary() string {
	switch that {
	case XWins:
		return "X wins"
	case OWins:
		return "O wins"
	case Draw:
		return "Draw"
	default:
		return "Ongoing"
	}
}

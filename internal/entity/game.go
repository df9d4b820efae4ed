package entity

import (
	"errors"
	"fmt"

	"github.com/kavia-common/browser-tic-tac-toe/internal/apperror"
)

// Mark is the content of a single cell, and doubles as the player identity.
type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

const (
	StatusOngoing = "ongoing"
	StatusWon     = "won"
	StatusDraw    = "draw"
)

// BoardSize is the number of cells on the board.
const BoardSize = 9

var ErrInvalidCell = errors.New("invalid cell index")

// Board - 9 cells in row-major order.
type Board [BoardSize]Mark

// Line - indices of three cells that win when they hold the same mark.
type Line [3]int

// WinCombos - rows, then columns, then diagonals.
var WinCombos = [8]Line{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Opponent - returns the mark that moves after this one.
func (that Mark) Opponent() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (that *Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}
	return true
}

// Result is derived from a board and is never stored next to it.
type Result struct {
	Status string `json:"status"`
	Winner Mark   `json:"winner,omitempty"`
	Line   []int  `json:"line,omitempty"`
}

func (that Result) IsOver() bool {
	return that.Status != StatusOngoing
}

// Winner - checks the lines in order and returns the first one filled by a single mark.
func Winner(board Board) (Mark, Line, bool) {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a, combo, true
		}
	}

	return EmptyCell, Line{}, false
}

// Evaluate - a completed line wins even when it was drawn on the last free cell.
func Evaluate(board Board) Result {
	if winner, line, ok := Winner(board); ok {
		return Result{
			Status: StatusWon,
			Winner: winner,
			Line:   []int{line[0], line[1], line[2]},
		}
	}

	if board.IsFull() {
		return Result{Status: StatusDraw}
	}

	return Result{Status: StatusOngoing}
}

// Game holds the whole mutable state of one session.
type Game struct {
	Board Board
	Turn  Mark
	Moves int
}

func NewGame() Game {
	return Game{Turn: PlayerX}
}

func (that Game) Result() Result {
	return Evaluate(that.Board)
}

func (that Game) IsFinished() bool {
	return that.Result().IsOver()
}

func (that *Game) MakeTurn(cell int) error {
	if cell < 0 || cell >= len(that.Board) {
		return fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if that.Board[cell] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	that.Board[cell] = that.Turn
	that.Turn = that.Turn.Opponent()
	that.Moves++

	return nil
}

// Snapshot is a copy of the game handed to renderers and notifiers.
type Snapshot struct {
	Board  Board  `json:"board"`
	Turn   Mark   `json:"turn"`
	Moves  int    `json:"moves"`
	Result Result `json:"result"`
}

func (that Game) Snapshot() Snapshot {
	return Snapshot{
		Board:  that.Board,
		Turn:   that.Turn,
		Moves:  that.Moves,
		Result: that.Result(),
	}
}

// Package render maps game state to the grid of cells and the status line every front end draws.
package render

import (
	"fmt"

	"github.com/kavia-common/browser-tic-tac-toe/internal/entity"
)

const (
	Rows = 3
	Cols = 3
)

// Cell is one square as a front end sees it.
type Cell struct {
	Index    int
	Row      int
	Col      int
	Label    string
	Winning  bool
	Disabled bool
}

// View is everything needed to draw the page.
type View struct {
	Cells  [entity.BoardSize]Cell
	Status string
	Turn   entity.Mark
	Moves  int
	Over   bool
}

// Mover receives the clicks a front end delegates upward.
type Mover interface {
	ApplyMove(cell int) bool
}

func NewView(snapshot entity.Snapshot) View {
	view := View{
		Status: StatusText(snapshot),
		Turn:   snapshot.Turn,
		Moves:  snapshot.Moves,
		Over:   snapshot.Result.IsOver(),
	}

	winning := make(map[int]bool, len(snapshot.Result.Line))
	for _, cell := range snapshot.Result.Line {
		winning[cell] = true
	}

	for i, mark := range snapshot.Board {
		view.Cells[i] = Cell{
			Index:    i,
			Row:      i / Cols,
			Col:      i % Cols,
			Label:    string(mark),
			Winning:  winning[i],
			Disabled: view.Over || mark != entity.EmptyCell,
		}
	}

	return view
}

// StatusText - turn indicator while playing, the outcome afterwards.
func StatusText(snapshot entity.Snapshot) string {
	switch snapshot.Result.Status {
	case entity.StatusWon:
		return fmt.Sprintf("Winner: %s", snapshot.Result.Winner)
	case entity.StatusDraw:
		return "Draw!"
	default:
		return fmt.Sprintf("Next player: %s", snapshot.Turn)
	}
}

// Grid - the cells split into rows.
func (that View) Grid() [Rows][Cols]Cell {
	var grid [Rows][Cols]Cell
	for _, cell := range that.Cells {
		grid[cell.Row][cell.Col] = cell
	}
	return grid
}

// Click - forwards a click on a cell to the controller; the view itself never changes state.
func (that View) Click(index int, mover Mover) bool {
	return mover.ApplyMove(index)
}

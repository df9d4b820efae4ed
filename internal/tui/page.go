// Package tui draws the game in a terminal.
package tui

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/kavia-common/browser-tic-tac-toe/internal/entity"
	"github.com/kavia-common/browser-tic-tac-toe/internal/render"
	"github.com/kavia-common/browser-tic-tac-toe/internal/tictactoe"
)

const (
	cellWidth = 4 // three characters and a separator
	rowHeight = 2 // one line and a separator

	hint = "arrows/hjkl move, enter place, 1-9 place, r restart, q quit"
)

type gameController interface {
	ApplyMove(cell int) bool
	Reset()
	Snapshot() entity.Snapshot
	Subscribe(listener tictactoe.Listener) func()
}

// Page is the terminal counterpart of the web page.
type Page struct {
	app        *tview.Application
	box        *tview.Box
	controller gameController

	view     render.View
	selected int
}

func New(controller gameController) *Page {
	page := &Page{
		app:        tview.NewApplication(),
		box:        tview.NewBox(),
		controller: controller,
		selected:   4,
	}

	page.box.SetBorder(true).SetTitle(" Tic Tac Toe ")
	page.box.SetDrawFunc(page.draw)
	page.box.SetInputCapture(page.HandleKey)
	page.app.SetRoot(page.box, true)

	page.refresh()

	return page
}

// Run - blocks until the user quits or ctx is done.
func (that *Page) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Listeners may run on the event loop itself (key handlers apply moves),
	// so they only leave a mark here and the redraw is queued from outside the loop.
	changed := make(chan struct{}, 1)
	unsubscribe := that.controller.Subscribe(func(entity.Snapshot) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	go func() {
		for {
			select {
			case <-ctx.Done():
				that.app.Stop()
				return
			case <-changed:
				that.app.QueueUpdateDraw(that.refresh)
			}
		}
	}()

	return that.app.Run()
}

func (that *Page) View() render.View {
	return that.view
}

func (that *Page) Selected() int {
	return that.selected
}

// HandleKey - consumes the keys the page understands and passes the rest on.
func (that *Page) HandleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyUp:
		that.moveSelection(0, -1)
	case tcell.KeyDown:
		that.moveSelection(0, 1)
	case tcell.KeyLeft:
		that.moveSelection(-1, 0)
	case tcell.KeyRight:
		that.moveSelection(1, 0)
	case tcell.KeyEnter:
		that.click(that.selected)
	case tcell.KeyEscape:
		that.app.Stop()
	case tcell.KeyRune:
		return that.handleRune(event)
	default:
		return event
	}

	return nil
}

func (that *Page) handleRune(event *tcell.EventKey) *tcell.EventKey {
	switch r := event.Rune(); {
	case r >= '1' && r <= '9':
		that.selected = int(r - '1')
		that.click(that.selected)
	case r == ' ':
		that.click(that.selected)
	case r == 'h':
		that.moveSelection(-1, 0)
	case r == 'l':
		that.moveSelection(1, 0)
	case r == 'k':
		that.moveSelection(0, -1)
	case r == 'j':
		that.moveSelection(0, 1)
	case r == 'r':
		that.controller.Reset()
		that.refresh()
	case r == 'q':
		that.app.Stop()
	default:
		return event
	}

	return nil
}

func (that *Page) click(index int) {
	that.view.Click(index, that.controller)
	that.refresh()
}

// refresh - always reads the latest state, so a missed or repeated change signal does no harm.
func (that *Page) refresh() {
	that.view = render.NewView(that.controller.Snapshot())
}

func (that *Page) moveSelection(dx, dy int) {
	row, col := that.selected/render.Cols+dy, that.selected%render.Cols+dx
	if row < 0 || row >= render.Rows || col < 0 || col >= render.Cols {
		return
	}
	that.selected = row*render.Cols + col
}

// Draw - draws the page onto screen using the given rectangle.
func (that *Page) Draw(screen tcell.Screen, x, y, width, height int) {
	that.box.SetRect(x, y, width, height)
	that.box.Draw(screen)
}

func (that *Page) draw(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	innerX, innerY, innerWidth, innerHeight := x+1, y+1, width-2, height-2

	for _, cell := range that.view.Cells {
		cellX, cellY := CellOrigin(innerX, innerY, cell.Index)
		drawCell(screen, cellX, cellY, cell, cell.Index == that.selected && !that.view.Over)
	}
	drawSeparators(screen, innerX, innerY)

	statusY := innerY + render.Rows*rowHeight
	printText(screen, innerX, statusY, that.view.Status, tcell.StyleDefault.Bold(true))
	printText(screen, innerX, statusY+1, hint, tcell.StyleDefault.Dim(true))

	return innerX, innerY, innerWidth, innerHeight
}

// CellOrigin - the screen position of the left edge of a cell.
func CellOrigin(x, y, index int) (int, int) {
	return x + (index%render.Cols)*cellWidth, y + (index/render.Cols)*rowHeight
}

func drawCell(screen tcell.Screen, x, y int, cell render.Cell, selected bool) {
	style := tcell.StyleDefault
	if cell.Winning {
		style = style.Foreground(tcell.ColorYellow).Bold(true)
	}
	if selected {
		style = style.Reverse(true)
	}

	label := " "
	if cell.Label != "" {
		label = cell.Label
	}

	printText(screen, x, y, " "+label+" ", style)
}

func drawSeparators(screen tcell.Screen, x, y int) {
	for row := 0; row < render.Rows; row++ {
		for col := 1; col < render.Cols; col++ {
			screen.SetContent(x+col*cellWidth-1, y+row*rowHeight, tview.BoxDrawingsLightVertical, nil, tcell.StyleDefault)
		}
	}

	for row := 1; row < render.Rows; row++ {
		lineY := y + row*rowHeight - 1
		for dx := 0; dx < render.Cols*cellWidth-1; dx++ {
			r := tview.BoxDrawingsLightHorizontal
			if (dx+1)%cellWidth == 0 {
				r = tview.BoxDrawingsLightVerticalAndHorizontal
			}
			screen.SetContent(x+dx, lineY, r, nil, tcell.StyleDefault)
		}
	}
}

func printText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

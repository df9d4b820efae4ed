package tui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavia-common/browser-tic-tac-toe/internal/entity"
	"github.com/kavia-common/browser-tic-tac-toe/internal/render"
	"github.com/kavia-common/browser-tic-tac-toe/internal/tictactoe"
)

func newTestPage() (*tictactoe.Controller, *Page) {
	controller := tictactoe.NewController(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return controller, New(controller)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func TestPage_Keys(t *testing.T) {
	t.Run("Digit places a mark directly", func(t *testing.T) {
		// Given: a fresh page
		controller, page := newTestPage()

		// When: 1 and 9 are pressed
		assert.Nil(t, page.HandleKey(runeKey('1')))
		assert.Nil(t, page.HandleKey(runeKey('9')))

		// Then: X holds cell 0 and O holds cell 8
		snapshot := controller.Snapshot()
		assert.Equal(t, entity.PlayerX, snapshot.Board[0])
		assert.Equal(t, entity.PlayerO, snapshot.Board[8])
		assert.Equal(t, "Next player: X", page.View().Status)
	})

	t.Run("Arrows move the selection and enter places", func(t *testing.T) {
		// Given: a fresh page with the center selected
		controller, page := newTestPage()
		require.Equal(t, 4, page.Selected())

		// When: moving up, left and pressing enter
		page.HandleKey(key(tcell.KeyUp))
		page.HandleKey(key(tcell.KeyLeft))
		page.HandleKey(key(tcell.KeyEnter))

		// Then: the top left corner is taken
		assert.Equal(t, 0, page.Selected())
		assert.Equal(t, entity.PlayerX, controller.Snapshot().Board[0])
	})

	t.Run("Selection stays on the board", func(t *testing.T) {
		// Given: the bottom right corner selected
		_, page := newTestPage()
		page.HandleKey(runeKey('j'))
		page.HandleKey(runeKey('l'))
		require.Equal(t, 8, page.Selected())

		// When: moving further down and right
		page.HandleKey(key(tcell.KeyDown))
		page.HandleKey(runeKey('l'))

		// Then: the selection does not move
		assert.Equal(t, 8, page.Selected())
	})

	t.Run("Space on an occupied cell is ignored", func(t *testing.T) {
		// Given: X on the selected center
		controller, page := newTestPage()
		page.HandleKey(runeKey(' '))
		before := controller.Snapshot()

		// When: space is pressed again
		page.HandleKey(runeKey(' '))

		// Then: nothing changes
		assert.Equal(t, before, controller.Snapshot())
	})

	t.Run("r restarts", func(t *testing.T) {
		// Given: a game in progress
		controller, page := newTestPage()
		page.HandleKey(runeKey('5'))

		// When: r is pressed
		page.HandleKey(runeKey('r'))

		// Then: the board is empty and the view follows
		assert.Equal(t, entity.NewGame().Snapshot(), controller.Snapshot())
		assert.Equal(t, "Next player: X", page.View().Status)
		assert.Empty(t, page.View().Cells[4].Label)
	})

	t.Run("Unknown keys are passed on", func(t *testing.T) {
		_, page := newTestPage()

		event := runeKey('z')

		assert.Same(t, event, page.HandleKey(event))
		assert.NotNil(t, page.HandleKey(key(tcell.KeyTab)))
	})
}

func TestPage_Draw(t *testing.T) {
	// Given: X won the top row
	_, page := newTestPage()
	for _, r := range "15243" {
		page.HandleKey(runeKey(r))
	}

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(70, 12)

	// When: the page is drawn
	page.Draw(screen, 0, 0, 70, 12)

	// Then: the marks sit in their cells and the winner is announced
	for index, want := range map[int]rune{0: 'X', 1: 'X', 2: 'X', 3: 'O', 4: 'O', 8: ' '} {
		x, y := CellOrigin(1, 1, index)
		got, _, style, _ := screen.GetContent(x+1, y)
		assert.Equal(t, want, got, "cell %d", index)

		if index <= 2 {
			fg, _, _ := style.Decompose()
			assert.Equal(t, tcell.ColorYellow, fg, "cell %d", index)
		}
	}

	assert.Contains(t, screenLine(screen, 1+6, 70), "Winner: X")
}

func screenLine(screen tcell.SimulationScreen, y, width int) string {
	var b strings.Builder
	for x := 0; x < width; x++ {
		r, _, _, _ := screen.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func TestPage_Run(t *testing.T) {
	// Given: a running page on a simulated terminal
	controller, page := newTestPage()

	screen := tcell.NewSimulationScreen("UTF-8")
	page.app.SetScreen(screen)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	done := make(chan error, 1)
	go func() { done <- page.Run(ctx) }()

	statusY := 1 + render.Rows*rowHeight
	waitForLine(t, screen, statusY, "Next player: X")

	// When: 5 places a mark from inside the event loop
	screen.InjectKey(tcell.KeyRune, '5', tcell.ModNone)

	// Then: the loop keeps running and redraws the new state
	waitForLine(t, screen, statusY, "Next player: O")
	require.Eventually(t, func() bool {
		cellX, cellY := CellOrigin(1, 1, 4)
		got, _, _, _ := screen.GetContent(cellX+1, cellY)
		return got == 'X'
	}, 5*time.Second, 10*time.Millisecond)

	// When: the board is restarted
	screen.InjectKey(tcell.KeyRune, 'r', tcell.ModNone)

	// Then: the empty board comes back
	waitForLine(t, screen, statusY, "Next player: X")
	assert.Equal(t, entity.Board{}, controller.Snapshot().Board)

	// When: a move arrives from outside the terminal
	controller.ApplyMove(0)

	// Then: the listener brings the page up to date
	waitForLine(t, screen, statusY, "Next player: O")

	// When: q is pressed
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	// Then: Run returns
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("page did not stop after q")
	}
}

func waitForLine(t *testing.T, screen tcell.SimulationScreen, y int, want string) {
	t.Helper()

	require.Eventually(t, func() bool {
		return strings.Contains(screenLine(screen, y, 80), want)
	}, 5*time.Second, 10*time.Millisecond, "line %d never showed %q", y, want)
}

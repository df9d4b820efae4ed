package page

import (
	"context"
	"strings"
	"testing"

	"github.com/kavia-common/browser-tic-tac-toe/internal/entity"
	"github.com/kavia-common/browser-tic-tac-toe/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderView(t *testing.T, cells ...int) string {
	t.Helper()

	game := entity.NewGame()
	for _, cell := range cells {
		require.NoError(t, game.MakeTurn(cell))
	}

	var b strings.Builder
	err := Page(render.NewView(game.Snapshot())).Render(context.Background(), &b)
	require.NoError(t, err)

	return b.String()
}

func TestPage(t *testing.T) {
	t.Run("Fresh game", func(t *testing.T) {
		// When: rendering a new game
		got := renderView(t)

		// Then: nine clickable cells, the turn indicator and the restart control are present
		assert.Equal(t, 9, strings.Count(got, "class=\"cell\""))
		assert.NotContains(t, got, " disabled>")
		assert.Contains(t, got, "Next player: X")
		assert.Contains(t, got, `action="/cells/0"`)
		assert.Contains(t, got, `action="/cells/8"`)
		assert.Contains(t, got, `action="/restart"`)
		assert.Contains(t, got, `data-moves="0" data-over="false"`)
	})

	t.Run("Occupied cell is labeled and disabled", func(t *testing.T) {
		// When: rendering after X took the center
		got := renderView(t, 4)

		// Then: the center button shows X and cannot be clicked
		assert.Contains(t, got, `data-cell="4" aria-label="cell 5" disabled>X</button>`)
		assert.Contains(t, got, "Next player: O")
	})

	t.Run("Winning line is highlighted", func(t *testing.T) {
		// When: rendering after X took the top row
		got := renderView(t, 0, 4, 1, 3, 2)

		// Then: three cells carry the winning class and the winner is announced
		assert.Equal(t, 3, strings.Count(got, "class=\"cell winning\""))
		assert.Contains(t, got, "Winner: X")
		assert.Equal(t, 9, strings.Count(got, " disabled>"))
		assert.Contains(t, got, `data-over="true"`)
	})
}

func TestStatus_Escapes(t *testing.T) {
	// Given: a view whose status contains markup
	view := render.View{Status: "<b>Draw!</b>"}

	// When: rendering the status line
	var b strings.Builder
	require.NoError(t, Status(view).Render(context.Background(), &b))

	// Then: the markup is escaped
	assert.Contains(t, b.String(), "&lt;b&gt;Draw!&lt;/b&gt;")
}

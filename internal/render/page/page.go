// Package page renders the game as a single HTML page.
package page

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/kavia-common/browser-tic-tac-toe/internal/render"
)

const Title = "Tic Tac Toe"

const style = `body{font-family:sans-serif;display:flex;flex-direction:column;align-items:center}
.board{display:grid;grid-template-columns:repeat(3,6rem);gap:.25rem}
.board form{margin:0}
.cell{width:6rem;height:6rem;font-size:3rem}
.cell.winning{background:#ffd54f}
.status{font-size:1.5rem;margin:1rem}`

// reloads the page whenever the server pushes a state different from the rendered one.
const liveScript = `(function(){
var moves=document.body.dataset.moves,over=document.body.dataset.over;
var ws=new WebSocket((location.protocol==="https:"?"wss://":"ws://")+location.host+"/ws");
ws.onmessage=function(e){var m=JSON.parse(e.data);if(m.action!=="game:state")return;
var p=m.payload;if(String(p.moves)!==moves||String(p.result.status!=="ongoing")!==over)location.reload();};
})();`

// Page - the whole document: status line, board, restart control.
func Page(view render.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder

		b.WriteString("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\">")
		fmt.Fprintf(&b, "<title>%s</title><style>%s</style></head>", templ.EscapeString(Title), style)
		fmt.Fprintf(&b, "<body data-moves=\"%d\" data-over=\"%t\">", view.Moves, view.Over)
		fmt.Fprintf(&b, "<h1>%s</h1>", templ.EscapeString(Title))

		if _, err := io.WriteString(w, b.String()); err != nil {
			return fmt.Errorf("failed to write page header: %w", err)
		}

		if err := Status(view).Render(ctx, w); err != nil {
			return err
		}

		if err := Board(view).Render(ctx, w); err != nil {
			return err
		}

		if err := Restart().Render(ctx, w); err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w, "<script>%s</script></body></html>", liveScript); err != nil {
			return fmt.Errorf("failed to write page footer: %w", err)
		}

		return nil
	})
}

func Status(view render.View) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, "<p class=\"status\" role=\"status\">%s</p>", templ.EscapeString(view.Status))
		if err != nil {
			return fmt.Errorf("failed to write status: %w", err)
		}
		return nil
	})
}

// Board - one form per cell, so a click works without javascript.
func Board(view render.View) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder

		b.WriteString("<div class=\"board\">")
		for _, cell := range view.Cells {
			writeCell(&b, cell)
		}
		b.WriteString("</div>")

		if _, err := io.WriteString(w, b.String()); err != nil {
			return fmt.Errorf("failed to write board: %w", err)
		}
		return nil
	})
}

func writeCell(b *strings.Builder, cell render.Cell) {
	class := "cell"
	if cell.Winning {
		class += " winning"
	}

	disabled := ""
	if cell.Disabled {
		disabled = " disabled"
	}

	fmt.Fprintf(b, "<form method=\"post\" action=\"/cells/%d\">", cell.Index)
	fmt.Fprintf(b, "<button type=\"submit\" class=\"%s\" data-cell=\"%d\" aria-label=\"cell %d\"%s>%s</button>",
		class, cell.Index, cell.Index+1, disabled, templ.EscapeString(cell.Label))
	b.WriteString("</form>")
}

func Restart() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<form method=\"post\" action=\"/restart\"><button type=\"submit\" class=\"restart\">Restart</button></form>")
		if err != nil {
			return fmt.Errorf("failed to write restart control: %w", err)
		}
		return nil
	})
}

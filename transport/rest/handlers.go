package rest

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kavia-common/browser-tic-tac-toe/internal/entity"
	"github.com/kavia-common/browser-tic-tac-toe/internal/render"
	"github.com/kavia-common/browser-tic-tac-toe/internal/render/page"
)

type StateResponse struct {
	Board  [entity.BoardSize]string `json:"board"`
	Turn   string                   `json:"turn"`
	Status string                   `json:"status"`
	Winner string                   `json:"winner,omitempty"`
	Line   []int                    `json:"line,omitempty"`
	Moves  int                      `json:"moves"`
	Text   string                   `json:"text"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func toStateResponse(snapshot entity.Snapshot) StateResponse {
	resp := StateResponse{
		Turn:   string(snapshot.Turn),
		Status: snapshot.Result.Status,
		Winner: string(snapshot.Result.Winner),
		Line:   snapshot.Result.Line,
		Moves:  snapshot.Moves,
		Text:   render.StatusText(snapshot),
	}

	for i, mark := range snapshot.Board {
		resp.Board[i] = string(mark)
	}

	return resp
}

func (that *Server) pageHandler(c echo.Context) error {
	view := render.NewView(that.controller.Snapshot())

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)

	return page.Page(view).Render(c.Request().Context(), c.Response())
}

// clickHandler - a click the game ignores still lands back on the page.
func (that *Server) clickHandler(c echo.Context) error {
	if index, err := strconv.Atoi(c.Param("index")); err == nil {
		view := render.NewView(that.controller.Snapshot())
		view.Click(index, that.controller)
	}

	return c.Redirect(http.StatusSeeOther, "/")
}

func (that *Server) restartHandler(c echo.Context) error {
	that.controller.Reset()

	return c.Redirect(http.StatusSeeOther, "/")
}

func (that *Server) stateHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, toStateResponse(that.controller.Snapshot()))
}

func (that *Server) apiClickHandler(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "index must be an integer"})
	}

	that.controller.ApplyMove(index)

	return c.JSON(http.StatusOK, toStateResponse(that.controller.Snapshot()))
}

func (that *Server) apiRestartHandler(c echo.Context) error {
	that.controller.Reset()

	return c.JSON(http.StatusOK, toStateResponse(that.controller.Snapshot()))
}

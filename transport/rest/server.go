package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kavia-common/browser-tic-tac-toe/internal/entity"
)

type gameController interface {
	ApplyMove(cell int) bool
	Reset()
	Snapshot() entity.Snapshot
}

type Server struct {
	logger     *slog.Logger
	controller gameController
	echo       *echo.Echo
}

// New - builds the router. live, when not nil, is mounted on /ws.
func New(logger *slog.Logger, controller gameController, live http.Handler) *Server {
	server := &Server{
		logger:     logger.With("component", "rest"),
		controller: controller,
		echo:       echo.New(),
	}

	server.echo.HideBanner = true
	server.echo.HidePort = true
	server.echo.Server.ReadTimeout = 10 * time.Second
	server.echo.Server.IdleTimeout = 30 * time.Second

	server.echo.Use(requestIDMiddleware())
	server.echo.Use(loggingMiddleware(server.logger))

	server.echo.GET("/ping", server.pingHandler)

	server.echo.GET("/", server.pageHandler)
	server.echo.POST("/cells/:index", server.clickHandler)
	server.echo.POST("/restart", server.restartHandler)

	api := server.echo.Group("/api")
	api.GET("/state", server.stateHandler)
	api.POST("/cells/:index", server.apiClickHandler)
	api.POST("/restart", server.apiRestartHandler)

	if live != nil {
		server.echo.GET("/ws", echo.WrapHandler(live))
	}

	return server
}

func (that *Server) Handler() http.Handler {
	return that.echo
}

// Start - starts HTTP server, returns nil after Shutdown.
func (that *Server) Start(port string) error {
	if err := that.echo.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Shutdown(ctx context.Context) error {
	if err := that.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

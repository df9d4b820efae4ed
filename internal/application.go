package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kavia-common/browser-tic-tac-toe/internal/config"
	"github.com/kavia-common/browser-tic-tac-toe/internal/notify"
	"github.com/kavia-common/browser-tic-tac-toe/internal/tictactoe"
	"github.com/kavia-common/browser-tic-tac-toe/internal/tui"
	"github.com/kavia-common/browser-tic-tac-toe/transport/rest"
	"github.com/kavia-common/browser-tic-tac-toe/transport/websocket"
)

const shutdownTimeout = 10 * time.Second

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	controller := tictactoe.NewController(logger)

	if conf.Redis.Enabled {
		publisher, err := notify.NewRedisPublisher(ctx, logger, conf.Redis.GetRedisAddr(), conf.Redis.Channel)
		if err != nil {
			return fmt.Errorf("could not connect to redis: %w", err)
		}

		defer func() {
			if err = publisher.Close(); err != nil {
				log.Error("could not close redis publisher", "error", err)
			}
		}()

		controller.Subscribe(publisher.Listener())
		log.Info("Publishing game events", "channel", conf.Redis.Channel)
	}

	if conf.UIMode == config.UIModeTerminal {
		return runTerminal(ctx, controller)
	}

	return runWeb(ctx, log, logger, conf, controller)
}

func runTerminal(ctx context.Context, controller *tictactoe.Controller) error {
	if err := tui.New(controller).Run(ctx); err != nil {
		return fmt.Errorf("terminal ui error: %w", err)
	}

	return nil
}

func runWeb(ctx context.Context, log, logger *slog.Logger, conf *config.Config, controller *tictactoe.Controller) error {
	wsServer := websocket.New(logger, controller)
	controller.Subscribe(wsServer.Broadcast)

	httpServer := rest.New(logger, controller, wsServer)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		httpErrCh <- httpServer.Start(conf.HTTPPort)
	}()

	select {
	case err := <-httpErrCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	wsServer.Close()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return nil
}

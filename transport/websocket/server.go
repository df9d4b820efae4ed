package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	gws "github.com/gorilla/websocket"

	"github.com/kavia-common/browser-tic-tac-toe/internal/apperror"
	"github.com/kavia-common/browser-tic-tac-toe/internal/entity"
)

const (
	writeWait      = 5 * time.Second
	maxMessageSize = 1024
)

type gameController interface {
	ApplyMove(cell int) bool
	Reset()
	Snapshot() entity.Snapshot
}

type connection struct {
	conn    *gws.Conn
	writeMu sync.Mutex
}

func (that *connection) send(msg *Message) error {
	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err := that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := that.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// Server pushes the game state to every open page and accepts clicks over the socket.
type Server struct {
	logger     *slog.Logger
	controller gameController
	upgrader   gws.Upgrader

	connectionsMutex sync.RWMutex
	connections      map[*connection]struct{}

	handlers map[string]func(ctx context.Context, conn *connection, message *Message) error
}

func New(logger *slog.Logger, controller gameController) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		controller:  controller,
		connections: make(map[*connection]struct{}),
		handlers:    make(map[string]func(context.Context, *connection, *Message) error),
	}

	server.handlers[ActionState] = server.handleState
	server.handlers[ActionTurn] = server.handleTurn
	server.handlers[ActionRestart] = server.handleRestart

	return server
}

// ServeHTTP - upgrades the connection and processes messages until the client goes away.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := &connection{conn: conn}
	that.register(client)
	defer that.unregister(client)

	log.Debug("WebSocket connection established", "remote", req.RemoteAddr)

	if err = that.handleState(req.Context(), client, nil); err != nil {
		log.Error("failed to send initial state", "error", err)
		return
	}

	if err = that.handleMessages(req.Context(), client); err != nil {
		log.Debug("connection closed", "error", err)
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, client *connection) error {
	log := that.logger.With("method", "handleMessages")

	client.conn.SetReadLimit(maxMessageSize)

	for {
		_, reqBody, err := client.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			if err = that.sendError(client, fmt.Sprintf("%s: %s", apperror.ErrUnknownAction, message.Action)); err != nil {
				return err
			}
			continue
		}

		if err = handler(ctx, client, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) handleState(_ context.Context, client *connection, _ *Message) error {
	msg, err := stateMessage(that.controller.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to build state message: %w", err)
	}

	return client.send(msg)
}

// handleTurn - an ignored move produces no broadcast, same as a click on the page.
func (that *Server) handleTurn(_ context.Context, client *connection, message *Message) error {
	var payload TurnPayload
	if err := unmarshalPayload(message, &payload); err != nil || payload.Cell == nil {
		return that.sendError(client, "cell is required")
	}

	that.controller.ApplyMove(*payload.Cell)

	return nil
}

func (that *Server) handleRestart(_ context.Context, _ *connection, _ *Message) error {
	that.controller.Reset()
	return nil
}

func (that *Server) sendError(client *connection, text string) error {
	msg, err := newMessage(ActionError, ErrorPayload{Error: text})
	if err != nil {
		return fmt.Errorf("failed to build error message: %w", err)
	}

	return client.send(msg)
}

// Broadcast - sends the snapshot to every connection and drops the ones that fail.
func (that *Server) Broadcast(snapshot entity.Snapshot) {
	msg, err := stateMessage(snapshot)
	if err != nil {
		that.logger.Error("failed to build state message", "error", err)
		return
	}

	that.connectionsMutex.RLock()
	clients := make([]*connection, 0, len(that.connections))
	for client := range that.connections {
		clients = append(clients, client)
	}
	that.connectionsMutex.RUnlock()

	for _, client := range clients {
		if err = client.send(msg); err != nil {
			that.logger.Warn("dropping connection", "error", err)
			that.unregister(client)
		}
	}
}

// Close - closes all open connections.
func (that *Server) Close() {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	for client := range that.connections {
		_ = client.conn.Close()
		delete(that.connections, client)
	}
}

func (that *Server) ConnectionCount() int {
	that.connectionsMutex.RLock()
	defer that.connectionsMutex.RUnlock()

	return len(that.connections)
}

func (that *Server) register(client *connection) {
	that.connectionsMutex.Lock()
	that.connections[client] = struct{}{}
	that.connectionsMutex.Unlock()
}

func (that *Server) unregister(client *connection) {
	that.connectionsMutex.Lock()
	_, ok := that.connections[client]
	delete(that.connections, client)
	that.connectionsMutex.Unlock()

	if ok {
		_ = client.conn.Close()
	}
}

package tictactoe

import (
	"log/slog"
	"sync"

	"github.com/kavia-common/browser-tic-tac-toe/internal/entity"
)

// Listener receives the state after every accepted change.
type Listener func(snapshot entity.Snapshot)

type subscription struct {
	id       int
	listener Listener
}

// Controller owns the single game session. Invalid input is ignored, never reported.
type Controller struct {
	logger *slog.Logger

	mu          sync.Mutex
	game        entity.Game
	version     uint64
	subscribers []subscription
	nextID      int

	// delivery never goes back to an older version, a late one is dropped
	notifyMu  sync.Mutex
	delivered uint64
}

func NewController(logger *slog.Logger) *Controller {
	return &Controller{
		logger: logger.With("component", "controller"),
		game:   entity.NewGame(),
	}
}

// ApplyMove - places the current mark on cell. Returns false when the move was ignored.
func (that *Controller) ApplyMove(cell int) bool {
	that.mu.Lock()

	if err := that.game.MakeTurn(cell); err != nil {
		that.mu.Unlock()
		that.logger.Debug("move ignored", "cell", cell, "reason", err)
		return false
	}

	that.version++
	version, snapshot := that.version, that.game.Snapshot()
	listeners := that.listeners()
	that.mu.Unlock()

	if snapshot.Result.IsOver() {
		that.logger.Info("game over", "status", snapshot.Result.Status, "winner", snapshot.Result.Winner, "moves", snapshot.Moves)
	}

	that.notify(version, listeners, snapshot)

	return true
}

// Reset - clears the board and gives the first move back to X.
func (that *Controller) Reset() {
	that.mu.Lock()
	that.game = entity.NewGame()
	that.version++
	version, snapshot := that.version, that.game.Snapshot()
	listeners := that.listeners()
	that.mu.Unlock()

	that.logger.Debug("game reset")

	that.notify(version, listeners, snapshot)
}

func (that *Controller) Snapshot() entity.Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.game.Snapshot()
}

func (that *Controller) IsOver() bool {
	return that.Snapshot().Result.IsOver()
}

// Subscribe - registers a listener, the returned func removes it.
func (that *Controller) Subscribe(listener Listener) func() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.nextID++
	id := that.nextID
	that.subscribers = append(that.subscribers, subscription{id: id, listener: listener})

	return func() {
		that.mu.Lock()
		defer that.mu.Unlock()

		for i, sub := range that.subscribers {
			if sub.id == id {
				that.subscribers = append(that.subscribers[:i], that.subscribers[i+1:]...)
				return
			}
		}
	}
}

// listeners must be called with mu held.
func (that *Controller) listeners() []Listener {
	listeners := make([]Listener, 0, len(that.subscribers))
	for _, sub := range that.subscribers {
		listeners = append(listeners, sub.listener)
	}
	return listeners
}

// notify - runs without mu, so listeners may read the controller but must not change it.
func (that *Controller) notify(version uint64, listeners []Listener, snapshot entity.Snapshot) {
	that.notifyMu.Lock()
	defer that.notifyMu.Unlock()

	if version <= that.delivered {
		that.logger.Debug("stale snapshot dropped", "version", version, "delivered", that.delivered)
		return
	}
	that.delivered = version

	for _, listener := range listeners {
		listener(snapshot)
	}
}

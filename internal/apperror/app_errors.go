package apperror

import "errors"

var (
	ErrGameFinished    = errors.New("game is already finished")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrUnknownAction   = errors.New("unknown action")
	ErrPublisherClosed = errors.New("publisher is closed")
)

package server

import "errors"

// Protocol violations. All are rejected before any state mutation and
// reported only to the offending connection.
var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomFull       = errors.New("room is full")
	ErrNameTaken      = errors.New("name already taken in this room")
	ErrGameInProgress = errors.New("game already in progress")
	ErrGameNotStarted = errors.New("game not started")
	ErrNotInRoom      = errors.New("connection is not in a room")
	ErrAlreadyInRoom  = errors.New("connection already joined a room")
	ErrNotHost        = errors.New("only the host can do that")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrCannotStart    = errors.New("room is not ready to start")
	ErrPlayerNotFound = errors.New("player not found in room")
	ErrBadRequest     = errors.New("malformed request")
)

package game

import "errors"

// Expected, recoverable failures surfaced verbatim to the client for
// display. None of these halt the room.
var (
	ErrRoomFull             = errors.New("room is full")
	ErrPlayerAlreadyPresent = errors.New("player already in game")
	ErrSeatUnavailable      = errors.New("seat not available")
	ErrNotInLobby           = errors.New("player not in lobby")
	ErrInsufficientPlayers  = errors.New("need at least 2 players")
	ErrNotAuthorized        = errors.New("only the room creator can start the game")
	ErrInvalidAction        = errors.New("invalid action")
	ErrPlayerNotFound       = errors.New("player not found")
)

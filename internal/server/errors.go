package server

import (
	"errors"

	"github.com/lox/holdem-room/internal/game"
)

// errorCode maps an engine error onto the wire code clients display.
// Unrecognised errors are reported as internal faults rather than player
// mistakes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrRoomFull):
		return "room_full"
	case errors.Is(err, game.ErrPlayerAlreadyPresent):
		return "player_already_present"
	case errors.Is(err, game.ErrSeatUnavailable):
		return "seat_unavailable"
	case errors.Is(err, game.ErrNotInLobby):
		return "not_in_lobby"
	case errors.Is(err, game.ErrInsufficientPlayers):
		return "insufficient_players"
	case errors.Is(err, game.ErrNotAuthorized):
		return "not_authorized"
	case errors.Is(err, game.ErrInvalidAction):
		return "invalid_action"
	case errors.Is(err, game.ErrPlayerNotFound):
		return "player_not_found"
	default:
		return "internal_error"
	}
}

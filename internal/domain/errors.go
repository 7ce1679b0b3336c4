package domain

import "errors"

var (
	// ErrRoomNotFound is returned when a room code does not resolve to a live room.
	ErrRoomNotFound = errors.New("Room not found.")
	// ErrGameAlreadyStarted is returned on join attempts after the game left the lobby.
	ErrGameAlreadyStarted = errors.New("Game already started")
	// ErrNicknameTaken is returned on an exact case-sensitive nickname collision.
	ErrNicknameTaken = errors.New("Nickname already taken")
	// ErrInvalidPassword is returned on a failed admin login.
	ErrInvalidPassword = errors.New("Invalid password")
)

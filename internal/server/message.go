package server

import (
	"encoding/json"
	"time"
)

// MessageType identifies a frame on the wire.
type MessageType string

// Client -> server message types
const (
	MessageTypeCreateRoom   MessageType = "create-room"
	MessageTypeJoinRoom     MessageType = "join-room"
	MessageTypeSelectSeat   MessageType = "select-seat"
	MessageTypeStartGame    MessageType = "start-game"
	MessageTypePlayerAction MessageType = "player-action"
)

// Server -> client message types
const (
	MessageTypeRoomCreated  MessageType = "room-created"
	MessageTypeRoomJoined   MessageType = "room-joined"
	MessageTypePlayerJoined MessageType = "player-joined"
	MessageTypeSeatSelected MessageType = "seat-selected"
	MessageTypeGameStarted  MessageType = "game-started"
	MessageTypeGameUpdated  MessageType = "game-updated"
	MessageTypePlayerLeft   MessageType = "player-left"
	MessageTypeError        MessageType = "error"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client -> Server Messages

type CreateRoomData struct {
	PlayerName string `json:"playerName"`
}

type JoinRoomData struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

type SelectSeatData struct {
	SeatIndex int `json:"seatIndex"`
}

type PlayerActionData struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

// Server -> Client Messages

// GameStateData carries either a game.RoomState (spectators, lobby) or a
// game.PlayerView (seated players), depending on the recipient.
type GameStateData struct {
	GameState any `json:"gameState"`
}

type RoomCreatedData struct {
	RoomCode  string `json:"roomCode"`
	GameState any    `json:"gameState"`
}

type RoomJoinedData struct {
	RoomCode  string `json:"roomCode"`
	GameState any    `json:"gameState"`
}

type PlayerJoinedData struct {
	PlayerName string `json:"playerName"`
	GameState  any    `json:"gameState"`
}

type SeatSelectedData struct {
	PlayerName string `json:"playerName"`
	SeatIndex  int    `json:"seatIndex"`
	GameState  any    `json:"gameState"`
}

type PlayerLeftData struct {
	PlayerName string `json:"playerName"`
	GameState  any    `json:"gameState"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

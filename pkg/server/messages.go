package server

import (
	"encoding/json"

	"github.com/yourusername/ludoengine/pkg/engine"
)

// Message is the wire envelope for every inbound WebSocket frame.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Outbound is the wire envelope for every outbound frame.
type Outbound struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Inbound message types.
const (
	MsgCreateRoom = "create-room"
	MsgJoinRoom   = "join-room"
	MsgLeaveRoom  = "leave-room"
	MsgListRooms  = "list-rooms"
	MsgReady      = "player-ready"
	MsgStartGame  = "start-game"
	MsgRollDice   = "roll-dice"
	MsgMoveToken  = "move-token"
	MsgSend       = "send-message"
	MsgReconnect  = "reconnect-to-room"
	MsgPing       = "ping"
)

// Outbound message types.
const (
	MsgRoomCreated        = "room-created"
	MsgRoomJoined         = "room-joined"
	MsgRoomList           = "room-list"
	MsgPlayerJoined       = "player-joined"
	MsgLeftRoom           = "left-room"
	MsgPlayerLeft         = "player-left"
	MsgReadyChanged       = "player-ready-changed"
	MsgGameStarted        = "game-started"
	MsgDiceRolled         = "dice-rolled"
	MsgTokenMoved         = "token-moved"
	MsgGameEnded          = "game-ended"
	MsgMessageReceived    = "message-received"
	MsgReconnected        = "reconnected"
	MsgPlayerReconnected  = "player-reconnected"
	MsgPlayerDisconnected = "player-disconnected"
	MsgError              = "error"
	MsgPong               = "pong"
)

// Request payloads.

type CreateRoomRequest struct {
	Name       string `json:"name"`
	MaxPlayers int    `json:"maxPlayers,omitempty"`
	IsPrivate  bool   `json:"isPrivate,omitempty"`
}

type JoinRoomRequest struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

type ReadyRequest struct {
	Ready bool `json:"ready"`
}

type MoveTokenRequest struct {
	TokenID int `json:"tokenId"`
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

type ReconnectRequest struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
}

// Response and broadcast payloads.

type RoomCreatedPayload struct {
	RoomID string         `json:"roomId"`
	Player *SessionPlayer `json:"player"`
	Room   *Room          `json:"room"`
}

type RoomJoinedPayload struct {
	Player *SessionPlayer `json:"player"`
	Room   *Room          `json:"room"`
}

type RoomPayload struct {
	Room *Room `json:"room"`
}

type RoomSummary struct {
	ID         string     `json:"id"`
	Players    int        `json:"players"`
	MaxPlayers int        `json:"maxPlayers"`
	Status     RoomStatus `json:"status"`
}

type RoomListPayload struct {
	Rooms []RoomSummary `json:"rooms"`
}

type ReadyChangedPayload struct {
	PlayerID string `json:"playerId"`
	Ready    bool   `json:"ready"`
	Room     *Room  `json:"room"`
}

type GameStatePayload struct {
	GameState *engine.GameState `json:"gameState"`
}

type DiceRolledPayload struct {
	GameState      *engine.GameState `json:"gameState"`
	DiceValue      int               `json:"diceValue"`
	AvailableMoves []engine.Move     `json:"availableMoves"`
	CurrentPlayer  engine.Color      `json:"currentPlayer"`
}

type TokenMovedPayload struct {
	GameState       *engine.GameState  `json:"gameState"`
	Move            *engine.MoveResult `json:"move"`
	GainedExtraTurn bool               `json:"gainedExtraTurn"`
}

// ChatMessage is a stamped room chat line.
type ChatMessage struct {
	ID         string `json:"id"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Text       string `json:"text"`
	Timestamp  int64  `json:"timestamp"`
}

type ReconnectedPayload struct {
	Room      *Room             `json:"room"`
	GameState *engine.GameState `json:"gameState,omitempty"`
}

type PlayerReconnectedPayload struct {
	PlayerID string `json:"playerId"`
	Room     *Room  `json:"room"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

package websocket

import "encoding/json"

// Wire actions. Inbound carry client intents, outbound carry room events.
const (
	actionCreateRoom  = "createRoom"
	actionJoinRoom    = "joinRoom"
	actionStartGame   = "startGame"
	actionDrawEdge    = "drawEdge"
	actionLeaderboard = "leaderboard"

	actionConnected   = "connected"
	actionStatus      = "status"
	actionRoomCreated = "roomCreated"
	actionUpdate      = "update"
	actionGameStarted = "gameStarted"
	actionTimerUpdate = "timerUpdate"
)

// Status texts surfaced to the requester on rejected intents.
const (
	statusRoomExists       = "room exists"
	statusRoomNotFound     = "room not found"
	statusAlreadyStarted   = "already started"
	statusNotEnoughPlayers = "need at least 2 players"
	statusInvalidBoard     = "invalid board size"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type CreateRoomPayload struct {
	RoomID     string `json:"roomId"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	PlayerName string `json:"playerName"`
	Color      string `json:"color"`
	Symbol     string `json:"symbol"`
}

type JoinRoomPayload struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
	Color      string `json:"color"`
	Symbol     string `json:"symbol"`
}

type StartGamePayload struct {
	RoomID string `json:"roomId"`
}

type DrawEdgePayload struct {
	RoomID string `json:"roomId"`
	Edge   string `json:"edge"`
}

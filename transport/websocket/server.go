package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/dotsboxes-backend/internal/entity"
)

type roomUseCase interface {
	CreateRoom(roomID string, width, height int, host *entity.Player) (*entity.Snapshot, error)
	JoinRoom(roomID string, player *entity.Player) (*entity.Snapshot, error)
	StartGame(roomID, requesterID string) (*entity.Snapshot, error)
	PlaceEdge(roomID, requesterID, edgeKey string) (*entity.Snapshot, error)
	Disconnect(ctx context.Context, roomID, playerID string) *entity.Snapshot
	Leaderboard(ctx context.Context, limit int64) ([]entity.LeaderboardEntry, error)
}

// connection wraps a websocket connection with a write lock; room broadcasts
// and timer ticks reach the same connection from different goroutines.
type connection struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (that *connection) send(action string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if err = that.conn.WriteJSON(Message{Action: action, Payload: raw}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// client - per-connection state. roomID tracks the room this connection
// created or joined; it is only touched by the connection's own read loop.
type client struct {
	id     string
	roomID string
	conn   *connection
}

type Server struct {
	logger *slog.Logger
	uRoom  roomUseCase

	upgrader websocket.Upgrader

	connectionsMutex sync.RWMutex
	connections      map[string]*connection

	handlers map[string]func(ctx context.Context, cl *client, message *Message) error
}

func New(logger *slog.Logger, uRoom roomUseCase) *Server {
	server := &Server{
		logger: logger,
		uRoom:  uRoom,

		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},

		connections: make(map[string]*connection),
		handlers:    make(map[string]func(context.Context, *client, *Message) error),
	}

	server.handlers[actionCreateRoom] = server.handleCreateRoom
	server.handlers[actionJoinRoom] = server.handleJoinRoom
	server.handlers[actionStartGame] = server.handleStartGame
	server.handlers[actionDrawEdge] = server.handleDrawEdge
	server.handlers[actionLeaderboard] = server.handleLeaderboard

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveWS(ctx, w, r)
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWS - upgrades the connection, assigns the player identity and runs the
// read loop until the client goes away.
func (that *Server) serveWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	cl := &client{
		id:   uuid.NewString(),
		conn: &connection{conn: conn},
	}

	that.connectionsMutex.Lock()
	that.connections[cl.id] = cl.conn
	that.connectionsMutex.Unlock()

	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	log.Info("WebSocket connection established", "playerID", cl.id)

	if err = cl.conn.send(actionConnected, cl.id); err != nil {
		log.Error("failed to send connected event", "error", err)
	}

	that.readLoop(ctx, cl)
}

// readLoop - processes messages from the client.
func (that *Server) readLoop(ctx context.Context, cl *client) {
	log := that.logger.With("method", "readLoop", "playerID", cl.id)

	defer that.dropClient(ctx, cl)

	for {
		_, data, err := cl.conn.conn.ReadMessage()
		if err != nil {
			log.Debug("connection closed", "error", err)
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			continue
		}

		if err = handler(ctx, cl, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// dropClient - the implicit disconnect intent: unregister the connection,
// remove the player from their room and tell the survivors.
func (that *Server) dropClient(ctx context.Context, cl *client) {
	log := that.logger.With("method", "dropClient", "playerID", cl.id)

	that.connectionsMutex.Lock()
	delete(that.connections, cl.id)
	that.connectionsMutex.Unlock()

	_ = cl.conn.conn.Close()

	roomID := cl.roomID
	that.leaveCurrentRoom(ctx, cl)

	log.Info("player disconnected", "roomID", roomID)
}

// leaveCurrentRoom - removes the player from the room this connection is in,
// if any, and tells the survivors. Keeps a connection from ghosting in an old
// room when it creates or joins another one.
func (that *Server) leaveCurrentRoom(ctx context.Context, cl *client) {
	if cl.roomID == "" {
		return
	}

	if snapshot := that.uRoom.Disconnect(ctx, cl.roomID, cl.id); snapshot != nil {
		that.broadcastSnapshot(snapshot, actionUpdate)
	}

	cl.roomID = ""
}

// RoomState - timer-driven full state push; implements the engine's notifier.
func (that *Server) RoomState(playerIDs []string, snapshot *entity.Snapshot) {
	that.sendToPlayers(playerIDs, actionUpdate, snapshot)
}

// TimerTick - once-per-second countdown push; implements the engine's notifier.
func (that *Server) TimerTick(playerIDs []string, secondsLeft int) {
	that.sendToPlayers(playerIDs, actionTimerUpdate, secondsLeft)
}

func (that *Server) broadcastSnapshot(snapshot *entity.Snapshot, action string) {
	ids := make([]string, len(snapshot.Players))
	for i, player := range snapshot.Players {
		ids[i] = player.ID
	}

	that.sendToPlayers(ids, action, snapshot)
}

func (that *Server) sendToPlayers(playerIDs []string, action string, payload any) {
	log := that.logger.With("method", "sendToPlayers", "action", action)

	for _, id := range playerIDs {
		that.connectionsMutex.RLock()
		conn, ok := that.connections[id]
		that.connectionsMutex.RUnlock()

		if !ok {
			log.Warn("connection not found for player", "playerID", id)
			continue
		}

		if err := conn.send(action, payload); err != nil {
			log.Error("failed to send message", "playerID", id, "error", err)
		}
	}
}

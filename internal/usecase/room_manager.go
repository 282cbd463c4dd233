package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/dotsboxes-backend/internal/apperror"
	"github.com/rocketscienceinc/dotsboxes-backend/internal/dotsboxes"
	"github.com/rocketscienceinc/dotsboxes-backend/internal/entity"
	"github.com/rocketscienceinc/dotsboxes-backend/internal/roomstore"
)

const minPlayers = 2

// notifier - the transport-side fan-out the engine pushes timer-driven events
// through. Intent-driven broadcasts go out with the snapshot the operation
// returns; only the countdown needs to reach clients on its own.
type notifier interface {
	RoomState(playerIDs []string, snapshot *entity.Snapshot)
	TimerTick(playerIDs []string, secondsLeft int)
}

type leaderboardRepo interface {
	AddScore(ctx context.Context, playerName string, score int) error
	Top(ctx context.Context, limit int64) ([]entity.LeaderboardEntry, error)
}

// RoomManager - the per-room state machine: turn sequencing, the countdown
// timer, edge placement and disconnect handling. All operations serialize on
// the room lock; different rooms never contend.
type RoomManager struct {
	logger *slog.Logger

	rooms       *roomstore.Store
	leaderboard leaderboardRepo
	notifier    notifier

	turnSeconds int
}

func NewRoomManager(logger *slog.Logger, rooms *roomstore.Store, leaderboard leaderboardRepo, turnSeconds int) *RoomManager {
	return &RoomManager{
		logger: logger,

		rooms:       rooms,
		leaderboard: leaderboard,

		turnSeconds: turnSeconds,
	}
}

// SetNotifier - wires the transport in after construction; the transport needs
// the manager first, so the dependency cannot go through the constructor.
func (that *RoomManager) SetNotifier(n notifier) {
	that.notifier = n
}

func (that *RoomManager) CreateRoom(roomID string, width, height int, host *entity.Player) (*entity.Snapshot, error) {
	log := that.logger.With("method", "CreateRoom", "roomID", roomID)

	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", apperror.ErrInvalidBoard, width, height)
	}

	room, err := that.rooms.Create(roomID, width, height, host)
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	room.Lock()
	snapshot := room.Snapshot()
	room.Unlock()

	log.Info("room created", "width", width, "height", height, "hostID", host.ID)

	return snapshot, nil
}

func (that *RoomManager) JoinRoom(roomID string, player *entity.Player) (*entity.Snapshot, error) {
	log := that.logger.With("method", "JoinRoom", "roomID", roomID)

	room, err := that.rooms.Get(roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	room.Lock()
	defer room.Unlock()

	if room.IsStarted() {
		return nil, fmt.Errorf("cannot join room %q: %w", roomID, apperror.ErrGameAlreadyStarted)
	}

	room.AddPlayer(player)

	log.Info("player joined", "playerID", player.ID, "players", len(room.Players))

	return room.Snapshot(), nil
}

// StartGame - moves the room from lobby to in-progress and begins the first
// countdown. Only the host may start, and only with enough players.
func (that *RoomManager) StartGame(roomID, requesterID string) (*entity.Snapshot, error) {
	log := that.logger.With("method", "StartGame", "roomID", roomID)

	room, err := that.rooms.Get(roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	room.Lock()
	defer room.Unlock()

	if room.IsStarted() {
		return nil, fmt.Errorf("cannot start room %q: %w", roomID, apperror.ErrGameAlreadyStarted)
	}

	if room.HostID != requesterID {
		return nil, fmt.Errorf("player %q: %w", requesterID, apperror.ErrNotHost)
	}

	if len(room.Players) < minPlayers {
		return nil, apperror.ErrNotEnoughPlayers
	}

	room.Started = true
	room.Turn = 0
	that.startTurn(room)

	log.Info("game started", "players", len(room.Players))

	return room.Snapshot(), nil
}

// PlaceEdge - attempts to claim an edge for the requester. Every rejection
// returns an error for the transport to swallow; the client is assumed to be
// desynced, not malicious. The reserved key "skip" passes the turn without
// touching the board.
func (that *RoomManager) PlaceEdge(roomID, requesterID, edgeKey string) (*entity.Snapshot, error) {
	room, err := that.rooms.Get(roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	room.Lock()
	defer room.Unlock()

	if !room.IsStarted() {
		return nil, fmt.Errorf("room %q: %w", roomID, apperror.ErrGameIsNotStarted)
	}

	current := room.CurrentPlayer()
	if current == nil || current.ID != requesterID {
		return nil, fmt.Errorf("player %q: %w", requesterID, apperror.ErrNotYourTurn)
	}

	if edgeKey == dotsboxes.SkipEdge {
		room.AdvanceTurn()
		that.startTurn(room)
		return room.Snapshot(), nil
	}

	edge, err := dotsboxes.ParseEdge(edgeKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse edge: %w", err)
	}

	completed, err := dotsboxes.ClaimEdge(room, current, edge)
	if err != nil {
		return nil, fmt.Errorf("failed to claim edge: %w", err)
	}

	// Completing a box keeps the turn with the mover, remaining time and
	// all; only a barren placement passes the turn on.
	if completed == 0 {
		room.AdvanceTurn()
		that.startTurn(room)
	}

	return room.Snapshot(), nil
}

// Disconnect - removes the player from the room, archives their score if the
// game had started, and returns the surviving room's snapshot for broadcast.
// Returns nil when the room was torn down or the player was not a member.
func (that *RoomManager) Disconnect(ctx context.Context, roomID, playerID string) *entity.Snapshot {
	log := that.logger.With("method", "Disconnect", "roomID", roomID, "playerID", playerID)

	room, removed, started := that.rooms.RemovePlayer(roomID, playerID)
	if removed == nil {
		return nil
	}

	if started && removed.Score > 0 && that.leaderboard != nil {
		if err := that.leaderboard.AddScore(ctx, removed.Name, removed.Score); err != nil {
			log.Error("failed to archive score", "error", err)
		}
	}

	if room == nil {
		log.Info("room deleted, last player left")
		return nil
	}

	log.Info("player left", "score", removed.Score)

	room.Lock()
	defer room.Unlock()

	return room.Snapshot()
}

func (that *RoomManager) Leaderboard(ctx context.Context, limit int64) ([]entity.LeaderboardEntry, error) {
	entries, err := that.leaderboard.Top(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	return entries, nil
}

// startTurn - resets the countdown and replaces the room's timer. Must be
// called with the room lock held; the previous countdown is cancelled before
// the new one exists, so at most one is ever live per room.
func (that *RoomManager) startTurn(room *entity.Room) {
	room.TimeLeft = that.turnSeconds

	ctx, cancel := context.WithCancel(context.Background())
	gen := room.SwapTimer(cancel)

	go that.runCountdown(ctx, room, gen)
}

func (that *RoomManager) runCountdown(ctx context.Context, room *entity.Room, gen uint64) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !that.tick(room, gen) {
				return
			}
		}
	}
}

// tick - one second of countdown. Reports whether this countdown should keep
// running. A tick whose generation no longer matches the room's lost a race
// with a restart or teardown and must not touch anything.
func (that *RoomManager) tick(room *entity.Room, gen uint64) bool {
	room.Lock()

	if room.TimerGen() != gen {
		room.Unlock()
		return false
	}

	room.TimeLeft--
	timeLeft := room.TimeLeft
	members := room.PlayerIDs()

	if timeLeft > 0 {
		room.Unlock()
		that.notifyTimer(members, timeLeft)
		return true
	}

	// Time is up: the idle player forfeits the turn and a fresh countdown
	// starts immediately. Swapping the timer retires this goroutine.
	room.AdvanceTurn()
	that.startTurn(room)
	snapshot := room.Snapshot()
	room.Unlock()

	that.notifyTimer(members, 0)
	that.notifyState(members, snapshot)

	return false
}

func (that *RoomManager) notifyTimer(playerIDs []string, secondsLeft int) {
	if that.notifier == nil {
		return
	}
	that.notifier.TimerTick(playerIDs, secondsLeft)
}

func (that *RoomManager) notifyState(playerIDs []string, snapshot *entity.Snapshot) {
	if that.notifier == nil {
		return
	}
	that.notifier.RoomState(playerIDs, snapshot)
}

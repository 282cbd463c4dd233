package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/dotsboxes-backend/internal/apperror"
	"github.com/rocketscienceinc/dotsboxes-backend/internal/entity"
)

const leaderboardLimit = 10

func (that *Server) handleCreateRoom(ctx context.Context, cl *client, message *Message) error {
	log := that.logger.With("method", "handleCreateRoom", "playerID", cl.id)

	var payloadReq CreateRoomPayload
	if err := json.Unmarshal(message.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	host := &entity.Player{
		ID:     cl.id,
		Name:   payloadReq.PlayerName,
		Color:  payloadReq.Color,
		Symbol: payloadReq.Symbol,
	}

	snapshot, err := that.uRoom.CreateRoom(payloadReq.RoomID, payloadReq.Width, payloadReq.Height, host)
	if errors.Is(err, apperror.ErrRoomExists) {
		return cl.conn.send(actionStatus, statusRoomExists)
	}

	if errors.Is(err, apperror.ErrInvalidBoard) {
		return cl.conn.send(actionStatus, statusInvalidBoard)
	}

	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	that.leaveCurrentRoom(ctx, cl)
	cl.roomID = payloadReq.RoomID

	if err = cl.conn.send(actionRoomCreated, payloadReq.RoomID); err != nil {
		return fmt.Errorf("failed to send room created event: %w", err)
	}

	that.broadcastSnapshot(snapshot, actionUpdate)

	log.Info("room created", "roomID", payloadReq.RoomID)

	return nil
}

func (that *Server) handleJoinRoom(ctx context.Context, cl *client, message *Message) error {
	log := that.logger.With("method", "handleJoinRoom", "playerID", cl.id)

	var payloadReq JoinRoomPayload
	if err := json.Unmarshal(message.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	player := &entity.Player{
		ID:     cl.id,
		Name:   payloadReq.PlayerName,
		Color:  payloadReq.Color,
		Symbol: payloadReq.Symbol,
	}

	snapshot, err := that.uRoom.JoinRoom(payloadReq.RoomID, player)
	if errors.Is(err, apperror.ErrRoomNotFound) {
		return cl.conn.send(actionStatus, statusRoomNotFound)
	}

	if errors.Is(err, apperror.ErrGameAlreadyStarted) {
		return cl.conn.send(actionStatus, statusAlreadyStarted)
	}

	if err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}

	that.leaveCurrentRoom(ctx, cl)
	cl.roomID = payloadReq.RoomID

	that.broadcastSnapshot(snapshot, actionUpdate)

	log.Info("player joined room", "roomID", payloadReq.RoomID)

	return nil
}

func (that *Server) handleStartGame(_ context.Context, cl *client, message *Message) error {
	log := that.logger.With("method", "handleStartGame", "playerID", cl.id)

	var payloadReq StartGamePayload
	if err := json.Unmarshal(message.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	snapshot, err := that.uRoom.StartGame(payloadReq.RoomID, cl.id)
	if errors.Is(err, apperror.ErrNotEnoughPlayers) {
		return cl.conn.send(actionStatus, statusNotEnoughPlayers)
	}

	// A missing room, a non-host requester or a re-start are client
	// desyncs, not reportable errors.
	if err != nil {
		log.Debug("start game ignored", "roomID", payloadReq.RoomID, "error", err)
		return nil
	}

	that.broadcastSnapshot(snapshot, actionGameStarted)

	log.Info("game started", "roomID", payloadReq.RoomID)

	return nil
}

func (that *Server) handleDrawEdge(_ context.Context, cl *client, message *Message) error {
	log := that.logger.With("method", "handleDrawEdge", "playerID", cl.id)

	var payloadReq DrawEdgePayload
	if err := json.Unmarshal(message.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	snapshot, err := that.uRoom.PlaceEdge(payloadReq.RoomID, cl.id, payloadReq.Edge)
	// Every placement rejection is a silent no-op on the wire.
	if err != nil {
		log.Debug("edge placement ignored", "roomID", payloadReq.RoomID, "edge", payloadReq.Edge, "error", err)
		return nil
	}

	that.broadcastSnapshot(snapshot, actionUpdate)

	return nil
}

func (that *Server) handleLeaderboard(ctx context.Context, cl *client, _ *Message) error {
	log := that.logger.With("method", "handleLeaderboard", "playerID", cl.id)

	entries, err := that.uRoom.Leaderboard(ctx, leaderboardLimit)
	if err != nil {
		log.Error("failed to get leaderboard", "error", err)
		return cl.conn.send(actionStatus, "leaderboard unavailable")
	}

	return cl.conn.send(actionLeaderboard, entries)
}

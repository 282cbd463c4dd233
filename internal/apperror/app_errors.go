package apperror

import "errors"

var (
	ErrRoomExists         = errors.New("room already exists")
	ErrRoomNotFound       = errors.New("room not found")
	ErrGameAlreadyStarted = errors.New("game is already started")
	ErrGameIsNotStarted   = errors.New("game is not started")
	ErrNotEnoughPlayers   = errors.New("need at least 2 players")
	ErrNotHost            = errors.New("only the host can start the game")
	ErrNotYourTurn        = errors.New("it's not your turn")
	ErrEdgeOccupied       = errors.New("edge is already claimed")
	ErrInvalidEdge        = errors.New("invalid edge key")
	ErrInvalidBoard       = errors.New("board dimensions must be positive")
)

package rest

import (
	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
)

type createGameRequest struct {
	Name string `json:"name"`
}

type joinGameRequest struct {
	PlayerID string `json:"playerId" validate:"required"`
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required"`
}

type makeMoveRequest struct {
	PlayerID string `json:"playerId" validate:"required"`
	Row      *int   `json:"row" validate:"required"`
	Col      *int   `json:"col" validate:"required"`
}

type gameRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type createGameResponse struct {
	Game    gameRef `json:"game"`
	Message string  `json:"message"`
}

type statusResponse struct {
	Status entity.GameSnapshot `json:"status"`
}

type listGamesResponse struct {
	Games []entity.GameSummary `json:"games"`
	Count int                  `json:"count"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type moveResponse struct {
	Game     [][]string    `json:"game"`
	Move     [2]int        `json:"move"`
	Status   entity.Status `json:"status"`
	WinnerID *string       `json:"winnerId"`
	Message  string        `json:"message"`
}

type playerResponse struct {
	entity.Player
	WinRate            float64 `json:"winRate"`
	AverageMovesPerWin float64 `json:"averageMovesPerWin"`
	Efficiency         float64 `json:"efficiency"`
}

func newPlayerResponse(player entity.Player) playerResponse {
	return playerResponse{
		Player:             player,
		WinRate:            player.Stats.WinRate(),
		AverageMovesPerWin: player.Stats.AverageMovesPerWin(),
		Efficiency:         player.Stats.Efficiency(),
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

package cli

import (
	"fmt"
	"io"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
)

type messageResult struct {
	Message string `json:"message"`
}

func (that messageResult) printText(w io.Writer) {
	fmt.Fprintln(w, that.Message)
}

type createResult struct {
	Game struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"game"`
	Message string `json:"message"`
}

func (that createResult) printText(w io.Writer) {
	fmt.Fprintf(w, "%s (id %d, name %q)\n", that.Message, that.Game.ID, that.Game.Name)
}

type listResult struct {
	Games []entity.GameSummary `json:"games"`
	Count int                  `json:"count"`
}

func (that listResult) printText(w io.Writer) {
	for _, game := range that.Games {
		fmt.Fprintf(w, "%d\t%s\t%s\n", game.ID, game.Status, game.Name)
	}
	fmt.Fprintf(w, "%d game(s)\n", that.Count)
}

type statusResult struct {
	Status entity.GameSnapshot `json:"status"`
}

func (that statusResult) printText(w io.Writer) {
	game := that.Status

	fmt.Fprintf(w, "Game %d %q: %s\n", game.ID, game.Name, game.Status)
	for _, player := range game.Players {
		fmt.Fprintf(w, "  %s plays %s\n", player.ID, player.Mark)
	}
	renderBoard(w, game.Board)

	switch {
	case game.Winner() != "":
		fmt.Fprintf(w, "Winner: %s\n", game.Winner())
	case game.Status == entity.StatusComplete:
		fmt.Fprintln(w, "Draw")
	case game.CurrentPlayer() != "":
		fmt.Fprintf(w, "Next: %s\n", game.CurrentPlayer())
	}
}

type moveResult struct {
	Game     [][]string    `json:"game"`
	Move     [2]int        `json:"move"`
	Status   entity.Status `json:"status"`
	WinnerID string        `json:"winnerId,omitempty"`
	Message  string        `json:"message"`
}

func (that moveResult) printText(w io.Writer) {
	fmt.Fprintf(w, "%s: (%d, %d)\n", that.Message, that.Move[0], that.Move[1])
	renderBoard(w, that.Game)

	if that.WinnerID != "" {
		fmt.Fprintf(w, "Winner: %s\n", that.WinnerID)
	} else if that.Status == entity.StatusComplete {
		fmt.Fprintln(w, "Draw")
	}
}

type leaderboardResult entity.Leaderboard

func (that leaderboardResult) printText(w io.Writer) {
	fmt.Fprintf(w, "Leaderboard by %s (page %d, %d ranked)\n", that.Metric, that.Page, that.Total)
	for _, entry := range that.Entries {
		fmt.Fprintf(w, "%3d. %-20s won %d/%d  win rate %.2f  efficiency %.2f\n",
			entry.Rank, entry.PlayerID, entry.GamesWon, entry.GamesPlayed, entry.WinRate, entry.Efficiency)
	}
}

type playerResult struct {
	entity.Player
	WinRate            float64 `json:"winRate"`
	AverageMovesPerWin float64 `json:"averageMovesPerWin"`
	Efficiency         float64 `json:"efficiency"`
}

func (that playerResult) printText(w io.Writer) {
	fmt.Fprintf(w, "%s (%s, %s)\n", that.ID, that.Name, that.Email)
	fmt.Fprintf(w, "  played %d, won %d, lost %d, drawn %d\n",
		that.Stats.GamesPlayed, that.Stats.GamesWon, that.Stats.GamesLost, that.Stats.GamesDrawn)
	fmt.Fprintf(w, "  win rate %.2f, moves per win %.2f, efficiency %.2f\n",
		that.WinRate, that.AverageMovesPerWin, that.Efficiency)
}

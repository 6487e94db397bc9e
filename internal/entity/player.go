package entity

// MinMovesPerWin - the fewest moves a player can place and still complete a line.
const MinMovesPerWin = 3

type GameResult string

const (
	ResultWin  GameResult = "win"
	ResultLoss GameResult = "loss"
	ResultDraw GameResult = "draw"
)

type PlayerStats struct {
	GamesPlayed int `json:"gamesPlayed"`
	GamesWon    int `json:"gamesWon"`
	GamesLost   int `json:"gamesLost"`
	GamesDrawn  int `json:"gamesDrawn"`
	// TotalMoves counts the player's moves across every completed game.
	TotalMoves int `json:"totalMoves"`
	// MovesInWins counts only the moves made in games the player won.
	MovesInWins int `json:"movesInWins"`
}

type Player struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Stats PlayerStats `json:"stats"`
}

// Apply - folds the result of one completed game into the counters.
func (that *PlayerStats) Apply(result GameResult, moves int) {
	that.GamesPlayed++
	that.TotalMoves += moves

	switch result {
	case ResultWin:
		that.GamesWon++
		that.MovesInWins += moves
	case ResultLoss:
		that.GamesLost++
	case ResultDraw:
		that.GamesDrawn++
	}
}

func (that PlayerStats) WinRate() float64 {
	if that.GamesPlayed == 0 {
		return 0
	}

	return float64(that.GamesWon) / float64(that.GamesPlayed)
}

func (that PlayerStats) AverageMovesPerWin() float64 {
	if that.GamesWon == 0 {
		return 0
	}

	return float64(that.MovesInWins) / float64(that.GamesWon)
}

// Efficiency - win rate scaled by move economy, in [0, 1].
// A player who always wins in three moves scores 1.
func (that PlayerStats) Efficiency() float64 {
	avg := that.AverageMovesPerWin()
	if avg == 0 {
		return 0
	}

	return that.WinRate() * (MinMovesPerWin / avg)
}

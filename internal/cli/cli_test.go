package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/repository"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/service"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-sessions/testing/suite"
	"github.com/rocketscienceinc/tictactoe-sessions/transport/rest"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	players := repository.NewPlayerStore()
	manager := usecase.NewGameManager(logger, repository.NewGameRegistry(players), players,
		service.NewLeaderboardService(players, service.MaxPageLimit))

	server := httptest.NewServer(rest.NewRouter(rest.RouterConfig{Logger: logger, Games: manager}))
	t.Cleanup(server.Close)

	return server
}

// newMirroredServer - a server whose game manager mirrors into the suite's redis.
func newMirroredServer(t *testing.T, st *suite.Suite) *httptest.Server {
	t.Helper()

	players := repository.NewPlayerStore()
	manager := usecase.NewGameManager(st.Logger, repository.NewGameRegistry(players), players,
		service.NewLeaderboardService(players, service.MaxPageLimit),
		usecase.WithMirror(repository.NewGameRepository(st.Storage, time.Hour), repository.NewPlayerRepository(st.Storage)))

	server := httptest.NewServer(rest.NewRouter(rest.RouterConfig{Logger: st.Logger, Games: manager}))
	t.Cleanup(server.Close)

	return server
}

// playTopRowWin - creates game 1 and lets alice win it against bob.
func playTopRowWin(t *testing.T, server *httptest.Server) {
	t.Helper()

	steps := [][]string{
		{"game", "create", "mirrored"},
		{"game", "join", "1", "alice", "--name", "Alice", "--email", "alice@example.com"},
		{"game", "join", "1", "bob", "--name", "Bob", "--email", "bob@example.com"},
		{"game", "move", "1", "alice", "0", "0"},
		{"game", "move", "1", "bob", "1", "0"},
		{"game", "move", "1", "alice", "0", "1"},
		{"game", "move", "1", "bob", "1", "1"},
		{"game", "move", "1", "alice", "0", "2"},
	}

	for _, step := range steps {
		_, err := run(t, server, step...)
		require.NoError(t, err, step)
	}
}

func run(t *testing.T, server *httptest.Server, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--server", server.URL}, args...))

	err := cmd.Execute()

	return out.String(), err
}

func TestCLI_FullGame(t *testing.T) {
	server := newServer(t)

	// Given: a game with two players
	out, err := run(t, server, "game", "create", "cli match")
	require.NoError(t, err)
	assert.Contains(t, out, "Game 1 created successfully")

	_, err = run(t, server, "game", "join", "1", "alice", "--name", "Alice", "--email", "alice@example.com")
	require.NoError(t, err)
	_, err = run(t, server, "game", "join", "1", "bob", "--name", "Bob", "--email", "bob@example.com")
	require.NoError(t, err)

	// When: alice wins on the top row
	for _, move := range [][]string{
		{"alice", "0", "0"}, {"bob", "1", "0"}, {"alice", "0", "1"}, {"bob", "1", "1"}, {"alice", "0", "2"},
	} {
		out, err = run(t, server, append([]string{"game", "move", "1"}, move...)...)
		require.NoError(t, err)
	}

	// Then: the last move reports the winner
	assert.Contains(t, out, "Winner: alice")
	assert.Contains(t, out, " X | X | X")

	t.Run("StatusAsJSON", func(t *testing.T) {
		out, err := run(t, server, "--output", "json", "game", "status", "1")
		require.NoError(t, err)

		var result statusResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, entity.StatusComplete, result.Status.Status)
	})

	t.Run("Leaderboard", func(t *testing.T) {
		out, err := run(t, server, "leaderboard", "wins", "--limit", "5")
		require.NoError(t, err)
		assert.Contains(t, out, "alice")
	})

	t.Run("Player", func(t *testing.T) {
		out, err := run(t, server, "player", "get", "bob")
		require.NoError(t, err)
		assert.Contains(t, out, "played 1, won 0, lost 1, drawn 0")
	})

	t.Run("ListByStatus", func(t *testing.T) {
		out, err := run(t, server, "game", "list", "--status", "complete")
		require.NoError(t, err)
		assert.Contains(t, out, "1 game(s)")
	})

	t.Run("Delete", func(t *testing.T) {
		out, err := run(t, server, "game", "delete", "1")
		require.NoError(t, err)
		assert.Contains(t, out, "Game 1 deleted successfully")
	})
}

func TestCLI_Errors(t *testing.T) {
	server := newServer(t)

	t.Run("ServerError", func(t *testing.T) {
		_, err := run(t, server, "game", "status", "99")

		require.ErrorIs(t, err, ErrServer)
		assert.Contains(t, err.Error(), "not_found")
	})

	t.Run("BadGameID", func(t *testing.T) {
		_, err := run(t, server, "game", "status", "abc")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid game id")
	})

	t.Run("BadOutputFormat", func(t *testing.T) {
		_, err := run(t, server, "--output", "yaml", "ping")

		require.Error(t, err)
	})
}

func TestCLI_Ping(t *testing.T) {
	server := newServer(t)

	out, err := run(t, server, "ping")

	require.NoError(t, err)
	assert.Equal(t, "pong\n", out)
}

func TestCLI_Mirror(t *testing.T) {
	_, st := suite.New(t)
	server := newMirroredServer(t, st)

	mirror := func(args ...string) []string {
		return append([]string{"mirror", "--redis-addr", st.Mini.Addr()}, args...)
	}

	// Given: a finished game the server mirrored into redis
	playTopRowWin(t, server)

	t.Run("Game", func(t *testing.T) {
		// When: the mirrored snapshot is read back
		out, err := run(t, server, mirror("game", "1")...)

		// Then: it matches the final state on the server
		require.NoError(t, err)
		assert.Contains(t, out, `Game 1 "mirrored": complete`)
		assert.Contains(t, out, " X | X | X")
		assert.Contains(t, out, "Winner: alice")
	})

	t.Run("Top", func(t *testing.T) {
		out, err := run(t, server, mirror("top", "wins", "--limit", "1")...)

		require.NoError(t, err)
		assert.Contains(t, out, "1. alice")
		assert.NotContains(t, out, "bob")
	})

	t.Run("TopAsJSON", func(t *testing.T) {
		out, err := run(t, server, append([]string{"--output", "json"}, mirror("top", "efficiency")...)...)
		require.NoError(t, err)

		var result leaderboardResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, entity.MetricEfficiency, result.Metric)
		require.Len(t, result.Entries, 2)
		assert.Equal(t, "alice", result.Entries[0].PlayerID)
		assert.InDelta(t, 1.0, result.Entries[0].Efficiency, 1e-9)
		assert.Equal(t, 2, result.Entries[1].Rank)
		assert.Equal(t, "bob", result.Entries[1].PlayerID)
	})

	t.Run("MissingGame", func(t *testing.T) {
		_, err := run(t, server, mirror("game", "7")...)

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("UnknownMetric", func(t *testing.T) {
		_, err := run(t, server, mirror("top", "speed")...)

		require.ErrorIs(t, err, apperror.ErrInvalidMetric)
	})

	t.Run("Unreachable", func(t *testing.T) {
		_, err := run(t, server, "mirror", "--redis-addr", "127.0.0.1:1", "game", "1")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open mirror")
	})
}

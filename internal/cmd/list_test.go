package cmd

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quantmind-br/gamescan/internal/core"
	"github.com/quantmind-br/gamescan/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewListCmd(t *testing.T) {
	t.Parallel()
	cmd := NewListCmd(newTestConfig(t), testLogger())

	assert.Equal(t, "list", cmd.Use)
	assert.Equal(t, "List library games", cmd.Short)
}

func TestListCmd_EmptyDatabase(t *testing.T) {
	cfg := newTestConfig(t)

	out, _, err := execute(t, cfg, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "The library is empty")

	out, _, err = execute(t, cfg, "list", "--json")
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(out))
}

func TestListCmd_WithGames(t *testing.T) {
	cfg := newTestConfig(t)
	seedGame(t, cfg, core.DetectedGame{Title: "Summer Pockets", ExePath: "/games/sp/SiglusEngine.exe", InstallPath: "/games/sp", Engine: "SiglusEngine"})
	seedGame(t, cfg, core.DetectedGame{Title: "Clannad", ExePath: "/games/cl/RealLive.exe", InstallPath: "/games/cl", Engine: "RealLive"})

	out, _, err := execute(t, cfg, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 2 games")
	assert.Less(t, strings.Index(out, "Clannad"), strings.Index(out, "Summer Pockets"))

	out, _, err = execute(t, cfg, "list", "--details")
	require.NoError(t, err)
	assert.Contains(t, out, "/games/sp")
}

func TestListCmd_FilterAndSort(t *testing.T) {
	cfg := newTestConfig(t)
	seedGame(t, cfg, core.DetectedGame{Title: "Summer Pockets", ExePath: "/games/sp/sp.exe", InstallPath: "/games/sp"})
	clannad := seedGame(t, cfg, core.DetectedGame{Title: "Clannad", ExePath: "/games/cl/cl.exe", InstallPath: "/games/cl"})

	database := openTestDB(t, cfg)
	start := time.Now().Add(-time.Hour)
	require.NoError(t, database.RecordSession(context.Background(), core.PlaySession{
		SessionID: uuid.NewString(),
		GameID:    clannad.GameID,
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
		Duration:  30 * time.Minute,
	}))

	out, _, err := execute(t, cfg, "list", "--json", "--sort", "playtime")
	require.NoError(t, err)
	var games []db.Game
	require.NoError(t, json.Unmarshal([]byte(out), &games))
	require.Len(t, games, 2)
	assert.Equal(t, "Clannad", games[0].Title)
	assert.Equal(t, 30*time.Minute, games[0].Playtime)

	out, _, err = execute(t, cfg, "list", "--json", "--name", "smr pkt")
	require.NoError(t, err)
	games = nil
	require.NoError(t, json.Unmarshal([]byte(out), &games))
	require.Len(t, games, 1)
	assert.Equal(t, "Summer Pockets", games[0].Title)

	out, _, err = execute(t, cfg, "list", "--name", "zzz")
	require.NoError(t, err)
	assert.Contains(t, out, "No games found")
}

func TestListCmd_CSV(t *testing.T) {
	cfg := newTestConfig(t)
	seedGame(t, cfg, core.DetectedGame{Title: "Clannad", ExePath: "/games/cl/cl.exe", InstallPath: "/games/cl", Engine: "RealLive"})

	out, _, err := execute(t, cfg, "list", "-o", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "game_id,title,engine,playtime_secs,last_played,added_at,install_path,exe_path", lines[0])
	assert.Contains(t, lines[1], ",Clannad,RealLive,0,,")
}

func TestListCmd_UnknownSort(t *testing.T) {
	cfg := newTestConfig(t)

	_, _, err := execute(t, cfg, "list", "--sort", "size")
	require.Error(t, err)
	assert.Equal(t, core.ExitInvalidArgs, ExitCode(err))
}

package library

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quantmind-br/gamescan/internal/core"
	"github.com/quantmind-br/gamescan/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore fails the nth upsert
type failingStore struct {
	*db.DB
	failAt int
	calls  int
}

func (s *failingStore) UpsertGame(ctx context.Context, detected core.DetectedGame) (*db.Game, bool, error) {
	s.calls++
	if s.calls == s.failAt {
		return nil, false, errors.New("disk full")
	}
	return s.DB.UpsertGame(ctx, detected)
}

func newStore(t *testing.T) *db.DB {
	t.Helper()
	store, err := db.New(context.Background(), t.TempDir()+"/library.db")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func detection(title, dir, exe string) core.DetectedGame {
	return core.DetectedGame{Title: title, InstallPath: dir, ExePath: dir + "/" + exe}
}

func TestSaveAll(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	saved, err := SaveAll(ctx, store, []core.DetectedGame{
		detection("A", "/games/A", "a.exe"),
		detection("B", "/games/B", "b.exe"),
	}, nil)
	require.NoError(t, err)
	require.Len(t, saved, 2)

	games, err := store.ListGames(ctx)
	require.NoError(t, err)
	assert.Len(t, games, 2)
}

func TestSaveAllRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	existing, _, err := store.UpsertGame(ctx, detection("A", "/games/A", "a.exe"))
	require.NoError(t, err)

	failing := &failingStore{DB: store, failAt: 3}
	_, err = SaveAll(ctx, failing, []core.DetectedGame{
		detection("A", "/games/A", "a_new.exe"),
		detection("B", "/games/B", "b.exe"),
		detection("C", "/games/C", "c.exe"),
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	games, err := store.ListGames(ctx)
	require.NoError(t, err)
	require.Len(t, games, 1, "inserted entries are removed")
	assert.Equal(t, existing.GameID, games[0].GameID)
	assert.Equal(t, "/games/A/a.exe", games[0].ExePath, "updated entries are restored")
}

func TestFilterGames(t *testing.T) {
	games := []db.Game{{Title: "Summer Pockets"}, {Title: "Rewrite"}, {Title: "Little Busters!"}}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query keeps all", "", []string{"Summer Pockets", "Rewrite", "Little Busters!"}},
		{"fuzzy subsequence", "smpk", []string{"Summer Pockets"}},
		{"case folded", "REWRITE", []string{"Rewrite"}},
		{"no match", "clannad", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := []string{}
			for _, g := range FilterGames(games, tt.query) {
				got = append(got, g.Title)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortGames(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newGames := func() []db.Game {
		return []db.Game{
			{Title: "beta", AddedAt: base, Playtime: time.Hour},
			{Title: "Alpha", AddedAt: base.Add(2 * time.Hour), Playtime: time.Minute},
			{Title: "gamma", AddedAt: base.Add(time.Hour), Playtime: 3 * time.Hour},
		}
	}
	titles := func(games []db.Game) []string {
		out := make([]string, len(games))
		for i, g := range games {
			out[i] = g.Title
		}
		return out
	}

	tests := []struct {
		by   string
		want []string
	}{
		{SortByTitle, []string{"Alpha", "beta", "gamma"}},
		{SortByPlaytime, []string{"gamma", "beta", "Alpha"}},
		{SortByAdded, []string{"Alpha", "gamma", "beta"}},
		{"", []string{"Alpha", "gamma", "beta"}},
	}

	for _, tt := range tests {
		t.Run("by "+tt.by, func(t *testing.T) {
			games := newGames()
			require.NoError(t, SortGames(games, tt.by))
			assert.Equal(t, tt.want, titles(games))
		})
	}

	assert.Error(t, SortGames(newGames(), "size"))
}

func TestSuggest(t *testing.T) {
	games := []db.Game{{Title: "Summer Pockets"}, {Title: "Rewrite"}, {Title: "Planetarian"}}

	assert.Equal(t, "Summer Pockets", Suggest("sumer pockets", games))
	assert.Equal(t, "Rewrite", Suggest("rewrit", games))
	assert.Equal(t, "", Suggest("zzzzzz", games))
	assert.Equal(t, "", Suggest("", games))
	assert.Equal(t, "", Suggest("rewrite", nil))
}

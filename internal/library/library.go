// Package library holds the operations shared by the commands that read
// and write the game library.
package library

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/quantmind-br/gamescan/internal/core"
	"github.com/quantmind-br/gamescan/internal/db"
	"github.com/quantmind-br/gamescan/internal/transaction"
	"github.com/rs/zerolog"
)

// Sort keys accepted by SortGames
const (
	SortByTitle    = "title"
	SortByPlaytime = "playtime"
	SortByAdded    = "added"
)

// SuggestionThreshold is the minimum Jaro-Winkler similarity for a suggestion
const SuggestionThreshold = 0.75

// Store is the part of the database the save path needs
type Store interface {
	UpsertGame(ctx context.Context, detected core.DetectedGame) (*db.Game, bool, error)
	GetGameByInstallPath(ctx context.Context, installPath string) (*db.Game, error)
	RestoreGame(ctx context.Context, snapshot *db.Game) error
	DeleteGame(ctx context.Context, gameID string) error
}

// SaveAll upserts every detection. When one fails, the entries already
// written by this call are removed or restored.
func SaveAll(ctx context.Context, store Store, detected []core.DetectedGame, logger *zerolog.Logger) ([]*db.Game, error) {
	saved := make([]*db.Game, 0, len(detected))

	err := transaction.NewManager(logger).Run(ctx, func(tx *transaction.Manager) error {
		for _, game := range detected {
			previous, err := store.GetGameByInstallPath(ctx, game.InstallPath)
			if err != nil && !errors.Is(err, db.ErrGameNotFound) {
				return err
			}

			entry, created, err := store.UpsertGame(ctx, game)
			if err != nil {
				return fmt.Errorf("save %q: %w", game.Title, err)
			}

			if created {
				id := entry.GameID
				tx.Add("insert "+game.Title, func(ctx context.Context) error {
					return store.DeleteGame(ctx, id)
				})
			} else if previous != nil {
				snapshot := *previous
				tx.Add("update "+game.Title, func(ctx context.Context) error {
					return store.RestoreGame(ctx, &snapshot)
				})
			}
			saved = append(saved, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// FilterGames keeps the games whose title fuzzily contains query
func FilterGames(games []db.Game, query string) []db.Game {
	query = strings.TrimSpace(query)
	if query == "" {
		return games
	}
	out := make([]db.Game, 0, len(games))
	for _, g := range games {
		if fuzzy.MatchNormalizedFold(query, g.Title) {
			out = append(out, g)
		}
	}
	return out
}

// SortGames orders games in place. Unknown keys leave the order unchanged.
func SortGames(games []db.Game, by string) error {
	switch by {
	case "", SortByAdded:
		sort.SliceStable(games, func(i, j int) bool { return games[i].AddedAt.After(games[j].AddedAt) })
	case SortByTitle:
		sort.SliceStable(games, func(i, j int) bool {
			return strings.ToLower(games[i].Title) < strings.ToLower(games[j].Title)
		})
	case SortByPlaytime:
		sort.SliceStable(games, func(i, j int) bool { return games[i].Playtime > games[j].Playtime })
	default:
		return fmt.Errorf("unknown sort key %q (want %s, %s or %s)", by, SortByTitle, SortByPlaytime, SortByAdded)
	}
	return nil
}

// Suggest returns the library title closest to query, or "" when nothing
// is similar enough
func Suggest(query string, games []db.Game) string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return ""
	}

	best, bestScore := "", float32(0)
	for _, g := range games {
		score := edlib.JaroWinklerSimilarity(query, strings.ToLower(g.Title))
		if score > bestScore {
			best, bestScore = g.Title, score
		}
	}
	if bestScore < SuggestionThreshold {
		return ""
	}
	return best
}

package detect

import (
	"sync"

	"github.com/quantmind-br/gamescan/internal/core"
	"github.com/quantmind-br/gamescan/internal/security"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ProgressFunc is called after each folder has been inspected
type ProgressFunc func(done, total int)

// Scanner applies a Detector to many folders. Every folder maps to at most
// one game and one bad folder never stops the others.
type Scanner struct {
	detector   *Detector
	workers    int
	logger     *zerolog.Logger
	onProgress ProgressFunc
	progressMu sync.Mutex
}

// NewScanner creates a Scanner running up to workers detections at once.
// workers below 1 means sequential scanning.
func NewScanner(detector *Detector, workers int, logger *zerolog.Logger) *Scanner {
	if workers < 1 {
		workers = 1
	}
	return &Scanner{
		detector: detector,
		workers:  workers,
		logger:   logger,
	}
}

// OnProgress registers a callback invoked once per inspected folder.
// Calls are serialized.
func (s *Scanner) OnProgress(fn ProgressFunc) {
	s.onProgress = fn
}

// Scan detects a game in each folder. Results keep the order of folders;
// folders that are missing, invalid, or hold no game are left out.
func (s *Scanner) Scan(folders []string) []core.DetectedGame {
	slots := make([]*core.DetectedGame, len(folders))
	done := 0

	var g errgroup.Group
	g.SetLimit(s.workers)

	for i, folder := range folders {
		g.Go(func() error {
			slots[i] = s.scanOne(folder)

			s.progressMu.Lock()
			done++
			if s.onProgress != nil {
				s.onProgress(done, len(folders))
			}
			s.progressMu.Unlock()
			return nil
		})
	}

	// scanOne never fails
	_ = g.Wait()

	games := make([]core.DetectedGame, 0, len(folders))
	for _, slot := range slots {
		if slot != nil {
			games = append(games, *slot)
		}
	}

	if s.logger != nil {
		s.logger.Info().
			Int("folders", len(folders)).
			Int("games", len(games)).
			Msg("scan completed")
	}

	return games
}

func (s *Scanner) scanOne(folder string) *core.DetectedGame {
	if err := security.ValidatePath(folder); err != nil || folder == "" {
		if s.logger != nil {
			s.logger.Warn().Err(err).Str("folder", folder).Msg("skipping invalid folder path")
		}
		return nil
	}

	game, ok := s.detector.Detect(folder)
	if !ok {
		if s.logger != nil {
			s.logger.Debug().Str("folder", folder).Msg("no game detected")
		}
		return nil
	}
	return &game
}

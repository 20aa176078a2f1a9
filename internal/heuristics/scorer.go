package heuristics

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Score tiers. Each bonus exceeds the largest possible sum of every
// bonus ranked below it, so a higher tier can never be outvoted.
const (
	BlacklistScore     = -1_000_000
	PrimaryLocaleBonus = 100_000
	LocaleBonus        = 50_000
	NameAffinityBonus  = 10_000
	MaxSizeBonus       = 9_999
)

// blacklist holds substrings that mark installers, uninstallers, launchers
// and redistributables. Matched against the lowercased stem.
var blacklist = []string{
	"unins000", "uninstall", "setup", "install", "config",
	"setting", "updater", "launcher", "crash", "vc_redist",
	"dxsetup", "dxwebsetup", "dotnetfx",
}

var localeMarkers = []string{"_cn", "chinese", "/zh/", `\zh\`}

// DefaultScorer implements the Scorer interface with standard heuristics
type DefaultScorer struct {
	Fs     afero.Fs
	Logger *zerolog.Logger
}

// NewScorer creates a new DefaultScorer. A nil fs reads the host filesystem.
func NewScorer(fs afero.Fs, logger *zerolog.Logger) *DefaultScorer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &DefaultScorer{
		Fs:     fs,
		Logger: logger,
	}
}

// Rank scores every candidate, keeping discovery order
func (s *DefaultScorer) Rank(executables []string, folderName string) []ExecutableScore {
	candidates := make([]ExecutableScore, 0, len(executables))

	for _, exe := range executables {
		score := s.ScoreExecutable(exe, folderName)
		candidates = append(candidates, ExecutableScore{Path: exe, Score: score})

		if s.Logger != nil {
			s.Logger.Debug().
				Str("executable", exe).
				Int("score", score).
				Msg("scored executable candidate")
		}
	}

	return candidates
}

// ChooseBest selects the best executable from a list of candidates.
// Ties go to the candidate discovered first.
func (s *DefaultScorer) ChooseBest(executables []string, folderName string) string {
	if len(executables) == 0 {
		return ""
	}
	if len(executables) == 1 {
		return executables[0]
	}

	ranked := s.Rank(executables, folderName)
	best := ranked[0]
	for _, c := range ranked[1:] {
		if c.Score > best.Score {
			best = c
		}
	}

	return best.Path
}

// ScoreExecutable assigns a score to an executable. folderName is the base
// name of the folder being detected and drives the name-affinity bonus.
func (s *DefaultScorer) ScoreExecutable(execPath, folderName string) int {
	name := stem(execPath)

	if IsBlacklisted(name) {
		return BlacklistScore
	}

	score := 0
	fullLower := strings.ToLower(execPath)

	if strings.Contains(fullLower, "chs") {
		score += PrimaryLocaleBonus
	}

	for _, marker := range localeMarkers {
		if strings.Contains(fullLower, marker) {
			score += LocaleBonus
			break
		}
	}

	normalizedFolder := strings.ToLower(folderName)
	if normalizedFolder != "" && strings.Contains(name, normalizedFolder) {
		score += NameAffinityBonus
	}

	score += s.sizeBonus(execPath)

	return score
}

// sizeBonus is the file size in KiB, capped at MaxSizeBonus.
// Unreadable metadata counts as an empty file.
func (s *DefaultScorer) sizeBonus(execPath string) int {
	info, err := s.Fs.Stat(execPath)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Debug().
				Err(err).
				Str("executable", execPath).
				Msg("cannot stat executable, assuming size 0")
		}
		return 0
	}

	kib := info.Size() / 1024
	if kib > MaxSizeBonus {
		return MaxSizeBonus
	}
	if kib < 0 {
		return 0
	}
	return int(kib)
}

// IsBlacklisted reports whether an executable stem contains any
// installer/utility marker, ignoring case
func IsBlacklisted(stem string) bool {
	stem = strings.ToLower(stem)
	for _, pattern := range blacklist {
		if strings.Contains(stem, pattern) {
			return true
		}
	}
	return false
}

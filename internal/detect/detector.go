// Package detect decides whether a folder holds a playable game and which
// executable inside it launches that game.
package detect

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/gamescan/internal/core"
	"github.com/quantmind-br/gamescan/internal/engines"
	"github.com/quantmind-br/gamescan/internal/heuristics"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// MaxDepth is how far below the candidate folder the walk descends.
// Depth 2 catches layouts such as <root>/chs/game.exe and <root>/bin/game.exe.
const MaxDepth = 2

// Detector inspects a single folder
type Detector struct {
	fs     afero.Fs
	scorer heuristics.Scorer
	logger *zerolog.Logger
}

// NewDetector creates a Detector. A nil fs reads the host filesystem and a
// nil scorer uses the default heuristics on that filesystem.
func NewDetector(fs afero.Fs, scorer heuristics.Scorer, logger *zerolog.Logger) *Detector {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if scorer == nil {
		scorer = heuristics.NewScorer(fs, logger)
	}
	return &Detector{
		fs:     fs,
		scorer: scorer,
		logger: logger,
	}
}

// walkResult holds what a bounded walk found
type walkResult struct {
	executables []string
	engine      string
}

// Detect inspects folder and reports the game it contains. The second
// return value is false when folder is missing, is not a directory, or
// holds no executable within MaxDepth.
func (d *Detector) Detect(folder string) (core.DetectedGame, bool) {
	info, err := d.fs.Stat(folder)
	if err != nil || !info.IsDir() {
		d.debug().Str("folder", folder).Msg("not a directory, skipping")
		return core.DetectedGame{}, false
	}

	found := d.walk(folder)
	if len(found.executables) == 0 {
		d.debug().Str("folder", folder).Msg("no executables found")
		return core.DetectedGame{}, false
	}

	title := FolderTitle(folder)

	best := d.scorer.ChooseBest(found.executables, title)
	if best == "" {
		best = found.executables[0]
	}

	game := core.DetectedGame{
		Title:       title,
		ExePath:     best,
		InstallPath: folder,
		Engine:      found.engine,
	}

	d.debug().
		Str("folder", folder).
		Str("executable", game.ExePath).
		Str("engine", game.Engine).
		Int("candidates", len(found.executables)).
		Msg("detected game")

	return game, true
}

// Candidates returns the executables the walk discovers under folder, in
// discovery order, together with the engine recorded during the walk.
func (d *Detector) Candidates(folder string) ([]string, string) {
	found := d.walk(folder)
	return found.executables, found.engine
}

// walk visits folder down to MaxDepth. Every visited name is checked
// against the engine table; the last match wins. afero.Walk reads
// directories in lexical order so the outcome is stable across platforms.
// Unreadable entries are skipped.
func (d *Detector) walk(folder string) walkResult {
	var result walkResult

	// afero.Walk does not descend into a symlinked root, so walk its target
	// and report paths under the name the caller gave us
	walkRoot := d.resolveRoot(folder)
	rootName := filepath.Base(filepath.Clean(folder))

	_ = afero.Walk(d.fs, walkRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil {
			d.debug().Err(err).Str("path", path).Msg("skipping unreadable entry")
			return nil
		}

		name := info.Name()
		if path == walkRoot {
			name = rootName
		}

		if engine, ok := engines.Match(name); ok {
			result.engine = engine
		}

		if info.IsDir() {
			if depth(walkRoot, path) >= MaxDepth {
				return filepath.SkipDir
			}
			return nil
		}

		if path != walkRoot && heuristics.IsExecutableName(name) {
			result.executables = append(result.executables, reportedPath(folder, walkRoot, path))
		}

		return nil
	})

	return result
}

// resolveRoot returns the target of folder when it is a symlink
func (d *Detector) resolveRoot(folder string) string {
	lstater, ok := d.fs.(afero.Lstater)
	if !ok {
		return folder
	}
	info, lstatCalled, err := lstater.LstatIfPossible(folder)
	if err != nil || !lstatCalled || info.Mode()&os.ModeSymlink == 0 {
		return folder
	}
	target, err := filepath.EvalSymlinks(folder)
	if err != nil {
		return folder
	}
	return target
}

// reportedPath maps a path found under walkRoot back under folder
func reportedPath(folder, walkRoot, path string) string {
	if walkRoot == folder {
		return path
	}
	rel, err := filepath.Rel(walkRoot, path)
	if err != nil {
		return path
	}
	return filepath.Join(folder, rel)
}

// depth counts path components between root and path
func depth(root, path string) int {
	rel, err := filepath.Rel(root, filepath.Clean(path))
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// FolderTitle returns the final path component of folder, or "" when the
// path has none (a filesystem root, "." or "..").
func FolderTitle(folder string) string {
	cleaned := filepath.Clean(folder)
	base := filepath.Base(cleaned)
	switch {
	case base == "." || base == "..":
		return ""
	case strings.Trim(base, `/\`) == "":
		return ""
	case filepath.VolumeName(cleaned) == cleaned:
		return ""
	}
	return base
}

func (d *Detector) debug() *zerolog.Event {
	if d.logger == nil {
		return nil
	}
	return d.logger.Debug()
}

package heuristics

import (
	"testing"

	"github.com/spf13/afero"
	"pgregory.net/rapid"
)

// TestPropertyChsOutranksLargerCandidate verifies the capped size bonus can
// never overcome the primary locale bonus.
func TestPropertyChsOutranksLargerCandidate(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		size := rapid.Int64Range(0, 8*1024*1024).Draw(t, "size")
		extra := rapid.Int64Range(0, 100_000*1024).Draw(t, "extra")

		chs := "/games/VN/chs/game.exe"
		plain := "/games/VN/data/game.exe"
		scorer := NewScorer(sizedFs{
			Fs:    afero.NewMemMapFs(),
			sizes: map[string]int64{chs: size, plain: size + extra},
		}, nil)

		if best := scorer.ChooseBest([]string{plain, chs}, "VN"); best != chs {
			t.Fatalf("expected chs candidate, got %s (size=%d extra=%d)", best, size, extra)
		}
	})
}

// TestPropertyBlacklistedNeverChosen verifies that any non-blacklisted
// candidate beats a blacklisted one regardless of size.
func TestPropertyBlacklistedNeverChosen(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		marker := rapid.SampledFrom(blacklist).Draw(t, "marker")
		prefix := rapid.StringMatching(`[a-z]{0,6}`).Draw(t, "prefix")
		badSize := rapid.Int64Range(0, 1<<34).Draw(t, "badSize")

		bad := "/games/chs/VN/" + prefix + marker + ".exe"
		good := "/games/other/VN/main.exe"
		scorer := NewScorer(sizedFs{
			Fs:    afero.NewMemMapFs(),
			sizes: map[string]int64{bad: badSize, good: 0},
		}, nil)

		if best := scorer.ChooseBest([]string{bad, good}, prefix+marker); best != good {
			t.Fatalf("blacklisted %s chosen over %s", bad, good)
		}
	})
}

// TestPropertyScoreDeterministic verifies repeated scoring is stable.
func TestPropertyScoreDeterministic(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		path := "/" + rapid.StringMatching(`[a-zA-Z0-9_/]{1,40}`).Draw(t, "path") + ".exe"
		folder := rapid.StringMatching(`[a-zA-Z0-9]{0,10}`).Draw(t, "folder")
		size := rapid.Int64Range(0, 1<<30).Draw(t, "size")

		scorer := NewScorer(sizedFs{Fs: afero.NewMemMapFs(), sizes: map[string]int64{path: size}}, nil)

		first := scorer.ScoreExecutable(path, folder)
		second := scorer.ScoreExecutable(path, folder)
		if first != second {
			t.Fatalf("non-deterministic score for %q: %d vs %d", path, first, second)
		}
		if first != BlacklistScore && (first < 0 || first > PrimaryLocaleBonus+LocaleBonus+NameAffinityBonus+MaxSizeBonus) {
			t.Fatalf("score %d out of range for %q", first, path)
		}
	})
}

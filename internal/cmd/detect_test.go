package cmd

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/quantmind-br/gamescan/internal/core"
	"github.com/quantmind-br/gamescan/internal/heuristics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectCmd_ShowsCandidates(t *testing.T) {
	cfg := newTestConfig(t)
	root := makeLibrary(t)

	out, _, err := execute(t, cfg, "detect", filepath.Join(root, "Summer"))
	require.NoError(t, err)

	assert.Contains(t, out, "Summer.exe")
	assert.Contains(t, out, "unins000.exe")
	assert.Contains(t, out, "-1000000")
	assert.Contains(t, out, "KiriKiri")
}

func TestDetectCmd_JSONReport(t *testing.T) {
	cfg := newTestConfig(t)
	root := makeLibrary(t)
	folder := filepath.Join(root, "Summer")

	out, _, err := execute(t, cfg, "detect", "--json", folder)
	require.NoError(t, err)

	var report detectReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "Summer", report.Game.Title)
	assert.Equal(t, filepath.Join(folder, "Summer.exe"), report.Game.ExePath)
	require.Len(t, report.Candidates, 2)

	scores := map[string]int{}
	for _, c := range report.Candidates {
		scores[filepath.Base(c.Path)] = c.Score
	}
	assert.Equal(t, heuristics.BlacklistScore, scores["unins000.exe"])
	assert.Equal(t, heuristics.NameAffinityBonus+4, scores["Summer.exe"])
}

func TestDetectCmd_NothingDetected(t *testing.T) {
	cfg := newTestConfig(t)
	root := makeLibrary(t)

	_, stderr, err := execute(t, cfg, "detect", filepath.Join(root, "Empty"))
	require.Error(t, err)
	assert.Equal(t, core.ExitNotDetected, ExitCode(err))
	assert.Contains(t, stderr, "no game detected")

	_, _, err = execute(t, cfg, "detect", filepath.Join(root, "missing"))
	assert.Equal(t, core.ExitNotDetected, ExitCode(err))
}

func TestDetectCmd_RequiresFolder(t *testing.T) {
	cfg := newTestConfig(t)

	_, _, err := execute(t, cfg, "detect")
	assert.Error(t, err)
}

func TestDetectCmd_RelativeFolderReportedAbsolute(t *testing.T) {
	cfg := newTestConfig(t)
	root := makeLibrary(t)
	folder := filepath.Join(root, "Summer")
	t.Chdir(folder)

	out, _, err := execute(t, cfg, "detect", "-o", "json", ".")
	require.NoError(t, err)

	var report detectReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "Summer", report.Game.Title)
	assert.Equal(t, folder, report.Game.InstallPath)
	assert.Equal(t, filepath.Join(folder, "Summer.exe"), report.Game.ExePath)
}

package detect

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/quantmind-br/gamescan/internal/core"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemDetector(t *testing.T, files map[string]int) (*Detector, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	for path, size := range files {
		require.NoError(t, afero.WriteFile(fs, path, bytes.Repeat([]byte{0}, size), 0o644))
	}
	logger := zerolog.New(io.Discard)
	return NewDetector(fs, nil, &logger), fs
}

func TestDetect_MainExecutableWithEngine(t *testing.T) {
	t.Parallel()

	d, _ := newMemDetector(t, map[string]int{
		"/games/MyGame/MyGame.exe":   2 * 1024 * 1024,
		"/games/MyGame/unins000.exe": 500 * 1024,
		"/games/MyGame/data.xp3":     64,
	})

	game, ok := d.Detect("/games/MyGame")
	require.True(t, ok)
	assert.Equal(t, core.DetectedGame{
		Title:       "MyGame",
		ExePath:     "/games/MyGame/MyGame.exe",
		InstallPath: "/games/MyGame",
		Engine:      "KiriKiri",
	}, game)
}

func TestDetect_PrefersChsBuild(t *testing.T) {
	t.Parallel()

	d, _ := newMemDetector(t, map[string]int{
		"/games/VN2/chs/game.exe": 1024 * 1024,
		"/games/VN2/game.exe":     1024 * 1024,
	})

	game, ok := d.Detect("/games/VN2")
	require.True(t, ok)
	assert.Equal(t, "/games/VN2/chs/game.exe", game.ExePath)
	assert.Empty(t, game.Engine)
	assert.False(t, game.HasEngine())
}

func TestDetect_EmptyFolder(t *testing.T) {
	t.Parallel()

	d, fs := newMemDetector(t, nil)
	require.NoError(t, fs.MkdirAll("/games/Empty", 0o755))

	_, ok := d.Detect("/games/Empty")
	assert.False(t, ok)
}

func TestDetect_NoExecutables(t *testing.T) {
	t.Parallel()

	d, _ := newMemDetector(t, map[string]int{
		"/games/Art/readme.txt":     10,
		"/games/Art/data.xp3":       10,
		"/games/Art/bin/game.dll":   10,
		"/games/Art/bin/exe/notexe": 10,
		"/games/Art/bin/.exe":       10,
	})

	_, ok := d.Detect("/games/Art")
	assert.False(t, ok)
}

func TestDetect_MissingOrNotDirectory(t *testing.T) {
	t.Parallel()

	d, _ := newMemDetector(t, map[string]int{
		"/games/file.exe": 10,
	})

	_, ok := d.Detect("/games/nonexistent")
	assert.False(t, ok)

	_, ok = d.Detect("/games/file.exe")
	assert.False(t, ok, "a file is not a game folder")
}

func TestDetect_SingleExecutableAlwaysChosen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		size int
	}{
		{"tiny unrelated name", "/games/Title/x.exe", 0},
		{"nested", "/games/Title/bin/run.exe", 10},
		{"upper case ext", "/games/Title/START.EXE", 100 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d, _ := newMemDetector(t, map[string]int{tt.path: tt.size})

			game, ok := d.Detect("/games/Title")
			require.True(t, ok)
			assert.Equal(t, tt.path, game.ExePath)
			assert.Equal(t, "Title", game.Title)
		})
	}
}

func TestDetect_BlacklistedLosesRegardlessOfSize(t *testing.T) {
	t.Parallel()

	d, _ := newMemDetector(t, map[string]int{
		"/games/VN/setup.exe": 4 * 1024 * 1024,
		"/games/VN/play.exe":  0,
	})

	game, ok := d.Detect("/games/VN")
	require.True(t, ok)
	assert.Equal(t, "/games/VN/play.exe", game.ExePath)
}

func TestDetect_OnlyBlacklistedStillDetects(t *testing.T) {
	t.Parallel()

	d, _ := newMemDetector(t, map[string]int{
		"/games/VN/setup.exe":     10,
		"/games/VN/uninstall.exe": 10,
	})

	game, ok := d.Detect("/games/VN")
	require.True(t, ok)
	assert.Equal(t, "/games/VN/setup.exe", game.ExePath, "ties go to the first discovered candidate")
}

func TestDetect_EngineMarkerInOtherSubdirectory(t *testing.T) {
	t.Parallel()

	d, _ := newMemDetector(t, map[string]int{
		"/games/Sakura/bin/Sakura.exe":  100,
		"/games/Sakura/assets/data.xp3": 100,
	})

	game, ok := d.Detect("/games/Sakura")
	require.True(t, ok)
	assert.Equal(t, "/games/Sakura/bin/Sakura.exe", game.ExePath)
	assert.Equal(t, "KiriKiri", game.Engine)
}

func TestDetect_LastEngineMatchWins(t *testing.T) {
	t.Parallel()

	d, _ := newMemDetector(t, map[string]int{
		"/games/VN/a/data.xp3": 1,
		"/games/VN/b/arc.nsa":  1,
		"/games/VN/game.exe":   1,
	})

	game, ok := d.Detect("/games/VN")
	require.True(t, ok)
	assert.Equal(t, "NScripter", game.Engine)
}

func TestDetect_EngineMatchIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	d, _ := newMemDetector(t, map[string]int{
		"/games/U/UNITYPLAYER.DLL": 1,
		"/games/U/U.exe":           1,
	})

	game, ok := d.Detect("/games/U")
	require.True(t, ok)
	assert.Equal(t, "Unity", game.Engine)
}

func TestDetect_DepthBound(t *testing.T) {
	t.Parallel()

	t.Run("executable three levels down is ignored", func(t *testing.T) {
		t.Parallel()
		d, _ := newMemDetector(t, map[string]int{
			"/games/Deep/a/b/game.exe": 1,
		})
		_, ok := d.Detect("/games/Deep")
		assert.False(t, ok)
	})

	t.Run("executable two levels down is found", func(t *testing.T) {
		t.Parallel()
		d, _ := newMemDetector(t, map[string]int{
			"/games/Deep/a/game.exe": 1,
		})
		game, ok := d.Detect("/games/Deep")
		require.True(t, ok)
		assert.Equal(t, "/games/Deep/a/game.exe", game.ExePath)
	})

	t.Run("marker three levels down is ignored", func(t *testing.T) {
		t.Parallel()
		d, _ := newMemDetector(t, map[string]int{
			"/games/Deep/game.exe":     1,
			"/games/Deep/a/b/data.xp3": 1,
		})
		game, ok := d.Detect("/games/Deep")
		require.True(t, ok)
		assert.Empty(t, game.Engine)
	})

	t.Run("directory at the bound is matched by name", func(t *testing.T) {
		t.Parallel()
		d, fs := newMemDetector(t, map[string]int{
			"/games/Deep/game.exe": 1,
		})
		require.NoError(t, fs.MkdirAll("/games/Deep/a/start.meg/inner", 0o755))
		game, ok := d.Detect("/games/Deep")
		require.True(t, ok)
		assert.Equal(t, "Artemis", game.Engine)
	})
}

func TestDetect_DirectoryNamedExeIsNotCandidate(t *testing.T) {
	t.Parallel()

	d, fs := newMemDetector(t, nil)
	require.NoError(t, fs.MkdirAll("/games/Odd/tools.exe", 0o755))

	_, ok := d.Detect("/games/Odd")
	assert.False(t, ok)
}

func TestDetect_InstallPathVerbatim(t *testing.T) {
	t.Parallel()

	d, _ := newMemDetector(t, map[string]int{
		"/games/MyGame/MyGame.exe": 1,
	})

	game, ok := d.Detect("/games/MyGame/")
	require.True(t, ok)
	assert.Equal(t, "/games/MyGame/", game.InstallPath)
	assert.Equal(t, "MyGame", game.Title)
	assert.Equal(t, "/games/MyGame/MyGame.exe", game.ExePath)
}

func TestDetect_OsFilesystem(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "MyGame")
	writeFile(t, filepath.Join(root, "MyGame.exe"), 2*1024*1024)
	writeFile(t, filepath.Join(root, "unins000.exe"), 500*1024)
	writeFile(t, filepath.Join(root, "data.xp3"), 10)

	d := NewDetector(nil, nil, nil)
	game, ok := d.Detect(root)
	require.True(t, ok)
	assert.Equal(t, "MyGame", game.Title)
	assert.Equal(t, filepath.Join(root, "MyGame.exe"), game.ExePath)
	assert.Equal(t, root, game.InstallPath)
	assert.Equal(t, "KiriKiri", game.Engine)
}

func TestDetect_SymlinkedRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	t.Parallel()

	base := t.TempDir()
	target := filepath.Join(base, "real")
	writeFile(t, filepath.Join(target, "Linked.exe"), 10)
	link := filepath.Join(base, "Linked")
	require.NoError(t, os.Symlink(target, link))

	d := NewDetector(afero.NewOsFs(), nil, nil)
	game, ok := d.Detect(link)
	require.True(t, ok)
	assert.Equal(t, "Linked", game.Title)
	assert.Equal(t, filepath.Join(link, "Linked.exe"), game.ExePath)
	assert.Equal(t, link, game.InstallPath)
}

func TestDetect_BrokenSymlinkSkipped(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	t.Parallel()

	root := filepath.Join(t.TempDir(), "Broken")
	writeFile(t, filepath.Join(root, "game.exe"), 2048)
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "dangling")))

	game, ok := NewDetector(nil, nil, nil).Detect(root)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "game.exe"), game.ExePath)
}

func TestDetect_UnreadableSubdirectorySkipped(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	t.Parallel()

	root := filepath.Join(t.TempDir(), "Locked")
	writeFile(t, filepath.Join(root, "game.exe"), 2048)
	locked := filepath.Join(root, "private")
	writeFile(t, filepath.Join(locked, "hidden.exe"), 4096)
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	game, ok := NewDetector(nil, nil, nil).Detect(root)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "game.exe"), game.ExePath)
}

func TestCandidates(t *testing.T) {
	t.Parallel()

	d, _ := newMemDetector(t, map[string]int{
		"/games/VN/chs/game.exe": 1,
		"/games/VN/game.exe":     1,
		"/games/VN/arc.nsa":      1,
		"/games/VN/notes.txt":    1,
	})

	exes, engine := d.Candidates("/games/VN")
	assert.Equal(t, []string{"/games/VN/chs/game.exe", "/games/VN/game.exe"}, exes)
	assert.Equal(t, "NScripter", engine)
}

func TestFolderTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"/games/MyGame", "MyGame"},
		{"/games/MyGame/", "MyGame"},
		{"relative/VN2", "VN2"},
		{"VN2", "VN2"},
		{"/games/foo/.", "foo"},
		{"/", ""},
		{".", ""},
		{"..", ""},
		{"a/..", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FolderTitle(tt.in), tt.in)
	}
}

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{0}, size), 0o644))
}

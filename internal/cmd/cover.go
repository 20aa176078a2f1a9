package cmd

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/quantmind-br/gamescan/internal/config"
	"github.com/quantmind-br/gamescan/internal/core"
	"github.com/quantmind-br/gamescan/internal/db"
	"github.com/quantmind-br/gamescan/internal/fsops"
	"github.com/quantmind-br/gamescan/internal/helpers"
	"github.com/quantmind-br/gamescan/internal/logging"
	"github.com/quantmind-br/gamescan/internal/media"
	"github.com/quantmind-br/gamescan/internal/paths"
	"github.com/quantmind-br/gamescan/internal/security"
	"github.com/quantmind-br/gamescan/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const defaultImageExt = ".jpg"

// NewCoverCmd creates the cover command
func NewCoverCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var screenshot bool

	cmd := &cobra.Command{
		Use:   "cover <game-id or title> <url or file>",
		Short: "Set the cover image of a game",
		Long: `Download an image from an http(s) URL or copy a local file into the data
directory as the game's cover. With --screenshot the image is stored as a
screenshot instead; screenshots that already exist are kept.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			game, err := findGame(cmd.Context(), database, args[0])
			if err != nil {
				return err
			}

			fs := afero.NewOsFs()
			resolver := paths.NewResolver(cfg)
			source := args[1]

			kind := paths.KindCovers
			if screenshot {
				kind = paths.KindScreenshots
			}

			var dest string
			if isRemote(source) {
				dest, err = downloadImage(cmd, cfg, fs, resolver, game, kind, source, log)
			} else {
				dest, err = copyImage(fs, resolver, game, kind, source)
			}
			if err != nil {
				ui.PrintError("failed to store image: %v", err)
				return err
			}

			ui.PrintSuccess("Saved %s for %s: %s", strings.TrimSuffix(kind, "s"), game.Title, dest)
			return nil
		},
	}

	cmd.Flags().BoolVar(&screenshot, "screenshot", false, "store the image as a screenshot")

	return cmd
}

func isRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// mediaBaseName is the file stem every image of a game starts with
func mediaBaseName(game *db.Game) string {
	slug := helpers.Slugify(game.Title)
	if slug == "" {
		slug = "game"
	}
	return slug + "-" + shortID(game.GameID)
}

// mediaFileName names an image; screenshots keep their source name so a
// game can have several of them
func mediaFileName(game *db.Game, kind, sourceName string) string {
	ext := strings.ToLower(filepath.Ext(sourceName))
	if ext == "" || len(ext) > 5 {
		ext = defaultImageExt
	}
	if kind == paths.KindScreenshots {
		stem := helpers.Slugify(strings.TrimSuffix(sourceName, filepath.Ext(sourceName)))
		if stem != "" {
			return mediaBaseName(game) + "-" + stem + ext
		}
	}
	return mediaBaseName(game) + ext
}

func downloadImage(cmd *cobra.Command, cfg *config.Config, fs afero.Fs, resolver *paths.Resolver, game *db.Game, kind, rawURL string, log *zerolog.Logger) (string, error) {
	u, err := security.ValidateDownloadURL(rawURL)
	if err != nil {
		return "", withExitCode(core.ExitInvalidArgs, err)
	}

	client := &http.Client{Timeout: time.Duration(cfg.Media.TimeoutSecs) * time.Second}
	if cfg.Media.TimeoutSecs <= 0 {
		client = nil
	}

	downloader := media.NewDownloader(fs, client, resolver.DataDir(), logging.Component(log, "media"))
	downloader.OnProgress(func(w io.Writer, total int64, name string) io.WriteCloser {
		return ui.NewProgressWriter(w, cmd.ErrOrStderr(), total, name)
	})

	filename := mediaFileName(game, kind, urlBaseName(u))
	if kind == paths.KindCovers {
		removeStaleCovers(fs, resolver, game, filename)
	}

	dest, err := downloader.Download(cmd.Context(), kind, u.String(), filename)
	if err != nil {
		return "", withExitCode(core.ExitNetwork, err)
	}
	return dest, nil
}

func copyImage(fs afero.Fs, resolver *paths.Resolver, game *db.Game, kind, source string) (string, error) {
	if err := security.ValidatePath(source); err != nil {
		return "", withExitCode(core.ExitInvalidArgs, err)
	}
	if !fsops.Exists(fs, source) || fsops.IsDir(fs, source) {
		return "", withExitCode(core.ExitInvalidArgs, fmt.Errorf("not a file: %s", source))
	}

	filename := mediaFileName(game, kind, filepath.Base(source))
	dir := resolver.MediaDir(kind)
	if err := security.ValidateDestPath(dir, filename); err != nil {
		return "", err
	}
	dest := filepath.Join(dir, filename)

	if kind == paths.KindScreenshots && fsops.Exists(fs, dest) {
		return dest, nil
	}

	if err := fsops.EnsureDir(fs, dir, 0o755); err != nil {
		return "", err
	}
	if kind == paths.KindCovers {
		removeStaleCovers(fs, resolver, game, filename)
	}
	if err := fsops.CopyFile(fs, source, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func urlBaseName(u *url.URL) string {
	base := path.Base(u.Path)
	if base == "." || base == "/" {
		return ""
	}
	return base
}

// coverFiles lists the stored covers of a game
func coverFiles(fs afero.Fs, resolver *paths.Resolver, game *db.Game) []string {
	matches, err := afero.Glob(fs, filepath.Join(resolver.CoversDir(), mediaBaseName(game)+".*"))
	if err != nil {
		return nil
	}
	return matches
}

// removeStaleCovers drops covers stored under another extension than keep
func removeStaleCovers(fs afero.Fs, resolver *paths.Resolver, game *db.Game, keep string) {
	for _, cover := range coverFiles(fs, resolver, game) {
		if filepath.Base(cover) != keep {
			_ = fs.Remove(cover)
		}
	}
}

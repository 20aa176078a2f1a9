// Package media downloads cover art and screenshots into the data directory.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/quantmind-br/gamescan/internal/fsops"
	"github.com/quantmind-br/gamescan/internal/paths"
	"github.com/quantmind-br/gamescan/internal/security"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// ErrUnknownKind is returned for media kinds other than covers and screenshots
var ErrUnknownKind = errors.New("unknown media kind")

// DefaultTimeout bounds a whole download when no client is supplied
const DefaultTimeout = 30 * time.Second

// ProgressFunc wraps the destination writer of a download of total bytes
// (-1 when unknown). The returned writer is closed when the copy ends.
type ProgressFunc func(w io.Writer, total int64, name string) io.WriteCloser

// Downloader stores remote images under <dataDir>/<kind>/
type Downloader struct {
	fs       afero.Fs
	client   *http.Client
	dataDir  string
	logger   *zerolog.Logger
	progress ProgressFunc
}

// NewDownloader creates a downloader. A nil client gets DefaultTimeout.
func NewDownloader(fs afero.Fs, client *http.Client, dataDir string, logger *zerolog.Logger) *Downloader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Downloader{fs: fs, client: client, dataDir: dataDir, logger: logger}
}

// OnProgress installs a progress wrapper for the response body
func (d *Downloader) OnProgress(fn ProgressFunc) {
	d.progress = fn
}

// Path returns where a file of the given kind is stored
func (d *Downloader) Path(kind, filename string) string {
	return filepath.Join(d.dataDir, kind, filename)
}

// Download fetches rawURL into <dataDir>/<kind>/<filename> and returns the
// local path. Existing screenshots are kept; covers are replaced.
func (d *Downloader) Download(ctx context.Context, kind, rawURL, filename string) (string, error) {
	if kind != paths.KindCovers && kind != paths.KindScreenshots {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err := security.ValidateFileName(filename); err != nil {
		return "", err
	}
	if _, err := security.ValidateDownloadURL(rawURL); err != nil {
		return "", err
	}

	dir := filepath.Join(d.dataDir, kind)
	if err := security.ValidateDestPath(dir, filename); err != nil {
		return "", err
	}
	dest := filepath.Join(dir, filename)

	if kind == paths.KindScreenshots && fsops.Exists(d.fs, dest) {
		d.logger.Debug().Str("path", dest).Msg("screenshot already present, skipping download")
		return dest, nil
	}

	if err := fsops.EnsureDir(d.fs, dir, 0o755); err != nil {
		return "", err
	}

	if err := d.fetch(ctx, rawURL, dest); err != nil {
		return "", err
	}

	d.logger.Info().Str("kind", kind).Str("path", dest).Msg("media downloaded")
	return dest, nil
}

func (d *Downloader) fetch(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", rawURL, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			d.logger.Debug().Err(cerr).Msg("close response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("get %s: unexpected status %s", rawURL, resp.Status)
	}

	tmp := dest + ".part"
	file, err := d.fs.Create(tmp)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	var w io.Writer = file
	var bar io.WriteCloser
	if d.progress != nil {
		bar = d.progress(file, resp.ContentLength, filepath.Base(dest))
		w = bar
	}

	written, copyErr := io.Copy(w, resp.Body)
	if bar != nil {
		_ = bar.Close()
	}
	closeErr := file.Close()

	switch {
	case copyErr != nil:
		err = fmt.Errorf("download %s: %w", rawURL, copyErr)
	case resp.ContentLength > 0 && written != resp.ContentLength:
		err = fmt.Errorf("download incomplete: expected %d bytes, got %d", resp.ContentLength, written)
	case closeErr != nil:
		err = fmt.Errorf("close file: %w", closeErr)
	}
	if err != nil {
		d.removePartial(tmp)
		return err
	}

	if err := d.fs.Rename(tmp, dest); err != nil {
		d.removePartial(tmp)
		return fmt.Errorf("move download into place: %w", err)
	}

	return nil
}

func (d *Downloader) removePartial(path string) {
	if err := d.fs.Remove(path); err != nil {
		d.logger.Warn().Err(err).Str("path", path).Msg("remove partial download")
	}
}

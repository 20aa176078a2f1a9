package ui

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// ProgressBar wraps progressbar/v3 with gamescan styling
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// NewProgressBar creates a counting progress bar drawn on w
func NewProgressBar(w io.Writer, max int, description string) *ProgressBar {
	bar := progressbar.NewOptions(max,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(20),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = io.WriteString(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressBar{bar: bar}
}

// NewBytesProgressBar creates a byte-counting bar; max -1 draws a spinner
func NewBytesProgressBar(w io.Writer, max int64, description string) *ProgressBar {
	bar := progressbar.NewOptions64(max,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(15),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionOnCompletion(func() {
			_, _ = io.WriteString(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressBar{bar: bar}
}

// Add increments the progress bar by n
func (p *ProgressBar) Add(n int) error {
	return p.bar.Add(n)
}

// Describe changes the description of the progress bar
func (p *ProgressBar) Describe(description string) {
	p.bar.Describe(description)
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() error {
	return p.bar.Finish()
}

// IsFinished returns true if the progress bar is finished
func (p *ProgressBar) IsFinished() bool {
	return p.bar.IsFinished()
}

// ProgressWriter wraps an io.Writer with a byte progress bar
type ProgressWriter struct {
	writer io.Writer
	bar    *ProgressBar
}

// NewProgressWriter creates a writer with progress drawn on display
func NewProgressWriter(writer, display io.Writer, max int64, description string) *ProgressWriter {
	return &ProgressWriter{
		writer: writer,
		bar:    NewBytesProgressBar(display, max, description),
	}
}

// Write implements io.Writer with progress tracking
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.writer.Write(p)
	if n > 0 {
		_ = pw.bar.bar.Add(n)
	}
	return n, err
}

// Close finishes the progress bar
func (pw *ProgressWriter) Close() error {
	return pw.bar.Finish()
}

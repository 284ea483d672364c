package sink

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/sv4u/oggdl/download/media"
)

// FileSink writes each item's audio to "<artists> - <title>.ogg" in its
// output directory. Items whose file already exists are skipped.
type FileSink struct {
	dir string
}

// NewFileSink creates a file sink writing into dir (the current working
// directory when dir is empty).
func NewFileSink(dir string) *FileSink {
	if dir == "" {
		dir = "."
	}
	return &FileSink{dir: dir}
}

// Consume writes the raw audio bytes verbatim; the stream is already in the
// target OGG container format. On a copy error the partial file is removed
// best-effort so a later run can retry the item.
func (s *FileSink) Consume(ctx context.Context, meta *media.TrackMetadata, audio io.Reader) (int64, error) {
	path := filepath.Join(s.dir, OutputName(meta))

	if _, err := os.Stat(path); err == nil {
		return 0, fmt.Errorf("%s: %w", path, ErrAlreadyExists)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}

	n, err := io.Copy(f, audio)
	if err != nil {
		_ = f.Close()
		if rmErr := os.Remove(path); rmErr != nil {
			log.Printf("WARN: partial_file_left path=%s error=%v", path, rmErr)
		}
		return n, fmt.Errorf("failed to write audio stream: %w", err)
	}

	if err := f.Close(); err != nil {
		return n, fmt.Errorf("failed to close output file: %w", err)
	}

	log.Printf("INFO: file_written path=%s", path)
	return n, nil
}

// OutputName returns the sanitized file name for an item's metadata.
func OutputName(meta *media.TrackMetadata) string {
	return Filename(fmt.Sprintf("%s - %s.ogg", strings.Join(meta.Artists, ", "), meta.Title))
}

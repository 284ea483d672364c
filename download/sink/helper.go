package sink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strings"

	"github.com/sv4u/oggdl/download/media"
)

// HelperSink hands each item to an external post-processing program:
// <helper> <id> <title> <album> <artist>... with the audio bytes on the
// program's standard input. The driver waits for the helper to exit before
// the next item starts, so helper invocations never interleave.
type HelperSink struct {
	path string
}

// NewHelperSink creates a sink invoking the program at path.
func NewHelperSink(path string) *HelperSink {
	return &HelperSink{path: path}
}

// Consume runs the helper once for this item. A non-zero exit is returned
// as an error but is recoverable for the pipeline; the helper's output is
// only logged, never interpreted.
func (s *HelperSink) Consume(ctx context.Context, meta *media.TrackMetadata, audio io.Reader) (int64, error) {
	args := append([]string{meta.ID, meta.Title, meta.Album}, meta.Artists...)

	counted := &countingReader{r: audio}
	var output bytes.Buffer

	cmd := exec.CommandContext(ctx, s.path, args...)
	cmd.Stdin = counted
	cmd.Stdout = &output
	cmd.Stderr = &output

	log.Printf("INFO: helper_start helper=%s spotify_id=%s title=%q", s.path, meta.ID, meta.Title)
	if err := cmd.Run(); err != nil {
		return counted.n, fmt.Errorf("helper %s failed: %w (output: %s)",
			s.path, err, strings.TrimSpace(output.String()))
	}

	if out := strings.TrimSpace(output.String()); out != "" {
		log.Printf("INFO: helper_output helper=%s spotify_id=%s output=%q", s.path, meta.ID, out)
	}
	return counted.n, nil
}

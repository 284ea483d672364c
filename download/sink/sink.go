// Package sink provides the two audio destinations the download driver can
// drive: a local .ogg file or an external helper process fed over stdin.
// The sink variant is chosen once per run, not per item.
package sink

import (
	"errors"
	"io"
)

// ErrAlreadyExists reports that the sink's output for this item is already
// present; the driver treats it as a skip, not a failure.
var ErrAlreadyExists = errors.New("output file already exists")

// countingReader counts bytes handed downstream so sinks can report how far
// a stream got even when consumption fails partway.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

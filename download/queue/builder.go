package queue

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/sv4u/oggdl/download/media"
)

// Sentinel terminates the input stream early; lines after it are ignored.
const Sentinel = "done"

// Builder accumulates parsed and expanded references, in input order, into
// the final download queue.
type Builder struct {
	expander *Expander
}

// NewBuilder creates a builder that expands collections with the given
// expander.
func NewBuilder(expander *Expander) *Builder {
	return &Builder{expander: expander}
}

// Build consumes the line-oriented input until the sentinel line or EOF and
// returns the frozen queue. Unparseable lines are skipped silently; a read
// error on the stream itself is fatal.
func (b *Builder) Build(ctx context.Context, r io.Reader) (*Queue, error) {
	q := &Queue{}
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == Sentinel {
			break
		}

		ref, ok := media.ParseLink(line)
		if !ok {
			continue
		}

		for _, member := range b.expander.Expand(ctx, ref) {
			q.Items = append(q.Items, &Item{
				ItemID: uuid.NewString(),
				Ref:    member,
				State:  ItemStatePending,
			})
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	log.Printf("INFO: queue_built items=%d", len(q.Items))
	return q, nil
}

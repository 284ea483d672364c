package download

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/dustin/go-humanize"

	"github.com/sv4u/oggdl/download/media"
	"github.com/sv4u/oggdl/download/queue"
	"github.com/sv4u/oggdl/download/sink"
)

// Session is the authenticated streaming-service handle the driver fetches
// metadata and audio through. Per-item call failures are recoverable; only
// authentication failure (before the driver runs) is fatal.
type Session interface {
	FetchMetadata(ctx context.Context, ref media.Reference) (*media.TrackMetadata, error)
	OpenAudio(ctx context.Context, ref media.Reference) (io.ReadCloser, error)
}

// Sink consumes one item's audio stream. Implementations report the number
// of bytes they took from the stream even when they fail partway.
type Sink interface {
	Consume(ctx context.Context, meta *media.TrackMetadata, audio io.Reader) (int64, error)
}

// Driver walks the frozen queue and downloads items strictly one at a time:
// item n+1 never starts fetching before item n is terminal. This keeps a
// single authenticated session serial and keeps helper stdio writes from
// interleaving.
type Driver struct {
	session Session
	sink    Sink
	onItem  func(*queue.Item)
}

// NewDriver creates a driver that downloads through session into sink.
// onItem, if non-nil, is invoked after every item state change.
func NewDriver(session Session, sink Sink, onItem func(*queue.Item)) *Driver {
	return &Driver{session: session, sink: sink, onItem: onItem}
}

// Run processes every queue item in order and returns per-state counts.
// Item failures never abort the run; only context cancellation stops it
// early.
func (d *Driver) Run(ctx context.Context, q *queue.Queue) (map[string]int, error) {
	for n, item := range q.Items {
		if err := ctx.Err(); err != nil {
			log.Printf("INFO: run_cancelled position=%d error=%v", n, err)
			return q.Stats(), err
		}
		d.runItem(ctx, item)
		d.notify(item)
	}

	stats := q.Stats()
	log.Printf("INFO: run_complete done=%d failed=%d skipped=%d total=%d",
		stats["done"], stats["failed"], stats["skipped"], stats["total"])
	return stats, nil
}

// runItem drives one item through pending -> fetching -> streaming -> done,
// or to failed/skipped. All failures here are recoverable.
func (d *Driver) runItem(ctx context.Context, item *queue.Item) {
	item.MarkFetching()
	d.notify(item)

	log.Printf("INFO: item_fetch kind=%s spotify_id=%s", item.Ref.Kind, item.Ref.ID)
	meta, err := d.session.FetchMetadata(ctx, item.Ref)
	if err != nil {
		log.Printf("ERROR: metadata_fetch_failed kind=%s spotify_id=%s error=%v", item.Ref.Kind, item.Ref.ID, err)
		item.MarkFailed(err.Error())
		return
	}

	item.MarkStreaming()
	d.notify(item)

	stream, err := d.session.OpenAudio(ctx, item.Ref)
	if err != nil {
		log.Printf("ERROR: audio_open_failed spotify_id=%s title=%q error=%v", item.Ref.ID, meta.Title, err)
		item.MarkFailed(err.Error())
		return
	}

	n, err := d.sink.Consume(ctx, meta, stream)
	if closeErr := stream.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	switch {
	case errors.Is(err, sink.ErrAlreadyExists):
		log.Printf("INFO: item_skipped reason=file_exists spotify_id=%s title=%q", item.Ref.ID, meta.Title)
		item.MarkSkipped()
	case err != nil:
		log.Printf("ERROR: item_failed spotify_id=%s title=%q bytes=%s error=%v",
			item.Ref.ID, meta.Title, humanize.Bytes(uint64(n)), err)
		item.MarkFailed(err.Error())
	default:
		log.Printf("INFO: item_complete spotify_id=%s title=%q bytes=%s",
			item.Ref.ID, meta.Title, humanize.Bytes(uint64(n)))
		item.MarkDone(n)
	}
}

func (d *Driver) notify(item *queue.Item) {
	if d.onItem != nil {
		d.onItem(item)
	}
}

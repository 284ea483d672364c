package queue

import (
	"sync"
	"time"

	"github.com/sv4u/oggdl/download/media"
)

// ItemState represents the download state of a queue item.
type ItemState string

const (
	ItemStatePending   ItemState = "pending"
	ItemStateFetching  ItemState = "fetching"
	ItemStateStreaming ItemState = "streaming"
	ItemStateDone      ItemState = "done"
	ItemStateFailed    ItemState = "failed"
	ItemStateSkipped   ItemState = "skipped"
)

// Terminal reports whether the state is final for an item.
func (s ItemState) Terminal() bool {
	return s == ItemStateDone || s == ItemStateFailed || s == ItemStateSkipped
}

// Item is a single playable entry in the download queue.
type Item struct {
	ItemID string
	Ref    media.Reference

	State        ItemState
	Error        string
	BytesWritten int64

	StartedAt   *time.Time
	CompletedAt *time.Time

	mu sync.RWMutex
}

// MarkFetching marks the item as having started its metadata fetch.
func (i *Item) MarkFetching() {
	i.mu.Lock()
	defer i.mu.Unlock()
	now := time.Now()
	i.State = ItemStateFetching
	if i.StartedAt == nil {
		i.StartedAt = &now
	}
}

// MarkStreaming marks the item as streaming audio into its sink.
func (i *Item) MarkStreaming() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.State = ItemStateStreaming
}

// MarkDone marks the item as fully downloaded.
func (i *Item) MarkDone(bytes int64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	now := time.Now()
	i.State = ItemStateDone
	i.BytesWritten = bytes
	i.CompletedAt = &now
}

// MarkFailed marks the item as failed. Failure is terminal for the item but
// never for the queue.
func (i *Item) MarkFailed(errMsg string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	now := time.Now()
	i.State = ItemStateFailed
	i.Error = errMsg
	i.CompletedAt = &now
}

// MarkSkipped marks the item as skipped because its output already exists.
func (i *Item) MarkSkipped() {
	i.mu.Lock()
	defer i.mu.Unlock()
	now := time.Now()
	i.State = ItemStateSkipped
	i.CompletedAt = &now
}

// GetState returns the current state (thread-safe).
func (i *Item) GetState() ItemState {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.State
}

// Queue is the frozen, ordered sequence of playable items handed to the
// download driver. Order is insertion order; there is no deduplication.
type Queue struct {
	Items []*Item
}

// Len returns the number of items in the queue.
func (q *Queue) Len() int {
	return len(q.Items)
}

// Stats returns per-state item counts plus a "total" entry.
func (q *Queue) Stats() map[string]int {
	stats := map[string]int{
		"done":    0,
		"failed":  0,
		"skipped": 0,
		"pending": 0,
		"total":   len(q.Items),
	}
	for _, item := range q.Items {
		switch item.GetState() {
		case ItemStateDone:
			stats["done"]++
		case ItemStateFailed:
			stats["failed"]++
		case ItemStateSkipped:
			stats["skipped"]++
		default:
			stats["pending"]++
		}
	}
	return stats
}

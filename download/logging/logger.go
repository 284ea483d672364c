// Package logging records per-item download events as JSON lines so a
// run leaves a machine-readable trail next to the plain text log.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ItemEvent is one state change of one queue item.
type ItemEvent struct {
	Timestamp time.Time `json:"timestamp"`
	ItemID    string    `json:"item_id"`
	Kind      string    `json:"kind"`
	SpotifyID string    `json:"spotify_id"`
	State     string    `json:"state"`
	Bytes     int64     `json:"bytes,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Logger appends ItemEvents to a JSON-lines file.
type Logger struct {
	logPath string
	file    *os.File
	mu      sync.Mutex
}

// NewLogger creates the event log at logPath, creating parent
// directories as needed.
func NewLogger(logPath string) (*Logger, error) {
	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &Logger{
		logPath: logPath,
		file:    file,
	}, nil
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Record appends one event. The timestamp is filled in when unset.
func (l *Logger) Record(event ItemEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	jsonData, err := json.Marshal(event)
	if err != nil {
		// Fallback keeps the line parseable even if a field resists
		// marshaling.
		_, _ = fmt.Fprintf(l.file, "{\"timestamp\":%q,\"item_id\":%q,\"state\":%q}\n",
			event.Timestamp.Format(time.RFC3339), event.ItemID, event.State)
		return
	}

	_, _ = fmt.Fprintln(l.file, string(jsonData))
}

// Package history keeps an append-only JSONL log of checks. It lives outside
// the decision pipeline: a write failure is logged and ignored, never
// surfaced to the caller.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one logged check.
type Entry struct {
	CheckID   string    `json:"check_id"`
	CheckedAt time.Time `json:"checked_at"`
	Name      string    `json:"name"`
	Available bool      `json:"available"`
	Score     int       `json:"score"`
	Degraded  bool      `json:"degraded"`
}

// Log appends entries to a JSONL file.
type Log struct {
	mu   sync.Mutex
	file *os.File
}

// Open opens (or creates) the history file for appending.
func Open(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening history file: %w", err)
	}
	return &Log{file: f}, nil
}

// Append writes one entry, stamped with a fresh check id and the current time.
func (l *Log) Append(name string, available bool, score int, degraded bool) error {
	e := Entry{
		CheckID:   uuid.NewString(),
		CheckedAt: time.Now().UTC(),
		Name:      name,
		Available: available,
		Score:     score,
		Degraded:  degraded,
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling history entry: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, err = l.file.Write(append(data, '\n'))
	return err
}

// Close closes the underlying file.
func (l *Log) Close() error {
	return l.file.Close()
}

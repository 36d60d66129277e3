package model

import (
	"fmt"
	"time"
)

// TimestampLayout is the ISO-8601 form snapshots are stamped with.
const TimestampLayout = time.RFC3339Nano

// Snapshot is one immutable saved assessment. State holds the serialized
// selection exactly as stored so a record that no longer parses can still be
// listed and skipped by readers.
type Snapshot struct {
	ID           int64    `json:"id"`
	Timestamp    string   `json:"timestamp"`
	State        string   `json:"state"`
	DerivedScore *float64 `json:"derived_score,omitempty"`
}

// NewSnapshot is what callers hand to a store; the store assigns the key and
// the timestamp.
type NewSnapshot struct {
	State        string
	DerivedScore *float64
}

// Selection decodes the stored state. Failures wrap both ErrCorruptSnapshot
// and ErrSerialization.
func (s Snapshot) Selection() (Selection, error) {
	sel, err := DecodeSelection([]byte(s.State))
	if err != nil {
		return Selection{}, fmt.Errorf("%w: snapshot %d: %w", ErrCorruptSnapshot, s.ID, err)
	}
	return sel, nil
}

// Time parses the stored timestamp.
func (s Snapshot) Time() (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s.Timestamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: snapshot %d timestamp %q: %v", ErrSerialization, s.ID, s.Timestamp, err)
	}
	return t, nil
}

// FormatTimestamp renders t the way stores stamp snapshots.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

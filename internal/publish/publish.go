// Package publish persists the ranked result list as the flat JSON record
// consumed out of process by the presentation widget.
package publish

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"meternews/internal/news"
)

// Meta is the run accounting attached to the record.
type Meta struct {
	FeedsTried int `json:"feedsTried"`
	Kept       int `json:"kept"`
}

// ResultSet is the durable hand-off record. Items are already ranked,
// deduplicated and capped; consumers must not re-order them.
type ResultSet struct {
	UpdatedAt time.Time   `json:"updatedAt"`
	Items     []news.Item `json:"items"`
	Meta      Meta        `json:"meta"`
}

// MergePolicy decides which record gets published. A run that produced no
// items must not wipe a previously published non-empty record; the prior
// record is kept whole, including its updatedAt, so readers can tell when
// the preserved data was gathered.
func MergePolicy(previous, current ResultSet) ResultSet {
	if len(current.Items) == 0 && len(previous.Items) > 0 {
		return previous
	}
	return current
}

// Store reads and atomically replaces the record file.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the previously published record. A missing or empty file is
// not an error; ok reports whether a record was found.
func (s *Store) Load() (ResultSet, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ResultSet{}, false, nil
		}
		return ResultSet{}, false, fmt.Errorf("read record: %w", err)
	}
	if len(data) == 0 {
		return ResultSet{}, false, nil
	}

	var rs ResultSet
	if err := json.Unmarshal(data, &rs); err != nil {
		return ResultSet{}, false, fmt.Errorf("unmarshal record: %w", err)
	}
	return rs, true, nil
}

// Write replaces the record atomically: the new content goes to a temp
// file in the same directory first and is renamed over the target, so a
// concurrent reader never sees a partial record.
func (s *Store) Write(rs ResultSet) error {
	// The widget contract wants an array, never null.
	if rs.Items == nil {
		rs.Items = []news.Item{}
	}

	data, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".news-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace record: %w", err)
	}
	return nil
}

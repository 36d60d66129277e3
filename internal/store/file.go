package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"maturity.app/assessor/common/id"
	"maturity.app/assessor/internal/model"
)

const (
	BackendFile = "file"

	filePrefix    = "state-"
	fileExt       = ".json"
	fileTimestamp = "20060102T150405.000000000Z"
)

// FileStore writes one JSON document per snapshot:
//
//	<dir>/state-<timestamp>-<key>.json
//
// Keys come from the snowflake generator, so the highest key is the latest
// record even when file timestamps disagree.
type FileStore struct {
	mu   sync.Mutex
	dir  string
	opts options
}

func NewFileStore(dir string, opts ...Option) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("snapshot directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}
	return &FileStore{dir: dir, opts: buildOptions(opts)}, nil
}

func (s *FileStore) Append(ctx context.Context, snap model.NewSnapshot) (*model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.opts.now().UTC()
	rec := model.Snapshot{
		ID:           id.New(),
		Timestamp:    model.FormatTimestamp(now),
		State:        snap.State,
		DerivedScore: copyScore(snap.DerivedScore),
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}

	name := fmt.Sprintf("%s%s-%d%s", filePrefix, now.Format(fileTimestamp), rec.ID, fileExt)
	fullPath := filepath.Join(s.dir, name)

	// Atomic write: write to temp file, then rename
	tmp, err := os.CreateTemp(s.dir, ".state-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("creating temp snapshot: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("writing temp snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("syncing temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("closing temp snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("renaming snapshot: %w", err)
	}

	return &rec, nil
}

func (s *FileStore) Latest(ctx context.Context) (*model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.entries()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNotFound
	}
	rec, err := s.read(entries[0])
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *FileStore) List(ctx context.Context) ([]model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.entries()
	if err != nil {
		return nil, err
	}
	out := make([]model.Snapshot, 0, len(entries))
	for _, e := range entries {
		rec, err := s.read(e)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Clear moves the directory aside in one rename and then removes it, so a
// failure never leaves a partially emptied history behind.
func (s *FileStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	trash := fmt.Sprintf("%s.clearing-%d", filepath.Clean(s.dir), id.New())
	if err := os.Rename(s.dir, trash); err != nil {
		if os.IsNotExist(err) {
			return os.MkdirAll(s.dir, 0o755)
		}
		return fmt.Errorf("detaching snapshot directory: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		// put the old history back rather than lose the directory
		if rerr := os.Rename(trash, s.dir); rerr != nil {
			return fmt.Errorf("recreating snapshot directory: %w (restore failed: %v)", err, rerr)
		}
		return fmt.Errorf("recreating snapshot directory: %w", err)
	}
	if err := os.RemoveAll(trash); err != nil {
		return fmt.Errorf("removing old snapshots at %s: %w", trash, err)
	}
	return nil
}

func (s *FileStore) Backend() string { return BackendFile }

func (s *FileStore) Close() error { return nil }

type fileEntry struct {
	key  int64
	name string
}

// entries lists snapshot files, highest key first. Files that do not follow
// the naming scheme are ignored.
func (s *FileStore) entries() ([]fileEntry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading snapshot directory: %w", err)
	}

	var out []fileEntry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		key, ok := parseFileKey(de.Name())
		if !ok {
			continue
		}
		out = append(out, fileEntry{key: key, name: de.Name()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key > out[j].key })
	return out, nil
}

// read loads one file. A document that no longer decodes is still returned
// with its raw content as State so readers can report and skip it.
func (s *FileStore) read(e fileEntry) (model.Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, e.name))
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("reading snapshot %s: %w", e.name, err)
	}
	var rec model.Snapshot
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.Snapshot{ID: e.key, State: string(data)}, nil
	}
	rec.ID = e.key
	return rec, nil
}

func parseFileKey(name string) (int64, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileExt) {
		return 0, false
	}
	rest := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileExt)
	idx := strings.LastIndexByte(rest, '-')
	if idx < 0 {
		return 0, false
	}
	key, err := strconv.ParseInt(rest[idx+1:], 10, 64)
	if err != nil {
		return 0, false
	}
	return key, true
}

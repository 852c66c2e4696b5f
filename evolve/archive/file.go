package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const filePrefix = "bestBirdGen"

// FileStore keeps one JSON file per generation in a directory. Saving a
// second record for the same generation replaces the first.
type FileStore struct {
	dir string

	mu sync.Mutex
}

// NewFileStore returns a store rooted at dir, which Init creates if needed.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// FileName returns the name a record of the given generation is stored under.
func FileName(generation int) string {
	return fmt.Sprintf("%s%d.json", filePrefix, generation)
}

func (s *FileStore) Init(_ context.Context) error {
	if s.dir == "" {
		return errors.New("archive directory is required")
	}
	return os.MkdirAll(s.dir, 0o755)
}

func (s *FileStore) SaveGenome(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := EncodeRecord(record)
	if err != nil {
		return err
	}
	path := filepath.Join(s.dir, FileName(record.Generation))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}

func (s *FileStore) GetGenome(ctx context.Context, id string) (Record, bool, error) {
	records, err := s.ListGenomes(ctx)
	if err != nil {
		return Record{}, false, err
	}
	for _, r := range records {
		if r.ID == id {
			return r, true, nil
		}
	}
	return Record{}, false, nil
}

func (s *FileStore) ListGenomes(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var records []Record
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || filepath.Ext(name) != ".json" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, err
		}
		record, err := DecodeRecord(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		records = append(records, record)
	}
	sortRecords(records)
	return records, nil
}

func (s *FileStore) Close() error { return nil }

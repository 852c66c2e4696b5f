// Package archive persists the best brains of a run so they can be inspected
// or imported into a later run.
package archive

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/baldhumanity/neuroevo-go/evolve/nn"
	"github.com/google/uuid"
)

// Store saves and retrieves genome records.
type Store interface {
	Init(ctx context.Context) error
	SaveGenome(ctx context.Context, record Record) error
	GetGenome(ctx context.Context, id string) (Record, bool, error)
	// ListGenomes returns every record ordered by generation.
	ListGenomes(ctx context.Context) ([]Record, error)
	Close() error
}

// Record is an archived brain together with where it came from.
type Record struct {
	SchemaVersion int       `json:"schema_version"`
	CodecVersion  int       `json:"codec_version"`
	ID            string    `json:"id"`
	Generation    int       `json:"generation"`
	Score         int       `json:"score"`
	SavedAt       time.Time `json:"saved_at"`
	Genome        nn.Genome `json:"genome"`
}

// NewRecord snapshots net under a fresh random ID.
func NewRecord(generation, score int, net *nn.NeuralNetwork) Record {
	return Record{
		SchemaVersion: CurrentSchemaVersion,
		CodecVersion:  CurrentCodecVersion,
		ID:            uuid.NewString(),
		Generation:    generation,
		Score:         score,
		SavedAt:       time.Now().UTC(),
		Genome:        net.Genome(),
	}
}

// Network rebuilds the archived brain.
func (r Record) Network() (*nn.NeuralNetwork, error) {
	net, err := nn.FromGenome(r.Genome)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", r.ID, err)
	}
	return net, nil
}

// Open picks a backend from path: empty for memory, a .db or .sqlite file for
// SQLite, and anything else is treated as a directory of JSON files.
func Open(path string) (Store, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case path == "":
		return NewMemoryStore(), nil
	case ext == ".db" || ext == ".sqlite":
		return NewSQLiteStore(path), nil
	case ext != "":
		return nil, fmt.Errorf("unsupported archive path: %s", path)
	default:
		return NewFileStore(path), nil
	}
}

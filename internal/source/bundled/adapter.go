package bundled

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/uozumi/gyodex/internal/domain"
	"github.com/uozumi/gyodex/internal/logger"
)

const (
	SourceID   = "bundled"
	SourceName = "Bundled fish database"
)

// Document is the bulk import format: a named array of fish entries plus
// dataset metadata.
type Document struct {
	FishDatabase []json.RawMessage `json:"fish_database"`
	Metadata     Metadata          `json:"metadata"`
}

// Metadata describes the dataset document.
type Metadata struct {
	Version      string `json:"version"`
	GeneratedAt  string `json:"generated_at"`
	TotalSpecies int    `json:"total_species"`
	Description  string `json:"description"`
}

// Adapter implements the DatasetSource interface for the bundled JSON
// dataset document.
type Adapter struct {
	path    string
	records []domain.Fish // Cached records
	skipped int
	loaded  bool
}

// NewAdapter creates a new bundled dataset adapter
func NewAdapter(path string) *Adapter {
	return &Adapter{
		path: path,
	}
}

// GetSourceID returns the unique identifier for this source
func (a *Adapter) GetSourceID() string {
	return SourceID
}

// GetDisplayName returns a human-readable name for this source
func (a *Adapter) GetDisplayName() string {
	return SourceName
}

// Skipped returns how many entries failed to parse
func (a *Adapter) Skipped() int {
	return a.skipped
}

// FetchBatch fetches a batch of fish records
func (a *Adapter) FetchBatch(ctx context.Context, cursor string, limit int) ([]domain.Fish, string, error) {
	// Load the document on first call
	if !a.loaded {
		if err := a.loadRecords(); err != nil {
			return nil, "", fmt.Errorf("failed to load dataset: %w", err)
		}
		a.loaded = true
	}

	// Parse cursor (index)
	startIndex := 0
	if cursor != "" {
		var err error
		startIndex, err = strconv.Atoi(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor: %w", err)
		}
	}

	// Check bounds
	if startIndex >= len(a.records) {
		return []domain.Fish{}, "", nil // No more records
	}

	endIndex := startIndex + limit
	if endIndex > len(a.records) {
		endIndex = len(a.records)
	}

	batch := a.records[startIndex:endIndex]

	nextCursor := ""
	if endIndex < len(a.records) {
		nextCursor = strconv.Itoa(endIndex)
	}

	return batch, nextCursor, nil
}

// loadRecords parses the dataset document. Entries that fail to decode or
// that violate record invariants are skipped and counted; a bad entry never
// aborts the whole load.
func (a *Adapter) loadRecords() error {
	raw, err := os.ReadFile(a.path)
	if err != nil {
		return fmt.Errorf("dataset document not readable: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("dataset document is not valid JSON: %w", err)
	}

	log := logger.GetDefault().WithField("source", SourceID)

	a.records = make([]domain.Fish, 0, len(doc.FishDatabase))
	a.skipped = 0
	seen := make(map[string]bool, len(doc.FishDatabase))

	for i, entry := range doc.FishDatabase {
		var fish domain.Fish
		if err := json.Unmarshal(entry, &fish); err != nil {
			log.WithError(err).Warnf("Skipping unparseable entry %d", i)
			a.skipped++
			continue
		}
		fish.Normalize()
		if err := fish.Validate(); err != nil {
			log.WithError(err).Warnf("Skipping invalid entry %d", i)
			a.skipped++
			continue
		}
		if seen[fish.ID] {
			log.Warnf("Skipping entry %d: duplicate id %s", i, fish.ID)
			a.skipped++
			continue
		}
		seen[fish.ID] = true
		a.records = append(a.records, fish)
	}

	if len(a.records) == 0 {
		return fmt.Errorf("dataset document contains no usable entries")
	}

	return nil
}

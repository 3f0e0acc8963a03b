package source

import (
	"context"

	"github.com/uozumi/gyodex/internal/domain"
)

// DatasetSource defines the interface for fish dataset sources.
type DatasetSource interface {
	// GetSourceID returns the unique identifier for this source.
	// Parameters: none.
	// Returns:
	//   - string: stable source identifier.
	GetSourceID() string

	// GetDisplayName returns a human-readable name for this source.
	// Parameters: none.
	// Returns:
	//   - string: display-friendly source name.
	GetDisplayName() string

	// FetchBatch fetches a batch of parsed fish records starting from the
	// given cursor. Entries that fail to parse are skipped, not returned,
	// and tallied by Skipped.
	// Parameters:
	//   - ctx: context for cancellation and deadlines.
	//   - cursor: pagination cursor or empty for first page.
	//   - limit: maximum number of records to fetch.
	// Returns:
	//   - records: batch of fish records.
	//   - nextCursor: cursor for the next batch or empty if done.
	//   - err: non-nil if fetching fails.
	FetchBatch(ctx context.Context, cursor string, limit int) (records []domain.Fish, nextCursor string, err error)

	// Skipped returns how many entries failed to parse so far.
	// Parameters: none.
	// Returns:
	//   - int: count of skipped entries.
	Skipped() int
}

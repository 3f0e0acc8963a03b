package service

import (
	"context"
	"math/rand"
	"sort"
	"strings"

	"github.com/uozumi/gyodex/internal/domain"
	"github.com/uozumi/gyodex/internal/repository"
)

// Preparation tokens that qualify a fish as a sushi candidate.
var sushiTokens = []string{"sushi", "sashimi", "nigiri"}

// QueryConfig holds configuration for the query service.
type QueryConfig struct {
	PopularLimit int // default size of the popular view
	RandomCount  int // default size of the random view
}

// QueryService answers read-only questions over the catalog. Every call
// reads the store state at call time; there is no caching across calls, so
// results always reflect the latest committed writes.
//
// Methods return an explicit error instead of masking storage failures with
// an empty result. The HTTP layer decides whether to degrade gracefully.
type QueryService struct {
	store repository.Store

	popularLimit int
	randomCount  int
}

// NewQueryService creates a new query service.
// Parameters:
//   - store: catalog store to read from.
//   - cfg: query configuration; nil uses defaults.
// Returns:
//   - *QueryService: initialized query service.
func NewQueryService(store repository.Store, cfg *QueryConfig) *QueryService {
	popularLimit := 10
	randomCount := 5
	if cfg != nil {
		if cfg.PopularLimit > 0 {
			popularLimit = cfg.PopularLimit
		}
		if cfg.RandomCount > 0 {
			randomCount = cfg.RandomCount
		}
	}
	return &QueryService{
		store:        store,
		popularLimit: popularLimit,
		randomCount:  randomCount,
	}
}

// containsFold reports whether q is a case-insensitive substring of v.
func containsFold(v, q string) bool {
	return strings.Contains(strings.ToLower(v), strings.ToLower(q))
}

// matches reports whether the free-text query hits any searchable field.
// Kanji is matched exact-case: case folding is not applied to the kanji
// field anywhere in the catalog, so a folded match here would change which
// records different query paths agree on.
func matches(f *domain.Fish, q string) bool {
	if containsFold(f.UniqueName, q) ||
		containsFold(f.ScientificName, q) ||
		containsFold(f.Description, q) ||
		containsFold(f.JapaneseNameRomaji, q) {
		return true
	}
	if f.JapaneseNameKanji != "" && strings.Contains(f.JapaneseNameKanji, q) {
		return true
	}
	for _, alias := range f.CommonAliases {
		if containsFold(alias, q) {
			return true
		}
	}
	return false
}

// Search returns every record where q is a substring of a searchable field.
// A blank or whitespace-only query returns the full catalog. There is no
// ranking: a record either matches or not, and results keep the catalog's
// unique_name ordering.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - q: free-text query.
// Returns:
//   - []domain.Fish: matching records in display order.
//   - error: non-nil if the store read fails.
func (s *QueryService) Search(ctx context.Context, q string) ([]domain.Fish, error) {
	all, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	q = strings.TrimSpace(q)
	if q == "" {
		return all, nil
	}

	out := make([]domain.Fish, 0, len(all))
	for i := range all {
		if matches(&all[i], q) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// filterByToken returns records where token is a case-insensitive substring
// of at least one entry of the selected list field.
func (s *QueryService) filterByToken(ctx context.Context, token string, field func(*domain.Fish) domain.StringArray) ([]domain.Fish, error) {
	all, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Fish, 0, len(all))
	for i := range all {
		for _, entry := range field(&all[i]) {
			if containsFold(entry, token) {
				out = append(out, all[i])
				break
			}
		}
	}
	return out, nil
}

// FilterByHabitat returns records with at least one habitat entry containing
// the given token, case-insensitively.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - habitat: habitat token to match.
// Returns:
//   - []domain.Fish: matching records in display order.
//   - error: non-nil if the store read fails.
func (s *QueryService) FilterByHabitat(ctx context.Context, habitat string) ([]domain.Fish, error) {
	return s.filterByToken(ctx, habitat, func(f *domain.Fish) domain.StringArray { return f.Habitats })
}

// FilterByPreparation returns records with at least one ways_to_eat entry
// containing the given token, case-insensitively.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - method: preparation token to match.
// Returns:
//   - []domain.Fish: matching records in display order.
//   - error: non-nil if the store read fails.
func (s *QueryService) FilterByPreparation(ctx context.Context, method string) ([]domain.Fish, error) {
	return s.filterByToken(ctx, method, func(f *domain.Fish) domain.StringArray { return f.WaysToEat })
}

// IntersectFilters applies the habitat filter (or the full catalog when
// habitat is empty), then narrows by preparation through an id intersection.
// The two filters read the catalog independently, so a write landing between
// the reads can produce a result matching no single point-in-time snapshot.
// Acceptable for a small, rarely mutated reference dataset.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - habitat: optional habitat token; empty means no habitat filter.
//   - preparation: optional preparation token; empty means no preparation filter.
// Returns:
//   - []domain.Fish: records matching both filters, in display order.
//   - error: non-nil if a store read fails.
func (s *QueryService) IntersectFilters(ctx context.Context, habitat, preparation string) ([]domain.Fish, error) {
	var base []domain.Fish
	var err error
	if habitat != "" {
		base, err = s.FilterByHabitat(ctx, habitat)
	} else {
		base, err = s.store.LoadAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	if preparation == "" {
		return base, nil
	}

	byPrep, err := s.FilterByPreparation(ctx, preparation)
	if err != nil {
		return nil, err
	}

	keep := make(map[string]bool, len(byPrep))
	for i := range byPrep {
		keep[byPrep[i].ID] = true
	}

	out := make([]domain.Fish, 0, len(base))
	for i := range base {
		if keep[base[i].ID] {
			out = append(out, base[i])
		}
	}
	return out, nil
}

// SushiCandidates returns records prepared as sushi, sashimi, or nigiri.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - []domain.Fish: matching records in display order.
//   - error: non-nil if the store read fails.
func (s *QueryService) SushiCandidates(ctx context.Context) ([]domain.Fish, error) {
	all, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Fish, 0, len(all))
	for i := range all {
	entries:
		for _, entry := range all[i].WaysToEat {
			for _, token := range sushiTokens {
				if containsFold(entry, token) {
					out = append(out, all[i])
					break entries
				}
			}
		}
	}
	return out, nil
}

// Popular returns the first limit records in unique_name order. A
// placeholder ranking until a real popularity signal exists.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - limit: maximum records to return; non-positive uses the configured default.
// Returns:
//   - []domain.Fish: leading records in display order.
//   - error: non-nil if the store read fails.
func (s *QueryService) Popular(ctx context.Context, limit int) ([]domain.Fish, error) {
	if limit <= 0 {
		limit = s.popularLimit
	}

	all, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if limit > len(all) {
		limit = len(all)
	}
	return all[:limit], nil
}

// Random returns count distinct records chosen uniformly without
// replacement. When count meets or exceeds the catalog size, every record
// is returned in randomized order.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - count: number of records to pick; non-positive uses the configured default.
// Returns:
//   - []domain.Fish: randomly ordered sample.
//   - error: non-nil if the store read fails.
func (s *QueryService) Random(ctx context.Context, count int) ([]domain.Fish, error) {
	if count <= 0 {
		count = s.randomCount
	}

	all, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	rand.Shuffle(len(all), func(i, j int) {
		all[i], all[j] = all[j], all[i]
	})
	if count > len(all) {
		count = len(all)
	}
	return all[:count], nil
}

// distinctTokens returns the deduplicated, ascending union of a list field
// across the catalog.
func (s *QueryService) distinctTokens(ctx context.Context, field func(*domain.Fish) domain.StringArray) ([]string, error) {
	all, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	out := []string{}
	for i := range all {
		for _, entry := range field(&all[i]) {
			if entry == "" || seen[entry] {
				continue
			}
			seen[entry] = true
			out = append(out, entry)
		}
	}
	sort.Strings(out)
	return out, nil
}

// DistinctHabitats returns the sorted union of every record's habitats.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - []string: deduplicated habitat tokens, ascending.
//   - error: non-nil if the store read fails.
func (s *QueryService) DistinctHabitats(ctx context.Context) ([]string, error) {
	return s.distinctTokens(ctx, func(f *domain.Fish) domain.StringArray { return f.Habitats })
}

// DistinctPreparations returns the sorted union of every record's ways_to_eat.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - []string: deduplicated preparation tokens, ascending.
//   - error: non-nil if the store read fails.
func (s *QueryService) DistinctPreparations(ctx context.Context) ([]string, error) {
	return s.distinctTokens(ctx, func(f *domain.Fish) domain.StringArray { return f.WaysToEat })
}

// ByJapaneseName matches token against the romaji name case-insensitively
// and against the kanji name exact-case. The asymmetry mirrors Search.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - token: name fragment to match.
// Returns:
//   - []domain.Fish: matching records in display order.
//   - error: non-nil if the store read fails.
func (s *QueryService) ByJapaneseName(ctx context.Context, token string) ([]domain.Fish, error) {
	all, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Fish, 0, len(all))
	for i := range all {
		f := &all[i]
		if containsFold(f.JapaneseNameRomaji, token) ||
			(f.JapaneseNameKanji != "" && strings.Contains(f.JapaneseNameKanji, token)) {
			out = append(out, *f)
		}
	}
	return out, nil
}

// GetByID exposes direct record lookup to the API layer. Absence yields
// (nil, nil), matching the store contract.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: fish ID.
// Returns:
//   - *domain.Fish: fish record if found, nil otherwise.
//   - error: non-nil if the lookup fails.
func (s *QueryService) GetByID(ctx context.Context, id string) (*domain.Fish, error) {
	return s.store.GetByID(ctx, id)
}

// Stats summarizes the catalog for the stats endpoint.
type Stats struct {
	TotalSpecies int64 `json:"total_species"`
	Habitats     int   `json:"habitats"`
	Preparations int   `json:"preparations"`
}

// GetStats returns catalog-level counts.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - *Stats: aggregate counts.
//   - error: non-nil if a store read fails.
func (s *QueryService) GetStats(ctx context.Context) (*Stats, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	habitats, err := s.DistinctHabitats(ctx)
	if err != nil {
		return nil, err
	}
	preparations, err := s.DistinctPreparations(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{
		TotalSpecies: total,
		Habitats:     len(habitats),
		Preparations: len(preparations),
	}, nil
}

package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/uozumi/gyodex/internal/domain"
	"github.com/uozumi/gyodex/internal/logger"
)

const maxDescriptionLen = 200

// EnrichConfig holds configuration for the enrichment service
type EnrichConfig struct {
	Enabled          bool
	WikipediaBaseURL string
	FishBaseURL      string
	Timeout          time.Duration
}

// EnrichService fills empty descriptive fields of a fish record from public
// reference sources: a Wikipedia page summary for the description and
// FishBase species data for lifespan, size, and weight. Seed-time tooling
// only; never called on the API read path.
type EnrichService struct {
	client    *resty.Client
	wikipedia string
	fishbase  string
	enabled   bool
	logger    *logger.Logger
}

// NewEnrichService creates a new enrichment service.
// Parameters:
//   - cfg: enrichment configuration; nil or disabled yields a no-op service.
//   - log: logger instance.
// Returns:
//   - *EnrichService: initialized enrichment service.
func NewEnrichService(cfg *EnrichConfig, log *logger.Logger) *EnrichService {
	if cfg == nil || !cfg.Enabled {
		return &EnrichService{enabled: false, logger: log}
	}

	client := resty.New()
	client.SetHeader("User-Agent", "gyodex/1.0 (catalog enrichment)")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &EnrichService{
		client:    client,
		wikipedia: cfg.WikipediaBaseURL,
		fishbase:  cfg.FishBaseURL,
		enabled:   true,
		logger:    log,
	}
}

// IsEnabled reports whether enrichment is active.
func (s *EnrichService) IsEnabled() bool {
	return s.enabled
}

type wikipediaSummary struct {
	Extract string `json:"extract"`
}

type fishbaseSpecies struct {
	LongevityWild float64 `json:"LongevityWild"`
	Length        float64 `json:"Length"`
	Weight        float64 `json:"Weight"`
}

// Enrich fills the empty descriptive fields of fish in place. Fields that
// already hold data are never overwritten; fields that stay empty after all
// sources fail get generic fallback text so no record ships blank.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - fish: record to enrich, modified in place.
// Returns:
//   - error: non-nil only when enrichment is disabled; source failures
//     degrade to fallbacks.
func (s *EnrichService) Enrich(ctx context.Context, fish *domain.Fish) error {
	if !s.enabled {
		return fmt.Errorf("enrichment is disabled")
	}
	log := s.logger.WithField("fish_id", fish.ID)

	if fish.Description == "" {
		extract, err := s.fetchWikipediaExtract(ctx, fish.UniqueName)
		if err != nil {
			log.WithError(err).Warn("Wikipedia summary unavailable")
		}
		if extract == "" {
			extract = "A species of fish commonly used in Japanese cuisine, particularly sushi and sashimi preparation."
		}
		if len(extract) > maxDescriptionLen {
			extract = extract[:maxDescriptionLen] + "..."
		}
		fish.Description = extract
	}

	if fish.Lifespan == "" || fish.Size == "" || fish.Weight == "" {
		species, err := s.fetchFishBaseSpecies(ctx, fish.ScientificName)
		if err != nil {
			log.WithError(err).Warn("FishBase data unavailable")
			species = nil
		}
		s.applyMeasurements(fish, species)
	}

	return nil
}

func (s *EnrichService) fetchWikipediaExtract(ctx context.Context, name string) (string, error) {
	var summary wikipediaSummary
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&summary).
		Get(s.wikipedia + "/page/summary/" + url.PathEscape(name))
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("wikipedia returned status %d", resp.StatusCode())
	}
	return summary.Extract, nil
}

func (s *EnrichService) fetchFishBaseSpecies(ctx context.Context, scientificName string) (*fishbaseSpecies, error) {
	var species []fishbaseSpecies
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("species", scientificName).
		SetResult(&species).
		Get(s.fishbase + "/species")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fishbase returned status %d", resp.StatusCode())
	}
	if len(species) == 0 {
		return nil, nil
	}
	return &species[0], nil
}

// applyMeasurements formats FishBase numerics into the catalog's display
// strings, falling back to generic ranges when no data came back.
func (s *EnrichService) applyMeasurements(fish *domain.Fish, species *fishbaseSpecies) {
	if fish.Lifespan == "" {
		if species != nil && species.LongevityWild > 0 {
			fish.Lifespan = fmt.Sprintf("%.0f years", species.LongevityWild)
		} else {
			fish.Lifespan = "5-15 years"
		}
	}
	if fish.Size == "" {
		if species != nil && species.Length > 0 {
			cm := species.Length
			fish.Size = fmt.Sprintf("%.1f in (%.0f cm)", cm*0.393701, cm)
		} else {
			fish.Size = "12-24 in (30-60 cm)"
		}
	}
	if fish.Weight == "" {
		if species != nil && species.Weight > 0 {
			kg := species.Weight
			fish.Weight = fmt.Sprintf("%.1f lbs (%.1f kg)", kg*2.20462, kg)
		} else {
			fish.Weight = "2-10 lbs (1-4.5 kg)"
		}
	}
}

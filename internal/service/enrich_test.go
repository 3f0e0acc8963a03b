package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/uozumi/gyodex/internal/domain"
	"github.com/uozumi/gyodex/internal/logger"
)

func newEnrichTestService(t *testing.T, wikipedia, fishbase http.HandlerFunc) *EnrichService {
	t.Helper()

	wiki := httptest.NewServer(wikipedia)
	t.Cleanup(wiki.Close)
	fb := httptest.NewServer(fishbase)
	t.Cleanup(fb.Close)

	return NewEnrichService(&EnrichConfig{
		Enabled:          true,
		WikipediaBaseURL: wiki.URL,
		FishBaseURL:      fb.URL,
	}, logger.GetDefault())
}

func TestEnrichFillsEmptyFields(t *testing.T) {
	svc := newEnrichTestService(t,
		func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/page/summary/") {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"extract": "The Atlantic salmon is a species of ray-finned fish."}`)
		},
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("species") != "Salmo salar" {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `[{"LongevityWild": 8, "Length": 75, "Weight": 4}]`)
		},
	)

	fish := domain.Fish{ID: "atlantic_salmon", UniqueName: "Atlantic Salmon", ScientificName: "Salmo salar"}
	if err := svc.Enrich(context.Background(), &fish); err != nil {
		t.Fatalf("Enrich: %v", err)
	}

	if fish.Description != "The Atlantic salmon is a species of ray-finned fish." {
		t.Errorf("Description = %q", fish.Description)
	}
	if fish.Lifespan != "8 years" {
		t.Errorf("Lifespan = %q, want %q", fish.Lifespan, "8 years")
	}
	if fish.Size != "29.5 in (75 cm)" {
		t.Errorf("Size = %q, want %q", fish.Size, "29.5 in (75 cm)")
	}
	if fish.Weight != "8.8 lbs (4.0 kg)" {
		t.Errorf("Weight = %q, want %q", fish.Weight, "8.8 lbs (4.0 kg)")
	}
}

func TestEnrichNeverOverwrites(t *testing.T) {
	svc := newEnrichTestService(t,
		func(w http.ResponseWriter, r *http.Request) {
			t.Error("wikipedia called for a record with a description")
		},
		func(w http.ResponseWriter, r *http.Request) {
			t.Error("fishbase called for a complete record")
		},
	)

	fish := domain.Fish{
		ID:             "bluefin_tuna",
		UniqueName:     "Bluefin Tuna",
		ScientificName: "Thunnus thynnus",
		Description:    "existing",
		Lifespan:       "15-30 years",
		Size:           "78.7 in (200 cm)",
		Weight:         "551.2 lbs (250 kg)",
	}
	if err := svc.Enrich(context.Background(), &fish); err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if fish.Description != "existing" {
		t.Errorf("Description overwritten: %q", fish.Description)
	}
}

func TestEnrichFallbacks(t *testing.T) {
	svc := newEnrichTestService(t,
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		},
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
		},
	)

	fish := domain.Fish{ID: "sea_urchin", UniqueName: "Sea Urchin", ScientificName: "Strongylocentrotus nudus"}
	if err := svc.Enrich(context.Background(), &fish); err != nil {
		t.Fatalf("Enrich: %v", err)
	}

	if fish.Description == "" || !strings.Contains(fish.Description, "Japanese cuisine") {
		t.Errorf("fallback description = %q", fish.Description)
	}
	if fish.Lifespan != "5-15 years" {
		t.Errorf("fallback Lifespan = %q", fish.Lifespan)
	}
	if fish.Size != "12-24 in (30-60 cm)" {
		t.Errorf("fallback Size = %q", fish.Size)
	}
	if fish.Weight != "2-10 lbs (1-4.5 kg)" {
		t.Errorf("fallback Weight = %q", fish.Weight)
	}
}

func TestEnrichTruncatesLongExtracts(t *testing.T) {
	long := strings.Repeat("a", maxDescriptionLen+50)
	svc := newEnrichTestService(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"extract": %q}`, long)
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `[]`)
		},
	)

	fish := domain.Fish{ID: "pacific_saury", UniqueName: "Pacific Saury", ScientificName: "Cololabis saira"}
	if err := svc.Enrich(context.Background(), &fish); err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if len(fish.Description) != maxDescriptionLen+3 {
		t.Errorf("Description length = %d, want %d", len(fish.Description), maxDescriptionLen+3)
	}
	if !strings.HasSuffix(fish.Description, "...") {
		t.Errorf("truncated description missing ellipsis: %q", fish.Description)
	}
}

func TestEnrichDisabled(t *testing.T) {
	svc := NewEnrichService(nil, logger.GetDefault())
	if svc.IsEnabled() {
		t.Error("nil config produced an enabled service")
	}

	fish := domain.Fish{ID: "aji", UniqueName: "Horse Mackerel", ScientificName: "Trachurus japonicus"}
	if err := svc.Enrich(context.Background(), &fish); err == nil {
		t.Error("Enrich succeeded while disabled")
	}
}

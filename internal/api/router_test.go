package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/uozumi/gyodex/internal/api/handler"
	"github.com/uozumi/gyodex/internal/config"
	"github.com/uozumi/gyodex/internal/domain"
	"github.com/uozumi/gyodex/internal/logger"
	"github.com/uozumi/gyodex/internal/repository"
	"github.com/uozumi/gyodex/internal/service"
	"github.com/uozumi/gyodex/internal/source"
	"github.com/uozumi/gyodex/internal/source/bundled"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Mode: "test",
			CORS: config.CORSConfig{AllowAllOrigins: true},
		},
	}
}

func newTestRouter(t *testing.T, store repository.Store, sources map[string]source.DatasetSource) *gin.Engine {
	t.Helper()
	return newTestRouterWithFavorites(t, store, nil, sources)
}

func newTestRouterWithFavorites(t *testing.T, store repository.Store, favorites handler.FavoriteStore, sources map[string]source.DatasetSource) *gin.Engine {
	t.Helper()

	log := logger.GetDefault()
	queryService := service.NewQueryService(store, nil)
	importService := service.NewImportService(store, log, nil)
	return SetupRouter(store, queryService, importService, favorites, sources, testConfig(), log)
}

func seedStore(t *testing.T) repository.Store {
	t.Helper()

	store := repository.NewMemoryStore()
	records := []domain.Fish{
		{
			ID:                 "bluefin_tuna",
			UniqueName:         "Bluefin Tuna",
			ScientificName:     "Thunnus thynnus",
			JapaneseNameRomaji: "Kuro-maguro",
			Habitats:           domain.StringArray{"Pacific Ocean"},
			WaysToEat:          domain.StringArray{"Sashimi", "Nigiri"},
		},
		{
			ID:                 "japanese_eel",
			UniqueName:         "Japanese Eel",
			ScientificName:     "Anguilla japonica",
			JapaneseNameRomaji: "Unagi",
			Habitats:           domain.StringArray{"Rivers"},
			WaysToEat:          domain.StringArray{"Kabayaki"},
		},
	}
	for i := range records {
		if err := store.Upsert(context.Background(), &records[i]); err != nil {
			t.Fatalf("seeding store: %v", err)
		}
	}
	return store
}

func doRequest(t *testing.T, r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()

	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
	return body
}

func TestListFish(t *testing.T) {
	r := newTestRouter(t, seedStore(t), nil)

	testCases := []struct {
		name      string
		target    string
		wantTotal float64
	}{
		{name: "full catalog", target: "/api/v1/fish", wantTotal: 2},
		{name: "habitat filter", target: "/api/v1/fish?habitat=pacific", wantTotal: 1},
		{name: "preparation filter", target: "/api/v1/fish?preparation=kabayaki", wantTotal: 1},
		{name: "both filters disjoint", target: "/api/v1/fish?habitat=pacific&preparation=kabayaki", wantTotal: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(t, r, http.MethodGet, tc.target, "")
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			var resp struct {
				Total    float64 `json:"total"`
				Degraded bool    `json:"degraded"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decoding: %v", err)
			}
			if resp.Total != tc.wantTotal {
				t.Errorf("total = %v, want %v", resp.Total, tc.wantTotal)
			}
			if resp.Degraded {
				t.Error("healthy store produced a degraded response")
			}
		})
	}
}

func TestGetFish(t *testing.T) {
	r := newTestRouter(t, seedStore(t), nil)

	w := doRequest(t, r, http.MethodGet, "/api/v1/fish/bluefin_tuna", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var fish domain.Fish
	if err := json.Unmarshal(w.Body.Bytes(), &fish); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if fish.UniqueName != "Bluefin Tuna" {
		t.Errorf("UniqueName = %q", fish.UniqueName)
	}

	w = doRequest(t, r, http.MethodGet, "/api/v1/fish/no_such_fish", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("missing fish status = %d, want 404", w.Code)
	}
}

func TestStaticRoutesWinOverParam(t *testing.T) {
	r := newTestRouter(t, seedStore(t), nil)

	// /fish/random and /fish/sushi are endpoints, not fish ids.
	for _, target := range []string{"/api/v1/fish/random", "/api/v1/fish/sushi", "/api/v1/fish/popular"} {
		w := doRequest(t, r, http.MethodGet, target, "")
		if w.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", target, w.Code)
		}
		if _, ok := decodeList(t, w)["results"]; !ok {
			t.Errorf("%s did not return a list envelope", target)
		}
	}
}

func TestSearchEndpoints(t *testing.T) {
	r := newTestRouter(t, seedStore(t), nil)

	w := doRequest(t, r, http.MethodGet, "/api/v1/search?q=tuna", "")
	var resp struct {
		Results []domain.Fish `json:"results"`
		Total   int           `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.Total != 1 || resp.Results[0].ID != "bluefin_tuna" {
		t.Errorf("search returned %+v", resp)
	}

	w = doRequest(t, r, http.MethodGet, "/api/v1/search/japanese?name=unagi", "")
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.Total != 1 || resp.Results[0].ID != "japanese_eel" {
		t.Errorf("japanese search returned %+v", resp)
	}

	// The name parameter is mandatory here, unlike free-text search.
	w = doRequest(t, r, http.MethodGet, "/api/v1/search/japanese", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("blank japanese search status = %d, want 400", w.Code)
	}
}

func TestMetadataEndpoints(t *testing.T) {
	r := newTestRouter(t, seedStore(t), nil)

	w := doRequest(t, r, http.MethodGet, "/api/v1/habitats", "")
	var habitats struct {
		Habitats []string `json:"habitats"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &habitats); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(habitats.Habitats) != 2 {
		t.Errorf("habitats = %v", habitats.Habitats)
	}

	w = doRequest(t, r, http.MethodGet, "/api/v1/stats", "")
	var stats service.Stats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if stats.TotalSpecies != 2 {
		t.Errorf("TotalSpecies = %d, want 2", stats.TotalSpecies)
	}
}

// brokenStore simulates an unreachable backend on the read path.
type brokenStore struct{}

var errBackendDown = errors.New("backend down")

func (brokenStore) LoadAll(ctx context.Context) ([]domain.Fish, error) {
	return nil, errBackendDown
}
func (brokenStore) GetByID(ctx context.Context, id string) (*domain.Fish, error) {
	return nil, errBackendDown
}
func (brokenStore) Upsert(ctx context.Context, fish *domain.Fish) error    { return errBackendDown }
func (brokenStore) Delete(ctx context.Context, id string) error            { return errBackendDown }
func (brokenStore) Count(ctx context.Context) (int64, error)               { return 0, errBackendDown }
func (brokenStore) Reset(ctx context.Context, records []domain.Fish) error { return errBackendDown }

func TestReadPathDegradesOnStoreFailure(t *testing.T) {
	r := newTestRouter(t, brokenStore{}, nil)

	for _, target := range []string{"/api/v1/fish", "/api/v1/search?q=tuna", "/api/v1/fish/sushi"} {
		w := doRequest(t, r, http.MethodGet, target, "")
		if w.Code != http.StatusOK {
			t.Errorf("%s status = %d, want degraded 200", target, w.Code)
			continue
		}
		var resp struct {
			Results  []domain.Fish `json:"results"`
			Total    int           `json:"total"`
			Degraded bool          `json:"degraded"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding: %v", err)
		}
		if !resp.Degraded {
			t.Errorf("%s did not flag degraded", target)
		}
		if resp.Total != 0 || len(resp.Results) != 0 {
			t.Errorf("%s degraded response carries results", target)
		}
	}
}

func TestAdminErrorsAreNotMasked(t *testing.T) {
	r := newTestRouter(t, brokenStore{}, nil)

	w := doRequest(t, r, http.MethodPut, "/api/v1/admin/fish/bluefin_tuna",
		`{"unique_name": "Bluefin Tuna", "scientific_name": "Thunnus thynnus"}`)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("admin upsert status = %d, want 500", w.Code)
	}

	w = doRequest(t, r, http.MethodDelete, "/api/v1/admin/fish/bluefin_tuna", "")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("admin delete status = %d, want 500", w.Code)
	}
}

func TestAdminUpsertAndDelete(t *testing.T) {
	store := repository.NewMemoryStore()
	r := newTestRouter(t, store, nil)

	w := doRequest(t, r, http.MethodPut, "/api/v1/admin/fish/sea_urchin",
		`{"id": "something_else", "unique_name": "Sea Urchin", "scientific_name": "Strongylocentrotus nudus"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("upsert status = %d: %s", w.Code, w.Body.String())
	}

	// The path id wins over the body id.
	got, err := store.GetByID(context.Background(), "sea_urchin")
	if err != nil || got == nil {
		t.Fatalf("GetByID sea_urchin = %+v, %v", got, err)
	}
	if other, _ := store.GetByID(context.Background(), "something_else"); other != nil {
		t.Error("body id was stored instead of path id")
	}

	w = doRequest(t, r, http.MethodDelete, "/api/v1/admin/fish/sea_urchin", "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	if got, _ := store.GetByID(context.Background(), "sea_urchin"); got != nil {
		t.Error("record survived delete")
	}
}

func TestAdminImport(t *testing.T) {
	dataset := `{
	  "fish_database": [
	    {"id": "bluefin_tuna", "unique_name": "Bluefin Tuna", "scientific_name": "Thunnus thynnus"},
	    {"id": "atlantic_salmon", "unique_name": "Atlantic Salmon", "scientific_name": "Salmo salar"}
	  ],
	  "metadata": {"version": "1.0"}
	}`
	path := filepath.Join(t.TempDir(), "dataset.json")
	if err := os.WriteFile(path, []byte(dataset), 0o644); err != nil {
		t.Fatalf("writing dataset: %v", err)
	}

	store := repository.NewMemoryStore()
	sources := map[string]source.DatasetSource{
		"bundled": bundled.NewAdapter(path),
	}
	r := newTestRouter(t, store, sources)

	w := doRequest(t, r, http.MethodPost, "/api/v1/admin/import", "")
	if w.Code != http.StatusOK {
		t.Fatalf("import status = %d: %s", w.Code, w.Body.String())
	}
	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Errorf("store holds %d records after import, want 2", count)
	}

	w = doRequest(t, r, http.MethodPost, "/api/v1/admin/import", `{"source": "nope"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown source status = %d, want 400", w.Code)
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, seedStore(t), nil)

	w := doRequest(t, r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", w.Code)
	}
	var resp struct {
		Status  string `json:"status"`
		Service string `json:"service"`
		Species int64  `json:"species"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.Status != "ok" || resp.Service != "gyodex" {
		t.Errorf("health payload = %+v", resp)
	}
	if resp.Species != 2 {
		t.Errorf("species = %d, want 2", resp.Species)
	}
}

func TestHealthDegradedOnStoreFailure(t *testing.T) {
	r := newTestRouter(t, brokenStore{}, nil)

	w := doRequest(t, r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", w.Code)
	}
	var resp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.Status != "degraded" {
		t.Errorf("status = %q, want degraded", resp.Status)
	}
}

// fakeFavorites is an in-memory FavoriteStore for router tests.
type fakeFavorites struct {
	byUser map[string][]string
}

func newFakeFavorites() *fakeFavorites {
	return &fakeFavorites{byUser: make(map[string][]string)}
}

func (f *fakeFavorites) Add(ctx context.Context, userID, fishID string) error {
	for _, id := range f.byUser[userID] {
		if id == fishID {
			return nil
		}
	}
	f.byUser[userID] = append(f.byUser[userID], fishID)
	return nil
}

func (f *fakeFavorites) Remove(ctx context.Context, userID, fishID string) error {
	ids := f.byUser[userID]
	for i, id := range ids {
		if id == fishID {
			f.byUser[userID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeFavorites) ListIDs(ctx context.Context, userID string) ([]string, error) {
	return f.byUser[userID], nil
}

func (f *fakeFavorites) IsFavorite(ctx context.Context, userID, fishID string) (bool, error) {
	for _, id := range f.byUser[userID] {
		if id == fishID {
			return true, nil
		}
	}
	return false, nil
}

func TestFavorites(t *testing.T) {
	r := newTestRouterWithFavorites(t, seedStore(t), newFakeFavorites(), nil)

	// Favoriting a missing fish is rejected.
	w := doRequest(t, r, http.MethodPut, "/api/v1/favorites/no_such_fish", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("favorite missing fish status = %d, want 404", w.Code)
	}

	w = doRequest(t, r, http.MethodPut, "/api/v1/favorites/bluefin_tuna", "")
	if w.Code != http.StatusOK {
		t.Fatalf("add favorite status = %d", w.Code)
	}

	var status struct {
		FishID    string `json:"fish_id"`
		Favorited bool   `json:"favorited"`
	}
	w = doRequest(t, r, http.MethodGet, "/api/v1/favorites/bluefin_tuna", "")
	if w.Code != http.StatusOK {
		t.Fatalf("favorite status code = %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if !status.Favorited || status.FishID != "bluefin_tuna" {
		t.Errorf("status = %+v, want favorited bluefin_tuna", status)
	}

	var list struct {
		Results []domain.Fish `json:"results"`
		Total   int           `json:"total"`
	}
	w = doRequest(t, r, http.MethodGet, "/api/v1/favorites", "")
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if list.Total != 1 || list.Results[0].ID != "bluefin_tuna" {
		t.Errorf("favorites list = %+v", list)
	}

	w = doRequest(t, r, http.MethodDelete, "/api/v1/favorites/bluefin_tuna", "")
	if w.Code != http.StatusOK {
		t.Fatalf("remove favorite status = %d", w.Code)
	}

	w = doRequest(t, r, http.MethodGet, "/api/v1/favorites/bluefin_tuna", "")
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if status.Favorited {
		t.Error("favorite survived removal")
	}
}

func TestFavoritesScopedByUser(t *testing.T) {
	r := newTestRouterWithFavorites(t, seedStore(t), newFakeFavorites(), nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/favorites/bluefin_tuna", nil)
	req.Header.Set("X-User-ID", "alice")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("add favorite status = %d", w.Code)
	}

	// The default user sees an empty list; alice sees hers.
	var list struct {
		Total int `json:"total"`
	}
	w = doRequest(t, r, http.MethodGet, "/api/v1/favorites", "")
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if list.Total != 0 {
		t.Errorf("default user favorites total = %d, want 0", list.Total)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/favorites", nil)
	req.Header.Set("X-User-ID", "alice")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if list.Total != 1 {
		t.Errorf("alice favorites total = %d, want 1", list.Total)
	}
}

package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crochet_storefront/internal/models"
)

var catalog = []models.Product{
	{ID: "1", Name: "Robe d'été", Description: "Coton léger", Price: 25000, Category: models.CategoryRobes},
	{ID: "2", Name: "Sac cabas", Description: "Anses en bois", Price: 12000, Category: models.CategoryAccessoires},
	{ID: "3", Name: "Crop top", Description: "Point ajouré", Price: 9000, Category: models.CategoryHauts},
}

type fakeElastic struct {
	mu       sync.Mutex
	requests []string
	hits     []models.Product
	failing  bool
}

func (f *fakeElastic) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	failing := f.failing
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	if failing {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
		return
	}
	if strings.HasSuffix(r.URL.Path, "/_search") {
		hits := make([]map[string]any, 0, len(f.hits))
		for _, p := range f.hits {
			hits = append(hits, map[string]any{"_id": p.ID, "_source": p})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"hits": map[string]any{"hits": hits}})
		return
	}
	_, _ = w.Write([]byte(`{"result":"ok"}`))
}

func (f *fakeElastic) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func setupElastic(t *testing.T) (*Search, *fakeElastic) {
	t.Helper()
	fake := &fakeElastic{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewSearch(client), fake
}

func names(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestSearchLocal_FoldsCaseAndAccents(t *testing.T) {
	s := NewSearch(nil)
	s.Refresh(context.Background(), catalog)

	assert.Equal(t, []string{"Robe d'été"}, names(s.Search(context.Background(), "ETE")))
	assert.Equal(t, []string{"Sac cabas"}, names(s.Search(context.Background(), "bois")))
	assert.Equal(t, []string{"Crop top"}, names(s.Search(context.Background(), "hauts")))
	assert.Empty(t, s.Search(context.Background(), "chapeau"))
}

func TestSearch_EmptyQueryReturnsCatalog(t *testing.T) {
	s := NewSearch(nil)
	s.Refresh(context.Background(), catalog)

	assert.Len(t, s.Search(context.Background(), "  "), 3)
}

func TestRefresh_IndexesAndDropsStaleDocuments(t *testing.T) {
	s, fake := setupElastic(t)
	ctx := context.Background()

	s.Refresh(ctx, catalog)
	s.Refresh(ctx, catalog[:2])

	reqs := fake.Requests()
	assert.Contains(t, reqs, "PUT /products/_doc/1")
	assert.Contains(t, reqs, "PUT /products/_doc/3")
	assert.Contains(t, reqs, "POST /products/_refresh")
	assert.Contains(t, reqs, "DELETE /products/_doc/3")
	assert.NotContains(t, reqs, "DELETE /products/_doc/1")
}

func TestSearchElastic_ReturnsHits(t *testing.T) {
	s, fake := setupElastic(t)
	fake.hits = []models.Product{catalog[1]}

	got := s.Search(context.Background(), "sac")

	assert.Equal(t, []string{"Sac cabas"}, names(got))
	assert.Contains(t, fake.Requests(), "POST /products/_search")
}

func TestSearchElastic_FallsBackOnError(t *testing.T) {
	s, fake := setupElastic(t)
	s.Refresh(context.Background(), catalog)
	fake.mu.Lock()
	fake.failing = true
	fake.mu.Unlock()

	got := s.Search(context.Background(), "robe")

	assert.Equal(t, []string{"Robe d'été"}, names(got))
}

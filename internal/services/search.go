package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"unicode"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"crochet_storefront/internal/models"
)

const ProductIndex = "products"

// Search indexe le catalogue après chaque relecture et y cherche par texte.
// Sans client Elasticsearch (ou s'il échoue), la recherche se fait sur le
// dernier catalogue reçu, sans accents ni casse.
type Search struct {
	client *elasticsearch.Client
	index  string

	mu       sync.RWMutex
	products []models.Product
	indexed  map[string]struct{}
}

func NewSearch(client *elasticsearch.Client) *Search {
	return &Search{client: client, index: ProductIndex, indexed: make(map[string]struct{})}
}

//
// --- INDEXATION DANS ELASTICSEARCH ---
//

// Refresh remplace le contenu de l'index par products. Sa signature en fait
// un abonné du catalogue (catalog.Store.OnRefresh).
func (s *Search) Refresh(ctx context.Context, products []models.Product) {
	s.mu.Lock()
	s.products = append([]models.Product(nil), products...)
	previous := s.indexed
	s.mu.Unlock()

	if s.client == nil {
		return
	}

	current := make(map[string]struct{}, len(products))
	for _, p := range products {
		if err := s.indexProduct(ctx, p); err != nil {
			log.Printf("⚠️ Elastic a refusé %s: %v", p.Name, err)
			continue
		}
		current[p.ID] = struct{}{}
	}
	for id := range previous {
		if _, ok := current[id]; ok {
			continue
		}
		if err := s.deleteProduct(ctx, id); err != nil {
			log.Printf("⚠️ Suppression Elastic %s: %v", id, err)
			current[id] = struct{}{}
		}
	}
	s.refreshIndex(ctx)

	s.mu.Lock()
	s.indexed = current
	s.mu.Unlock()
	log.Printf("✅ %d produit(s) indexé(s) dans Elasticsearch", len(products))
}

func (s *Search) indexProduct(ctx context.Context, p models.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: p.ID,
		Body:       bytes.NewReader(data),
	}
	return do(ctx, s.client, req)
}

func (s *Search) deleteProduct(ctx context.Context, id string) error {
	res, err := esapi.DeleteRequest{Index: s.index, DocumentID: id}.Do(ctx, s.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	// déjà absent de l'index : rien à faire
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return errors.New(res.String())
	}
	return nil
}

// refreshIndex rend les documents visibles pour la prochaine recherche
func (s *Search) refreshIndex(ctx context.Context) {
	if err := do(ctx, s.client, esapi.IndicesRefreshRequest{Index: []string{s.index}}); err != nil {
		log.Printf("⚠️ Refresh de l'index %s: %v", s.index, err)
	}
}

//
// --- RECHERCHE ---
//

// Search renvoie les produits correspondant à query. Une requête vide renvoie
// tout le catalogue. Les erreurs Elasticsearch sont journalisées et la
// recherche locale prend le relais.
func (s *Search) Search(ctx context.Context, query string) []models.Product {
	query = strings.TrimSpace(query)
	if query == "" {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return append([]models.Product{}, s.products...)
	}

	if s.client != nil {
		found, err := s.searchElastic(ctx, query)
		if err == nil {
			return found
		}
		log.Printf("❌ Recherche Elastic: %v (recherche locale)", err)
	}
	return s.searchLocal(query)
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.Product `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *Search) searchElastic(ctx context.Context, query string) ([]models.Product, error) {
	var buf bytes.Buffer
	q := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description", "category"},
				"fuzziness": "AUTO",
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("erreur encodage requête: %w", err)
	}

	res, err := esapi.SearchRequest{Index: []string{s.index}, Body: &buf}.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("erreur requête Elastic: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, errors.New(res.Status())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("erreur décodage JSON: %w", err)
	}
	out := make([]models.Product, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		out = append(out, hit.Source)
	}
	return out, nil
}

func (s *Search) searchLocal(query string) []models.Product {
	needle := fold(query)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Product{}
	for _, p := range s.products {
		if strings.Contains(fold(p.Name), needle) ||
			strings.Contains(fold(p.Description), needle) ||
			strings.Contains(fold(string(p.Category)), needle) {
			out = append(out, p)
		}
	}
	return out
}

// fold : minuscules sans diacritiques ("Été" → "ete")
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

type request interface {
	Do(ctx context.Context, transport esapi.Transport) (*esapi.Response, error)
}

func do(ctx context.Context, client *elasticsearch.Client, req request) error {
	res, err := req.Do(ctx, client)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return errors.New(res.String())
	}
	return nil
}

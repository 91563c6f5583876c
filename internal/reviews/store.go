// Package reviews tient les avis clients. Les avis ne sont qu'ajoutés :
// ni modification ni suppression.
package reviews

import (
	"context"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"crochet_storefront/internal/gateway"
	"crochet_storefront/internal/models"
)

const (
	MsgAddFailed   = "Impossible d'ajouter l'avis."
	MsgRatingRange = "La note doit être comprise entre 1 et 5."

	MinRating = 1
	MaxRating = 5
)

type Listener func(ctx context.Context, reviews []models.Review)

type Store struct {
	tables gateway.Tables
	now    func() time.Time

	mu        sync.RWMutex
	reviews   []models.Review
	listeners []Listener
}

func NewStore(tables gateway.Tables) *Store {
	return &Store{tables: tables, now: time.Now, reviews: []models.Review{}}
}

func (s *Store) OnRefresh(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Store) Reviews() []models.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Review, len(s.reviews))
	copy(out, s.reviews)
	return out
}

// Fetch relit tous les avis, du plus récent au plus ancien ; une erreur est
// journalisée et la liste précédente conservée
func (s *Store) Fetch(ctx context.Context) error {
	rows, err := s.tables.Select(ctx, gateway.CollectionReviews, gateway.Query{
		OrderBy:    gateway.ColumnCreatedAt,
		Descending: true,
	})
	if err != nil {
		log.Printf("❌ Erreur chargement avis: %v", err)
		return err
	}

	reviews := make([]models.Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, fromRow(row))
	}

	s.mu.Lock()
	s.reviews = reviews
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(ctx, reviews)
	}
	return nil
}

// Add enregistre un avis daté du jour (UTC) puis relit la liste
func (s *Store) Add(ctx context.Context, in models.ReviewInput) error {
	rating, err := ParseRating(string(in.Rating))
	if err != nil {
		return err
	}

	row := gateway.Row{
		"first_name": in.FirstName,
		"last_name":  in.LastName,
		"comment":    in.Comment,
		"rating":     rating,
		"image":      in.ImagePreview,
		"date":       s.now().UTC().Format("2006-01-02"),
	}
	if err := s.tables.Insert(ctx, gateway.CollectionReviews, row); err != nil {
		log.Printf("❌ Erreur création avis: %v", err)
		return &models.OperationError{Message: MsgAddFailed, Err: err}
	}
	log.Printf("⭐ Avis ajouté (note: %d/5)", rating)

	_ = s.Fetch(ctx)
	return nil
}

// ParseRating convertit la valeur du sélecteur et impose l'échelle 1-5
func ParseRating(raw string) (int, error) {
	rating, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || rating < MinRating || rating > MaxRating {
		return 0, &models.ValidationError{Message: MsgRatingRange}
	}
	return rating, nil
}

func fromRow(row gateway.Row) models.Review {
	return models.Review{
		ID:        row.String(gateway.ColumnID),
		FirstName: row.String("first_name"),
		LastName:  row.String("last_name"),
		Comment:   row.String("comment"),
		Rating:    int(row.Int64("rating")),
		Image:     row.String("image"),
		Date:      row.String("date"),
	}
}

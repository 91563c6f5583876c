// Package catalog tient la liste des produits, relue en entier depuis le
// backend après chaque écriture.
package catalog

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"crochet_storefront/internal/gateway"
	"crochet_storefront/internal/models"
)

// DefaultImage est utilisée quand ni upload ni URL ne sont fournis
const DefaultImage = "https://images.unsplash.com/photo-1544441893-675973e31d85?auto=format&fit=crop&q=80&w=800"

const (
	MsgRequired      = "Le nom et le prix sont requis."
	MsgNegativePrice = "Le prix ne peut pas être négatif."
	MsgUnknownCat    = "Catégorie inconnue."
	MsgInsertFailed  = "Échec de l'ajout du produit: "
	MsgUpdateFailed  = "Échec de la mise à jour du produit: "
	MsgDeleteFailed  = "Impossible de supprimer ce produit."
	ConfirmDelete    = "Voulez-vous vraiment supprimer ce produit ?"
)

// ErrNotConfirmed : l'utilisateur a refusé la suppression
var ErrNotConfirmed = errors.New("suppression non confirmée")

// Listener est prévenu après chaque relecture réussie du catalogue
type Listener func(ctx context.Context, products []models.Product)

type Store struct {
	tables  gateway.Tables
	storage gateway.Storage
	bucket  string

	mu        sync.RWMutex
	products  []models.Product
	listeners []Listener
}

// NewStore : bucket vide désactive la résolution des chemins d'images
func NewStore(tables gateway.Tables, storage gateway.Storage, bucket string) *Store {
	return &Store{tables: tables, storage: storage, bucket: bucket, products: []models.Product{}}
}

func (s *Store) OnRefresh(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Products renvoie une copie du catalogue courant
func (s *Store) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Get cherche un produit dans le catalogue en mémoire
func (s *Store) Get(id string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// Filter renvoie les produits d'une catégorie ; "Tous" ou "" renvoie tout
func (s *Store) Filter(category models.Category) []models.Product {
	all := s.Products()
	if category == "" || category == models.CategoryAll {
		return all
	}
	out := make([]models.Product, 0, len(all))
	for _, p := range all {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Fetch relit tout le catalogue, du plus récent au plus ancien. En cas
// d'erreur, le catalogue précédent est conservé et l'erreur journalisée.
func (s *Store) Fetch(ctx context.Context) error {
	rows, err := s.tables.Select(ctx, gateway.CollectionProducts, gateway.Query{
		OrderBy:    gateway.ColumnCreatedAt,
		Descending: true,
	})
	if err != nil {
		log.Printf("❌ Erreur chargement produits: %v", err)
		return err
	}

	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		p := fromRow(row)
		p.Image = s.resolveImage(p.Image)
		products = append(products, p)
	}

	s.mu.Lock()
	s.products = products
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(ctx, products)
	}
	return nil
}

// Save crée (existing nil) ou met à jour un produit puis relit le catalogue
func (s *Store) Save(ctx context.Context, in models.ProductInput, existing *models.Product) error {
	row, err := toRow(in)
	if err != nil {
		return err
	}

	if existing != nil {
		if err := s.tables.Update(ctx, gateway.CollectionProducts, existing.ID, row); err != nil {
			log.Printf("❌ Update error: %v", err)
			return &models.OperationError{Message: MsgUpdateFailed + backendMessage(err), Err: err}
		}
		log.Printf("✏️ Produit mis à jour: %s", existing.ID)
	} else {
		if err := s.tables.Insert(ctx, gateway.CollectionProducts, row); err != nil {
			log.Printf("❌ Insert error: %v", err)
			return &models.OperationError{Message: MsgInsertFailed + backendMessage(err), Err: err}
		}
		log.Printf("🧶 Produit ajouté: %s", in.Name)
	}

	_ = s.Fetch(ctx)
	return nil
}

// Delete demande confirmation, supprime puis relit le catalogue
func (s *Store) Delete(ctx context.Context, id string, confirm func(prompt string) bool) error {
	if confirm == nil || !confirm(ConfirmDelete) {
		return ErrNotConfirmed
	}
	if err := s.tables.Delete(ctx, gateway.CollectionProducts, id); err != nil {
		log.Printf("❌ Erreur suppression produit %s: %v", id, err)
		return &models.OperationError{Message: MsgDeleteFailed, Err: err}
	}
	log.Printf("🗑️ Produit supprimé: %s", id)

	_ = s.Fetch(ctx)
	return nil
}

// Ping vérifie que la table products répond
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.tables.Select(ctx, gateway.CollectionProducts, gateway.Query{Columns: []string{gateway.ColumnID}, Limit: 1})
	return err
}

// resolveImage transforme un chemin du bucket en URL publique ; en cas
// d'échec la valeur d'origine est gardée
func (s *Store) resolveImage(img string) string {
	if s.bucket == "" || s.storage == nil || img == "" {
		return img
	}
	if strings.HasPrefix(img, "http") || strings.HasPrefix(img, "data:") {
		return img
	}
	url, err := s.storage.PublicURL(s.bucket, img)
	if err != nil || url == "" {
		log.Printf("⚠️ URL publique impossible pour %s: %v", img, err)
		return img
	}
	return url
}

func toRow(in models.ProductInput) (gateway.Row, error) {
	if strings.TrimSpace(in.Name) == "" || in.Price == 0 {
		return nil, &models.ValidationError{Message: MsgRequired}
	}
	if in.Price < 0 {
		return nil, &models.ValidationError{Message: MsgNegativePrice}
	}
	category := in.Category
	if category == "" {
		category = models.CategoryHauts
	}
	if !category.Valid() {
		return nil, &models.ValidationError{Message: MsgUnknownCat}
	}

	return gateway.Row{
		"name":        in.Name,
		"description": in.Description,
		"price":       in.Price,
		"image":       pickImage(in),
		"category":    string(category),
	}, nil
}

// pickImage : upload/preview > URL saisie > image par défaut
func pickImage(in models.ProductInput) string {
	if in.ImagePreview != "" {
		return in.ImagePreview
	}
	if in.ImageURL != "" {
		return in.ImageURL
	}
	return DefaultImage
}

func fromRow(row gateway.Row) models.Product {
	return models.Product{
		ID:          row.String(gateway.ColumnID),
		Name:        row.String("name"),
		Description: row.String("description"),
		Price:       row.Int64("price"),
		Image:       row.String("image"),
		Category:    models.Category(row.String("category")),
	}
}

func backendMessage(err error) string {
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) {
		return gwErr.Message
	}
	return err.Error()
}

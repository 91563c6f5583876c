// Package storefront relie les briques de la boutique : état partagé (Shop)
// et état propre à chaque visiteur (Session).
package storefront

import (
	"context"
	"errors"
	"log"

	"crochet_storefront/internal/cache"
	"crochet_storefront/internal/catalog"
	"crochet_storefront/internal/checkout"
	"crochet_storefront/internal/config"
	"crochet_storefront/internal/gateway"
	"crochet_storefront/internal/images"
	"crochet_storefront/internal/models"
	"crochet_storefront/internal/reviews"
	"crochet_storefront/internal/services"
)

// HealthOK est le message du test de connexion réussi
const HealthOK = "Test de connexion réussi : la connexion fonctionne."

// Shop est l'état commun à tous les visiteurs
type Shop struct {
	Settings config.Settings
	Catalog  *catalog.Store
	Reviews  *reviews.Store
	Composer *checkout.Composer
	Images   *images.Acquirer
	Search   *services.Search
	Themes   cache.ThemeStore
}

// NewShop câble les stores sur le backend. search et themes peuvent être nil :
// recherche et thème passent alors en mémoire.
func NewShop(s config.Settings, tables gateway.Tables, storage gateway.Storage, search *services.Search, themes cache.ThemeStore) *Shop {
	if search == nil {
		search = services.NewSearch(nil)
	}
	if themes == nil {
		themes = cache.NewMemoryThemes()
	}
	shop := &Shop{
		Settings: s,
		Catalog:  catalog.NewStore(tables, storage, s.StorageBucket),
		Reviews:  reviews.NewStore(tables),
		Composer: checkout.NewComposer(s.WhatsAppNumber, ""),
		Images:   images.NewAcquirer(storage, s.StorageBucket),
		Search:   search,
		Themes:   themes,
	}
	shop.Catalog.OnRefresh(search.Refresh)
	return shop
}

// Load fait la lecture initiale des produits et des avis, indépendamment
func (s *Shop) Load(ctx context.Context) error {
	errProducts := s.Catalog.Fetch(ctx)
	errReviews := s.Reviews.Fetch(ctx)
	if err := errors.Join(errProducts, errReviews); err != nil {
		return err
	}
	log.Printf("✅ Boutique chargée : %d produit(s), %d avis", len(s.Catalog.Products()), len(s.Reviews.Reviews()))
	return nil
}

// CheckGateway est le test de connexion au backend
func (s *Shop) CheckGateway(ctx context.Context) error {
	if err := s.Catalog.Ping(ctx); err != nil {
		log.Printf("❌ Test de connexion échoué: %v", err)
		return err
	}
	return nil
}

func (s *Shop) Products(category models.Category) []models.Product {
	return s.Catalog.Filter(category)
}

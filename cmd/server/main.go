package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"crochet_storefront/internal/cache"
	"crochet_storefront/internal/config"
	"crochet_storefront/internal/database"
	"crochet_storefront/internal/events"
	"crochet_storefront/internal/gateway"
	"crochet_storefront/internal/handlers"
	"crochet_storefront/internal/middleware"
	"crochet_storefront/internal/routes"
	"crochet_storefront/internal/services"
	"crochet_storefront/internal/storefront"
)

const (
	sessionMaxIdle = 24 * time.Hour
	sweepEvery     = 30 * time.Minute
)

func main() {
	config.Load()
	settings := config.FromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conns, err := database.Connect(ctx, settings)
	if err != nil {
		log.Fatal("❌ ", err)
	}
	defer conns.Close()

	tables, storage := backend(conns)

	var themes cache.ThemeStore = cache.NewMemoryThemes()
	if conns.Redis != nil {
		themes = cache.NewRedisThemes(conns.Redis)
	}

	shop := storefront.NewShop(settings, tables, storage, services.NewSearch(conns.Elastic), themes)
	hub := events.NewHub(nil)
	shop.Catalog.OnRefresh(hub.ProductsRefreshed)
	shop.Reviews.OnRefresh(hub.ReviewsRefreshed)

	// un backend injoignable au démarrage laisse la vitrine vide, pas hors service
	if err := shop.Load(ctx); err != nil {
		log.Printf("⚠️ Chargement initial incomplet: %v", err)
	}

	registry := storefront.NewRegistry(shop)
	go sweepSessions(ctx, registry)

	r := gin.Default()
	h := handlers.New(shop, registry, hub)
	cookies := middleware.NewCookieStore(settings.SessionSecret, len(settings.AllowedOrigins) > 0)
	routes.RegisterRoutes(r, h, cookies, settings.AllowedOrigins)

	srv := &http.Server{Addr: ":" + settings.Port, Handler: r}
	go func() {
		log.Printf("🚀 Boutique %s lancée sur le port %s", settings.BrandName, settings.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("❌ Serveur arrêté: ", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Arrêt du serveur...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Arrêt forcé: %v", err)
	}
}

// backend choisit ScyllaDB quand il est configuré, des tables en mémoire
// sinon. Sans MinIO il n'y a pas de stockage objet : les images restent en
// data URL.
func backend(conns *database.Connections) (gateway.Tables, gateway.Storage) {
	var tables gateway.Tables = gateway.NewMemory("")
	if conns.Scylla != nil {
		tables = gateway.NewScylla(conns.Scylla)
	}
	var storage gateway.Storage
	if conns.MinIO != nil {
		storage = gateway.NewMinIO(conns.MinIO)
	}
	return tables, storage
}

func sweepSessions(ctx context.Context, registry *storefront.Registry) {
	ticker := time.NewTicker(sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := registry.Sweep(sessionMaxIdle); n > 0 {
				log.Printf("🧹 %d session(s) visiteur expirée(s)", n)
			}
		}
	}
}

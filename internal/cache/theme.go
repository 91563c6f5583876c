// Package cache garde les préférences de thème des visiteurs, dans Redis
// quand il est configuré, sinon en mémoire.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ThemeKey est la clé de préférence, suffixée par l'id du visiteur
const ThemeKey = "mc_theme"

// ThemeTTL : une préférence non relue depuis 6 mois est oubliée
const ThemeTTL = 180 * 24 * time.Hour

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// ParseTheme : "dark" donne le thème sombre, toute autre valeur le clair
func ParseTheme(raw string) Theme {
	if raw == string(Dark) {
		return Dark
	}
	return Light
}

// Toggled renvoie le thème opposé
func (t Theme) Toggled() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

type ThemeStore interface {
	Theme(ctx context.Context, visitor string) (Theme, error)
	SetTheme(ctx context.Context, visitor string, t Theme) error
}

func themeKey(visitor string) string {
	return fmt.Sprintf("%s:%s", ThemeKey, visitor)
}

// =============================================
// REDIS
// =============================================

type RedisThemes struct {
	client *redis.Client
}

func NewRedisThemes(client *redis.Client) *RedisThemes {
	return &RedisThemes{client: client}
}

// Theme lit la préférence ; absente, elle vaut Light
func (r *RedisThemes) Theme(ctx context.Context, visitor string) (Theme, error) {
	val, err := r.client.Get(ctx, themeKey(visitor)).Result()
	if errors.Is(err, redis.Nil) {
		return Light, nil
	}
	if err != nil {
		log.Printf("⚠️ Erreur lecture thème %s: %v", visitor, err)
		return Light, err
	}
	// relire prolonge la préférence
	r.client.Expire(ctx, themeKey(visitor), ThemeTTL)
	return ParseTheme(val), nil
}

func (r *RedisThemes) SetTheme(ctx context.Context, visitor string, t Theme) error {
	return r.client.Set(ctx, themeKey(visitor), string(t), ThemeTTL).Err()
}

// =============================================
// MÉMOIRE
// =============================================

type MemoryThemes struct {
	mu     sync.RWMutex
	themes map[string]Theme
}

func NewMemoryThemes() *MemoryThemes {
	return &MemoryThemes{themes: make(map[string]Theme)}
}

func (m *MemoryThemes) Theme(_ context.Context, visitor string) (Theme, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.themes[visitor]; ok {
		return t, nil
	}
	return Light, nil
}

func (m *MemoryThemes) SetTheme(_ context.Context, visitor string, t Theme) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.themes[visitor] = t
	return nil
}

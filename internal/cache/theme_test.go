package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*RedisThemes, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisThemes(client), mr
}

func TestRedisThemes_DefaultsToLight(t *testing.T) {
	store, _ := setupRedis(t)

	got, err := store.Theme(context.Background(), "v1")

	require.NoError(t, err)
	assert.Equal(t, Light, got)
}

func TestRedisThemes_SetAndGet(t *testing.T) {
	store, mr := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, store.SetTheme(ctx, "v1", Dark))

	got, err := store.Theme(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, Dark, got)

	raw, err := mr.Get("mc_theme:v1")
	require.NoError(t, err)
	assert.Equal(t, "dark", raw)
	assert.Equal(t, ThemeTTL, mr.TTL("mc_theme:v1"))
}

func TestRedisThemes_UnknownValueIsLight(t *testing.T) {
	store, mr := setupRedis(t)
	require.NoError(t, mr.Set("mc_theme:v2", "sepia"))

	got, err := store.Theme(context.Background(), "v2")

	require.NoError(t, err)
	assert.Equal(t, Light, got)
}

func TestRedisThemes_VisitorsAreIsolated(t *testing.T) {
	store, _ := setupRedis(t)
	ctx := context.Background()
	require.NoError(t, store.SetTheme(ctx, "a", Dark))

	got, err := store.Theme(ctx, "b")

	require.NoError(t, err)
	assert.Equal(t, Light, got)
}

func TestRedisThemes_ServerDownReportsError(t *testing.T) {
	store, mr := setupRedis(t)
	mr.Close()

	got, err := store.Theme(context.Background(), "v1")

	assert.Error(t, err)
	assert.Equal(t, Light, got)
}

func TestMemoryThemes(t *testing.T) {
	store := NewMemoryThemes()
	ctx := context.Background()

	got, _ := store.Theme(ctx, "v1")
	assert.Equal(t, Light, got)

	require.NoError(t, store.SetTheme(ctx, "v1", Dark))
	got, _ = store.Theme(ctx, "v1")
	assert.Equal(t, Dark, got)
}

func TestTheme_Toggled(t *testing.T) {
	assert.Equal(t, Dark, Light.Toggled())
	assert.Equal(t, Light, Dark.Toggled())
	assert.Equal(t, Light, ParseTheme(""))
	assert.Equal(t, Dark, ParseTheme("dark"))
}

package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crochet_storefront/internal/config"
)

func TestConnect_NothingConfigured(t *testing.T) {
	conns, err := Connect(context.Background(), config.Settings{})

	require.NoError(t, err)
	assert.Nil(t, conns.Scylla)
	assert.Nil(t, conns.Redis)
	assert.Nil(t, conns.Elastic)
	assert.Nil(t, conns.MinIO)
	conns.Close()
}

func TestConnect_UnreachableRedisFails(t *testing.T) {
	_, err := Connect(context.Background(), config.Settings{RedisHost: "127.0.0.1:1"})

	assert.ErrorContains(t, err, "Redis")
}

func TestEnsureKeyspace_RejectsUnsafeName(t *testing.T) {
	for _, name := range []string{"", "Shop", "shop; DROP", "1shop"} {
		assert.Error(t, EnsureKeyspace(nil, name), name)
	}
}

func TestTableDefinitions(t *testing.T) {
	require.Len(t, tableDefinitions, 2)
	assert.Contains(t, tableDefinitions[0], "products")
	assert.Contains(t, tableDefinitions[1], "rating int")
}

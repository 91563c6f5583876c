package gateway

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SelectOrdersByCreatedAtDesc(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("https://backend.test")
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	m.SetClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	})

	for _, name := range []string{"Top", "Robe", "Sac"} {
		require.NoError(t, m.Insert(ctx, CollectionProducts, Row{"name": name}))
	}

	rows, err := m.Select(ctx, CollectionProducts, Query{OrderBy: ColumnCreatedAt, Descending: true})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Sac", rows[0].String("name"))
	assert.Equal(t, "Top", rows[2].String("name"))
	assert.NotEmpty(t, rows[0].String(ColumnID))
}

func TestMemory_SelectByIDAndLimit(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("")
	require.NoError(t, m.Insert(ctx, CollectionProducts, Row{"id": "a", "name": "A"}))
	require.NoError(t, m.Insert(ctx, CollectionProducts, Row{"id": "b", "name": "B"}))

	rows, err := m.Select(ctx, CollectionProducts, Query{ID: "b"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "B", rows[0].String("name"))

	rows, err = m.Select(ctx, CollectionProducts, Query{Columns: []string{"id"}, Limit: 1})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.NotContains(t, rows[0], "name")
}

func TestMemory_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("")
	require.NoError(t, m.Insert(ctx, CollectionProducts, Row{"id": "a", "price": int64(1000)}))

	require.NoError(t, m.Update(ctx, CollectionProducts, "a", Row{"price": int64(2000)}))
	rows, _ := m.Select(ctx, CollectionProducts, Query{ID: "a"})
	assert.Equal(t, int64(2000), rows[0].Int64("price"))

	err := m.Update(ctx, CollectionProducts, "missing", Row{"price": int64(1)})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Delete(ctx, CollectionProducts, "a"))
	rows, _ = m.Select(ctx, CollectionProducts, Query{})
	assert.Empty(t, rows)
}

func TestMemory_InjectedFailureCarriesBackendMessage(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("")
	m.Fail(OpInsert, errors.New("permission denied for table products"))

	err := m.Insert(ctx, CollectionProducts, Row{"name": "x"})
	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "permission denied for table products", gwErr.Message)
	assert.Equal(t, 1, m.Calls(OpInsert))

	m.Fail(OpInsert, nil)
	assert.NoError(t, m.Insert(ctx, CollectionProducts, Row{"name": "x"}))
}

func TestMemory_UploadRefusesOverwrite(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("https://backend.test")

	require.NoError(t, m.Upload(ctx, "images", "products/1_a.png", strings.NewReader("png"), 3, UploadOptions{}))
	err := m.Upload(ctx, "images", "products/1_a.png", strings.NewReader("png"), 3, UploadOptions{})
	assert.ErrorIs(t, err, ErrObjectExists)

	url, err := m.PublicURL("images", "products/1_a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://backend.test/storage/v1/object/public/images/products/1_a.png", url)
}

func TestRow_Conversions(t *testing.T) {
	r := Row{"a": 12, "b": float64(18000), "c": "45000", "d": nil}
	assert.Equal(t, int64(12), r.Int64("a"))
	assert.Equal(t, int64(18000), r.Int64("b"))
	assert.Equal(t, int64(45000), r.Int64("c"))
	assert.Equal(t, "", r.String("d"))
	assert.Equal(t, "12", r.String("a"))
}

func TestBuildCQL(t *testing.T) {
	stmt, args, err := buildSelect(CollectionProducts, Query{Columns: []string{"id"}, OrderBy: ColumnCreatedAt, Descending: true})
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, created_at FROM products", stmt)
	assert.Empty(t, args)

	stmt, args, err = buildSelect(CollectionProducts, Query{ID: "x", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM products WHERE id = ? LIMIT 1", stmt)
	assert.Equal(t, []interface{}{"x"}, args)

	stmt, args, err = buildInsert(CollectionReviews, Row{"rating": 5, "id": "r1"})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO reviews (id, rating) VALUES (?, ?)", stmt)
	assert.Equal(t, []interface{}{"r1", 5}, args)

	stmt, args, err = buildUpdate(CollectionProducts, "p1", Row{"price": int64(10), "name": "N", "id": "ignored"})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE products SET name = ?, price = ? WHERE id = ?", stmt)
	assert.Equal(t, []interface{}{"N", int64(10), "p1"}, args)

	_, _, err = buildInsert("products; DROP TABLE x", Row{"a": 1})
	assert.Error(t, err)
	_, _, err = buildUpdate(CollectionProducts, "p1", Row{"name = 'x' --": 1})
	assert.Error(t, err)
}

func TestMinIO_PublicURL(t *testing.T) {
	client, err := minio.New("cdn.example.com:9000", &minio.Options{
		Creds:  credentials.NewStaticV4("key", "secret", ""),
		Secure: true,
	})
	require.NoError(t, err)

	url, err := NewMinIO(client).PublicURL("crochet", "products/1700000000000_robe.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com:9000/crochet/products/1700000000000_robe.png", url)

	_, err = NewMinIO(client).PublicURL("", "x")
	assert.Error(t, err)
}

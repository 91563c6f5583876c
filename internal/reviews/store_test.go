package reviews

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crochet_storefront/internal/gateway"
	"crochet_storefront/internal/models"
)

func setupStore(t *testing.T) (*Store, *gateway.Memory) {
	t.Helper()
	mem := gateway.NewMemory("")
	base := time.Date(2025, 6, 10, 23, 30, 0, 0, time.UTC)
	tick := 0
	mem.SetClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	})
	s := NewStore(mem)
	s.now = func() time.Time { return time.Date(2025, 6, 11, 1, 15, 0, 0, time.FixedZone("WAT", 3600)) }
	return s, mem
}

func TestAdd_BuildsDatedRowAndRefetches(t *testing.T) {
	s, mem := setupStore(t)

	err := s.Add(context.Background(), models.ReviewInput{
		FirstName: "Awa", LastName: "K.", Comment: "Magnifique robe", Rating: "5",
		ImagePreview: "data:image/png;base64,AA",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, mem.Calls(gateway.OpSelect))
	got := s.Reviews()
	require.Len(t, got, 1)
	assert.Equal(t, "Awa", got[0].FirstName)
	assert.Equal(t, 5, got[0].Rating)
	assert.Equal(t, "2025-06-11", got[0].Date)
	assert.Equal(t, "data:image/png;base64,AA", got[0].Image)
	assert.NotEmpty(t, got[0].ID)
}

func TestAdd_DateIsUTCCalendarDay(t *testing.T) {
	s, _ := setupStore(t)
	s.now = func() time.Time { return time.Date(2025, 1, 1, 0, 30, 0, 0, time.FixedZone("WAT", 3600)) }

	require.NoError(t, s.Add(context.Background(), models.ReviewInput{FirstName: "A", Rating: "4"}))

	assert.Equal(t, "2024-12-31", s.Reviews()[0].Date)
}

func TestAdd_RatingOutOfRangeMakesNoCall(t *testing.T) {
	for _, raw := range []models.RatingInput{"0", "6", "-1", "", "cinq", "4.5"} {
		s, mem := setupStore(t)

		err := s.Add(context.Background(), models.ReviewInput{FirstName: "A", Rating: raw})

		var vErr *models.ValidationError
		require.ErrorAs(t, err, &vErr, raw)
		assert.Equal(t, MsgRatingRange, vErr.Message)
		assert.Zero(t, mem.Calls(gateway.OpInsert))
	}
}

func TestAdd_FailureGenericMessage(t *testing.T) {
	s, mem := setupStore(t)
	mem.Fail(gateway.OpInsert, errors.New("permission denied for table reviews"))

	err := s.Add(context.Background(), models.ReviewInput{FirstName: "A", Rating: "3"})

	var opErr *models.OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, MsgAddFailed, opErr.Message)
	assert.Zero(t, mem.Calls(gateway.OpSelect))
}

func TestFetch_NewestFirstAndStaleOnError(t *testing.T) {
	s, mem := setupStore(t)
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, models.ReviewInput{FirstName: "Premier", Rating: "4"}))
	require.NoError(t, s.Add(ctx, models.ReviewInput{FirstName: "Second", Rating: "5"}))

	got := s.Reviews()
	require.Len(t, got, 2)
	assert.Equal(t, "Second", got[0].FirstName)

	mem.Fail(gateway.OpSelect, errors.New("timeout"))
	assert.Error(t, s.Fetch(ctx))
	assert.Equal(t, got, s.Reviews())
}

func TestParseRating(t *testing.T) {
	for raw, want := range map[string]int{"1": 1, " 3 ": 3, "5": 5} {
		got, err := ParseRating(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdesk/internal/core/apperror"
	"bizdesk/internal/core/id"
	"bizdesk/internal/core/types"
	"bizdesk/internal/domain/dashboard"
)

func sampleStats() dashboard.Stats {
	return dashboard.Stats{
		TodaySales:     types.MustMoney("12.50"),
		MonthSales:     types.MustMoney("99.00"),
		TotalCustomers: 4,
		CashFlow:       types.MustMoney("-3.25"),
		TopProducts:    []dashboard.ProductSales{{Name: "Bread", Quantity: 7}},
		ComputedAt:     time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestLocalCache_DayAndExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	c := NewLocalCache(time.Minute)
	c.now = func() time.Time { return now }
	owner := id.New()

	require.NoError(t, c.Set(ctx, owner, "2024-01-15", 0, sampleStats()))

	got, _, err := c.Get(ctx, owner, "2024-01-15")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 4, got.TotalCustomers)

	got, _, _ = c.Get(ctx, owner, "2024-01-16")
	assert.Nil(t, got, "another day is a miss")

	got, _, _ = c.Get(ctx, id.New(), "2024-01-15")
	assert.Nil(t, got, "another owner is a miss")

	now = now.Add(time.Minute)
	got, _, _ = c.Get(ctx, owner, "2024-01-15")
	assert.Nil(t, got, "expired")
}

func TestLocalCache_DeleteAndIsolation(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache(time.Hour)
	owner := id.New()
	st := sampleStats()

	require.NoError(t, c.Set(ctx, owner, "2024-01-15", 0, st))
	st.TopProducts[0].Quantity = 100

	got, _, _ := c.Get(ctx, owner, "2024-01-15")
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.TopProducts[0].Quantity)

	require.NoError(t, c.Delete(ctx, owner))
	got, _, _ = c.Get(ctx, owner, "2024-01-15")
	assert.Nil(t, got)
}

func TestLocalCache_SetAfterDeleteIsDropped(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache(time.Hour)
	owner := id.New()

	_, gen, err := c.Get(ctx, owner, "2024-01-15")
	require.NoError(t, err)

	// a write lands while stats are being computed
	require.NoError(t, c.Delete(ctx, owner))
	require.NoError(t, c.Set(ctx, owner, "2024-01-15", gen, sampleStats()))

	got, next, _ := c.Get(ctx, owner, "2024-01-15")
	assert.Nil(t, got, "stats computed before the delete are not stored")
	assert.Equal(t, gen+1, next)

	require.NoError(t, c.Set(ctx, owner, "2024-01-15", next, sampleStats()))
	got, _, _ = c.Get(ctx, owner, "2024-01-15")
	assert.NotNil(t, got)
}

func TestDashboardKey(t *testing.T) {
	owner := id.MustParse("018f0000-0000-7000-8000-000000000001")
	assert.Equal(t, "dashboard:018f0000-0000-7000-8000-000000000001", dashboardKey(owner))
	assert.Equal(t, "dashboard:018f0000-0000-7000-8000-000000000001:gen", generationKey(owner))
}

// The tests below need a disposable Redis, e.g. REDIS_TEST_URL=redis://localhost:6379/15.
func redisURL(t *testing.T) string {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	return url
}

func TestDashboardCache_Redis(t *testing.T) {
	ctx := context.Background()
	client, err := NewRedisClient(ctx, redisURL(t))
	require.NoError(t, err)
	defer client.Close()

	c := NewDashboardCache(client, time.Minute)
	owner := id.New()
	defer c.Delete(ctx, owner)

	got, gen, err := c.Get(ctx, owner, "2024-01-15")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, int64(0), gen)

	require.NoError(t, c.Set(ctx, owner, "2024-01-15", gen, sampleStats()))
	got, _, err = c.Get(ctx, owner, "2024-01-15")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.CashFlow.Equal(types.MustMoney("-3.25")))
	assert.Equal(t, sampleStats().TopProducts, got.TopProducts)

	require.NoError(t, c.Delete(ctx, owner))
	got, next, err := c.Get(ctx, owner, "2024-01-15")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, gen+1, next)

	// stale generation
	require.NoError(t, c.Set(ctx, owner, "2024-01-15", gen, sampleStats()))
	got, _, err = c.Get(ctx, owner, "2024-01-15")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLocker_Redis(t *testing.T) {
	ctx := context.Background()
	client, err := NewRedisClient(ctx, redisURL(t))
	require.NoError(t, err)
	defer client.Close()

	l := NewLocker(client)
	key := "test:" + id.New().String()

	release, err := l.Obtain(ctx, key, 5*time.Second)
	require.NoError(t, err)

	_, err = l.Obtain(ctx, key, 5*time.Second)
	assert.True(t, apperror.HasCode(err, apperror.CodeConflict))

	release(ctx)
	release2, err := l.Obtain(ctx, key, 5*time.Second)
	require.NoError(t, err)
	release2(ctx)
}

package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardfolio/cardfolio-backend/internal/cards/domain"
)

func setupViewCache(t *testing.T) (*ViewCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewViewCache(client), mr
}

func TestViewCache_RoundTrip(t *testing.T) {
	cache, _ := setupViewCache(t)
	ctx := context.Background()

	card := &domain.PublicCard{
		Profile: domain.Profile{PublicID: "card-11111-2222", Slug: "abc123", FirstName: "Ada", LastName: "Lovelace"},
		Design:  &domain.Design{PublicID: "dsgn-55555-6666", IsPrimary: true},
	}

	require.NoError(t, cache.Set(ctx, "abc123", card))

	got, err := cache.Get(ctx, "abc123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ada", got.Profile.FirstName)
	require.NotNil(t, got.Design)
	assert.True(t, got.Design.IsPrimary)
}

func TestViewCache_Miss(t *testing.T) {
	cache, _ := setupViewCache(t)

	got, err := cache.Get(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestViewCache_Invalidate(t *testing.T) {
	cache, _ := setupViewCache(t)
	ctx := context.Background()

	card := &domain.PublicCard{Profile: domain.Profile{Slug: "abc123"}}
	require.NoError(t, cache.Set(ctx, "abc123", card))

	require.NoError(t, cache.Invalidate(ctx, "abc123", "", "other"))

	got, err := cache.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestViewCache_TTLSet(t *testing.T) {
	cache, mr := setupViewCache(t)

	card := &domain.PublicCard{Profile: domain.Profile{Slug: "abc123"}}
	require.NoError(t, cache.Set(context.Background(), "abc123", card))

	assert.Greater(t, mr.TTL("card:view:abc123").Seconds(), 0.0)
}

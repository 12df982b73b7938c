package catalog

import (
	"context"
	"testing"
	"time"

	"medisupply/mobile/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	page := &domain.CatalogPage{Meta: domain.PageMeta{Page: 2, Total: 7}}

	_, ok := c.Get(ctx, "k")
	require.False(t, ok)

	c.Set(ctx, "k", page, time.Minute)
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, 7, got.Meta.Total)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	c.Set(ctx, "k", &domain.CatalogPage{}, time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCacheIgnoresNonPositiveTTL(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	c.Set(ctx, "k", &domain.CatalogPage{}, 0)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

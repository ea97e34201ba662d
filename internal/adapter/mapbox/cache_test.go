package mapbox

import (
	"context"
	"errors"
	"testing"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingGeocoder struct {
	calls  int
	result domain.GeocodingResult
	err    error
}

func (m *countingGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (domain.GeocodingResult, error) {
	m.calls++
	return m.result, m.err
}

// --- CachedGeocoder tests ---

func TestCachedGeocoder_CacheHit(t *testing.T) {
	inner := &countingGeocoder{
		result: domain.GeocodingResult{FormattedAddress: "Willow, Alaska, United States", PlaceName: "Willow"},
	}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedGeocoder(inner, 10, metrics)

	r1, err := cached.ReverseGeocode(context.Background(), 61.7349, -150.0155)
	require.NoError(t, err)
	assert.Equal(t, "Willow", r1.PlaceName)

	r2, err := cached.ReverseGeocode(context.Background(), 61.7349, -150.0155)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)

	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.GeocodeCache.WithLabelValues("hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.GeocodeCache.WithLabelValues("miss")), 0)
}

func TestCachedGeocoder_NearbyCoordinatesShareEntry(t *testing.T) {
	inner := &countingGeocoder{result: domain.GeocodingResult{FormattedAddress: "Willow"}}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.ReverseGeocode(context.Background(), 61.73490, -150.01550)
	_, _ = cached.ReverseGeocode(context.Background(), 61.73491, -150.01549)

	assert.Equal(t, 1, inner.calls)
}

func TestCachedGeocoder_DifferentKeysMiss(t *testing.T) {
	inner := &countingGeocoder{result: domain.GeocodingResult{FormattedAddress: "Somewhere"}}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.ReverseGeocode(context.Background(), 61.7349, -150.0155)
	_, _ = cached.ReverseGeocode(context.Background(), 19.41, -155.2786)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedGeocoder_EmptyAndErrorsNotCached(t *testing.T) {
	inner := &countingGeocoder{}
	cached := NewCachedGeocoder(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.ReverseGeocode(context.Background(), 1, 1)
	_, _ = cached.ReverseGeocode(context.Background(), 1, 1)
	assert.Equal(t, 2, inner.calls)

	inner.err = errors.New("boom")
	_, err := cached.ReverseGeocode(context.Background(), 2, 2)
	require.Error(t, err)
	assert.Zero(t, cached.cache.size())
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache[string, int](3)

	c.put("a", 1)
	c.put("b", 2)

	v, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache[string, string](2)

	c.put("a", "A")
	c.put("b", "B")
	c.put("c", "C") // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	v, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, "B", v)

	v, ok = c.get("c")
	assert.True(t, ok)
	assert.Equal(t, "C", v)
	assert.Equal(t, 2, c.size())
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache[string, string](2)

	c.put("a", "A")
	c.put("b", "B")

	c.get("a")

	// "b" is now least recently used
	c.put("c", "C")

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache[string, string](2)

	c.put("a", "A1")
	c.put("a", "A2")

	v, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A2", v)
	assert.Equal(t, 1, c.size())
}

func TestLRUCache_MinimumCapacity(t *testing.T) {
	c := newLRUCache[int, int](0)

	c.put(1, 1)
	c.put(2, 2)

	assert.Equal(t, 1, c.size())
	_, ok := c.get(2)
	assert.True(t, ok)
}

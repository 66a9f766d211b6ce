package comps

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pembroke-collections/acquisition-engine/internal/model"
	"github.com/pembroke-collections/acquisition-engine/pkg/marketstall"
)

// fakeSource scripts per-query responses for one tag.
type fakeSource struct {
	tag     model.SourceTag
	byQuery map[string][]model.RawComparable
	err     error
	calls   atomic.Int32
}

func (s *fakeSource) Tag() model.SourceTag { return s.tag }

func (s *fakeSource) Fetch(ctx context.Context, query string) ([]model.RawComparable, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.byQuery[query], nil
}

func usable(tag model.SourceTag, n int) []model.RawComparable {
	out := make([]model.RawComparable, n)
	for i := range out {
		out[i] = model.RawComparable{Source: tag, Title: "listing", PriceText: "$100"}
	}
	return out
}

func TestFetchAll_BothSources(t *testing.T) {
	sold := &fakeSource{tag: model.SourceSold, byQuery: map[string][]model.RawComparable{
		"primary": usable(model.SourceSold, 4),
	}}
	offered := &fakeSource{tag: model.SourceOffered, byQuery: map[string][]model.RawComparable{
		"primary": usable(model.SourceOffered, 3),
	}}

	f := NewFetcher(nil, 3, sold, offered)
	got := f.FetchAll(context.Background(), "primary", "simple", false)

	assert.Len(t, got[model.SourceSold], 4)
	assert.Len(t, got[model.SourceOffered], 3)
	assert.Equal(t, int32(1), sold.calls.Load())
	assert.Equal(t, int32(1), offered.calls.Load())
}

func TestFetchAll_SimplifiedFallbackOnThinResult(t *testing.T) {
	sold := &fakeSource{tag: model.SourceSold, byQuery: map[string][]model.RawComparable{
		"primary": usable(model.SourceSold, 1),
		"simple":  usable(model.SourceSold, 5),
	}}

	f := NewFetcher(nil, 3, sold)
	got := f.FetchAll(context.Background(), "primary", "simple", false)

	assert.Len(t, got[model.SourceSold], 5)
	assert.Equal(t, int32(2), sold.calls.Load())
}

func TestFetchAll_FallbackKeepsPrimaryWhenWorse(t *testing.T) {
	sold := &fakeSource{tag: model.SourceSold, byQuery: map[string][]model.RawComparable{
		"primary": usable(model.SourceSold, 2),
		"simple":  usable(model.SourceSold, 1),
	}}

	f := NewFetcher(nil, 3, sold)
	got := f.FetchAll(context.Background(), "primary", "simple", false)
	assert.Len(t, got[model.SourceSold], 2)
}

func TestFetchAll_ErrorDegradesToEmpty(t *testing.T) {
	sold := &fakeSource{tag: model.SourceSold, err: eris.New("marketplace down")}
	offered := &fakeSource{tag: model.SourceOffered, byQuery: map[string][]model.RawComparable{
		"primary": usable(model.SourceOffered, 3),
	}}

	f := NewFetcher(nil, 3, sold, offered)
	got := f.FetchAll(context.Background(), "primary", "simple", false)

	assert.Empty(t, got[model.SourceSold])
	assert.Len(t, got[model.SourceOffered], 3)
}

func TestFetchAll_CacheHitSkipsFetch(t *testing.T) {
	cache := NewMemoryCache(8, time.Minute)
	cache.Put(model.SourceSold, "primary", usable(model.SourceSold, 4))

	sold := &fakeSource{tag: model.SourceSold}
	f := NewFetcher(cache, 3, sold)
	got := f.FetchAll(context.Background(), "primary", "simple", false)

	assert.Len(t, got[model.SourceSold], 4)
	assert.Equal(t, int32(0), sold.calls.Load())
}

func TestFetchAll_RefreshBypassesCache(t *testing.T) {
	cache := NewMemoryCache(8, time.Minute)
	cache.Put(model.SourceSold, "primary", usable(model.SourceSold, 4))

	sold := &fakeSource{tag: model.SourceSold, byQuery: map[string][]model.RawComparable{
		"primary": usable(model.SourceSold, 6),
	}}
	f := NewFetcher(cache, 3, sold)
	got := f.FetchAll(context.Background(), "primary", "simple", true)

	assert.Len(t, got[model.SourceSold], 6)
	assert.Equal(t, int32(1), sold.calls.Load())

	// The refreshed result replaced the cached one.
	cached, ok := cache.Get(model.SourceSold, "primary")
	require.True(t, ok)
	assert.Len(t, cached, 6)
}

func TestUsableCount(t *testing.T) {
	comps := []model.RawComparable{
		{Title: "ok", PriceText: "$10"},
		{Title: "no price"},
		{PriceText: "$5"},
		{Title: "  ", PriceText: "$5"},
	}
	assert.Equal(t, 1, usableCount(comps))
}

// fakeMarketClient scripts marketstall responses for the source adapter.
type fakeMarketClient struct {
	resp *marketstall.SearchResponse
	err  error
}

func (c *fakeMarketClient) Search(ctx context.Context, query string, cat marketstall.Category) (*marketstall.SearchResponse, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.resp, nil
}

func TestMarketSource_MapsListings(t *testing.T) {
	client := &fakeMarketClient{resp: &marketstall.SearchResponse{Results: []marketstall.Listing{
		{
			Title:     "Decline and Fall, 6 vols",
			PriceText: "£950",
			Condition: "Good, joints rubbed",
			Observed:  "2 months ago",
			URL:       "https://example.com/1",
		},
	}}}

	src := NewSoldSource(client, time.Second)
	assert.Equal(t, model.SourceSold, src.Tag())

	got, err := src.Fetch(context.Background(), "gibbon")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.SourceSold, got[0].Source)
	assert.Equal(t, "£950", got[0].PriceText)
	assert.Equal(t, "Good, joints rubbed", got[0].ConditionText)
	assert.Equal(t, "2 months ago", got[0].ObservedAt)
}

func TestMarketSource_EmptyIsNotError(t *testing.T) {
	client := &fakeMarketClient{resp: &marketstall.SearchResponse{}}
	src := NewOfferedSource(client, time.Second)

	got, err := src.Fetch(context.Background(), "unfindable")
	require.NoError(t, err)
	assert.Empty(t, got)
}

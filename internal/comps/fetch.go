package comps

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pembroke-collections/acquisition-engine/internal/model"
)

// Fetcher retrieves raw comparables from every configured source. Failures
// local to one source degrade that source to an empty result; they never
// abort the evaluation.
type Fetcher struct {
	sources   []Source
	cache     Cache
	minUsable int
}

// NewFetcher creates a Fetcher. minUsable is the listing count below which a
// source is retried once with the simplified query.
func NewFetcher(cache Cache, minUsable int, sources ...Source) *Fetcher {
	if minUsable <= 0 {
		minUsable = 3
	}
	return &Fetcher{
		sources:   sources,
		cache:     cache,
		minUsable: minUsable,
	}
}

// FetchAll runs all sources concurrently and returns their raw comparables
// keyed by source tag. refresh bypasses the cache read (the result is still
// written back).
func (f *Fetcher) FetchAll(ctx context.Context, primary, simplified string, refresh bool) map[model.SourceTag][]model.RawComparable {
	results := make(map[model.SourceTag][]model.RawComparable, len(f.sources))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(len(f.sources))

	for _, src := range f.sources {
		src := src
		g.Go(func() error {
			comps := f.fetchOne(gCtx, src, primary, simplified, refresh)
			mu.Lock()
			results[src.Tag()] = comps
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// fetchOne fetches a single source, applying the cache and the simplified
// query fallback. Errors degrade to an empty result.
func (f *Fetcher) fetchOne(ctx context.Context, src Source, primary, simplified string, refresh bool) []model.RawComparable {
	tag := src.Tag()

	if f.cache != nil && !refresh {
		if cached, ok := f.cache.Get(tag, primary); ok {
			zap.L().Debug("comps: cache hit",
				zap.String("source", string(tag)),
				zap.String("query", primary),
				zap.Int("listings", len(cached)),
			)
			return cached
		}
	}

	comps, err := src.Fetch(ctx, primary)
	if err != nil {
		zap.L().Warn("comps: source fetch failed, degrading to empty",
			zap.String("source", string(tag)),
			zap.String("query", primary),
			zap.Error(err),
		)
		comps = nil
	}

	// Thin result: retry once with the simplified query before giving up on
	// this source. The better of the two result sets wins.
	if usableCount(comps) < f.minUsable && simplified != "" && simplified != primary {
		fallback, err := src.Fetch(ctx, simplified)
		if err != nil {
			zap.L().Warn("comps: simplified query fetch failed",
				zap.String("source", string(tag)),
				zap.String("query", simplified),
				zap.Error(err),
			)
		} else if usableCount(fallback) > usableCount(comps) {
			zap.L().Info("comps: simplified query improved result",
				zap.String("source", string(tag)),
				zap.Int("primary_usable", usableCount(comps)),
				zap.Int("simplified_usable", usableCount(fallback)),
			)
			comps = fallback
		}
	}

	if f.cache != nil {
		f.cache.Put(tag, primary, comps)
	}

	zap.L().Info("comps: source fetched",
		zap.String("source", string(tag)),
		zap.Int("listings", len(comps)),
		zap.Int("usable", usableCount(comps)),
	)
	return comps
}

// usableCount counts listings carrying both a title and price text. Listings
// missing either give the classifier nothing to extract.
func usableCount(comps []model.RawComparable) int {
	n := 0
	for _, c := range comps {
		if strings.TrimSpace(c.Title) != "" && strings.TrimSpace(c.PriceText) != "" {
			n++
		}
	}
	return n
}

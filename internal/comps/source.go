// Package comps fetches raw marketplace comparables for an evaluation.
package comps

import (
	"context"
	"time"

	"github.com/pembroke-collections/acquisition-engine/internal/model"
	"github.com/pembroke-collections/acquisition-engine/internal/resilience"
	"github.com/pembroke-collections/acquisition-engine/pkg/marketstall"
)

// Source is one marketplace category boundary. An empty result is a valid,
// non-error outcome; retry, backoff and rate limiting live inside the
// adapter, not in the caller.
type Source interface {
	Tag() model.SourceTag
	Fetch(ctx context.Context, query string) ([]model.RawComparable, error)
}

// marketSource adapts a marketstall category to the Source contract, wrapping
// every call in a per-category circuit breaker and timeout.
type marketSource struct {
	tag     model.SourceTag
	cat     marketstall.Category
	client  marketstall.Client
	breaker *resilience.CircuitBreaker
	timeout time.Duration
}

// NewSoldSource returns the adapter for completed/sold transactions.
func NewSoldSource(client marketstall.Client, timeout time.Duration) Source {
	return newMarketSource(model.SourceSold, marketstall.CategorySold, client, timeout)
}

// NewOfferedSource returns the adapter for currently offered items.
func NewOfferedSource(client marketstall.Client, timeout time.Duration) Source {
	return newMarketSource(model.SourceOffered, marketstall.CategoryOffered, client, timeout)
}

func newMarketSource(tag model.SourceTag, cat marketstall.Category, client marketstall.Client, timeout time.Duration) Source {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &marketSource{
		tag:     tag,
		cat:     cat,
		client:  client,
		breaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{}),
		timeout: timeout,
	}
}

func (s *marketSource) Tag() model.SourceTag {
	return s.tag
}

func (s *marketSource) Fetch(ctx context.Context, query string) ([]model.RawComparable, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := resilience.ExecuteVal(ctx, s.breaker, func(ctx context.Context) (*marketstall.SearchResponse, error) {
		return s.client.Search(ctx, query, s.cat)
	})
	if err != nil {
		return nil, err
	}

	comps := make([]model.RawComparable, 0, len(resp.Results))
	for _, l := range resp.Results {
		comps = append(comps, model.RawComparable{
			Source:        s.tag,
			Title:         l.Title,
			PriceText:     l.PriceText,
			ConditionText: l.Condition,
			ObservedAt:    l.Observed,
			URL:           l.URL,
		})
	}
	return comps, nil
}

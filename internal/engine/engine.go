// Package engine orchestrates a full acquisition evaluation: comparable
// retrieval, relevance classification, FMV estimation, scoring, and the final
// recommendation.
package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pembroke-collections/acquisition-engine/internal/classify"
	"github.com/pembroke-collections/acquisition-engine/internal/comps"
	"github.com/pembroke-collections/acquisition-engine/internal/fmv"
	"github.com/pembroke-collections/acquisition-engine/internal/model"
	"github.com/pembroke-collections/acquisition-engine/internal/query"
	"github.com/pembroke-collections/acquisition-engine/internal/recommend"
	"github.com/pembroke-collections/acquisition-engine/internal/scorer"
)

// comparableFetcher retrieves raw comparables from every configured source.
type comparableFetcher interface {
	FetchAll(ctx context.Context, primary, simplified string, refresh bool) map[model.SourceTag][]model.RawComparable
}

// relevanceClassifier rates one source's raw listings against the target item.
type relevanceClassifier interface {
	Classify(ctx context.Context, raws []model.RawComparable, item model.ItemMetadata, tag model.SourceTag) []model.ClassifiedComparable
}

var (
	_ comparableFetcher   = (*comps.Fetcher)(nil)
	_ relevanceClassifier = (*classify.Classifier)(nil)
)

// Options tune a single evaluation run.
type Options struct {
	// RefreshComparables bypasses the comparable cache and forces a fresh
	// marketplace fetch.
	RefreshComparables bool
}

// Result is one evaluation's complete output. A later re-evaluation produces
// a new Result that supersedes, never merges with, the prior one.
type Result struct {
	ID             uuid.UUID            `json:"id"`
	EvaluatedAt    time.Time            `json:"evaluated_at"`
	Item           model.ItemMetadata   `json:"item"`
	AskingPriceUSD float64              `json:"asking_price_usd"`
	Query          string               `json:"query"`
	Fmv            model.FmvEstimate    `json:"fmv_estimate"`
	Score          model.ScoreBreakdown `json:"score_breakdown"`
	Recommendation model.Recommendation `json:"recommendation"`
}

// Engine evaluates candidate acquisitions. Evaluations share no mutable
// state; one Engine is safe for concurrent use.
type Engine struct {
	fetcher    comparableFetcher
	classifier relevanceClassifier
	fx         map[string]float64
	budget     time.Duration
}

// New creates an Engine. fx maps currency codes to USD rates and must cover
// every currency an item may be priced in; budget bounds the comparable
// retrieval and classification phase.
func New(fetcher comparableFetcher, classifier relevanceClassifier, fx map[string]float64, budget time.Duration) *Engine {
	if budget <= 0 {
		budget = 90 * time.Second
	}
	return &Engine{
		fetcher:    fetcher,
		classifier: classifier,
		fx:         fx,
		budget:     budget,
	}
}

// Evaluate runs the full pipeline for one item. Degraded comparable evidence
// lowers confidence but never fails the run; only invalid metadata or an
// unsupported currency is a hard error, surfaced before any external call.
func (e *Engine) Evaluate(ctx context.Context, item model.ItemMetadata, coll model.CollectionContext, opts Options) (*Result, error) {
	if err := item.Validate(); err != nil {
		return nil, eris.Wrap(err, "engine: invalid item metadata")
	}
	askingUSD, err := e.toUSD(item.AskingPrice, item.Currency)
	if err != nil {
		return nil, err
	}

	primary := query.Build(item)
	simplified := query.Simplified(item)
	zap.L().Info("engine: evaluating item",
		zap.String("title", item.Title),
		zap.String("query", primary),
		zap.Bool("refresh", opts.RefreshComparables),
	)

	classified := e.gatherComparables(ctx, item, primary, simplified, opts.RefreshComparables)

	estimate := fmv.Estimate(classified)
	score := scorer.Score(item, coll)
	rec := recommend.Recommend(askingUSD, estimate, &score)

	return &Result{
		ID:             uuid.New(),
		EvaluatedAt:    time.Now().UTC(),
		Item:           item,
		AskingPriceUSD: askingUSD,
		Query:          primary,
		Fmv:            estimate,
		Score:          score,
		Recommendation: rec,
	}, nil
}

// Rescore recomputes the scores and recommendation over already-known
// metadata and a prior FMV estimate, without any comparable fetch or LLM
// call. It is pure and idempotent, intended for price-change triggers.
func (e *Engine) Rescore(item model.ItemMetadata, coll model.CollectionContext, estimate model.FmvEstimate) (*Result, error) {
	if err := item.Validate(); err != nil {
		return nil, eris.Wrap(err, "engine: invalid item metadata")
	}
	askingUSD, err := e.toUSD(item.AskingPrice, item.Currency)
	if err != nil {
		return nil, err
	}

	score := scorer.Score(item, coll)
	rec := recommend.Recommend(askingUSD, estimate, &score)

	return &Result{
		ID:             uuid.New(),
		EvaluatedAt:    time.Now().UTC(),
		Item:           item,
		AskingPriceUSD: askingUSD,
		Query:          query.Build(item),
		Fmv:            estimate,
		Score:          score,
		Recommendation: rec,
	}, nil
}

// gatherComparables fetches raw listings from every source and classifies
// each source's batch concurrently, all under the comparable budget. On
// budget exhaustion it returns whatever classified so far; the estimator
// turns thin evidence into low confidence.
func (e *Engine) gatherComparables(ctx context.Context, item model.ItemMetadata, primary, simplified string, refresh bool) []model.ClassifiedComparable {
	budgetCtx, cancel := context.WithTimeout(ctx, e.budget)
	defer cancel()

	raws := e.fetcher.FetchAll(budgetCtx, primary, simplified, refresh)

	var mu sync.Mutex
	var pooled []model.ClassifiedComparable

	g, gCtx := errgroup.WithContext(budgetCtx)
	for tag, batch := range raws {
		tag, batch := tag, batch
		g.Go(func() error {
			classified := e.classifier.Classify(gCtx, batch, item, tag)
			mu.Lock()
			pooled = append(pooled, classified...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if err := budgetCtx.Err(); err != nil {
		zap.L().Warn("engine: comparable budget exhausted, proceeding with partial evidence",
			zap.Int("classified", len(pooled)),
			zap.Error(err),
		)
	}
	return pooled
}

func (e *Engine) toUSD(price float64, currency string) (float64, error) {
	rate, ok := e.fx[strings.ToUpper(currency)]
	if !ok || rate <= 0 {
		return 0, eris.Errorf("engine: no exchange rate configured for currency %q", currency)
	}
	return price * rate, nil
}

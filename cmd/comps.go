package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pembroke-collections/acquisition-engine/internal/classify"
	"github.com/pembroke-collections/acquisition-engine/internal/comps"
	"github.com/pembroke-collections/acquisition-engine/internal/model"
	"github.com/pembroke-collections/acquisition-engine/internal/query"
	"github.com/pembroke-collections/acquisition-engine/pkg/anthropic"
	"github.com/pembroke-collections/acquisition-engine/pkg/marketstall"
)

var (
	compsItemPath   string
	compsOutputPath string
	compsRefresh    bool
	compsClassify   bool
)

// compsOutput is the debug dump of both sources for one item.
type compsOutput struct {
	Query      string                                           `json:"query"`
	Simplified string                                           `json:"simplified_query"`
	Raw        map[model.SourceTag][]model.RawComparable        `json:"raw"`
	Classified map[model.SourceTag][]model.ClassifiedComparable `json:"classified,omitempty"`
}

var compsCmd = &cobra.Command{
	Use:   "comps",
	Short: "Fetch raw comparables for an item (debugging)",
	Long: `Builds the marketplace queries for an item and dumps what each source
returns, optionally with relevance classification, without running the rest
of the evaluation. Useful for inspecting query quality and adapter behavior.

Examples:
  acquire comps --item gibbon.json
  acquire comps --item gibbon.json --classify --refresh`,
	RunE: runComps,
}

func init() {
	f := compsCmd.Flags()
	f.StringVar(&compsItemPath, "item", "", "item metadata file (JSON or YAML)")
	f.StringVar(&compsOutputPath, "output", "", "output file path (default: stdout)")
	f.BoolVar(&compsRefresh, "refresh", false, "bypass the comparable cache")
	f.BoolVar(&compsClassify, "classify", false, "also run relevance classification")
	_ = compsCmd.MarkFlagRequired("item")

	rootCmd.AddCommand(compsCmd)
}

func runComps(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	item, err := readItem(compsItemPath)
	if err != nil {
		return err
	}
	if err := item.Validate(); err != nil {
		return err
	}

	market := marketstall.NewClient(cfg.Marketplace.Key,
		marketstall.WithBaseURL(cfg.Marketplace.BaseURL),
		marketstall.WithRateLimit(cfg.Marketplace.RatePerSec),
	)
	cache := comps.NewMemoryCache(cfg.Marketplace.CacheMaxQueries, cfg.Marketplace.CacheTTL())
	fetcher := comps.NewFetcher(cache, cfg.Evaluate.MinUsableListings,
		comps.NewSoldSource(market, cfg.Marketplace.Timeout()),
		comps.NewOfferedSource(market, cfg.Marketplace.Timeout()),
	)

	out := compsOutput{
		Query:      query.Build(item),
		Simplified: query.Simplified(item),
	}
	out.Raw = fetcher.FetchAll(ctx, out.Query, out.Simplified, compsRefresh)

	if compsClassify {
		classifier := classify.New(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic, cfg.Evaluate.FxRates)
		out.Classified = make(map[model.SourceTag][]model.ClassifiedComparable, len(out.Raw))
		for tag, batch := range out.Raw {
			out.Classified[tag] = classifier.Classify(ctx, batch, item, tag)
		}
	}

	stats := cache.Stats()
	zap.L().Info("comps fetched",
		zap.String("query", out.Query),
		zap.Int("sold", len(out.Raw[model.SourceSold])),
		zap.Int("offered", len(out.Raw[model.SourceOffered])),
		zap.Int64("cache_hits", stats.Hits),
		zap.Int64("cache_misses", stats.Misses),
	)
	return writeOutput(out, compsOutputPath)
}

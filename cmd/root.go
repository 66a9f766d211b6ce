package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pembroke-collections/acquisition-engine/internal/classify"
	"github.com/pembroke-collections/acquisition-engine/internal/comps"
	"github.com/pembroke-collections/acquisition-engine/internal/config"
	"github.com/pembroke-collections/acquisition-engine/internal/engine"
	"github.com/pembroke-collections/acquisition-engine/pkg/anthropic"
	"github.com/pembroke-collections/acquisition-engine/pkg/marketstall"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "acquire",
	Short: "Acquisition evaluation for rare and antiquarian books",
	Long:  "Estimates fair market value from marketplace comparables, scores quality and strategic fit against the collection, and recommends an acquisition tier with an optional counter-offer.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// buildEngine wires the marketplace sources, comparable cache, and classifier
// into an Engine. Commands that reach the network call this; rescore does not.
func buildEngine() (*engine.Engine, error) {
	if cfg.Marketplace.Key == "" {
		return nil, eris.New("marketplace.key is required (ACQUIRE_MARKETPLACE_KEY)")
	}
	if cfg.Anthropic.Key == "" {
		return nil, eris.New("anthropic.key is required (ACQUIRE_ANTHROPIC_KEY)")
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

	ai := anthropic.NewClient(cfg.Anthropic.Key)
	classifier := classify.New(ai, cfg.Anthropic, cfg.Evaluate.FxRates)

	return engine.New(fetcher, classifier, cfg.Evaluate.FxRates, cfg.Evaluate.ComparableBudget()), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pembroke-collections/acquisition-engine/internal/engine"
)

var (
	evaluateItemPath       string
	evaluateCollectionPath string
	evaluateOutputPath     string
	evaluateRefreshComps   bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a candidate acquisition",
	Long: `Runs the full pipeline for one item: builds marketplace queries, fetches
SOLD and OFFERED comparables, classifies their relevance, estimates a
fair-market-value range, scores quality and strategic fit against the
collection, and emits a recommendation with reasoning.

Examples:
  # Evaluate an item against a collection
  acquire evaluate --item gibbon.json --collection collection.yaml

  # Force a fresh comparable fetch, write the result to a file
  acquire evaluate --item gibbon.json --refresh-comps --output result.json`,
	RunE: runEvaluate,
}

func init() {
	f := evaluateCmd.Flags()
	f.StringVar(&evaluateItemPath, "item", "", "item metadata file (JSON or YAML)")
	f.StringVar(&evaluateCollectionPath, "collection", "", "collection context file (JSON or YAML)")
	f.StringVar(&evaluateOutputPath, "output", "", "output file path (default: stdout)")
	f.BoolVar(&evaluateRefreshComps, "refresh-comps", false, "bypass the comparable cache")
	_ = evaluateCmd.MarkFlagRequired("item")

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	item, err := readItem(evaluateItemPath)
	if err != nil {
		return err
	}
	coll, err := readCollection(evaluateCollectionPath)
	if err != nil {
		return err
	}

	eng, err := buildEngine()
	if err != nil {
		return err
	}

	result, err := eng.Evaluate(ctx, item, coll, engine.Options{RefreshComparables: evaluateRefreshComps})
	if err != nil {
		return err
	}

	zap.L().Info("evaluation complete",
		zap.String("id", result.ID.String()),
		zap.String("tier", string(result.Recommendation.Tier)),
		zap.String("price_position", string(result.Recommendation.PricePosition)),
	)
	return writeOutput(result, evaluateOutputPath)
}

package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pembroke-collections/acquisition-engine/internal/engine"
)

var (
	rescoreResultPath     string
	rescoreItemPath       string
	rescoreCollectionPath string
	rescoreOutputPath     string
	rescoreAsking         float64
)

var rescoreCmd = &cobra.Command{
	Use:   "rescore",
	Short: "Rescore a prior evaluation without refetching comparables",
	Long: `Recomputes scores and the recommendation from a prior evaluation result,
reusing its FMV estimate. No marketplace or LLM calls are made, so rescoring
is cheap and safe to run on every price change.

Examples:
  # Rescore after a price drop
  acquire rescore --result result.json --asking 3200 --collection collection.yaml`,
	RunE: runRescore,
}

func init() {
	f := rescoreCmd.Flags()
	f.StringVar(&rescoreResultPath, "result", "", "prior evaluation result (JSON)")
	f.StringVar(&rescoreItemPath, "item", "", "updated item metadata file (defaults to the item in the prior result)")
	f.StringVar(&rescoreCollectionPath, "collection", "", "collection context file (JSON or YAML)")
	f.StringVar(&rescoreOutputPath, "output", "", "output file path (default: stdout)")
	f.Float64Var(&rescoreAsking, "asking", 0, "new asking price (same currency as the original item)")
	_ = rescoreCmd.MarkFlagRequired("result")

	rootCmd.AddCommand(rescoreCmd)
}

func runRescore(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(rescoreResultPath)
	if err != nil {
		return eris.Wrapf(err, "read result file %s", rescoreResultPath)
	}
	var prior engine.Result
	if err := json.Unmarshal(data, &prior); err != nil {
		return eris.Wrapf(err, "parse result file %s", rescoreResultPath)
	}

	coll, err := readCollection(rescoreCollectionPath)
	if err != nil {
		return err
	}

	item := prior.Item
	if rescoreItemPath != "" {
		item, err = readItem(rescoreItemPath)
		if err != nil {
			return err
		}
	}
	if rescoreAsking > 0 {
		item.AskingPrice = rescoreAsking
	}

	eng := engine.New(nil, nil, cfg.Evaluate.FxRates, cfg.Evaluate.ComparableBudget())
	result, err := eng.Rescore(item, coll, prior.Fmv)
	if err != nil {
		return err
	}

	zap.L().Info("rescore complete",
		zap.String("prior_id", prior.ID.String()),
		zap.String("id", result.ID.String()),
		zap.String("prior_tier", string(prior.Recommendation.Tier)),
		zap.String("tier", string(result.Recommendation.Tier)),
	)
	return writeOutput(result, rescoreOutputPath)
}

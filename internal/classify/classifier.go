// Package classify rates raw marketplace listings against a target item using
// an LLM, producing normalized, relevance-tiered comparables.
package classify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pembroke-collections/acquisition-engine/internal/config"
	"github.com/pembroke-collections/acquisition-engine/internal/model"
	"github.com/pembroke-collections/acquisition-engine/internal/resilience"
	"github.com/pembroke-collections/acquisition-engine/pkg/anthropic"
)

const classifySystemPrompt = `You rate antiquarian book listings for how comparable they are to a target item.

Relevance definitions:
- "high": same work, volume count within one of the target, comparable binding quality.
- "medium": same work but a meaningfully different format (fewer volumes, lesser binding).
- "low": a different work entirely, or a single volume extracted from a set.

For every listing, extract its price as a number and its ISO 4217 currency code.
Respond with ONLY a JSON array, one object per listing:
[{"index": <listing number>, "price": <number>, "currency": "<code>", "relevance": "high"|"medium"|"low"}]`

// framingNouns is the single wording difference between the SOLD and OFFERED
// prompts; the response schema is identical.
var framingNouns = map[model.SourceTag]string{
	model.SourceSold:    "sold",
	model.SourceOffered: "currently offered for sale",
}

// Classifier issues one LLM call per source batch.
type Classifier struct {
	ai    anthropic.Client
	cfg   config.AnthropicConfig
	fx    map[string]float64
	retry resilience.RetryConfig
}

// New creates a Classifier. fx maps currency codes to USD rates; listings in
// currencies outside the map are dropped.
func New(ai anthropic.Client, cfg config.AnthropicConfig, fx map[string]float64) *Classifier {
	return &Classifier{
		ai:    ai,
		cfg:   cfg,
		fx:    fx,
		retry: resilience.DefaultRetryConfig(),
	}
}

// Classify rates one source's raw listings against the target item. Malformed
// or unparsable model output degrades the batch to zero listings; it never
// fails the evaluation.
func (c *Classifier) Classify(ctx context.Context, raws []model.RawComparable, item model.ItemMetadata, tag model.SourceTag) []model.ClassifiedComparable {
	if len(raws) == 0 {
		return nil
	}

	maxTokens := int64(c.cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 2048
	}

	req := anthropic.MessageRequest{
		Model:     c.cfg.Model,
		MaxTokens: maxTokens,
		System:    anthropic.BuildCachedSystemBlocks(classifySystemPrompt),
		Messages: []anthropic.Message{
			{Role: "user", Content: buildUserPrompt(item, raws, tag)},
		},
	}

	retry := c.retry
	retry.OnRetry = resilience.RetryLogger("anthropic", "classify")

	resp, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return c.ai.CreateMessage(ctx, req)
	})
	if err != nil {
		zap.L().Warn("classify: batch degraded to zero listings",
			zap.String("source", string(tag)),
			zap.Int("listings", len(raws)),
			zap.Error(err),
		)
		return nil
	}

	resp.Usage.LogCost(c.cfg.Model, "classify-"+string(tag))

	entries, err := parseEntries(resp.Text(), len(raws))
	if err != nil {
		zap.L().Warn("classify: rejected model output",
			zap.String("source", string(tag)),
			zap.Error(err),
		)
		return nil
	}

	classified := make([]model.ClassifiedComparable, 0, len(entries))
	for _, e := range entries {
		usd, ok := c.toUSD(e.Price, e.Currency)
		if !ok {
			zap.L().Debug("classify: dropping listing with unknown currency",
				zap.String("source", string(tag)),
				zap.String("currency", e.Currency),
				zap.String("title", raws[e.Index].Title),
			)
			continue
		}
		classified = append(classified, model.ClassifiedComparable{
			RawComparable: raws[e.Index],
			Price:         usd,
			Currency:      e.Currency,
			Relevance:     model.RelevanceTier(e.Relevance),
		})
	}

	zap.L().Info("classify: batch classified",
		zap.String("source", string(tag)),
		zap.Int("input", len(raws)),
		zap.Int("classified", len(classified)),
	)
	return classified
}

// toUSD converts a listing price to USD via the configured static rates.
func (c *Classifier) toUSD(price float64, currency string) (float64, bool) {
	rate, ok := c.fx[strings.ToUpper(currency)]
	if !ok || rate <= 0 {
		return 0, false
	}
	return price * rate, true
}

func buildUserPrompt(item model.ItemMetadata, raws []model.RawComparable, tag model.SourceTag) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Target item:\n")
	fmt.Fprintf(&b, "- Title: %s\n", item.Title)
	fmt.Fprintf(&b, "- Author: %s\n", item.Author)
	fmt.Fprintf(&b, "- Volumes: %d\n", item.VolumeCount)
	if item.BindingType != "" {
		fmt.Fprintf(&b, "- Binding: %s\n", item.BindingType)
	}
	if item.Binder != "" {
		fmt.Fprintf(&b, "- Binder: %s\n", item.Binder)
	}

	fmt.Fprintf(&b, "\nThe following listings were %s:\n", framingNouns[tag])
	for i, r := range raws {
		fmt.Fprintf(&b, "\n%d. %s\n", i, r.Title)
		if r.PriceText != "" {
			fmt.Fprintf(&b, "   Price: %s\n", r.PriceText)
		}
		if r.ConditionText != "" {
			fmt.Fprintf(&b, "   Condition: %s\n", r.ConditionText)
		}
		if r.ObservedAt != "" {
			fmt.Fprintf(&b, "   Observed: %s\n", r.ObservedAt)
		}
		if r.URL != "" {
			fmt.Fprintf(&b, "   URL: %s\n", r.URL)
		}
	}

	return b.String()
}

// Package usage accumulates token counts per model and converts them to
// costs through a pricing table.
package usage

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// TokenUsage is the accumulated token count for one model.
type TokenUsage struct {
	Model        string `json:"model"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

// Ledger tracks cumulative token usage and calculates costs.
// All methods are safe for concurrent use.
type Ledger struct {
	mu sync.RWMutex

	totalInput  int
	totalOutput int
	perModel    map[string]*TokenUsage

	pricing *PricingTable
}

// NewLedger creates a ledger priced by the given table. A nil table falls
// back to DefaultPricing.
func NewLedger(pricing *PricingTable) *Ledger {
	if pricing == nil {
		pricing = DefaultPricing()
	}
	return &Ledger{
		perModel: make(map[string]*TokenUsage),
		pricing:  pricing,
	}
}

// AddUsage records tokens consumed by one request. Totals and per-model
// counters grow additively; recording is never lossy.
func (l *Ledger) AddUsage(model string, inputTokens, outputTokens int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.totalInput += inputTokens
	l.totalOutput += outputTokens

	entry, ok := l.perModel[model]
	if !ok {
		entry = &TokenUsage{Model: model}
		l.perModel[model] = entry
	}
	entry.InputTokens += inputTokens
	entry.OutputTokens += outputTokens
}

// TotalTokens returns the cumulative input and output token counts.
func (l *Ledger) TotalTokens() (input, output int) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalInput, l.totalOutput
}

// ModelUsage returns the accumulated usage for one model.
func (l *Ledger) ModelUsage(model string) (TokenUsage, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	entry, ok := l.perModel[model]
	if !ok {
		return TokenUsage{}, false
	}
	return *entry, true
}

// CostForModel returns the cost of one model's accumulated usage, zero if
// the model has no recorded usage.
func (l *Ledger) CostForModel(model string) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	entry, ok := l.perModel[model]
	if !ok {
		return 0
	}
	return l.costOf(entry)
}

// TotalCost returns the cost across all models.
func (l *Ledger) TotalCost() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	total := 0.0
	for _, entry := range l.perModel {
		total += l.costOf(entry)
	}
	return total
}

func (l *Ledger) costOf(entry *TokenUsage) float64 {
	pricing := l.pricing.Lookup(entry.Model)
	inputCost := float64(entry.InputTokens) / 1_000_000 * pricing.Input
	outputCost := float64(entry.OutputTokens) / 1_000_000 * pricing.Output
	return inputCost + outputCost
}

// ModelCost is one model's line in a cost breakdown.
type ModelCost struct {
	Model        string       `json:"model"`
	InputTokens  int          `json:"input_tokens"`
	OutputTokens int          `json:"output_tokens"`
	InputCost    float64      `json:"input_cost"`
	OutputCost   float64      `json:"output_cost"`
	TotalCost    float64      `json:"total_cost"`
	PricingPer1M ModelPricing `json:"pricing_per_1m"`
}

// CostBreakdown is the full per-model cost report.
type CostBreakdown struct {
	TotalCost         float64     `json:"total_cost"`
	TotalInputTokens  int         `json:"total_input_tokens"`
	TotalOutputTokens int         `json:"total_output_tokens"`
	Models            []ModelCost `json:"models"`
}

// Breakdown computes the per-model cost report, sorted by model name.
func (l *Ledger) Breakdown() CostBreakdown {
	l.mu.RLock()
	defer l.mu.RUnlock()

	breakdown := CostBreakdown{
		TotalInputTokens:  l.totalInput,
		TotalOutputTokens: l.totalOutput,
	}

	for _, entry := range l.perModel {
		pricing := l.pricing.Lookup(entry.Model)
		inputCost := float64(entry.InputTokens) / 1_000_000 * pricing.Input
		outputCost := float64(entry.OutputTokens) / 1_000_000 * pricing.Output

		breakdown.Models = append(breakdown.Models, ModelCost{
			Model:        entry.Model,
			InputTokens:  entry.InputTokens,
			OutputTokens: entry.OutputTokens,
			InputCost:    inputCost,
			OutputCost:   outputCost,
			TotalCost:    inputCost + outputCost,
			PricingPer1M: pricing,
		})
		breakdown.TotalCost += inputCost + outputCost
	}

	sort.Slice(breakdown.Models, func(i, j int) bool {
		return breakdown.Models[i].Model < breakdown.Models[j].Model
	})

	return breakdown
}

// FormatSummary renders a human-readable cost summary. A single-model run
// gets the compact form; multi-model runs list each model.
func (l *Ledger) FormatSummary() string {
	breakdown := l.Breakdown()

	if len(breakdown.Models) == 1 {
		m := breakdown.Models[0]
		displayName := strings.ReplaceAll(m.Model, ":", " ")
		return fmt.Sprintf(
			"Cost Summary:\nModel: %s\nTotal Tokens: %s input + %s output\nTotal Cost: $%.4f input + $%.4f output = $%.4f",
			displayName,
			formatCount(breakdown.TotalInputTokens), formatCount(breakdown.TotalOutputTokens),
			m.InputCost, m.OutputCost, breakdown.TotalCost,
		)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Cost Summary:\nTotal Tokens: %s input + %s output\nTotal Cost: $%.4f\n",
		formatCount(breakdown.TotalInputTokens), formatCount(breakdown.TotalOutputTokens), breakdown.TotalCost)
	sb.WriteString("\nPer Model:")
	for _, m := range breakdown.Models {
		fmt.Fprintf(&sb, "\n  %s:\n    Tokens: %s input + %s output\n    Cost: $%.4f ($%.4f input + $%.4f output)",
			m.Model,
			formatCount(m.InputTokens), formatCount(m.OutputTokens),
			m.TotalCost, m.InputCost, m.OutputCost)
	}
	return sb.String()
}

// formatCount renders an integer with thousands separators.
func formatCount(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var sb strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		sb.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}

package usage

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ModelPricing is the per-million-token price of one model.
type ModelPricing struct {
	Input  float64 `yaml:"input" json:"input"`
	Output float64 `yaml:"output" json:"output"`
}

// PricingTable maps model identifiers to prices, with a default for models
// the table does not know.
type PricingTable struct {
	Models  map[string]ModelPricing `yaml:"models"`
	Default ModelPricing            `yaml:"default"`
}

// DefaultPricing is used when no pricing file is configured.
func DefaultPricing() *PricingTable {
	return &PricingTable{
		Models:  map[string]ModelPricing{},
		Default: ModelPricing{Input: 1.0, Output: 3.0},
	}
}

// LoadPricing reads a pricing table from an explicit YAML path. There is no
// implicit discovery: the caller decides where pricing lives.
func LoadPricing(path string) (*PricingTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pricing file: %w", err)
	}

	table := DefaultPricing()
	if err := yaml.Unmarshal(data, table); err != nil {
		return nil, fmt.Errorf("failed to parse pricing file %s: %w", path, err)
	}
	if table.Models == nil {
		table.Models = map[string]ModelPricing{}
	}
	if table.Default.Input == 0 && table.Default.Output == 0 {
		table.Default = ModelPricing{Input: 1.0, Output: 3.0}
	}
	return table, nil
}

// Lookup resolves the pricing for a model identifier. Resolution order:
// exact match, then the name with any "provider:" prefix stripped, then the
// longest table key appearing as a substring of the identifier (so
// "gpt-4o-mini" wins over "gpt-4"), then the default.
func (p *PricingTable) Lookup(model string) ModelPricing {
	if pricing, ok := p.Models[model]; ok {
		return pricing
	}

	if _, name, found := strings.Cut(model, ":"); found {
		if pricing, ok := p.Models[name]; ok {
			return pricing
		}
	}

	keys := make([]string, 0, len(p.Models))
	for key := range p.Models {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	for _, key := range keys {
		if strings.Contains(model, key) {
			return p.Models[key]
		}
	}

	return p.Default
}

package rules

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/trashsim/internal/deck"
)

// File is the top level of a rules HCL file.
type File struct {
	Variants []VariantBlock `hcl:"rules,block"`
}

// VariantBlock is one `rules "name" { ... }` block. Omitted attributes take
// their value from Default.
type VariantBlock struct {
	Name              string   `hcl:"name,label"`
	BoardSize         int      `hcl:"board_size,optional"`
	AllowDiscardDraw  *bool    `hcl:"allow_discard_draw,optional"`
	UseInitialDiscard *bool    `hcl:"use_initial_discard,optional"`
	WildRanks         []string `hcl:"wild_ranks,optional"`
	DeadRanks         []string `hcl:"dead_ranks,optional"`
}

// Variants is a set of named rule configs in file order.
type Variants []Config

// Lookup returns the variant called name. An empty name selects the first
// variant.
func (v Variants) Lookup(name string) (Config, error) {
	if len(v) == 0 {
		return Config{}, fmt.Errorf("%w: no rule variants defined", ErrInvalidConfig)
	}
	if name == "" {
		return v[0], nil
	}
	for _, cfg := range v {
		if cfg.Name == name {
			return cfg, nil
		}
	}
	return Config{}, fmt.Errorf("%w: unknown variant %q", ErrInvalidConfig, name)
}

// LoadFile reads and validates every variant in an HCL rules file.
func LoadFile(filename string) (Variants, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source. filename is only used in diagnostics.
func Parse(src []byte, filename string) (Variants, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw File
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	variants := make(Variants, 0, len(raw.Variants))
	seen := make(map[string]bool, len(raw.Variants))
	for _, block := range raw.Variants {
		if seen[block.Name] {
			return nil, fmt.Errorf("%w: variant %q defined twice", ErrInvalidConfig, block.Name)
		}
		seen[block.Name] = true

		cfg, err := block.config()
		if err != nil {
			return nil, fmt.Errorf("variant %q: %w", block.Name, err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("variant %q: %w", block.Name, err)
		}
		variants = append(variants, cfg)
	}
	return variants, nil
}

func (b VariantBlock) config() (Config, error) {
	cfg := Default()
	cfg.Name = b.Name

	if b.BoardSize != 0 {
		cfg.BoardSize = b.BoardSize
	}
	if b.AllowDiscardDraw != nil {
		cfg.AllowDiscardDraw = *b.AllowDiscardDraw
	}
	if b.UseInitialDiscard != nil {
		cfg.UseInitialDiscard = *b.UseInitialDiscard
	}
	if b.WildRanks != nil {
		set, err := parseRankSet(b.WildRanks)
		if err != nil {
			return Config{}, fmt.Errorf("wild_ranks: %w", err)
		}
		cfg.WildRanks = set
	}
	if b.DeadRanks != nil {
		set, err := parseRankSet(b.DeadRanks)
		if err != nil {
			return Config{}, fmt.Errorf("dead_ranks: %w", err)
		}
		cfg.DeadRanks = set
	}
	return cfg, nil
}

func parseRankSet(names []string) (RankSet, error) {
	var set RankSet
	for _, name := range names {
		r, err := deck.ParseRank(name)
		if err != nil {
			return 0, err
		}
		set |= NewRankSet(r)
	}
	return set, nil
}

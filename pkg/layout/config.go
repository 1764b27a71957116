package layout

import "fmt"

// StrategyName selects a layout strategy.
type StrategyName string

const (
	// StrategyAuto picks linear for simple chains and layered otherwise.
	StrategyAuto StrategyName = "auto"
	// StrategyLinear forces the single-column layout.
	StrategyLinear StrategyName = "linear"
	// StrategyLayered requests the layered layout. Cyclic graphs still fall
	// back to linear.
	StrategyLayered StrategyName = "layered"
)

// ValidStrategies lists the accepted strategy names.
var ValidStrategies = map[StrategyName]bool{
	StrategyAuto:    true,
	StrategyLinear:  true,
	StrategyLayered: true,
}

// Default spacing constants, in logical units.
const (
	DefaultInterRankGap   = 80.0
	DefaultIntraRankGap   = 60.0
	DefaultTopMargin      = 40.0
	DefaultLeftMargin     = 40.0
	DefaultLinearSpacing  = 80.0
	DefaultOrderingPasses = 4
	DefaultDummyWidth     = 16.0
)

// Config holds the fixed spacing used by every strategy. The values are
// configuration, never derived from content.
type Config struct {
	Strategy       StrategyName `json:"strategy" koanf:"strategy"`
	InterRankGap   float64      `json:"inter_rank_gap" koanf:"inter_rank_gap"`
	IntraRankGap   float64      `json:"intra_rank_gap" koanf:"intra_rank_gap"`
	TopMargin      float64      `json:"top_margin" koanf:"top_margin"`
	LeftMargin     float64      `json:"left_margin" koanf:"left_margin"`
	LinearSpacing  float64      `json:"linear_spacing" koanf:"linear_spacing"`
	OrderingPasses int          `json:"ordering_passes" koanf:"ordering_passes"`
	DummyWidth     float64      `json:"dummy_width" koanf:"dummy_width"`
}

// DefaultConfig returns the compiled-in defaults.
func DefaultConfig() Config {
	return Config{
		Strategy:       StrategyAuto,
		InterRankGap:   DefaultInterRankGap,
		IntraRankGap:   DefaultIntraRankGap,
		TopMargin:      DefaultTopMargin,
		LeftMargin:     DefaultLeftMargin,
		LinearSpacing:  DefaultLinearSpacing,
		OrderingPasses: DefaultOrderingPasses,
		DummyWidth:     DefaultDummyWidth,
	}
}

// SetDefaults replaces zero or negative fields with defaults.
func (c *Config) SetDefaults() {
	d := DefaultConfig()
	if c.Strategy == "" {
		c.Strategy = d.Strategy
	}
	if c.InterRankGap <= 0 {
		c.InterRankGap = d.InterRankGap
	}
	if c.IntraRankGap <= 0 {
		c.IntraRankGap = d.IntraRankGap
	}
	if c.TopMargin <= 0 {
		c.TopMargin = d.TopMargin
	}
	if c.LeftMargin <= 0 {
		c.LeftMargin = d.LeftMargin
	}
	if c.LinearSpacing <= 0 {
		c.LinearSpacing = d.LinearSpacing
	}
	if c.OrderingPasses <= 0 {
		c.OrderingPasses = d.OrderingPasses
	}
	if c.DummyWidth <= 0 {
		c.DummyWidth = d.DummyWidth
	}
}

// Validate reports an unknown strategy name.
func (c Config) Validate() error {
	if c.Strategy != "" && !ValidStrategies[c.Strategy] {
		return fmt.Errorf("invalid layout strategy: %s (must be auto, linear, or layered)", c.Strategy)
	}
	return nil
}

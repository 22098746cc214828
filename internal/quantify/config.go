// Package quantify drives the stratified benchmarking pipeline: input
// validation, counting, curve construction, summary selection and report
// writing.
package quantify

import (
	"fmt"
	"runtime"

	"github.com/tparidae/hap.py/internal/count"
)

// Config enumerates every recognized quantification option. It is
// validated once at the boundary before entering the pipeline.
type Config struct {
	Mode         count.Mode // comparison semantics: xcmp or ga4gh
	Threads      int        // classification parallelism, forwarded to the engine
	WriteVCF     bool       // write the annotated output VCF
	WriteCounts  bool       // write the extended table and metrics
	OutputVTC    bool       // emit the per-call contribution field
	PreserveInfo bool       // keep input INFO fields in the output VCF
	FixChr       bool       // normalize contig prefixes in region files

	ROCEnabled bool    // compute ranking curves
	ROCFeature string  // feature to rank on
	ROCFilter  string  // filter value excluded from ranking
	ROCDelta   float64 // minimum spacing between retained curve points

	StrictColumns bool // fail when optional summary columns are absent
	Verbose       bool // keep the scratch count table on disk

	Runner  string // tool name recorded in the metrics document
	Version string // tool version recorded in the metrics document
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Mode:       count.ModeXcmp,
		Threads:    runtime.NumCPU(),
		ROCEnabled: true,
		ROCFeature: "QQ",
		ROCDelta:   1,
		Runner:     "qfy",
		Version:    "dev",
	}
}

// Validate checks option values once at the boundary.
func (c *Config) Validate() error {
	switch c.Mode {
	case count.ModeXcmp, count.ModeGA4GH:
	default:
		return fmt.Errorf("unknown counting mode %q (expected xcmp or ga4gh)", c.Mode)
	}
	if c.Threads < 0 {
		return fmt.Errorf("thread count must be non-negative, got %d", c.Threads)
	}
	if c.ROCDelta < 0 {
		return fmt.Errorf("roc spacing must be non-negative, got %g", c.ROCDelta)
	}
	if c.ROCEnabled && c.ROCFeature == "" {
		return fmt.Errorf("roc ranking feature must not be empty")
	}
	return nil
}

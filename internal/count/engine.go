package count

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/tparidae/hap.py/internal/regions"
	"github.com/tparidae/hap.py/internal/vcf"
)

// Mode selects the comparison semantics of the counting engine.
type Mode string

const (
	// ModeXcmp tolerates representation differences: allele and local
	// matches are still counted as found.
	ModeXcmp Mode = "xcmp"
	// ModeGA4GH requires exact record correspondence and takes the
	// per-sample decisions verbatim.
	ModeGA4GH Mode = "ga4gh"
)

// Sample names expected in the annotated input VCF.
const (
	truthSample = "TRUTH"
	querySample = "QUERY"
)

// Engine classifies annotated truth/query records and tallies them into a
// raw count table.
type Engine struct {
	Mode         Mode
	RankFeature  string // ranking feature name; default QQ
	ROCEnabled   bool   // tally per-ranking-value levels
	OutputVTC    bool   // emit the VTC contribution field in the output VCF
	PreserveInfo bool   // keep input INFO fields in the output VCF
	Threads      int    // classification worker count; 0 means NumCPU

	logger *zap.Logger
}

// NewEngine creates an engine with the given comparison mode.
func NewEngine(mode Mode) *Engine {
	return &Engine{
		Mode:        mode,
		RankFeature: fmtQQ,
		ROCEnabled:  true,
		logger:      zap.NewNop(),
	}
}

// SetLogger sets the logger for progress and warning messages.
func (e *Engine) SetLogger(l *zap.Logger) {
	e.logger = l
}

// Input names everything the engine consumes for one run.
type Input struct {
	VCFPath     string            // annotated truth/query VCF
	OutputVCF   string            // annotated output VCF path; "" disables
	RegionFiles map[string]string // name -> BED path, CONF reserved
	FixChr      bool              // normalize contig prefixes in region files
	Reference   string            // reference FASTA, recorded only
}

// Count runs the engine over one annotated VCF and returns the raw count
// table.
func (e *Engine) Count(in Input) (*Table, error) {
	parser, err := vcf.NewParser(in.VCFPath)
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	c := &classifier{
		mode:        e.Mode,
		rankFeature: e.rankFeature(),
		truthIdx:    sampleIndex(parser, truthSample, 0),
		queryIdx:    sampleIndex(parser, querySample, 1),
	}
	if len(parser.SampleNames()) < 2 {
		return nil, fmt.Errorf("annotated VCF %s must carry TRUTH and QUERY sample columns", in.VCFPath)
	}

	loaded, err := regions.LoadAll(in.RegionFiles, in.FixChr)
	if err != nil {
		return nil, err
	}
	c.conf = loaded[regions.ConfName]
	c.strat = make(map[string]*regions.BED)
	for name, bed := range loaded {
		if name != regions.ConfName {
			c.strat[name] = bed
		}
	}

	var out *vcf.Writer
	if in.OutputVCF != "" {
		out, err = vcf.NewWriter(in.OutputVCF)
		if err != nil {
			return nil, err
		}
		defer out.Close()

		extra := []string{
			`##INFO=<ID=Regions,Number=.,Type=String,Description="Benchmarking regions containing this record">`,
		}
		if e.OutputVTC {
			extra = append(extra,
				`##INFO=<ID=VTC,Number=.,Type=String,Description="Variant count categories this record contributed to">`)
		}
		if err := out.WriteHeader(parser.Header(), extra...); err != nil {
			return nil, fmt.Errorf("write output vcf header: %w", err)
		}
	}

	e.logger.Info("counting variants",
		zap.String("input", in.VCFPath),
		zap.String("mode", string(e.Mode)),
		zap.Int("regions", len(loaded)))

	workers := e.Threads
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	items := make(chan workItem, 2*workers)
	var parseErr error

	go func() {
		defer close(items)
		seq := 0
		for {
			v, err := parser.Next()
			if err != nil {
				parseErr = fmt.Errorf("read variant: %w", err)
				return
			}
			if v == nil {
				return
			}
			items <- workItem{Seq: seq, Variant: v}
			seq++
		}
	}()

	tl := newTally(e.rankFeature(), e.ROCEnabled)
	records := 0

	err = orderedCollect(c.parallelClassify(items, workers), func(r workResult) error {
		tl.add(r.Counts)
		records++
		if out != nil {
			if err := out.WriteRecord(r.Variant, e.annotateInfo(r.Variant, r.Counts)); err != nil {
				return fmt.Errorf("write output vcf record: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if parseErr != nil {
		return nil, parseErr
	}

	e.logger.Info("counted variants", zap.Int("records", records))

	return tl.table(), nil
}

// annotateInfo builds the INFO column for the annotated output VCF.
func (e *Engine) annotateInfo(v *vcf.Variant, rc recordCounts) string {
	var fields []string
	if e.PreserveInfo && len(v.Columns) > 7 && v.Columns[7] != "." {
		fields = append(fields, v.Columns[7])
	}

	if len(rc.Regions) > 0 {
		names := append([]string(nil), rc.Regions...)
		sort.Strings(names)
		fields = append(fields, "Regions="+strings.Join(names, ","))
	}

	if e.OutputVTC {
		if vtc := contributions(rc); len(vtc) > 0 {
			fields = append(fields, "VTC="+strings.Join(vtc, ","))
		}
	}

	if len(fields) == 0 {
		return "."
	}
	return strings.Join(fields, ";")
}

// contributions names the count categories a record landed in, e.g.
// TRUTH.TP or QUERY.FP.
func contributions(rc recordCounts) []string {
	var vtc []string
	if rc.Truth != nil {
		vtc = append(vtc, "TRUTH."+rc.Truth.Decision)
	}
	if rc.Query != nil {
		vtc = append(vtc, "QUERY."+rc.Query.Decision)
	}
	return vtc
}

func (e *Engine) rankFeature() string {
	if e.RankFeature == "" {
		return fmtQQ
	}
	return e.RankFeature
}

func sampleIndex(p *vcf.Parser, name string, fallback int) int {
	if i := p.SampleIndex(name); i >= 0 {
		return i
	}
	return fallback
}

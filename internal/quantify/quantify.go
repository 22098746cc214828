package quantify

import (
	"go.uber.org/zap"

	"github.com/tparidae/hap.py/internal/count"
	"github.com/tparidae/hap.py/internal/regions"
	"github.com/tparidae/hap.py/internal/report"
	"github.com/tparidae/hap.py/internal/roc"
	"github.com/tparidae/hap.py/internal/summary"
)

// Request names the per-run inputs of the pipeline.
type Request struct {
	InputVCF  string // annotated truth/query VCF to quantify
	Prefix    string // base path for all report outputs
	ConfBED   string // confident-call region file, optional
	StratTSV  string // stratification region list, optional
	Reference string // reference FASTA path
}

// Run executes the whole quantification pipeline: region registry, count
// engine, curve construction, summary selection and report writing. The
// returned summary table is the headline result.
func Run(req Request, cfg Config, logger *zap.Logger) (*summary.Table, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	regionSet, err := regions.Build(req.ConfBED, req.StratTSV)
	if err != nil {
		return nil, err
	}

	engine := count.NewEngine(cfg.Mode)
	engine.RankFeature = cfg.ROCFeature
	engine.ROCEnabled = cfg.ROCEnabled
	engine.OutputVTC = cfg.OutputVTC
	engine.PreserveInfo = cfg.PreserveInfo
	engine.Threads = cfg.Threads
	engine.SetLogger(logger)

	orch := NewOrchestrator(engine)
	orch.SetLogger(logger)

	scratch, err := orch.Run(req.InputVCF, req.Prefix, regionSet, req.Reference, cfg)
	if err != nil {
		return nil, err
	}

	raw, err := count.ReadTable(scratch)
	if err != nil {
		return nil, err
	}

	res := roc.Build(raw, cfg.ROCFilter, cfg.ROCDelta)

	sum, err := summary.Summarize(res.All, summary.Options{StrictColumns: cfg.StrictColumns})
	if err != nil {
		return nil, err
	}

	doc := report.NewDocument(cfg.Runner, cfg.Version)
	w := report.NewWriter()
	w.SetLogger(logger)

	err = w.Write(req.Prefix, sum, res, doc, report.Options{
		Extended: cfg.WriteCounts,
		Verbose:  cfg.Verbose,
		Scratch:  scratch,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("quantification complete",
		zap.String("prefix", req.Prefix),
		zap.Int("summary_rows", len(sum.Rows)))

	return sum, nil
}

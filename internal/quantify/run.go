package quantify

import (
	"os"

	"go.uber.org/zap"

	"github.com/tparidae/hap.py/internal/count"
)

// CountEngine classifies annotated records against truth, query and
// region membership, producing the raw count table.
type CountEngine interface {
	Count(count.Input) (*count.Table, error)
}

// Orchestrator validates inputs, builds the engine input and obtains the
// raw count table. Engine failures propagate unchanged; it adds no retry
// logic.
type Orchestrator struct {
	engine CountEngine
	logger *zap.Logger
}

// NewOrchestrator creates an orchestrator around a counting engine.
func NewOrchestrator(engine CountEngine) *Orchestrator {
	return &Orchestrator{engine: engine, logger: zap.NewNop()}
}

// SetLogger sets the logger for progress messages.
func (o *Orchestrator) SetLogger(l *zap.Logger) {
	o.logger = l
}

// Run invokes the counting engine over inputVCF and writes the raw count
// table to <prefix>.roc.tsv, returning that path.
func (o *Orchestrator) Run(inputVCF, prefix string, regionSet map[string]string, reference string, cfg Config) (string, error) {
	if _, err := os.Stat(inputVCF); err != nil {
		return "", &InputNotFoundError{Path: inputVCF}
	}

	outputVCF := prefix + ".vcf.gz"
	if inputVCF == outputVCF || inputVCF == outputVCF+".vcf.gz" {
		return "", &OverwriteError{Input: inputVCF, Output: outputVCF}
	}

	in := count.Input{
		VCFPath:     inputVCF,
		RegionFiles: regionSet,
		FixChr:      cfg.FixChr,
		Reference:   reference,
	}
	if cfg.WriteVCF {
		in.OutputVCF = outputVCF
	}

	o.logger.Info("counting variants", zap.String("input", inputVCF))

	table, err := o.engine.Count(in)
	if err != nil {
		return "", err
	}

	scratch := prefix + ".roc.tsv"
	if err := count.WriteTable(scratch, table); err != nil {
		return "", err
	}
	return scratch, nil
}

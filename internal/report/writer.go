package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tparidae/hap.py/internal/count"
	"github.com/tparidae/hap.py/internal/roc"
	"github.com/tparidae/hap.py/internal/summary"
)

// Extended table columns, in output order. Ratio columns are appended when
// the source table carries them.
var extendedColumns = []string{
	"Type", "Subtype", "Subset", "Filter", "Genotype", "QQ.Field", "QQ",
	"TRUTH.TOTAL", "TRUTH.TP", "TRUTH.FN",
	"QUERY.TOTAL", "QUERY.TP", "QUERY.FP", "QUERY.UNK",
	"METRIC.Recall", "METRIC.Precision", "METRIC.Frac_NA", "METRIC.F1_Score",
}

// Options controls which report artifacts are produced.
type Options struct {
	Extended bool   // also write <prefix>.extended.csv and the extended metrics table
	Verbose  bool   // keep the intermediate raw count table on disk
	Scratch  string // path of the intermediate raw count table
}

// Writer serializes one run's tables.
type Writer struct {
	logger *zap.Logger
}

// NewWriter creates a report writer.
func NewWriter() *Writer {
	return &Writer{logger: zap.NewNop()}
}

// SetLogger sets the logger for non-fatal housekeeping messages.
func (w *Writer) SetLogger(l *zap.Logger) {
	w.logger = l
}

// Write produces <prefix>.summary.csv, optionally <prefix>.extended.csv,
// and <prefix>.metrics.json, then removes the scratch count table unless
// verbose mode keeps it. Scratch removal is best effort; its failure is
// never fatal.
func (w *Writer) Write(prefix string, sum *summary.Table, res *roc.Result, doc *Document, opts Options) error {
	if err := writeCSV(prefix+".summary.csv", sum.Columns, sum.Rows); err != nil {
		return err
	}
	doc.Append("summary.metrics", sum.Columns, sum.Rows)

	if opts.Extended {
		cols := allColumns(res.All)
		if err := writeCSV(prefix+".extended.csv", cols, res.All.Rows); err != nil {
			return err
		}
		doc.Append("all.metrics", cols, res.All.Rows)
	}

	for _, typ := range sortedTypes(res) {
		t := res.PerType[typ]
		doc.Append("roc."+typ, allColumns(t), t.Rows)
	}
	doc.Append("roc.all", allColumns(res.All), res.All.Rows)

	if err := writeJSON(prefix+".metrics.json", doc); err != nil {
		return err
	}

	if !opts.Verbose && opts.Scratch != "" {
		if err := os.Remove(opts.Scratch); err != nil {
			w.logger.Debug("could not remove scratch count table",
				zap.String("path", opts.Scratch), zap.Error(err))
		}
	}

	return nil
}

func writeCSV(path string, columns []string, rows []roc.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}

	bw := bufio.NewWriter(f)
	fmt.Fprintln(bw, strings.Join(columns, ","))
	for i := range rows {
		fmt.Fprintln(bw, strings.Join(Cells(columns, &rows[i]), ","))
	}

	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return f.Close()
}

func writeJSON(path string, doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal metrics document: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write metrics document: %w", err)
	}
	return nil
}

// allColumns returns the extended column set, with the optional ratio
// columns when the table has them.
func allColumns(t *roc.Table) []string {
	cols := append([]string(nil), extendedColumns...)
	if t.HasTiTv {
		cols = append(cols, "TRUTH.TOTAL.TiTv_ratio", "QUERY.TOTAL.TiTv_ratio")
	}
	if t.HasHetHom {
		cols = append(cols, "TRUTH.TOTAL.het_hom_ratio", "QUERY.TOTAL.het_hom_ratio")
	}
	return cols
}

func sortedTypes(res *roc.Result) []string {
	types := make([]string, 0, len(res.PerType))
	for typ := range res.PerType {
		types = append(types, typ)
	}
	sort.Strings(types)
	return types
}

// Cells renders one row under a column list. Unknown columns render empty
// so column sets stay forward compatible.
func Cells(columns []string, r *roc.Row) []string {
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = cell(col, r)
	}
	return out
}

func cell(col string, r *roc.Row) string {
	switch col {
	case "Type":
		return r.Type
	case "Subtype":
		return r.Subtype
	case "Subset":
		return r.Subset
	case "Filter":
		return r.Filter
	case "Genotype":
		return r.Genotype
	case "QQ.Field":
		return r.QQField
	case "QQ":
		return r.QQ
	case "TRUTH.TOTAL":
		return strconv.FormatInt(r.TruthTotal, 10)
	case "TRUTH.TP":
		return strconv.FormatInt(r.TruthTP, 10)
	case "TRUTH.FN":
		return strconv.FormatInt(r.TruthFN, 10)
	case "QUERY.TOTAL":
		return strconv.FormatInt(r.QueryTotal, 10)
	case "QUERY.TP":
		return strconv.FormatInt(r.QueryTP, 10)
	case "QUERY.FP":
		return strconv.FormatInt(r.QueryFP, 10)
	case "QUERY.UNK":
		return strconv.FormatInt(r.QueryUNK, 10)
	case "METRIC.Recall":
		return count.FormatRatio(r.Recall)
	case "METRIC.Precision":
		return count.FormatRatio(r.Precision)
	case "METRIC.Frac_NA":
		return count.FormatRatio(r.FracNA)
	case "METRIC.F1_Score":
		return count.FormatRatio(r.F1)
	case "TRUTH.TOTAL.TiTv_ratio":
		return count.FormatRatio(r.TruthTiTv)
	case "QUERY.TOTAL.TiTv_ratio":
		return count.FormatRatio(r.QueryTiTv)
	case "TRUTH.TOTAL.het_hom_ratio":
		return count.FormatRatio(r.TruthHetHom)
	case "QUERY.TOTAL.het_hom_ratio":
		return count.FormatRatio(r.QueryHetHom)
	}
	return ""
}

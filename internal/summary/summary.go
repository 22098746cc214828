// Package summary selects the headline benchmarking rows and columns from
// the combined metrics table.
package summary

import (
	"fmt"

	"github.com/tparidae/hap.py/internal/count"
	"github.com/tparidae/hap.py/internal/roc"
)

// Columns always present in the summary table, in output order.
var baseColumns = []string{
	"Type", "Filter",
	"TRUTH.TOTAL", "TRUTH.TP", "TRUTH.FN",
	"QUERY.TOTAL", "QUERY.FP", "QUERY.UNK",
	"METRIC.Recall", "METRIC.Precision", "METRIC.Frac_NA",
}

// Optional ratio columns, appended when the source table carries them.
var (
	tiTvColumns   = []string{"TRUTH.TOTAL.TiTv_ratio", "QUERY.TOTAL.TiTv_ratio"}
	hetHomColumns = []string{"TRUTH.TOTAL.het_hom_ratio", "QUERY.TOTAL.het_hom_ratio"}
)

// Options controls summary selection.
type Options struct {
	// StrictColumns fails when the optional ratio columns are absent from
	// the source table instead of silently omitting them.
	StrictColumns bool
}

// Table is the headline result: the unthresholded, unsubset, unsplit
// aggregate per variant type and filter.
type Table struct {
	Columns []string
	Rows    []roc.Row
}

// Summarize filters the combined table down to the headline slice:
// QQ, Subset, Subtype and Genotype at their aggregate level and Filter in
// {ALL, PASS}, projected onto the fixed summary column set.
func Summarize(all *roc.Table, opts Options) (*Table, error) {
	cols := append([]string(nil), baseColumns...)
	if all.HasTiTv {
		cols = append(cols, tiTvColumns...)
	} else if opts.StrictColumns {
		return nil, fmt.Errorf("summary: source table is missing the Ti/Tv ratio columns")
	}
	if all.HasHetHom {
		cols = append(cols, hetHomColumns...)
	} else if opts.StrictColumns {
		return nil, fmt.Errorf("summary: source table is missing the het/hom ratio columns")
	}

	t := &Table{Columns: cols}
	for _, r := range all.Rows {
		if !Headline(&r.Row) {
			continue
		}
		t.Rows = append(t.Rows, r)
	}

	return t, nil
}

// Headline reports whether a row belongs to the summary slice.
func Headline(r *count.Row) bool {
	return r.QQ == count.Aggregate &&
		r.Subset == count.Aggregate &&
		r.Subtype == count.Aggregate &&
		r.Genotype == count.Aggregate &&
		(r.Filter == count.FilterAll || r.Filter == count.FilterPass)
}

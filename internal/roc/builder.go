// Package roc turns raw benchmarking counts into cumulative
// precision/recall-style curves over a ranking feature.
package roc

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/tparidae/hap.py/internal/count"
)

// Row is a count row with derived accuracy metrics.
type Row struct {
	count.Row

	Recall    float64 // TP / (TP + FN)
	Precision float64 // TP / (TP + FP)
	FracNA    float64 // UNK / QUERY.TOTAL
	F1        float64 // harmonic mean of recall and precision
}

// Table is an ordered collection of metric rows.
type Table struct {
	Rows      []Row
	HasTiTv   bool
	HasHetHom bool
}

// Result holds one cumulative curve table per variant type plus the
// combined table used for summary selection and extended output.
type Result struct {
	PerType map[string]*Table
	All     *Table
}

// Build constructs the per-type curves and the combined table.
//
// Per type, the per-ranking-value rows (QQ != "*") are taken from the raw
// table, rows naming excludeFilter among their Filter components are
// dropped,
// and the rest are swept from the strictest threshold to the most
// permissive one, so each curve row carries the cumulative counts of all
// records at or above its ranking value. Curve rows closer than minSpacing
// to the previously retained one are collapsed, keeping the more
// permissive level. The combined table concatenates, per type, the
// unthresholded aggregate rows and the curve rows.
func Build(raw *count.Table, excludeFilter string, minSpacing float64) *Result {
	res := &Result{
		PerType: make(map[string]*Table),
		All:     &Table{HasTiTv: raw.HasTiTv, HasHetHom: raw.HasHetHom},
	}

	for _, typ := range raw.Types() {
		curve := buildCurve(raw, typ, excludeFilter, minSpacing)
		res.PerType[typ] = curve

		for i := range raw.Rows {
			r := &raw.Rows[i]
			if r.Type == typ && r.QQ == count.Aggregate {
				res.All.Rows = append(res.All.Rows, derive(*r))
			}
		}
		res.All.Rows = append(res.All.Rows, curve.Rows...)
	}

	return res
}

// buildCurve cumulates one variant type's ranking levels into a curve.
func buildCurve(raw *count.Table, typ, excludeFilter string, minSpacing float64) *Table {
	t := &Table{HasTiTv: raw.HasTiTv, HasHetHom: raw.HasHetHom}

	// Merge candidate rows per ranking level.
	levels := make(map[string]*count.Row)
	for i := range raw.Rows {
		r := raw.Rows[i]
		if r.Type != typ || r.QQ == count.Aggregate {
			continue
		}
		if excludeFilter != "" && hasFilter(r.Filter, excludeFilter) {
			continue
		}
		if level, ok := levels[r.QQ]; ok {
			level.TruthTotal += r.TruthTotal
			level.TruthTP += r.TruthTP
			level.TruthFN += r.TruthFN
			level.QueryTotal += r.QueryTotal
			level.QueryTP += r.QueryTP
			level.QueryFP += r.QueryFP
			level.QueryUNK += r.QueryUNK
		} else {
			r.Filter = count.FilterAll
			levels[r.QQ] = &r
		}
	}
	if len(levels) == 0 {
		return t
	}

	qqs := make([]string, 0, len(levels))
	for qq := range levels {
		qqs = append(qqs, qq)
	}
	sort.Slice(qqs, func(i, j int) bool { return lessQQ(qqs[i], qqs[j]) })

	var truthTotal int64
	for _, level := range levels {
		truthTotal += level.TruthTotal
	}

	// Sweep from the strictest threshold down, so the row at level q holds
	// the counts of every record ranked at or above q.
	rows := make([]Row, len(qqs))
	var cum count.Row
	for i := len(qqs) - 1; i >= 0; i-- {
		level := levels[qqs[i]]
		cum.TruthTP += level.TruthTP
		cum.QueryTotal += level.QueryTotal
		cum.QueryTP += level.QueryTP
		cum.QueryFP += level.QueryFP
		cum.QueryUNK += level.QueryUNK

		row := *level
		row.TruthTotal = truthTotal
		row.TruthTP = cum.TruthTP
		row.TruthFN = truthTotal - cum.TruthTP
		row.QueryTotal = cum.QueryTotal
		row.QueryTP = cum.QueryTP
		row.QueryFP = cum.QueryFP
		row.QueryUNK = cum.QueryUNK
		rows[i] = derive(row)
	}

	t.Rows = collapse(rows, minSpacing)
	return t
}

// collapse drops curve rows whose ranking value is closer than minSpacing
// to the previously retained one, keeping the most permissive level of
// each run. Non-numeric ranking values are never collapsed.
func collapse(rows []Row, minSpacing float64) []Row {
	if minSpacing <= 0 || len(rows) == 0 {
		return rows
	}

	kept := rows[:1]
	last, lastNumeric := kept[0].QQValue()
	for _, r := range rows[1:] {
		v, ok := r.QQValue()
		if ok && lastNumeric && v-last < minSpacing {
			continue
		}
		kept = append(kept, r)
		last, lastNumeric = v, ok
	}
	return kept
}

// derive fills in the accuracy metrics for one row. Metrics with a zero
// denominator are NaN, the defined "undefined" sentinel.
func derive(r count.Row) Row {
	row := Row{
		Row:       r,
		Recall:    fraction(r.TruthTP, r.TruthTP+r.TruthFN),
		Precision: fraction(r.QueryTP, r.QueryTP+r.QueryFP),
		FracNA:    fraction(r.QueryUNK, r.QueryTotal),
	}
	row.F1 = f1(row.Recall, row.Precision)
	return row
}

func fraction(num, den int64) float64 {
	if den == 0 {
		return math.NaN()
	}
	return float64(num) / float64(den)
}

func f1(recall, precision float64) float64 {
	if math.IsNaN(recall) || math.IsNaN(precision) || recall+precision == 0 {
		return math.NaN()
	}
	return 2 * recall * precision / (recall + precision)
}

// hasFilter reports whether name appears in a Filter value, which may
// join several failing filter names with semicolons.
func hasFilter(filter, name string) bool {
	for _, f := range strings.Split(filter, ";") {
		if f == name {
			return true
		}
	}
	return false
}

func lessQQ(a, b string) bool {
	av, aerr := strconv.ParseFloat(a, 64)
	bv, berr := strconv.ParseFloat(b, 64)
	if aerr == nil && berr == nil {
		return av < bv
	}
	if (aerr == nil) != (berr == nil) {
		return aerr == nil // numeric levels sort before lexical ones
	}
	return a < b
}

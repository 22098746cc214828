// Package count defines the raw benchmarking count table produced by the
// counting engine: one row per variant type, subtype, subset, filter,
// genotype and ranking-value combination.
package count

import (
	"math"
	"sort"
	"strconv"
)

// Aggregate is the wildcard level used for unthresholded, unsplit rows.
const Aggregate = "*"

// Well-known Filter column values.
const (
	FilterAll  = "ALL"
	FilterPass = "PASS"
)

// Row is one raw count table row. Ratio fields are NaN when the source
// data did not provide genotype composition.
type Row struct {
	Type     string // SNP, INDEL, ...
	Subtype  string // ti, tv, ins, del, complex, or *
	Subset   string // stratification region name or *
	Filter   string // ALL, PASS, or a concrete failing filter name
	Genotype string // het, homalt, hetalt, or *
	QQField  string // name of the ranking feature (QQ, QUAL, an INFO key)
	QQ       string // ranking value at this level, or *

	TruthTotal int64
	TruthTP    int64
	TruthFN    int64
	QueryTotal int64
	QueryTP    int64
	QueryFP    int64
	QueryUNK   int64

	TruthTiTv   float64
	QueryTiTv   float64
	TruthHetHom float64
	QueryHetHom float64
}

// QQValue returns the ranking value parsed as a float, with ok=false for
// the aggregate level or non-numeric values.
func (r *Row) QQValue() (float64, bool) {
	if r.QQ == Aggregate || r.QQ == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(r.QQ, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Table is an ordered collection of raw count rows. The Has* flags record
// whether the optional ratio columns were present in the source.
type Table struct {
	Rows      []Row
	HasTiTv   bool
	HasHetHom bool
}

// Types returns the distinct variant types in the table, sorted.
func (t *Table) Types() []string {
	seen := make(map[string]bool)
	var types []string
	for i := range t.Rows {
		if !seen[t.Rows[i].Type] {
			seen[t.Rows[i].Type] = true
			types = append(types, t.Rows[i].Type)
		}
	}
	sort.Strings(types)
	return types
}

// ratio returns num/den, or NaN when the denominator is zero.
func ratio(num, den int64) float64 {
	if den == 0 {
		return math.NaN()
	}
	return float64(num) / float64(den)
}

package count

import (
	"sort"
	"strconv"
	"strings"
)

type tallyKey struct {
	typ, subtype, subset, filter, genotype, qq string
}

type tallyCell struct {
	truthTotal, truthTP, truthFN           int64
	queryTotal, queryTP, queryFP, queryUNK int64

	truthTi, truthTv, truthHet, truthHom int64
	queryTi, queryTv, queryHet, queryHom int64
}

// tally accumulates count contributions across all records of a run.
type tally struct {
	cells     map[tallyKey]*tallyCell
	qqField   string
	roc       bool
	hasTiTv   bool
	hasHetHom bool
}

func newTally(qqField string, roc bool) *tally {
	return &tally{cells: make(map[tallyKey]*tallyCell), qqField: qqField, roc: roc}
}

func (t *tally) cell(k tallyKey) *tallyCell {
	c := t.cells[k]
	if c == nil {
		c = &tallyCell{}
		t.cells[k] = c
	}
	return c
}

// add folds one record's contributions into the table. Every contribution
// lands in the aggregate level of each dimension plus its concrete level.
func (t *tally) add(rc recordCounts) {
	filters := []string{FilterAll}
	if len(rc.Filters) == 0 {
		filters = append(filters, FilterPass)
	} else {
		filters = append(filters, rc.Filters...)
	}

	subsets := append([]string{Aggregate}, rc.Subsets...)

	if rc.Truth != nil {
		t.addCall(rc.Truth, true, subsets, filters, rc)
	}
	if rc.Query != nil {
		t.addCall(rc.Query, false, subsets, filters, rc)
	}
}

func (t *tally) addCall(c *call, truth bool, subsets, filters []string, rc recordCounts) {
	subtypes := []string{Aggregate}
	if c.Subtype != "" {
		subtypes = append(subtypes, c.Subtype)
	}
	genotypes := []string{Aggregate}
	if c.Genotype != "" {
		genotypes = append(genotypes, c.Genotype)
		t.hasHetHom = true
	}
	if c.Type == "SNP" {
		t.hasTiTv = true
	}

	for _, st := range subtypes {
		for _, ss := range subsets {
			for _, fl := range filters {
				for _, gt := range genotypes {
					cell := t.cell(tallyKey{c.Type, st, ss, fl, gt, Aggregate})
					if truth {
						cell.addTruth(c)
					} else {
						cell.addQuery(c)
					}
				}
			}
		}
	}

	// Per-ranking-value levels are tallied exactly once per record, in the
	// fully aggregated slice under the record's joined filter status, so
	// downstream cumulation counts each record exactly once even when the
	// FILTER column names several failing filters.
	if t.roc && rc.QQ != "" {
		fl := FilterPass
		if len(rc.Filters) > 0 {
			fl = strings.Join(rc.Filters, ";")
		}
		cell := t.cell(tallyKey{c.Type, Aggregate, Aggregate, fl, Aggregate, rc.QQ})
		if truth {
			cell.addTruth(c)
		} else {
			cell.addQuery(c)
		}
	}
}

func (c *tallyCell) addTruth(call *call) {
	c.truthTotal++
	switch call.Decision {
	case "TP":
		c.truthTP++
	case "FN":
		c.truthFN++
	}
	c.composition(call, &c.truthTi, &c.truthTv, &c.truthHet, &c.truthHom)
}

func (c *tallyCell) addQuery(call *call) {
	c.queryTotal++
	switch call.Decision {
	case "TP":
		c.queryTP++
	case "FP":
		c.queryFP++
	case "UNK":
		c.queryUNK++
	}
	c.composition(call, &c.queryTi, &c.queryTv, &c.queryHet, &c.queryHom)
}

func (c *tallyCell) composition(call *call, ti, tv, het, hom *int64) {
	switch call.Subtype {
	case "ti":
		*ti++
	case "tv":
		*tv++
	}
	switch call.Genotype {
	case "het":
		*het++
	case "homalt":
		*hom++
	}
}

// table materializes the accumulated cells as a sorted count table.
func (t *tally) table() *Table {
	out := &Table{HasTiTv: t.hasTiTv, HasHetHom: t.hasHetHom}

	keys := make([]tallyKey, 0, len(t.cells))
	for k := range t.cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return lessKey(keys[i], keys[j]) })

	for _, k := range keys {
		c := t.cells[k]
		out.Rows = append(out.Rows, Row{
			Type:     k.typ,
			Subtype:  k.subtype,
			Subset:   k.subset,
			Filter:   k.filter,
			Genotype: k.genotype,
			QQField:  t.qqField,
			QQ:       k.qq,

			TruthTotal: c.truthTotal,
			TruthTP:    c.truthTP,
			TruthFN:    c.truthFN,
			QueryTotal: c.queryTotal,
			QueryTP:    c.queryTP,
			QueryFP:    c.queryFP,
			QueryUNK:   c.queryUNK,

			TruthTiTv:   ratio(c.truthTi, c.truthTv),
			QueryTiTv:   ratio(c.queryTi, c.queryTv),
			TruthHetHom: ratio(c.truthHet, c.truthHom),
			QueryHetHom: ratio(c.queryHet, c.queryHom),
		})
	}

	return out
}

func lessKey(a, b tallyKey) bool {
	if a.typ != b.typ {
		return a.typ < b.typ
	}
	if a.subtype != b.subtype {
		return a.subtype < b.subtype
	}
	if a.subset != b.subset {
		return a.subset < b.subset
	}
	if a.filter != b.filter {
		return a.filter < b.filter
	}
	if a.genotype != b.genotype {
		return a.genotype < b.genotype
	}
	return lessQQ(a.qq, b.qq)
}

// lessQQ orders ranking levels with the aggregate first, then numerically
// when both sides parse, then lexically.
func lessQQ(a, b string) bool {
	if a == b {
		return false
	}
	if a == Aggregate {
		return true
	}
	if b == Aggregate {
		return false
	}
	av, aerr := strconv.ParseFloat(a, 64)
	bv, berr := strconv.ParseFloat(b, 64)
	if aerr == nil && berr == nil {
		return av < bv
	}
	return a < b
}

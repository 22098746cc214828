package duckdb

import (
	"fmt"
	"strconv"

	"github.com/tparidae/hap.py/internal/report"
)

// resultColumns maps metrics-table column names to results table columns,
// in insert order.
var resultColumns = []struct {
	cell    string
	numeric bool
	integer bool
}{
	{"Type", false, false},
	{"Subtype", false, false},
	{"Subset", false, false},
	{"Filter", false, false},
	{"Genotype", false, false},
	{"QQ.Field", false, false},
	{"QQ", false, false},
	{"TRUTH.TOTAL", true, true},
	{"TRUTH.TP", true, true},
	{"TRUTH.FN", true, true},
	{"QUERY.TOTAL", true, true},
	{"QUERY.TP", true, true},
	{"QUERY.FP", true, true},
	{"QUERY.UNK", true, true},
	{"METRIC.Recall", true, false},
	{"METRIC.Precision", true, false},
	{"METRIC.Frac_NA", true, false},
	{"METRIC.F1_Score", true, false},
	{"TRUTH.TOTAL.TiTv_ratio", true, false},
	{"QUERY.TOTAL.TiTv_ratio", true, false},
	{"TRUTH.TOTAL.het_hom_ratio", true, false},
	{"QUERY.TOTAL.het_hom_ratio", true, false},
}

const insertResult = `INSERT INTO results VALUES
	(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// LoadDocument inserts one metrics document's run record and all its table
// rows into the database.
func (s *Store) LoadDocument(doc *report.Document) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO runs VALUES (?, ?, ?, ?)`,
		doc.ID, doc.Name, doc.Version, doc.Timestamp); err != nil {
		return 0, fmt.Errorf("insert run %s: %w", doc.ID, err)
	}

	stmt, err := tx.Prepare(insertResult)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, mt := range doc.Metrics {
		idx := make(map[string]int, len(mt.Columns))
		for i, name := range mt.Columns {
			idx[name] = i
		}

		for _, row := range mt.Rows {
			args := make([]any, 0, len(resultColumns)+2)
			args = append(args, doc.ID, mt.Name)
			for _, col := range resultColumns {
				args = append(args, cellValue(row, idx, col.cell, col.numeric, col.integer))
			}
			if _, err := stmt.Exec(args...); err != nil {
				return 0, fmt.Errorf("insert result row: %w", err)
			}
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// cellValue converts one string cell to its typed column value.
// Absent columns and undefined metrics become NULL.
func cellValue(row []string, idx map[string]int, name string, numeric, integer bool) any {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return nil
	}
	v := row[i]
	if !numeric {
		return v
	}
	if v == "" {
		return nil
	}
	if integer {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil
		}
		return n
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return f
}

// ResultCount returns the number of result rows stored.
func (s *Store) ResultCount() (int64, error) {
	var n int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM results`).Scan(&n)
	return n, err
}

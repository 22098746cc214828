// Package report serializes benchmarking result tables to delimited text
// and assembles the nested metrics document.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/tparidae/hap.py/internal/roc"
)

// Document is the nested metrics object written to <prefix>.metrics.json:
// a named collection of tables tagged with a run identifier.
type Document struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Version   string         `json:"version"`
	Timestamp string         `json:"timestamp"`
	Metrics   []MetricsTable `json:"metrics"`
}

// MetricsTable is one table of the document. Cells are serialized as
// strings so undefined metric values stay representable.
type MetricsTable struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// NewDocument creates an empty metrics document for one run.
func NewDocument(runner, version string) *Document {
	return &Document{
		ID:        uuid.NewString(),
		Name:      runner + ".comparison",
		Version:   version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Append adds a named table to the document.
func (d *Document) Append(name string, columns []string, rows []roc.Row) {
	mt := MetricsTable{Name: name, Columns: columns}
	for i := range rows {
		mt.Rows = append(mt.Rows, Cells(columns, &rows[i]))
	}
	d.Metrics = append(d.Metrics, mt)
}

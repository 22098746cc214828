package duckdb

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tparidae/hap.py/internal/count"
	"github.com/tparidae/hap.py/internal/report"
	"github.com/tparidae/hap.py/internal/roc"
)

func testDocument() *report.Document {
	doc := report.NewDocument("qfy", "0.1.0")
	columns := []string{
		"Type", "Filter", "QQ",
		"TRUTH.TOTAL", "TRUTH.TP", "TRUTH.FN",
		"METRIC.Recall", "METRIC.Precision",
	}
	rows := []roc.Row{
		{
			Row: count.Row{Type: "SNP", Filter: count.FilterAll, QQ: count.Aggregate,
				TruthTotal: 10, TruthTP: 9, TruthFN: 1},
			Recall: 0.9, Precision: math.NaN(),
		},
		{
			Row: count.Row{Type: "INDEL", Filter: count.FilterPass, QQ: "20",
				TruthTotal: 4, TruthTP: 4},
			Recall: 1.0, Precision: 1.0,
		},
	}
	doc.Append("summary.metrics", columns, rows)
	return doc
}

func TestStore_OpenInMemory(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()

	n, err := s.ResultCount()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestStore_OpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "results.duckdb")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err, "schema creation is idempotent")
	require.NoError(t, s.Close())
}

func TestStore_LoadDocument(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()

	doc := testDocument()
	inserted, err := s.LoadDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, int64(2), inserted)

	var name, version string
	err = s.DB().QueryRow(`SELECT name, version FROM runs WHERE run_id = ?`, doc.ID).
		Scan(&name, &version)
	require.NoError(t, err)
	assert.Equal(t, "qfy.comparison", name)
	assert.Equal(t, "0.1.0", version)

	n, err := s.ResultCount()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var truthTP int64
	var recall float64
	err = s.DB().QueryRow(`SELECT truth_tp, metric_recall FROM results
		WHERE run_id = ? AND variant_type = 'SNP'`, doc.ID).Scan(&truthTP, &recall)
	require.NoError(t, err)
	assert.Equal(t, int64(9), truthTP)
	assert.Equal(t, 0.9, recall)
}

func TestStore_LoadDocument_UndefinedMetricsAreNull(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()

	doc := testDocument()
	_, err = s.LoadDocument(doc)
	require.NoError(t, err)

	var nulls int64
	err = s.DB().QueryRow(`SELECT COUNT(*) FROM results
		WHERE run_id = ? AND metric_precision IS NULL`, doc.ID).Scan(&nulls)
	require.NoError(t, err)
	assert.Equal(t, int64(1), nulls)

	// Columns absent from the source table load as NULL too.
	var absent int64
	err = s.DB().QueryRow(`SELECT COUNT(*) FROM results
		WHERE run_id = ? AND query_total IS NULL`, doc.ID).Scan(&absent)
	require.NoError(t, err)
	assert.Equal(t, int64(2), absent)
}

func TestStore_LoadDocument_MultipleRuns(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()

	first := testDocument()
	_, err = s.LoadDocument(first)
	require.NoError(t, err)

	second := testDocument()
	_, err = s.LoadDocument(second)
	require.NoError(t, err)

	var runs int64
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&runs))
	assert.Equal(t, int64(2), runs)

	n, err := s.ResultCount()
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

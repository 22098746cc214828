package report

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tparidae/hap.py/internal/count"
	"github.com/tparidae/hap.py/internal/roc"
	"github.com/tparidae/hap.py/internal/summary"
)

func testResult() (*summary.Table, *roc.Result) {
	agg := roc.Row{
		Row: count.Row{
			Type: "SNP", Subtype: count.Aggregate, Subset: count.Aggregate,
			Filter: count.FilterAll, Genotype: count.Aggregate, QQField: "QQ", QQ: count.Aggregate,
			TruthTotal: 10, TruthTP: 9, TruthFN: 1,
			QueryTotal: 11, QueryTP: 9, QueryFP: 1, QueryUNK: 1,
			TruthTiTv: math.NaN(), QueryTiTv: math.NaN(),
			TruthHetHom: math.NaN(), QueryHetHom: math.NaN(),
		},
		Recall: 0.9, Precision: 0.9, FracNA: 1.0 / 11.0, F1: 0.9,
	}
	lvl := agg
	lvl.QQ = "30"

	res := &roc.Result{
		PerType: map[string]*roc.Table{"SNP": {Rows: []roc.Row{lvl}}},
		All:     &roc.Table{Rows: []roc.Row{agg, lvl}},
	}
	sum := &summary.Table{
		Columns: []string{"Type", "Filter", "TRUTH.TOTAL", "METRIC.Recall"},
		Rows:    []roc.Row{agg},
	}
	return sum, res
}

func TestWriter_Write(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "run")
	sum, res := testResult()
	doc := NewDocument("qfy", "0.1.0")

	err := NewWriter().Write(prefix, sum, res, doc, Options{Extended: true})
	require.NoError(t, err)

	data, err := os.ReadFile(prefix + ".summary.csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Type,Filter,TRUTH.TOTAL,METRIC.Recall", lines[0])
	assert.Equal(t, "SNP,ALL,10,0.9", lines[1])

	data, err = os.ReadFile(prefix + ".extended.csv")
	require.NoError(t, err)
	lines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Type,Subtype,Subset,Filter,Genotype,QQ.Field,QQ,"))
	assert.Contains(t, lines[0], "METRIC.F1_Score")

	_, err = os.Stat(prefix + ".metrics.json")
	require.NoError(t, err)
}

func TestWriter_WriteWithoutExtended(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "run")
	sum, res := testResult()

	err := NewWriter().Write(prefix, sum, res, NewDocument("qfy", "0.1.0"), Options{})
	require.NoError(t, err)

	_, err = os.Stat(prefix + ".extended.csv")
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(prefix + ".summary.csv")
	assert.NoError(t, err)
}

func TestWriter_MetricsDocument(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "run")
	sum, res := testResult()
	doc := NewDocument("qfy", "0.1.0")

	require.NoError(t, NewWriter().Write(prefix, sum, res, doc, Options{Extended: true}))

	data, err := os.ReadFile(prefix + ".metrics.json")
	require.NoError(t, err)

	var got Document
	require.NoError(t, json.Unmarshal(data, &got))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "qfy.comparison", got.Name)
	assert.Equal(t, "0.1.0", got.Version)
	assert.NotEmpty(t, got.Timestamp)

	names := make([]string, len(got.Metrics))
	for i, mt := range got.Metrics {
		names[i] = mt.Name
	}
	assert.Equal(t, []string{"summary.metrics", "all.metrics", "roc.SNP", "roc.all"}, names)

	rocSNP := got.Metrics[2]
	require.Len(t, rocSNP.Rows, 1)
	assert.Equal(t, len(rocSNP.Columns), len(rocSNP.Rows[0]))
}

func TestWriter_ScratchRemoval(t *testing.T) {
	t.Run("removed by default", func(t *testing.T) {
		dir := t.TempDir()
		scratch := filepath.Join(dir, "run.roc.tsv")
		require.NoError(t, os.WriteFile(scratch, []byte("Type\n"), 0o644))
		sum, res := testResult()

		err := NewWriter().Write(filepath.Join(dir, "run"), sum, res,
			NewDocument("qfy", "0.1.0"), Options{Scratch: scratch})
		require.NoError(t, err)

		_, err = os.Stat(scratch)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("kept when verbose", func(t *testing.T) {
		dir := t.TempDir()
		scratch := filepath.Join(dir, "run.roc.tsv")
		require.NoError(t, os.WriteFile(scratch, []byte("Type\n"), 0o644))
		sum, res := testResult()

		err := NewWriter().Write(filepath.Join(dir, "run"), sum, res,
			NewDocument("qfy", "0.1.0"), Options{Scratch: scratch, Verbose: true})
		require.NoError(t, err)

		_, err = os.Stat(scratch)
		assert.NoError(t, err)
	})

	t.Run("missing scratch is not fatal", func(t *testing.T) {
		dir := t.TempDir()
		sum, res := testResult()

		err := NewWriter().Write(filepath.Join(dir, "run"), sum, res,
			NewDocument("qfy", "0.1.0"), Options{Scratch: filepath.Join(dir, "gone.tsv")})
		assert.NoError(t, err)
	})
}

func TestCells_UndefinedValuesRenderEmpty(t *testing.T) {
	r := roc.Row{
		Row:    count.Row{TruthTiTv: math.NaN(), QueryHetHom: math.NaN()},
		Recall: math.NaN(), Precision: 0.5, FracNA: math.NaN(), F1: math.NaN(),
	}

	cells := Cells([]string{"METRIC.Recall", "METRIC.Precision", "TRUTH.TOTAL.TiTv_ratio", "unknown"}, &r)
	assert.Equal(t, []string{"", "0.5", "", ""}, cells)
}

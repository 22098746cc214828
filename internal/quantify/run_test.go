package quantify

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tparidae/hap.py/internal/count"
)

type fakeEngine struct {
	inputs []count.Input
	table  *count.Table
	err    error
}

func (f *fakeEngine) Count(in count.Input) (*count.Table, error) {
	f.inputs = append(f.inputs, in)
	return f.table, f.err
}

func fakeTable() *count.Table {
	return &count.Table{Rows: []count.Row{{
		Type: "SNP", Subtype: count.Aggregate, Subset: count.Aggregate,
		Filter: count.FilterAll, Genotype: count.Aggregate, QQField: "QQ", QQ: count.Aggregate,
		TruthTotal: 5, TruthTP: 5, QueryTotal: 5, QueryTP: 5,
	}}}
}

func writeInputVCF(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("##fileformat=VCFv4.2\n"), 0o644))
	return path
}

func TestOrchestrator_Run(t *testing.T) {
	dir := t.TempDir()
	input := writeInputVCF(t, dir, "annotated.vcf")
	engine := &fakeEngine{table: fakeTable()}
	prefix := filepath.Join(dir, "out")

	cfg := DefaultConfig()
	cfg.FixChr = true
	scratch, err := NewOrchestrator(engine).Run(input, prefix,
		map[string]string{"CONF": "conf.bed"}, "ref.fa", cfg)
	require.NoError(t, err)
	assert.Equal(t, prefix+".roc.tsv", scratch)

	require.Len(t, engine.inputs, 1)
	in := engine.inputs[0]
	assert.Equal(t, input, in.VCFPath)
	assert.Equal(t, "", in.OutputVCF, "annotated output is opt-in")
	assert.Equal(t, map[string]string{"CONF": "conf.bed"}, in.RegionFiles)
	assert.True(t, in.FixChr)
	assert.Equal(t, "ref.fa", in.Reference)

	got, err := count.ReadTable(scratch)
	require.NoError(t, err)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, int64(5), got.Rows[0].TruthTP)
}

func TestOrchestrator_Run_WriteVCF(t *testing.T) {
	dir := t.TempDir()
	input := writeInputVCF(t, dir, "annotated.vcf")
	engine := &fakeEngine{table: fakeTable()}
	prefix := filepath.Join(dir, "out")

	cfg := DefaultConfig()
	cfg.WriteVCF = true
	_, err := NewOrchestrator(engine).Run(input, prefix, nil, "", cfg)
	require.NoError(t, err)

	require.Len(t, engine.inputs, 1)
	assert.Equal(t, prefix+".vcf.gz", engine.inputs[0].OutputVCF)
}

func TestOrchestrator_Run_InputNotFound(t *testing.T) {
	engine := &fakeEngine{table: fakeTable()}

	_, err := NewOrchestrator(engine).Run(filepath.Join(t.TempDir(), "missing.vcf"),
		"out", nil, "", DefaultConfig())

	var notFound *InputNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Empty(t, engine.inputs, "engine must not run on a missing input")
}

func TestOrchestrator_Run_RefusesOverwrite(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"output path", "out.vcf.gz"},
		{"doubled extension", "out.vcf.gz.vcf.gz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			input := writeInputVCF(t, dir, tt.input)
			engine := &fakeEngine{table: fakeTable()}

			_, err := NewOrchestrator(engine).Run(input, filepath.Join(dir, "out"),
				nil, "", DefaultConfig())

			var overwrite *OverwriteError
			require.ErrorAs(t, err, &overwrite)
			assert.Equal(t, input, overwrite.Input)
			assert.Empty(t, engine.inputs, "engine must not run when the input would be clobbered")
		})
	}
}

func TestOrchestrator_Run_EnginePassthrough(t *testing.T) {
	dir := t.TempDir()
	input := writeInputVCF(t, dir, "annotated.vcf")
	sentinel := errors.New("count failed")
	engine := &fakeEngine{err: sentinel}

	_, err := NewOrchestrator(engine).Run(input, filepath.Join(dir, "out"), nil, "", DefaultConfig())
	assert.ErrorIs(t, err, sentinel, "engine failures propagate unchanged")
}

package regions

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBED_Membership(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "r.bed", "chr1\t10\t20\nchr1\t15\t30\nchr2\t0\t5\n")

	b, err := LoadBED(path, false)
	require.NoError(t, err)

	tests := []struct {
		chrom string
		pos   int64 // 1-based
		want  bool
	}{
		{"chr1", 10, false}, // before start (BED is zero-based)
		{"chr1", 11, true},  // first base of [10, 20)
		{"chr1", 20, true},
		{"chr1", 25, true}, // merged with overlapping [15, 30)
		{"chr1", 30, true},
		{"chr1", 31, false},
		{"chr2", 1, true},
		{"chr2", 6, false},
		{"chr3", 1, false},
		{"1", 11, false}, // no normalization without fixchr
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, b.Contains(tt.chrom, tt.pos), "%s:%d", tt.chrom, tt.pos)
	}
}

func TestLoadBED_FixChr(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "r.bed", "1\t10\t20\n")

	b, err := LoadBED(path, true)
	require.NoError(t, err)

	assert.True(t, b.Contains("chr1", 15))
	assert.True(t, b.Contains("1", 15))
}

func TestLoadBED_Gzipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.bed.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte("chr1\t10\t20\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	b, err := LoadBED(path, false)
	require.NoError(t, err)
	assert.True(t, b.Contains("chr1", 15))
}

func TestLoadBED_SkipsCommentsAndTrack(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "r.bed", "# comment\ntrack name=x\nchr1\t10\t20\n")

	b, err := LoadBED(path, false)
	require.NoError(t, err)
	assert.True(t, b.Contains("chr1", 15))
}

func TestLoadBED_Malformed(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"too few columns", "chr1\t10\n"},
		{"bad start", "chr1\tx\t20\n"},
		{"bad end", "chr1\t10\ty\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "bad_"+tt.name+".bed", tt.content)
			_, err := LoadBED(path, false)
			require.Error(t, err)
		})
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	conf := writeFile(t, dir, "conf.bed", "chr1\t0\t1000\n")
	gc := writeFile(t, dir, "gc.bed", "chr1\t0\t100\n")

	loaded, err := LoadAll(map[string]string{"CONF": conf, "HighGC": gc}, false)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.True(t, loaded["CONF"].Contains("chr1", 500))
	assert.False(t, loaded["HighGC"].Contains("chr1", 500))
}

package vcf

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_RoundTrip(t *testing.T) {
	in := writeTestVCF(t, "in.vcf", testVCF)
	p, err := NewParser(in)
	require.NoError(t, err)
	defer p.Close()

	out := filepath.Join(t.TempDir(), "out.vcf.gz")
	w, err := NewWriter(out)
	require.NoError(t, err)

	extra := `##INFO=<ID=Regions,Number=.,Type=String,Description="x">`
	require.NoError(t, w.WriteHeader(p.Header(), extra))

	for {
		v, err := p.Next()
		require.NoError(t, err)
		if v == nil {
			break
		}
		require.NoError(t, w.WriteRecord(v, "Regions=CONF"))
	}
	require.NoError(t, w.Close())

	// Re-parse the gzipped output.
	rp, err := NewParser(out)
	require.NoError(t, err)
	defer rp.Close()

	var header string
	for _, line := range rp.Header() {
		header += line + "\n"
	}
	assert.Contains(t, header, "ID=Regions")
	assert.True(t, strings.Index(header, "ID=Regions") < strings.Index(header, "#CHROM"),
		"extra header line goes before #CHROM")

	v, err := rp.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "CONF", v.Info["Regions"])
	assert.Equal(t, "A", v.Ref)
}

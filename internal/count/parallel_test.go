package count

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tparidae/hap.py/internal/vcf"
)

func makeItems(n int) <-chan workItem {
	ch := make(chan workItem, n)
	for i := range n {
		ch <- workItem{
			Seq: i,
			Variant: &vcf.Variant{
				Chrom: "chr1",
				Pos:   int64(100 + i),
				Ref:   "A",
				Alt:   "T",
			},
		}
	}
	close(ch)
	return ch
}

func TestParallelClassify_OrderPreservation(t *testing.T) {
	c := &classifier{mode: ModeXcmp}

	items := makeItems(200)
	results := c.parallelClassify(items, 8)

	var collected []int
	err := orderedCollect(results, func(r workResult) error {
		collected = append(collected, r.Seq)
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, collected, 200)
	for i, seq := range collected {
		assert.Equal(t, i, seq, "result %d out of order", i)
	}
}

func TestParallelClassify_SingleWorker(t *testing.T) {
	c := &classifier{mode: ModeXcmp}

	items := makeItems(50)
	results := c.parallelClassify(items, 1)

	var collected []int
	err := orderedCollect(results, func(r workResult) error {
		collected = append(collected, r.Seq)
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, collected, 50)
}

func TestParallelClassify_EmptyInput(t *testing.T) {
	c := &classifier{mode: ModeXcmp}

	ch := make(chan workItem)
	close(ch)
	results := c.parallelClassify(ch, 4)

	n := 0
	err := orderedCollect(results, func(r workResult) error {
		n++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestOrderedCollect_EarlyError(t *testing.T) {
	c := &classifier{mode: ModeXcmp}

	items := makeItems(100)
	results := c.parallelClassify(items, 4)

	n := 0
	err := orderedCollect(results, func(r workResult) error {
		n++
		if n == 5 {
			return fmt.Errorf("stop at 5")
		}
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, 5, n)
}

func TestOrderedCollect_UnblocksWorkersAfterError(t *testing.T) {
	c := &classifier{mode: ModeXcmp}

	items := makeItems(100)
	results := c.parallelClassify(items, 4)

	err := orderedCollect(results, func(r workResult) error {
		return fmt.Errorf("sink failed")
	})
	require.Error(t, err)

	// Every worker must have been able to finish: the results channel is
	// fully drained and closed, not still carrying blocked sends.
	_, open := <-results
	assert.False(t, open)
}

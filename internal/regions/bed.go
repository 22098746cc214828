package regions

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// interval is a zero-based half-open [start, end) range.
type interval struct {
	start, end int64
}

// BED is an interval union loaded from a BED file, queryable by position.
type BED struct {
	contigs map[string][]interval
	fixchr  bool
}

// LoadBED reads a .bed or .bed.gz file into a queryable interval union.
// Overlapping and adjacent intervals are merged per contig. When fixchr is
// set, contig names are normalized by stripping any "chr" prefix so region
// files and VCFs with differing naming conventions still match.
func LoadBED(path string, fixchr bool) (*BED, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bed file: %w", err)
	}
	defer f.Close()

	var scanner *bufio.Scanner
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("read gzipped bed %s: %w", path, err)
		}
		defer gz.Close()
		scanner = bufio.NewScanner(gz)
	} else {
		scanner = bufio.NewScanner(f)
	}

	b := &BED{contigs: make(map[string][]interval), fixchr: fixchr}

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "track") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("bed file %s line %d: expected at least 3 columns", path, lineNo)
		}

		start, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bed file %s line %d: invalid start %q", path, lineNo, fields[1])
		}
		end, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bed file %s line %d: invalid end %q", path, lineNo, fields[2])
		}

		chrom := b.normalize(fields[0])
		b.contigs[chrom] = append(b.contigs[chrom], interval{start, end})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read bed file %s: %w", path, err)
	}

	for chrom, ivs := range b.contigs {
		b.contigs[chrom] = mergeIntervals(ivs)
	}

	return b, nil
}

// Contains reports whether the 1-based position pos on chrom falls inside
// the interval union.
func (b *BED) Contains(chrom string, pos int64) bool {
	ivs := b.contigs[b.normalize(chrom)]
	if len(ivs) == 0 {
		return false
	}

	p := pos - 1 // BED coordinates are zero-based
	i := sort.Search(len(ivs), func(i int) bool { return ivs[i].end > p })
	return i < len(ivs) && ivs[i].start <= p
}

func (b *BED) normalize(chrom string) string {
	if b.fixchr {
		return strings.TrimPrefix(chrom, "chr")
	}
	return chrom
}

// mergeIntervals sorts intervals and merges overlapping or adjacent ones.
func mergeIntervals(ivs []interval) []interval {
	sort.Slice(ivs, func(i, j int) bool {
		if ivs[i].start != ivs[j].start {
			return ivs[i].start < ivs[j].start
		}
		return ivs[i].end < ivs[j].end
	})

	merged := ivs[:1]
	for _, iv := range ivs[1:] {
		last := &merged[len(merged)-1]
		if iv.start <= last.end {
			if iv.end > last.end {
				last.end = iv.end
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// LoadAll loads every region in the (name, path) set.
func LoadAll(set map[string]string, fixchr bool) (map[string]*BED, error) {
	loaded := make(map[string]*BED, len(set))
	for name, path := range set {
		b, err := LoadBED(path, fixchr)
		if err != nil {
			return nil, fmt.Errorf("load region %s: %w", name, err)
		}
		loaded[name] = b
	}
	return loaded, nil
}

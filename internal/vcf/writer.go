package vcf

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Writer writes VCF records, gzip-compressed when the path ends in .gz.
// Records are written from their raw columns so untouched fields pass
// through byte for byte.
type Writer struct {
	w    *bufio.Writer
	gz   *gzip.Writer
	file *os.File
}

// NewWriter creates a VCF writer for the given path.
func NewWriter(path string) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create vcf file: %w", err)
	}

	w := &Writer{file: file}
	if strings.HasSuffix(path, ".gz") {
		w.gz = gzip.NewWriter(file)
		w.w = bufio.NewWriter(w.gz)
	} else {
		w.w = bufio.NewWriter(file)
	}
	return w, nil
}

// NewWriterTo creates a VCF writer over an arbitrary io.Writer (e.g. for tests).
func NewWriterTo(out io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(out)}
}

// WriteHeader writes header lines followed by any extra ## lines, which are
// inserted before the #CHROM line.
func (w *Writer) WriteHeader(header []string, extra ...string) error {
	for _, line := range header {
		if strings.HasPrefix(line, "#CHROM") {
			for _, e := range extra {
				if _, err := w.w.WriteString(e + "\n"); err != nil {
					return err
				}
			}
		}
		if _, err := w.w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteRecord writes one record from its raw columns, substituting the INFO
// column when info is non-empty.
func (w *Writer) WriteRecord(v *Variant, info string) error {
	cols := v.Columns
	if info != "" && len(cols) > 7 {
		cols = make([]string, len(v.Columns))
		copy(cols, v.Columns)
		cols[7] = info
	}
	_, err := w.w.WriteString(strings.Join(cols, "\t") + "\n")
	return err
}

// Close flushes and closes the underlying writers.
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		return err
	}
	if w.gz != nil {
		if err := w.gz.Close(); err != nil {
			return err
		}
	}
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}

package count

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// Raw count table column names, in file order. The four ratio columns are
// optional and only present when the engine saw genotype composition.
var (
	requiredColumns = []string{
		"Type", "Subtype", "Subset", "Filter", "Genotype", "QQ.Field", "QQ",
		"TRUTH.TOTAL", "TRUTH.TP", "TRUTH.FN",
		"QUERY.TOTAL", "QUERY.TP", "QUERY.FP", "QUERY.UNK",
	}
	ratioColumns = []string{
		"TRUTH.TOTAL.TiTv_ratio", "QUERY.TOTAL.TiTv_ratio",
		"TRUTH.TOTAL.het_hom_ratio", "QUERY.TOTAL.het_hom_ratio",
	}
)

// MalformedCountRowError reports a raw count table row whose count fields
// cannot be parsed numerically.
type MalformedCountRowError struct {
	Line   int
	Column string
	Value  string
}

func (e *MalformedCountRowError) Error() string {
	return fmt.Sprintf("malformed count row at line %d: column %s has non-numeric value %q", e.Line, e.Column, e.Value)
}

// ReadTable parses a raw count table written by WriteTable.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open count table: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read count table header: %w", err)
		}
		return nil, fmt.Errorf("count table %s is empty", path)
	}

	idx := make(map[string]int)
	for i, name := range strings.Split(scanner.Text(), "\t") {
		idx[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("count table %s: missing column %s", path, name)
		}
	}

	t := &Table{}
	_, hasTruthTiTv := idx["TRUTH.TOTAL.TiTv_ratio"]
	_, hasQueryTiTv := idx["QUERY.TOTAL.TiTv_ratio"]
	t.HasTiTv = hasTruthTiTv && hasQueryTiTv
	_, hasTruthHetHom := idx["TRUTH.TOTAL.het_hom_ratio"]
	_, hasQueryHetHom := idx["QUERY.TOTAL.het_hom_ratio"]
	t.HasHetHom = hasTruthHetHom && hasQueryHetHom

	line := 1
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" {
			continue
		}
		fields := strings.Split(text, "\t")

		get := func(name string) string {
			i := idx[name]
			if i < len(fields) {
				return fields[i]
			}
			return ""
		}

		var rowErr error
		getInt := func(name string) int64 {
			s := get(name)
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil && rowErr == nil {
				rowErr = &MalformedCountRowError{Line: line, Column: name, Value: s}
			}
			return v
		}
		getRatio := func(name string) float64 {
			s := get(name)
			if s == "" || s == "." {
				return math.NaN()
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil && rowErr == nil {
				rowErr = &MalformedCountRowError{Line: line, Column: name, Value: s}
			}
			return v
		}

		row := Row{
			Type:     get("Type"),
			Subtype:  get("Subtype"),
			Subset:   get("Subset"),
			Filter:   get("Filter"),
			Genotype: get("Genotype"),
			QQField:  get("QQ.Field"),
			QQ:       get("QQ"),

			TruthTotal: getInt("TRUTH.TOTAL"),
			TruthTP:    getInt("TRUTH.TP"),
			TruthFN:    getInt("TRUTH.FN"),
			QueryTotal: getInt("QUERY.TOTAL"),
			QueryTP:    getInt("QUERY.TP"),
			QueryFP:    getInt("QUERY.FP"),
			QueryUNK:   getInt("QUERY.UNK"),

			TruthTiTv:   math.NaN(),
			QueryTiTv:   math.NaN(),
			TruthHetHom: math.NaN(),
			QueryHetHom: math.NaN(),
		}
		if t.HasTiTv {
			row.TruthTiTv = getRatio("TRUTH.TOTAL.TiTv_ratio")
			row.QueryTiTv = getRatio("QUERY.TOTAL.TiTv_ratio")
		}
		if t.HasHetHom {
			row.TruthHetHom = getRatio("TRUTH.TOTAL.het_hom_ratio")
			row.QueryHetHom = getRatio("QUERY.TOTAL.het_hom_ratio")
		}
		if rowErr != nil {
			return nil, rowErr
		}

		t.Rows = append(t.Rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read count table: %w", err)
	}

	return t, nil
}

// WriteTable writes the raw count table as tab-separated text.
func WriteTable(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create count table: %w", err)
	}

	w := bufio.NewWriter(f)

	header := append([]string(nil), requiredColumns...)
	if t.HasTiTv {
		header = append(header, ratioColumns[0], ratioColumns[1])
	}
	if t.HasHetHom {
		header = append(header, ratioColumns[2], ratioColumns[3])
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for i := range t.Rows {
		r := &t.Rows[i]
		fields := []string{
			r.Type, r.Subtype, r.Subset, r.Filter, r.Genotype, r.QQField, r.QQ,
			strconv.FormatInt(r.TruthTotal, 10),
			strconv.FormatInt(r.TruthTP, 10),
			strconv.FormatInt(r.TruthFN, 10),
			strconv.FormatInt(r.QueryTotal, 10),
			strconv.FormatInt(r.QueryTP, 10),
			strconv.FormatInt(r.QueryFP, 10),
			strconv.FormatInt(r.QueryUNK, 10),
		}
		if t.HasTiTv {
			fields = append(fields, FormatRatio(r.TruthTiTv), FormatRatio(r.QueryTiTv))
		}
		if t.HasHetHom {
			fields = append(fields, FormatRatio(r.TruthHetHom), FormatRatio(r.QueryHetHom))
		}
		fmt.Fprintln(w, strings.Join(fields, "\t"))
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write count table: %w", err)
	}
	return f.Close()
}

// FormatRatio renders a ratio or metric value, with NaN as an empty cell.
func FormatRatio(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

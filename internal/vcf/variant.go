// Package vcf provides VCF file parsing functionality.
package vcf

import "strings"

// Variant represents a single genomic variant record from a VCF file.
type Variant struct {
	Chrom   string            // Chromosome name (e.g., "12", "chr12")
	Pos     int64             // 1-based genomic position
	ID      string            // Variant identifier (e.g., rs ID)
	Ref     string            // Reference allele
	Alt     string            // Alternate allele(s), comma separated as in the file
	Qual    float64           // Quality score (0 when missing)
	Filter  string            // Raw FILTER column (PASS, ".", or semicolon list)
	Info    map[string]string // INFO field key-value pairs (flags map to "")
	Format  []string          // FORMAT keys, in file order
	Samples []Sample          // One entry per sample column

	// Columns holds the raw tab-split line so records can be passed
	// through to an annotated output VCF without re-serializing.
	Columns []string
}

// Sample holds the FORMAT-keyed values for one sample column.
type Sample map[string]string

// Get returns the value for a FORMAT key, or "" when absent or missing (".").
func (s Sample) Get(key string) string {
	v := s[key]
	if v == "." {
		return ""
	}
	return v
}

// IsSNV returns true if the variant is a single nucleotide variant.
func (v *Variant) IsSNV() bool {
	return len(v.Ref) == 1 && len(v.FirstAlt()) == 1
}

// IsIndel returns true if the variant is an insertion or deletion.
func (v *Variant) IsIndel() bool {
	return len(v.Ref) != len(v.FirstAlt())
}

// IsInsertion returns true if the variant is an insertion.
func (v *Variant) IsInsertion() bool {
	return len(v.FirstAlt()) > len(v.Ref)
}

// IsDeletion returns true if the variant is a deletion.
func (v *Variant) IsDeletion() bool {
	return len(v.Ref) > len(v.FirstAlt())
}

// IsTransition returns true for an A<->G or C<->T single nucleotide change.
func (v *Variant) IsTransition() bool {
	if !v.IsSNV() {
		return false
	}
	switch strings.ToUpper(v.Ref + v.FirstAlt()) {
	case "AG", "GA", "CT", "TC":
		return true
	}
	return false
}

// FirstAlt returns the first alternate allele.
func (v *Variant) FirstAlt() string {
	if i := strings.IndexByte(v.Alt, ','); i >= 0 {
		return v.Alt[:i]
	}
	return v.Alt
}

// IsPass returns true when the FILTER column is PASS or missing.
func (v *Variant) IsPass() bool {
	return v.Filter == "PASS" || v.Filter == "." || v.Filter == ""
}

// Filters returns the individual FILTER names, or nil for PASS/missing.
func (v *Variant) Filters() []string {
	if v.IsPass() {
		return nil
	}
	return strings.Split(v.Filter, ";")
}

// NormalizeChrom returns the chromosome name without "chr" prefix.
func (v *Variant) NormalizeChrom() string {
	if len(v.Chrom) > 3 && v.Chrom[:3] == "chr" {
		return v.Chrom[3:]
	}
	return v.Chrom
}

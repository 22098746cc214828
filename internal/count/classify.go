package count

import (
	"strconv"

	"github.com/tparidae/hap.py/internal/regions"
	"github.com/tparidae/hap.py/internal/vcf"
)

// Benchmarking decision tags carried in the annotated VCF's TRUTH and QUERY
// sample columns (GA4GH intermediate format).
const (
	fmtDecision = "BD"  // TP, FP, FN, N
	fmtKind     = "BK"  // gm (genotype match), am (allele match), lm (local match)
	fmtVType    = "BVT" // SNP, INDEL, NOCALL
	fmtLType    = "BLT" // het, homalt, hetalt, homref, nocall
	fmtQQ       = "QQ"  // ranking value
)

// call is the classified contribution of one sample at one record.
type call struct {
	Decision string // TP, FN, FP, UNK
	Type     string // SNP, INDEL
	Subtype  string // ti, tv, ins, del, complex
	Genotype string // het, homalt, hetalt, or ""
}

// recordCounts is everything one record contributes to the count table.
type recordCounts struct {
	Truth   *call
	Query   *call
	Subsets []string // stratification regions containing the record
	Regions []string // all containing regions including CONF, for output annotation
	InConf  bool     // no confident region registered counts as inside
	Filters []string // concrete failing filter names; empty means PASS
	QQ      string   // ranking value, "" when unavailable
}

// classifier turns annotated records into count contributions.
type classifier struct {
	mode        Mode
	rankFeature string
	truthIdx    int
	queryIdx    int
	conf        *regions.BED
	strat       map[string]*regions.BED
}

func (c *classifier) classify(v *vcf.Variant) recordCounts {
	rc := recordCounts{
		InConf:  true,
		Filters: v.Filters(),
		QQ:      c.rankValue(v),
	}

	if c.conf != nil {
		rc.InConf = c.conf.Contains(v.Chrom, v.Pos)
		if rc.InConf {
			rc.Regions = append(rc.Regions, regions.ConfName)
		}
	}
	for name, bed := range c.strat {
		if bed.Contains(v.Chrom, v.Pos) {
			rc.Subsets = append(rc.Subsets, name)
			rc.Regions = append(rc.Regions, name)
		}
	}

	if c.truthIdx < len(v.Samples) {
		rc.Truth = c.truthCall(v, v.Samples[c.truthIdx])
	}
	if c.queryIdx < len(v.Samples) {
		rc.Query = c.queryCall(v, v.Samples[c.queryIdx], rc.InConf)
	}

	return rc
}

func (c *classifier) truthCall(v *vcf.Variant, s vcf.Sample) *call {
	decision := s.Get(fmtDecision)
	switch decision {
	case "TP":
	case "FN":
		// xcmp comparison tolerates representation differences: an
		// allele or local match still counts as found.
		if c.mode == ModeXcmp && matchKindTolerated(s.Get(fmtKind)) {
			decision = "TP"
		}
	default:
		return nil
	}

	return c.fillCall(v, s, decision)
}

func (c *classifier) queryCall(v *vcf.Variant, s vcf.Sample, inConf bool) *call {
	decision := s.Get(fmtDecision)
	switch decision {
	case "TP":
	case "FP":
		if c.mode == ModeXcmp && matchKindTolerated(s.Get(fmtKind)) {
			decision = "TP"
		}
	case "N", "UNK":
		decision = "UNK"
	default:
		return nil
	}

	// False positives can only be called inside the confident region.
	if !inConf && decision != "UNK" {
		decision = "UNK"
	}

	return c.fillCall(v, s, decision)
}

func (c *classifier) fillCall(v *vcf.Variant, s vcf.Sample, decision string) *call {
	vtype := s.Get(fmtVType)
	switch vtype {
	case "NOCALL":
		return nil
	case "":
		if v.IsSNV() {
			vtype = "SNP"
		} else {
			vtype = "INDEL"
		}
	}

	genotype := s.Get(fmtLType)
	switch genotype {
	case "homref", "nocall":
		genotype = ""
	}

	return &call{
		Decision: decision,
		Type:     vtype,
		Subtype:  subtype(v, vtype),
		Genotype: genotype,
	}
}

// rankValue extracts the configured ranking feature for a record.
func (c *classifier) rankValue(v *vcf.Variant) string {
	switch c.rankFeature {
	case "QUAL":
		return strconv.FormatFloat(v.Qual, 'g', -1, 64)
	case "", fmtQQ:
		if c.queryIdx < len(v.Samples) {
			if qq := v.Samples[c.queryIdx].Get(fmtQQ); qq != "" {
				return qq
			}
		}
		return strconv.FormatFloat(v.Qual, 'g', -1, 64)
	default:
		return v.Info[c.rankFeature]
	}
}

func matchKindTolerated(kind string) bool {
	return kind == "am" || kind == "lm"
}

// subtype buckets a record below its variant type: transition/transversion
// for SNPs, insertion/deletion/complex for indels.
func subtype(v *vcf.Variant, vtype string) string {
	switch vtype {
	case "SNP":
		if v.IsTransition() {
			return "ti"
		}
		return "tv"
	case "INDEL":
		switch {
		case len(v.Ref) == 1 && len(v.FirstAlt()) > 1:
			return "ins"
		case len(v.FirstAlt()) == 1 && len(v.Ref) > 1:
			return "del"
		default:
			return "complex"
		}
	}
	return ""
}

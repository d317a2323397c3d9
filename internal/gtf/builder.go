package gtf

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/bed2gtf/internal/bed"
)

// Builder converts one BED record into its GTF feature lines.
// It performs pure string construction and no I/O.
type Builder struct {
	Source string // source column value
	Strict bool   // treat invalid thick regions as fatal
	logger *zap.Logger
}

// NewBuilder creates a builder with the default source tag.
func NewBuilder() *Builder {
	return &Builder{
		Source: "bed2gtf",
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for warning messages.
func (b *Builder) SetLogger(l *zap.Logger) {
	b.logger = l
}

// Build derives the transcript, exon, CDS, UTR and codon lines for a
// record. geneID is the resolved gene identifier, or "" when gene
// assignment is disabled, in which case no gene_id attribute is
// emitted anywhere.
//
// A structurally invalid thick region downgrades the transcript to
// exon-only output unless the builder is strict.
func (b *Builder) Build(r *bed.Record, geneID string) ([]Feature, error) {
	coding := r.IsCoding()
	if !r.HasValidThick() {
		if b.Strict {
			return nil, &InvalidThickRegionError{
				Transcript: r.Name,
				ThickStart: r.ThickStart,
				ThickEnd:   r.ThickEnd,
			}
		}
		b.logger.Warn("invalid thick region, emitting exon lines only",
			zap.String("transcript", r.Name),
			zap.Int("thickStart", r.ThickStart),
			zap.Int("thickEnd", r.ThickEnd))
		coding = false
	}

	features := make([]Feature, 0, 2+2*len(r.Exons))

	features = append(features, Feature{
		Chrom:      r.Chrom,
		Source:     b.Source,
		Type:       "transcript",
		Start:      r.TxStart + 1,
		End:        r.TxEnd,
		Strand:     r.Strand,
		Phase:      ".",
		Attributes: transcriptAttributes(geneID, r.Name).String(),
	})

	var (
		frames           []int
		first, last      Codon
		cdsStart, cdsEnd int
	)
	if coding {
		frames = exonFrames(r)
		totalCDS := cdsLength(r)
		first = firstCodon(r, totalCDS)
		last = lastCodon(r, totalCDS)

		// The stop codon is reported separately and excluded from the
		// CDS, so the coding region shrinks by 3 bases on the 3' side.
		cdsStart, cdsEnd = r.ThickStart, r.ThickEnd
		if r.Strand == bed.Forward && last.Complete() {
			cdsEnd = shiftCodingEnd(r, 3)
		}
		if r.Strand == bed.Reverse && first.Complete() {
			cdsStart = shiftCodingStart(r, 3)
		}
	}

	for i, e := range r.Exons {
		features = append(features, b.line(r, geneID, "exon", e.Start, e.End, ".", i))
		if coding && cdsStart < cdsEnd {
			features = append(features, b.exonCodingLines(r, geneID, i, e, frames[i], cdsStart, cdsEnd)...)
		}
	}

	if coding {
		start, stop := first, last
		if r.Strand == bed.Reverse {
			start, stop = last, first
		}
		if start.Complete() {
			features = append(features, b.codonLines(r, geneID, "start_codon", start)...)
		}
		if stop.Complete() {
			features = append(features, b.codonLines(r, geneID, "stop_codon", stop)...)
		}
	}

	return features, nil
}

// exonCodingLines emits the UTR and CDS portions of one exon.
// UTR classification uses the original thick bounds, so the trimmed
// stop-codon bases are neither CDS nor UTR.
func (b *Builder) exonCodingLines(r *bed.Record, geneID string, i int, e bed.Exon, frame int, cdsStart, cdsEnd int) []Feature {
	var out []Feature

	if e.Start < r.ThickStart {
		end := e.End
		if r.ThickStart < end {
			end = r.ThickStart
		}
		out = append(out, b.line(r, geneID, utrType(r.Strand, true), e.Start, end, ".", i))
	}

	if cdsStart < e.End && cdsEnd > e.Start {
		start, end := e.Start, e.End
		if cdsStart > start {
			start = cdsStart
		}
		if cdsEnd < end {
			end = cdsEnd
		}
		if start < end {
			out = append(out, b.line(r, geneID, "CDS", start, end, phaseFor(frame), i))
		}
	}

	if e.End > r.ThickEnd {
		start := e.Start
		if r.ThickEnd > start {
			start = r.ThickEnd
		}
		out = append(out, b.line(r, geneID, utrType(r.Strand, false), start, e.End, ".", i))
	}

	return out
}

// codonLines emits one line per codon piece in transcription order.
// Each piece's phase reflects the bases already emitted by earlier
// pieces of the same codon.
func (b *Builder) codonLines(r *bed.Record, geneID, featureType string, c Codon) []Feature {
	pieces := c.Pieces
	if r.Strand == bed.Reverse {
		pieces = make([]CodonPiece, len(c.Pieces))
		for i, p := range c.Pieces {
			pieces[len(c.Pieces)-1-i] = p
		}
	}

	out := make([]Feature, 0, len(pieces))
	consumed := 0
	for _, p := range pieces {
		out = append(out, b.line(r, geneID, featureType, p.Start, p.End, phaseFor(consumed%3), p.ExonIndex))
		consumed += p.End - p.Start
	}
	return out
}

// line builds a feature from a 0-based half-open interval, converting
// to the 1-based inclusive GTF convention.
func (b *Builder) line(r *bed.Record, geneID, featureType string, start, end int, phase string, exonIdx int) Feature {
	return Feature{
		Chrom:      r.Chrom,
		Source:     b.Source,
		Type:       featureType,
		Start:      start + 1,
		End:        end,
		Strand:     r.Strand,
		Phase:      phase,
		Attributes: exonAttributes(geneID, r.Name, r.ExonNumber(exonIdx)),
	}
}

// utrType returns the strand-aware UTR feature type. fivePrimeSide is
// true for the genomically lower side of the thick region.
func utrType(s bed.Strand, fivePrimeSide bool) string {
	if (s == bed.Forward) == fivePrimeSide {
		return "five_prime_utr"
	}
	return "three_prime_utr"
}

// InvalidThickRegionError reports a coding region that is inconsistent
// with its record span.
type InvalidThickRegionError struct {
	Transcript string
	ThickStart int
	ThickEnd   int
}

func (e *InvalidThickRegionError) Error() string {
	return fmt.Sprintf("transcript %s: invalid thick region [%d, %d)",
		e.Transcript, e.ThickStart, e.ThickEnd)
}

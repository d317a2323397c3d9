// Package gtf derives GTF feature lines from parsed BED records.
package gtf

import (
	"fmt"
	"strings"

	"github.com/inodb/bed2gtf/internal/bed"
)

// Feature is one GTF output line. Start and End are 1-based inclusive
// per GTF convention.
type Feature struct {
	Chrom      string
	Source     string
	Type       string
	Start      int
	End        int
	Strand     bed.Strand
	Phase      string
	Attributes string
}

// String renders the feature as a 9-column tab-separated GTF line
// without a trailing newline. The score column is always ".".
func (f *Feature) String() string {
	return fmt.Sprintf("%s\t%s\t%s\t%d\t%d\t.\t%s\t%s\t%s",
		f.Chrom, f.Source, f.Type, f.Start, f.End, f.Strand, f.Phase, f.Attributes)
}

// phaseFor converts an accumulated frame value (coding bases carried
// over from the previous fragment, mod 3) into the GTF phase column:
// the phase counts bases still needed to complete the open codon.
func phaseFor(frame int) string {
	switch frame {
	case 0:
		return "0"
	case 1:
		return "2"
	case 2:
		return "1"
	default:
		return "."
	}
}

// attrWriter assembles an ordered GTF attribute string.
type attrWriter struct {
	b strings.Builder
}

func (a *attrWriter) add(key, value string) {
	if a.b.Len() > 0 {
		a.b.WriteByte(' ')
	}
	fmt.Fprintf(&a.b, "%s \"%s\";", key, value)
}

func (a *attrWriter) String() string {
	return a.b.String()
}

// GeneAttributes builds the attribute string for a gene line.
// biotype is omitted when empty.
func GeneAttributes(geneID, biotype string) string {
	var a attrWriter
	a.add("gene_id", geneID)
	if biotype != "" {
		a.add("gene_biotype", biotype)
	}
	return a.String()
}

// transcriptAttributes builds the gene_id/transcript_id pairs shared by
// every transcript-level feature. geneID is omitted when empty (gene
// assignment disabled).
func transcriptAttributes(geneID, transcriptID string) *attrWriter {
	var a attrWriter
	if geneID != "" {
		a.add("gene_id", geneID)
	}
	a.add("transcript_id", transcriptID)
	return &a
}

// exonAttributes extends the transcript attributes with exon_number and
// exon_id for the exon carrying the given strand-aware number.
func exonAttributes(geneID, transcriptID string, exonNumber int) string {
	a := transcriptAttributes(geneID, transcriptID)
	a.add("exon_number", fmt.Sprintf("%d", exonNumber))
	a.add("exon_id", fmt.Sprintf("%s.%d", transcriptID, exonNumber))
	return a.String()
}

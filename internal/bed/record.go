// Package bed provides BED12 file parsing functionality.
package bed

import (
	"fmt"
	"strconv"
	"strings"
)

// Strand is the transcription direction of a record.
type Strand int8

const (
	Forward Strand = 1
	Reverse Strand = -1
)

// ParseStrand converts a strand column value to a Strand.
// Anything other than "-" is treated as forward, matching BED convention.
func ParseStrand(s string) Strand {
	if s == "-" {
		return Reverse
	}
	return Forward
}

func (s Strand) String() string {
	if s == Reverse {
		return "-"
	}
	return "+"
}

// Exon is an absolute genomic interval (0-based, half-open).
type Exon struct {
	Start int
	End   int
}

// Len returns the number of bases in the exon.
func (e Exon) Len() int {
	return e.End - e.Start
}

// Record represents a single BED12 line with its block structure
// expanded into absolute exon intervals.
type Record struct {
	Chrom      string
	TxStart    int // 0-based
	TxEnd      int // half-open
	Name       string
	Strand     Strand
	ThickStart int // coding region start (0-based), == ThickEnd if non-coding
	ThickEnd   int
	Exons      []Exon // genomic order
}

// ExonCount returns the number of exons.
func (r *Record) ExonCount() int {
	return len(r.Exons)
}

// ExonNumber returns the 1-based, strand-aware number of the exon at
// genomic index i. Numbering follows transcription direction: on the
// reverse strand the genomically last exon is exon 1.
func (r *Record) ExonNumber(i int) int {
	if r.Strand == Reverse {
		return len(r.Exons) - i
	}
	return i + 1
}

// HasValidThick reports whether the thick region is structurally
// consistent: ThickStart <= ThickEnd and contained within the record span.
// An empty thick region (ThickStart == ThickEnd) is valid and non-coding.
func (r *Record) HasValidThick() bool {
	return r.ThickStart <= r.ThickEnd &&
		r.ThickStart >= r.TxStart &&
		r.ThickEnd <= r.TxEnd
}

// IsCoding reports whether the record carries a non-empty, valid
// coding region.
func (r *Record) IsCoding() bool {
	return r.HasValidThick() && r.ThickStart < r.ThickEnd
}

// parseRecord parses the tab-separated fields of one BED line.
// At least 3 fields are required; fields 4-12 are optional and default
// per the BED convention. The block arrays of a 12-field record are
// expanded into absolute exon intervals here so raw parallel arrays
// never leave the parsing boundary.
func parseRecord(fields []string, lineNum int) (*Record, error) {
	if len(fields) < 3 {
		return nil, &ParseError{
			Line:    lineNum,
			Message: fmt.Sprintf("expected at least 3 columns, found %d", len(fields)),
		}
	}

	txStart, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, &ParseError{Line: lineNum, Message: fmt.Sprintf("invalid chromStart: %s", fields[1])}
	}
	txEnd, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, &ParseError{Line: lineNum, Message: fmt.Sprintf("invalid chromEnd: %s", fields[2])}
	}
	if txStart > txEnd {
		return nil, &ParseError{Line: lineNum, Message: fmt.Sprintf("chromStart %d beyond chromEnd %d", txStart, txEnd)}
	}

	r := &Record{
		Chrom:      fields[0],
		TxStart:    txStart,
		TxEnd:      txEnd,
		Name:       fmt.Sprintf("%s:%d-%d", fields[0], txStart, txEnd),
		Strand:     Forward,
		ThickStart: txStart,
		ThickEnd:   txStart,
	}

	if len(fields) > 3 && fields[3] != "" {
		r.Name = fields[3]
	}
	if len(fields) > 5 {
		r.Strand = ParseStrand(fields[5])
	}
	if len(fields) > 7 {
		r.ThickStart, err = strconv.Atoi(fields[6])
		if err != nil {
			return nil, &ParseError{Line: lineNum, Message: fmt.Sprintf("invalid thickStart: %s", fields[6])}
		}
		r.ThickEnd, err = strconv.Atoi(fields[7])
		if err != nil {
			return nil, &ParseError{Line: lineNum, Message: fmt.Sprintf("invalid thickEnd: %s", fields[7])}
		}
	}

	if len(fields) < 10 {
		// No block structure: the whole span is a single exon.
		r.Exons = []Exon{{Start: txStart, End: txEnd}}
		return r, nil
	}
	if len(fields) < 12 {
		return nil, &ParseError{
			Line:    lineNum,
			Message: fmt.Sprintf("blockCount present but only %d columns, need 12", len(fields)),
		}
	}

	blockCount, err := strconv.Atoi(fields[9])
	if err != nil || blockCount < 1 {
		return nil, &ParseError{Line: lineNum, Message: fmt.Sprintf("invalid blockCount: %s", fields[9])}
	}

	sizes, err := parseIntList(fields[10])
	if err != nil {
		return nil, &ParseError{Line: lineNum, Message: fmt.Sprintf("invalid blockSizes: %s", fields[10])}
	}
	starts, err := parseIntList(fields[11])
	if err != nil {
		return nil, &ParseError{Line: lineNum, Message: fmt.Sprintf("invalid blockStarts: %s", fields[11])}
	}

	if len(sizes) != blockCount || len(starts) != blockCount {
		return nil, &ParseError{
			Line: lineNum,
			Message: fmt.Sprintf("blockCount %d does not match %d sizes / %d starts",
				blockCount, len(sizes), len(starts)),
		}
	}

	exons := make([]Exon, blockCount)
	for i := 0; i < blockCount; i++ {
		start := txStart + starts[i]
		end := start + sizes[i]
		if end > txEnd {
			return nil, &ParseError{
				Line:    lineNum,
				Message: fmt.Sprintf("block %d [%d, %d) extends past chromEnd %d", i+1, start, end, txEnd),
			}
		}
		exons[i] = Exon{Start: start, End: end}
	}
	r.Exons = exons

	return r, nil
}

// parseIntList parses a comma-separated integer list, tolerating the
// trailing comma BED writers usually emit.
func parseIntList(s string) ([]int, error) {
	s = strings.TrimSuffix(s, ",")
	if s == "" {
		return nil, fmt.Errorf("empty list")
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", p, err)
		}
		out[i] = n
	}
	return out, nil
}

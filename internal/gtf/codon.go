package gtf

import "github.com/inodb/bed2gtf/internal/bed"

// CodonPiece is one contiguous genomic interval of a codon. Codons
// spanning a splice boundary are represented as multiple pieces, each
// tied to the exon that carries it.
type CodonPiece struct {
	Start     int // 0-based
	End       int // half-open
	ExonIndex int // genomic index into Record.Exons
}

// Codon holds the pieces of a start or stop codon in genomic order.
type Codon struct {
	Pieces []CodonPiece
}

// Complete reports whether the codon covers exactly 3 bases.
func (c Codon) Complete() bool {
	total := 0
	for _, p := range c.Pieces {
		total += p.End - p.Start
	}
	return total == 3
}

// firstCodon locates the first 3 coding bases in genomic order,
// starting at ThickStart and spilling across splice boundaries where
// necessary. On the reverse strand these bases form the stop codon and
// are only on a codon boundary when the full coding length is a
// multiple of 3; otherwise an incomplete codon is returned.
func firstCodon(r *bed.Record, totalCDS int) Codon {
	if r.Strand == bed.Reverse && totalCDS%3 != 0 {
		return Codon{}
	}

	var c Codon
	remaining := 3
	for i, e := range r.Exons {
		start, end := cdsOverlap(e, r.ThickStart, r.ThickEnd)
		if start >= end {
			continue
		}
		take := end - start
		if take > remaining {
			take = remaining
		}
		c.Pieces = append(c.Pieces, CodonPiece{Start: start, End: start + take, ExonIndex: i})
		remaining -= take
		if remaining == 0 {
			break
		}
	}
	return c
}

// lastCodon locates the last 3 coding bases in genomic order, ending
// at ThickEnd. The symmetric boundary condition applies on the forward
// strand.
func lastCodon(r *bed.Record, totalCDS int) Codon {
	if r.Strand == bed.Forward && totalCDS%3 != 0 {
		return Codon{}
	}

	var c Codon
	remaining := 3
	for i := len(r.Exons) - 1; i >= 0; i-- {
		start, end := cdsOverlap(r.Exons[i], r.ThickStart, r.ThickEnd)
		if start >= end {
			continue
		}
		take := end - start
		if take > remaining {
			take = remaining
		}
		c.Pieces = append([]CodonPiece{{Start: end - take, End: end, ExonIndex: i}}, c.Pieces...)
		remaining -= take
		if remaining == 0 {
			break
		}
	}
	return c
}

// shiftCodingEnd moves the coding-region end backward by dist coding
// bases, skipping introns. Used to exclude the stop codon from the
// reported CDS on the forward strand. Returns ThickStart when the
// coding region is too short.
func shiftCodingEnd(r *bed.Record, dist int) int {
	remaining := dist
	for i := len(r.Exons) - 1; i >= 0; i-- {
		start, end := cdsOverlap(r.Exons[i], r.ThickStart, r.ThickEnd)
		if start >= end {
			continue
		}
		if n := end - start; n >= remaining {
			return end - remaining
		} else {
			remaining -= n
		}
	}
	return r.ThickStart
}

// shiftCodingStart moves the coding-region start forward by dist coding
// bases, skipping introns. Used to exclude the stop codon on the
// reverse strand, where the stop occupies the genomically first bases.
func shiftCodingStart(r *bed.Record, dist int) int {
	remaining := dist
	for _, e := range r.Exons {
		start, end := cdsOverlap(e, r.ThickStart, r.ThickEnd)
		if start >= end {
			continue
		}
		if n := end - start; n >= remaining {
			return start + remaining
		} else {
			remaining -= n
		}
	}
	return r.ThickEnd
}

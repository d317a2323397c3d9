package gtf

import "github.com/inodb/bed2gtf/internal/bed"

// cdsOverlap clips an exon to the coding region, returning a 0-based
// half-open interval. The interval is empty (start >= end) when the
// exon carries no coding bases.
func cdsOverlap(e bed.Exon, thickStart, thickEnd int) (int, int) {
	start := e.Start
	if thickStart > start {
		start = thickStart
	}
	end := e.End
	if thickEnd < end {
		end = thickEnd
	}
	return start, end
}

// exonFrames computes the reading frame of each exon's coding portion:
// the number of coding bases consumed before the exon, mod 3.
// Accumulation follows transcription order, so reverse-strand records
// are walked from the genomically last exon backward. Non-coding exons
// get -1.
func exonFrames(r *bed.Record) []int {
	frames := make([]int, len(r.Exons))
	cds := 0

	walk := func(i int) {
		start, end := cdsOverlap(r.Exons[i], r.ThickStart, r.ThickEnd)
		if start < end {
			frames[i] = cds % 3
			cds += end - start
		} else {
			frames[i] = -1
		}
	}

	if r.Strand == bed.Forward {
		for i := range r.Exons {
			walk(i)
		}
	} else {
		for i := len(r.Exons) - 1; i >= 0; i-- {
			walk(i)
		}
	}

	return frames
}

// cdsLength returns the total number of coding bases across all exons.
func cdsLength(r *bed.Record) int {
	total := 0
	for _, e := range r.Exons {
		start, end := cdsOverlap(e, r.ThickStart, r.ThickEnd)
		if start < end {
			total += end - start
		}
	}
	return total
}

package gtf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/bed2gtf/internal/bed"
)

func singleExonCoding() *bed.Record {
	return &bed.Record{
		Chrom: "chr15", TxStart: 81000922, TxEnd: 81005788,
		Name: "ENST00000267984", Strand: bed.Forward,
		ThickStart: 81002271, ThickEnd: 81003360, // 1089 bases, multiple of 3
		Exons: []bed.Exon{{Start: 81000922, End: 81005788}},
	}
}

// Two exons with the coding region split 2+4 across the intron.
func splitCodonRecord(strand bed.Strand) *bed.Record {
	return &bed.Record{
		Chrom: "chr1", TxStart: 0, TxEnd: 300, Name: "tx1", Strand: strand,
		ThickStart: 98, ThickEnd: 204,
		Exons: []bed.Exon{{Start: 0, End: 100}, {Start: 200, End: 300}},
	}
}

func TestFirstCodon_SingleExon(t *testing.T) {
	r := singleExonCoding()
	c := firstCodon(r, cdsLength(r))

	require.True(t, c.Complete())
	require.Len(t, c.Pieces, 1)
	assert.Equal(t, CodonPiece{Start: 81002271, End: 81002274, ExonIndex: 0}, c.Pieces[0])
}

func TestLastCodon_SingleExon(t *testing.T) {
	r := singleExonCoding()
	c := lastCodon(r, cdsLength(r))

	require.True(t, c.Complete())
	require.Len(t, c.Pieces, 1)
	assert.Equal(t, CodonPiece{Start: 81003357, End: 81003360, ExonIndex: 0}, c.Pieces[0])
}

func TestFirstCodon_SplitAcrossIntron(t *testing.T) {
	r := splitCodonRecord(bed.Forward)
	c := firstCodon(r, cdsLength(r))

	require.True(t, c.Complete())
	require.Len(t, c.Pieces, 2)
	assert.Equal(t, CodonPiece{Start: 98, End: 100, ExonIndex: 0}, c.Pieces[0])
	assert.Equal(t, CodonPiece{Start: 200, End: 201, ExonIndex: 1}, c.Pieces[1])
}

func TestLastCodon_SplitRecord(t *testing.T) {
	r := splitCodonRecord(bed.Forward)
	c := lastCodon(r, cdsLength(r))

	require.True(t, c.Complete())
	require.Len(t, c.Pieces, 1)
	assert.Equal(t, CodonPiece{Start: 201, End: 204, ExonIndex: 1}, c.Pieces[0])
}

func TestCodon_FrameBoundary(t *testing.T) {
	// Coding length not a multiple of 3: the codon at the far end of
	// transcription is not on a codon boundary.
	r := splitCodonRecord(bed.Forward)
	r.ThickEnd = 203 // 5 coding bases

	assert.False(t, lastCodon(r, cdsLength(r)).Complete())
	assert.True(t, firstCodon(r, cdsLength(r)).Complete())

	r.Strand = bed.Reverse
	assert.False(t, firstCodon(r, cdsLength(r)).Complete())
	assert.True(t, lastCodon(r, cdsLength(r)).Complete())
}

func TestCodon_ShortCDS(t *testing.T) {
	r := singleExonCoding()
	r.ThickEnd = r.ThickStart + 2 // too short for any codon

	assert.False(t, firstCodon(r, cdsLength(r)).Complete())
	assert.False(t, lastCodon(r, cdsLength(r)).Complete())
}

func TestShiftCodingEnd_WithinExon(t *testing.T) {
	r := splitCodonRecord(bed.Forward)
	assert.Equal(t, 201, shiftCodingEnd(r, 3))
}

func TestShiftCodingEnd_AcrossIntron(t *testing.T) {
	r := splitCodonRecord(bed.Forward)
	r.ThickEnd = 202 // 2 coding bases in the second exon
	assert.Equal(t, 99, shiftCodingEnd(r, 3))
}

func TestShiftCodingStart_WithinExon(t *testing.T) {
	r := singleExonCoding()
	assert.Equal(t, 81002274, shiftCodingStart(r, 3))
}

func TestShiftCodingStart_AcrossIntron(t *testing.T) {
	r := splitCodonRecord(bed.Reverse)
	// 2 coding bases in the first exon, so the shift spills into the second.
	assert.Equal(t, 201, shiftCodingStart(r, 3))
}

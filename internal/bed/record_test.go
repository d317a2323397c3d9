package bed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	singleExonLine = "chr15\t81000922\t81005788\tENST00000267984\t0\t+\t81002271\t81003360\t0\t1\t4866,\t0,"
	nineExonLine   = "chr11\t13934505\t13958243\tENST00000674667\t1000\t-\t13934505\t13958243\t0,0,200\t9\t224,217,228,198,149,142,115,157,49,\t0,1305,2811,5576,10085,14837,18016,19498,23689,"
)

func parseLine(t *testing.T, line string) *Record {
	t.Helper()
	r, err := parseRecord(strings.Split(line, "\t"), 1)
	require.NoError(t, err)
	return r
}

func TestParseRecord_SingleExon(t *testing.T) {
	r := parseLine(t, singleExonLine)

	assert.Equal(t, "chr15", r.Chrom)
	assert.Equal(t, 81000922, r.TxStart)
	assert.Equal(t, 81005788, r.TxEnd)
	assert.Equal(t, "ENST00000267984", r.Name)
	assert.Equal(t, Forward, r.Strand)
	assert.Equal(t, 81002271, r.ThickStart)
	assert.Equal(t, 81003360, r.ThickEnd)
	require.Len(t, r.Exons, 1)
	assert.Equal(t, Exon{Start: 81000922, End: 81005788}, r.Exons[0])
	assert.True(t, r.IsCoding())
}

func TestParseRecord_MultiExonReverse(t *testing.T) {
	r := parseLine(t, nineExonLine)

	assert.Equal(t, Reverse, r.Strand)
	require.Len(t, r.Exons, 9)
	assert.Equal(t, Exon{Start: 13934505, End: 13934729}, r.Exons[0])
	assert.Equal(t, Exon{Start: 13958194, End: 13958243}, r.Exons[8])
}

func TestParseRecord_BlockCountMismatch(t *testing.T) {
	// blockCount says 2 but only one blockSize is given.
	line := "chr1\t100\t1000\ttx1\t0\t+\t100\t1000\t0\t2\t50,\t0,500,"
	_, err := parseRecord(strings.Split(line, "\t"), 7)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 7, perr.Line)
	assert.Contains(t, perr.Message, "blockCount")
}

func TestParseRecord_BlockCountWithoutBlocks(t *testing.T) {
	// blockCount present but the blockSizes/blockStarts columns are missing.
	line := "chr1\t100\t1000\ttx1\t0\t+\t100\t1000\t0\t9"
	_, err := parseRecord(strings.Split(line, "\t"), 3)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 3, perr.Line)
	assert.Contains(t, perr.Message, "columns")

	// 11 columns is just as malformed.
	line = "chr1\t100\t1000\ttx1\t0\t+\t100\t1000\t0\t9\t900,"
	_, err = parseRecord(strings.Split(line, "\t"), 4)
	require.ErrorAs(t, err, &perr)
}

func TestParseRecord_BlockPastEnd(t *testing.T) {
	line := "chr1\t100\t1000\ttx1\t0\t+\t100\t1000\t0\t1\t5000,\t0,"
	_, err := parseRecord(strings.Split(line, "\t"), 1)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "extends past")
}

func TestParseRecord_TooFewFields(t *testing.T) {
	_, err := parseRecord([]string{"chr1", "100"}, 1)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestParseRecord_NonNumeric(t *testing.T) {
	for _, line := range []string{
		"chr1\tabc\t1000",
		"chr1\t100\tabc",
		"chr1\t100\t1000\ttx\t0\t+\tx\t900",
		"chr1\t100\t1000\ttx\t0\t+\t100\t900\t0\tx\t50,\t0,",
		"chr1\t100\t1000\ttx\t0\t+\t100\t900\t0\t1\tx,\t0,",
	} {
		_, err := parseRecord(strings.Split(line, "\t"), 1)
		assert.Error(t, err, "line %q", line)
	}
}

func TestParseRecord_MinimalDefaults(t *testing.T) {
	r, err := parseRecord([]string{"chr1", "100", "1000"}, 1)
	require.NoError(t, err)

	assert.Equal(t, "chr1:100-1000", r.Name)
	assert.Equal(t, Forward, r.Strand)
	assert.False(t, r.IsCoding())
	require.Len(t, r.Exons, 1)
	assert.Equal(t, Exon{Start: 100, End: 1000}, r.Exons[0])
}

func TestExonNumber(t *testing.T) {
	fwd := parseLine(t, singleExonLine)
	assert.Equal(t, 1, fwd.ExonNumber(0))

	rev := parseLine(t, nineExonLine)
	assert.Equal(t, 9, rev.ExonNumber(0), "genomically first exon is last in transcription order")
	assert.Equal(t, 1, rev.ExonNumber(8))
}

func TestHasValidThick(t *testing.T) {
	tests := []struct {
		name       string
		thickStart int
		thickEnd   int
		valid      bool
		coding     bool
	}{
		{"coding", 200, 800, true, true},
		{"empty thick", 100, 100, true, false},
		{"inverted", 800, 200, false, false},
		{"outside span", 50, 800, false, false},
		{"past end", 200, 2000, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Record{
				Chrom: "chr1", TxStart: 100, TxEnd: 1000,
				ThickStart: tt.thickStart, ThickEnd: tt.thickEnd,
				Strand: Forward,
				Exons:  []Exon{{Start: 100, End: 1000}},
			}
			assert.Equal(t, tt.valid, r.HasValidThick())
			assert.Equal(t, tt.coding, r.IsCoding())
		})
	}
}

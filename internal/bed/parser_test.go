package bed

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInput = `# a comment
track name="test" description="test track"
chr15	81000922	81005788	ENST00000267984	0	+	81002271	81003360	0	1	4866,	0,

chr11	13934505	13958243	ENST00000674667	1000	-	13934505	13958243	0,0,200	9	224,217,228,198,149,142,115,157,49,	0,1305,2811,5576,10085,14837,18016,19498,23689,
`

func readAll(t *testing.T, p *Parser) []*Record {
	t.Helper()
	var records []*Record
	for {
		r, err := p.Next()
		require.NoError(t, err)
		if r == nil {
			return records
		}
		records = append(records, r)
	}
}

func TestParser_SkipsHeadersAndBlanks(t *testing.T) {
	p := NewParserFromReader(strings.NewReader(testInput))
	records := readAll(t, p)

	require.Len(t, records, 2)
	assert.Equal(t, "ENST00000267984", records[0].Name)
	assert.Equal(t, "ENST00000674667", records[1].Name)
}

func TestParser_NoTrailingNewline(t *testing.T) {
	input := strings.TrimRight(testInput, "\n")
	p := NewParserFromReader(strings.NewReader(input))
	records := readAll(t, p)
	require.Len(t, records, 2)
}

func TestParser_ErrorCarriesLineNumber(t *testing.T) {
	input := "chr1\t100\t1000\ttx1\t0\t+\t100\t1000\t0\t2\t50,\t0,500,\n"
	p := NewParserFromReader(strings.NewReader(input))

	_, err := p.Next()
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, perr.Line)
}

func TestParser_PlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.bed")
	require.NoError(t, os.WriteFile(path, []byte(testInput), 0644))

	p, err := NewParser(path)
	require.NoError(t, err)
	defer p.Close()

	records := readAll(t, p)
	require.Len(t, records, 2)
}

func TestParser_GzippedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.bed.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(testInput))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	p, err := NewParser(path)
	require.NoError(t, err)
	defer p.Close()

	records := readAll(t, p)
	require.Len(t, records, 2)
	assert.Equal(t, "chr11", records[1].Chrom)
}

func TestParser_EmptyFile(t *testing.T) {
	for name, content := range map[string][]byte{
		"zero bytes": {},
		"one byte":   []byte("\n"),
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "empty.bed")
			require.NoError(t, os.WriteFile(path, content, 0644))

			p, err := NewParser(path)
			require.NoError(t, err)
			defer p.Close()

			records := readAll(t, p)
			assert.Empty(t, records)
		})
	}
}

func TestParser_MissingFile(t *testing.T) {
	_, err := NewParser(filepath.Join(t.TempDir(), "nope.bed"))
	require.Error(t, err)
}

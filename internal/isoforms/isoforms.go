// Package isoforms loads transcript-to-gene identifier mappings.
package isoforms

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Map associates each transcript identifier with its owning gene.
type Map map[string]string

// Gene returns the gene owning the given transcript.
func (m Map) Gene(transcript string) (string, bool) {
	g, ok := m[transcript]
	return g, ok
}

// Load reads a two-column mapping file. Columns default to
// (gene_id, transcript_id); pass swap=true for files with the reverse
// order. Gzipped files are detected by the .gz suffix.
func Load(path string, swap bool) (Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open isoforms file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return FromReader(reader, swap)
}

// FromReader parses mapping lines from a reader. Lines with fewer than
// two whitespace-separated fields, comments and header lines are
// skipped. An empty result is an error: a mapping file that maps
// nothing cannot produce consistent gene identifiers.
func FromReader(r io.Reader, swap bool) (Map, error) {
	m := make(Map)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		gene, transcript := fields[0], fields[1]
		if gene == "Gene" || gene == "gene_id" {
			// column header
			continue
		}
		if swap {
			gene, transcript = transcript, gene
		}
		m[transcript] = gene
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan isoforms: %w", err)
	}

	if len(m) == 0 {
		return nil, fmt.Errorf("no transcript-gene pairs found in isoforms input")
	}

	return m, nil
}

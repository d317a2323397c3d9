package convert

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"time"

	"github.com/inodb/bed2gtf/internal/gtf"
)

// Version information for provenance comments.
const (
	Provider   = "bed2gtf"
	Version    = "1.0.0"
	Repository = "github.com/inodb/bed2gtf"
)

// Writer writes GTF feature lines to an output stream, optionally
// gzip-compressed.
type Writer struct {
	w  *bufio.Writer
	gz *gzip.Writer
}

// NewWriter wraps an output stream. When compress is true the stream
// is gzip-encoded; Close must be called to flush the trailer.
func NewWriter(out io.Writer, compress bool) *Writer {
	w := &Writer{}
	if compress {
		w.gz = gzip.NewWriter(out)
		w.w = bufio.NewWriter(w.gz)
	} else {
		w.w = bufio.NewWriter(out)
	}
	return w
}

// WriteHeader writes the provenance comment block.
func (w *Writer) WriteHeader() error {
	_, err := fmt.Fprintf(w.w, "#provider: %s\n#version: %s\n#contact: %s\n#date: %s\n",
		Provider, Version, Repository, time.Now().UTC().Format("2006-01-02"))
	return err
}

// WriteFeatures writes one line per feature in the given order.
func (w *Writer) WriteFeatures(features []gtf.Feature) error {
	for i := range features {
		if _, err := w.w.WriteString(features[i].String()); err != nil {
			return fmt.Errorf("write feature: %w", err)
		}
		if err := w.w.WriteByte('\n'); err != nil {
			return fmt.Errorf("write feature: %w", err)
		}
	}
	return nil
}

// Close flushes buffered output and finalizes the gzip stream if one
// is in use. It does not close the underlying writer.
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	if w.gz != nil {
		if err := w.gz.Close(); err != nil {
			return fmt.Errorf("close gzip stream: %w", err)
		}
	}
	return nil
}

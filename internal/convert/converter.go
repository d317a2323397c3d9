// Package convert drives the parallel BED-to-GTF conversion pipeline.
package convert

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/inodb/bed2gtf/internal/bed"
	"github.com/inodb/bed2gtf/internal/gtf"
	"github.com/inodb/bed2gtf/internal/isoforms"
)

// RecordSource yields parsed BED records. Next returns nil, nil when
// the input is exhausted.
type RecordSource interface {
	Next() (*bed.Record, error)
}

// Options configures a conversion run.
type Options struct {
	Workers   int    // worker count, 0 means runtime.NumCPU()
	GeneLines bool   // resolve gene identifiers and emit gene lines
	Strict    bool   // invalid thick regions abort the run
	Source    string // GTF source column, defaults to "bed2gtf"
	Biotype   string // gene_biotype attribute value, "" omits it
}

// Converter runs the conversion over a worker pool. Workers share
// nothing but the channels; gene spans accumulate in per-worker tables
// merged after the sweep.
type Converter struct {
	opts    Options
	mapping isoforms.Map
	builder *gtf.Builder
	logger  *zap.Logger
}

// New creates a converter. mapping may be nil when gene assignment is
// disabled.
func New(opts Options, mapping isoforms.Map) *Converter {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Source == "" {
		opts.Source = "bed2gtf"
	}

	b := gtf.NewBuilder()
	b.Source = opts.Source
	b.Strict = opts.Strict

	return &Converter{
		opts:    opts,
		mapping: mapping,
		builder: b,
		logger:  zap.NewNop(),
	}
}

// SetLogger sets the logger for progress and warning messages.
func (c *Converter) SetLogger(l *zap.Logger) {
	c.logger = l
	c.builder.SetLogger(l)
}

// workItem holds one parsed record awaiting conversion.
type workItem struct {
	seq    int
	record *bed.Record
}

// workResult holds the feature lines derived from a single record.
type workResult struct {
	seq      int
	record   *bed.Record
	features []gtf.Feature
	err      error
}

// Run converts every record from the source and returns the complete
// feature set in natural (chromosome, start) order. Gene lines are
// appended only after every transcript has been observed, since a
// gene's span is unknown until its last transcript is seen.
func (c *Converter) Run(source RecordSource) ([]gtf.Feature, error) {
	start := time.Now()
	workers := c.opts.Workers
	c.logger.Info("starting conversion", zap.Int("workers", workers))

	items := make(chan workItem, 2*workers)
	var parseErr error
	records := 0

	go func() {
		defer close(items)
		seq := 0
		for {
			r, err := source.Next()
			if err != nil {
				parseErr = fmt.Errorf("read record: %w", err)
				return
			}
			if r == nil {
				return
			}
			records++
			items <- workItem{seq: seq, record: r}
			seq++
		}
	}()

	results := make(chan workResult, 2*workers)
	tables := make([]*SpanTable, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		table := NewSpanTable()
		tables[w] = table
		go func() {
			defer wg.Done()
			for item := range items {
				results <- c.process(item, table)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var features []gtf.Feature
	if err := orderedCollect(results, func(r workResult) error {
		if r.err != nil {
			return r.err
		}
		features = append(features, r.features...)
		return nil
	}); err != nil {
		return nil, err
	}

	if parseErr != nil {
		return nil, parseErr
	}

	if c.opts.GeneLines {
		merged := tables[0]
		for _, t := range tables[1:] {
			merged.Merge(t)
		}
		features = append(features, merged.Features(c.opts.Source, c.opts.Biotype)...)
		c.logger.Info("aggregated gene spans", zap.Int("genes", merged.Len()))
	}

	SortFeatures(features)

	c.logger.Info("conversion complete",
		zap.Int("records", records),
		zap.Int("features", len(features)),
		zap.Duration("elapsed", time.Since(start)))

	return features, nil
}

// process converts one record, resolving its gene identifier and
// folding its extent into the worker's span table.
func (c *Converter) process(item workItem, table *SpanTable) workResult {
	r := item.record

	geneID := ""
	if c.opts.GeneLines {
		gene, ok := c.mapping.Gene(r.Name)
		if !ok {
			return workResult{seq: item.seq, record: r, err: &UnmappedTranscriptError{Transcript: r.Name}}
		}
		geneID = gene
		table.Observe(geneID, r)
	}

	features, err := c.builder.Build(r, geneID)
	return workResult{seq: item.seq, record: r, features: features, err: err}
}

// orderedCollect calls fn for each result in sequence-number order,
// buffering out-of-order results until the next expected sequence
// number arrives. Blocks until the results channel is closed.
func orderedCollect(results <-chan workResult, fn func(workResult) error) error {
	pending := make(map[int]workResult)
	nextSeq := 0

	for r := range results {
		pending[r.seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}

// UnmappedTranscriptError reports a transcript absent from the isoform
// mapping. This aborts the whole run: GTF output with inconsistent
// gene identifiers is worse than no output.
type UnmappedTranscriptError struct {
	Transcript string
}

func (e *UnmappedTranscriptError) Error() string {
	return fmt.Sprintf("transcript %q not found in isoforms mapping", e.Transcript)
}

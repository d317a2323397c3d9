package convert

import (
	"github.com/inodb/bed2gtf/internal/bed"
	"github.com/inodb/bed2gtf/internal/gtf"
)

// GeneSpan is the aggregated extent of one gene across every
// transcript assigned to it.
type GeneSpan struct {
	Chrom  string
	Strand bed.Strand
	Start  int // 0-based, min over transcripts
	End    int // half-open, max over transcripts
}

// SpanTable accumulates gene spans. Each worker owns a private table;
// tables are merged after the full input sweep, so updates never race.
// Min/max accumulation is commutative, making merge order irrelevant.
type SpanTable struct {
	spans map[string]GeneSpan
}

// NewSpanTable creates an empty span table.
func NewSpanTable() *SpanTable {
	return &SpanTable{spans: make(map[string]GeneSpan)}
}

// Observe folds one transcript's extent into its gene's span.
// Chromosome and strand stick from the first transcript seen.
func (t *SpanTable) Observe(gene string, r *bed.Record) {
	span, ok := t.spans[gene]
	if !ok {
		t.spans[gene] = GeneSpan{
			Chrom:  r.Chrom,
			Strand: r.Strand,
			Start:  r.TxStart,
			End:    r.TxEnd,
		}
		return
	}
	if r.TxStart < span.Start {
		span.Start = r.TxStart
	}
	if r.TxEnd > span.End {
		span.End = r.TxEnd
	}
	t.spans[gene] = span
}

// Merge folds another table into this one.
func (t *SpanTable) Merge(other *SpanTable) {
	for gene, o := range other.spans {
		span, ok := t.spans[gene]
		if !ok {
			t.spans[gene] = o
			continue
		}
		if o.Start < span.Start {
			span.Start = o.Start
		}
		if o.End > span.End {
			span.End = o.End
		}
		t.spans[gene] = span
	}
}

// Len returns the number of genes observed.
func (t *SpanTable) Len() int {
	return len(t.spans)
}

// Features renders one gene line per observed gene.
func (t *SpanTable) Features(source, biotype string) []gtf.Feature {
	out := make([]gtf.Feature, 0, len(t.spans))
	for gene, span := range t.spans {
		out = append(out, gtf.Feature{
			Chrom:      span.Chrom,
			Source:     source,
			Type:       "gene",
			Start:      span.Start + 1,
			End:        span.End,
			Strand:     span.Strand,
			Phase:      ".",
			Attributes: gtf.GeneAttributes(gene, biotype),
		})
	}
	return out
}

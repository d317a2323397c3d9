package convert

import (
	"sort"

	"github.com/fvbommel/sortorder"

	"github.com/inodb/bed2gtf/internal/gtf"
)

// SortFeatures orders features by natural chromosome comparison, then
// start coordinate, so "chr2" sorts before "chr10". The relative order
// of features sharing a (chromosome, start) pair is unspecified.
func SortFeatures(features []gtf.Feature) {
	sort.Slice(features, func(i, j int) bool {
		a, b := &features[i], &features[j]
		if a.Chrom != b.Chrom {
			return sortorder.NaturalLess(a.Chrom, b.Chrom)
		}
		return a.Start < b.Start
	})
}

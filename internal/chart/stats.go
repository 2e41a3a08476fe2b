package chart

import (
	"math"
	"slices"
	"strconv"
)

// bins are equal-width histogram bins described by their edges. The last bin
// is closed on the right.
type bins struct {
	edges []float64
}

// sturgesBins picks ceil(log2(n))+1 equal-width bins over the range of vals.
// A constant sample gets one bin; an empty sample gets none.
func sturgesBins(vals []float64) bins {
	if len(vals) == 0 {
		return bins{}
	}
	lo, hi := slices.Min(vals), slices.Max(vals)
	if lo == hi {
		return bins{edges: []float64{lo - 0.5, hi + 0.5}}
	}

	k := int(math.Ceil(math.Log2(float64(len(vals))))) + 1
	width := (hi - lo) / float64(k)
	edges := make([]float64, k+1)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[k] = hi
	return bins{edges: edges}
}

func (b bins) count() int {
	if len(b.edges) < 2 {
		return 0
	}
	return len(b.edges) - 1
}

// index returns the bin holding v. Values outside the range clamp to the
// first or last bin.
func (b bins) index(v float64) int {
	n := b.count()
	if n <= 1 {
		return 0
	}
	width := (b.edges[n] - b.edges[0]) / float64(n)
	i := int((v - b.edges[0]) / width)
	return max(0, min(n-1, i))
}

func (b bins) labels() []string {
	out := make([]string, b.count())
	for i := range out {
		out[i] = formatNumber(b.edges[i]) + " to " + formatNumber(b.edges[i+1])
	}
	return out
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', 4, 64)
}

// quantile returns the p-quantile of sorted using linear interpolation
// between closest ranks.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// fiveNumber summarizes a non-empty sample.
func fiveNumber(vals []float64) Box {
	sorted := slices.Clone(vals)
	slices.Sort(sorted)
	return Box{
		sorted[0],
		quantile(sorted, 0.25),
		quantile(sorted, 0.5),
		quantile(sorted, 0.75),
		sorted[len(sorted)-1],
	}
}

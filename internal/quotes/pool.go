package quotes

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/sampleuv"
)

var (
	ErrNoValidItems   = fmt.Errorf("no valid quotes found")
	ErrWeightOverflow = fmt.Errorf("total weight overflows")
)

// Item is a quote as it comes from the configuration. A nil Weight means
// the quote is weighted automatically.
type Item struct {
	Weight  *float64
	Content string
}

type entry struct {
	weight  float64
	content string
}

// Pool is a set of quotes with normalized weights.
//
// Guarantees:
//   - non-empty;
//   - every weight is positive and finite;
//   - the sum of all weights is finite.
type Pool struct {
	entries   []entry
	total     float64
	discarded int
	src       rand.Source
}

// Build normalizes items into a pool. Weighted items with a zero, negative,
// NaN or infinite weight are dropped. Unweighted items get the average weight
// of the surviving weighted items, or 1 if there are none.
func Build(items []Item, src rand.Source) (*Pool, error) {
	normalized := make([]entry, 0, len(items))
	var unweighted []Item
	var total float64
	var discarded int

	for _, item := range items {
		if item.Weight == nil {
			unweighted = append(unweighted, item)
			continue
		}
		weight := *item.Weight
		if !usable(weight) {
			discarded++
			continue
		}
		total += weight
		normalized = append(normalized, entry{weight: weight, content: item.Content})
	}

	if len(unweighted) > 0 {
		weight := 1.0
		if len(normalized) > 0 {
			weight = total / float64(len(normalized))
		}
		for _, item := range unweighted {
			total += weight
			normalized = append(normalized, entry{weight: weight, content: item.Content})
		}
	}

	if total == 0 {
		return nil, ErrNoValidItems
	}
	if math.IsInf(total, 0) || math.IsNaN(total) {
		return nil, ErrWeightOverflow
	}

	return &Pool{
		entries:   normalized,
		total:     total,
		discarded: discarded,
		src:       src,
	}, nil
}

func usable(weight float64) bool {
	return weight > 0 && !math.IsInf(weight, 1) && !math.IsNaN(weight)
}

// Choose returns a random quote, picked with probability proportional to its weight.
func (p *Pool) Choose() string {
	weights := p.Weights()
	idx, ok := sampleuv.NewWeighted(weights, p.src).Take()
	if !ok {
		// weights are validated in Build
		panic("quotes: pool has no positive weights")
	}
	return p.entries[idx].content
}

// Weights returns a copy of the effective weights in pool order.
func (p *Pool) Weights() []float64 {
	weights := make([]float64, len(p.entries))
	for i, e := range p.entries {
		weights[i] = e.weight
	}
	return weights
}

// Contents returns quotes in pool order.
func (p *Pool) Contents() []string {
	contents := make([]string, len(p.entries))
	for i, e := range p.entries {
		contents[i] = e.content
	}
	return contents
}

func (p *Pool) Len() int {
	return len(p.entries)
}

func (p *Pool) TotalWeight() float64 {
	return p.total
}

// Discarded is the number of weighted items dropped because of an unusable weight.
func (p *Pool) Discarded() int {
	return p.discarded
}

package quotes

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func w(v float64) *float64 {
	return &v
}

func testSource() rand.Source {
	return rand.NewPCG(1, 2)
}

func TestBuild_MixedWeights(t *testing.T) {
	pool, err := Build([]Item{
		{Weight: w(2), Content: "a"},
		{Weight: w(6), Content: "b"},
		{Content: "c"},
	}, testSource())
	require.NoError(t, err)

	assert.Equal(t, []float64{2, 6, 4}, pool.Weights())
	assert.Equal(t, []string{"a", "b", "c"}, pool.Contents())
	assert.Equal(t, 12.0, pool.TotalWeight())
	assert.Equal(t, 0, pool.Discarded())
}

func TestBuild_SingleUnweighted(t *testing.T) {
	pool, err := Build([]Item{{Content: "only"}}, testSource())
	require.NoError(t, err)

	assert.Equal(t, []float64{1}, pool.Weights())
	assert.Equal(t, "only", pool.Choose())
}

func TestBuild_DiscardsUnusableWeights(t *testing.T) {
	pool, err := Build([]Item{
		{Weight: w(0), Content: "zero"},
		{Weight: w(math.Copysign(0, -1)), Content: "negative zero"},
		{Weight: w(-3), Content: "negative"},
		{Weight: w(math.NaN()), Content: "nan"},
		{Weight: w(math.Inf(1)), Content: "inf"},
		{Weight: w(3), Content: "ok"},
		{Content: "auto"},
	}, testSource())
	require.NoError(t, err)

	assert.Equal(t, []string{"ok", "auto"}, pool.Contents())
	assert.Equal(t, []float64{3, 3}, pool.Weights())
	assert.Equal(t, 6.0, pool.TotalWeight())
	assert.Equal(t, 5, pool.Discarded())
}

func TestBuild_NoValidItems(t *testing.T) {
	cases := map[string][]Item{
		"empty": nil,
		"all invalid": {
			{Weight: w(0), Content: "a"},
			{Weight: w(-1), Content: "b"},
			{Weight: w(math.NaN()), Content: "c"},
			{Weight: w(math.Inf(-1)), Content: "d"},
		},
	}

	for name, items := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Build(items, testSource())
			assert.ErrorIs(t, err, ErrNoValidItems)
		})
	}
}

func TestBuild_WeightOverflow(t *testing.T) {
	_, err := Build([]Item{
		{Weight: w(math.MaxFloat64), Content: "a"},
		{Weight: w(math.MaxFloat64), Content: "b"},
	}, testSource())
	assert.ErrorIs(t, err, ErrWeightOverflow)
}

func TestBuild_UnweightedOverflow(t *testing.T) {
	// the average of one huge weight is the weight itself, folding it in overflows
	_, err := Build([]Item{
		{Weight: w(math.MaxFloat64), Content: "a"},
		{Content: "b"},
	}, testSource())
	assert.ErrorIs(t, err, ErrWeightOverflow)
}

func TestBuild_TotalIsSumOfEffectiveWeights(t *testing.T) {
	items := []Item{
		{Weight: w(0.5), Content: "a"},
		{Content: "b"},
		{Weight: w(1.25), Content: "c"},
		{Content: "d"},
		{Weight: w(-1), Content: "e"},
	}
	pool, err := Build(items, testSource())
	require.NoError(t, err)

	var sum float64
	for _, weight := range pool.Weights() {
		sum += weight
	}
	assert.InDelta(t, sum, pool.TotalWeight(), 1e-12)
	assert.Equal(t, []float64{0.5, 1.25, 0.875, 0.875}, pool.Weights())
}

func TestBuild_Idempotent(t *testing.T) {
	items := []Item{
		{Weight: w(2), Content: "a"},
		{Content: "b"},
		{Weight: w(7), Content: "c"},
	}
	first, err := Build(items, testSource())
	require.NoError(t, err)
	second, err := Build(items, testSource())
	require.NoError(t, err)

	assert.Equal(t, first.Weights(), second.Weights())
	assert.Equal(t, first.Contents(), second.Contents())
}

func TestChoose_Distribution(t *testing.T) {
	pool, err := Build([]Item{
		{Weight: w(2), Content: "a"},
		{Weight: w(6), Content: "b"},
		{Content: "c"},
	}, rand.NewPCG(42, 42))
	require.NoError(t, err)

	const draws = 120000
	counts := map[string]int{}
	for i := 0; i < draws; i++ {
		counts[pool.Choose()]++
	}

	expected := map[string]float64{"a": 1.0 / 6, "b": 1.0 / 2, "c": 1.0 / 3}
	for content, p := range expected {
		got := float64(counts[content]) / draws
		// five standard errors
		tolerance := 5 * math.Sqrt(p*(1-p)/draws)
		assert.InDelta(t, p, got, tolerance, "quote %q", content)
	}
}

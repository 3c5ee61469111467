package sim

import "context"

// yieldEvery is the trial-batch granularity at which the kernel checks for
// cancellation. Nothing inside a single trial yields.
const yieldEvery = 4096

// aggregates configures the counters derived in the same pass as the
// per-combo evaluation.
type aggregates struct {
	// starterPools holds the distinct first-card pools across combos.
	// Multi-starter counting is enabled only when at least two combos
	// lead with different cards.
	starterPools   []int
	starterEnabled bool

	// trapPools holds the pools classified as hand traps. Enabled only
	// for concrete decks, where the classifier has real names to work on.
	trapPools   []int
	trapEnabled bool
}

// buildAggregates derives the aggregate configuration from the query.
func buildAggregates(combos []Combo, ps *poolSet) aggregates {
	var agg aggregates

	starterNames := make(map[string]bool)
	for i := range combos {
		if s := combos[i].Starter(); s != "" {
			starterNames[normName(s)] = true
		}
	}
	if len(starterNames) >= 2 {
		agg.starterEnabled = true
		for name := range starterNames {
			if p, ok := ps.byName[name]; ok {
				agg.starterPools = append(agg.starterPools, p)
			}
		}
	}

	if ps.concrete {
		agg.trapEnabled = true
		for p, isTrap := range ps.handTrap {
			if isTrap {
				agg.trapPools = append(agg.trapPools, p)
			}
		}
	}

	return agg
}

// kernelResult accumulates raw success counters over one batch of trials.
type kernelResult struct {
	trials    int
	comboHits []int
	unionHits int
	// starterHits[i] counts trials with at least i+2 distinct starters.
	starterHits [2]int
	// trapHits[i] counts trials with at least i+1 distinct hand traps.
	trapHits [4]int
}

// runKernel draws m opening hands and evaluates every combo and aggregate
// against each. The first handSize positions of the deck are materialized
// with a partial Fisher-Yates shuffle: swapping position i with a uniform
// j in [i, n) for i < handSize yields a uniform hand prefix in O(H) work.
//
// Cancellation is checked every yieldEvery trials; a cancelled run returns
// the context error and its partial counters are discarded by the caller.
func runKernel(ctx context.Context, ps *poolSet, combos []*compiledCombo, agg aggregates, m int, g *rng) (*kernelResult, error) {
	res := &kernelResult{
		trials:    m,
		comboHits: make([]int, len(combos)),
	}

	n := ps.deckSize
	h := ps.handSize
	work := make([]int16, n)
	counts := make([]int, len(ps.sizes))

	for trial := 0; trial < m; trial++ {
		if trial%yieldEvery == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		copy(work, ps.template)
		for i := range counts {
			counts[i] = 0
		}
		for i := 0; i < h; i++ {
			j := i + g.IntN(n-i)
			work[i], work[j] = work[j], work[i]
			if p := work[i]; p != blankPool {
				counts[p]++
			}
		}

		anyHit := false
		for ci, cc := range combos {
			if cc.eval(counts) {
				res.comboHits[ci]++
				anyHit = true
			}
		}
		if anyHit {
			res.unionHits++
		}

		if agg.starterEnabled {
			distinct := 0
			for _, p := range agg.starterPools {
				if counts[p] > 0 {
					distinct++
				}
			}
			if distinct >= 2 {
				res.starterHits[0]++
			}
			if distinct >= 3 {
				res.starterHits[1]++
			}
		}

		if agg.trapEnabled {
			distinct := 0
			for _, p := range agg.trapPools {
				if counts[p] > 0 {
					distinct++
				}
			}
			for k := 1; k <= len(res.trapHits); k++ {
				if distinct >= k {
					res.trapHits[k-1]++
				}
			}
		}
	}

	return res, nil
}

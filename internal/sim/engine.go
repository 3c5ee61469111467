package sim

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

const (
	// DefaultSimCount is the trial count used when the query leaves it zero.
	DefaultSimCount = 100_000
	// MaxSimCount caps runaway trial counts.
	MaxSimCount = 1_000_000
)

// Options configures an Engine.
type Options struct {
	// Logger receives diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
	// HandTraps replaces the bundled hand-trap classifier list.
	HandTraps []string
	// CacheSize bounds the result cache. Defaults to 256 entries.
	CacheSize int
}

// Engine evaluates queries. It owns the result cache and the hand-trap
// classifier; the card metadata store stays outside, feeding concrete deck
// specs through the parser. Safe for concurrent use.
type Engine struct {
	logger    *slog.Logger
	handTraps map[string]bool
	cache     *resultCache

	rngCalls   atomic.Uint64
	refreshSeq atomic.Uint64

	mu           sync.Mutex
	lastDeckSize int
	lastHandSize int
	sized        bool
}

// New creates an engine.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	traps := opts.HandTraps
	if traps == nil {
		traps = DefaultHandTraps
	}
	return &Engine{
		logger:    logger,
		handTraps: handTrapSet(traps),
		cache:     newResultCache(opts.CacheSize),
	}
}

// Evaluate runs the full pipeline: validate, fingerprint, cache lookup,
// kernel and aggregates, sample hand, cache write. A cancelled context
// discards the partial counters and writes nothing to the cache.
func (e *Engine) Evaluate(ctx context.Context, q *Query) (*Report, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}

	simCount := q.SimCount
	if simCount == 0 {
		simCount = DefaultSimCount
	}
	if simCount > MaxSimCount {
		e.logger.Warn("clamping simulation count", "requested", simCount, "max", MaxSimCount)
		simCount = MaxSimCount
	}

	// Changing the deck or hand size invalidates every cached report.
	e.mu.Lock()
	if e.sized && (e.lastDeckSize != q.Deck.DeckSize || e.lastHandSize != q.Deck.HandSize) {
		e.cache.purge()
	}
	e.lastDeckSize, e.lastHandSize = q.Deck.DeckSize, q.Deck.HandSize
	e.sized = true
	e.mu.Unlock()

	fp := fingerprint(q, simCount)
	if report, ok := e.cache.get(fp); ok {
		return report, nil
	}

	ps, err := buildPools(&q.Deck, q.Combos, e.handTraps)
	if err != nil {
		return nil, err
	}
	compiled := compileCombos(q.Combos, ps)
	agg := buildAggregates(q.Combos, ps)

	seed := entropySeed()
	if q.Seed != nil {
		seed = *q.Seed
	}

	res, err := runKernel(ctx, ps, compiled, agg, simCount, newRNG(seed, &e.rngCalls))
	if err != nil {
		return nil, err
	}

	report, err := e.assembleReport(q, agg, res)
	if err != nil {
		return nil, err
	}

	// The sample hand draws from a derived stream so that refreshes and
	// the trial estimator never consume each other's numbers.
	report.SampleHand = sampleHand(ps, newRNG(subSeed(seed, 0), &e.rngCalls))

	e.cache.put(fp, report)
	return report, nil
}

// RefreshSample returns a fresh sample hand for the query without touching
// the cached report. Each call consumes a new derived stream, so repeated
// refreshes keep producing new hands deterministically from the query seed.
func (e *Engine) RefreshSample(q *Query) ([]CardSlot, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}
	ps, err := buildPools(&q.Deck, q.Combos, e.handTraps)
	if err != nil {
		return nil, err
	}

	seed := entropySeed()
	if q.Seed != nil {
		seed = *q.Seed
	}
	stream := e.refreshSeq.Add(1)
	return sampleHand(ps, newRNG(subSeed(seed, stream), &e.rngCalls)), nil
}

// RNGCalls reports how many PRNG draws the engine has made. Cache hits draw
// nothing, which makes memoization observable.
func (e *Engine) RNGCalls() uint64 {
	return e.rngCalls.Load()
}

// CacheLen reports the number of memoized reports.
func (e *Engine) CacheLen() int {
	return e.cache.len()
}

// assembleReport turns raw counters into the report's probabilities.
func (e *Engine) assembleReport(q *Query, agg aggregates, res *kernelResult) (*Report, error) {
	if res.trials <= 0 {
		return nil, fmt.Errorf("%w: kernel produced no trials", ErrInternal)
	}
	m := float64(res.trials)

	report := &Report{
		PerCombo: make(map[string]Probability, len(q.Combos)),
		Formulas: make([]FormulaData, 0, len(q.Combos)),
	}

	seenIDs := make(map[string]bool, len(q.Combos))
	for i := range q.Combos {
		combo := &q.Combos[i]
		id := combo.ID
		if id == "" {
			id = combo.Name
		}
		if seenIDs[id] {
			return nil, fmt.Errorf("%w: duplicate combo id %q", ErrInvalidQuery, id)
		}
		seenIDs[id] = true

		report.PerCombo[id] = Probability(float64(res.comboHits[i]) / m)

		formula := FormulaData{
			ComboID:   id,
			ComboName: combo.Name,
			DeckSize:  q.Deck.DeckSize,
			HandSize:  q.Deck.HandSize,
			Terms:     make([]FormulaTerm, 0, len(combo.Cards)),
		}
		for j, c := range combo.Cards {
			logic := c.Logic
			if j == 0 {
				logic = ""
			} else if logic == "" {
				logic = LogicAnd
			}
			formula.Terms = append(formula.Terms, FormulaTerm{
				CardName:     c.CardName,
				CopiesInDeck: c.CopiesInDeck,
				MinInHand:    c.MinInHand,
				MaxInHand:    c.MaxInHand,
				Logic:        logic,
			})
		}
		report.Formulas = append(report.Formulas, formula)
	}

	if len(q.Combos) >= 2 {
		union := Probability(float64(res.unionHits) / m)
		report.UnionAll = &union
	}
	if agg.starterEnabled {
		report.MultiStarter = map[int]Probability{
			2: Probability(float64(res.starterHits[0]) / m),
			3: Probability(float64(res.starterHits[1]) / m),
		}
	}
	if agg.trapEnabled {
		report.MultiHandTrap = make(map[int]Probability, len(res.trapHits))
		for k := 1; k <= len(res.trapHits); k++ {
			report.MultiHandTrap[k] = Probability(float64(res.trapHits[k-1]) / m)
		}
	}

	return report, nil
}

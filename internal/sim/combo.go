package sim

import (
	"fmt"
	"regexp"
)

// comboNameRe is the allowed alphabet for combo names.
var comboNameRe = regexp.MustCompile(`^[A-Za-z0-9 ]+$`)

// maxComboCards bounds the constraint list of a single combo.
const maxComboCards = 16

// term is one compiled card constraint: the hand must hold between min and
// max copies of pool. pool -1 means the card is not in the deck at all, so
// its hand count is always zero.
type term struct {
	pool int
	min  int
	max  int
	or   bool
}

func (t *term) satisfied(counts []int) bool {
	n := 0
	if t.pool >= 0 {
		n = counts[t.pool]
	}
	return n >= t.min && n <= t.max
}

// compiledCombo is a combo lowered onto pool indices, ready for the hot loop.
type compiledCombo struct {
	id    string
	terms []term
}

// eval left-folds the terms: the first seeds the predicate, each following
// term joins with its own AND/OR.
func (c *compiledCombo) eval(counts []int) bool {
	res := c.terms[0].satisfied(counts)
	for i := 1; i < len(c.terms); i++ {
		t := &c.terms[i]
		if t.or {
			res = res || t.satisfied(counts)
		} else {
			res = res && t.satisfied(counts)
		}
	}
	return res
}

// validateQuery enforces the data-model invariants before any simulation.
func validateQuery(q *Query) error {
	d := &q.Deck
	if d.DeckSize < 1 {
		return fmt.Errorf("%w: deck size must be at least 1, got %d", ErrInvalidQuery, d.DeckSize)
	}
	if d.HandSize < 0 || d.HandSize > d.DeckSize {
		return fmt.Errorf("%w: hand size %d outside [0, %d]", ErrInvalidQuery, d.HandSize, d.DeckSize)
	}
	if q.SimCount < 0 {
		return fmt.Errorf("%w: negative simulation count %d", ErrInvalidQuery, q.SimCount)
	}
	if d.Concrete() && len(d.Main) != d.DeckSize {
		return fmt.Errorf("%w: deck_size %d does not match main deck of %d cards",
			ErrInvalidQuery, d.DeckSize, len(d.Main))
	}

	seenNames := make(map[string]bool, len(q.Combos))
	for i := range q.Combos {
		combo := &q.Combos[i]
		if combo.Name == "" || !comboNameRe.MatchString(combo.Name) {
			return fmt.Errorf("%w: combo %q: name must be non-empty alphanumeric", ErrInvalidQuery, combo.Name)
		}
		if seenNames[combo.Name] {
			return fmt.Errorf("%w: duplicate combo name %q", ErrInvalidQuery, combo.Name)
		}
		seenNames[combo.Name] = true

		if len(combo.Cards) == 0 {
			return fmt.Errorf("%w: combo %q has no cards", ErrInvalidQuery, combo.Name)
		}
		if len(combo.Cards) > maxComboCards {
			return fmt.Errorf("%w: combo %q has %d cards, limit is %d",
				ErrInvalidQuery, combo.Name, len(combo.Cards), maxComboCards)
		}

		// Invariant: within a combo the distinct card pools must fit the
		// deck. Duplicate names share one pool, so count each name once.
		poolCopies := make(map[string]int)
		for _, c := range combo.Cards {
			if normName(c.CardName) == "" {
				return fmt.Errorf("%w: combo %q has a constraint with an empty card name",
					ErrInvalidQuery, combo.Name)
			}
			if c.CopiesInDeck < 0 || c.CopiesInDeck > d.DeckSize {
				return fmt.Errorf("%w: combo %q card %q: %d copies outside [0, %d]",
					ErrInvalidQuery, combo.Name, c.CardName, c.CopiesInDeck, d.DeckSize)
			}
			if c.MinInHand < 0 || c.MinInHand > c.MaxInHand {
				return fmt.Errorf("%w: combo %q card %q: min %d exceeds max %d",
					ErrInvalidQuery, combo.Name, c.CardName, c.MinInHand, c.MaxInHand)
			}
			if c.MaxInHand > c.CopiesInDeck {
				return fmt.Errorf("%w: combo %q card %q: max in hand %d exceeds %d copies in deck",
					ErrInvalidQuery, combo.Name, c.CardName, c.MaxInHand, c.CopiesInDeck)
			}
			if c.MaxInHand > d.HandSize {
				return fmt.Errorf("%w: combo %q card %q: max in hand %d exceeds hand size %d",
					ErrInvalidQuery, combo.Name, c.CardName, c.MaxInHand, d.HandSize)
			}
			if c.CopiesInDeck > poolCopies[normName(c.CardName)] {
				poolCopies[normName(c.CardName)] = c.CopiesInDeck
			}
		}
		sum := 0
		for _, n := range poolCopies {
			sum += n
		}
		if sum > d.DeckSize {
			return fmt.Errorf("%w: combo %q declares %d copies across distinct cards but the deck holds %d",
				ErrInvalidQuery, combo.Name, sum, d.DeckSize)
		}
	}

	return nil
}

// compileCombos lowers combos onto the pool set. Must run after buildPools.
func compileCombos(combos []Combo, ps *poolSet) []*compiledCombo {
	out := make([]*compiledCombo, 0, len(combos))
	for i := range combos {
		combo := &combos[i]
		cc := &compiledCombo{
			id:    combo.ID,
			terms: make([]term, 0, len(combo.Cards)),
		}
		for j, c := range combo.Cards {
			cc.terms = append(cc.terms, term{
				pool: ps.pool(c.CardName),
				min:  c.MinInHand,
				max:  c.MaxInHand,
				or:   j > 0 && c.Logic == LogicOr,
			})
		}
		out = append(out, cc)
	}
	return out
}

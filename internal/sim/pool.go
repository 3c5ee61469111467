package sim

import (
	"fmt"
	"strings"
)

// blankPool marks deck positions that belong to no constrained card.
const blankPool = int16(-1)

// poolSet is the conceptual flat deck the kernel shuffles. Each distinct card
// name maps to one pool index; every constraint that names the same card,
// across all combos of the query, resolves to that one pool. A physical card
// can therefore never be present for one combo and absent for another in the
// same trial.
type poolSet struct {
	deckSize int
	handSize int

	names    []string       // display name per pool, first spelling wins
	sizes    []int          // copies per pool
	byName   map[string]int // normalized name -> pool index
	handTrap []bool         // per-pool hand-trap classification
	concrete bool

	// template is the unshuffled deck: sizes[p] copies of each pool index
	// followed by blanks up to deckSize.
	template []int16
}

func normName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// buildPools materializes the deck model for a query. For concrete decks the
// physical main-deck multiset defines the pools; for abstract decks the combo
// constraints do, one pool per distinct name sized by the largest
// copies_in_deck any constraint declares for it.
func buildPools(deck *DeckSpec, combos []Combo, handTraps map[string]bool) (*poolSet, error) {
	ps := &poolSet{
		deckSize: deck.DeckSize,
		handSize: deck.HandSize,
		byName:   make(map[string]int),
		concrete: deck.Concrete(),
	}

	if ps.concrete {
		if len(deck.Main) != deck.DeckSize {
			return nil, fmt.Errorf("%w: deck_size %d does not match main deck of %d cards",
				ErrInvalidQuery, deck.DeckSize, len(deck.Main))
		}
		for _, name := range deck.Main {
			key := normName(name)
			p, ok := ps.byName[key]
			if !ok {
				p = len(ps.names)
				ps.byName[key] = p
				ps.names = append(ps.names, name)
				ps.sizes = append(ps.sizes, 0)
				ps.handTrap = append(ps.handTrap, handTraps[key])
			}
			ps.sizes[p]++
		}
	} else {
		for _, combo := range combos {
			for _, c := range combo.Cards {
				key := normName(c.CardName)
				p, ok := ps.byName[key]
				if !ok {
					p = len(ps.names)
					ps.byName[key] = p
					ps.names = append(ps.names, c.CardName)
					ps.sizes = append(ps.sizes, 0)
					ps.handTrap = append(ps.handTrap, handTraps[key])
				}
				if c.CopiesInDeck > ps.sizes[p] {
					ps.sizes[p] = c.CopiesInDeck
				}
			}
		}
	}

	total := 0
	for _, n := range ps.sizes {
		total += n
	}
	if total > ps.deckSize {
		return nil, fmt.Errorf("%w: constrained card pools hold %d copies but the deck has %d slots",
			ErrInvalidQuery, total, ps.deckSize)
	}

	ps.template = make([]int16, 0, ps.deckSize)
	for p, n := range ps.sizes {
		for i := 0; i < n; i++ {
			ps.template = append(ps.template, int16(p))
		}
	}
	for len(ps.template) < ps.deckSize {
		ps.template = append(ps.template, blankPool)
	}

	return ps, nil
}

// pool returns the pool index for a card name, or -1 when the name maps to no
// pool (a constraint on a card absent from a concrete deck).
func (ps *poolSet) pool(name string) int {
	if p, ok := ps.byName[normName(name)]; ok {
		return p
	}
	return -1
}

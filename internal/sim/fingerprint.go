package sim

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// fingerprint derives the canonical cache key of a query. Combos are keyed by
// a hash of their sorted constraint tuples, not by their user-supplied names,
// and the combo keys themselves are sorted: permuting combos, or constraints
// within a combo, yields the same fingerprint. For concrete decks the main
// deck composition is part of the key, since it decides pool sizes and the
// hand-trap aggregate.
func fingerprint(q *Query, simCount int) string {
	comboKeys := make([]string, 0, len(q.Combos))
	for i := range q.Combos {
		comboKeys = append(comboKeys, comboKey(&q.Combos[i]))
	}
	sort.Strings(comboKeys)

	h := sha256.New()
	fmt.Fprintf(h, "deck=%d/%d;sims=%d;", q.Deck.DeckSize, q.Deck.HandSize, simCount)
	if q.Seed != nil {
		fmt.Fprintf(h, "seed=%d;", *q.Seed)
	} else {
		fmt.Fprint(h, "seed=entropy;")
	}
	if q.Deck.Concrete() {
		fmt.Fprintf(h, "main=%s;", deckKey(q.Deck.Main))
	}
	for _, k := range comboKeys {
		fmt.Fprintf(h, "combo=%s;", k)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// comboKey hashes one combo's constraints in canonical order.
func comboKey(c *Combo) string {
	tuples := make([]string, 0, len(c.Cards))
	for _, cc := range c.Cards {
		logic := cc.Logic
		if logic == "" {
			logic = LogicAnd
		}
		tuples = append(tuples, fmt.Sprintf("%s|%d|%d|%d|%s",
			normName(cc.CardName), cc.CopiesInDeck, cc.MinInHand, cc.MaxInHand, logic))
	}
	sort.Strings(tuples)

	sum := sha256.Sum256([]byte(strings.Join(tuples, ";")))
	return hex.EncodeToString(sum[:])
}

// deckKey canonicalizes a concrete main deck as sorted name:count pairs.
func deckKey(main []string) string {
	counts := make(map[string]int)
	for _, name := range main {
		counts[normName(name)]++
	}
	pairs := make([]string, 0, len(counts))
	for name, n := range counts {
		pairs = append(pairs, fmt.Sprintf("%s:%d", name, n))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

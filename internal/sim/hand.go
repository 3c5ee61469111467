package sim

// sampleHand performs one prefix shuffle of the deck template and returns the
// drawn hand in draw order. Blanks of an abstract deck stay blanks; the
// caller sees them as empty slots.
func sampleHand(ps *poolSet, g *rng) []CardSlot {
	n := ps.deckSize
	h := ps.handSize

	work := make([]int16, n)
	copy(work, ps.template)

	hand := make([]CardSlot, 0, h)
	for i := 0; i < h; i++ {
		j := i + g.IntN(n-i)
		work[i], work[j] = work[j], work[i]
		if p := work[i]; p == blankPool {
			hand = append(hand, CardSlot{Blank: true})
		} else {
			hand = append(hand, CardSlot{Name: ps.names[p]})
		}
	}
	return hand
}

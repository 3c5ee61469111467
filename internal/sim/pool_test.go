package sim

import (
	"errors"
	"testing"
)

func TestBuildPoolsAbstractSharesAcrossCombos(t *testing.T) {
	// Two combos constrain the same card with different copy counts: one
	// pool sized by the maximum, not the sum.
	combos := []Combo{
		singleCardCombo("c1", "First", "Card A", 3, 1, 3),
		singleCardCombo("c2", "Second", "Card A", 2, 1, 2),
		singleCardCombo("c3", "Third", "Card B", 1, 1, 1),
	}
	ps, err := buildPools(&DeckSpec{DeckSize: 40, HandSize: 5}, combos, nil)
	if err != nil {
		t.Fatalf("buildPools() error = %v", err)
	}

	if len(ps.sizes) != 2 {
		t.Fatalf("got %d pools, want 2", len(ps.sizes))
	}
	if ps.sizes[ps.pool("Card A")] != 3 {
		t.Errorf("Card A pool size = %d, want max copies 3", ps.sizes[ps.pool("Card A")])
	}
	if ps.sizes[ps.pool("Card B")] != 1 {
		t.Errorf("Card B pool size = %d, want 1", ps.sizes[ps.pool("Card B")])
	}

	blanks := 0
	for _, p := range ps.template {
		if p == blankPool {
			blanks++
		}
	}
	if blanks != 36 {
		t.Errorf("template holds %d blanks, want 36", blanks)
	}
	if len(ps.template) != 40 {
		t.Errorf("template length = %d, want 40", len(ps.template))
	}
}

func TestBuildPoolsConcreteUsesPhysicalCounts(t *testing.T) {
	deck := &DeckSpec{
		DeckSize: 6,
		HandSize: 3,
		Main:     []string{"Card A", "Card B", "Card A", "Card C", "Card A", "Card B"},
	}
	ps, err := buildPools(deck, nil, nil)
	if err != nil {
		t.Fatalf("buildPools() error = %v", err)
	}

	if len(ps.sizes) != 3 {
		t.Fatalf("got %d pools, want 3", len(ps.sizes))
	}
	if got := ps.sizes[ps.pool("Card A")]; got != 3 {
		t.Errorf("Card A pool size = %d, want 3", got)
	}
	if got := ps.sizes[ps.pool("card b")]; got != 2 {
		t.Errorf("Card B pool size = %d (case-insensitive lookup), want 2", got)
	}
	for _, p := range ps.template {
		if p == blankPool {
			t.Fatal("concrete deck template contains blanks")
		}
	}
}

func TestBuildPoolsConcreteClassifiesHandTraps(t *testing.T) {
	deck := &DeckSpec{
		DeckSize: 3,
		HandSize: 1,
		Main:     []string{"Ash Blossom & Joyous Spring", "Card A", "Card A"},
	}
	traps := handTrapSet([]string{"Ash Blossom & Joyous Spring"})

	ps, err := buildPools(deck, nil, traps)
	if err != nil {
		t.Fatalf("buildPools() error = %v", err)
	}
	if !ps.handTrap[ps.pool("Ash Blossom & Joyous Spring")] {
		t.Error("hand trap not classified")
	}
	if ps.handTrap[ps.pool("Card A")] {
		t.Error("non-trap classified as hand trap")
	}
}

func TestBuildPoolsOversubscribed(t *testing.T) {
	combos := []Combo{
		singleCardCombo("c1", "First", "Card A", 30, 1, 3),
		singleCardCombo("c2", "Second", "Card B", 20, 1, 3),
	}
	_, err := buildPools(&DeckSpec{DeckSize: 40, HandSize: 5}, combos, nil)
	if !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("buildPools() error = %v, want ErrInvalidQuery", err)
	}
}

package sim

import "testing"

func TestCompiledComboFold(t *testing.T) {
	// Pools: 0 = A, 1 = B, 2 = C.
	tests := []struct {
		name   string
		terms  []term
		counts []int
		want   bool
	}{
		{
			name:   "single satisfied",
			terms:  []term{{pool: 0, min: 1, max: 3}},
			counts: []int{2, 0, 0},
			want:   true,
		},
		{
			name:   "single above max",
			terms:  []term{{pool: 0, min: 1, max: 1}},
			counts: []int{2, 0, 0},
			want:   false,
		},
		{
			name:   "and both present",
			terms:  []term{{pool: 0, min: 1, max: 3}, {pool: 1, min: 1, max: 3}},
			counts: []int{1, 1, 0},
			want:   true,
		},
		{
			name:   "and one missing",
			terms:  []term{{pool: 0, min: 1, max: 3}, {pool: 1, min: 1, max: 3}},
			counts: []int{1, 0, 0},
			want:   false,
		},
		{
			name:   "or one present",
			terms:  []term{{pool: 0, min: 1, max: 3}, {pool: 1, min: 1, max: 3, or: true}},
			counts: []int{0, 1, 0},
			want:   true,
		},
		{
			name:   "or both missing",
			terms:  []term{{pool: 0, min: 1, max: 3}, {pool: 1, min: 1, max: 3, or: true}},
			counts: []int{0, 0, 0},
			want:   false,
		},
		{
			name: "left fold groups and before or",
			// (A AND B) OR C
			terms: []term{
				{pool: 0, min: 1, max: 3},
				{pool: 1, min: 1, max: 3},
				{pool: 2, min: 1, max: 3, or: true},
			},
			counts: []int{1, 0, 1},
			want:   true,
		},
		{
			name: "left fold or then and",
			// (A OR B) AND C
			terms: []term{
				{pool: 0, min: 1, max: 3},
				{pool: 1, min: 1, max: 3, or: true},
				{pool: 2, min: 1, max: 3},
			},
			counts: []int{0, 1, 0},
			want:   false,
		},
		{
			name:   "absent pool counts zero",
			terms:  []term{{pool: -1, min: 1, max: 3}},
			counts: []int{5, 5, 5},
			want:   false,
		},
		{
			name:   "absent pool satisfies zero interval",
			terms:  []term{{pool: -1, min: 0, max: 0}},
			counts: []int{5, 5, 5},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := &compiledCombo{terms: tt.terms}
			if got := cc.eval(tt.counts); got != tt.want {
				t.Errorf("eval() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompileCombosResolvesSharedPools(t *testing.T) {
	combos := []Combo{
		singleCardCombo("c1", "First", "Card A", 3, 1, 3),
		singleCardCombo("c2", "Second", "card a", 2, 1, 2),
	}
	ps, err := buildPools(&DeckSpec{DeckSize: 40, HandSize: 5}, combos, nil)
	if err != nil {
		t.Fatalf("buildPools() error = %v", err)
	}

	compiled := compileCombos(combos, ps)
	if compiled[0].terms[0].pool != compiled[1].terms[0].pool {
		t.Error("case-insensitive duplicate card names mapped to different pools")
	}
}

func TestCompileCombosMissingConcreteCard(t *testing.T) {
	deck := &DeckSpec{
		DeckSize: 2,
		HandSize: 1,
		Main:     []string{"Card A", "Card A"},
	}
	combos := []Combo{singleCardCombo("c1", "Ghost", "Card B", 1, 1, 1)}

	ps, err := buildPools(deck, combos, nil)
	if err != nil {
		t.Fatalf("buildPools() error = %v", err)
	}
	compiled := compileCombos(combos, ps)
	if compiled[0].terms[0].pool != -1 {
		t.Errorf("pool = %d for a card absent from the deck, want -1", compiled[0].terms[0].pool)
	}
}

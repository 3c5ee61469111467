// Package sim implements the Monte Carlo opening-hand probability engine.
//
// A Query pairs a deck (abstract size-only or a concrete card list) with a
// set of user combos. Evaluate draws sim_count opening hands, evaluates each
// combo predicate against the hand multiplicities, and reports per-combo and
// aggregate probabilities together with a representative sample hand.
package sim

import "math"

// Logic joins a card constraint to the running combo predicate.
type Logic string

const (
	LogicAnd Logic = "and"
	LogicOr  Logic = "or"
)

// CardConstraint bounds the number of copies of one card in the opening hand.
// Two constraints with the same card name inside one combo (or across combos)
// refer to the same physical pool of copies.
type CardConstraint struct {
	CardName     string `json:"card_name"`
	CopiesInDeck int    `json:"copies_in_deck"`
	MinInHand    int    `json:"min_in_hand"`
	MaxInHand    int    `json:"max_in_hand"`
	// Logic joins this constraint to the ones before it. The first
	// constraint of a combo seeds the predicate; its Logic is ignored.
	Logic Logic `json:"logic,omitempty"`
}

// Combo is a predicate over opening-hand multiplicities: a left fold over its
// constraints, each joined with AND or OR.
type Combo struct {
	ID    string           `json:"id"`
	Name  string           `json:"name"`
	Cards []CardConstraint `json:"cards"`
}

// Starter returns the combo's first-named card, or "" for an empty combo.
func (c *Combo) Starter() string {
	if len(c.Cards) == 0 {
		return ""
	}
	return c.Cards[0].CardName
}

// DeckSpec describes the deck the hands are drawn from. When Main is empty
// the deck is abstract: only combo card counts are known and the remainder of
// the deck is treated as blanks.
type DeckSpec struct {
	DeckSize int      `json:"deck_size"`
	HandSize int      `json:"hand_size"`
	Main     []string `json:"main,omitempty"`
	Extra    []string `json:"extra,omitempty"`
	Side     []string `json:"side,omitempty"`
}

// Concrete reports whether the spec carries a full main-deck card list.
func (d *DeckSpec) Concrete() bool {
	return len(d.Main) > 0
}

// Query is the single input of the engine.
type Query struct {
	Deck     DeckSpec `json:"deck"`
	Combos   []Combo  `json:"combos"`
	SimCount int      `json:"sim_count,omitempty"`
	Seed     *uint64  `json:"seed,omitempty"`
}

// Probability is a fraction in [0, 1].
type Probability float64

// Percent returns the user-facing percentage rounded to two decimals.
func (p Probability) Percent() float64 {
	return math.Round(float64(p)*10000) / 100
}

// CardSlot is one drawn card in a sample hand: either a named card or a
// blank filler position of an abstract deck.
type CardSlot struct {
	Name  string `json:"name,omitempty"`
	Blank bool   `json:"blank,omitempty"`
}

// FormulaTerm is the per-card portion of a combo's formula display data.
type FormulaTerm struct {
	CardName     string `json:"card_name"`
	CopiesInDeck int    `json:"copies_in_deck"`
	MinInHand    int    `json:"min_in_hand"`
	MaxInHand    int    `json:"max_in_hand"`
	Logic        Logic  `json:"logic,omitempty"`
}

// FormulaData carries the numbers an embedding UI needs to render the
// probability formula behind one combo.
type FormulaData struct {
	ComboID   string        `json:"combo_id"`
	ComboName string        `json:"combo_name"`
	DeckSize  int           `json:"deck_size"`
	HandSize  int           `json:"hand_size"`
	Terms     []FormulaTerm `json:"terms"`
}

// Report is the output of one evaluation. Probabilities are fractions; use
// Probability.Percent for display.
type Report struct {
	// PerCombo maps combo ID to its success probability.
	PerCombo map[string]Probability `json:"per_combo"`
	// UnionAll is the probability that at least one combo succeeds.
	// Present only when the query holds two or more combos.
	UnionAll *Probability `json:"union_all,omitempty"`
	// MultiStarter maps k to the probability of opening with at least k
	// distinct starters. Present only when at least two combos lead with
	// different cards. Keys: 2, 3.
	MultiStarter map[int]Probability `json:"multi_starter,omitempty"`
	// MultiHandTrap maps k to the probability of opening with at least k
	// distinct hand traps. Present only for concrete decks. Keys: 1..4.
	MultiHandTrap map[int]Probability `json:"multi_hand_trap,omitempty"`
	SampleHand    []CardSlot          `json:"sample_hand"`
	Formulas      []FormulaData       `json:"formulas"`
}

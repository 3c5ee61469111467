// Package cards holds the in-memory card metadata store. It is populated
// once at startup from a bundled JSON payload or from the sqlite card
// database and is read-only afterwards, so it is shareable across goroutines
// without locks.
package cards

import "strings"

// Kind is the coarse card classification.
type Kind string

const (
	KindMonster Kind = "monster"
	KindSpell   Kind = "spell"
	KindTrap    Kind = "trap"
	KindUnknown Kind = "unknown"
)

// CardMeta is the immutable metadata of one card.
type CardMeta struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Kind      Kind   `json:"kind"`
	Level     int    `json:"level,omitempty"`
	Attribute string `json:"attribute,omitempty"`
	ExtraDeck bool   `json:"is_extra_deck"`
}

// extraDeckMarkers are the monster type fragments that force a card into the
// extra deck.
var extraDeckMarkers = []string{"xyz", "link", "fusion", "synchro"}

// KindFromType derives the coarse kind from a raw type string such as
// "Effect Monster" or "Normal Spell".
func KindFromType(typeLine string) Kind {
	t := strings.ToLower(typeLine)
	switch {
	case strings.Contains(t, "monster"), strings.Contains(t, "token"):
		return KindMonster
	case strings.Contains(t, "spell"):
		return KindSpell
	case strings.Contains(t, "trap"):
		return KindTrap
	default:
		return KindUnknown
	}
}

// IsExtraDeckType reports whether a raw type string denotes an extra-deck
// monster. Only monsters qualify.
func IsExtraDeckType(typeLine string) bool {
	if KindFromType(typeLine) != KindMonster {
		return false
	}
	t := strings.ToLower(typeLine)
	for _, marker := range extraDeckMarkers {
		if strings.Contains(t, marker) {
			return true
		}
	}
	return false
}

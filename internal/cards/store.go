package cards

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
)

// Store maps card IDs and names to metadata. Lookups by name are
// case-insensitive. Unknown IDs are tolerated: lookups return nil and the
// parser collects them as warnings, never failures.
type Store struct {
	logger *slog.Logger
	byID   map[int]*CardMeta
	byName map[string]*CardMeta
}

// NewStore creates an empty store.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		logger: logger,
		byID:   make(map[int]*CardMeta),
		byName: make(map[string]*CardMeta),
	}
}

// Add inserts or replaces a card.
func (s *Store) Add(meta *CardMeta) {
	s.byID[meta.ID] = meta
	s.byName[strings.ToLower(meta.Name)] = meta
}

// LookupByID returns the card with the given ID, or nil if unknown.
func (s *Store) LookupByID(id int) *CardMeta {
	meta, ok := s.byID[id]
	if !ok {
		s.logger.Debug("unknown card id", "id", id)
		return nil
	}
	return meta
}

// LookupByName returns the card with the given name, ignoring case, or nil.
func (s *Store) LookupByName(name string) *CardMeta {
	return s.byName[strings.ToLower(strings.TrimSpace(name))]
}

// Len reports the number of cards in the store.
func (s *Store) Len() int {
	return len(s.byID)
}

// All returns every card ordered by ID.
func (s *Store) All() []*CardMeta {
	out := make([]*CardMeta, 0, len(s.byID))
	for _, meta := range s.byID {
		out = append(out, meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// payloadEntry is one card in the bundled metadata payload, keyed by ID.
type payloadEntry struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Level     int    `json:"level,omitempty"`
	Attribute string `json:"attribute,omitempty"`
	ExtraDeck bool   `json:"isExtraDeck,omitempty"`
}

// LoadPayload reads a JSON payload of the form {"<id>": {name, type, ...}}
// and replaces the store contents with it. Kind and extra-deck status are
// derived from the raw type string; an explicit isExtraDeck flag wins.
func (s *Store) LoadPayload(r io.Reader) error {
	var payload map[string]payloadEntry
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return fmt.Errorf("decode card payload: %w", err)
	}

	byID := make(map[int]*CardMeta, len(payload))
	byName := make(map[string]*CardMeta, len(payload))
	skipped := 0
	for key, entry := range payload {
		id, err := strconv.Atoi(key)
		if err != nil || id <= 0 || entry.Name == "" {
			skipped++
			continue
		}
		meta := &CardMeta{
			ID:        id,
			Name:      entry.Name,
			Kind:      KindFromType(entry.Type),
			Level:     entry.Level,
			Attribute: entry.Attribute,
			ExtraDeck: entry.ExtraDeck || IsExtraDeckType(entry.Type),
		}
		byID[id] = meta
		byName[strings.ToLower(entry.Name)] = meta
	}

	s.byID = byID
	s.byName = byName
	if skipped > 0 {
		s.logger.Warn("skipped malformed card payload entries", "count", skipped)
	}
	s.logger.Info("card metadata loaded", "cards", len(byID))
	return nil
}

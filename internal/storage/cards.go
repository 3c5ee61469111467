package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tcgtools/drawcalc/internal/cards"
)

// Service provides card persistence on top of a DB.
type Service struct {
	db *DB
}

// NewService creates a card persistence service.
func NewService(db *DB) *Service {
	return &Service{db: db}
}

// SaveCard inserts or updates a single card.
func (s *Service) SaveCard(ctx context.Context, meta *cards.CardMeta) error {
	query := `
		INSERT INTO cards (id, name, kind, level, attribute, is_extra_deck, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			kind = excluded.kind,
			level = excluded.level,
			attribute = excluded.attribute,
			is_extra_deck = excluded.is_extra_deck,
			last_updated = CURRENT_TIMESTAMP
	`

	_, err := s.db.Conn().ExecContext(ctx, query,
		meta.ID, meta.Name, string(meta.Kind), meta.Level, meta.Attribute, meta.ExtraDeck,
	)
	if err != nil {
		return fmt.Errorf("save card %d: %w", meta.ID, err)
	}
	return nil
}

// SaveCards bulk-upserts cards inside one transaction.
func (s *Service) SaveCards(ctx context.Context, metas []*cards.CardMeta) error {
	tx, err := s.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin card import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cards (id, name, kind, level, attribute, is_extra_deck, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			kind = excluded.kind,
			level = excluded.level,
			attribute = excluded.attribute,
			is_extra_deck = excluded.is_extra_deck,
			last_updated = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("prepare card import: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, meta := range metas {
		if _, err := stmt.ExecContext(ctx,
			meta.ID, meta.Name, string(meta.Kind), meta.Level, meta.Attribute, meta.ExtraDeck,
		); err != nil {
			return fmt.Errorf("import card %d: %w", meta.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit card import: %w", err)
	}
	return nil
}

// GetCardByID retrieves one card, or nil when the ID is unknown.
func (s *Service) GetCardByID(ctx context.Context, id int) (*cards.CardMeta, error) {
	query := `
		SELECT id, name, kind, level, attribute, is_extra_deck
		FROM cards
		WHERE id = ?
	`

	meta, err := scanCard(s.db.Conn().QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get card %d: %w", id, err)
	}
	return meta, nil
}

// GetCardByName retrieves one card by name, ignoring case, or nil.
func (s *Service) GetCardByName(ctx context.Context, name string) (*cards.CardMeta, error) {
	query := `
		SELECT id, name, kind, level, attribute, is_extra_deck
		FROM cards
		WHERE name = ? COLLATE NOCASE
	`

	meta, err := scanCard(s.db.Conn().QueryRowContext(ctx, query, name))
	if err != nil {
		return nil, fmt.Errorf("get card %q: %w", name, err)
	}
	return meta, nil
}

// AllCards retrieves every card ordered by ID.
func (s *Service) AllCards(ctx context.Context) ([]*cards.CardMeta, error) {
	query := `
		SELECT id, name, kind, level, attribute, is_extra_deck
		FROM cards
		ORDER BY id
	`

	rows, err := s.db.Conn().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*cards.CardMeta
	for rows.Next() {
		var meta cards.CardMeta
		var kind string
		if err := rows.Scan(&meta.ID, &meta.Name, &kind, &meta.Level, &meta.Attribute, &meta.ExtraDeck); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		meta.Kind = cards.Kind(kind)
		out = append(out, &meta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}
	return out, nil
}

// CardCount reports the number of stored cards.
func (s *Service) CardCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return n, nil
}

// LoadStore hydrates an in-memory metadata store from the database.
func (s *Service) LoadStore(ctx context.Context, store *cards.Store) error {
	metas, err := s.AllCards(ctx)
	if err != nil {
		return err
	}
	for _, meta := range metas {
		store.Add(meta)
	}
	return nil
}

func scanCard(row *sql.Row) (*cards.CardMeta, error) {
	var meta cards.CardMeta
	var kind string
	err := row.Scan(&meta.ID, &meta.Name, &kind, &meta.Level, &meta.Attribute, &meta.ExtraDeck)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	meta.Kind = cards.Kind(kind)
	return &meta, nil
}

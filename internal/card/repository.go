package card

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/catait/catait-api/internal/database"
)

var (
	ErrNotFound = errors.New("card not found")
)

// Repository handles feature card persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// GetEnabledByID retrieves an enabled card by ID. A disabled card is
// reported as ErrNotFound, same as a missing one, so callers cannot
// distinguish the two cases.
func (r *Repository) GetEnabledByID(ctx context.Context, id int64) (*Card, error) {
	dbCard := new(database.FeatureCard)
	err := r.db.NewSelect().
		Model(dbCard).
		Where("id = ?", id).
		Where("enabled = ?", true).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get card by id: %w", err)
	}

	return mapDBCardToModel(dbCard), nil
}

// ListEnabled retrieves all enabled cards ordered by sort_order
func (r *Repository) ListEnabled(ctx context.Context) ([]*Card, error) {
	var dbCards []*database.FeatureCard
	err := r.db.NewSelect().
		Model(&dbCards).
		Where("enabled = ?", true).
		Order("sort_order ASC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	cards := make([]*Card, 0, len(dbCards))
	for _, dbCard := range dbCards {
		cards = append(cards, mapDBCardToModel(dbCard))
	}

	return cards, nil
}

// mapDBCardToModel converts database model to domain model
func mapDBCardToModel(dbc *database.FeatureCard) *Card {
	c := &Card{
		ID:              dbc.ID,
		Name:            dbc.Name,
		Description:     dbc.Description,
		Icon:            dbc.Icon,
		BackgroundColor: dbc.BackgroundColor,
		SortOrder:       dbc.SortOrder,
		Enabled:         dbc.Enabled,
	}

	if dbc.WorkflowID != nil {
		c.WorkflowID = *dbc.WorkflowID
	}
	if dbc.APIToken != nil {
		c.APIToken = *dbc.APIToken
	}

	return c
}

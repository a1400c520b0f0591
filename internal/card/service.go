package card

import (
	"context"
	"errors"
	"fmt"
)

// WorkflowConfigError reports an enabled card whose workflow linkage
// is incomplete, and which of the two fields is missing. This is a
// diagnostic aid for administrators, not a partial-data response.
type WorkflowConfigError struct {
	HasWorkflowID bool
	HasAPIToken   bool
}

func (e *WorkflowConfigError) Error() string {
	return fmt.Sprintf("workflow configuration incomplete (workflow_id=%t, api_token=%t)",
		e.HasWorkflowID, e.HasAPIToken)
}

// Store defines the persistence surface the service needs
type Store interface {
	GetEnabledByID(ctx context.Context, id int64) (*Card, error)
	ListEnabled(ctx context.Context) ([]*Card, error)
}

// Service enforces the card presentability and actionability rules
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// GetCard returns the full projection for an enabled, actionable
// card. Disabled and missing cards both surface as ErrNotFound; an
// enabled card with incomplete workflow linkage surfaces as
// *WorkflowConfigError.
func (s *Service) GetCard(ctx context.Context, id int64) (*Detail, error) {
	c, err := s.store.GetEnabledByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !c.Actionable() {
		return nil, &WorkflowConfigError{
			HasWorkflowID: c.WorkflowID != "",
			HasAPIToken:   c.APIToken != "",
		}
	}

	return &Detail{
		ID:              c.ID,
		Title:           c.Name,
		Description:     c.Description,
		Icon:            c.Icon,
		BackgroundColor: c.BackgroundColor,
		WorkflowID:      c.WorkflowID,
		APIToken:        c.APIToken,
	}, nil
}

// ListCards returns catalog summaries for all enabled cards. Cards
// with incomplete workflow config are included but marked not
// actionable; credentials never appear in summaries.
func (s *Service) ListCards(ctx context.Context) ([]*Summary, error) {
	cards, err := s.store.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]*Summary, 0, len(cards))
	for _, c := range cards {
		summaries = append(summaries, &Summary{
			ID:              c.ID,
			Title:           c.Name,
			Description:     c.Description,
			Icon:            c.Icon,
			BackgroundColor: c.BackgroundColor,
			Actionable:      c.Actionable(),
		})
	}

	return summaries, nil
}

// AsWorkflowConfigError unwraps err into a *WorkflowConfigError if possible
func AsWorkflowConfigError(err error) (*WorkflowConfigError, bool) {
	var wce *WorkflowConfigError
	if errors.As(err, &wce) {
		return wce, true
	}
	return nil, false
}

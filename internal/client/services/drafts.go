package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/arcadmin/internal/client/models"
	"github.com/dmitrijs2005/arcadmin/internal/common"
)

// SaveDraft persists the current compose session locally so it can be
// resumed later, including after a restart.
func (c *Compose) SaveDraft(ctx context.Context) (models.Draft, error) {
	c.mu.Lock()
	if c.state == StateClosed || c.state == StateLoadingTemplates {
		c.mu.Unlock()
		return models.Draft{}, ErrComposeClosed
	}
	if c.selected == nil {
		c.mu.Unlock()
		return models.Draft{}, ErrNoTemplate
	}
	draft := models.Draft{
		ID:         uuid.NewString(),
		TemplateID: c.selected.ID,
		Subject:    c.subject,
		Body:       c.selected.Body,
		Bindings:   make(map[string]string, len(c.bindings)),
		UpdatedAt:  c.now(),
	}
	for k, v := range c.bindings {
		draft.Bindings[k] = v
	}
	for _, r := range c.recipients {
		if email := r.PrimaryEmail(); email != "" {
			draft.Recipients = append(draft.Recipients, email)
		}
	}
	c.mu.Unlock()

	if err := c.repos.Drafts.Save(ctx, &draft); err != nil {
		return models.Draft{}, err
	}
	c.log.Info(ctx, "draft saved", "id", draft.ID, "recipients", len(draft.Recipients))
	return draft, nil
}

// ListDrafts returns the locally stored drafts, newest first.
func (c *Compose) ListDrafts(ctx context.Context) ([]models.Draft, error) {
	return c.repos.Drafts.GetAll(ctx)
}

// LoadDraft resumes a stored draft: the catalog is loaded, the draft's
// template reselected, and its bindings, subject, and recipients restored.
// Recipients come back as email-only records.
func (c *Compose) LoadDraft(ctx context.Context, id string) error {
	draft, err := c.repos.Drafts.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load draft: %w", err)
	}

	recipients := make([]models.Record, 0, len(draft.Recipients))
	for _, email := range draft.Recipients {
		recipients = append(recipients, models.Record{ID: email, Email: email})
	}
	if err := c.Open(ctx, recipients); err != nil {
		return err
	}
	if err := c.Select(draft.TemplateID); err != nil {
		return err
	}

	c.mu.Lock()
	for k, v := range draft.Bindings {
		if c.selected.HasVariable(k) {
			c.bindings[k] = v
		}
	}
	if c.bindings[common.RecipientNameVariable] == common.DynamicNamePlaceholder {
		c.personalized = true
	}
	if draft.Subject != "" {
		c.subject = draft.Subject
	}
	c.mu.Unlock()
	return nil
}

// DeleteDraft removes a stored draft.
func (c *Compose) DeleteDraft(ctx context.Context, id string) error {
	return c.repos.Drafts.DeleteByID(ctx, id)
}

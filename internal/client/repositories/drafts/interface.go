// Package drafts persists compose drafts in the local database.
package drafts

import (
	"context"

	"github.com/dmitrijs2005/arcadmin/internal/client/models"
)

// Repository stores compose drafts keyed by id.
type Repository interface {
	// Save inserts a new draft or replaces an existing one by ID.
	Save(ctx context.Context, draft *models.Draft) error

	// GetAll returns all drafts, newest first.
	GetAll(ctx context.Context) ([]models.Draft, error)

	// GetByID returns one draft by its identifier.
	GetByID(ctx context.Context, id string) (*models.Draft, error)

	// DeleteByID removes a draft. Deleting an unknown id is an error.
	DeleteByID(ctx context.Context, id string) error
}

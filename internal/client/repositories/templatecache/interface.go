// Package templatecache keeps the last fetched email templates in the local
// database so compose can open while the backend is unreachable.
package templatecache

import (
	"context"
	"time"

	"github.com/dmitrijs2005/arcadmin/internal/client/models"
)

// Repository stores a snapshot of the backend's template catalog.
type Repository interface {
	// Replace atomically swaps the cached catalog for the given one.
	Replace(ctx context.Context, templates []models.EmailTemplate, fetchedAt time.Time) error

	// GetAll returns the cached catalog in name order.
	GetAll(ctx context.Context) ([]models.EmailTemplate, error)
}

package templatecache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/arcadmin/internal/client/models"
	"github.com/dmitrijs2005/arcadmin/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Replace clears the cache and inserts the new catalog. Callers that need
// atomicity run it inside dbx.WithTx.
func (r *SQLiteRepository) Replace(ctx context.Context, templates []models.EmailTemplate, fetchedAt time.Time) error {
	if _, err := r.db.ExecContext(ctx, `delete from template_cache`); err != nil {
		return fmt.Errorf("failed to clear template cache: %w", err)
	}

	query := `INSERT INTO template_cache (id, name, description, body, variables, fetched_at)
			values (?, ?, ?, ?, ?, ?)`
	for _, tmpl := range templates {
		variables, err := json.Marshal(tmpl.Variables)
		if err != nil {
			return fmt.Errorf("failed to encode variables: %w", err)
		}
		_, err = r.db.ExecContext(ctx, query,
			tmpl.ID, tmpl.Name, tmpl.Description, tmpl.Body, string(variables), fetchedAt)
		if err != nil {
			return fmt.Errorf("failed to insert template: %w", err)
		}
	}
	return nil
}

// GetAll lists cached templates in name order.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.EmailTemplate, error) {
	query := `select id, name, description, body, variables from template_cache order by name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select templates: %w", err)
	}
	defer rows.Close()

	var result []models.EmailTemplate
	for rows.Next() {
		var item models.EmailTemplate
		var variables string
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Body, &variables); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(variables), &item.Variables); err != nil {
			return nil, fmt.Errorf("failed to decode variables: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

package drafts

import (
	"context"
	"encoding/json"
	"fmt"

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

// Save upserts a draft by id. Bindings and recipients are stored as JSON.
func (r *SQLiteRepository) Save(ctx context.Context, d *models.Draft) error {
	bindings, err := json.Marshal(d.Bindings)
	if err != nil {
		return fmt.Errorf("failed to encode bindings: %w", err)
	}
	recipients, err := json.Marshal(d.Recipients)
	if err != nil {
		return fmt.Errorf("failed to encode recipients: %w", err)
	}

	query := `INSERT INTO drafts (id, template_id, subject, body, bindings, recipients, updated_at)
			values (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET template_id = excluded.template_id,
				subject = excluded.subject,
				body = excluded.body,
				bindings = excluded.bindings,
				recipients = excluded.recipients,
				updated_at = excluded.updated_at
	`
	_, err = r.db.ExecContext(ctx, query,
		d.ID, d.TemplateID, d.Subject, d.Body, string(bindings), string(recipients), d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert draft: %w", err)
	}
	return nil
}

// GetAll lists all drafts, newest first.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Draft, error) {
	query := `select id, template_id, subject, body, bindings, recipients, updated_at
			from drafts order by updated_at desc`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select drafts: %w", err)
	}
	defer rows.Close()

	var result []models.Draft
	for rows.Next() {
		item, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns a single draft.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Draft, error) {
	query := `select id, template_id, subject, body, bindings, recipients, updated_at
			from drafts where id=?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanDraft(row)
}

// DeleteByID removes a draft. It expects exactly one row to be affected.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `delete from drafts where id=?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDraft(row rowScanner) (*models.Draft, error) {
	d := &models.Draft{}
	var bindings, recipients string
	if err := row.Scan(&d.ID, &d.TemplateID, &d.Subject, &d.Body, &bindings, &recipients, &d.UpdatedAt); err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	if err := json.Unmarshal([]byte(bindings), &d.Bindings); err != nil {
		return nil, fmt.Errorf("failed to decode bindings: %w", err)
	}
	if err := json.Unmarshal([]byte(recipients), &d.Recipients); err != nil {
		return nil, fmt.Errorf("failed to decode recipients: %w", err)
	}
	return d, nil
}

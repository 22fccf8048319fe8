package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/arcadmin/internal/client/client"
	"github.com/dmitrijs2005/arcadmin/internal/client/models"
	"github.com/dmitrijs2005/arcadmin/internal/client/selection"
	"github.com/dmitrijs2005/arcadmin/internal/logging"
)

// Directory is the stateful browser over one category at a time. It owns
// the current page, the search query, and the row selection, and drops
// responses that arrive after a newer request was issued.
type Directory struct {
	client client.Client
	log    logging.Logger
	limit  int

	mu       sync.Mutex
	seq      uint64
	category models.Category
	records  []models.Record
	page     models.Page
	query    string
	sel      *selection.Set
}

func NewDirectory(c client.Client, limit int, log logging.Logger) *Directory {
	if log == nil {
		log = logging.Nop()
	}
	if limit <= 0 {
		limit = 10
	}
	return &Directory{
		client:   c,
		log:      log,
		limit:    limit,
		category: models.CategoryArcer,
		page:     models.ResetPage(),
		sel:      selection.New(),
	}
}

// Switch changes the browsed category. Page, query, and selection reset.
func (d *Directory) Switch(ctx context.Context, category models.Category) error {
	if !category.Valid() {
		return errors.New("unknown category: " + string(category))
	}
	d.mu.Lock()
	d.category = category
	d.query = ""
	d.sel.Clear()
	d.mu.Unlock()
	return d.fetch(ctx, 1)
}

// Refresh reloads the current page. Selection is cleared because row ids
// may no longer correspond to the same records.
func (d *Directory) Refresh(ctx context.Context) error {
	d.mu.Lock()
	page := d.page.Current
	d.sel.Clear()
	d.mu.Unlock()
	return d.fetch(ctx, page)
}

// LoadPage navigates to page n. Out-of-range requests are ignored.
func (d *Directory) LoadPage(ctx context.Context, n int) error {
	d.mu.Lock()
	total := d.page.TotalPages
	d.sel.Clear()
	d.mu.Unlock()
	if n < 1 || n > total {
		return nil
	}
	return d.fetch(ctx, n)
}

// fetch loads one page and applies it unless a newer fetch was started in
// the meantime. Transport and decode failures degrade to an empty directory
// on page one so the view always renders; only an expired session
// propagates, because that routes the operator back to login.
func (d *Directory) fetch(ctx context.Context, page int) error {
	d.mu.Lock()
	d.seq++
	ticket := d.seq
	category := d.category
	limit := d.limit
	d.mu.Unlock()

	records, pg, err := d.client.ListDirectory(ctx, category, page, limit)

	d.mu.Lock()
	defer d.mu.Unlock()
	if ticket != d.seq {
		d.log.Debug(ctx, "dropping stale directory response", "category", category, "page", page)
		return nil
	}
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return err
		}
		d.log.Warn(ctx, "directory fetch failed, rendering empty", "category", category, "error", err)
		d.records = nil
		d.page = models.ResetPage()
		return nil
	}
	d.records = records
	d.page = pg
	return nil
}

// Category returns the category being browsed.
func (d *Directory) Category() models.Category {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.category
}

// Page returns the pagination descriptor of the current view.
func (d *Directory) Page() models.Page {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.page
}

// SetQuery filters the visible rows by a case-insensitive substring. The
// filter applies within the loaded page only.
func (d *Directory) SetQuery(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.query = query
}

// Visible returns the rows of the current page that match the query.
func (d *Directory) Visible() []models.Record {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.query == "" {
		return append([]models.Record(nil), d.records...)
	}
	var out []models.Record
	for _, r := range d.records {
		if r.Matches(d.query) {
			out = append(out, r)
		}
	}
	return out
}

// VisibleIDs returns the ids of the visible rows, in row order.
func (d *Directory) VisibleIDs() []string {
	visible := d.Visible()
	ids := make([]string, len(visible))
	for i, r := range visible {
		ids[i] = r.ID
	}
	return ids
}

// Selection exposes the row selection of the current view.
func (d *Directory) Selection() *selection.Set {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sel
}

// BulkDelete removes the selected rows via the endpoint matching the
// current category and partitions the per-id outcomes. A response without a
// usable outcome list is reported as a bare failure with no per-id detail.
// The selection is cleared and the page reloaded either way.
func (d *Directory) BulkDelete(ctx context.Context) (models.BulkReport, error) {
	d.mu.Lock()
	category := d.category
	ids := d.sel.IDs()
	d.mu.Unlock()
	if len(ids) == 0 {
		return models.BulkReport{}, errors.New("nothing selected")
	}

	var outcomes []models.Outcome
	var err error
	if category == models.CategoryArcer {
		outcomes, err = d.client.DeleteArcers(ctx, ids)
	} else {
		outcomes, err = d.client.DeleteUsers(ctx, category, ids)
	}
	if err != nil {
		if errors.Is(err, client.ErrMalformedResponse) {
			d.log.Warn(ctx, "bulk delete returned unusable outcomes", "category", category, "ids", len(ids))
			if rerr := d.Refresh(ctx); rerr != nil {
				d.log.Warn(ctx, "refresh after bulk delete failed", "error", rerr)
			}
			return models.BulkReport{}, errors.New("bulk delete failed: server returned an unusable outcome report")
		}
		return models.BulkReport{}, err
	}

	report := models.PartitionOutcomes(outcomes)
	d.log.Info(ctx, "bulk delete finished", "category", category, "summary", report.Summary())

	if err := d.Refresh(ctx); err != nil {
		d.log.Warn(ctx, "refresh after bulk delete failed", "error", err)
	}
	return report, nil
}

// Patch updates the row with the same id in place, so a successful inline
// edit shows up without a refetch. Fields the update response left empty
// keep their current values.
func (d *Directory) Patch(record models.Record) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.records {
		if d.records[i].ID == record.ID {
			if record.Email != "" {
				d.records[i].Email = record.Email
			}
			if record.Role != "" {
				d.records[i].Role = record.Role
			}
			return
		}
	}
}

package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/arcadmin/internal/client/client"
	"github.com/dmitrijs2005/arcadmin/internal/client/models"
)

func TestDirectory_Switch_FetchesFirstPage(t *testing.T) {
	fc := &fakeClient{
		ListRecords: []models.Record{{ID: "s1"}},
		ListPage:    models.Page{Current: 1, TotalPages: 3, TotalItems: 41, HasMore: true},
	}
	d := NewDirectory(fc, 15, nil)

	require.NoError(t, d.Switch(context.Background(), models.CategoryStudent))

	require.Len(t, fc.ListCalls, 1)
	assert.Equal(t, listCall{Category: models.CategoryStudent, Page: 1, Limit: 15}, fc.ListCalls[0])
	assert.Equal(t, models.CategoryStudent, d.Category())
	assert.Len(t, d.Visible(), 1)
	assert.True(t, d.Page().HasMore)
}

func TestDirectory_Switch_UnknownCategory(t *testing.T) {
	d := NewDirectory(&fakeClient{}, 10, nil)
	require.Error(t, d.Switch(context.Background(), models.Category("wizard")))
}

func TestDirectory_FetchFailure_DegradesToEmpty(t *testing.T) {
	for _, cause := range []error{client.ErrMalformedResponse, client.ErrUnavailable} {
		fc := &fakeClient{ListErr: cause}
		d := NewDirectory(fc, 10, nil)

		require.NoError(t, d.Switch(context.Background(), models.CategoryArcer))
		assert.Empty(t, d.Visible())
		assert.Equal(t, models.ResetPage(), d.Page())
	}
}

func TestDirectory_ExpiredSessionPropagates(t *testing.T) {
	fc := &fakeClient{ListErr: client.ErrUnauthorized}
	d := NewDirectory(fc, 10, nil)

	err := d.Switch(context.Background(), models.CategoryArcer)
	require.ErrorIs(t, err, client.ErrUnauthorized)
}

func TestDirectory_LoadPage_OutOfRangeIgnored(t *testing.T) {
	fc := &fakeClient{ListPage: models.Page{Current: 1, TotalPages: 2}}
	d := NewDirectory(fc, 10, nil)
	require.NoError(t, d.Switch(context.Background(), models.CategoryArcer))
	calls := len(fc.ListCalls)

	require.NoError(t, d.LoadPage(context.Background(), 0))
	require.NoError(t, d.LoadPage(context.Background(), 5))
	assert.Equal(t, calls, len(fc.ListCalls))

	require.NoError(t, d.LoadPage(context.Background(), 2))
	assert.Equal(t, calls+1, len(fc.ListCalls))
}

func TestDirectory_StaleResponseDropped(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	fc := &fakeClient{}
	fc.ListFn = func(call listCall) ([]models.Record, models.Page, error) {
		if call.Page == 1 {
			close(started)
			<-release
			return []models.Record{{ID: "old"}}, models.Page{Current: 1, TotalPages: 2}, nil
		}
		return []models.Record{{ID: "new"}}, models.Page{Current: 2, TotalPages: 2}, nil
	}

	d := NewDirectory(fc, 10, nil)
	d.page = models.Page{Current: 1, TotalPages: 2}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = d.fetch(context.Background(), 1)
	}()

	<-started
	require.NoError(t, d.fetch(context.Background(), 2))
	close(release)
	wg.Wait()

	// the slow first response must not overwrite the newer page
	visible := d.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "new", visible[0].ID)
	assert.Equal(t, 2, d.Page().Current)
}

func TestDirectory_QueryFiltersVisibleRows(t *testing.T) {
	fc := &fakeClient{ListRecords: []models.Record{
		{ID: "u1", Email: "ada@x.io"},
		{ID: "u2", Email: "bo@y.io"},
	}}
	d := NewDirectory(fc, 10, nil)
	require.NoError(t, d.Switch(context.Background(), models.CategoryArcer))

	d.SetQuery("ada")
	require.Equal(t, []string{"u1"}, d.VisibleIDs())

	d.SetQuery("")
	require.Len(t, d.Visible(), 2)
}

func TestDirectory_BulkDelete_RoutesByCategory(t *testing.T) {
	fc := &fakeClient{
		ListRecords:    []models.Record{{ID: "a"}, {ID: "b"}},
		DeleteOutcomes: []models.Outcome{{ID: "a", Status: models.OutcomeDeleted}},
	}
	d := NewDirectory(fc, 10, nil)
	require.NoError(t, d.Switch(context.Background(), models.CategoryStudent))

	d.Selection().Toggle("a")
	report, err := d.BulkDelete(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, fc.UserDeletes)
	assert.Equal(t, 0, fc.ArcerDeletes)
	assert.Equal(t, models.CategoryStudent, fc.LastDeleteCat)
	assert.Len(t, report.Deleted, 1)

	require.NoError(t, d.Switch(context.Background(), models.CategoryArcer))
	d.Selection().Toggle("b")
	_, err = d.BulkDelete(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, fc.ArcerDeletes)
}

func TestDirectory_BulkDelete_NothingSelected(t *testing.T) {
	d := NewDirectory(&fakeClient{}, 10, nil)
	_, err := d.BulkDelete(context.Background())
	require.Error(t, err)
}

func TestDirectory_BulkDelete_MalformedOutcomes_BareFailure(t *testing.T) {
	fc := &fakeClient{
		ListRecords: []models.Record{{ID: "a"}, {ID: "b"}},
		DeleteErr:   client.ErrMalformedResponse,
	}
	d := NewDirectory(fc, 10, nil)
	require.NoError(t, d.Switch(context.Background(), models.CategoryArcer))
	d.Selection().Toggle("a")
	d.Selection().Toggle("b")

	report, err := d.BulkDelete(context.Background())
	require.Error(t, err)
	assert.True(t, report.Empty(), "a bare failure must carry no per-id buckets")
	assert.Equal(t, 0, d.Selection().Count(), "selection clears even on failure")
}

func TestDirectory_PatchUpdatesRowInPlace(t *testing.T) {
	fc := &fakeClient{ListRecords: []models.Record{
		{ID: "u1", Email: "old@x.io", Role: models.RoleEditor},
		{ID: "u2", Email: "bo@x.io", Role: models.RoleAdmin},
	}}
	d := NewDirectory(fc, 10, nil)
	require.NoError(t, d.Switch(context.Background(), models.CategoryArcer))
	calls := len(fc.ListCalls)

	d.Patch(models.Record{ID: "u1", Email: "new@x.io"})

	visible := d.Visible()
	assert.Equal(t, "new@x.io", visible[0].Email)
	assert.Equal(t, models.RoleEditor, visible[0].Role, "untouched fields keep their values")
	assert.Equal(t, calls, len(fc.ListCalls), "patch must not refetch")
}

func TestDirectory_BulkDelete_ClearsSelectionViaRefresh(t *testing.T) {
	fc := &fakeClient{
		ListRecords:    []models.Record{{ID: "a"}},
		DeleteOutcomes: []models.Outcome{{ID: "a", Status: models.OutcomeDeleted}},
	}
	d := NewDirectory(fc, 10, nil)
	require.NoError(t, d.Switch(context.Background(), models.CategoryArcer))
	d.Selection().Toggle("a")

	_, err := d.BulkDelete(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, d.Selection().Count())
}

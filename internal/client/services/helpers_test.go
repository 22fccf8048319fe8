package services

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/arcadmin/internal/client/client"
	"github.com/dmitrijs2005/arcadmin/internal/client/models"
	"github.com/dmitrijs2005/arcadmin/internal/client/repositories/drafts"
	"github.com/dmitrijs2005/arcadmin/internal/client/repositories/templatecache"
	_ "modernc.org/sqlite"
)

// ---- helpers ----

func setupRepos(t *testing.T) *client.Repositories {
	t.Helper()
	// A shared-cache named DB keeps every pooled connection on the same
	// in-memory database.
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE drafts (
  id TEXT PRIMARY KEY,
  template_id TEXT NOT NULL DEFAULT '',
  subject TEXT NOT NULL DEFAULT '',
  body TEXT NOT NULL DEFAULT '',
  bindings TEXT NOT NULL DEFAULT '{}',
  recipients TEXT NOT NULL DEFAULT '[]',
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE template_cache (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  body TEXT NOT NULL,
  variables TEXT NOT NULL DEFAULT '[]',
  fetched_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`)
	require.NoError(t, err)

	return &client.Repositories{
		Drafts:    drafts.NewSQLiteRepository(db),
		Templates: templatecache.NewSQLiteRepository(db),
		DB:        db,
	}
}

func timeNowFixed() time.Time {
	return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
}

// ---- fake client ----

type listCall struct {
	Category models.Category
	Page     int
	Limit    int
}

// fakeClient implements client.Client for the service unit tests.
type fakeClient struct {
	mu sync.Mutex

	CloseErr error

	LoginAccount models.Account
	LoginErr     error
	LogoutErr    error
	LogoutCalls  int

	VerifyAccount models.Account
	VerifyErr     error

	ListRecords []models.Record
	ListPage    models.Page
	ListErr     error
	ListCalls   []listCall
	// ListFn, when set, overrides the canned ListDirectory results.
	ListFn func(call listCall) ([]models.Record, models.Page, error)

	AddRecord models.Record
	AddErr    error
	LastAdd   client.AddArcerDraft

	UpdateRet client.UpdateResult
	UpdateErr error

	DeleteOutcomes []models.Outcome
	DeleteErr      error
	LastDeleteIDs  []string
	LastDeleteCat  models.Category
	ArcerDeletes   int
	UserDeletes    int

	TemplatesRet []models.EmailTemplate
	TemplatesErr error

	CreatedTemplate   models.EmailTemplate
	CreateTemplateErr error

	PreviewMarkup string
	PreviewErr    error
	PreviewCalls  int
	LastPreviewed map[string]string

	SendRet  client.SendReport
	SendErr  error
	LastSend client.SendRequest
}

func (f *fakeClient) Close() error { return f.CloseErr }

func (f *fakeClient) Login(ctx context.Context, email, password string) (models.Account, error) {
	return f.LoginAccount, f.LoginErr
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.LogoutCalls++
	return f.LogoutErr
}

func (f *fakeClient) Verify(ctx context.Context) (models.Account, error) {
	return f.VerifyAccount, f.VerifyErr
}

func (f *fakeClient) ListDirectory(ctx context.Context, category models.Category, page, limit int) ([]models.Record, models.Page, error) {
	call := listCall{Category: category, Page: page, Limit: limit}
	f.mu.Lock()
	f.ListCalls = append(f.ListCalls, call)
	f.mu.Unlock()
	if f.ListFn != nil {
		return f.ListFn(call)
	}
	return f.ListRecords, f.ListPage, f.ListErr
}

func (f *fakeClient) AddArcer(ctx context.Context, draft client.AddArcerDraft) (models.Record, error) {
	f.LastAdd = draft
	return f.AddRecord, f.AddErr
}

func (f *fakeClient) UpdateArcer(ctx context.Context, id string, draft client.ArcerDraft) (client.UpdateResult, error) {
	return f.UpdateRet, f.UpdateErr
}

func (f *fakeClient) DeleteArcers(ctx context.Context, ids []string) ([]models.Outcome, error) {
	f.ArcerDeletes++
	f.LastDeleteIDs = append([]string(nil), ids...)
	return f.DeleteOutcomes, f.DeleteErr
}

func (f *fakeClient) DeleteUsers(ctx context.Context, category models.Category, ids []string) ([]models.Outcome, error) {
	f.UserDeletes++
	f.LastDeleteCat = category
	f.LastDeleteIDs = append([]string(nil), ids...)
	return f.DeleteOutcomes, f.DeleteErr
}

func (f *fakeClient) ListTemplates(ctx context.Context) ([]models.EmailTemplate, error) {
	return f.TemplatesRet, f.TemplatesErr
}

func (f *fakeClient) CreateTemplate(ctx context.Context, tmpl models.EmailTemplate) (models.EmailTemplate, error) {
	if f.CreateTemplateErr != nil {
		return models.EmailTemplate{}, f.CreateTemplateErr
	}
	f.CreatedTemplate = tmpl
	return tmpl, nil
}

func (f *fakeClient) RenderPreview(ctx context.Context, templateID string, bindings map[string]string) (string, error) {
	f.PreviewCalls++
	f.LastPreviewed = bindings
	if f.PreviewErr != nil {
		return "", f.PreviewErr
	}
	if f.PreviewMarkup != "" {
		return f.PreviewMarkup, nil
	}
	return "<p>rendered " + templateID + "</p>", nil
}

func (f *fakeClient) SendEmails(ctx context.Context, req client.SendRequest) (client.SendReport, error) {
	f.LastSend = req
	return f.SendRet, f.SendErr
}

// Package client implements the transport to the backend REST API and the
// local SQLite stores used by the console.
package client

import (
	"context"

	"github.com/dmitrijs2005/arcadmin/internal/client/models"
)

// AddArcerDraft carries the fields of a new administrative account. The
// password travels as entered, empty included; the backend owns credential
// validation.
type AddArcerDraft struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// ArcerDraft carries the editable fields of an existing administrative
// account. Updates never resubmit the credential.
type ArcerDraft struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UpdateResult is the backend's answer to an account update. RequireReauth
// is set when the change invalidated the caller's own session.
type UpdateResult struct {
	Record        models.Record
	RequireReauth bool
}

// Recipient is one addressee of a bulk email dispatch.
type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// SendRequest is a bulk email dispatch: the template to render, its variable
// bindings and the recipient list. Personalized marks that the backend
// substitutes the recipient-name variable per recipient from the Name fields.
type SendRequest struct {
	TemplateID   string            `json:"templateId"`
	Subject      string            `json:"subject"`
	Bindings     map[string]string `json:"bindings"`
	Recipients   []Recipient       `json:"recipients"`
	Personalized bool              `json:"personalized,omitempty"`
}

// SendReport summarizes a bulk email dispatch.
type SendReport struct {
	Sent   int      `json:"sent"`
	Failed []string `json:"failed,omitempty"`
}

// Client is the backend API surface the console talks to. Implementations
// map transport failures onto the package sentinel errors.
type Client interface {
	Close() error

	Login(ctx context.Context, email, password string) (models.Account, error)
	Logout(ctx context.Context) error
	Verify(ctx context.Context) (models.Account, error)

	ListDirectory(ctx context.Context, category models.Category, page, limit int) ([]models.Record, models.Page, error)
	AddArcer(ctx context.Context, draft AddArcerDraft) (models.Record, error)
	UpdateArcer(ctx context.Context, id string, draft ArcerDraft) (UpdateResult, error)
	DeleteArcers(ctx context.Context, ids []string) ([]models.Outcome, error)
	DeleteUsers(ctx context.Context, category models.Category, ids []string) ([]models.Outcome, error)

	ListTemplates(ctx context.Context) ([]models.EmailTemplate, error)
	CreateTemplate(ctx context.Context, tmpl models.EmailTemplate) (models.EmailTemplate, error)
	RenderPreview(ctx context.Context, templateID string, bindings map[string]string) (string, error)
	SendEmails(ctx context.Context, req SendRequest) (SendReport, error)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/arcadmin/internal/client/client"
	"github.com/dmitrijs2005/arcadmin/internal/client/models"
	"github.com/dmitrijs2005/arcadmin/internal/logging"
)

// Arcers mutates administrative accounts: invites, inline edits, and the
// follow-through when an edit invalidates the operator's own session.
type Arcers struct {
	client  client.Client
	session *Session
	log     logging.Logger
}

func NewArcers(c client.Client, session *Session, log logging.Logger) *Arcers {
	if log == nil {
		log = logging.Nop()
	}
	return &Arcers{client: c, session: session, log: log}
}

func validateDraft(draft client.ArcerDraft) error {
	if !strings.Contains(draft.Email, "@") {
		return fmt.Errorf("invalid email %q", draft.Email)
	}
	if !models.ValidRole(draft.Role) {
		return fmt.Errorf("invalid role %q, expected one of %s",
			draft.Role, strings.Join(models.Roles(), ", "))
	}
	return nil
}

// Add invites a new administrative account. Email and role are validated
// locally; the password goes to the backend as entered, empty included.
func (a *Arcers) Add(ctx context.Context, draft client.AddArcerDraft) (models.Record, error) {
	if err := validateDraft(client.ArcerDraft{Email: draft.Email, Role: draft.Role}); err != nil {
		return models.Record{}, err
	}
	record, err := a.client.AddArcer(ctx, draft)
	if err != nil {
		return models.Record{}, err
	}
	a.log.Info(ctx, "arcer added", "email", record.Email, "role", record.Role)
	return record, nil
}

// Update edits one account. When the backend reports that the change
// invalidated the caller's own session (an operator demoting themselves or
// changing their own email), the session teardown is started and
// ErrReauthRequired is returned alongside the updated record.
func (a *Arcers) Update(ctx context.Context, id string, draft client.ArcerDraft) (models.Record, error) {
	if err := validateDraft(draft); err != nil {
		return models.Record{}, err
	}
	result, err := a.client.UpdateArcer(ctx, id, draft)
	if err != nil {
		return models.Record{}, err
	}
	if result.RequireReauth {
		go func() {
			if err := a.session.Teardown(context.WithoutCancel(ctx)); err != nil {
				a.log.Warn(ctx, "session teardown failed", "error", err)
			}
		}()
		return result.Record, ErrReauthRequired
	}
	return result.Record, nil
}

// ErrReauthRequired signals that the last mutation invalidated the current
// session and the operator must log in again.
var ErrReauthRequired = errors.New("session invalidated, sign in again")

// HandleSelfDelete starts the delayed teardown after a bulk delete that
// removed or errored on the operator's own account. Backends that predate
// the deleted_self status report the operator's row as a plain outcome, so
// the report is also matched against the current session identity.
func (a *Arcers) HandleSelfDelete(ctx context.Context, report models.BulkReport) bool {
	affected := report.SelfAffected
	if !affected {
		if account, ok := a.session.Account(); ok {
			affected = report.Affects(account.ID, account.Email)
		}
	}
	if !affected {
		return false
	}
	go func() {
		if err := a.session.Teardown(context.WithoutCancel(ctx)); err != nil {
			a.log.Warn(ctx, "session teardown failed", "error", err)
		}
	}()
	return true
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dmitrijs2005/arcadmin/internal/client/client"
	"github.com/dmitrijs2005/arcadmin/internal/client/models"
	"github.com/dmitrijs2005/arcadmin/internal/client/services"
	"github.com/dmitrijs2005/arcadmin/internal/common"
)

// Add invites a new administrative account. The password is forwarded as
// entered; the backend decides whether it is acceptable.
func (a *App) Add(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	role, err := getSimpleText(a.reader,
		fmt.Sprintf("Enter role (%s)", strings.Join(models.Roles(), ", ")), os.Stdout)
	if err != nil {
		return err
	}

	record, err := a.arcers.Add(ctx, client.AddArcerDraft{
		Email:    email,
		Password: string(password),
		Role:     role,
	})
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	printlnFn(fmt.Sprintf("Added %s (%s)", record.Email, record.Role))
	return a.directory.Refresh(ctx)
}

// Edit changes the email or role of one administrative account. Empty input
// keeps the current value. When the edit invalidates the operator's own
// session the console announces the forced logout.
func (a *App) Edit(ctx context.Context, id string) error {
	current, ok := a.findVisible(id)
	if !ok {
		printlnFn("No visible row with id", id)
		return nil
	}

	email, err := getSimpleText(a.reader,
		fmt.Sprintf("Enter email [%s]", current.Email), os.Stdout)
	if err != nil {
		return err
	}
	if email == "" {
		email = current.Email
	}
	role, err := getSimpleText(a.reader,
		fmt.Sprintf("Enter role [%s]", current.Role), os.Stdout)
	if err != nil {
		return err
	}
	if role == "" {
		role = current.Role
	}

	record, err := a.arcers.Update(ctx, id, client.ArcerDraft{Email: email, Role: role})
	if errors.Is(err, services.ErrReauthRequired) {
		printlnFn("Saved. This change affects your own account, you will be signed out.")
		return nil
	}
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	// patch the loaded page in place, no refetch needed for an edit
	if record.ID == "" {
		record.ID = id
	}
	if record.Email == "" {
		record.Email = email
	}
	if record.Role == "" {
		record.Role = role
	}
	a.directory.Patch(record)
	printlnFn(fmt.Sprintf("Saved %s (%s)", record.Email, record.Role))
	return nil
}

func (a *App) findVisible(id string) (models.Record, bool) {
	for _, record := range a.directory.Visible() {
		if record.ID == id {
			return record, true
		}
	}
	return models.Record{}, false
}

// Delete bulk deletes the selected rows after confirmation and prints the
// per-id outcome report.
func (a *App) Delete(ctx context.Context) error {
	count := a.directory.Selection().Count()
	if count == 0 {
		printlnFn("Nothing selected.")
		return nil
	}
	answer, err := getSimpleText(a.reader,
		fmt.Sprintf("Delete %d record(s)? Type yes to confirm", count), os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" {
		printlnFn("Cancelled.")
		return nil
	}

	report, err := a.directory.BulkDelete(ctx)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	printReport(report)

	if a.arcers.HandleSelfDelete(ctx, report) {
		printlnFn("Your own account was removed, you will be signed out.")
	}
	return nil
}

func printReport(report models.BulkReport) {
	printlnFn("Result:", report.Summary())
	for _, o := range report.Forbidden {
		printlnFn(fmt.Sprintf("  forbidden: %s %s", o.ID, o.Message))
	}
	for _, o := range report.NotFound {
		printlnFn(fmt.Sprintf("  not found: %s", o.ID))
	}
	for _, o := range report.Failed {
		printlnFn(fmt.Sprintf("  failed: %s %s", o.ID, o.Message))
	}
}

package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dmitrijs2005/arcadmin/internal/client/models"
	"github.com/dmitrijs2005/arcadmin/internal/common"
)

// Compose starts the bulk email flow for the currently selected rows:
// pick a template, fill its variables, preview, then send or save a draft.
func (a *App) Compose(ctx context.Context) error {
	sel := a.directory.Selection()
	var recipients []models.Record
	for _, record := range a.directory.Visible() {
		if sel.Selected(record.ID) {
			recipients = append(recipients, record)
		}
	}
	if len(recipients) == 0 {
		printlnFn("Nothing selected. Use select/selectall first.")
		return nil
	}

	if err := a.compose.Open(ctx, recipients); err != nil {
		log.Printf("Error: %s", err.Error())
		printlnFn("Could not load templates. Create one with the newtemplate command and retry.")
		return err
	}

	templates := a.compose.Templates()
	if len(templates) == 0 {
		printlnFn("No templates available. Create one with the newtemplate command.")
		a.compose.Cancel()
		return nil
	}
	for _, tmpl := range templates {
		printlnFn(fmt.Sprintf("  %s\t%s\t%s", tmpl.ID, tmpl.Name, tmpl.Description))
	}

	id, err := getSimpleText(a.reader, "Enter template id", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.compose.Select(id); err != nil {
		log.Printf("Error: %s", err.Error())
		a.compose.Cancel()
		return err
	}

	if err := a.fillVariables(); err != nil {
		return err
	}
	return a.reviewLoop(ctx)
}

// fillVariables prompts for each template variable and the subject. Empty
// input keeps the seeded value.
func (a *App) fillVariables() error {
	tmpl, ok := a.compose.Selected()
	if !ok {
		return nil
	}
	bindings := a.compose.Bindings()
	for _, variable := range tmpl.Variables {
		label := variable.Label
		if label == "" {
			label = variable.Key
		}
		value, err := getSimpleText(a.reader,
			fmt.Sprintf("%s [%s]", label, bindings[variable.Key]), os.Stdout)
		if err != nil {
			return err
		}
		if value != "" {
			if err := a.compose.SetBinding(variable.Key, value); err != nil {
				log.Printf("Error: %s", err.Error())
			}
		}
	}

	subject, err := getSimpleText(a.reader,
		fmt.Sprintf("Subject [%s]", tmpl.Name), os.Stdout)
	if err != nil {
		return err
	}
	if subject != "" {
		a.compose.SetSubject(subject)
	}

	if tmpl.HasVariable(common.RecipientNameVariable) {
		answer, err := getSimpleText(a.reader,
			"Personalize greeting per recipient? (y/n) [y]", os.Stdout)
		if err != nil {
			return err
		}
		if err := a.compose.SetPersonalized(answer != "n"); err != nil {
			log.Printf("Error: %s", err.Error())
		}
	}
	return nil
}

// reviewLoop previews the message and asks what to do next. Every edit made
// here invalidates the preview, so the loop renders a fresh one each pass.
func (a *App) reviewLoop(ctx context.Context) error {
	for {
		preview, err := a.compose.Preview(ctx)
		if err != nil {
			log.Printf("Error: %s", err.Error())
			printlnFn("Preview unavailable. You can edit, save a draft, or cancel.")
		} else {
			printlnFn("--- Preview ---")
			printlnFn("Subject:", preview.Subject)
			printlnFn(preview.Body)
			if preview.Personalized {
				printlnFn(fmt.Sprintf("Note: %s will be replaced with each recipient's name.",
					common.DynamicNamePlaceholder))
			}
			printlnFn(fmt.Sprintf("Recipients: %d", preview.Recipients))
		}

		answer, err := getSimpleText(a.reader, "send / edit / draft / cancel", os.Stdout)
		if err != nil {
			return err
		}
		switch answer {
		case "send":
			prompt := "Send this message? Type yes to confirm"
			if preview.Personalized {
				prompt = "Send with per-recipient personalized greetings? Type yes to confirm"
			}
			confirm, err := getSimpleText(a.reader, prompt, os.Stdout)
			if err != nil {
				return err
			}
			if confirm != "yes" {
				printlnFn("Not sent.")
				continue
			}

			report, _, err := a.compose.Send(ctx)
			if err != nil {
				log.Printf("Error: %s", err.Error())
				continue
			}
			printlnFn(fmt.Sprintf("Sent to %d recipient(s).", report.Sent))
			for _, email := range report.Failed {
				printlnFn("  failed:", email)
			}
			return nil

		case "edit":
			if err := a.fillVariables(); err != nil {
				return err
			}

		case "draft":
			draft, err := a.compose.SaveDraft(ctx)
			if err != nil {
				log.Printf("Error: %s", err.Error())
				continue
			}
			printlnFn("Draft saved:", draft.ID)
			a.compose.Cancel()
			return nil

		case "cancel":
			a.compose.Cancel()
			printlnFn("Cancelled.")
			return nil

		default:
			printlnFn("Please answer send, edit, draft, or cancel.")
		}
	}
}

// Templates prints the template catalog.
func (a *App) Templates(ctx context.Context) error {
	templates, err := a.compose.Catalog(ctx)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	if len(templates) == 0 {
		printlnFn("No templates.")
		return nil
	}
	for _, tmpl := range templates {
		keys := make([]string, 0, len(tmpl.Variables))
		for _, v := range tmpl.Variables {
			keys = append(keys, v.Key)
		}
		printlnFn(fmt.Sprintf("  %s\t%s\t[%s]", tmpl.ID, tmpl.Name, strings.Join(keys, ", ")))
	}
	return nil
}

// NewTemplate registers a new email template from interactive input.
func (a *App) NewTemplate(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Template name", os.Stdout)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Description", os.Stdout)
	if err != nil {
		return err
	}
	body, err := GetMultiline(a.reader, "Body ({{key}} for variables)", os.Stdout)
	if err != nil {
		return err
	}

	created, err := a.compose.CreateTemplate(ctx, name, description, body)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	printlnFn(fmt.Sprintf("Created template %s with %d variable(s).",
		created.Name, len(created.Variables)))
	return nil
}

// Drafts lists stored compose drafts and optionally resumes one.
func (a *App) Drafts(ctx context.Context) error {
	drafts, err := a.compose.ListDrafts(ctx)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	if len(drafts) == 0 {
		printlnFn("No drafts.")
		return nil
	}
	for _, draft := range drafts {
		printlnFn(fmt.Sprintf("  %s\t%s\t%d recipient(s)\t%s",
			draft.ID, draft.Subject, len(draft.Recipients),
			draft.UpdatedAt.Format("2006-01-02 15:04")))
	}

	id, err := getSimpleText(a.reader, "Enter draft id to resume (empty to go back)", os.Stdout)
	if err != nil {
		return err
	}
	if id == "" {
		return nil
	}
	if err := a.compose.LoadDraft(ctx, id); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	return a.reviewLoop(ctx)
}

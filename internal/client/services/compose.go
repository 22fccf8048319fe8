package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/arcadmin/internal/client/client"
	"github.com/dmitrijs2005/arcadmin/internal/client/models"
	"github.com/dmitrijs2005/arcadmin/internal/client/repositories/templatecache"
	"github.com/dmitrijs2005/arcadmin/internal/common"
	"github.com/dmitrijs2005/arcadmin/internal/dbx"
	"github.com/dmitrijs2005/arcadmin/internal/logging"
)

// ComposeState is the phase of the bulk email flow.
type ComposeState int

const (
	StateClosed ComposeState = iota
	StateLoadingTemplates
	StateReady
	StatePreviewed
	StateSending
)

func (s ComposeState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateLoadingTemplates:
		return "loading templates"
	case StateReady:
		return "ready"
	case StatePreviewed:
		return "previewed"
	case StateSending:
		return "sending"
	default:
		return "unknown"
	}
}

var (
	ErrNoRecipients   = errors.New("no recipients selected")
	ErrNoTemplate     = errors.New("no template selected")
	ErrNoSubject      = errors.New("subject is required")
	ErrNotPreviewed   = errors.New("preview the message before sending")
	ErrComposeClosed  = errors.New("compose is not open")
	ErrUnknownBinding = errors.New("unknown template variable")
)

// PreviewResult is the rendered message shown before sending.
type PreviewResult struct {
	Subject      string
	Body         string
	Recipients   int
	Personalized bool
}

// Compose drives the bulk email flow: open with a recipient set, pick a
// template, fill its variables, preview, send. Editing anything after a
// preview invalidates it, so what is sent is always what was last seen.
type Compose struct {
	client client.Client
	repos  *client.Repositories
	log    logging.Logger
	now    func() time.Time

	mu           sync.Mutex
	state        ComposeState
	templates    []models.EmailTemplate
	selected     *models.EmailTemplate
	bindings     map[string]string
	subject      string
	recipients   []models.Record
	personalized bool
}

func NewCompose(c client.Client, repos *client.Repositories, log logging.Logger) *Compose {
	if log == nil {
		log = logging.Nop()
	}
	return &Compose{client: c, repos: repos, log: log, now: time.Now, state: StateClosed}
}

// State returns the current phase.
func (c *Compose) State() ComposeState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Open starts a compose session for the given recipients and loads the
// template catalog. When the backend is unreachable the locally cached
// catalog is used, so a draft can still be prepared offline.
func (c *Compose) Open(ctx context.Context, recipients []models.Record) error {
	if len(recipients) == 0 {
		return ErrNoRecipients
	}
	c.mu.Lock()
	c.reset()
	c.state = StateLoadingTemplates
	c.recipients = append([]models.Record(nil), recipients...)
	c.mu.Unlock()

	templates, err := c.Catalog(ctx)
	if err != nil {
		c.close()
		return err
	}

	c.mu.Lock()
	c.templates = templates
	c.state = StateReady
	c.mu.Unlock()
	return nil
}

// Catalog returns the template catalog from the backend, refreshing the
// local cache. When the backend is unreachable the cached catalog is used.
func (c *Compose) Catalog(ctx context.Context) ([]models.EmailTemplate, error) {
	templates, err := c.client.ListTemplates(ctx)
	switch {
	case err == nil:
		c.cacheTemplates(ctx, templates)
		return templates, nil
	case errors.Is(err, client.ErrUnavailable):
		c.log.Warn(ctx, "template fetch failed, using cached catalog", "error", err)
		cached, cacheErr := c.repos.Templates.GetAll(ctx)
		if cacheErr != nil {
			return nil, fmt.Errorf("no templates available: %w", cacheErr)
		}
		return cached, nil
	default:
		return nil, err
	}
}

func (c *Compose) cacheTemplates(ctx context.Context, templates []models.EmailTemplate) {
	err := dbx.WithTx(ctx, c.repos.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return templatecache.NewSQLiteRepository(tx).Replace(ctx, templates, c.now())
	})
	if err != nil {
		c.log.Warn(ctx, "failed to cache templates", "error", err)
	}
}

// Templates returns the loaded catalog.
func (c *Compose) Templates() []models.EmailTemplate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.EmailTemplate(nil), c.templates...)
}

// Select picks a template by id and seeds its variable bindings. Any prior
// preview is discarded.
func (c *Compose) Select(templateID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateClosed || c.state == StateLoadingTemplates {
		return ErrComposeClosed
	}
	for i := range c.templates {
		if c.templates[i].ID == templateID {
			tmpl := c.templates[i]
			c.selected = &tmpl
			c.bindings = tmpl.SeedBindings()
			c.subject = tmpl.Name
			c.personalized = false
			c.state = StateReady
			return nil
		}
	}
	return fmt.Errorf("template %q not in catalog", templateID)
}

// Selected returns the chosen template, if any.
func (c *Compose) Selected() (models.EmailTemplate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return models.EmailTemplate{}, false
	}
	return *c.selected, true
}

// SetBinding updates one template variable. Setting a key the template does
// not declare is an error. Any prior preview is discarded.
func (c *Compose) SetBinding(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return ErrNoTemplate
	}
	if !c.selected.HasVariable(key) {
		return fmt.Errorf("%w: %q", ErrUnknownBinding, key)
	}
	c.bindings[key] = value
	c.invalidatePreview()
	return nil
}

// Bindings returns the current variable values.
func (c *Compose) Bindings() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.bindings))
	for k, v := range c.bindings {
		out[k] = v
	}
	return out
}

// SetSubject overrides the message subject. Any prior preview is discarded.
func (c *Compose) SetSubject(subject string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subject = subject
	c.invalidatePreview()
}

// SetPersonalized toggles per-recipient name substitution. Enabling it
// requires the template to declare the reserved recipient-name variable;
// while enabled that binding holds the dynamic-name sentinel, which previews
// render verbatim. Disabling reverts the binding to empty.
func (c *Compose) SetPersonalized(on bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return ErrNoTemplate
	}
	if !c.selected.HasVariable(common.RecipientNameVariable) {
		if on {
			return fmt.Errorf("template %q has no %s variable",
				c.selected.Name, common.RecipientNameVariable)
		}
		c.personalized = false
		return nil
	}
	if on {
		c.bindings[common.RecipientNameVariable] = common.DynamicNamePlaceholder
	} else {
		c.bindings[common.RecipientNameVariable] = ""
	}
	c.personalized = on
	c.invalidatePreview()
	return nil
}

// invalidatePreview drops a Previewed state back to Ready. Callers hold mu.
func (c *Compose) invalidatePreview() {
	if c.state == StatePreviewed {
		c.state = StateReady
	}
}

// Preview submits the selected template and current bindings to the render
// endpoint and returns the markup. The dynamic-name sentinel comes back
// literal; the Personalized flag tells the view to annotate that it will be
// substituted per recipient. A render failure leaves the state unchanged.
func (c *Compose) Preview(ctx context.Context) (PreviewResult, error) {
	c.mu.Lock()
	if c.state == StateClosed || c.state == StateLoadingTemplates {
		c.mu.Unlock()
		return PreviewResult{}, ErrComposeClosed
	}
	if c.selected == nil {
		c.mu.Unlock()
		return PreviewResult{}, ErrNoTemplate
	}
	if strings.TrimSpace(c.subject) == "" {
		c.mu.Unlock()
		return PreviewResult{}, ErrNoSubject
	}
	templateID := c.selected.ID
	bindings := make(map[string]string, len(c.bindings))
	for k, v := range c.bindings {
		bindings[k] = v
	}
	c.mu.Unlock()

	markup, err := c.client.RenderPreview(ctx, templateID, bindings)
	if err != nil {
		return PreviewResult{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateClosed {
		return PreviewResult{}, ErrComposeClosed
	}
	c.state = StatePreviewed
	return PreviewResult{
		Subject:      c.subject,
		Body:         markup,
		Recipients:   len(c.recipients),
		Personalized: c.personalized,
	}, nil
}

// Send dispatches the previewed message. When any selected record has no
// resolvable email address, no request is sent and the unresolved ids are
// returned with the error. Sending without a preview, or after an edit
// invalidated it, is refused.
func (c *Compose) Send(ctx context.Context) (client.SendReport, []string, error) {
	c.mu.Lock()
	if c.state != StatePreviewed {
		c.mu.Unlock()
		return client.SendReport{}, nil, ErrNotPreviewed
	}
	c.state = StateSending
	recipients := append([]models.Record(nil), c.recipients...)
	req := client.SendRequest{
		TemplateID:   c.selected.ID,
		Subject:      c.subject,
		Bindings:     make(map[string]string, len(c.bindings)),
		Personalized: c.personalized,
	}
	for k, v := range c.bindings {
		req.Bindings[k] = v
	}
	c.mu.Unlock()

	var unresolved []string
	for _, r := range recipients {
		email := r.PrimaryEmail()
		if email == "" {
			unresolved = append(unresolved, r.ID)
			continue
		}
		target := client.Recipient{Email: email}
		if req.Personalized {
			target.Name = r.RecipientName()
		}
		req.Recipients = append(req.Recipients, target)
	}
	if len(unresolved) > 0 {
		c.mu.Lock()
		c.state = StatePreviewed
		c.mu.Unlock()
		return client.SendReport{}, unresolved,
			fmt.Errorf("no email address for %s", strings.Join(unresolved, ", "))
	}

	report, err := c.client.SendEmails(ctx, req)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StatePreviewed
		return client.SendReport{}, nil, err
	}
	c.log.Info(ctx, "bulk email sent", "sent", report.Sent)
	c.reset()
	return report, nil, nil
}

// Cancel abandons the session.
func (c *Compose) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

func (c *Compose) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// reset returns to StateClosed. Callers hold mu.
func (c *Compose) reset() {
	c.state = StateClosed
	c.templates = nil
	c.selected = nil
	c.bindings = nil
	c.subject = ""
	c.recipients = nil
	c.personalized = false
}

var variablePattern = regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`)

// CreateTemplate registers a new template. Pasted bodies often carry code
// module lines from the source editor; those are stripped. Variables are
// derived from the {{key}} markers in the cleaned body.
func (c *Compose) CreateTemplate(ctx context.Context, name, description, body string) (models.EmailTemplate, error) {
	if strings.TrimSpace(name) == "" {
		return models.EmailTemplate{}, errors.New("template name is required")
	}
	cleaned := stripModuleLines(body)
	if strings.TrimSpace(cleaned) == "" {
		return models.EmailTemplate{}, errors.New("template body is empty")
	}

	tmpl := models.EmailTemplate{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Body:        cleaned,
	}
	for _, key := range extractVariableKeys(cleaned) {
		tmpl.Variables = append(tmpl.Variables, models.TemplateVariable{Key: key, Label: key})
	}

	created, err := c.client.CreateTemplate(ctx, tmpl)
	if err != nil {
		return models.EmailTemplate{}, err
	}

	c.mu.Lock()
	if c.state != StateClosed {
		c.templates = append(c.templates, created)
	}
	c.mu.Unlock()
	return created, nil
}

// stripModuleLines removes import and export statements that travel along
// when a body is pasted from a code editor.
func stripModuleLines(body string) string {
	lines := strings.Split(body, "\n")
	kept := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "export ") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// extractVariableKeys lists distinct {{key}} markers in order of first use.
func extractVariableKeys(body string) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, match := range variablePattern.FindAllStringSubmatch(body, -1) {
		if !seen[match[1]] {
			seen[match[1]] = true
			keys = append(keys, match[1])
		}
	}
	return keys
}

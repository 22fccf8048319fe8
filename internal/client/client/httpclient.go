package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/arcadmin/internal/client/models"
	"github.com/dmitrijs2005/arcadmin/internal/common"
	"github.com/dmitrijs2005/arcadmin/internal/logging"
)

// HTTPClient talks to the backend REST API. Authentication is cookie based,
// so the underlying http.Client carries a jar and every call after Login
// rides the session cookie.
type HTTPClient struct {
	baseURL *url.URL
	httpc   *http.Client
	log     logging.Logger
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Nop()
	}
	return &HTTPClient{
		baseURL: parsed,
		httpc:   &http.Client{Jar: jar, Timeout: timeout},
		log:     log,
	}, nil
}

func (c *HTTPClient) Close() error {
	c.httpc.CloseIdleConnections()
	return nil
}

// do performs one JSON round trip. A nil in sends no body, a nil out
// discards the response body.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.baseURL.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := mapStatus(resp.StatusCode); err != nil {
		c.log.Debug(ctx, "request rejected", "method", method, "path", path, "status", resp.StatusCode)
		if text := errorText(resp.Body); text != "" {
			return fmt.Errorf("%w: %s", err, text)
		}
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// errorText extracts the server-provided message from an error response
// body. Backends answer with either an `error` or a `message` field.
func errorText(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}

// mapStatus converts a non-2xx HTTP status to a package sentinel error.
func mapStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		return ErrInvalidRequest
	case code >= 500:
		return ErrUnavailable
	default:
		return fmt.Errorf("unexpected status %d", code)
	}
}

// accountEnvelope tolerates both `{"user": {...}}` and a bare account
// object, which differ between backend revisions.
type accountEnvelope struct {
	User *models.Account `json:"user"`
	models.Account
}

func (e accountEnvelope) account() models.Account {
	if e.User != nil {
		return *e.User
	}
	return e.Account
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (models.Account, error) {
	req := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var resp accountEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, req, &resp); err != nil {
		return models.Account{}, err
	}
	return resp.account(), nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
}

func (c *HTTPClient) Verify(ctx context.Context) (models.Account, error) {
	var resp accountEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/auth/verify-token", nil, nil, &resp); err != nil {
		return models.Account{}, err
	}
	return resp.account(), nil
}

// directoryPath maps a category to its listing endpoint. Arcers have their
// own top-level collection; the rest live under /api/users.
func directoryPath(category models.Category) string {
	switch category {
	case models.CategoryArcer:
		return "/api/arcers"
	default:
		return "/api/users/" + category.CollectionKey()
	}
}

func (c *HTTPClient) ListDirectory(ctx context.Context, category models.Category, page, limit int) ([]models.Record, models.Page, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, directoryPath(category), query, nil, &raw); err != nil {
		return nil, models.ResetPage(), err
	}
	records, pg, err := models.DecodeDirectory(raw, category)
	if err != nil {
		return nil, models.ResetPage(), fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return records, pg, nil
}

func (c *HTTPClient) AddArcer(ctx context.Context, draft AddArcerDraft) (models.Record, error) {
	var resp struct {
		User map[string]any `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/add-arcer", nil, draft, &resp); err != nil {
		return models.Record{}, err
	}
	if resp.User == nil {
		return models.Record{Email: draft.Email, Role: draft.Role}, nil
	}
	return models.RecordFromWire(resp.User), nil
}

func (c *HTTPClient) UpdateArcer(ctx context.Context, id string, draft ArcerDraft) (UpdateResult, error) {
	var resp struct {
		User          map[string]any `json:"user"`
		RequireReauth bool           `json:"requireReauth"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/update-arcer/"+url.PathEscape(id), nil, draft, &resp); err != nil {
		return UpdateResult{}, err
	}
	result := UpdateResult{RequireReauth: resp.RequireReauth}
	if resp.User != nil {
		result.Record = models.RecordFromWire(resp.User)
	}
	return result, nil
}

// decodeOutcomes tolerates `{"outcomes": [...]}`, `{"results": [...]}` and
// a bare array.
func decodeOutcomes(raw json.RawMessage) ([]models.Outcome, error) {
	var envelope struct {
		Outcomes []models.Outcome `json:"outcomes"`
		Results  []models.Outcome `json:"results"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Outcomes != nil {
			return envelope.Outcomes, nil
		}
		if envelope.Results != nil {
			return envelope.Results, nil
		}
	}
	var bare []models.Outcome
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare, nil
	}
	return nil, fmt.Errorf("%w: no outcome list in payload", ErrMalformedResponse)
}

func (c *HTTPClient) DeleteArcers(ctx context.Context, ids []string) ([]models.Outcome, error) {
	req := struct {
		IDs []string `json:"ids"`
	}{IDs: ids}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodDelete, "/api/delete-arcers", nil, req, &raw); err != nil {
		return nil, err
	}
	return decodeOutcomes(raw)
}

func (c *HTTPClient) DeleteUsers(ctx context.Context, category models.Category, ids []string) ([]models.Outcome, error) {
	req := struct {
		Category string   `json:"category"`
		IDs      []string `json:"ids"`
	}{Category: string(category), IDs: ids}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodDelete, "/api/delete-users", nil, req, &raw); err != nil {
		return nil, err
	}
	return decodeOutcomes(raw)
}

func (c *HTTPClient) ListTemplates(ctx context.Context) ([]models.EmailTemplate, error) {
	var resp struct {
		Templates []models.EmailTemplate `json:"templates"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/email-templates", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Templates, nil
}

func (c *HTTPClient) CreateTemplate(ctx context.Context, tmpl models.EmailTemplate) (models.EmailTemplate, error) {
	var resp struct {
		Template models.EmailTemplate `json:"template"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/email-templates", nil, tmpl, &resp); err != nil {
		return models.EmailTemplate{}, err
	}
	if resp.Template.ID == "" {
		resp.Template = tmpl
	}
	return resp.Template, nil
}

// RenderPreview asks the backend to render a template with the given
// bindings. The returned markup key differs between backend revisions.
func (c *HTTPClient) RenderPreview(ctx context.Context, templateID string, bindings map[string]string) (string, error) {
	req := struct {
		TemplateID string            `json:"templateId"`
		Bindings   map[string]string `json:"bindings"`
	}{TemplateID: templateID, Bindings: bindings}

	var resp struct {
		HTML    string `json:"html"`
		Preview string `json:"preview"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/email-templates/preview", nil, req, &resp); err != nil {
		return "", err
	}
	if resp.HTML != "" {
		return resp.HTML, nil
	}
	return resp.Preview, nil
}

func (c *HTTPClient) SendEmails(ctx context.Context, req SendRequest) (SendReport, error) {
	var resp SendReport
	if err := c.do(ctx, http.MethodPost, "/api/send-emails", nil, req, &resp); err != nil {
		return SendReport{}, err
	}
	return resp, nil
}

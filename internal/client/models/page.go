package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Page is the canonical pagination descriptor every directory response is
// normalized into.
//
// Current always stays within [1, TotalPages] when TotalPages is at least 1.
type Page struct {
	Current    int
	TotalPages int
	TotalItems int
	HasMore    bool
}

// ResetPage returns the descriptor used when a directory is (re)entered or
// when a response cannot be interpreted: page 1 of 1, nothing more to load.
func ResetPage() Page {
	return Page{Current: 1, TotalPages: 1}
}

// ErrUnknownShape is returned by DecodeDirectory when the payload matches
// none of the known response shapes.
var ErrUnknownShape = errors.New("unrecognized directory response shape")

// DecodeDirectory parses a directory payload into records plus a normalized
// Page. The backend is inconsistent across categories and revisions, so
// three shapes are tolerated:
//
//   - a bare array of records,
//   - records nested under the category's collection key (or "users"),
//   - pagination nested under a "pagination" object OR flattened onto the
//     top-level payload.
//
// Responses with no pagination information normalize to a single page
// holding everything that was returned.
func DecodeDirectory(data []byte, category Category) ([]Record, Page, error) {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, ResetPage(), fmt.Errorf("decode directory: %w", err)
	}

	switch value := payload.(type) {
	case []any:
		records := decodeRecords(value)
		page := ResetPage()
		page.TotalItems = len(records)
		return records, page, nil

	case map[string]any:
		raw, ok := value[category.CollectionKey()].([]any)
		if !ok {
			raw, ok = value["users"].([]any)
		}
		if !ok {
			return nil, ResetPage(), ErrUnknownShape
		}
		records := decodeRecords(raw)
		return records, decodePage(value, len(records)), nil

	default:
		return nil, ResetPage(), ErrUnknownShape
	}
}

// decodePage extracts pagination from a top-level object, looking first for
// a nested "pagination" object and then for flattened keys.
func decodePage(payload map[string]any, itemCount int) Page {
	source := payload
	if nested, ok := payload["pagination"].(map[string]any); ok {
		source = nested
	}

	page := Page{
		Current:    intField(source, "currentPage", "current_page", "page"),
		TotalPages: intField(source, "totalPages", "total_pages"),
		TotalItems: intField(source, "totalItems", "total_items", "total"),
	}
	if more, ok := source["hasMore"].(bool); ok {
		page.HasMore = more
	} else if more, ok := source["has_more"].(bool); ok {
		page.HasMore = more
	}

	if page.TotalPages < 1 {
		page.TotalPages = 1
	}
	if page.Current < 1 {
		page.Current = 1
	}
	if page.Current > page.TotalPages {
		page.Current = page.TotalPages
	}
	if page.TotalItems == 0 {
		page.TotalItems = itemCount
	}
	return page
}

// RecordFromWire normalizes a single loosely-typed wire object, as returned
// by the add and update endpoints.
func RecordFromWire(fields map[string]any) Record {
	return recordFromMap(fields, 0)
}

func decodeRecords(raw []any) []Record {
	records := make([]Record, 0, len(raw))
	for i, item := range raw {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		records = append(records, recordFromMap(fields, i))
	}
	return records
}

// recordFromMap maps loosely-typed wire fields onto the shared Record shape.
// The identifier fallback chain is id → username → positional key.
func recordFromMap(fields map[string]any, index int) Record {
	record := Record{
		ID:          stringField(fields, "id", "_id"),
		Email:       stringField(fields, "email"),
		AltEmail:    stringField(fields, "contact_email", "secondary_email"),
		Username:    stringField(fields, "username"),
		DisplayName: stringField(fields, "name", "full_name", "display_name"),
		Role:        stringField(fields, "role"),
		CreatedAt:   stringField(fields, "created_at", "createdAt"),
		UpdatedAt:   stringField(fields, "updated_at", "updatedAt"),
	}
	if verified, ok := boolField(fields, "verified", "email_verified", "is_verified"); ok {
		record.Verified = verified
	}
	if record.ID == "" {
		record.ID = record.Username
	}
	if record.ID == "" {
		record.ID = "row-" + strconv.Itoa(index+1)
	}

	known := map[string]bool{
		"id": true, "_id": true, "email": true, "contact_email": true,
		"secondary_email": true, "username": true, "name": true,
		"full_name": true, "display_name": true, "role": true,
		"created_at": true, "createdAt": true, "updated_at": true,
		"updatedAt": true, "verified": true, "email_verified": true,
		"is_verified": true,
	}
	for key, value := range fields {
		if known[key] {
			continue
		}
		switch typed := value.(type) {
		case string:
			if record.Extra == nil {
				record.Extra = make(map[string]string)
			}
			record.Extra[key] = typed
		case float64:
			if record.Extra == nil {
				record.Extra = make(map[string]string)
			}
			record.Extra[key] = strconv.FormatFloat(typed, 'f', -1, 64)
		case bool:
			if record.Extra == nil {
				record.Extra = make(map[string]string)
			}
			record.Extra[key] = strconv.FormatBool(typed)
		}
	}
	return record
}

func stringField(fields map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := fields[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func boolField(fields map[string]any, keys ...string) (bool, bool) {
	for _, key := range keys {
		if b, ok := fields[key].(bool); ok {
			return b, true
		}
	}
	return false, false
}

func intField(fields map[string]any, keys ...string) int {
	for _, key := range keys {
		switch typed := fields[key].(type) {
		case float64:
			return int(typed)
		case string:
			if n, err := strconv.Atoi(typed); err == nil {
				return n
			}
		}
	}
	return 0
}

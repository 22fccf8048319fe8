// Package models defines the directory record types, pagination descriptor,
// email templates, and bulk-operation outcomes exchanged with the backend.
package models

import "strings"

// Category selects which directory is being browsed.
type Category string

const (
	CategoryArcer     Category = "arcer"
	CategoryStudent   Category = "student"
	CategoryCommunity Category = "community"
	CategoryCompany   Category = "company"
	CategoryEducator  Category = "educator"
)

// Categories lists all browsable directories in tab order.
func Categories() []Category {
	return []Category{
		CategoryArcer,
		CategoryStudent,
		CategoryCommunity,
		CategoryCompany,
		CategoryEducator,
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// CollectionKey returns the JSON key under which the backend may nest this
// category's collection. Responses may also return a bare array; see
// DecodeDirectory.
func (c Category) CollectionKey() string {
	switch c {
	case CategoryArcer:
		return "users"
	case CategoryStudent:
		return "students"
	case CategoryCommunity:
		return "communities"
	case CategoryCompany:
		return "companies"
	case CategoryEducator:
		return "educators"
	default:
		return string(c) + "s"
	}
}

// Administrative roles assignable to arcer accounts.
const (
	RoleFounder = "Founder"
	RoleAdmin   = "Admin"
	RoleEditor  = "Editor"
)

// Roles lists the assignable arcer roles.
func Roles() []string {
	return []string{RoleFounder, RoleAdmin, RoleEditor}
}

// ValidRole reports whether role is one of the assignable arcer roles.
func ValidRole(role string) bool {
	for _, r := range Roles() {
		if r == role {
			return true
		}
	}
	return false
}

// Record is one row in a directory. Categories expose different field sets
// on the wire; normalization maps them onto this shared shape and keeps
// everything else in Extra for schema-driven rendering.
//
// ID is never empty after normalization. When the payload has no canonical
// id the username stands in, and failing that a positional key is
// synthesized.
type Record struct {
	ID          string
	Email       string
	AltEmail    string
	Username    string
	DisplayName string
	Role        string
	Verified    bool
	CreatedAt   string
	UpdatedAt   string

	Extra map[string]string
}

// PrimaryEmail resolves the address bulk email is sent to: the primary
// email field when present, otherwise the alternate contact address.
// Empty means no address could be resolved for this record.
func (r Record) PrimaryEmail() string {
	if r.Email != "" {
		return r.Email
	}
	return r.AltEmail
}

// RecipientName resolves the name used for per-recipient personalization:
// display name, then username, then the local part of the email address.
func (r Record) RecipientName() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	if r.Username != "" {
		return r.Username
	}
	if at := strings.IndexByte(r.Email, '@'); at > 0 {
		return r.Email[:at]
	}
	return r.Email
}

// Matches reports whether the record matches a case-insensitive substring
// search across id, email, role, and creation timestamp.
func (r Record) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, field := range []string{r.ID, r.Email, r.Role, r.CreatedAt, r.Username, r.DisplayName} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

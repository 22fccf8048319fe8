package models

// FieldKind tells a renderer how to present a field value.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldEmail
	FieldTime
	FieldBool
	FieldRole
)

// Field describes one column of a category's directory view.
type Field struct {
	Key   string
	Label string
	Kind  FieldKind
}

// Schema returns the ordered field descriptors for a category. Views render
// columns from this list instead of reaching into records dynamically.
func (c Category) Schema() []Field {
	switch c {
	case CategoryArcer:
		return []Field{
			{Key: "id", Label: "ID", Kind: FieldText},
			{Key: "created_at", Label: "Created", Kind: FieldTime},
			{Key: "email", Label: "Email", Kind: FieldEmail},
			{Key: "role", Label: "Role", Kind: FieldRole},
		}
	case CategoryStudent:
		return []Field{
			{Key: "id", Label: "ID", Kind: FieldText},
			{Key: "name", Label: "Name", Kind: FieldText},
			{Key: "email", Label: "Email", Kind: FieldEmail},
			{Key: "verified", Label: "Verified", Kind: FieldBool},
			{Key: "created_at", Label: "Created", Kind: FieldTime},
		}
	case CategoryCommunity, CategoryCompany:
		return []Field{
			{Key: "id", Label: "ID", Kind: FieldText},
			{Key: "name", Label: "Name", Kind: FieldText},
			{Key: "email", Label: "Email", Kind: FieldEmail},
			{Key: "created_at", Label: "Created", Kind: FieldTime},
		}
	case CategoryEducator:
		return []Field{
			{Key: "id", Label: "ID", Kind: FieldText},
			{Key: "name", Label: "Name", Kind: FieldText},
			{Key: "email", Label: "Email", Kind: FieldEmail},
			{Key: "verified", Label: "Verified", Kind: FieldBool},
			{Key: "created_at", Label: "Created", Kind: FieldTime},
		}
	default:
		return []Field{
			{Key: "id", Label: "ID", Kind: FieldText},
			{Key: "email", Label: "Email", Kind: FieldEmail},
		}
	}
}

// FieldValue extracts the value for a schema field key from a record.
func (r Record) FieldValue(key string) string {
	switch key {
	case "id":
		return r.ID
	case "email":
		return r.PrimaryEmail()
	case "name":
		return r.RecipientName()
	case "role":
		return r.Role
	case "created_at":
		return r.CreatedAt
	case "updated_at":
		return r.UpdatedAt
	case "verified":
		if r.Verified {
			return "yes"
		}
		return "no"
	default:
		return r.Extra[key]
	}
}

package models

// Account is the authenticated operator as reported by the backend.
type Account struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Is reports whether a directory record refers to this account. Records and
// sessions may disagree on ids across backend revisions, so the email is
// compared as well.
func (a Account) Is(r Record) bool {
	if a.ID != "" && a.ID == r.ID {
		return true
	}
	return a.Email != "" && a.Email == r.PrimaryEmail()
}

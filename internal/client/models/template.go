package models

// TemplateVariable is one fillable slot of an email template. Default holds
// the value shipped with the template, Current the operator's edit.
type TemplateVariable struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Default string `json:"default"`
	Current string `json:"current,omitempty"`
}

// Value resolves the effective binding: the operator's value when set,
// otherwise the template default.
func (v TemplateVariable) Value() string {
	if v.Current != "" {
		return v.Current
	}
	return v.Default
}

// EmailTemplate is a reusable message body with named variable slots.
type EmailTemplate struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Body        string             `json:"body"`
	Variables   []TemplateVariable `json:"variables"`
}

// HasVariable reports whether the template declares a variable with the
// given key.
func (t EmailTemplate) HasVariable(key string) bool {
	for _, v := range t.Variables {
		if v.Key == key {
			return true
		}
	}
	return false
}

// SeedBindings builds the initial key→value map for a compose session.
func (t EmailTemplate) SeedBindings() map[string]string {
	bindings := make(map[string]string, len(t.Variables))
	for _, v := range t.Variables {
		bindings[v.Key] = v.Value()
	}
	return bindings
}

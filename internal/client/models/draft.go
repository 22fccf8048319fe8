package models

import "time"

// Draft is a locally persisted compose session, so an interrupted bulk
// email can be resumed after a restart.
type Draft struct {
	ID         string
	TemplateID string
	Subject    string
	Body       string
	Bindings   map[string]string
	Recipients []string
	UpdatedAt  time.Time
}

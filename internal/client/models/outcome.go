package models

import (
	"fmt"
	"strings"
)

// OutcomeStatus classifies the result of one id within a bulk operation.
type OutcomeStatus string

const (
	OutcomeDeleted       OutcomeStatus = "deleted"
	OutcomeDeletedSelf   OutcomeStatus = "deleted_self"
	OutcomeForbidden     OutcomeStatus = "forbidden"
	OutcomeForbiddenSelf OutcomeStatus = "forbidden_self"
	OutcomeNotFound      OutcomeStatus = "not_found"
	OutcomeError         OutcomeStatus = "error"
)

// Succeeded reports whether the status means the record was removed.
func (s OutcomeStatus) Succeeded() bool {
	return s == OutcomeDeleted || s == OutcomeDeletedSelf
}

// Self reports whether the status affects the operator's own account.
func (s OutcomeStatus) Self() bool {
	return s == OutcomeDeletedSelf || s == OutcomeForbiddenSelf
}

// Outcome is the per-id result of a bulk operation.
type Outcome struct {
	ID      string        `json:"id"`
	Status  OutcomeStatus `json:"status"`
	Message string        `json:"message,omitempty"`
}

// BulkReport buckets the per-id outcomes of one bulk operation.
type BulkReport struct {
	Deleted   []Outcome
	Forbidden []Outcome
	NotFound  []Outcome
	Failed    []Outcome

	// SelfAffected is set when one of the deleted outcomes removed the
	// operator's own account; the session must be torn down afterwards.
	SelfAffected bool
}

// PartitionOutcomes sorts raw outcomes into report buckets. Unknown statuses
// count as failures so they surface rather than vanish.
func PartitionOutcomes(outcomes []Outcome) BulkReport {
	var report BulkReport
	for _, o := range outcomes {
		switch o.Status {
		case OutcomeDeleted:
			report.Deleted = append(report.Deleted, o)
		case OutcomeDeletedSelf:
			report.Deleted = append(report.Deleted, o)
			report.SelfAffected = true
		case OutcomeForbidden, OutcomeForbiddenSelf:
			report.Forbidden = append(report.Forbidden, o)
		case OutcomeNotFound:
			report.NotFound = append(report.NotFound, o)
		default:
			report.Failed = append(report.Failed, o)
		}
	}
	return report
}

// Affects reports whether any of the given keys (account id or email) shows
// up among the deleted or errored outcomes. Empty keys never match.
func (r BulkReport) Affects(keys ...string) bool {
	match := func(outcomes []Outcome) bool {
		for _, o := range outcomes {
			for _, key := range keys {
				if key == "" {
					continue
				}
				if strings.EqualFold(o.ID, key) {
					return true
				}
			}
		}
		return false
	}
	return match(r.Deleted) || match(r.Failed)
}

// Empty reports whether no outcomes were recorded at all.
func (r BulkReport) Empty() bool {
	return len(r.Deleted)+len(r.Forbidden)+len(r.NotFound)+len(r.Failed) == 0
}

// Summary renders a one-line report like "3 deleted, 1 forbidden".
func (r BulkReport) Summary() string {
	parts := make([]string, 0, 4)
	if n := len(r.Deleted); n > 0 {
		parts = append(parts, fmt.Sprintf("%d deleted", n))
	}
	if n := len(r.Forbidden); n > 0 {
		parts = append(parts, fmt.Sprintf("%d forbidden", n))
	}
	if n := len(r.NotFound); n > 0 {
		parts = append(parts, fmt.Sprintf("%d not found", n))
	}
	if n := len(r.Failed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", n))
	}
	if len(parts) == 0 {
		return "no outcomes reported"
	}
	return strings.Join(parts, ", ")
}

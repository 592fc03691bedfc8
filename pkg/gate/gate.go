// Package gate decides who may edit an assignment and what status label it
// carries. All functions are pure; they are safe to call on every evaluation.
package gate

import (
	"time"

	"github.com/confdesk/confdesk/pkg/models"
)

// Status is the display status of an assignment for a given viewer.
type Status string

const (
	// StatusNone means no assignment is available (still loading or failed).
	StatusNone Status = ""
	// StatusCompleted means the assignee marked the assignment complete.
	StatusCompleted Status = "completed"
	// StatusOverdue means the deadline has passed without completion.
	StatusOverdue Status = "overdue"
	// StatusIncomplete means the viewer is not the assignee and the
	// assignment is not yet complete.
	StatusIncomplete Status = "incomplete"
	// StatusInProgress means the assignee is still working on it.
	StatusInProgress Status = "in progress"
)

// ReadOnly reports whether the viewer may not edit the assignment.
// Only the assignee may edit, independent of submission or deadline state.
func ReadOnly(a *models.Assignment, viewerID string) bool {
	return a == nil || a.AssigneeID != viewerID
}

// Outdated reports whether the assignment's deadline has passed.
func Outdated(a *models.Assignment, now time.Time) bool {
	return now.After(a.Deadline)
}

// Label resolves the status label, in priority order: completed beats
// overdue beats not-owner.
func Label(a *models.Assignment, viewerID string, now time.Time) Status {
	switch {
	case a == nil:
		return StatusNone
	case a.Submitted:
		return StatusCompleted
	case Outdated(a, now):
		return StatusOverdue
	case ReadOnly(a, viewerID):
		return StatusIncomplete
	default:
		return StatusInProgress
	}
}

// State is the access state of one fetched assignment copy, computed once
// per fetch so the sync engine and its callers consult a single answer
// instead of re-deriving the predicates at every call site.
type State struct {
	Submitted bool
	ReadOnly  bool
	Outdated  bool
}

// Resolve computes the State for a fetched assignment.
func Resolve(a *models.Assignment, viewerID string, now time.Time) State {
	if a == nil {
		return State{ReadOnly: true}
	}
	return State{
		Submitted: a.Submitted,
		ReadOnly:  ReadOnly(a, viewerID),
		Outdated:  Outdated(a, now),
	}
}

package models

import "time"

// Assignment represents a timed written assignment handed to one registrant.
// Problems and Answers are parallel, index-aligned slices: Answers, once
// initialized, has exactly len(Problems) entries, with "" for an answer the
// registrant has not written yet.
type Assignment struct {
	// ID is the unique identifier for the assignment (UUID format).
	ID string `json:"id"`

	// ConferenceID is the conference this assignment belongs to.
	ConferenceID string `json:"conference_id"`

	// Title is the display title of the assignment.
	Title string `json:"title"`

	// Problems are the prompts, one per problem. Order is significant.
	Problems []string `json:"problems"`

	// Deadline is when the assignment is due. Past the deadline the
	// assignment counts as overdue, but late completion is still accepted.
	Deadline time.Time `json:"deadline"`

	// AssigneeID is the user the assignment was handed to. Only the
	// assignee may edit answers or mark the assignment submitted.
	AssigneeID string `json:"assignee_id"`

	// Submitted reports whether the assignee has marked the assignment
	// complete. Answers stay editable afterwards; see Submit semantics.
	Submitted bool `json:"submitted"`

	// Answers holds the registrant's answers, parallel to Problems.
	// Empty (nil) until the first answer write.
	Answers []string `json:"answers,omitempty"`

	// AnswersSeq is the sequence number of the last accepted answer write.
	// The server only accepts writes with a higher sequence, so a stale
	// in-flight autosave can never overwrite a newer one.
	AnswersSeq uint64 `json:"answers_seq"`

	// CreatedAt is the Unix timestamp when the assignment was created.
	CreatedAt int64 `json:"created_at"`
}

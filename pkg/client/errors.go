package client

import (
	"errors"
	"fmt"
)

// ErrReadOnly is returned by Submit when the viewer is not the assignee.
// (Edits by a read-only viewer are silent no-ops instead; they should be
// unreachable through a correctly gated UI.)
var ErrReadOnly = errors.New("assignment is read-only for this viewer")

// FetchError reports a failed read (assignment load, re-fetch, payment
// fetch, refresh). The affected view has no data and stays blocked until a
// manual retry.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// SyncError reports a failed upstream write. For debounced autosaves it is
// swallowed at the engine boundary (the local draft stays authoritative);
// for the submission write it propagates to the caller.
type SyncError struct {
	Seq uint64
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync (seq %d): %v", e.Seq, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

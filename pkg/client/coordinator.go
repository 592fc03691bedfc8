package client

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/confdesk/confdesk/pkg/models"
)

// Submit marks the loaded assignment complete.
//
// The viewer must be the assignee; beyond that the engine is permissive:
// submission is accepted even when overdue (the UI discourages a late
// completion mark but does not forbid it) and re-submission of an already
// submitted assignment is idempotent.
//
// After the submitted write succeeds, two follow-ups run concurrently and
// are both awaited: the opaque broad refresh signal and a re-fetch of the
// assignment. The join is fail-fast; if either fails, Submit fails with a
// FetchError even though the submitted write already landed server-side.
// The submission is deliberately not rolled back in that case (at-most-once
// write, best-effort confirmation). On success the re-fetched copy becomes
// the authoritative local state, superseding any pending unsynced draft.
func (e *Engine) Submit(ctx context.Context) error {
	e.mu.Lock()
	if e.assignment == nil || e.state.ReadOnly {
		e.mu.Unlock()
		return ErrReadOnly
	}
	id := e.id
	e.mu.Unlock()

	if err := e.transport.WriteSubmitted(ctx, id, true); err != nil {
		return &SyncError{Err: err}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if e.refresher == nil {
			return nil
		}
		if err := e.refresher.Notify(gctx); err != nil {
			return &FetchError{Op: "refresh", Err: err}
		}
		return nil
	})

	var refreshed *models.Assignment
	g.Go(func() error {
		a, err := e.transport.FetchAssignment(gctx, id)
		if err != nil {
			return &FetchError{Op: "assignment " + id, Err: err}
		}
		refreshed = a
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Drop any pending autosave; the server copy now wins.
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.adoptLocked(refreshed)
	if refreshed.AnswersSeq > e.seq {
		e.seq = refreshed.AnswersSeq
	}
	return nil
}

package client

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

// fakeRefresher records the broad refresh notifications.
type fakeRefresher struct {
	mu    sync.Mutex
	calls int
	err   error
	delay time.Duration
}

func (f *fakeRefresher) Notify(ctx context.Context) error {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeRefresher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestSubmit_JoinsRefreshAndRefetch(t *testing.T) {
	ft := newTestTransport()
	fr := &fakeRefresher{delay: 20 * time.Millisecond}
	e := NewEngine(ft, "alice", WithDebounceWindow(testWindow), WithRefresher(fr))

	if err := e.Load(context.Background(), "a1"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := e.Submit(context.Background()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// Both follow-ups completed before Submit returned.
	if fr.callCount() != 1 {
		t.Errorf("refresher calls = %d, want 1", fr.callCount())
	}
	ft.mu.Lock()
	submits, fetches := len(ft.submits), ft.fetches
	ft.mu.Unlock()
	if submits != 1 {
		t.Errorf("submitted writes = %d, want 1", submits)
	}
	if fetches != 2 { // initial load + post-submit re-fetch
		t.Errorf("fetches = %d, want 2", fetches)
	}

	// The re-fetched copy is now authoritative.
	if a := e.Assignment(); a == nil || !a.Submitted {
		t.Error("engine did not adopt the re-fetched submitted copy")
	}
	if !e.State().Submitted {
		t.Error("State().Submitted = false after submit")
	}
}

func TestSubmit_ReadOnlyViewerRejected(t *testing.T) {
	ft := newTestTransport()
	e := NewEngine(ft, "bob", WithDebounceWindow(testWindow))

	if err := e.Load(context.Background(), "a1"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := e.Submit(context.Background()); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("Submit error = %v, want ErrReadOnly", err)
	}
	ft.mu.Lock()
	defer ft.mu.Unlock()
	if len(ft.submits) != 0 {
		t.Error("read-only viewer reached the submitted write")
	}
}

func TestSubmit_AllowedWhenOverdue(t *testing.T) {
	ft := newTestTransport()
	ft.assignment.Deadline = time.Now().Add(-time.Hour)
	e := NewEngine(ft, "alice", WithDebounceWindow(testWindow))

	if err := e.Load(context.Background(), "a1"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !e.State().Outdated {
		t.Fatal("expected outdated state")
	}

	// Late completion is discouraged by the UI but accepted by the engine.
	if err := e.Submit(context.Background()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
}

func TestSubmit_RefetchFailureSurfacesWithoutRollback(t *testing.T) {
	ft := newTestTransport()
	e := NewEngine(ft, "alice", WithDebounceWindow(testWindow))

	if err := e.Load(context.Background(), "a1"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// The submitted write succeeds, then the confirmation re-fetch fails.
	ft.mu.Lock()
	ft.fetchErr = errors.New("boom")
	ft.mu.Unlock()

	err := e.Submit(context.Background())
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Submit error = %v, want FetchError", err)
	}

	// At-most-once write: the submission is not rolled back server-side.
	ft.mu.Lock()
	defer ft.mu.Unlock()
	if len(ft.submits) != 1 {
		t.Errorf("submitted writes = %d, want 1", len(ft.submits))
	}
	if !ft.assignment.Submitted {
		t.Error("server-side submitted flag was rolled back")
	}
}

func TestSubmit_RefreshFailureFailsTheJoin(t *testing.T) {
	ft := newTestTransport()
	fr := &fakeRefresher{err: errors.New("refresh down")}
	e := NewEngine(ft, "alice", WithDebounceWindow(testWindow), WithRefresher(fr))

	if err := e.Load(context.Background(), "a1"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	err := e.Submit(context.Background())
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Submit error = %v, want FetchError from the refresh branch", err)
	}
}

func TestSubmit_WriteFailure(t *testing.T) {
	ft := newTestTransport()
	ft.submitErr = errors.New("boom")
	e := NewEngine(ft, "alice", WithDebounceWindow(testWindow))

	if err := e.Load(context.Background(), "a1"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	err := e.Submit(context.Background())
	var syncErr *SyncError
	if !errors.As(err, &syncErr) {
		t.Fatalf("Submit error = %v, want SyncError", err)
	}

	// No follow-ups after a failed write.
	ft.mu.Lock()
	defer ft.mu.Unlock()
	if ft.fetches != 1 {
		t.Errorf("fetches = %d, want only the initial load", ft.fetches)
	}
}

func TestSubmit_SupersedesPendingDraft(t *testing.T) {
	ft := newTestTransport()
	ft.assignment.Answers = []string{"server", "server", "server"}
	ft.assignment.AnswersSeq = 5
	e := NewEngine(ft, "alice", WithDebounceWindow(time.Hour)) // autosave never fires

	if err := e.Load(context.Background(), "a1"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// An unsynced local edit is pending when the user submits.
	e.EditAnswer(0, "unsynced")

	if err := e.Submit(context.Background()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// The server-confirmed answers supersede the pending draft, and the
	// cancelled autosave never fires.
	if got := e.Draft(); !reflect.DeepEqual(got, []string{"server", "server", "server"}) {
		t.Errorf("Draft() = %v, want the server copy", got)
	}
	time.Sleep(50 * time.Millisecond)
	if ft.writeCount() != 0 {
		t.Error("pending autosave fired after submit adopted the server copy")
	}
}

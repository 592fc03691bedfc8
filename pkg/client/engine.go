package client

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/confdesk/confdesk/pkg/gate"
	"github.com/confdesk/confdesk/pkg/models"
)

const (
	// defaultDebounceWindow is the quiet period after the last edit before
	// an autosave is sent.
	defaultDebounceWindow = time.Second

	// writeTimeout bounds a single background autosave request.
	writeTimeout = 10 * time.Second
)

// Engine synchronizes one assignment's answers with the server.
//
// The local draft is authoritative for the UI: edits land in it immediately
// and an autosave of the entire draft is scheduled after a quiet window.
// Autosaves are best effort; a failed one only clears the syncing indicator,
// it never discards the draft.
//
// Overlapping in-flight writes are resolved by sequence numbers: every write
// carries a monotonically increasing sequence, the server only accepts the
// highest it has seen, and the syncing indicator stays on until no write is
// in flight. At most one logically-current write wins; edits during flight
// are never lost, only superseded.
//
// One Engine instance owns exactly one assignment draft. All methods are
// safe for concurrent use.
type Engine struct {
	transport Transport
	refresher Refresher
	viewerID  string
	window    time.Duration
	now       func() time.Time

	mu         sync.Mutex
	id         string
	assignment *models.Assignment
	state      gate.State
	draft      []string
	seq        uint64 // last issued write sequence
	inflight   int
	timer      *time.Timer
}

// Option configures an Engine.
type Option func(*Engine)

// WithDebounceWindow overrides the autosave quiet window (default 1s).
func WithDebounceWindow(d time.Duration) Option {
	return func(e *Engine) { e.window = d }
}

// WithRefresher sets the broad refresh signal awaited after a submission.
func WithRefresher(r Refresher) Option {
	return func(e *Engine) { e.refresher = r }
}

// WithClock overrides the time source used for deadline judgments. For tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine for the given viewer.
func NewEngine(transport Transport, viewerID string, opts ...Option) *Engine {
	e := &Engine{
		transport: transport,
		viewerID:  viewerID,
		window:    defaultDebounceWindow,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load fetches the assignment and initializes the draft: from the server's
// answers if present, otherwise one empty string per problem. Returns a
// FetchError if the read fails, in which case there is no local draft and
// the caller must keep the view blocked.
func (e *Engine) Load(ctx context.Context, id string) error {
	a, err := e.transport.FetchAssignment(ctx, id)
	if err != nil {
		return &FetchError{Op: "assignment " + id, Err: err}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.id = id
	e.adoptLocked(a)

	// Continue the server's sequence so our next write advances it.
	if a.AnswersSeq > e.seq {
		e.seq = a.AnswersSeq
	}
	return nil
}

// adoptLocked makes a fetched assignment the authoritative local copy.
// The access state is computed once here, not re-derived at call sites.
func (e *Engine) adoptLocked(a *models.Assignment) {
	e.assignment = a
	e.state = gate.Resolve(a, e.viewerID, e.now())

	if a.Answers != nil {
		e.draft = append([]string(nil), a.Answers...)
	} else {
		e.draft = make([]string, len(a.Problems))
	}
}

// EditAnswer records a keystroke-level edit: the draft entry is updated
// immediately and an autosave of the whole draft is (re)scheduled.
//
// Edits while read-only, or with an out-of-range index, are silent no-ops.
// The UI should never offer such an edit; the engine enforces it anyway so
// access control has a single source of truth.
func (e *Engine) EditAnswer(index int, text string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.assignment == nil || e.state.ReadOnly {
		return
	}
	if index < 0 || index >= len(e.draft) {
		return
	}

	e.draft[index] = text

	// Reset the quiet window: a pending scheduled payload is superseded,
	// never sent.
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.window, e.flush)
}

// flush sends the freshest full draft snapshot with the next sequence number.
func (e *Engine) flush() {
	e.mu.Lock()
	if e.assignment == nil {
		e.mu.Unlock()
		return
	}
	snapshot := append([]string(nil), e.draft...)
	e.seq++
	seq := e.seq
	id := e.id
	e.inflight++
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	err := e.transport.WriteAnswers(ctx, id, snapshot, seq)

	e.mu.Lock()
	e.inflight--
	e.mu.Unlock()

	if err != nil {
		// Best-effort autosave: swallowed, draft untouched, no retry.
		syncErr := &SyncError{Seq: seq, Err: err}
		slog.Debug("Autosave failed", "assignment", id, "error", syncErr)
	}
}

// Draft returns a copy of the local draft answers.
func (e *Engine) Draft() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.draft...)
}

// Answer returns the draft answer at index, reflecting edits immediately,
// before any autosave has fired.
func (e *Engine) Answer(index int) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.draft) {
		return "", false
	}
	return e.draft[index], true
}

// Syncing reports whether an autosave is in flight. Observability only;
// it is not a correctness gate.
func (e *Engine) Syncing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inflight > 0
}

// State returns the access state computed at the last fetch.
func (e *Engine) State() gate.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Status returns the display status for the loaded assignment.
func (e *Engine) Status() gate.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gate.Label(e.assignment, e.viewerID, e.now())
}

// Assignment returns the last fetched assignment copy, or nil before a
// successful Load.
func (e *Engine) Assignment() *models.Assignment {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.assignment
}

// Stop cancels a pending (not yet sent) autosave. In-flight writes are not
// interrupted.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

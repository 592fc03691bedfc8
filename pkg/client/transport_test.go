package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/confdesk/confdesk/internal/api"
	"github.com/confdesk/confdesk/internal/auth"
	"github.com/confdesk/confdesk/internal/storage/sqlite"
	"github.com/confdesk/confdesk/pkg/models"
)

// setupAPI spins up the real router over a temp SQLite store and registers
// one user, returning their session token and ID.
func setupAPI(t *testing.T) (*httptest.Server, *sqlite.SQLiteStore, string, string) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "confdesk-client-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	server := httptest.NewServer(api.NewRouter(store, jwtManager))
	t.Cleanup(server.Close)

	body, _ := json.Marshal(map[string]string{
		"email": "alice@example.com", "name": "Alice", "password": "hunter2hunter2",
	})
	resp, err := http.Post(server.URL+"/api/auth/register", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	defer resp.Body.Close()

	var session struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		t.Fatalf("failed to decode session: %v", err)
	}

	return server, store, session.Token, session.User.ID
}

func TestHTTPTransport_EndToEnd(t *testing.T) {
	server, store, token, userID := setupAPI(t)
	ctx := context.Background()

	conf := &models.Conference{ID: "xmun", Title: "Example MUN", Abbr: "XMUN"}
	if err := store.CreateConference(ctx, conf); err != nil {
		t.Fatalf("CreateConference failed: %v", err)
	}
	a := &models.Assignment{
		ConferenceID: conf.ID,
		Title:        "Academic test",
		Problems:     []string{"P1", "P2"},
		Deadline:     time.Now().Add(24 * time.Hour),
		AssigneeID:   userID,
	}
	if err := store.CreateAssignment(ctx, a); err != nil {
		t.Fatalf("CreateAssignment failed: %v", err)
	}

	transport := NewHTTPTransport(server.URL, token, nil)

	t.Run("fetch assignment", func(t *testing.T) {
		got, err := transport.FetchAssignment(ctx, a.ID)
		if err != nil {
			t.Fatalf("FetchAssignment failed: %v", err)
		}
		if got.ID != a.ID || !reflect.DeepEqual(got.Problems, []string{"P1", "P2"}) {
			t.Errorf("unexpected assignment: %+v", got)
		}
	})

	t.Run("fetch missing assignment", func(t *testing.T) {
		if _, err := transport.FetchAssignment(ctx, "nope"); err == nil {
			t.Error("expected an error for a missing assignment")
		}
	})

	t.Run("write answers and submit", func(t *testing.T) {
		if err := transport.WriteAnswers(ctx, a.ID, []string{"one", "two"}, 1); err != nil {
			t.Fatalf("WriteAnswers failed: %v", err)
		}
		if err := transport.WriteSubmitted(ctx, a.ID, true); err != nil {
			t.Fatalf("WriteSubmitted failed: %v", err)
		}

		got, err := transport.FetchAssignment(ctx, a.ID)
		if err != nil {
			t.Fatalf("FetchAssignment failed: %v", err)
		}
		if !reflect.DeepEqual(got.Answers, []string{"one", "two"}) || !got.Submitted {
			t.Errorf("round-trip mismatch: answers=%v submitted=%v", got.Answers, got.Submitted)
		}
	})

	t.Run("fetch payment", func(t *testing.T) {
		until := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
		p := &models.Payment{
			ConferenceID: conf.ID,
			PayeeID:      userID,
			Ident:        "XM-1",
			Total:        500,
			Description:  "Registration fee",
			Discounts:    []models.Discount{{Amount: 100, Description: "early bird", Until: &until}},
		}
		if err := store.CreatePayment(ctx, p); err != nil {
			t.Fatalf("CreatePayment failed: %v", err)
		}

		got, err := transport.FetchPayment(ctx, p.ID)
		if err != nil {
			t.Fatalf("FetchPayment failed: %v", err)
		}
		if got.Total != 500 || len(got.Discounts) != 1 {
			t.Errorf("unexpected payment: %+v", got)
		}
		if got.Discounts[0].Until == nil || !got.Discounts[0].Until.Equal(until) {
			t.Errorf("discount cutoff = %v, want %v", got.Discounts[0].Until, until)
		}
	})
}

// TestEngineAgainstRealServer drives the full autosave path through the
// HTTP transport: edit, debounce, sequence-gated write, submit with re-fetch.
func TestEngineAgainstRealServer(t *testing.T) {
	server, store, token, userID := setupAPI(t)
	ctx := context.Background()

	conf := &models.Conference{ID: "xmun", Title: "Example MUN", Abbr: "XMUN"}
	if err := store.CreateConference(ctx, conf); err != nil {
		t.Fatalf("CreateConference failed: %v", err)
	}
	a := &models.Assignment{
		ConferenceID: conf.ID,
		Title:        "Academic test",
		Problems:     []string{"P1", "P2", "P3"},
		Deadline:     time.Now().Add(24 * time.Hour),
		AssigneeID:   userID,
	}
	if err := store.CreateAssignment(ctx, a); err != nil {
		t.Fatalf("CreateAssignment failed: %v", err)
	}

	transport := NewHTTPTransport(server.URL, token, nil)
	e := NewEngine(transport, userID, WithDebounceWindow(testWindow))

	if err := e.Load(ctx, a.ID); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := e.Draft(); !reflect.DeepEqual(got, []string{"", "", ""}) {
		t.Fatalf("Draft() = %v, want empty strings", got)
	}

	e.EditAnswer(0, "hello")
	e.EditAnswer(1, "world")

	waitFor(t, func() bool {
		stored, err := store.GetAssignment(ctx, a.ID)
		return err == nil && stored.Answers != nil && stored.Answers[0] == "hello"
	}, "autosave never reached the store")

	if err := e.Submit(ctx); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	stored, err := store.GetAssignment(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAssignment failed: %v", err)
	}
	if !stored.Submitted {
		t.Error("Submitted = false after engine submit")
	}
	if got := e.Assignment(); got == nil || !got.Submitted {
		t.Error("engine did not adopt the re-fetched submitted copy")
	}
}

// Package client is the confdesk client SDK. Its centerpiece is the answer
// sync Engine: it keeps a registrant's in-progress answers locally
// authoritative, coalesces rapid edits into debounced autosaves, and
// coordinates the final mark-complete transition.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/confdesk/confdesk/pkg/models"
)

// Transport is the wire boundary the engine talks through. Implementations
// must report failures with plain errors; the engine wraps them into
// FetchError/SyncError according to the operation.
type Transport interface {
	// FetchAssignment reads an assignment by ID.
	FetchAssignment(ctx context.Context, id string) (*models.Assignment, error)

	// WriteAnswers overwrites the full answer list. seq is the client's
	// monotonic sequence number; the server ignores writes with a stale
	// sequence, so overlapping in-flight autosaves resolve to the newest.
	WriteAnswers(ctx context.Context, id string, answers []string, seq uint64) error

	// WriteSubmitted sets the assignment's submitted flag.
	WriteSubmitted(ctx context.Context, id string, submitted bool) error

	// FetchPayment reads a payment by ID.
	FetchPayment(ctx context.Context, id string) (*models.Payment, error)
}

// Refresher is an opaque broad refresh signal consumed by unrelated parts of
// the application after a submission. The engine only awaits its completion.
type Refresher interface {
	Notify(ctx context.Context) error
}

// HTTPTransport implements Transport against the confdesk REST API.
type HTTPTransport struct {
	baseURL string
	token   string
	client  *http.Client
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a transport for the API at baseURL, sending the
// given JWT bearer token. httpClient may be nil to use http.DefaultClient.
func NewHTTPTransport(baseURL, token string, httpClient *http.Client) *HTTPTransport {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPTransport{baseURL: baseURL, token: token, client: httpClient}
}

// FetchAssignment reads an assignment by ID.
func (t *HTTPTransport) FetchAssignment(ctx context.Context, id string) (*models.Assignment, error) {
	a := &models.Assignment{}
	if err := t.do(ctx, http.MethodGet, "/api/assignment/"+id, nil, a); err != nil {
		return nil, err
	}
	return a, nil
}

// WriteAnswers overwrites the full answer list with the given sequence.
func (t *HTTPTransport) WriteAnswers(ctx context.Context, id string, answers []string, seq uint64) error {
	body := struct {
		Answers []string `json:"answers"`
		Seq     uint64   `json:"seq"`
	}{Answers: answers, Seq: seq}
	return t.do(ctx, http.MethodPut, "/api/assignment/"+id+"/answers", body, nil)
}

// WriteSubmitted sets the assignment's submitted flag.
func (t *HTTPTransport) WriteSubmitted(ctx context.Context, id string, submitted bool) error {
	body := struct {
		Submitted bool `json:"submitted"`
	}{Submitted: submitted}
	return t.do(ctx, http.MethodPut, "/api/assignment/"+id+"/submitted", body, nil)
}

// FetchPayment reads a payment by ID. Server-computed evaluation fields in
// the response are ignored; callers evaluate discounts locally via billing.
func (t *HTTPTransport) FetchPayment(ctx context.Context, id string) (*models.Payment, error) {
	p := &models.Payment{}
	if err := t.do(ctx, http.MethodGet, "/api/payment/"+id, nil, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (t *HTTPTransport) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewBuffer(encoded)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

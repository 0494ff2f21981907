package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/replyforge/replyforge/internal/api/middleware"
	"github.com/replyforge/replyforge/internal/auth"
	"github.com/replyforge/replyforge/internal/brand"
	"github.com/replyforge/replyforge/internal/events"
)

var (
	ownerID    = uuid.New()
	strangerID = uuid.New()
)

func makeChiRequest(method, path string, body []byte, params map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req, httptest.NewRecorder()
}

// asUser attaches a principal the way the gate does.
func asUser(req *http.Request, id uuid.UUID) *http.Request {
	p := &auth.Principal{ID: id.String(), Email: id.String()[:8] + "@example.com"}
	req.Header.Set(middleware.HeaderUserID, p.ID)
	req.Header.Set(middleware.HeaderUserEmail, p.Email)
	return req.WithContext(middleware.WithPrincipal(req.Context(), p))
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "failed to parse response body")
	return body
}

// --- Ownership ---

type mockOwnerLookup struct {
	owners map[uuid.UUID]uuid.UUID
	err    error
}

func (m *mockOwnerLookup) OwnerOf(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	if m.err != nil {
		return uuid.Nil, m.err
	}
	owner, ok := m.owners[id]
	if !ok {
		return uuid.Nil, brand.ErrNotFound
	}
	return owner, nil
}

// guardFor returns a guard where ownerID owns every listed brand.
func guardFor(brandIDs ...uuid.UUID) *brand.Guard {
	owners := make(map[uuid.UUID]uuid.UUID, len(brandIDs))
	for _, id := range brandIDs {
		owners[id] = ownerID
	}
	return brand.NewGuard(&mockOwnerLookup{owners: owners})
}

// --- Events ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

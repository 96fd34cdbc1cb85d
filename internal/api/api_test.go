package api

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kirvasilev/notesync/internal/entity"
	"github.com/kirvasilev/notesync/internal/testutil"
	syncuc "github.com/kirvasilev/notesync/internal/usecase/sync"
)

var baseTime = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

// testEnv wires the sync engine over an in-memory store with a
// controllable clock and returns the router.
func testEnv(t *testing.T) (*testutil.MemStore, *time.Time, http.Handler) {
	t.Helper()

	store := testutil.NewMemStore()
	now := baseTime

	engine, err := syncuc.New(syncuc.NewOptions(store, store, syncuc.WithClock(func() time.Time { return now })))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	return store, &now, NewRouter(engine)
}

func doJSON(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPushThenGet(t *testing.T) {
	_, _, router := testEnv(t)

	w := doJSON(t, router, http.MethodPost, "/api/notes", map[string]any{
		"id":        "n1",
		"title":     "Groceries",
		"note":      "milk",
		"userEmail": "a@x.com",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("push status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/notes/n1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

	var note NoteDTO
	_ = json.Unmarshal(w.Body.Bytes(), &note)
	if note.Title != "Groceries" || note.Body != "milk" {
		t.Errorf("note = %+v", note)
	}
	if note.CreatedAt != baseTime {
		t.Errorf("createdAt = %v, want %v", note.CreatedAt, baseTime)
	}
}

func TestPushWireFieldNames(t *testing.T) {
	_, _, router := testEnv(t)

	w := doJSON(t, router, http.MethodPost, "/api/notes", map[string]any{
		"id": "n1", "title": "t", "note": "body text", "userEmail": "a@x.com",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("push status = %d", w.Code)
	}

	// The body field travels as "note" on the wire.
	var raw map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &raw)
	if raw["note"] != "body text" {
		t.Errorf(`body field = %v, want under "note" key`, raw["note"])
	}
	if _, ok := raw["body"]; ok {
		t.Error(`unexpected "body" key on the wire`)
	}
}

func TestPushMissingFields(t *testing.T) {
	_, _, router := testEnv(t)

	w := doJSON(t, router, http.MethodPost, "/api/notes", map[string]any{
		"note": "no id, no title, no owner",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	for _, field := range []string{"ID", "Title", "UserEmail"} {
		if _, ok := resp.Details[field]; !ok {
			t.Errorf("missing per-field detail for %s: %+v", field, resp.Details)
		}
	}
}

func TestPushInvalidJSON(t *testing.T) {
	_, _, router := testEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/notes", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestListRequiresUserEmail(t *testing.T) {
	_, _, router := testEnv(t)

	w := doJSON(t, router, http.MethodGet, "/api/notes", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestListSinceFormats(t *testing.T) {
	_, _, router := testEnv(t)

	w := doJSON(t, router, http.MethodPost, "/api/notes", map[string]any{
		"id": "n1", "title": "t", "userEmail": "a@x.com",
		"updatedAt": baseTime.Format(time.RFC3339),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("push status = %d", w.Code)
	}

	for _, since := range []string{
		baseTime.Add(-time.Hour).Format(time.RFC3339),
		"1710068400000", // epoch millis, one hour before baseTime
	} {
		w = doJSON(t, router, http.MethodGet, "/api/notes?userEmail=a@x.com&since="+since, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("list since=%q status = %d", since, w.Code)
		}

		var notes []NoteDTO
		_ = json.Unmarshal(w.Body.Bytes(), &notes)
		if len(notes) != 1 {
			t.Errorf("since=%q returned %d notes, want 1", since, len(notes))
		}
	}

	// Malformed values must fail rather than silently widen the pull:
	// a stray year would otherwise decode as millis near 1970.
	for _, since := range []string{"yesterday", "2024", "99999999999999999"} {
		w = doJSON(t, router, http.MethodGet, "/api/notes?userEmail=a@x.com&since="+since, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("since=%q status = %d, want 400", since, w.Code)
		}
	}
}

// TestSyncScenario runs a full device catch-up: push, patch, pull the
// delta, delete, pull the tombstone.
func TestSyncScenario(t *testing.T) {
	_, now, router := testEnv(t)

	t0 := baseTime
	w := doJSON(t, router, http.MethodPost, "/api/notes", map[string]any{
		"id": "n1", "title": "Groceries", "note": "milk", "userEmail": "a@x.com",
		"createdAt": t0.Format(time.RFC3339), "updatedAt": t0.Format(time.RFC3339),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("push status = %d", w.Code)
	}

	// Patch at T1.
	t1 := t0.Add(time.Hour)
	*now = t1
	w = doJSON(t, router, http.MethodPut, "/api/notes/n1", map[string]any{"title": "Groceries v2"})
	if w.Code != http.StatusOK {
		t.Fatalf("patch status = %d, body = %s", w.Code, w.Body.String())
	}

	// Delta pull after T0 sees only the patched record.
	since := t0.Add(time.Second).Format(time.RFC3339)
	w = doJSON(t, router, http.MethodGet, "/api/notes?userEmail=a@x.com&since="+since, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("pull status = %d", w.Code)
	}
	var delta []NoteDTO
	_ = json.Unmarshal(w.Body.Bytes(), &delta)
	if len(delta) != 1 || delta[0].Title != "Groceries v2" || !delta[0].UpdatedAt.Equal(t1) {
		t.Fatalf("delta = %+v", delta)
	}

	// Delete at T2; a pull from after T1 must carry the tombstone.
	t2 := t1.Add(time.Hour)
	*now = t2
	w = doJSON(t, router, http.MethodDelete, "/api/notes/n1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}

	since = t1.Add(time.Second).Format(time.RFC3339)
	w = doJSON(t, router, http.MethodGet, "/api/notes?userEmail=a@x.com&since="+since, nil)
	_ = json.Unmarshal(w.Body.Bytes(), &delta)
	if len(delta) != 1 || !delta[0].IsDeleted {
		t.Fatalf("tombstone delta = %+v", delta)
	}
	if delta[0].DeletedAt == nil || !delta[0].DeletedAt.Equal(t2) {
		t.Errorf("deletedAt = %v, want %v", delta[0].DeletedAt, t2)
	}
}

func TestGetMissing(t *testing.T) {
	_, _, router := testEnv(t)

	w := doJSON(t, router, http.MethodGet, "/api/notes/missing-id", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeleteMissing(t *testing.T) {
	_, _, router := testEnv(t)

	w := doJSON(t, router, http.MethodDelete, "/api/notes/missing-id", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestPatchMissing(t *testing.T) {
	_, _, router := testEnv(t)

	w := doJSON(t, router, http.MethodPut, "/api/notes/missing-id", map[string]any{"title": "x"})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestStoreUnavailableMapsTo503(t *testing.T) {
	store, _, router := testEnv(t)
	store.FailNotes = entity.ErrStoreUnavailable

	w := doJSON(t, router, http.MethodGet, "/api/notes?userEmail=a@x.com", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestStreamEvents(t *testing.T) {
	_, _, router := testEnv(t)

	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/notes/events?userEmail=a@x.com")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("subscribe status = %d", resp.StatusCode)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		// Keep pushing until the reader has seen an event; the
		// subscription races with the first push.
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				doJSON(t, router, http.MethodPost, "/api/notes", map[string]any{
					"id": "n1", "title": "t", "userEmail": "a@x.com",
				})
			}
		}
	}()

	deadline := time.AfterFunc(5*time.Second, func() { resp.Body.Close() })
	defer deadline.Stop()

	scanner := bufio.NewScanner(resp.Body)
	var sawEvent bool
	for scanner.Scan() {
		line := scanner.Text()
		if line == "event: note.pushed" {
			sawEvent = true
		}
		if sawEvent && strings.HasPrefix(line, "data: ") {
			var note NoteDTO
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &note); err != nil {
				t.Fatalf("decode event data: %v", err)
			}
			if note.ID != "n1" {
				t.Errorf("event note id = %q", note.ID)
			}
			return
		}
	}

	t.Fatal("no note.pushed event observed")
}

func TestStreamEventsRequiresUserEmail(t *testing.T) {
	_, _, router := testEnv(t)

	w := doJSON(t, router, http.MethodGet, "/api/notes/events", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

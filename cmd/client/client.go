// Demo sync client: pushes a few notes, patches and deletes one, then
// pulls the delta from a checkpoint the way a real device catches up.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/kirvasilev/notesync/pkg/logger/slogx"
)

const (
	baseURL   = "http://127.0.0.1:8081/api/notes"
	userEmail = "demo@notesync.local"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %v", err)
	}
}

func run() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*60)
	defer cancel()

	if err := slogx.InitGlobal(os.Stdout, "info", true); err != nil {
		return fmt.Errorf("init logger: %v", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}

	checkpoint := time.Now().UTC()

	ids := make([]string, 0, 3)
	for _, title := range []string{"groceries", "ideas", "travel"} {
		id := uuid.NewString()
		ids = append(ids, id)

		if err := push(ctx, client, map[string]any{
			"id":        id,
			"title":     title,
			"note":      "initial body of " + title,
			"userEmail": userEmail,
		}); err != nil {
			return err
		}
	}

	if err := patch(ctx, client, ids[0], "groceries v2"); err != nil {
		return err
	}

	if err := remove(ctx, client, ids[1]); err != nil {
		return err
	}

	return pull(ctx, client, checkpoint)
}

func push(ctx context.Context, client *http.Client, note map[string]any) error {
	body, err := json.Marshal(note)
	if err != nil {
		return err
	}

	if _, err := do(ctx, client, http.MethodPost, baseURL, body); err != nil {
		return fmt.Errorf("push note: %v", err)
	}

	slogx.Info(ctx, "pushed note", slog.String("id", note["id"].(string)))

	return nil
}

func patch(ctx context.Context, client *http.Client, id, title string) error {
	body, err := json.Marshal(map[string]any{"title": title})
	if err != nil {
		return err
	}

	if _, err := do(ctx, client, http.MethodPut, baseURL+"/"+id, body); err != nil {
		return fmt.Errorf("patch note: %v", err)
	}

	slogx.Info(ctx, "patched note", slog.String("id", id))

	return nil
}

func remove(ctx context.Context, client *http.Client, id string) error {
	if _, err := do(ctx, client, http.MethodDelete, baseURL+"/"+id, nil); err != nil {
		return fmt.Errorf("remove note: %v", err)
	}

	slogx.Info(ctx, "removed note", slog.String("id", id))

	return nil
}

func pull(ctx context.Context, client *http.Client, since time.Time) error {
	q := url.Values{}
	q.Set("userEmail", userEmail)
	q.Set("since", since.Format(time.RFC3339Nano))

	raw, err := do(ctx, client, http.MethodGet, baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("pull notes: %v", err)
	}

	var delta []struct {
		ID        string    `json:"id"`
		Title     string    `json:"title"`
		UpdatedAt time.Time `json:"updatedAt"`
		IsDeleted bool      `json:"isDeleted"`
	}
	if err := json.Unmarshal(raw, &delta); err != nil {
		return fmt.Errorf("decode delta: %v", err)
	}

	for _, n := range delta {
		slogx.Info(ctx, "delta record",
			slog.String("id", n.ID),
			slog.String("title", n.Title),
			slog.Time("updated_at", n.UpdatedAt),
			slog.Bool("is_deleted", n.IsDeleted),
		)
	}

	return nil
}

func do(ctx context.Context, client *http.Client, method, url string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, raw)
	}

	return raw, nil
}

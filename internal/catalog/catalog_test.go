package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"gridwatch/internal/crudclient"
)

func TestStreamsRefreshesAfterTTL(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"streams": []map[string]any{{"id": n, "name": "cam", "rtsp_url": "rtsp://x", "sops": []any{}}},
		})
	}))
	defer srv.Close()

	client := crudclient.New(srv.URL)
	cat := New(client, 20*time.Millisecond)

	first := cat.Streams()
	if len(first) != 1 || first[0].ID != 1 {
		t.Fatalf("unexpected first fetch: %+v", first)
	}

	second := cat.Streams()
	if second[0].ID != 1 {
		t.Fatalf("expected cached result before TTL elapses, got %+v", second)
	}

	time.Sleep(30 * time.Millisecond)
	third := cat.Streams()
	if third[0].ID != 2 {
		t.Fatalf("expected refreshed result after TTL elapses, got %+v", third)
	}
}

func TestStreamsFailsSoftOnError(t *testing.T) {
	up := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !up {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"streams": []map[string]any{{"id": 1, "name": "cam", "rtsp_url": "rtsp://x", "sops": []any{}}},
		})
	}))
	defer srv.Close()

	client := crudclient.New(srv.URL)
	cat := New(client, time.Millisecond)

	first := cat.Streams()
	if len(first) != 1 {
		t.Fatalf("expected initial successful fetch, got %+v", first)
	}

	up = false
	time.Sleep(5 * time.Millisecond)
	second := cat.Streams()
	if len(second) != 1 || second[0].ID != 1 {
		t.Fatalf("expected stale cache on refresh failure, got %+v", second)
	}
}

package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yourusername/nfw/delegate"
	"github.com/yourusername/nfw/metrics"
	"github.com/yourusername/nfw/store"
)

func newTestDelegate(t *testing.T, namespace string) *delegate.Delegate {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bs := store.NewBucketStore(store.NewMemoryStore(), store.WithLogger(logger))

	d, err := delegate.New(bs, delegate.WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	if namespace != "" {
		if err := d.SetNamespace(namespace); err != nil {
			t.Fatal(err)
		}
	}
	return d
}

func newTestMux(d *delegate.Delegate) *http.ServeMux {
	mux := http.NewServeMux()
	NewHandler(d).Register(mux)
	return mux
}

func TestGetBucket_ReturnsWholeBucket(t *testing.T) {
	d := newTestDelegate(t, "myapp")
	d.SetState("TextInput", map[string]string{"currentValue": "hello"})
	d.SetState("Button1", map[string]int{"clicks": 2})

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	w := httptest.NewRecorder()
	newTestMux(d).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp BucketResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}

	if resp.Namespace != "myapp" {
		t.Errorf("Namespace = %s, want myapp", resp.Namespace)
	}
	if len(resp.Topics) != 2 || resp.Topics[0] != "Button1" || resp.Topics[1] != "TextInput" {
		t.Errorf("Topics = %v, want [Button1 TextInput]", resp.Topics)
	}

	var input struct {
		CurrentValue string `json:"currentValue"`
	}
	if err := resp.State.Decode("TextInput", &input); err != nil {
		t.Fatal(err)
	}
	if input.CurrentValue != "hello" {
		t.Errorf("currentValue = %q, want hello", input.CurrentValue)
	}
}

func TestGetTopic(t *testing.T) {
	d := newTestDelegate(t, "myapp")
	d.SetState("TextInput", map[string]string{"currentValue": "hello"})
	mux := newTestMux(d)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantError  string
	}{
		{"known topic", http.MethodGet, "/state/TextInput", http.StatusOK, ""},
		{"unknown topic", http.MethodGet, "/state/Nope", http.StatusNotFound, "unknown_topic"},
		{"missing topic", http.MethodGet, "/state/", http.StatusBadRequest, "missing_topic"},
		{"wrong method", http.MethodPost, "/state/TextInput", http.StatusMethodNotAllowed, "method_not_allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("Status = %d, want %d", w.Code, tt.wantStatus)
			}

			if tt.wantError != "" {
				var resp ErrorResponse
				json.NewDecoder(w.Body).Decode(&resp)
				if resp.Error != tt.wantError {
					t.Errorf("Error = %s, want %s", resp.Error, tt.wantError)
				}
				return
			}

			var resp TopicResponse
			json.NewDecoder(w.Body).Decode(&resp)
			if resp.Topic != "TextInput" {
				t.Errorf("Topic = %s, want TextInput", resp.Topic)
			}
			if string(resp.State) != `{"currentValue":"hello"}` {
				t.Errorf("State = %s", resp.State)
			}
		})
	}
}

func TestGetBucket_NoNamespace(t *testing.T) {
	d := newTestDelegate(t, "")

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	w := httptest.NewRecorder()
	newTestMux(d).ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestMetricsHandler(t *testing.T) {
	m := metrics.NewMetrics()
	m.RecordWrite("TextInput")
	handler := NewMetricsHandler(m)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var snap metrics.Snapshot
	json.NewDecoder(w.Body).Decode(&snap)
	if snap.Writes != 1 {
		t.Errorf("Writes = %d, want 1", snap.Writes)
	}

	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", got)
	}
}

func TestMetricsHandler_RejectsWrites(t *testing.T) {
	handler := NewMetricsHandler(metrics.NewMetrics())

	for _, method := range []string{http.MethodPost, http.MethodDelete, http.MethodPut} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/metrics", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Fatalf("Status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
			}
			if got := w.Header().Get("Allow"); got != http.MethodGet {
				t.Errorf("Allow = %q, want GET", got)
			}

			var resp ErrorResponse
			json.NewDecoder(w.Body).Decode(&resp)
			if resp.Error != "method_not_allowed" {
				t.Errorf("Error = %s, want method_not_allowed", resp.Error)
			}
		})
	}
}

func TestHealthHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	HealthHandler("test")(w, req)

	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["status"] != "healthy" || body["version"] != "test" {
		t.Errorf("body = %v", body)
	}
}

func TestBucketReader_DoesNotReset(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	kv := store.NewMemoryStore()
	bs := store.NewBucketStore(kv, store.WithLogger(logger))

	writer, err := delegate.New(bs, delegate.WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	if err := writer.SetNamespace("shared"); err != nil {
		t.Fatal(err)
	}
	writer.SetState("Button1", map[string]int64{"lastClickTimestamp": 42})

	reader := NewBucketReader(context.Background(), store.NewBucketStore(kv, store.WithLogger(logger)), "shared")
	mux := http.NewServeMux()
	NewHandler(reader).Register(mux)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/state/Button1", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}
	}

	if !writer.GetStateBucket().Has("Button1") {
		t.Error("inspecting should not reset the bucket")
	}
}

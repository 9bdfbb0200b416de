package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/yourusername/nfw/core"
)

// StateReader is the read side of a delegate
type StateReader interface {
	Namespace() string
	GetStateBucket() core.Bucket
}

// Handler serves read-only views of a namespace's state bucket
type Handler struct {
	state StateReader
}

// NewHandler creates a new API handler
func NewHandler(state StateReader) *Handler {
	return &Handler{state: state}
}

// BucketResponse is the whole state bucket of a namespace
type BucketResponse struct {
	Namespace string      `json:"namespace"`
	Topics    []string    `json:"topics"`
	State     core.Bucket `json:"state"`
}

// TopicResponse is the state of a single topic
type TopicResponse struct {
	Namespace string          `json:"namespace"`
	Topic     string          `json:"topic"`
	State     json.RawMessage `json:"state"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Register mounts the state routes on mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/state", h.GetBucket)
	mux.HandleFunc("/state/", h.GetTopic)
}

// GetBucket handles GET /state requests
func (h *Handler) GetBucket(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Only GET requests are allowed")
		return
	}

	namespace := h.state.Namespace()
	if namespace == "" {
		h.sendError(w, http.StatusServiceUnavailable, "no_namespace", "No namespace has been selected")
		return
	}

	bucket := h.state.GetStateBucket()
	h.sendJSON(w, http.StatusOK, BucketResponse{
		Namespace: namespace,
		Topics:    bucket.Topics(),
		State:     bucket,
	})
}

// GetTopic handles GET /state/{topic} requests
func (h *Handler) GetTopic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.sendError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Only GET requests are allowed")
		return
	}

	topic := strings.TrimPrefix(r.URL.Path, "/state/")
	if topic == "" {
		h.sendError(w, http.StatusBadRequest, "missing_topic", "topic is required")
		return
	}

	namespace := h.state.Namespace()
	if namespace == "" {
		h.sendError(w, http.StatusServiceUnavailable, "no_namespace", "No namespace has been selected")
		return
	}

	bucket := h.state.GetStateBucket()
	if !bucket.Has(topic) {
		h.sendError(w, http.StatusNotFound, "unknown_topic", "No state for topic "+topic)
		return
	}

	h.sendJSON(w, http.StatusOK, TopicResponse{
		Namespace: namespace,
		Topic:     topic,
		State:     bucket.Get(topic),
	})
}

func (h *Handler) sendJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) sendError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	h.sendJSON(w, statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// HealthHandler handles GET /health requests
func HealthHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "healthy",
			"service": "nfw",
			"version": version,
		})
	}
}

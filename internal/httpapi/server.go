package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/chatloom/chatloom/internal"
	"github.com/chatloom/chatloom/internal/llm"
)

// Server exposes the session controller to the presentation layer over a
// small JSON API. Replies can be delivered whole or streamed as
// server-sent events; only plain data crosses the boundary.
type Server struct {
	ctrl *internal.Controller
}

// NewServer creates a Server around a controller
func NewServer(ctrl *internal.Controller) *Server {
	return &Server{ctrl: ctrl}
}

// Handler returns the route table for the API
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/conversations", s.handleCreate)
	mux.HandleFunc("GET /api/conversations", s.handleList)
	mux.HandleFunc("GET /api/conversations/{id}", s.handleSelect)
	mux.HandleFunc("DELETE /api/conversations/{id}", s.handleDelete)
	mux.HandleFunc("POST /api/conversations/{id}/messages", s.handleSubmit)
	return mux
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	id := s.ctrl.NewConversation()
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	threads, err := s.ctrl.ListThreads(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if threads == nil {
		threads = []internal.Thread{}
	}
	writeJSON(w, http.StatusOK, threads)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	conv, err := s.ctrl.Conversation(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.DeleteConversation(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	// Idempotent: deleting an unknown conversation is also a success.
	w.WriteHeader(http.StatusNoContent)
}

type submitRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "content must not be empty"})
		return
	}

	if wantsEventStream(r) {
		s.streamReply(w, r, id, req.Content)
		return
	}

	reply, err := s.ctrl.SubmitTurn(r.Context(), id, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// streamReply delivers the assistant reply as server-sent events: one
// "delta" event per chunk, a final "done" event with the full reply, or an
// "error" event if the inference call fails mid-stream.
func (s *Server) streamReply(w http.ResponseWriter, r *http.Request, id, content string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	reply, err := s.ctrl.StreamTurn(r.Context(), id, content, func(chunk string) error {
		if err := writeEvent(w, "delta", map[string]string{"text": chunk}); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		// Headers are already sent; report the failure in-band.
		log.Warn().Err(err).Str("thread_id", id).Msg("streaming turn failed")
		_ = writeEvent(w, "error", map[string]string{"error": err.Error()})
		flusher.Flush()
		return
	}

	_ = writeEvent(w, "done", map[string]string{"reply": reply})
	flusher.Flush()
}

func wantsEventStream(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/event-stream")
}

func writeEvent(w http.ResponseWriter, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

// writeError maps core failures onto HTTP statuses: rate limiting to 429,
// other provider failures to 502, storage failures to 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case llm.IsRateLimited(err):
		status = http.StatusTooManyRequests
	case llm.IsProviderError(err):
		status = http.StatusBadGateway
	case internal.IsStorageError(err):
		status = http.StatusInternalServerError
	}
	log.Error().Err(err).Int("status", status).Msg("request failed")
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

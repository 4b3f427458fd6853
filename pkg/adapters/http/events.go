package http

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// SubscribeEvents handles the GET /events request (SSE). Every pose event
// published after the subscription is written as a "pose" event.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	ch, cancel := s.events.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.logger.Info("SSE: Client subscribed")

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: Client disconnected")
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				s.logger.Error("SSE: Failed to encode pose event", "err", err)
				continue
			}
			fmt.Fprintf(w, "id: %d\nevent: pose\ndata: %s\n\n", event.Revision, data)
			flusher.Flush()
		}
	}
}

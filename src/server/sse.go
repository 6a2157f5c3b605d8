package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/vybelabs/vybe/src/executor"
)

// sseSink streams turn events to an HTTP response as server-sent events.
// Each event is written as "event: <type>" plus a JSON data line. Send is
// safe for concurrent use; writes after Close are dropped.
type sseSink struct {
	mu      sync.Mutex
	writer  http.ResponseWriter
	flusher http.Flusher
	closed  bool
}

func newSSESink(w http.ResponseWriter) (*sseSink, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support streaming")
	}

	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &sseSink{writer: w, flusher: flusher}, nil
}

func (s *sseSink) Send(event executor.TurnEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if _, err := fmt.Fprintf(s.writer, "event: %s\ndata: %s\n\n", event.GetType(), data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

func (s *sseSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

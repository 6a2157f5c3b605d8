package llmclient

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/vybelabs/vybe/src/aisdk"
)

var _ aisdk.StreamInterface = (*sseStream)(nil)

// sseStream decodes server-sent events from a streaming completion response.
// Each "data:" event carries one JSON chunk; the "[DONE]" sentinel ends the
// stream.
type sseStream struct {
	body   io.ReadCloser
	reader *bufio.Reader
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

func newSSEStream(body io.ReadCloser, logger *slog.Logger) *sseStream {
	return &sseStream{
		body:   body,
		reader: bufio.NewReader(body),
		logger: logger,
	}
}

// Read returns the next chunk, or io.EOF once the stream is complete.
func (s *sseStream) Read() (*aisdk.StreamChunk, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrStreamClosed
	}
	s.mu.Unlock()

	for {
		data, err := s.nextEvent()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("failed to read stream: %w", err)
		}

		if data == "" {
			continue
		}
		if data == "[DONE]" {
			return nil, io.EOF
		}

		var chunk aisdk.StreamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			s.logger.Warn("skipping undecodable stream chunk", "error", err)
			continue
		}
		return &chunk, nil
	}
}

// nextEvent reads lines until a blank line terminates the event, joining the
// event's data lines. Comment lines and event names are skipped.
func (s *sseStream) nextEvent() (string, error) {
	var dataLines []string

	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && len(dataLines) > 0 {
				return strings.Join(dataLines, "\n"), nil
			}
			return "", err
		}
		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			if len(dataLines) == 0 {
				continue
			}
			return strings.Join(dataLines, "\n"), nil
		}

		if strings.HasPrefix(line, ":") {
			continue
		}

		if strings.HasPrefix(line, "data:") {
			dataLines = append(dataLines, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}
}

// Close closes the underlying response body. Safe to call more than once.
func (s *sseStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}

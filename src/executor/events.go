package executor

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vybelabs/vybe/src/aisdk"
)

// EventType identifies a turn event on the wire.
type EventType string

const (
	EventTextDelta  EventType = "text-delta"
	EventToolCall   EventType = "tool-call"
	EventToolResult EventType = "tool-result"
	EventStepFinish EventType = "step-finish"
	EventFinish     EventType = "finish"
	EventError      EventType = "error"
)

// TurnEvent is the base interface for all events emitted during a turn.
type TurnEvent interface {
	GetType() EventType
	GetTimestamp() time.Time
	GetConversationID() string
	GetStepNumber() int
}

// BaseEvent contains common fields for all events.
type BaseEvent struct {
	Type           EventType `json:"type"`
	Timestamp      time.Time `json:"timestamp"`
	ConversationID string    `json:"conversation_id"`
	StepNumber     int       `json:"step_number"`
}

func (e BaseEvent) GetType() EventType        { return e.Type }
func (e BaseEvent) GetTimestamp() time.Time   { return e.Timestamp }
func (e BaseEvent) GetConversationID() string { return e.ConversationID }
func (e BaseEvent) GetStepNumber() int        { return e.StepNumber }

// TextDeltaEvent carries an incremental fragment of assistant text.
type TextDeltaEvent struct {
	BaseEvent
	Delta string `json:"delta"`
}

// ToolCallEvent announces a tool call about to be dispatched.
type ToolCallEvent struct {
	BaseEvent
	ToolCall aisdk.ToolCall `json:"tool_call"`
}

// ToolResultEvent carries the outcome of one dispatched tool call.
type ToolResultEvent struct {
	BaseEvent
	ToolCallID string          `json:"tool_call_id"`
	ToolName   string          `json:"tool_name"`
	Result     json.RawMessage `json:"result"`
	IsError    bool            `json:"is_error"`
	Duration   time.Duration   `json:"duration"`
}

// StepFinishEvent marks the end of one model step within a turn.
type StepFinishEvent struct {
	BaseEvent
	FinishReason string `json:"finish_reason"`
}

// FinishEvent marks the end of the whole turn.
type FinishEvent struct {
	BaseEvent
	FinishReason string `json:"finish_reason"`
	Steps        int    `json:"steps"`
}

// ErrorEvent reports an error during the turn.
type ErrorEvent struct {
	BaseEvent
	Error   string `json:"error"`
	Context string `json:"context"`
}

// EventSink receives turn events. Implementations decide delivery (SSE
// writer, buffered channel, test recorder).
type EventSink interface {
	Send(event TurnEvent) error
	Close() error
}

// EventProcessor handles events drained from a ChannelEventSink.
type EventProcessor interface {
	Process(event TurnEvent) error
	Close() error
}

// ChannelEventSink implements EventSink with a buffered channel drained by a
// background goroutine.
type ChannelEventSink struct {
	events     chan TurnEvent
	processors []EventProcessor
	done       chan struct{}
}

// NewChannelEventSink creates a channel-based event sink.
func NewChannelEventSink(bufferSize int, processors ...EventProcessor) *ChannelEventSink {
	sink := &ChannelEventSink{
		events:     make(chan TurnEvent, bufferSize),
		processors: processors,
		done:       make(chan struct{}),
	}
	go sink.processEvents()
	return sink
}

// Send delivers an event to the sink.
func (s *ChannelEventSink) Send(event TurnEvent) error {
	select {
	case s.events <- event:
		return nil
	case <-s.done:
		return fmt.Errorf("event sink is closed")
	}
}

// Close drains remaining events and closes all processors.
func (s *ChannelEventSink) Close() error {
	close(s.events)
	<-s.done

	var firstErr error
	for _, p := range s.processors {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *ChannelEventSink) processEvents() {
	defer close(s.done)
	for event := range s.events {
		for _, processor := range s.processors {
			_ = processor.Process(event)
		}
	}
}

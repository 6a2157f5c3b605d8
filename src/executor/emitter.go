package executor

import (
	"encoding/json"
	"time"

	"github.com/vybelabs/vybe/src/aisdk"
)

// EventEmitter stamps events with common fields before sending. A nil sink
// makes every Emit a no-op so callers need no guards.
type EventEmitter struct {
	sink           EventSink
	conversationID string
	stepNumber     int
}

// NewEventEmitter creates an emitter for a turn.
func NewEventEmitter(sink EventSink, conversationID string) *EventEmitter {
	return &EventEmitter{sink: sink, conversationID: conversationID}
}

// SetStep updates the step number stamped on subsequent events.
func (e *EventEmitter) SetStep(step int) {
	e.stepNumber = step
}

func (e *EventEmitter) base(eventType EventType) BaseEvent {
	return BaseEvent{
		Type:           eventType,
		Timestamp:      time.Now(),
		ConversationID: e.conversationID,
		StepNumber:     e.stepNumber,
	}
}

// EmitTextDelta emits an incremental assistant text fragment.
func (e *EventEmitter) EmitTextDelta(delta string) error {
	if e.sink == nil || delta == "" {
		return nil
	}
	return e.sink.Send(&TextDeltaEvent{BaseEvent: e.base(EventTextDelta), Delta: delta})
}

// EmitToolCall emits a tool call about to be dispatched.
func (e *EventEmitter) EmitToolCall(call aisdk.ToolCall) error {
	if e.sink == nil {
		return nil
	}
	return e.sink.Send(&ToolCallEvent{BaseEvent: e.base(EventToolCall), ToolCall: call})
}

// EmitToolResult emits the outcome of one tool call.
func (e *EventEmitter) EmitToolResult(callID, toolName string, result json.RawMessage, isError bool, duration time.Duration) error {
	if e.sink == nil {
		return nil
	}
	return e.sink.Send(&ToolResultEvent{
		BaseEvent:  e.base(EventToolResult),
		ToolCallID: callID,
		ToolName:   toolName,
		Result:     result,
		IsError:    isError,
		Duration:   duration,
	})
}

// EmitStepFinish emits the end of one model step.
func (e *EventEmitter) EmitStepFinish(finishReason string) error {
	if e.sink == nil {
		return nil
	}
	return e.sink.Send(&StepFinishEvent{BaseEvent: e.base(EventStepFinish), FinishReason: finishReason})
}

// EmitFinish emits the end of the turn.
func (e *EventEmitter) EmitFinish(finishReason string, steps int) error {
	if e.sink == nil {
		return nil
	}
	return e.sink.Send(&FinishEvent{BaseEvent: e.base(EventFinish), FinishReason: finishReason, Steps: steps})
}

// EmitError emits an error with the location it occurred.
func (e *EventEmitter) EmitError(err error, context string) error {
	if e.sink == nil {
		return nil
	}
	return e.sink.Send(&ErrorEvent{BaseEvent: e.base(EventError), Error: err.Error(), Context: context})
}

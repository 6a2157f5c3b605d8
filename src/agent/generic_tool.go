package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	jsonschema "github.com/swaggest/jsonschema-go"

	"github.com/vybelabs/vybe/src/aisdk"
)

// GenericToolHandler executes a tool with a typed input.
type GenericToolHandler[TInput any, TOutput any] func(ctx context.Context, input TInput) (TOutput, error)

// GenericTool adapts a typed handler into a Tool. The parameter schema is
// reflected from TInput's struct tags; argument validation is a JSON
// decode plus a required-field check against the schema.
type GenericTool[TInput any, TOutput any] struct {
	name        string
	description string
	schema      *jsonschema.Schema
	handler     GenericToolHandler[TInput, TOutput]
}

// NewGenericTool builds a tool from a typed handler. TInput and TOutput
// must be structs (or pointers to structs).
func NewGenericTool[TInput any, TOutput any](name, description string, handler GenericToolHandler[TInput, TOutput]) (*GenericTool[TInput, TOutput], error) {
	var input TInput
	if err := mustBeStruct(reflect.TypeOf(input), "input"); err != nil {
		return nil, err
	}
	var output TOutput
	if err := mustBeStruct(reflect.TypeOf(output), "output"); err != nil {
		return nil, err
	}

	reflector := jsonschema.Reflector{}
	schema, err := reflector.Reflect(input)
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema for %s: %w", name, err)
	}

	return &GenericTool[TInput, TOutput]{
		name:        name,
		description: description,
		schema:      &schema,
		handler:     handler,
	}, nil
}

func mustBeStruct(typ reflect.Type, kind string) error {
	if typ == nil {
		return fmt.Errorf("tool %s type cannot be an interface", kind)
	}
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return fmt.Errorf("tool %s type must be a struct, got %s", kind, typ.Kind())
	}
	return nil
}

func (gt *GenericTool[TInput, TOutput]) Name() string                  { return gt.name }
func (gt *GenericTool[TInput, TOutput]) Description() string           { return gt.description }
func (gt *GenericTool[TInput, TOutput]) Parameters() *jsonschema.Schema { return gt.schema }

// CheckArgs decodes the raw arguments into TInput and verifies every
// schema-required field is present and non-zero.
func (gt *GenericTool[TInput, TOutput]) CheckArgs(args json.RawMessage) error {
	var input TInput
	decoder := json.NewDecoder(strings.NewReader(string(args)))
	if err := decoder.Decode(&input); err != nil {
		return fmt.Errorf("failed to parse arguments: %w", err)
	}
	return gt.checkRequired(input)
}

func (gt *GenericTool[TInput, TOutput]) checkRequired(input TInput) error {
	if gt.schema == nil || len(gt.schema.Required) == 0 {
		return nil
	}

	val := reflect.ValueOf(input)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	typ := val.Type()

	for _, required := range gt.schema.Required {
		found := false
		for i := 0; i < typ.NumField(); i++ {
			jsonTag := typ.Field(i).Tag.Get("json")
			fieldName := strings.Split(jsonTag, ",")[0]
			if fieldName != required {
				continue
			}
			found = true
			if val.Field(i).IsZero() {
				return fmt.Errorf("required field %q is missing", required)
			}
			break
		}
		if !found {
			return fmt.Errorf("required field %q not found in input struct", required)
		}
	}
	return nil
}

// Execute parses the arguments and runs the handler. Failures become error
// payloads on the response so the conversation can continue.
func (gt *GenericTool[TInput, TOutput]) Execute(ctx context.Context, call *aisdk.ToolCall) (*aisdk.ToolResponse, error) {
	var input TInput
	if err := json.Unmarshal(call.Function.Arguments, &input); err != nil {
		return errorResponse(fmt.Sprintf("failed to parse arguments: %v", err)), nil
	}
	if err := gt.checkRequired(input); err != nil {
		return errorResponse(err.Error()), nil
	}

	output, err := gt.handler(ctx, input)
	if err != nil {
		return errorResponse(err.Error()), nil
	}

	content, err := json.Marshal(output)
	if err != nil {
		return errorResponse(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return &aisdk.ToolResponse{Content: content}, nil
}

func errorResponse(message string) *aisdk.ToolResponse {
	payload, _ := json.Marshal(map[string]string{"error": message})
	return &aisdk.ToolResponse{Content: payload, IsError: true}
}

var _ Tool = (*GenericTool[struct{}, struct{}])(nil)

package executor

import "errors"

var (
	// Config validation errors
	ErrProviderRequired = errors.New("model provider is required")
	ErrDatabaseRequired = errors.New("database is required")

	// Request validation errors
	ErrUserMessageRequired    = errors.New("a user message is required")
	ErrConversationIDRequired = errors.New("conversation id is required")

	// Execution errors
	ErrConversationNotFound = errors.New("conversation not found")
)

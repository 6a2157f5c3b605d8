package storage

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"

	"github.com/vybelabs/vybe/src/aisdk"
)

// GetMessagesByConversationID returns all messages of a conversation in
// creation order.
func GetMessagesByConversationID(ctx context.Context, db sqlscan.Querier, conversationID string) ([]Message, error) {
	query := `SELECT id, conversation_id, role, content, created_at FROM messages
		WHERE conversation_id = ? ORDER BY created_at, id`
	var messages []Message
	if err := sqlscan.Select(ctx, db, &messages, query, conversationID); err != nil {
		return nil, err
	}
	return messages, nil
}

// CreateMessage inserts a single message.
func CreateMessage(ctx context.Context, db Execer, message *Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO messages (id, conversation_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		message.ID, message.ConversationID, message.Role, message.Content, message.CreatedAt)
	return err
}

// CreateMessages inserts a batch of messages, preserving slice order via
// strictly increasing timestamps when callers did not set them.
func CreateMessages(ctx context.Context, db Execer, messages []*Message) error {
	base := time.Now().UTC()
	for i, message := range messages {
		if message.CreatedAt.IsZero() {
			message.CreatedAt = base.Add(time.Duration(i) * time.Microsecond)
		}
		if err := CreateMessage(ctx, db, message); err != nil {
			return err
		}
	}
	return nil
}

// ToRecord decodes the message's content tree into the part-based record
// shape used by the normalizer and sanitizer.
func (m Message) ToRecord() (aisdk.Record, error) {
	parts, err := aisdk.DecodeContent([]byte(m.Content))
	if err != nil {
		return aisdk.Record{}, err
	}
	return aisdk.Record{
		ID:        m.ID,
		Role:      m.Role,
		Parts:     parts,
		CreatedAt: m.CreatedAt,
	}, nil
}

// FromRecord encodes a record back into a persistable message.
func FromRecord(conversationID string, rec aisdk.Record) (*Message, error) {
	content, err := aisdk.EncodeContent(rec.Parts)
	if err != nil {
		return nil, err
	}
	return &Message{
		ID:             rec.ID,
		ConversationID: conversationID,
		Role:           rec.Role,
		Content:        string(content),
		CreatedAt:      rec.CreatedAt,
	}, nil
}

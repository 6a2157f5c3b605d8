package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a conversation does not exist or is not
	// visible to the caller.
	ErrNotFound = errors.New("conversation not found")
)

// GetConversationByID retrieves a conversation, or nil when absent.
func GetConversationByID(ctx context.Context, db sqlscan.Querier, conversationID string) (*Conversation, error) {
	query := `SELECT id, owner_id, title, visibility, created_at, updated_at FROM conversations WHERE id = ?`
	var conv Conversation
	err := sqlscan.Get(ctx, db, &conv, query, conversationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

// CreateConversation inserts a conversation. Creation is exactly-once per
// id: an insert against an existing id is a no-op, never a second row.
func CreateConversation(ctx context.Context, db Execer, conversation *Conversation) error {
	if conversation.ID == "" {
		conversation.ID = uuid.New().String()
	}
	if conversation.Visibility == "" {
		conversation.Visibility = VisibilityPrivate
	}
	now := time.Now().UTC()
	if conversation.CreatedAt.IsZero() {
		conversation.CreatedAt = now
	}
	if conversation.UpdatedAt.IsZero() {
		conversation.UpdatedAt = now
	}

	query := `INSERT INTO conversations (id, owner_id, title, visibility, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`
	_, err := db.ExecContext(ctx, query,
		conversation.ID, conversation.OwnerID, conversation.Title,
		conversation.Visibility, conversation.CreatedAt, conversation.UpdatedAt)
	return err
}

// ListConversationsByOwner returns the owner's conversations, newest first.
func ListConversationsByOwner(ctx context.Context, db sqlscan.Querier, ownerID string) ([]Conversation, error) {
	query := `SELECT id, owner_id, title, visibility, created_at, updated_at FROM conversations
		WHERE owner_id = ? ORDER BY created_at DESC`
	var conversations []Conversation
	if err := sqlscan.Select(ctx, db, &conversations, query, ownerID); err != nil {
		return nil, err
	}
	return conversations, nil
}

// RenameConversation updates the title of an owner's conversation.
func RenameConversation(ctx context.Context, db Execer, conversationID, ownerID, title string) error {
	query := `UPDATE conversations SET title = ?, updated_at = ? WHERE id = ? AND owner_id = ?`
	res, err := db.ExecContext(ctx, query, title, time.Now().UTC(), conversationID, ownerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteConversation removes a conversation and all its messages in a
// single transaction, so a failure leaves no orphaned rows. Only the owner
// may delete.
func DeleteConversation(ctx context.Context, db *sql.DB, conversationID, ownerID string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM conversations WHERE id = ? AND owner_id = ?`, conversationID, ownerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM messages WHERE conversation_id = ?`, conversationID); err != nil {
		return err
	}

	return tx.Commit()
}

package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybelabs/vybe/src/aisdk"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreateConversationExactlyOnce(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	conv := &Conversation{ID: "conv-1", OwnerID: "user-1", Title: "Swap 1 SOL for USDC"}
	require.NoError(t, CreateConversation(ctx, db.DB(), conv))

	// A second create for the same id must not produce a second row or
	// overwrite the first.
	dupe := &Conversation{ID: "conv-1", OwnerID: "user-2", Title: "other"}
	require.NoError(t, CreateConversation(ctx, db.DB(), dupe))

	var count int
	require.NoError(t, db.DB().QueryRow(
		"SELECT COUNT(*) FROM conversations WHERE id = ?", "conv-1").Scan(&count))
	assert.Equal(t, 1, count)

	got, err := GetConversationByID(ctx, db.DB(), "conv-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "user-1", got.OwnerID)
	assert.Equal(t, VisibilityPrivate, got.Visibility)
}

func TestDeleteConversationCascades(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	conv := &Conversation{ID: "conv-1", OwnerID: "user-1", Title: "t"}
	require.NoError(t, CreateConversation(ctx, db.DB(), conv))
	require.NoError(t, CreateMessages(ctx, db.DB(), []*Message{
		{ConversationID: "conv-1", Role: "user", Content: `"hello"`},
		{ConversationID: "conv-1", Role: "assistant", Content: `[{"type":"text","text":"hi"}]`},
	}))

	require.NoError(t, DeleteConversation(ctx, db.DB(), "conv-1", "user-1"))

	got, err := GetConversationByID(ctx, db.DB(), "conv-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	messages, err := GetMessagesByConversationID(ctx, db.DB(), "conv-1")
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestDeleteConversationChecksOwner(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, CreateConversation(ctx, db.DB(), &Conversation{ID: "conv-1", OwnerID: "user-1", Title: "t"}))

	err := DeleteConversation(ctx, db.DB(), "conv-1", "someone-else")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := GetConversationByID(ctx, db.DB(), "conv-1")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestRenameConversation(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, CreateConversation(ctx, db.DB(), &Conversation{ID: "conv-1", OwnerID: "user-1", Title: "old"}))
	require.NoError(t, RenameConversation(ctx, db.DB(), "conv-1", "user-1", "new title"))

	got, err := GetConversationByID(ctx, db.DB(), "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "new title", got.Title)

	assert.ErrorIs(t, RenameConversation(ctx, db.DB(), "missing", "user-1", "x"), ErrNotFound)
}

func TestListConversationsByOwnerNewestFirst(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, CreateConversation(ctx, db.DB(), &Conversation{ID: id, OwnerID: "user-1", Title: id}))
	}
	require.NoError(t, CreateConversation(ctx, db.DB(), &Conversation{ID: "other", OwnerID: "user-2", Title: "other"}))

	conversations, err := ListConversationsByOwner(ctx, db.DB(), "user-1")
	require.NoError(t, err)
	require.Len(t, conversations, 3)
	for i := 1; i < len(conversations); i++ {
		assert.False(t, conversations[i].CreatedAt.After(conversations[i-1].CreatedAt))
	}
}

func TestMessageRecordRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, CreateConversation(ctx, db.DB(), &Conversation{ID: "conv-1", OwnerID: "user-1", Title: "t"}))

	records := []aisdk.Record{
		{
			Role: "assistant",
			Parts: aisdk.Parts{
				aisdk.TextPart{Text: "Swapping now."},
				aisdk.ToolCallPart{ToolCallID: "c1", ToolName: "swapTokens", Args: []byte(`{"amount":1}`)},
			},
		},
		{
			Role: "tool",
			Parts: aisdk.Parts{
				aisdk.ToolResultPart{ToolCallID: "c1", Result: []byte(`{"success":true}`)},
			},
		},
	}

	var messages []*Message
	for _, rec := range records {
		msg, err := FromRecord("conv-1", rec)
		require.NoError(t, err)
		messages = append(messages, msg)
	}
	require.NoError(t, CreateMessages(ctx, db.DB(), messages))

	stored, err := GetMessagesByConversationID(ctx, db.DB(), "conv-1")
	require.NoError(t, err)
	require.Len(t, stored, 2)

	var loaded []aisdk.Record
	for _, msg := range stored {
		rec, err := msg.ToRecord()
		require.NoError(t, err)
		loaded = append(loaded, rec)
	}

	// Normalizing the reloaded transcript must reproduce the text and the
	// resolved tool invocation.
	chat := aisdk.Normalize(loaded)
	require.Len(t, chat, 1)
	assert.Equal(t, "Swapping now.", chat[0].Content)
	require.Len(t, chat[0].ToolInvocations, 1)
	assert.Equal(t, aisdk.InvocationStateResult, chat[0].ToolInvocations[0].State)
	assert.JSONEq(t, `{"success":true}`, string(chat[0].ToolInvocations[0].Result))
}

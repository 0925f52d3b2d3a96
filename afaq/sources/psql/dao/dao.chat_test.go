package dao

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"afaq/afaq/sources/psql/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDAO(t *testing.T) *ChatDAO {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "chat.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Chat{}, &models.ChatMessage{}))
	return NewChatDAO(db)
}

func TestChatLifecycle(t *testing.T) {
	dao := setupTestDAO(t)
	ctx := context.Background()

	_, err := dao.CreateChat(ctx, "s1", "c1", "First")
	require.NoError(t, err)

	chat, err := dao.GetChat(ctx, "s1", "c1")
	require.NoError(t, err)
	assert.Equal(t, "First", chat.Title)

	_, err = dao.GetChat(ctx, "other-session", "c1")
	assert.ErrorIs(t, err, ErrChatNotFound)

	require.NoError(t, dao.UpdateChatTitle(ctx, "c1", "Renamed"))
	chat, err = dao.GetChat(ctx, "s1", "c1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", chat.Title)
}

func TestListChatsNewestFirst(t *testing.T) {
	dao := setupTestDAO(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"old", "mid", "new"} {
		chat := models.Chat{ChatID: id, SessionID: "s1", Title: id, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, dao.DB.Create(&chat).Error)
	}
	_, err := dao.CreateChat(ctx, "s2", "foreign", "not mine")
	require.NoError(t, err)

	chats, err := dao.ListChats(ctx, "s1")
	require.NoError(t, err)
	ids := make([]string, 0, len(chats))
	for _, c := range chats {
		ids = append(ids, c.ChatID)
	}
	assert.Equal(t, []string{"new", "mid", "old"}, ids)

	empty, err := dao.ListChats(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestHistoryOrderAndScope(t *testing.T) {
	dao := setupTestDAO(t)
	ctx := context.Background()

	for _, m := range [][3]string{
		{"c1", "user", "one"},
		{"c2", "user", "other chat"},
		{"c1", "assistant", "two"},
		{"c1", "user", "three"},
	} {
		_, err := dao.SaveMessage(ctx, "s1", m[0], m[1], m[2])
		require.NoError(t, err)
	}

	history, err := dao.GetChatHistory(ctx, "s1", "c1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "one", history[0].Content)
	assert.Equal(t, "assistant", history[1].Role)
	assert.Equal(t, "three", history[2].Content)

	all, err := dao.GetSessionHistory(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestDeleteChat(t *testing.T) {
	dao := setupTestDAO(t)
	ctx := context.Background()

	_, err := dao.CreateChat(ctx, "s1", "c1", "First")
	require.NoError(t, err)
	_, err = dao.SaveMessage(ctx, "s1", "c1", "user", "hi")
	require.NoError(t, err)

	assert.ErrorIs(t, dao.DeleteChat(ctx, "s2", "c1"), ErrChatNotFound)
	require.NoError(t, dao.DeleteChat(ctx, "s1", "c1"))
	assert.ErrorIs(t, dao.DeleteChat(ctx, "s1", "c1"), ErrChatNotFound)

	history, err := dao.GetChatHistory(ctx, "s1", "c1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestClearSession(t *testing.T) {
	dao := setupTestDAO(t)
	ctx := context.Background()

	for _, s := range []string{"s1", "s2"} {
		_, err := dao.CreateChat(ctx, s, s+"-chat", "t")
		require.NoError(t, err)
		_, err = dao.SaveMessage(ctx, s, s+"-chat", "user", "hi")
		require.NoError(t, err)
	}

	require.NoError(t, dao.ClearSession(ctx, "s1"))

	chats, err := dao.ListChats(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, chats)
	chats, err = dao.ListChats(ctx, "s2")
	require.NoError(t, err)
	assert.Len(t, chats, 1)
}

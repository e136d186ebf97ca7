package service

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"shutterhub_backend/internals/features/chat/model"
	userModel "shutterhub_backend/internals/features/users/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&userModel.User{},
		&model.ChatGroup{},
		&model.ChatGroupMember{},
		&model.ChatMessage{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string) *userModel.User {
	t.Helper()
	u := userModel.User{
		UserName:  name,
		UserEmail: name + "@example.com",
		UserRole:  userModel.RoleCustomer,
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func createTestGroup(t *testing.T, svc *ChatService, ownerID uuid.UUID) *model.ChatGroup {
	t.Helper()
	g := model.ChatGroup{
		ChatGroupName:    "street shooters",
		ChatGroupOwnerID: ownerID,
	}
	require.NoError(t, svc.CreateGroup(&g))
	return &g
}

func membersCount(t *testing.T, db *gorm.DB, groupID uuid.UUID) int {
	t.Helper()
	var g model.ChatGroup
	require.NoError(t, db.First(&g, "chat_group_id = ?", groupID).Error)
	return g.ChatGroupMembersCount
}

func TestCreateGroupEnrollsOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewChatService(db)

	owner := createTestUser(t, db, "owner")
	g := createTestGroup(t, svc, owner.UserID)

	ok, err := svc.IsMember(g.ChatGroupID, owner.UserID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, membersCount(t, db, g.ChatGroupID))
}

func TestJoinIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewChatService(db)

	owner := createTestUser(t, db, "owner")
	member := createTestUser(t, db, "member")
	g := createTestGroup(t, svc, owner.UserID)

	require.NoError(t, svc.Join(g.ChatGroupID, member.UserID))
	require.NoError(t, svc.Join(g.ChatGroupID, member.UserID))

	// second join must not bump the counter again
	assert.Equal(t, 2, membersCount(t, db, g.ChatGroupID))

	var rows int64
	require.NoError(t, db.Model(&model.ChatGroupMember{}).
		Where("chat_group_member_group_id = ?", g.ChatGroupID).Count(&rows).Error)
	assert.EqualValues(t, 2, rows)
}

func TestLeaveGroup(t *testing.T) {
	db := setupTestDB(t)
	svc := NewChatService(db)

	owner := createTestUser(t, db, "owner")
	member := createTestUser(t, db, "member")
	g := createTestGroup(t, svc, owner.UserID)

	require.NoError(t, svc.Join(g.ChatGroupID, member.UserID))
	require.NoError(t, svc.Leave(g.ChatGroupID, member.UserID))
	assert.Equal(t, 1, membersCount(t, db, g.ChatGroupID))

	assert.ErrorIs(t, svc.Leave(g.ChatGroupID, member.UserID), ErrNotMember)
	assert.ErrorIs(t, svc.Leave(g.ChatGroupID, owner.UserID), ErrOwnerCannotLeave)
	assert.ErrorIs(t, svc.Leave(uuid.New(), member.UserID), ErrGroupNotFound)
}

func TestSendMessageRequiresMembership(t *testing.T) {
	db := setupTestDB(t)
	svc := NewChatService(db)

	owner := createTestUser(t, db, "owner")
	stranger := createTestUser(t, db, "stranger")
	g := createTestGroup(t, svc, owner.UserID)

	_, err := svc.SendMessage(&model.ChatMessage{
		ChatMessageGroupID:  g.ChatGroupID,
		ChatMessageSenderID: stranger.UserID,
		ChatMessageBody:     "hi",
	})
	assert.ErrorIs(t, err, ErrNotMember)

	msg, err := svc.SendMessage(&model.ChatMessage{
		ChatMessageGroupID:  g.ChatGroupID,
		ChatMessageSenderID: owner.UserID,
		ChatMessageBody:     "welcome",
	})
	require.NoError(t, err)
	require.NotNil(t, msg.Sender)
	assert.Equal(t, "owner", msg.Sender.UserName)
}

func TestListMessagesNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	svc := NewChatService(db)

	owner := createTestUser(t, db, "owner")
	g := createTestGroup(t, svc, owner.UserID)

	for i := 0; i < 3; i++ {
		msg := model.ChatMessage{
			ChatMessageGroupID:  g.ChatGroupID,
			ChatMessageSenderID: owner.UserID,
			ChatMessageBody:     fmt.Sprintf("message %d", i),
		}
		_, err := svc.SendMessage(&msg)
		require.NoError(t, err)
	}

	msgs, total, err := svc.ListMessages(g.ChatGroupID, owner.UserID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, msgs, 3)
	for i := 1; i < len(msgs); i++ {
		assert.False(t, msgs[i-1].ChatMessageCreatedAt.Before(msgs[i].ChatMessageCreatedAt))
	}

	stranger := createTestUser(t, db, "stranger")
	_, _, err = svc.ListMessages(g.ChatGroupID, stranger.UserID, 1, 10)
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestDeleteGroupOwnerOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := NewChatService(db)

	owner := createTestUser(t, db, "owner")
	member := createTestUser(t, db, "member")
	g := createTestGroup(t, svc, owner.UserID)
	require.NoError(t, svc.Join(g.ChatGroupID, member.UserID))

	_, err := svc.SendMessage(&model.ChatMessage{
		ChatMessageGroupID:  g.ChatGroupID,
		ChatMessageSenderID: member.UserID,
		ChatMessageBody:     "hello",
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteGroup(g.ChatGroupID, member.UserID), ErrNotGroupOwner)
	require.NoError(t, svc.DeleteGroup(g.ChatGroupID, owner.UserID))

	var groups, members, msgs int64
	require.NoError(t, db.Model(&model.ChatGroup{}).Count(&groups).Error)
	require.NoError(t, db.Model(&model.ChatGroupMember{}).Count(&members).Error)
	require.NoError(t, db.Model(&model.ChatMessage{}).Count(&msgs).Error)
	assert.Zero(t, groups)
	assert.Zero(t, members)
	assert.Zero(t, msgs)
}

func TestListMyGroups(t *testing.T) {
	db := setupTestDB(t)
	svc := NewChatService(db)

	owner := createTestUser(t, db, "owner")
	member := createTestUser(t, db, "member")

	g1 := createTestGroup(t, svc, owner.UserID)
	createTestGroup(t, svc, owner.UserID)

	require.NoError(t, svc.Join(g1.ChatGroupID, member.UserID))

	_, total, err := svc.ListMyGroups(owner.UserID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	groups, total, err := svc.ListMyGroups(member.UserID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, groups, 1)
	assert.Equal(t, g1.ChatGroupID, groups[0].ChatGroupID)
}

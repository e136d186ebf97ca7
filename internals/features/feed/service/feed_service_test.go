package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"

	"shutterhub_backend/internals/features/feed/model"
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
		&model.Post{},
		&model.PostLike{},
		&model.PostComment{},
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

func createTestPost(t *testing.T, db *gorm.DB, authorID uuid.UUID) *model.Post {
	t.Helper()
	p := model.Post{
		PostUserID:      authorID,
		PostContentType: "image",
		PostCaption:     "golden hour",
	}
	require.NoError(t, p.SetMediaItems([]model.MediaItem{{URL: "https://cdn.example.com/a.webp", Type: "image"}}))
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func likesRowCount(t *testing.T, db *gorm.DB, postID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.PostLike{}).Where("post_like_post_id = ?", postID).Count(&n).Error)
	return n
}

func postCounters(t *testing.T, db *gorm.DB, postID uuid.UUID) (likes, comments int64) {
	t.Helper()
	var p model.Post
	require.NoError(t, db.First(&p, "post_id = ?", postID).Error)
	return p.PostLikesCount, p.PostCommentsCount
}

func TestToggleLikeRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFeedService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	viewer := createTestUser(t, db, "viewer")
	post := createTestPost(t, db, author.UserID)

	res, err := svc.ToggleLike(ctx, post.PostID, viewer.UserID)
	require.NoError(t, err)
	assert.True(t, res.IsLiked)
	assert.EqualValues(t, 1, res.LikesCount)

	res, err = svc.ToggleLike(ctx, post.PostID, viewer.UserID)
	require.NoError(t, err)
	assert.False(t, res.IsLiked)
	assert.EqualValues(t, 0, res.LikesCount)

	likes, _ := postCounters(t, db, post.PostID)
	assert.EqualValues(t, 0, likes)
	assert.EqualValues(t, 0, likesRowCount(t, db, post.PostID))
}

func TestToggleLikeRacingDuplicateIsNoop(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFeedService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	viewer := createTestUser(t, db, "viewer")
	post := createTestPost(t, db, author.UserID)

	_, err := svc.ToggleLike(ctx, post.PostID, viewer.UserID)
	require.NoError(t, err)

	// the insert a racing duplicate would issue resolves as a zero-rows no-op,
	// not a statement error that would abort the surrounding transaction
	res := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.PostLike{PostLikePostID: post.PostID, PostLikeUserID: viewer.UserID})
	require.NoError(t, res.Error)
	assert.Zero(t, res.RowsAffected)

	likes, _ := postCounters(t, db, post.PostID)
	assert.EqualValues(t, 1, likes)
	assert.EqualValues(t, 1, likesRowCount(t, db, post.PostID))
}

func TestToggleLikeCounterMatchesRows(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFeedService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	post := createTestPost(t, db, author.UserID)

	for i := 0; i < 5; i++ {
		u := createTestUser(t, db, fmt.Sprintf("fan%d", i))
		_, err := svc.ToggleLike(ctx, post.PostID, u.UserID)
		require.NoError(t, err)
	}

	likes, _ := postCounters(t, db, post.PostID)
	assert.EqualValues(t, 5, likes)
	assert.Equal(t, likes, likesRowCount(t, db, post.PostID))
}

func TestToggleLikeConcurrentDistinctUsers(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFeedService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	post := createTestPost(t, db, author.UserID)

	const n = 8
	users := make([]*userModel.User, n)
	for i := range users {
		users[i] = createTestUser(t, db, fmt.Sprintf("user%d", i))
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.ToggleLike(ctx, post.PostID, users[i].UserID)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	likes, _ := postCounters(t, db, post.PostID)
	assert.EqualValues(t, n, likes)
	assert.Equal(t, likes, likesRowCount(t, db, post.PostID))
}

func TestToggleLikeUnknownPost(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFeedService(db)

	viewer := createTestUser(t, db, "viewer")
	_, err := svc.ToggleLike(context.Background(), uuid.New(), viewer.UserID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestAddCommentReplyPolicy(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFeedService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	commenter := createTestUser(t, db, "commenter")
	post := createTestPost(t, db, author.UserID)
	otherPost := createTestPost(t, db, author.UserID)

	top, err := svc.AddComment(ctx, post.PostID, commenter.UserID, "nice shot", nil)
	require.NoError(t, err)

	reply, err := svc.AddComment(ctx, post.PostID, author.UserID, "thanks", &top.PostCommentID)
	require.NoError(t, err)
	require.NotNil(t, reply.PostCommentParentID)

	_, err = svc.AddComment(ctx, post.PostID, commenter.UserID, "nested", &reply.PostCommentID)
	assert.ErrorIs(t, err, ErrReplyToReply)

	_, err = svc.AddComment(ctx, otherPost.PostID, commenter.UserID, "wrong thread", &top.PostCommentID)
	assert.ErrorIs(t, err, ErrParentDifferentPost)

	missing := uuid.New()
	_, err = svc.AddComment(ctx, post.PostID, commenter.UserID, "orphan", &missing)
	assert.ErrorIs(t, err, ErrParentNotFound)

	_, comments := postCounters(t, db, post.PostID)
	assert.EqualValues(t, 2, comments)
}

func TestDeleteCommentCascadesReplies(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFeedService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	commenter := createTestUser(t, db, "commenter")
	post := createTestPost(t, db, author.UserID)

	top, err := svc.AddComment(ctx, post.PostID, commenter.UserID, "top", nil)
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, post.PostID, author.UserID, "reply one", &top.PostCommentID)
	require.NoError(t, err)
	_, err = svc.AddComment(ctx, post.PostID, author.UserID, "reply two", &top.PostCommentID)
	require.NoError(t, err)

	// only the owner may delete
	err = svc.DeleteComment(ctx, top.PostCommentID, author.UserID)
	assert.ErrorIs(t, err, ErrNotCommentOwner)

	require.NoError(t, svc.DeleteComment(ctx, top.PostCommentID, commenter.UserID))

	var remaining int64
	require.NoError(t, db.Model(&model.PostComment{}).Where("post_comment_post_id = ?", post.PostID).Count(&remaining).Error)
	assert.EqualValues(t, 0, remaining)

	_, comments := postCounters(t, db, post.PostID)
	assert.EqualValues(t, 0, comments)
}

func TestIncrementShare(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFeedService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	post := createTestPost(t, db, author.UserID)

	n, err := svc.IncrementShare(ctx, post.PostID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = svc.IncrementShare(ctx, post.PostID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = svc.IncrementShare(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestListFeedLikeMembership(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFeedService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	viewer := createTestUser(t, db, "viewer")
	liked := createTestPost(t, db, author.UserID)
	notLiked := createTestPost(t, db, author.UserID)

	_, err := svc.ToggleLike(ctx, liked.PostID, viewer.UserID)
	require.NoError(t, err)

	posts, likedMap, total, err := svc.ListFeed(ctx, viewer.UserID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, posts, 2)
	assert.True(t, likedMap[liked.PostID])
	assert.False(t, likedMap[notLiked.PostID])
}

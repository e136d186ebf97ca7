package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shutterhub_backend/internals/features/feed/model"
)

var (
	ErrPostNotFound        = errors.New("post not found")
	ErrCommentNotFound     = errors.New("comment not found")
	ErrParentNotFound      = errors.New("parent comment not found")
	ErrParentDifferentPost = errors.New("parent comment belongs to a different post")
	ErrReplyToReply        = errors.New("replies to replies are not allowed")
	ErrNotCommentOwner     = errors.New("comment belongs to another user")
)

// FeedService owns every mutation that touches the denormalized counters on
// posts. Counter updates ride in the same transaction as the child row.
type FeedService struct {
	DB *gorm.DB
}

func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{DB: db}
}

type ToggleLikeResult struct {
	IsLiked    bool  `json:"is_liked"`
	LikesCount int64 `json:"likes_count"`
}

// ToggleLike flips the (post, user) like. A duplicate insert racing this call
// hits the unique index and is treated as an already-liked no-op, so the
// counter is bumped at most once per actual row change.
func (s *FeedService) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (*ToggleLikeResult, error) {
	var out ToggleLikeResult

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.Select("post_id").First(&post, "post_id = ?", postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		res := tx.Where("post_like_post_id = ? AND post_like_user_id = ?", postID, userID).
			Delete(&model.PostLike{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected > 0 {
			// unlike
			if err := tx.Model(&model.Post{}).
				Where("post_id = ? AND post_likes_count > 0", postID).
				UpdateColumn("post_likes_count", gorm.Expr("post_likes_count - 1")).Error; err != nil {
				return err
			}
			out.IsLiked = false
			return s.reloadLikesCount(tx, postID, &out)
		}

		// like. ON CONFLICT DO NOTHING instead of catching the violation
		// afterwards: a failed INSERT would abort the whole transaction on
		// postgres and every later statement would fail with 25P02.
		like := model.PostLike{PostLikePostID: postID, PostLikeUserID: userID}
		ins := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
		if ins.Error != nil {
			return ins.Error
		}
		if ins.RowsAffected == 0 {
			// concurrent double-submit: row already exists, counter already bumped
			out.IsLiked = true
			return s.reloadLikesCount(tx, postID, &out)
		}
		if err := tx.Model(&model.Post{}).
			Where("post_id = ?", postID).
			UpdateColumn("post_likes_count", gorm.Expr("post_likes_count + 1")).Error; err != nil {
			return err
		}
		out.IsLiked = true
		return s.reloadLikesCount(tx, postID, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *FeedService) reloadLikesCount(tx *gorm.DB, postID uuid.UUID, out *ToggleLikeResult) error {
	var p model.Post
	if err := tx.Select("post_likes_count").First(&p, "post_id = ?", postID).Error; err != nil {
		return err
	}
	out.LikesCount = p.PostLikesCount
	return nil
}

// AddComment appends a comment and bumps the post counter transactionally.
// Reply policy: the parent must exist, belong to the same post, and be
// top-level itself.
func (s *FeedService) AddComment(ctx context.Context, postID, userID uuid.UUID, body string, parentID *uuid.UUID) (*model.PostComment, error) {
	comment := model.PostComment{
		PostCommentPostID:   postID,
		PostCommentUserID:   userID,
		PostCommentParentID: parentID,
		PostCommentBody:     body,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.Select("post_id").First(&post, "post_id = ?", postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		if parentID != nil {
			var parent model.PostComment
			if err := tx.First(&parent, "post_comment_id = ?", *parentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrParentNotFound
				}
				return err
			}
			if parent.PostCommentPostID != postID {
				return ErrParentDifferentPost
			}
			if parent.PostCommentParentID != nil {
				return ErrReplyToReply
			}
		}

		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&model.Post{}).
			Where("post_id = ?", postID).
			UpdateColumn("post_comments_count", gorm.Expr("post_comments_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a comment owned by userID together with its direct
// replies and decrements the counter by the number of removed rows.
func (s *FeedService) DeleteComment(ctx context.Context, commentID, userID uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment model.PostComment
		if err := tx.First(&comment, "post_comment_id = ?", commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommentNotFound
			}
			return err
		}
		if comment.PostCommentUserID != userID {
			return ErrNotCommentOwner
		}

		removed := int64(1)
		if comment.PostCommentParentID == nil {
			res := tx.Where("post_comment_parent_id = ?", commentID).Delete(&model.PostComment{})
			if res.Error != nil {
				return res.Error
			}
			removed += res.RowsAffected
		}
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&model.Post{}).
			Where("post_id = ? AND post_comments_count >= ?", comment.PostCommentPostID, removed).
			UpdateColumn("post_comments_count", gorm.Expr("post_comments_count - ?", removed)).Error
	})
}

// IncrementShare bumps the share counter. Shares have no child rows, the
// counter is the record.
func (s *FeedService) IncrementShare(ctx context.Context, postID uuid.UUID) (int64, error) {
	res := s.DB.WithContext(ctx).Model(&model.Post{}).
		Where("post_id = ?", postID).
		UpdateColumn("post_shares_count", gorm.Expr("post_shares_count + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrPostNotFound
	}
	var p model.Post
	if err := s.DB.WithContext(ctx).Select("post_shares_count").
		First(&p, "post_id = ?", postID).Error; err != nil {
		return 0, err
	}
	return p.PostSharesCount, nil
}

// ListFeed returns a page of posts plus the viewer's like-membership, resolved
// with one IN query instead of a round trip per post.
func (s *FeedService) ListFeed(ctx context.Context, viewerID uuid.UUID, limit, offset int) ([]model.Post, map[uuid.UUID]bool, int64, error) {
	var total int64
	if err := s.DB.WithContext(ctx).Model(&model.Post{}).Count(&total).Error; err != nil {
		return nil, nil, 0, err
	}

	var posts []model.Post
	if err := s.DB.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, nil, 0, err
	}

	liked := make(map[uuid.UUID]bool, len(posts))
	if len(posts) > 0 && viewerID != uuid.Nil {
		ids := make([]uuid.UUID, 0, len(posts))
		for _, p := range posts {
			ids = append(ids, p.PostID)
		}
		var likedIDs []uuid.UUID
		if err := s.DB.WithContext(ctx).Model(&model.PostLike{}).
			Where("post_like_user_id = ? AND post_like_post_id IN ?", viewerID, ids).
			Pluck("post_like_post_id", &likedIDs).Error; err != nil {
			return nil, nil, 0, err
		}
		for _, id := range likedIDs {
			liked[id] = true
		}
	}
	return posts, liked, total, nil
}

// Liker is one row of the "liked by" display.
type Liker struct {
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	AvatarURL string    `json:"avatar_url"`
}

// ListLikers returns the full likers list. Not paginated; acceptable at
// expected per-post like volumes.
func (s *FeedService) ListLikers(ctx context.Context, postID uuid.UUID) ([]Liker, error) {
	var exists int64
	if err := s.DB.WithContext(ctx).Model(&model.Post{}).
		Where("post_id = ?", postID).Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrPostNotFound
	}

	likers := make([]Liker, 0)
	err := s.DB.WithContext(ctx).
		Table("post_likes").
		Select("users.user_id, users.user_name, users.user_avatar_url AS avatar_url").
		Joins("JOIN users ON users.user_id = post_likes.post_like_user_id").
		Where("post_likes.post_like_post_id = ?", postID).
		Order("post_likes.created_at ASC").
		Scan(&likers).Error
	return likers, err
}

// ListComments returns the flat comment list, oldest first. One-level grouping
// (top-level comments with their direct replies) is the caller's contract.
func (s *FeedService) ListComments(ctx context.Context, postID uuid.UUID) ([]model.PostComment, error) {
	var exists int64
	if err := s.DB.WithContext(ctx).Model(&model.Post{}).
		Where("post_id = ?", postID).Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrPostNotFound
	}

	var comments []model.PostComment
	err := s.DB.WithContext(ctx).
		Preload("User").
		Where("post_comment_post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

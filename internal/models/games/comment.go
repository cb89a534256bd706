package models

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	user "github.com/mnuddindev/gamepulse/internal/models/user"
	"github.com/mnuddindev/gamepulse/pkg/utils"
	"gorm.io/gorm"
)

// RepliesPageSize is the fixed size of the single reply page returned per
// top-level comment. Deeper reply pagination is not offered.
const RepliesPageSize = 3

// DefaultCommentPageSize is the top-level page size when the caller does not
// override it.
const DefaultCommentPageSize = 5

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Content  string     `gorm:"type:text;not null" json:"content" validate:"required,min=1,max=2000"`
	GameID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_comment_game" json:"game_id" validate:"required"`
	AuthorID uuid.UUID  `gorm:"type:uuid;not null;index:idx_comment_author" json:"author_id" validate:"required"`
	ParentID *uuid.UUID `gorm:"type:uuid;index:idx_comment_parent" json:"parent_id" validate:"omitempty"`
	Edited   bool       `gorm:"default:false" json:"edited"`
	Seq      int64      `gorm:"autoIncrement;uniqueIndex" json:"-"`

	Author user.User `gorm:"foreignKey:AuthorID" json:"author" validate:"-"`
	Likes  []Like    `gorm:"foreignKey:CommentID" json:"likes,omitempty" validate:"-"`
}

type Like struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_like_once" json:"user_id"`
	CommentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_like_once" json:"comment_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// CommentThread is one page of top-level comments for a game, each with its
// first page of replies.
type CommentThread struct {
	Comments   []Comment              `json:"comments"`
	Replies    map[uuid.UUID][]Comment `json:"replies"`
	Pagination utils.Pagination       `json:"pagination"`
}

// CreateComment stores a comment. A reply must point at a comment on the
// same game; anything else is rejected before touching the comments table.
func CreateComment(ctx context.Context, db *gorm.DB, comment *Comment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	comment.Content = strings.TrimSpace(comment.Content)
	if comment.Content == "" {
		return utils.NewError(utils.ErrBadRequest.Code, "Comment text is required")
	}

	if comment.ParentID != nil {
		var parent Comment
		if err := db.WithContext(ctx).First(&parent, "id = ?", *comment.ParentID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return utils.NewError(utils.ErrNotFound.Code, "Parent comment not found")
			}
			return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to fetch parent comment")
		}
		if err := ValidateParent(&parent, comment.GameID); err != nil {
			return err
		}
	}

	if err := db.WithContext(ctx).Create(comment).Error; err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to create comment")
	}
	return nil
}

// ValidateParent checks that a reply target is usable: same game, and a
// top-level comment. Threads are one level deep, which also keeps deletion
// simple: removing a comment and its direct replies removes the whole
// subtree.
func ValidateParent(parent *Comment, gameID uuid.UUID) error {
	if parent.GameID != gameID {
		return utils.NewError(utils.ErrBadRequest.Code, "Parent comment belongs to a different game")
	}
	if parent.ParentID != nil {
		return utils.NewError(utils.ErrBadRequest.Code, "You can only reply to top-level comments")
	}
	return nil
}

// GetCommentBy fetches a single comment.
func GetCommentBy(ctx context.Context, db *gorm.DB, condition string, args []interface{}) (*Comment, error) {
	var comment Comment
	if err := db.WithContext(ctx).Where(condition, args...).First(&comment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewError(utils.ErrNotFound.Code, "Comment not found")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to fetch comment")
	}
	return &comment, nil
}

// GetCommentThread returns one page of a game's top-level comments in
// insertion order, each carrying at most RepliesPageSize direct replies.
// Page numbers beyond the last page clamp to the last page.
func GetCommentThread(ctx context.Context, db *gorm.DB, gameID uuid.UUID, page, pageSize int) (*CommentThread, error) {
	if pageSize < 1 {
		pageSize = DefaultCommentPageSize
	}

	var total int64
	if err := db.WithContext(ctx).Model(&Comment{}).
		Where("game_id = ? AND parent_id IS NULL", gameID).Count(&total).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to count comments")
	}

	meta, offset := utils.Paginate(total, page, pageSize)

	var comments []Comment
	if err := db.WithContext(ctx).Preload("Author").
		Where("game_id = ? AND parent_id IS NULL", gameID).
		Order("seq asc").Limit(meta.PageSize).Offset(offset).
		Find(&comments).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to fetch comments")
	}

	var replies []Comment
	if len(comments) > 0 {
		parentIDs := make([]uuid.UUID, len(comments))
		for i, c := range comments {
			parentIDs[i] = c.ID
		}
		if err := db.WithContext(ctx).Preload("Author").
			Where("parent_id IN ?", parentIDs).
			Order("seq asc").Find(&replies).Error; err != nil {
			return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to fetch replies")
		}
	}

	thread := AssembleThread(comments, replies, RepliesPageSize)
	thread.Pagination = meta
	return thread, nil
}

// AssembleThread groups replies under their parents, keeping input order and
// capping each reply list at repliesPerComment entries.
func AssembleThread(comments, replies []Comment, repliesPerComment int) *CommentThread {
	thread := &CommentThread{
		Comments: comments,
		Replies:  make(map[uuid.UUID][]Comment, len(comments)),
	}
	for _, c := range comments {
		thread.Replies[c.ID] = []Comment{}
	}
	for _, r := range replies {
		if r.ParentID == nil {
			continue
		}
		bucket, ok := thread.Replies[*r.ParentID]
		if !ok || len(bucket) >= repliesPerComment {
			continue
		}
		thread.Replies[*r.ParentID] = append(bucket, r)
	}
	return thread
}

// UpdateComment saves edited text and flips the edited flag.
func UpdateComment(ctx context.Context, db *gorm.DB, comment *Comment, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return utils.NewError(utils.ErrBadRequest.Code, "Comment text is required")
	}
	comment.Content = content
	comment.Edited = true
	if err := db.WithContext(ctx).Save(comment).Error; err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to update comment")
	}
	return nil
}

// DeleteComment removes a comment together with its direct replies and likes.
func DeleteComment(ctx context.Context, db *gorm.DB, comment *Comment) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_id = ?", comment.ID).Delete(&Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("comment_id = ?", comment.ID).Delete(&Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(comment).Error
	})
	if err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to delete comment")
	}
	return nil
}

// DeleteCommentsByAuthor clears an author's comments on one game. The import
// flow uses this to reset the synthetic importer before refetching.
func DeleteCommentsByAuthor(ctx context.Context, db *gorm.DB, gameID, authorID uuid.UUID) error {
	if err := db.WithContext(ctx).
		Where("game_id = ? AND author_id = ?", gameID, authorID).
		Delete(&Comment{}).Error; err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to delete imported comments")
	}
	return nil
}

// LikeComment records a like; liking twice is a no-op conflict.
func LikeComment(ctx context.Context, db *gorm.DB, commentID, userID uuid.UUID) (int64, error) {
	like := Like{ID: uuid.New(), UserID: userID, CommentID: commentID}
	if err := db.WithContext(ctx).Create(&like).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return 0, utils.NewError(utils.ErrConflict.Code, "Already liked")
		}
		return 0, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to like comment")
	}
	return countLikes(ctx, db, commentID)
}

// UnlikeComment removes a like if present.
func UnlikeComment(ctx context.Context, db *gorm.DB, commentID, userID uuid.UUID) (int64, error) {
	if err := db.WithContext(ctx).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Delete(&Like{}).Error; err != nil {
		return 0, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to unlike comment")
	}
	return countLikes(ctx, db, commentID)
}

func countLikes(ctx context.Context, db *gorm.DB, commentID uuid.UUID) (int64, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&Like{}).Where("comment_id = ?", commentID).Count(&count).Error; err != nil {
		return 0, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to count likes")
	}
	return count, nil
}

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

type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Title        string    `gorm:"size:255;not null" json:"title" validate:"required,max=255"`
	Body         string    `gorm:"type:text;not null" json:"body" validate:"required,min=10"`
	Rating       int       `gorm:"not null" json:"rating" validate:"required,gte=1,lte=5"`
	HelpfulVotes int       `gorm:"default:0" json:"helpful_votes"`
	ReportCount  int       `gorm:"default:0" json:"report_count"`
	GameID       uuid.UUID `gorm:"type:uuid;not null;index:idx_review_game" json:"game_id" validate:"required"`
	AuthorID     uuid.UUID `gorm:"type:uuid;not null;index:idx_review_author" json:"author_id" validate:"required"`

	Author user.User `gorm:"foreignKey:AuthorID" json:"author" validate:"-"`
}

// ReviewVote is one helpfulness vote. The composite unique index is what
// makes "already voted" safe under concurrent duplicate requests.
type ReviewVote struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	ReviewID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_vote_once" json:"review_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_vote_once" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// CreateReview stores a critic's review. One review per (author, game) is
// enforced here, not by a DB constraint. The game's average rating is
// recomputed inside the same transaction.
func CreateReview(ctx context.Context, db *gorm.DB, review *Review) error {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	review.Title = strings.TrimSpace(review.Title)
	review.Body = strings.TrimSpace(review.Body)

	var existing int64
	if err := db.WithContext(ctx).Model(&Review{}).
		Where("game_id = ? AND author_id = ?", review.GameID, review.AuthorID).
		Count(&existing).Error; err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to check existing review")
	}
	if existing > 0 {
		return utils.NewError(utils.ErrConflict.Code, "You have already reviewed this game")
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		return SyncAverageRating(ctx, tx, review.GameID)
	})
	if err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to create review")
	}
	return nil
}

// GetReviewBy fetches a single review.
func GetReviewBy(ctx context.Context, db *gorm.DB, condition string, args []interface{}) (*Review, error) {
	var review Review
	if err := db.WithContext(ctx).Where(condition, args...).First(&review).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewError(utils.ErrNotFound.Code, "Review not found")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to fetch review")
	}
	return &review, nil
}

// GetReviewsByGame lists a game's reviews, newest first.
func GetReviewsByGame(ctx context.Context, db *gorm.DB, gameID uuid.UUID, page, pageSize int) ([]Review, utils.Pagination, error) {
	var total int64
	if err := db.WithContext(ctx).Model(&Review{}).Where("game_id = ?", gameID).Count(&total).Error; err != nil {
		return nil, utils.Pagination{}, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to count reviews")
	}

	meta, offset := utils.Paginate(total, page, pageSize)

	var reviews []Review
	if err := db.WithContext(ctx).Preload("Author").
		Where("game_id = ?", gameID).Order("created_at desc").
		Limit(meta.PageSize).Offset(offset).Find(&reviews).Error; err != nil {
		return nil, utils.Pagination{}, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to fetch reviews")
	}
	return reviews, meta, nil
}

// UpdateReview saves edits and recomputes the game's average in the same
// transaction, since the rating may have changed.
func UpdateReview(ctx context.Context, db *gorm.DB, review *Review) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(review).Error; err != nil {
			return err
		}
		return SyncAverageRating(ctx, tx, review.GameID)
	})
	if err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to update review")
	}
	return nil
}

// DeleteReview removes the review, its votes, and refreshes the average.
func DeleteReview(ctx context.Context, db *gorm.DB, review *Review) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", review.ID).Delete(&ReviewVote{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(review).Error; err != nil {
			return err
		}
		return SyncAverageRating(ctx, tx, review.GameID)
	})
	if err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to delete review")
	}
	return nil
}

// SyncAverageRating recomputes a game's average rating from its review set
// and persists it. Every review create, update and delete calls this inside
// its own transaction so the derived value can never drift.
func SyncAverageRating(ctx context.Context, tx *gorm.DB, gameID uuid.UUID) error {
	var ratings []int
	if err := tx.WithContext(ctx).Model(&Review{}).
		Where("game_id = ?", gameID).Pluck("rating", &ratings).Error; err != nil {
		return err
	}
	return tx.Model(&Game{}).Where("id = ?", gameID).
		UpdateColumn("average_rating", MeanRating(ratings)).Error
}

// MeanRating is the arithmetic mean of the ratings, 0.0 when there are none.
func MeanRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0.0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings))
}

// VoteHelpful records one helpfulness vote and bumps the counter in a single
// transaction. The unique index turns a duplicate vote into a clean
// forbidden error instead of a double count.
func VoteHelpful(ctx context.Context, db *gorm.DB, reviewID, userID uuid.UUID) (int, error) {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		vote := ReviewVote{ID: uuid.New(), ReviewID: reviewID, UserID: userID}
		if err := tx.Create(&vote).Error; err != nil {
			if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
				return utils.NewError(utils.ErrForbidden.Code, "You have already voted on this review")
			}
			return err
		}
		return tx.Model(&Review{}).Where("id = ?", reviewID).
			UpdateColumn("helpful_votes", gorm.Expr("helpful_votes + ?", 1)).Error
	})
	if err != nil {
		var appErr *utils.CustomError
		if utils.As(err, &appErr) {
			return 0, appErr
		}
		return 0, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to vote on review")
	}

	var review Review
	if err := db.WithContext(ctx).Select("helpful_votes").First(&review, "id = ?", reviewID).Error; err != nil {
		return 0, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to fetch vote count")
	}
	return review.HelpfulVotes, nil
}

// HasVoted reports whether the user already voted on the review.
func HasVoted(ctx context.Context, db *gorm.DB, reviewID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&ReviewVote{}).
		Where("review_id = ? AND user_id = ?", reviewID, userID).Count(&count).Error; err != nil {
		return false, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to check vote")
	}
	return count > 0, nil
}

// Package models holds the game catalogue: games, their reviews and comments.
package models

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	storage "github.com/mnuddindev/gamepulse/pkg/redis"
	"github.com/mnuddindev/gamepulse/pkg/utils"
	"gorm.io/gorm"
)

type Game struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Title       string     `gorm:"size:255;not null;index" json:"title" validate:"required,max=255"`
	Description string     `gorm:"type:text;not null" json:"description" validate:"required"`
	Developer   string     `gorm:"size:255" json:"developer" validate:"omitempty,max=255"`
	Publisher   string     `gorm:"size:255" json:"publisher" validate:"omitempty,max=255"`
	ReleaseDate *time.Time `json:"release_date"`
	AgeRating   int        `gorm:"default:0" json:"age_rating" validate:"gte=0,lte=21"`
	Genre       string     `gorm:"size:255;default:'empty'" json:"genre" validate:"omitempty,max=255"`
	ImageURL    string     `gorm:"size:500" json:"image_url" validate:"omitempty,url,max=500"`
	SteamAppID  *int       `json:"steam_app_id"`
	Hidden      bool       `gorm:"default:false;index" json:"hidden"`

	// Derived from the review set; only SyncAverageRating writes it.
	AverageRating float64 `gorm:"default:0.0" json:"average_rating"`

	Platforms  []Platform `gorm:"many2many:game_platforms;" json:"platforms" validate:"-"`
	Categories []Category `gorm:"many2many:game_categories;" json:"categories" validate:"-"`
	Tags       []Tag      `gorm:"many2many:game_tags;" json:"tags" validate:"-"`

	Reviews  []Review  `gorm:"foreignKey:GameID" json:"reviews,omitempty" validate:"-"`
	Comments []Comment `gorm:"foreignKey:GameID" json:"comments,omitempty" validate:"-"`
}

type Platform struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name string    `gorm:"size:255;not null;unique" json:"name" validate:"required,max=255"`
}

type Category struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name string    `gorm:"size:255;not null;unique" json:"name" validate:"required,max=255"`
}

type Tag struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name string    `gorm:"size:255;not null;unique" json:"name" validate:"required,max=255"`
}

// CreateGame creates a catalogue entry.
func CreateGame(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, game *Game) error {
	if game.ID == uuid.Nil {
		game.ID = uuid.New()
	}
	game.Title = strings.TrimSpace(game.Title)
	if game.Title == "" || strings.TrimSpace(game.Description) == "" {
		return utils.NewError(utils.ErrBadRequest.Code, "Required fields missing: title, description")
	}

	if err := db.WithContext(ctx).Create(game).Error; err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to create game")
	}

	rclient.Del(ctx, "games:latest")
	return nil
}

// GetGameBy retrieves a game by condition with optional preloads.
func GetGameBy(ctx context.Context, db *gorm.DB, condition string, args []interface{}, preload ...string) (*Game, error) {
	var game Game
	query := db.WithContext(ctx).Where(condition, args...)
	for _, rel := range preload {
		query = query.Preload(rel)
	}
	if err := query.First(&game).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewError(utils.ErrNotFound.Code, "Game not found")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to fetch game")
	}
	return &game, nil
}

// GetGames lists visible games with pagination metadata.
func GetGames(ctx context.Context, db *gorm.DB, page, pageSize int) ([]Game, utils.Pagination, error) {
	var total int64
	if err := db.WithContext(ctx).Model(&Game{}).Where("hidden = ?", false).Count(&total).Error; err != nil {
		return nil, utils.Pagination{}, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to count games")
	}

	meta, offset := utils.Paginate(total, page, pageSize)

	var games []Game
	if err := db.WithContext(ctx).Where("hidden = ?", false).Order("created_at desc").
		Limit(meta.PageSize).Offset(offset).Find(&games).Error; err != nil {
		return nil, utils.Pagination{}, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to fetch games")
	}
	return games, meta, nil
}

// UpdateGame persists the game and evicts caches.
func UpdateGame(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, game *Game) error {
	if err := db.WithContext(ctx).Save(game).Error; err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to update game")
	}
	rclient.Del(ctx, "games:latest", "game:"+game.ID.String())
	return nil
}

// DeleteGame removes the game; reviews and comments cascade in the DB.
func DeleteGame(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, game *Game) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", game.ID).Delete(&Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("game_id = ?", game.ID).Delete(&Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(game).Error
	})
	if err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to delete game")
	}
	rclient.Del(ctx, "games:latest", "game:"+game.ID.String())
	return nil
}

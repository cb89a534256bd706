package models

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	storage "github.com/mnuddindev/gamepulse/pkg/redis"
	"github.com/mnuddindev/gamepulse/pkg/utils"
	"gorm.io/gorm"
)

// Roles recognized by the authorization policy. Role is a plain string on the
// user row; the capability matrix lives in internal/auth.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleCritic    = "critic"
	RoleUser      = "user"
)

// ImporterUsername is the synthetic account that owns comments pulled in
// from Steam. It can never log in.
const ImporterUsername = "steam_importer"

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Username    string `gorm:"size:255;not null;unique" json:"username" validate:"required,min=3,max=255"`
	Email       string `gorm:"size:100;not null;unique" json:"email" validate:"required,email"`
	Password    string `gorm:"size:255;not null" json:"-" validate:"required,min=6"`
	Role        string `gorm:"size:20;not null;default:'user';index" json:"role" validate:"required,oneof=admin moderator critic user"`
	Banned      bool   `gorm:"default:false" json:"banned"`
	Verified    bool   `gorm:"default:false" json:"verified"`
	AvatarURL   string `gorm:"size:500" json:"avatar_url" validate:"omitempty,url,max=500"`
	Publication string `gorm:"size:255" json:"publication" validate:"omitempty,max=255"`
	Description string `gorm:"size:255" json:"description" validate:"omitempty,max=255"`

	LastLogin *time.Time `json:"last_login"`
}

// UserOption configures a User.
type UserOption func(*User)

// NewUser creates a user row. The password must already be hashed.
func NewUser(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, username, email, hashedPassword string, opts ...UserOption) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "user creation canceled")
	}

	u := &User{
		ID:       uuid.New(),
		Username: strings.TrimSpace(username),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: hashedPassword,
		Role:     RoleUser,
	}
	for _, opt := range opts {
		opt(u)
	}

	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate") {
			return nil, utils.NewError(utils.ErrConflict.Code, "Username or email already exists")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to create user")
	}

	CacheUser(ctx, rclient, u)
	return u, nil
}

// GetUserBy retrieves a user by condition, Redis first.
func GetUserBy(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, condition string, args []interface{}) (*User, error) {
	if condition == "id = ?" && len(args) == 1 {
		if id, ok := args[0].(string); ok {
			if cached, err := rclient.Get(ctx, "user:"+id).Result(); err == nil && cached != "" {
				var u User
				if err := json.Unmarshal([]byte(cached), &u); err == nil {
					return &u, nil
				}
			}
		}
	}

	var u User
	if err := db.WithContext(ctx).Where(condition, args...).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewError(utils.ErrNotFound.Code, "User not found")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to fetch user")
	}

	CacheUser(ctx, rclient, &u)
	return &u, nil
}

// GetUsers lists users for the admin dashboard, newest first. The page is
// clamped the same way every other listing is, so the rows and the metadata
// always describe the same page.
func GetUsers(ctx context.Context, db *gorm.DB, page, limit int) ([]User, utils.Pagination, error) {
	var total int64
	if err := db.WithContext(ctx).Model(&User{}).Count(&total).Error; err != nil {
		return nil, utils.Pagination{}, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to count users")
	}

	meta, offset := utils.Paginate(total, page, limit)

	var users []User
	if err := db.WithContext(ctx).Order("created_at desc").
		Limit(meta.PageSize).Offset(offset).Find(&users).Error; err != nil {
		return nil, utils.Pagination{}, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to fetch users")
	}
	return users, meta, nil
}

// UpdateUser applies options and persists, then refreshes the cache.
func UpdateUser(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, u *User, opts ...UserOption) error {
	for _, opt := range opts {
		opt(u)
	}
	if err := db.WithContext(ctx).Save(u).Error; err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to update user")
	}
	CacheUser(ctx, rclient, u)
	return nil
}

// DeleteUser removes a user and evicts the cache entry.
func DeleteUser(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB, u *User) error {
	if err := db.WithContext(ctx).Delete(u).Error; err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to delete user")
	}
	rclient.Del(ctx, "user:"+u.ID.String())
	return nil
}

// CacheUser stores the user JSON in Redis for 30 minutes.
func CacheUser(ctx context.Context, rclient *storage.RedisClient, u *User) {
	userJSON, err := json.Marshal(u)
	if err != nil {
		return
	}
	rclient.Set(ctx, "user:"+u.ID.String(), userJSON, 30*time.Minute)
}

// GetImporter returns the synthetic import identity, creating it on first use.
func GetImporter(ctx context.Context, rclient *storage.RedisClient, db *gorm.DB) (*User, error) {
	var u User
	err := db.WithContext(ctx).Where("username = ?", ImporterUsername).First(&u).Error
	if err == nil {
		return &u, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to fetch importer account")
	}

	hashed, err := utils.HashPassword(uuid.NewString())
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to create importer account")
	}
	return NewUser(ctx, rclient, db, ImporterUsername, ImporterUsername+"@gamepulse.dev", hashed,
		WithDescription("Comments imported from Steam"))
}

// Package auth owns identity: tokens, the request middleware, and the
// role capability table every handler is gated by.
package auth

import (
	"github.com/mnuddindev/gamepulse/pkg/logger"
	storage "github.com/mnuddindev/gamepulse/pkg/redis"
	"gorm.io/gorm"
)

// Options bundles the collaborators the auth layer needs. Constructed once
// in main and passed to every middleware.
type Options struct {
	DB        *gorm.DB
	Rclient   *storage.RedisClient
	Logger    *logger.Logger
	JWTSecret []byte
}

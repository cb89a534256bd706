// Package v1 holds the HTTP handlers for the first API version. Shared
// collaborators are package-level and wired once by Setup from main.
package v1

import (
	"github.com/mnuddindev/gamepulse/internal/config"
	"github.com/mnuddindev/gamepulse/internal/steam"
	"github.com/mnuddindev/gamepulse/internal/verify"
	"github.com/mnuddindev/gamepulse/pkg/logger"
	storage "github.com/mnuddindev/gamepulse/pkg/redis"
	"github.com/mnuddindev/gamepulse/pkg/utils"
	"gorm.io/gorm"
)

var (
	DB        *gorm.DB
	Redis     *storage.RedisClient
	Logger    *logger.Logger
	Validator = utils.NewValidator()
	EmailCfg  utils.EmailConfig
	Steam     *steam.Client
	Verifier  *verify.Verifier
	JWTSecret []byte
)

// Setup wires the package collaborators from the resolved configuration.
func Setup(cfg *config.Config, db *gorm.DB, rclient *storage.RedisClient, log *logger.Logger) {
	DB = db
	Redis = rclient
	Logger = log
	JWTSecret = []byte(cfg.JWTSecret)
	EmailCfg = utils.EmailConfig{
		SMTPHost:     cfg.SMTPHost,
		SMTPPort:     cfg.SMTPPort,
		SMTPUsername: cfg.SMTPUser,
		SMTPPassword: cfg.SMTPPass,
		AppURL:       cfg.AppURL,
		FromEmail:    cfg.FromEmail,
	}
	Steam = steam.NewClient(cfg.SteamSpyBaseURL, cfg.SteamStoreBaseURL, cfg.HTTPTimeout, rclient, log)
	Verifier = verify.New(
		verify.Config{Keywords: cfg.VerifyKeywords, AllowedExtensions: cfg.AllowedImageExts},
		verify.NewTesseractExtractor(cfg.OCREnginePath),
	)
}

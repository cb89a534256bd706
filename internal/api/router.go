// Package routes assembles the fiber middleware stack and mounts the v1
// endpoints behind their auth and capability gates.
package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	v1 "github.com/mnuddindev/gamepulse/internal/api/v1"
	"github.com/mnuddindev/gamepulse/internal/auth"
	"github.com/mnuddindev/gamepulse/internal/config"
	"github.com/mnuddindev/gamepulse/pkg/logger"
	storage "github.com/mnuddindev/gamepulse/pkg/redis"
	"gorm.io/gorm"
)

func NewRoutes(ctx context.Context, app *fiber.App, cfg *config.Config, db *gorm.DB, log *logger.Logger, rclient *storage.RedisClient) {
	app.Use(
		logger.SetupLogger(log),
		recover.New(),
		cors.New(
			cors.Config{
				AllowOrigins:     cfg.AppURL,
				AllowCredentials: true,
				AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
			},
		),
		compress.New(
			compress.Config{
				Level: compress.LevelBestCompression,
			},
		),
		limiter.New(
			limiter.Config{
				Expiration: 1 * time.Minute,
				Max:        60,
				KeyGenerator: func(c *fiber.Ctx) string {
					return c.IP()
				},
			},
		),
	)
	app.Use(log.Middleware())

	opt := auth.Options{DB: db, Rclient: rclient, Logger: log, JWTSecret: []byte(cfg.JWTSecret)}

	api := app.Group("/api/v1")

	// Public surface: browsing never needs an account.
	api.Post("/auth/register", v1.Register)
	api.Post("/auth/login", v1.Login)
	api.Post("/auth/logout", v1.Logout)
	api.Get("/games", v1.ListGames)
	api.Get("/games/:id", v1.GetGame)
	api.Get("/games/:id/comments", v1.ListComments)
	api.Get("/games/:id/reviews", v1.ListReviews)

	authed := api.Group("", auth.AuthRequired(opt))
	authed.Get("/me", v1.Profile)

	// Catalogue management.
	authed.Post("/games", auth.RequirePerm(opt, auth.OpGameCreate), v1.CreateGame)
	authed.Put("/games/:id", auth.RequirePerm(opt, auth.OpGameEdit), v1.UpdateGame)
	authed.Delete("/games/:id", auth.RequirePerm(opt, auth.OpGameDelete), v1.DeleteGame)
	authed.Post("/games/:id/import", auth.RequirePerm(opt, auth.OpGameImport), v1.ImportSteamReviews)

	// Comments. Delete is owner-or-moderator, decided in the handler.
	authed.Post("/games/:id/comments", auth.RequirePerm(opt, auth.OpCommentPost), v1.CreateComment)
	authed.Put("/comments/:id", auth.RequirePerm(opt, auth.OpCommentPost), v1.UpdateComment)
	authed.Delete("/comments/:id", v1.DeleteComment)
	authed.Post("/comments/:id/like", auth.RequirePerm(opt, auth.OpCommentLike), v1.LikeComment)
	authed.Delete("/comments/:id/like", auth.RequirePerm(opt, auth.OpCommentLike), v1.UnlikeComment)

	// Reviews. Delete is owner-or-moderator, decided in the handler.
	authed.Post("/games/:id/reviews", auth.RequirePerm(opt, auth.OpReviewPost), v1.CreateReview)
	authed.Put("/reviews/:id", auth.RequirePerm(opt, auth.OpReviewPost), v1.UpdateReview)
	authed.Delete("/reviews/:id", v1.DeleteReview)
	authed.Post("/reviews/:id/vote", auth.RequirePerm(opt, auth.OpReviewVote), v1.VoteReview)

	// Critic self-service, including identity verification.
	critic := authed.Group("/critic", auth.RequirePerm(opt, auth.OpCriticSelf))
	critic.Get("/dashboard", v1.CriticDashboard)
	critic.Put("/profile", v1.UpdateCriticProfile)
	critic.Delete("/account", v1.DeleteCriticAccount)
	critic.Post("/verify", v1.VerifyCritic)

	// User administration.
	admin := authed.Group("/admin", auth.RequirePerm(opt, auth.OpUserAdmin))
	admin.Get("/users", v1.ListUsers)
	admin.Put("/users/:id/role", v1.UpdateUserRole)
	admin.Put("/users/:id/ban", v1.SetUserBan)

	go func() {
		<-ctx.Done()
		rclient.Close(log)
		log.Close()
	}()
}

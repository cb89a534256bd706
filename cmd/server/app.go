package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	routes "github.com/mnuddindev/gamepulse/internal/api"
	v1 "github.com/mnuddindev/gamepulse/internal/api/v1"
	"github.com/mnuddindev/gamepulse/internal/config"
	"github.com/mnuddindev/gamepulse/internal/db"
	"github.com/mnuddindev/gamepulse/internal/models"
	"github.com/mnuddindev/gamepulse/pkg/logger"
	storage "github.com/mnuddindev/gamepulse/pkg/redis"
	"github.com/mnuddindev/gamepulse/pkg/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.NewLogger()
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer log.Close()

	rclient, err := storage.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPass)
	if err != nil {
		log.Error(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Failed to initialize Redis")
		panic(err)
	}
	defer rclient.Close(log)

	gormDB, err := db.NewDB(ctx, cfg.DSN(), models.RegisterModels(), db.WithLogger(log))
	if err != nil {
		log.Error(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Failed to initialize PostgreSQL database")
		panic("DB init failed")
	}
	defer db.CloseDB(log)

	if err := db.Seed(ctx, gormDB, rclient, log); err != nil {
		log.Error(ctx).WithMeta(utils.Map{"error": err.Error()}).Logs("Seeding failed")
		panic("Seed failed")
	}

	v1.Setup(cfg, gormDB, rclient, log)

	app := fiber.New(fiber.Config{
		AppName:   "gamepulse",
		BodyLimit: 10 << 20,
	})
	routes.NewRoutes(ctx, app, cfg, gormDB, log, rclient)

	go func() {
		<-ctx.Done()
		log.Info(context.Background()).Logs("Shutting down")
		app.Shutdown()
	}()

	if err := app.Listen(cfg.ServerAddr); err != nil {
		log.Error(context.Background()).WithMeta(utils.Map{"error": err.Error()}).Logs("Server stopped")
	}
}

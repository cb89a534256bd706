package db

import (
	"context"
	"time"

	games "github.com/mnuddindev/gamepulse/internal/models/games"
	user "github.com/mnuddindev/gamepulse/internal/models/user"
	"github.com/mnuddindev/gamepulse/pkg/logger"
	storage "github.com/mnuddindev/gamepulse/pkg/redis"
	"github.com/mnuddindev/gamepulse/pkg/utils"
	"gorm.io/gorm"
)

// Seed preloads one account per role and a starter catalogue so a fresh
// install is usable immediately. Everything is get-or-create; running twice
// changes nothing.
func Seed(ctx context.Context, gormDB *gorm.DB, rclient *storage.RedisClient, log *logger.Logger) error {
	accounts := []struct {
		Username string
		Email    string
		Role     string
		Password string
	}{
		{"admin", "admin@gamepulse.dev", user.RoleAdmin, "adminpassword"},
		{"moderator", "moderator@gamepulse.dev", user.RoleModerator, "moderatorpassword"},
		{"critic1", "critic1@gamepulse.dev", user.RoleCritic, "critic1password"},
		{"critic2", "critic2@gamepulse.dev", user.RoleCritic, "critic2password"},
	}
	for _, a := range accounts {
		var count int64
		if err := gormDB.WithContext(ctx).Model(&user.User{}).Where("username = ?", a.Username).Count(&count).Error; err != nil {
			return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to check seed user "+a.Username)
		}
		if count > 0 {
			continue
		}
		hashed, err := utils.HashPassword(a.Password)
		if err != nil {
			return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to hash seed password")
		}
		if _, err := user.NewUser(ctx, rclient, gormDB, a.Username, a.Email, hashed, user.WithRole(a.Role)); err != nil {
			return err
		}
		log.Info(ctx).WithMeta(utils.Map{"username": a.Username}).Logs("Seed user created")
	}

	for _, name := range []string{"PC", "PlayStation", "Xbox", "Nintendo"} {
		gormDB.WithContext(ctx).Where(games.Platform{Name: name}).FirstOrCreate(&games.Platform{Name: name})
	}
	for _, name := range []string{"Single-player", "Multiplayer", "Co-op"} {
		gormDB.WithContext(ctx).Where(games.Category{Name: name}).FirstOrCreate(&games.Category{Name: name})
	}
	for _, name := range []string{"Action", "Adventure", "RPG", "Strategy"} {
		gormDB.WithContext(ctx).Where(games.Tag{Name: name}).FirstOrCreate(&games.Tag{Name: name})
	}

	var gameCount int64
	if err := gormDB.WithContext(ctx).Model(&games.Game{}).Count(&gameCount).Error; err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to count games")
	}
	if gameCount > 0 {
		return nil
	}

	now := time.Now()
	starter := []games.Game{
		{Title: "Starfall Odyssey", Description: "Open-world exploration across a dying solar system.", Developer: "Dev Studio 1", Publisher: "Publisher 1", ReleaseDate: &now, AgeRating: 18, Genre: "Action"},
		{Title: "Mossheart", Description: "A quiet adventure about growing a forest back.", Developer: "Dev Studio 2", Publisher: "Publisher 2", ReleaseDate: &now, AgeRating: 16, Genre: "Adventure"},
		{Title: "Ironclad Tactics II", Description: "Turn-based battles with persistent squads.", Developer: "Dev Studio 3", Publisher: "Publisher 3", ReleaseDate: &now, AgeRating: 12, Genre: "Strategy"},
		{Title: "Deeproot", Description: "Party-based RPG set beneath an ancient city.", Developer: "Dev Studio 4", Publisher: "Publisher 4", ReleaseDate: &now, AgeRating: 14, Genre: "RPG"},
	}
	for i := range starter {
		if err := games.CreateGame(ctx, rclient, gormDB, &starter[i]); err != nil {
			return err
		}
	}
	log.Info(ctx).Logs("Starter catalogue seeded")
	return nil
}

package v1

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mnuddindev/gamepulse/internal/models"
	games "github.com/mnuddindev/gamepulse/internal/models/games"
	"github.com/mnuddindev/gamepulse/internal/steam"
	"github.com/mnuddindev/gamepulse/pkg/utils"
)

const gamesPageSize = 10

// GameInput is the admin payload for creating or editing a catalogue entry.
// Platforms, categories and tags arrive as names and are created on demand.
type GameInput struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description" validate:"required"`
	Developer   string   `json:"developer" validate:"omitempty,max=255"`
	Publisher   string   `json:"publisher" validate:"omitempty,max=255"`
	ReleaseDate string   `json:"release_date" validate:"omitempty,datetime=2006-01-02"`
	AgeRating   int      `json:"age_rating" validate:"gte=0,lte=21"`
	Genre       string   `json:"genre" validate:"omitempty,max=255"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url,max=500"`
	SteamAppID  *int     `json:"steam_app_id" validate:"omitempty,gt=0"`
	Hidden      bool     `json:"hidden"`
	Platforms   []string `json:"platforms" validate:"omitempty,dive,max=255"`
	Categories  []string `json:"categories" validate:"omitempty,dive,max=255"`
	Tags        []string `json:"tags" validate:"omitempty,dive,max=255"`
}

// ListGames pages through the visible catalogue, newest first.
func ListGames(c *fiber.Ctx) error {
	page := utils.ParsePage(c.Query("page"))
	list, meta, err := games.GetGames(c.Context(), DB, page, gamesPageSize)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithData(fiber.Map{"games": list, "pagination": meta}).Send()
}

// GetGame returns one game with its taxonomy, enriched with Steam community
// stats when the game is linked to a Steam app. A SteamSpy outage degrades
// to "Unavailable" values plus a notice; the page itself always loads.
func GetGame(c *fiber.Ctx) error {
	gameID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, utils.NewError(utils.ErrBadRequest.Code, "Invalid game id"))
	}

	game, err := games.GetGameBy(c.Context(), DB, "id = ? AND hidden = ?", []interface{}{gameID, false},
		"Platforms", "Categories", "Tags")
	if err != nil {
		return utils.SendError(c, err)
	}

	resp := utils.Success(c)
	data := fiber.Map{"game": game}
	if game.SteamAppID != nil {
		stats := Steam.Stats(c.Context(), *game.SteamAppID)
		data["steam_stats"] = stats
		if stats == steam.UnavailableStats() {
			resp.WithNotice("Steam stats are currently unavailable")
		}
	}
	return resp.WithData(data).Send()
}

// CreateGame adds a catalogue entry. Admin only.
func CreateGame(c *fiber.Ctx) error {
	gi := new(GameInput)
	if err := utils.StrictBodyParser(c, &gi); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request format"})
	}
	if err := Validator.Validate(gi); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "details": err})
	}

	game := &models.Game{}
	if err := applyGameInput(c, gi, game); err != nil {
		return utils.SendError(c, err)
	}
	if err := games.CreateGame(c.Context(), Redis, DB, game); err != nil {
		return utils.SendError(c, err)
	}

	Logger.Info(c.Context()).WithMeta(utils.Map{"title": game.Title}).Logs("Game created")
	return utils.Success(c).WithMessage("Game created").WithData(game).Send()
}

// UpdateGame edits a catalogue entry, including visibility. Admin and
// moderator.
func UpdateGame(c *fiber.Ctx) error {
	gameID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, utils.NewError(utils.ErrBadRequest.Code, "Invalid game id"))
	}
	gi := new(GameInput)
	if err := utils.StrictBodyParser(c, &gi); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request format"})
	}
	if err := Validator.Validate(gi); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "details": err})
	}

	game, err := games.GetGameBy(c.Context(), DB, "id = ?", []interface{}{gameID})
	if err != nil {
		return utils.SendError(c, err)
	}
	if err := applyGameInput(c, gi, game); err != nil {
		return utils.SendError(c, err)
	}
	if err := games.UpdateGame(c.Context(), Redis, DB, game); err != nil {
		return utils.SendError(c, err)
	}

	Logger.Info(c.Context()).WithMeta(utils.Map{"title": game.Title}).Logs("Game updated")
	return utils.Success(c).WithMessage("Game updated").WithData(game).Send()
}

// DeleteGame removes a game and everything hanging off it. Admin only.
func DeleteGame(c *fiber.Ctx) error {
	gameID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, utils.NewError(utils.ErrBadRequest.Code, "Invalid game id"))
	}
	game, err := games.GetGameBy(c.Context(), DB, "id = ?", []interface{}{gameID})
	if err != nil {
		return utils.SendError(c, err)
	}
	if err := games.DeleteGame(c.Context(), Redis, DB, game); err != nil {
		return utils.SendError(c, err)
	}

	Logger.Info(c.Context()).WithMeta(utils.Map{"title": game.Title}).Logs("Game deleted")
	return utils.Success(c).WithMessage("Game deleted").Send()
}

// ImportSteamReviews replaces the synthetic importer's comments on a game
// with a fresh pull from the Steam store. Prior imported comments are always
// cleared first so reruns never stack duplicates.
func ImportSteamReviews(c *fiber.Ctx) error {
	gameID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, utils.NewError(utils.ErrBadRequest.Code, "Invalid game id"))
	}
	game, err := games.GetGameBy(c.Context(), DB, "id = ?", []interface{}{gameID})
	if err != nil {
		return utils.SendError(c, err)
	}
	if game.SteamAppID == nil {
		return utils.SendError(c, utils.NewError(utils.ErrBadRequest.Code, "Game is not linked to a Steam app"))
	}

	importer, err := models.GetImporter(c.Context(), Redis, DB)
	if err != nil {
		return utils.SendError(c, err)
	}

	// Delete prior, then refetch: a rerun always starts clean, even when the
	// fetch then fails.
	if err := games.DeleteCommentsByAuthor(c.Context(), DB, game.ID, importer.ID); err != nil {
		return utils.SendError(c, err)
	}

	texts, err := Steam.Reviews(c.Context(), *game.SteamAppID)
	if err != nil {
		// Degraded, not fatal: the operator is told nothing came in.
		Logger.Warn(c.Context()).WithMeta(utils.Map{"game": game.Title, "error": err.Error()}).Logs("Steam import fetch failed")
		return utils.Success(c).
			WithMessage("Imported 0 Steam reviews").
			WithNotice("Steam could not be reached; no reviews were imported").
			WithData(fiber.Map{"imported": 0}).
			Send()
	}

	imported := 0
	for _, text := range texts {
		comment := &models.Comment{Content: text, GameID: game.ID, AuthorID: importer.ID}
		if err := games.CreateComment(c.Context(), DB, comment); err != nil {
			Logger.Warn(c.Context()).WithMeta(utils.Map{"error": err.Error()}).Logs("Skipping unimportable Steam review")
			continue
		}
		imported++
	}

	Logger.Info(c.Context()).WithMeta(utils.Map{"game": game.Title, "count": fmt.Sprintf("%d", imported)}).Logs("Steam reviews imported")
	return utils.Success(c).
		WithMessage(fmt.Sprintf("Imported %d Steam reviews", imported)).
		WithData(fiber.Map{"imported": imported}).
		Send()
}

// applyGameInput copies the validated payload onto the model and resolves
// taxonomy names to rows, creating missing ones.
func applyGameInput(c *fiber.Ctx, gi *GameInput, game *models.Game) error {
	game.Title = gi.Title
	game.Description = gi.Description
	game.Developer = gi.Developer
	game.Publisher = gi.Publisher
	game.AgeRating = gi.AgeRating
	game.Genre = gi.Genre
	game.ImageURL = gi.ImageURL
	game.SteamAppID = gi.SteamAppID
	game.Hidden = gi.Hidden

	if gi.ReleaseDate != "" {
		released, err := time.Parse("2006-01-02", gi.ReleaseDate)
		if err != nil {
			return utils.NewError(utils.ErrBadRequest.Code, "Invalid release date")
		}
		game.ReleaseDate = &released
	}

	platforms := make([]models.Platform, 0, len(gi.Platforms))
	for _, name := range gi.Platforms {
		var p models.Platform
		if err := DB.WithContext(c.Context()).Where(models.Platform{Name: name}).
			Attrs(models.Platform{ID: uuid.New()}).FirstOrCreate(&p).Error; err != nil {
			return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to resolve platform")
		}
		platforms = append(platforms, p)
	}
	game.Platforms = platforms

	categories := make([]models.Category, 0, len(gi.Categories))
	for _, name := range gi.Categories {
		var cat models.Category
		if err := DB.WithContext(c.Context()).Where(models.Category{Name: name}).
			Attrs(models.Category{ID: uuid.New()}).FirstOrCreate(&cat).Error; err != nil {
			return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to resolve category")
		}
		categories = append(categories, cat)
	}
	game.Categories = categories

	tags := make([]models.Tag, 0, len(gi.Tags))
	for _, name := range gi.Tags {
		var tag models.Tag
		if err := DB.WithContext(c.Context()).Where(models.Tag{Name: name}).
			Attrs(models.Tag{ID: uuid.New()}).FirstOrCreate(&tag).Error; err != nil {
			return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to resolve tag")
		}
		tags = append(tags, tag)
	}
	game.Tags = tags

	return nil
}

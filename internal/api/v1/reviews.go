package v1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mnuddindev/gamepulse/internal/auth"
	"github.com/mnuddindev/gamepulse/internal/models"
	games "github.com/mnuddindev/gamepulse/internal/models/games"
	"github.com/mnuddindev/gamepulse/pkg/utils"
)

const reviewsPageSize = 10

// ListReviews pages through a game's critic reviews, newest first.
func ListReviews(c *fiber.Ctx) error {
	gameID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, utils.NewError(utils.ErrBadRequest.Code, "Invalid game id"))
	}
	page := utils.ParsePage(c.Query("page"))
	reviews, meta, err := games.GetReviewsByGame(c.Context(), DB, gameID, page, reviewsPageSize)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithData(fiber.Map{"reviews": reviews, "pagination": meta}).Send()
}

// CreateReview posts a critic's review. One per critic per game; the game's
// average rating updates in the same transaction.
func CreateReview(c *fiber.Ctx) error {
	type ReviewInput struct {
		Title  string `json:"title" validate:"required,max=255"`
		Body   string `json:"body" validate:"required,min=10"`
		Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	}
	gameID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, utils.NewError(utils.ErrBadRequest.Code, "Invalid game id"))
	}
	ri := new(ReviewInput)
	if err := utils.StrictBodyParser(c, &ri); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request format"})
	}
	if err := Validator.Validate(ri); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "details": err})
	}

	acting := auth.CurrentUser(c)
	if acting == nil {
		return utils.SendError(c, utils.ErrUnauthorized)
	}
	if _, err := games.GetGameBy(c.Context(), DB, "id = ?", []interface{}{gameID}); err != nil {
		return utils.SendError(c, err)
	}

	review := &models.Review{
		Title:    ri.Title,
		Body:     ri.Body,
		Rating:   ri.Rating,
		GameID:   gameID,
		AuthorID: acting.ID,
	}
	if err := games.CreateReview(c.Context(), DB, review); err != nil {
		return utils.SendError(c, err)
	}

	Logger.Info(c.Context()).WithMeta(utils.Map{"game": gameID.String(), "critic": acting.Username}).Logs("Review posted")
	return utils.Success(c).WithMessage("Review posted").WithData(review).Send()
}

// UpdateReview edits a review. Only the author; the average recomputes with
// the edit.
func UpdateReview(c *fiber.Ctx) error {
	type ReviewInput struct {
		Title  string `json:"title" validate:"required,max=255"`
		Body   string `json:"body" validate:"required,min=10"`
		Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	}
	reviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, utils.NewError(utils.ErrBadRequest.Code, "Invalid review id"))
	}
	ri := new(ReviewInput)
	if err := utils.StrictBodyParser(c, &ri); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request format"})
	}
	if err := Validator.Validate(ri); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "details": err})
	}

	review, err := games.GetReviewBy(c.Context(), DB, "id = ?", []interface{}{reviewID})
	if err != nil {
		return utils.SendError(c, err)
	}
	acting := auth.CurrentUser(c)
	if acting == nil || acting.ID != review.AuthorID {
		return utils.SendError(c, utils.NewError(utils.ErrForbidden.Code, "You can only edit your own reviews"))
	}

	review.Title = ri.Title
	review.Body = ri.Body
	review.Rating = ri.Rating
	if err := games.UpdateReview(c.Context(), DB, review); err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithMessage("Review updated").WithData(review).Send()
}

// DeleteReview removes a review. The author or a moderator.
func DeleteReview(c *fiber.Ctx) error {
	reviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, utils.NewError(utils.ErrBadRequest.Code, "Invalid review id"))
	}
	review, err := games.GetReviewBy(c.Context(), DB, "id = ?", []interface{}{reviewID})
	if err != nil {
		return utils.SendError(c, err)
	}

	acting := auth.CurrentUser(c)
	if acting == nil {
		return utils.SendError(c, utils.ErrUnauthorized)
	}
	if acting.ID != review.AuthorID && !auth.Allowed(auth.OpReviewMod, acting.Role) {
		return utils.SendError(c, utils.NewError(utils.ErrForbidden.Code, "You are not authorized to perform this action"))
	}

	if err := games.DeleteReview(c.Context(), DB, review); err != nil {
		return utils.SendError(c, err)
	}
	Logger.Info(c.Context()).WithMeta(utils.Map{"review": reviewID.String(), "by": acting.Username}).Logs("Review deleted")
	return utils.Success(c).WithMessage("Review deleted").Send()
}

// VoteReview records one helpfulness vote. Voting twice is rejected; the
// returned count is read back after the increment commits.
func VoteReview(c *fiber.Ctx) error {
	reviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, utils.NewError(utils.ErrBadRequest.Code, "Invalid review id"))
	}
	acting := auth.CurrentUser(c)
	if acting == nil {
		return utils.SendError(c, utils.ErrUnauthorized)
	}
	if _, err := games.GetReviewBy(c.Context(), DB, "id = ?", []interface{}{reviewID}); err != nil {
		return utils.SendError(c, err)
	}

	votes, err := games.VoteHelpful(c.Context(), DB, reviewID, acting.ID)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithData(fiber.Map{"helpful_votes": votes}).Send()
}

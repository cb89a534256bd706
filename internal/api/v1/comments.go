package v1

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mnuddindev/gamepulse/internal/auth"
	"github.com/mnuddindev/gamepulse/internal/models"
	games "github.com/mnuddindev/gamepulse/internal/models/games"
	"github.com/mnuddindev/gamepulse/pkg/utils"
)

// ListComments returns one page of a game's comment thread: top-level
// comments in insertion order, each with its first replies. `page_size`
// overrides the default and is honored as sent.
func ListComments(c *fiber.Ctx) error {
	gameID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, utils.NewError(utils.ErrBadRequest.Code, "Invalid game id"))
	}
	if _, err := games.GetGameBy(c.Context(), DB, "id = ?", []interface{}{gameID}); err != nil {
		return utils.SendError(c, err)
	}

	page := utils.ParsePage(c.Query("page"))
	pageSize := games.DefaultCommentPageSize
	if raw := c.Query("page_size"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			pageSize = parsed
		}
	}

	thread, err := games.GetCommentThread(c.Context(), DB, gameID, page, pageSize)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, thread)
}

// CreateComment posts a comment or a reply on a game. Any signed-in role.
func CreateComment(c *fiber.Ctx) error {
	type CommentInput struct {
		Content  string `json:"content" validate:"required,min=1,max=2000"`
		ParentID string `json:"parent_id" validate:"omitempty,uuid"`
	}
	gameID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, utils.NewError(utils.ErrBadRequest.Code, "Invalid game id"))
	}
	ci := new(CommentInput)
	if err := utils.StrictBodyParser(c, &ci); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request format"})
	}
	if err := Validator.Validate(ci); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "details": err})
	}

	acting := auth.CurrentUser(c)
	if acting == nil {
		return utils.SendError(c, utils.ErrUnauthorized)
	}
	if _, err := games.GetGameBy(c.Context(), DB, "id = ?", []interface{}{gameID}); err != nil {
		return utils.SendError(c, err)
	}

	comment := &models.Comment{Content: ci.Content, GameID: gameID, AuthorID: acting.ID}
	if ci.ParentID != "" {
		parentID, err := uuid.Parse(ci.ParentID)
		if err != nil {
			return utils.SendError(c, utils.NewError(utils.ErrBadRequest.Code, "Invalid parent comment id"))
		}
		comment.ParentID = &parentID
	}

	if err := games.CreateComment(c.Context(), DB, comment); err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithMessage("Comment posted").WithData(comment).Send()
}

// UpdateComment edits comment text. Only the author may edit; the edited
// flag is set permanently.
func UpdateComment(c *fiber.Ctx) error {
	type CommentInput struct {
		Content string `json:"content" validate:"required,min=1,max=2000"`
	}
	commentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, utils.NewError(utils.ErrBadRequest.Code, "Invalid comment id"))
	}
	ci := new(CommentInput)
	if err := utils.StrictBodyParser(c, &ci); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request format"})
	}
	if err := Validator.Validate(ci); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "details": err})
	}

	comment, err := games.GetCommentBy(c.Context(), DB, "id = ?", []interface{}{commentID})
	if err != nil {
		return utils.SendError(c, err)
	}
	acting := auth.CurrentUser(c)
	if acting == nil || acting.ID != comment.AuthorID {
		return utils.SendError(c, utils.NewError(utils.ErrForbidden.Code, "You can only edit your own comments"))
	}

	if err := games.UpdateComment(c.Context(), DB, comment, ci.Content); err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithMessage("Comment updated").WithData(comment).Send()
}

// DeleteComment removes a comment and its replies. Authors may delete their
// own; moderators may delete anyone's.
func DeleteComment(c *fiber.Ctx) error {
	commentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, utils.NewError(utils.ErrBadRequest.Code, "Invalid comment id"))
	}
	comment, err := games.GetCommentBy(c.Context(), DB, "id = ?", []interface{}{commentID})
	if err != nil {
		return utils.SendError(c, err)
	}

	acting := auth.CurrentUser(c)
	if acting == nil {
		return utils.SendError(c, utils.ErrUnauthorized)
	}
	if acting.ID != comment.AuthorID && !auth.Allowed(auth.OpCommentMod, acting.Role) {
		return utils.SendError(c, utils.NewError(utils.ErrForbidden.Code, "You are not authorized to perform this action"))
	}

	if err := games.DeleteComment(c.Context(), DB, comment); err != nil {
		return utils.SendError(c, err)
	}
	Logger.Info(c.Context()).WithMeta(utils.Map{"comment": commentID.String(), "by": acting.Username}).Logs("Comment deleted")
	return utils.Success(c).WithMessage("Comment deleted").Send()
}

// LikeComment records one like; duplicates come back as a conflict.
func LikeComment(c *fiber.Ctx) error {
	commentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, utils.NewError(utils.ErrBadRequest.Code, "Invalid comment id"))
	}
	acting := auth.CurrentUser(c)
	if acting == nil {
		return utils.SendError(c, utils.ErrUnauthorized)
	}
	if _, err := games.GetCommentBy(c.Context(), DB, "id = ?", []interface{}{commentID}); err != nil {
		return utils.SendError(c, err)
	}

	count, err := games.LikeComment(c.Context(), DB, commentID, acting.ID)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithData(fiber.Map{"likes": count}).Send()
}

// UnlikeComment removes the acting user's like if present.
func UnlikeComment(c *fiber.Ctx) error {
	commentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, utils.NewError(utils.ErrBadRequest.Code, "Invalid comment id"))
	}
	acting := auth.CurrentUser(c)
	if acting == nil {
		return utils.SendError(c, utils.ErrUnauthorized)
	}

	count, err := games.UnlikeComment(c.Context(), DB, commentID, acting.ID)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithData(fiber.Map{"likes": count}).Send()
}

package v1

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/mnuddindev/gamepulse/internal/auth"
	"github.com/mnuddindev/gamepulse/internal/models"
	user "github.com/mnuddindev/gamepulse/internal/models/user"
	"github.com/mnuddindev/gamepulse/pkg/utils"
)

// maxCredentialSize bounds credential uploads at 8 MiB.
const maxCredentialSize = 8 << 20

// CriticDashboard lists the acting critic's reviews with their vote counts.
func CriticDashboard(c *fiber.Ctx) error {
	acting := auth.CurrentUser(c)
	if acting == nil {
		return utils.SendError(c, utils.ErrUnauthorized)
	}

	var reviews []models.Review
	if err := DB.WithContext(c.Context()).
		Where("author_id = ?", acting.ID).Order("created_at desc").
		Find(&reviews).Error; err != nil {
		return utils.SendError(c, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to fetch reviews"))
	}

	return utils.Success(c).WithData(fiber.Map{
		"critic":  acting,
		"reviews": reviews,
	}).Send()
}

// UpdateCriticProfile edits the critic-facing profile fields.
func UpdateCriticProfile(c *fiber.Ctx) error {
	type ProfileInput struct {
		Publication string `json:"publication" validate:"omitempty,max=255"`
		Description string `json:"description" validate:"omitempty,max=255"`
		AvatarURL   string `json:"avatar_url" validate:"omitempty,url,max=500"`
	}
	pi := new(ProfileInput)
	if err := utils.StrictBodyParser(c, &pi); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request format"})
	}
	if err := Validator.Validate(pi); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "details": err})
	}

	acting := auth.CurrentUser(c)
	if acting == nil {
		return utils.SendError(c, utils.ErrUnauthorized)
	}

	if err := user.UpdateUser(c.Context(), Redis, DB, acting,
		user.WithPublication(pi.Publication),
		user.WithDescription(pi.Description),
		user.WithAvatarURL(pi.AvatarURL)); err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithMessage("Profile updated").WithData(acting).Send()
}

// DeleteCriticAccount removes the acting critic's account after a password
// confirmation. Their reviews stay; the author reference just dangles into a
// deleted row like any other removed user.
func DeleteCriticAccount(c *fiber.Ctx) error {
	type ConfirmInput struct {
		Password string `json:"password" validate:"required"`
	}
	ci := new(ConfirmInput)
	if err := utils.StrictBodyParser(c, &ci); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request format"})
	}

	acting := auth.CurrentUser(c)
	if acting == nil {
		return utils.SendError(c, utils.ErrUnauthorized)
	}
	if err := utils.ComparePasswords(acting.Password, ci.Password); err != nil {
		return utils.SendError(c, utils.NewError(utils.ErrUnauthorized.Code, "Password confirmation failed"))
	}

	if err := user.DeleteUser(c.Context(), Redis, DB, acting); err != nil {
		return utils.SendError(c, err)
	}
	c.ClearCookie("access_token")
	c.ClearCookie("refresh_token")
	Logger.Info(c.Context()).WithMeta(utils.Map{"user": acting.Username}).Logs("Critic account deleted")
	return utils.Success(c).WithMessage("Account deleted").Send()
}

// VerifyCritic runs the credential check: the critic re-enters their
// password and uploads a document image; if the pipeline verifies it the
// account is marked verified and a confirmation email goes out. A rejected
// document is a normal response, not an error.
func VerifyCritic(c *fiber.Ctx) error {
	acting := auth.CurrentUser(c)
	if acting == nil {
		return utils.SendError(c, utils.ErrUnauthorized)
	}

	// Wrong password is distinct from a rejected document.
	password := c.FormValue("password")
	if password == "" {
		return utils.SendError(c, utils.NewError(utils.ErrBadRequest.Code, "Password confirmation is required"))
	}
	if err := utils.ComparePasswords(acting.Password, password); err != nil {
		Logger.Warn(c.Context()).WithMeta(utils.Map{"user": acting.Username}).Logs("Verification password check failed")
		return utils.SendError(c, utils.NewError(utils.ErrUnauthorized.Code, "Password confirmation failed"))
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		return utils.SendError(c, utils.NewError(utils.ErrBadRequest.Code, "A credential image is required"))
	}
	if !Verifier.AllowedExtension(fileHeader.Filename) {
		return utils.SendError(c, utils.NewError(utils.ErrBadRequest.Code, "Unsupported image type"))
	}
	if fileHeader.Size > maxCredentialSize {
		return utils.SendError(c, utils.NewError(utils.ErrBadRequest.Code, "Image too large"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.SendError(c, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to read upload"))
	}
	defer file.Close()
	imageData, err := io.ReadAll(io.LimitReader(file, maxCredentialSize))
	if err != nil {
		return utils.SendError(c, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to read upload"))
	}

	result, verr := Verifier.Verify(c.Context(), imageData)
	if verr != nil {
		// Fail closed: a broken upload or a dead OCR engine rejects.
		Logger.Warn(c.Context()).WithMeta(utils.Map{"user": acting.Username, "error": verr.Error()}).Logs("Credential pipeline failed, rejecting")
	}

	if !result.Verified {
		return utils.Success(c).
			WithMessage("We could not verify this document. Make sure the credential text is readable.").
			WithData(fiber.Map{"verified": false, "confidence": result.Confidence}).
			Send()
	}

	if err := user.UpdateUser(c.Context(), Redis, DB, acting, user.WithVerified(true)); err != nil {
		return utils.SendError(c, err)
	}

	resp := utils.Success(c).
		WithMessage("Your critic identity has been verified.").
		WithData(fiber.Map{"verified": true, "confidence": result.Confidence})
	if err := utils.SendCriticVerifiedEmail(c.Context(), EmailCfg, acting.Email, acting.Username, result.Confidence, Logger); err != nil {
		Logger.Warn(c.Context()).WithMeta(utils.Map{"error": err.Error()}).Logs("Verification email failed to send")
		resp.WithNotice("Verified, but the confirmation email could not be sent")
	}

	Logger.Info(c.Context()).WithMeta(utils.Map{"user": acting.Username}).Logs("Critic verified")
	return resp.Send()
}

package v1

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mnuddindev/gamepulse/internal/auth"
	"github.com/mnuddindev/gamepulse/internal/models"
	user "github.com/mnuddindev/gamepulse/internal/models/user"
	"github.com/mnuddindev/gamepulse/pkg/utils"
)

// Register creates a regular account. Role is always "user"; critics and
// moderators are promoted by an admin afterwards.
func Register(c *fiber.Ctx) error {
	type UserInput struct {
		Username        string `json:"username" validate:"required,min=3,max=50,alphanum"`
		Email           string `json:"email" validate:"required,email,max=100"`
		Password        string `json:"password" validate:"required,min=6,eqfield=ConfirmPassword"`
		ConfirmPassword string `json:"confirm_password" validate:"required,min=6"`
		AvatarURL       string `json:"avatar_url" validate:"omitempty,url"`
	}
	ui := new(UserInput)
	if err := utils.StrictBodyParser(c, &ui); err != nil {
		Logger.Warn(c.Context()).WithMeta(utils.Map{"error": err.Error()}).Logs("Failed to parse registration body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format",
		})
	}

	if err := Validator.Validate(ui); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": err,
		})
	}

	ui.Email = strings.ToLower(strings.TrimSpace(ui.Email))

	hashedPass, err := utils.HashPassword(ui.Password)
	if err != nil {
		Logger.Error(c.Context()).WithMeta(utils.Map{"error": err.Error()}).Logs("Failed to hash password")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process password",
		})
	}

	u, err := models.NewUser(c.Context(), Redis, DB, ui.Username, ui.Email, hashedPass,
		user.WithRole(user.RoleUser), user.WithAvatarURL(ui.AvatarURL))
	if err != nil {
		return utils.SendError(c, err)
	}

	Logger.Info(c.Context()).Logs(fmt.Sprintf("User registered: %s (ID: %s)", u.Username, u.ID.String()))
	return utils.Success(c).
		WithMessage("Registration successful. You can log in now.").
		WithData(fiber.Map{"id": u.ID, "username": u.Username, "email": u.Email}).
		Send()
}

// Login checks credentials and issues the cookie token pair.
func Login(c *fiber.Ctx) error {
	type LoginInput struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	li := new(LoginInput)
	if err := utils.StrictBodyParser(c, &li); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request format"})
	}
	if err := Validator.Validate(li); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "details": err})
	}

	li.Email = strings.ToLower(strings.TrimSpace(li.Email))

	u, err := models.GetUserBy(c.Context(), Redis, DB, "email = ?", []interface{}{li.Email})
	if err != nil {
		// Same response for unknown email and wrong password.
		return utils.SendError(c, utils.ErrUnauthorized)
	}
	if err := utils.ComparePasswords(u.Password, li.Password); err != nil {
		Logger.Warn(c.Context()).WithMeta(utils.Map{"email": li.Email}).Logs("Failed login attempt")
		return utils.SendError(c, utils.ErrUnauthorized)
	}
	if u.Banned {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Your account has been banned. Contact support for more information.",
		})
	}
	if u.Username == user.ImporterUsername {
		return utils.SendError(c, utils.ErrUnauthorized)
	}

	accessToken, err := auth.GenerateAccessToken(JWTSecret, u.ID.String(), u.Role)
	if err != nil {
		Logger.Error(c.Context()).WithMeta(utils.Map{"error": err.Error()}).Logs("Failed to sign access token")
		return utils.SendError(c, utils.ErrInternalServerError)
	}
	refreshToken := auth.GenerateRefreshToken()
	refreshData, _ := json.Marshal(map[string]string{"user_id": u.ID.String(), "ip": c.IP()})
	Redis.Set(c.Context(), "refresh:"+refreshToken, refreshData, auth.RefreshTokenTTL)
	auth.SetSessionCookies(c, accessToken, refreshToken)

	now := time.Now()
	u.LastLogin = &now
	if err := user.UpdateUser(c.Context(), Redis, DB, u); err != nil {
		Logger.Warn(c.Context()).WithMeta(utils.Map{"error": err.Error()}).Logs("Failed to record last login")
	}

	return utils.Success(c).
		WithMessage("Logged in").
		WithData(fiber.Map{"id": u.ID, "username": u.Username, "role": u.Role, "verified": u.Verified}).
		Send()
}

// Logout blacklists the current access token and drops the refresh token.
func Logout(c *fiber.Ctx) error {
	accessToken := c.Cookies("access_token")
	refreshToken := c.Cookies("refresh_token")

	if accessToken != "" {
		Redis.Set(c.Context(), "blacklist:access:"+accessToken, "1", auth.AccessTokenTTL)
	}
	if refreshToken != "" {
		Redis.Del(c.Context(), "refresh:"+refreshToken)
	}
	c.ClearCookie("access_token")
	c.ClearCookie("refresh_token")

	return utils.Success(c).WithMessage("Logged out").Send()
}

// Profile returns the acting user's own account.
func Profile(c *fiber.Ctx) error {
	u := auth.CurrentUser(c)
	if u == nil {
		return utils.SendError(c, utils.ErrUnauthorized)
	}
	return utils.SendSuccess(c, u)
}

// ListUsers pages through all accounts. Admin only.
func ListUsers(c *fiber.Ctx) error {
	page := utils.ParsePage(c.Query("page"))
	users, meta, err := user.GetUsers(c.Context(), DB, page, 20)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.Success(c).WithData(fiber.Map{"users": users, "pagination": meta}).Send()
}

// UpdateUserRole sets a user's role. Admin only; admins cannot change their
// own role, which would make lockouts too easy.
func UpdateUserRole(c *fiber.Ctx) error {
	type RoleInput struct {
		Role string `json:"role" validate:"required,oneof=admin moderator critic user"`
	}
	ri := new(RoleInput)
	if err := utils.StrictBodyParser(c, &ri); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request format"})
	}
	if err := Validator.Validate(ri); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "details": err})
	}

	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, utils.NewError(utils.ErrBadRequest.Code, "Invalid user id"))
	}
	target, err := models.GetUserBy(c.Context(), Redis, DB, "id = ?", []interface{}{targetID})
	if err != nil {
		return utils.SendError(c, err)
	}
	acting := auth.CurrentUser(c)
	if acting != nil && acting.ID == target.ID {
		return utils.SendError(c, utils.NewError(utils.ErrForbidden.Code, "You cannot change your own role"))
	}
	if target.Username == user.ImporterUsername {
		return utils.SendError(c, utils.NewError(utils.ErrForbidden.Code, "The import account cannot be promoted"))
	}

	if err := user.UpdateUser(c.Context(), Redis, DB, target, user.WithRole(ri.Role)); err != nil {
		return utils.SendError(c, err)
	}
	Logger.Info(c.Context()).WithMeta(utils.Map{"user": target.Username, "role": ri.Role}).Logs("Role updated")
	return utils.Success(c).WithMessage("Role updated").WithData(target).Send()
}

// SetUserBan bans or unbans an account. Admin only. A banned user's sessions
// die on the next request via the middleware ban gate.
func SetUserBan(c *fiber.Ctx) error {
	type BanInput struct {
		Banned bool `json:"banned"`
	}
	bi := new(BanInput)
	if err := utils.StrictBodyParser(c, &bi); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request format"})
	}

	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, utils.NewError(utils.ErrBadRequest.Code, "Invalid user id"))
	}
	target, err := models.GetUserBy(c.Context(), Redis, DB, "id = ?", []interface{}{targetID})
	if err != nil {
		return utils.SendError(c, err)
	}
	acting := auth.CurrentUser(c)
	if acting != nil && acting.ID == target.ID {
		return utils.SendError(c, utils.NewError(utils.ErrForbidden.Code, "You cannot ban yourself"))
	}

	if err := user.UpdateUser(c.Context(), Redis, DB, target, user.WithBanned(bi.Banned)); err != nil {
		return utils.SendError(c, err)
	}
	action := "unbanned"
	if bi.Banned {
		action = "banned"
	}
	Logger.Info(c.Context()).WithMeta(utils.Map{"user": target.Username}).Logs("Account " + action)
	return utils.Success(c).WithMessage("Account " + action).WithData(target).Send()
}

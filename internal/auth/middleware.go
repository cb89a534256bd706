package auth

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mnuddindev/gamepulse/internal/models"
)

// UserKey is the fiber local holding the loaded *models.User for the request.
const UserKey = "current_user"

// AuthRequired validates the access token cookie, refreshing it from the
// refresh token when expired, loads the acting user, and rejects banned
// accounts with a distinct message. Downstream handlers read the user from
// c.Locals(UserKey).
func AuthRequired(opt Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := c.Cookies("access_token")
		refreshToken := c.Cookies("refresh_token")

		if accessToken != "" && opt.Rclient.Exists(c.Context(), "blacklist:access:"+accessToken).Val() > 0 {
			opt.Logger.Warn(c.Context()).Logs("Attempted use of blacklisted access token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Access token has been invalidated",
			})
		}

		claims, err := VerifyToken(opt.JWTSecret, accessToken)
		if err != nil {
			newAccessToken, refreshErr := refreshSession(c, opt, refreshToken)
			if refreshErr != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
			}
			claims, err = VerifyToken(opt.JWTSecret, newAccessToken)
			if err != nil {
				opt.Logger.Warn(c.Context()).WithMeta(map[string]string{"error": err.Error()}).Logs("Invalid access token after refresh")
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid access token"})
			}
		}

		user, err := models.GetUserBy(c.Context(), opt.Rclient, opt.DB, "id = ?", []interface{}{claims.UserID})
		if err != nil {
			c.ClearCookie("access_token")
			c.ClearCookie("refresh_token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found"})
		}

		if user.Banned {
			c.ClearCookie("access_token")
			c.ClearCookie("refresh_token")
			opt.Logger.Warn(c.Context()).Logs("Banned account attempted access: " + user.Username)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Your account has been banned. Contact support for more information.",
			})
		}

		if claims.Role != user.Role {
			// Role changed since the token was minted; force a fresh login.
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Role mismatch"})
		}

		c.Locals("user_id", claims.UserID)
		c.Locals(UserKey, user)
		return c.Next()
	}
}

// CurrentUser pulls the loaded user out of the request context.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(UserKey).(*models.User)
	return user
}

// refreshSession spends the refresh token for a new token pair.
func refreshSession(c *fiber.Ctx, opt Options, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrInvalidToken
	}
	if opt.Rclient.Exists(c.Context(), "blacklist:refresh:"+refreshToken).Val() > 0 {
		opt.Logger.Warn(c.Context()).Logs("Attempted use of blacklisted refresh token")
		return "", ErrInvalidToken
	}

	refreshKey := "refresh:" + refreshToken
	refreshDataJSON, err := opt.Rclient.Get(c.Context(), refreshKey).Result()
	if err != nil || refreshDataJSON == "" {
		return "", ErrExpiredToken
	}

	var refreshData map[string]string
	if err := json.Unmarshal([]byte(refreshDataJSON), &refreshData); err != nil {
		opt.Logger.Error(c.Context()).WithMeta(map[string]string{"error": err.Error()}).Logs("Failed to parse refresh data")
		return "", ErrInvalidToken
	}

	userID := refreshData["user_id"]
	if userID == "" {
		return "", ErrInvalidToken
	}
	if refreshData["ip"] != c.IP() {
		opt.Rclient.Del(c.Context(), refreshKey)
		opt.Logger.Warn(c.Context()).Logs("Refresh token IP mismatch for user " + userID)
		return "", ErrInvalidToken
	}

	user, err := models.GetUserBy(c.Context(), opt.Rclient, opt.DB, "id = ?", []interface{}{userID})
	if err != nil {
		return "", ErrInvalidToken
	}

	newAccessToken, err := GenerateAccessToken(opt.JWTSecret, user.ID.String(), user.Role)
	if err != nil {
		return "", err
	}
	newRefreshToken := GenerateRefreshToken()

	newRefreshData, _ := json.Marshal(map[string]string{"user_id": user.ID.String(), "ip": c.IP()})
	opt.Rclient.Set(c.Context(), "refresh:"+newRefreshToken, newRefreshData, RefreshTokenTTL)
	opt.Rclient.Del(c.Context(), refreshKey)

	SetSessionCookies(c, newAccessToken, newRefreshToken)
	return newAccessToken, nil
}

// SetSessionCookies writes the token pair as HTTP-only cookies.
func SetSessionCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Expires:  time.Now().Add(AccessTokenTTL),
		HTTPOnly: true,
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Expires:  time.Now().Add(RefreshTokenTTL),
		HTTPOnly: true,
	})
}

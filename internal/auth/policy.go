package auth

import (
	"github.com/gofiber/fiber/v2"
	user "github.com/mnuddindev/gamepulse/internal/models/user"
)

// Operation names one gated action. Handlers never compare role strings
// directly; they declare the operation and the table decides.
type Operation string

const (
	OpGameCreate  Operation = "game:create"
	OpGameEdit    Operation = "game:edit"
	OpGameDelete  Operation = "game:delete"
	OpGameImport  Operation = "game:import"
	OpCommentPost Operation = "comment:create"
	OpCommentMod  Operation = "comment:moderate"
	OpCommentLike Operation = "comment:like"
	OpReviewPost  Operation = "review:create"
	OpReviewMod   Operation = "review:moderate"
	OpReviewVote  Operation = "review:vote"
	OpCriticSelf  Operation = "critic:profile"
	OpUserAdmin   Operation = "user:admin"
)

// policy is the whole authorization matrix. One place, independently
// testable, no role checks scattered through handlers.
var policy = map[Operation]map[string]bool{
	OpGameCreate:  {user.RoleAdmin: true},
	OpGameEdit:    {user.RoleAdmin: true, user.RoleModerator: true},
	OpGameDelete:  {user.RoleAdmin: true},
	OpGameImport:  {user.RoleAdmin: true, user.RoleModerator: true},
	OpCommentPost: {user.RoleAdmin: true, user.RoleModerator: true, user.RoleCritic: true, user.RoleUser: true},
	OpCommentMod:  {user.RoleModerator: true},
	OpCommentLike: {user.RoleAdmin: true, user.RoleModerator: true, user.RoleCritic: true, user.RoleUser: true},
	OpReviewPost:  {user.RoleCritic: true},
	OpReviewMod:   {user.RoleModerator: true},
	OpReviewVote:  {user.RoleAdmin: true, user.RoleModerator: true, user.RoleCritic: true, user.RoleUser: true},
	OpCriticSelf:  {user.RoleCritic: true},
	OpUserAdmin:   {user.RoleAdmin: true},
}

// Allowed answers whether the role may perform the operation. Unknown
// operations and unknown roles both deny.
func Allowed(op Operation, role string) bool {
	roles, ok := policy[op]
	if !ok {
		return false
	}
	return roles[role]
}

// RequirePerm gates a route on the capability table. Runs after
// AuthRequired, which loaded the user.
func RequirePerm(opt Options, op Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := CurrentUser(c)
		if u == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication required"})
		}
		if !Allowed(op, u.Role) {
			opt.Logger.Warn(c.Context()).WithMeta(map[string]string{
				"user_id":   u.ID.String(),
				"role":      u.Role,
				"operation": string(op),
			}).Logs("Operation denied by policy")
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":  "You are not authorized to perform this action",
				"status": fiber.StatusForbidden,
			})
		}
		return c.Next()
	}
}

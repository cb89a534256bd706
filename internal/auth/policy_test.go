package auth

import (
	"testing"

	user "github.com/mnuddindev/gamepulse/internal/models/user"
)

func TestPolicyMatrix(t *testing.T) {
	cases := []struct {
		op   Operation
		role string
		want bool
	}{
		{OpGameCreate, user.RoleAdmin, true},
		{OpGameCreate, user.RoleModerator, false},
		{OpGameCreate, user.RoleCritic, false},
		{OpGameCreate, user.RoleUser, false},

		{OpGameEdit, user.RoleAdmin, true},
		{OpGameEdit, user.RoleModerator, true},
		{OpGameEdit, user.RoleUser, false},

		{OpGameDelete, user.RoleAdmin, true},
		{OpGameDelete, user.RoleModerator, false},

		{OpGameImport, user.RoleModerator, true},
		{OpGameImport, user.RoleCritic, false},

		{OpCommentPost, user.RoleUser, true},
		{OpCommentPost, user.RoleCritic, true},
		{OpCommentMod, user.RoleModerator, true},
		{OpCommentMod, user.RoleAdmin, false},
		{OpCommentLike, user.RoleUser, true},

		{OpReviewPost, user.RoleCritic, true},
		{OpReviewPost, user.RoleAdmin, false},
		{OpReviewPost, user.RoleUser, false},
		{OpReviewMod, user.RoleModerator, true},
		{OpReviewMod, user.RoleCritic, false},
		{OpReviewVote, user.RoleUser, true},

		{OpCriticSelf, user.RoleCritic, true},
		{OpCriticSelf, user.RoleUser, false},

		{OpUserAdmin, user.RoleAdmin, true},
		{OpUserAdmin, user.RoleModerator, false},
	}
	for _, c := range cases {
		if got := Allowed(c.op, c.role); got != c.want {
			t.Errorf("Allowed(%s, %s) = %t, want %t", c.op, c.role, got, c.want)
		}
	}
}

func TestPolicyDeniesUnknowns(t *testing.T) {
	if Allowed("game:launch", user.RoleAdmin) {
		t.Error("unknown operation should deny")
	}
	if Allowed(OpGameCreate, "superuser") {
		t.Error("unknown role should deny")
	}
	if Allowed(OpGameCreate, "") {
		t.Error("empty role should deny")
	}
}

package models

func WithRole(role string) UserOption {
	return func(u *User) { u.Role = role }
}

func WithBanned(banned bool) UserOption {
	return func(u *User) { u.Banned = banned }
}

func WithVerified(verified bool) UserOption {
	return func(u *User) { u.Verified = verified }
}

func WithAvatarURL(url string) UserOption {
	return func(u *User) { u.AvatarURL = url }
}

func WithPublication(publication string) UserOption {
	return func(u *User) { u.Publication = publication }
}

func WithDescription(description string) UserOption {
	return func(u *User) { u.Description = description }
}

package models

import (
	games "github.com/mnuddindev/gamepulse/internal/models/games"
	user "github.com/mnuddindev/gamepulse/internal/models/user"
)

func RegisterModels() []interface{} {
	return []interface{}{
		&user.User{},
		&games.Game{},
		&games.Platform{},
		&games.Category{},
		&games.Tag{},
		&games.Comment{},
		&games.Like{},
		&games.Review{},
		&games.ReviewVote{},
	}
}

type (
	User       = user.User
	Game       = games.Game
	Platform   = games.Platform
	Category   = games.Category
	Tag        = games.Tag
	Comment    = games.Comment
	Like       = games.Like
	Review     = games.Review
	ReviewVote = games.ReviewVote
)

var (
	NewUser     = user.NewUser
	GetUserBy   = user.GetUserBy
	GetImporter = user.GetImporter
)

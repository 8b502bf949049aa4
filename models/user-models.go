package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email     string `json:"email" gorm:"uniqueIndex;not null"`
	Username  string `json:"username" gorm:"uniqueIndex;not null"`
	FullName  string `json:"name"`
	Password  string `json:"-" gorm:"not null"`
	AvatarURL string `json:"avatar_url"`
}

// Owner is the authenticated identity attached to a request. It is the only
// user shape the generation and history code ever sees.
type Owner struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

func (u *User) Owner() Owner {
	return Owner{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
	}
}

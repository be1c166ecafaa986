package models

import (
	"time"
)

// User roles. Moderators may edit or delete any review and comment,
// admins additionally manage the catalog and other users.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// Roles lists the accepted values for User.Role.
var Roles = []string{RoleUser, RoleModerator, RoleAdmin}

type User struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	Username  string `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email     string `gorm:"size:254;uniqueIndex;not null" json:"email"`
	FirstName string `gorm:"size:150" json:"first_name"`
	LastName  string `gorm:"size:150" json:"last_name"`
	Bio       string `gorm:"size:500" json:"bio"`
	Role      string `gorm:"size:20;default:'user';not null" json:"role"`
	// bcrypt hash of the emailed confirmation code, nil once exchanged for tokens
	ConfirmationCode *string   `gorm:"size:80;uniqueIndex" json:"-"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}

func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

package services

import (
	"kritika/internal/models"
)

// Authorization policy for the three role tiers. Routing decides who may
// reach a handler at all; these functions decide what a reached handler
// may touch.

// CanModerate reports whether the user may edit or delete content
// authored by somebody else.
func CanModerate(u *models.User) bool {
	return u.IsModerator() || u.IsAdmin()
}

// CanModifyContent reports whether the user may edit or delete the
// review or comment owned by authorID.
func CanModifyContent(u *models.User, authorID uint) bool {
	return u.ID == authorID || CanModerate(u)
}

// CanEditField reports whether a requester with the given role may
// change a user field. Only "role" is restricted: a plain user cannot
// promote themselves through a self-profile edit.
func CanEditField(requesterRole, field string, targetIsSelf bool) bool {
	if field != "role" {
		return true
	}
	if requesterRole == models.RoleAdmin {
		return true
	}
	return targetIsSelf && requesterRole == models.RoleModerator
}

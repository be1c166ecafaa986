package handlers

import (
	"net/http"
	"strings"

	"kritika/internal/db"
	"kritika/internal/models"
	"kritika/internal/services"
	"kritika/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

type userCreateRequest struct {
	Username  string `json:"username" binding:"required,max=150"`
	Email     string `json:"email" binding:"required,email,max=254"`
	FirstName string `json:"first_name" binding:"max=150"`
	LastName  string `json:"last_name" binding:"max=150"`
	Bio       string `json:"bio" binding:"max=500"`
	Role      string `json:"role"`
}

type userUpdateRequest struct {
	Username  *string `json:"username" binding:"omitempty,max=150"`
	Email     *string `json:"email" binding:"omitempty,email,max=254"`
	FirstName *string `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" binding:"omitempty,max=150"`
	Bio       *string `json:"bio" binding:"omitempty,max=500"`
	Role      *string `json:"role" binding:"omitempty"`
}

// List returns all accounts, admin only.
func (h *UserHandler) List(c *gin.Context) {
	limit, offset := Paginate(c)

	var users []models.User
	q := db.DB.Order("username ASC").Limit(limit).Offset(offset)
	if search := c.Query("search"); search != "" {
		q = q.Where("LOWER(username) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	q.Find(&users)

	c.JSON(http.StatusOK, users)
}

// Create lets an admin provision an account with any role. The new user
// still goes through the signup/token flow to obtain credentials.
func (h *UserHandler) Create(c *gin.Context) {
	var req userCreateRequest
	if !BindJSON(c, &req) {
		return
	}

	if req.Username == "me" {
		FieldError(c, "username", "\"me\" is a reserved username.")
		return
	}
	if !usernamePattern.MatchString(req.Username) {
		FieldError(c, "username", "Enter a valid username. Letters, digits and @/./+/-/_ only.")
		return
	}
	if req.Role == "" {
		req.Role = models.RoleUser
	}
	if !models.ValidRole(req.Role) {
		FieldError(c, "role", "Role must be one of: user, moderator, admin.")
		return
	}

	var existing models.User
	if db.DB.Where("username = ?", req.Username).First(&existing).Error == nil {
		FieldError(c, "username", "A user with that username already exists.")
		return
	}
	if db.DB.Where("email = ?", req.Email).First(&existing).Error == nil {
		FieldError(c, "email", "A user with that email already exists.")
		return
	}

	user := models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       utils.SanitizeText(req.Bio),
		Role:      req.Role,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not create user."})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Get returns one account by username, admin only.
func (h *UserHandler) Get(c *gin.Context) {
	user, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update applies a partial update to an account, admin only.
func (h *UserHandler) Update(c *gin.Context) {
	user, ok := h.lookup(c)
	if !ok {
		return
	}

	var req userUpdateRequest
	if !BindJSON(c, &req) {
		return
	}

	requester := CurrentUser(c)
	h.apply(c, user, &req, requester, requester.ID == user.ID)
}

// Delete removes an account, admin only.
func (h *UserHandler) Delete(c *gin.Context) {
	user, ok := h.lookup(c)
	if !ok {
		return
	}
	if err := db.DB.Delete(user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not delete user."})
		return
	}
	c.Status(http.StatusNoContent)
}

// Me returns the authenticated user's own profile.
func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, CurrentUser(c))
}

// UpdateMe applies a partial self-profile update. A "role" field in the
// payload is dropped when the requester's own role does not allow
// changing it, so a plain user can never promote themselves.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	user := CurrentUser(c)

	var req userUpdateRequest
	if !BindJSON(c, &req) {
		return
	}

	h.apply(c, user, &req, user, true)
}

func (h *UserHandler) lookup(c *gin.Context) (*models.User, bool) {
	var user models.User
	err := db.DB.Where("username = ?", c.Param("username")).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			NotFound(c, "User not found.")
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not look up user."})
		}
		return nil, false
	}
	return &user, true
}

func (h *UserHandler) apply(c *gin.Context, user *models.User, req *userUpdateRequest, requester *models.User, targetIsSelf bool) {
	if req.Username != nil && *req.Username != user.Username {
		if *req.Username == "me" {
			FieldError(c, "username", "\"me\" is a reserved username.")
			return
		}
		if !usernamePattern.MatchString(*req.Username) {
			FieldError(c, "username", "Enter a valid username. Letters, digits and @/./+/-/_ only.")
			return
		}
		var existing models.User
		if db.DB.Where("username = ?", *req.Username).First(&existing).Error == nil {
			FieldError(c, "username", "A user with that username already exists.")
			return
		}
		user.Username = *req.Username
	}
	if req.Email != nil && *req.Email != user.Email {
		var existing models.User
		if db.DB.Where("email = ?", *req.Email).First(&existing).Error == nil {
			FieldError(c, "email", "A user with that email already exists.")
			return
		}
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = utils.SanitizeText(*req.Bio)
	}
	if req.Role != nil && services.CanEditField(requester.Role, "role", targetIsSelf) {
		if !models.ValidRole(*req.Role) {
			FieldError(c, "role", "Role must be one of: user, moderator, admin.")
			return
		}
		user.Role = *req.Role
	}

	if err := db.DB.Save(user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not update user."})
		return
	}
	c.JSON(http.StatusOK, user)
}

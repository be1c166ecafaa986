package handlers

import (
	"net/http"

	"kritika/internal/db"
	"kritika/internal/models"
	"kritika/internal/services"
	"kritika/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const confirmationCodeLength = 16

type AuthHandler struct {
	mailService  *services.MailService
	tokenService *services.TokenService
}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{
		mailService:  services.NewMailService(),
		tokenService: services.NewTokenService(),
	}
}

type signupRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Username string `json:"username" binding:"required,max=150"`
}

type tokenRequest struct {
	Username         string `json:"username" binding:"required,max=150"`
	ConfirmationCode string `json:"confirmation_code" binding:"required,max=64"`
}

// Signup registers an account and emails a confirmation code. Repeating
// the exact same (username, email) pair re-issues a fresh code; any
// partial collision with another account is rejected.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
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

	var byUsername, byEmail models.User
	usernameTaken := db.DB.Where("username = ?", req.Username).First(&byUsername).Error == nil
	emailTaken := db.DB.Where("email = ?", req.Email).First(&byEmail).Error == nil

	var user *models.User
	switch {
	case usernameTaken && emailTaken && byUsername.ID == byEmail.ID:
		// Same account signing up again: re-issue the code.
		user = &byUsername
	case usernameTaken:
		FieldError(c, "username", "A user with that username already exists.")
		return
	case emailTaken:
		FieldError(c, "email", "A user with that email already exists.")
		return
	default:
		user = &models.User{Username: req.Username, Email: req.Email}
		if err := db.DB.Create(user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not create user."})
			return
		}
	}

	code, err := utils.GenerateConfirmationCode(confirmationCodeLength)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not generate confirmation code."})
		return
	}
	hash, err := utils.HashConfirmationCode(code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not generate confirmation code."})
		return
	}

	user.ConfirmationCode = &hash
	if err := db.DB.Save(user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not store confirmation code."})
		return
	}

	h.mailService.SendConfirmationCode(user.Email, code)

	c.JSON(http.StatusOK, gin.H{"email": user.Email, "username": user.Username})
}

// Token exchanges a confirmation code for an access/refresh pair. The
// code is consumed on success.
func (h *AuthHandler) Token(c *gin.Context) {
	var req tokenRequest
	if !BindJSON(c, &req) {
		return
	}

	var user models.User
	if err := db.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			NotFound(c, "User not found.")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not look up user."})
		return
	}

	if user.ConfirmationCode == nil || !utils.CheckConfirmationCode(req.ConfirmationCode, *user.ConfirmationCode) {
		FieldError(c, "confirmation_code", "Invalid confirmation code.")
		return
	}

	user.ConfirmationCode = nil
	if err := db.DB.Model(&user).Update("confirmation_code", nil).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not consume confirmation code."})
		return
	}

	pair, err := h.tokenService.GeneratePair(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not issue tokens."})
		return
	}
	c.JSON(http.StatusOK, pair)
}

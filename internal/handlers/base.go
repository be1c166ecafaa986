package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"kritika/internal/middleware"
	"kritika/internal/models"
	"kritika/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var (
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
)

// CurrentUser returns the authenticated user set by middleware.LoadUser,
// or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	if u, exists := c.Get(middleware.CheckUserKey); exists {
		return u.(*models.User)
	}
	return nil
}

// FieldError writes a 400 with a field-keyed validation message map.
func FieldError(c *gin.Context, field, message string) {
	c.JSON(http.StatusBadRequest, gin.H{field: []string{message}})
}

// NotFound writes the standard 404 body.
func NotFound(c *gin.Context, detail string) {
	c.JSON(http.StatusNotFound, gin.H{"detail": detail})
}

// Forbidden writes the standard 403 body.
func Forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to perform this action."})
}

// BindJSON binds the request body and, on failure, writes a 400 with
// per-field messages derived from the binding tags. Returns false when
// the request has already been answered.
func BindJSON(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		body := gin.H{}
		for _, fe := range verrs {
			field := strings.ToLower(fe.Field())
			body[field] = []string{validationMessage(fe)}
		}
		c.JSON(http.StatusBadRequest, body)
		return false
	}

	c.JSON(http.StatusBadRequest, gin.H{"detail": "Malformed request body."})
	return false
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return "Ensure this field has no more than " + fe.Param() + " characters."
	case "min":
		return "Ensure this value is greater than or equal to " + fe.Param() + "."
	default:
		return "Invalid value."
	}
}

// Paginate reads page/page_size query params and returns limit/offset.
func Paginate(c *gin.Context) (limit, offset int) {
	page := utils.StringToInt(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	size := utils.StringToInt(c.DefaultQuery("page_size", ""))
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return size, (page - 1) * size
}

package handlers

import (
	"net/http"
	"strings"

	"kritika/internal/db"
	"kritika/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type GenreHandler struct{}

func NewGenreHandler() *GenreHandler {
	return &GenreHandler{}
}

// List returns genres, optionally filtered by a case-insensitive name
// substring via ?search=.
func (h *GenreHandler) List(c *gin.Context) {
	limit, offset := Paginate(c)

	var genres []models.Genre
	q := db.DB.Order("slug ASC").Limit(limit).Offset(offset)
	if search := c.Query("search"); search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	q.Find(&genres)

	c.JSON(http.StatusOK, genres)
}

// Create adds a genre, admin only.
func (h *GenreHandler) Create(c *gin.Context) {
	var req slugCollectionRequest
	if !BindJSON(c, &req) {
		return
	}
	if !slugPattern.MatchString(req.Slug) {
		FieldError(c, "slug", "Enter a valid slug. Letters, digits, hyphens and underscores only.")
		return
	}

	var existing models.Genre
	if db.DB.Where("slug = ?", req.Slug).First(&existing).Error == nil {
		FieldError(c, "slug", "A genre with that slug already exists.")
		return
	}

	genre := models.Genre{Name: req.Name, Slug: req.Slug}
	if err := db.DB.Create(&genre).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not create genre."})
		return
	}
	c.JSON(http.StatusCreated, genre)
}

// Delete removes a genre by slug, admin only.
func (h *GenreHandler) Delete(c *gin.Context) {
	var genre models.Genre
	err := db.DB.Where("slug = ?", c.Param("slug")).First(&genre).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			NotFound(c, "Genre not found.")
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not look up genre."})
		}
		return
	}

	if err := db.DB.Delete(&genre).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not delete genre."})
		return
	}
	c.Status(http.StatusNoContent)
}

package handlers

import (
	"net/http"
	"strings"

	"kritika/internal/db"
	"kritika/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CategoryHandler struct{}

func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

type slugCollectionRequest struct {
	Name string `json:"name" binding:"required,max=50"`
	Slug string `json:"slug" binding:"required,max=50"`
}

// List returns categories, optionally filtered by a case-insensitive
// name substring via ?search=.
func (h *CategoryHandler) List(c *gin.Context) {
	limit, offset := Paginate(c)

	var categories []models.Category
	q := db.DB.Order("slug ASC").Limit(limit).Offset(offset)
	if search := c.Query("search"); search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	q.Find(&categories)

	c.JSON(http.StatusOK, categories)
}

// Create adds a category, admin only.
func (h *CategoryHandler) Create(c *gin.Context) {
	var req slugCollectionRequest
	if !BindJSON(c, &req) {
		return
	}
	if !slugPattern.MatchString(req.Slug) {
		FieldError(c, "slug", "Enter a valid slug. Letters, digits, hyphens and underscores only.")
		return
	}

	var existing models.Category
	if db.DB.Where("slug = ?", req.Slug).First(&existing).Error == nil {
		FieldError(c, "slug", "A category with that slug already exists.")
		return
	}

	category := models.Category{Name: req.Name, Slug: req.Slug}
	if err := db.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not create category."})
		return
	}
	c.JSON(http.StatusCreated, category)
}

// Delete removes a category by slug, admin only. Titles keep existing
// with their category set to null.
func (h *CategoryHandler) Delete(c *gin.Context) {
	var category models.Category
	err := db.DB.Where("slug = ?", c.Param("slug")).First(&category).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			NotFound(c, "Category not found.")
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not look up category."})
		}
		return
	}

	if err := db.DB.Delete(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not delete category."})
		return
	}
	c.Status(http.StatusNoContent)
}

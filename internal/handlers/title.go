package handlers

import (
	"net/http"
	"strings"
	"time"

	"kritika/internal/db"
	"kritika/internal/models"
	"kritika/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ratingSelect annotates each title with the rounded mean review score.
// AVG over the integer score column yields numeric on Postgres, so the
// two-argument ROUND is valid there as well as on sqlite.
const ratingSelect = "titles.*, (SELECT ROUND(AVG(score), 2) FROM reviews WHERE reviews.title_id = titles.id) AS rating"

type TitleHandler struct{}

func NewTitleHandler() *TitleHandler {
	return &TitleHandler{}
}

type titleCreateRequest struct {
	Name        string   `json:"name" binding:"required,max=256"`
	Year        int      `json:"year" binding:"required"`
	Description string   `json:"description"`
	Genre       []string `json:"genre"`
	Category    string   `json:"category"`
}

type titleUpdateRequest struct {
	Name        *string   `json:"name" binding:"omitempty,max=256"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Genre       *[]string `json:"genre"`
	Category    *string   `json:"category"`
}

// List returns titles with their computed rating. Filters combine with
// AND semantics: category and genre slug and name match by
// case-insensitive substring, year matches exactly.
func (h *TitleHandler) List(c *gin.Context) {
	limit, offset := Paginate(c)

	q := db.DB.Model(&models.Title{}).
		Select(ratingSelect).
		Preload("Category").
		Preload("Genres").
		Limit(limit).Offset(offset).
		Order("titles.id ASC")

	if category := c.Query("category"); category != "" {
		q = q.Joins("JOIN categories ON categories.id = titles.category_id").
			Where("LOWER(categories.slug) LIKE ?", "%"+strings.ToLower(category)+"%")
	}
	if genre := c.Query("genre"); genre != "" {
		q = q.Joins("JOIN title_genres ON title_genres.title_id = titles.id").
			Joins("JOIN genres ON genres.id = title_genres.genre_id").
			Where("LOWER(genres.slug) LIKE ?", "%"+strings.ToLower(genre)+"%").
			// a title may carry several matching genres
			Group("titles.id")
	}
	if name := c.Query("name"); name != "" {
		q = q.Where("LOWER(titles.name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if year := c.Query("year"); year != "" {
		q = q.Where("titles.year = ?", utils.StringToInt(year))
	}

	var titles []models.Title
	q.Find(&titles)

	c.JSON(http.StatusOK, titles)
}

// Get returns one title with its rating.
func (h *TitleHandler) Get(c *gin.Context) {
	title, ok := loadTitle(c, c.Param("title_id"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, title)
}

// Create adds a title, admin only. Genre and category arrive as slugs
// and are resolved to rows; unknown slugs are a validation error.
func (h *TitleHandler) Create(c *gin.Context) {
	var req titleCreateRequest
	if !BindJSON(c, &req) {
		return
	}
	if req.Year > time.Now().Year() {
		FieldError(c, "year", "Year cannot be in the future.")
		return
	}

	genres, ok := resolveGenres(c, req.Genre)
	if !ok {
		return
	}
	categoryID, ok := resolveCategory(c, req.Category)
	if !ok {
		return
	}

	title := models.Title{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		CategoryID:  categoryID,
		Genres:      genres,
	}
	if err := db.DB.Create(&title).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not create title."})
		return
	}

	created, ok := loadTitleByID(c, title.ID)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update applies a partial update to a title, admin only.
func (h *TitleHandler) Update(c *gin.Context) {
	title, ok := loadTitle(c, c.Param("title_id"))
	if !ok {
		return
	}

	var req titleUpdateRequest
	if !BindJSON(c, &req) {
		return
	}

	if req.Year != nil {
		if *req.Year > time.Now().Year() {
			FieldError(c, "year", "Year cannot be in the future.")
			return
		}
		title.Year = *req.Year
	}
	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Description != nil {
		title.Description = *req.Description
	}
	if req.Category != nil {
		categoryID, ok := resolveCategory(c, *req.Category)
		if !ok {
			return
		}
		title.CategoryID = categoryID
	}
	if req.Genre != nil {
		genres, ok := resolveGenres(c, *req.Genre)
		if !ok {
			return
		}
		if err := db.DB.Model(title).Association("Genres").Replace(genres); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not update genres."})
			return
		}
	}

	if err := db.DB.Omit(clause.Associations).Save(title).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not update title."})
		return
	}

	updated, ok := loadTitleByID(c, title.ID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a title, admin only. Its reviews and their comments go
// with it.
func (h *TitleHandler) Delete(c *gin.Context) {
	title, ok := loadTitle(c, c.Param("title_id"))
	if !ok {
		return
	}
	if err := db.DB.Delete(title).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not delete title."})
		return
	}
	c.Status(http.StatusNoContent)
}

// loadTitle fetches a title by its path identifier, answering 404 when
// it does not exist.
func loadTitle(c *gin.Context, id string) (*models.Title, bool) {
	// non-numeric identifiers can't match anything
	if utils.StringToInt(id) <= 0 {
		NotFound(c, "Title not found.")
		return nil, false
	}

	var title models.Title
	err := db.DB.Model(&models.Title{}).
		Select(ratingSelect).
		Preload("Category").
		Preload("Genres").
		Where("titles.id = ?", id).
		First(&title).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			NotFound(c, "Title not found.")
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not look up title."})
		}
		return nil, false
	}
	return &title, true
}

func loadTitleByID(c *gin.Context, id uint) (*models.Title, bool) {
	var title models.Title
	err := db.DB.Model(&models.Title{}).
		Select(ratingSelect).
		Preload("Category").
		Preload("Genres").
		Where("titles.id = ?", id).
		First(&title).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not load title."})
		return nil, false
	}
	return &title, true
}

func resolveGenres(c *gin.Context, slugs []string) ([]models.Genre, bool) {
	if len(slugs) == 0 {
		return nil, true
	}
	var genres []models.Genre
	db.DB.Where("slug IN ?", slugs).Find(&genres)
	if len(genres) != len(slugs) {
		FieldError(c, "genre", "Unknown genre slug.")
		return nil, false
	}
	return genres, true
}

func resolveCategory(c *gin.Context, slug string) (*uint, bool) {
	if slug == "" {
		return nil, true
	}
	var category models.Category
	if err := db.DB.Where("slug = ?", slug).First(&category).Error; err != nil {
		FieldError(c, "category", "Unknown category slug.")
		return nil, false
	}
	return &category.ID, true
}

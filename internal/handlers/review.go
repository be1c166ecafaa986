package handlers

import (
	"errors"
	"net/http"
	"time"

	"kritika/internal/db"
	"kritika/internal/models"
	"kritika/internal/services"
	"kritika/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReviewHandler struct{}

func NewReviewHandler() *ReviewHandler {
	return &ReviewHandler{}
}

type reviewCreateRequest struct {
	Text  string `json:"text" binding:"required"`
	Score int    `json:"score" binding:"required,min=1,max=10"`
}

type reviewUpdateRequest struct {
	Text  *string `json:"text" binding:"omitempty,min=1"`
	Score *int    `json:"score" binding:"omitempty,min=1,max=10"`
}

type reviewResponse struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	Score   int       `json:"score"`
	Author  string    `json:"author"`
	Title   uint      `json:"title"`
	PubDate time.Time `json:"pub_date"`
}

func toReviewResponse(r *models.Review) reviewResponse {
	return reviewResponse{
		ID:      r.ID,
		Text:    r.Text,
		Score:   r.Score,
		Author:  r.Author.Username,
		Title:   r.TitleID,
		PubDate: r.PubDate,
	}
}

// List returns a title's reviews, newest first.
func (h *ReviewHandler) List(c *gin.Context) {
	title, ok := loadTitle(c, c.Param("title_id"))
	if !ok {
		return
	}
	limit, offset := Paginate(c)

	var reviews []models.Review
	db.DB.Preload("Author").
		Where("title_id = ?", title.ID).
		Order("pub_date DESC").
		Limit(limit).Offset(offset).
		Find(&reviews)

	out := make([]reviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, toReviewResponse(&reviews[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Create posts the authenticated user's review for a title. A second
// review by the same author on the same title is a validation error;
// the unique index backstops the race behind this check.
func (h *ReviewHandler) Create(c *gin.Context) {
	title, ok := loadTitle(c, c.Param("title_id"))
	if !ok {
		return
	}
	user := CurrentUser(c)

	var req reviewCreateRequest
	if !BindJSON(c, &req) {
		return
	}

	var existing models.Review
	if db.DB.Where("title_id = ? AND author_id = ?", title.ID, user.ID).First(&existing).Error == nil {
		FieldError(c, "title", "You have already reviewed this title.")
		return
	}

	review := models.Review{
		Text:     utils.SanitizeText(req.Text),
		Score:    req.Score,
		AuthorID: user.ID,
		TitleID:  title.ID,
	}
	if err := db.DB.Create(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			FieldError(c, "title", "You have already reviewed this title.")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not create review."})
		return
	}

	review.Author = *user
	c.JSON(http.StatusCreated, toReviewResponse(&review))
}

// Get returns one review of a title.
func (h *ReviewHandler) Get(c *gin.Context) {
	review, ok := loadReview(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toReviewResponse(review))
}

// Update edits a review; allowed for its author, moderators and admins.
func (h *ReviewHandler) Update(c *gin.Context) {
	review, ok := loadReview(c)
	if !ok {
		return
	}
	user := CurrentUser(c)
	if !services.CanModifyContent(user, review.AuthorID) {
		Forbidden(c)
		return
	}

	var req reviewUpdateRequest
	if !BindJSON(c, &req) {
		return
	}
	if req.Text != nil {
		review.Text = utils.SanitizeText(*req.Text)
	}
	if req.Score != nil {
		review.Score = *req.Score
	}

	if err := db.DB.Save(review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not update review."})
		return
	}
	c.JSON(http.StatusOK, toReviewResponse(review))
}

// Delete removes a review and its comments; allowed for its author,
// moderators and admins.
func (h *ReviewHandler) Delete(c *gin.Context) {
	review, ok := loadReview(c)
	if !ok {
		return
	}
	user := CurrentUser(c)
	if !services.CanModifyContent(user, review.AuthorID) {
		Forbidden(c)
		return
	}

	if err := db.DB.Delete(review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not delete review."})
		return
	}
	c.Status(http.StatusNoContent)
}

// loadReview resolves the title/review pair from the path, answering
// 404 when either is missing or the review belongs to another title.
func loadReview(c *gin.Context) (*models.Review, bool) {
	title, ok := loadTitle(c, c.Param("title_id"))
	if !ok {
		return nil, false
	}

	reviewID := utils.StringToInt(c.Param("review_id"))
	if reviewID <= 0 {
		NotFound(c, "Review not found.")
		return nil, false
	}

	var review models.Review
	err := db.DB.Preload("Author").
		Where("id = ? AND title_id = ?", reviewID, title.ID).
		First(&review).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			NotFound(c, "Review not found.")
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not look up review."})
		}
		return nil, false
	}
	return &review, true
}

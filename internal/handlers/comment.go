package handlers

import (
	"net/http"
	"time"

	"kritika/internal/db"
	"kritika/internal/models"
	"kritika/internal/services"
	"kritika/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CommentHandler struct{}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{}
}

type commentCreateRequest struct {
	Text string `json:"text" binding:"required"`
}

type commentUpdateRequest struct {
	Text *string `json:"text" binding:"omitempty,min=1"`
}

type commentResponse struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Review  uint      `json:"review"`
	PubDate time.Time `json:"pub_date"`
}

func toCommentResponse(cm *models.Comment) commentResponse {
	return commentResponse{
		ID:      cm.ID,
		Text:    cm.Text,
		Author:  cm.Author.Username,
		Review:  cm.ReviewID,
		PubDate: cm.PubDate,
	}
}

// List returns a review's comments, oldest first.
func (h *CommentHandler) List(c *gin.Context) {
	review, ok := loadReview(c)
	if !ok {
		return
	}
	limit, offset := Paginate(c)

	var comments []models.Comment
	db.DB.Preload("Author").
		Where("review_id = ?", review.ID).
		Order("pub_date ASC").
		Limit(limit).Offset(offset).
		Find(&comments)

	out := make([]commentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, toCommentResponse(&comments[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Create posts a comment under a review. The author and the parent
// review come from the token and the path, never from the payload.
func (h *CommentHandler) Create(c *gin.Context) {
	review, ok := loadReview(c)
	if !ok {
		return
	}
	user := CurrentUser(c)

	var req commentCreateRequest
	if !BindJSON(c, &req) {
		return
	}

	comment := models.Comment{
		Text:     utils.SanitizeText(req.Text),
		AuthorID: user.ID,
		ReviewID: review.ID,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not create comment."})
		return
	}

	comment.Author = *user
	c.JSON(http.StatusCreated, toCommentResponse(&comment))
}

// Get returns one comment of a review.
func (h *CommentHandler) Get(c *gin.Context) {
	comment, ok := loadComment(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toCommentResponse(comment))
}

// Update edits a comment; allowed for its author, moderators and
// admins.
func (h *CommentHandler) Update(c *gin.Context) {
	comment, ok := loadComment(c)
	if !ok {
		return
	}
	user := CurrentUser(c)
	if !services.CanModifyContent(user, comment.AuthorID) {
		Forbidden(c)
		return
	}

	var req commentUpdateRequest
	if !BindJSON(c, &req) {
		return
	}
	if req.Text != nil {
		comment.Text = utils.SanitizeText(*req.Text)
	}

	if err := db.DB.Save(comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not update comment."})
		return
	}
	c.JSON(http.StatusOK, toCommentResponse(comment))
}

// Delete removes a comment; allowed for its author, moderators and
// admins.
func (h *CommentHandler) Delete(c *gin.Context) {
	comment, ok := loadComment(c)
	if !ok {
		return
	}
	user := CurrentUser(c)
	if !services.CanModifyContent(user, comment.AuthorID) {
		Forbidden(c)
		return
	}

	if err := db.DB.Delete(comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not delete comment."})
		return
	}
	c.Status(http.StatusNoContent)
}

func loadComment(c *gin.Context) (*models.Comment, bool) {
	review, ok := loadReview(c)
	if !ok {
		return nil, false
	}

	commentID := utils.StringToInt(c.Param("comment_id"))
	if commentID <= 0 {
		NotFound(c, "Comment not found.")
		return nil, false
	}

	var comment models.Comment
	err := db.DB.Preload("Author").
		Where("id = ? AND review_id = ?", commentID, review.ID).
		First(&comment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			NotFound(c, "Comment not found.")
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not look up comment."})
		}
		return nil, false
	}
	return &comment, true
}

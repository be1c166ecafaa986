package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"kritika/internal/db"
	"kritika/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reviewsPath(title *models.Title) string {
	return fmt.Sprintf("/api/v1/titles/%d/reviews", title.ID)
}

func TestReviewCreate(t *testing.T) {
	r := setupRouter(t)
	title := seedTitle(t, "Reviewed", 2000)
	user := createUser(t, "ana", "ana@example.com", models.RoleUser)

	w := doJSON(t, r, "POST", reviewsPath(title),
		map[string]any{"text": "loved it", "score": 8}, authHeader(t, user))
	require.Equal(t, http.StatusCreated, w.Code)

	var body map[string]any
	decodeBody(t, w, &body)
	assert.Equal(t, "loved it", body["text"])
	assert.EqualValues(t, 8, body["score"])
	assert.Equal(t, "ana", body["author"], "author comes from the token, not the payload")
	assert.EqualValues(t, title.ID, body["title"])
}

func TestReviewCreateRequiresAuth(t *testing.T) {
	r := setupRouter(t)
	title := seedTitle(t, "Reviewed", 2000)

	w := doJSON(t, r, "POST", reviewsPath(title),
		map[string]any{"text": "anon", "score": 5}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReviewScoreBounds(t *testing.T) {
	r := setupRouter(t)
	title := seedTitle(t, "Scored", 2000)

	tests := []struct {
		score int
		want  int
	}{
		{0, http.StatusBadRequest},
		{11, http.StatusBadRequest},
		{-3, http.StatusBadRequest},
		{1, http.StatusCreated},
		{10, http.StatusCreated},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("score %d", tt.score), func(t *testing.T) {
			user := createUser(t,
				fmt.Sprintf("user%d", i), fmt.Sprintf("user%d@example.com", i), models.RoleUser)
			w := doJSON(t, r, "POST", reviewsPath(title),
				map[string]any{"text": "text", "score": tt.score}, authHeader(t, user))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestReviewOnePerAuthor(t *testing.T) {
	r := setupRouter(t)
	title := seedTitle(t, "Once", 2000)
	other := seedTitle(t, "Another", 2001)
	user := createUser(t, "ana", "ana@example.com", models.RoleUser)
	auth := authHeader(t, user)

	w := doJSON(t, r, "POST", reviewsPath(title),
		map[string]any{"text": "first", "score": 7}, auth)
	require.Equal(t, http.StatusCreated, w.Code)

	// second review on the same title is rejected
	w = doJSON(t, r, "POST", reviewsPath(title),
		map[string]any{"text": "second", "score": 3}, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.EqualValues(t, 1, mustCount(t, &models.Review{}, "title_id = ? AND author_id = ?", title.ID, user.ID))

	// but a different title is fine
	w = doJSON(t, r, "POST", reviewsPath(other),
		map[string]any{"text": "elsewhere", "score": 9}, auth)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestReviewListNewestFirst(t *testing.T) {
	r := setupRouter(t)
	title := seedTitle(t, "Listed", 2000)
	u1 := createUser(t, "u1", "u1@example.com", models.RoleUser)
	u2 := createUser(t, "u2", "u2@example.com", models.RoleUser)

	first := seedReview(t, title, u1, 5)
	second := seedReview(t, title, u2, 6)
	// force distinct publication instants
	require.NoError(t,
		db.DB.Model(first).Update("pub_date", time.Now().Add(-time.Hour)).Error)

	w := doJSON(t, r, "GET", reviewsPath(title), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var got []map[string]any
	decodeBody(t, w, &got)
	require.Len(t, got, 2)
	assert.EqualValues(t, second.ID, got[0]["id"])
	assert.EqualValues(t, first.ID, got[1]["id"])
}

func TestReviewPermissions(t *testing.T) {
	r := setupRouter(t)
	title := seedTitle(t, "Guarded", 2000)
	author := createUser(t, "author", "author@example.com", models.RoleUser)
	stranger := createUser(t, "stranger", "stranger@example.com", models.RoleUser)
	moderator := createUser(t, "mod", "mod@example.com", models.RoleModerator)

	review := seedReview(t, title, author, 5)
	path := fmt.Sprintf("%s/%d", reviewsPath(title), review.ID)

	// anonymous read is fine
	assert.Equal(t, http.StatusOK, doJSON(t, r, "GET", path, nil, "").Code)

	// a stranger cannot edit or delete
	w := doJSON(t, r, "PATCH", path, map[string]any{"text": "hijacked"}, authHeader(t, stranger))
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(t, r, "DELETE", path, nil, authHeader(t, stranger))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// the author can edit
	w = doJSON(t, r, "PATCH", path, map[string]any{"score": 9}, authHeader(t, author))
	require.Equal(t, http.StatusOK, w.Code)

	// a moderator can delete someone else's review
	w = doJSON(t, r, "DELETE", path, nil, authHeader(t, moderator))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestReviewDeleteCascadesComments(t *testing.T) {
	r := setupRouter(t)
	title := seedTitle(t, "Parent", 2000)
	author := createUser(t, "ana", "ana@example.com", models.RoleUser)
	review := seedReview(t, title, author, 5)
	seedComment(t, review, author)

	path := fmt.Sprintf("%s/%d", reviewsPath(title), review.ID)
	w := doJSON(t, r, "DELETE", path, nil, authHeader(t, author))
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.EqualValues(t, 0, mustCount(t, &models.Comment{}, "review_id = ?", review.ID))
}

func TestReviewNestingMismatch(t *testing.T) {
	r := setupRouter(t)
	title := seedTitle(t, "One", 2000)
	other := seedTitle(t, "Two", 2001)
	author := createUser(t, "ana", "ana@example.com", models.RoleUser)
	review := seedReview(t, title, author, 5)

	// the review exists but under a different title
	w := doJSON(t, r, "GET", fmt.Sprintf("%s/%d", reviewsPath(other), review.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// unknown title
	w = doJSON(t, r, "GET", "/api/v1/titles/9999/reviews", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReviewTextSanitized(t *testing.T) {
	r := setupRouter(t)
	title := seedTitle(t, "Clean", 2000)
	user := createUser(t, "ana", "ana@example.com", models.RoleUser)

	w := doJSON(t, r, "POST", reviewsPath(title),
		map[string]any{"text": "<b>bold</b> claim", "score": 5}, authHeader(t, user))
	require.Equal(t, http.StatusCreated, w.Code)

	var body map[string]any
	decodeBody(t, w, &body)
	assert.Equal(t, "bold claim", body["text"])
}

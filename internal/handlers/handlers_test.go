package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"kritika/internal/db"
	"kritika/internal/models"
	"kritika/internal/router"
	"kritika/internal/services"
	"kritika/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDBSeq int64

// setupRouter wires a fresh in-memory database and the full route tree.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret-key")

	dsn := fmt.Sprintf("file:kritika_test_%d?mode=memory&cache=shared&_foreign_keys=on",
		atomic.AddInt64(&testDBSeq, 1))
	g, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// a single connection keeps the shared in-memory database alive and
	// the foreign_keys pragma effective for every statement
	sqlDB, err := g.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(g))
	db.DB = g

	r := gin.New()
	router.RegisterRoutes(r)
	return r
}

func createUser(t *testing.T, username, email, role string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: email, Role: role}
	require.NoError(t, db.DB.Create(user).Error)
	return user
}

// setConfirmationCode stores a known code on the user the way signup
// does, so tests can exchange it for tokens.
func setConfirmationCode(t *testing.T, user *models.User, code string) {
	t.Helper()
	hash, err := utils.HashConfirmationCode(code)
	require.NoError(t, err)
	require.NoError(t, db.DB.Model(user).Update("confirmation_code", hash).Error)
}

func authHeader(t *testing.T, user *models.User) string {
	t.Helper()
	pair, err := services.NewTokenService().GeneratePair(user.ID)
	require.NoError(t, err)
	return "Bearer " + pair.Access
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, auth string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// seedTitle creates a bare title directly in the database for
// feedback tests.
func seedTitle(t *testing.T, name string, year int) *models.Title {
	t.Helper()
	title := &models.Title{Name: name, Year: year}
	require.NoError(t, db.DB.Create(title).Error)
	return title
}

func seedReview(t *testing.T, title *models.Title, author *models.User, score int) *models.Review {
	t.Helper()
	review := &models.Review{
		Text:     "seeded review",
		Score:    score,
		AuthorID: author.ID,
		TitleID:  title.ID,
	}
	require.NoError(t, db.DB.Create(review).Error)
	return review
}

func seedComment(t *testing.T, review *models.Review, author *models.User) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		Text:     "seeded comment",
		AuthorID: author.ID,
		ReviewID: review.ID,
	}
	require.NoError(t, db.DB.Create(comment).Error)
	return comment
}

func mustCount(t *testing.T, model any, query string, args ...any) int64 {
	t.Helper()
	var count int64
	q := db.DB.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&count).Error)
	return count
}

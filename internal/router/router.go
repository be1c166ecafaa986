package router

import (
	"kritika/internal/handlers"
	"kritika/internal/middleware"
	"kritika/internal/services"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	tokens := services.NewTokenService()
	r.Use(middleware.LoadUser(tokens))

	// Handlers
	authHandler := handlers.NewAuthHandler()
	userHandler := handlers.NewUserHandler()
	categoryHandler := handlers.NewCategoryHandler()
	genreHandler := handlers.NewGenreHandler()
	titleHandler := handlers.NewTitleHandler()
	reviewHandler := handlers.NewReviewHandler()
	commentHandler := handlers.NewCommentHandler()

	api := r.Group("/api/v1")

	// Registration and token exchange
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/token", authHandler.Token)

	// Account management
	users := api.Group("/users")
	users.Use(middleware.AuthRequired())
	{
		users.GET("/me", userHandler.Me)
		users.PATCH("/me", userHandler.UpdateMe)

		admin := users.Group("", middleware.AdminRequired())
		{
			admin.GET("", userHandler.List)
			admin.POST("", userHandler.Create)
			admin.GET("/:username", userHandler.Get)
			admin.PATCH("/:username", userHandler.Update)
			admin.DELETE("/:username", userHandler.Delete)
		}
	}

	// Catalog: public reads, admin writes
	api.GET("/categories", categoryHandler.List)
	api.GET("/genres", genreHandler.List)
	api.GET("/titles", titleHandler.List)
	api.GET("/titles/:title_id", titleHandler.Get)

	catalog := api.Group("", middleware.AuthRequired(), middleware.AdminRequired())
	{
		catalog.POST("/categories", categoryHandler.Create)
		catalog.DELETE("/categories/:slug", categoryHandler.Delete)
		catalog.POST("/genres", genreHandler.Create)
		catalog.DELETE("/genres/:slug", genreHandler.Delete)
		catalog.POST("/titles", titleHandler.Create)
		catalog.PATCH("/titles/:title_id", titleHandler.Update)
		catalog.DELETE("/titles/:title_id", titleHandler.Delete)
	}

	// Feedback: public reads, authenticated writes; ownership and
	// moderation rules live in the handlers
	api.GET("/titles/:title_id/reviews", reviewHandler.List)
	api.GET("/titles/:title_id/reviews/:review_id", reviewHandler.Get)
	api.GET("/titles/:title_id/reviews/:review_id/comments", commentHandler.List)
	api.GET("/titles/:title_id/reviews/:review_id/comments/:comment_id", commentHandler.Get)

	feedback := api.Group("", middleware.AuthRequired())
	{
		feedback.POST("/titles/:title_id/reviews", reviewHandler.Create)
		feedback.PATCH("/titles/:title_id/reviews/:review_id", reviewHandler.Update)
		feedback.DELETE("/titles/:title_id/reviews/:review_id", reviewHandler.Delete)

		feedback.POST("/titles/:title_id/reviews/:review_id/comments", commentHandler.Create)
		feedback.PATCH("/titles/:title_id/reviews/:review_id/comments/:comment_id", commentHandler.Update)
		feedback.DELETE("/titles/:title_id/reviews/:review_id/comments/:comment_id", commentHandler.Delete)
	}
}

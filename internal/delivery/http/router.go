package http

import (
	"path/filepath"
	"time"

	"PostBoard/internal/delivery/http/controllers"
	authcontroller "PostBoard/internal/delivery/http/controllers/auth"
	"PostBoard/internal/delivery/http/controllers/middleware"
	postcontroller "PostBoard/internal/delivery/http/controllers/post"
	"PostBoard/internal/service"
	"PostBoard/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitRoutes(l logger.Log, u service.Collection, db controllers.Pinger, templatesDir string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	config := cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(config))

	r.LoadHTMLGlob(filepath.Join(templatesDir, "*.html"))

	statusController := controllers.NewStatusHandler(db)
	pagesController := controllers.NewPagesHandler()
	authController := authcontroller.NewAuthHandler(l, u.AuthService)
	postController := postcontroller.NewPostHandler(l, u.PostService)
	authGate := middleware.NewAuthGate(l, u.AuthService)

	r.Use(middleware.LoggingMiddleware(l))

	r.GET("/", statusController.Status)
	r.GET("/ping", statusController.Ping)

	r.GET("/login", pagesController.LoginPage)
	r.POST("/login", authController.Login)
	r.POST("/logout", authController.Logout)
	r.POST("/refresh", authController.Refresh)
	r.POST("/register", authController.Register)
	r.GET("/me", authGate.RequireAuth, authController.Me)

	auth := r.Group("/auth")
	{
		auth.POST("/revoke", authController.Revoke)
	}

	posts := r.Group("/posts")
	{
		posts.GET("", postController.ListPosts)
		posts.GET("/search", postController.SearchPosts)
		posts.GET("/view", pagesController.PostsViewPage)
		posts.GET("/new", pagesController.PostCreatePage)
		posts.GET("/:post_id", postController.GetPost)
		posts.GET("/:post_id/attachment", postController.GetAttachmentURL)

		protected := posts.Group("", authGate.RequireAuth)
		{
			protected.POST("/create", postController.CreatePost)
			protected.PATCH("/:post_id", postController.UpdatePost)
			protected.DELETE("/:post_id", postController.DeletePost)
			protected.POST("/:post_id/attachment", postController.UploadAttachment)
		}
	}

	return r
}

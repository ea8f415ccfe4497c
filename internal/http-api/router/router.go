// Package router wires every HTTP endpoint to its handler and guard
// chain. Public reads carry no middleware beyond the global stack;
// writes require a valid token and, where noted, a role.
package router

import (
	"net/http"

	"blogapi/internal/config"
	"blogapi/internal/http-api/handler"
	"blogapi/internal/http-api/middleware"
	"blogapi/internal/http-api/models"
	"blogapi/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

// Handlers bundles the constructed handlers so New stays callable from
// tests with fakes in place.
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Category *handler.CategoryHandler
	Post     *handler.PostHandler
	Comment  *handler.CommentHandler
}

func New(cfg *config.Config, authService service.AuthService, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authed := middleware.Authenticated(authService)
	staffOnly := middleware.RequireRoles(models.RoleAdmin, models.RoleModerator)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/revoke", h.Auth.RevokeToken)
	}

	users := api.Group("/users")
	{
		users.GET("/profile", authed, h.User.Profile)
		users.PUT("/profile", authed, h.User.UpdateProfile)
		users.GET("", authed, adminOnly, h.User.List)
		users.GET("/:id", authed, middleware.RequireOwnership("id"), h.User.Get)
		users.PUT("/:id", authed, adminOnly, h.User.Update)
		users.DELETE("/:id", authed, adminOnly, h.User.Remove)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.GET("/paginated", h.Category.ListPaginated)
		categories.GET("/roots", h.Category.ListRoots)
		categories.GET("/:id", h.Category.Get)
		categories.GET("/slug/:slug", h.Category.GetBySlug)
		categories.GET("/:id/children", h.Category.ListChildren)
		categories.GET("/:id/ancestors", h.Category.ListAncestors)

		categories.POST("", authed, staffOnly, h.Category.Create)
		categories.PUT("/:id", authed, staffOnly, h.Category.Update)
		categories.DELETE("/:id", authed, adminOnly, h.Category.Remove)
	}

	posts := api.Group("/posts")
	{
		posts.GET("", h.Post.List)
		posts.GET("/:id", h.Post.Get)
		posts.GET("/slug/:slug", h.Post.GetBySlug)
		posts.GET("/:id/comments", h.Comment.ListByPost)
		posts.GET("/:id/comments/approved", h.Comment.ListApprovedByPost)

		posts.POST("", authed, h.Post.Create)
		posts.PUT("/:id", authed, h.Post.Update)
		posts.DELETE("/:id", authed, h.Post.Remove)
		posts.POST("/:id/publish", authed, h.Post.Publish)
		posts.POST("/:id/draft", authed, h.Post.Draft)
		posts.POST("/:id/like", authed, h.Post.Like)
		posts.DELETE("/:id/like", authed, h.Post.Unlike)
	}

	comments := api.Group("/comments")
	{
		comments.GET("/:id", h.Comment.Get)
		comments.GET("/:id/replies", h.Comment.ListReplies)

		comments.POST("", authed, h.Comment.Create)
		comments.PUT("/:id", authed, h.Comment.Update)
		comments.DELETE("/:id", authed, h.Comment.Remove)
		comments.POST("/:id/approve", authed, staffOnly, h.Comment.Approve)
		comments.POST("/:id/reject", authed, staffOnly, h.Comment.Reject)
		comments.POST("/:id/like", authed, h.Comment.Like)
		comments.DELETE("/:id/like", authed, h.Comment.Unlike)
	}

	return r
}

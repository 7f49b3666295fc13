// Package routes assembles the HTTP surface for the server and tests.
package routes

import (
	"stagestream/handlers"
	"stagestream/web"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth   *handlers.AuthHandler
	Post   *handlers.PostHandler
	Page   *handlers.PageHandler
	Health *handlers.HealthHandler
}

// Options carries the middleware that depends on runtime configuration.
type Options struct {
	SessionGuard gin.HandlerFunc
	LoginLimiter gin.HandlerFunc
}

// Register mounts every route on router.
func Register(router *gin.Engine, h Handlers, opts Options) error {
	tmpl, err := web.Templates()
	if err != nil {
		return err
	}
	router.SetHTMLTemplate(tmpl)

	loginChain := []gin.HandlerFunc{h.Auth.Login}
	if opts.LoginLimiter != nil {
		loginChain = append([]gin.HandlerFunc{opts.LoginLimiter}, loginChain...)
	}

	router.GET("/health", h.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/", h.Page.Home)
	router.GET("/posts/:slug", h.Page.ShowPost)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", loginChain...)
			auth.POST("/logout", h.Auth.Logout)
			auth.GET("/session", opts.SessionGuard, h.Auth.GetSession)
		}

		posts := api.Group("/posts")
		{
			posts.GET("", h.Post.ListPosts)
			posts.GET("/:id", h.Post.GetPost)

			posts.POST("", opts.SessionGuard, h.Post.CreatePost)
			posts.PUT("/:id", opts.SessionGuard, h.Post.UpdatePost)
			posts.DELETE("/:id", opts.SessionGuard, h.Post.DeletePost)
		}

		public := api.Group("/public")
		{
			public.GET("/posts", h.Post.ListPublicPosts)
			public.GET("/posts/:slug", h.Post.GetPublicPost)
		}
	}

	return nil
}

package handlers

import (
	"errors"
	"html/template"
	"net/http"

	"stagestream/models"
	"stagestream/services"

	"github.com/gin-gonic/gin"
)

// PageHandler serves the server-rendered public pages.
type PageHandler struct {
	postService services.PostService
}

func NewPageHandler(postService services.PostService) *PageHandler {
	return &PageHandler{postService: postService}
}

func (h *PageHandler) Home(c *gin.Context) {
	published := true
	posts, err := h.postService.ListPosts(c.Request.Context(), models.PostListParams{Published: &published})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "home.html", gin.H{
		"Title": "StageStream",
		"Posts": posts,
	})
}

func (h *PageHandler) ShowPost(c *gin.Context) {
	post, err := h.postService.GetPublishedPost(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "post.html", gin.H{
		"Title": post.Title,
		"Post":  post,
		// Rendered by goldmark with raw HTML disabled.
		"Body": template.HTML(post.HTML),
	})
}

func (h *PageHandler) renderError(c *gin.Context, err error) {
	var notFound *models.ErrorNotFound
	if errors.As(err, &notFound) {
		c.HTML(http.StatusNotFound, "not_found.html", gin.H{"Title": "Not found"})
		return
	}
	_ = c.Error(err)
	c.HTML(http.StatusInternalServerError, "not_found.html", gin.H{
		"Title":   "Something went wrong",
		"Message": "Something went wrong. Please try again later.",
	})
}

package handlers

import (
	"net/http"
	"strconv"

	"stagestream/helper"
	"stagestream/middleware"
	"stagestream/models"
	"stagestream/services"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postService services.PostService
	Helper      *helper.HTTPHelper
}

func NewPostHandler(postService services.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
		Helper:      middleware.HTTPHelper,
	}
}

// ListPosts handles GET /api/posts with optional type and published filters.
func (h *PostHandler) ListPosts(c *gin.Context) {
	params, ok := h.listParams(c)
	if !ok {
		return
	}

	posts, err := h.postService.ListPosts(c.Request.Context(), params)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

// ListPublicPosts lists published posts only; a published query value is ignored.
func (h *PostHandler) ListPublicPosts(c *gin.Context) {
	params, ok := h.listParams(c)
	if !ok {
		return
	}
	published := true
	params.Published = &published

	posts, err := h.postService.ListPosts(c.Request.Context(), params)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	var req models.CreatePostRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	post, err := h.postService.CreatePost(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}

	post, err := h.postService.GetPost(c.Request.Context(), id)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) GetPublicPost(c *gin.Context) {
	post, err := h.postService.GetPublishedPost(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}

	var req models.UpdatePostRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	post, err := h.postService.UpdatePost(c.Request.Context(), id, req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}

	if err := h.postService.DeletePost(c.Request.Context(), id); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

func (h *PostHandler) postID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.Helper.SendBadRequest(c, "Invalid post ID")
		return 0, false
	}
	return uint(id), true
}

func (h *PostHandler) listParams(c *gin.Context) (models.PostListParams, bool) {
	var params models.PostListParams

	if raw, ok := c.GetQuery("type"); ok && raw != "" {
		postType, valid := models.ParsePostType(raw)
		if !valid {
			h.Helper.SendBadRequest(c, "Invalid post type")
			return params, false
		}
		params.Type = &postType
	}

	if raw, ok := c.GetQuery("published"); ok && raw != "" {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			h.Helper.SendBadRequest(c, "Invalid published filter")
			return params, false
		}
		params.Published = &published
	}

	return params, true
}

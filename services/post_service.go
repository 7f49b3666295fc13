package services

import (
	"context"
	"errors"
	"strings"

	"stagestream/helper"
	"stagestream/metrics"
	"stagestream/models"
	"stagestream/repositories"
	"stagestream/tracing"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

var (
	errPostNotFound  = &models.ErrorNotFound{Message: "Post not found"}
	errSlugConflict  = &models.ErrorConflict{Message: "Slug already exists"}
	errInvalidPostID = &models.ErrorValidation{Message: "Invalid post ID"}
)

type PostService interface {
	ListPosts(ctx context.Context, params models.PostListParams) ([]models.Post, error)
	GetPost(ctx context.Context, id uint) (*models.Post, error)
	GetPublishedPost(ctx context.Context, slug string) (*models.PublicPost, error)
	CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error)
	UpdatePost(ctx context.Context, id uint, req models.UpdatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, id uint) error
}

type postService struct {
	postRepo repositories.PostRepository
}

func NewPostService(postRepo repositories.PostRepository) PostService {
	return &postService{postRepo: postRepo}
}

func (s *postService) ListPosts(ctx context.Context, params models.PostListParams) ([]models.Post, error) {
	posts, err := s.postRepo.List(ctx, params)
	if err != nil {
		return nil, models.NewInternalError("failed to list posts", err)
	}
	return posts, nil
}

func (s *postService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	if id == 0 {
		return nil, errInvalidPostID
	}
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, "failed to load post")
	}
	return post, nil
}

// GetPublishedPost looks a post up by slug for public readers. Drafts are
// reported as missing.
func (s *postService) GetPublishedPost(ctx context.Context, slug string) (*models.PublicPost, error) {
	ctx, span := tracing.Start(ctx, "posts.GetPublishedPost", attribute.String("post.slug", slug))
	defer span.End()

	post, err := s.postRepo.GetBySlug(ctx, slug, true)
	if err != nil {
		return nil, s.translate(err, "failed to load post")
	}

	html, err := helper.RenderMarkdown(post.Content)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, models.NewInternalError("failed to render post", err)
	}

	return &models.PublicPost{Post: *post, HTML: html}, nil
}

func (s *postService) CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error) {
	ctx, span := tracing.Start(ctx, "posts.CreatePost", attribute.String("post.slug", req.Slug))
	defer span.End()

	if err := requireText("Title", req.Title); err != nil {
		return nil, err
	}
	if err := requireText("Content", req.Content); err != nil {
		return nil, err
	}
	postType, ok := models.ParsePostType(req.Type)
	if !ok {
		return nil, &models.ErrorValidation{Message: "Invalid post type"}
	}

	post := &models.Post{
		Title:   req.Title,
		Slug:    req.Slug,
		Content: req.Content,
		Excerpt: normalizeExcerpt(req.Excerpt),
		Type:    postType,
	}
	if req.Published != nil {
		post.Published = *req.Published
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		tracing.RecordError(span, err)
		return nil, s.translate(err, "failed to create post")
	}

	metrics.PostMutations.WithLabelValues("create").Inc()
	span.SetAttributes(attribute.Int("post.id", int(post.ID)))
	return post, nil
}

// UpdatePost applies the fields present in req. A request without fields
// returns the stored post unchanged.
func (s *postService) UpdatePost(ctx context.Context, id uint, req models.UpdatePostRequest) (*models.Post, error) {
	ctx, span := tracing.Start(ctx, "posts.UpdatePost", attribute.Int("post.id", int(id)))
	defer span.End()

	if id == 0 {
		return nil, errInvalidPostID
	}
	if req.Empty() {
		return s.GetPost(ctx, id)
	}

	fields, err := updateFields(req)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.Update(ctx, id, fields)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, s.translate(err, "failed to update post")
	}

	metrics.PostMutations.WithLabelValues("update").Inc()
	return post, nil
}

func (s *postService) DeletePost(ctx context.Context, id uint) error {
	ctx, span := tracing.Start(ctx, "posts.DeletePost", attribute.Int("post.id", int(id)))
	defer span.End()

	if id == 0 {
		return errInvalidPostID
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		tracing.RecordError(span, err)
		return s.translate(err, "failed to delete post")
	}

	metrics.PostMutations.WithLabelValues("delete").Inc()
	return nil
}

// translate maps storage errors onto the typed errors the handlers report.
func (s *postService) translate(err error, message string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errPostNotFound
	case repositories.IsDuplicateKey(err):
		return errSlugConflict
	default:
		return models.NewInternalError(message, err)
	}
}

// requireText rejects values that are empty once surrounding whitespace is removed.
func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &models.ErrorValidation{Message: field + " cannot be empty"}
	}
	return nil
}

func updateFields(req models.UpdatePostRequest) (map[string]interface{}, error) {
	fields := map[string]interface{}{}

	if req.Title != nil {
		if err := requireText("Title", *req.Title); err != nil {
			return nil, err
		}
		fields["title"] = *req.Title
	}
	if req.Slug != nil {
		if *req.Slug == "" {
			return nil, &models.ErrorValidation{Message: "Slug cannot be empty"}
		}
		fields["slug"] = *req.Slug
	}
	if req.Content != nil {
		if err := requireText("Content", *req.Content); err != nil {
			return nil, err
		}
		fields["content"] = *req.Content
	}
	if req.Excerpt != nil {
		fields["excerpt"] = normalizeExcerpt(req.Excerpt)
	}
	if req.Type != nil {
		postType, ok := models.ParsePostType(*req.Type)
		if !ok {
			return nil, &models.ErrorValidation{Message: "Invalid post type"}
		}
		fields["type"] = postType
	}
	if req.Published != nil {
		fields["published"] = *req.Published
	}

	return fields, nil
}

func normalizeExcerpt(excerpt *string) *string {
	if excerpt == nil || strings.TrimSpace(*excerpt) == "" {
		return nil
	}
	e := *excerpt
	return &e
}

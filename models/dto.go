package models

import "strings"

type LoginRequest struct {
	StageKey string `json:"stageKey" validate:"required"`
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=72"`
}

type LoginResponse struct {
	Success bool         `json:"success"`
	Admin   AdminSummary `json:"admin"`
}

type CreatePostRequest struct {
	Title     string  `json:"title" validate:"required,max=255"`
	Slug      string  `json:"slug" validate:"required,max=255,slug"`
	Content   string  `json:"content" validate:"required"`
	Excerpt   *string `json:"excerpt" validate:"omitempty,max=500"`
	Type      string  `json:"type" validate:"required,oneof=BLOG POST PODCAST"`
	Published *bool   `json:"published"`
}

// Normalize upper-cases the type and trims the slug before validation.
func (r *CreatePostRequest) Normalize() {
	r.Slug = strings.TrimSpace(r.Slug)
	r.Type = strings.ToUpper(strings.TrimSpace(r.Type))
}

// UpdatePostRequest is a partial update: nil fields are left unchanged.
type UpdatePostRequest struct {
	Title     *string `json:"title" validate:"omitempty,max=255"`
	Slug      *string `json:"slug" validate:"omitempty,max=255,slug"`
	Content   *string `json:"content"`
	Excerpt   *string `json:"excerpt" validate:"omitempty,max=500"`
	Type      *string `json:"type" validate:"omitempty,oneof=BLOG POST PODCAST"`
	Published *bool   `json:"published"`
}

func (r *UpdatePostRequest) Normalize() {
	if r.Slug != nil {
		s := strings.TrimSpace(*r.Slug)
		r.Slug = &s
	}
	if r.Type != nil {
		t := strings.ToUpper(strings.TrimSpace(*r.Type))
		r.Type = &t
	}
}

// Empty reports whether the request changes nothing.
func (r *UpdatePostRequest) Empty() bool {
	return r.Title == nil && r.Slug == nil && r.Content == nil &&
		r.Excerpt == nil && r.Type == nil && r.Published == nil
}

// PostListParams filters a post listing. Nil fields do not filter.
type PostListParams struct {
	Type      *PostType
	Published *bool
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

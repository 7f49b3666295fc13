package models

import (
	"strings"
	"time"
)

type PostType string

const (
	PostTypeBlog    PostType = "BLOG"
	PostTypePost    PostType = "POST"
	PostTypePodcast PostType = "PODCAST"
)

// PostTypes lists every accepted post type.
var PostTypes = []PostType{PostTypeBlog, PostTypePost, PostTypePodcast}

// ParsePostType normalizes s to upper case and reports whether it names a known type.
func ParsePostType(s string) (PostType, bool) {
	t := PostType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range PostTypes {
		if t == known {
			return t, true
		}
	}
	return t, false
}

type Post struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Title     string    `json:"title" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Excerpt   *string   `json:"excerpt"`
	Type      PostType  `json:"type" gorm:"type:varchar(16);not null;index"`
	Published bool      `json:"published" gorm:"not null;default:false;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PublicPost is a published post together with its rendered body.
type PublicPost struct {
	Post
	HTML string `json:"html"`
}

// Package seed inserts demo posts for local development.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"stagestream/models"
	"stagestream/repositories"

	"github.com/brianvoe/gofakeit/v6"
)

// DefaultPostCount is the number of "Test Post N" posts SeedDefaults writes.
const DefaultPostCount = 5

type Seeder struct {
	posts repositories.PostRepository
	faker *gofakeit.Faker
}

// NewSeeder returns a seeder writing through posts. A zero fakeSeed picks a
// random seed for generated content.
func NewSeeder(posts repositories.PostRepository, fakeSeed int64) *Seeder {
	return &Seeder{posts: posts, faker: gofakeit.New(fakeSeed)}
}

// SeedDefaults writes the published test posts test-post-1 to test-post-5.
// Posts whose slug already exists are left alone. It returns how many posts
// were inserted.
func (s *Seeder) SeedDefaults(ctx context.Context) (int, error) {
	created := 0
	for i := 1; i <= DefaultPostCount; i++ {
		excerpt := fmt.Sprintf("This is test post number %d.", i)
		post := &models.Post{
			Title:   fmt.Sprintf("Test Post %d", i),
			Slug:    fmt.Sprintf("test-post-%d", i),
			Excerpt: &excerpt,
			Content: fmt.Sprintf("# Test Post %d\n\nThis is sample content for post number %d. You can edit it later.\n\n"+
				"**This text is bold** and *this one is italic*.\n\nThanks for using StageStream.", i, i),
			Type:      models.PostTypePost,
			Published: true,
		}

		ok, err := s.posts.CreateIfSlugAbsent(ctx, post)
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", post.Slug, err)
		}
		if ok {
			created++
		}
	}

	slog.InfoContext(ctx, "default posts seeded", slog.Int("created", created))
	return created, nil
}

// SeedFake writes n posts with generated content, random types and a random
// published flag.
func (s *Seeder) SeedFake(ctx context.Context, n int) (int, error) {
	created := 0
	for i := 0; i < n; i++ {
		post := s.fakePost()
		ok, err := s.posts.CreateIfSlugAbsent(ctx, post)
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", post.Slug, err)
		}
		if ok {
			created++
		}
	}

	slog.InfoContext(ctx, "fake posts seeded", slog.Int("requested", n), slog.Int("created", created))
	return created, nil
}

func (s *Seeder) fakePost() *models.Post {
	f := s.faker

	title := strings.TrimSuffix(f.Sentence(5), ".")
	excerpt := f.Sentence(12)

	var body strings.Builder
	body.WriteString("# " + title + "\n\n")
	paragraphs := f.Number(2, 4)
	for p := 0; p < paragraphs; p++ {
		body.WriteString(f.Paragraph(1, 4, 12, " "))
		body.WriteString("\n\n")
	}
	body.WriteString("- " + f.HackerPhrase() + "\n- " + f.HackerPhrase() + "\n")

	return &models.Post{
		Title:     title,
		Slug:      fmt.Sprintf("%s-%d", slugify(title), f.Number(1000, 999999)),
		Content:   body.String(),
		Excerpt:   &excerpt,
		Type:      models.PostTypes[f.Number(0, len(models.PostTypes)-1)],
		Published: f.Bool(),
	}
}

// slugify lower-cases s and joins its alphanumeric runs with dashes.
func slugify(s string) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	if len(words) == 0 {
		return "post"
	}
	if len(words) > 6 {
		words = words[:6]
	}
	return strings.Join(words, "-")
}

package repositories

import (
	"context"

	"stagestream/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	CreateIfSlugAbsent(ctx context.Context, post *models.Post) (bool, error)
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Post, error)
	List(ctx context.Context, params models.PostListParams) ([]models.Post, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.Post, error)
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// CreateIfSlugAbsent inserts post unless its slug is taken and reports
// whether a row was written.
func (r *postRepository) CreateIfSlugAbsent(ctx context.Context, post *models.Post) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(post)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Post, error) {
	var post models.Post
	query := r.db.WithContext(ctx).Where("slug = ?", slug)
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	if err := query.First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns posts newest first. The id tie-break keeps the order stable
// for posts created within the same clock tick.
func (r *postRepository) List(ctx context.Context, params models.PostListParams) ([]models.Post, error) {
	posts := []models.Post{}

	query := r.db.WithContext(ctx).Model(&models.Post{})
	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}
	if params.Published != nil {
		query = query.Where("published = ?", *params.Published)
	}

	err := query.Order("created_at DESC").Order("id DESC").Find(&posts).Error
	return posts, err
}

// Update applies fields to the post with the given id and returns the stored
// row. It returns gorm.ErrRecordNotFound when no such post exists.
func (r *postRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.Post, error) {
	var post *models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{ID: id}).Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var stored models.Post
		if err := tx.First(&stored, id).Error; err != nil {
			return err
		}
		post = &stored
		return nil
	})
	return post, err
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

package persistent

import (
	"errors"
	"fmt"

	"jungleboard/internal/entity"
	"jungleboard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepository interface {
	Create(post *entity.Post) error
	GetByID(id string) (*entity.Post, error)
	List() ([]*entity.Post, error)
	Update(post *entity.Post) error
	Delete(id string) error
	IncrementViews(id string) error
	AddComment(postID string, comment *entity.Comment) error
	UpdateComment(postID, commentID, content string) error
	DeleteComment(postID, commentID string) error
	GetComment(postID, commentID string) (*entity.Comment, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// preloadComments keeps the embedded comments in insertion order; id breaks
// ties for same-timestamp inserts so the order is stable.
func (r *postRepository) preloadComments(db *gorm.DB) *gorm.DB {
	return db.Preload("Comments", func(db *gorm.DB) *gorm.DB {
		return db.Order("comments.created_at ASC, comments.id ASC")
	})
}

func (r *postRepository) Create(post *entity.Post) error {
	postModel := ToPostModel(post)
	if postModel.ID == "" {
		postModel.ID = uuid.New().String()
	}

	if err := r.db.Create(postModel).Error; err != nil {
		return err
	}

	resolved, err := r.GetByID(postModel.ID)
	if err != nil {
		return err
	}
	*post = *resolved
	return nil
}

func (r *postRepository) GetByID(id string) (*entity.Post, error) {
	var postModel model.PostModel
	if err := r.preloadComments(r.db).Where("id = ?", id).First(&postModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post %s: %w", id, entity.ErrNotFound)
		}
		return nil, err
	}

	usernames, err := r.collectUsernames([]model.PostModel{postModel})
	if err != nil {
		return nil, err
	}
	return ToPostEntity(&postModel, usernames), nil
}

func (r *postRepository) List() ([]*entity.Post, error) {
	var postModels []model.PostModel
	if err := r.preloadComments(r.db).Order("created_at DESC").Find(&postModels).Error; err != nil {
		return nil, err
	}

	usernames, err := r.collectUsernames(postModels)
	if err != nil {
		return nil, err
	}

	posts := make([]*entity.Post, len(postModels))
	for i := range postModels {
		posts[i] = ToPostEntity(&postModels[i], usernames)
	}
	return posts, nil
}

func (r *postRepository) Update(post *entity.Post) error {
	updates := map[string]interface{}{
		"title":     post.Title,
		"body":      post.Body,
		"image_url": post.ImageURL,
		"category":  string(post.Category),
	}
	return r.db.Model(&model.PostModel{}).Where("id = ?", post.ID).Updates(updates).Error
}

// Delete removes the post and its embedded comments in one transaction.
func (r *postRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.CommentModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.PostModel{}, "id = ?", id).Error
	})
}

func (r *postRepository) IncrementViews(id string) error {
	result := r.db.Model(&model.PostModel{}).Where("id = ?", id).
		UpdateColumn("views", clause.Expr{SQL: "views + ?", Vars: []interface{}{1}})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("post %s: %w", id, entity.ErrNotFound)
	}
	return nil
}

func (r *postRepository) AddComment(postID string, comment *entity.Comment) error {
	commentModel := ToCommentModel(comment, postID)
	if commentModel.ID == "" {
		commentModel.ID = uuid.New().String()
	}
	if err := r.db.Create(commentModel).Error; err != nil {
		return err
	}
	comment.ID = commentModel.ID
	comment.CreatedAt = commentModel.CreatedAt
	comment.UpdatedAt = commentModel.UpdatedAt
	return nil
}

// UpdateComment targets the row by post and comment id so sibling comments
// are never touched, whatever their position.
func (r *postRepository) UpdateComment(postID, commentID, content string) error {
	result := r.db.Model(&model.CommentModel{}).
		Where("id = ? AND post_id = ?", commentID, postID).
		Update("content", content)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("comment %s: %w", commentID, entity.ErrNotFound)
	}
	return nil
}

func (r *postRepository) DeleteComment(postID, commentID string) error {
	result := r.db.Where("id = ? AND post_id = ?", commentID, postID).Delete(&model.CommentModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("comment %s: %w", commentID, entity.ErrNotFound)
	}
	return nil
}

func (r *postRepository) GetComment(postID, commentID string) (*entity.Comment, error) {
	var commentModel model.CommentModel
	err := r.db.Where("id = ? AND post_id = ?", commentID, postID).First(&commentModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("comment %s: %w", commentID, entity.ErrNotFound)
		}
		return nil, err
	}

	usernames, err := r.lookupUsernames([]string{commentModel.AuthorID})
	if err != nil {
		return nil, err
	}
	return ToCommentEntity(&commentModel, usernames), nil
}

// collectUsernames gathers every author id referenced by the given posts and
// their comments and resolves them in a single query.
func (r *postRepository) collectUsernames(posts []model.PostModel) (map[string]string, error) {
	seen := make(map[string]bool)
	ids := make([]string, 0, len(posts))
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for i := range posts {
		add(posts[i].AuthorID)
		for j := range posts[i].Comments {
			add(posts[i].Comments[j].AuthorID)
		}
	}

	return r.lookupUsernames(ids)
}

func (r *postRepository) lookupUsernames(ids []string) (map[string]string, error) {
	usernames := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return usernames, nil
	}

	var users []model.UserModel
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		usernames[users[i].ID] = users[i].Username
	}
	return usernames, nil
}

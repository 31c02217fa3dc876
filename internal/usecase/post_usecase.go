package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"jungleboard/internal/entity"
	"jungleboard/internal/repo/persistent"
	"jungleboard/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const (
	listCacheKey = "posts:list"
	listCacheTTL = 10 * time.Minute
)

type PostUseCase interface {
	ListPosts() ([]*entity.Post, error)
	CreatePost(authorID, title, body, imageURL, category string) (*entity.Post, error)
	UpdatePost(postID, authorID string, update entity.PostUpdate) (*entity.Post, error)
	DeletePost(postID, authorID string) error
	AddComment(postID, authorID, content string) (*entity.Post, error)
	UpdateComment(postID, commentID, authorID, content string) (*entity.Post, error)
	DeleteComment(postID, commentID, authorID string) (*entity.Post, error)
	IncrementViews(postID string) (*entity.Post, error)
}

type postUseCase struct {
	postRepo    persistent.PostRepository
	redisClient *redis.Client
	logger      *logger.Logger
}

func NewPostUseCase(
	postRepo persistent.PostRepository,
	redisClient *redis.Client,
	logger *logger.Logger,
) PostUseCase {
	return &postUseCase{
		postRepo:    postRepo,
		redisClient: redisClient,
		logger:      logger,
	}
}

func (uc *postUseCase) ListPosts() ([]*entity.Post, error) {
	if posts, ok := uc.cachedList(); ok {
		return posts, nil
	}

	posts, err := uc.postRepo.List()
	if err != nil {
		return nil, err
	}

	uc.cacheList(posts)
	return posts, nil
}

func (uc *postUseCase) CreatePost(authorID, title, body, imageURL, category string) (*entity.Post, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" || body == "" {
		return nil, fmt.Errorf("missing fields: %w", entity.ErrInvalidInput)
	}

	post := &entity.Post{
		Author:   entity.Author{ID: authorID},
		Title:    title,
		Body:     body,
		ImageURL: strings.TrimSpace(imageURL),
		Category: entity.NormalizeCategory(category),
	}

	if err := uc.postRepo.Create(post); err != nil {
		uc.logger.Error("Failed to create post: %v", err)
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	uc.invalidateList()
	return post, nil
}

func (uc *postUseCase) UpdatePost(postID, authorID string, update entity.PostUpdate) (*entity.Post, error) {
	post, err := uc.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post.Author.ID != authorID {
		return nil, fmt.Errorf("post %s is not owned by caller: %w", postID, entity.ErrForbidden)
	}

	changed := false
	if update.Title != nil {
		if title := strings.TrimSpace(*update.Title); title != "" {
			post.Title = title
			changed = true
		}
	}
	if update.Body != nil {
		if body := strings.TrimSpace(*update.Body); body != "" {
			post.Body = body
			changed = true
		}
	}
	if update.ImageURL != nil {
		post.ImageURL = strings.TrimSpace(*update.ImageURL)
		changed = true
	}
	if update.Category != nil {
		post.Category = entity.NormalizeCategory(*update.Category)
		changed = true
	}

	if !changed {
		return post, nil
	}

	if err := uc.postRepo.Update(post); err != nil {
		uc.logger.Error("Failed to update post %s: %v", postID, err)
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	uc.invalidateList()
	return uc.postRepo.GetByID(postID)
}

func (uc *postUseCase) DeletePost(postID, authorID string) error {
	post, err := uc.postRepo.GetByID(postID)
	if err != nil {
		return err
	}
	if post.Author.ID != authorID {
		return fmt.Errorf("post %s is not owned by caller: %w", postID, entity.ErrForbidden)
	}

	if err := uc.postRepo.Delete(postID); err != nil {
		uc.logger.Error("Failed to delete post %s: %v", postID, err)
		return fmt.Errorf("failed to delete post: %w", err)
	}

	uc.invalidateList()
	return nil
}

func (uc *postUseCase) AddComment(postID, authorID, content string) (*entity.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("missing content: %w", entity.ErrInvalidInput)
	}

	if _, err := uc.postRepo.GetByID(postID); err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		Author:  entity.Author{ID: authorID},
		Content: content,
	}
	if err := uc.postRepo.AddComment(postID, comment); err != nil {
		uc.logger.Error("Failed to add comment to post %s: %v", postID, err)
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	uc.invalidateList()
	return uc.postRepo.GetByID(postID)
}

func (uc *postUseCase) UpdateComment(postID, commentID, authorID, content string) (*entity.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("missing content: %w", entity.ErrInvalidInput)
	}

	if err := uc.authorizeComment(postID, commentID, authorID); err != nil {
		return nil, err
	}

	if err := uc.postRepo.UpdateComment(postID, commentID, content); err != nil {
		return nil, err
	}

	uc.invalidateList()
	return uc.postRepo.GetByID(postID)
}

func (uc *postUseCase) DeleteComment(postID, commentID, authorID string) (*entity.Post, error) {
	if err := uc.authorizeComment(postID, commentID, authorID); err != nil {
		return nil, err
	}

	if err := uc.postRepo.DeleteComment(postID, commentID); err != nil {
		return nil, err
	}

	uc.invalidateList()
	return uc.postRepo.GetByID(postID)
}

func (uc *postUseCase) IncrementViews(postID string) (*entity.Post, error) {
	if err := uc.postRepo.IncrementViews(postID); err != nil {
		return nil, err
	}

	uc.invalidateList()
	return uc.postRepo.GetByID(postID)
}

func (uc *postUseCase) authorizeComment(postID, commentID, authorID string) error {
	if _, err := uc.postRepo.GetByID(postID); err != nil {
		return err
	}
	comment, err := uc.postRepo.GetComment(postID, commentID)
	if err != nil {
		return err
	}
	if comment.Author.ID != authorID {
		return fmt.Errorf("comment %s is not owned by caller: %w", commentID, entity.ErrForbidden)
	}
	return nil
}

func (uc *postUseCase) cachedList() ([]*entity.Post, bool) {
	if uc.redisClient == nil {
		return nil, false
	}

	ctx := context.Background()
	cached, err := uc.redisClient.Get(ctx, listCacheKey).Result()
	if err != nil {
		return nil, false
	}

	var posts []*entity.Post
	if err := json.Unmarshal([]byte(cached), &posts); err != nil {
		uc.logger.Warn("Failed to decode cached post list: %v", err)
		return nil, false
	}
	return posts, true
}

func (uc *postUseCase) cacheList(posts []*entity.Post) {
	if uc.redisClient == nil {
		return
	}

	data, err := json.Marshal(posts)
	if err != nil {
		return
	}
	uc.redisClient.Set(context.Background(), listCacheKey, data, listCacheTTL)
}

// invalidateList drops the cached list so the next read reflects the
// mutation. Cache failures are logged and otherwise ignored.
func (uc *postUseCase) invalidateList() {
	if uc.redisClient == nil {
		return
	}
	if err := uc.redisClient.Del(context.Background(), listCacheKey).Err(); err != nil {
		uc.logger.Warn("Failed to invalidate post list cache: %v", err)
	}
}

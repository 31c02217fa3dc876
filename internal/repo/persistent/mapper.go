package persistent

import (
	"jungleboard/internal/entity"
	"jungleboard/internal/model"
)

func ToUserEntity(m *model.UserModel) *entity.User {
	if m == nil {
		return nil
	}

	return &entity.User{
		ID:        m.ID,
		Username:  m.Username,
		Password:  m.Password,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToUserModel(e *entity.User) *model.UserModel {
	if e == nil {
		return nil
	}

	return &model.UserModel{
		ID:        e.ID,
		Username:  e.Username,
		Password:  e.Password,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// ToPostEntity resolves author identities through the supplied id->username
// map. Authors missing from the map (deleted users) keep an empty username.
func ToPostEntity(m *model.PostModel, usernames map[string]string) *entity.Post {
	if m == nil {
		return nil
	}

	comments := make([]entity.Comment, len(m.Comments))
	for i := range m.Comments {
		comments[i] = *ToCommentEntity(&m.Comments[i], usernames)
	}

	return &entity.Post{
		ID:        m.ID,
		Author:    entity.Author{ID: m.AuthorID, Username: usernames[m.AuthorID]},
		Title:     m.Title,
		Body:      m.Body,
		ImageURL:  m.ImageURL,
		Category:  entity.Category(m.Category),
		Views:     m.Views,
		Likes:     m.Likes,
		Dislikes:  m.Dislikes,
		Comments:  comments,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToPostModel(e *entity.Post) *model.PostModel {
	if e == nil {
		return nil
	}

	comments := make([]model.CommentModel, len(e.Comments))
	for i := range e.Comments {
		comments[i] = *ToCommentModel(&e.Comments[i], e.ID)
	}

	return &model.PostModel{
		ID:        e.ID,
		AuthorID:  e.Author.ID,
		Title:     e.Title,
		Body:      e.Body,
		ImageURL:  e.ImageURL,
		Category:  string(e.Category),
		Views:     e.Views,
		Likes:     e.Likes,
		Dislikes:  e.Dislikes,
		Comments:  comments,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func ToCommentEntity(m *model.CommentModel, usernames map[string]string) *entity.Comment {
	if m == nil {
		return nil
	}

	return &entity.Comment{
		ID:        m.ID,
		Author:    entity.Author{ID: m.AuthorID, Username: usernames[m.AuthorID]},
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToCommentModel(e *entity.Comment, postID string) *model.CommentModel {
	if e == nil {
		return nil
	}

	return &model.CommentModel{
		ID:        e.ID,
		PostID:    postID,
		AuthorID:  e.Author.ID,
		Content:   e.Content,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

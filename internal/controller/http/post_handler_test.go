package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"jungleboard/internal/entity"
	"jungleboard/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPostUseCase is a mock implementation of PostUseCase
type MockPostUseCase struct {
	mock.Mock
}

func (m *MockPostUseCase) ListPosts() ([]*entity.Post, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) CreatePost(authorID, title, body, imageURL, category string) (*entity.Post, error) {
	args := m.Called(authorID, title, body, imageURL, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) UpdatePost(postID, authorID string, update entity.PostUpdate) (*entity.Post, error) {
	args := m.Called(postID, authorID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) DeletePost(postID, authorID string) error {
	args := m.Called(postID, authorID)
	return args.Error(0)
}

func (m *MockPostUseCase) AddComment(postID, authorID, content string) (*entity.Post, error) {
	args := m.Called(postID, authorID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) UpdateComment(postID, commentID, authorID, content string) (*entity.Post, error) {
	args := m.Called(postID, commentID, authorID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) DeleteComment(postID, commentID, authorID string) (*entity.Post, error) {
	args := m.Called(postID, commentID, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) IncrementViews(postID string) (*entity.Post, error) {
	args := m.Called(postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestListPosts(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.GET("/posts", handler.ListPosts)

	mockUseCase.On("ListPosts").Return([]*entity.Post{
		{ID: "post-1", Title: "Hello"},
		{ID: "post-2", Title: "World"},
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var posts []entity.Post
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	assert.Len(t, posts, 2)
	assert.Equal(t, "Hello", posts[0].Title)

	mockUseCase.AssertExpectations(t)
}

func TestListPosts_Error(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.GET("/posts", handler.ListPosts)

	mockUseCase.On("ListPosts").Return(nil, fmt.Errorf("db down"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Server error")
}

func TestCreatePost_Success(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/posts", func(c *gin.Context) {
		c.Set("user_id", "user-123")
		handler.CreatePost(c)
	})

	mockPost := &entity.Post{ID: "post-123", Title: "New Post"}
	mockUseCase.On("CreatePost", "user-123", "New Post", "Body text", "", "game").Return(mockPost, nil)

	body := `{"title":"New Post","body":"Body text","category":"game"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestCreatePost_MissingFields(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/posts", handler.CreatePost)

	body := `{"title":"No body here"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing fields")
	mockUseCase.AssertNotCalled(t, "CreatePost")
}

func TestUpdatePost_Success(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.PUT("/posts/:id", func(c *gin.Context) {
		c.Set("user_id", "user-123")
		handler.UpdatePost(c)
	})

	title := "New Title"
	mockPost := &entity.Post{ID: "post-123", Title: title}
	mockUseCase.On("UpdatePost", "post-123", "user-123", entity.PostUpdate{Title: &title}).Return(mockPost, nil)

	body := `{"title":"New Title"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/posts/post-123", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestUpdatePost_Forbidden(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.PUT("/posts/:id", func(c *gin.Context) {
		c.Set("user_id", "intruder")
		handler.UpdatePost(c)
	})

	title := "New Title"
	mockUseCase.On("UpdatePost", "post-123", "intruder", entity.PostUpdate{Title: &title}).
		Return(nil, fmt.Errorf("not the author: %w", entity.ErrForbidden))

	body := `{"title":"New Title"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/posts/post-123", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Not authorized")
}

func TestDeletePost_Success(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.DELETE("/posts/:id", func(c *gin.Context) {
		c.Set("user_id", "user-123")
		handler.DeletePost(c)
	})

	mockUseCase.On("DeletePost", "post-123", "user-123").Return(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/posts/post-123", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Post deleted", response["message"])
	mockUseCase.AssertExpectations(t)
}

func TestDeletePost_NotFound(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.DELETE("/posts/:id", func(c *gin.Context) {
		c.Set("user_id", "user-123")
		handler.DeletePost(c)
	})

	mockUseCase.On("DeletePost", "missing", "user-123").
		Return(fmt.Errorf("post missing: %w", entity.ErrNotFound))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/posts/missing", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddComment_Success(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/posts/:id/comments", func(c *gin.Context) {
		c.Set("user_id", "user-123")
		handler.AddComment(c)
	})

	mockPost := &entity.Post{
		ID:       "post-123",
		Comments: []entity.Comment{{ID: "comment-1", Content: "Nice post"}},
	}
	mockUseCase.On("AddComment", "post-123", "user-123", "Nice post").Return(mockPost, nil)

	body := `{"content":"Nice post"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts/post-123/comments", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var post entity.Post
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	assert.Len(t, post.Comments, 1)
	mockUseCase.AssertExpectations(t)
}

func TestAddComment_MissingContent(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/posts/:id/comments", handler.AddComment)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts/post-123/comments", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing content")
}

func TestUpdateComment_Success(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.PUT("/posts/:id/comments/:commentId", func(c *gin.Context) {
		c.Set("user_id", "user-123")
		handler.UpdateComment(c)
	})

	mockPost := &entity.Post{ID: "post-123"}
	mockUseCase.On("UpdateComment", "post-123", "comment-1", "user-123", "Edited").Return(mockPost, nil)

	body := `{"content":"Edited"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/posts/post-123/comments/comment-1", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestDeleteComment_Forbidden(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.DELETE("/posts/:id/comments/:commentId", func(c *gin.Context) {
		c.Set("user_id", "intruder")
		handler.DeleteComment(c)
	})

	mockUseCase.On("DeleteComment", "post-123", "comment-1", "intruder").
		Return(nil, fmt.Errorf("not the author: %w", entity.ErrForbidden))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/posts/post-123/comments/comment-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestIncrementViews_ReturnsRefreshedPost(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/posts/:id/views", handler.IncrementViews)

	mockPost := &entity.Post{ID: "post-123", Views: 42}
	mockUseCase.On("IncrementViews", "post-123").Return(mockPost, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts/post-123/views", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var post entity.Post
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	assert.Equal(t, 42, post.Views)
	mockUseCase.AssertExpectations(t)
}

func TestIncrementViews_NotFound(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/posts/:id/views", handler.IncrementViews)

	mockUseCase.On("IncrementViews", "missing").
		Return(nil, fmt.Errorf("post missing: %w", entity.ErrNotFound))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts/missing/views", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

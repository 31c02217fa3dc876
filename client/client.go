// Package client is a thin REST client for the board API, used by the feed
// engine and the seed tooling.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"jungleboard/internal/entity"
)

const defaultTimeout = 5 * time.Second

// Credentials is the register/login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Auth is the register/login response.
type Auth struct {
	User  entity.Author `json:"user"`
	Token string        `json:"token"`
}

// CreatePost is the body for creating a post.
type CreatePost struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	ImageURL string `json:"imageUrl,omitempty"`
	Category string `json:"category,omitempty"`
}

// UpdatePost carries a partial edit; nil fields are left unchanged.
type UpdatePost struct {
	Title    *string `json:"title,omitempty"`
	Body     *string `json:"body,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty"`
	Category *string `json:"category,omitempty"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// SetToken installs the bearer token sent on subsequent requests. An empty
// token reverts the client to anonymous calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Register(ctx context.Context, username, password string) (*Auth, error) {
	var auth Auth
	err := c.do(ctx, "POST", "/api/auth/register", Credentials{Username: username, Password: password}, &auth)
	if err != nil {
		return nil, err
	}
	return &auth, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*Auth, error) {
	var auth Auth
	err := c.do(ctx, "POST", "/api/auth/login", Credentials{Username: username, Password: password}, &auth)
	if err != nil {
		return nil, err
	}
	return &auth, nil
}

func (c *Client) ListPosts(ctx context.Context) ([]entity.Post, error) {
	var posts []entity.Post
	if err := c.do(ctx, "GET", "/api/posts", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) CreatePost(ctx context.Context, body CreatePost) (*entity.Post, error) {
	var post entity.Post
	if err := c.do(ctx, "POST", "/api/posts", body, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) UpdatePost(ctx context.Context, postID string, body UpdatePost) (*entity.Post, error) {
	var post entity.Post
	if err := c.do(ctx, "PUT", "/api/posts/"+postID, body, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.do(ctx, "DELETE", "/api/posts/"+postID, nil, nil)
}

// IncrementViews counts one view and returns the refreshed post.
func (c *Client) IncrementViews(ctx context.Context, postID string) (*entity.Post, error) {
	var post entity.Post
	if err := c.do(ctx, "POST", "/api/posts/"+postID+"/views", nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) AddComment(ctx context.Context, postID, content string) (*entity.Post, error) {
	var post entity.Post
	body := map[string]string{"content": content}
	if err := c.do(ctx, "POST", "/api/posts/"+postID+"/comments", body, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) UpdateComment(ctx context.Context, postID, commentID, content string) (*entity.Post, error) {
	var post entity.Post
	body := map[string]string{"content": content}
	if err := c.do(ctx, "PUT", "/api/posts/"+postID+"/comments/"+commentID, body, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) DeleteComment(ctx context.Context, postID, commentID string) (*entity.Post, error) {
	var post entity.Post
	if err := c.do(ctx, "DELETE", "/api/posts/"+postID+"/comments/"+commentID, nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// apiError maps a non-2xx response back onto the shared failure taxonomy so
// callers can branch with errors.Is.
func apiError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	message := resp.Status
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		message = payload.Error
	}

	var sentinel error
	switch resp.StatusCode {
	case http.StatusBadRequest:
		sentinel = entity.ErrInvalidInput
	case http.StatusUnauthorized:
		sentinel = entity.ErrUnauthorized
	case http.StatusForbidden:
		sentinel = entity.ErrForbidden
	case http.StatusNotFound:
		sentinel = entity.ErrNotFound
	default:
		return fmt.Errorf("api: %s", message)
	}
	return fmt.Errorf("api: %s: %w", message, sentinel)
}

package entity

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryGame  Category = "game"
	CategoryStudy Category = "study"
	CategoryDev   Category = "dev"
)

var validCategories = map[Category]bool{
	CategoryGame:  true,
	CategoryStudy: true,
	CategoryDev:   true,
}

// NormalizeCategory lowercases and trims the tag. Anything outside the fixed
// board set comes back empty, i.e. the post belongs to no board.
func NormalizeCategory(raw string) Category {
	normalized := Category(strings.ToLower(strings.TrimSpace(raw)))
	if validCategories[normalized] {
		return normalized
	}
	return ""
}

type Post struct {
	ID        string    `json:"id"`
	Author    Author    `json:"author"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	Category  Category  `json:"category,omitempty"`
	Views     int       `json:"views"`
	Likes     int       `json:"likes"`
	Dislikes  int       `json:"dislikes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Comment is embedded in its post and addressed by stable id, never by index.
type Comment struct {
	ID        string    `json:"id"`
	Author    Author    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostUpdate carries the fields an edit may change. Nil means "leave as-is".
type PostUpdate struct {
	Title    *string
	Body     *string
	ImageURL *string
	Category *string
}

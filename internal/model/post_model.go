package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostModel struct {
	ID        string         `gorm:"type:uuid;primary_key" json:"id"`
	AuthorID  string         `gorm:"type:uuid;not null;index" json:"author_id"`
	Title     string         `gorm:"type:varchar(255);not null" json:"title"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	ImageURL  string         `gorm:"type:varchar(500)" json:"image_url"`
	Category  string         `gorm:"type:varchar(20);index" json:"category"`
	Views     int            `gorm:"default:0" json:"views"`
	Likes     int            `gorm:"default:0" json:"likes"`
	Dislikes  int            `gorm:"default:0" json:"dislikes"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Comments  []CommentModel `gorm:"foreignKey:PostID" json:"comments,omitempty"`
}

func (PostModel) TableName() string {
	return "posts"
}

func (p *PostModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

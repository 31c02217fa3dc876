package main

import (
	"context"
	"fmt"
	"time"

	"jungleboard/internal/model"
	"jungleboard/pkg/cache"
	"jungleboard/pkg/config"
	"jungleboard/pkg/database"
	"jungleboard/pkg/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedPost struct {
	title    string
	body     string
	category string
	comments []string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	if err := seedDatabase(db, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	// Drop any cached post list so the demo data shows up immediately
	if redisClient, err := cache.NewRedisClient(cfg); err != nil {
		log.Warn("Redis unavailable, skipping cache invalidation: %v", err)
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := redisClient.Del(ctx, "posts:list").Err(); err != nil {
			log.Warn("Failed to invalidate post list cache: %v", err)
		}
		redisClient.Close()
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(db *gorm.DB, log *logger.Logger) error {
	demoUsers := []struct {
		username string
		password string
	}{
		{"mango", "password123"},
		{"tapir", "password123"},
		{"kapok", "password123"},
	}

	userIDs := make([]string, 0, len(demoUsers))

	for _, userData := range demoUsers {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(userData.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		var existing model.UserModel
		result := db.Where("username = ?", userData.username).First(&existing)
		if result.Error == nil {
			log.Info("User %s already exists, skipping", userData.username)
			userIDs = append(userIDs, existing.ID)
			continue
		}

		user := &model.UserModel{
			Username: userData.username,
			Password: string(hashedPassword),
		}
		if err := db.Create(user).Error; err != nil {
			log.Error("Failed to create user %s: %v", userData.username, err)
			continue
		}

		log.Info("Created user: %s", user.Username)
		userIDs = append(userIDs, user.ID)
	}

	if len(userIDs) == 0 {
		return fmt.Errorf("no users available for seeding posts")
	}

	posts := []seedPost{
		{
			title:    "Welcome to the board",
			body:     "Introduce yourself and say hi. **Markdown** works in post bodies.",
			comments: []string{"Hi everyone!", "Glad to be here."},
		},
		{
			title:    "Speedrun strats thread",
			body:     "Share your favorite shortcuts and route notes here.",
			category: "game",
			comments: []string{"The skip in level 3 saves a full minute."},
		},
		{
			title:    "Study group for algorithms",
			body:     "Meeting twice a week, beginners welcome.",
			category: "study",
		},
		{
			title:    "Show your side projects",
			body:     "Post a link and a short description of what you are building.",
			category: "dev",
			comments: []string{"Working on a tiny key-value store.", "Nice, is it on a public repo?"},
		},
		{
			title:    "Board rules",
			body:     "Be kind, stay on topic, no spam.",
		},
		{
			title:    "Co-op partners wanted",
			body:     "Looking for two more people for weekend sessions.",
			category: "game",
		},
	}

	for i, data := range posts {
		authorID := userIDs[i%len(userIDs)]

		var existing model.PostModel
		result := db.Where("title = ? AND author_id = ?", data.title, authorID).First(&existing)
		if result.Error == nil {
			log.Info("Post %q already exists, skipping", data.title)
			continue
		}

		post := &model.PostModel{
			AuthorID: authorID,
			Title:    data.title,
			Body:     data.body,
			Category: data.category,
			Views:    (i * 7) % 40,
			Likes:    (i * 3) % 11,
			Dislikes: i % 3,
		}
		if err := db.Create(post).Error; err != nil {
			log.Error("Failed to create post %q: %v", data.title, err)
			continue
		}
		log.Info("Created post: %s", post.Title)

		for j, content := range data.comments {
			comment := &model.CommentModel{
				PostID:   post.ID,
				AuthorID: userIDs[(i+j+1)%len(userIDs)],
				Content:  content,
			}
			if err := db.Create(comment).Error; err != nil {
				log.Error("Failed to create comment on %q: %v", post.Title, err)
			}
		}
	}

	return nil
}

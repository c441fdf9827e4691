package main

import (
	"context"
	"log"
	"time"

	"github.com/tasktracker-app/tasktracker-backend/config"
	"github.com/tasktracker-app/tasktracker-backend/internal/auth"
	"github.com/tasktracker-app/tasktracker-backend/internal/db"
	"github.com/tasktracker-app/tasktracker-backend/internal/projects"
	"github.com/tasktracker-app/tasktracker-backend/internal/tasks"
	"github.com/tasktracker-app/tasktracker-backend/internal/users"
)

// Seeds the sample data set: an admin user, two projects and three tasks.
// Safe to run repeatedly; it does nothing once the admin user exists.
func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	database, err := db.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer database.Close()

	userRepo := users.NewRepo(database.Pool)
	projectRepo := projects.NewRepo(database.Pool)
	taskRepo := tasks.NewRepo(database.Pool)

	exists, err := userRepo.Exists(ctx, "admin", "admin@tasktracker.com")
	if err != nil {
		log.Fatalf("check admin user: %v", err)
	}
	if exists {
		log.Println("database already seeded")
		return
	}

	hasher := auth.NewHasher(cfg.Auth.HashScheme)
	digest, err := hasher.Hash("password")
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	admin, err := userRepo.Create(ctx, "admin", "admin@tasktracker.com", digest)
	if err != nil {
		log.Fatalf("create admin user: %v", err)
	}

	website, err := projectRepo.Create(ctx, admin.ID,
		"Website Redesign", ptr("Complete overhaul of company website"))
	if err != nil {
		log.Fatalf("create project: %v", err)
	}

	mobile, err := projectRepo.Create(ctx, admin.ID,
		"Mobile App Development", ptr("Build cross-platform mobile application"))
	if err != nil {
		log.Fatalf("create project: %v", err)
	}

	now := time.Now().UTC()
	samples := []tasks.Task{
		{
			Title:       "Design Homepage Mockup",
			Description: ptr("Create initial design concepts for homepage"),
			DueDate:     now.AddDate(0, 0, 7),
			Status:      tasks.StatusInProgress,
			ProjectID:   website.ID,
			OwnerID:     admin.ID,
		},
		{
			Title:       "Setup Development Environment",
			Description: ptr("Configure CI/CD pipeline and development tools"),
			DueDate:     now.AddDate(0, 0, 3),
			Status:      tasks.StatusPending,
			ProjectID:   mobile.ID,
			OwnerID:     admin.ID,
		},
		{
			Title:       "User Authentication System",
			Description: ptr("Implement JWT-based authentication"),
			DueDate:     now.AddDate(0, 0, 14),
			Status:      tasks.StatusCompleted,
			ProjectID:   mobile.ID,
			OwnerID:     admin.ID,
		},
	}

	for i := range samples {
		if _, err := taskRepo.Create(ctx, &samples[i]); err != nil {
			log.Fatalf("create task %q: %v", samples[i].Title, err)
		}
	}

	log.Printf("seeded admin user (id=%d), 2 projects, %d tasks", admin.ID, len(samples))
}

func ptr(s string) *string { return &s }

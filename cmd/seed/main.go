package main

import (
	"context"
	"log"

	"github.com/google/uuid"

	"bookshelf/internal/apperr"
	"bookshelf/internal/auth"
	"bookshelf/internal/catalog"
	"bookshelf/internal/config"
	"bookshelf/internal/db"
	"bookshelf/internal/model"
	"bookshelf/internal/repository"
)

type seedUser struct {
	Username string
	Email    string
	Password string
	Query    string
}

var seedUsers = []seedUser{
	{Username: "ada", Email: "ada@example.com", Password: "password123", Query: "distributed systems"},
	{Username: "grace", Email: "grace@example.com", Password: "password123", Query: "compilers"},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.SavedBook{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	users := repository.NewUserRepository(gormDB)
	books := catalog.NewClient(cfg.BooksAPIURL)
	ctx := context.Background()

	created, skipped := 0, 0
	for _, seed := range seedUsers {
		hash, err := auth.HashPassword(seed.Password)
		if err != nil {
			log.Fatalf("Failed to hash password for %s: %v", seed.Username, err)
		}

		user := &model.User{
			ID:           uuid.New().String(),
			Username:     seed.Username,
			Email:        seed.Email,
			PasswordHash: hash,
		}
		if err := users.Create(ctx, user); err != nil {
			if apperr.KindOf(err) == apperr.KindConflict {
				log.Printf("User %s already exists, skipping", seed.Username)
				skipped++
				continue
			}
			log.Fatalf("Failed to create user %s: %v", seed.Username, err)
		}
		created++

		results, err := books.Search(ctx, seed.Query, 3)
		if err != nil {
			log.Printf("Catalog search failed for %q, user %s seeded without books: %v", seed.Query, seed.Username, err)
			continue
		}
		for _, found := range results {
			book := model.SavedBook{
				BookID:      found.BookID,
				Authors:     found.Authors,
				Description: found.Description,
				Title:       found.Title,
				Image:       found.Image,
				Link:        found.Link,
			}
			if _, err := users.AddBook(ctx, user.ID, book); err != nil {
				log.Printf("Failed to save book %s for %s: %v", found.BookID, seed.Username, err)
			}
		}
		log.Printf("Seeded %s with %d books", seed.Username, len(results))
	}

	log.Printf("Seed completed: %d users created, %d skipped", created, skipped)
}

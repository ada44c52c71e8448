package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"wavechat/config"
	"wavechat/internal/domain/apikey"
	"wavechat/internal/domain/chat"
	"wavechat/internal/domain/file"
	"wavechat/internal/domain/output"
	"wavechat/internal/domain/user"
	"wavechat/internal/repository"
	"wavechat/internal/services"
	"wavechat/pkg/database"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const usage = `
Wavechat - Database CLI Tool

Usage:
  migrate [command] [flags]

Commands:
  up          Run GORM migrations
  status      Show database connection status
  seed        Seed the database with a demo account

Flags:
  -seed-email string  Email for the seeded account (default "demo@wavechat.dev")
  -seed-pass string   Password for the seeded account (default "Demo@12345")

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go seed
`

var entities = []interface{}{
	&user.User{},
	&user.Session{},
	&chat.Chat{},
	&chat.Message{},
	&file.Upload{},
	&output.StructuredOutput{},
	&output.Version{},
	&apikey.APIKey{},
	&apikey.UsageRecord{},
	&apikey.ActivityRecord{},
}

func main() {
	seedEmail := flag.String("seed-email", "demo@wavechat.dev", "Email for the seeded account")
	seedPass := flag.String("seed-pass", "Demo@12345", "Password for the seeded account")

	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	cfg := config.LoadConfig()
	database.Connect(cfg)

	switch flag.Arg(0) {
	case "up":
		if err := database.DB.AutoMigrate(entities...); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migrations applied")

	case "status":
		if err := database.HealthCheck(); err != nil {
			log.Fatalf("Database unreachable: %v", err)
		}
		log.Println("Database connection OK")

	case "seed":
		if err := database.DB.AutoMigrate(entities...); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		if err := seed(*seedEmail, *seedPass); err != nil {
			log.Fatalf("Seed failed: %v", err)
		}

	default:
		flag.Usage()
		os.Exit(1)
	}
}

// seed creates a confirmed demo user with one chat and one API key, and
// prints the raw key so it can be used against /api/v1 immediately.
func seed(email, password string) error {
	ctx := context.Background()
	userRepo := repository.NewUserRepository(database.DB)
	chatRepo := repository.NewChatRepository(database.DB)
	keyRepo := repository.NewAPIKeyRepository(database.DB)

	email = strings.ToLower(email)
	if _, err := userRepo.GetByEmail(ctx, email); err == nil {
		log.Printf("Seed user %s already exists, skipping", email)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u := &user.User{
		ID:             uuid.New(),
		Email:          email,
		PasswordHash:   string(hash),
		EmailConfirmed: true,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := userRepo.Create(ctx, u); err != nil {
		return err
	}

	c := &chat.Chat{
		ID:        uuid.New(),
		OwnerID:   u.ID,
		Title:     "Welcome to Wavechat",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := chatRepo.Create(ctx, c); err != nil {
		return err
	}

	keys := services.NewAPIKeyService(keyRepo)
	_, raw, err := keys.Generate(ctx, u.ID, "seed", []string{apikey.ScopeRead, apikey.ScopeWrite, apikey.ScopeDelete})
	if err != nil {
		return err
	}

	log.Printf("Seeded %s (password %q)", email, password)
	log.Printf("API key: %s", raw)
	return nil
}

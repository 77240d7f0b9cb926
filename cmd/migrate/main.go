package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"rt-portal/config"
	"rt-portal/internal/repository"
	"rt-portal/internal/services"
	"rt-portal/pkg/database"

	"gorm.io/gorm"
)

const usage = `
RT Portal - Database CLI Tool

Usage:
  migrate [flags] [command]

Commands:
  up          Create or update the chat schema
  status      Show database connection status and row counts
  seed        Seed demo RT admins, citizens, reports and a chat
  token       Print an access token for a user (needs -email and -password)

Flags:
  -email string      Account email for the token command
  -password string   Account password for token, and the demo password for seed (default "Warga@123")

Examples:
  go run ./cmd/migrate up
  go run ./cmd/migrate seed
  go run ./cmd/migrate -email budi@rt-portal.local -password Warga@123 token
`

func main() {
	email := flag.String("email", "", "Account email for the token command")
	password := flag.String("password", database.DefaultSeedConfig().Password, "Account password")

	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)

	cfg := config.LoadConfig()
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer database.Close(db)

	ctx := context.Background()

	switch command {
	case "up":
		runMigrationsUp(db)
	case "status":
		showStatus(ctx, db)
	case "seed":
		runSeed(ctx, db, *password)
	case "token":
		runToken(ctx, db, cfg, *email, *password)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func runMigrationsUp(db *gorm.DB) {
	log.Println("Running migrations...")

	if err := repository.InitSchema(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully")
}

func showStatus(ctx context.Context, db *gorm.DB) {
	log.Println("Checking database status...")

	if err := database.HealthCheck(ctx, db); err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Database connection: OK")

	tables := []string{"users", "reports", "chats", "messages"}
	for _, table := range tables {
		if !db.Migrator().HasTable(table) {
			log.Printf("Table %-10s does not exist", table)
			continue
		}
		var count int64
		if err := db.WithContext(ctx).Table(table).Count(&count).Error; err != nil {
			log.Printf("Error counting table %s: %v", table, err)
			continue
		}
		log.Printf("Table %-10s exists (%d rows)", table, count)
	}
}

func runSeed(ctx context.Context, db *gorm.DB, password string) {
	log.Println("Seeding database...")

	if err := repository.InitSchema(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	result, err := database.Seed(ctx, db, &database.SeedConfig{Password: password})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seed summary:")
	for _, u := range result.Users {
		log.Printf("   - %-8s %-24s rt=%s", u.Role, u.Email, u.RtIDValue())
	}
	log.Printf("   - Reports: %d", len(result.Reports))
	log.Printf("   - Chats: %d", len(result.Chats))
	log.Println("Seeding completed")
}

func runToken(ctx context.Context, db *gorm.DB, cfg *config.Config, email, password string) {
	if email == "" {
		log.Fatal("token requires -email")
	}

	auth := services.NewAuthService(repository.NewUserRepository(db), cfg)
	resp, err := auth.Login(ctx, email, password)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}

	log.Printf("Token for %s (%s, rt=%s), valid %ds:", resp.User.Email, resp.User.Role, resp.User.RtID, resp.ExpiresIn)
	fmt.Println(resp.AccessToken)
}

package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"agridynamic/internal/db"
	"agridynamic/internal/repository"
	"agridynamic/internal/service"
)

// seedConfig is the subset of settings the seed needs. Flags override it.
type seedConfig struct {
	DBDriver      string `env:"DB_DRIVER" envDefault:"mysql"`
	DatabaseDSN   string `env:"DATABASE_DSN" envDefault:"user:password@tcp(localhost:3306)/agridynamic?charset=utf8mb4&parseTime=True&loc=Local"`
	AdminName     string `env:"ADMIN_NAME" envDefault:"Administrator"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

func main() {
	log.Println("Starting seed script...")
	_ = godotenv.Load()

	var cfg seedConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("Failed to parse config: %v", err)
	}

	flag.StringVar(&cfg.AdminName, "name", cfg.AdminName, "administrator display name")
	flag.StringVar(&cfg.AdminEmail, "email", cfg.AdminEmail, "administrator email")
	flag.StringVar(&cfg.AdminPassword, "password", cfg.AdminPassword, "administrator password")
	flag.Parse()

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD (or -email and -password) are required")
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := service.NewUserService(repository.NewUserRepository(gormDB))
	user, created, err := users.EnsureAdministrator(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		log.Fatalf("Failed to seed administrator: %v", err)
	}

	if created {
		log.Printf("Created administrator %s (%s)", user.Email, user.ID)
	} else {
		log.Printf("Promoted existing user %s (%s) to administrator", user.Email, user.ID)
	}
	log.Println("Seed completed successfully")
}

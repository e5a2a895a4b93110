package main

import (
	"context"
	"flag"
	"log"
	"time"

	"waterlife-backoffice/internal/config"
	applog "waterlife-backoffice/internal/logger"
	"waterlife-backoffice/internal/repository"
	"waterlife-backoffice/internal/service"
	"waterlife-backoffice/pkg/database"

	"go.uber.org/zap"
)

func main() {
	email := flag.String("email", "", "account email (defaults to the seeded admin)")
	password := flag.String("password", "", "new password (defaults to the seeded admin password)")
	flag.Parse()

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	zl := applog.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = zl.Sync() }()

	if *email == "" {
		*email = cfg.Seed.AdminEmail
	}
	if *password == "" {
		*password = cfg.Seed.AdminPassword
	}
	if len(*password) < 6 {
		zl.Fatal("password must be at least 6 characters")
	}

	// 2. Setup Database
	db, err := database.Connect(cfg.Database, zl)
	if err != nil {
		zl.Fatal("connect database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	identity := service.NewIdentityProvider(repository.NewUserRepo(db), repository.NewRoleRepo(db))

	// 3. Find user
	user, err := identity.FindByEmail(ctx, *email)
	if err != nil {
		zl.Fatal("user not found", zap.String("email", *email), zap.Error(err))
	}

	// 4. Hash and store the new password
	if err := identity.SetPassword(ctx, user.ID, *password); err != nil {
		zl.Fatal("failed to update password", zap.Error(err))
	}

	zl.Info("password reset", zap.String("email", user.Email))
}

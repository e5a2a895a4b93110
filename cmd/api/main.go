package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"waterlife-backoffice/internal/config"
	"waterlife-backoffice/internal/handler"
	applog "waterlife-backoffice/internal/logger"
	"waterlife-backoffice/internal/middleware"
	"waterlife-backoffice/internal/model"
	"waterlife-backoffice/internal/notify"
	"waterlife-backoffice/internal/repository"
	"waterlife-backoffice/internal/service"
	"waterlife-backoffice/internal/stocklock"
	"waterlife-backoffice/internal/ws"
	"waterlife-backoffice/pkg/database"
	"waterlife-backoffice/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl := applog.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Setup Database
	db, err := database.Connect(cfg.Database, zl)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	// Auto Migrate (a separate migration tool is preferable in production)
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// 3. Optional collaborators: redis stock lock and SMTP
	locker, rdb, err := stocklock.Connect(ctx, cfg.Redis, cfg.StockLock, zl)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	notifier, err := notify.New(cfg.SMTP, zl)
	if err != nil {
		return err
	}

	// 4. Setup WebSocket Hub
	hub := ws.NewHub(zl)
	go hub.Run(ctx)

	// 5. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	materialRepo := repository.NewRawMaterialRepo(db)
	productRepo := repository.NewProductRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	purchaseRepo := repository.NewPurchaseRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	commentRepo := repository.NewCommentRepo(db)
	quotationRepo := repository.NewQuotationRepo(db)

	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	identity := service.NewIdentityProvider(userRepo, roleRepo)

	if err := seed(ctx, cfg.Seed, roleRepo, identity, zl); err != nil {
		return err
	}

	userService := service.NewUserService(identity, userRepo, roleRepo, notifier, zl)
	saleService := service.NewSaleService(saleRepo, productRepo, materialRepo, identity, db, locker, notifier, hub, zl)
	commentService := service.NewCommentService(commentRepo)

	handlers := &handler.Handlers{
		Auth:         handler.NewAuthHandler(service.NewAuthService(identity, tokens, zl)),
		Users:        handler.NewUserHandler(userService),
		Roles:        handler.NewRoleHandler(roleRepo),
		Me:           handler.NewMeHandler(userService, saleService, commentService),
		RawMaterials: handler.NewRawMaterialHandler(service.NewRawMaterialService(materialRepo, zl)),
		Products:     handler.NewProductHandler(service.NewProductService(productRepo, materialRepo, db, cfg.Pricing.Mode, hub, zl)),
		Suppliers:    handler.NewSupplierHandler(service.NewSupplierService(supplierRepo)),
		Purchases:    handler.NewPurchaseHandler(service.NewPurchaseService(purchaseRepo, materialRepo, supplierRepo, db, locker, hub, zl)),
		Sales:        handler.NewSaleHandler(saleService),
		Reports:      handler.NewReportHandler(service.NewReportService(saleRepo), service.NewExportService(saleRepo)),
		Quotations:   handler.NewQuotationHandler(service.NewQuotationService(quotationRepo, productRepo, notifier, hub, zl)),
		Comments:     handler.NewCommentHandler(commentService),
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: handler.ErrorHandler(zl),
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORS.AllowOrigins}))

	// 7. Routes
	auth := middleware.RequireAuth(tokens, identity)
	handlers.Register(app, auth)
	handler.RegisterWebSocket(app, hub, auth)

	// 8. Graceful Shutdown
	errCh := make(chan error, 1)
	go func() {
		zl.Info("listening", zap.Int("port", cfg.App.Port), zap.String("pricing_mode", cfg.Pricing.Mode))
		errCh <- app.Listen(fmt.Sprintf(":%d", cfg.App.Port))
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zl.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	zl.Info("server exited")
	return nil
}

// seed creates the default roles and, on first start, the administrator account.
func seed(ctx context.Context, cfg config.SeedConfig, roleRepo repository.RoleRepository, identity service.IdentityProvider, zl *zap.Logger) error {
	// 1. Seed roles
	for _, r := range model.DefaultRoles {
		role := r
		if err := roleRepo.FirstOrCreate(ctx, &role); err != nil {
			return fmt.Errorf("seed role %s: %w", role.Code, err)
		}
	}

	// 2. Create default admin user
	if cfg.AdminEmail == "" {
		return nil
	}
	_, err := identity.FindByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, service.ErrNotFound) {
		return err
	}

	admin := &model.User{Name: cfg.AdminName, Email: cfg.AdminEmail}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"
	if err := identity.CreateUser(ctx, admin, cfg.AdminPassword, model.RoleAdmin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	zl.Info("admin user created", zap.String("email", admin.Email))
	return nil
}

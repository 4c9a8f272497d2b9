package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go-catalog-api/internal/handler"
	"go-catalog-api/internal/middleware"
	"go-catalog-api/internal/model"
	"go-catalog-api/internal/repository"
	"go-catalog-api/internal/service"
	"go-catalog-api/internal/ws"
	"go-catalog-api/pkg/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		zlog.Warn().Msg(".env file not found")
	}

	zerolog.TimeFieldFormat = time.RFC3339
	if env := os.Getenv("APP_ENV"); env == "" || env == "development" || env == "dev" {
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	}

	db := database.ConnectDB()
	if err := db.AutoMigrate(
		&model.Product{}, &model.Variant{}, &model.Category{},
		&model.CategoryProduct{}, &model.Deal{}, &model.DealItem{}, &model.User{},
	); err != nil {
		zlog.Fatal().Err(err).Msg("migration failed")
	}
	migrateIndexes(db)
	seedAdmin(db)

	wsHub := ws.NewHub()
	go wsHub.Run()

	productRepo := repository.NewProductRepo(db)
	variantRepo := repository.NewVariantRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	dealRepo := repository.NewDealRepo(db)
	cascadeRepo := repository.NewCascadeRepo(db)
	userRepo := repository.NewUserRepo(db)

	dealValidator := service.NewDealValidator(repository.NewPriceSource(db))

	catalogService := service.NewCatalogService(productRepo, variantRepo, wsHub)
	categoryService := service.NewCategoryService(categoryRepo, wsHub)
	dealService := service.NewDealService(dealRepo, dealValidator, wsHub)
	cascadeService := service.NewCascadeService(productRepo, variantRepo, dealRepo, cascadeRepo, wsHub)
	authService := service.NewAuthService(userRepo)

	productHandler := handler.NewProductHandler(catalogService, cascadeService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	dealHandler := handler.NewDealHandler(dealService, cascadeService)
	authHandler := handler.NewAuthHandler(authService)

	app := fiber.New(fiber.Config{
		AppName: "Catalog Admin API v1.0",
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)

	protected := api.Group("", middleware.RequireAuth(userRepo))

	protected.Get("/products", productHandler.GetProducts)
	protected.Get("/products/:id", productHandler.GetProduct)
	protected.Post("/products", productHandler.CreateProduct)
	protected.Put("/products/:id", productHandler.UpdateProduct)
	protected.Delete("/products/:id", productHandler.DeleteProduct)

	protected.Get("/products/:id/variants", productHandler.GetVariants)
	protected.Post("/products/:id/variants", productHandler.CreateVariant)
	protected.Put("/variants/:variantId", productHandler.UpdateVariant)
	protected.Delete("/variants/:variantId", productHandler.DeleteVariant)

	protected.Get("/categories", categoryHandler.GetCategories)
	protected.Get("/categories/:id", categoryHandler.GetCategory)
	protected.Post("/categories", categoryHandler.CreateCategory)
	protected.Put("/categories/:id", categoryHandler.UpdateCategory)
	protected.Delete("/categories/:id", categoryHandler.DeleteCategory)
	protected.Post("/categories/:id/products/:productId", categoryHandler.AttachProduct)
	protected.Delete("/categories/:id/products/:productId", categoryHandler.DetachProduct)

	protected.Get("/deals", dealHandler.GetDeals)
	protected.Get("/deals/:id", dealHandler.GetDeal)
	protected.Post("/deals", dealHandler.CreateDeal)
	protected.Put("/deals/:id", dealHandler.UpdateDeal)
	protected.Delete("/deals/:id/items", dealHandler.RemoveItem)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			zlog.Panic().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info().Msg("shutting down server")
	if err := app.Shutdown(); err != nil {
		zlog.Fatal().Err(err).Msg("server forced to shutdown")
	}
	zlog.Info().Msg("server exited")
}

// migrateIndexes adds the constraints AutoMigrate cannot express: the deal
// line uniqueness treats a missing variant as a fixed "default" value so two
// default lines for the same product collide.
func migrateIndexes(db *gorm.DB) {
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_deal_items_line ON deal_items ` +
			`(deal_id, product_id, COALESCE(variant_id, '00000000-0000-0000-0000-000000000000'::uuid)) ` +
			`WHERE deleted_at IS NULL`,
	).Error; err != nil {
		zlog.Warn().Err(err).Msg("failed to create deal item line index")
	}
}

// seedAdmin creates the default admin account on first boot.
func seedAdmin(db *gorm.DB) {
	ctx := context.Background()
	userRepo := repository.NewUserRepo(db)

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	if _, err := userRepo.FindByEmail(ctx, email); err == nil {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	admin := &model.User{
		Email:    email,
		FullName: "Catalog Administrator",
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"
	if err := admin.SetPassword(password); err != nil {
		zlog.Warn().Err(err).Msg("failed to hash admin password")
		return
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		zlog.Warn().Err(err).Msg("failed to create admin user")
		return
	}
	zlog.Info().Str("email", email).Msg("admin user created")
}

package config

import (
	"os"
	"time"

	"github.com/whaleen/warehouse-sub000/internal/api/handlers"
	"github.com/whaleen/warehouse-sub000/internal/api/routes"
	"github.com/whaleen/warehouse-sub000/internal/middleware"
	"github.com/whaleen/warehouse-sub000/internal/utils"
	"github.com/whaleen/warehouse-sub000/internal/utils/storage"
	"github.com/whaleen/warehouse-sub000/pkg/catalog"
	"github.com/whaleen/warehouse-sub000/pkg/inventory"
	"github.com/whaleen/warehouse-sub000/pkg/jwt"
	"github.com/whaleen/warehouse-sub000/pkg/reconcile"
	"github.com/whaleen/warehouse-sub000/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()

	// Repository
	userRepository := user.NewUserRepository(db)
	catalogRepository := catalog.NewCatalogRepository(db)
	inventoryRepository := inventory.NewInventoryRepository(db)
	reconcileRepository := reconcile.NewReconcileRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService)
	catalogService := catalog.NewCatalogService(catalogRepository)
	inventoryService := inventory.NewInventoryService(inventoryRepository)
	reconcileService := reconcile.NewReconcileService(reconcileRepository, catalogService)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	catalogHandler := handlers.NewCatalogHandler(catalogService, validator)
	batchHandler := handlers.NewBatchHandler(inventoryService, validator)
	itemHandler := handlers.NewItemHandler(inventoryService, validator)
	reconcileHandler := handlers.NewReconcileHandler(reconcileService, validator, s3)

	// routes
	routesConfig := routes.Config{
		App:              app,
		UserHandler:      userHandler,
		BatchHandler:     batchHandler,
		ItemHandler:      itemHandler,
		CatalogHandler:   catalogHandler,
		ReconcileHandler: reconcileHandler,
		Middleware:       middlewares,
		JWTService:       jwtService,
	}
	routesConfig.Setup()
	return app, nil
}

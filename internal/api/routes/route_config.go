package routes

import (
	"github.com/whaleen/warehouse-sub000/internal/api/handlers"
	"github.com/whaleen/warehouse-sub000/internal/middleware"
	"github.com/whaleen/warehouse-sub000/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App              *fiber.App
	UserHandler      handlers.UserHandler
	BatchHandler     handlers.BatchHandler
	ItemHandler      handlers.ItemHandler
	CatalogHandler   handlers.CatalogHandler
	ReconcileHandler handlers.ReconcileHandler
	Middleware       middleware.Middleware
	JWTService       jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Inventory()
	c.Reconcile()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
	}
}

func (c *Config) Inventory() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)

	batches := c.App.Group("/api/v1/batches", auth)
	batches.Post("", c.BatchHandler.CreateBatch)
	batches.Post("/merge", c.ReconcileHandler.MergeBatches)
	batches.Get("/:category", c.BatchHandler.GetBatches)
	batches.Get("/:category/stats", c.BatchHandler.GetCategoryStats)
	batches.Patch("/:category/:number", c.BatchHandler.UpdateBatch)
	batches.Delete("/:category/:number", c.BatchHandler.DeleteBatch)

	items := c.App.Group("/api/v1/items", auth)
	items.Get("/:category", c.ItemHandler.GetItems)
	items.Patch("/:id", c.ItemHandler.UpdateItem)

	products := c.App.Group("/api/v1/products", auth)
	products.Post("", c.CatalogHandler.AddProduct)
	products.Get("", c.CatalogHandler.GetProducts)
}

func (c *Config) Reconcile() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)

	reconcile := c.App.Group("/api/v1/reconcile", auth)
	reconcile.Post("/import", c.ReconcileHandler.Import)
	reconcile.Post("/import-csv", c.ReconcileHandler.ImportCSV)
	reconcile.Post("/resync", c.ReconcileHandler.Resync)

	conflicts := c.App.Group("/api/v1/conflicts", auth)
	conflicts.Get("/:category", c.ReconcileHandler.GetConflicts)
	conflicts.Patch("/:category/:id/resolve", c.ReconcileHandler.ResolveConflict)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

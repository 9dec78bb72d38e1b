package router

import (
	"time"

	"siwarapos/internal/config"
	"siwarapos/internal/handler"
	"siwarapos/internal/middleware"
	"siwarapos/internal/repository"
	"siwarapos/internal/service"
	"siwarapos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	shiftRepo := repository.NewShiftRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	movementRepo := repository.NewInventoryMovementRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo)
	inventorySvc := service.NewInventoryService(ingredientRepo, movementRepo, recipeRepo)
	recipeSvc := service.NewRecipeService(recipeRepo, productRepo, ingredientRepo, orderRepo)
	shiftSvc := service.NewShiftService(shiftRepo, dispatcher)
	orderSvc := service.NewOrderService(orderRepo, productRepo, recipeRepo, movementRepo, shiftRepo, dispatcher, cfg.ConsumeOnSettle)
	reportSvc := service.NewReportService(orderRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductHandler(productSvc)
	ordersH := handler.NewOrderHandler(orderSvc, recipeSvc)
	queueH := handler.NewQueueHandler(orderSvc, rdb)
	shiftsH := handler.NewShiftHandler(shiftSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	recipesH := handler.NewRecipeHandler(recipeSvc)
	reportsH := handler.NewReportHandler(reportSvc, orderSvc, cfg.ShopName, cfg.PDFStoragePath)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health)

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Queue board — no auth, it feeds the customer-facing display
	r.GET("/v1/queue/board", queueH.Board)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cashier, barista, manager — declared per-endpoint
		staff := middleware.RequireRole("cashier", "barista", "manager")
		front := middleware.RequireRole("cashier", "manager")
		mgr := middleware.RequireRole("manager")

		// Orders — baristas advance tickets, cashiers handle money
		v1.POST("/orders", front, ordersH.Create)
		v1.GET("/orders", staff, ordersH.List)
		v1.GET("/orders/:id", staff, ordersH.Get)
		v1.POST("/orders/:id/advance", staff, ordersH.Advance)
		v1.POST("/orders/:id/discount", front, ordersH.Discount)
		v1.POST("/orders/:id/settle", front, ordersH.Settle)
		v1.POST("/orders/:id/unsettle", mgr, ordersH.Unsettle)
		v1.DELETE("/orders/:id", mgr, ordersH.Delete)
		v1.GET("/orders/:id/consumption", staff, ordersH.Consumption)
		v1.GET("/orders/:id/receipt", front, reportsH.Receipt)

		// Products — everyone reads the catalog, managers write it
		v1.GET("/products", staff, productsH.List)
		v1.GET("/products/:id", staff, productsH.Get)
		prods := v1.Group("/products", mgr)
		{
			prods.POST("", productsH.Save)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Delete)
			prods.PATCH("/:id/deactivate", productsH.Deactivate)
			prods.PATCH("/:id/reactivate", productsH.Reactivate)
		}

		// Recipes hang off the product they describe
		v1.GET("/products/:id/recipe", staff, recipesH.Get)
		v1.PUT("/products/:id/recipe", mgr, recipesH.Set)

		inv := v1.Group("/inventory", middleware.RequireRole("barista", "manager"))
		{
			inv.POST("/ingredients", inventoryH.CreateIngredient)
			inv.GET("/ingredients", inventoryH.ListIngredients)
			inv.PUT("/ingredients/:id", inventoryH.UpdateIngredient)
			inv.DELETE("/ingredients/:id", middleware.RequireRole("manager"), inventoryH.DeleteIngredient)
			inv.PATCH("/ingredients/:id/deactivate", middleware.RequireRole("manager"), inventoryH.DeactivateIngredient)
			inv.POST("/movements", inventoryH.RecordMovement)
			inv.POST("/receive-packs", inventoryH.ReceivePacks)
			inv.GET("/movements", inventoryH.ListMovements)
			inv.GET("/onhand", inventoryH.OnHand)
			inv.GET("/low-stock", inventoryH.LowStock)
		}

		shifts := v1.Group("/shifts")
		{
			shifts.POST("/open", front, shiftsH.Open)
			shifts.GET("/current", front, shiftsH.Current)
			shifts.GET("/history", mgr, shiftsH.History)
			shifts.GET("/:id", front, shiftsH.Get)
			shifts.POST("/movements", front, shiftsH.RecordMovement)
			shifts.POST("/close", front, shiftsH.Close)
		}

		v1.GET("/reports/sales", mgr, reportsH.Sales)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/kyler004/inventory-system/internal/config"
	"github.com/kyler004/inventory-system/internal/handler"
	"github.com/kyler004/inventory-system/internal/middleware"
	"github.com/kyler004/inventory-system/internal/repository"
	"github.com/kyler004/inventory-system/internal/service"
	"github.com/kyler004/inventory-system/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
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
	txManager := repository.NewTxManager(db)
	userRepo := repository.NewUserRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	productRepo := repository.NewProductRepository(db)
	movementRepo := repository.NewMovementRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	supplierSvc := service.NewSupplierService(supplierRepo, productRepo)
	productSvc := service.NewProductService(productRepo, supplierRepo, movementRepo, rdb)
	movementSvc := service.NewMovementService(txManager, productRepo, movementRepo, rdb, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	productsH := handler.NewProductsHandler(productSvc)
	movementsH := handler.NewMovementsHandler(movementSvc)
	usersH := handler.NewUsersHandler(authSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: operator, manager, admin — declared per-endpoint

		// Catalog reads — all authenticated roles
		read := middleware.RequireRole("operator", "manager", "admin")
		v1.GET("/suppliers", read, suppliersH.List)
		v1.GET("/suppliers/:id", read, suppliersH.Get)
		v1.GET("/products", read, productsH.List)
		v1.GET("/products/:id", read, productsH.Get)
		v1.GET("/products/:id/movements", read, movementsH.ListByProduct)
		v1.GET("/movements", read, movementsH.List)
		v1.GET("/inventory/alerts", read, productsH.LowStock)

		// Movements — any authenticated role can record stock events
		v1.POST("/products/:id/movements", read, movementsH.Apply)

		// Catalog writes — manager or admin
		write := middleware.RequireRole("manager", "admin")
		suppliers := v1.Group("/suppliers", write)
		{
			suppliers.POST("", suppliersH.Create)
			suppliers.PUT("/:id", suppliersH.Update)
			suppliers.DELETE("/:id", suppliersH.Delete)
		}
		products := v1.Group("/products", write)
		{
			products.POST("", productsH.Create)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Delete)
		}

		// User management — admin only
		users := v1.Group("/users", middleware.RequireRole("admin"))
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

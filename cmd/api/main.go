package main

import (
	_ "productattrs/api/swagger" // swagger docs
	"productattrs/internal/action"
	"productattrs/internal/config"
	"productattrs/internal/database"
	"productattrs/internal/extension"
	"productattrs/internal/handler"
	"productattrs/internal/logs"
	"productattrs/internal/middleware"
	"productattrs/internal/repository"
	"productattrs/internal/service"
	"productattrs/internal/variation"
	"productattrs/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Product Attributes API
// @version         1.0
// @description     Attribute categories, values and product variations for the ERP inventory.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	logger, err := logs.New(cfg.LogFile, true, cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.LogFile).Msg("Failed to open log file")
	}

	policy, err := variation.ParseDescriptionPolicy(cfg.DescriptionPolicy)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid DESCRIPTION_POLICY")
	}

	db, err := database.NewConnection(cfg.DB, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("Database connection failed")
	}
	logger.Info().Str("driver", cfg.DB.Driver).Msg("Connected to database")

	middleware.SetJWTSecret(cfg.JWTSecret)

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(logger)
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	attrRepo := repository.NewAttributeRepository(db)
	assignRepo := repository.NewAssignmentRepository(db)
	stockRepo := repository.NewStockRepository(db)
	ruleRepo := repository.NewPricingRuleRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	attributeService := service.NewAttributeService(attrRepo, assignRepo, stockRepo, auditRepo, txManager, wsHub, logger)
	variationService := service.NewVariationService(attrRepo, assignRepo, stockRepo, auditRepo, txManager,
		variation.NewSynthesizer(policy), cfg.ChildSuffix, wsHub, logger)
	productTypeService := service.NewProductTypeService(assignRepo, stockRepo, auditRepo, txManager, wsHub, logger)
	pricingService := service.NewPricingService(ruleRepo, attrRepo, auditRepo, txManager, variationService, wsHub, logger)
	retroactiveService := service.NewRetroactiveService(attrRepo, assignRepo, stockRepo, auditRepo, txManager, wsHub, logger)
	auditService := service.NewAuditService(auditRepo)

	dispatcher := action.NewDispatcher(logger,
		action.NewGenerateVariations(variationService),
		action.NewCreateChild(variationService),
		action.NewUpdateProductTypes(productTypeService),
	)
	registry := extension.NewRegistry(
		extension.NewVariations(attributeService, variationService, productTypeService, "/api/actions"),
	)

	// Initialize Handlers
	handlers := []interface {
		RegisterRoutes(router *gin.RouterGroup)
	}{
		handler.NewAttributeHandler(attributeService),
		handler.NewVariationHandler(variationService, pricingService),
		handler.NewProductHandler(productTypeService),
		handler.NewPricingHandler(pricingService),
		handler.NewRetroactiveHandler(retroactiveService),
		handler.NewActionHandler(dispatcher),
		handler.NewHookHandler(registry),
		handler.NewAuditHandler(auditService),
	}

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(logger))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret(), middleware.RoleAdmin, middleware.RoleManager, middleware.RoleStaff)
	})

	// API Routing
	for _, h := range handlers {
		h.RegisterRoutes(router.Group(""))
	}

	logger.Info().Str("port", cfg.Port).Strs("actions", dispatcher.Names()).Strs("extensions", registry.Names()).Msg("Server listening")
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

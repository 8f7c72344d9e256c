package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"crm-service/internal/cache"
	"crm-service/internal/config"
	"crm-service/internal/events"
	"crm-service/internal/handlers"
	"crm-service/internal/importer"
	"crm-service/internal/middleware"
	"crm-service/internal/repository"
)

// @title CRM Service API
// @version 1.0.0
// @description Multi-tenant CRM and back-office service: lead import, sales pipeline, proposals, training jobs
// @termsOfService http://swagger.io/terms/

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.bearer BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Check if running health check
	if len(os.Args) > 1 && os.Args[1] == "health" {
		resp, err := http.Get("http://localhost:8080/health")
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	logrus.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	// Set database for health checks and page size bounds for listings
	handlers.SetDB(db)
	handlers.SetPagination(cfg.DefaultPageSize, cfg.MaxPageSize)

	// Initialize Redis tenant cache
	tenantCache, err := cache.NewTenantCache(
		cfg.RedisHost,
		cfg.RedisPort,
		cfg.RedisPassword,
		cfg.RedisDB,
		cfg.CacheTTL,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize tenant cache: %v. Continuing without caching.", err)
	} else if tenantCache.IsAvailable() {
		log.Println("Tenant cache initialized successfully")
		defer tenantCache.Close()
	} else {
		log.Println("Tenant cache unavailable (Redis not connected). Continuing without caching.")
	}

	// Initialize NATS events publisher. A failed connection degrades to a
	// no-op publisher, so startup is never blocked on NATS.
	publisher := events.NewPublisher(logrus.StandardLogger())
	defer publisher.Close()

	// Initialize repositories
	tenantRepo := repository.NewTenantRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	clientRepo := repository.NewClientRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	dealRepo := repository.NewDealRepository(db)
	proposalRepo := repository.NewProposalRepository(db)
	jobRepo := repository.NewJobRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Initialize services and handlers
	importService := importer.NewService(leadRepo)
	tokens := middleware.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	importHandler := handlers.NewImportHandler(importService, publisher)
	leadHandler := handlers.NewLeadHandler(leadRepo, clientRepo, publisher)
	clientHandler := handlers.NewClientHandler(clientRepo, projectRepo, leadRepo)
	projectHandler := handlers.NewProjectHandler(projectRepo, dealRepo)
	dealHandler := handlers.NewDealHandler(dealRepo)
	proposalHandler := handlers.NewProposalHandler(proposalRepo)
	jobHandler := handlers.NewJobHandler(jobRepo)
	authHandler := handlers.NewAuthHandler(userRepo, tokens)

	tenantGuard := middleware.TenantGuard(middleware.TenantGuardConfig{
		Directory:     tenantRepo,
		Cache:         tenantCache,
		DefaultTenant: cfg.DefaultTenant,
	})

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Setup middleware
	router.Use(middleware.RequestIDMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Tenant-ID", "X-Request-ID"},
		AllowCredentials: true,
	}))
	router.Use(middleware.ErrorHandler())

	// Health check endpoints (no auth required)
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.ReadinessCheck)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public auth routes (no authentication required)
	publicAuth := router.Group("/api/auth")
	{
		publicAuth.POST("/login", authHandler.Login)
		publicAuth.POST("/refresh", authHandler.Refresh)
	}

	// Authenticated auth routes
	privateAuth := router.Group("/api/auth")
	privateAuth.Use(middleware.AuthMiddleware(tokens))
	privateAuth.Use(tenantGuard)
	{
		privateAuth.GET("/me", authHandler.Me)
		privateAuth.GET("/users", authHandler.ListUsers)
		privateAuth.POST("/password/change", authHandler.ChangePassword)
	}

	// Protected CRM routes: bearer auth, then tenant resolution
	api := router.Group("/api/crm")
	api.Use(middleware.AuthMiddleware(tokens))
	api.Use(tenantGuard)
	{
		leads := api.Group("/leads")
		{
			// Import routes (must be before :id routes to avoid conflicts)
			leads.GET("/import/template", importHandler.GetImportTemplate)
			leads.POST("/import/preview", importHandler.PreviewImport)
			leads.POST("/import/confirm", importHandler.ConfirmImport)

			leads.GET("", leadHandler.ListLeads)
			leads.GET("/table", leadHandler.GetLeadsTable)
			leads.POST("", leadHandler.CreateLead)
			leads.GET("/:id", leadHandler.GetLead)
			leads.PUT("/:id", leadHandler.UpdateLead)
			leads.DELETE("/:id", leadHandler.DeleteLead)
		}

		api.GET("/dashboard", leadHandler.GetDashboard)
		api.GET("/stages", leadHandler.ListStages)

		clients := api.Group("/clients")
		{
			clients.GET("", clientHandler.ListClients)
			clients.POST("", clientHandler.CreateClient)
			clients.GET("/:id", clientHandler.GetClient)
			clients.PUT("/:id", clientHandler.UpdateClient)
			clients.DELETE("/:id", clientHandler.DeleteClient)
		}

		projects := api.Group("/projects")
		{
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetProject)
		}

		deals := api.Group("/deals")
		{
			deals.GET("", dealHandler.ListDeals)
			deals.GET("/:id", dealHandler.GetDeal)
		}

		proposals := api.Group("/proposals")
		{
			proposals.GET("/stats", proposalHandler.GetProposalStats)
			proposals.GET("", proposalHandler.ListProposals)
			proposals.POST("", proposalHandler.CreateProposal)
			proposals.GET("/:id", proposalHandler.GetProposal)
			proposals.PUT("/:id", proposalHandler.UpdateProposal)
			proposals.DELETE("/:id", proposalHandler.DeleteProposal)
		}

		jobs := api.Group("/jobs")
		{
			jobs.GET("/stats", jobHandler.GetJobStats)
			jobs.GET("", jobHandler.ListJobs)
			jobs.POST("", jobHandler.CreateJob)
			jobs.GET("/:id", jobHandler.GetJob)
			jobs.PUT("/:id", jobHandler.UpdateJob)
			jobs.PATCH("/:id/status", jobHandler.UpdateJobStatus)
			jobs.DELETE("/:id", jobHandler.DeleteJob)
		}

		assignments := api.Group("/assignments")
		{
			assignments.GET("/available-jobs", jobHandler.ListAvailableJobs)
			assignments.GET("", jobHandler.ListAssignments)
			assignments.POST("", jobHandler.CreateAssignment)
			assignments.PUT("/:id", jobHandler.UpdateAssignment)
			assignments.DELETE("/:id", jobHandler.DeleteAssignment)
		}
	}

	log.Printf("Starting crm-service on port %s (env: %s)", cfg.Port, cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

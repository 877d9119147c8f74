package routes

import (
	"fmt"

	"gearguard-backend/internal/api/handlers"
	"gearguard-backend/internal/api/middleware"
	"gearguard-backend/internal/auth"
	"gearguard-backend/internal/config"
	"gearguard-backend/internal/maintenance"
	"gearguard-backend/internal/metrics"
	"gearguard-backend/internal/notify"
	"gearguard-backend/internal/repository"
	"gearguard-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Dependencies is the infrastructure the services are built on
type Dependencies struct {
	DB       *gorm.DB
	Config   *config.Config
	Metrics  *metrics.Metrics
	Notifier notify.Notifier
	Ledger   notify.Ledger
	Clock    maintenance.Clock
	// Checks are reported by /health next to the database
	Checks []handlers.HealthCheck
}

// Services groups the domain services shared by the router and the scheduler
type Services struct {
	Category      service.CategoryServiceInterface
	Team          service.TeamServiceInterface
	User          *service.UserService
	Equipment     service.EquipmentServiceInterface
	Request       service.RequestServiceInterface
	Report        service.ReportServiceInterface
	WarrantyAlert service.WarrantyAlertServiceInterface
	Reminder      service.ReminderServiceInterface
}

// NewServices wires repositories and services over deps
func NewServices(deps *Dependencies) *Services {
	cfg := deps.Config
	clock := deps.Clock
	if clock == nil {
		clock = maintenance.SystemClock{}
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = notify.NewLogNotifier()
	}
	ledger := deps.Ledger
	if ledger == nil {
		ledger = notify.NewMemoryLedger()
	}

	validate := validator.New()
	templates := notify.NewRegistry()

	categoryRepo := repository.NewCategoryRepository(deps.DB)
	teamRepo := repository.NewTeamRepository(deps.DB)
	userRepo := repository.NewUserRepository(deps.DB)
	equipmentRepo := repository.NewEquipmentRepository(deps.DB)
	requestRepo := repository.NewRequestRepository(deps.DB)
	messageRepo := repository.NewMessageRepository(deps.DB)
	reportRepo := repository.NewReportRepository(deps.DB)

	return &Services{
		Category: service.NewCategoryService(categoryRepo, validate),
		Team:     service.NewTeamService(teamRepo, userRepo, validate),
		User:     service.NewUserService(userRepo, validate),
		Equipment: service.NewEquipmentService(equipmentRepo, teamRepo, categoryRepo, requestRepo, messageRepo,
			validate, clock, cfg.WarrantyAlertDays),
		Request: service.NewRequestService(requestRepo, equipmentRepo, teamRepo, validate, clock, service.RequestServiceOptions{
			LaborRate:          cfg.DefaultLaborRate,
			PreventiveLeadDays: cfg.PreventiveLeadDays,
			Metrics:            deps.Metrics,
		}),
		Report: service.NewReportService(reportRepo),
		WarrantyAlert: service.NewWarrantyAlertService(equipmentRepo, messageRepo, templates, notifier, clock,
			deps.Metrics, cfg.WarrantyAlertDays),
		Reminder: service.NewReminderService(requestRepo, equipmentRepo, templates, notifier, ledger, clock,
			deps.Metrics, cfg.WarrantyAlertDays),
	}
}

// SetupRoutes configures all the routes for the application
func SetupRoutes(deps *Dependencies, svc *Services) (*gin.Engine, error) {
	cfg := deps.Config
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.Metrics(deps.Metrics))

	authConfig := auth.NewAuthConfig(cfg)
	authService, err := auth.NewAuthService(authConfig, svc.User)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}
	authHandler := auth.NewAuthHandler(authService)
	authMiddleware := auth.NewAuthMiddleware(authService)

	checks := append([]handlers.HealthCheck{handlers.DatabaseCheck(deps.DB)}, deps.Checks...)
	healthHandler := handlers.NewHealthHandler(checks...)
	categoryHandler := handlers.NewCategoryHandler(svc.Category)
	teamHandler := handlers.NewTeamHandler(svc.Team)
	userHandler := handlers.NewUserHandler(svc.User)
	equipmentHandler := handlers.NewEquipmentHandler(svc.Equipment)
	requestHandler := handlers.NewRequestHandler(svc.Request)
	reportHandler := handlers.NewReportHandler(svc.Report)
	alertHandler := handlers.NewWarrantyAlertHandler(svc.WarrantyAlert)

	// Health check routes
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	// Swagger documentation route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/validate", authHandler.ValidateToken)
	}

	// API v1 routes - all endpoints require authentication
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.RequireAuth())
	{
		users := v1.Group("/users")
		{
			users.GET("", userHandler.ListUsers)
			users.POST("", userHandler.CreateUser)
			users.GET("/:id", userHandler.GetUser)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", categoryHandler.ListCategories)
			categories.POST("", categoryHandler.CreateCategory)
			categories.GET("/:id", categoryHandler.GetCategory)
			categories.PUT("/:id", categoryHandler.UpdateCategory)
			categories.DELETE("/:id", categoryHandler.DeleteCategory)
			categories.GET("/:id/equipment", equipmentHandler.ListBy(handlers.ScopeCategory))
			categories.GET("/:id/requests", requestHandler.ListBy(handlers.ScopeCategory))
		}

		teams := v1.Group("/teams")
		{
			teams.GET("", teamHandler.GetAllTeams)
			teams.POST("", teamHandler.CreateTeam)
			teams.GET("/:id", teamHandler.GetTeam)
			teams.PUT("/:id", teamHandler.UpdateTeam)
			teams.DELETE("/:id", teamHandler.ArchiveTeam)
			teams.PUT("/:id/members", teamHandler.SetMembers)
			teams.GET("/:id/equipment", equipmentHandler.ListBy(handlers.ScopeTeam))
			teams.GET("/:id/requests", requestHandler.ListBy(handlers.ScopeTeam))
		}

		equipment := v1.Group("/equipment")
		{
			equipment.GET("", equipmentHandler.ListEquipment)
			equipment.POST("", equipmentHandler.CreateEquipment)
			equipment.POST("/warranty-alerts", alertHandler.SendAlerts)
			equipment.POST("/warranty-alerts/preview", alertHandler.PreviewAlert)
			equipment.GET("/:id", equipmentHandler.GetEquipment)
			equipment.PUT("/:id", equipmentHandler.UpdateEquipment)
			equipment.DELETE("/:id", equipmentHandler.ArchiveEquipment)
			equipment.POST("/:id/scrap", equipmentHandler.MarkScrapped)
			equipment.POST("/:id/operational", equipmentHandler.MarkOperational)
			equipment.GET("/:id/messages", equipmentHandler.GetMessages)
			equipment.GET("/:id/requests", requestHandler.ListBy(handlers.ScopeEquipment))
		}

		requests := v1.Group("/requests")
		{
			requests.GET("", requestHandler.ListRequests)
			requests.POST("", requestHandler.CreateRequest)
			requests.PATCH("", requestHandler.BatchUpdate)
			requests.GET("/overdue", requestHandler.GetOverdue)
			requests.POST("/onchange", requestHandler.Onchange)
			requests.GET("/:id", requestHandler.GetRequest)
			requests.PATCH("/:id", requestHandler.UpdateRequest)
			requests.DELETE("/:id", requestHandler.ArchiveRequest)
			requests.POST("/:id/start", requestHandler.Start)
			requests.POST("/:id/complete", requestHandler.Complete)
			requests.POST("/:id/scrap", requestHandler.Scrap)
			requests.POST("/:id/reset", requestHandler.Reset)
		}

		reports := v1.Group("/reports/maintenance")
		{
			reports.GET("", reportHandler.ListRows)
			reports.GET("/groups", reportHandler.Groups)
			reports.GET("/summary", reportHandler.Summary)
			reports.GET("/export", reportHandler.Export)
		}
	}

	return router, nil
}

package server

import (
	"os"

	"smartdrishti-server/cache"
	"smartdrishti-server/confs"
	"smartdrishti-server/db"
	"smartdrishti-server/handlers"
	httpHandler "smartdrishti-server/handlers/http"
	"smartdrishti-server/logger"
	"smartdrishti-server/middleware"
	"smartdrishti-server/mqttbridge"
	"smartdrishti-server/repositories"
	"smartdrishti-server/services"
	"smartdrishti-server/usecases"
	"smartdrishti-server/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	app *gin.Engine
	cfg *confs.Config
	db  db.Database
}

func NewServer(cfg *confs.Config, database db.Database) *Server {
	gin.SetMode(cfg.GinMode)
	return &Server{
		app: gin.Default(),
		cfg: cfg,
		db:  database,
	}
}

func (s *Server) Start() {
	// Setup CORS middleware
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	s.app.Use(cors.New(config))

	// Initialize repositories
	userRepo := repositories.NewUserPgRepository(s.db)
	projectRepo := repositories.NewProjectPgRepository(s.db)
	stepRepo := repositories.NewStepPgRepository(s.db)
	mediaRepo := repositories.NewStepMediaPgRepository(s.db)
	deviceRepo := repositories.NewDevicePgRepository(s.db)
	sensorRepo := repositories.NewSensorDataPgRepository(s.db)
	hourlyRepo := repositories.NewSensorHourlyPgRepository(s.db)

	// WebSocket hub doubles as the broadcaster injected into the IoT flow
	hub := ws.NewHub()
	latest := cache.NewLatestCache()

	// Initialize use cases
	secret := []byte(s.cfg.JWTSecret)
	authUseCase := usecases.NewAuthUseCase(userRepo, secret)
	projectUseCase := usecases.NewProjectUseCase(projectRepo, stepRepo, mediaRepo)
	iotUseCase := usecases.NewIotUseCase(deviceRepo, sensorRepo, hourlyRepo, hub, latest)
	maintenanceUseCase := usecases.NewMaintenanceUseCase(sensorRepo)

	// Initialize handlers
	authHandler := httpHandler.NewAuthHandler(authUseCase)
	projectHandler := httpHandler.NewProjectHandler(projectUseCase)
	stepHandler := httpHandler.NewStepHandler(projectUseCase, s.cfg.UploadDir)
	iotHandler := httpHandler.NewIotHandler(iotUseCase, maintenanceUseCase)
	wsHandler := handlers.NewWSHandler(hub)

	// Hourly rollup job
	rollup := services.NewRollupService(deviceRepo, sensorRepo, hourlyRepo, s.cfg.RollupInterval)
	rollup.Start()

	// MQTT bridge feeds the same ingest usecase as the HTTP API
	if s.cfg.MQTTEnabled {
		bridge := mqttbridge.NewBridge(s.cfg.MQTTBroker, s.cfg.MQTTPort, iotUseCase)
		if err := bridge.Start(); err != nil {
			logger.Warn("mqtt bridge unavailable, continuing without it", zap.Error(err))
		}
	}

	// Static hosting for uploaded step media
	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		logger.Fatal("failed to create upload dir", zap.Error(err))
	}
	s.app.Static("/uploads", s.cfg.UploadDir)

	// Setup API routes
	api := s.app.Group("/api")
	{
		api.GET("", indexHandler)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "OK"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/profile", middleware.AuthenticateJWT(secret), authHandler.GetProfile)
			auth.PUT("/profile", middleware.AuthenticateJWT(secret), authHandler.UpdateProfile)
		}

		// Project routes
		projects := api.Group("/projects")
		{
			projects.GET("", middleware.OptionalJWT(secret), projectHandler.ListProjects)
			projects.POST("", middleware.AuthenticateJWT(secret), projectHandler.CreateProject)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PUT("/:id", middleware.AuthenticateJWT(secret), projectHandler.UpdateProject)
			projects.DELETE("/:id", middleware.AuthenticateJWT(secret), projectHandler.DeleteProject)
			projects.GET("/:id/steps", stepHandler.GetSteps)
			projects.POST("/:id/steps", middleware.AuthenticateJWT(secret), stepHandler.CreateStep)
		}

		// Step and media routes
		steps := api.Group("/steps")
		{
			steps.PUT("/:id", middleware.AuthenticateJWT(secret), stepHandler.UpdateStep)
			steps.DELETE("/:id", middleware.AuthenticateJWT(secret), stepHandler.DeleteStep)
			steps.POST("/:id/media", middleware.AuthenticateJWT(secret), stepHandler.AddMedia)
		}
		api.DELETE("/media/:mediaId", middleware.AuthenticateJWT(secret), stepHandler.DeleteMedia)

		// IoT routes
		iot := api.Group("/iot")
		{
			iot.GET("/devices", iotHandler.GetAllDevices)
			iot.POST("/devices", iotHandler.RegisterDevice)
			iot.PUT("/devices/:deviceId/status", iotHandler.UpdateDeviceStatus)
			iot.GET("/devices/:deviceId/status", iotHandler.GetDeviceStatus)
			iot.DELETE("/devices/:deviceId", iotHandler.DeleteDevice)
			iot.POST("/sensor-data", iotHandler.IngestSensorData)
			iot.GET("/sensor-data/:deviceId", iotHandler.GetSensorData)
			iot.GET("/sensor-data/latest/:deviceId", iotHandler.GetLatestSensorData)
			iot.GET("/sensor-data/aggregated/:deviceId", iotHandler.GetAggregatedSensorData)
			iot.GET("/predictive-maintenance/:deviceId", iotHandler.PredictiveMaintenance)
			iot.GET("/cache/stats", iotHandler.CacheStats)
		}
	}

	// Live updates for the dashboard
	s.app.GET("/ws", wsHandler.HandleClientWS)

	addr := "0.0.0.0:" + s.cfg.Port
	logger.Info("server listening", zap.String("addr", addr))
	if err := s.app.Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func indexHandler(c *gin.Context) {
	c.JSON(200, gin.H{
		"name": "SmartDrishti API",
		"endpoints": []string{
			"POST /api/auth/register",
			"POST /api/auth/login",
			"GET|PUT /api/auth/profile",
			"GET|POST /api/projects",
			"GET|PUT|DELETE /api/projects/:id",
			"GET|POST /api/projects/:id/steps",
			"PUT|DELETE /api/steps/:id",
			"POST /api/steps/:id/media",
			"DELETE /api/media/:mediaId",
			"GET|POST /api/iot/devices",
			"PUT /api/iot/devices/:deviceId/status",
			"GET /api/iot/devices/:deviceId/status",
			"POST /api/iot/sensor-data",
			"GET /api/iot/sensor-data/:deviceId",
			"GET /api/iot/sensor-data/latest/:deviceId",
			"GET /api/iot/sensor-data/aggregated/:deviceId",
			"GET /api/iot/predictive-maintenance/:deviceId",
			"GET /api/health",
			"GET /ws",
		},
	})
}

package main

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"citypulse/config"
	"citypulse/database"
	"citypulse/handlers"
	"citypulse/middleware"
	"citypulse/service"
	"citypulse/utils"
	"citypulse/version"
	"citypulse/ws"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
)

const (
	EndPointHealth  = "/health"
	EndPointReports = "/reports"
	EndPointReport  = "/reports/:id"
	EndPointMap     = "/map"
	EndPointFeed    = "/ws/reports"
)

func buildStore(cfg *config.Config) (database.ReportStore, func(), error) {
	switch cfg.StoreBackend {
	case "mysql":
		db, err := utils.DBConnect(cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := database.InitSchema(db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return database.NewMySQLStore(db), func() { db.Close() }, nil
	case "memory":
		return database.NewMemoryStore(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

func main() {
	// Load configuration
	cfg := config.Load()

	log.Info("Starting the reports service...")

	store, closeStore, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize the %s store: %v", cfg.StoreBackend, err)
	}
	defer closeStore()

	if cfg.SeedDemoData {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		if err := database.SeedDemoData(context.Background(), store, rng); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	// Initialize services
	reportService := service.NewReportService(store)

	// Initialize the websocket hub
	hub := ws.NewHub()
	go hub.Run()

	// Initialize handlers
	reportsHandler := handlers.NewReportsHandler(reportService, hub)
	wsHandler := handlers.NewWebSocketHandler(hub)

	// Setup router
	router := gin.Default()
	router.Use(middleware.CORS(cfg.CORSOrigins))

	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, version.Get("citypulse"))
	})

	router.GET(EndPointHealth, reportsHandler.HealthCheck)

	router.GET(EndPointReports, reportsHandler.GetReports)
	router.POST(EndPointReports, reportsHandler.CreateReport)
	router.GET(EndPointReport, reportsHandler.GetReport)
	router.PUT(EndPointReport, reportsHandler.UpdateReport)
	router.DELETE(EndPointReport, reportsHandler.DeleteReport)

	router.GET(EndPointMap, reportsHandler.GetMap)

	router.GET(EndPointFeed, wsHandler.ListenReports)
	router.GET("/ws/stats", wsHandler.FeedStats)

	serverPort, err := strconv.Atoi(cfg.Port)
	if err != nil {
		log.Fatalf("Invalid PORT configuration: %v", err)
	}

	// Start server
	log.Infof("Reports service starting on port %d", serverPort)
	if err := router.Run(fmt.Sprintf(":%d", serverPort)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

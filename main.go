// main.go
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/kngsoomin/clickstream-monitor/config"
	"github.com/kngsoomin/clickstream-monitor/database"
	"github.com/kngsoomin/clickstream-monitor/fetcher"
	"github.com/kngsoomin/clickstream-monitor/handlers"
	"github.com/kngsoomin/clickstream-monitor/models"
	"github.com/kngsoomin/clickstream-monitor/services"
)

func main() {
	log.Println("Starting Clickstream DQ & SLA Monitor...")

	// A .env is optional; real environment variables win either way.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is.")
	}

	configPath := "config/config.yaml"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configPath = "config.yaml"
		if _, errFallback := os.Stat(configPath); os.IsNotExist(errFallback) {
			log.Fatalf("Config file not found at default paths. Error: %v", errFallback)
		}
	}

	if err := config.LoadConfig(configPath); err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	log.Printf("Configuration loaded. Server port: %s, DB name: %s",
		config.AppConfig.Server.Port, config.AppConfig.Database.DBName)

	if err := database.InitDB(config.AppConfig.Database); err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	defer database.CloseDB()

	store := database.NewStore(database.DB)
	if err := store.ApplySchema(); err != nil {
		log.Fatalf("Error applying schema: %v", err)
	}

	dumps := fetcher.New(config.AppConfig.Clickstream)

	defaultThresholds := models.SlaThresholds{
		MinRows:           config.AppConfig.Pipeline.MinRows,
		MaxDropFraction:   config.AppConfig.Pipeline.MaxDropFraction,
		MaxNullRate:       config.AppConfig.Pipeline.MaxNullRate,
		MaxDupRate:        config.AppConfig.Pipeline.MaxDupRate,
		MaxRangeErrorRate: config.AppConfig.Pipeline.MaxRangeErrorRate,
	}

	ingestSvc := &services.IngestService{Store: store, BatchSize: config.AppConfig.Pipeline.BatchSize}
	validateSvc := &services.ValidateService{Store: store}
	slaSvc := &services.SlaService{Store: store, Arrival: dumps}
	anomalySvc := &services.AnomalyService{Store: store}
	seedSvc := &services.SeedService{
		Fetcher:    dumps,
		Ingest:     ingestSvc,
		Validate:   validateSvc,
		Sla:        slaSvc,
		Thresholds: defaultThresholds,
	}

	// --- Setup HTTP routes ---
	http.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := database.DB.Ping(); err != nil {
			http.Error(w, `{"status": "error", "message": "database connection error"}`, http.StatusInternalServerError)
			log.Printf("Health check failed: DB ping error: %v", err)
			return
		}
		fmt.Fprintln(w, `{"status": "ok"}`)
	})

	// Read API
	http.HandleFunc("/api/metrics", handlers.GetMetricsHandler(store))
	http.HandleFunc("/api/trend", handlers.GetTrendHandler(store))
	http.HandleFunc("/api/audit", handlers.GetAuditHandler(store))

	// Admin routes for triggering pipeline steps. Paths end with / to catch
	// the {month} sub-path.
	http.HandleFunc("/api/admin/fetch/", handlers.FetchMonthHandler(dumps))
	http.HandleFunc("/api/admin/ingest/", handlers.IngestMonthHandler(ingestSvc, dumps))
	http.HandleFunc("/api/admin/validate/", handlers.ValidateMonthHandler(validateSvc))
	http.HandleFunc("/api/admin/sla/", handlers.SlaMonthHandler(slaSvc, defaultThresholds))
	http.HandleFunc("/api/admin/anomaly/", handlers.AnomalyMonthHandler(anomalySvc))
	http.HandleFunc("/api/admin/seed", handlers.SeedHandler(seedSvc))

	serverAddr := ":" + config.AppConfig.Server.Port
	log.Printf("Server starting on http://localhost%s\n", serverAddr)
	if err := http.ListenAndServe(serverAddr, nil); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}

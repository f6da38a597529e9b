package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"caiwu_agent/pkg/api/analyze"
	"caiwu_agent/pkg/core/health"
	"caiwu_agent/pkg/core/pipeline"
	"caiwu_agent/pkg/core/store"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Load the scoring rubric; fall back to the built-in table when no
	// config file is present.
	var rubric *health.Rubric
	rubricPath := os.Getenv("RUBRIC_PATH")
	if rubricPath == "" {
		rubricPath = "config/rubric.yaml"
	}
	if _, err := os.Stat(rubricPath); err == nil {
		loaded, err := health.LoadRubricYAML(rubricPath)
		if err != nil {
			fmt.Printf("[FATAL] Invalid rubric %s: %v\n", rubricPath, err)
			os.Exit(1)
		}
		rubric = loaded
		fmt.Printf("[CONFIG] Loaded scoring rubric from %s\n", rubricPath)
	} else {
		fmt.Println("[CONFIG] No rubric file found, using built-in scoring table")
	}

	analyzer, err := pipeline.NewAnalyzer(rubric)
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}

	// Persistence is optional: without DATABASE_URL the API still analyzes,
	// it just cannot store or fetch reports.
	var repo store.ReportRepository
	if os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(context.Background(), ""); err != nil {
			fmt.Printf("[FATAL] Database init failed: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		repo = store.NewReportRepo()
		fmt.Println("[DB] Connected")
	} else {
		fmt.Println("[DB] DATABASE_URL not set, running without persistence")
	}

	handler := analyze.NewHandler(analyzer, repo)
	http.HandleFunc("/api/analyze", handler.HandleAnalyze)
	http.HandleFunc("/api/compare", handler.HandleCompare)
	http.HandleFunc("/api/report", handler.HandleReport)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("API server starting on :%s...\n", port)
	fmt.Println("  - POST /api/analyze")
	fmt.Println("  - POST /api/compare")
	fmt.Println("  - GET  /api/report?stock_code=600519")

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"caiwu_agent/pkg/core/pipeline"
	"caiwu_agent/pkg/core/report"
	"caiwu_agent/pkg/core/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: pipeline <bundle.json> [more bundles...]")
		fmt.Println("  Analyzes each statement bundle and prints the Markdown report.")
		fmt.Println("  With two or more bundles a peer comparison is appended.")
		os.Exit(2)
	}

	analyzer, err := pipeline.NewAnalyzer(nil)
	if err != nil {
		log.Fatalf("Analyzer init failed: %v", err)
	}

	var repo *store.ReportRepo
	if os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(context.Background(), ""); err != nil {
			log.Fatalf("Database init failed: %v", err)
		}
		defer store.Close()
		repo = store.NewReportRepo()
	}

	var results []*pipeline.Result
	for _, path := range os.Args[1:] {
		result, err := analyzer.AnalyzeFile(path, pipeline.Options{})
		if err != nil {
			log.Fatalf("Analysis of %s failed: %v", path, err)
		}
		results = append(results, result)

		markdown := report.Render(result)
		fmt.Println(markdown)

		if repo != nil {
			envelope, err := repo.Save(context.Background(), result, markdown)
			if err != nil {
				log.Fatalf("Failed to store report for %s: %v", result.StockCode, err)
			}
			fmt.Printf("Stored report %s for %s\n", envelope.ID, result.StockCode)
		}
	}

	if len(results) >= 2 {
		comparison := pipeline.Compare(results)
		fmt.Println("## 同业比较")
		for _, rank := range comparison.Overall {
			fmt.Printf("%d. %s（%s）综合得分 %.1f（%s）\n",
				rank.Rank, rank.StockName, rank.StockCode, rank.Score, rank.RiskLevel)
		}
		encoded, _ := json.MarshalIndent(comparison.ByMetric, "", "  ")
		fmt.Println(string(encoded))
	}
}

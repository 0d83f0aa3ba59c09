package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/retazo/mrp/pkg/application/dto"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	PlanTime  time.Duration
}

// Generate creates output in the specified format
func Generate(result *dto.PlanResult, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(result, config)
	case "json":
		return generateJSONOutput(result, config)
	case "csv":
		return generateCSVOutput(result, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(result *dto.PlanResult, config Config) error {
	fmt.Printf("📊 Requirements Projection Summary\n")
	fmt.Printf("==================================\n\n")

	fmt.Printf("Run ID: %s\n", result.RunID)
	fmt.Printf("Snapshot taken: %s\n", result.SnapshotTakenAt.Format("2006-01-02"))
	fmt.Printf("Products: %d\n", len(result.Products))
	fmt.Printf("Increment factor: %g, horizon: %d months\n", result.IncrementFactor, result.Horizon)
	if result.Diagnostics.DroppedOrderLines > 0 || result.Diagnostics.DroppedCuts > 0 {
		fmt.Printf("Dropped: %d order line(s), %d cut(s)\n",
			result.Diagnostics.DroppedOrderLines, result.Diagnostics.DroppedCuts)
	}
	fmt.Printf("Plan time: %v\n\n", config.PlanTime)

	for _, product := range result.Products {
		fmt.Printf("📦 %s (%s, %s)\n", product.Code, product.Description, product.Unit)
		fmt.Printf("%-9s %-12s %-12s %-12s %-12s\n",
			"Bucket", "Demand", "Forecast", "Available", "Net Req")
		fmt.Printf("%-9s %-12s %-12s %-12s %-12s\n",
			"---------", "------------", "------------", "------------", "------------")

		for _, bucket := range product.Timeline {
			fmt.Printf("%-9s %-12s %-12s %-12s %-12s\n",
				bucket.Bucket,
				bucket.Demand.String(),
				bucket.ForecastedDemand.String(),
				bucket.AvailableStock.String(),
				bucket.NetRequirement.String())
		}
		fmt.Println()
	}

	if config.OutputDir != "" {
		if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		return generateJSONOutput(result, Config{
			Format:    "json",
			OutputDir: config.OutputDir,
			Verbose:   config.Verbose,
		})
	}

	return nil
}

// generateJSONOutput creates JSON output
func generateJSONOutput(result *dto.PlanResult, config Config) error {
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Println(string(jsonData))
	} else {
		if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		filename := filepath.Join(config.OutputDir, "plan_result.json")
		if err := os.WriteFile(filename, jsonData, 0644); err != nil {
			return fmt.Errorf("failed to write JSON file: %w", err)
		}

		if config.Verbose {
			fmt.Printf("💾 JSON results saved to: %s\n", filename)
		}
	}

	return nil
}

// generateCSVOutput writes one row per product and bucket
func generateCSVOutput(result *dto.PlanResult, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "net_requirements.csv")
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"product_code", "unit", "bucket",
		"demand", "forecasted_demand", "available_stock", "net_requirement",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, product := range result.Products {
		for _, bucket := range product.Timeline {
			record := []string{
				string(product.Code),
				product.Unit.String(),
				string(bucket.Bucket),
				bucket.Demand.String(),
				bucket.ForecastedDemand.String(),
				bucket.AvailableStock.String(),
				bucket.NetRequirement.String(),
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	if config.Verbose {
		fmt.Printf("💾 CSV results saved to: %s\n", filename)
	}

	return nil
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	appservices "github.com/retazo/mrp/pkg/application/services"
	"github.com/retazo/mrp/pkg/domain/entities"
	"github.com/retazo/mrp/pkg/domain/repositories"
	domainservices "github.com/retazo/mrp/pkg/domain/services"
	"github.com/retazo/mrp/pkg/infrastructure/repositories/csv"
	"github.com/retazo/mrp/pkg/infrastructure/repositories/postgres"
	"github.com/retazo/mrp/pkg/infrastructure/spreadsheet"
	"github.com/retazo/mrp/pkg/interfaces/cli/output"
)

// Config holds configuration for the planning command
type Config struct {
	ScenarioDir     string
	DatabaseURL     string
	CutsFile        string
	IncrementFactor float64
	Horizon         int
	OutputDir       string
	Format          string
	Verbose         bool
	Help            bool
}

// PlanCommand loads a snapshot, runs the projection and renders the result
type PlanCommand struct {
	config Config
}

// NewPlanCommand creates a new planning command with the given configuration
func NewPlanCommand(config Config) *PlanCommand {
	return &PlanCommand{
		config: config,
	}
}

// Execute runs the planning command
func (c *PlanCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	repo, cleanup, err := c.buildRepository()
	if err != nil {
		return err
	}
	defer cleanup()

	if c.config.Verbose {
		c.printHeader()
	}

	if c.config.Verbose {
		fmt.Println("📂 Loading snapshot...")
	}

	snapshot, err := repo.LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("error loading snapshot: %w", err)
	}

	if c.config.Verbose {
		fmt.Printf("✅ Snapshot loaded:\n")
		fmt.Printf("  Products: %d\n", len(snapshot.Products))
		fmt.Printf("  Clients: %d\n", len(snapshot.Clients))
		fmt.Printf("  Orders: %d\n", len(snapshot.Orders))
		fmt.Printf("  Order Lines: %d\n", len(snapshot.OrderLines))
		fmt.Printf("  Cuts: %d\n", len(snapshot.Cuts))
		fmt.Println()
	}

	// An uploaded remnant file supersedes the snapshot's cuts: the upload is
	// the physical count, the extract only mirrors it.
	if c.config.CutsFile != "" {
		cuts, err := c.loadUploadedCuts()
		if err != nil {
			return err
		}
		snapshot.Cuts = cuts

		if c.config.Verbose {
			fmt.Printf("✅ Remnant upload accepted: %d cuts\n\n", len(cuts))
		}
	}

	params, err := entities.NewForecastParams(c.config.IncrementFactor, c.config.Horizon)
	if err != nil {
		return fmt.Errorf("invalid forecast parameters: %w", err)
	}

	if c.config.Verbose {
		fmt.Println("🔄 Running requirements projection...")
	}

	startTime := time.Now()
	mrpService := appservices.NewMRPService(appservices.NewForecastService())
	result, err := mrpService.Plan(ctx, snapshot, params)
	planTime := time.Since(startTime)

	if err != nil {
		return fmt.Errorf("error running projection: %w", err)
	}

	if result.Diagnostics.DroppedOrderLines > 0 || result.Diagnostics.DroppedCuts > 0 {
		log.Warn().
			Int("dropped_order_lines", result.Diagnostics.DroppedOrderLines).
			Int("dropped_cuts", result.Diagnostics.DroppedCuts).
			Msg("snapshot rows referenced unknown products or orders")
	}

	if c.config.Verbose {
		fmt.Printf("✅ Projection completed in %v\n\n", planTime)
	}

	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		PlanTime:  planTime,
	}

	if err := output.Generate(result, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if c.config.Verbose {
		fmt.Println("🏁 Planning run complete!")
	}

	return nil
}

// validateInputs validates the command configuration
func (c *PlanCommand) validateInputs() error {
	if c.config.ScenarioDir == "" && c.config.DatabaseURL == "" {
		return fmt.Errorf("must specify either -scenario directory or -dsn connection string")
	}
	if c.config.ScenarioDir != "" && c.config.DatabaseURL != "" {
		return fmt.Errorf("-scenario and -dsn are mutually exclusive")
	}
	return nil
}

// buildRepository picks the snapshot source from the configuration
func (c *PlanCommand) buildRepository() (repositories.SnapshotRepository, func(), error) {
	if c.config.DatabaseURL != "" {
		repo, err := postgres.Open(c.config.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("error connecting to database: %w", err)
		}
		return repo, func() { _ = repo.Close() }, nil
	}

	if _, err := os.Stat(c.config.ScenarioDir); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("scenario directory not found: %s", c.config.ScenarioDir)
	}

	repo := csv.NewDirRepository(c.config.ScenarioDir, time.Now().UTC())
	return repo, func() {}, nil
}

// loadUploadedCuts reads and validates an operator remnant file. Rows that
// fail validation are logged and skipped; the batch is fatal only when no
// row survives.
func (c *PlanCommand) loadUploadedCuts() ([]entities.Cut, error) {
	file, err := os.Open(c.config.CutsFile)
	if err != nil {
		return nil, fmt.Errorf("error opening cuts file: %w", err)
	}
	defer file.Close()

	reader := spreadsheet.NewReader()
	rows, err := reader.Read(file, c.config.CutsFile)
	if err != nil {
		return nil, fmt.Errorf("error reading cuts file: %w", err)
	}

	validator := domainservices.NewRowValidator()
	result, err := validator.ValidateRows(rows)
	if err != nil {
		if errors.Is(err, domainservices.ErrNoUsableRows) {
			for _, rowErr := range result.Errors {
				log.Error().
					Int("row", rowErr.RowNumber).
					Str("column", rowErr.Column).
					Msg(rowErr.Message)
			}
		}
		return nil, fmt.Errorf("cuts file rejected: %w", err)
	}

	for _, rowErr := range result.Errors {
		log.Warn().
			Int("row", rowErr.RowNumber).
			Str("column", rowErr.Column).
			Msg(rowErr.Message)
	}

	return result.ParsedRows, nil
}

// printHeader prints the command header information
func (c *PlanCommand) printHeader() {
	fmt.Printf("🚀 Retazo MRP CLI\n")
	if c.config.ScenarioDir != "" {
		fmt.Printf("Snapshot source: %s\n", c.config.ScenarioDir)
	} else {
		fmt.Printf("Snapshot source: database\n")
	}
	if c.config.CutsFile != "" {
		fmt.Printf("Remnant upload: %s\n", c.config.CutsFile)
	}
	fmt.Printf("Increment factor: %g\n", c.config.IncrementFactor)
	fmt.Printf("Forecast horizon: %d months\n", c.config.Horizon)
	fmt.Printf("Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Printf("Output directory: %s\n", c.config.OutputDir)
	}
	fmt.Println()
}

// showHelp displays the help message
func (c *PlanCommand) showHelp() {
	fmt.Printf(`Retazo MRP CLI - Net Requirements Planning over ERP Snapshots

USAGE:
    mrp plan -scenario <directory>         # Use extract directory with CSV files
    mrp plan -dsn <postgres-url>           # Load the snapshot from the ERP mirror
    mrp validate -cuts <file>              # Validate a remnant upload only

OPTIONS:
    -scenario <dir>     Path to extract directory containing CSV files
    -dsn <url>          Postgres connection string for the ERP mirror
    -cuts <file>        Remnant inventory upload (.csv or .xlsx)
    -increment <f>      Monthly demand increment factor (default: 0)
    -horizon <n>        Number of future months to forecast (default: 6)
    -output <dir>       Output directory for results (optional)
    -format <fmt>       Output format: text, json, csv (default: text)
    -verbose            Enable verbose output
    -help               Show this help message

EXTRACT DIRECTORY STRUCTURE:
    extract_name/
    ├── products.csv    # Product master data
    ├── clients.csv     # Client master data
    ├── orders.csv      # Sales order headers
    ├── order_lines.csv # Sales order lines
    └── cuts.csv        # Remnant inventory

CSV FILE FORMATS:

products.csv:
    code,description,unit
    CANO-40,Caño estructural 40mm,MT

orders.csv:
    order_number,client_code,issue_date
    SO-1001,CL-01,2024-01-10

order_lines.csv:
    order_number,product_code,ordered_quantity
    SO-1001,CANO-40,100

EXAMPLES:
    # Plan from an extract directory
    mrp plan -scenario extracts/2024-02 -verbose

    # Plan from the ERP mirror with an operator upload
    mrp plan -dsn "$DATABASE_URL" -cuts retazos.xlsx -increment 0.05

    # Generate JSON output
    mrp plan -scenario extracts/2024-02 -format json -output results/
`)
}

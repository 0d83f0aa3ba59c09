package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/retazo/mrp/pkg/interfaces/cli/commands"
)

func main() {
	// Local development keeps DATABASE_URL in a .env file; absence is fine.
	_ = godotenv.Load()

	// Command line flags
	var (
		scenarioDir = flag.String(
			"scenario",
			"",
			"Path to extract directory containing CSV files",
		)
		dsn       = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres connection string for the ERP mirror")
		cutsFile  = flag.String("cuts", "", "Remnant inventory upload (.csv or .xlsx)")
		increment = flag.Float64("increment", 0, "Monthly demand increment factor")
		horizon   = flag.Int("horizon", 6, "Number of future months to forecast")
		outputDir = flag.String("output", "", "Output directory for results (optional)")
		format    = flag.String("format", "text", "Output format: text, json, csv")
		verbose   = flag.Bool("verbose", false, "Enable verbose output")
		help      = flag.Bool("help", false, "Show help message")
	)

	// The first positional argument selects the mode: plan (default) or
	// validate.
	mode := "plan"
	args := os.Args[1:]
	if len(args) > 0 && (args[0] == "plan" || args[0] == "validate") {
		mode = args[0]
		args = args[1:]
	}
	if err := flag.CommandLine.Parse(args); err != nil {
		os.Exit(2)
	}

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	config := commands.Config{
		ScenarioDir:     *scenarioDir,
		DatabaseURL:     *dsn,
		CutsFile:        *cutsFile,
		IncrementFactor: *increment,
		Horizon:         *horizon,
		OutputDir:       *outputDir,
		Format:          *format,
		Verbose:         *verbose,
		Help:            *help,
	}

	ctx := context.Background()

	var err error
	switch mode {
	case "validate":
		err = commands.NewValidateCommand(config).Execute(ctx)
	default:
		err = commands.NewPlanCommand(config).Execute(ctx)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

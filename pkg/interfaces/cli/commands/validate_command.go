package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	domainservices "github.com/retazo/mrp/pkg/domain/services"
	"github.com/retazo/mrp/pkg/infrastructure/spreadsheet"
)

// ValidateCommand checks a remnant upload without running a planning run
type ValidateCommand struct {
	config Config
}

// NewValidateCommand creates a new validation command
func NewValidateCommand(config Config) *ValidateCommand {
	return &ValidateCommand{
		config: config,
	}
}

// Execute validates the upload and reports per-row errors. The command only
// fails when the file is unreadable or no row survives validation.
func (c *ValidateCommand) Execute(ctx context.Context) error {
	if c.config.CutsFile == "" {
		return fmt.Errorf("validation error: -cuts file is required")
	}

	file, err := os.Open(c.config.CutsFile)
	if err != nil {
		return fmt.Errorf("error opening cuts file: %w", err)
	}
	defer file.Close()

	reader := spreadsheet.NewReader()
	rows, err := reader.Read(file, c.config.CutsFile)
	if err != nil {
		return fmt.Errorf("error reading cuts file: %w", err)
	}

	validator := domainservices.NewRowValidator()
	result, err := validator.ValidateRows(rows)
	if err != nil && !errors.Is(err, domainservices.ErrNoUsableRows) {
		return fmt.Errorf("error validating cuts file: %w", err)
	}

	if c.config.Format == "json" {
		report := struct {
			File       string                    `json:"file"`
			ParsedRows int                       `json:"parsedRows"`
			Errors     []domainservices.RowError `json:"errors"`
		}{
			File:       c.config.CutsFile,
			ParsedRows: len(result.ParsedRows),
			Errors:     result.Errors,
		}
		data, marshalErr := json.MarshalIndent(report, "", "  ")
		if marshalErr != nil {
			return fmt.Errorf("failed to marshal JSON: %w", marshalErr)
		}
		fmt.Println(string(data))
	} else {
		fmt.Printf("📋 Validation report for %s\n", c.config.CutsFile)
		fmt.Printf("  Usable rows: %d\n", len(result.ParsedRows))
		fmt.Printf("  Rejected rows: %d error(s)\n", len(result.Errors))
		for _, rowErr := range result.Errors {
			fmt.Printf("  row %d, %s: %s\n", rowErr.RowNumber, rowErr.Column, rowErr.Message)
		}
	}

	if errors.Is(err, domainservices.ErrNoUsableRows) {
		return fmt.Errorf("cuts file rejected: %w", err)
	}

	return nil
}

// Package spreadsheet reads operator-uploaded remnant inventory files into
// raw string-keyed rows for the row validator. Uploads come from desktop
// tooling, so the CSV path tolerates legacy encodings and sniffs the
// delimiter instead of assuming a clean UTF-8 comma-separated export.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/retazo/mrp/pkg/domain/services"
)

// Reader parses uploaded spreadsheet files into raw rows
type Reader struct{}

// NewReader creates a new spreadsheet reader
func NewReader() *Reader {
	return &Reader{}
}

// Read parses the uploaded file by extension. Cell values are passed through
// as trimmed strings; typing and validation belong to the row validator.
func (r *Reader) Read(file io.Reader, filename string) ([]services.RawRow, error) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return r.readCSV(file)
	case strings.HasSuffix(lower, ".xlsx"), strings.HasSuffix(lower, ".xls"):
		return r.readXLSX(file)
	default:
		return nil, fmt.Errorf("unsupported file format %q (expected .csv or .xlsx)", filename)
	}
}

func (r *Reader) readXLSX(file io.Reader) ([]services.RawRow, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("workbook is empty")
	}

	headerIndex := firstNonEmptyRow(rows)
	if headerIndex < 0 {
		return nil, fmt.Errorf("workbook has no header row")
	}
	headers := cleanHeaders(rows[headerIndex])

	return mapRows(headers, rows[headerIndex+1:]), nil
}

func (r *Reader) readCSV(file io.Reader) ([]services.RawRow, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	// Desktop ERP exports are often Windows-1252; fall back to it when the
	// bytes are not valid UTF-8.
	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
		if err == nil {
			data = decoded
		}
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	headers := cleanHeaders(header)

	var records [][]string
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("skipping unreadable CSV line")
			continue
		}
		records = append(records, record)
	}

	return mapRows(headers, records), nil
}

// detectDelimiter picks the most frequent candidate delimiter in the first
// kilobyte of the file
func detectDelimiter(data []byte) rune {
	sample := string(data)
	if len(sample) > 1024 {
		sample = sample[:1024]
	}

	delimiter := ','
	best := strings.Count(sample, ",")
	for _, candidate := range []rune{';', '\t', '|'} {
		if count := strings.Count(sample, string(candidate)); count > best {
			best = count
			delimiter = candidate
		}
	}

	return delimiter
}

func firstNonEmptyRow(rows [][]string) int {
	for i, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				return i
			}
		}
	}
	return -1
}

func cleanHeaders(header []string) []string {
	cleaned := make([]string, len(header))
	for i, h := range header {
		cleaned[i] = strings.TrimSpace(strings.Trim(h, "\"'\t"))
	}
	return cleaned
}

// mapRows pairs each record with the header names. Fully empty records are
// skipped; everything else is left to the validator, including short rows.
func mapRows(headers []string, records [][]string) []services.RawRow {
	rows := make([]services.RawRow, 0, len(records))
	for _, record := range records {
		row := make(services.RawRow, len(headers))
		hasData := false
		for i, value := range record {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			trimmed := strings.TrimSpace(value)
			row[headers[i]] = trimmed
			if trimmed != "" {
				hasData = true
			}
		}
		if hasData {
			rows = append(rows, row)
		}
	}
	return rows
}

package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retazo/mrp/pkg/domain/entities"
)

// Column names fixed by the remnant upload template.
const (
	ColCodigoTango = "Codigo Tango"
	ColLote        = "Lote"
	ColCaja        = "Caja"
	ColUbicacion   = "Ubicación"
	ColCantidad    = "Cantidad"
	ColMedida      = "Medida"
	ColUnidad      = "Unidad"
	ColTotal       = "Cant de mt/pzas"
	ColStockFisico = "Stock Fisico"
	ColStockTango  = "Stock Tango"
)

// ErrNoUsableRows is the batch-level failure raised when validation leaves
// zero successful rows. It is distinct from the per-row errors, which never
// abort the batch.
var ErrNoUsableRows = errors.New("no usable data: every row failed validation")

// RawRow is one untyped spreadsheet row keyed by column name. Cell values
// arrive as strings or numbers depending on the upstream reader.
type RawRow map[string]any

// RowError describes one cell-level failure with enough context to report
// back to the operator. RowNumber is 1-based over the input data rows.
type RowError struct {
	RowNumber int    `json:"rowNumber"`
	Column    string `json:"column"`
	Message   string `json:"message"`
}

// ValidationResult contains the typed rows that survived validation and the
// collected per-row errors.
type ValidationResult struct {
	ParsedRows []entities.Cut
	Errors     []RowError
}

// RowValidator converts raw spreadsheet rows into typed Cuts. It is a pure
// function of its input: failures are isolated per row and a single bad row
// never invalidates the batch.
type RowValidator struct{}

// NewRowValidator creates a new row validator
func NewRowValidator() *RowValidator {
	return &RowValidator{}
}

// ValidateRows validates every row independently. It returns ErrNoUsableRows
// when no row survives; the returned result still carries the row errors so
// the caller can report them.
func (v *RowValidator) ValidateRows(rows []RawRow) (*ValidationResult, error) {
	result := &ValidationResult{
		ParsedRows: make([]entities.Cut, 0, len(rows)),
		Errors:     make([]RowError, 0),
	}

	for i, row := range rows {
		rowNumber := i + 1

		cut, rowErrs := v.validateRow(rowNumber, row)
		if len(rowErrs) > 0 {
			result.Errors = append(result.Errors, rowErrs...)
			continue
		}
		result.ParsedRows = append(result.ParsedRows, *cut)
	}

	if len(result.ParsedRows) == 0 {
		return result, ErrNoUsableRows
	}

	return result, nil
}

func (v *RowValidator) validateRow(rowNumber int, row RawRow) (*entities.Cut, []RowError) {
	var errs []RowError

	fail := func(column, message string) {
		errs = append(errs, RowError{RowNumber: rowNumber, Column: column, Message: message})
	}

	productCode, ok := stringCell(row, ColCodigoTango)
	if !ok {
		fail(ColCodigoTango, "required value is missing")
	}

	lote, _ := stringCell(row, ColLote)
	caja, _ := stringCell(row, ColCaja)
	location, _ := stringCell(row, ColUbicacion)

	amount, _ := requiredCount(row, ColCantidad, fail)

	measure := requiredWholeNumber(row, ColMedida, fail)

	var unit entities.UnitOfMeasure
	if raw, present := stringCell(row, ColUnidad); !present {
		fail(ColUnidad, "required value is missing")
	} else {
		parsed, err := entities.ParseUnitOfMeasure(raw)
		if err != nil {
			fail(ColUnidad, err.Error())
		} else {
			unit = parsed
		}
	}

	total := decimal.Zero
	if dec, present, err := numericCell(row, ColTotal); err != nil {
		fail(ColTotal, err.Error())
	} else if !present {
		fail(ColTotal, "required value is missing")
	} else if dec.IsNegative() {
		fail(ColTotal, "value cannot be negative")
	} else {
		total = dec
	}

	stockPhys := optionalCount(row, ColStockFisico, fail)
	stockTango := optionalCount(row, ColStockTango, fail)

	if len(errs) > 0 {
		return nil, errs
	}

	cut, err := entities.NewCut(
		uuid.NewString(),
		entities.ProductCode(productCode),
		lote, caja, location,
		amount, measure, total, unit,
		stockPhys, stockTango,
	)
	if err != nil {
		fail(ColCodigoTango, err.Error())
		return nil, errs
	}

	return cut, nil
}

// requiredCount coerces a required non-negative integer column.
func requiredCount(row RawRow, column string, fail func(column, message string)) (entities.Quantity, bool) {
	dec, present, err := numericCell(row, column)
	if err != nil {
		fail(column, err.Error())
		return 0, false
	}
	if !present {
		fail(column, "required value is missing")
		return 0, false
	}
	qty, err := toCount(dec)
	if err != nil {
		fail(column, err.Error())
		return 0, false
	}
	return qty, true
}

// requiredWholeNumber coerces a required non-negative whole-number column
// (the measure, stored in millimeters for meter-denominated rows).
func requiredWholeNumber(row RawRow, column string, fail func(column, message string)) int64 {
	dec, present, err := numericCell(row, column)
	if err != nil {
		fail(column, err.Error())
		return 0
	}
	if !present {
		fail(column, "required value is missing")
		return 0
	}
	if dec.IsNegative() {
		fail(column, "value cannot be negative")
		return 0
	}
	if !dec.IsInteger() {
		fail(column, fmt.Sprintf("value must be a whole number, got %s", dec))
		return 0
	}
	return dec.IntPart()
}

// optionalCount coerces an optional stock counter; absent means zero, but a
// present malformed value still fails the row.
func optionalCount(row RawRow, column string, fail func(column, message string)) entities.Quantity {
	dec, present, err := numericCell(row, column)
	if err != nil {
		fail(column, err.Error())
		return 0
	}
	if !present {
		return 0
	}
	qty, err := toCount(dec)
	if err != nil {
		fail(column, err.Error())
		return 0
	}
	return qty
}

func toCount(dec decimal.Decimal) (entities.Quantity, error) {
	if dec.IsNegative() {
		return 0, fmt.Errorf("value cannot be negative")
	}
	if !dec.IsInteger() {
		return 0, fmt.Errorf("value must be a whole number, got %s", dec)
	}
	return entities.Quantity(dec.IntPart()), nil
}

// stringCell renders a cell as a canonical trimmed string. An absent cell or
// an all-whitespace string is reported as not present, so downstream checks
// never see a false "value present".
func stringCell(row RawRow, column string) (string, bool) {
	val, ok := row[column]
	if !ok || val == nil {
		return "", false
	}

	var s string
	switch v := val.(type) {
	case string:
		s = v
	case float64:
		s = decimal.NewFromFloat(v).String()
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	case decimal.Decimal:
		s = v.String()
	default:
		s = fmt.Sprintf("%v", v)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// numericCell coerces a cell that may arrive as a string or a number.
// Internal whitespace (thousands separators from exports) is stripped before
// parsing; anything that still fails to parse is an error.
func numericCell(row RawRow, column string) (decimal.Decimal, bool, error) {
	val, ok := row[column]
	if !ok || val == nil {
		return decimal.Zero, false, nil
	}

	switch v := val.(type) {
	case float64:
		return decimal.NewFromFloat(v), true, nil
	case int:
		return decimal.NewFromInt(int64(v)), true, nil
	case int64:
		return decimal.NewFromInt(v), true, nil
	case decimal.Decimal:
		return v, true, nil
	case string:
		s := strings.Join(strings.Fields(v), "")
		if s == "" {
			return decimal.Zero, false, nil
		}
		dec, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, true, fmt.Errorf("value %q is not a number", strings.TrimSpace(v))
		}
		return dec, true, nil
	default:
		return decimal.Zero, true, fmt.Errorf("value of type %T is not a number", val)
	}
}

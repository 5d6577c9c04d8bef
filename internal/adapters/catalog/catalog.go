// Package catalog reads motor catalogs from CSV or Excel files and migrates
// them to the canonical column schema.
//
// Canonical columns:
//
//	Capacity_KG   required, > 0
//	Speed_mps     required, > 0
//	Max_Travel_m  optional; older sheets call it Travel_Upto_m
//	Roping        optional
//	Model         optional
//
// Any other column is kept verbatim in Record.Extra.
package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/okian/liftmotor/internal/domain/motor"
	"github.com/xuri/excelize/v2"
)

// Canonical column names.
const (
	ColCapacity = "Capacity_KG"
	ColSpeed    = "Speed_mps"
	ColTravel   = "Max_Travel_m"
	ColRoping   = "Roping"
	ColModel    = "Model"
)

// aliases maps legacy headers (lower-cased) to canonical names.
var aliases = map[string]string{ //nolint:gochecknoglobals // static migration table
	"travel_upto_m": ColTravel,
}

var canonical = []string{ColCapacity, ColSpeed, ColTravel, ColRoping, ColModel} //nolint:gochecknoglobals // static schema

// Format is a catalog file format.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatOf infers the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// LoadFile opens path and reads it as a catalog of type t.
func LoadFile(ctx context.Context, path string, t motor.Type) (*motor.Catalog, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return Read(ctx, f, format, t)
}

// Read parses r in the given format.
func Read(ctx context.Context, r io.Reader, format Format, t motor.Type) (*motor.Catalog, error) {
	var (
		rows  [][]string
		lines []int
		err   error
	)
	switch format {
	case FormatCSV:
		rows, lines, err = readCSV(r)
	case FormatXLSX:
		rows, err = readXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return fromRows(t, rows, lines)
}

// readCSV returns the records and the file line each one starts on, since
// the reader drops empty lines.
func readCSV(r io.Reader) ([][]string, []int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		rows  [][]string
		lines []int
	)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, lines, nil
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		line, _ := cr.FieldPos(0)
		rows = append(rows, row)
		lines = append(lines, line)
	}
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %w", ErrParse, sheet, err)
	}
	return rows, nil
}

// FromRows migrates a header row plus data rows into a catalog. Blank rows
// are skipped; a missing required column yields a *SchemaError and a bad
// cell a *RowError. Row i is reported as line i+1.
func FromRows(t motor.Type, rows [][]string) (*motor.Catalog, error) {
	return fromRows(t, rows, nil)
}

// fromRows is FromRows with explicit source line numbers per row; a nil
// lines falls back to the row position.
func fromRows(t motor.Type, rows [][]string, lines []int) (*motor.Catalog, error) {
	if len(rows) == 0 {
		return nil, &SchemaError{Catalog: t, Column: ColCapacity}
	}
	header := migrateHeader(rows[0])
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	for _, required := range []string{ColCapacity, ColSpeed} {
		if _, ok := index[required]; !ok {
			return nil, &SchemaError{Catalog: t, Column: required}
		}
	}
	_, hasTravel := index[ColTravel]

	records := make([]motor.Record, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if blank(row) {
			continue
		}
		line := n + 2
		if n+1 < len(lines) {
			line = lines[n+1]
		}
		rec, err := parseRow(t, line, header, index, row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return motor.NewCatalog(t, hasTravel, records)
}

// migrateHeader trims header cells and renames case-insensitive matches of
// canonical and legacy names.
func migrateHeader(raw []string) []string {
	out := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		key := strings.ToLower(h)
		if to, ok := aliases[key]; ok {
			h = to
		}
		for _, c := range canonical {
			if strings.EqualFold(h, c) {
				h = c
				break
			}
		}
		out[i] = h
	}
	return out
}

func parseRow(t motor.Type, line int, header []string, index map[string]int, row []string) (motor.Record, error) {
	cell := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var rec motor.Record
	var err error
	if rec.CapacityKG, err = positive(cell(ColCapacity)); err != nil {
		return rec, &RowError{Catalog: t, Line: line, Column: ColCapacity, Value: cell(ColCapacity), Err: err}
	}
	if rec.SpeedMPS, err = positive(cell(ColSpeed)); err != nil {
		return rec, &RowError{Catalog: t, Line: line, Column: ColSpeed, Value: cell(ColSpeed), Err: err}
	}
	if v := cell(ColTravel); v != "" {
		travel, perr := strconv.ParseFloat(v, 64)
		if perr != nil || !finite(travel) || travel < 0 {
			return rec, &RowError{Catalog: t, Line: line, Column: ColTravel, Value: v, Err: errNotNonNegative}
		}
		rec.MaxTravelM = motor.Float(travel)
	}
	rec.Roping = motor.Roping(cell(ColRoping))
	rec.Model = cell(ColModel)

	for i, name := range header {
		if isCanonical(name) || name == "" || i >= len(row) {
			continue
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]string)
		}
		rec.Extra[name] = strings.TrimSpace(row[i])
	}
	return rec, nil
}

var (
	errNotPositive    = errors.New("must be a number > 0")
	errNotNonNegative = errors.New("must be a number >= 0")
)

func positive(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(v) || !(v > 0) {
		return 0, errNotPositive
	}
	return v, nil
}

// finite rejects the Inf and NaN spellings ParseFloat accepts.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func isCanonical(name string) bool {
	for _, c := range canonical {
		if name == c {
			return true
		}
	}
	return false
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

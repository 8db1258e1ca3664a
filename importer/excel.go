// Package importer reads bulk food listings from Excel workbooks.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var ErrNoRows = errors.New("workbook has no data rows")

// Columns recognised in the header row, matched case-insensitively
const (
	ColName              = "name"
	ColDescription       = "description"
	ColPrice             = "price"
	ColDiscountPercent   = "discount_percent"
	ColAvailableQuantity = "available_quantity"
	ColPickupStart       = "pickup_start"
	ColPickupEnd         = "pickup_end"
	ColDietaryTags       = "dietary_tags"
)

var requiredColumns = []string{ColName, ColPrice, ColAvailableQuantity}

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02T15:04"}

// Row is one parsed food listing. Tags are restriction names as written in the sheet.
type Row struct {
	Line              int
	Name              string
	Description       string
	Price             float64
	DiscountPercent   int
	AvailableQuantity int
	PickupStart       time.Time
	PickupEnd         time.Time
	Tags              []string
}

// RowError describes a sheet row that was skipped
type RowError struct {
	Line  int    `json:"row"`
	Error string `json:"error"`
}

// ReadFoods parses the first worksheet. Rows that fail to parse are returned
// as RowErrors; the remaining rows are still returned.
func ReadFoods(r io.Reader) ([]Row, []RowError, error) {
	xl, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer xl.Close()

	sheet := xl.GetSheetName(0)
	if sheet == "" {
		return nil, nil, ErrNoRows
	}
	rows, err := xl.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, nil, ErrNoRows
	}

	cols := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, nil, fmt.Errorf("missing column %q", name)
		}
	}

	var (
		parsed  []Row
		skipped []RowError
	)
	for i, raw := range rows[1:] {
		line := i + 2
		if blank(raw) {
			continue
		}
		row, err := parseRow(cols, raw)
		if err != nil {
			skipped = append(skipped, RowError{Line: line, Error: err.Error()})
			continue
		}
		row.Line = line
		parsed = append(parsed, row)
	}
	return parsed, skipped, nil
}

func parseRow(cols map[string]int, raw []string) (Row, error) {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(raw) {
			return ""
		}
		return strings.TrimSpace(raw[i])
	}

	row := Row{Name: cell(ColName), Description: cell(ColDescription)}
	if row.Name == "" {
		return Row{}, errors.New("name is required")
	}

	var err error
	if row.Price, err = strconv.ParseFloat(cell(ColPrice), 64); err != nil || row.Price <= 0 {
		return Row{}, fmt.Errorf("invalid price %q", cell(ColPrice))
	}
	if v := cell(ColDiscountPercent); v != "" {
		if row.DiscountPercent, err = strconv.Atoi(v); err != nil || row.DiscountPercent < 0 || row.DiscountPercent > 100 {
			return Row{}, fmt.Errorf("invalid discount_percent %q", v)
		}
	}
	if row.AvailableQuantity, err = strconv.Atoi(cell(ColAvailableQuantity)); err != nil || row.AvailableQuantity < 0 {
		return Row{}, fmt.Errorf("invalid available_quantity %q", cell(ColAvailableQuantity))
	}
	if row.PickupStart, err = parseTime(cell(ColPickupStart)); err != nil {
		return Row{}, fmt.Errorf("invalid pickup_start: %w", err)
	}
	if row.PickupEnd, err = parseTime(cell(ColPickupEnd)); err != nil {
		return Row{}, fmt.Errorf("invalid pickup_end: %w", err)
	}
	if !row.PickupStart.IsZero() && !row.PickupEnd.IsZero() && !row.PickupEnd.After(row.PickupStart) {
		return Row{}, errors.New("pickup_end must be after pickup_start")
	}
	for _, tag := range strings.FieldsFunc(cell(ColDietaryTags), func(r rune) bool { return r == ',' || r == ';' }) {
		if tag = strings.TrimSpace(tag); tag != "" {
			row.Tags = append(row.Tags, tag)
		}
	}
	return row, nil
}

func parseTime(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", v)
}

func blank(raw []string) bool {
	for _, c := range raw {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

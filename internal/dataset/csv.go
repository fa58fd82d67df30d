// Package dataset loads purchase records from CSV or SQLite files.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/verte-zerg/agenet/internal/model"
	"github.com/verte-zerg/agenet/internal/store"
)

// Column headers of the purchase dataset.
const (
	ColCustomerID = "Customer ID"
	ColCategory   = "Category"
	ColItem       = "Item Purchased"
	ColAge        = "Age"
	ColGender     = "Gender"
	ColPayment    = "Payment Method"
	ColSeason     = "Season"
	ColAmount     = "Purchase Amount (USD)"
)

var requiredColumns = []string{ColCategory, ColItem, ColAge, ColGender, ColPayment, ColSeason}

// Load reads the dataset at path. Files ending in .db, .sqlite or .sqlite3
// are read through the SQLite store; everything else is parsed as CSV.
func Load(ctx context.Context, path string, logger *slog.Logger) ([]model.Record, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if IsSQLite(path) {
		st, err := store.OpenReadOnly(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open dataset db: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logger.Warn("failed to close dataset db", "path", path, "error", cerr)
			}
		}()
		records, err := st.ListRecords(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset db: %w", err)
		}
		logger.Info("dataset loaded", "path", path, "source", "sqlite", "records", len(records))
		return records, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only dataset.
			_ = cerr
		}
	}()
	records, skipped, err := ReadCSV(file)
	if err != nil {
		return nil, err
	}
	logger.Info("dataset loaded", "path", path, "source", "csv", "records", len(records), "missing_age", skipped)
	return records, nil
}

// IsSQLite reports whether path names a SQLite dataset.
func IsSQLite(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	default:
		return false
	}
}

// ReadCSV parses a header-first CSV stream into records. It also returns the
// number of rows whose age was missing or malformed; such rows are kept with
// HasAge unset.
func ReadCSV(r io.Reader) ([]model.Record, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, fmt.Errorf("dataset is empty")
		}
		return nil, 0, fmt.Errorf("failed to read header: %w", err)
	}
	cols, err := indexColumns(header)
	if err != nil {
		return nil, 0, err
	}

	var records []model.Record
	missingAge := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read row: %w", err)
		}
		line, _ := reader.FieldPos(0)
		rec, err := parseRow(row, cols)
		if err != nil {
			return nil, 0, fmt.Errorf("line %d: %w", line, err)
		}
		if !rec.HasAge {
			missingAge++
		}
		records = append(records, rec)
	}
	return records, missingAge, nil
}

func indexColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseRow(row []string, cols map[string]int) (model.Record, error) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	gender, ok := model.ParseGender(field(ColGender))
	if !ok {
		return model.Record{}, fmt.Errorf("invalid gender %q", field(ColGender))
	}
	rec := model.Record{
		CustomerID:    field(ColCustomerID),
		Category:      field(ColCategory),
		Item:          field(ColItem),
		Gender:        gender,
		PaymentMethod: field(ColPayment),
		Season:        field(ColSeason),
	}
	if age, err := strconv.Atoi(field(ColAge)); err == nil {
		rec.Age = age
		rec.HasAge = true
	}
	if amount, err := strconv.ParseFloat(field(ColAmount), 64); err == nil {
		rec.Amount = amount
	}
	return rec, nil
}

package seed

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// InventoryRecord is one seed row for an inventory item.
type InventoryRecord struct {
	SKU               string
	Name              string
	Quantity          int
	TemperatureZone   string
	LowStockThreshold int
	HasThreshold      bool
}

var inventoryColumns = []string{"SKU", "QUANTITY"}

// ReadInventory parses inventory seed rows from a CSV file with a header
// row. Malformed rows are logged and skipped.
func ReadInventory(log *slog.Logger, path string) ([]InventoryRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open inventory csv %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read inventory csv header: %w", err)
	}
	cols, err := indexColumns(header, inventoryColumns)
	if err != nil {
		return nil, err
	}

	var records []InventoryRecord
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			log.Warn("skipping malformed inventory row", "line", line, "err", err)
			continue
		}

		qty, err := strconv.Atoi(strings.TrimSpace(row[cols["QUANTITY"]]))
		if err != nil {
			log.Warn("skipping inventory row with bad quantity", "line", line, "err", err)
			continue
		}

		rec := InventoryRecord{
			SKU:             row[cols["SKU"]],
			Name:            optionalColumn(row, cols, "NAME"),
			Quantity:        qty,
			TemperatureZone: optionalColumn(row, cols, "TEMPERATURE_ZONE"),
		}
		if rec.SKU == "" {
			log.Warn("skipping inventory row with empty sku", "line", line)
			continue
		}
		if raw := optionalColumn(row, cols, "LOW_STOCK_THRESHOLD"); raw != "" {
			threshold, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				log.Warn("skipping inventory row with bad threshold", "line", line, "err", err)
				continue
			}
			rec.LowStockThreshold = threshold
			rec.HasThreshold = true
		}
		records = append(records, rec)
	}

	log.Info("loaded inventory seed rows", "path", path, "rows", len(records))
	return records, nil
}

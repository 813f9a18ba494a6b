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

// OrderRecord is one flat seed row; multiple rows sharing an ORDER_ID are
// lines of the same order.
type OrderRecord struct {
	OrderID         string
	OrderType       string
	PlacedTime      string
	DueTime         string
	CustomerID      string
	SKU             string
	Quantity        int
	TemperatureZone string
}

var orderColumns = []string{"ORDER_ID", "ORDER_TYPE", "ORDER_PLACED_TIME", "ORDER_DUE_TIME", "CUSTOMER_ID", "SKU", "QUANTITY"}

// ReadOrders parses order seed rows from a CSV file with a header row.
// Malformed rows are logged and skipped; only an unreadable file or header
// fails the load.
func ReadOrders(log *slog.Logger, path string) ([]OrderRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open order csv %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read order csv header: %w", err)
	}
	cols, err := indexColumns(header, orderColumns)
	if err != nil {
		return nil, err
	}

	var records []OrderRecord
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			log.Warn("skipping malformed order row", "line", line, "err", err)
			continue
		}

		qty, err := strconv.Atoi(strings.TrimSpace(row[cols["QUANTITY"]]))
		if err != nil {
			log.Warn("skipping order row with bad quantity", "line", line, "err", err)
			continue
		}

		rec := OrderRecord{
			OrderID:         row[cols["ORDER_ID"]],
			OrderType:       row[cols["ORDER_TYPE"]],
			PlacedTime:      row[cols["ORDER_PLACED_TIME"]],
			DueTime:         row[cols["ORDER_DUE_TIME"]],
			CustomerID:      row[cols["CUSTOMER_ID"]],
			SKU:             row[cols["SKU"]],
			Quantity:        qty,
			TemperatureZone: optionalColumn(row, cols, "TEMPERATURE_ZONE"),
		}
		if rec.OrderID == "" || rec.SKU == "" {
			log.Warn("skipping order row with missing key fields", "line", line)
			continue
		}
		records = append(records, rec)
	}

	log.Info("loaded order seed rows", "path", path, "rows", len(records))
	return records, nil
}

func indexColumns(header, required []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("csv missing required column %s", name)
		}
	}
	return cols, nil
}

func optionalColumn(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

package seed

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReadOrdersParsesRowsInFileOrder(t *testing.T) {
	path := writeCSV(t, `ORDER_ID,ORDER_TYPE,ORDER_PLACED_TIME,ORDER_DUE_TIME,CUSTOMER_ID,SKU,QUANTITY,TEMPERATURE_ZONE
ORD-1,DELIVERY,2024-01-13T09:00:00,2024-01-13T17:00:00,CUST-1,SKU-A,2,AMBIENT
ORD-1,DELIVERY,2024-01-13T09:00:00,2024-01-13T17:00:00,CUST-1,SKU-B,1,FROZEN
ORD-2,PICKUP,2024-01-13T10:30:00,2024-01-13T12:00:00,CUST-2,SKU-A,4,
`)

	records, err := ReadOrders(discardLogger(), path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(records))
	}
	if records[0].OrderID != "ORD-1" || records[0].SKU != "SKU-A" || records[0].Quantity != 2 {
		t.Errorf("unexpected first row %+v", records[0])
	}
	if records[1].TemperatureZone != "FROZEN" {
		t.Errorf("expected zone FROZEN, got %q", records[1].TemperatureZone)
	}
	if records[2].OrderType != "PICKUP" || records[2].TemperatureZone != "" {
		t.Errorf("unexpected third row %+v", records[2])
	}
}

func TestReadOrdersSkipsMalformedRows(t *testing.T) {
	path := writeCSV(t, `ORDER_ID,ORDER_TYPE,ORDER_PLACED_TIME,ORDER_DUE_TIME,CUSTOMER_ID,SKU,QUANTITY
ORD-1,DELIVERY,2024-01-13T09:00:00,2024-01-13T17:00:00,CUST-1,SKU-A,two
,DELIVERY,2024-01-13T09:00:00,2024-01-13T17:00:00,CUST-1,SKU-A,2
ORD-2,DELIVERY,2024-01-13T09:00:00,2024-01-13T17:00:00,CUST-1,,2
ORD-3,PICKUP,2024-01-13T10:00:00,2024-01-13T12:00:00,CUST-2,SKU-B,5
`)

	records, err := ReadOrders(discardLogger(), path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected only the valid row, got %d", len(records))
	}
	if records[0].OrderID != "ORD-3" {
		t.Errorf("unexpected surviving row %+v", records[0])
	}
}

func TestReadOrdersRejectsMissingColumn(t *testing.T) {
	path := writeCSV(t, `ORDER_ID,ORDER_TYPE,ORDER_PLACED_TIME,CUSTOMER_ID,SKU,QUANTITY
ORD-1,DELIVERY,2024-01-13T09:00:00,CUST-1,SKU-A,2
`)

	if _, err := ReadOrders(discardLogger(), path); err == nil {
		t.Fatal("expected error for missing ORDER_DUE_TIME column")
	}
}

func TestReadOrdersMissingFile(t *testing.T) {
	if _, err := ReadOrders(discardLogger(), filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadInventoryOptionalColumns(t *testing.T) {
	path := writeCSV(t, `SKU,NAME,QUANTITY,TEMPERATURE_ZONE,LOW_STOCK_THRESHOLD
SKU-A,Frozen Peas,120,FROZEN,30
SKU-B,,50,,
`)

	records, err := ReadInventory(discardLogger(), path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(records))
	}
	if records[0].Name != "Frozen Peas" || records[0].LowStockThreshold != 30 || !records[0].HasThreshold {
		t.Errorf("unexpected first row %+v", records[0])
	}
	if records[1].HasThreshold {
		t.Error("blank threshold must not count as set")
	}
	if records[1].Name != "" || records[1].Quantity != 50 {
		t.Errorf("unexpected second row %+v", records[1])
	}
}

func TestReadInventorySkipsBadRows(t *testing.T) {
	path := writeCSV(t, `SKU,QUANTITY,LOW_STOCK_THRESHOLD
SKU-A,abc,10
,5,10
SKU-B,5,ten
SKU-C,7,
`)

	records, err := ReadInventory(discardLogger(), path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 1 || records[0].SKU != "SKU-C" {
		t.Fatalf("expected only SKU-C to survive, got %+v", records)
	}
}

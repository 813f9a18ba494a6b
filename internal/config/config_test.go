package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SimStartTime != "2024-01-13T08:00:00" || cfg.SimEndTime != "2024-01-13T18:00:00" {
		t.Errorf("unexpected default window %s..%s", cfg.SimStartTime, cfg.SimEndTime)
	}
	if cfg.TickSeconds != 1 || cfg.SpeedFactor != 1.0 {
		t.Errorf("unexpected tick defaults %d %f", cfg.TickSeconds, cfg.SpeedFactor)
	}
	if cfg.InitialStock != 1000 || cfg.LowStockThreshold != 100 || cfg.ReplenishmentQuantity != 500 {
		t.Errorf("unexpected stock defaults %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TOPIC_PREFIX", "staging")
	t.Setenv("SPEED_FACTOR", "2.5")
	t.Setenv("USE_CSV", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SpeedFactor != 2.5 {
		t.Errorf("expected speed factor 2.5, got %f", cfg.SpeedFactor)
	}
	if cfg.UseCSV {
		t.Error("expected csv ingestion disabled")
	}
	if got := cfg.TopicInventoryUpdate(); got != "staging.inventory.update" {
		t.Errorf("unexpected topic %q", got)
	}
}

func TestTopicNames(t *testing.T) {
	cfg := Config{TopicPrefix: "sim"}
	if cfg.TopicOrderReceived() != "sim.order.received" {
		t.Errorf("unexpected topic %q", cfg.TopicOrderReceived())
	}
	if cfg.TopicOrderProcessed() != "sim.order.processed" {
		t.Errorf("unexpected topic %q", cfg.TopicOrderProcessed())
	}
}

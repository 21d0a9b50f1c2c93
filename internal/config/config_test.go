package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
database:
  host: db.internal
  port: 5433
  user: kds
  password: secret
  database: kds

rabbitmq:
  host: mq.internal
  user: guest
  password: guest

station:
  id: grill
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() err = %v", err)
	}

	if cfg.Database.Host != "db.internal" || cfg.Database.Port != 5433 {
		t.Errorf("database config = %+v", cfg.Database)
	}
	if cfg.RabbitMQ.Port != 5672 {
		t.Errorf("rabbitmq port = %d, want default 5672", cfg.RabbitMQ.Port)
	}
	if cfg.Station.ID != "grill" {
		t.Errorf("station id = %q, want grill", cfg.Station.ID)
	}
	if cfg.Station.Exchange != "kds_orders_fanout" {
		t.Errorf("exchange = %q, want default kds_orders_fanout", cfg.Station.Exchange)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load() = nil, want error")
	}
}

func TestLoadRejectsIncomplete(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"noDatabaseHost", "database:\n  database: kds\nrabbitmq:\n  host: mq\n"},
		{"noDatabaseName", "database:\n  host: db\nrabbitmq:\n  host: mq\n"},
		{"noRabbitHost", "database:\n  host: db\n  database: kds\n"},
		{"notYaml", "{{{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Load() = nil, want error")
			}
		})
	}
}

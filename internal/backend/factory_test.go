package backend

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tindahan/internal/config"
	"tindahan/internal/storage"
)

func TestBackendType_IsValid(t *testing.T) {
	for _, bt := range GetBackendTypes() {
		if !bt.IsValid() {
			t.Errorf("%s should be valid", bt)
		}
	}
	if BackendType("sheets").IsValid() {
		t.Error("sheets should not be valid")
	}
	if got := strings.Join(GetBackendTypeStrings(), ","); got != "memory,file,sqlite,postgres,mongo" {
		t.Errorf("GetBackendTypeStrings() = %s", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"file with path", Config{Type: FileBackend, DataFile: "x.json"}, false},
		{"file without path", Config{Type: FileBackend}, true},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"postgres without dsn", Config{Type: PostgresBackend}, true},
		{"mongo without uri", Config{Type: MongoBackend}, true},
		{"unknown", Config{Type: "csv"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Error("expected error for unknown backend")
	}

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:  "sqlite",
		SQLiteDBPath: "/tmp/x.db",
		StoreTimeout: 3 * time.Second,
	})
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if cfg.Type != SQLiteBackend || cfg.SQLiteDBPath != "/tmp/x.db" || cfg.ConnectTimeout != 3*time.Second {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestCreateBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	f := NewFactory(nil)

	t.Run("memory", func(t *testing.T) {
		res, err := f.CreateBackend(ctx, Config{Type: MemoryBackend})
		if err != nil {
			t.Fatalf("CreateBackend() error = %v", err)
		}
		if res.Cleanup != nil {
			t.Error("memory backend needs no cleanup")
		}
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(dir, "state.json")
		res, err := f.CreateBackend(ctx, Config{Type: FileBackend, DataFile: path})
		if err != nil {
			t.Fatalf("CreateBackend() error = %v", err)
		}
		if err := res.Store.SetAll(ctx, map[string]string{"sheets": "[]"}); err != nil {
			t.Fatalf("SetAll() error = %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("data file not written: %v", err)
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		res, err := f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "db", "t.db")})
		if err != nil {
			t.Fatalf("CreateBackend() error = %v", err)
		}
		if _, ok := res.Store.(*storage.SQLiteRepository); !ok {
			t.Errorf("expected SQLite repository, got %T", res.Store)
		}
		if err := res.Cleanup(); err != nil {
			t.Errorf("Cleanup() error = %v", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		if _, err := f.CreateBackend(ctx, Config{Type: PostgresBackend}); err == nil {
			t.Error("expected error for postgres without dsn")
		}
	})
}

func TestCreatePublishersNoneConfigured(t *testing.T) {
	m := CreatePublishers(PublisherConfig{}, nil)
	if m.Len() != 0 {
		t.Errorf("expected no publishers, got %d", m.Len())
	}
}

func TestCreatePublishersKafka(t *testing.T) {
	m := CreatePublishers(PublisherConfig{KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "orders"}, nil)
	if m.Len() != 1 {
		t.Errorf("expected kafka publisher, got %d", m.Len())
	}
	m.Close()
}

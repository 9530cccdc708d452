package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// chdir moves the test into dir so Load cannot pick up a real tasknest.yaml.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore cwd: %v", err)
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("Given no file and no env Then defaults apply", func(t *testing.T) {
		chdir(t, t.TempDir())

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		want := Default()
		if cfg.Addr != want.Addr {
			t.Errorf("addr = %q, want %q", cfg.Addr, want.Addr)
		}
		if cfg.Mongo.URL != want.Mongo.URL || cfg.Mongo.Database != want.Mongo.Database {
			t.Errorf("mongo = %+v, want %+v", cfg.Mongo, want.Mongo)
		}
		if cfg.Mongo.Timeout != want.Mongo.Timeout {
			t.Errorf("timeout = %v, want %v", cfg.Mongo.Timeout, want.Mongo.Timeout)
		}
	})

	t.Run("Given env overrides Then they win over defaults", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("TASKNEST_ADDR", ":9999")
		t.Setenv("TASKNEST_MONGO_DATABASE", "tasknest_test")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Addr != ":9999" {
			t.Errorf("addr = %q, want %q", cfg.Addr, ":9999")
		}
		if cfg.Mongo.Database != "tasknest_test" {
			t.Errorf("database = %q, want %q", cfg.Mongo.Database, "tasknest_test")
		}
	})

	t.Run("Given a config file Then its values load", func(t *testing.T) {
		dir := t.TempDir()
		yaml := "addr: \":8088\"\nmongo:\n  url: mongodb://db:27017\n  timeout: 3s\n"
		if err := os.WriteFile(filepath.Join(dir, "tasknest.yaml"), []byte(yaml), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		chdir(t, dir)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Addr != ":8088" {
			t.Errorf("addr = %q, want %q", cfg.Addr, ":8088")
		}
		if cfg.Mongo.URL != "mongodb://db:27017" {
			t.Errorf("url = %q, want %q", cfg.Mongo.URL, "mongodb://db:27017")
		}
		if cfg.Mongo.Timeout != 3*time.Second {
			t.Errorf("timeout = %v, want %v", cfg.Mongo.Timeout, 3*time.Second)
		}
		// Keys absent from the file keep their defaults.
		if cfg.Mongo.Database != Default().Mongo.Database {
			t.Errorf("database = %q, want default %q", cfg.Mongo.Database, Default().Mongo.Database)
		}
	})
}

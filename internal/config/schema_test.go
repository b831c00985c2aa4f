package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/bookgrid/internal/config"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv(config.EnvConfig, "")
	t.Chdir(dir)
	return dir
}

func TestEffectiveDefaultShelf(t *testing.T) {
	if got := (config.ShelvesConfig{}).EffectiveDefaultShelf(); got != "default" {
		t.Errorf("EffectiveDefaultShelf = %q, want %q", got, "default")
	}
	if got := (config.ShelvesConfig{DefaultName: "inbox"}).EffectiveDefaultShelf(); got != "inbox" {
		t.Errorf("EffectiveDefaultShelf = %q, want %q", got, "inbox")
	}
}

func TestDefaultPath(t *testing.T) {
	p := config.DefaultPath()
	if !strings.HasSuffix(p, filepath.Join("bookgrid", "config.yml")) {
		t.Errorf("DefaultPath = %q, should end with bookgrid/config.yml", p)
	}
}

func TestDefaultDataDir_XDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	if got := config.DefaultDataDir(); got != "/tmp/xdg-data/bookgrid" {
		t.Errorf("DefaultDataDir = %q", got)
	}
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := filepath.Join(home, ".local", "share", "bookgrid", "bookshelf.yml")
	if cfg.Storage.Path != want {
		t.Errorf("Storage.Path = %q, want %q", cfg.Storage.Path, want)
	}
	if cfg.Shelves.DefaultName != "default" {
		t.Errorf("Shelves.DefaultName = %q", cfg.Shelves.DefaultName)
	}
	if cfg.OpenLibrary.BaseURL != "https://openlibrary.org" {
		t.Errorf("OpenLibrary.BaseURL = %q", cfg.OpenLibrary.BaseURL)
	}
	if cfg.Vision.Timeout != 30*time.Second {
		t.Errorf("Vision.Timeout = %v", cfg.Vision.Timeout)
	}
	if cfg.VisionEnabled() {
		t.Error("vision should be disabled without an endpoint")
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "custom.yml")
	body := "storage:\n  path: ~/books.json\n  backup: true\nshelves:\n  default_name: inbox\nvision:\n  endpoint: http://localhost:9000/recognize\n  token_env: MY_VISION_TOKEN\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvConfig, path)
	t.Setenv("BOOKGRID_OPENLIBRARY_RPS", "5")
	t.Setenv("MY_VISION_TOKEN", "secret")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Path != filepath.Join(home, "books.json") {
		t.Errorf("Storage.Path = %q", cfg.Storage.Path)
	}
	if !cfg.Storage.Backup {
		t.Error("Storage.Backup should be true")
	}
	if cfg.Shelves.EffectiveDefaultShelf() != "inbox" {
		t.Errorf("default shelf = %q", cfg.Shelves.EffectiveDefaultShelf())
	}
	if cfg.OpenLibrary.RPS != 5 {
		t.Errorf("OpenLibrary.RPS = %d, want 5 from env", cfg.OpenLibrary.RPS)
	}
	if cfg.Vision.Token != "secret" {
		t.Errorf("Vision.Token = %q", cfg.Vision.Token)
	}
	if !cfg.VisionEnabled() {
		t.Error("vision should be enabled")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "bad.yml")
	if err := os.WriteFile(path, []byte("storage: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(path); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "nested", "config.yml")
	cfg := &config.Config{
		Storage: config.StorageConfig{Path: "/data/bookshelf.db", Backend: "sqlite"},
		Shelves: config.ShelvesConfig{DefaultName: "inbox"},
		Vision:  config.VisionConfig{Token: "never-written"},
	}
	if err := config.Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "never-written") {
		t.Error("token must not be written to the config file")
	}

	got, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Storage.Backend != "sqlite" || got.Storage.Path != "/data/bookshelf.db" {
		t.Errorf("Storage = %+v", got.Storage)
	}
}

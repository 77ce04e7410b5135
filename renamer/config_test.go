package renamer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/icza/q3demo/rep/repcmd"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ConflictsDirName != "_conflicts" || cfg.Workers != 4 {
		t.Errorf("DefaultConfig() = %+v", cfg)
	}
}

func TestLoadConfigEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\") error = %v", err)
	}
	want := DefaultConfig()
	if cfg.ConflictsDirName != want.ConflictsDirName || cfg.Workers != want.Workers || cfg.LogFile != want.LogFile {
		t.Errorf("LoadConfig(\"\") = %+v, want %+v", cfg, want)
	}
}

func TestLoadConfigMergesOverUnsetDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlContent := "workers: 8\n"
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Workers != 8 {
		t.Errorf("LoadConfig() Workers = %d, want 8", cfg.Workers)
	}
	if cfg.ConflictsDirName != "_conflicts" {
		t.Errorf("LoadConfig() ConflictsDirName = %q, want default left untouched", cfg.ConflictsDirName)
	}
}

func TestLoadConfigRegistersCountryCodeOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlContent := "country_codes:\n  Narnia: nr\n"
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := LoadConfig(path); err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if got := repcmd.NormalizeCountryCode("Narnia"); got != "NR" {
		t.Errorf("NormalizeCountryCode(Narnia) = %q, want NR", got)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig() on a missing file should return an error")
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("EMPLOYEES_DOTENV_PROBE=from-file\n"), 0o600); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("EMPLOYEES_DOTENV_PROBE") })

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadDotEnv returned error: %v", err)
	}

	if got := os.Getenv("EMPLOYEES_DOTENV_PROBE"); got != "from-file" {
		t.Fatalf("expected value from .env, got %q", got)
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	if got := ResolvePath(""); got != DefaultPath {
		t.Fatalf("expected default path, got %s", got)
	}

	t.Setenv("CONFIG_PATH", "/etc/employees.yaml")
	if got := ResolvePath(""); got != "/etc/employees.yaml" {
		t.Fatalf("expected env path, got %s", got)
	}
	if got := ResolvePath("flag.yaml"); got != "flag.yaml" {
		t.Fatalf("expected flag path, got %s", got)
	}
}

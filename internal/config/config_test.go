package config

import (
    "os"
    "path/filepath"
    "testing"
    "time"
)

func TestLoadEnv(t *testing.T) {
    t.Setenv("ANALYST_ADDRESS", ":9999")
    t.Setenv("ANALYST_API_KEY", "sk-test")
    t.Setenv("ANALYST_LOG_LEVEL", "debug")

    cfg, err := Load()
    if err != nil {
        t.Fatalf("load failed: %v", err)
    }
    if cfg.Address != ":9999" {
        t.Fatalf("expected :9999 got %s", cfg.Address)
    }
    if cfg.APIKey != "sk-test" {
        t.Fatalf("expected sk-test got %s", cfg.APIKey)
    }
    if cfg.Log.Level != "debug" {
        t.Fatalf("expected debug got %s", cfg.Log.Level)
    }
}

func TestLoadDefaults(t *testing.T) {
    cfg, err := Load()
    if err != nil {
        t.Fatalf("load failed: %v", err)
    }
    if cfg.Model != "deepseek-reasoner" {
        t.Fatalf("unexpected model %s", cfg.Model)
    }
    if cfg.MaxTokens != 4000 {
        t.Fatalf("unexpected max tokens %d", cfg.MaxTokens)
    }
    if cfg.FlushInterval() != 50*time.Millisecond {
        t.Fatalf("unexpected flush interval %s", cfg.FlushInterval())
    }
}

func TestLoadFile(t *testing.T) {
    path := filepath.Join(t.TempDir(), "analyst.yaml")
    data := "model: echo\nflush_interval_ms: 20\nlog:\n  format: json\n"
    if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
        t.Fatal(err)
    }

    cfg, err := LoadFile(path)
    if err != nil {
        t.Fatalf("load failed: %v", err)
    }
    if cfg.Model != "echo" {
        t.Fatalf("expected echo got %s", cfg.Model)
    }
    if cfg.FlushInterval() != 20*time.Millisecond {
        t.Fatalf("unexpected flush interval %s", cfg.FlushInterval())
    }
    if cfg.Log.Format != "json" {
        t.Fatalf("expected json got %s", cfg.Log.Format)
    }
}

func TestLoadFileMissing(t *testing.T) {
    if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
        t.Fatal("expected error for explicit missing file")
    }
}

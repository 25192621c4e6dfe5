package config

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("VIVADO_BIN", "")
	t.Setenv("SERVICE_NAME", "")

	cfg := LoadConfig()
	if cfg.LogLevel != "info" {
		t.Fatalf("got LogLevel %q, want info", cfg.LogLevel)
	}
	if cfg.ServiceName != "vdiff" {
		t.Fatalf("got ServiceName %q, want vdiff", cfg.ServiceName)
	}
	if cfg.VivadoBin == "" {
		t.Fatalf("expected a compiled-in default VivadoBin")
	}
	if cfg.DefaultTimeout.Minutes() != 10 {
		t.Fatalf("got DefaultTimeout %v, want 10m", cfg.DefaultTimeout)
	}
}

func TestLoadConfigRespectsEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("VIVADO_BIN", "/custom/vivado")
	t.Setenv("TOOL_TIMEOUT", "30s")

	cfg := LoadConfig()
	if cfg.LogLevel != "debug" {
		t.Fatalf("got LogLevel %q, want debug", cfg.LogLevel)
	}
	if cfg.VivadoBin != "/custom/vivado" {
		t.Fatalf("got VivadoBin %q", cfg.VivadoBin)
	}
	if cfg.DefaultTimeout.Seconds() != 30 {
		t.Fatalf("got DefaultTimeout %v, want 30s", cfg.DefaultTimeout)
	}
}

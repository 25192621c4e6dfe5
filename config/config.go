package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds everything that should survive outside a single
// invocation: tool binary paths, the optional outcome database, and the
// default log level. Per-run knobs (iteration count, seed, generator
// toggles) live in the CLI flag layer instead, since they vary every run.
type AppConfig struct {
	DatabaseURL    string
	ArtifactRoot   string
	LogLevel       string
	VivadoBin      string
	QuartusRoot    string
	QuartusProRoot string
	QuestaBin      string
	DefaultTimeout time.Duration
	ServiceName    string
}

// LoadConfig calls godotenv.Load() (ignoring a missing .env, same as the
// teacher) and fills AppConfig from the environment, applying defaults
// for anything unset. Nothing here is fatal: every field is optional,
// since the only required inputs to a run are CLI flags.
func LoadConfig() *AppConfig {
	godotenv.Load()

	cfg := &AppConfig{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		ArtifactRoot:   os.Getenv("ARTIFACT_ROOT"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
		VivadoBin:      os.Getenv("VIVADO_BIN"),
		QuartusRoot:    os.Getenv("QUARTUS_ROOT"),
		QuartusProRoot: os.Getenv("QUARTUS_PRO_ROOT"),
		QuestaBin:      os.Getenv("QUESTA_BIN"),
		DefaultTimeout: parseDuration(os.Getenv("TOOL_TIMEOUT"), 10*time.Minute),
		ServiceName:    os.Getenv("SERVICE_NAME"),
	}

	if cfg.ArtifactRoot == "" {
		cfg.ArtifactRoot = "artifacts"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.VivadoBin == "" {
		cfg.VivadoBin = "/opt/Xilinx/Vivado/2024.2/bin/vivado"
	}
	if cfg.QuartusRoot == "" {
		cfg.QuartusRoot = "/opt/intelFPGA/18.1/quartus"
	}
	if cfg.QuartusProRoot == "" {
		cfg.QuartusProRoot = "/opt/altera/18.1/quartus"
	}
	if cfg.QuestaBin == "" {
		cfg.QuestaBin = "vsim"
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "vdiff"
	}

	return cfg
}

func parseDuration(val string, defaultVal time.Duration) time.Duration {
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

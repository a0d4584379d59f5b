package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config is read from the process environment once at startup.
// main calls godotenv.Load() first, so a local .env works in dev.
type Config struct {
	Port        string
	DatabaseURL string

	FalKey     string
	FalBaseURL string

	ManimAPIURL string

	S3Bucket        string
	S3Region        string
	S3PublicBaseURL string

	XAPIURL     string
	XBearerToken string

	Wan WanConfig
}

// WanConfig describes the local video engine. Enabled is resolved here,
// not at import time: the engine is a deployment capability, some
// installs run without the model checkout entirely.
type WanConfig struct {
	Enabled   bool
	CkptDir   string
	Python    string
	Script    string
	OutputDir string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:            getenv("PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		FalKey:          os.Getenv("FAL_KEY"),
		FalBaseURL:      getenv("FAL_BASE_URL", "https://queue.fal.run"),
		ManimAPIURL:     os.Getenv("MANIM_API_URL"),
		S3Bucket:        os.Getenv("S3_BUCKET"),
		S3Region:        getenv("S3_REGION", "us-east-1"),
		S3PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
		XAPIURL:         getenv("X_API_URL", "https://api.x.com/2/tweets"),
		XBearerToken:    os.Getenv("X_BEARER_TOKEN"),
		Wan: WanConfig{
			CkptDir:   getenv("WAN_CKPT_DIR", "/opt/models/Wan2.1-VACE-1.3B"),
			Python:    getenv("WAN_PYTHON", "python3"),
			Script:    os.Getenv("WAN_SCRIPT"),
			OutputDir: getenv("WAN_OUTPUT_DIR", "wan_generated"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	if cfg.FalKey == "" {
		return nil, fmt.Errorf("FAL_KEY is not set")
	}

	if enabled, _ := strconv.ParseBool(os.Getenv("WAN_ENABLED")); enabled {
		cfg.Wan.Enabled = cfg.Wan.Script != ""
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// EnvPathVar points at an alternate .env file when none sits next to
	// the executable.
	EnvPathVar = "SCROLLSNAP_ENV"

	DefaultOutputDir      = "./captures"
	DefaultHTTPPort       = 8765
	DefaultMaxScrolls     = 3
	DefaultScrollPauseMS  = 2500
	DefaultExtractSec     = 90
	DefaultRegionFraction = 0.45
	DefaultCaptureHotkey  = "Alt+C"
	DefaultTypeHotkey     = "Alt+M"
)

type Config struct {
	// Capture
	OutputDir      string
	ScrollCapture  bool
	MaxScrolls     int
	ScrollPause    time.Duration
	RegionFraction float64

	// Extraction
	UseExtractor       bool
	AllowOCR           bool
	ExtractorCmd       []string
	ExtractDeadlineSec int
	APIKey             string
	Model              string
	Providers          []string

	// Replay
	TypeMode          bool
	AutoTypeOnCapture bool
	AutoAnswer        bool

	// Control surfaces
	EnableHTTP    bool
	HTTPPort      int
	CaptureHotkey string
	TypeHotkey    string

	EnableFileLogging bool
}

func Load() (*Config, error) {
	// Load the .env next to the executable first, then an explicit
	// override path. Process env always wins over file values.
	if envPath := resolveEnvPath(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	var providers []string
	if providersStr := os.Getenv("PROVIDERS"); providersStr != "" {
		for _, provider := range strings.Split(providersStr, ",") {
			if trimmed := strings.TrimSpace(provider); trimmed != "" {
				providers = append(providers, trimmed)
			}
		}
	}

	cfg := &Config{
		OutputDir:      getEnvWithDefault("OUTPUT_DIR", DefaultOutputDir),
		ScrollCapture:  getBool("SCROLL_CAPTURE", true),
		MaxScrolls:     getInt("MAX_SCROLLS", DefaultMaxScrolls),
		ScrollPause:    time.Duration(getInt("SCROLL_PAUSE_MS", DefaultScrollPauseMS)) * time.Millisecond,
		RegionFraction: getFloat("REGION_FRACTION", DefaultRegionFraction),

		UseExtractor:       getBool("USE_EXTRACTOR", true),
		AllowOCR:           getBool("ALLOW_OCR", false),
		ExtractorCmd:       strings.Fields(os.Getenv("EXTRACTOR_CMD")),
		ExtractDeadlineSec: getInt("EXTRACT_DEADLINE_SEC", DefaultExtractSec),
		APIKey:             os.Getenv("OPENROUTER_API_KEY"),
		Model:              os.Getenv("MODEL"),
		Providers:          providers,

		TypeMode:          getBool("TYPE_MODE", true),
		AutoTypeOnCapture: getBool("AUTO_TYPE_ON_CAPTURE", false),
		AutoAnswer:        getBool("AUTO_ANSWER", true),

		EnableHTTP:    getBool("ENABLE_HTTP", false),
		HTTPPort:      getInt("HTTP_PORT", DefaultHTTPPort),
		CaptureHotkey: getEnvWithDefault("CAPTURE_HOTKEY", DefaultCaptureHotkey),
		TypeHotkey:    getEnvWithDefault("TYPE_HOTKEY", DefaultTypeHotkey),

		EnableFileLogging: strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
	}

	if cfg.RegionFraction <= 0 || cfg.RegionFraction > 1 {
		cfg.RegionFraction = DefaultRegionFraction
	}

	return cfg, nil
}

// ExtractDeadline returns the extraction timeout as a duration.
func (c *Config) ExtractDeadline() time.Duration {
	sec := c.ExtractDeadlineSec
	if sec <= 0 {
		sec = DefaultExtractSec
	}
	return time.Duration(sec) * time.Second
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(EnvPathVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultValue
}

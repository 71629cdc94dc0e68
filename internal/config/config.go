package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/setanarut/skinbrief"
	"github.com/shouni/go-utils/envutil"
)

const (
	DefaultAddr         = ":8080"
	DefaultSessionTTL   = 30 * time.Minute
	DefaultAllowOrigins = "*"
	// DefaultUploadRate is the sustained uploads per second allowed per session.
	DefaultUploadRate  = 2.0
	DefaultUploadBurst = 4
)

// Config holds the settings of the HTTP service.
type Config struct {
	Addr         string
	Overlay      string // file path or http(s) URL; empty for the built-in overlay
	Filter       string
	PaletteSize  int
	SessionTTL   time.Duration
	AllowOrigins string
	UploadRate   float64
	UploadBurst  int
	Debug        bool
}

// LoadConfig reads SKINBRIEF_* environment variables, falling back to the
// defaults for anything missing or unparsable.
func LoadConfig() *Config {
	return &Config{
		Addr:         envutil.GetEnv("SKINBRIEF_ADDR", DefaultAddr),
		Overlay:      envutil.GetEnv("SKINBRIEF_OVERLAY", ""),
		Filter:       envutil.GetEnv("SKINBRIEF_FILTER", "nearest"),
		PaletteSize:  atoi(envutil.GetEnv("SKINBRIEF_PALETTE_SIZE", ""), skinbrief.DefaultPaletteSize),
		SessionTTL:   duration(envutil.GetEnv("SKINBRIEF_SESSION_TTL", ""), DefaultSessionTTL),
		AllowOrigins: envutil.GetEnv("SKINBRIEF_ALLOW_ORIGINS", DefaultAllowOrigins),
		UploadRate:   float(envutil.GetEnv("SKINBRIEF_UPLOAD_RATE", ""), DefaultUploadRate),
		UploadBurst:  atoi(envutil.GetEnv("SKINBRIEF_UPLOAD_BURST", ""), DefaultUploadBurst),
		Debug:        truthy(envutil.GetEnv("SKINBRIEF_DEBUG", "")),
	}
}

func atoi(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func float(s string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f <= 0 {
		return def
	}
	return f
}

func duration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func truthy(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}

package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// PortalConfig carries portal-specific settings on top of the shared
// platform config (service name, log level, HTTP addr).
type PortalConfig struct {
	JWTSecret        []byte
	AccessTokenTTL   time.Duration
	UploadDir        string
	Categories       []string
	VideoCacheTTLSec int
	BootstrapAdminID string
	FrontendOrigin   string
}

// defaultCategories is the fixed training catalogue taxonomy the portal
// launched with; override via VIDEO_CATEGORIES.
var defaultCategories = []string{"diecast", "kakou", "kumitate", "kaihatsu"}

func LoadPortal() (PortalConfig, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return PortalConfig{}, errors.New("JWT_SECRET is required")
	}

	cfg := PortalConfig{
		JWTSecret:        []byte(secret),
		AccessTokenTTL:   parseDurationWithDefault(os.Getenv("ACCESS_TOKEN_TTL"), 24*time.Hour),
		UploadDir:        strings.TrimSpace(os.Getenv("UPLOAD_DIR")),
		Categories:       parseCategories(os.Getenv("VIDEO_CATEGORIES")),
		VideoCacheTTLSec: parseIntWithDefault(os.Getenv("VIDEO_CACHE_TTL_SEC"), 60),
		BootstrapAdminID: strings.TrimSpace(os.Getenv("BOOTSTRAP_ADMIN_ID")),
		FrontendOrigin:   strings.TrimSpace(os.Getenv("FRONTEND_URL")),
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads"
	}
	return cfg, nil
}

func parseCategories(v string) []string {
	var out []string
	for _, c := range strings.Split(v, ",") {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return defaultCategories
	}
	return out
}

func parseDurationWithDefault(v string, def time.Duration) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func parseIntWithDefault(v string, def int) int {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

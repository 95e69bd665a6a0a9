package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Scoring variants.
const (
	VariantInvestment = "investment"
	VariantFixed      = "fixed"
)

type Config struct {
	Mode     Mode   `toml:"mode"`
	HTTPAddr string `toml:"http_addr"`

	DBDriver string `toml:"db_driver"`
	DBDSN    string `toml:"db_dsn"`

	BlobBasePath string `toml:"blob_base_path"` // reports archive root

	CORSOrigins []string `toml:"cors_origins"`

	AuthHMACSecret string `toml:"auth_hmac_secret"`
	AdminUser      string `toml:"admin_user"`
	AdminPassHash  string `toml:"admin_pass_hash"` // bcrypt

	// Remote-sensing reducer
	GeoBaseURL string        `toml:"geo_base_url"`
	GeoAPIKey  string        `toml:"geo_api_key"`
	GeoRPS     float64       `toml:"geo_rps"`
	GeoTimeout time.Duration `toml:"-"`

	PovertyModelPath string `toml:"poverty_model_path"`

	NewsSites   []string `toml:"news_sites"`
	EnergySites []string `toml:"energy_sites"`

	KafkaBrokers []string `toml:"kafka_brokers"`
	KafkaTopic   string   `toml:"kafka_topic"`

	BatchSchedule string `toml:"batch_schedule"`
	BatchOnStart  bool   `toml:"batch_on_start"`

	OTLPEndpoint string `toml:"otlp_endpoint"`
	LogLevel     string `toml:"log_level"`

	ScoringVariant string `toml:"scoring_variant"` // investment|fixed
}

func defaults() Config {
	return Config{
		Mode:          ModeOffline,
		HTTPAddr:      ":8080",
		DBDriver:      "sqlite",
		BlobBasePath:  "./data",
		CORSOrigins:   []string{"*"},
		AdminUser:     "admin",
		AdminPassHash: "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji",
		GeoRPS:        5,
		GeoTimeout:    30 * time.Second,
		NewsSites: []string{
			"https://www.mongabay.co.id",
			"https://www.greenpeace.org/indonesia",
			"https://www.walhi.or.id",
		},
		EnergySites: []string{
			"https://www.esdm.go.id",
			"https://www.iesr.or.id",
			"https://ebtke.esdm.go.id",
		},
		KafkaTopic:     "region-scores",
		BatchSchedule:  "@daily",
		LogLevel:       "info",
		ScoringVariant: VariantInvestment,
	}
}

// Load reads the optional TOML file named by CONFIG_FILE, then applies
// environment overrides.
func Load() (Config, error) {
	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg = overlayEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv is Load without a file or validation.
func FromEnv() Config {
	return overlayEnv(defaults())
}

func overlayEnv(c Config) Config {
	c.Mode = Mode(envOr("MODE", string(c.Mode)))
	c.HTTPAddr = envOr("HTTP_ADDR", c.HTTPAddr)
	c.DBDriver = envOr("DB_DRIVER", c.DBDriver)
	c.DBDSN = envOr("DB_DSN", c.DBDSN)
	c.BlobBasePath = envOr("BLOB_BASE_PATH", c.BlobBasePath)
	c.CORSOrigins = csvOr("CORS_ORIGINS", c.CORSOrigins)
	c.AuthHMACSecret = envOr("AUTH_HMAC_SECRET", c.AuthHMACSecret)
	c.AdminUser = envOr("ADMIN_USER", c.AdminUser)
	c.AdminPassHash = envOr("ADMIN_PASS_HASH", c.AdminPassHash)
	c.GeoBaseURL = envOr("GEO_BASE_URL", c.GeoBaseURL)
	c.GeoAPIKey = envOr("GEO_API_KEY", c.GeoAPIKey)
	c.GeoRPS = envFloat("GEO_RPS", c.GeoRPS)
	c.GeoTimeout = envDuration("GEO_TIMEOUT", c.GeoTimeout)
	c.PovertyModelPath = envOr("POVERTY_MODEL_PATH", c.PovertyModelPath)
	c.NewsSites = csvOr("NEWS_SITES", c.NewsSites)
	c.EnergySites = csvOr("ENERGY_SITES", c.EnergySites)
	c.KafkaBrokers = csvOr("KAFKA_BROKERS", c.KafkaBrokers)
	c.KafkaTopic = envOr("KAFKA_TOPIC", c.KafkaTopic)
	c.BatchSchedule = envOr("BATCH_SCHEDULE", c.BatchSchedule)
	c.BatchOnStart = envBool("BATCH_ON_START", c.BatchOnStart)
	c.OTLPEndpoint = envOr("OTEL_EXPORTER_OTLP_ENDPOINT", c.OTLPEndpoint)
	c.LogLevel = envOr("LOG_LEVEL", c.LogLevel)
	c.ScoringVariant = envOr("SCORING_VARIANT", c.ScoringVariant)
	return c
}

// Validate rejects settings the services cannot start with.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeOffline, ModeOnline:
	default:
		return fmt.Errorf("config: unknown mode %q", c.Mode)
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config: unsupported db driver %q", c.DBDriver)
	}
	switch c.ScoringVariant {
	case VariantInvestment, VariantFixed:
	default:
		return fmt.Errorf("config: unknown scoring variant %q", c.ScoringVariant)
	}
	if _, err := cron.ParseStandard(c.BatchSchedule); err != nil {
		return fmt.Errorf("config: batch schedule %q: %w", c.BatchSchedule, err)
	}
	if c.AuthHMACSecret == "" {
		return fmt.Errorf("config: AUTH_HMAC_SECRET must be set")
	}
	if c.GeoRPS <= 0 {
		return fmt.Errorf("config: GEO_RPS must be positive")
	}
	return nil
}

// Online reports whether remote collaborators should be contacted.
func (c Config) Online() bool { return c.Mode == ModeOnline }

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envFloat(k string, def float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(k), 64)
	if err != nil {
		return def
	}
	return v
}
func envDuration(k string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(k))
	if err != nil {
		return def
	}
	return v
}
func csvOr(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

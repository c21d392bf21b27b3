package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store types
const (
	StoreBadger   = "badger"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type Config struct {
	Port          int
	StoreType     string
	DatabaseURL   string
	DataDir       string
	AdminKeySalt  string
	UserTokenSalt string
	CloseInterval time.Duration
	RateLimit     float64
	RateBurst     int
	CORSOrigins   []string
	SongGenre     string
}

// ParseFlags validates flags and fills unset values from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var origins string

	fs := flag.NewFlagSet("crowd-band", flag.ContinueOnError)

	// Network and storage config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.StoreType, "t", "", "Store type (badger, postgres or sqlite)")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL (postgres DSN or sqlite file)")
	fs.StringVar(&cfg.DataDir, "data-dir", "", "Badger data directory")

	// Contest behavior
	fs.DurationVar(&cfg.CloseInterval, "close-interval", 0, "How often to check for expired cycles")
	fs.Float64Var(&cfg.RateLimit, "rate-limit", 0, "Submit/vote requests per second per client")
	fs.IntVar(&cfg.RateBurst, "rate-burst", 0, "Submit/vote burst per client")
	fs.StringVar(&origins, "cors-origins", "", "Comma-separated allowed CORS origins")
	fs.StringVar(&cfg.SongGenre, "genre", "", "Genre label for assembled songs")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")
	fs.StringVar(&cfg.UserTokenSalt, "user-salt", "", "User token salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	if cfg.StoreType == "" {
		cfg.StoreType = envOr("STORE_TYPE", StoreBadger)
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DataDir == "" {
		cfg.DataDir = envOr("DATA_DIR", "./data")
	}

	switch cfg.StoreType {
	case StoreBadger:
	case StorePostgres, StoreSQLite:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
	default:
		return Config{}, fmt.Errorf("unknown store type %q", cfg.StoreType)
	}

	if cfg.CloseInterval == 0 {
		d, err := envDuration("CLOSE_INTERVAL", 30*time.Second)
		if err != nil {
			return Config{}, err
		}
		cfg.CloseInterval = d
	}

	if cfg.RateLimit == 0 {
		if s := os.Getenv("RATE_LIMIT"); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return Config{}, errors.New("invalid RATE_LIMIT env variable")
			}
			cfg.RateLimit = v
		} else {
			cfg.RateLimit = 5
		}
	}
	if cfg.RateBurst == 0 {
		if s := os.Getenv("RATE_BURST"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				return Config{}, errors.New("invalid RATE_BURST env variable")
			}
			cfg.RateBurst = v
		} else {
			cfg.RateBurst = 10
		}
	}

	if origins == "" {
		origins = envOr("CORS_ORIGINS", "*")
	}
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	if cfg.SongGenre == "" {
		cfg.SongGenre = envOr("SONG_GENRE", "Lofi Hip Hop")
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	if cfg.UserTokenSalt == "" {
		cfg.UserTokenSalt = os.Getenv("USER_TOKEN_SALT")
	}
	if cfg.UserTokenSalt == "" {
		return Config{}, errors.New("USER_TOKEN_SALT required")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable: %w", key, err)
	}
	return d, nil
}

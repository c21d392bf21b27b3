// cliparse/cliparse_test.go
package cliparse

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	for _, k := range []string{"PORT", "STORE_TYPE", "DATABASE_URL", "DATA_DIR", "CLOSE_INTERVAL", "RATE_LIMIT", "RATE_BURST", "CORS_ORIGINS", "SONG_GENRE"} {
		t.Setenv(k, "")
	}
	t.Setenv("ADMIN_KEY_SALT", "test-salt")
	t.Setenv("USER_TOKEN_SALT", "test-user-salt")
}

func TestParseFlags_EnvVars(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_TYPE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("CLOSE_INTERVAL", "1m")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://band.example")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.StoreType != StorePostgres {
		t.Errorf("expected store type postgres, got %s", cfg.StoreType)
	}
	if cfg.CloseInterval != time.Minute {
		t.Errorf("expected close interval 1m, got %s", cfg.CloseInterval)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://band.example" {
		t.Errorf("unexpected CORS origins %v", cfg.CORSOrigins)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.StoreType != StoreBadger || cfg.DataDir != "./data" {
		t.Errorf("expected badger at ./data, got %s at %s", cfg.StoreType, cfg.DataDir)
	}
	if cfg.CloseInterval != 30*time.Second {
		t.Errorf("expected close interval 30s, got %s", cfg.CloseInterval)
	}
	if cfg.RateLimit != 5 || cfg.RateBurst != 10 {
		t.Errorf("expected rate 5 burst 10, got %v %d", cfg.RateLimit, cfg.RateBurst)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("expected wildcard CORS, got %v", cfg.CORSOrigins)
	}
	if cfg.SongGenre != "Lofi Hip Hop" {
		t.Errorf("expected default genre, got %s", cfg.SongGenre)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8080", "-t", "sqlite", "-d", "file:test.db", "-admin-salt", "s1", "-user-salt", "s2"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.StoreType != StoreSQLite {
		t.Errorf("expected sqlite, got %s", cfg.StoreType)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing admin salt", map[string]string{"USER_TOKEN_SALT": "u"}, nil},
		{"missing user salt", map[string]string{"ADMIN_KEY_SALT": "a"}, nil},
		{"postgres without url", map[string]string{"ADMIN_KEY_SALT": "a", "USER_TOKEN_SALT": "u"}, []string{"-t", "postgres"}},
		{"unknown store", map[string]string{"ADMIN_KEY_SALT": "a", "USER_TOKEN_SALT": "u"}, []string{"-t", "redis"}},
		{"bad port", map[string]string{"ADMIN_KEY_SALT": "a", "USER_TOKEN_SALT": "u", "PORT": "abc"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"ADMIN_KEY_SALT", "USER_TOKEN_SALT", "PORT", "STORE_TYPE", "DATABASE_URL"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultDuration = 60
	DefaultLang     = "en"
	DefaultTokenTTL = 7 * 24 * time.Hour
	DefaultLogLevel = "info"
)

// Settings is the resolved configuration: environment over file over defaults.
// CLI flags are applied on top by the caller.
type Settings struct {
	Duration   int
	Wordlist   string
	Lang       string
	DBPath     string
	JWTSecret  string
	SecretPath string
	TokenPath  string
	TokenTTL   time.Duration
	LogLevel   string
	LogPath    string
}

// Load reads the dotenv file (if any), the TOML file, and the environment.
func Load(configPath, envPath string) (Settings, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
			return Settings{}, fmt.Errorf("failed to load %s: %w", envPath, err)
		}
	}
	file, err := LoadConfig(configPath)
	if err != nil {
		return Settings{}, err
	}
	return Resolve(file, os.LookupEnv)
}

// Resolve merges file values and environment lookups over the defaults.
func Resolve(file FileConfig, lookup func(string) (string, bool)) (Settings, error) {
	s := Settings{
		Duration:   DefaultDuration,
		Lang:       DefaultLang,
		DBPath:     DefaultDBPath(),
		SecretPath: DefaultSecretPath(),
		TokenPath:  DefaultTokenPath(),
		TokenTTL:   DefaultTokenTTL,
		LogLevel:   DefaultLogLevel,
		LogPath:    DefaultLogPath(),
	}
	setString(&s.Wordlist, file.Test.Wordlist)
	setString(&s.Lang, file.Test.Lang)
	setString(&s.JWTSecret, file.Auth.Secret)
	setString(&s.LogLevel, file.Log.Level)
	setString(&s.LogPath, file.Log.Path)
	if file.Test.Duration != nil {
		s.Duration = *file.Test.Duration
	}
	if file.Auth.TokenTTL != nil {
		ttl, err := time.ParseDuration(*file.Auth.TokenTTL)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid auth.token-ttl: %w", err)
		}
		s.TokenTTL = ttl
	}

	if v, ok := lookupNonEmpty(lookup, "TEJAS_DURATION"); ok {
		d, err := strconv.Atoi(v)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid TEJAS_DURATION %q: %w", v, err)
		}
		s.Duration = d
	}
	if v, ok := lookupNonEmpty(lookup, "TEJAS_TOKEN_TTL"); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid TEJAS_TOKEN_TTL %q: %w", v, err)
		}
		s.TokenTTL = ttl
	}
	envString(lookup, "TEJAS_WORDLIST", &s.Wordlist)
	envString(lookup, "TEJAS_LANG", &s.Lang)
	envString(lookup, "TEJAS_DB_PATH", &s.DBPath)
	envString(lookup, "TEJAS_JWT_SECRET", &s.JWTSecret)
	envString(lookup, "TEJAS_LOG_LEVEL", &s.LogLevel)
	envString(lookup, "TEJAS_LOG_PATH", &s.LogPath)

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks resolved values.
func (s Settings) Validate() error {
	if s.Duration <= 0 {
		return fmt.Errorf("duration must be > 0")
	}
	if s.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be > 0")
	}
	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", s.LogLevel)
	}
	return nil
}

func setString(target, value *string) {
	if value == nil {
		return
	}
	*target = *value
}

func envString(lookup func(string) (string, bool), key string, target *string) {
	if v, ok := lookupNonEmpty(lookup, key); ok {
		*target = v
	}
}

func lookupNonEmpty(lookup func(string) (string, bool), key string) (string, bool) {
	v, ok := lookup(key)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

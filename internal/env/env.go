package env

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config is the process configuration read from the environment.
type Config struct {
	Deployment string
	Version    string

	MongoURI         string
	MongoDatabase    string
	MongoCollection  string
	EventsCollection string
	StoreDriver      string

	RedisAddr string
	RedisDB   int
	CacheTTL  time.Duration

	GitHubWebhookSecret string
	GitHubOAuthToken    string
	GitHubRequester     string

	LogLevel  string
	LogFormat string

	Prefork bool
}

// Load reads <envRoot>/.env over the process environment and builds a Config.
// A missing .env file is not an error; a malformed one is.
func Load(deployment string, envRoot string, appVersion string) (Config, error) {
	if err := loadEnv(envRoot); err != nil {
		return Config{}, err
	}

	version, err := loadVersion(appVersion)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Deployment: strings.TrimSpace(deployment),
		Version:    version,

		MongoURI:         strings.TrimSpace(first("MONGO_URI", "MONGODB_URI")),
		MongoDatabase:    get("MONGO_DATABASE", "githubDB"),
		MongoCollection:  get("MONGO_COLLECTION", "commBotCommits"),
		EventsCollection: get("EVENTS_COLLECTION", "events"),
		StoreDriver:      strings.ToLower(get("STORE_DRIVER", StoreMongo)),

		RedisAddr: strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisDB:   getInt("REDIS_DB", 0),
		CacheTTL:  getDuration("CACHE_TTL", 5*time.Minute),

		GitHubWebhookSecret: strings.TrimSpace(first("GITHUB_WEBHOOK_SECRET", "GH_SECRET")),
		GitHubOAuthToken:    strings.TrimSpace(first("GITHUB_OAUTH_TOKEN", "GH_AUTH")),
		GitHubRequester:     get("GITHUB_REQUESTER", "commitbot"),

		LogLevel:  strings.ToLower(get("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(get("LOG_FORMAT", "json")),
	}

	cfg.Prefork, _ = strconv.ParseBool(os.Getenv("PREFORK"))

	switch cfg.StoreDriver {
	case StoreMongo:
		if cfg.MongoURI == "" {
			return Config{}, errors.New("MONGO_URI is required when STORE_DRIVER=mongo")
		}
	case StoreMemory:
	default:
		return Config{}, errors.New("STORE_DRIVER must be mongo or memory")
	}

	return cfg, nil
}

func loadEnv(envRoot string) error {
	if envRoot == "" {
		envRoot = repoRoot()
	}

	path := path.Join(envRoot, ".env")
	if err := godotenv.Overload(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

func loadVersion(appVersion string) (string, error) {
	if appVersion != "" {
		return appVersion, nil
	}

	data, err := os.ReadFile(filepath.Join(repoRoot(), "VERSION"))
	if errors.Is(err, fs.ErrNotExist) {
		return "unknown", nil
	}
	if err != nil {
		return "", err
	}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return "unknown", nil
	}
	return trimmed, nil
}

func get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// first returns the first non-empty variable among keys.
func first(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func repoRoot() string {
	_, b, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(b), "../..")
}

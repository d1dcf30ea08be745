package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("MONGO_DATABASE", "")
	t.Setenv("MONGO_COLLECTION", "")
	t.Setenv("CACHE_TTL", "")

	cfg, err := Load("test", t.TempDir(), "9.9.9")
	require.NoError(t, err)

	require.Equal(t, "test", cfg.Deployment)
	require.Equal(t, "9.9.9", cfg.Version)
	require.Equal(t, "githubDB", cfg.MongoDatabase)
	require.Equal(t, "commBotCommits", cfg.MongoCollection)
	require.Equal(t, StoreMemory, cfg.StoreDriver)
	require.Equal(t, 5*time.Minute, cfg.CacheTTL)
}

func TestLoadReadsDotEnv(t *testing.T) {
	root := t.TempDir()
	content := "STORE_DRIVER=memory\nGH_SECRET=from-file\nCACHE_TTL=30s\nREDIS_DB=3\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte(content), 0o600))

	t.Setenv("GITHUB_WEBHOOK_SECRET", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("GH_SECRET", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("REDIS_DB", "")

	cfg, err := Load("dev", root, "1.0.0")
	require.NoError(t, err)

	require.Equal(t, "from-file", cfg.GitHubWebhookSecret)
	require.Equal(t, 30*time.Second, cfg.CacheTTL)
	require.Equal(t, 3, cfg.RedisDB)
}

func TestLoadRequiresMongoURI(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("MONGO_URI", "")
	t.Setenv("MONGODB_URI", "")

	_, err := Load("prod", t.TempDir(), "1.0.0")
	require.Error(t, err)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")

	_, err := Load("prod", t.TempDir(), "1.0.0")
	require.Error(t, err)
}

func TestLoadAcceptsMongoDBURI(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("MONGO_URI", "")
	t.Setenv("MONGODB_URI", "mongodb://legacy:27017")

	cfg, err := Load("prod", t.TempDir(), "1.0.0")
	require.NoError(t, err)
	require.Equal(t, "mongodb://legacy:27017", cfg.MongoURI)
}

func TestLoadPrefersMongoURI(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("MONGO_URI", "mongodb://primary:27017")
	t.Setenv("MONGODB_URI", "mongodb://legacy:27017")

	cfg, err := Load("prod", t.TempDir(), "1.0.0")
	require.NoError(t, err)
	require.Equal(t, "mongodb://primary:27017", cfg.MongoURI)
}

package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "itens.json", cfg.ItemsPath)
	assert.Equal(t, "main", cfg.GitHub.Branch)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.GitHub.Enabled())
	assert.False(t, cfg.CommitRelay.Enabled())
	assert.False(t, cfg.Webhook.Enabled())
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 8080
items_path: /data/itens.json
webhook:
  url: https://hooks.example.com/file
github:
  owner: ana
  repo: casamento
  token: from-file
infra:
  kafka:
    brokers: ["k1:9092"]
`), 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9090")
	t.Setenv("WEBHOOK_URL", "https://hooks.example.com/env")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("HTTP_CLIENT_TIMEOUT", "3s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/data/itens.json", cfg.ItemsPath)
	assert.Equal(t, "https://hooks.example.com/env", cfg.Webhook.URL)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Infra.Kafka.Brokers)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.GitHub.Enabled())
	assert.Equal(t, "main", cfg.GitHub.Branch, "defaults survive a partial file")
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	t.Setenv("PORT", "http")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("PORT", "")
	t.Setenv("HTTP_CLIENT_TIMEOUT", "ten seconds")
	_, err = LoadConfig()
	assert.Error(t, err)

	t.Setenv("HTTP_CLIENT_TIMEOUT", "")
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestGitHubConfig_Enabled(t *testing.T) {
	assert.False(t, GitHubConfig{Owner: "a", Repo: "b"}.Enabled())
	assert.False(t, GitHubConfig{Owner: "a", Token: "t"}.Enabled())
	assert.True(t, GitHubConfig{Owner: "a", Repo: "b", Token: "t"}.Enabled())
}

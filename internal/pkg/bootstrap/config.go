// internal/pkg/bootstrap/config.go
package bootstrap

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the process-wide configuration. It is resolved once at startup
// and passed down; nothing reads the environment after LoadConfig returns.
type Config struct {
	ServiceName string        `yaml:"service_name"`
	Port        int           `yaml:"port"`
	ItemsPath   string        `yaml:"items_path"`
	StaticDir   string        `yaml:"static_dir"`
	LogLevel    string        `yaml:"log_level"`
	HTTPTimeout time.Duration `yaml:"http_client_timeout"`

	Webhook     WebhookConfig     `yaml:"webhook"`
	CommitRelay CommitRelayConfig `yaml:"commit_relay"`
	GitHub      GitHubConfig      `yaml:"github"`
	Infra       InfraConfig       `yaml:"infra"`
}

// WebhookConfig is the reservation webhook that gates guest reservations.
type WebhookConfig struct {
	URL string `yaml:"url"`
}

func (c WebhookConfig) Enabled() bool { return c.URL != "" }

// CommitRelayConfig is the trusted service that commits on our behalf.
type CommitRelayConfig struct {
	URL    string `yaml:"url"`
	Secret string `yaml:"secret"`
}

func (c CommitRelayConfig) Enabled() bool { return c.URL != "" }

// GitHubConfig locates the item list inside a GitHub repository.
type GitHubConfig struct {
	Owner  string `yaml:"owner"`
	Repo   string `yaml:"repo"`
	Branch string `yaml:"branch"`
	Path   string `yaml:"path"`
	Token  string `yaml:"token"`
	APIURL string `yaml:"api_url"`
}

// Enabled requires the repository coordinates and a token.
func (c GitHubConfig) Enabled() bool {
	return c.Owner != "" && c.Repo != "" && c.Token != ""
}

type InfraConfig struct {
	Jaeger struct {
		Endpoint string `yaml:"endpoint"`
	} `yaml:"jaeger"`
	Kafka struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"kafka"`
	Nacos struct {
		ServerAddrs string `yaml:"server_addrs"`
		Namespace   string `yaml:"namespace"`
		Group       string `yaml:"group"`
	} `yaml:"nacos"`
}

// DefaultConfig is the local-only setup: port 3000, itens.json next to the
// binary, no external tier.
func DefaultConfig() *Config {
	cfg := &Config{
		ServiceName: "registry-service",
		Port:        3000,
		ItemsPath:   "itens.json",
		LogLevel:    "info",
		HTTPTimeout: 10 * time.Second,
	}
	cfg.GitHub.Branch = "main"
	cfg.GitHub.Path = "itens.json"
	cfg.Infra.Kafka.Topic = "registry-reservations"
	cfg.Infra.Nacos.Group = "DEFAULT_GROUP"
	return cfg
}

// LoadConfig builds the configuration from defaults, then the YAML file
// named by CONFIG_FILE (if any), then environment variables.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	if path := getEnv("CONFIG_FILE", ""); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config file %s", path)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := getEnv("PORT", ""); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return errors.Errorf("invalid PORT %q", v)
		}
		c.Port = port
	}
	if v := getEnv("HTTP_CLIENT_TIMEOUT", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "invalid HTTP_CLIENT_TIMEOUT %q", v)
		}
		c.HTTPTimeout = d
	}

	c.ItemsPath = getEnv("ITEMS_PATH", c.ItemsPath)
	c.StaticDir = getEnv("STATIC_DIR", c.StaticDir)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.Webhook.URL = getEnv("WEBHOOK_URL", c.Webhook.URL)
	c.CommitRelay.URL = getEnv("COMMIT_RELAY_URL", c.CommitRelay.URL)
	c.CommitRelay.Secret = getEnv("COMMIT_RELAY_SECRET", c.CommitRelay.Secret)

	c.GitHub.Owner = getEnv("GITHUB_OWNER", c.GitHub.Owner)
	c.GitHub.Repo = getEnv("GITHUB_REPO", c.GitHub.Repo)
	c.GitHub.Branch = getEnv("GITHUB_BRANCH", c.GitHub.Branch)
	c.GitHub.Path = getEnv("GITHUB_PATH", c.GitHub.Path)
	c.GitHub.Token = getEnv("GITHUB_TOKEN", c.GitHub.Token)
	c.GitHub.APIURL = getEnv("GITHUB_API_URL", c.GitHub.APIURL)

	c.Infra.Jaeger.Endpoint = getEnv("JAEGER_ENDPOINT", c.Infra.Jaeger.Endpoint)
	if v := getEnv("KAFKA_BROKERS", ""); v != "" {
		c.Infra.Kafka.Brokers = splitList(v)
	}
	c.Infra.Kafka.Topic = getEnv("KAFKA_TOPIC", c.Infra.Kafka.Topic)
	c.Infra.Nacos.ServerAddrs = getEnv("NACOS_SERVER_ADDRS", c.Infra.Nacos.ServerAddrs)
	c.Infra.Nacos.Namespace = getEnv("NACOS_NAMESPACE", c.Infra.Nacos.Namespace)
	c.Infra.Nacos.Group = getEnv("NACOS_GROUP", c.Infra.Nacos.Group)
	return nil
}

// getEnv reads key from the environment; unset or blank yields fallback.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

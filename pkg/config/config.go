package config

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	defaultAddress       = "127.0.0.1"
	defaultPort          = 8080
	defaultChatDir       = "./chatfiles"
	defaultMaxMsgBytes   = 2000
	defaultHistoryWindow = 10
	defaultDeployment    = "chatterbox-gpt35"
	defaultAPIVersion    = "2024-02-15-preview"
	defaultRetentionCron = "0 2 * * *"
)

// Default returns a config populated with built-in defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Address: defaultAddress, Port: defaultPort},
		Chat: ChatConfig{
			Dir:             defaultChatDir,
			MaxMessageBytes: SizeBytes(defaultMaxMsgBytes),
			HistoryWindow:   defaultHistoryWindow,
		},
		OpenAI:    OpenAIConfig{Deployment: defaultDeployment, APIVersion: defaultAPIVersion},
		Logging:   LoggingConfig{Level: "info"},
		Retention: RetentionConfig{Cron: defaultRetentionCron},
	}
}

// Load reads the YAML config at path (if path is non-empty and the file
// exists), then overlays environment variables. Missing file with an empty
// path is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if cfg.Chat.HistoryWindow <= 0 {
		cfg.Chat.HistoryWindow = defaultHistoryWindow
	}
	if cfg.Chat.MaxMessageBytes <= 0 {
		cfg.Chat.MaxMessageBytes = SizeBytes(defaultMaxMsgBytes)
	}
	return cfg, nil
}

// applyEnv overlays CHATTERBOX_* env vars on top of file/default values.
func (c *Config) applyEnv() {
	if v := os.Getenv("CHATTERBOX_ADDR"); v != "" {
		c.Server.Address = v
	}
	if v := os.Getenv("CHATTERBOX_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("CHATTERBOX_CHAT_DIR"); v != "" {
		c.Chat.Dir = v
	}
	if v := os.Getenv("CHATTERBOX_OPENAI_ENDPOINT"); v != "" {
		c.OpenAI.Endpoint = v
	}
	if v := os.Getenv("CHATTERBOX_OPENAI_DEPLOYMENT"); v != "" {
		c.OpenAI.Deployment = v
	}
	if v := os.Getenv("CHATTERBOX_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// SplitAddr parses a host:port string into its parts.
func SplitAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port %q", portStr)
	}
	return host, port, nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// APIKey reads the completion credential from the environment. An empty
// value means the completion client is unconfigured.
func APIKey() string { return os.Getenv("OPENAIKEY") }

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const telegramEnabledYAML = `environment: test
redis:
  addr: localhost:6379
telegram:
  enabled: true
`

func TestLoadWithEnvAppliesSecretsBeforeValidation(t *testing.T) {
	path := writeConfig(t, telegramEnabledYAML)
	t.Setenv("TG_BOT_TOKEN", "123:token")
	t.Setenv("TG_CHAT_ID", "-100")

	cfg, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("LoadWithEnv: %v", err)
	}
	if cfg.Telegram.BotToken != "123:token" || cfg.Telegram.ChatID != "-100" {
		t.Fatalf("env overrides not applied: %q %q", cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	}
}

func TestLoadWithEnvStillValidates(t *testing.T) {
	path := writeConfig(t, telegramEnabledYAML)
	t.Setenv("TG_BOT_TOKEN", "")
	t.Setenv("TG_CHAT_ID", "")

	if _, err := LoadWithEnv(path); err == nil {
		t.Fatal("expected validation error when telegram secrets are missing")
	}
}

func TestLoadRejectsMissingTelegramSecrets(t *testing.T) {
	path := writeConfig(t, telegramEnabledYAML)

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error from Load without env overrides")
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "environment: test\nredis:\n  addr: localhost:6379\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Fatalf("default port: got %d", cfg.Server.Port)
	}
	if cfg.Market.Timeframe != "1h" || cfg.Market.KlineLimit != 400 {
		t.Fatalf("market defaults: %q %d", cfg.Market.Timeframe, cfg.Market.KlineLimit)
	}
	if cfg.Redis.KeyPrefix != "alerthub" {
		t.Fatalf("key prefix default: %q", cfg.Redis.KeyPrefix)
	}
}

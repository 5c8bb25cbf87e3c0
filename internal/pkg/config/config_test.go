package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fullYAML — конфигурация со всеми заданными полями.
const fullYAML = `
telegram:
  api_id: 12345
  api_hash: "hash"
  token: "111:token"
  session_file: "report.session"
  chats:
    resident_owned:
      - id: -1000000000123
        internal: true
      - id: -456
        internal: false
database:
  path: "bot.sqlite3"
report:
  fail_fast: true
  fetch_timeout_seconds: 30
  interval_minutes: 60
logging:
  level: "debug"
  format: "json"
`

// minimalYAML — только обязательные поля, остальное закрывают значения по умолчанию.
const minimalYAML = `
telegram:
  token: "111:token"
  chats:
    resident_owned:
      - id: -1000000000123
        internal: true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("полная конфигурация загружается корректно", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, fullYAML))
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())

		assert.Equal(t, 12345, cfg.Telegram.APIID)
		assert.Equal(t, "hash", cfg.Telegram.APIHash)
		assert.Equal(t, "111:token", cfg.Telegram.Token)
		assert.Equal(t, "report.session", cfg.Telegram.SessionFile)
		require.Len(t, cfg.Telegram.Chats.ResidentOwned, 2)
		assert.Equal(t, int64(-1000000000123), cfg.Telegram.Chats.ResidentOwned[0].ID)
		assert.True(t, cfg.Telegram.Chats.ResidentOwned[0].Internal)
		assert.False(t, cfg.Telegram.Chats.ResidentOwned[1].Internal)
		assert.Equal(t, "bot.sqlite3", cfg.Database.Path)
		assert.True(t, cfg.Report.FailFast)
		assert.Equal(t, 30*time.Second, cfg.FetchTimeout())
		assert.Equal(t, time.Hour, cfg.Interval())
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "json", cfg.Logging.Format)
	})

	t.Run("минимальная конфигурация получает значения по умолчанию", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, minimalYAML))
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())

		assert.Equal(t, DefaultAPIID, cfg.Telegram.APIID)
		assert.Equal(t, DefaultAPIHash, cfg.Telegram.APIHash)
		assert.Equal(t, DefaultSessionFile, cfg.Telegram.SessionFile)
		assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
		assert.False(t, cfg.Report.FailFast)
		assert.Equal(t, time.Duration(DefaultFetchTimeoutSeconds)*time.Second, cfg.FetchTimeout())
		assert.Equal(t, time.Duration(0), cfg.Interval())
		assert.Equal(t, DefaultLogLevel, cfg.Logging.Level)
		assert.Equal(t, DefaultLogFormat, cfg.Logging.Format)
	})

	t.Run("токен из окружения имеет приоритет", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "222:env-token")

		cfg, err := LoadConfig(writeConfig(t, fullYAML))
		require.NoError(t, err)

		assert.Equal(t, "222:env-token", cfg.Telegram.Token)
	})

	t.Run("несуществующий файл является ошибкой", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
		require.Error(t, err)
	})

	t.Run("некорректный YAML является ошибкой", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "telegram: [not a map"))
		require.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func(t *testing.T) *Config {
		cfg, err := LoadConfig(writeConfig(t, fullYAML))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(cfg *Config)
	}{
		{"пустой токен", func(cfg *Config) { cfg.Telegram.Token = "" }},
		{"пустой api_hash", func(cfg *Config) { cfg.Telegram.APIHash = "" }},
		{"отрицательный api_id", func(cfg *Config) { cfg.Telegram.APIID = -1 }},
		{"пустой список чатов", func(cfg *Config) { cfg.Telegram.Chats.ResidentOwned = nil }},
		{"нулевой id чата", func(cfg *Config) { cfg.Telegram.Chats.ResidentOwned[0].ID = 0 }},
		{"пустой путь к базе", func(cfg *Config) { cfg.Database.Path = "" }},
		{"отрицательный таймаут", func(cfg *Config) { cfg.Report.FetchTimeoutSeconds = -1 }},
		{"отрицательный интервал", func(cfg *Config) { cfg.Report.IntervalMinutes = -1 }},
		{"daemonize без интервала", func(cfg *Config) {
			cfg.Report.Daemonize = true
			cfg.Report.IntervalMinutes = 0
		}},
		{"неизвестный уровень логирования", func(cfg *Config) { cfg.Logging.Level = "trace" }},
		{"неизвестный формат логирования", func(cfg *Config) { cfg.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid(t)
			require.NoError(t, cfg.Validate())

			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

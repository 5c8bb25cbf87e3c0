// Package config предоставляет управление конфигурацией приложения
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"residents-admin-table/internal/domain"
)

// Telegram содержит конфигурацию Telegram API
type Telegram struct {
	APIID       int    `json:"api_id" yaml:"api_id"`
	APIHash     string `json:"api_hash" yaml:"api_hash"`
	Token       string `json:"token" yaml:"token"`
	SessionFile string `json:"session_file" yaml:"session_file"`
	Chats       Chats  `json:"chats" yaml:"chats"`
}

// Chats содержит списки отслеживаемых чатов
type Chats struct {
	ResidentOwned []domain.WatchingChat `json:"resident_owned" yaml:"resident_owned"`
}

// Database содержит конфигурацию базы резидентов
type Database struct {
	Path string `json:"path" yaml:"path"`
}

// Report содержит конфигурацию сборки отчета
type Report struct {
	// FailFast прерывает запуск при первой ошибке обхода чата.
	// Иначе ошибка логируется, а колонка чата остается пустой.
	FailFast bool `json:"fail_fast" yaml:"fail_fast"`
	// FetchTimeoutSeconds — таймаут обхода одного чата. 0 - без ограничений.
	FetchTimeoutSeconds int `json:"fetch_timeout_seconds" yaml:"fetch_timeout_seconds"`
	// IntervalMinutes — период перегенерации отчета. 0 - один запуск.
	IntervalMinutes int `json:"interval_minutes" yaml:"interval_minutes"`
	// Daemonize отсоединяет процесс от терминала (только вместе с IntervalMinutes).
	Daemonize bool   `json:"daemonize" yaml:"daemonize"`
	PidFile   string `json:"pid_file" yaml:"pid_file"`
	LogFile   string `json:"log_file" yaml:"log_file"`
}

// Logging содержит конфигурацию логирования
type Logging struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // text, json
}

// Config содержит конфигурацию приложения
type Config struct {
	Telegram Telegram `json:"telegram" yaml:"telegram"`
	Database Database `json:"database" yaml:"database"`
	Report   Report   `json:"report" yaml:"report"`
	Logging  Logging  `json:"logging" yaml:"logging"`
}

// FetchTimeout возвращает таймаут обхода одного чата.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Report.FetchTimeoutSeconds) * time.Second
}

// Interval возвращает период перегенерации отчета.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Report.IntervalMinutes) * time.Minute
}

// LoadConfig загружает конфигурацию приложения из YAML-файла по указанному пути.
// Секреты могут быть переопределены переменными окружения (включая .env файл).
func LoadConfig(path string) (*Config, error) {
	// Загрузка переменных окружения из .env файла, если он существует
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать файл конфигурации %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("не удалось разобрать YAML конфигурацию: %w", err)
	}

	// Токен из окружения имеет приоритет над файлом.
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.Telegram.Token = token
	}
	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults заполняет не заданные в файле поля значениями по умолчанию.
func (c *Config) applyDefaults() {
	if c.Telegram.APIID == 0 {
		c.Telegram.APIID = DefaultAPIID
	}
	if c.Telegram.APIHash == "" {
		c.Telegram.APIHash = DefaultAPIHash
	}
	if c.Telegram.SessionFile == "" {
		c.Telegram.SessionFile = DefaultSessionFile
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath
	}
	if c.Report.FetchTimeoutSeconds == 0 {
		c.Report.FetchTimeoutSeconds = DefaultFetchTimeoutSeconds
	}
	if c.Report.PidFile == "" {
		c.Report.PidFile = DefaultPidFile
	}
	if c.Report.LogFile == "" {
		c.Report.LogFile = DefaultLogFile
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
}

// Validate проверяет, являются ли значения конфигурации допустимыми
func (c *Config) Validate() error {
	if c.Telegram.APIID <= 0 {
		return fmt.Errorf("telegram.api_id должно быть положительным целым числом")
	}
	if c.Telegram.APIHash == "" {
		return fmt.Errorf("telegram.api_hash не может быть пустым")
	}
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram.token не может быть пустым (или задайте TELEGRAM_BOT_TOKEN)")
	}
	if len(c.Telegram.Chats.ResidentOwned) == 0 {
		return fmt.Errorf("telegram.chats.resident_owned не может быть пустым")
	}
	for i, wc := range c.Telegram.Chats.ResidentOwned {
		if wc.ID == 0 {
			return fmt.Errorf("telegram.chats.resident_owned[%d].id не может быть нулевым", i)
		}
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path не может быть пустым")
	}

	if c.Report.FetchTimeoutSeconds < 0 {
		return fmt.Errorf("report.fetch_timeout_seconds должно быть неотрицательным (0 для отсутствия ограничений)")
	}
	if c.Report.IntervalMinutes < 0 {
		return fmt.Errorf("report.interval_minutes должно быть неотрицательным (0 для одного запуска)")
	}
	if c.Report.Daemonize && c.Report.IntervalMinutes == 0 {
		return fmt.Errorf("report.daemonize имеет смысл только вместе с report.interval_minutes > 0")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// all good
	default:
		return fmt.Errorf("logging.level должен быть одним из: debug, info, warn, error")
	}

	switch c.Logging.Format {
	case "text", "json":
		// all good
	default:
		return fmt.Errorf("logging.format должен быть одним из: text, json")
	}

	return nil
}

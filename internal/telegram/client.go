package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"

	"residents-admin-table/internal/ports"
)

// floodWaitRegex используется для парсинга длительности ожидания из сообщения об ошибке.
var floodWaitRegex = regexp.MustCompile(`FLOOD_WAIT \((\d+)\)`)

// telegramRunner определяет зависимости от клиента gotd.
// Это позволяет создавать моки в тестах.
type telegramRunner interface {
	Run(ctx context.Context, f func(ctx context.Context) error) error
	API() ports.TelegramAPI
	Authorize(ctx context.Context, token string) error
}

// prodRunner является оберткой вокруг реального *telegram.Client для удовлетворения интерфейса telegramRunner.
type prodRunner struct {
	*telegram.Client
}

func (p *prodRunner) API() ports.TelegramAPI {
	return p.Client.API()
}

func (p *prodRunner) Authorize(ctx context.Context, token string) error {
	status, err := p.Client.Auth().Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to check auth status: %w", err)
	}
	if status.Authorized {
		return nil
	}
	if _, err := p.Client.Auth().Bot(ctx, token); err != nil {
		return fmt.Errorf("bot authorization failed: %w", err)
	}
	return nil
}

// Client — клиент Telegram API для одного запуска отчета.
// Он инкапсулирует авторизацию по токену бота и хранение сессии,
// а наружу отдает сырой API через ports.TelegramAPI.
type Client struct {
	id       string
	tgRunner telegramRunner
	token    string
	log      *slog.Logger
}

// Config содержит конфигурацию для создания нового клиента.
type Config struct {
	APIID       int
	APIHash     string
	Token       string
	SessionPath string
}

// ClientOption определяет функциональную опцию для конфигурации клиента.
type ClientOption func(*Client)

// WithLogger устанавливает логгер для клиента.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient создает новый экземпляр Client.
func NewClient(cfg Config, opts ...ClientOption) *Client {
	// Настраиваем хранилище сессии.
	sessionStorage := &session.FileStorage{Path: cfg.SessionPath}

	// Создаем и настраиваем базовый клиент gotd.
	tgClient := telegram.NewClient(cfg.APIID, cfg.APIHash, telegram.Options{
		SessionStorage: sessionStorage,
	})

	c := &Client{
		id:       uuid.NewString(),
		tgRunner: &prodRunner{Client: tgClient},
		token:    cfg.Token,
		log:      slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ID возвращает уникальный идентификатор клиента.
func (c *Client) ID() string {
	return c.id
}

// Run устанавливает соединение, авторизуется по токену бота и выполняет fn,
// передавая ему готовый к работе API. Соединение закрывается при возврате fn.
func (c *Client) Run(ctx context.Context, fn func(ctx context.Context, api ports.TelegramAPI) error) error {
	c.log.InfoContext(ctx, "Starting telegram client", "client_id", c.id)
	err := c.tgRunner.Run(ctx, func(runCtx context.Context) error {
		if err := c.tgRunner.Authorize(runCtx, c.token); err != nil {
			return err
		}
		c.log.InfoContext(runCtx, "Telegram client authenticated and ready", "client_id", c.id)
		return fn(runCtx, c.tgRunner.API())
	})
	if err != nil {
		if wait, ok := parseFloodWait(err); ok {
			c.log.WarnContext(ctx, "Telegram client got FLOOD_WAIT", "client_id", c.id, "wait_duration", wait)
		}
		return fmt.Errorf("telegram client run failed: %w", err)
	}
	c.log.InfoContext(ctx, "Telegram client stopped", "client_id", c.id)
	return nil
}

// parseFloodWait извлекает длительность ожидания из ошибки.
func parseFloodWait(err error) (time.Duration, bool) {
	if err == nil {
		return 0, false
	}

	matches := floodWaitRegex.FindStringSubmatch(err.Error())
	if len(matches) < 2 {
		return 0, false
	}

	seconds, convErr := strconv.Atoi(matches[1])
	if convErr != nil {
		return 0, false
	}

	return time.Duration(seconds) * time.Second, true
}

package telegram

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"residents-admin-table/internal/ports"
)

// mockRunner - мок-реализация telegramRunner для тестирования
type mockRunner struct {
	api          ports.TelegramAPI
	runErr       error
	authorizeErr error

	authorizedWith string
}

func (m *mockRunner) Run(ctx context.Context, f func(ctx context.Context) error) error {
	if m.runErr != nil {
		return m.runErr
	}
	return f(ctx)
}

func (m *mockRunner) API() ports.TelegramAPI {
	return m.api
}

func (m *mockRunner) Authorize(ctx context.Context, token string) error {
	m.authorizedWith = token
	return m.authorizeErr
}

func newTestClient(runner telegramRunner) *Client {
	return &Client{
		id:       "test-client",
		tgRunner: runner,
		token:    "12345:token",
		log:      slog.Default(),
	}
}

func TestClient_Run(t *testing.T) {
	t.Run("авторизуется и передает API в callback", func(t *testing.T) {
		api := &MockTelegramAPI{}
		runner := &mockRunner{api: api}
		client := newTestClient(runner)

		var gotAPI ports.TelegramAPI
		err := client.Run(context.Background(), func(ctx context.Context, a ports.TelegramAPI) error {
			gotAPI = a
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, "12345:token", runner.authorizedWith)
		assert.Same(t, api, gotAPI)
	})

	t.Run("ошибка авторизации пробрасывается, callback не вызывается", func(t *testing.T) {
		authErr := errors.New("ACCESS_TOKEN_INVALID")
		runner := &mockRunner{authorizeErr: authErr}
		client := newTestClient(runner)

		called := false
		err := client.Run(context.Background(), func(ctx context.Context, a ports.TelegramAPI) error {
			called = true
			return nil
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, authErr)
		assert.False(t, called)
	})

	t.Run("ошибка callback пробрасывается", func(t *testing.T) {
		wantErr := errors.New("fetch failed")
		runner := &mockRunner{api: &MockTelegramAPI{}}
		client := newTestClient(runner)

		err := client.Run(context.Background(), func(ctx context.Context, a ports.TelegramAPI) error {
			return wantErr
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, wantErr)
	})
}

func TestParseFloodWait(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected time.Duration
		ok       bool
	}{
		{"ошибка FLOOD_WAIT", errors.New("rpc error code 420: FLOOD_WAIT (37)"), 37 * time.Second, true},
		{"другая ошибка", errors.New("CHANNEL_PRIVATE"), 0, false},
		{"nil ошибка", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := parseFloodWait(tt.err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, d)
		})
	}
}

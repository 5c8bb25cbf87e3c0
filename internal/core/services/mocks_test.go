package services

import (
	"context"

	"residents-admin-table/internal/domain"
)

// MockRosterSource - мок-реализация ports.RosterSource для тестирования
type MockRosterSource struct {
	ListActiveResidentsFunc func(ctx context.Context) ([]int64, error)
}

// ListActiveResidents реализует интерфейс ports.RosterSource
func (m *MockRosterSource) ListActiveResidents(ctx context.Context) ([]int64, error) {
	if m.ListActiveResidentsFunc != nil {
		return m.ListActiveResidentsFunc(ctx)
	}
	return nil, nil
}

// MockChatFetcher - мок-реализация ports.ChatFetcher для тестирования
type MockChatFetcher struct {
	FetchFunc func(ctx context.Context, chat domain.WatchingChat) (*domain.ChatResult, error)
}

// Fetch реализует интерфейс ports.ChatFetcher
func (m *MockChatFetcher) Fetch(ctx context.Context, chat domain.WatchingChat) (*domain.ChatResult, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, chat)
	}
	return &domain.ChatResult{Participants: map[int64]domain.Member{}}, nil
}

package telegram

import (
	"context"

	"github.com/gotd/td/tg"
)

// MockTelegramAPI - мок-реализация ports.TelegramAPI для тестирования
type MockTelegramAPI struct {
	ChannelsGetChannelsFunc     func(ctx context.Context, id []tg.InputChannelClass) (tg.MessagesChatsClass, error)
	ChannelsGetParticipantsFunc func(ctx context.Context, request *tg.ChannelsGetParticipantsRequest) (tg.ChannelsChannelParticipantsClass, error)
	MessagesGetFullChatFunc     func(ctx context.Context, chatID int64) (*tg.MessagesChatFull, error)
}

// ChannelsGetChannels реализует интерфейс ports.TelegramAPI
func (m *MockTelegramAPI) ChannelsGetChannels(ctx context.Context, id []tg.InputChannelClass) (tg.MessagesChatsClass, error) {
	if m.ChannelsGetChannelsFunc != nil {
		return m.ChannelsGetChannelsFunc(ctx, id)
	}
	return nil, nil
}

// ChannelsGetParticipants реализует интерфейс ports.TelegramAPI
func (m *MockTelegramAPI) ChannelsGetParticipants(ctx context.Context, request *tg.ChannelsGetParticipantsRequest) (tg.ChannelsChannelParticipantsClass, error) {
	if m.ChannelsGetParticipantsFunc != nil {
		return m.ChannelsGetParticipantsFunc(ctx, request)
	}
	return nil, nil
}

// MessagesGetFullChat реализует интерфейс ports.TelegramAPI
func (m *MockTelegramAPI) MessagesGetFullChat(ctx context.Context, chatID int64) (*tg.MessagesChatFull, error) {
	if m.MessagesGetFullChatFunc != nil {
		return m.MessagesGetFullChatFunc(ctx, chatID)
	}
	return nil, nil
}

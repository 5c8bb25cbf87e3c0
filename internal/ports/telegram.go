package ports

import (
	"context"

	"github.com/gotd/td/tg"
)

// TelegramAPI — используемое нами подмножество сырых методов MTProto API.
// *tg.Client реализует этот интерфейс; в тестах он подменяется моком.
type TelegramAPI interface {
	ChannelsGetChannels(ctx context.Context, id []tg.InputChannelClass) (tg.MessagesChatsClass, error)
	ChannelsGetParticipants(ctx context.Context, request *tg.ChannelsGetParticipantsRequest) (tg.ChannelsChannelParticipantsClass, error)
	MessagesGetFullChat(ctx context.Context, chatID int64) (*tg.MessagesChatFull, error)
}

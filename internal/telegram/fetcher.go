package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gotd/td/tg"

	"residents-admin-table/internal/domain"
	"residents-admin-table/internal/ports"
)

// ErrUnsupportedEntity возвращается, когда сконфигурированный ID принадлежит
// пользователю, а не чату или каналу.
var ErrUnsupportedEntity = errors.New("entity is not a chat or channel")

// botAPIChannelOffset — смещение, с которым Bot API кодирует ID каналов
// (канал 123 записывается как -1000000000123).
const botAPIChannelOffset = 1_000_000_000_000

// peerKind — тип пира, определяемый по знаку и величине конфигурационного ID.
type peerKind int

const (
	peerUser peerKind = iota
	peerChat
	peerChannel
)

// resolvePeerKind разбирает ID в формате Bot API на тип пира и "голый" ID.
func resolvePeerKind(id int64) (peerKind, int64) {
	switch {
	case id < -botAPIChannelOffset:
		return peerChannel, -id - botAPIChannelOffset
	case id < 0:
		return peerChat, -id
	default:
		return peerUser, id
	}
}

// FetcherOption определяет функциональную опцию для конфигурации Fetcher.
type FetcherOption func(*Fetcher)

// WithPageSize устанавливает размер страницы при постраничном обходе участников.
func WithPageSize(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.pageSize = n
		}
	}
}

// WithFetcherLogger устанавливает логгер для фетчера.
func WithFetcherLogger(l *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		if l != nil {
			f.log = l
		}
	}
}

// Fetcher обходит отслеживаемые чаты через сырой MTProto API.
// Фетчер не хранит состояние и безопасен для одновременного использования.
type Fetcher struct {
	api      ports.TelegramAPI
	pageSize int
	log      *slog.Logger
}

// NewFetcher создает новый Fetcher поверх переданного API.
func NewFetcher(api ports.TelegramAPI, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		api:      api,
		pageSize: 100,
		log:      slog.Default(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch разрешает чат по конфигурационному ID и перечисляет его участников.
// Для internal-чатов перечисляются все участники, для публичных — только
// администраторы и владелец.
func (f *Fetcher) Fetch(ctx context.Context, wc domain.WatchingChat) (*domain.ChatResult, error) {
	kind, bareID := resolvePeerKind(wc.ID)
	switch kind {
	case peerChannel:
		return f.fetchChannel(ctx, wc, bareID)
	case peerChat:
		return f.fetchBasicChat(ctx, wc, bareID)
	default:
		return nil, fmt.Errorf("%w: id %d belongs to a user", ErrUnsupportedEntity, wc.ID)
	}
}

// fetchChannel обходит канал или супергруппу.
func (f *Fetcher) fetchChannel(ctx context.Context, wc domain.WatchingChat, channelID int64) (*domain.ChatResult, error) {
	f.log.DebugContext(ctx, "Resolving channel", "chat_id", wc.ID, "channel_id", channelID)
	res, err := f.api.ChannelsGetChannels(ctx, []tg.InputChannelClass{
		&tg.InputChannel{ChannelID: channelID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve channel %d: %w", channelID, err)
	}

	var channel *tg.Channel
	for _, ch := range chatsOf(res) {
		if c, ok := ch.(*tg.Channel); ok && c.ID == channelID {
			channel = c
			break
		}
	}
	if channel == nil {
		return nil, fmt.Errorf("channel %d was not found in the resolve response", channelID)
	}

	username, _ := channel.GetUsername()
	result := &domain.ChatResult{
		Identity: domain.ChatIdentity{
			ID:       channel.ID,
			Title:    channel.Title,
			Username: username,
		},
		Participants: make(map[int64]domain.Member),
	}

	accessHash, _ := channel.GetAccessHash()
	input := &tg.InputChannel{ChannelID: channel.ID, AccessHash: accessHash}

	// Для публичных чатов используется серверный фильтр по администраторам.
	var filter tg.ChannelParticipantsFilterClass = &tg.ChannelParticipantsRecent{}
	if !wc.Internal {
		filter = &tg.ChannelParticipantsAdmins{}
	}

	offset := 0
	for {
		resp, err := f.api.ChannelsGetParticipants(ctx, &tg.ChannelsGetParticipantsRequest{
			Channel: input,
			Filter:  filter,
			Offset:  offset,
			Limit:   f.pageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list participants of channel %d: %w", channelID, err)
		}

		page, ok := resp.(*tg.ChannelsChannelParticipants)
		if !ok {
			// ChannelsChannelParticipantsNotModified приходит только на запросы
			// с hash, которых мы не делаем.
			return nil, fmt.Errorf("unexpected participants response type %T for channel %d", resp, channelID)
		}
		if len(page.Participants) == 0 {
			break
		}

		users := indexUsers(page.Users)
		for _, p := range page.Participants {
			role, userID := classifyChannelParticipant(p)
			if role == domain.RoleAbsent || userID == 0 {
				// Забаненные и вышедшие не являются участниками.
				continue
			}
			result.Participants[userID] = domain.Member{
				Person: personOf(userID, users),
				Role:   role,
			}
		}

		offset += len(page.Participants)
		if offset >= page.Count {
			break
		}
	}

	f.log.DebugContext(ctx, "Channel fetched",
		"chat_id", wc.ID,
		"title", result.Identity.Title,
		"participants", len(result.Participants),
	)
	return result, nil
}

// fetchBasicChat обходит обычную (не мигрировавшую) группу.
// Серверного фильтра по администраторам для таких групп нет,
// поэтому для публичных чатов роли фильтруются на клиенте.
func (f *Fetcher) fetchBasicChat(ctx context.Context, wc domain.WatchingChat, chatID int64) (*domain.ChatResult, error) {
	f.log.DebugContext(ctx, "Resolving basic chat", "chat_id", wc.ID, "bare_id", chatID)
	full, err := f.api.MessagesGetFullChat(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve chat %d: %w", chatID, err)
	}

	var chat *tg.Chat
	for _, ch := range full.Chats {
		if c, ok := ch.(*tg.Chat); ok && c.ID == chatID {
			chat = c
			break
		}
	}
	if chat == nil {
		return nil, fmt.Errorf("chat %d was not found in the full chat response", chatID)
	}

	result := &domain.ChatResult{
		Identity: domain.ChatIdentity{
			ID:    chat.ID,
			Title: chat.Title,
		},
		Participants: make(map[int64]domain.Member),
	}

	chatFull, ok := full.FullChat.(*tg.ChatFull)
	if !ok {
		return nil, fmt.Errorf("unexpected full chat type %T for chat %d", full.FullChat, chatID)
	}
	participants, ok := chatFull.Participants.(*tg.ChatParticipants)
	if !ok {
		// ChatParticipantsForbidden означает, что список участников нам недоступен.
		return nil, fmt.Errorf("participants of chat %d are not available (%T)", chatID, chatFull.Participants)
	}

	users := indexUsers(full.Users)
	for _, p := range participants.Participants {
		role, userID := classifyChatParticipant(p)
		if role == domain.RoleAbsent || userID == 0 {
			continue
		}
		if !wc.Internal && role != domain.RoleAdmin && role != domain.RoleOwner {
			continue
		}
		result.Participants[userID] = domain.Member{
			Person: personOf(userID, users),
			Role:   role,
		}
	}

	f.log.DebugContext(ctx, "Basic chat fetched",
		"chat_id", wc.ID,
		"title", result.Identity.Title,
		"participants", len(result.Participants),
	)
	return result, nil
}

// chatsOf извлекает список чатов из любого варианта ответа messages.Chats.
func chatsOf(res tg.MessagesChatsClass) []tg.ChatClass {
	switch res := res.(type) {
	case *tg.MessagesChats:
		return res.Chats
	case *tg.MessagesChatsSlice:
		return res.Chats
	default:
		return nil
	}
}

// indexUsers строит индекс профилей пользователей по их id.
func indexUsers(users []tg.UserClass) map[int64]*tg.User {
	index := make(map[int64]*tg.User, len(users))
	for _, u := range users {
		if user, ok := u.(*tg.User); ok {
			index[user.ID] = user
		}
	}
	return index
}

// personOf собирает профиль участника из индекса пользователей.
// Если профиль не пришел вместе со страницей, остается только id.
func personOf(userID int64, users map[int64]*tg.User) domain.Person {
	user, ok := users[userID]
	if !ok {
		return domain.Person{ID: userID}
	}
	return domain.Person{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
		IsBot:     user.Bot,
	}
}

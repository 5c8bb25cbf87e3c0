package telegram

import (
	"github.com/gotd/td/tg"

	"residents-admin-table/internal/domain"
)

// classifyChannelParticipant отображает вариант участия в канале/супергруппе
// на роль отчета и возвращает id пользователя.
// Забаненные и вышедшие считаются отсутствующими и не попадают в таблицу.
func classifyChannelParticipant(p tg.ChannelParticipantClass) (domain.Role, int64) {
	switch p := p.(type) {
	case *tg.ChannelParticipantBanned:
		return domain.RoleAbsent, peerUserID(p.Peer)
	case *tg.ChannelParticipantLeft:
		return domain.RoleAbsent, peerUserID(p.Peer)
	case *tg.ChannelParticipantCreator:
		return domain.RoleOwner, p.UserID
	case *tg.ChannelParticipantAdmin:
		return domain.RoleAdmin, p.UserID
	case *tg.ChannelParticipantSelf:
		return domain.RoleSelf, p.UserID
	case *tg.ChannelParticipant:
		return domain.RoleParticipant, p.UserID
	default:
		return domain.RoleUnknown, participantUserID(p)
	}
}

// classifyChatParticipant отображает вариант участия в обычной группе на роль отчета.
// У обычных групп нет вариантов banned/left/self.
func classifyChatParticipant(p tg.ChatParticipantClass) (domain.Role, int64) {
	switch p := p.(type) {
	case *tg.ChatParticipantCreator:
		return domain.RoleOwner, p.UserID
	case *tg.ChatParticipantAdmin:
		return domain.RoleAdmin, p.UserID
	case *tg.ChatParticipant:
		return domain.RoleParticipant, p.UserID
	default:
		return domain.RoleUnknown, participantUserID(p)
	}
}

// participantUserID извлекает id пользователя из нераспознанного варианта
// участия. Новый вариант схемы с id пользователя попадет в таблицу
// с неизвестной ролью, а не исчезнет из отчета.
func participantUserID(p any) int64 {
	switch v := p.(type) {
	case interface{ GetUserID() int64 }:
		return v.GetUserID()
	case interface{ GetPeer() tg.PeerClass }:
		return peerUserID(v.GetPeer())
	default:
		return 0
	}
}

// peerUserID извлекает id пользователя из пира, если пир является пользователем.
func peerUserID(peer tg.PeerClass) int64 {
	if u, ok := peer.(*tg.PeerUser); ok {
		return u.UserID
	}
	return 0
}

package domain

// WatchingChat описывает один отслеживаемый чат из конфигурации.
// ID задается в формате Bot API (каналы с префиксом -100).
type WatchingChat struct {
	ID       int64 `json:"id" yaml:"id"`
	Internal bool  `json:"internal" yaml:"internal"`
}

// botAPIChannelOffset — смещение, с которым Bot API кодирует ID каналов
// (канал 123 записывается как -1000000000123).
const botAPIChannelOffset = 1_000_000_000_000

// BareID возвращает "голый" ID чата без кодирования Bot API.
func (w WatchingChat) BareID() int64 {
	switch {
	case w.ID < -botAPIChannelOffset:
		return -w.ID - botAPIChannelOffset
	case w.ID < 0:
		return -w.ID
	default:
		return w.ID
	}
}

// Role — роль участника в конкретном чате.
type Role int

const (
	// RoleAbsent — пользователь не состоит в чате (или не админ для публичных чатов).
	RoleAbsent Role = iota
	// RoleParticipant — обычный участник или подписчик.
	RoleParticipant
	// RoleAdmin — администратор.
	RoleAdmin
	// RoleOwner — создатель чата.
	RoleOwner
	// RoleSelf — собственный аккаунт бота.
	RoleSelf
	// RoleUnknown — нераспознанный вариант участия.
	RoleUnknown
)

// String возвращает текстовое имя роли.
func (r Role) String() string {
	switch r {
	case RoleAbsent:
		return "absent"
	case RoleParticipant:
		return "participant"
	case RoleAdmin:
		return "admin"
	case RoleOwner:
		return "owner"
	case RoleSelf:
		return "self"
	default:
		return "unknown"
	}
}

// Glyph возвращает эмодзи для отображения роли в таблице отчета.
func (r Role) Glyph() string {
	switch r {
	case RoleAbsent:
		return "➖"
	case RoleParticipant:
		return "👤"
	case RoleAdmin:
		return "⭐"
	case RoleOwner:
		return "👑"
	default:
		// self и unknown отображаются одинаково.
		return "❓"
	}
}

// Person — профиль пользователя Telegram, собранный при обходе чатов.
// Один и тот же пользователь может встретиться в нескольких чатах,
// все наблюдения сливаются в одну запись по ID.
type Person struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
	IsBot     bool
}

// Member связывает профиль пользователя с его ролью в одном чате.
type Member struct {
	Person Person
	Role   Role
}

// ChatIdentity — метаданные чата, полученные от Telegram.
// ID хранится в "голом" виде, без префикса -100.
type ChatIdentity struct {
	ID       int64
	Title    string
	Username string // публичный хендл, пустой для приватных чатов
}

// ChatResult — результат обхода одного чата.
type ChatResult struct {
	Identity     ChatIdentity
	Participants map[int64]Member
}

// ChatColumn — одна колонка итоговой таблицы: конфигурация чата плюс
// результат его обхода. Identity равен nil, если обход завершился ошибкой,
// тогда Participants пуст и вся колонка рендерится как RoleAbsent.
type ChatColumn struct {
	Chat         WatchingChat
	Identity     *ChatIdentity
	Participants map[int64]Member
}

// ReportRow — одна строка отчета: один человек и его роль в каждой колонке.
type ReportRow struct {
	PersonID   int64
	Person     *Person // nil, если резидент не встретился ни в одном чате
	IsResident bool
	Roles      []Role // ровно по одной роли на колонку, в порядке конфигурации
}

// Report — полностью собранный отчет перед рендерингом.
type Report struct {
	Columns   []ChatColumn
	Rows      []ReportRow
	FailedIDs []int64 // конфигурационные ID чатов, которые не удалось обойти
}

package ports

import (
	"context"

	"residents-admin-table/internal/domain"
)

// RosterSource определяет интерфейс для доступа к реестру резидентов.
type RosterSource interface {
	// ListActiveResidents возвращает tg id действующих резидентов,
	// упорядоченные по дате начала резидентства (сначала самые новые).
	ListActiveResidents(ctx context.Context) ([]int64, error)
}

// ChatFetcher определяет интерфейс для обхода одного отслеживаемого чата.
type ChatFetcher interface {
	// Fetch разрешает чат по конфигурационному ID и перечисляет его участников.
	// Для internal-чатов перечисляются все участники, для публичных — только
	// администраторы и владелец.
	Fetch(ctx context.Context, chat domain.WatchingChat) (*domain.ChatResult, error)
}

// ReportExporter определяет интерфейс для вывода собранного отчета.
type ReportExporter interface {
	// Export рендерит отчет в выходной поток экспортера.
	Export(report *domain.Report) error
}

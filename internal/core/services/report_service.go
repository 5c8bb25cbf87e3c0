package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"residents-admin-table/internal/domain"
	"residents-admin-table/internal/ports"
)

// Config хранит конфигурацию для ReportService.
type Config struct {
	// FailFast прерывает весь запуск при первой же ошибке обхода чата.
	// Если false, ошибка логируется, а колонка чата остается пустой.
	FailFast bool
	// FetchTimeout — таймаут обхода одного чата. 0 — без ограничений.
	FetchTimeout time.Duration
}

// Option — функциональная опция для настройки ReportService.
type Option func(*ReportService)

// WithFailFast включает прерывание запуска при первой ошибке обхода.
func WithFailFast(v bool) Option {
	return func(s *ReportService) {
		s.config.FailFast = v
	}
}

// WithFetchTimeout устанавливает таймаут обхода одного чата.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *ReportService) {
		s.config.FetchTimeout = d
	}
}

// WithLogger устанавливает логгер для сервиса.
func WithLogger(l *slog.Logger) Option {
	return func(s *ReportService) {
		if l != nil {
			s.log = l
		}
	}
}

// ReportService собирает отчет: параллельно обходит отслеживаемые чаты,
// объединяет их участников с реестром резидентов и строит строки таблицы.
// Сервис не хранит состояние и безопасен для одновременного использования.
type ReportService struct {
	roster  ports.RosterSource
	fetcher ports.ChatFetcher
	config  Config
	log     *slog.Logger
}

// NewReportService создает новый ReportService с использованием функциональных опций.
func NewReportService(roster ports.RosterSource, fetcher ports.ChatFetcher, opts ...Option) *ReportService {
	s := &ReportService{
		roster:  roster,
		fetcher: fetcher,
		config: Config{
			FailFast:     false,
			FetchTimeout: 60 * time.Second,
		},
		log: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// fetchOutcome — результат обхода одного чата для внутреннего слияния.
type fetchOutcome struct {
	res *domain.ChatResult
	err error
}

// Build обходит все сконфигурированные чаты и собирает отчет.
// Ошибка реестра всегда фатальна: без него отчет не имеет смысла.
func (s *ReportService) Build(ctx context.Context, chats []domain.WatchingChat) (*domain.Report, error) {
	runID := uuid.NewString()
	log := s.log.With("run_id", runID)

	residents, err := s.roster.ListActiveResidents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load the resident roster: %w", err)
	}
	log.InfoContext(ctx, "Resident roster loaded", "residents", len(residents))

	// Каждая горутина пишет только в свой слот результата,
	// поэтому синхронизация доступа не нужна, а порядок колонок
	// детерминирован независимо от порядка завершения обходов.
	outcomes := make([]fetchOutcome, len(chats))
	var wg sync.WaitGroup
	for i, wc := range chats {
		wg.Add(1)
		go func(i int, wc domain.WatchingChat) {
			defer wg.Done()

			fetchCtx := ctx
			if s.config.FetchTimeout > 0 {
				var cancel context.CancelFunc
				fetchCtx, cancel = context.WithTimeout(ctx, s.config.FetchTimeout)
				defer cancel()
			}

			res, err := s.fetcher.Fetch(fetchCtx, wc)
			outcomes[i] = fetchOutcome{res: res, err: err}
		}(i, wc)
	}
	wg.Wait()

	columns := make([]domain.ChatColumn, len(chats))
	var failedIDs []int64
	for i, wc := range chats {
		out := outcomes[i]
		if out.err != nil {
			if s.config.FailFast {
				return nil, fmt.Errorf("failed to fetch chat %d: %w", wc.ID, out.err)
			}
			log.ErrorContext(ctx, "Failed to fetch chat, its column will stay empty",
				"chat_id", wc.ID, "error", out.err)
			failedIDs = append(failedIDs, wc.ID)
			columns[i] = domain.ChatColumn{
				Chat:         wc,
				Participants: map[int64]domain.Member{},
			}
			continue
		}

		identity := out.res.Identity
		columns[i] = domain.ChatColumn{
			Chat:         wc,
			Identity:     &identity,
			Participants: out.res.Participants,
		}
	}

	rows := reconcile(residents, columns)
	log.InfoContext(ctx, "Report built",
		"chats", len(chats),
		"failed_chats", len(failedIDs),
		"rows", len(rows),
	)

	return &domain.Report{
		Columns:   columns,
		Rows:      rows,
		FailedIDs: failedIDs,
	}, nil
}

// reconcile объединяет реестр резидентов с участниками всех чатов
// в строки таблицы: по одной строке на человека, по одной роли на колонку.
// Резиденты идут первыми в порядке реестра, остальные — по возрастанию id.
func reconcile(residents []int64, columns []domain.ChatColumn) []domain.ReportRow {
	residentSet := make(map[int64]struct{}, len(residents))
	for _, id := range residents {
		residentSet[id] = struct{}{}
	}

	// Сливаем все наблюдения профилей. При расхождении атрибутов
	// побеждает последнее наблюдение.
	persons := make(map[int64]domain.Person)
	for _, col := range columns {
		for id, m := range col.Participants {
			persons[id] = m.Person
		}
	}

	rolesFor := func(id int64) []domain.Role {
		roles := make([]domain.Role, len(columns))
		for i, col := range columns {
			if m, ok := col.Participants[id]; ok {
				roles[i] = m.Role
			} else {
				roles[i] = domain.RoleAbsent
			}
		}
		return roles
	}

	rows := make([]domain.ReportRow, 0, len(residents)+len(persons))
	for _, id := range residents {
		row := domain.ReportRow{
			PersonID:   id,
			IsResident: true,
			Roles:      rolesFor(id),
		}
		if p, ok := persons[id]; ok {
			person := p
			row.Person = &person
		}
		rows = append(rows, row)
	}

	others := make([]int64, 0, len(persons))
	for id := range persons {
		if _, ok := residentSet[id]; !ok {
			others = append(others, id)
		}
	}
	sort.Slice(others, func(i, j int) bool { return others[i] < others[j] })

	for _, id := range others {
		person := persons[id]
		rows = append(rows, domain.ReportRow{
			PersonID: id,
			Person:   &person,
			Roles:    rolesFor(id),
		})
	}

	return rows
}

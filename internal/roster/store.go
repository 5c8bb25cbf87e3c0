// Package roster предоставляет доступ только для чтения к реестру резидентов
// в локальной базе SQLite основного бота.
package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	// ErrOpenDatabase возвращается, когда базу резидентов не удалось открыть.
	ErrOpenDatabase = errors.New("cannot open the residents database")
	// ErrQuery возвращается при ошибке выборки из базы.
	ErrQuery = errors.New("failed to query residents")
)

// Resident — запись реестра резидентов.
// Схема принадлежит основному боту, здесь она не мигрируется.
type Resident struct {
	Rowid     int32      `gorm:"column:rowid;primaryKey"`
	TgID      int64      `gorm:"column:tg_id"`
	BeginDate time.Time  `gorm:"column:begin_date"`
	EndDate   *time.Time `gorm:"column:end_date"`
}

// TableName задает имя таблицы в базе бота.
func (Resident) TableName() string {
	return "residents"
}

// StoreOption определяет функциональную опцию для конфигурации Store.
type StoreOption func(*Store)

// WithLogger устанавливает логгер для хранилища.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Store читает реестр резидентов из базы SQLite.
type Store struct {
	db  *gorm.DB
	log *slog.Logger
}

// NewStore открывает базу по указанному пути в режиме только для чтения.
func NewStore(path string, opts ...StoreOption) (*Store, error) {
	s := &Store{log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		s.log.Error("Cannot open GORM database", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %s", ErrOpenDatabase, path)
	}

	s.db = db
	return s, nil
}

// ListActiveResidents возвращает tg id резидентов без даты окончания,
// упорядоченные по дате начала резидентства по убыванию.
func (s *Store) ListActiveResidents(ctx context.Context) ([]int64, error) {
	var ids []int64
	result := s.db.WithContext(ctx).
		Model(&Resident{}).
		Where("end_date IS NULL").
		Order("begin_date DESC").
		Pluck("tg_id", &ids)
	if result.Error != nil {
		s.log.Error("Cannot select active residents", "error", result.Error)
		return nil, fmt.Errorf("%w: %v", ErrQuery, result.Error)
	}

	s.log.Debug("Active residents loaded", "count", len(ids))
	return ids, nil
}

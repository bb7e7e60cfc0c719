package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventar/marketplace-core/internal/calendar"
	"github.com/eventar/marketplace-core/internal/model"
	"github.com/eventar/marketplace-core/internal/repository"
)

// CalendarService — защита календаря: по исполнителю хранится набор
// занятых дат, занятие дня атомарно. Из двух конкурентных Claim на одну
// пару (исполнитель, дата) ровно один получает строку, второй —
// ErrAlreadyBusy через уникальный индекс busy_dates.
type CalendarService struct {
	db       *gorm.DB
	busyRepo repository.BusyDateRepository
}

func NewCalendarService(db *gorm.DB, busyRepo repository.BusyDateRepository) *CalendarService {
	return &CalendarService{db: db, busyRepo: busyRepo}
}

// IsFree — свободен ли исполнитель в указанный день.
func (s *CalendarService) IsFree(ctx context.Context, performerID uuid.UUID, date time.Time) (bool, error) {
	busy, err := s.busyRepo.IsBusy(ctx, performerID, calendar.DateOnly(date))
	if err != nil {
		return false, err
	}
	return !busy, nil
}

// Claim занимает день за исполнителем.
func (s *CalendarService) Claim(ctx context.Context, performerID uuid.UUID, date time.Time, source model.BusyDateSource) error {
	return claimBusyDate(s.db.WithContext(ctx), performerID, date, source)
}

// Release снимает занятость. Идемпотентна: отсутствие строки — не ошибка.
func (s *CalendarService) Release(ctx context.Context, performerID uuid.UUID, date time.Time) error {
	return releaseBusyDate(s.db.WithContext(ctx), performerID, date)
}

// ListBusyDates — занятые дни исполнителя по возрастанию.
func (s *CalendarService) ListBusyDates(ctx context.Context, performerID uuid.UUID) ([]model.BusyDate, error) {
	return s.busyRepo.ListByUser(ctx, performerID)
}

// SetManualDates заменяет вручную отмеченные занятые дни исполнителя.
// Дни, занятые заказами, не затрагиваются: их снимает только машина
// состояний заказа. Совпадение с уже занятым заказом днём пропускается.
func (s *CalendarService) SetManualDates(ctx context.Context, performerID uuid.UUID, dates []time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("user_id = ? AND source = ?", performerID, model.BusyDateSourceManual).
			Delete(&model.BusyDate{}).Error
		if err != nil {
			return err
		}
		for _, d := range dates {
			if err := claimBusyDate(tx, performerID, d, model.BusyDateSourceManual); err != nil {
				if errors.Is(err, ErrAlreadyBusy) {
					continue
				}
				return err
			}
		}
		return nil
	})
}

// claimBusyDate — атомарное занятие дня внутри произвольной транзакции.
// Нарушение уникального индекса (user_id, date) переводится в ErrAlreadyBusy:
// проигравший гонку и опоздавший неразличимы для вызывающего.
func claimBusyDate(tx *gorm.DB, performerID uuid.UUID, date time.Time, source model.BusyDateSource) error {
	bd := model.BusyDate{
		UserID: performerID,
		Date:   calendar.ToDate(date),
		Source: source,
	}
	if err := tx.Create(&bd).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyBusy
		}
		return err
	}
	return nil
}

func releaseBusyDate(tx *gorm.DB, performerID uuid.UUID, date time.Time) error {
	return tx.
		Where("user_id = ? AND date = ?", performerID, calendar.ToDate(date)).
		Delete(&model.BusyDate{}).
		Error
}

// releaseOrderDates снимает все занятые заказом дни: прямого исполнителя
// и каждого подтверждённого по слотам.
func releaseOrderDates(tx *gorm.DB, order *model.Order) error {
	ids := make([]uuid.UUID, 0, len(order.Selected)+1)
	if order.PerformerID != nil {
		ids = append(ids, *order.PerformerID)
	}
	for _, sel := range order.Selected {
		ids = append(ids, sel.PerformerID)
	}
	if len(ids) == 0 {
		return nil
	}
	return tx.
		Where("user_id IN ? AND date = ? AND source = ?",
			ids, order.EventDate, model.BusyDateSourceOrder).
		Delete(&model.BusyDate{}).
		Error
}

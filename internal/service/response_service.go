package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventar/marketplace-core/internal/model"
	"github.com/eventar/marketplace-core/internal/repository"
)

// ResponseService — арбитраж откликов: пул кандидатов на слот заказа
// и протокол подтверждения, сводящий пул к одному победителю.
// Ранжирования нет: побеждает тот, кого заказчик подтвердил первым.
type ResponseService struct {
	db       *gorm.DB
	respRepo repository.ResponseRepository
	userRepo repository.UserRepository
}

func NewResponseService(db *gorm.DB, respRepo repository.ResponseRepository, userRepo repository.UserRepository) *ResponseService {
	return &ResponseService{db: db, respRepo: respRepo, userRepo: userRepo}
}

// Submit — отклик исполнителя на открытый слот заявки.
// ErrOrderNotOpen: заказ не в статусе new, не является заявкой либо
// услуга исполнителя не имеет открытого слота. Повторный отклик
// отсекается уникальным индексом (order_id, performer_id).
func (s *ResponseService) Submit(ctx context.Context, orderID, performerID uuid.UUID, price int64, message string) (uuid.UUID, error) {
	performer, err := s.userRepo.GetByID(ctx, performerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrUserNotFound
		}
		return uuid.Nil, err
	}
	if !performer.IsPerformer() {
		return uuid.Nil, ErrPermissionDenied
	}
	code := *performer.ServiceType

	var responseID uuid.UUID
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.OrderType != model.OrderTypeRequest || order.Status != model.OrderStatusNew {
			return ErrOrderNotOpen
		}
		if !order.HasService(code) {
			return ErrOrderNotOpen
		}

		resp := model.OrderResponse{
			OrderID:     order.ID,
			PerformerID: performerID,
			ServiceCode: code,
			Price:       price,
			Message:     message,
		}
		if err := tx.Create(&resp).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyApplied
			}
			return err
		}

		// Проверка слота после вставки: подтверждение могло закрыть слот
		// между чтением заказа и записью отклика. Откат убирает отклик.
		var filled int64
		err := tx.Model(&model.SelectedPerformer{}).
			Where("order_id = ? AND service_code = ?", order.ID, code).
			Count(&filled).Error
		if err != nil {
			return err
		}
		if filled > 0 {
			return ErrOrderNotOpen
		}

		responseID = resp.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return responseID, nil
}

// Confirm — заказчик выбирает отклик. Одной транзакцией: занимается
// дата события за исполнителем, заполняется слот и удаляются все
// отклики заказа по той же услуге (пулы других услуг составного заказа
// остаются открытыми). При полном покрытии заказ уходит в in_progress.
func (s *ResponseService) Confirm(ctx context.Context, responseID, customerID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var resp model.OrderResponse
		if err := tx.First(&resp, "id = ?", responseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrResponseNotFound
			}
			return err
		}

		var order model.Order
		if err := tx.First(&order, "id = ?", resp.OrderID).Error; err != nil {
			return err
		}
		if order.CustomerID != customerID {
			return ErrPermissionDenied
		}
		if order.Closed() {
			return ErrOrderClosed
		}

		if err := claimBusyDate(tx, resp.PerformerID, time.Time(order.EventDate), model.BusyDateSourceOrder); err != nil {
			return err
		}
		if err := confirmSlot(tx, &order, resp.ServiceCode, resp.PerformerID); err != nil {
			return err
		}

		// Пул по этой услуге исчерпан: удаляются и победивший отклик,
		// и все проигравшие.
		return tx.
			Where("order_id = ? AND service_code = ?", order.ID, resp.ServiceCode).
			Delete(&model.OrderResponse{}).
			Error
	})
}

// Reject удаляет один отклик без побочных эффектов для леджера.
func (s *ResponseService) Reject(ctx context.Context, responseID, customerID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var resp model.OrderResponse
		if err := tx.First(&resp, "id = ?", responseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrResponseNotFound
			}
			return err
		}

		var order model.Order
		if err := tx.First(&order, "id = ?", resp.OrderID).Error; err != nil {
			return err
		}
		if order.CustomerID != customerID {
			return ErrPermissionDenied
		}

		return tx.Delete(&resp).Error
	})
}

// ListCandidates — пул откликов заказа по услуге, с данными исполнителей.
func (s *ResponseService) ListCandidates(ctx context.Context, orderID uuid.UUID, code model.ServiceCode) ([]model.OrderResponse, error) {
	if !code.Valid() {
		return nil, ErrInvalidService
	}
	return s.respRepo.ListByOrderAndService(ctx, orderID, code)
}

// ListByPerformer — отклики исполнителя для его дашборда.
func (s *ResponseService) ListByPerformer(ctx context.Context, performerID uuid.UUID) ([]model.OrderResponse, error) {
	return s.respRepo.ListByPerformer(ctx, performerID)
}

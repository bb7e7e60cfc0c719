package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/eventar/marketplace-core/internal/calendar"
	"github.com/eventar/marketplace-core/internal/model"
	"github.com/eventar/marketplace-core/internal/repository"
)

// OrderService — жизненный цикл заказа: создание заявок, отмена и
// удаление с полной очисткой календаря, отказ исполнителя, завершение,
// отзывы. Статусные переходы выполняются условными UPDATE по текущему
// статусу, поэтому конкурирующие переходы не накладываются.
type OrderService struct {
	db        *gorm.DB
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository

	now func() time.Time
}

func NewOrderService(db *gorm.DB, orderRepo repository.OrderRepository, userRepo repository.UserRepository) *OrderService {
	return &OrderService{db: db, orderRepo: orderRepo, userRepo: userRepo, now: time.Now}
}

// CreateRequestInput — параметры составной заявки.
type CreateRequestInput struct {
	Title       string
	EventDate   time.Time
	City        string
	Venue       string
	GuestCount  int
	Description string
	BudgetMin   int64
	BudgetMax   int64
	Services    []model.ServiceCode
}

// CreateRequest создаёт составную заявку. Список услуг проверяется по
// перечню и дедуплицируется: после создания он — авторитетный список
// слотов заказа.
func (s *OrderService) CreateRequest(ctx context.Context, customerID uuid.UUID, in CreateRequestInput) (uuid.UUID, error) {
	customer, err := s.userRepo.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrUserNotFound
		}
		return uuid.Nil, err
	}
	if customer.UserType != model.UserTypeCustomer {
		return uuid.Nil, ErrPermissionDenied
	}

	if err := calendar.ValidateEventDate(in.EventDate, s.now()); err != nil {
		return uuid.Nil, err
	}

	services, err := normalizeServices(in.Services)
	if err != nil {
		return uuid.Nil, err
	}

	order := model.Order{
		CustomerID:  customerID,
		OrderType:   model.OrderTypeRequest,
		Status:      model.OrderStatusNew,
		Title:       in.Title,
		EventDate:   calendar.ToDate(in.EventDate),
		City:        in.City,
		Venue:       in.Venue,
		GuestCount:  in.GuestCount,
		Description: in.Description,
		BudgetMin:   in.BudgetMin,
		BudgetMax:   in.BudgetMax,
		Services:    services,
	}
	if err := s.db.WithContext(ctx).Create(&order).Error; err != nil {
		return uuid.Nil, err
	}
	return order.ID, nil
}

// Edit — правка заявки заказчиком. Допускается только пока заявка
// открыта и ни один слот не подтверждён: список услуг и дата задают
// слоты и календарные обязательства, менять их под подтверждёнными
// исполнителями нельзя. Отклики по исключённым услугам удаляются.
func (s *OrderService) Edit(ctx context.Context, orderID, customerID uuid.UUID, in CreateRequestInput) error {
	if err := calendar.ValidateEventDate(in.EventDate, s.now()); err != nil {
		return err
	}
	services, err := normalizeServices(in.Services)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := loadOwnedOpenOrder(tx, orderID, customerID)
		if err != nil {
			return err
		}
		if order.OrderType != model.OrderTypeRequest || order.Status != model.OrderStatusNew || len(order.Selected) > 0 {
			return ErrOrderNotOpen
		}

		err = tx.
			Where("order_id = ? AND service_code NOT IN ?", order.ID, []model.ServiceCode(services)).
			Delete(&model.OrderResponse{}).Error
		if err != nil {
			return err
		}

		return tx.Model(&model.Order{}).
			Where("id = ?", order.ID).
			Updates(map[string]any{
				"title":       in.Title,
				"event_date":  calendar.ToDate(in.EventDate),
				"city":        in.City,
				"venue":       in.Venue,
				"guest_count": in.GuestCount,
				"description": in.Description,
				"budget_min":  in.BudgetMin,
				"budget_max":  in.BudgetMax,
				"services":    services,
			}).Error
	})
}

// Get возвращает заказ с подтверждёнными исполнителями и откликами.
func (s *OrderService) Get(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// OpenSlots — услуги заказа без подтверждённого исполнителя.
func (s *OrderService) OpenSlots(ctx context.Context, orderID uuid.UUID) ([]model.ServiceCode, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	selected, err := loadSelected(s.db.WithContext(ctx), orderID)
	if err != nil {
		return nil, err
	}
	return openSlotCodes(order, selected), nil
}

// Cancel — отмена заказчиком. Перед сменой статуса освобождаются все
// занятые заказом дни (у составного заказа их может быть несколько),
// удаляются отклики и отзываются pending-предложения.
func (s *OrderService) Cancel(ctx context.Context, orderID, actingUserID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := loadOwnedOpenOrder(tx, orderID, actingUserID)
		if err != nil {
			return err
		}
		if err := cleanupOrder(tx, order); err != nil {
			return err
		}
		return transitionStatus(tx, order.ID, model.OrderStatusCancelled)
	})
}

// Delete — жёсткое удаление: очистка как при отмене, затем удаление
// заказа и его дочерних записей.
func (s *OrderService) Delete(ctx context.Context, orderID, actingUserID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := loadOwnedOpenOrder(tx, orderID, actingUserID)
		if err != nil {
			return err
		}
		if err := cleanupOrder(tx, order); err != nil {
			return err
		}
		for _, m := range []any{
			&model.SelectedPerformer{},
			&model.OrderResponse{},
			&model.BookingProposal{},
			&model.Review{},
		} {
			if err := tx.Where("order_id = ?", order.ID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.Order{}, "id = ?", order.ID).Error
	})
}

// Withdraw — подтверждённый исполнитель снимается с заказа: день
// освобождается, слот (или прямое назначение) очищается, его отклики
// по заказу удаляются, заказ возвращается в new.
func (s *OrderService) Withdraw(ctx context.Context, orderID, performerID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Closed() {
			return ErrOrderClosed
		}

		eventDate := time.Time(order.EventDate)

		if order.PerformerID != nil && *order.PerformerID == performerID {
			if err := releaseBusyDate(tx, performerID, eventDate); err != nil {
				return err
			}
			err := tx.Model(&model.Order{}).
				Where("id = ?", order.ID).
				Updates(map[string]any{
					"performer_id": nil,
					"status":       model.OrderStatusNew,
				}).Error
			if err != nil {
				return err
			}
			return deletePerformerResponses(tx, order.ID, performerID)
		}

		var sel model.SelectedPerformer
		err := tx.Where("order_id = ? AND performer_id = ?", order.ID, performerID).Take(&sel).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotAssigned
			}
			return err
		}

		if err := releaseBusyDate(tx, performerID, eventDate); err != nil {
			return err
		}
		if err := releaseSlot(tx, &order, sel.ServiceCode); err != nil {
			return err
		}
		return deletePerformerResponses(tx, order.ID, performerID)
	})
}

// Complete — внешняя точка завершения: только in_progress → completed.
func (s *OrderService) Complete(ctx context.Context, orderID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Closed() {
			return ErrOrderClosed
		}
		if order.Status != model.OrderStatusInProgress {
			return ErrOrderNotOpen
		}
		return transitionStatus(tx, order.ID, model.OrderStatusCompleted)
	})
}

// SubmitReview — отзыв по завершённому заказу с пересчётом средней
// оценки получателя.
func (s *OrderService) SubmitReview(ctx context.Context, orderID, fromUserID uuid.UUID, rating int, text string) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Status != model.OrderStatusCompleted {
			return ErrOrderNotOpen
		}

		toUserID, err := reviewRecipient(tx, &order, fromUserID)
		if err != nil {
			return err
		}

		review := model.Review{
			OrderID:    order.ID,
			FromUserID: fromUserID,
			ToUserID:   toUserID,
			Rating:     rating,
			Text:       text,
		}
		if err := tx.Create(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyReviewed
			}
			return err
		}

		var avg float64
		err = tx.Model(&model.Review{}).
			Where("to_user_id = ?", toUserID).
			Select("AVG(rating)").
			Scan(&avg).Error
		if err != nil {
			return err
		}
		return tx.Model(&model.User{}).
			Where("id = ?", toUserID).
			Update("rating", avg).
			Error
	})
}

// ListByCustomer — заказы заказчика.
func (s *OrderService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Order, error) {
	return s.orderRepo.ListByCustomer(ctx, customerID)
}

// ListAvailableForPerformer — открытые заявки под услугу исполнителя.
func (s *OrderService) ListAvailableForPerformer(ctx context.Context, performerID uuid.UUID) ([]model.Order, error) {
	performer, err := s.userRepo.GetPerformer(ctx, performerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if performer.ServiceType == nil {
		return nil, ErrPermissionDenied
	}
	return s.orderRepo.ListAvailableForPerformer(ctx, performerID, *performer.ServiceType)
}

// ListActiveByPerformer — активные заказы исполнителя.
func (s *OrderService) ListActiveByPerformer(ctx context.Context, performerID uuid.UUID) ([]model.Order, error) {
	return s.orderRepo.ListActiveByPerformer(ctx, performerID)
}

// normalizeServices валидирует и дедуплицирует список услуг заявки.
func normalizeServices(codes []model.ServiceCode) (datatypes.JSONSlice[model.ServiceCode], error) {
	if len(codes) == 0 {
		return nil, ErrInvalidService
	}
	seen := make(map[model.ServiceCode]struct{}, len(codes))
	result := make(datatypes.JSONSlice[model.ServiceCode], 0, len(codes))
	for _, c := range codes {
		if !c.Valid() {
			return nil, ErrInvalidService
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		result = append(result, c)
	}
	return result, nil
}

// loadOwnedOpenOrder загружает заказ с подтверждёнными исполнителями и
// проверяет владельца и открытость.
func loadOwnedOpenOrder(tx *gorm.DB, orderID, actingUserID uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := tx.Preload("Selected").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.CustomerID != actingUserID {
		return nil, ErrPermissionDenied
	}
	if order.Closed() {
		return nil, ErrOrderClosed
	}
	return &order, nil
}

// cleanupOrder снимает все занятые заказом дни, удаляет отклики и
// отзывает нерешённые предложения.
func cleanupOrder(tx *gorm.DB, order *model.Order) error {
	if err := releaseOrderDates(tx, order); err != nil {
		return err
	}
	if err := tx.Where("order_id = ?", order.ID).Delete(&model.OrderResponse{}).Error; err != nil {
		return err
	}
	return tx.Model(&model.BookingProposal{}).
		Where("order_id = ? AND status = ?", order.ID, model.ProposalStatusPending).
		Update("status", model.ProposalStatusRejected).
		Error
}

// transitionStatus — условный переход: статус меняется, только если
// заказ всё ещё открыт. Ноль затронутых строк — заказ закрыли раньше.
func transitionStatus(tx *gorm.DB, orderID uuid.UUID, to model.OrderStatus) error {
	res := tx.Model(&model.Order{}).
		Where("id = ? AND status IN ?", orderID,
			[]model.OrderStatus{model.OrderStatusNew, model.OrderStatusInProgress}).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderClosed
	}
	return nil
}

func deletePerformerResponses(tx *gorm.DB, orderID, performerID uuid.UUID) error {
	return tx.
		Where("order_id = ? AND performer_id = ?", orderID, performerID).
		Delete(&model.OrderResponse{}).
		Error
}

// reviewRecipient определяет адресата отзыва: заказчик оценивает
// прямого исполнителя, исполнитель (прямой или подтверждённый по
// слоту) — заказчика.
func reviewRecipient(tx *gorm.DB, order *model.Order, fromUserID uuid.UUID) (uuid.UUID, error) {
	if fromUserID == order.CustomerID {
		if order.PerformerID == nil {
			return uuid.Nil, ErrNotAssigned
		}
		return *order.PerformerID, nil
	}
	if order.PerformerID != nil && *order.PerformerID == fromUserID {
		return order.CustomerID, nil
	}
	var sel model.SelectedPerformer
	err := tx.Where("order_id = ? AND performer_id = ?", order.ID, fromUserID).Take(&sel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrPermissionDenied
		}
		return uuid.Nil, err
	}
	return order.CustomerID, nil
}

package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventar/marketplace-core/internal/model"
)

// Леджер слотов: соответствие запрошенных услуг заказа подтверждённым
// исполнителям. Работает только внутри транзакций вызывающих операций —
// заполнение последнего слота и перевод заказа в in_progress снаружи
// наблюдаются одним шагом.

// openSlotCodes — услуги заказа, на которые ещё нет подтверждённого
// исполнителя.
func openSlotCodes(order *model.Order, selected []model.SelectedPerformer) []model.ServiceCode {
	filled := make(map[model.ServiceCode]struct{}, len(selected))
	for _, s := range selected {
		filled[s.ServiceCode] = struct{}{}
	}
	var open []model.ServiceCode
	for _, code := range order.Services {
		if _, ok := filled[code]; !ok {
			open = append(open, code)
		}
	}
	return open
}

func loadSelected(tx *gorm.DB, orderID uuid.UUID) ([]model.SelectedPerformer, error) {
	var selected []model.SelectedPerformer
	if err := tx.Where("order_id = ?", orderID).Find(&selected).Error; err != nil {
		return nil, err
	}
	return selected, nil
}

// confirmSlot закрепляет исполнителя за слотом заказа. Повторное
// подтверждение того же исполнителя идемпотентно; чужой занятый слот —
// ErrSlotAlreadyFilled, в том числе при проигранной гонке (уникальный
// индекс (order_id, service_code)). При полном покрытии услуг заказ
// переводится в in_progress тем же запросом транзакции.
func confirmSlot(tx *gorm.DB, order *model.Order, code model.ServiceCode, performerID uuid.UUID) error {
	if !order.HasService(code) {
		return ErrInvalidService
	}

	var existing model.SelectedPerformer
	err := tx.Where("order_id = ? AND service_code = ?", order.ID, code).Take(&existing).Error
	switch {
	case err == nil:
		if existing.PerformerID == performerID {
			return nil
		}
		return ErrSlotAlreadyFilled
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	sel := model.SelectedPerformer{
		OrderID:     order.ID,
		ServiceCode: code,
		PerformerID: performerID,
	}
	if err := tx.Create(&sel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrSlotAlreadyFilled
		}
		return err
	}

	selected, err := loadSelected(tx, order.ID)
	if err != nil {
		return err
	}
	if len(openSlotCodes(order, selected)) > 0 {
		return nil
	}

	res := tx.Model(&model.Order{}).
		Where("id = ? AND status = ?", order.ID, model.OrderStatusNew).
		Update("status", model.OrderStatusInProgress)
	if res.Error != nil {
		return res.Error
	}
	order.Status = model.OrderStatusInProgress
	return nil
}

// releaseSlot освобождает слот (подтверждённый исполнитель отказался)
// и возвращает заказ из in_progress в new.
func releaseSlot(tx *gorm.DB, order *model.Order, code model.ServiceCode) error {
	err := tx.
		Where("order_id = ? AND service_code = ?", order.ID, code).
		Delete(&model.SelectedPerformer{}).Error
	if err != nil {
		return err
	}
	if order.Status != model.OrderStatusInProgress {
		return nil
	}
	res := tx.Model(&model.Order{}).
		Where("id = ? AND status = ?", order.ID, model.OrderStatusInProgress).
		Update("status", model.OrderStatusNew)
	if res.Error != nil {
		return res.Error
	}
	order.Status = model.OrderStatusNew
	return nil
}

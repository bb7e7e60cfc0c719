package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// order_responses — отклик исполнителя на открытый слот заявки.
// Уникальность (order_id, performer_id): повторный отклик невозможен.
// Код услуги фиксируется в момент отклика, чтобы арбитраж по слоту
// не зависел от последующих правок профиля исполнителя.
type OrderResponse struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	OrderID     uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:uniq_order_response"`
	PerformerID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:uniq_order_response"`
	ServiceCode ServiceCode `gorm:"type:varchar(32);not null;index"`

	// Предложенная цена в минимальных денежных единицах.
	Price   int64  `gorm:"not null;default:0"`
	Message string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null"`

	Order     *Order `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Performer *User  `gorm:"foreignKey:PerformerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (r *OrderResponse) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

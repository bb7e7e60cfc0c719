package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// reviews — отзыв по завершённому заказу. Один отзыв от пользователя
// на заказ; оценка получателя пересчитывается как среднее.
type Review struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	OrderID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_order_reviewer"`
	FromUserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uniq_order_reviewer"`
	ToUserID   uuid.UUID `gorm:"type:uuid;not null;index"`

	// Оценка 1..5.
	Rating int    `gorm:"not null"`
	Text   string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null"`

	Order    *Order `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	FromUser *User  `gorm:"foreignKey:FromUserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	ToUser   *User  `gorm:"foreignKey:ToUserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

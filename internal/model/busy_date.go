package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Источник занятости: вручную отмеченная дата либо дата,
// занятая подтверждённым заказом. Даты заказов снимаются только
// машиной состояний заказа, ручные — самим исполнителем.
type BusyDateSource string

const (
	BusyDateSourceManual BusyDateSource = "manual"
	BusyDateSourceOrder  BusyDateSource = "order"
)

// busy_dates — занятый календарный день исполнителя.
// Уникальный индекс (user_id, date) и есть та самая атомарная защита:
// из двух конкурентных заявок на день ровно одна получает строку.
type BusyDate struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	UserID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uniq_user_date"`
	Date   datatypes.Date `gorm:"type:date;not null;uniqueIndex:uniq_user_date"`

	Source BusyDateSource `gorm:"type:varchar(16);not null;default:'manual'"`

	CreatedAt time.Time `gorm:"not null"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (b *BusyDate) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

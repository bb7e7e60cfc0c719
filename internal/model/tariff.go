package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// tariffs — именованный прайс исполнителя. На тариф могут ссылаться
// бронирования и предложения, поэтому удаление ограничено на уровне БД.
type Tariff struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index"`

	Name        string `gorm:"type:varchar(255);not null"`
	Price       int64  `gorm:"not null"`
	Description string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (t *Tariff) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

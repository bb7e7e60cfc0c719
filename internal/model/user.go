package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Тип пользователя: исполнитель предоставляет одну услугу,
// заказчик создаёт заявки и бронирования.
type UserType string

const (
	UserTypePerformer UserType = "performer"
	UserTypeCustomer  UserType = "customer"
)

// users
type User struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	PhoneNumber string `gorm:"type:varchar(32);not null;uniqueIndex"`
	FirstName   string `gorm:"type:varchar(255)"`
	LastName    string `gorm:"type:varchar(255)"`
	City        string `gorm:"type:varchar(128);index"`

	UserType UserType `gorm:"type:varchar(16);not null;index"`

	// Только для исполнителей: одна услуга из фиксированного перечня.
	ServiceType *ServiceCode `gorm:"type:varchar(32);index"`

	CompanyName string `gorm:"type:varchar(255)"`
	Bio         string `gorm:"type:text"`

	// Средняя оценка по отзывам, 0..5.
	Rating float64 `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	// Навигационные поля (опционально, удобно для Preload).
	Tariffs   []Tariff   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	BusyDates []BusyDate `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsPerformer — пользователь является исполнителем с заданной услугой.
func (u *User) IsPerformer() bool {
	return u.UserType == UserTypePerformer && u.ServiceType != nil
}

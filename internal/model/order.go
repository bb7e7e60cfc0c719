package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderType string

const (
	// Составная заявка: перечень услуг, заполняется через отклики.
	OrderTypeRequest OrderType = "request"
	// Прямое бронирование одного исполнителя.
	OrderTypeBooking OrderType = "booking"
)

type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// orders
type Order struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`

	// Прямое назначение исполнителя: бронирования и принятые предложения.
	PerformerID *uuid.UUID `gorm:"type:uuid;index"`

	OrderType OrderType   `gorm:"type:varchar(16);not null;index"`
	Status    OrderStatus `gorm:"type:varchar(16);not null;index"`

	Title     string         `gorm:"type:varchar(255);not null"`
	EventDate datatypes.Date `gorm:"type:date;not null;index"`

	City       string `gorm:"type:varchar(128)"`
	Venue      string `gorm:"type:varchar(255)"`
	GuestCount int    `gorm:"not null;default:0"`

	Description string `gorm:"type:text"`
	Details     string `gorm:"type:text"`

	// Бюджет в минимальных денежных единицах. Для бронирования
	// обе границы равны цене выбранного тарифа.
	BudgetMin int64 `gorm:"not null;default:0"`
	BudgetMax int64 `gorm:"not null;default:0"`

	// Запрошенные услуги заявки. После создания это авторитетный
	// список слотов: подтверждения вне него невозможны.
	Services datatypes.JSONSlice[ServiceCode] `gorm:"not null"`

	TariffID *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`

	Customer  *User   `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Performer *User   `gorm:"foreignKey:PerformerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Tariff    *Tariff `gorm:"foreignKey:TariffID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`

	Selected  []SelectedPerformer `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Responses []OrderResponse     `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// HasService — услуга входит в запрошенный список заказа.
func (o *Order) HasService(code ServiceCode) bool {
	for _, c := range o.Services {
		if c == code {
			return true
		}
	}
	return false
}

// Closed — заказ в терминальном статусе, переходы запрещены.
func (o *Order) Closed() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}

// selected_performers — подтверждённый исполнитель на слот заказа.
// Уникальность (order_id, service_code) гарантирует одного победителя
// на слот даже при конкурентных подтверждениях.
type SelectedPerformer struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	OrderID     uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:uniq_order_service"`
	ServiceCode ServiceCode `gorm:"type:varchar(32);not null;uniqueIndex:uniq_order_service"`
	PerformerID uuid.UUID   `gorm:"type:uuid;not null;index"`

	CreatedAt time.Time `gorm:"not null"`

	Order     *Order `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Performer *User  `gorm:"foreignKey:PerformerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (s *SelectedPerformer) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

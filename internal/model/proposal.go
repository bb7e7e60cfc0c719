package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "pending"
	ProposalStatusAccepted ProposalStatus = "accepted"
	ProposalStatusRejected ProposalStatus = "rejected"
)

// booking_proposals — предложение заказчика конкретному исполнителю
// (легаси-вариант прямого бронирования). Частичный уникальный индекс
// (performer_id, date) по pending-строкам: на пару (исполнитель, дата)
// не более одного нерешённого предложения, разрешённые не мешают новым.
type BookingProposal struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	OrderID     uuid.UUID `gorm:"type:uuid;not null;index"`
	PerformerID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uniq_pending_proposal,where:status = 'pending'"`
	TariffID    uuid.UUID `gorm:"type:uuid;not null"`

	Date   datatypes.Date `gorm:"type:date;not null;index;uniqueIndex:uniq_pending_proposal"`
	Status ProposalStatus `gorm:"type:varchar(16);not null;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Order     *Order  `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Performer *User   `gorm:"foreignKey:PerformerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Tariff    *Tariff `gorm:"foreignKey:TariffID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (p *BookingProposal) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

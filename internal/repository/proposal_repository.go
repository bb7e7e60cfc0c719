package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventar/marketplace-core/internal/model"
)

type ProposalRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.BookingProposal, error)
	ListPendingByPerformer(ctx context.Context, performerID uuid.UUID) ([]model.BookingProposal, error)
}

type GormProposalRepository struct {
	db *gorm.DB
}

func NewGormProposalRepository(db *gorm.DB) *GormProposalRepository {
	return &GormProposalRepository{db: db}
}

func (r *GormProposalRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.BookingProposal, error) {
	var p model.BookingProposal
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormProposalRepository) ListPendingByPerformer(ctx context.Context, performerID uuid.UUID) ([]model.BookingProposal, error) {
	var proposals []model.BookingProposal
	err := r.db.WithContext(ctx).
		Preload("Order").
		Preload("Tariff").
		Where("performer_id = ? AND status = ?", performerID, model.ProposalStatusPending).
		Order("created_at DESC").
		Find(&proposals).Error
	if err != nil {
		return nil, err
	}
	return proposals, nil
}

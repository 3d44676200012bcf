package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/verses-xyz/interdependence/internal/infra/database/models"
	"github.com/verses-xyz/interdependence/internal/service"
)

type VerificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

func (r *VerificationRepository) Upsert(ctx context.Context, handle, address string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "handle"}},
		DoUpdates: clause.Assignments(map[string]any{"address": address}),
	}).Create(&models.VerifiedHandle{
		Handle:  handle,
		Address: address,
	}).Error
}

func (r *VerificationRepository) Get(ctx context.Context, handle string) (string, bool, error) {
	var row models.VerifiedHandle
	err := r.db.WithContext(ctx).Where("handle = ?", handle).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Address, true, nil
}

var _ service.VerificationStore = (*VerificationRepository)(nil)

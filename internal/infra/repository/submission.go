package repository

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/verses-xyz/interdependence/internal/infra/database/models"
	"github.com/verses-xyz/interdependence/internal/usecase"
)

type SubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// CreateSignature inserts a submission, reporting false when the same
// address already signed the declaration.
func (r *SubmissionRepository) CreateSignature(ctx context.Context, sub usecase.SignatureSubmission) (bool, error) {
	row := models.SignatureSubmission{
		DeclarationTxID: sub.DeclarationTxID,
		Address:         sub.Address,
		Name:            sub.Name,
		Handle:          sub.Handle,
		Signature:       sub.Signature,
		Verified:        sub.Verified,
		LedgerTxID:      sub.LedgerTxID,
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "declaration_tx_id"}, {Name: "address"}},
		DoNothing: true,
	}).Create(&row)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *SubmissionRepository) CreateFork(ctx context.Context, fork usecase.ForkRecord) error {
	authors, err := json.Marshal(fork.Authors)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		DoNothing: true,
	}).Create(&models.Fork{
		OldTxID: fork.OldTxID,
		NewTxID: fork.NewTxID,
		Text:    fork.Text,
		Authors: string(authors),
	}).Error
}

var _ usecase.SubmissionRepository = (*SubmissionRepository)(nil)

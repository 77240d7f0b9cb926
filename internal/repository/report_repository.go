package repository

import (
	"context"

	"rt-portal/internal/domain/report"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &PostgresReportRepository{db: db}
}

func (r *PostgresReportRepository) Create(ctx context.Context, rep *report.Report) error {
	if err := r.db.WithContext(ctx).Create(rep).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// GetByID loads the report together with its owner, whose rt_id scopes access.
func (r *PostgresReportRepository) GetByID(ctx context.Context, id uuid.UUID) (report.Report, error) {
	var rep report.Report
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&rep).Error
	if err != nil {
		return report.Report{}, translateError(err)
	}
	return rep, nil
}

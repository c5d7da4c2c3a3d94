package activity

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=activity_repo.go -destination=mock/activity_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, a *GateActivity) error
	FindAllByGatePass(ctx context.Context, gatePassID string) ([]GateActivity, error)
	FindRecent(ctx context.Context, limit int) ([]GateActivity, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *GateActivity) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindAllByGatePass(ctx context.Context, gatePassID string) ([]GateActivity, error) {
	var activities []GateActivity
	err := r.db.WithContext(ctx).
		Where("gate_pass_id = ?", gatePassID).
		Order("occurred_at ASC").
		Find(&activities).Error
	return activities, err
}

func (r *repository) FindRecent(ctx context.Context, limit int) ([]GateActivity, error) {
	var activities []GateActivity
	err := r.db.WithContext(ctx).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}

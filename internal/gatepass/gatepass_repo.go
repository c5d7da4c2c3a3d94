package gatepass

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"

	"go-gatepass/internal/tenant"
)

//go:generate mockgen -source=gatepass_repo.go -destination=mock/gatepass_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, gp *GatePass) error
	FindByID(ctx context.Context, id string) (*GatePass, error)
	FindAllByRequester(ctx context.Context, requesterID string) ([]GatePass, error)
	FindByStatus(ctx context.Context, status, departmentID string) ([]GatePass, error)
	FindUsedSince(ctx context.Context, since time.Time) ([]GatePass, error)
	// UpdateWithStatusCheck persists the mutated pass only if its stored
	// status still equals fromStatus. Returns false when a concurrent
	// decision won the race.
	UpdateWithStatusCheck(ctx context.Context, gp *GatePass, fromStatus string) (bool, error)
	// SetCheckinIfUnset writes checkin_at only while it is still null.
	// Check-in leaves status at USED, so a status compare alone would let
	// a double submit overwrite the first return time.
	SetCheckinIfUnset(ctx context.Context, gp *GatePass) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, gp *GatePass) error {
	return r.db.WithContext(ctx).Create(gp).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*GatePass, error) {
	var gp GatePass
	err := r.db.WithContext(ctx).First(&gp, "id = ?", id).Error
	return &gp, err
}

func (r *repository) FindAllByRequester(ctx context.Context, requesterID string) ([]GatePass, error) {
	var passes []GatePass
	err := r.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("created_at DESC").
		Find(&passes).Error
	return passes, err
}

func (r *repository) FindByStatus(ctx context.Context, status, departmentID string) ([]GatePass, error) {
	db := r.db.WithContext(ctx).Where("status = ?", status)
	if departmentID != "" {
		db = db.Scopes(tenant.Scope(departmentID))
	}

	var passes []GatePass
	err := db.Order("created_at ASC").Find(&passes).Error
	return passes, err
}

func (r *repository) FindUsedSince(ctx context.Context, since time.Time) ([]GatePass, error) {
	var passes []GatePass
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusUsed).
		Where("checkout_at >= ?", since).
		Order("checkout_at DESC").
		Find(&passes).Error
	return passes, err
}

func (r *repository) UpdateWithStatusCheck(ctx context.Context, gp *GatePass, fromStatus string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&GatePass{}).
		Where("id = ?", gp.ID).
		Where("status = ?", fromStatus).
		Select(
			"status",
			"staff_comment",
			"hod_comment",
			"academic_director_comment",
			"hostel_warden_comment",
			"security_comment",
			"checkout_at",
			"checkin_at",
			"updated_at",
		).
		Updates(gp)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) SetCheckinIfUnset(ctx context.Context, gp *GatePass) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&GatePass{}).
		Where("id = ?", gp.ID).
		Where("status = ?", StatusUsed).
		Where("checkin_at IS NULL").
		Select("checkin_at", "updated_at").
		Updates(gp)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

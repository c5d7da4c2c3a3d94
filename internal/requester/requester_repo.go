package requester

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"go-gatepass/internal/tenant"
)

//go:generate mockgen -source=requester_repo.go -destination=mock/requester_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *Requester) error
	FindByID(ctx context.Context, id string) (*Requester, error)
	FindAll(ctx context.Context) ([]Requester, error)
	FindAllByDepartment(ctx context.Context, departmentID string) ([]Requester, error)
	DepartmentExists(ctx context.Context, departmentID string) (bool, error)
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

func (r *repository) Create(ctx context.Context, req *Requester) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Requester, error) {
	var req Requester
	err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error
	return &req, err
}

func (r *repository) FindAll(ctx context.Context) ([]Requester, error) {
	var reqs []Requester
	err := r.db.WithContext(ctx).
		Order("full_name ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *repository) FindAllByDepartment(ctx context.Context, departmentID string) ([]Requester, error) {
	var reqs []Requester
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(departmentID)).
		Order("full_name ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *repository) DepartmentExists(ctx context.Context, departmentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("departments").
		Where("id = ?", departmentID).
		Count(&count).Error
	return count > 0, err
}

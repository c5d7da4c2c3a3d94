package requester

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"go.uber.org/zap"

	requestererrors "go-gatepass/internal/requester/errors"
)

//go:generate mockgen -source=requester_service.go -destination=mock/requester_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateRequesterRequest) (RequesterResponse, error)
	GetByID(ctx context.Context, id string) (RequesterResponse, error)
	GetAll(ctx context.Context, departmentID string) ([]RequesterResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("requester.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("requester.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateRequesterRequest) (RequesterResponse, error) {
	s.logger.Debug("create requester requested",
		zap.String("kind", req.Kind),
		zap.String("email", req.Email),
		zap.String("department_id", req.DepartmentID),
	)

	if req.Kind == KindStudent && req.Accommodation == "" {
		return RequesterResponse{}, requestererrors.ErrAccommodationRequired
	}
	if req.Kind != KindStudent && req.Accommodation != "" {
		return RequesterResponse{}, requestererrors.ErrAccommodationNotAllowed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create requester begin tx failed", zap.Error(err))
		return RequesterResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.DepartmentExists(ctx, req.DepartmentID)
	if err != nil {
		s.logger.Error("create requester department check failed", zap.Error(err))
		return RequesterResponse{}, err
	}
	if !exists {
		return RequesterResponse{}, requestererrors.ErrDepartmentNotFound
	}

	r := &Requester{
		ID:           uuid.New(),
		Kind:         req.Kind,
		FullName:     req.FullName,
		Email:        req.Email,
		DepartmentID: uuid.MustParse(req.DepartmentID),
	}
	if req.Accommodation != "" {
		acc := req.Accommodation
		r.Accommodation = &acc
	}

	if err := qtx.Create(ctx, r); err != nil {
		s.logger.Error("create requester persist failed", zap.Error(err))
		return RequesterResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create requester commit failed", zap.Error(err))
		return RequesterResponse{}, err
	}
	s.logger.Info("create requester success",
		zap.String("requester_id", r.ID.String()),
		zap.String("kind", r.Kind),
	)

	return mapToResponse(*r), nil
}

func (s *service) GetByID(ctx context.Context, id string) (RequesterResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return RequesterResponse{}, requestererrors.ErrInvalidRequesterID
	}

	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return RequesterResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*r), nil
}

func (s *service) GetAll(ctx context.Context, departmentID string) ([]RequesterResponse, error) {
	var (
		reqs []Requester
		err  error
	)
	if departmentID != "" {
		reqs, err = s.repo.FindAllByDepartment(ctx, departmentID)
	} else {
		reqs, err = s.repo.FindAll(ctx)
	}
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(reqs), nil
}

func mapToResponse(r Requester) RequesterResponse {
	return RequesterResponse{
		ID:            r.ID.String(),
		Kind:          r.Kind,
		FullName:      r.FullName,
		Email:         r.Email,
		DepartmentID:  r.DepartmentID.String(),
		Accommodation: r.Accommodation,
	}
}

func mapToListResponse(reqs []Requester) []RequesterResponse {
	resp := make([]RequesterResponse, len(reqs))
	for i, r := range reqs {
		resp[i] = mapToResponse(r)
	}
	return resp
}

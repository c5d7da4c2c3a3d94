package activity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	activityerrors "go-gatepass/internal/activity/errors"
	"go-gatepass/internal/events"
)

type Service interface {
	Record(ctx context.Context, event events.GatePassDecidedEvent) error
	GetByGatePass(ctx context.Context, gatePassID string) ([]ActivityResponse, error)
	GetRecent(ctx context.Context, limit int) ([]ActivityResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("activity.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("activity.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Record(ctx context.Context, event events.GatePassDecidedEvent) error {
	gatePassID, err := uuid.Parse(event.GatePassID)
	if err != nil {
		return activityerrors.ErrInvalidGatePassID
	}

	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	a := &GateActivity{
		ID:         uuid.New(),
		GatePassID: gatePassID,
		PassNumber: event.PassNumber,
		Action:     event.Action,
		ActorID:    event.ActorID,
		ActorRole:  event.ActorRole,
		Comment:    event.Comment,
		FromStatus: event.FromStatus,
		ToStatus:   event.ToStatus,
		OccurredAt: occurredAt,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		if isDuplicateTransition(err) {
			return activityerrors.ErrDuplicateActivity
		}
		return err
	}

	s.logger.Debug("gate activity recorded",
		zap.String("gatepass_id", event.GatePassID),
		zap.String("action", event.Action),
		zap.String("to_status", event.ToStatus),
	)
	return nil
}

func (s *service) GetByGatePass(ctx context.Context, gatePassID string) ([]ActivityResponse, error) {
	if _, err := uuid.Parse(gatePassID); err != nil {
		return nil, activityerrors.ErrInvalidGatePassID
	}

	activities, err := s.repo.FindAllByGatePass(ctx, gatePassID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(activities), nil
}

func (s *service) GetRecent(ctx context.Context, limit int) ([]ActivityResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	activities, err := s.repo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(activities), nil
}

func isDuplicateTransition(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_gate_activity_transition"
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_gate_activity_transition")
}

func mapToResponse(a GateActivity) ActivityResponse {
	return ActivityResponse{
		ID:         a.ID.String(),
		GatePassID: a.GatePassID.String(),
		PassNumber: a.PassNumber,
		Action:     a.Action,
		ActorID:    a.ActorID,
		ActorRole:  a.ActorRole,
		Comment:    a.Comment,
		FromStatus: a.FromStatus,
		ToStatus:   a.ToStatus,
		OccurredAt: a.OccurredAt.Format(time.RFC3339),
	}
}

func mapToListResponse(activities []GateActivity) []ActivityResponse {
	resp := make([]ActivityResponse, len(activities))
	for i, a := range activities {
		resp[i] = mapToResponse(a)
	}
	return resp
}

package gatepass

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"go-gatepass/internal/domain"
	"go-gatepass/internal/events"
	gatepasserrors "go-gatepass/internal/gatepass/errors"
	"go-gatepass/internal/messaging/kafka"
	"go-gatepass/internal/requester"
	"go-gatepass/internal/shared/contextutil"
	"go-gatepass/internal/shared/counter"
)

const (
	DefaultLeadTime = 15 * time.Minute

	SecurityQueueCacheKey = "gatepasses:security:queue"
	securityQueueCacheTTL = 30 * time.Second
)

type Config struct {
	// LeadTime is the minimum gap between "now" and start_at at creation.
	LeadTime time.Duration
}

//go:generate mockgen -source=gatepass_service.go -destination=mock/gatepass_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, requesterID string, req CreateGatePassRequest) (GatePassResponse, error)
	GetMine(ctx context.Context, requesterID string) ([]GatePassResponse, error)
	GetByID(ctx context.Context, id string) (GatePassResponse, error)
	GetPendingForRole(ctx context.Context, role, departmentID string) ([]GatePassResponse, error)
	GetForSecurityVerification(ctx context.Context) ([]GatePassResponse, error)
	GetUsedRecently(ctx context.Context, window time.Duration) ([]GatePassResponse, error)
	Decide(ctx context.Context, id, actorID, actingRole, decision, comment string) (GatePassResponse, error)
	VerifyAtGate(ctx context.Context, id, actorID, result, comment string) (GatePassResponse, error)
	CheckIn(ctx context.Context, id string) (GatePassResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	requesters requester.Repository
	counter    counter.Repository
	outbox     kafka.OutboxRepository
	rdb        *redis.Client
	sf         *singleflight.Group
	leadTime   time.Duration
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	requesters requester.Repository,
	counterRepo counter.Repository,
	cfg Config,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, requesters, counterRepo, nil, nil, cfg, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	requesters requester.Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	cfg Config,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("gatepass.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("gatepass.service")
	}
	leadTime := cfg.LeadTime
	if leadTime <= 0 {
		leadTime = DefaultLeadTime
	}
	return &service{
		db:         db,
		repo:       repo,
		requesters: requesters,
		counter:    counterRepo,
		outbox:     outboxRepo,
		rdb:        rdb,
		sf:         &singleflight.Group{},
		leadTime:   leadTime,
		logger:     l,
	}
}

func (s *service) Create(ctx context.Context, requesterID string, req CreateGatePassRequest) (GatePassResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create gate pass requested",
		zap.String("request_id", rid),
		zap.String("requester_id", requesterID),
		zap.String("type", req.Type),
		zap.String("start_at", req.StartAt),
		zap.String("end_at", req.EndAt),
	)

	requesterUUID, err := uuid.Parse(requesterID)
	if err != nil {
		return GatePassResponse{}, gatepasserrors.ErrInvalidRequesterID
	}
	if strings.TrimSpace(req.Reason) == "" {
		return GatePassResponse{}, gatepasserrors.ErrReasonRequired
	}

	startAt, err := parseTimestamp(req.StartAt)
	if err != nil {
		return GatePassResponse{}, err
	}
	endAt, err := parseTimestamp(req.EndAt)
	if err != nil {
		return GatePassResponse{}, err
	}

	now := time.Now().UTC()
	if !endAt.After(startAt) {
		return GatePassResponse{}, gatepasserrors.ErrEndBeforeStart
	}
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if startAt.Before(todayStart) {
		return GatePassResponse{}, gatepasserrors.ErrStartInPast
	}
	if startAt.Before(now.Add(s.leadTime)) {
		return GatePassResponse{}, gatepasserrors.ErrStartTooSoon
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create gate pass begin tx failed", zap.Error(err))
		return GatePassResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	req2, err := s.requesters.WithTx(tx).FindByID(ctx, requesterID)
	if err != nil {
		s.logger.Warn("create gate pass requester lookup failed",
			zap.String("requester_id", requesterID),
			zap.Error(err),
		)
		return GatePassResponse{}, gatepasserrors.ErrRequesterNotFound
	}

	initial, ok := InitialStatus(req2.Kind)
	if !ok {
		return GatePassResponse{}, gatepasserrors.ErrRequesterNotFound
	}

	nextVal, err := s.counter.GetNextValue(ctx, "gate_pass_number")
	if err != nil {
		s.logger.Error("create gate pass generate number failed", zap.Error(err))
		return GatePassResponse{}, err
	}

	gp := &GatePass{
		ID:            uuid.New(),
		PassNumber:    fmt.Sprintf("GP-%06d", nextVal),
		RequesterID:   requesterUUID,
		RequesterKind: req2.Kind,
		DepartmentID:  req2.DepartmentID,
		Type:          req.Type,
		Reason:        req.Reason,
		Description:   req.Description,
		StartAt:       startAt,
		EndAt:         endAt,
		Status:        initial,
	}

	if err := qtx.Create(ctx, gp); err != nil {
		s.logger.Error("create gate pass persist failed", zap.Error(err))
		return GatePassResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.GatePassCreatedEvent{
			EventType:     "gatepass_created",
			RequestID:     rid,
			GatePassID:    gp.ID.String(),
			PassNumber:    gp.PassNumber,
			RequesterID:   requesterID,
			RequesterKind: gp.RequesterKind,
			DepartmentID:  gp.DepartmentID.String(),
			Status:        gp.Status,
			OccurredAt:    now,
		}
		if err := s.enqueueOutbox(ctx, tx, events.GatePassCreatedTopic, gp.ID.String(), event.EventType, rid, event); err != nil {
			s.logger.Error("create gate pass outbox persist failed",
				zap.String("gatepass_id", gp.ID.String()),
				zap.Error(err),
			)
			return GatePassResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create gate pass commit failed", zap.Error(err))
		return GatePassResponse{}, err
	}
	s.logger.Info("create gate pass success",
		zap.String("request_id", rid),
		zap.String("gatepass_id", gp.ID.String()),
		zap.String("pass_number", gp.PassNumber),
		zap.String("status", gp.Status),
	)

	return mapToResponse(*gp, now), nil
}

func (s *service) GetMine(ctx context.Context, requesterID string) ([]GatePassResponse, error) {
	if _, err := uuid.Parse(requesterID); err != nil {
		return nil, gatepasserrors.ErrInvalidRequesterID
	}
	passes, err := s.repo.FindAllByRequester(ctx, requesterID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(passes, time.Now().UTC()), nil
}

func (s *service) GetByID(ctx context.Context, id string) (GatePassResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return GatePassResponse{}, gatepasserrors.ErrInvalidGatePassID
	}
	gp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return GatePassResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*gp, time.Now().UTC()), nil
}

func (s *service) GetPendingForRole(ctx context.Context, role, departmentID string) ([]GatePassResponse, error) {
	stage, ok := StageForRole(role)
	if !ok {
		return nil, gatepasserrors.ErrNoQueueForRole
	}

	// Department scoping only applies to department-bound approvers;
	// academic director and hostel warden queues are campus-wide.
	filter := ""
	if role == domain.RoleStaff || role == domain.RoleHOD {
		filter = departmentID
	}

	passes, err := s.repo.FindByStatus(ctx, stage.Pending, filter)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(passes, time.Now().UTC()), nil
}

func (s *service) GetForSecurityVerification(ctx context.Context) ([]GatePassResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, SecurityQueueCacheKey).Result(); err == nil {
			var resp []GatePassResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(SecurityQueueCacheKey, func() (interface{}, error) {
		passes, err := s.repo.FindByStatus(ctx, StatusApproved, "")
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		now := time.Now().UTC()
		resp := make([]GatePassResponse, 0, len(passes))
		for _, gp := range passes {
			if EffectiveStatus(gp.Status, gp.EndAt, now) == StatusExpired {
				continue
			}
			resp = append(resp, mapToResponse(gp, now))
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, SecurityQueueCacheKey, jsonData, securityQueueCacheTTL)
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]GatePassResponse), nil
}

func (s *service) GetUsedRecently(ctx context.Context, window time.Duration) ([]GatePassResponse, error) {
	if window <= 0 {
		window = 24 * time.Hour
	}
	now := time.Now().UTC()
	passes, err := s.repo.FindUsedSince(ctx, now.Add(-window))
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(passes, now), nil
}

func (s *service) Decide(ctx context.Context, id, actorID, actingRole, decision, comment string) (GatePassResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("decide gate pass requested",
		zap.String("request_id", rid),
		zap.String("gatepass_id", id),
		zap.String("actor_id", actorID),
		zap.String("acting_role", actingRole),
		zap.String("decision", decision),
	)

	if _, err := uuid.Parse(id); err != nil {
		return GatePassResponse{}, gatepasserrors.ErrInvalidGatePassID
	}
	if decision != DecisionApprove && decision != DecisionReject {
		return GatePassResponse{}, gatepasserrors.ErrUnknownDecision
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide gate pass begin tx failed", zap.Error(err))
		return GatePassResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	gp, err := qtx.FindByID(ctx, id)
	if err != nil {
		return GatePassResponse{}, mapRepositoryError(err)
	}
	if IsTerminal(gp.Status) {
		return GatePassResponse{}, gatepasserrors.ErrAlreadyFinalized
	}

	stage, ok := StageForStatus(gp.Status)
	if !ok {
		// APPROVED passes belong to the gate, not to approvers.
		return GatePassResponse{}, gatepasserrors.ErrNotAwaitingApproval
	}
	if actingRole != stage.Role {
		s.logger.Warn("decide gate pass wrong approver",
			zap.String("gatepass_id", id),
			zap.String("status", gp.Status),
			zap.String("acting_role", actingRole),
		)
		return GatePassResponse{}, gatepasserrors.ErrWrongApprover
	}

	now := time.Now().UTC()
	fromStatus := gp.Status

	switch decision {
	case DecisionReject:
		if strings.TrimSpace(comment) == "" {
			return GatePassResponse{}, gatepasserrors.ErrCommentRequired
		}
		gp.Status = stage.Rejected
	case DecisionApprove:
		// The hosteller branch is a property of the requester record and is
		// re-read on every transition, never cached on the pass.
		req, err := s.requesters.WithTx(tx).FindByID(ctx, gp.RequesterID.String())
		if err != nil {
			s.logger.Error("decide gate pass requester lookup failed",
				zap.String("gatepass_id", id),
				zap.Error(err),
			)
			return GatePassResponse{}, gatepasserrors.ErrRequesterNotFound
		}
		chain := ApprovalChain(req.Kind, req.IsHosteller())
		next, ok := NextStatus(chain, gp.Status)
		if !ok {
			return GatePassResponse{}, gatepasserrors.ErrNotAwaitingApproval
		}
		gp.Status = next
	}

	setStageComment(gp, stage, comment)
	gp.UpdatedAt = now

	applied, err := qtx.UpdateWithStatusCheck(ctx, gp, fromStatus)
	if err != nil {
		s.logger.Error("decide gate pass persist failed",
			zap.String("gatepass_id", id),
			zap.Error(err),
		)
		return GatePassResponse{}, mapRepositoryError(err)
	}
	if !applied {
		s.logger.Warn("decide gate pass lost optimistic race",
			zap.String("gatepass_id", id),
			zap.String("expected_status", fromStatus),
		)
		return GatePassResponse{}, gatepasserrors.ErrDecisionConflict
	}

	action := events.ActionApprove
	if decision == DecisionReject {
		action = events.ActionReject
	}
	if err := s.enqueueDecision(ctx, tx, gp, action, actorID, actingRole, comment, fromStatus, rid, now); err != nil {
		return GatePassResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide gate pass commit failed", zap.Error(err))
		return GatePassResponse{}, err
	}

	s.invalidateSecurityQueue(ctx)
	s.logger.Info("decide gate pass success",
		zap.String("request_id", rid),
		zap.String("gatepass_id", id),
		zap.String("from_status", fromStatus),
		zap.String("to_status", gp.Status),
	)

	return mapToResponse(*gp, now), nil
}

func (s *service) VerifyAtGate(ctx context.Context, id, actorID, result, comment string) (GatePassResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("verify gate pass requested",
		zap.String("request_id", rid),
		zap.String("gatepass_id", id),
		zap.String("actor_id", actorID),
		zap.String("result", result),
	)

	if _, err := uuid.Parse(id); err != nil {
		return GatePassResponse{}, gatepasserrors.ErrInvalidGatePassID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("verify gate pass begin tx failed", zap.Error(err))
		return GatePassResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	gp, err := qtx.FindByID(ctx, id)
	if err != nil {
		return GatePassResponse{}, mapRepositoryError(err)
	}

	now := time.Now().UTC()
	if gp.Status != StatusApproved {
		if IsTerminal(gp.Status) {
			return GatePassResponse{}, gatepasserrors.ErrAlreadyFinalized
		}
		return GatePassResponse{}, gatepasserrors.ErrNotAwaitingVerification
	}
	if EffectiveStatus(gp.Status, gp.EndAt, now) == StatusExpired {
		return GatePassResponse{}, gatepasserrors.ErrPassExpired
	}

	fromStatus := gp.Status

	switch result {
	case VerifyResultVerified:
		gp.Status = StatusUsed
		gp.CheckoutAt = &now
		if strings.TrimSpace(comment) != "" {
			c := comment
			gp.SecurityComment = &c
		}
	case VerifyResultRejected:
		if strings.TrimSpace(comment) == "" {
			return GatePassResponse{}, gatepasserrors.ErrCommentRequired
		}
		c := comment
		gp.Status = StatusRejectedBySecurity
		gp.SecurityComment = &c
	default:
		return GatePassResponse{}, gatepasserrors.ErrUnknownVerifyResult
	}

	gp.UpdatedAt = now

	applied, err := qtx.UpdateWithStatusCheck(ctx, gp, fromStatus)
	if err != nil {
		s.logger.Error("verify gate pass persist failed",
			zap.String("gatepass_id", id),
			zap.Error(err),
		)
		return GatePassResponse{}, mapRepositoryError(err)
	}
	if !applied {
		return GatePassResponse{}, gatepasserrors.ErrDecisionConflict
	}

	if err := s.enqueueDecision(ctx, tx, gp, events.ActionVerify, actorID, domain.RoleSecurity, comment, fromStatus, rid, now); err != nil {
		return GatePassResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("verify gate pass commit failed", zap.Error(err))
		return GatePassResponse{}, err
	}

	s.invalidateSecurityQueue(ctx)
	s.logger.Info("verify gate pass success",
		zap.String("request_id", rid),
		zap.String("gatepass_id", id),
		zap.String("to_status", gp.Status),
	)

	return mapToResponse(*gp, now), nil
}

func (s *service) CheckIn(ctx context.Context, id string) (GatePassResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return GatePassResponse{}, gatepasserrors.ErrInvalidGatePassID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("checkin gate pass begin tx failed", zap.Error(err))
		return GatePassResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	gp, err := qtx.FindByID(ctx, id)
	if err != nil {
		return GatePassResponse{}, mapRepositoryError(err)
	}
	if gp.Status != StatusUsed {
		return GatePassResponse{}, gatepasserrors.ErrNotCheckedOut
	}
	if gp.CheckinAt != nil {
		return GatePassResponse{}, gatepasserrors.ErrAlreadyCheckedIn
	}

	now := time.Now().UTC()
	gp.CheckinAt = &now
	gp.UpdatedAt = now

	applied, err := qtx.SetCheckinIfUnset(ctx, gp)
	if err != nil {
		s.logger.Error("checkin gate pass persist failed",
			zap.String("gatepass_id", id),
			zap.Error(err),
		)
		return GatePassResponse{}, mapRepositoryError(err)
	}
	if !applied {
		// A concurrent submit got there first; the row already carries
		// its checkin_at.
		return GatePassResponse{}, gatepasserrors.ErrAlreadyCheckedIn
	}

	rid := contextutil.GetRequestID(ctx)
	if err := s.enqueueDecision(ctx, tx, gp, events.ActionCheckin, "", domain.RoleSecurity, "", StatusUsed, rid, now); err != nil {
		return GatePassResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("checkin gate pass commit failed", zap.Error(err))
		return GatePassResponse{}, err
	}

	s.logger.Info("checkin gate pass success", zap.String("gatepass_id", id))
	return mapToResponse(*gp, now), nil
}

func (s *service) enqueueDecision(
	ctx context.Context,
	tx *sql.Tx,
	gp *GatePass,
	action, actorID, actorRole, comment, fromStatus, rid string,
	now time.Time,
) error {
	if s.outbox == nil {
		return nil
	}

	event := events.GatePassDecidedEvent{
		EventType:  "gatepass_decided",
		RequestID:  rid,
		GatePassID: gp.ID.String(),
		PassNumber: gp.PassNumber,
		Action:     action,
		ActorID:    actorID,
		ActorRole:  actorRole,
		Comment:    comment,
		FromStatus: fromStatus,
		ToStatus:   gp.Status,
		OccurredAt: now,
	}
	if err := s.enqueueOutbox(ctx, tx, events.GatePassDecidedTopic, gp.ID.String(), event.EventType, rid, event); err != nil {
		s.logger.Error("gate pass decision outbox persist failed",
			zap.String("gatepass_id", gp.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) enqueueOutbox(
	ctx context.Context,
	tx *sql.Tx,
	topic, aggregateID, eventType, rid string,
	payload any,
) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	event := kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "gatepass",
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         topic,
		Payload:       body,
		Status:        kafka.OutboxStatusPending,
	}
	if err := kafka.ValidateOutboxEvent(event); err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, event)
}

func (s *service) invalidateSecurityQueue(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, SecurityQueueCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate security queue cache",
			zap.Error(err),
			zap.String("key", SecurityQueueCacheKey),
		)
	}
}

func setStageComment(gp *GatePass, stage Stage, comment string) {
	if strings.TrimSpace(comment) == "" {
		return
	}
	c := comment

	switch stage.Role {
	case domain.RoleStaff:
		if gp.StaffComment == nil {
			gp.StaffComment = &c
		}
	case domain.RoleHOD:
		if gp.HODComment == nil {
			gp.HODComment = &c
		}
	case domain.RoleAcademicDirector:
		if gp.AcademicDirectorComment == nil {
			gp.AcademicDirectorComment = &c
		}
	case domain.RoleHostelWarden:
		if gp.HostelWardenComment == nil {
			gp.HostelWardenComment = &c
		}
	}
}

func parseTimestamp(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, gatepasserrors.ErrInvalidDateFormat
	}
	return t.UTC(), nil
}

func mapToResponse(gp GatePass, now time.Time) GatePassResponse {
	resp := GatePassResponse{
		ID:            gp.ID.String(),
		PassNumber:    gp.PassNumber,
		RequesterID:   gp.RequesterID.String(),
		RequesterKind: gp.RequesterKind,
		DepartmentID:  gp.DepartmentID.String(),
		Type:          gp.Type,
		Reason:        gp.Reason,
		Description:   gp.Description,
		StartAt:       gp.StartAt.Format(time.RFC3339),
		EndAt:         gp.EndAt.Format(time.RFC3339),
		Status:        EffectiveStatus(gp.Status, gp.EndAt, now),
		CreatedAt:     gp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     gp.UpdatedAt.Format(time.RFC3339),
	}

	resp.StaffComment = gp.StaffComment
	resp.HODComment = gp.HODComment
	resp.AcademicDirectorComment = gp.AcademicDirectorComment
	resp.HostelWardenComment = gp.HostelWardenComment
	resp.SecurityComment = gp.SecurityComment

	if gp.CheckoutAt != nil {
		v := gp.CheckoutAt.Format(time.RFC3339)
		resp.CheckoutAt = &v
	}
	if gp.CheckinAt != nil {
		v := gp.CheckinAt.Format(time.RFC3339)
		resp.CheckinAt = &v
	}

	return resp
}

func mapToListResponse(passes []GatePass, now time.Time) []GatePassResponse {
	resp := make([]GatePassResponse, len(passes))
	for i, gp := range passes {
		resp[i] = mapToResponse(gp, now)
	}
	return resp
}

package gatepass_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"go-gatepass/internal/domain"
	"go-gatepass/internal/gatepass"
	gatepasserrors "go-gatepass/internal/gatepass/errors"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeGatePassService struct {
	createFn          func(ctx context.Context, requesterID string, req gatepass.CreateGatePassRequest) (gatepass.GatePassResponse, error)
	getMineFn         func(ctx context.Context, requesterID string) ([]gatepass.GatePassResponse, error)
	getByIDFn         func(ctx context.Context, id string) (gatepass.GatePassResponse, error)
	getPendingFn      func(ctx context.Context, role, departmentID string) ([]gatepass.GatePassResponse, error)
	getSecurityFn     func(ctx context.Context) ([]gatepass.GatePassResponse, error)
	getUsedRecentlyFn func(ctx context.Context, window time.Duration) ([]gatepass.GatePassResponse, error)
	decideFn          func(ctx context.Context, id, actorID, actingRole, decision, comment string) (gatepass.GatePassResponse, error)
	verifyFn          func(ctx context.Context, id, actorID, result, comment string) (gatepass.GatePassResponse, error)
	checkInFn         func(ctx context.Context, id string) (gatepass.GatePassResponse, error)
}

func (f *fakeGatePassService) Create(ctx context.Context, requesterID string, req gatepass.CreateGatePassRequest) (gatepass.GatePassResponse, error) {
	return f.createFn(ctx, requesterID, req)
}
func (f *fakeGatePassService) GetMine(ctx context.Context, requesterID string) ([]gatepass.GatePassResponse, error) {
	return f.getMineFn(ctx, requesterID)
}
func (f *fakeGatePassService) GetByID(ctx context.Context, id string) (gatepass.GatePassResponse, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeGatePassService) GetPendingForRole(ctx context.Context, role, departmentID string) ([]gatepass.GatePassResponse, error) {
	return f.getPendingFn(ctx, role, departmentID)
}
func (f *fakeGatePassService) GetForSecurityVerification(ctx context.Context) ([]gatepass.GatePassResponse, error) {
	return f.getSecurityFn(ctx)
}
func (f *fakeGatePassService) GetUsedRecently(ctx context.Context, window time.Duration) ([]gatepass.GatePassResponse, error) {
	return f.getUsedRecentlyFn(ctx, window)
}
func (f *fakeGatePassService) Decide(ctx context.Context, id, actorID, actingRole, decision, comment string) (gatepass.GatePassResponse, error) {
	return f.decideFn(ctx, id, actorID, actingRole, decision, comment)
}
func (f *fakeGatePassService) VerifyAtGate(ctx context.Context, id, actorID, result, comment string) (gatepass.GatePassResponse, error) {
	return f.verifyFn(ctx, id, actorID, result, comment)
}
func (f *fakeGatePassService) CheckIn(ctx context.Context, id string) (gatepass.GatePassResponse, error) {
	return f.checkInFn(ctx, id)
}

func TestGatePassHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		requesterID := uuid.New().String()
		start := time.Now().UTC().Add(2 * time.Hour).Format(time.RFC3339)
		end := time.Now().UTC().Add(6 * time.Hour).Format(time.RFC3339)

		svc := &fakeGatePassService{
			createFn: func(ctx context.Context, rid string, req gatepass.CreateGatePassRequest) (gatepass.GatePassResponse, error) {
				assert.Equal(t, requesterID, rid)
				assert.Equal(t, "LEAVE", req.Type)
				assert.Equal(t, "Medical appointment", req.Reason)
				return gatepass.GatePassResponse{
					ID:          uuid.New().String(),
					PassNumber:  "GP-000007",
					RequesterID: rid,
					Type:        req.Type,
					Reason:      req.Reason,
					StartAt:     req.StartAt,
					EndAt:       req.EndAt,
					Status:      gatepass.StatusPendingStaff,
				}, nil
			},
		}

		h := gatepass.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"type":"LEAVE","reason":"Medical appointment","start_at":"` + start + `","end_at":"` + end + `"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/gatepasses", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("requester_id", requesterID)
		c.Set("user_id", uuid.New().String())

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var resp gatepass.GatePassResponse
		assert.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, "GP-000007", resp.PassNumber)
		assert.Equal(t, gatepass.StatusPendingStaff, resp.Status)
	})

	t.Run("negative binding error", func(t *testing.T) {
		h := gatepass.NewHandler(&fakeGatePassService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"type":"PICNIC","reason":""}`
		c.Request = httptest.NewRequest(http.MethodPost, "/gatepasses", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("requester_id", uuid.New().String())

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("negative token without requester", func(t *testing.T) {
		h := gatepass.NewHandler(&fakeGatePassService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/gatepasses", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
	})
}

func TestGatePassHandler_Approve(t *testing.T) {
	t.Run("success passes actor identity through", func(t *testing.T) {
		passID := uuid.New().String()
		actorID := uuid.New().String()

		svc := &fakeGatePassService{
			decideFn: func(ctx context.Context, id, aid, role, decision, comment string) (gatepass.GatePassResponse, error) {
				assert.Equal(t, passID, id)
				assert.Equal(t, actorID, aid)
				assert.Equal(t, domain.RoleHOD, role)
				assert.Equal(t, gatepass.DecisionApprove, decision)
				assert.Equal(t, "looks fine", comment)
				return gatepass.GatePassResponse{ID: id, Status: gatepass.StatusPendingAcademicDirector}, nil
			},
		}

		h := gatepass.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/gatepasses/"+passID+"/approve", strings.NewReader(`{"comment":"looks fine"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: passID}}
		c.Set("user_id", actorID)
		c.Set("role", domain.RoleHOD)

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("success without body", func(t *testing.T) {
		svc := &fakeGatePassService{
			decideFn: func(ctx context.Context, id, aid, role, decision, comment string) (gatepass.GatePassResponse, error) {
				assert.Empty(t, comment)
				return gatepass.GatePassResponse{ID: id, Status: gatepass.StatusPendingHOD}, nil
			},
		}

		h := gatepass.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/gatepasses/x/approve", nil)
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
		c.Set("user_id", uuid.New().String())
		c.Set("role", domain.RoleStaff)

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative wrong approver maps to forbidden", func(t *testing.T) {
		svc := &fakeGatePassService{
			decideFn: func(ctx context.Context, id, aid, role, decision, comment string) (gatepass.GatePassResponse, error) {
				return gatepass.GatePassResponse{}, gatepasserrors.ErrWrongApprover
			},
		}

		h := gatepass.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/gatepasses/x/approve", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
		c.Set("role", domain.RoleStaff)

		h.Approve(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})
}

func TestGatePassHandler_Reject(t *testing.T) {
	t.Run("negative missing comment fails binding", func(t *testing.T) {
		h := gatepass.NewHandler(&fakeGatePassService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/gatepasses/x/reject", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}

		h.Reject(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		svc := &fakeGatePassService{
			decideFn: func(ctx context.Context, id, aid, role, decision, comment string) (gatepass.GatePassResponse, error) {
				assert.Equal(t, gatepass.DecisionReject, decision)
				assert.Equal(t, "docs missing", comment)
				return gatepass.GatePassResponse{ID: id, Status: gatepass.StatusRejectedByStaff}, nil
			},
		}

		h := gatepass.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/gatepasses/x/reject", strings.NewReader(`{"comment":"docs missing"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
		c.Set("user_id", uuid.New().String())
		c.Set("role", domain.RoleStaff)

		h.Reject(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGatePassHandler_Verify(t *testing.T) {
	t.Run("success verified", func(t *testing.T) {
		svc := &fakeGatePassService{
			verifyFn: func(ctx context.Context, id, aid, result, comment string) (gatepass.GatePassResponse, error) {
				assert.Equal(t, gatepass.VerifyResultVerified, result)
				return gatepass.GatePassResponse{ID: id, Status: gatepass.StatusUsed}, nil
			},
		}

		h := gatepass.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/gatepasses/x/verify", strings.NewReader(`{"result":"VERIFIED"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
		c.Set("user_id", uuid.New().String())

		h.Verify(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative unknown result fails binding", func(t *testing.T) {
		h := gatepass.NewHandler(&fakeGatePassService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/gatepasses/x/verify", strings.NewReader(`{"result":"MAYBE"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}

		h.Verify(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative expired pass maps to conflict", func(t *testing.T) {
		svc := &fakeGatePassService{
			verifyFn: func(ctx context.Context, id, aid, result, comment string) (gatepass.GatePassResponse, error) {
				return gatepass.GatePassResponse{}, gatepasserrors.ErrPassExpired
			},
		}

		h := gatepass.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/gatepasses/x/verify", strings.NewReader(`{"result":"VERIFIED"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}

		h.Verify(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestGatePassHandler_Queues(t *testing.T) {
	t.Run("pending queue reads role and department from context", func(t *testing.T) {
		departmentID := uuid.New().String()
		svc := &fakeGatePassService{
			getPendingFn: func(ctx context.Context, role, deptID string) ([]gatepass.GatePassResponse, error) {
				assert.Equal(t, domain.RoleHOD, role)
				assert.Equal(t, departmentID, deptID)
				return []gatepass.GatePassResponse{}, nil
			},
		}

		h := gatepass.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/gatepasses/pending", nil)
		c.Set("role", domain.RoleHOD)
		c.Set("department_id", departmentID)

		h.GetPendingQueue(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("recent rejects non numeric window", func(t *testing.T) {
		h := gatepass.NewHandler(&fakeGatePassService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/gatepasses/recent?window_hours=soon", nil)

		h.GetUsedRecently(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("recent parses window hours", func(t *testing.T) {
		svc := &fakeGatePassService{
			getUsedRecentlyFn: func(ctx context.Context, window time.Duration) ([]gatepass.GatePassResponse, error) {
				assert.Equal(t, 6*time.Hour, window)
				return nil, nil
			},
		}

		h := gatepass.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/gatepasses/recent?window_hours=6", nil)

		h.GetUsedRecently(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

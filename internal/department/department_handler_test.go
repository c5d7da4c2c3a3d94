package department_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"go-gatepass/internal/department"
	departmenterrors "go-gatepass/internal/department/errors"
)

type fakeDepartmentService struct {
	createFn  func(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error)
	getAllFn  func(ctx context.Context) ([]department.DepartmentResponse, error)
	getByIDFn func(ctx context.Context, id string) (department.DepartmentResponse, error)
	updateFn  func(ctx context.Context, id string, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error)
	deleteFn  func(ctx context.Context, id string) error
}

func (f *fakeDepartmentService) Create(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	return f.createFn(ctx, req)
}

func (f *fakeDepartmentService) GetAll(ctx context.Context) ([]department.DepartmentResponse, error) {
	return f.getAllFn(ctx)
}

func (f *fakeDepartmentService) GetByID(ctx context.Context, id string) (department.DepartmentResponse, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeDepartmentService) Update(ctx context.Context, id string, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error) {
	return f.updateFn(ctx, id, req)
}

func (f *fakeDepartmentService) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

type deptAPIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type deptAPIEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *deptAPIError   `json:"error"`
}

func decodeDeptEnvelope(t *testing.T, rec *httptest.ResponseRecorder) deptAPIEnvelope {
	t.Helper()
	var env deptAPIEnvelope
	err := json.Unmarshal(rec.Body.Bytes(), &env)
	assert.NoError(t, err)
	return env
}

func setupDepartmentRouter(svc department.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := department.NewHandler(svc)

	r.POST("/departments", h.Create)
	r.GET("/departments", h.GetAll)
	r.GET("/departments/:id", h.GetById)
	r.PUT("/departments/:id", h.Update)
	r.DELETE("/departments/:id", h.Delete)

	return r
}

func TestDepartmentHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeDepartmentService{
			createFn: func(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
				return department.DepartmentResponse{ID: "dept-1", Name: req.Name, Building: req.Building}, nil
			},
		}
		r := setupDepartmentRouter(svc)

		body, _ := json.Marshal(gin.H{"name": "Computer Science", "building": "Block A"})
		req := httptest.NewRequest(http.MethodPost, "/departments", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		env := decodeDeptEnvelope(t, rec)
		assert.True(t, env.Ok)

		var resp department.DepartmentResponse
		assert.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, "Computer Science", resp.Name)
	})

	t.Run("negative missing name", func(t *testing.T) {
		svc := &fakeDepartmentService{}
		r := setupDepartmentRouter(svc)

		body, _ := json.Marshal(gin.H{"building": "Block A"})
		req := httptest.NewRequest(http.MethodPost, "/departments", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeDeptEnvelope(t, rec)
		assert.False(t, env.Ok)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("negative duplicate name", func(t *testing.T) {
		svc := &fakeDepartmentService{
			createFn: func(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
				return department.DepartmentResponse{}, departmenterrors.ErrNameAlreadyExists
			},
		}
		r := setupDepartmentRouter(svc)

		body, _ := json.Marshal(gin.H{"name": "Computer Science"})
		req := httptest.NewRequest(http.MethodPost, "/departments", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		env := decodeDeptEnvelope(t, rec)
		assert.Equal(t, "CONFLICT", env.Error.Code)
	})
}

func TestDepartmentHandler_GetById(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeDepartmentService{
			getByIDFn: func(ctx context.Context, id string) (department.DepartmentResponse, error) {
				return department.DepartmentResponse{ID: id, Name: "Civil"}, nil
			},
		}
		r := setupDepartmentRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/departments/dept-1", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		env := decodeDeptEnvelope(t, rec)

		var resp department.DepartmentResponse
		assert.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, "dept-1", resp.ID)
	})

	t.Run("negative not found", func(t *testing.T) {
		svc := &fakeDepartmentService{
			getByIDFn: func(ctx context.Context, id string) (department.DepartmentResponse, error) {
				return department.DepartmentResponse{}, departmenterrors.ErrDepartmentNotFound
			},
		}
		r := setupDepartmentRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/departments/dept-404", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		env := decodeDeptEnvelope(t, rec)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})
}

func TestDepartmentHandler_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var deletedID string
		svc := &fakeDepartmentService{
			deleteFn: func(ctx context.Context, id string) error {
				deletedID = id
				return nil
			},
		}
		r := setupDepartmentRouter(svc)

		req := httptest.NewRequest(http.MethodDelete, "/departments/dept-1", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "dept-1", deletedID)
	})
}

package department_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"go-gatepass/internal/department"
	departmenterrors "go-gatepass/internal/department/errors"
	departmentMock "go-gatepass/internal/department/mock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   department.Service
	repo      *departmentMock.MockRepository
	redismock redismock.ClientMock
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	dbRedis, redisMock := redismock.NewClientMock()
	repo := departmentMock.NewMockRepository(ctrl)

	svc := department.NewService(db, repo, dbRedis)

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		redismock: redisMock,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestDepartmentService_GetAll(t *testing.T) {
	ctx := context.Background()
	cacheKey := "departments:all"

	t.Run("Hit Cache - Harus ambil data dari Redis", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectedResp := []department.DepartmentResponse{
			{ID: "dept-1", Name: "Computer Science"},
			{ID: "dept-2", Name: "Mechanical"},
		}
		jsonResp, _ := json.Marshal(expectedResp)

		deps.redismock.ExpectGet(cacheKey).SetVal(string(jsonResp))

		resp, err := deps.service.GetAll(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.Equal(t, "Computer Science", resp[0].Name)

		// Pastikan Repo TIDAK dipanggil jika cache hit
		deps.repo.EXPECT().FindAll(gomock.Any()).Times(0)
	})

	t.Run("Miss Cache - Harus ambil dari DB dan simpan ke Redis", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.redismock.ExpectGet(cacheKey).RedisNil()

		deptID := uuid.New()
		mockDepartments := []department.Department{
			{
				ID:       deptID,
				Name:     "Civil",
				Building: "Block C",
			},
		}

		deps.repo.EXPECT().
			FindAll(ctx).
			Return(mockDepartments, nil).
			Times(1)

		expectedJSON, _ := json.Marshal([]department.DepartmentResponse{
			{ID: deptID.String(), Name: "Civil", Building: "Block C"},
		})
		deps.redismock.ExpectSet(cacheKey, expectedJSON, 30*time.Minute).SetVal("OK")

		resp, err := deps.service.GetAll(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "Civil", resp[0].Name)
	})

	t.Run("Database Error - Harus mengembalikan error", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.redismock.ExpectGet(cacheKey).RedisNil()

		deps.repo.EXPECT().
			FindAll(ctx).
			Return(nil, errors.New("db connection error")).
			Times(1)

		resp, err := deps.service.GetAll(ctx)

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestDepartmentService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := department.CreateDepartmentRequest{Name: "Computer Science", Building: "Block A"}

		expectTx(t, deps.sqlMock, true)

		deps.repo.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.repo)

		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, d *department.Department) error {
				assert.Equal(t, req.Name, d.Name)
				assert.Equal(t, req.Building, d.Building)
				return nil
			})

		resp, err := deps.service.Create(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, req.Name, resp.Name)
		assert.NotEmpty(t, resp.ID)
	})

	t.Run("repo error -> rollback", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := department.CreateDepartmentRequest{Name: "Computer Science"}

		expectTx(t, deps.sqlMock, false) // rollback

		deps.repo.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.repo)

		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			Return(errors.New("db error"))

		_, err := deps.service.Create(ctx, req)

		assert.Error(t, err)
	})
}

func TestDepartmentService_GetByID(t *testing.T) {
	ctx := context.Background()
	targetID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectedDept := &department.Department{
			ID:   uuid.MustParse(targetID),
			Name: "Computer Science",
		}

		deps.repo.EXPECT().
			FindByID(ctx, targetID).
			Return(expectedDept, nil).
			Times(1)

		resp, err := deps.service.GetByID(ctx, targetID)

		assert.NoError(t, err)
		assert.Equal(t, targetID, resp.ID)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().
			FindByID(ctx, targetID).
			Return(nil, gorm.ErrRecordNotFound)

		resp, err := deps.service.GetByID(ctx, targetID)

		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentNotFound)
		assert.Empty(t, resp.ID)
	})

	t.Run("invalid id", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, "bogus")

		assert.ErrorIs(t, err, departmenterrors.ErrInvalidDepartmentID)
	})
}

func TestDepartmentService_Update(t *testing.T) {
	ctx := context.Background()
	targetID := uuid.New()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := department.UpdateDepartmentRequest{Name: "CS Updated", Building: "Block B"}

		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)

		existingDept := &department.Department{
			ID:   targetID,
			Name: "Computer Science",
		}
		deps.repo.EXPECT().
			FindByID(ctx, targetID.String()).
			Return(existingDept, nil)

		deps.repo.EXPECT().
			Update(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, d *department.Department) error {
				assert.Equal(t, req.Name, d.Name)
				assert.Equal(t, targetID, d.ID)
				return nil
			})

		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Update(ctx, targetID.String(), req)

		assert.NoError(t, err)
		assert.Equal(t, req.Name, resp.Name)
	})

	t.Run("error - department not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := department.UpdateDepartmentRequest{Name: "CS Updated"}

		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)

		deps.repo.EXPECT().
			FindByID(ctx, targetID.String()).
			Return(nil, gorm.ErrRecordNotFound)

		deps.sqlMock.ExpectRollback()

		resp, err := deps.service.Update(ctx, targetID.String(), req)

		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentNotFound)
		assert.Empty(t, resp.ID)
	})
}

func TestDepartmentService_Delete(t *testing.T) {
	ctx := context.Background()
	targetID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)

		deps.repo.EXPECT().
			Delete(ctx, targetID).
			Return(nil)

		err := deps.service.Delete(ctx, targetID)

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("failure - db error", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false) // Rollback

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)

		deps.repo.EXPECT().
			Delete(ctx, targetID).
			Return(errors.New("db error"))

		err := deps.service.Delete(ctx, targetID)

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

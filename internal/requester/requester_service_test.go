package requester_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"

	"go-gatepass/internal/requester"
	requestererrors "go-gatepass/internal/requester/errors"
	requesterMock "go-gatepass/internal/requester/mock"
)

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service requester.Service
	repo    *requesterMock.MockRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	repo := requesterMock.NewMockRepository(ctrl)

	svc := requester.NewService(db, repo)

	return &serviceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
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

func TestRequesterService_Create(t *testing.T) {
	ctx := context.Background()
	departmentID := uuid.New().String()

	t.Run("success student hosteller", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := requester.CreateRequesterRequest{
			Kind:          requester.KindStudent,
			FullName:      "Arjun Nair",
			Email:         "arjun@campus.test",
			DepartmentID:  departmentID,
			Accommodation: requester.AccommodationHosteller,
		}

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)

		deps.repo.EXPECT().
			DepartmentExists(ctx, departmentID).
			Return(true, nil)

		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, r *requester.Requester) error {
				assert.Equal(t, requester.KindStudent, r.Kind)
				assert.NotNil(t, r.Accommodation)
				assert.True(t, r.IsHosteller())
				return nil
			})

		resp, err := deps.service.Create(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, req.Email, resp.Email)
		assert.NotEmpty(t, resp.ID)
	})

	t.Run("success staff without accommodation", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := requester.CreateRequesterRequest{
			Kind:         requester.KindStaff,
			FullName:     "Meera Pillai",
			Email:        "meera@campus.test",
			DepartmentID: departmentID,
		}

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().DepartmentExists(ctx, departmentID).Return(true, nil)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, r *requester.Requester) error {
				assert.Nil(t, r.Accommodation)
				assert.False(t, r.IsHosteller())
				return nil
			})

		resp, err := deps.service.Create(ctx, req)

		assert.NoError(t, err)
		assert.Nil(t, resp.Accommodation)
	})

	t.Run("negative student without accommodation", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := requester.CreateRequesterRequest{
			Kind:         requester.KindStudent,
			FullName:     "Arjun Nair",
			Email:        "arjun@campus.test",
			DepartmentID: departmentID,
		}

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, requestererrors.ErrAccommodationRequired)
	})

	t.Run("negative staff with accommodation", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := requester.CreateRequesterRequest{
			Kind:          requester.KindStaff,
			FullName:      "Meera Pillai",
			Email:         "meera@campus.test",
			DepartmentID:  departmentID,
			Accommodation: requester.AccommodationDayScholar,
		}

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, requestererrors.ErrAccommodationNotAllowed)
	})

	t.Run("negative unknown department -> rollback", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := requester.CreateRequesterRequest{
			Kind:         requester.KindHOD,
			FullName:     "Dr. Kurian",
			Email:        "kurian@campus.test",
			DepartmentID: departmentID,
		}

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().DepartmentExists(ctx, departmentID).Return(false, nil)

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, requestererrors.ErrDepartmentNotFound)
	})

	t.Run("negative duplicate email", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := requester.CreateRequesterRequest{
			Kind:         requester.KindStaff,
			FullName:     "Meera Pillai",
			Email:        "meera@campus.test",
			DepartmentID: departmentID,
		}

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().DepartmentExists(ctx, departmentID).Return(true, nil)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			Return(errors.New(`ERROR: duplicate key value violates unique constraint "uq_requester_email" (SQLSTATE 23505)`))

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, requestererrors.ErrEmailAlreadyExists)
	})
}

func TestRequesterService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		acc := requester.AccommodationDayScholar
		deps.repo.EXPECT().
			FindByID(ctx, id.String()).
			Return(&requester.Requester{
				ID:            id,
				Kind:          requester.KindStudent,
				FullName:      "Arjun Nair",
				Email:         "arjun@campus.test",
				DepartmentID:  uuid.New(),
				Accommodation: &acc,
			}, nil)

		resp, err := deps.service.GetByID(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, id.String(), resp.ID)
		assert.Equal(t, requester.AccommodationDayScholar, *resp.Accommodation)
	})

	t.Run("negative invalid id", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, "not-a-uuid")

		assert.ErrorIs(t, err, requestererrors.ErrInvalidRequesterID)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New().String()
		deps.repo.EXPECT().
			FindByID(ctx, id).
			Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.GetByID(ctx, id)

		assert.ErrorIs(t, err, requestererrors.ErrRequesterNotFound)
	})
}

func TestRequesterService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("success all", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().
			FindAll(ctx).
			Return([]requester.Requester{
				{ID: uuid.New(), Kind: requester.KindStaff, DepartmentID: uuid.New()},
			}, nil)

		resp, err := deps.service.GetAll(ctx, "")

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
	})

	t.Run("success scoped to department", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		departmentID := uuid.New().String()
		deps.repo.EXPECT().
			FindAllByDepartment(ctx, departmentID).
			Return([]requester.Requester{}, nil)

		resp, err := deps.service.GetAll(ctx, departmentID)

		assert.NoError(t, err)
		assert.Empty(t, resp)
	})
}

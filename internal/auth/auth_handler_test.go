package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"go-gatepass/internal/auth"
	autherrors "go-gatepass/internal/auth/errors"
	authMock "go-gatepass/internal/auth/mock"
	"go-gatepass/internal/domain"
)

func setupAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestHandler_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := authMock.NewMockService(ctrl)
	handler := auth.NewHandler(mockService)
	router := setupAuthRouter()
	router.POST("/login", handler.Login)

	t.Run("Success Login - Web Client (Cookie Check)", func(t *testing.T) {
		reqBody := auth.LoginRequest{
			Email:    "student@example.edu",
			Password: "password123",
		}
		body, _ := json.Marshal(reqBody)

		expectedResp := auth.AuthResponse{
			ID:    "user-1",
			Email: "student@example.edu",
			Role:  domain.RoleStudent,
		}

		mockService.EXPECT().
			Login(gomock.Any(), reqBody.Email, reqBody.Password).
			Return("access-token", "refresh-token", expectedResp, nil)

		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Client-Type", "WEB") // Trigger cookie logic

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		// Periksa Cookie
		cookies := w.Result().Cookies()
		assert.Len(t, cookies, 2)
		assert.Equal(t, "access_token", cookies[0].Name)
		assert.Equal(t, "access-token", cookies[0].Value)

		// Periksa Body
		var res map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &res)
		assert.Equal(t, "student@example.edu", res["data"].(map[string]interface{})["user"].(map[string]interface{})["email"])
	})

	t.Run("Failed Login - Invalid Credentials", func(t *testing.T) {
		mockService.EXPECT().
			Login(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", "", auth.AuthResponse{}, autherrors.ErrInvalidCredentials)

		body, _ := json.Marshal(auth.LoginRequest{Email: "wrong@test.com", Password: "123"})
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHandler_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := authMock.NewMockService(ctrl)
	handler := auth.NewHandler(mockService)
	router := setupAuthRouter()
	router.POST("/register", handler.Register)

	requesterID := uuid.New()

	t.Run("Success Register", func(t *testing.T) {
		reqData := auth.RegisterRequest{
			Email:       "new@example.edu",
			Name:        "New Student",
			Password:    "newpassword",
			Role:        domain.RoleStudent,
			RequesterID: requesterID.String(),
		}
		body, _ := json.Marshal(reqData)

		mockService.EXPECT().
			Register(gomock.Any(), gomock.Any()).
			Return(auth.AuthResponse{Email: reqData.Email, Name: reqData.Name, Role: reqData.Role}, nil)

		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Failed Register - Validation Error", func(t *testing.T) {
		// Body dengan format email salah harus gagal di ShouldBindJSON
		body := []byte(`{"email": "invalid-email", "name": ""}`)

		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Failed Register - Email Already Exists", func(t *testing.T) {
		reqData := auth.RegisterRequest{
			Email:    "exists@example.edu",
			Name:     "Existing User",
			Password: "password123",
			Role:     domain.RoleSecurity,
		}
		body, _ := json.Marshal(reqData)

		mockService.EXPECT().
			Register(gomock.Any(), gomock.Any()).
			Return(auth.AuthResponse{}, autherrors.ErrEmailAlreadyRegistered)

		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

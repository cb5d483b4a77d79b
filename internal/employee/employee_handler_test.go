package employee_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rinov1/WorkWave/internal/employee"
	employeeerrors "github.com/rinov1/WorkWave/internal/employee/errors"
	employeeMock "github.com/rinov1/WorkWave/internal/employee/mock"
	"github.com/rinov1/WorkWave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupEmployeeRouter(h *employee.Handler, accountID int64, isHR bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextAccountID, accountID)
		c.Set(middleware.ContextIsHR, isHR)
		c.Next()
	})
	r.GET("/employees", h.GetAll)
	r.GET("/employees/candidates", h.Candidates)
	r.GET("/employees/:id", h.GetByID)
	r.POST("/employees", h.Create)
	r.PUT("/employees/:id", h.Update)
	r.DELETE("/employees/:id", h.Delete)
	return r
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(raw)
}

func TestEmployeeHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := employeeMock.NewMockService(ctrl)
	router := setupEmployeeRouter(employee.NewHandler(svc), 1, true)

	t.Run("success", func(t *testing.T) {
		svc.EXPECT().AddToRoster(gomock.Any(), employee.AddToRosterRequest{AccountID: 7, FirstName: "Kate"}).
			Return(employee.EmployeeResponse{AccountID: 7, Active: true}, nil)

		req := httptest.NewRequest(http.MethodPost, "/employees", jsonBody(t, map[string]any{"account_id": 7, "first_name": "Kate"}))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("missing account id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/employees", jsonBody(t, map[string]any{"first_name": "Kate"}))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEmployeeHandler_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := employeeMock.NewMockService(ctrl)
	router := setupEmployeeRouter(employee.NewHandler(svc), 1, true)

	svc.EXPECT().Directory(gomock.Any()).Return([]employee.EmployeeResponse{
		{AccountID: 7, Email: "kate@bk.ru", DisplayName: "Kate Adams"},
		{AccountID: 8, Email: "li@bk.ru", DisplayName: "Li"},
	}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees?q=adams", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []employee.EmployeeResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, int64(7), body.Data[0].AccountID)
}

func TestEmployeeHandler_GetByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := employeeMock.NewMockService(ctrl)
	router := setupEmployeeRouter(employee.NewHandler(svc), 7, false)

	t.Run("invalid id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/abc", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("forbidden", func(t *testing.T) {
		svc.EXPECT().Get(gomock.Any(), employee.Actor{AccountID: 7}, int64(8)).
			Return(employee.EmployeeResponse{}, employeeerrors.ErrNotOwnProfile)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/8", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("own", func(t *testing.T) {
		svc.EXPECT().Get(gomock.Any(), employee.Actor{AccountID: 7}, int64(7)).
			Return(employee.EmployeeResponse{AccountID: 7, TenureYears: 2}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/7", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestEmployeeHandler_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := employeeMock.NewMockService(ctrl)
	router := setupEmployeeRouter(employee.NewHandler(svc), 7, false)

	t.Run("invalid email", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/employees/7", jsonBody(t, map[string]any{"email": "nope"}))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("hr only field", func(t *testing.T) {
		svc.EXPECT().UpdateProfile(gomock.Any(), employee.Actor{AccountID: 7}, int64(7), gomock.Any()).
			Return(employee.EmployeeResponse{}, employeeerrors.ErrHROnlyField)

		req := httptest.NewRequest(http.MethodPut, "/employees/7", jsonBody(t, map[string]any{"position": "Lead"}))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestEmployeeHandler_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := employeeMock.NewMockService(ctrl)
	router := setupEmployeeRouter(employee.NewHandler(svc), 1, true)

	t.Run("soft by default", func(t *testing.T) {
		svc.EXPECT().Remove(gomock.Any(), int64(7)).Return(nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/employees/7", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("purge", func(t *testing.T) {
		svc.EXPECT().Purge(gomock.Any(), int64(7)).Return(nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/employees/7?purge=true", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

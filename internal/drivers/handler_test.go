package drivers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/richxcame/driver-console/pkg/common"
	"github.com/richxcame/driver-console/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ========================================
// SERVICE MOCK FOR HANDLER TESTS
// ========================================

type mockService struct {
	mock.Mock
}

func (m *mockService) Steps(category string) []Step {
	args := m.Called(category)
	return args.Get(0).([]Step)
}

func (m *mockService) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Driver, int64, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*Driver), args.Get(1).(int64), args.Error(2)
}

func (m *mockService) GetDriver(ctx context.Context, id uuid.UUID) (*Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Driver), args.Error(1)
}

func (m *mockService) StatusCounts(ctx context.Context) (map[Status]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[Status]int64), args.Error(1)
}

func (m *mockService) Approve(ctx context.Context, adminID, driverID uuid.UUID) error {
	args := m.Called(ctx, adminID, driverID)
	return args.Error(0)
}

func (m *mockService) Reject(ctx context.Context, adminID, driverID uuid.UUID, steps []int) error {
	args := m.Called(ctx, adminID, driverID, steps)
	return args.Error(0)
}

func (m *mockService) Reactivate(ctx context.Context, adminID, driverID uuid.UUID) error {
	args := m.Called(ctx, adminID, driverID)
	return args.Error(0)
}

func (m *mockService) Delete(ctx context.Context, adminID, driverID uuid.UUID) error {
	args := m.Called(ctx, adminID, driverID)
	return args.Error(0)
}

func (m *mockService) SuspendBatch(ctx context.Context, adminID uuid.UUID, req *SuspendDriversRequest) ([]BatchActionResult, error) {
	args := m.Called(ctx, adminID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BatchActionResult), args.Error(1)
}

func (m *mockService) GrantIncentives(ctx context.Context, adminID uuid.UUID, req *GrantIncentivesRequest) ([]BatchActionResult, error) {
	args := m.Called(ctx, adminID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BatchActionResult), args.Error(1)
}

func (m *mockService) SuspendHistory(ctx context.Context, limit, offset int) ([]*SuspensionRecord, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*SuspensionRecord), args.Get(1).(int64), args.Error(2)
}

func (m *mockService) AuditLogs(ctx context.Context, limit, offset int) ([]*AuditLog, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*AuditLog), args.Get(1).(int64), args.Error(2)
}

// ========================================
// TEST HELPERS
// ========================================

var testAdminID = uuid.New()

func setupTestRouter(svc ServiceInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	api := router.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, testAdminID)
	})

	NewHandler(svc).RegisterRoutes(api, nil)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

// ========================================
// STEP CATALOG TESTS
// ========================================

func TestHandler_GetSteps(t *testing.T) {
	mockSvc := new(mockService)
	mockSvc.On("Steps", "cab").Return(StepsFor(CategoryCab))

	router := setupTestRouter(mockSvc)
	w := doJSON(t, router, http.MethodGet, "/api/v1/driver/steps/cab", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeResponse(t, w)
	assert.True(t, response["success"].(bool))
	assert.Len(t, response["data"].([]interface{}), 6)
	mockSvc.AssertExpectations(t)
}

// ========================================
// LIFECYCLE QUERY TESTS
// ========================================

func TestHandler_ListByStatus_Success(t *testing.T) {
	mockSvc := new(mockService)
	drivers := []*Driver{
		{ID: uuid.New(), Status: StatusOnReview, SelectedCategory: CategoryCab},
	}
	mockSvc.On("ListByStatus", mock.Anything, "on-review", 20, 0).Return(drivers, int64(35), nil)

	router := setupTestRouter(mockSvc)
	w := doJSON(t, router, http.MethodGet, "/api/v1/driver/status/on-review", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeResponse(t, w)
	assert.True(t, response["success"].(bool))

	meta := response["meta"].(map[string]interface{})
	assert.Equal(t, float64(35), meta["total_records"])
	assert.Equal(t, float64(2), meta["total_pages"])
	mockSvc.AssertExpectations(t)
}

func TestHandler_ListByStatus_UnknownStatusIs400(t *testing.T) {
	mockSvc := new(mockService)
	mockSvc.On("ListByStatus", mock.Anything, "active", 20, 0).
		Return(nil, int64(0), common.NewValidationError(`unknown driver status "active"`))

	router := setupTestRouter(mockSvc)
	w := doJSON(t, router, http.MethodGet, "/api/v1/driver/status/active", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	response := decodeResponse(t, w)
	assert.False(t, response["success"].(bool))

	errInfo := response["error"].(map[string]interface{})
	assert.Equal(t, common.CodeValidation, errInfo["error_code"])
}

func TestHandler_ListByStatus_Pagination(t *testing.T) {
	mockSvc := new(mockService)
	mockSvc.On("ListByStatus", mock.Anything, "approved", 10, 20).Return([]*Driver{}, int64(0), nil)

	router := setupTestRouter(mockSvc)
	w := doJSON(t, router, http.MethodGet, "/api/v1/driver/status/approved?page=3&limit=10", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestHandler_GetDriver_NotFoundIs404(t *testing.T) {
	mockSvc := new(mockService)
	id := uuid.New()
	mockSvc.On("GetDriver", mock.Anything, id).Return(nil, common.NewNotFoundError("driver not found", ErrDriverNotFound))

	router := setupTestRouter(mockSvc)
	w := doJSON(t, router, http.MethodGet, "/api/v1/driver/id/"+id.String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_GetDriver_BadUUIDIs400(t *testing.T) {
	router := setupTestRouter(new(mockService))
	w := doJSON(t, router, http.MethodGet, "/api/v1/driver/id/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_GetStatusCounts(t *testing.T) {
	mockSvc := new(mockService)
	counts := map[Status]int64{StatusOnReview: 7, StatusApproved: 120}
	mockSvc.On("StatusCounts", mock.Anything).Return(counts, nil)

	router := setupTestRouter(mockSvc)
	w := doJSON(t, router, http.MethodGet, "/api/v1/driver/counts", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeResponse(t, w)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(7), data["on-review"])
}

// ========================================
// APPROVE / REJECT TESTS
// ========================================

func TestHandler_ApproveDriver_Success(t *testing.T) {
	mockSvc := new(mockService)
	id := uuid.New()
	mockSvc.On("Approve", mock.Anything, testAdminID, id).Return(nil)

	router := setupTestRouter(mockSvc)
	w := doJSON(t, router, http.MethodPost, "/api/v1/driver/approve/"+id.String(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeResponse(t, w)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "approved", data["status"])
	mockSvc.AssertExpectations(t)
}

func TestHandler_ApproveDriver_ConflictIs409(t *testing.T) {
	mockSvc := new(mockService)
	id := uuid.New()
	mockSvc.On("Approve", mock.Anything, testAdminID, id).
		Return(common.NewStateConflictError("driver status conflict: current status is approved"))

	router := setupTestRouter(mockSvc)
	w := doJSON(t, router, http.MethodPost, "/api/v1/driver/approve/"+id.String(), nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	response := decodeResponse(t, w)
	errInfo := response["error"].(map[string]interface{})
	assert.Equal(t, common.CodeStateConflict, errInfo["error_code"])
}

func TestHandler_RejectDriver_Success(t *testing.T) {
	mockSvc := new(mockService)
	id := uuid.New()
	mockSvc.On("Reject", mock.Anything, testAdminID, id, []int{2, 4}).Return(nil)

	router := setupTestRouter(mockSvc)
	w := doJSON(t, router, http.MethodPost, "/api/v1/driver/reject/"+id.String(),
		RejectDriverRequest{Steps: []int{2, 4}})

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestHandler_RejectDriver_OutOfRangeStepIs400(t *testing.T) {
	mockSvc := new(mockService)
	id := uuid.New()
	mockSvc.On("Reject", mock.Anything, testAdminID, id, []int{9}).
		Return(common.NewValidationError("step 9 is not valid for category cab (valid steps are 1-6)"))

	router := setupTestRouter(mockSvc)
	w := doJSON(t, router, http.MethodPost, "/api/v1/driver/reject/"+id.String(),
		RejectDriverRequest{Steps: []int{9}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ========================================
// BATCH SUSPENSION TESTS
// ========================================

func TestHandler_SuspendDrivers_PartialFailureIsStill200(t *testing.T) {
	mockSvc := new(mockService)
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	results := []BatchActionResult{
		{DriverID: ids[0], Success: true},
		{DriverID: ids[1], Success: false, Error: "driver not found"},
	}
	mockSvc.On("SuspendBatch", mock.Anything, testAdminID, mock.Anything).Return(results, nil)

	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	router := setupTestRouter(mockSvc)
	w := doJSON(t, router, http.MethodPost, "/api/v1/driver/admin/suspend-drivers", SuspendDriversRequest{
		DriverIDs:   ids,
		SuspendFrom: from,
		SuspendTo:   from.Add(48 * time.Hour),
		Description: "document fraud investigation",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeResponse(t, w)
	assert.True(t, response["success"].(bool))

	data := response["data"].([]interface{})
	require.Len(t, data, 2)
	first := data[0].(map[string]interface{})
	second := data[1].(map[string]interface{})
	assert.True(t, first["success"].(bool))
	assert.False(t, second["success"].(bool))
	assert.Equal(t, "driver not found", second["error"])
}

func TestHandler_SuspendDrivers_InvalidWindowIs400(t *testing.T) {
	mockSvc := new(mockService)
	mockSvc.On("SuspendBatch", mock.Anything, testAdminID, mock.Anything).
		Return(nil, common.NewValidationError("suspend_to must be strictly after suspend_from"))

	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	router := setupTestRouter(mockSvc)
	w := doJSON(t, router, http.MethodPost, "/api/v1/driver/admin/suspend-drivers", SuspendDriversRequest{
		DriverIDs:   []uuid.UUID{uuid.New()},
		SuspendFrom: from,
		SuspendTo:   from,
		Description: "invalid window",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_SuspendDrivers_MalformedBodyIs400(t *testing.T) {
	router := setupTestRouter(new(mockService))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/driver/admin/suspend-drivers",
		bytes.NewReader([]byte(`{"driver_ids": "oops"`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ========================================
// HISTORY TESTS
// ========================================

func TestHandler_ListSuspensions(t *testing.T) {
	mockSvc := new(mockService)
	records := []*SuspensionRecord{
		{
			ID:          uuid.New(),
			DriverIDs:   []uuid.UUID{uuid.New()},
			SuspendFrom: time.Now(),
			SuspendTo:   time.Now().Add(24 * time.Hour),
			Description: "weekend strike no-shows",
			CreatedAt:   time.Now(),
		},
	}
	mockSvc.On("SuspendHistory", mock.Anything, 20, 0).Return(records, int64(1), nil)

	router := setupTestRouter(mockSvc)
	w := doJSON(t, router, http.MethodGet, "/api/v1/driver/admin/suspend-history", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeResponse(t, w)
	assert.Len(t, response["data"].([]interface{}), 1)
}

func TestHandler_ListAuditLogs_ServiceErrorIs500(t *testing.T) {
	mockSvc := new(mockService)
	mockSvc.On("AuditLogs", mock.Anything, 20, 0).
		Return(nil, int64(0), fmt.Errorf("connection reset"))

	router := setupTestRouter(mockSvc)
	w := doJSON(t, router, http.MethodGet, "/api/v1/driver/admin/audit-logs", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

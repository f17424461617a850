package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/DigitalGarageMVP/ifmvp-backend/internal/dto"
)

// MockStatsService is a mock implementation of service.StatsQueryer
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) GetDashboardSummary(ctx context.Context, req *dto.StatsRangeRequest) (*dto.DashboardSummaryResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DashboardSummaryResponse), args.Error(1)
}

func (m *MockStatsService) GetOpenStatistics(ctx context.Context, req *dto.StatsRangeRequest) ([]dto.OpenStatisticsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.OpenStatisticsResponse), args.Error(1)
}

func (m *MockStatsService) GetAttachmentStatistics(ctx context.Context, req *dto.StatsRangeRequest) ([]dto.AttachmentStatisticsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.AttachmentStatisticsResponse), args.Error(1)
}

func TestStatsHandler_HealthCheck(t *testing.T) {
	mockService := new(MockStatsService)
	log := zap.NewNop()

	handler := NewStatsHandler(mockService, log)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "ok", response["status"])
}

func TestStatsHandler_GetDashboardSummary_Success(t *testing.T) {
	mockService := new(MockStatsService)
	log := zap.NewNop()

	handler := NewStatsHandler(mockService, log)

	summary := &dto.DashboardSummaryResponse{
		TotalSentCount:        100,
		SuccessCount:          90,
		FailCount:             10,
		TotalOpens:            40,
		TotalAttachmentClicks: 15,
		DailyStats: []dto.ChartData{
			{Date: "2025-06-01", SentCount: 100, OpenCount: 40, ClickCount: 15},
		},
	}

	mockService.On("GetDashboardSummary", mock.Anything, &dto.StatsRangeRequest{
		StartDate: "2025-06-01",
		EndDate:   "2025-06-30",
	}).Return(summary, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/summary?startDate=2025-06-01&endDate=2025-06-30", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.DashboardSummaryResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, 100, response.TotalSentCount)
	assert.Len(t, response.DailyStats, 1)
	mockService.AssertExpectations(t)
}

func TestStatsHandler_GetDashboardSummary_ServiceError(t *testing.T) {
	mockService := new(MockStatsService)
	log := zap.NewNop()

	handler := NewStatsHandler(mockService, log)

	serviceErr := errors.New("database connection error")
	mockService.On("GetDashboardSummary", mock.Anything, mock.Anything).Return(nil, serviceErr)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/summary", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response dto.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "internal_error", response.Error)
}

func TestStatsHandler_GetOpenStatistics_Success(t *testing.T) {
	mockService := new(MockStatsService)
	log := zap.NewNop()

	handler := NewStatsHandler(mockService, log)

	rows := []dto.OpenStatisticsResponse{
		{Date: "2025-06-01", EmailCategory: "GENERAL", TotalEmails: 80, OpenCount: 40, OpenRate: 50.0},
	}

	mockService.On("GetOpenStatistics", mock.Anything, &dto.StatsRangeRequest{
		EmailCategory: "GENERAL",
	}).Return(rows, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/statistics/opens?emailCategory=GENERAL", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []dto.OpenStatisticsResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 1)
	assert.Equal(t, 50.0, response[0].OpenRate)
	mockService.AssertExpectations(t)
}

func TestStatsHandler_GetAttachmentStatistics_Success(t *testing.T) {
	mockService := new(MockStatsService)
	log := zap.NewNop()

	handler := NewStatsHandler(mockService, log)

	rows := []dto.AttachmentStatisticsResponse{
		{Date: "2025-06-01", FileType: "PDF", TotalAttachments: 20, ClickCount: 5, ClickRate: 25.0},
	}

	mockService.On("GetAttachmentStatistics", mock.Anything, &dto.StatsRangeRequest{
		FileType: "PDF",
	}).Return(rows, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/statistics/attachments?fileType=PDF", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []dto.AttachmentStatisticsResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 1)
	assert.Equal(t, "PDF", response[0].FileType)
	mockService.AssertExpectations(t)
}

func TestStatsHandler_GetOpenStatistics_ServiceError(t *testing.T) {
	mockService := new(MockStatsService)
	log := zap.NewNop()

	handler := NewStatsHandler(mockService, log)

	serviceErr := errors.New("invalid startDate")
	mockService.On("GetOpenStatistics", mock.Anything, mock.Anything).Return(nil, serviceErr)

	req := httptest.NewRequest(http.MethodGet, "/api/statistics/opens?startDate=bogus", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

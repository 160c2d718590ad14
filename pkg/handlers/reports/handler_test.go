package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/relief-atlas/pkg/models/api"
	"github.com/de-tools/relief-atlas/pkg/models/domain"
	"github.com/de-tools/relief-atlas/pkg/models/store"
	"github.com/de-tools/relief-atlas/pkg/services/reports"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockReportService struct {
	mock.Mock
}

func (m *mockReportService) Snapshot(ctx context.Context) ([]domain.Report, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Report), args.Error(1)
}

func (m *mockReportService) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	return m.Called(ctx, id, status).Error(0)
}

type mockSyncer struct {
	mock.Mock
}

func (m *mockSyncer) SyncNow(ctx context.Context) (*store.SyncState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.SyncState), args.Error(1)
}

func (m *mockSyncer) State(ctx context.Context) (*store.SyncState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.SyncState), args.Error(1)
}

func withID(req *http.Request, id string) *http.Request {
	ctx := chi.NewRouteContext()
	ctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, ctx))
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		body           string
		setupMock      func(*mockReportService)
		expectedStatus int
	}{
		{
			name: "successful update",
			id:   "r1",
			body: `{"status":"actioned"}`,
			setupMock: func(m *mockReportService) {
				m.On("UpdateStatus", mock.Anything, "r1", domain.StatusActioned).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown status",
			id:             "r1",
			body:           `{"status":"Escalated"}`,
			setupMock:      func(m *mockReportService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed body",
			id:             "r1",
			body:           `{"status":`,
			setupMock:      func(m *mockReportService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing report",
			id:   "r9",
			body: `{"status":"Received"}`,
			setupMock: func(m *mockReportService) {
				m.On("UpdateStatus", mock.Anything, "r9", domain.StatusReceived).
					Return(fmt.Errorf("r9: %w", reports.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "backend failure",
			id:   "r1",
			body: `{"status":"Received"}`,
			setupMock: func(m *mockReportService) {
				m.On("UpdateStatus", mock.Anything, "r1", domain.StatusReceived).
					Return(errors.New("timeout"))
			},
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockReportService)
			tt.setupMock(svc)
			handler := NewHandler(svc, nil)

			req := withID(httptest.NewRequest("PUT", "/reports/"+tt.id+"/status", strings.NewReader(tt.body)), tt.id)
			rec := httptest.NewRecorder()

			handler.UpdateStatus(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				var response api.StatusUpdate
				assert.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
				assert.Equal(t, "Actioned", response.Status)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestSync(t *testing.T) {
	syncedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	failure := "backend unavailable"

	t.Run("not configured", func(t *testing.T) {
		handler := NewHandler(new(mockReportService), nil)

		rec := httptest.NewRecorder()
		handler.GetSyncState(rec, httptest.NewRequest("GET", "/sync", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		rec = httptest.NewRecorder()
		handler.TriggerSync(rec, httptest.NewRequest("POST", "/sync", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("never synced", func(t *testing.T) {
		syncer := new(mockSyncer)
		syncer.On("State", mock.Anything).Return(nil, nil)
		handler := NewHandler(new(mockReportService), syncer)

		rec := httptest.NewRecorder()
		handler.GetSyncState(rec, httptest.NewRequest("GET", "/sync", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("state with last error", func(t *testing.T) {
		syncer := new(mockSyncer)
		syncer.On("State", mock.Anything).
			Return(&store.SyncState{Source: "default", SyncedAt: syncedAt, ReportsCount: 3, Error: &failure}, nil)
		handler := NewHandler(new(mockReportService), syncer)

		rec := httptest.NewRecorder()
		handler.GetSyncState(rec, httptest.NewRequest("GET", "/sync", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var response api.SyncState
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, api.SyncState{Source: "default", SyncedAt: syncedAt, ReportsCount: 3, Error: failure}, response)
	})

	t.Run("trigger", func(t *testing.T) {
		syncer := new(mockSyncer)
		syncer.On("SyncNow", mock.Anything).
			Return(&store.SyncState{Source: "default", SyncedAt: syncedAt, ReportsCount: 7}, nil).Once()
		syncer.On("SyncNow", mock.Anything).Return(nil, errors.New("boom")).Once()
		handler := NewHandler(new(mockReportService), syncer)

		rec := httptest.NewRecorder()
		handler.TriggerSync(rec, httptest.NewRequest("POST", "/sync", nil))
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		handler.TriggerSync(rec, httptest.NewRequest("POST", "/sync", nil))
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

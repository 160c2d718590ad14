package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/de-tools/relief-atlas/pkg/adapters"
	"github.com/de-tools/relief-atlas/pkg/handlers"
	"github.com/de-tools/relief-atlas/pkg/models/api"
	"github.com/de-tools/relief-atlas/pkg/models/domain"
	"github.com/de-tools/relief-atlas/pkg/models/store"
	"github.com/de-tools/relief-atlas/pkg/services/reports"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Syncer interface {
	SyncNow(ctx context.Context) (*store.SyncState, error)
	State(ctx context.Context) (*store.SyncState, error)
}

type Handler struct {
	reports reports.Service
	syncer  Syncer
}

// NewHandler serves status updates; syncer may be nil when no snapshot cache
// is configured.
func NewHandler(reports reports.Service, syncer Syncer) *Handler {
	return &Handler{reports: reports, syncer: syncer}
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var body api.StatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	status, err := domain.ParseStatus(body.Status)
	if err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, err)
		return
	}

	if err := h.reports.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, reports.ErrNotFound) {
			handlers.WriteError(w, r, http.StatusNotFound, err)
			return
		}
		handlers.WriteError(w, r, http.StatusBadGateway, err)
		return
	}

	zerolog.Ctx(ctx).Info().
		Str("report_id", id).
		Str("status", string(status)).
		Msg("report status updated")
	handlers.WriteJSON(w, r, http.StatusOK, api.StatusUpdate{Status: string(status)})
}

func (h *Handler) GetSyncState(w http.ResponseWriter, r *http.Request) {
	if h.syncer == nil {
		handlers.WriteError(w, r, http.StatusServiceUnavailable, errors.New("snapshot sync is not configured"))
		return
	}

	state, err := h.syncer.State(r.Context())
	if err != nil {
		handlers.WriteError(w, r, http.StatusInternalServerError, err)
		return
	}
	if state == nil {
		handlers.WriteError(w, r, http.StatusNotFound, errors.New("snapshot was never synced"))
		return
	}
	handlers.WriteJSON(w, r, http.StatusOK, adapters.MapStoreSyncStateToApi(*state))
}

func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	if h.syncer == nil {
		handlers.WriteError(w, r, http.StatusServiceUnavailable, errors.New("snapshot sync is not configured"))
		return
	}

	state, err := h.syncer.SyncNow(r.Context())
	if err != nil {
		handlers.WriteError(w, r, http.StatusBadGateway, err)
		return
	}
	handlers.WriteJSON(w, r, http.StatusOK, adapters.MapStoreSyncStateToApi(*state))
}

package dashboard

import (
	"context"
	"net/http"

	"github.com/de-tools/relief-atlas/pkg/handlers"
	"github.com/de-tools/relief-atlas/pkg/models/api"
	"github.com/de-tools/relief-atlas/pkg/models/domain"
	"github.com/de-tools/relief-atlas/pkg/services/dashboard"
	"github.com/rs/zerolog"
)

type Service interface {
	Overview(ctx context.Context, tr domain.TimeRange) (*api.Overview, error)
	Analytics(ctx context.Context, tr domain.TimeRange) (*api.Analytics, error)
	Requests(ctx context.Context, tr domain.TimeRange, query domain.ViewQuery) (*api.Requests, error)
	Timeline(ctx context.Context, tr domain.TimeRange, granularity domain.Granularity) (*api.Timeline, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// timeRange reads ?range=; an empty value lets the service pick its default.
func timeRange(r *http.Request) (domain.TimeRange, error) {
	return domain.ParseTimeRange(r.URL.Query().Get("range"), "")
}

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	tr, err := timeRange(r)
	if err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, err)
		return
	}

	overview, err := h.svc.Overview(r.Context(), tr)
	if err != nil {
		handlers.WriteError(w, r, http.StatusBadGateway, err)
		return
	}
	handlers.WriteJSON(w, r, http.StatusOK, overview)
}

func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	tr, err := timeRange(r)
	if err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, err)
		return
	}

	analytics, err := h.svc.Analytics(r.Context(), tr)
	if err != nil {
		handlers.WriteError(w, r, http.StatusBadGateway, err)
		return
	}
	handlers.WriteJSON(w, r, http.StatusOK, analytics)
}

func (h *Handler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	tr, err := timeRange(r)
	if err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, err)
		return
	}
	var granularity domain.Granularity
	if value := r.URL.Query().Get("granularity"); value != "" {
		if granularity, err = domain.ParseGranularity(value); err != nil {
			handlers.WriteError(w, r, http.StatusBadRequest, err)
			return
		}
	}

	timeline, err := h.svc.Timeline(r.Context(), tr, granularity)
	if err != nil {
		handlers.WriteError(w, r, http.StatusBadGateway, err)
		return
	}
	handlers.WriteJSON(w, r, http.StatusOK, timeline)
}

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	tr, err := timeRange(r)
	if err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, err)
		return
	}
	query, err := viewQuery(r)
	if err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, err)
		return
	}

	requests, err := h.svc.Requests(r.Context(), tr, query)
	if err != nil {
		handlers.WriteError(w, r, http.StatusBadGateway, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="assistance_requests.csv"`)
		if err := dashboard.WriteCSV(w, requests.Rows); err != nil {
			zerolog.Ctx(r.Context()).Error().
				Err(err).
				Msg("failed to write requests csv")
		}
		return
	}
	handlers.WriteJSON(w, r, http.StatusOK, requests)
}

func viewQuery(r *http.Request) (domain.ViewQuery, error) {
	q := r.URL.Query()

	status, err := domain.ParseStatusFilter(q.Get("status"))
	if err != nil {
		return domain.ViewQuery{}, err
	}
	key, err := domain.ParseSortKey(q.Get("sort"))
	if err != nil {
		return domain.ViewQuery{}, err
	}
	dir, err := domain.ParseSortDirection(q.Get("dir"))
	if err != nil {
		return domain.ViewQuery{}, err
	}

	return domain.ViewQuery{
		SearchText:    q.Get("q"),
		StatusFilter:  status,
		SortKey:       key,
		SortDirection: dir,
	}, nil
}

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gridaudit/gridaudit/internal/assess"
	"github.com/gridaudit/gridaudit/internal/catalog"
	"github.com/gridaudit/gridaudit/internal/chart"
	"github.com/gridaudit/gridaudit/internal/report"
)

// Handler is the HTTP handler for all /api/v1/* endpoints.
// It reads station data from the catalog and returns JSON responses.
type Handler struct {
	catalog *catalog.Catalog
	mux     *http.ServeMux
}

// New creates a Handler wired to the given catalog and registers all routes.
func New(cat *catalog.Catalog) http.Handler {
	h := &Handler{catalog: cat, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/stations", h.listStations)
	h.mux.HandleFunc("/api/v1/stations/", h.station) // subtree — extracts {id}[/sub]

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health — load status and rating counts.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	entries := h.catalog.List()
	resp := HealthResponse{State: "ok", StationCount: len(entries)}
	for _, sd := range entries {
		if !sd.OK() {
			resp.FailedCount++
			resp.State = "degraded"
			continue
		}
		resp.LoadedCount++
		switch sd.Overall {
		case assess.RatingGood:
			resp.GoodCount++
		case assess.RatingAcceptable:
			resp.AcceptableCount++
		case assess.RatingPoor:
			resp.PoorCount++
		}
	}
	jsonResp(w, http.StatusOK, resp)
}

// listStations returns GET /api/v1/stations — all stations with KPIs.
func (h *Handler) listStations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	entries := h.catalog.List()
	out := make([]StationResponse, 0, len(entries))
	for _, sd := range entries {
		out = append(out, toStationResponse(sd))
	}
	jsonResp(w, http.StatusOK, out)
}

// station dispatches GET /api/v1/stations/{id}[/assessments|/charts|/report].
func (h *Handler) station(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/stations/")
	if rest == "" {
		h.listStations(w, r)
		return
	}
	id, sub, _ := strings.Cut(rest, "/")

	sd, ok := h.catalog.Get(id)
	if !ok {
		jsonErr(w, http.StatusNotFound, "station not found")
		return
	}

	if !sd.OK() && sub != "" {
		// Sub-resources need loaded data; the detail endpoint still reports
		// the load error.
		jsonErr(w, http.StatusServiceUnavailable, "station data unavailable: "+sd.Err.Error())
		return
	}

	switch sub {
	case "":
		jsonResp(w, http.StatusOK, toDetailResponse(sd))
	case "assessments":
		jsonResp(w, http.StatusOK, sd.Assessments)
	case "charts":
		charts := chart.Build(sd.Station.Name, sd.Enriched)
		out := make([]ChartResponse, 0, len(charts))
		for _, c := range charts {
			out = append(out, ChartResponse{Config: c, Insight: report.Insight(c.ID)})
		}
		jsonResp(w, http.StatusOK, out)
	case "report":
		jsonResp(w, http.StatusOK, ReportResponse{
			Station:  sd.Station.ID,
			Name:     sd.Station.Name,
			Findings: report.Findings(sd.Assessments, sd.Enriched.Stats, sd.Table.SkippedRows),
		})
	default:
		jsonErr(w, http.StatusNotFound, "unknown station resource")
	}
}

// BuildSnapshot assembles the full dashboard state. The WebSocket hub uses
// this on every broadcast.
func BuildSnapshot(cat *catalog.Catalog) SnapshotResponse {
	entries := cat.List()
	resp := SnapshotResponse{
		Stations:    make([]StationDetailResponse, 0, len(entries)),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	for _, sd := range entries {
		resp.Stations = append(resp.Stations, toDetailResponse(sd))
	}
	return resp
}

// --- conversion helpers -----------------------------------------------------

func toStationResponse(sd *catalog.StationData) StationResponse {
	resp := StationResponse{
		ID:       sd.Station.ID,
		Name:     sd.Station.Name,
		LoadedAt: sd.LoadedAt.UTC().Format(time.RFC3339),
	}
	if !sd.OK() {
		resp.Error = sd.Err.Error()
		return resp
	}
	resp.Overall = sd.Overall
	resp.KPIs = sd.KPIs
	resp.Rows = sd.Table.Len()
	return resp
}

func toDetailResponse(sd *catalog.StationData) StationDetailResponse {
	resp := StationDetailResponse{StationResponse: toStationResponse(sd)}
	if !sd.OK() {
		return resp
	}
	resp.Assessments = sd.Assessments
	resp.Stats = sd.Enriched.Stats
	resp.SkippedRows = sd.Table.SkippedRows
	return resp
}

// --- JSON helpers -----------------------------------------------------------

func jsonResp(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("api: encode response", "err", err)
	}
}

func jsonErr(w http.ResponseWriter, status int, msg string) {
	jsonResp(w, status, errorResponse{Error: msg})
}

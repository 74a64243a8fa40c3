package api

import (
	"github.com/gridaudit/gridaudit/internal/assess"
	"github.com/gridaudit/gridaudit/internal/chart"
	"github.com/gridaudit/gridaudit/internal/derive"
	"github.com/gridaudit/gridaudit/internal/report"
)

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	State           string `json:"state"` // "ok" | "degraded"
	StationCount    int    `json:"station_count"`
	LoadedCount     int    `json:"loaded_count"`
	FailedCount     int    `json:"failed_count"`
	GoodCount       int    `json:"good_count"`
	AcceptableCount int    `json:"acceptable_count"`
	PoorCount       int    `json:"poor_count"`
}

// StationResponse is one station entry in GET /api/v1/stations, and the
// summary part of the detail payload.
type StationResponse struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Overall assess.Rating     `json:"overall,omitempty"`
	KPIs    derive.KPISummary `json:"kpis"`
	Rows    int               `json:"rows"`
	Error   string            `json:"error,omitempty"`
	// LoadedAt is RFC3339.
	LoadedAt string `json:"loaded_at"`
}

// StationDetailResponse is the payload for GET /api/v1/stations/{id}.
type StationDetailResponse struct {
	StationResponse
	Assessments []assess.Assessment `json:"assessments"`
	Stats       derive.Stats        `json:"stats"`
	SkippedRows int                 `json:"skipped_rows"`
}

// ChartResponse pairs a chart config with its standing insight commentary.
type ChartResponse struct {
	chart.Config
	Insight string `json:"insight,omitempty"`
}

// ReportResponse is the payload for GET /api/v1/stations/{id}/report.
type ReportResponse struct {
	Station  string           `json:"station"`
	Name     string           `json:"name"`
	Findings []report.Finding `json:"findings"`
}

// SnapshotResponse is the full dashboard state, used by the WebSocket push.
type SnapshotResponse struct {
	Stations    []StationDetailResponse `json:"stations"`
	GeneratedAt string                  `json:"generated_at"` // RFC3339
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

// Package api exposes the dashboard's REST surface: service health, station
// KPIs, per-metric assessments, chart configurations and the narrative
// report. All endpoints are read-only; data comes from the catalog.
package api

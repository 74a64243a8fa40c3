// Package ws pushes dashboard snapshots to connected UI clients over
// WebSocket. Source files are static, so there is nothing to stream on a
// timer: a broadcast happens when the catalog is rebuilt (threshold overrides
// edited and reloaded), plus once on connect so a new client has data
// immediately.
package ws

package catalog

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gridaudit/gridaudit/internal/assess"
	"github.com/gridaudit/gridaudit/internal/config"
	"github.com/gridaudit/gridaudit/internal/dataset"
	"github.com/gridaudit/gridaudit/internal/derive"
)

// StationData is everything one render cycle needs for a station: the raw
// table, its derived columns, the KPI summary and the per-metric assessments.
type StationData struct {
	Station  config.Station
	Table    *dataset.Table
	Enriched derive.Enriched
	KPIs     derive.KPISummary

	// Assessments are sorted by metric identifier.
	Assessments []assess.Assessment

	// Overall is the worst rating across all assessed metrics.
	Overall assess.Rating

	LoadedAt time.Time

	// Err is non-nil when loading this station's export failed. The other
	// fields are zero in that case.
	Err error
}

// OK reports whether the station's data loaded and derived successfully.
func (sd *StationData) OK() bool { return sd.Err == nil }

// Catalog is the thread-safe station dataset cache, keyed by station ID.
type Catalog struct {
	mu       sync.RWMutex
	stations map[string]*StationData
	order    []string

	rebuilt chan struct{}
	now     func() time.Time // injectable for deterministic tests

	// load is swappable in tests to avoid touching the filesystem.
	load func(path, station string) (*dataset.Table, error)
}

// New returns an empty Catalog. Call Rebuild to populate it.
func New() *Catalog {
	return &Catalog{
		stations: make(map[string]*StationData),
		rebuilt:  make(chan struct{}, 1),
		now:      time.Now,
		load:     dataset.Load,
	}
}

// Rebuild loads, enriches and assesses every configured station, replacing
// the catalog's contents atomically. A station whose file cannot be loaded is
// stored with its error; Rebuild itself only fails when the threshold
// overrides are invalid (nothing is replaced in that case).
func (c *Catalog) Rebuild(cfg *config.Config) error {
	scales, err := cfg.Scales()
	if err != nil {
		return err
	}

	next := make(map[string]*StationData, len(cfg.Stations))
	order := make([]string, 0, len(cfg.Stations))
	for _, st := range cfg.Stations {
		order = append(order, st.ID)
		next[st.ID] = c.build(st, scales)
	}

	c.mu.Lock()
	c.stations = next
	c.order = order
	c.mu.Unlock()

	// Coalescing notification: an unread signal already covers this rebuild.
	select {
	case c.rebuilt <- struct{}{}:
	default:
	}
	return nil
}

func (c *Catalog) build(st config.Station, scales []assess.Scale) *StationData {
	sd := &StationData{Station: st, LoadedAt: c.now()}

	table, err := c.load(st.File, st.ID)
	if err != nil {
		slog.Error("catalog: station load failed", "station", st.ID, "err", err)
		sd.Err = err
		return sd
	}

	sd.Table = table
	sd.Enriched = derive.Enrich(table)
	sd.KPIs = derive.Summarize(sd.Enriched)
	sd.Assessments = assess.EvaluateAll(scales, sd.Enriched.Series)
	sd.Overall = assess.Overall(sd.Assessments)

	slog.Info("catalog: station loaded",
		"station", st.ID,
		"rows", table.Len(),
		"skipped", table.SkippedRows,
		"degenerate", sd.Enriched.Stats.Degenerate(),
		"overall", string(sd.Overall))
	return sd
}

// Get returns the entry for the given station ID.
func (c *Catalog) Get(id string) (*StationData, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sd, ok := c.stations[id]
	return sd, ok
}

// List returns all entries in configuration order.
func (c *Catalog) List() []*StationData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*StationData, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.stations[id])
	}
	return out
}

// Rebuilt returns a channel that receives a signal after each Rebuild.
// Signals coalesce; consumers re-read the catalog rather than counting them.
func (c *Catalog) Rebuilt() <-chan struct{} { return c.rebuilt }

package promexport

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"

	"github.com/gridaudit/gridaudit/internal/catalog"
	"github.com/gridaudit/gridaudit/internal/config"
	"github.com/gridaudit/gridaudit/internal/dataset"
	"github.com/gridaudit/gridaudit/internal/derive"
)

func loadedStation(id string) *catalog.StationData {
	table := &dataset.Table{
		Station: id,
		Records: []dataset.Record{
			{
				Timestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
				VoltageAN: 230, VoltageBN: 225, VoltageCN: 235,
				CurrentA: 20, CurrentB: 10, CurrentC: 30,
				ActivePowerTotal: 9000, ApparentPowerTotal: 10000,
				Frequency: 50.1,
				VthdAN:    2.1, VthdBN: 2.2, VthdCN: 2.3,
				IthdA: 6.5, IthdB: 7.0, IthdC: 7.5,
			},
		},
	}
	e := derive.Enrich(table)
	return &catalog.StationData{
		Station:  config.Station{ID: id, Name: id},
		Table:    table,
		Enriched: e,
		KPIs:     derive.Summarize(e),
	}
}

func familyByName(fams []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range fams {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func TestFamilies(t *testing.T) {
	entries := []*catalog.StationData{
		loadedStation("mvule"),
		{Station: config.Station{ID: "clinic"}, Err: errors.New("boom")},
	}

	fams := Families(entries)

	up := familyByName(fams, "gridaudit_station_up")
	if up == nil {
		t.Fatal("missing gridaudit_station_up")
	}
	if up.GetType() != dto.MetricType_GAUGE {
		t.Errorf("type = %v, want gauge", up.GetType())
	}
	// up covers every station, loaded or not.
	if len(up.Metric) != 2 {
		t.Fatalf("up metrics: %d, want 2", len(up.Metric))
	}
	byStation := map[string]float64{}
	for _, m := range up.Metric {
		byStation[m.Label[0].GetValue()] = m.Gauge.GetValue()
	}
	if byStation["mvule"] != 1 || byStation["clinic"] != 0 {
		t.Errorf("up values = %v", byStation)
	}

	rows := familyByName(fams, "gridaudit_station_rows")
	if rows == nil {
		t.Fatal("missing gridaudit_station_rows")
	}
	// Data gauges skip failed stations.
	if len(rows.Metric) != 1 || rows.Metric[0].Label[0].GetValue() != "mvule" {
		t.Fatalf("rows metrics = %+v", rows.Metric)
	}
	if rows.Metric[0].Gauge.GetValue() != 1 {
		t.Errorf("rows = %v, want 1", rows.Metric[0].Gauge.GetValue())
	}

	pf := familyByName(fams, "gridaudit_station_avg_power_factor")
	if pf == nil {
		t.Fatal("missing gridaudit_station_avg_power_factor")
	}
	if got := pf.Metric[0].Gauge.GetValue(); got != 0.9 {
		t.Errorf("avg power factor = %v, want 0.9", got)
	}

	// Stable ordering by family name.
	for i := 1; i < len(fams); i++ {
		if fams[i-1].GetName() >= fams[i].GetName() {
			t.Errorf("families not sorted: %q before %q", fams[i-1].GetName(), fams[i].GetName())
		}
	}
}

func TestFamilies_Empty(t *testing.T) {
	if fams := Families(nil); len(fams) != 0 {
		t.Errorf("empty catalog should export no families, got %d", len(fams))
	}
}

func TestHandler(t *testing.T) {
	csv := "Time,Vrms_AN_avg,Vrms_BN_avg,Vrms_CN_avg," +
		"Irms_A_avg,Irms_B_avg,Irms_C_avg," +
		"PowerP_Total_avg,PowerS_Total_avg,Frequency_avg," +
		"Vthd_AN_avg,Vthd_BN_avg,Vthd_CN_avg,Ithd_A_avg,Ithd_B_avg,Ithd_C_avg\n" +
		"2024-03-01 12:00:00,230,225,235,20,10,30,9000,10000,50.1,2.1,2.2,2.3,6.5,7.0,7.5\n"
	path := filepath.Join(t.TempDir(), "mvule.csv")
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	cat := catalog.New()
	cfg := &config.Config{
		Server:   config.ServerConfig{HTTPPort: 8080},
		Stations: []config.Station{{ID: "mvule", Name: "Mvule", File: path}},
	}
	if err := cat.Rebuild(cfg); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	srv := httptest.NewServer(Handler(cat))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	text := string(body)
	for _, want := range []string{
		`gridaudit_station_up{station="mvule"} 1`,
		`gridaudit_station_rows{station="mvule"} 1`,
		"# TYPE gridaudit_station_avg_frequency_hz gauge",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("exposition missing %q\n%s", want, text)
		}
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	srv := httptest.NewServer(Handler(catalog.New()))
	defer srv.Close()

	resp, err := http.Post(srv.URL, "text/plain", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

package dataset

import (
	"fmt"
	"time"
)

// Record is one averaging interval's worth of measurements for a station.
// All electrical quantities are floats in the meter's native units:
// volts, amps, watts (active), volt-amperes (apparent), hertz, percent (THD).
type Record struct {
	Timestamp time.Time

	// Line-to-neutral RMS voltage per phase.
	VoltageAN float64
	VoltageBN float64
	VoltageCN float64

	// Line-to-line RMS voltage. Only populated when the export includes the
	// Vrms_AB/BC/CA columns; check Table.HasLineToLine before using.
	VoltageAB float64
	VoltageBC float64
	VoltageCA float64

	// RMS current per phase.
	CurrentA float64
	CurrentB float64
	CurrentC float64

	// Total three-phase power.
	ActivePowerTotal   float64 // W
	ApparentPowerTotal float64 // VA

	// MeterPF is the power factor as reported by the meter itself
	// (PfFwdRev_Total_avg). Only populated when Table.HasMeterPF is set;
	// the derived system power factor is computed from P/S regardless.
	MeterPF float64

	Frequency float64 // Hz

	// Total harmonic distortion, percent.
	VthdAN float64
	VthdBN float64
	VthdCN float64
	IthdA  float64
	IthdB  float64
	IthdC  float64
}

// Table is the ordered measurement series for one station. Rows are kept in
// file order, which the logger writes in non-decreasing timestamp order.
type Table struct {
	Station string
	Records []Record

	// HasLineToLine reports whether the optional Vrms_AB/BC/CA columns were
	// present in the source file.
	HasLineToLine bool

	// HasMeterPF reports whether the optional PfFwdRev_Total_avg column was
	// present in the source file.
	HasMeterPF bool

	// SkippedRows counts source rows dropped because a measurement cell
	// failed to parse as a number or the timestamp was malformed.
	SkippedRows int
}

// Len returns the number of measurement rows.
func (t *Table) Len() int { return len(t.Records) }

// MissingColumnError reports a required measurement column absent from a
// station export. Derivation cannot proceed without it.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("dataset: required column %q not found", e.Column)
}

// Required measurement column names, as written by the meter export.
const (
	ColVoltageAN = "Vrms_AN_avg"
	ColVoltageBN = "Vrms_BN_avg"
	ColVoltageCN = "Vrms_CN_avg"
	ColCurrentA  = "Irms_A_avg"
	ColCurrentB  = "Irms_B_avg"
	ColCurrentC  = "Irms_C_avg"
	ColActiveP   = "PowerP_Total_avg"
	ColApparentS = "PowerS_Total_avg"
	ColFrequency = "Frequency_avg"
	ColVthdAN    = "Vthd_AN_avg"
	ColVthdBN    = "Vthd_BN_avg"
	ColVthdCN    = "Vthd_CN_avg"
	ColIthdA     = "Ithd_A_avg"
	ColIthdB     = "Ithd_B_avg"
	ColIthdC     = "Ithd_C_avg"
)

// Optional column names. Their absence is not an error.
const (
	ColVoltageAB = "Vrms_AB_avg"
	ColVoltageBC = "Vrms_BC_avg"
	ColVoltageCA = "Vrms_CA_avg"
	ColMeterPF   = "PfFwdRev_Total_avg"
)

// binding ties a column header to the Record field it populates.
type binding struct {
	name string
	set  func(*Record, float64)
}

var requiredBindings = []binding{
	{ColVoltageAN, func(r *Record, v float64) { r.VoltageAN = v }},
	{ColVoltageBN, func(r *Record, v float64) { r.VoltageBN = v }},
	{ColVoltageCN, func(r *Record, v float64) { r.VoltageCN = v }},
	{ColCurrentA, func(r *Record, v float64) { r.CurrentA = v }},
	{ColCurrentB, func(r *Record, v float64) { r.CurrentB = v }},
	{ColCurrentC, func(r *Record, v float64) { r.CurrentC = v }},
	{ColActiveP, func(r *Record, v float64) { r.ActivePowerTotal = v }},
	{ColApparentS, func(r *Record, v float64) { r.ApparentPowerTotal = v }},
	{ColFrequency, func(r *Record, v float64) { r.Frequency = v }},
	{ColVthdAN, func(r *Record, v float64) { r.VthdAN = v }},
	{ColVthdBN, func(r *Record, v float64) { r.VthdBN = v }},
	{ColVthdCN, func(r *Record, v float64) { r.VthdCN = v }},
	{ColIthdA, func(r *Record, v float64) { r.IthdA = v }},
	{ColIthdB, func(r *Record, v float64) { r.IthdB = v }},
	{ColIthdC, func(r *Record, v float64) { r.IthdC = v }},
}

var optionalBindings = []binding{
	{ColVoltageAB, func(r *Record, v float64) { r.VoltageAB = v }},
	{ColVoltageBC, func(r *Record, v float64) { r.VoltageBC = v }},
	{ColVoltageCA, func(r *Record, v float64) { r.VoltageCA = v }},
	{ColMeterPF, func(r *Record, v float64) { r.MeterPF = v }},
}

// timeColumns are the timestamp header candidates, tried in order. The meter
// firmware has shipped several variants over the years.
var timeColumns = []string{
	"Stop(E. Africa Standard Time)",
	"Start/Stop(E. Africa Standard Time)",
	"Time",
	"DateTime",
	"Timestamp",
}

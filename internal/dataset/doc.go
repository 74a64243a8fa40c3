// Package dataset loads power-quality measurement exports into typed tables.
//
// Each station's logger export is a CSV file with one row per averaging
// interval. Column headers follow the meter's naming scheme (Vrms_AN_avg,
// Irms_A_avg, PowerS_Total_avg, ...). Load binds headers to Record fields at
// parse time; a required header that is absent produces a *MissingColumnError
// naming the column, and no partial table is returned.
package dataset

// Package catalog holds the loaded, enriched and assessed station datasets.
//
// Source files are static, so the catalog is populated once at startup and
// only rebuilt when the configuration (station list or thresholds) changes.
// Between rebuilds it is read-only; every render cycle reads the same
// in-memory data. A failed station load is isolated: the entry records the
// error and the other stations remain served.
package catalog

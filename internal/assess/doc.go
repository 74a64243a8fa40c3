// Package assess classifies power-quality metrics against fixed threshold
// bands and produces a rating with a textual recommendation.
//
// Thresholds are data, not branches: each metric carries an ordered list of
// (boundary, rating) bands so the cut points can be audited and overridden
// from configuration without touching classification logic. Classification is
// pure and stateless; the rating for a (metric, value) pair never depends on
// evaluation order.
//
// The default bands encode the audit's reference limits: voltage imbalance
// 2%/5%, current imbalance 10%/20%, power factor 0.95/0.85, voltage THD
// 5%/8%, current THD 8%/15%, frequency 50 Hz ±0.5/±1.0, line-to-neutral
// voltage 230 V ±23/±34.5 (the 207–253 V supply band).
package assess

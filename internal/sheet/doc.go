// Package sheet is the plate-sheet boundary: it loads tabular plate data,
// tracks row selection, and normalizes raw cells into the typed row schema
// the grouper consumes.
//
// The on-disk format is CSV with a canonical header row. Rows missing their
// sequence or shot identity are quarantined at this boundary with a logged
// warning rather than failing deep inside aggregation.
package sheet

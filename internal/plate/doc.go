// Package plate models plate-sheet rows and the per-shot aggregation that
// merges selected rows into one record per shot.
//
// Grouping follows the sheet's domain rules: duplicate values collapse to a
// single scalar per field, except the retime triplet fields where every
// occurrence is an independent retime segment and order matters. Frame
// ranges collapse to min/max/sum and timecodes to their earliest/latest
// values once a shot has more than one contributing row.
package plate

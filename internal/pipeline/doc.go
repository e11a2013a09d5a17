// Package pipeline drives a publish batch end to end: normalize the
// selected sheet rows, group them into shot records, resolve versions
// against the tracking database, generate and run conversion jobs, publish
// the results, and clean up. Each run holds the journal lock, records its
// stage transitions in the journal, and operates on an immutable snapshot
// of the selected rows.
package pipeline

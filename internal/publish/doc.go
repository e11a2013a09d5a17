// Package publish creates version records in the tracking database for
// converted shots and uploads their review movies. A shot whose colored
// movie never materialized is skipped with a warning; one shot's failure
// never blocks the rest of the batch.
package publish

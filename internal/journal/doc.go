// Package journal records publish batches and their per-shot outcomes in a
// local SQLite database, and provides the file lock that keeps two runs
// from converting into the same output directories at once.
package journal

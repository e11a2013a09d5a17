// Package shotdb talks to the production-tracking database.
//
// The core pipeline only needs three operations: list the published version
// codes for the project, create a version record, and attach a movie file
// to it. The Client interface keeps the pipeline testable without a live
// tracking server; the HTTP implementation covers the real one.
package shotdb

package shotdb

import "context"

// VersionRecord is a tracking-database version entry. Find only requests
// the code field; Create returns the assigned identifier.
type VersionRecord struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
}

// Client defines the tracking-database behaviour the pipeline needs.
type Client interface {
	// FindVersionCodes returns the code field of every version record in
	// the project. An empty result means no prior versions exist.
	FindVersionCodes(ctx context.Context) ([]string, error)

	// ProjectCodec returns the codec label configured on the project
	// record, or empty when the project carries none.
	ProjectCodec(ctx context.Context) (string, error)

	// CreateVersion writes a new version record and returns it with its
	// assigned identifier.
	CreateVersion(ctx context.Context, fields map[string]string) (VersionRecord, error)

	// UploadMovie attaches a local movie file to an existing version record.
	UploadMovie(ctx context.Context, versionID int64, moviePath string) error
}

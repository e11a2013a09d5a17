package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"plateflow/internal/converter"
	"plateflow/internal/logging"
	"plateflow/internal/plate"
	"plateflow/internal/shotdb"
)

// ErrMovieMissing marks a shot whose review movie never materialized. The
// shot is skipped, not failed; the rest of the batch still publishes.
var ErrMovieMissing = errors.New("review movie not found")

// Item pairs a grouped record with its completed conversion job.
type Item struct {
	Record plate.Record
	Job    converter.Job
}

// Outcome records how one shot's publish ended.
type Outcome struct {
	Item    Item
	Version shotdb.VersionRecord
	Err     error
}

// Summary partitions a publish run.
type Summary struct {
	Published []Outcome
	Skipped   []Outcome
	Failed    []Outcome
}

// Publisher creates tracking-database version entries and uploads review
// movies for converted shots.
type Publisher struct {
	client shotdb.Client
	logger *slog.Logger
}

// New constructs a publisher.
func New(client shotdb.Client, logger *slog.Logger) (*Publisher, error) {
	if client == nil {
		return nil, errors.New("tracking database client required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Publisher{client: client, logger: logger}, nil
}

// PublishAll publishes every item, continuing past skipped and failed shots.
func (p *Publisher) PublishAll(ctx context.Context, items []Item) Summary {
	var summary Summary
	for _, item := range items {
		outcome := Outcome{Item: item}
		outcome.Version, outcome.Err = p.publishOne(ctx, item)
		switch {
		case outcome.Err == nil:
			summary.Published = append(summary.Published, outcome)
		case errors.Is(outcome.Err, ErrMovieMissing):
			p.logger.Warn("skipping shot without review movie",
				logging.String(logging.FieldShot, item.Job.Shot),
				logging.String("movie", item.Job.ColoredMovPath))
			summary.Skipped = append(summary.Skipped, outcome)
		default:
			p.logger.Error("publish failed",
				logging.String(logging.FieldShot, item.Job.Shot),
				logging.Error(outcome.Err))
			summary.Failed = append(summary.Failed, outcome)
		}
	}
	return summary
}

func (p *Publisher) publishOne(ctx context.Context, item Item) (shotdb.VersionRecord, error) {
	movie := item.Job.ColoredMovPath
	if _, err := os.Stat(movie); err != nil {
		return shotdb.VersionRecord{}, fmt.Errorf("%w: %s", ErrMovieMissing, movie)
	}

	fields := VersionFields(item.Record, item.Job)
	version, err := p.client.CreateVersion(ctx, fields)
	if err != nil {
		return shotdb.VersionRecord{}, fmt.Errorf("create version for %s: %w", item.Job.Shot, err)
	}
	p.logger.Debug("version created",
		logging.String(logging.FieldShot, item.Job.Shot),
		logging.Int64("version_id", version.ID),
		logging.String("code", fields["code"]))

	if err := p.client.UploadMovie(ctx, version.ID, movie); err != nil {
		return version, fmt.Errorf("upload movie for %s: %w", item.Job.Shot, err)
	}
	p.logger.Debug("movie uploaded",
		logging.String(logging.FieldShot, item.Job.Shot),
		logging.String("movie", movie))
	return version, nil
}

// VersionFields maps a grouped record and its job into tracking-database
// version entry fields. List-shaped values are newline-joined.
func VersionFields(record plate.Record, job converter.Job) map[string]string {
	code := strings.TrimSuffix(filepath.Base(job.ColoredMovPath), filepath.Ext(job.ColoredMovPath))

	fields := map[string]string{
		"code":                  code,
		"sg_roll":               record.Roll.Join("\n"),
		"sg_clip_name":          record.Roll.Join("\n"),
		"sg_version_1":          strconv.Itoa(record.Version),
		"sg_type":               record.Type.Join("\n"),
		"sg_scan_path_1":        record.ScanPath.Join("\n"),
		"sg_scan_name":          record.ScanName.Join("\n"),
		"sg_pad":                record.Pad.Join("\n"),
		"sg_ext":                record.Ext.Join("\n"),
		"sg_resolution":         record.Resolution.Join("\n"),
		"sg_start_frame":        record.StartFrame.Join("\n"),
		"sg_end_frame":          record.EndFrame.Join("\n"),
		"sg_duration":           record.Duration.Join("\n"),
		"sg_retime_start_frame": record.RetimeStartFrame.Join("\n"),
		"sg_retime_duration":    record.RetimeDuration.Join("\n"),
		"sg_retime_percent":     record.RetimePercent.Join("\n"),
		"sg_timecode_in":        record.TimecodeIn.Join("\n"),
		"sg_timecode_out":       record.TimecodeOut.Join("\n"),
		"sg_just_in":            record.JustIn.Join("\n"),
		"sg_just_out":           record.JustOut.Join("\n"),
		"sg_framerate":          record.Framerate.Join("\n"),
		"sg_date":               record.Date.Join("\n"),
		"sg_clip_tag":           record.ClipTag.Join("\n"),
		"sg_path_to_movie":      job.EditMovPath,
	}
	if job.FrameOutputs {
		fields["sg_path_to_frames"] = job.DPXPattern
	}
	return fields
}

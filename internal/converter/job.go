package converter

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"plateflow/internal/plate"
	"plateflow/internal/services"
	"plateflow/internal/textutil"
)

// Segment is one validated retime span.
type Segment struct {
	StartFrame int `toml:"start_frame"`
	Duration   int `toml:"duration"`
	Percent    int `toml:"percent"`
}

// Options selects the conversion variant for a batch.
type Options struct {
	// FrameOutputs additionally renders dpx and jpg frame sequences
	// alongside the review movies.
	FrameOutputs bool
	// ApplyRetime enables retime segments for records that carry them.
	ApplyRetime bool
	// Colorspace is the working colorspace for the batch.
	Colorspace string
	// CodecLabel selects the movie codec by its display label.
	CodecLabel string
}

// Job is the fully resolved conversion work for one shot record.
type Job struct {
	Sequence  string
	Shot      string
	MediaType string
	Version   int

	CodecLabel        string
	CodecFourCC       string
	Colorspace        string
	DisplayColorspace string

	StartFrame int
	EndFrame   int

	SourcePath string
	OutputDir  string

	MovInputDir string
	DPXDir      string
	JPGDir      string

	ConvertedMovPath string
	EditMovPath      string
	ColoredMovPath   string
	DPXPattern       string
	JPGPattern       string

	FrameOutputs bool
	Segments     []Segment

	// ScriptPath is set once the job payload has been written out.
	ScriptPath string
}

// Build resolves a grouped record into a conversion job. The record must
// already carry its resolved version.
func Build(record plate.Record, opts Options) (Job, error) {
	fourcc, ok := CodecFourCC(opts.CodecLabel)
	if !ok {
		return Job{}, services.Wrap(services.ErrValidation, "generate", "resolve codec",
			fmt.Sprintf("unsupported codec label %q", opts.CodecLabel), nil)
	}
	display, ok := DisplayColorspace(opts.Colorspace)
	if !ok {
		return Job{}, services.Wrap(services.ErrValidation, "generate", "resolve colorspace",
			fmt.Sprintf("unsupported colorspace %q", opts.Colorspace), nil)
	}
	if record.Version < 1 {
		return Job{}, services.Wrap(services.ErrValidation, "generate", "check version",
			fmt.Sprintf("record %s has no resolved version", record.Shot), nil)
	}

	start, err := frameNumber("start_frame", record.StartFrame)
	if err != nil {
		return Job{}, err
	}
	end, err := frameNumber("end_frame", record.EndFrame)
	if err != nil {
		return Job{}, err
	}

	job := Job{
		Sequence:          record.Sequence,
		Shot:              record.Shot,
		MediaType:         record.Type.Scalar(),
		Version:           record.Version,
		CodecLabel:        opts.CodecLabel,
		CodecFourCC:       fourcc,
		Colorspace:        opts.Colorspace,
		DisplayColorspace: display,
		StartFrame:        start,
		EndFrame:          end,
		FrameOutputs:      opts.FrameOutputs,
	}

	if opts.ApplyRetime && record.HasRetime() {
		segments, err := parseSegments(record)
		if err != nil {
			return Job{}, err
		}
		job.Segments = segments
	}

	scanPath := record.ScanPath.Scalar()
	scanName := record.ScanName.Scalar()
	pad := record.Pad.Scalar()
	ext := record.Ext.Scalar()

	if pad == "" {
		job.SourcePath = filepath.Join(scanPath, scanName)
	} else {
		job.SourcePath = filepath.Join(scanPath, fmt.Sprintf("%s%s.%s", scanName, pad, ext))
	}

	job.OutputDir = filepath.Dir(scanPath)
	job.MovInputDir = filepath.Join(job.OutputDir, "mov")
	job.DPXDir = filepath.Join(job.OutputDir, "dpx")
	job.JPGDir = filepath.Join(job.OutputDir, "jpg")

	sourceBase := filepath.Base(job.SourcePath)
	if dot := strings.Index(sourceBase, "."); dot >= 0 {
		sourceBase = sourceBase[:dot]
	}
	job.ConvertedMovPath = filepath.Join(job.MovInputDir, sourceBase+".mov")

	versionTag := fmt.Sprintf("v%03d", job.Version)
	job.EditMovPath = filepath.Join(job.OutputDir,
		fmt.Sprintf("%s_%s_%s.mov", job.Shot, job.MediaType, versionTag))
	job.ColoredMovPath = filepath.Join(job.OutputDir,
		fmt.Sprintf("%s_%s_%s_%s.mov", job.Shot, job.Colorspace, job.MediaType, versionTag))
	job.DPXPattern = filepath.Join(job.DPXDir,
		fmt.Sprintf("%s_%s_%s_%s.%%04d.dpx", job.Shot, job.Colorspace, job.MediaType, versionTag))
	job.JPGPattern = filepath.Join(job.JPGDir,
		fmt.Sprintf("%s_%s_%s_%s.%%04d.jpg", job.Shot, job.Colorspace, job.MediaType, versionTag))

	return job, nil
}

// HasRetime reports whether the job carries retime segments.
func (j Job) HasRetime() bool { return len(j.Segments) > 0 }

// ScriptName returns the job payload filename for this job.
func (j Job) ScriptName() string {
	mode := "movie"
	if j.FrameOutputs {
		mode = "frames"
	}
	retime := ""
	if j.HasRetime() {
		retime = "_retime"
	}
	return fmt.Sprintf("convert_%s%s_%s_%s_v%03d.toml", mode, retime,
		textutil.SanitizeFileName(j.Sequence), textutil.SanitizeFileName(j.Shot), j.Version)
}

func frameNumber(field string, value plate.Value) (int, error) {
	raw := strings.TrimSpace(value.Scalar())
	number, err := strconv.Atoi(raw)
	if err != nil {
		return 0, services.Wrap(services.ErrParse, "generate", "parse "+field,
			fmt.Sprintf("%q is not an integer", raw), nil)
	}
	return number, nil
}

func parseSegments(record plate.Record) ([]Segment, error) {
	raw := record.RetimeSegments()
	segments := make([]Segment, 0, len(raw))
	for i, triplet := range raw {
		start, duration, percent := triplet[0], triplet[1], triplet[2]
		if strings.TrimSpace(start) == "" || strings.TrimSpace(duration) == "" || strings.TrimSpace(percent) == "" {
			return nil, services.Wrap(services.ErrValidation, "generate", "check retime",
				fmt.Sprintf("shot %s retime segment %d is incomplete", record.Shot, i+1), nil)
		}
		segment := Segment{}
		var err error
		if segment.StartFrame, err = strconv.Atoi(strings.TrimSpace(start)); err != nil {
			return nil, retimeParseError(record.Shot, i, "start frame", start)
		}
		if segment.Duration, err = strconv.Atoi(strings.TrimSpace(duration)); err != nil {
			return nil, retimeParseError(record.Shot, i, "duration", duration)
		}
		if segment.Percent, err = strconv.Atoi(strings.TrimSpace(percent)); err != nil {
			return nil, retimeParseError(record.Shot, i, "percent", percent)
		}
		if segment.Percent <= 0 {
			return nil, services.Wrap(services.ErrValidation, "generate", "check retime",
				fmt.Sprintf("shot %s retime segment %d has non-positive percent", record.Shot, i+1), nil)
		}
		segments = append(segments, segment)
	}
	return segments, nil
}

func retimeParseError(shot string, index int, field, value string) error {
	return services.Wrap(services.ErrParse, "generate", "parse retime",
		fmt.Sprintf("shot %s retime segment %d %s %q is not an integer", shot, index+1, field, value), nil)
}

package converter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// scriptPayload is the serialized job handed to the conversion tool. The tool
// interprets it; this side only promises stable field names.
type scriptPayload struct {
	Sequence  string `toml:"sequence"`
	Shot      string `toml:"shot"`
	MediaType string `toml:"media_type"`
	Version   int    `toml:"version"`

	Codec             string `toml:"codec"`
	Colorspace        string `toml:"colorspace"`
	DisplayColorspace string `toml:"display_colorspace"`

	StartFrame int `toml:"start_frame"`
	EndFrame   int `toml:"end_frame"`

	SourcePath       string `toml:"source_path"`
	ConvertedMovPath string `toml:"converted_mov_path"`
	EditMovPath      string `toml:"edit_mov_path"`
	ColoredMovPath   string `toml:"colored_mov_path"`

	FrameOutputs bool   `toml:"frame_outputs"`
	DPXPattern   string `toml:"dpx_pattern,omitempty"`
	JPGPattern   string `toml:"jpg_pattern,omitempty"`

	Retime []Segment `toml:"retime,omitempty"`
}

// WriteScript serializes the job payload into scriptDir and records the path
// on the job.
func WriteScript(job *Job, scriptDir string) error {
	if err := os.MkdirAll(scriptDir, 0o755); err != nil {
		return fmt.Errorf("create script directory: %w", err)
	}

	payload := scriptPayload{
		Sequence:          job.Sequence,
		Shot:              job.Shot,
		MediaType:         job.MediaType,
		Version:           job.Version,
		Codec:             job.CodecFourCC,
		Colorspace:        job.Colorspace,
		DisplayColorspace: job.DisplayColorspace,
		StartFrame:        job.StartFrame,
		EndFrame:          job.EndFrame,
		SourcePath:        job.SourcePath,
		ConvertedMovPath:  job.ConvertedMovPath,
		EditMovPath:       job.EditMovPath,
		ColoredMovPath:    job.ColoredMovPath,
		FrameOutputs:      job.FrameOutputs,
		Retime:            job.Segments,
	}
	if job.FrameOutputs {
		payload.DPXPattern = job.DPXPattern
		payload.JPGPattern = job.JPGPattern
	}

	data, err := toml.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode job payload: %w", err)
	}

	path := filepath.Join(scriptDir, job.ScriptName())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write job payload: %w", err)
	}
	job.ScriptPath = path
	return nil
}

// RemoveScripts deletes the payload files of the given jobs. Missing files
// are ignored so cleanup stays idempotent. Failed jobs are expected to be
// excluded by the caller so their payloads remain for inspection.
func RemoveScripts(jobs []Job) error {
	for _, job := range jobs {
		if job.ScriptPath == "" {
			continue
		}
		if err := os.Remove(job.ScriptPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove job payload %s: %w", job.ScriptPath, err)
		}
	}
	return nil
}

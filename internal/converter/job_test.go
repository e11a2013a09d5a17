package converter

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"plateflow/internal/plate"
	"plateflow/internal/services"
)

func sampleRecord() plate.Record {
	return plate.Record{
		Sequence:   "abc",
		Shot:       "abc_0010",
		Type:       plate.Scalar("org"),
		ScanPath:   plate.Scalar("/show/scan/abc_0010/src"),
		ScanName:   plate.Scalar("abc_0010_plate."),
		Pad:        plate.Scalar("%04d"),
		Ext:        plate.Scalar("exr"),
		StartFrame: plate.Scalar("1001"),
		EndFrame:   plate.Scalar("1100"),
		Version:    3,
	}
}

func sampleOptions() Options {
	return Options{
		FrameOutputs: true,
		ApplyRetime:  true,
		Colorspace:   "ACES - ACEScg",
		CodecLabel:   "Apple ProRes 4444",
	}
}

func TestBuildNamesAndPaths(t *testing.T) {
	job, err := Build(sampleRecord(), sampleOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if job.CodecFourCC != "ap4h" {
		t.Errorf("fourcc = %q", job.CodecFourCC)
	}
	if job.DisplayColorspace != "Linear Rec.709 (sRGB)" {
		t.Errorf("display colorspace = %q", job.DisplayColorspace)
	}
	if job.SourcePath != "/show/scan/abc_0010/src/abc_0010_plate.%04d.exr" {
		t.Errorf("source path = %q", job.SourcePath)
	}
	if job.OutputDir != "/show/scan/abc_0010" {
		t.Errorf("output dir = %q", job.OutputDir)
	}
	if job.ConvertedMovPath != "/show/scan/abc_0010/mov/abc_0010_plate.mov" {
		t.Errorf("converted mov = %q", job.ConvertedMovPath)
	}
	if job.EditMovPath != "/show/scan/abc_0010/abc_0010_org_v003.mov" {
		t.Errorf("edit mov = %q", job.EditMovPath)
	}
	if job.ColoredMovPath != "/show/scan/abc_0010/abc_0010_ACES - ACEScg_org_v003.mov" {
		t.Errorf("colored mov = %q", job.ColoredMovPath)
	}
	if job.DPXPattern != "/show/scan/abc_0010/dpx/abc_0010_ACES - ACEScg_org_v003.%04d.dpx" {
		t.Errorf("dpx pattern = %q", job.DPXPattern)
	}
	if job.StartFrame != 1001 || job.EndFrame != 1100 {
		t.Errorf("frames = %d..%d", job.StartFrame, job.EndFrame)
	}
}

func TestBuildDirectMovieSource(t *testing.T) {
	record := sampleRecord()
	record.ScanName = plate.Scalar("abc_0010_plate.mov")
	record.Pad = plate.Scalar("")

	job, err := Build(record, sampleOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if job.SourcePath != "/show/scan/abc_0010/src/abc_0010_plate.mov" {
		t.Errorf("source path = %q", job.SourcePath)
	}
}

func TestBuildRetimeSegments(t *testing.T) {
	record := sampleRecord()
	record.RetimeStartFrame = plate.List("10", "20")
	record.RetimeDuration = plate.List("5", "5")
	record.RetimePercent = plate.List("100", "50")

	job, err := Build(record, sampleOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []Segment{{10, 5, 100}, {20, 5, 50}}
	if len(job.Segments) != len(want) {
		t.Fatalf("segments = %v", job.Segments)
	}
	for i := range want {
		if job.Segments[i] != want[i] {
			t.Errorf("segment %d = %v, want %v", i, job.Segments[i], want[i])
		}
	}
	if !strings.Contains(job.ScriptName(), "_retime_") {
		t.Errorf("script name %q missing retime marker", job.ScriptName())
	}
}

func TestBuildRetimeDisabled(t *testing.T) {
	record := sampleRecord()
	record.RetimeStartFrame = plate.Scalar("10")
	record.RetimeDuration = plate.Scalar("5")
	record.RetimePercent = plate.Scalar("100")

	opts := sampleOptions()
	opts.ApplyRetime = false

	job, err := Build(record, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if job.HasRetime() {
		t.Error("retime applied despite being disabled")
	}
}

func TestBuildBadRetimeValue(t *testing.T) {
	record := sampleRecord()
	record.RetimeStartFrame = plate.Scalar("ten")
	record.RetimeDuration = plate.Scalar("5")
	record.RetimePercent = plate.Scalar("100")

	_, err := Build(record, sampleOptions())
	if !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestBuildUnknownCodec(t *testing.T) {
	opts := sampleOptions()
	opts.CodecLabel = "H.264"

	_, err := Build(sampleRecord(), opts)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBuildUnknownColorspace(t *testing.T) {
	opts := sampleOptions()
	opts.Colorspace = "Rec.2020"

	_, err := Build(sampleRecord(), opts)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBuildUnresolvedVersion(t *testing.T) {
	record := sampleRecord()
	record.Version = 0

	_, err := Build(record, sampleOptions())
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestScriptNameDistinctAcrossSequences(t *testing.T) {
	first := sampleRecord()
	second := sampleRecord()
	second.Sequence = "def"

	jobA, err := Build(first, sampleOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	jobB, err := Build(second, sampleOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if jobA.ScriptName() == jobB.ScriptName() {
		t.Fatalf("same-shot jobs in different sequences share script name %q", jobA.ScriptName())
	}
}

func TestBuildBadStartFrame(t *testing.T) {
	record := sampleRecord()
	record.StartFrame = plate.Scalar("one thousand")

	_, err := Build(record, sampleOptions())
	if !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestWriteAndRemoveScript(t *testing.T) {
	dir := t.TempDir()
	job, err := Build(sampleRecord(), sampleOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if err := WriteScript(&job, dir); err != nil {
		t.Fatalf("WriteScript: %v", err)
	}
	if job.ScriptPath != filepath.Join(dir, "convert_frames_abc_abc_0010_v003.toml") {
		t.Fatalf("script path = %q", job.ScriptPath)
	}

	data, err := os.ReadFile(job.ScriptPath)
	if err != nil {
		t.Fatalf("read payload: %v", err)
	}
	content := string(data)
	for _, want := range []string{"ap4h", "abc_0010", "start_frame = 1001", "dpx_pattern"} {
		if !strings.Contains(content, want) {
			t.Errorf("payload missing %q:\n%s", want, content)
		}
	}

	if err := RemoveScripts([]Job{job}); err != nil {
		t.Fatalf("RemoveScripts: %v", err)
	}
	if _, err := os.Stat(job.ScriptPath); !os.IsNotExist(err) {
		t.Error("payload still present after cleanup")
	}

	// idempotent on missing files
	if err := RemoveScripts([]Job{job}); err != nil {
		t.Fatalf("second RemoveScripts: %v", err)
	}
}

package plate_test

import (
	"errors"
	"reflect"
	"testing"

	"plateflow/internal/plate"
	"plateflow/internal/services"
)

func baseRow(id int, shot string) plate.Row {
	return plate.Row{
		ID:          id,
		Sequence:    "seq001",
		Shot:        shot,
		Roll:        "A001",
		Type:        "org",
		ScanPath:    "/mnt/scan/seq001/" + shot,
		ScanName:    shot + "_plate",
		Pad:         ".%04d",
		Ext:         "exr",
		Resolution:  "4448x3096",
		StartFrame:  "1001",
		EndFrame:    "1100",
		Duration:    "100",
		TimecodeIn:  "01:00:00:00",
		TimecodeOut: "01:00:04:04",
		JustIn:      "1009",
		JustOut:     "1092",
		Framerate:   "24",
		Date:        "2024-03-02",
		ClipTag:     "day",
	}
}

func TestGroupSingleRowStaysScalar(t *testing.T) {
	records, err := plate.Group([]plate.Row{baseRow(0, "shot_010")})
	if err != nil {
		t.Fatalf("Group failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.StartFrame.IsList() || rec.TimecodeIn.IsList() || rec.Roll.IsList() {
		t.Fatalf("single-row shot must keep scalar fields: %#v", rec)
	}
	if rec.StartFrame.Scalar() != "1001" {
		t.Fatalf("unexpected start frame: %q", rec.StartFrame.Scalar())
	}
	if got := rec.RowIDs; !reflect.DeepEqual(got, []int{0}) {
		t.Fatalf("unexpected row ids: %v", got)
	}
}

func TestGroupIdempotent(t *testing.T) {
	rows := []plate.Row{baseRow(0, "shot_010"), baseRow(1, "shot_020")}
	first, err := plate.Group(rows)
	if err != nil {
		t.Fatalf("Group failed: %v", err)
	}
	second, err := plate.Group(rows)
	if err != nil {
		t.Fatalf("Group failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("grouping is not idempotent:\n%#v\n%#v", first, second)
	}
}

func TestGroupNumericCollapsing(t *testing.T) {
	a := baseRow(0, "shot_010")
	a.StartFrame, a.EndFrame, a.Duration = "1", "100", "100"
	b := baseRow(1, "shot_010")
	b.StartFrame, b.EndFrame, b.Duration = "50", "200", "151"

	records, err := plate.Group([]plate.Row{a, b})
	if err != nil {
		t.Fatalf("Group failed: %v", err)
	}
	rec := records[0]
	if rec.StartFrame.Scalar() != "1" || rec.EndFrame.Scalar() != "200" || rec.Duration.Scalar() != "251" {
		t.Fatalf("unexpected range collapse: start=%q end=%q duration=%q",
			rec.StartFrame.Scalar(), rec.EndFrame.Scalar(), rec.Duration.Scalar())
	}
}

func TestGroupJustInOutCollapsing(t *testing.T) {
	a := baseRow(0, "shot_010")
	a.JustIn, a.JustOut = "1010", "1050"
	b := baseRow(1, "shot_010")
	b.JustIn, b.JustOut = "1005", "1040"

	records, err := plate.Group([]plate.Row{a, b})
	if err != nil {
		t.Fatalf("Group failed: %v", err)
	}
	rec := records[0]
	if rec.JustIn.Scalar() != "1005" || rec.JustOut.Scalar() != "1050" {
		t.Fatalf("unexpected just in/out: %q %q", rec.JustIn.Scalar(), rec.JustOut.Scalar())
	}
}

func TestGroupTimecodeCollapsing(t *testing.T) {
	a := baseRow(0, "shot_010")
	a.TimecodeIn, a.TimecodeOut = "01:00:00:00", "01:00:10:00"
	b := baseRow(1, "shot_010")
	b.TimecodeIn, b.TimecodeOut = "00:59:50:00", "01:00:05:00"

	records, err := plate.Group([]plate.Row{a, b})
	if err != nil {
		t.Fatalf("Group failed: %v", err)
	}
	rec := records[0]
	if rec.TimecodeIn.Scalar() != "00:59:50:00" {
		t.Fatalf("unexpected timecode in: %q", rec.TimecodeIn.Scalar())
	}
	if rec.TimecodeOut.Scalar() != "01:00:10:00" {
		t.Fatalf("unexpected timecode out: %q", rec.TimecodeOut.Scalar())
	}
}

func TestGroupRetimeOrderPreserved(t *testing.T) {
	a := baseRow(0, "shot_010")
	a.RetimeStartFrame, a.RetimeDuration, a.RetimePercent = "10", "5", "100"
	b := baseRow(1, "shot_010")
	b.RetimeStartFrame, b.RetimeDuration, b.RetimePercent = "20", "5", "50"

	records, err := plate.Group([]plate.Row{a, b})
	if err != nil {
		t.Fatalf("Group failed: %v", err)
	}
	rec := records[0]
	if got := rec.RetimeStartFrame.Items(); !reflect.DeepEqual(got, []string{"10", "20"}) {
		t.Fatalf("unexpected retime starts: %v", got)
	}
	// Duration 5 repeats across segments and must NOT be deduplicated.
	if got := rec.RetimeDuration.Items(); !reflect.DeepEqual(got, []string{"5", "5"}) {
		t.Fatalf("unexpected retime durations: %v", got)
	}
	if got := rec.RetimePercent.Items(); !reflect.DeepEqual(got, []string{"100", "50"}) {
		t.Fatalf("unexpected retime percents: %v", got)
	}

	segments := rec.RetimeSegments()
	want := [][3]string{{"10", "5", "100"}, {"20", "5", "50"}}
	if !reflect.DeepEqual(segments, want) {
		t.Fatalf("unexpected segments: %v", segments)
	}
}

func TestGroupRetimeEmptyRowsContributeNothing(t *testing.T) {
	a := baseRow(0, "shot_010")
	a.RetimeStartFrame, a.RetimeDuration, a.RetimePercent = "10", "5", "100"
	b := baseRow(1, "shot_010") // no retime

	records, err := plate.Group([]plate.Row{a, b})
	if err != nil {
		t.Fatalf("Group failed: %v", err)
	}
	rec := records[0]
	if rec.RetimeStartFrame.Len() != 1 {
		t.Fatalf("expected one retime segment, got %d", rec.RetimeStartFrame.Len())
	}
}

func TestGroupPartialRetimeTripletFails(t *testing.T) {
	a := baseRow(0, "shot_010")
	a.RetimeStartFrame = "10" // duration and percent missing

	_, err := plate.Group([]plate.Row{a})
	if err == nil {
		t.Fatal("expected error for partial retime triplet")
	}
	if !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected parse classification, got %v", err)
	}
}

func TestGroupBadIntegerAbortsBatch(t *testing.T) {
	a := baseRow(0, "shot_010")
	a.StartFrame = "one thousand"
	b := baseRow(1, "shot_010")
	b.StartFrame, b.EndFrame, b.Duration = "1050", "1200", "151"

	_, err := plate.Group([]plate.Row{a, b})
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestGroupPartialRangeListSkipsCollapse(t *testing.T) {
	// Only start_frame differs across the rows; end_frame and duration dedup
	// to scalars, so the range collapse must be skipped, not attempted.
	a := baseRow(0, "shot_010")
	b := baseRow(1, "shot_010")
	b.StartFrame = "1050"

	records, err := plate.Group([]plate.Row{a, b})
	if err != nil {
		t.Fatalf("Group failed: %v", err)
	}
	rec := records[0]
	if !rec.StartFrame.IsList() {
		t.Fatal("expected start_frame to stay a list")
	}
	if got := rec.StartFrame.Items(); !reflect.DeepEqual(got, []string{"1001", "1050"}) {
		t.Fatalf("unexpected start frames: %v", got)
	}
	if rec.EndFrame.IsList() || rec.Duration.IsList() {
		t.Fatalf("end/duration must stay scalar: %v %v", rec.EndFrame, rec.Duration)
	}
	if rec.EndFrame.Scalar() != "1100" || rec.Duration.Scalar() != "100" {
		t.Fatalf("unexpected range: %q %q", rec.EndFrame.Scalar(), rec.Duration.Scalar())
	}
}

func TestGroupDistinctShotsStaySeparate(t *testing.T) {
	records, err := plate.Group([]plate.Row{baseRow(0, "shot_010"), baseRow(1, "shot_020"), baseRow(2, "shot_010")})
	if err != nil {
		t.Fatalf("Group failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// First-seen key order.
	if records[0].Shot != "shot_010" || records[1].Shot != "shot_020" {
		t.Fatalf("unexpected order: %s, %s", records[0].Shot, records[1].Shot)
	}
	if !reflect.DeepEqual(records[0].RowIDs, []int{0, 2}) {
		t.Fatalf("unexpected row ids: %v", records[0].RowIDs)
	}
}

func TestGroupDistinctValuesKeepListShape(t *testing.T) {
	a := baseRow(0, "shot_010")
	a.ClipTag = "day"
	b := baseRow(1, "shot_010")
	b.ClipTag = "night"

	records, err := plate.Group([]plate.Row{a, b})
	if err != nil {
		t.Fatalf("Group failed: %v", err)
	}
	rec := records[0]
	if !rec.ClipTag.IsList() {
		t.Fatal("expected clip_tag to remain a list")
	}
	if got := rec.ClipTag.Items(); !reflect.DeepEqual(got, []string{"day", "night"}) {
		t.Fatalf("unexpected clip tags: %v", got)
	}
}

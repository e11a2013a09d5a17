package timecode_test

import (
	"testing"

	"plateflow/internal/timecode"
)

func TestToIntStripsSeparators(t *testing.T) {
	n, err := timecode.ToInt("01:00:10:00")
	if err != nil {
		t.Fatalf("ToInt failed: %v", err)
	}
	if n != 1001000 {
		t.Fatalf("unexpected value: %d", n)
	}
}

func TestToIntRejectsGarbage(t *testing.T) {
	if _, err := timecode.ToInt("not:a:time:code"); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := timecode.ToInt(""); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestFromIntRestoresPadding(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{595000, "00:59:50:00"},
		{1001000, "01:00:10:00"},
		{0, "00:00:00:00"},
	}
	for _, tc := range cases {
		if got := timecode.FromInt(tc.in); got != tc.want {
			t.Fatalf("FromInt(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMinMax(t *testing.T) {
	earliest, latest, err := timecode.MinMax([]string{"01:00:00:00", "00:59:50:00", "01:00:05:00"})
	if err != nil {
		t.Fatalf("MinMax failed: %v", err)
	}
	if earliest != "00:59:50:00" {
		t.Fatalf("unexpected earliest: %q", earliest)
	}
	if latest != "01:00:05:00" {
		t.Fatalf("unexpected latest: %q", latest)
	}
}

package localize

import (
	"testing"
	"time"

	"github.com/basekick-labs/tzvec/internal/calendar"
	"github.com/basekick-labs/tzvec/internal/tzinfo"
	"github.com/basekick-labs/tzvec/pkg/models"
)

func TestPeriodOrdinals_UTC(t *testing.T) {
	loc, _ := NewLocalizer(tzinfo.UTC)

	src := []int64{
		ts(1970, time.January, 1, 0, 0, 0, 0),
		ts(1970, time.January, 2, 0, 0, 0, 0),
		models.NaT,
		ts(1969, time.December, 31, 12, 0, 0, 0),
	}
	dst := make([]int64, len(src))
	if err := loc.PeriodOrdinals(dst, src, calendar.FreqDay); err != nil {
		t.Fatal(err)
	}

	want := []int64{0, 1, models.NaT, -1}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %d, want %d", i, dst[i], want[i])
		}
	}
}

func TestPeriodOrdinals_LocalDayBoundary(t *testing.T) {
	// 23:00 UTC on Jan 1 is already Jan 2 under +05:30; the day ordinal
	// follows the local calendar, not the UTC one.
	offset := int64(19800) * int64(time.Second)
	loc, _ := NewLocalizer(tzinfo.NewFixedZone("UTC+05:30", offset))

	src := []int64{ts(1970, time.January, 1, 23, 0, 0, 0)}
	dst := make([]int64, 1)
	if err := loc.PeriodOrdinals(dst, src, calendar.FreqDay); err != nil {
		t.Fatal(err)
	}
	if dst[0] != 1 {
		t.Fatalf("local day ordinal = %d, want 1", dst[0])
	}

	if err := loc.PeriodOrdinals(dst, src, calendar.FreqHour); err != nil {
		t.Fatal(err)
	}
	if want := int64(24 + 4); dst[0] != want { // 04:30 local on Jan 2
		t.Fatalf("local hour ordinal = %d, want %d", dst[0], want)
	}
}

func TestPeriodOrdinals_MonthAcrossZone(t *testing.T) {
	// New Year's Eve 23:00 UTC under -2h stays in December locally.
	loc, _ := NewLocalizer(tzinfo.NewFixedZone("UTC-2", -2*hourNs))

	src := []int64{ts(2024, time.January, 1, 1, 0, 0, 0)}
	dst := make([]int64, 1)
	if err := loc.PeriodOrdinals(dst, src, calendar.FreqMonth); err != nil {
		t.Fatal(err)
	}
	if want := int64(53*12 + 11); dst[0] != want {
		t.Fatalf("month ordinal = %d, want %d (2023-12)", dst[0], want)
	}
}

func TestPeriodOrdinals_InvalidFreq(t *testing.T) {
	loc, _ := NewLocalizer(tzinfo.UTC)

	src := []int64{0, 1}
	dst := []int64{-7, -7}
	if err := loc.PeriodOrdinals(dst, src, calendar.Freq("decade")); err == nil {
		t.Fatal("expected error for unknown frequency")
	}
	// The batch must be untouched on validation failure.
	if dst[0] != -7 || dst[1] != -7 {
		t.Fatalf("dst modified on error: %v", dst)
	}
}

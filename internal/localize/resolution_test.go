package localize

import (
	"testing"
	"time"

	"github.com/basekick-labs/tzvec/internal/tzinfo"
	"github.com/basekick-labs/tzvec/pkg/models"
)

func TestResolution_PerElement(t *testing.T) {
	loc, _ := NewLocalizer(tzinfo.UTC)

	cases := []struct {
		name string
		v    int64
		want models.Resolution
	}{
		{"sub-millisecond", ts(2024, time.June, 1, 12, 0, 0, 1_500_000), models.ResolutionMicrosecond},
		{"exact millisecond", ts(2024, time.June, 1, 12, 0, 0, 1_000_000), models.ResolutionMillisecond},
		{"second", ts(2024, time.June, 1, 12, 0, 1, 0), models.ResolutionSecond},
		{"minute", ts(2024, time.June, 1, 12, 1, 0, 0), models.ResolutionMinute},
		{"hour", ts(2024, time.June, 1, 13, 0, 0, 0), models.ResolutionHour},
		{"day", ts(2024, time.June, 1, 0, 0, 0, 0), models.ResolutionDay},
	}
	for _, c := range cases {
		if got := loc.Resolution([]int64{c.v}); got != c.want {
			t.Errorf("%s: Resolution = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestResolution_BatchTakesFinest(t *testing.T) {
	loc, _ := NewLocalizer(tzinfo.UTC)

	batch := []int64{
		ts(2024, time.June, 1, 0, 0, 0, 0),  // day
		ts(2024, time.June, 1, 13, 0, 0, 0), // hour
		ts(2024, time.June, 1, 12, 0, 1, 0), // second
	}
	if got := loc.Resolution(batch); got != models.ResolutionSecond {
		t.Fatalf("batch resolution = %v, want second", got)
	}
}

func TestResolution_EmptyAndSentinel(t *testing.T) {
	loc, _ := NewLocalizer(tzinfo.UTC)

	if got := loc.Resolution(nil); got != models.ResolutionDay {
		t.Fatalf("empty batch resolution = %v, want day", got)
	}
	if got := loc.Resolution([]int64{models.NaT, models.NaT}); got != models.ResolutionDay {
		t.Fatalf("all-sentinel resolution = %v, want day", got)
	}

	batch := []int64{models.NaT, ts(2024, time.June, 1, 12, 1, 0, 0)}
	if got := loc.Resolution(batch); got != models.ResolutionMinute {
		t.Fatalf("sentinel-mixed resolution = %v, want minute", got)
	}
}

func TestResolution_UsesLocalFields(t *testing.T) {
	// 23:30 UTC is a round local hour under +00:30.
	loc, _ := NewLocalizer(tzinfo.NewFixedZone("UTC+00:30", 30*int64(time.Minute)))

	v := ts(2024, time.June, 1, 23, 30, 0, 0)
	if got := loc.Resolution([]int64{v}); got != models.ResolutionDay {
		t.Fatalf("resolution = %v, want day (local midnight)", got)
	}
}

func TestResolution_ManualDecomposition(t *testing.T) {
	// Fixed-offset classification must match decomposing utc+offset by hand.
	offset := int64(3600) * int64(time.Second)
	loc, _ := NewLocalizer(tzinfo.NewFixedZone("UTC+1", offset))

	v := ts(2024, time.June, 1, 10, 59, 0, 0)
	if got := loc.Resolution([]int64{v}); got != models.ResolutionMinute {
		t.Fatalf("resolution = %v, want minute", got)
	}
}

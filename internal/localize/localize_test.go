package localize

import (
	"errors"
	"testing"
	"time"

	"github.com/basekick-labs/tzvec/internal/tzinfo"
	"github.com/basekick-labs/tzvec/pkg/models"
)

const (
	hourNs = int64(time.Hour)
	dayNs  = models.DayNanos
)

func ts(y int, mo time.Month, d, h, mi, s, ns int) int64 {
	return time.Date(y, mo, d, h, mi, s, ns, time.UTC).UnixNano()
}

// ruleZone builds a three-interval schedule: d0 before t1, d1 in
// [t1, t2), d2 from t2 on. The leading transition anchors the table
// before any representable instant.
func ruleZone(t *testing.T, name string, t1, t2, d0, d1, d2 int64) *tzinfo.ScheduledZone {
	t.Helper()
	z, err := tzinfo.NewScheduledZone(name, &tzinfo.Schedule{
		Transitions: []int64{-1 << 62, t1, t2},
		Deltas:      []int64{d0, d1, d2},
		Variant:     tzinfo.VariantRuleEngine,
	})
	if err != nil {
		t.Fatal(err)
	}
	return z
}

func TestNewLocalizer_Strategies(t *testing.T) {
	cases := []struct {
		name string
		desc tzinfo.Descriptor
		want strategy
	}{
		{"nil descriptor", nil, stratUTC},
		{"utc", tzinfo.UTC, stratUTC},
		{"system local", tzinfo.SystemLocal(), stratLocal},
		{"fixed", tzinfo.NewFixedZone("UTC+1", hourNs), stratFixed},
	}
	for _, c := range cases {
		loc, err := NewLocalizer(c.desc)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if loc.strat != c.want {
			t.Errorf("%s: strategy = %d, want %d", c.name, loc.strat, c.want)
		}
	}

	loc, err := NewLocalizer(ruleZone(t, "rule", 0, dayNs, 0, hourNs, 2*hourNs))
	if err != nil {
		t.Fatal(err)
	}
	if loc.strat != stratRule {
		t.Fatalf("rule zone strategy = %d, want %d", loc.strat, stratRule)
	}
	if loc.legacy {
		t.Fatal("rule-engine variant must not set legacy flag")
	}
}

func TestNewLocalizer_FixedVariantCollapses(t *testing.T) {
	// A one-entry fixed-variant schedule must skip the search path.
	z, err := tzinfo.NewScheduledZone("UTC-03", &tzinfo.Schedule{
		Transitions: []int64{-1 << 62},
		Deltas:      []int64{-3 * hourNs},
		Variant:     tzinfo.VariantFixed,
	})
	if err != nil {
		t.Fatal(err)
	}

	loc, err := NewLocalizer(z)
	if err != nil {
		t.Fatal(err)
	}
	if loc.strat != stratFixed {
		t.Fatalf("strategy = %d, want %d", loc.strat, stratFixed)
	}
	if loc.delta != -3*hourNs {
		t.Fatalf("delta = %d", loc.delta)
	}
}

func TestNewLocalizer_LegacyVariant(t *testing.T) {
	z, err := tzinfo.NewScheduledZone("legacy", &tzinfo.Schedule{
		Transitions: []int64{-1 << 62, 0},
		Deltas:      []int64{0, hourNs},
		Variant:     tzinfo.VariantLegacyDB,
	})
	if err != nil {
		t.Fatal(err)
	}

	loc, err := NewLocalizer(z)
	if err != nil {
		t.Fatal(err)
	}
	if !loc.legacy || loc.zones == nil {
		t.Fatal("legacy variant must carry the transition-zone capability")
	}
}

type opaqueZone struct{}

func (opaqueZone) Name() string { return "opaque" }

func TestNewLocalizer_InvalidDescriptor(t *testing.T) {
	_, err := NewLocalizer(opaqueZone{})
	if !errors.Is(err, ErrInvalidTimezone) {
		t.Fatalf("expected ErrInvalidTimezone, got %v", err)
	}
}

func TestConvertFromUTC_Identity(t *testing.T) {
	loc, _ := NewLocalizer(tzinfo.UTC)

	src := []int64{0, ts(2024, time.June, 1, 12, 0, 0, 0), models.NaT, -5}
	dst := make([]int64, len(src))
	loc.ConvertFromUTC(dst, src)

	for i := range src {
		if dst[i] != src[i] {
			t.Fatalf("dst[%d] = %d, want %d", i, dst[i], src[i])
		}
	}
}

func TestConvertFromUTC_FixedOffset(t *testing.T) {
	offset := int64(19800) * int64(time.Second) // +05:30
	loc, err := NewLocalizer(tzinfo.NewFixedZone("UTC+05:30", offset))
	if err != nil {
		t.Fatal(err)
	}

	src := []int64{0, ts(2024, time.June, 1, 12, 0, 0, 0), models.NaT}
	dst := make([]int64, len(src))
	loc.ConvertFromUTC(dst, src)

	if dst[0] != offset {
		t.Fatalf("dst[0] = %d, want %d", dst[0], offset)
	}
	if dst[1] != src[1]+offset {
		t.Fatalf("dst[1] = %d, want %d", dst[1], src[1]+offset)
	}
	if dst[2] != models.NaT {
		t.Fatal("sentinel must propagate")
	}
}

func TestConvertFromUTC_RuleBased(t *testing.T) {
	t1 := ts(2024, time.March, 10, 7, 0, 0, 0)   // spring forward
	t2 := ts(2024, time.November, 3, 6, 0, 0, 0) // fall back
	d0, d1, d2 := -5*hourNs, -4*hourNs, -5*hourNs
	loc, err := NewLocalizer(ruleZone(t, "eastern", t1, t2, d0, d1, d2))
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name  string
		utc   int64
		delta int64
	}{
		{"before first transition", t1 - 1, d0},
		{"exactly at transition", t1, d1}, // right-closed interval start
		{"inside interval", t1 + dayNs, d1},
		{"last instant of interval", t2 - 1, d1},
		{"at second transition", t2, d2},
		{"after second transition", t2 + dayNs, d2},
	}
	for _, c := range cases {
		dst := make([]int64, 1)
		loc.ConvertFromUTC(dst, []int64{c.utc})
		if want := c.utc + c.delta; dst[0] != want {
			t.Errorf("%s: got %d, want %d", c.name, dst[0], want)
		}
	}
}

type shiftResolver struct {
	offset int64
}

func (shiftResolver) Name() string             { return "shift" }
func (r shiftResolver) OffsetAt(v int64) int64 { return r.offset }

func TestConvertFromUTC_LocalResolver(t *testing.T) {
	loc, err := NewLocalizer(shiftResolver{offset: 2 * hourNs})
	if err != nil {
		t.Fatal(err)
	}
	if loc.strat != stratLocal {
		t.Fatalf("strategy = %d, want %d", loc.strat, stratLocal)
	}

	src := []int64{100, models.NaT}
	dst := make([]int64, 2)
	loc.ConvertFromUTC(dst, src)
	if dst[0] != 100+2*hourNs || dst[1] != models.NaT {
		t.Fatalf("dst = %v", dst)
	}
}

func TestConvertFromUTC_SentinelPositions(t *testing.T) {
	loc, _ := NewLocalizer(tzinfo.NewFixedZone("UTC+1", hourNs))

	src := []int64{models.NaT, 5, models.NaT}
	dst := make([]int64, 3)
	loc.ConvertFromUTC(dst, src)

	if dst[0] != models.NaT || dst[2] != models.NaT {
		t.Fatalf("sentinels must stay positional: %v", dst)
	}
	if dst[1] != 5+hourNs {
		t.Fatalf("dst[1] = %d", dst[1])
	}
}

func TestSearchTransitions(t *testing.T) {
	trans := []int64{-1 << 62, 10, 20, 30}
	cases := []struct {
		v    int64
		want int
	}{
		{9, 0}, {10, 1}, {11, 1}, {19, 1}, {20, 2}, {29, 2}, {30, 3}, {1 << 40, 3},
	}
	for _, c := range cases {
		if got := searchTransitions(trans, c.v); got != c.want {
			t.Errorf("searchTransitions(%d) = %d, want %d", c.v, got, c.want)
		}
	}
}

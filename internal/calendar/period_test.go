package calendar

import (
	"testing"
	"time"
)

func fieldsOf(y int, mo time.Month, d, h, mi, s, us int) Fields {
	return Fields{Year: y, Month: int(mo), Day: d, Hour: h, Minute: mi, Second: s, Microsecond: us}
}

func TestPeriodOrdinal_EpochIsZero(t *testing.T) {
	epoch := fieldsOf(1970, time.January, 1, 0, 0, 0, 0)
	for _, freq := range []Freq{FreqYear, FreqQuarter, FreqMonth, FreqDay, FreqHour, FreqMinute, FreqSecond, FreqMillisecond, FreqMicrosecond} {
		ord, err := PeriodOrdinal(epoch, freq)
		if err != nil {
			t.Fatalf("PeriodOrdinal(epoch, %s): %v", freq, err)
		}
		if ord != 0 {
			t.Fatalf("PeriodOrdinal(epoch, %s) = %d, want 0", freq, ord)
		}
	}
}

func TestPeriodOrdinal_Calendar(t *testing.T) {
	f := fieldsOf(2024, time.March, 15, 14, 30, 5, 1500)

	cases := []struct {
		freq Freq
		want int64
	}{
		{FreqYear, 54},
		{FreqQuarter, 54*4 + 0},
		{FreqMonth, 54*12 + 2},
		{FreqDay, 19797},
		{FreqHour, 19797*24 + 14},
		{FreqMinute, 19797*1440 + 14*60 + 30},
		{FreqSecond, 19797*86400 + 14*3600 + 30*60 + 5},
	}
	for _, c := range cases {
		got, err := PeriodOrdinal(f, c.freq)
		if err != nil {
			t.Fatalf("PeriodOrdinal(%s): %v", c.freq, err)
		}
		if got != c.want {
			t.Errorf("PeriodOrdinal(%s) = %d, want %d", c.freq, got, c.want)
		}
	}
}

func TestPeriodOrdinal_SubSecond(t *testing.T) {
	f := fieldsOf(1970, time.January, 1, 0, 0, 1, 2500)

	ms, err := PeriodOrdinal(f, FreqMillisecond)
	if err != nil {
		t.Fatal(err)
	}
	if ms != 1002 {
		t.Fatalf("millisecond ordinal = %d, want 1002", ms)
	}

	us, err := PeriodOrdinal(f, FreqMicrosecond)
	if err != nil {
		t.Fatal(err)
	}
	if us != 1_002_500 {
		t.Fatalf("microsecond ordinal = %d, want 1002500", us)
	}
}

func TestPeriodOrdinal_Weeks(t *testing.T) {
	// 1970-01-01 was a Thursday; the first Sunday-ending week boundary
	// after the epoch falls between Jan 4 and Jan 5.
	cases := []struct {
		d    int
		want int64
	}{
		{1, 0}, // Thursday
		{4, 0}, // Sunday, last day of week 0
		{5, 1}, // Monday, first day of week 1
	}
	for _, c := range cases {
		f := fieldsOf(1970, time.January, c.d, 0, 0, 0, 0)
		got, err := PeriodOrdinal(f, FreqWeek)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Errorf("week ordinal of 1970-01-%02d = %d, want %d", c.d, got, c.want)
		}
	}
}

func TestPeriodOrdinal_PreEpoch(t *testing.T) {
	f := fieldsOf(1969, time.December, 31, 23, 0, 0, 0)
	day, err := PeriodOrdinal(f, FreqDay)
	if err != nil {
		t.Fatal(err)
	}
	if day != -1 {
		t.Fatalf("day ordinal = %d, want -1", day)
	}

	month, err := PeriodOrdinal(f, FreqMonth)
	if err != nil {
		t.Fatal(err)
	}
	if month != -1 {
		t.Fatalf("month ordinal = %d, want -1", month)
	}
}

func TestParseFreq(t *testing.T) {
	for _, s := range []string{"Y", "Q", "M", "W", "D", "h", "m", "s", "ms", "us"} {
		if _, err := ParseFreq(s); err != nil {
			t.Errorf("ParseFreq(%q): %v", s, err)
		}
	}
	if _, err := ParseFreq("fortnight"); err == nil {
		t.Fatal("expected error for unknown frequency")
	}
	if _, err := PeriodOrdinal(Fields{Year: 1970, Month: 1, Day: 1}, Freq("x")); err == nil {
		t.Fatal("expected error for unknown frequency in PeriodOrdinal")
	}
}

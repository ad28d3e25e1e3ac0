package models

import "fmt"

// NaT is the reserved "not-a-time" sentinel: the minimum int64.
// Batches carry it positionally through every operation without
// entering arithmetic.
const NaT int64 = -1 << 63

// DayNanos is the fixed local day length used for midnight
// normalization and alignment checks.
const DayNanos int64 = 24 * 60 * 60 * 1_000_000_000

// Kind selects the object type produced when materializing a batch.
type Kind int

const (
	// KindDateTime produces a wall-clock DateTime with its resolved offset.
	KindDateTime Kind = iota
	// KindDate produces a calendar Date; only valid without a timezone.
	KindDate
	// KindTimeOfDay produces the time-of-day portion only.
	KindTimeOfDay
	// KindTimestamp produces a Timestamp carrying the original UTC value,
	// the resolved zone, an optional frequency tag, and the fold flag.
	KindTimestamp
)

// ParseKind maps a wire name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "datetime":
		return KindDateTime, nil
	case "date":
		return KindDate, nil
	case "time":
		return KindTimeOfDay, nil
	case "timestamp":
		return KindTimestamp, nil
	default:
		return 0, fmt.Errorf("unknown output kind %q", s)
	}
}

func (k Kind) String() string {
	switch k {
	case KindDateTime:
		return "datetime"
	case KindDate:
		return "date"
	case KindTimeOfDay:
		return "time"
	case KindTimestamp:
		return "timestamp"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is one element of a materialized batch: a DateTime, Date,
// TimeOfDay, Timestamp, or NaTValue at sentinel positions.
type Value interface {
	isValue()
}

// NaTValue is the object counterpart of the NaT sentinel.
var NaTValue Value = naT{}

type naT struct{}

func (naT) isValue()       {}
func (naT) String() string { return "NaT" }

// DateTime is a localized wall-clock instant with its resolved UTC offset.
type DateTime struct {
	Year        int    `json:"year" msgpack:"year"`
	Month       int    `json:"month" msgpack:"month"`
	Day         int    `json:"day" msgpack:"day"`
	Hour        int    `json:"hour" msgpack:"hour"`
	Minute      int    `json:"minute" msgpack:"minute"`
	Second      int    `json:"second" msgpack:"second"`
	Microsecond int    `json:"microsecond" msgpack:"microsecond"`
	OffsetNanos int64  `json:"offset_ns" msgpack:"offset_ns"`
	Zone        string `json:"zone,omitempty" msgpack:"zone,omitempty"`
}

func (DateTime) isValue() {}

// Date is a local calendar date. It is only produced for timezone-naive
// batches, where the day boundary is unambiguous.
type Date struct {
	Year  int `json:"year" msgpack:"year"`
	Month int `json:"month" msgpack:"month"`
	Day   int `json:"day" msgpack:"day"`
}

func (Date) isValue() {}

// TimeOfDay is the wall-clock time portion of a localized instant.
type TimeOfDay struct {
	Hour        int `json:"hour" msgpack:"hour"`
	Minute      int `json:"minute" msgpack:"minute"`
	Second      int `json:"second" msgpack:"second"`
	Microsecond int `json:"microsecond" msgpack:"microsecond"`
}

func (TimeOfDay) isValue() {}

// Timestamp is the rich output kind: it keeps the original UTC
// nanosecond value alongside the zone it was resolved against, an
// optional frequency tag, and the disambiguation fold for wall-clock
// times that occur twice around a backward DST transition.
type Timestamp struct {
	UTCNanos int64  `json:"utc_ns" msgpack:"utc_ns"`
	Zone     string `json:"zone,omitempty" msgpack:"zone,omitempty"`
	Freq     string `json:"freq,omitempty" msgpack:"freq,omitempty"`
	Fold     bool   `json:"fold" msgpack:"fold"`
}

func (Timestamp) isValue() {}

package models

// Resolution classifies the finest nonzero calendar field observed in a
// batch. Values are ordered so that a finer resolution compares greater,
// which lets batch classification take a running maximum and default to
// ResolutionDay for empty input.
type Resolution int

const (
	ResolutionDay Resolution = iota
	ResolutionHour
	ResolutionMinute
	ResolutionSecond
	ResolutionMillisecond
	// ResolutionMicrosecond covers sub-millisecond values: nonzero
	// microseconds that are not an exact multiple of 1000.
	ResolutionMicrosecond
)

func (r Resolution) String() string {
	switch r {
	case ResolutionDay:
		return "day"
	case ResolutionHour:
		return "hour"
	case ResolutionMinute:
		return "minute"
	case ResolutionSecond:
		return "second"
	case ResolutionMillisecond:
		return "millisecond"
	case ResolutionMicrosecond:
		return "microsecond"
	default:
		return "unknown"
	}
}

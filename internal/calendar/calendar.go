// Package calendar converts epoch nanosecond counts to wall-clock
// calendar fields and encodes fields as period ordinals. All arithmetic
// uses floored division so pre-epoch instants decompose correctly.
package calendar

const (
	nanosPerMicro  = 1_000
	nanosPerSecond = 1_000_000_000
	secondsPerDay  = 86_400
	// NanosPerDay is the fixed day length used across the engine.
	NanosPerDay = int64(secondsPerDay) * nanosPerSecond

	epochYear = 1970
)

// Fields is a decomposed wall-clock instant. Sub-microsecond precision
// is dropped during decomposition.
type Fields struct {
	Year        int
	Month       int
	Day         int
	Hour        int
	Minute      int
	Second      int
	Microsecond int
}

// FloorDiv divides rounding toward negative infinity.
func FloorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// FloorMod returns the remainder of floored division; the result has
// the sign of b.
func FloorMod(a, b int64) int64 {
	return a - FloorDiv(a, b)*b
}

// Split decomposes an epoch nanosecond count into calendar fields.
func Split(ns int64) Fields {
	days := FloorDiv(ns, NanosPerDay)
	rem := ns - days*NanosPerDay // in [0, NanosPerDay)

	y, m, d := civilFromDays(days)

	sec := rem / nanosPerSecond
	rem -= sec * nanosPerSecond

	return Fields{
		Year:        y,
		Month:       m,
		Day:         d,
		Hour:        int(sec / 3600),
		Minute:      int(sec / 60 % 60),
		Second:      int(sec % 60),
		Microsecond: int(rem / nanosPerMicro),
	}
}

// DaysFromEpoch returns the local day number of an epoch nanosecond
// count, floored.
func DaysFromEpoch(ns int64) int64 {
	return FloorDiv(ns, NanosPerDay)
}

// civilFromDays converts a day count since 1970-01-01 to a civil date
// in the proleptic Gregorian calendar.
func civilFromDays(z int64) (year, month, day int) {
	z += 719468
	era := FloorDiv(z, 146097)
	doe := z - era*146097                                     // [0, 146096]
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365 // [0, 399]
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100) // [0, 365]
	mp := (5*doy + 2) / 153                  // [0, 11]
	d := doy - (153*mp+2)/5 + 1              // [1, 31]
	m := mp + 3
	if m > 12 {
		m -= 12
	}
	if m <= 2 {
		y++
	}
	return int(y), int(m), int(d)
}

// daysFromCivil is the inverse of civilFromDays.
func daysFromCivil(year, month, day int) int64 {
	y := int64(year)
	if month <= 2 {
		y--
	}
	era := FloorDiv(y, 400)
	yoe := y - era*400 // [0, 399]
	m := int64(month)
	mp := m + 9
	if m > 2 {
		mp = m - 3
	}
	doy := (153*mp+2)/5 + int64(day) - 1   // [0, 365]
	doe := yoe*365 + yoe/4 - yoe/100 + doy // [0, 146096]
	return era*146097 + doe - 719468
}

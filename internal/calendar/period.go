package calendar

import "fmt"

// Freq is a period frequency code.
type Freq string

const (
	FreqYear        Freq = "Y"
	FreqQuarter     Freq = "Q"
	FreqMonth       Freq = "M"
	FreqWeek        Freq = "W"
	FreqDay         Freq = "D"
	FreqHour        Freq = "h"
	FreqMinute      Freq = "m"
	FreqSecond      Freq = "s"
	FreqMillisecond Freq = "ms"
	FreqMicrosecond Freq = "us"
)

// ParseFreq validates a wire frequency code.
func ParseFreq(s string) (Freq, error) {
	switch f := Freq(s); f {
	case FreqYear, FreqQuarter, FreqMonth, FreqWeek, FreqDay,
		FreqHour, FreqMinute, FreqSecond, FreqMillisecond, FreqMicrosecond:
		return f, nil
	default:
		return "", fmt.Errorf("unknown frequency %q", s)
	}
}

// PeriodOrdinal encodes calendar fields as the integer ordinal of the
// period containing them at the given frequency. Ordinal 0 is the
// period containing 1970-01-01 00:00:00. Weeks end on Sunday.
func PeriodOrdinal(f Fields, freq Freq) (int64, error) {
	switch freq {
	case FreqYear:
		return int64(f.Year - epochYear), nil
	case FreqQuarter:
		return int64(f.Year-epochYear)*4 + int64(f.Month-1)/3, nil
	case FreqMonth:
		return int64(f.Year-epochYear)*12 + int64(f.Month-1), nil
	case FreqWeek:
		// Epoch day 0 is a Thursday; shifting by 3 aligns week
		// boundaries to Sunday midnight.
		return FloorDiv(daysFromCivil(f.Year, f.Month, f.Day)+3, 7), nil
	case FreqDay:
		return daysFromCivil(f.Year, f.Month, f.Day), nil
	case FreqHour:
		return daysFromCivil(f.Year, f.Month, f.Day)*24 + int64(f.Hour), nil
	case FreqMinute:
		days := daysFromCivil(f.Year, f.Month, f.Day)
		return days*1440 + int64(f.Hour)*60 + int64(f.Minute), nil
	case FreqSecond:
		days := daysFromCivil(f.Year, f.Month, f.Day)
		return days*secondsPerDay + int64(f.Hour)*3600 + int64(f.Minute)*60 + int64(f.Second), nil
	case FreqMillisecond:
		sec, err := PeriodOrdinal(f, FreqSecond)
		if err != nil {
			return 0, err
		}
		return sec*1_000 + int64(f.Microsecond/1_000), nil
	case FreqMicrosecond:
		sec, err := PeriodOrdinal(f, FreqSecond)
		if err != nil {
			return 0, err
		}
		return sec*1_000_000 + int64(f.Microsecond), nil
	default:
		return 0, fmt.Errorf("unknown frequency %q", string(freq))
	}
}

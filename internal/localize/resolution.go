package localize

import (
	"github.com/basekick-labs/tzvec/internal/calendar"
	"github.com/basekick-labs/tzvec/pkg/models"
)

// Resolution classifies the finest nonzero calendar field observed
// across the batch. Sentinels are skipped; an empty or all-sentinel
// batch reports day resolution. Nonzero microseconds that are an exact
// multiple of 1000 count as millisecond, not microsecond.
func (l *Localizer) Resolution(src []int64) models.Resolution {
	strat, delta, resolver := l.strat, l.delta, l.resolver
	trans, deltas := l.trans, l.deltas

	reso := models.ResolutionDay
	for _, v := range src {
		if v == models.NaT {
			continue
		}
		local, _ := localValue(strat, delta, resolver, trans, deltas, v)
		if r := elementResolution(calendar.Split(local)); r > reso {
			reso = r
			if reso == models.ResolutionMicrosecond {
				break // already the finest level
			}
		}
	}
	return reso
}

func elementResolution(f calendar.Fields) models.Resolution {
	switch {
	case f.Microsecond != 0:
		if f.Microsecond%1_000 == 0 {
			return models.ResolutionMillisecond
		}
		return models.ResolutionMicrosecond
	case f.Second != 0:
		return models.ResolutionSecond
	case f.Minute != 0:
		return models.ResolutionMinute
	case f.Hour != 0:
		return models.ResolutionHour
	default:
		return models.ResolutionDay
	}
}

package localize

import (
	"fmt"

	"github.com/basekick-labs/tzvec/internal/calendar"
	"github.com/basekick-labs/tzvec/pkg/models"
)

// Materialize decomposes each localized element into calendar fields
// and constructs the requested output kind. Sentinel positions yield
// models.NaTValue. freq and fold only affect models.KindTimestamp; for
// rule-engine schedules fold is inferred per element instead.
func (l *Localizer) Materialize(src []int64, kind models.Kind, freq string, fold bool) ([]models.Value, error) {
	switch kind {
	case models.KindDateTime, models.KindDate, models.KindTimeOfDay, models.KindTimestamp:
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidKind, int(kind))
	}
	if kind == models.KindDate && l.hasTZ {
		return nil, ErrDateWithTimezone
	}

	strat, delta, resolver := l.strat, l.delta, l.resolver
	trans, deltas := l.trans, l.deltas
	legacy, zones := l.legacy, l.zones
	inferFold := strat == stratRule && !legacy

	zoneName := ""
	if l.desc != nil {
		zoneName = l.desc.Name()
	}

	out := make([]models.Value, len(src))
	for i, v := range src {
		if v == models.NaT {
			out[i] = models.NaTValue
			continue
		}
		local, pos := localValue(strat, delta, resolver, trans, deltas, v)
		f := calendar.Split(local)

		name := zoneName
		if legacy && zones != nil {
			name = zones.ZoneForTransition(pos).Name()
		}

		switch kind {
		case models.KindDateTime:
			out[i] = models.DateTime{
				Year: f.Year, Month: f.Month, Day: f.Day,
				Hour: f.Hour, Minute: f.Minute, Second: f.Second,
				Microsecond: f.Microsecond,
				OffsetNanos: local - v,
				Zone:        name,
			}
		case models.KindDate:
			out[i] = models.Date{Year: f.Year, Month: f.Month, Day: f.Day}
		case models.KindTimeOfDay:
			out[i] = models.TimeOfDay{
				Hour: f.Hour, Minute: f.Minute, Second: f.Second,
				Microsecond: f.Microsecond,
			}
		default:
			elemFold := fold
			if inferFold {
				elemFold = inBackwardFold(trans, deltas, pos, v)
			}
			out[i] = models.Timestamp{
				UTCNanos: v,
				Zone:     name,
				Freq:     freq,
				Fold:     elemFold,
			}
		}
	}
	return out, nil
}

// inBackwardFold reports whether a UTC value falls in the repeated
// wall-clock window just after a backward transition: the first
// deltas[pos-1]-deltas[pos] nanoseconds following trans[pos] replay
// local times already seen under the previous offset.
func inBackwardFold(trans, deltas []int64, pos int, v int64) bool {
	if pos == 0 {
		return false
	}
	shift := deltas[pos-1] - deltas[pos]
	return shift > 0 && v-trans[pos] < shift
}

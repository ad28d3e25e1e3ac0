package localize

import (
	"github.com/basekick-labs/tzvec/internal/calendar"
	"github.com/basekick-labs/tzvec/pkg/models"
)

// PeriodOrdinals maps each element to the ordinal of the period
// containing its local wall-clock time at the given frequency.
// Sentinels propagate positionally. dst and src must have equal length.
func (l *Localizer) PeriodOrdinals(dst, src []int64, freq calendar.Freq) error {
	// Validate the frequency before touching the batch so a bad request
	// fails whole, never partially.
	if _, err := calendar.ParseFreq(string(freq)); err != nil {
		return err
	}

	strat, delta, resolver := l.strat, l.delta, l.resolver
	trans, deltas := l.trans, l.deltas

	for i, v := range src {
		if v == models.NaT {
			dst[i] = models.NaT
			continue
		}
		local, _ := localValue(strat, delta, resolver, trans, deltas, v)
		ord, err := calendar.PeriodOrdinal(calendar.Split(local), freq)
		if err != nil {
			return err
		}
		dst[i] = ord
	}
	return nil
}

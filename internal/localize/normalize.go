package localize

import (
	"github.com/basekick-labs/tzvec/internal/calendar"
	"github.com/basekick-labs/tzvec/pkg/models"
)

// NormalizeToMidnight truncates each element to the start of its local
// day, expressed back in the UTC domain: decoding the result in the
// same zone shows local midnight. Sentinels pass through unchanged.
// dst and src must have equal length and may alias.
func (l *Localizer) NormalizeToMidnight(dst, src []int64) {
	strat, delta, resolver := l.strat, l.delta, l.resolver
	trans, deltas := l.trans, l.deltas

	for i, v := range src {
		if v == models.NaT {
			dst[i] = models.NaT
			continue
		}
		local, _ := localValue(strat, delta, resolver, trans, deltas, v)
		// Subtracting the elapsed local wall time lands on the UTC value
		// whose local decomposition is midnight. Floored modulo keeps
		// pre-epoch values on the previous midnight.
		dst[i] = v - calendar.FloorMod(local, models.DayNanos)
	}
}

// IsMidnightAligned reports whether every non-sentinel element sits
// exactly on a local midnight, short-circuiting on the first that does
// not. Sentinels are skipped: missing values neither satisfy nor break
// alignment. The empty batch is vacuously aligned.
func (l *Localizer) IsMidnightAligned(src []int64) bool {
	strat, delta, resolver := l.strat, l.delta, l.resolver
	trans, deltas := l.trans, l.deltas

	for _, v := range src {
		if v == models.NaT {
			continue
		}
		local, _ := localValue(strat, delta, resolver, trans, deltas, v)
		if calendar.FloorMod(local, models.DayNanos) != 0 {
			return false
		}
	}
	return true
}

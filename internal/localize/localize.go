// Package localize is the batch localization engine: it converts arrays
// of UTC nanosecond timestamps into timezone-local values and derives
// properties from them (calendar objects, resolution classification,
// midnight normalization and alignment, period ordinals).
//
// Each entry point classifies its timezone descriptor exactly once into
// a strategy, then iterates the batch with the strategy flags hoisted
// into locals. The per-element path is a switch on a local tag plus at
// most one binary search; it performs no allocation and no indirect
// dispatch.
package localize

import (
	"errors"
	"fmt"

	"github.com/basekick-labs/tzvec/internal/tzinfo"
	"github.com/basekick-labs/tzvec/pkg/models"
)

var (
	// ErrInvalidTimezone reports a descriptor that could not be resolved
	// into a localization strategy.
	ErrInvalidTimezone = errors.New("invalid timezone descriptor")

	// ErrInvalidKind reports an unrecognized output kind.
	ErrInvalidKind = errors.New("invalid output kind")

	// ErrDateWithTimezone reports a date-kind request against a
	// timezone-aware batch; a local calendar date without an offset
	// concept is ambiguous.
	ErrDateWithTimezone = errors.New("date output requires a timezone-naive batch")
)

// strategy is the tag of the per-call localization variant. Exactly one
// is active per Localizer; the unused payload fields stay zero.
type strategy uint8

const (
	stratUTC strategy = iota
	stratFixed
	stratLocal
	stratRule
)

// Localizer holds the classification computed once per batch call. It
// is immutable after construction and safe to share across goroutines
// working on disjoint slices of the same batch.
type Localizer struct {
	strat strategy

	delta    int64                 // stratFixed
	resolver tzinfo.LocalResolver  // stratLocal
	trans    []int64               // stratRule
	deltas   []int64               // stratRule
	legacy   bool                  // stratRule, legacy-db variant
	zones    tzinfo.TransitionZones // stratRule, legacy-db variant

	desc  tzinfo.Descriptor
	hasTZ bool
}

// NewLocalizer classifies a timezone descriptor into a localization
// strategy. A nil descriptor means timezone-naive and localizes like
// UTC. The returned Localizer borrows the descriptor's transition table
// read-only for its lifetime.
func NewLocalizer(desc tzinfo.Descriptor) (*Localizer, error) {
	l := &Localizer{desc: desc, hasTZ: desc != nil}

	switch {
	case desc == nil || tzinfo.IsUTC(desc):
		l.strat = stratUTC

	case isLocalSystem(desc):
		l.strat = stratLocal
		l.resolver = desc.(tzinfo.LocalResolver)

	default:
		dec, ok := desc.(tzinfo.Decomposable)
		if !ok {
			return nil, fmt.Errorf("%w: %q has no transition schedule", ErrInvalidTimezone, desc.Name())
		}
		sched, err := dec.Decompose()
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTimezone, desc.Name(), err)
		}
		if sched.Variant == tzinfo.VariantFixed {
			// Non-DST sources guarantee a single delta; collapse to the
			// fixed strategy and skip the search entirely.
			l.strat = stratFixed
			l.delta = sched.Deltas[0]
			break
		}
		l.strat = stratRule
		l.trans = sched.Transitions
		l.deltas = sched.Deltas
		if sched.Variant == tzinfo.VariantLegacyDB {
			l.legacy = true
			if tzs, ok := desc.(tzinfo.TransitionZones); ok {
				l.zones = tzs
			}
		}
	}

	return l, nil
}

// isLocalSystem reports whether a descriptor denotes the platform-local
// timezone: it resolves offsets per instant but has no schedule of its
// own to decompose.
func isLocalSystem(desc tzinfo.Descriptor) bool {
	if _, ok := desc.(tzinfo.Decomposable); ok {
		return false
	}
	_, ok := desc.(tzinfo.LocalResolver)
	return ok
}

// Zone returns the descriptor this Localizer was built from.
func (l *Localizer) Zone() tzinfo.Descriptor { return l.desc }

// searchTransitions returns the rightmost index pos such that
// trans[pos] <= v. Precondition: trans[0] precedes every representable
// instant, so pos >= 0; a table violating that is a malformed schedule
// and the result is undefined.
func searchTransitions(trans []int64, v int64) int {
	lo, hi := 0, len(trans)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if trans[mid] <= v {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo - 1
}

// ConvertFromUTC localizes a batch: dst[i] becomes the local nanosecond
// value of src[i]. Sentinels propagate positionally. dst and src must
// have equal length and may alias.
func (l *Localizer) ConvertFromUTC(dst, src []int64) {
	strat, delta, resolver := l.strat, l.delta, l.resolver
	trans, deltas := l.trans, l.deltas

	switch strat {
	case stratUTC:
		copy(dst, src)
	case stratFixed:
		for i, v := range src {
			if v == models.NaT {
				dst[i] = models.NaT
				continue
			}
			dst[i] = v + delta
		}
	case stratLocal:
		for i, v := range src {
			if v == models.NaT {
				dst[i] = models.NaT
				continue
			}
			dst[i] = v + resolver.OffsetAt(v)
		}
	default:
		for i, v := range src {
			if v == models.NaT {
				dst[i] = models.NaT
				continue
			}
			dst[i] = v + deltas[searchTransitions(trans, v)]
		}
	}
}

// localValue resolves one non-sentinel UTC value to its local value and
// the matched transition index (rule-based only; 0 otherwise). Strategy
// fields are passed in by the caller, which hoists them out of its loop.
func localValue(strat strategy, delta int64, resolver tzinfo.LocalResolver,
	trans, deltas []int64, v int64) (local int64, pos int) {
	switch strat {
	case stratUTC:
		return v, 0
	case stratFixed:
		return v + delta, 0
	case stratLocal:
		return v + resolver.OffsetAt(v), 0
	default:
		pos = searchTransitions(trans, v)
		return v + deltas[pos], pos
	}
}

// Package tzinfo defines the timezone descriptors consumed by the
// localization engine. A descriptor is an opaque capability: the engine
// never parses timezone databases or computes DST rules itself, it only
// asks a descriptor for its precomputed transition schedule or for a
// system-local offset at an instant.
package tzinfo

import (
	"errors"
	"fmt"
	"time"
)

// Variant identifies the rule engine a transition schedule came from.
// The engine needs this to know whether a schedule collapses to a fixed
// offset and whether per-transition representative zones exist.
type Variant int

const (
	// VariantFixed marks a non-DST source: the schedule carries exactly
	// one delta that applies to every instant.
	VariantFixed Variant = iota
	// VariantRuleEngine marks a general DST-aware schedule where offsets
	// are fully described by the transition table.
	VariantRuleEngine
	// VariantLegacyDB marks schedules from legacy-style databases that
	// attach metadata per transition rather than per instant; consumers
	// materializing objects must resolve a representative zone keyed by
	// the matched transition index.
	VariantLegacyDB
)

// Schedule is a precomputed DST transition table. Deltas[i] is the UTC
// offset in nanoseconds effective for UTC instants in
// [Transitions[i], Transitions[i+1]). Transitions[0] must precede any
// representable instant so that every lookup lands on a valid index.
type Schedule struct {
	Transitions []int64
	Deltas      []int64
	Variant     Variant
}

// Validate checks the structural invariants of a schedule. Descriptor
// constructors call it once; the per-element lookup path does not.
func (s *Schedule) Validate() error {
	if len(s.Transitions) == 0 {
		return errors.New("schedule has no transitions")
	}
	if len(s.Transitions) != len(s.Deltas) {
		return fmt.Errorf("schedule has %d transitions but %d deltas",
			len(s.Transitions), len(s.Deltas))
	}
	if s.Variant == VariantFixed && len(s.Deltas) != 1 {
		return fmt.Errorf("fixed-variant schedule must have exactly one delta, got %d", len(s.Deltas))
	}
	for i := 1; i < len(s.Transitions); i++ {
		if s.Transitions[i] <= s.Transitions[i-1] {
			return fmt.Errorf("transitions not strictly ascending at index %d", i)
		}
	}
	return nil
}

// Descriptor is an opaque timezone. Concrete descriptors additionally
// implement Decomposable or LocalResolver.
type Descriptor interface {
	Name() string
}

// Decomposable yields the descriptor's precomputed transition schedule.
type Decomposable interface {
	Descriptor
	Decompose() (*Schedule, error)
}

// LocalResolver resolves a UTC offset per instant through an external
// local-time API. It handles platform DST rules the engine does not
// encode; its ambiguity policy is its own.
type LocalResolver interface {
	Descriptor
	OffsetAt(utcNanos int64) int64
}

// TransitionZones provides the representative zone for a transition
// index. Only legacy-variant descriptors implement it, and only the
// object-materializing operation uses it.
type TransitionZones interface {
	ZoneForTransition(pos int) Descriptor
}

// UTC is the no-offset descriptor.
var UTC Descriptor = utcZone{}

type utcZone struct{}

func (utcZone) Name() string { return "UTC" }

// IsUTC reports whether a descriptor denotes UTC.
func IsUTC(d Descriptor) bool {
	_, ok := d.(utcZone)
	return ok
}

// SystemLocal returns the descriptor for the platform's local timezone.
// Offsets are resolved per instant through the Go runtime, which reads
// the system tz database.
func SystemLocal() Descriptor { return systemLocal{} }

type systemLocal struct{}

func (systemLocal) Name() string { return "Local" }

func (systemLocal) OffsetAt(utcNanos int64) int64 {
	_, offset := time.Unix(0, utcNanos).In(time.Local).Zone()
	return int64(offset) * int64(time.Second)
}

// FixedZone is a descriptor whose offset never changes.
type FixedZone struct {
	name  string
	delta int64
}

// NewFixedZone builds a fixed-offset descriptor.
func NewFixedZone(name string, offsetNanos int64) *FixedZone {
	return &FixedZone{name: name, delta: offsetNanos}
}

func (z *FixedZone) Name() string { return z.name }

// Offset returns the zone's constant UTC offset in nanoseconds.
func (z *FixedZone) Offset() int64 { return z.delta }

// Decompose returns the one-entry fixed-variant schedule.
func (z *FixedZone) Decompose() (*Schedule, error) {
	return &Schedule{
		Transitions: []int64{minInstant},
		Deltas:      []int64{z.delta},
		Variant:     VariantFixed,
	}, nil
}

// minInstant anchors single-entry and synthetic schedules before any
// representable timestamp (one past the NaT sentinel).
const minInstant = -1<<63 + 1

// ScheduledZone is a descriptor backed by a precomputed transition
// schedule, optionally with per-transition representative zones for the
// legacy variant.
type ScheduledZone struct {
	name     string
	schedule *Schedule
	zones    []Descriptor
}

// NewScheduledZone builds a rule-based descriptor from a precomputed
// schedule. The schedule is borrowed, not copied; callers must not
// mutate it afterwards.
func NewScheduledZone(name string, schedule *Schedule) (*ScheduledZone, error) {
	if schedule == nil {
		return nil, errors.New("nil schedule")
	}
	if err := schedule.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schedule for %q: %w", name, err)
	}
	return &ScheduledZone{name: name, schedule: schedule}, nil
}

// WithTransitionZones attaches representative zones, one per transition.
// Legacy-variant descriptors need this before objects can be
// materialized against them.
func (z *ScheduledZone) WithTransitionZones(zones []Descriptor) (*ScheduledZone, error) {
	if len(zones) != len(z.schedule.Transitions) {
		return nil, fmt.Errorf("got %d zones for %d transitions",
			len(zones), len(z.schedule.Transitions))
	}
	z.zones = zones
	return z, nil
}

func (z *ScheduledZone) Name() string { return z.name }

// Decompose returns the zone's transition schedule.
func (z *ScheduledZone) Decompose() (*Schedule, error) { return z.schedule, nil }

// ZoneForTransition returns the representative zone for a transition
// index, or the zone itself when no table was attached.
func (z *ScheduledZone) ZoneForTransition(pos int) Descriptor {
	if z.zones == nil {
		return z
	}
	return z.zones[pos]
}

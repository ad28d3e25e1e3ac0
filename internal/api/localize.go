package api

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/basekick-labs/tzvec/internal/calendar"
	"github.com/basekick-labs/tzvec/internal/localize"
	"github.com/basekick-labs/tzvec/internal/metrics"
	"github.com/basekick-labs/tzvec/internal/tzinfo"
	"github.com/basekick-labs/tzvec/pkg/models"
)

// LocalizeHandler serves the batch localization endpoints
type LocalizeHandler struct {
	logger   zerolog.Logger
	workers  int
	maxBatch int
}

// NewLocalizeHandler creates a new localization handler
func NewLocalizeHandler(logger zerolog.Logger, workers, maxBatch int) *LocalizeHandler {
	return &LocalizeHandler{
		logger:   logger.With().Str("component", "localize-handler").Logger(),
		workers:  workers,
		maxBatch: maxBatch,
	}
}

// RegisterRoutes registers the localization endpoints
func (h *LocalizeHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/api/v1/localize", h.convert)
	app.Post("/api/v1/localize/materialize", h.materialize)
	app.Post("/api/v1/localize/resolution", h.resolution)
	app.Post("/api/v1/localize/normalize", h.normalize)
	app.Post("/api/v1/localize/aligned", h.aligned)
	app.Post("/api/v1/localize/ordinals", h.ordinals)
	app.Post("/api/v1/localize/arrow", h.convertArrow)
}

// zoneSpec is the wire form of a timezone descriptor. Transition tables
// arrive precomputed; the service never parses timezone databases.
type zoneSpec struct {
	Kind        string  `json:"kind" msgpack:"kind"` // utc | fixed | local | scheduled
	Name        string  `json:"name,omitempty" msgpack:"name,omitempty"`
	OffsetNanos int64   `json:"offset_ns,omitempty" msgpack:"offset_ns,omitempty"`
	Transitions []int64 `json:"transitions,omitempty" msgpack:"transitions,omitempty"`
	Deltas      []int64 `json:"deltas,omitempty" msgpack:"deltas,omitempty"`
	Variant     string  `json:"variant,omitempty" msgpack:"variant,omitempty"` // rule | legacy | fixed
}

// descriptor builds the tzinfo descriptor for the spec; nil spec or
// kind means timezone-naive
func (z *zoneSpec) descriptor() (tzinfo.Descriptor, error) {
	if z == nil || z.Kind == "" || z.Kind == "none" {
		return nil, nil
	}
	switch z.Kind {
	case "utc":
		return tzinfo.UTC, nil
	case "local":
		return tzinfo.SystemLocal(), nil
	case "fixed":
		name := z.Name
		if name == "" {
			name = fmt.Sprintf("fixed(%d)", z.OffsetNanos)
		}
		return tzinfo.NewFixedZone(name, z.OffsetNanos), nil
	case "scheduled":
		variant := tzinfo.VariantRuleEngine
		switch z.Variant {
		case "", "rule":
		case "legacy":
			variant = tzinfo.VariantLegacyDB
		case "fixed":
			variant = tzinfo.VariantFixed
		default:
			return nil, fmt.Errorf("unknown schedule variant %q", z.Variant)
		}
		sched := &tzinfo.Schedule{
			Transitions: z.Transitions,
			Deltas:      z.Deltas,
			Variant:     variant,
		}
		return tzinfo.NewScheduledZone(z.Name, sched)
	default:
		return nil, fmt.Errorf("unknown timezone kind %q", z.Kind)
	}
}

// localizeRequest is the shared request body for the batch endpoints
type localizeRequest struct {
	Timestamps []int64   `json:"timestamps" msgpack:"timestamps"`
	TZ         *zoneSpec `json:"tz,omitempty" msgpack:"tz,omitempty"`
	Kind       string    `json:"kind,omitempty" msgpack:"kind,omitempty"` // materialize only
	Freq       string    `json:"freq,omitempty" msgpack:"freq,omitempty"`
	Fold       bool      `json:"fold,omitempty" msgpack:"fold,omitempty"`
}

// prepare decodes the request and builds the per-call Localizer
func (h *LocalizeHandler) prepare(c *fiber.Ctx) (*localizeRequest, *localize.Localizer, error) {
	var req localizeRequest
	if err := decodeBody(c, &req); err != nil {
		return nil, nil, badRequest(c, err)
	}
	if len(req.Timestamps) > h.maxBatch {
		return nil, nil, badRequest(c, fmt.Errorf("batch of %d exceeds limit %d", len(req.Timestamps), h.maxBatch))
	}

	desc, err := req.TZ.descriptor()
	if err != nil {
		return nil, nil, badRequest(c, err)
	}
	loc, err := localize.NewLocalizer(desc)
	if err != nil {
		return nil, nil, badRequest(c, err)
	}
	return &req, loc, nil
}

// badRequest writes a 400, counts the error, and returns a marker error
// so handlers can bail with the response already sent
func badRequest(c *fiber.Ctx, err error) error {
	metrics.Get().IncLocalizeErrors()
	if werr := c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": err.Error(),
	}); werr != nil {
		return werr
	}
	return errResponded
}

// errResponded marks a handler exit where the response was already written
var errResponded = errors.New("response already written")

func swallowResponded(err error) error {
	if errors.Is(err, errResponded) {
		return nil
	}
	return err
}

func countSentinels(src []int64) int {
	n := 0
	for _, v := range src {
		if v == models.NaT {
			n++
		}
	}
	return n
}

// convert handles POST /api/v1/localize - batch UTC ns to local ns
func (h *LocalizeHandler) convert(c *fiber.Ctx) error {
	req, loc, err := h.prepare(c)
	if err != nil {
		return swallowResponded(err)
	}

	out := make([]int64, len(req.Timestamps))
	if err := loc.ConvertFromUTCParallel(c.Context(), out, req.Timestamps, h.workers); err != nil {
		metrics.Get().IncLocalizeErrors()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	metrics.Get().RecordBatch(len(req.Timestamps), countSentinels(req.Timestamps))
	return respond(c, fiber.Map{"values": out})
}

// materialize handles POST /api/v1/localize/materialize - constructs
// calendar objects of the requested kind
func (h *LocalizeHandler) materialize(c *fiber.Ctx) error {
	req, loc, err := h.prepare(c)
	if err != nil {
		return swallowResponded(err)
	}

	kindName := req.Kind
	if kindName == "" {
		kindName = "datetime"
	}
	kind, err := models.ParseKind(kindName)
	if err != nil {
		return swallowResponded(badRequest(c, err))
	}

	values, err := loc.Materialize(req.Timestamps, kind, req.Freq, req.Fold)
	if err != nil {
		if errors.Is(err, localize.ErrInvalidKind) || errors.Is(err, localize.ErrDateWithTimezone) {
			return swallowResponded(badRequest(c, err))
		}
		metrics.Get().IncLocalizeErrors()
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	metrics.Get().RecordBatch(len(req.Timestamps), countSentinels(req.Timestamps))
	return respond(c, fiber.Map{"kind": kind.String(), "values": values})
}

// resolution handles POST /api/v1/localize/resolution - classifies the
// finest wall-clock field used across the batch
func (h *LocalizeHandler) resolution(c *fiber.Ctx) error {
	req, loc, err := h.prepare(c)
	if err != nil {
		return swallowResponded(err)
	}

	reso := loc.Resolution(req.Timestamps)
	metrics.Get().RecordBatch(len(req.Timestamps), countSentinels(req.Timestamps))
	return respond(c, fiber.Map{"resolution": reso.String()})
}

// normalize handles POST /api/v1/localize/normalize - truncates each
// element to its local midnight
func (h *LocalizeHandler) normalize(c *fiber.Ctx) error {
	req, loc, err := h.prepare(c)
	if err != nil {
		return swallowResponded(err)
	}

	out := make([]int64, len(req.Timestamps))
	loc.NormalizeToMidnight(out, req.Timestamps)

	metrics.Get().RecordBatch(len(req.Timestamps), countSentinels(req.Timestamps))
	return respond(c, fiber.Map{"values": out})
}

// aligned handles POST /api/v1/localize/aligned - reports whether every
// element sits on a local midnight
func (h *LocalizeHandler) aligned(c *fiber.Ctx) error {
	req, loc, err := h.prepare(c)
	if err != nil {
		return swallowResponded(err)
	}

	ok := loc.IsMidnightAligned(req.Timestamps)
	metrics.Get().RecordBatch(len(req.Timestamps), countSentinels(req.Timestamps))
	return respond(c, fiber.Map{"aligned": ok})
}

// ordinals handles POST /api/v1/localize/ordinals - period ordinals at
// the requested frequency
func (h *LocalizeHandler) ordinals(c *fiber.Ctx) error {
	req, loc, err := h.prepare(c)
	if err != nil {
		return swallowResponded(err)
	}

	freq, err := calendar.ParseFreq(req.Freq)
	if err != nil {
		return swallowResponded(badRequest(c, err))
	}

	out := make([]int64, len(req.Timestamps))
	if err := loc.PeriodOrdinals(out, req.Timestamps, freq); err != nil {
		return swallowResponded(badRequest(c, err))
	}

	metrics.Get().RecordBatch(len(req.Timestamps), countSentinels(req.Timestamps))
	return respond(c, fiber.Map{"ordinals": out})
}

package api

import (
	"bufio"
	"bytes"
	"encoding/json"
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/gofiber/fiber/v2"

	"github.com/basekick-labs/tzvec/internal/localize"
	"github.com/basekick-labs/tzvec/internal/metrics"
	"github.com/basekick-labs/tzvec/pkg/models"
)

// zoneMetadataKey is the schema metadata key carrying the zoneSpec JSON
// on Arrow requests
const zoneMetadataKey = "tzvec.zone"

// sharedArrowAllocator is a package-level shared allocator for Arrow
// operations; memory.GoAllocator is thread-safe for concurrent use
var sharedArrowAllocator = memory.NewGoAllocator()

// timestampsToInt64 reinterprets []arrow.Timestamp as []int64 without
// copying. Safe because arrow.Timestamp is defined as `type Timestamp int64`.
func timestampsToInt64(src []arrow.Timestamp) []int64 {
	return *(*[]int64)(unsafe.Pointer(&src))
}

// convertArrow handles POST /api/v1/localize/arrow - accepts an Arrow
// IPC stream whose first int64/timestamp column holds UTC nanoseconds
// and streams back the same schema with that column localized. The
// timezone rides in the schema metadata under "tzvec.zone" as zoneSpec
// JSON. Nulls map to the sentinel and back.
func (h *LocalizeHandler) convertArrow(c *fiber.Ctx) error {
	rdr, err := ipc.NewReader(bytes.NewReader(c.Request().Body()), ipc.WithAllocator(sharedArrowAllocator))
	if err != nil {
		return swallowResponded(badRequest(c, err))
	}

	schema := rdr.Schema()

	var spec *zoneSpec
	if idx := schema.Metadata().FindKey(zoneMetadataKey); idx >= 0 {
		spec = &zoneSpec{}
		if err := json.Unmarshal([]byte(schema.Metadata().Values()[idx]), spec); err != nil {
			rdr.Release()
			return swallowResponded(badRequest(c, err))
		}
	}
	desc, err := spec.descriptor()
	if err != nil {
		rdr.Release()
		return swallowResponded(badRequest(c, err))
	}
	loc, err := localize.NewLocalizer(desc)
	if err != nil {
		rdr.Release()
		return swallowResponded(badRequest(c, err))
	}

	tsCol := timestampColumn(schema)
	if tsCol < 0 {
		rdr.Release()
		return swallowResponded(badRequest(c, errNoTimestampColumn))
	}

	c.Set(fiber.HeaderContentType, "application/vnd.apache.arrow.stream")

	// Capture the request ID now: the stream writer runs after the
	// handler returns, when the fiber ctx has been recycled.
	requestID := requestIDFrom(c)

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer rdr.Release()

		ipcWriter := ipc.NewWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(sharedArrowAllocator))
		defer ipcWriter.Close()

		var totalRows, totalNulls int

		for rdr.Next() {
			rec := rdr.Record()

			out, nulls, err := h.localizeColumn(loc, rec.Column(tsCol))
			if err != nil {
				h.logger.Error().Err(err).Msg("Failed to localize Arrow column")
				return
			}

			cols := make([]arrow.Array, rec.NumCols())
			for i := range cols {
				if i == tsCol {
					cols[i] = out
				} else {
					cols[i] = rec.Column(i)
				}
			}
			outRec := array.NewRecord(schema, cols, rec.NumRows())

			err = ipcWriter.Write(outRec)
			outRec.Release()
			out.Release()
			if err != nil {
				h.logger.Error().Err(err).Msg("Failed to write Arrow batch")
				return
			}
			w.Flush()

			totalRows += int(rec.NumRows())
			totalNulls += nulls
		}
		if err := rdr.Err(); err != nil {
			h.logger.Error().Err(err).Msg("Error reading Arrow stream")
			return
		}

		metrics.Get().RecordBatch(totalRows, totalNulls)
		h.logger.Debug().
			Int("rows", totalRows).
			Str("request_id", requestID).
			Msg("Arrow localization completed")
	})

	return nil
}

var errNoTimestampColumn = fiber.NewError(fiber.StatusBadRequest, "no int64 or timestamp column in schema")

// timestampColumn returns the index of the first int64/timestamp field
func timestampColumn(schema *arrow.Schema) int {
	for i, f := range schema.Fields() {
		switch f.Type.ID() {
		case arrow.INT64, arrow.TIMESTAMP:
			return i
		}
	}
	return -1
}

// localizeColumn converts one Arrow column of UTC nanoseconds into a
// localized column of the same type. Nulls enter the engine as the
// sentinel and come back out as nulls; the returned null count feeds
// the batch metrics.
func (h *LocalizeHandler) localizeColumn(loc *localize.Localizer, col arrow.Array) (arrow.Array, int, error) {
	var values []int64
	switch arr := col.(type) {
	case *array.Int64:
		values = arr.Int64Values()
	case *array.Timestamp:
		values = timestampsToInt64(arr.TimestampValues())
	default:
		return nil, 0, errNoTimestampColumn
	}

	n := len(values)
	src := make([]int64, n)
	nulls := 0
	for i, v := range values {
		if col.IsNull(i) {
			src[i] = models.NaT
			nulls++
			continue
		}
		src[i] = v
	}

	out := make([]int64, n)
	loc.ConvertFromUTC(out, src)

	valid := make([]bool, n)
	for i := range out {
		valid[i] = out[i] != models.NaT
	}

	switch col.(type) {
	case *array.Int64:
		b := array.NewInt64Builder(sharedArrowAllocator)
		defer b.Release()
		b.AppendValues(out, valid)
		return b.NewInt64Array(), nulls, nil
	default:
		b := array.NewTimestampBuilder(sharedArrowAllocator, col.DataType().(*arrow.TimestampType))
		defer b.Release()
		for i, v := range out {
			if !valid[i] {
				b.AppendNull()
				continue
			}
			b.Append(arrow.Timestamp(v))
		}
		return b.NewTimestampArray(), nulls, nil
	}
}

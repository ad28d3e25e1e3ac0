package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/klauspost/compress/gzip"
	"github.com/vmihailenco/msgpack/v5"
)

// Pool for decompression buffers - reduces GC pressure under high load
var decompressBufferPool = sync.Pool{
	New: func() interface{} {
		// Pre-allocate 256KB to cover most decompressed payloads
		buf := make([]byte, 0, 256*1024)
		return &buf
	},
}

// Pool for gzip readers - avoids allocating internal decompression
// state per request; readers are created on demand and reused via Reset
var gzipReaderPool = sync.Pool{}

// maxPayloadSize caps request bodies after decompression
const maxPayloadSize = 512 * 1024 * 1024 // 512MB

// pooledBuffer wraps a decompression buffer that must be returned to
// the pool after the decoded request has been consumed
type pooledBuffer struct {
	data   []byte
	bufPtr *[]byte
}

// release returns the buffer to the pool; idempotent
func (pb *pooledBuffer) release() {
	if pb.bufPtr != nil {
		*pb.bufPtr = (*pb.bufPtr)[:0]
		decompressBufferPool.Put(pb.bufPtr)
		pb.bufPtr = nil
		pb.data = nil
	}
}

// decompressGzip inflates a gzip payload using pooled readers/buffers
func decompressGzip(payload []byte) (*pooledBuffer, error) {
	var reader *gzip.Reader
	if pooled := gzipReaderPool.Get(); pooled != nil {
		reader = pooled.(*gzip.Reader)
		if err := reader.Reset(bytes.NewReader(payload)); err != nil {
			gzipReaderPool.Put(reader)
			return nil, err
		}
	} else {
		var err error
		reader, err = gzip.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
	}
	defer gzipReaderPool.Put(reader)

	bufPtr := decompressBufferPool.Get().(*[]byte)
	buf := bytes.NewBuffer(*bufPtr)

	if _, err := io.Copy(buf, io.LimitReader(reader, maxPayloadSize+1)); err != nil {
		decompressBufferPool.Put(bufPtr)
		return nil, err
	}
	if buf.Len() > maxPayloadSize {
		decompressBufferPool.Put(bufPtr)
		return nil, fmt.Errorf("decompressed payload exceeds %d bytes", maxPayloadSize)
	}

	*bufPtr = buf.Bytes()
	return &pooledBuffer{data: *bufPtr, bufPtr: bufPtr}, nil
}

// isMsgPack reports whether the request carries a MessagePack body
func isMsgPack(c *fiber.Ctx) bool {
	ct := c.Get(fiber.HeaderContentType)
	return strings.Contains(ct, "msgpack") || strings.Contains(ct, "x-msgpack")
}

// decodeBody unmarshals the request body into v, handling gzip
// transparently and selecting MessagePack or JSON by Content-Type
func decodeBody(c *fiber.Ctx, v interface{}) error {
	payload := c.Request().Body()
	if len(payload) == 0 {
		return fmt.Errorf("empty payload")
	}

	// Raw gzip magic check; we decompress ourselves with pooled readers
	// instead of letting fasthttp allocate per request
	if len(payload) >= 2 && payload[0] == 0x1f && payload[1] == 0x8b {
		pooled, err := decompressGzip(payload)
		if err != nil {
			return fmt.Errorf("invalid gzip payload: %w", err)
		}
		// Both decoders copy what they keep, so releasing after
		// unmarshal is safe
		defer pooled.release()
		payload = pooled.data
	}

	if isMsgPack(c) {
		if err := msgpack.Unmarshal(payload, v); err != nil {
			return fmt.Errorf("invalid msgpack payload: %w", err)
		}
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("invalid json payload: %w", err)
	}
	return nil
}

// respond marshals v in the same encoding the request used
func respond(c *fiber.Ctx, v interface{}) error {
	if isMsgPack(c) {
		body, err := msgpack.Marshal(v)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "response encoding failed")
		}
		c.Set(fiber.HeaderContentType, "application/msgpack")
		return c.Send(body)
	}
	return c.JSON(v)
}

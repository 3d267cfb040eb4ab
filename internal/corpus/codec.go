package corpus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/heartmarshall/ilo-wawa/internal/domain"
)

// Cache blob layout:
//
//	magic "ILOC" | version u16 | checksum u32 (FNV-1a of payload) | zstd(payload)
//
// payload:
//
//	hash str | model str | builtAt i64 (unix ms) | dim u32 | count u32 |
//	count × ( dim × f32 | nwords u16 | nwords × str )
//
// str is a u16 length followed by UTF-8 bytes. Integers are little-endian.
const (
	cacheMagic    = "ILOC"
	SchemaVersion = 1
	headerSize    = 10
	maxPayload    = 1 << 30
)

var errTruncated = errors.New("truncated payload")

// Encode serializes c. All entries must share one vector length.
func Encode(c *Cache) ([]byte, error) {
	dim := 0
	if len(c.Entries) > 0 {
		dim = len(c.Entries[0].Vector)
	}

	payload := make([]byte, 0, 64+len(c.Entries)*(dim*4+16))
	var err error
	if payload, err = appendString(payload, c.SourceHash); err != nil {
		return nil, err
	}
	if payload, err = appendString(payload, c.Model); err != nil {
		return nil, err
	}
	payload = binary.LittleEndian.AppendUint64(payload, uint64(c.BuiltAt.UnixMilli()))
	payload = binary.LittleEndian.AppendUint32(payload, uint32(dim))
	payload = binary.LittleEndian.AppendUint32(payload, uint32(len(c.Entries)))

	for i, e := range c.Entries {
		if len(e.Vector) != dim {
			return nil, fmt.Errorf("entry %d: vector length %d, want %d", i, len(e.Vector), dim)
		}
		for _, x := range e.Vector {
			payload = binary.LittleEndian.AppendUint32(payload, math.Float32bits(x))
		}
		if len(e.Words) > math.MaxUint16 {
			return nil, fmt.Errorf("entry %d: too many words", i)
		}
		payload = binary.LittleEndian.AppendUint16(payload, uint16(len(e.Words)))
		for _, w := range e.Words {
			if payload, err = appendString(payload, w); err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
		}
	}

	h := fnv.New32a()
	h.Write(payload)

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("init zstd: %w", err)
	}
	defer enc.Close()

	buf := make([]byte, 0, headerSize+len(payload)/2)
	buf = append(buf, cacheMagic...)
	buf = binary.LittleEndian.AppendUint16(buf, SchemaVersion)
	buf = binary.LittleEndian.AppendUint32(buf, h.Sum32())
	return enc.EncodeAll(payload, buf), nil
}

// Decode parses a blob written by Encode. Any structural problem,
// including an unknown version, yields an error wrapping
// domain.ErrCacheInvalid.
func Decode(data []byte) (*Cache, error) {
	c, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheInvalid, err)
	}
	return c, nil
}

func decode(data []byte) (*Cache, error) {
	if len(data) < headerSize {
		return nil, errors.New("data too short for header")
	}
	if string(data[0:4]) != cacheMagic {
		return nil, errors.New("invalid cache magic")
	}
	if v := binary.LittleEndian.Uint16(data[4:6]); v != SchemaVersion {
		return nil, fmt.Errorf("unsupported schema version %d", v)
	}
	storedChecksum := binary.LittleEndian.Uint32(data[6:10])

	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxPayload))
	if err != nil {
		return nil, fmt.Errorf("init zstd: %w", err)
	}
	defer dec.Close()

	payload, err := dec.DecodeAll(data[headerSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}

	h := fnv.New32a()
	h.Write(payload)
	if h.Sum32() != storedChecksum {
		return nil, errors.New("checksum mismatch")
	}

	r := reader{buf: payload}
	c := &Cache{}
	c.SourceHash = r.str()
	c.Model = r.str()
	c.BuiltAt = time.UnixMilli(int64(r.u64())).UTC()
	dim := int(r.u32())
	count := int(r.u32())
	if r.err != nil {
		return nil, r.err
	}
	// Each entry needs at least its vector and word count.
	if count > len(payload)/(dim*4+2) {
		return nil, errTruncated
	}

	c.Entries = make([]Entry, 0, count)
	for i := 0; i < count; i++ {
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = math.Float32frombits(r.u32())
		}
		n := int(r.u16())
		var words []string
		if n > 0 {
			words = make([]string, 0, n)
		}
		for j := 0; j < n; j++ {
			words = append(words, r.str())
		}
		if r.err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, r.err)
		}
		c.Entries = append(c.Entries, Entry{Vector: vec, Words: words})
	}
	if r.off != len(payload) {
		return nil, fmt.Errorf("%d trailing bytes", len(payload)-r.off)
	}
	return c, nil
}

func appendString(buf []byte, s string) ([]byte, error) {
	if len(s) > math.MaxUint16 {
		return nil, fmt.Errorf("string of %d bytes too long", len(s))
	}
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(s)))
	return append(buf, s...), nil
}

// reader walks a payload, recording the first out-of-bounds read.
type reader struct {
	buf []byte
	off int
	err error
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.buf) {
		r.err = errTruncated
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) u16() uint16 {
	if b := r.take(2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

func (r *reader) u32() uint32 {
	if b := r.take(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (r *reader) u64() uint64 {
	if b := r.take(8); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

func (r *reader) str() string {
	n := int(r.u16())
	if b := r.take(n); b != nil {
		return string(b)
	}
	return ""
}

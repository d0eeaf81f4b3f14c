// Package keycodec produces a stable byte encoding for ordered key types.
//
// The encoding is injective per key type; it exists so Bloom filters can
// hash keys deterministically. It is not order-preserving and must not be
// used for comparisons.
package keycodec

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"math"
)

// Append appends the byte encoding of key to dst and returns the result.
func Append[K cmp.Ordered](dst []byte, key K) []byte {
	switch k := any(key).(type) {
	case string:
		return append(dst, k...)
	case int:
		return binary.BigEndian.AppendUint64(dst, uint64(k))
	case int8:
		return append(dst, byte(k))
	case int16:
		return binary.BigEndian.AppendUint16(dst, uint16(k))
	case int32:
		return binary.BigEndian.AppendUint32(dst, uint32(k))
	case int64:
		return binary.BigEndian.AppendUint64(dst, uint64(k))
	case uint:
		return binary.BigEndian.AppendUint64(dst, uint64(k))
	case uint8:
		return append(dst, k)
	case uint16:
		return binary.BigEndian.AppendUint16(dst, k)
	case uint32:
		return binary.BigEndian.AppendUint32(dst, k)
	case uint64:
		return binary.BigEndian.AppendUint64(dst, k)
	case uintptr:
		return binary.BigEndian.AppendUint64(dst, uint64(k))
	case float32:
		return binary.BigEndian.AppendUint32(dst, math.Float32bits(k))
	case float64:
		return binary.BigEndian.AppendUint64(dst, math.Float64bits(k))
	default:
		// Named types with an ordered underlying type land here.
		return fmt.Appendf(dst, "%v", key)
	}
}

// Bytes returns the byte encoding of key.
func Bytes[K cmp.Ordered](key K) []byte {
	return Append(nil, key)
}

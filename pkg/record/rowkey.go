package record

import (
	"encoding/binary"

	"github.com/mergekv/mergekv/pkg/utils"
)

// Physical keys carry a 16-byte interval suffix after the logical key:
// two big-endian uint64 bounds [start, stop]. A fresh write has
// start == stop == its write sequence; a merged write keeps the start
// of the first merged record and the stop of the last one, so the key
// encodes which original entries it supersedes.
const IntervalLen = 16

// NewKey builds the physical key for a fresh write of a logical key.
func NewKey(logical []byte, seq uint64) []byte {
	key := make([]byte, len(logical)+IntervalLen)
	copy(key, logical)
	binary.BigEndian.PutUint64(key[len(logical):], seq)
	binary.BigEndian.PutUint64(key[len(logical)+8:], seq)
	return key
}

// LogicalKey strips the interval suffix from a physical key.
func LogicalKey(physical []byte) ([]byte, error) {
	if len(physical) < IntervalLen {
		return nil, utils.ErrShortKey
	}
	return physical[:len(physical)-IntervalLen], nil
}

// Interval returns the [start, stop] bounds encoded in a physical key.
func Interval(physical []byte) (start, stop uint64, err error) {
	if len(physical) < IntervalLen {
		return 0, 0, utils.ErrShortKey
	}
	suffix := physical[len(physical)-IntervalLen:]
	return binary.BigEndian.Uint64(suffix), binary.BigEndian.Uint64(suffix[8:]), nil
}

// SpanKey builds the physical key of a merged write covering the range
// from the first record's key to the last record's key.
func SpanKey(first, last []byte) ([]byte, error) {
	logical, err := LogicalKey(first)
	if err != nil {
		return nil, err
	}
	start, _, err := Interval(first)
	if err != nil {
		return nil, err
	}
	_, stop, err := Interval(last)
	if err != nil {
		return nil, err
	}
	key := make([]byte, len(logical)+IntervalLen)
	copy(key, logical)
	binary.BigEndian.PutUint64(key[len(logical):], start)
	binary.BigEndian.PutUint64(key[len(logical)+8:], stop)
	return key, nil
}

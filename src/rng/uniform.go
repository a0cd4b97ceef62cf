package rng

import (
	"encoding/binary"
	"errors"
	"io"
)

type Reader = io.Reader

// ErrSourceRead is returned when the entropy source cannot supply bytes.
var ErrSourceRead = errors.New("error fetching random bytes")

func ReadFull(r io.Reader, buf []byte) error {
	_, err := io.ReadFull(r, buf)
	return err
}

// UniformInt32 returns a uniform integer in [min, max] inclusive.
// Integer-only rejection sampling (no floats). This is unbiased assuming the uint32 stream is uniform.
func UniformInt32(r io.Reader, h *Health, min int, max int) (int32, error) {
	if min < -1000000000 {
		return 0, errors.New("the minimum value should not be lower than -1,000,000,000")
	}
	if min > 1000000000 {
		return 0, errors.New("the minimum value should not be higher than 1,000,000,000")
	}
	if max < -1000000000 {
		return 0, errors.New("the maximum value should not be lower than -1,000,000,000")
	}
	if max > 1000000000 {
		return 0, errors.New("the maximum value should not be higher than 1,000,000,000")
	}
	if min > max {
		return 0, errors.New("the minimum value should be smaller than or equal to the maximum value")
	}

	rangeSize := uint32(max - min + 1)
	if rangeSize == 0 {
		return 0, errors.New("invalid range size")
	}

	// limit = floor(2^32 / rangeSize) * rangeSize
	limit := (uint64(1)<<32)/uint64(rangeSize) * uint64(rangeSize)

	var buf [4]byte
	for {
		if err := ReadFull(r, buf[:]); err != nil {
			if h != nil {
				h.Set(false, "error fetching random bytes: "+err.Error())
			}
			return 0, ErrSourceRead
		}

		x := binary.BigEndian.Uint32(buf[:])
		if uint64(x) < limit {
			return int32(x%rangeSize) + int32(min), nil
		}
		// reject and retry
	}
}

// Float64 returns a uniform float64 in [0, 1) built from the top 53 bits of
// one big-endian uint64 read from r.
func Float64(r io.Reader, h *Health) (float64, error) {
	var buf [8]byte
	if err := ReadFull(r, buf[:]); err != nil {
		if h != nil {
			h.Set(false, "error fetching random bytes: "+err.Error())
		}
		return 0, ErrSourceRead
	}
	x := binary.BigEndian.Uint64(buf[:]) >> 11
	return float64(x) / (1 << 53), nil
}

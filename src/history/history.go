// Package history keeps a bounded FIFO of roll results and persists it as a
// raw dump of native-endian int32 values.
package history

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

const DefaultCapacity = 100

// Ext is appended to every history file name.
const Ext = ".bin"

const intSize = 4

// ErrCorrupt marks a history stream whose length is not a whole number of values.
var ErrCorrupt = errors.New("corrupt history data")

// LoadStatus reports how a load ended when it did not fail.
type LoadStatus int

const (
	// LoadComplete means capacity values were read.
	LoadComplete LoadStatus = iota
	// LoadPartial means the file ran out before capacity; everything read was kept.
	LoadPartial
	// LoadMissing means there was no file; nothing changed.
	LoadMissing
)

func (s LoadStatus) String() string {
	switch s {
	case LoadComplete:
		return "complete"
	case LoadPartial:
		return "partial"
	case LoadMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// RollHistory is a ring buffer. It is not safe for concurrent use.
type RollHistory struct {
	buf  []int32
	head int // index of the oldest value
	size int
}

// New returns an empty history. capacity <= 0 selects DefaultCapacity.
func New(capacity int) *RollHistory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &RollHistory{buf: make([]int32, capacity)}
}

func (h *RollHistory) Capacity() int { return len(h.buf) }
func (h *RollHistory) Len() int      { return h.size }

// Add appends v, overwriting the oldest value when full.
func (h *RollHistory) Add(v int32) {
	if h.size == len(h.buf) {
		h.buf[h.head] = v
		h.head = (h.head + 1) % len(h.buf)
		return
	}
	h.buf[(h.head+h.size)%len(h.buf)] = v
	h.size++
}

// Last returns up to n of the newest values, oldest first. n <= 0 yields an
// empty slice and n > Len() yields everything.
func (h *RollHistory) Last(n int) []int32 {
	if n <= 0 {
		return []int32{}
	}
	if n > h.size {
		n = h.size
	}
	out := make([]int32, n)
	start := h.head + h.size - n
	for i := range out {
		out[i] = h.buf[(start+i)%len(h.buf)]
	}
	return out
}

func (h *RollHistory) All() []int32 { return h.Last(h.size) }

// WriteTo dumps the values oldest first. No header, no length prefix.
func (h *RollHistory) WriteTo(w io.Writer) (int64, error) {
	if h.size == 0 {
		return 0, nil
	}
	if err := binary.Write(w, binary.NativeEndian, h.All()); err != nil {
		return 0, err
	}
	return int64(h.size * intSize), nil
}

// LoadFrom appends up to Capacity() values from r. Running out of data early
// is not an error: the values read so far are kept and LoadPartial returned.
// A trailing fragment shorter than one value fails with ErrCorrupt and nothing
// is appended.
func (h *RollHistory) LoadFrom(r io.Reader) (LoadStatus, int, error) {
	raw := make([]byte, len(h.buf)*intSize)
	k, err := io.ReadFull(r, raw)
	status := LoadComplete
	switch {
	case errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF):
		status = LoadPartial
	case err != nil:
		return LoadPartial, 0, err
	}
	if frag := k % intSize; frag != 0 {
		return LoadPartial, 0, fmt.Errorf("trailing %d-byte fragment after %d values: %w", frag, k/intSize, ErrCorrupt)
	}

	n := k / intSize
	for i := 0; i < n; i++ {
		h.Add(int32(binary.NativeEndian.Uint32(raw[i*intSize:])))
	}
	return status, n, nil
}

// SaveToFile writes {path}.bin, replacing any previous content.
func (h *RollHistory) SaveToFile(path string) error {
	f, err := os.Create(path + Ext)
	if err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	if _, err := h.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("saving history to %s%s: %w", path, Ext, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("saving history to %s%s: %w", path, Ext, err)
	}
	return nil
}

// LoadFromFile appends values from {path}.bin. A missing file is LoadMissing
// with a nil error.
func (h *RollHistory) LoadFromFile(path string) (LoadStatus, int, error) {
	f, err := os.Open(path + Ext)
	if errors.Is(err, fs.ErrNotExist) {
		return LoadMissing, 0, nil
	}
	if err != nil {
		return LoadMissing, 0, fmt.Errorf("loading history: %w", err)
	}
	defer f.Close()

	status, n, err := h.LoadFrom(f)
	if err != nil {
		return status, n, fmt.Errorf("loading history from %s%s: %w", path, Ext, err)
	}
	return status, n, nil
}

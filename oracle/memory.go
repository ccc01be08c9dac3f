package oracle

import (
	"context"

	"fogsim/fogerr"
	"fogsim/geo"
)

// Frame is one tick's worth of scripted oracle state: vehicles newly
// reported, vehicles no longer reported, and positions for everyone still
// present.
type Frame struct {
	Added     []string
	Removed   []string
	Positions map[string]geo.Point
}

// MemoryOracle is a deterministic, in-process mobility oracle driven by a
// scripted list of Frames. It is used by the core's own tests and by the
// CLI driver's --fixture mode.
type MemoryOracle struct {
	min, max geo.Point
	frames   []Frame
	cursor   int

	known     map[string]struct{}
	positions map[string]geo.Point
}

// NewMemoryOracle constructs a scripted oracle over the given bounding box
// and frame sequence.
func NewMemoryOracle(min, max geo.Point, frames []Frame) *MemoryOracle {
	return &MemoryOracle{
		min:       min,
		max:       max,
		frames:    frames,
		known:     make(map[string]struct{}),
		positions: make(map[string]geo.Point),
	}
}

func (m *MemoryOracle) NetBoundary() (geo.Point, geo.Point) { return m.min, m.max }

// Step applies the next scripted frame, if any remain.
func (m *MemoryOracle) Step(_ context.Context) error {
	if m.cursor >= len(m.frames) {
		return nil
	}
	f := m.frames[m.cursor]
	m.cursor++

	for _, id := range f.Removed {
		delete(m.known, id)
		delete(m.positions, id)
	}
	for _, id := range f.Added {
		m.known[id] = struct{}{}
	}
	for id, pos := range f.Positions {
		if _, ok := m.known[id]; ok {
			m.positions[id] = pos
		}
	}
	return nil
}

// ExpectedRemaining is the number of currently known vehicles plus any
// scripted frames not yet applied.
func (m *MemoryOracle) ExpectedRemaining() int {
	return len(m.known) + (len(m.frames) - m.cursor)
}

func (m *MemoryOracle) VehicleIDs() map[string]struct{} {
	out := make(map[string]struct{}, len(m.known))
	for id := range m.known {
		out[id] = struct{}{}
	}
	return out
}

func (m *MemoryOracle) VehiclePosition(id string) (geo.Point, error) {
	pos, ok := m.positions[id]
	if !ok {
		return geo.Point{}, fogerr.OracleFailuref("vehicle %q not known to the memory oracle", id)
	}
	return pos, nil
}

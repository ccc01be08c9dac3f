// Package oracle defines the boundary to the external traffic
// microsimulator ("mobility oracle") and provides two concrete adapters:
// an in-process deterministic fixture used by tests, and a network client
// that talks to a live bridge process.
package oracle

import (
	"context"

	"fogsim/geo"
)

// Oracle is the boundary the simulation core queries every tick: it never
// owns vehicle identities or positions, only reports them.
type Oracle interface {
	// NetBoundary returns the simulated area's bounding box.
	NetBoundary() (min, max geo.Point)
	// Step advances the oracle by one tick. It may block.
	Step(ctx context.Context) error
	// ExpectedRemaining is the oracle's estimate of vehicles still to come;
	// the simulation ends once this reaches zero.
	ExpectedRemaining() int
	// VehicleIDs returns the ids currently known to the oracle.
	VehicleIDs() map[string]struct{}
	// VehiclePosition returns the position of a known vehicle, or an
	// ORACLE_FAILURE error if the id is unknown.
	VehiclePosition(id string) (geo.Point, error)
}

// VisualSink is an optional visualisation boundary; every method is
// tolerated as a no-op by the core.
type VisualSink interface {
	SetVehicleColor(id string, rgba geo.RGBA)
	PolygonAdd(id string, shape geo.Shape, rgba geo.RGBA)
	PolygonSetColor(id string, rgba geo.RGBA)
}

// NoopVisualSink implements VisualSink with no-ops, for callers that have no
// visualisation backend wired up.
type NoopVisualSink struct{}

func (NoopVisualSink) SetVehicleColor(string, geo.RGBA)      {}
func (NoopVisualSink) PolygonAdd(string, geo.Shape, geo.RGBA) {}
func (NoopVisualSink) PolygonSetColor(string, geo.RGBA)      {}

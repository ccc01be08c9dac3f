package sim

import (
	"fogsim/fog"
	"fogsim/geo"
	"fogsim/oracle"
)

// lowColor and highColor bound the usage-to-colour gradient: green at zero
// usage, red at full capacity, linearly interpolated per channel. Grounded
// on FogNode.color_usage in the original simulator.
var (
	lowColor  = geo.RGBA{R: 0, G: 255, B: 0, A: 255}
	highColor = geo.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// recolorFogs pushes each fog node's current Usage to the visual sink as an
// interpolated colour between lowColor and highColor, and updates the
// node's own Color field to match.
func recolorFogs(fogs []*fog.Node, sink oracle.VisualSink) {
	for _, f := range fogs {
		c := lerpRGBA(lowColor, highColor, f.Usage)
		f.Color = c
		sink.PolygonSetColor(f.ID, c)
	}
}

func lerpRGBA(lo, hi geo.RGBA, t float64) geo.RGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return geo.RGBA{
		R: lerpByte(lo.R, hi.R, t),
		G: lerpByte(lo.G, hi.G, t),
		B: lerpByte(lo.B, hi.B, t),
		A: lo.A,
	}
}

func lerpByte(lo, hi uint8, t float64) uint8 {
	return uint8(float64(lo) + (float64(hi)-float64(lo))*t)
}

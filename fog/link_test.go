package fog_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"fogsim/fog"
	"fogsim/xrand"
)

func xrangeBandwidth() xrand.SteppedRange { return xrand.SteppedRange{Min: 100, Max: 1000, Step: 10} }

func deterministicRNG() *rand.Rand { return rand.New(rand.NewSource(0)) }

func TestLinkCanHandleAndUsage(t *testing.T) {
	l := &fog.Link{Bandwidth: 100}
	assert.True(t, l.CanHandle(100))
	assert.False(t, l.CanHandle(101))

	l.Charge = 50
	assert.InDelta(t, 0.5, l.Usage(), 1e-9)
	l.ResetCharge()
	assert.Equal(t, 0, l.Charge)
}

func TestModeName(t *testing.T) {
	assert.Equal(t, "nearest", fog.NewMode(false, false, false).Name())
	assert.Equal(t, "neighbours", fog.NewMode(true, false, false).Name())
	assert.Equal(t, "qos", fog.NewMode(false, true, false).Name())
	assert.Equal(t, "cost", fog.NewMode(false, false, true).Name())
	assert.Equal(t, "neighbours+qos", fog.NewMode(true, true, false).Name())
}

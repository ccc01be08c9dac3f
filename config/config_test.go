package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fogsim/config"
)

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsDegenerateRange(t *testing.T) {
	cfg := config.Default()
	cfg.Task.DurationRange.Step = 0
	assert.Error(t, cfg.Validate())
}

func TestLoadWithNoFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default().Topology.NBFogNodes, cfg.Topology.NBFogNodes)
}

func TestLinkBandwidthDerivedFromCPURange(t *testing.T) {
	link := config.LinkConfig{BandwidthDivisor: 4}
	cpu := config.Presets["MEDIUM"].CPU
	bw := link.Bandwidth(cpu)
	assert.Equal(t, cpu.Min/4, bw.Min)
	assert.Equal(t, cpu.Max/4, bw.Max)
}

package fogerr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fogsim/fogerr"
)

func TestKindRoundTrip(t *testing.T) {
	err := fogerr.InvalidRangef("min %d > max %d", 5, 1)
	assert.True(t, fogerr.Is(err, fogerr.InvalidRange))
	assert.False(t, fogerr.Is(err, fogerr.CapacityViolation))
	assert.Contains(t, err.Error(), "INVALID_RANGE")
}

func TestCapacityViolation(t *testing.T) {
	err := fogerr.CapacityViolationf("used would go negative: %v", -1)
	assert.True(t, fogerr.Is(err, fogerr.CapacityViolation))
}

func TestOracleFailure(t *testing.T) {
	err := fogerr.OracleFailuref("vehicle %q not found", "v1")
	assert.True(t, fogerr.Is(err, fogerr.OracleFailure))
}

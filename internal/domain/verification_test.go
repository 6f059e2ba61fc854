package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/intermodalpt/catalogue/internal/domain"
)

func TestStopVerification_PackLayout(t *testing.T) {
	v := domain.StopVerification{
		Position:       domain.Verified,
		Service:        domain.Likely,
		Infrastructure: domain.Wrong,
	}

	assert.Equal(t, uint8(0b01_10_11), v.Pack())
}

func TestUnpackVerification_RoundTrip(t *testing.T) {
	for level := 0; level < 64; level++ {
		assert.Equal(t, uint8(level), domain.UnpackVerification(uint8(level)).Pack())
	}
}

func TestUnpackVerification_IgnoresReservedBits(t *testing.T) {
	assert.Equal(t, domain.FullyVerified(), domain.UnpackVerification(0xFF))
}

func TestStopVerification_IsFullyVerified(t *testing.T) {
	assert.True(t, domain.FullyVerified().IsFullyVerified())
	assert.False(t, domain.Unverified().IsFullyVerified())
	assert.Equal(t, uint8(0), domain.Unverified().Pack())
}

func TestCapability_Requires(t *testing.T) {
	held := domain.ParsePermissions("contrib.submit, stops.create,")

	assert.True(t, domain.Requires(domain.PermSubmitContribution)(held))
	assert.True(t, domain.Requires()(held))
	assert.False(t, domain.Requires(domain.PermSubmitContribution, domain.PermEvaluateContribution)(held))
	assert.Equal(t, []string{"contrib.submit", "stops.create"}, held.List())
}

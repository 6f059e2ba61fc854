package history_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intermodalpt/catalogue/internal/domain"
	"github.com/intermodalpt/catalogue/internal/history"
)

func deverified(t *testing.T, patch history.StopPatch) domain.StopVerification {
	t.Helper()
	require.NotNil(t, patch.VerificationLevel, "expected verification_level to be set")
	return domain.UnpackVerification(*patch.VerificationLevel)
}

func TestDeverify_CrossingDowngradesOnlyInfrastructure(t *testing.T) {
	patch := history.StopPatch{}
	patch.HasCrossing = history.Set(false)

	patch.Deverify(domain.FullyVerified())

	assert.Equal(t, domain.StopVerification{
		Position:       domain.Verified,
		Service:        domain.Verified,
		Infrastructure: domain.NotVerified,
	}, deverified(t, patch))
}

func TestDeverify_ScheduleAndFlagsDowngradeService(t *testing.T) {
	for name, patch := range map[string]history.StopPatch{
		"schedules": {A11yPatch: history.A11yPatch{Schedules: history.Null[[]history.Schedule]()}},
		"flags":     {A11yPatch: history.A11yPatch{Flags: history.Set([]history.Flag{})}},
	} {
		t.Run(name, func(t *testing.T) {
			patch.Deverify(domain.FullyVerified())

			got := deverified(t, patch)
			assert.Equal(t, domain.NotVerified, got.Service)
			assert.Equal(t, domain.Verified, got.Position)
			assert.Equal(t, domain.Verified, got.Infrastructure)
		})
	}
}

func TestDeverify_GhostDowngradesInfrastructure(t *testing.T) {
	patch := history.StopPatch{IsGhost: ptr(true)}

	patch.Deverify(domain.FullyVerified())

	assert.Equal(t, domain.NotVerified, deverified(t, patch).Infrastructure)
}

func TestDeverify_PositionDowngradesPosition(t *testing.T) {
	patch := history.StopPatch{Lon: ptr(-9.0)}

	patch.Deverify(domain.FullyVerified())

	got := deverified(t, patch)
	assert.Equal(t, domain.NotVerified, got.Position)
	assert.Equal(t, domain.Verified, got.Service)
}

func TestDeverify_UnrelatedFields_Unset(t *testing.T) {
	patch := history.StopPatch{
		Name:   ptr("Renamed"),
		Street: history.Set("Foostreet"),
		Notes:  history.Null[string](),
	}

	patch.Deverify(domain.FullyVerified())

	assert.Nil(t, patch.VerificationLevel)
}

func TestDeverify_AlreadyNotVerified_Unset(t *testing.T) {
	patch := history.StopPatch{}
	patch.HasBench = history.Set(true)
	original := domain.StopVerification{Position: domain.Verified, Service: domain.Likely}

	patch.Deverify(original)

	assert.Nil(t, patch.VerificationLevel)
}

func TestDeverify_ExplicitNotVerifiedWins(t *testing.T) {
	level := domain.StopVerification{
		Position:       domain.NotVerified,
		Service:        domain.Verified,
		Infrastructure: domain.Verified,
	}.Pack()
	patch := history.StopPatch{VerificationLevel: &level}

	patch.Deverify(domain.FullyVerified())

	assert.Equal(t, domain.StopVerification{
		Position:       domain.NotVerified,
		Service:        domain.Verified,
		Infrastructure: domain.Verified,
	}, deverified(t, patch))
}

func TestDeverify_ExplicitVerifiedNeverRaises(t *testing.T) {
	level := domain.FullyVerified().Pack()
	patch := history.StopPatch{VerificationLevel: &level}
	patch.HasShelter = history.Set(true)
	original := domain.StopVerification{
		Position:       domain.Likely,
		Service:        domain.Wrong,
		Infrastructure: domain.Verified,
	}

	patch.Deverify(original)

	assert.Equal(t, domain.StopVerification{
		Position:       domain.Likely,
		Service:        domain.Wrong,
		Infrastructure: domain.NotVerified,
	}, deverified(t, patch))
}

func TestDeverify_ExplicitMatchingOriginal_Unset(t *testing.T) {
	level := domain.FullyVerified().Pack()
	patch := history.StopPatch{VerificationLevel: &level}

	patch.Deverify(domain.FullyVerified())

	assert.Nil(t, patch.VerificationLevel)
	assert.True(t, patch.IsEmpty())
}

func TestDeverify_Monotonic(t *testing.T) {
	current := domain.FullyVerified()
	patches := []history.StopPatch{
		{Name: ptr("a")},
		{IsGhost: ptr(false)},
		{VerificationLevel: ptr(domain.FullyVerified().Pack())},
		{Lat: ptr(1.0)},
	}
	for _, p := range patches {
		p.Deverify(current)
		next := current
		if p.VerificationLevel != nil {
			next = domain.UnpackVerification(*p.VerificationLevel)
		}
		assert.LessOrEqual(t, next.Position, current.Position)
		assert.LessOrEqual(t, next.Service, current.Service)
		assert.LessOrEqual(t, next.Infrastructure, current.Infrastructure)
		current = next
	}
	assert.Equal(t, domain.StopVerification{Service: domain.Verified}, current)
}

package history

import "github.com/intermodalpt/catalogue/internal/domain"

// Deverify lowers the verification axes whose fields the patch touches and
// records the outcome in VerificationLevel.
//
// Schedules and flags invalidate the service axis, the amenity attributes
// and the ghost flag the infrastructure axis, and the coordinates the
// position axis. An explicit verification level in the patch may lower an
// axis further but never raises one. When nothing changes relative to
// original, VerificationLevel is unset.
func (p *StopPatch) Deverify(original domain.StopVerification) {
	next := original
	for _, f := range p.fields() {
		if !f.specified {
			continue
		}
		switch f.axis {
		case axisPosition:
			next.Position = domain.NotVerified
		case axisService:
			next.Service = domain.NotVerified
		case axisInfrastructure:
			next.Infrastructure = domain.NotVerified
		}
	}

	// TODO(product): an explicit Verified or Likely is ignored here; decide
	// whether a submitter-supplied level should ever be honoured.
	if p.VerificationLevel != nil {
		explicit := domain.UnpackVerification(*p.VerificationLevel)
		if explicit.Position == domain.NotVerified {
			next.Position = domain.NotVerified
		}
		if explicit.Service == domain.NotVerified {
			next.Service = domain.NotVerified
		}
		if explicit.Infrastructure == domain.NotVerified {
			next.Infrastructure = domain.NotVerified
		}
	}

	if next == original {
		p.VerificationLevel = nil
		return
	}
	level := next.Pack()
	p.VerificationLevel = &level
}

package domain

// Verification is the confidence of a single verification axis.
// The numeric values are the packed duet encoding.
type Verification uint8

const (
	NotVerified Verification = 0
	Wrong       Verification = 1
	Likely      Verification = 2
	Verified    Verification = 3
)

func (v Verification) String() string {
	switch v {
	case NotVerified:
		return "not_verified"
	case Wrong:
		return "wrong"
	case Likely:
		return "likely"
	case Verified:
		return "verified"
	}
	return "unknown"
}

// StopVerification is the unpacked form of Stop.VerificationLevel.
//
// The packed byte is made of four two-bit duets:
//
//	bits 0-1  position
//	bits 2-3  service
//	bits 4-5  infrastructure
//	bits 6-7  reserved
type StopVerification struct {
	Position       Verification
	Service        Verification
	Infrastructure Verification
}

const (
	positionShift       = 0
	serviceShift        = 2
	infrastructureShift = 4
	duetMask            = 0b11
)

// UnpackVerification splits a packed verification level into its axes.
// The reserved duet is ignored.
func UnpackVerification(level uint8) StopVerification {
	return StopVerification{
		Position:       Verification((level >> positionShift) & duetMask),
		Service:        Verification((level >> serviceShift) & duetMask),
		Infrastructure: Verification((level >> infrastructureShift) & duetMask),
	}
}

// Pack encodes the axes into a single verification level byte.
func (v StopVerification) Pack() uint8 {
	return uint8(v.Position&duetMask)<<positionShift |
		uint8(v.Service&duetMask)<<serviceShift |
		uint8(v.Infrastructure&duetMask)<<infrastructureShift
}

// IsFullyVerified reports whether every axis is Verified.
func (v StopVerification) IsFullyVerified() bool {
	return v.Position == Verified && v.Service == Verified && v.Infrastructure == Verified
}

// FullyVerified returns a StopVerification with every axis Verified.
func FullyVerified() StopVerification {
	return StopVerification{Position: Verified, Service: Verified, Infrastructure: Verified}
}

// Unverified returns a StopVerification with every axis NotVerified.
// New entities start here.
func Unverified() StopVerification {
	return StopVerification{}
}

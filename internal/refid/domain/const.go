// Package domain defines the reference identifier grammar shared by organizers, events and certificates.
//
// Identifiers have the form <district>-<program>-<year>-<officer1>-<officer2>-<tag>-<sequence>
// where the first five segments are process-wide campaign constants.
package domain

// Kind identifies the entity an identifier is minted for.
type Kind string

const (
	KindOrganizer            Kind = "organizer"
	KindEvent                Kind = "event"
	KindParticipant          Kind = "participant"
	KindMerit                Kind = "merit"
	KindOrganizerCertificate Kind = "organizer_certificate"
)

// Sequence bounds.
const (
	// MinSequence is the first value issued for sequential kinds.
	MinSequence = 1
	// MaxSequence is the last value issued for sequential kinds.
	MaxSequence = 100000

	// MinCertificateNumber is the lower bound for random certificate numbers.
	MinCertificateNumber = 10000
	// MaxCertificateNumber is the upper bound for random certificate numbers.
	MaxCertificateNumber = 99999

	// SequenceWidth is the zero-padded width of the numeric segment.
	SequenceWidth = 5
)

// Validate checks if the kind is known.
func (k Kind) Validate() error {
	switch k {
	case KindOrganizer, KindEvent, KindParticipant, KindMerit, KindOrganizerCertificate:
		return nil
	default:
		return ErrInvalidKind
	}
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// Tag returns the segment embedded in identifiers of this kind.
// KindOrganizer and KindOrganizerCertificate share a tag; uniqueness is scoped per kind.
func (k Kind) Tag() string {
	switch k {
	case KindOrganizer, KindOrganizerCertificate:
		return "ORGANIZER"
	case KindEvent:
		return "EVT"
	case KindParticipant:
		return "PARTICIPANT"
	case KindMerit:
		return "MERIT"
	default:
		return ""
	}
}

// IsSequential reports whether numbers for this kind are issued monotonically.
// Certificate kinds draw random numbers instead.
func (k Kind) IsSequential() bool {
	return k == KindOrganizer || k == KindEvent
}

// Bounds returns the inclusive numeric range accepted for the kind.
func (k Kind) Bounds() (minimum, maximum int) {
	if k.IsSequential() {
		return MinSequence, MaxSequence
	}
	return MinCertificateNumber, MaxCertificateNumber
}

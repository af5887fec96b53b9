package app

import "github.com/dkeye/Meet/internal/domain"

// OfferPolicy decides which side initiates the offer when a new
// participant arrives. With AlwaysOffer both sides of a pair start an
// exchange and the duplicate is tolerated; LexicographicOffer picks a
// deterministic offerer and avoids the glare entirely.
type OfferPolicy interface {
	ShouldOffer(self, peer domain.ParticipantID) bool
}

type AlwaysOffer struct{}

func (AlwaysOffer) ShouldOffer(_, _ domain.ParticipantID) bool { return true }

type LexicographicOffer struct{}

func (LexicographicOffer) ShouldOffer(self, peer domain.ParticipantID) bool {
	return self < peer
}

func PolicyFromName(name string) OfferPolicy {
	switch name {
	case "lexicographic":
		return LexicographicOffer{}
	default:
		return AlwaysOffer{}
	}
}

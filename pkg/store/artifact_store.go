package store

import (
	"github.com/ghostpass-protocol/saleengine/pkg/apperrors"
	"github.com/ghostpass-protocol/saleengine/pkg/sale"
)

func (s *Store) SaveArtifact(a sale.TicketArtifact) error {
	return s.putJSON(artifactKey(a.ID.String()), a)
}

func (s *Store) LoadArtifact(id string) (sale.TicketArtifact, bool, error) {
	var a sale.TicketArtifact
	ok, err := s.getJSON(artifactKey(id), &a)
	return a, ok, err
}

// RedeemArtifact marks ticketID redeemed exactly once: a second call with
// the same ID reports alreadyRedeemed=true rather than erroring, giving the
// scan/redeem endpoint's idempotent-retry behavior.
func (s *Store) RedeemArtifact(ticketID string) (alreadyRedeemed bool, err error) {
	lock := s.lockFor("artifact:" + ticketID)
	lock.Lock()
	defer lock.Unlock()

	var marker struct{ Redeemed bool }
	found, err := s.getJSON(scanKey(ticketID), &marker)
	if err != nil {
		return false, err
	}
	if found && marker.Redeemed {
		return true, nil
	}

	artifact, ok, err := s.LoadArtifact(ticketID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, apperrors.Newf(apperrors.NotFound, "artifact", "ticket %s not found", ticketID)
	}
	artifact.Status = sale.ArtifactRedeemed
	if err := s.SaveArtifact(artifact); err != nil {
		return false, err
	}
	return false, s.putJSON(scanKey(ticketID), struct{ Redeemed bool }{true})
}

func (s *Store) SaveClaim(c sale.Claim) error {
	return s.putJSON(claimKey(c.SaleID.String(), c.KaspaTxid), c)
}

func (s *Store) LoadClaim(saleID, kaspaTxid string) (sale.Claim, bool, error) {
	var c sale.Claim
	ok, err := s.getJSON(claimKey(saleID, kaspaTxid), &c)
	return c, ok, err
}

func (s *Store) ListClaimsBySale(saleID string) ([]sale.Claim, error) {
	var claims []sale.Claim
	err := scanJSON(s, claimPrefix(saleID), func(c sale.Claim) error {
		claims = append(claims, c)
		return nil
	})
	return claims, err
}

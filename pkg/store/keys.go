package store

import "fmt"

// Key schema, one prefix per entity to keep prefix scans disjoint:
//
//	event:<eventId>                         -> Event
//	sale:<saleId>                           -> Sale
//	tickettype:<saleId>:<code>              -> TicketType
//	attempt:<saleId>:<txid>                 -> PurchaseAttempt
//	artifact:<artifactId>                   -> TicketArtifact
//	scan:<ticketId>                         -> redeem marker (idempotency)
//	claim:<saleId>:<kaspaTxid>              -> Claim
const (
	prefixEvent      = "event:"
	prefixSale       = "sale:"
	prefixTicketType = "tickettype:"
	prefixAttempt    = "attempt:"
	prefixArtifact   = "artifact:"
	prefixScan       = "scan:"
	prefixClaim      = "claim:"
)

func eventKey(id string) []byte { return []byte(fmt.Sprintf("%s%s", prefixEvent, id)) }
func saleKey(id string) []byte  { return []byte(fmt.Sprintf("%s%s", prefixSale, id)) }

func ticketTypeKey(saleID, code string) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", prefixTicketType, saleID, code))
}
func ticketTypePrefix(saleID string) []byte {
	return []byte(fmt.Sprintf("%s%s:", prefixTicketType, saleID))
}

func attemptKey(saleID, txid string) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", prefixAttempt, saleID, txid))
}
func attemptPrefix(saleID string) []byte {
	return []byte(fmt.Sprintf("%s%s:", prefixAttempt, saleID))
}

func artifactKey(id string) []byte { return []byte(fmt.Sprintf("%s%s", prefixArtifact, id)) }
func scanKey(ticketID string) []byte { return []byte(fmt.Sprintf("%s%s", prefixScan, ticketID)) }

func claimKey(saleID, kaspaTxid string) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", prefixClaim, saleID, kaspaTxid))
}
func claimPrefix(saleID string) []byte {
	return []byte(fmt.Sprintf("%s%s:", prefixClaim, saleID))
}

// upperBound returns the exclusive upper bound for a prefix scan.
func upperBound(prefix []byte) []byte {
	bound := make([]byte, len(prefix))
	copy(bound, prefix)
	bound[len(bound)-1]++
	return bound
}

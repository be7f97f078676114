// Package qr implements the ticket QR format of §6: a pipe-delimited
// string binding a ticket artifact to its sale and paying transaction,
// authenticated with an HMAC so a redeem scan can be verified offline
// before it touches the store.
package qr

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"

	"github.com/ghostpass-protocol/saleengine/pkg/apperrors"
)

const tag = "TK1"

// Data is the payload encoded into a ticket's QR code.
type Data struct {
	TicketID uuid.UUID
	SaleID   uuid.UUID
	Txid     string
}

func signingMessage(d Data) string {
	return d.TicketID.String() + "|" + d.SaleID.String() + "|" + d.Txid
}

func sign(d Data, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(signingMessage(d)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Encode renders d as "TK1|{ticketId}|{saleId}|{txid}|{sig}".
func Encode(d Data, secret []byte) string {
	return strings.Join([]string{tag, d.TicketID.String(), d.SaleID.String(), d.Txid, sign(d, secret)}, "|")
}

// Decode parses and authenticates a QR string against secret using a
// constant-time comparison, returning the bound Data on success.
func Decode(qr string, secret []byte) (Data, error) {
	parts := strings.Split(qr, "|")
	if len(parts) != 5 || parts[0] != tag {
		return Data{}, apperrors.Newf(apperrors.InvalidQR, "format", "malformed ticket QR")
	}

	ticketID, err := uuid.Parse(parts[1])
	if err != nil {
		return Data{}, apperrors.New(apperrors.InvalidQR, "ticketId", err)
	}
	saleID, err := uuid.Parse(parts[2])
	if err != nil {
		return Data{}, apperrors.New(apperrors.InvalidQR, "saleId", err)
	}

	d := Data{TicketID: ticketID, SaleID: saleID, Txid: parts[3]}
	want := sign(d, secret)
	if !hmac.Equal([]byte(want), []byte(parts[4])) {
		return Data{}, apperrors.Newf(apperrors.InvalidQR, "signature", "ticket QR signature mismatch")
	}
	return d, nil
}

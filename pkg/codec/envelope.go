// Package codec implements the v1 purchase-attempt payload envelope: a
// fixed 59-byte binary format binding a transfer to a sale, a buyer, and a
// proof-of-work solution, plus the SHA-256 proof-of-work itself.
package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/ghostpass-protocol/saleengine/pkg/apperrors"
	"github.com/google/uuid"
)

const (
	envelopeLen = 59

	magicOffset    = 0
	magicLen       = 4
	versionOffset  = 4
	saleIDOffset   = 5
	saleIDLen      = 16
	addrHashOffset = 21
	addrHashLen    = 20
	clientTSOffset = 41
	powAlgoOffset  = 49
	powDiffOffset  = 50
	powNonceOffset = 51

	// Version is the only envelope version this codec accepts.
	Version byte = 0x01

	// PowAlgoSHA256 is the only supported proof-of-work algorithm.
	PowAlgoSHA256 byte = 0x01
)

var magic = [magicLen]byte{'G', 'P', 'S', '1'}

// Payload is the decoded form of the 59-byte v1 envelope. BuyerAddrHash
// must be exactly 20 bytes; Encode rejects anything else.
type Payload struct {
	SaleID        uuid.UUID
	BuyerAddrHash []byte
	ClientTimeMs  uint64
	PowAlgo       byte
	PowDifficulty uint8
	PowNonce      uint64
}

// Encode serializes p into the 59-byte v1 wire format.
func Encode(p Payload) ([]byte, error) {
	if len(p.BuyerAddrHash) != addrHashLen {
		return nil, apperrors.Newf(apperrors.InvalidPayload, "length",
			"buyerAddrHash must be %d bytes, got %d", addrHashLen, len(p.BuyerAddrHash))
	}

	buf := make([]byte, envelopeLen)
	copy(buf[magicOffset:magicOffset+magicLen], magic[:])
	buf[versionOffset] = Version
	copy(buf[saleIDOffset:saleIDOffset+saleIDLen], p.SaleID[:])
	copy(buf[addrHashOffset:addrHashOffset+addrHashLen], p.BuyerAddrHash)
	binary.BigEndian.PutUint64(buf[clientTSOffset:clientTSOffset+8], p.ClientTimeMs)
	buf[powAlgoOffset] = p.PowAlgo
	buf[powDiffOffset] = p.PowDifficulty
	binary.BigEndian.PutUint64(buf[powNonceOffset:powNonceOffset+8], p.PowNonce)
	return buf, nil
}

// Decode parses a 59-byte v1 envelope. Failures are tagged with the codec
// sub-reason ("length", "magic", "version" or "saleId") so callers can
// classify the validation status per §4.4 of the specification.
func Decode(b []byte) (Payload, error) {
	if len(b) != envelopeLen {
		return Payload{}, apperrors.Newf(apperrors.InvalidPayload, "length",
			"envelope must be %d bytes, got %d", envelopeLen, len(b))
	}
	if [magicLen]byte(b[magicOffset:magicOffset+magicLen]) != magic {
		return Payload{}, apperrors.Newf(apperrors.InvalidPayload, "magic",
			"bad magic %q", b[magicOffset:magicOffset+magicLen])
	}
	if b[versionOffset] != Version {
		return Payload{}, apperrors.Newf(apperrors.InvalidPayload, "version",
			"unsupported version 0x%02x", b[versionOffset])
	}

	saleID, err := uuid.FromBytes(b[saleIDOffset : saleIDOffset+saleIDLen])
	if err != nil {
		return Payload{}, apperrors.New(apperrors.InvalidPayload, "saleId", err)
	}

	p := Payload{
		SaleID:        saleID,
		BuyerAddrHash: append([]byte(nil), b[addrHashOffset:addrHashOffset+addrHashLen]...),
		ClientTimeMs:  binary.BigEndian.Uint64(b[clientTSOffset : clientTSOffset+8]),
		PowAlgo:       b[powAlgoOffset],
		PowDifficulty: b[powDiffOffset],
		PowNonce:      binary.BigEndian.Uint64(b[powNonceOffset : powNonceOffset+8]),
	}
	return p, nil
}

func (p Payload) String() string {
	return fmt.Sprintf("Payload{sale=%s buyerHash=%x clientTimeMs=%d powAlgo=%d powDiff=%d nonce=%d}",
		p.SaleID, p.BuyerAddrHash, p.ClientTimeMs, p.PowAlgo, p.PowDifficulty, p.PowNonce)
}

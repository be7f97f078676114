package merkle

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ghostpass-protocol/saleengine/pkg/apperrors"
	"github.com/google/uuid"
)

const commitHeader = "GPSCOMMIT|v1"

// BuildCommitPayload renders the on-chain commit payload for (saleID, root):
// the literal string "GPSCOMMIT|v1|<saleId>|<merkleRoot-hex>", hex-encoded
// as the transaction's carried data.
func BuildCommitPayload(saleID uuid.UUID, root [32]byte) string {
	plain := fmt.Sprintf("%s|%s|%s", commitHeader, saleID, hex.EncodeToString(root[:]))
	return hex.EncodeToString([]byte(plain))
}

// ParseCommitPayload decodes a hex-encoded commit payload and validates its
// fixed header, returning the sale ID and Merkle root it commits to.
func ParseCommitPayload(payloadHex string) (uuid.UUID, [32]byte, error) {
	raw, err := hex.DecodeString(payloadHex)
	if err != nil {
		return uuid.UUID{}, [32]byte{}, apperrors.New(apperrors.ValidationFailed, "commitPayload", err)
	}

	parts := strings.Split(string(raw), "|")
	if len(parts) != 4 || parts[0]+"|"+parts[1] != commitHeader {
		return uuid.UUID{}, [32]byte{}, apperrors.Newf(apperrors.ValidationFailed, "commitPayload",
			"malformed commit payload header in %q", raw)
	}

	saleID, err := uuid.Parse(parts[2])
	if err != nil {
		return uuid.UUID{}, [32]byte{}, apperrors.New(apperrors.ValidationFailed, "commitPayload", err)
	}

	rootBytes, err := hex.DecodeString(parts[3])
	if err != nil || len(rootBytes) != 32 {
		return uuid.UUID{}, [32]byte{}, apperrors.Newf(apperrors.ValidationFailed, "commitPayload",
			"bad merkle root field %q", parts[3])
	}
	var root [32]byte
	copy(root[:], rootBytes)
	return saleID, root, nil
}

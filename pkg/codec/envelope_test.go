package codec

import (
	"reflect"
	"testing"

	"github.com/ghostpass-protocol/saleengine/pkg/apperrors"
	"github.com/google/uuid"
)

func samplePayload() Payload {
	return Payload{
		SaleID:        uuid.New(),
		BuyerAddrHash: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
		ClientTimeMs:  1_700_000_000_000,
		PowAlgo:       PowAlgoSHA256,
		PowDifficulty: 12,
		PowNonce:      424242,
	}
}

func TestRoundTrip(t *testing.T) {
	p := samplePayload()
	wire, err := Encode(p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(wire) != envelopeLen {
		t.Fatalf("len = %d, want %d", len(wire), envelopeLen)
	}

	got, err := Decode(wire)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got, p) {
		t.Fatalf("decode(encode(p)) = %+v, want %+v", got, p)
	}
}

func TestDecodeWrongLength(t *testing.T) {
	_, err := Decode(make([]byte, 58))
	assertReason(t, err, "length")
}

func TestDecodeWrongMagic(t *testing.T) {
	wire, _ := Encode(samplePayload())
	wire[0] = 'X'
	_, err := Decode(wire)
	assertReason(t, err, "magic")
}

func TestDecodeWrongVersion(t *testing.T) {
	wire, _ := Encode(samplePayload())
	wire[4] = 0x02
	_, err := Decode(wire)
	assertReason(t, err, "version")
}

func TestLeadingZeroBits(t *testing.T) {
	cases := []struct {
		b    []byte
		want int
	}{
		{[]byte{0x00, 0x00}, 16},
		{[]byte{0x0f, 0xff}, 4},
		{[]byte{0x80}, 0},
		{[]byte{0x01}, 7},
	}
	for _, c := range cases {
		if got := leadingZeroBits(c.b); got != c.want {
			t.Errorf("leadingZeroBits(%x) = %d, want %d", c.b, got, c.want)
		}
	}
}

func assertReason(t *testing.T, err error, reason string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if apperrors.KindOf(err) != apperrors.InvalidPayload {
		t.Fatalf("kind = %v, want InvalidPayload", apperrors.KindOf(err))
	}
	var appErr *apperrors.Error
	if e, ok := err.(*apperrors.Error); ok {
		appErr = e
	}
	if appErr == nil || appErr.Reason != reason {
		t.Fatalf("reason = %+v, want %q", appErr, reason)
	}
}

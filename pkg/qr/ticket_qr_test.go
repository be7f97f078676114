package qr

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func sampleData() Data {
	return Data{TicketID: uuid.New(), SaleID: uuid.New(), Txid: "tx-abc123"}
}

func TestRoundTrip(t *testing.T) {
	secret := []byte("top-secret")
	d := sampleData()

	encoded := Encode(d, secret)
	got, err := Decode(encoded, secret)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != d {
		t.Fatalf("got %+v, want %+v", got, d)
	}
}

func TestTamperedSignatureFails(t *testing.T) {
	secret := []byte("top-secret")
	encoded := Encode(sampleData(), secret)
	tampered := encoded[:len(encoded)-1] + "0"
	if _, err := Decode(tampered, secret); err == nil {
		t.Fatal("expected tampered signature to fail")
	}
}

func TestTamperedTxidFails(t *testing.T) {
	secret := []byte("top-secret")
	d := sampleData()
	encoded := Encode(d, secret)

	tampered := strings.Replace(encoded, "|"+d.Txid+"|", "|"+d.Txid+"x|", 1)
	if tampered == encoded {
		t.Fatal("test setup: txid segment not found in encoded QR")
	}
	if _, err := Decode(tampered, secret); err == nil {
		t.Fatal("expected tampered txid segment to fail verification")
	}
}

func TestWrongSecretFails(t *testing.T) {
	encoded := Encode(sampleData(), []byte("secret-a"))
	if _, err := Decode(encoded, []byte("secret-b")); err == nil {
		t.Fatal("expected wrong secret to fail verification")
	}
}

func TestMalformedQRRejected(t *testing.T) {
	if _, err := Decode("not-a-ticket-qr", []byte("s")); err == nil {
		t.Fatal("expected malformed QR to be rejected")
	}
}

package merkle

import (
	"crypto/sha256"
	"testing"

	"github.com/google/uuid"
)

func leafFor(rank uint32, txid string) [32]byte {
	return Leaf{FinalRank: rank, Txid: txid}.Hash()
}

func TestEmptyTreeRoot(t *testing.T) {
	tree := Build(nil)
	want := sha256.Sum256(nil)
	if tree.Root() != want {
		t.Fatalf("empty root = %x, want %x", tree.Root(), want)
	}
	if tree.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", tree.Len())
	}
}

func TestInclusionForEveryLeaf(t *testing.T) {
	leaves := []Leaf{
		{FinalRank: 1, Txid: "tx-aaa"},
		{FinalRank: 2, Txid: "tx-bbb"},
		{FinalRank: 3, Txid: "tx-ccc"},
		{FinalRank: 4, Txid: "tx-ddd"},
		{FinalRank: 5, Txid: "tx-eee"}, // odd count forces a duplicated tail
	}
	hashes := make([][32]byte, len(leaves))
	for i, l := range leaves {
		hashes[i] = l.Hash()
	}
	tree := Build(hashes)
	root := tree.Root()

	for i, h := range hashes {
		proof, err := tree.Proof(i)
		if err != nil {
			t.Fatalf("proof(%d): %v", i, err)
		}
		if !VerifyLeafInclusion(h, proof, root) {
			t.Fatalf("leaf %d does not verify against root", i)
		}
	}
}

func TestTamperedLeafFailsVerification(t *testing.T) {
	hashes := [][32]byte{leafFor(1, "tx-aaa"), leafFor(2, "tx-bbb"), leafFor(3, "tx-ccc")}
	tree := Build(hashes)
	proof, _ := tree.Proof(0)

	tampered := leafFor(1, "tx-zzz")
	if VerifyLeafInclusion(tampered, proof, tree.Root()) {
		t.Fatal("tampered leaf unexpectedly verified")
	}
}

func TestProofOutOfRange(t *testing.T) {
	tree := Build([][32]byte{leafFor(1, "tx-aaa")})
	if _, err := tree.Proof(5); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestLeafSerializationNullFields(t *testing.T) {
	l := Leaf{FinalRank: 7, Txid: "tx-fallback"}
	want := "7|tx-fallback|||"
	if got := l.CanonicalString(); got != want {
		t.Fatalf("CanonicalString() = %q, want %q", got, want)
	}
}

func TestCommitPayloadRoundTrip(t *testing.T) {
	saleID := uuid.New()
	root := sha256.Sum256([]byte("winners"))

	payload := BuildCommitPayload(saleID, root)
	gotSale, gotRoot, err := ParseCommitPayload(payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if gotSale != saleID || gotRoot != root {
		t.Fatalf("round trip mismatch: sale=%s root=%x", gotSale, gotRoot)
	}
}

func TestParseCommitPayloadRejectsBadHeader(t *testing.T) {
	_, _, err := ParseCommitPayload("deadbeef")
	if err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

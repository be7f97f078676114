// Command powsolve solves the client-side proof-of-work a buyer must embed
// in a purchase attempt's payload (§4.1) and prints the resulting 59-byte
// envelope, hex-encoded and ready to attach to an on-chain transfer.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/ghostpass-protocol/saleengine/pkg/codec"
)

func main() {
	saleIDFlag := flag.String("sale", "", "sale id (uuid), required")
	buyerAddrFlag := flag.String("buyer-hash", "", "20-byte buyer address hash, hex-encoded, required")
	difficulty := flag.Uint("difficulty", 18, "proof-of-work difficulty in leading zero bits")
	batchSize := flag.Uint64("batch", 1<<16, "nonces attempted per cancellation check")
	flag.Parse()

	if *saleIDFlag == "" || *buyerAddrFlag == "" {
		fmt.Fprintln(os.Stderr, "usage: powsolve -sale <uuid> -buyer-hash <hex20> [-difficulty N] [-batch N]")
		os.Exit(1)
	}

	saleID, err := uuid.Parse(*saleIDFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad -sale: %v\n", err)
		os.Exit(1)
	}

	buyerHash, err := hex.DecodeString(*buyerAddrFlag)
	if err != nil || len(buyerHash) != 20 {
		fmt.Fprintln(os.Stderr, "-buyer-hash must be 20 bytes of hex")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	powCtx := codec.PowContext{SaleID: saleID, BuyerAddrHash: buyerHash, Difficulty: uint8(*difficulty)}

	start := time.Now()
	result, err := codec.SolvePow(ctx, powCtx, *batchSize, func(iterations uint64) {
		fmt.Fprintf(os.Stderr, "\r%d nonces tried...", iterations)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nsolve cancelled: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "\nsolved in %s, %d iterations\n", time.Since(start), result.Iterations)

	payload := codec.Payload{
		SaleID:        saleID,
		BuyerAddrHash: buyerHash,
		ClientTimeMs:  uint64(time.Now().UnixMilli()),
		PowAlgo:       codec.PowAlgoSHA256,
		PowDifficulty: uint8(*difficulty),
		PowNonce:      result.Nonce,
	}
	envelope, err := codec.Encode(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hex.EncodeToString(envelope))
}

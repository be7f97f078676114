package params

import (
	"os"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"DATABASE_URL", "DB_PATH", "CORS_ORIGINS", "PURCHASE_MODE", "USE_PONDER_DATA",
		"PONDER_SCHEMA", "CONTRACT_RPC_URL", "TREASURY_CONTRACT", "WS_BROADCAST_INTERVAL_MS",
		"INDEXER_POLL_INTERVAL_MS", "TICKET_SECRET", "LISTEN_ADDR", "LOG_FILE",
		"SCANNER_BATCH_SIZE", "DEFAULT_FINALITY_DEPTH", "DEFAULT_POW_DIFFICULTY",
	}
	for _, k := range keys {
		orig, had := os.LookupEnv(k)
		os.Unsetenv(k)
		t.Cleanup(func(k string, had bool, orig string) func() {
			return func() {
				if had {
					os.Setenv(k, orig)
				} else {
					os.Unsetenv(k)
				}
			}
		}(k, had, orig))
	}
}

func TestLoadFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	cfg := LoadFromEnv("/nonexistent/.env")
	want := Default()
	if cfg.PurchaseMode != want.PurchaseMode || cfg.ListenAddr != want.ListenAddr {
		t.Fatalf("got %+v, want defaults %+v", cfg, want)
	}
	if cfg.TreasuryContract != "" {
		t.Fatalf("expected empty TreasuryContract by default, got %q", cfg.TreasuryContract)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	os.Setenv("PURCHASE_MODE", "evm")
	os.Setenv("TREASURY_CONTRACT", "0xabc")
	os.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	os.Setenv("WS_BROADCAST_INTERVAL_MS", "500")
	os.Setenv("DEFAULT_FINALITY_DEPTH", "20")
	os.Setenv("DEFAULT_POW_DIFFICULTY", "22")

	cfg := LoadFromEnv("/nonexistent/.env")

	if cfg.PurchaseMode != "evm" {
		t.Fatalf("PurchaseMode = %q, want evm", cfg.PurchaseMode)
	}
	if cfg.TreasuryContract != "0xabc" {
		t.Fatalf("TreasuryContract = %q, want 0xabc", cfg.TreasuryContract)
	}
	if len(cfg.CorsOrigins) != 2 || cfg.CorsOrigins[0] != "https://a.example" || cfg.CorsOrigins[1] != "https://b.example" {
		t.Fatalf("CorsOrigins = %v", cfg.CorsOrigins)
	}
	if cfg.WSBroadcastInterval != 500*time.Millisecond {
		t.Fatalf("WSBroadcastInterval = %v", cfg.WSBroadcastInterval)
	}
	if cfg.DefaultFinalityDepth != 20 {
		t.Fatalf("DefaultFinalityDepth = %d", cfg.DefaultFinalityDepth)
	}
	if cfg.DefaultPowDifficulty != 22 {
		t.Fatalf("DefaultPowDifficulty = %d", cfg.DefaultPowDifficulty)
	}
}

func TestSplitAndTrimDropsEmpties(t *testing.T) {
	got := splitAndTrim(" a ,, b ,c")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

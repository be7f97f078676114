// Package params loads the ticket sale engine's configuration from the
// environment, following the reference node's ENV > .env > defaults
// precedence.
package params

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is every knob a running instance of the engine needs: spec.md §6's
// named variables plus the ambient additions a runnable service requires
// (listen address, log destination, store path, tuning defaults).
type Config struct {
	DatabaseURL    string
	DBPath         string
	CorsOrigins    []string
	PurchaseMode   string // "evm" | "native"
	UsePonderData  bool
	PonderSchema   string
	ContractRPCURL string
	// TreasuryContract is the EVM token contract whose Transfer logs the
	// evm-mode adapter scans; unused in native mode.
	TreasuryContract string

	WSBroadcastInterval time.Duration
	IndexerPollInterval time.Duration

	TicketSecret []byte

	ListenAddr string
	LogFile    string

	ScannerBatchSize     int
	DefaultFinalityDepth uint32
	DefaultPowDifficulty uint8
}

func Default() Config {
	return Config{
		DatabaseURL:          "data/saleengine.db",
		DBPath:               "data/saleengine.db",
		CorsOrigins:          []string{"*"},
		PurchaseMode:         "native",
		UsePonderData:        false,
		PonderSchema:         "public",
		ContractRPCURL:       "",
		WSBroadcastInterval:  2 * time.Second,
		IndexerPollInterval:  3 * time.Second,
		TicketSecret:         []byte("change-me-in-production"),
		ListenAddr:           ":8080",
		LogFile:              "data/saleengine.log",
		ScannerBatchSize:     100,
		DefaultFinalityDepth: 10,
		DefaultPowDifficulty: 18,
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and then
// overrides with real environment variables, mirroring the reference
// node's params.LoadFromEnv precedence: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
		cfg.DBPath = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CorsOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("PURCHASE_MODE"); v != "" {
		cfg.PurchaseMode = v
	}
	if v := os.Getenv("USE_PONDER_DATA"); v != "" {
		cfg.UsePonderData = v == "true"
	}
	if v := os.Getenv("PONDER_SCHEMA"); v != "" {
		cfg.PonderSchema = v
	}
	if v := os.Getenv("CONTRACT_RPC_URL"); v != "" {
		cfg.ContractRPCURL = v
	}
	if v := os.Getenv("TREASURY_CONTRACT"); v != "" {
		cfg.TreasuryContract = v
	}
	if v := os.Getenv("WS_BROADCAST_INTERVAL_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.WSBroadcastInterval = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv("INDEXER_POLL_INTERVAL_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.IndexerPollInterval = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv("TICKET_SECRET"); v != "" {
		cfg.TicketSecret = []byte(v)
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("SCANNER_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ScannerBatchSize = n
		}
	}
	if v := os.Getenv("DEFAULT_FINALITY_DEPTH"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.DefaultFinalityDepth = uint32(n)
		}
	}
	if v := os.Getenv("DEFAULT_POW_DIFFICULTY"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 8); err == nil {
			cfg.DefaultPowDifficulty = uint8(n)
		}
	}

	return cfg
}

func splitAndTrim(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Command server runs the ticket sale engine: the periodic scanner,
// acceptance-tracker, and ranking passes, the per-sale stats broadcaster,
// and the HTTP/WebSocket API, all driven from a single process per §5/§6.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/ghostpass-protocol/saleengine/params"
	"github.com/ghostpass-protocol/saleengine/pkg/acceptance"
	"github.com/ghostpass-protocol/saleengine/pkg/api"
	"github.com/ghostpass-protocol/saleengine/pkg/chain"
	"github.com/ghostpass-protocol/saleengine/pkg/ranking"
	"github.com/ghostpass-protocol/saleengine/pkg/sale"
	"github.com/ghostpass-protocol/saleengine/pkg/scanner"
	"github.com/ghostpass-protocol/saleengine/pkg/stats"
	"github.com/ghostpass-protocol/saleengine/pkg/store"
	"github.com/ghostpass-protocol/saleengine/pkg/util"
)

func main() {
	cfg := params.LoadFromEnv("")

	logger, err := util.NewLoggerWithFile(cfg.LogFile)
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()
	sugar.Infow("logger_initialized", "log_file", cfg.LogFile)

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		sugar.Fatalw("store_open_failed", "err", err, "path", cfg.DBPath)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := buildChainSource(ctx, cfg)
	if err != nil {
		sugar.Fatalw("chain_source_init_failed", "err", err, "mode", cfg.PurchaseMode)
	}

	srv := api.NewServer(st, logger, cfg.CorsOrigins, cfg.TicketSecret)
	go srv.RunHub()

	sc := scanner.New(source, st, util.RealClock{}, cfg.IndexerPollInterval, logger)
	go sc.Run(ctx)

	go runAcceptanceLoop(ctx, st, source, util.RealClock{}, cfg.IndexerPollInterval, cfg.ScannerBatchSize, logger)
	go runRankingLoop(ctx, st, util.RealClock{}, cfg.IndexerPollInterval, logger)
	go runStatsBroadcastLoop(ctx, st, srv, util.RealClock{}, cfg.WSBroadcastInterval)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		sugar.Infow("http_server_starting", "addr", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("http_server_failed", "err", err)
		}
	}()

	<-ctx.Done()
	sugar.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		sugar.Warnw("http_server_shutdown_error", "err", err)
	}
}

func buildChainSource(ctx context.Context, cfg params.Config) (chain.Source, error) {
	if cfg.PurchaseMode == "evm" {
		return chain.NewEVMSource(ctx, cfg.ContractRPCURL, common.HexToAddress(cfg.TreasuryContract))
	}
	return chain.NewNativeSource(ctx, cfg.ContractRPCURL)
}

// runAcceptanceLoop drives the acceptance tracker (C5) over every live
// sale's unfinalized attempts, persisting whatever the pass changed.
func runAcceptanceLoop(ctx context.Context, st *store.Store, source chain.Source, clock util.Clock, interval time.Duration, batchSize int, log *zap.Logger) {
	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			sales, err := st.ListSales()
			if err != nil {
				log.Warn("acceptance loop: list sales failed", zap.Error(err))
				continue
			}
			for _, sl := range sales {
				if sl.Status != sale.StatusLive {
					continue
				}
				attempts, err := st.ListUnfinalizedAttempts(sl.ID.String(), sl.FinalityDepth)
				if err != nil {
					log.Warn("acceptance loop: list attempts failed", zap.String("saleId", sl.ID.String()), zap.Error(err))
					continue
				}
				if len(attempts) == 0 {
					continue
				}
				transitions, err := acceptance.Pass(ctx, source, sl.FinalityDepth, attempts, batchSize)
				if err != nil {
					log.Warn("acceptance loop: pass failed", zap.String("saleId", sl.ID.String()), zap.Error(err))
				}
				for _, t := range transitions {
					if err := st.UpdateAttempt(t.Attempt); err != nil {
						log.Warn("acceptance loop: update attempt failed", zap.String("txid", t.Attempt.Txid), zap.Error(err))
					}
				}
			}
		}
	}
}

// runRankingLoop recomputes provisional ranks continuously; final ranks are
// assigned once, at finalize, inside pkg/api's handleFinalize.
func runRankingLoop(ctx context.Context, st *store.Store, clock util.Clock, interval time.Duration, log *zap.Logger) {
	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			sales, err := st.ListSales()
			if err != nil {
				log.Warn("ranking loop: list sales failed", zap.Error(err))
				continue
			}
			for _, sl := range sales {
				if sl.Status != sale.StatusLive {
					continue
				}
				attempts, err := st.ListAttemptsBySale(sl.ID.String())
				if err != nil {
					log.Warn("ranking loop: list attempts failed", zap.String("saleId", sl.ID.String()), zap.Error(err))
					continue
				}
				for _, a := range ranking.ProvisionalRanks(sl, attempts) {
					if err := st.UpdateAttempt(a); err != nil {
						log.Warn("ranking loop: update attempt failed", zap.String("txid", a.Txid), zap.Error(err))
					}
				}
			}
		}
	}
}

// runStatsBroadcastLoop pushes a fresh stats.Snapshot to every sale's
// websocket subscribers on a fixed tick, per §6.2.
func runStatsBroadcastLoop(ctx context.Context, st *store.Store, srv *api.Server, clock util.Clock, interval time.Duration) {
	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			sales, err := st.ListSales()
			if err != nil {
				continue
			}
			for _, sl := range sales {
				attempts, err := st.ListAttemptsBySale(sl.ID.String())
				if err != nil {
					continue
				}
				srv.BroadcastStats(sl.ID.String(), stats.Compute(sl, attempts, clock.Now()))
			}
		}
	}
}

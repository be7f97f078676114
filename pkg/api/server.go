// Package api implements the HTTP and WebSocket surface of §6: gorilla/mux
// routes under /v1 wrapped in rs/cors, plus a per-sale websocket hub.
package api

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/ghostpass-protocol/saleengine/pkg/allocation"
	"github.com/ghostpass-protocol/saleengine/pkg/apperrors"
	"github.com/ghostpass-protocol/saleengine/pkg/qr"
	"github.com/ghostpass-protocol/saleengine/pkg/ranking"
	"github.com/ghostpass-protocol/saleengine/pkg/sale"
	"github.com/ghostpass-protocol/saleengine/pkg/stats"
	"github.com/ghostpass-protocol/saleengine/pkg/store"
)

// Server wires the /v1 REST surface and the /ws/sales/:saleId websocket
// endpoint onto a single gorilla/mux router.
type Server struct {
	store        *store.Store
	hub          *Hub
	log          *zap.Logger
	corsOrigins  []string
	ticketSecret []byte
	router       *mux.Router
}

func NewServer(st *store.Store, log *zap.Logger, corsOrigins []string, ticketSecret []byte) *Server {
	s := &Server{
		store:        st,
		hub:          NewHub(log),
		log:          log,
		corsOrigins:  corsOrigins,
		ticketSecret: ticketSecret,
		router:       mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	v1 := s.router.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/events", s.handleCreateEvent).Methods(http.MethodPost)
	v1.HandleFunc("/events", s.handleListEvents).Methods(http.MethodGet)
	v1.HandleFunc("/events/{id}", s.handleGetEvent).Methods(http.MethodGet)
	v1.HandleFunc("/events/{eventId}/sales", s.handleCreateSale).Methods(http.MethodPost)

	v1.HandleFunc("/sales/{id}/publish", s.handlePublish).Methods(http.MethodPost)
	v1.HandleFunc("/sales/{id}/finalize", s.handleFinalize).Methods(http.MethodPost)
	v1.HandleFunc("/sales/{id}/commit", s.handleCommit).Methods(http.MethodPost)
	v1.HandleFunc("/sales/{id}/ticket-types", s.handleCreateTicketType).Methods(http.MethodPost)
	v1.HandleFunc("/sales/{id}/stats", s.handleStats).Methods(http.MethodGet)
	v1.HandleFunc("/sales/{id}/my-status", s.handleMyStatus).Methods(http.MethodGet)
	v1.HandleFunc("/sales/{id}/merkle-proof", s.handleMerkleProof).Methods(http.MethodGet)
	v1.HandleFunc("/sales/{id}/allocation", s.handleAllocation).Methods(http.MethodGet)
	v1.HandleFunc("/sales/{id}/tickets/{txid}/issue", s.handleIssueTicket).Methods(http.MethodPost)
	v1.HandleFunc("/sales/{id}/claims/sync", s.handleSyncClaim).Methods(http.MethodPost)

	v1.HandleFunc("/scans/verify", s.handleScanVerify).Methods(http.MethodPost)
	v1.HandleFunc("/scans/redeem", s.handleScanRedeem).Methods(http.MethodPost)

	s.router.HandleFunc("/ws/sales/{saleId}", s.handleWebSocket)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
}

// Handler returns the router wrapped in the CORS handler, for main to pass
// to the http.Server it configures (timeouts included) itself.
func (s *Server) Handler() http.Handler {
	allowAll := len(s.corsOrigins) == 1 && s.corsOrigins[0] == "*"
	c := cors.New(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowAllOrigins:  allowAll,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: !allowAll,
	})
	return c.Handler(s.router)
}

// RunHub starts the websocket hub's fan-out loop; callers run this in its
// own goroutine alongside the HTTP server.
func (s *Server) RunHub() { s.hub.Run() }

func muxVar(r *http.Request, name string) string { return mux.Vars(r)[name] }

// ==============================
// Events
// ==============================

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.New(apperrors.ValidationFailed, "body", err))
		return
	}
	e := sale.Event{ID: uuid.New(), OrganizerID: req.OrganizerID, Title: req.Title, Venue: req.Venue, Status: sale.EventDraft}
	if err := s.store.SaveEvent(e); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, eventDTO(e))
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.ListEvents()
	if err != nil {
		respondError(w, err)
		return
	}
	out := make([]EventDTO, len(events))
	for i, e := range events {
		out[i] = eventDTO(e)
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	e, ok, err := s.store.LoadEvent(muxVar(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	if !ok {
		respondError(w, apperrors.Newf(apperrors.NotFound, "event", "event not found"))
		return
	}
	respondJSON(w, http.StatusOK, eventDTO(e))
}

func eventDTO(e sale.Event) EventDTO {
	return EventDTO{ID: e.ID.String(), OrganizerID: e.OrganizerID, Title: e.Title, Venue: e.Venue, Status: string(e.Status)}
}

// ==============================
// Sales
// ==============================

func (s *Server) handleCreateSale(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(muxVar(r, "eventId"))
	if err != nil {
		respondError(w, apperrors.New(apperrors.ValidationFailed, "eventId", err))
		return
	}
	var req CreateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.New(apperrors.ValidationFailed, "body", err))
		return
	}
	price, err := uint256.FromDecimal(req.TicketPriceSompi)
	if err != nil {
		respondError(w, apperrors.New(apperrors.ValidationFailed, "ticketPriceSompi", err))
		return
	}

	// Validate every ticket type up front so a bad or duplicate code fails
	// atomically, before the sale or any ticket type is persisted.
	seenCodes := make(map[string]bool, len(req.TicketTypes))
	ttPrices := make([]*uint256.Int, len(req.TicketTypes))
	for i, tt := range req.TicketTypes {
		if !sale.ValidTicketTypeCode(tt.Code) {
			respondError(w, apperrors.Newf(apperrors.ValidationFailed, "ticketTypes.code", "ticket type code %q must be uppercase [A-Z0-9_]{1,20}", tt.Code))
			return
		}
		if seenCodes[tt.Code] {
			respondError(w, apperrors.Newf(apperrors.DuplicateTicketTypeCode, "", "duplicate ticket type code %q", tt.Code))
			return
		}
		seenCodes[tt.Code] = true

		ttPrice, err := uint256.FromDecimal(tt.PriceSompi)
		if err != nil {
			respondError(w, apperrors.New(apperrors.ValidationFailed, "ticketTypes.priceSompi", err))
			return
		}
		ttPrices[i] = ttPrice
	}

	sl := sale.Sale{
		ID:               uuid.New(),
		EventID:          eventID,
		Network:          req.Network,
		RankingMode:      sale.RankingMode(req.RankingMode),
		TreasuryAddress:  req.TreasuryAddress,
		TicketPriceSompi: price,
		SupplyTotal:      req.SupplyTotal,
		MaxPerAddress:    req.MaxPerAddress,
		PowDifficulty:    req.PowDifficulty,
		FinalityDepth:    req.FinalityDepth,
		FallbackEnabled:  req.FallbackEnabled,
		Status:           sale.StatusScheduled,
	}
	if err := s.store.SaveSale(sl); err != nil {
		respondError(w, err)
		return
	}

	for i, tt := range req.TicketTypes {
		if err := s.store.SaveTicketType(sale.TicketType{
			SaleID: sl.ID, Code: tt.Code, Name: tt.Name, PriceSompi: ttPrices[i], Supply: tt.Supply, SortOrder: tt.SortOrder,
		}); err != nil {
			respondError(w, err)
			return
		}
	}

	respondJSON(w, http.StatusCreated, saleDTO(sl))
}

func saleDTO(sl sale.Sale) SaleDTO {
	return SaleDTO{
		ID:               sl.ID.String(),
		EventID:          sl.EventID.String(),
		Network:          sl.Network,
		RankingMode:      string(sl.RankingMode),
		TreasuryAddress:  sl.TreasuryAddress,
		TicketPriceSompi: sl.TicketPriceSompi.Dec(),
		SupplyTotal:      sl.SupplyTotal,
		PowDifficulty:    sl.PowDifficulty,
		FinalityDepth:    sl.FinalityDepth,
		FallbackEnabled:  sl.FallbackEnabled,
		Status:           string(sl.Status),
		MerkleRoot:       sl.MerkleRootHex(),
		CommitTxid:       sl.CommitTxid,
	}
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	saleID := muxVar(r, "id")
	next, err := s.store.CompareAndSwapSaleStatus(saleID, sale.StatusScheduled, func(cur sale.Sale) (sale.Sale, error) {
		newStatus, err := sale.NextStatus(cur.Status, sale.ActionPublish)
		if err != nil {
			return sale.Sale{}, err
		}
		cur.Status = newStatus
		return cur, nil
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, saleDTO(next))
}

func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	saleID := muxVar(r, "id")
	next, err := s.store.CompareAndSwapSaleStatus(saleID, sale.StatusLive, func(cur sale.Sale) (sale.Sale, error) {
		newStatus, err := sale.NextStatus(cur.Status, sale.ActionFinalize)
		if err != nil {
			return sale.Sale{}, err
		}

		attempts, err := s.store.ListAttemptsBySale(saleID)
		if err != nil {
			return sale.Sale{}, err
		}
		ranked := ranking.FinalRanks(cur, attempts, cur.FinalityDepth)
		for _, a := range ranked {
			if err := s.store.UpdateAttempt(a); err != nil {
				return sale.Sale{}, err
			}
		}

		all, err := s.store.ListAttemptsBySale(saleID)
		if err != nil {
			return sale.Sale{}, err
		}
		var bearingFinal []sale.PurchaseAttempt
		for _, a := range all {
			if a.FinalRank != nil {
				bearingFinal = append(bearingFinal, a)
			}
		}
		frozen := allocation.Freeze(cur, bearingFinal)
		cur.Status = newStatus
		cur.MerkleRoot = frozen.MerkleRoot()
		cur.AllocationFrozen = true
		return cur, nil
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, saleDTO(next))
}

func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	var req CommitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.New(apperrors.ValidationFailed, "body", err))
		return
	}
	saleID := muxVar(r, "id")
	next, err := s.store.CompareAndSwapSaleStatus(saleID, sale.StatusFinalizing, func(cur sale.Sale) (sale.Sale, error) {
		newStatus, err := sale.NextStatus(cur.Status, sale.ActionCommit)
		if err != nil {
			return sale.Sale{}, err
		}
		result, err := allocation.Commit(cur, req.CommitTxid)
		if err != nil {
			return sale.Sale{}, err
		}
		result.Sale.Status = newStatus
		return result.Sale, nil
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, saleDTO(next))
}

func (s *Server) handleCreateTicketType(w http.ResponseWriter, r *http.Request) {
	saleID := muxVar(r, "id")
	var req TicketTypeDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.New(apperrors.ValidationFailed, "body", err))
		return
	}
	price, err := uint256.FromDecimal(req.PriceSompi)
	if err != nil {
		respondError(w, apperrors.New(apperrors.ValidationFailed, "priceSompi", err))
		return
	}
	if !sale.ValidTicketTypeCode(req.Code) {
		respondError(w, apperrors.Newf(apperrors.ValidationFailed, "code", "ticket type code %q must be uppercase [A-Z0-9_]{1,20}", req.Code))
		return
	}

	saleUUID, err := uuid.Parse(saleID)
	if err != nil {
		respondError(w, apperrors.New(apperrors.ValidationFailed, "id", err))
		return
	}

	err = s.store.MutateTicketTypes(saleID, func() error {
		existing, err := s.store.ListTicketTypes(saleID)
		if err != nil {
			return err
		}
		for _, tt := range existing {
			if tt.Code == req.Code {
				return apperrors.Newf(apperrors.DuplicateTicketTypeCode, "", "ticket type %q already exists", req.Code)
			}
		}
		return s.store.SaveTicketType(sale.TicketType{
			SaleID: saleUUID, Code: req.Code, Name: req.Name, PriceSompi: price, Supply: req.Supply, SortOrder: req.SortOrder,
		})
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, req)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	saleID := muxVar(r, "id")
	sl, ok, err := s.store.LoadSale(saleID)
	if err != nil {
		respondError(w, err)
		return
	}
	if !ok {
		respondError(w, apperrors.Newf(apperrors.NotFound, "sale", "sale not found"))
		return
	}
	attempts, err := s.store.ListAttemptsBySale(saleID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats.Compute(sl, attempts, time.Now()))
}

func (s *Server) handleMyStatus(w http.ResponseWriter, r *http.Request) {
	saleID := muxVar(r, "id")
	txid := r.URL.Query().Get("txid")
	sl, ok, err := s.store.LoadSale(saleID)
	if err != nil {
		respondError(w, err)
		return
	}
	if !ok {
		respondError(w, apperrors.Newf(apperrors.NotFound, "sale", "sale not found"))
		return
	}
	attempt, ok, err := s.store.LoadAttempt(saleID, txid)
	if err != nil {
		respondError(w, err)
		return
	}
	if !ok {
		respondError(w, apperrors.Newf(apperrors.NotFound, "attempt", "attempt not found"))
		return
	}
	respondJSON(w, http.StatusOK, stats.ForAttempt(sl, attempt))
}

func (s *Server) frozenSetFor(saleID string, sl sale.Sale) (allocation.FrozenSet, error) {
	attempts, err := s.store.ListAttemptsBySale(saleID)
	if err != nil {
		return allocation.FrozenSet{}, err
	}
	var bearingFinal []sale.PurchaseAttempt
	for _, a := range attempts {
		if a.FinalRank != nil {
			bearingFinal = append(bearingFinal, a)
		}
	}
	return allocation.Freeze(sl, bearingFinal), nil
}

func (s *Server) handleMerkleProof(w http.ResponseWriter, r *http.Request) {
	saleID := muxVar(r, "id")
	txid := r.URL.Query().Get("txid")
	sl, ok, err := s.store.LoadSale(saleID)
	if err != nil || !ok {
		respondError(w, apperrors.Newf(apperrors.NotFound, "sale", "sale not found"))
		return
	}
	frozen, err := s.frozenSetFor(saleID, sl)
	if err != nil {
		respondError(w, err)
		return
	}
	proof, err := allocation.GetMerkleProof(frozen, txid)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, merkleProofDTO(proof))
}

func merkleProofDTO(p allocation.MerkleProof) MerkleProofResponse {
	resp := MerkleProofResponse{Found: p.Found, LeafIndex: p.LeafIndex}
	if p.Leaf != nil {
		resp.Leaf = &LeafDTO{
			FinalRank: p.Leaf.FinalRank, Txid: p.Leaf.Txid,
			AcceptingBlockHash: p.Leaf.AcceptingBlockHash,
			AcceptingBlueScore: p.Leaf.AcceptingBlueScore,
			BuyerAddrHash:      p.Leaf.BuyerAddrHash,
		}
	}
	for _, step := range p.Proof {
		resp.Proof = append(resp.Proof, MerkleStepDTO{Sibling: hexBytes(step.Sibling[:]), Position: string(step.Position)})
	}
	return resp
}

func (s *Server) handleAllocation(w http.ResponseWriter, r *http.Request) {
	saleID := muxVar(r, "id")
	sl, ok, err := s.store.LoadSale(saleID)
	if err != nil || !ok {
		respondError(w, apperrors.Newf(apperrors.NotFound, "sale", "sale not found"))
		return
	}
	frozen, err := s.frozenSetFor(saleID, sl)
	if err != nil {
		respondError(w, err)
		return
	}
	winnerTxids := make([]string, len(frozen.Winners))
	for i, winr := range frozen.Winners {
		winnerTxids[i] = winr.Txid
	}
	resp := AllocationResponse{MerkleRoot: sl.MerkleRootHex(), WinnerTxids: winnerTxids, LosersCount: len(frozen.Losers)}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleIssueTicket(w http.ResponseWriter, r *http.Request) {
	saleID := muxVar(r, "id")
	txid := muxVar(r, "txid")
	sl, ok, err := s.store.LoadSale(saleID)
	if err != nil || !ok {
		respondError(w, apperrors.Newf(apperrors.NotFound, "sale", "sale not found"))
		return
	}
	attempt, ok, err := s.store.LoadAttempt(saleID, txid)
	if err != nil || !ok {
		respondError(w, apperrors.Newf(apperrors.NotFound, "attempt", "attempt not found"))
		return
	}
	if !attempt.IsWinner(sl.SupplyTotal) {
		respondError(w, apperrors.Newf(apperrors.NotAWinner, "", "attempt %s is not a winner", txid))
		return
	}

	artifact := sale.TicketArtifact{ID: uuid.New(), SaleID: sl.ID, OwnerAddress: attempt.BuyerAddress, Status: sale.ArtifactIssued}
	if err := s.store.SaveArtifact(artifact); err != nil {
		respondError(w, err)
		return
	}
	qrString := qr.Encode(qr.Data{TicketID: artifact.ID, SaleID: sl.ID, Txid: txid}, s.ticketSecret)
	respondJSON(w, http.StatusCreated, map[string]string{"ticketId": artifact.ID.String(), "qr": qrString})
}

func (s *Server) handleSyncClaim(w http.ResponseWriter, r *http.Request) {
	saleID := muxVar(r, "id")
	var req SyncClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.New(apperrors.ValidationFailed, "body", err))
		return
	}
	saleUUID, err := uuid.Parse(saleID)
	if err != nil {
		respondError(w, apperrors.New(apperrors.ValidationFailed, "id", err))
		return
	}
	sl, ok, err := s.store.LoadSale(saleID)
	if err != nil || !ok {
		respondError(w, apperrors.Newf(apperrors.NotFound, "sale", "sale not found"))
		return
	}
	frozen, err := s.frozenSetFor(saleID, sl)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := allocation.RequireWinner(frozen, saleUUID, req.KaspaTxid); err != nil {
		respondError(w, err)
		return
	}

	winner, _, err := s.store.LoadAttempt(saleID, req.KaspaTxid)
	if err != nil {
		respondError(w, err)
		return
	}
	claim := sale.Claim{
		SaleID: saleUUID, KaspaTxid: req.KaspaTxid, TypeCode: req.TypeCode,
		ClaimerEvmAddress: common.HexToAddress(req.ClaimerEvmAddress).Hex(), TokenID: req.TokenID,
		BlockNumber: req.BlockNumber, TxHash: req.TxHash,
	}
	if winner.FinalRank != nil {
		claim.FinalRank = *winner.FinalRank
	}
	if err := s.store.SaveClaim(claim); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": "synced"})
}

// ==============================
// Scans
// ==============================

func (s *Server) handleScanVerify(w http.ResponseWriter, r *http.Request) {
	var req ScanVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.New(apperrors.ValidationFailed, "body", err))
		return
	}
	data, err := qr.Decode(req.QR, s.ticketSecret)
	if err != nil {
		respondJSON(w, http.StatusOK, ScanResultResponse{Valid: false, Message: string(apperrors.KindOf(err))})
		return
	}
	respondJSON(w, http.StatusOK, ScanResultResponse{Valid: true, TicketID: data.TicketID.String()})
}

func (s *Server) handleScanRedeem(w http.ResponseWriter, r *http.Request) {
	var req ScanVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.New(apperrors.ValidationFailed, "body", err))
		return
	}
	data, err := qr.Decode(req.QR, s.ticketSecret)
	if err != nil {
		respondJSON(w, http.StatusOK, ScanResultResponse{Valid: false, Message: string(apperrors.KindOf(err))})
		return
	}
	already, err := s.store.RedeemArtifact(data.TicketID.String())
	if err != nil {
		respondJSON(w, http.StatusOK, ScanResultResponse{Valid: false, Message: string(apperrors.KindOf(err))})
		return
	}
	respondJSON(w, http.StatusOK, ScanResultResponse{Valid: true, AlreadyRedeemed: already, TicketID: data.TicketID.String()})
}

// ==============================
// WebSocket push handlers
// ==============================

func (s *Server) handleWSGetStats(c *Client) {
	sl, ok, err := s.store.LoadSale(c.saleID)
	if err != nil || !ok {
		c.sendJSON(WSServerMessage{Type: "error", Message: "Sale not found"})
		return
	}
	attempts, err := s.store.ListAttemptsBySale(c.saleID)
	if err != nil {
		c.sendJSON(WSServerMessage{Type: "error", Message: "Internal error"})
		return
	}
	c.sendJSON(WSServerMessage{Type: "stats", Data: stats.Compute(sl, attempts, time.Now())})
}

func (s *Server) handleWSGetMyStatus(c *Client, txid string) {
	sl, ok, err := s.store.LoadSale(c.saleID)
	if err != nil || !ok {
		c.sendJSON(WSServerMessage{Type: "error", Message: "Sale not found"})
		return
	}
	attempt, ok, err := s.store.LoadAttempt(c.saleID, txid)
	if err != nil || !ok {
		c.sendJSON(WSServerMessage{Type: "error", Message: "Attempt not found"})
		return
	}
	c.sendJSON(WSServerMessage{Type: "my_status", Data: stats.ForAttempt(sl, attempt)})
}

// BroadcastStats is called by the stats broadcaster loop once per tick.
func (s *Server) BroadcastStats(saleID string, snap stats.Snapshot) {
	s.hub.BroadcastStats(saleID, snap)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ==============================
// Response helpers
// ==============================

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError maps an apperrors.Kind to the HTTP status table of §7.
func respondError(w http.ResponseWriter, err error) {
	kind := apperrors.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case apperrors.ValidationFailed, apperrors.InvalidStateTransition, apperrors.InvalidStateForTicketTypeMutation,
		apperrors.InvalidPayload, apperrors.InvalidQR, apperrors.DuplicateTicketTypeCode:
		status = http.StatusBadRequest
	case apperrors.NotFound, apperrors.WinnerNotFound:
		status = http.StatusNotFound
	case apperrors.Conflict:
		status = http.StatusConflict
	}
	respondJSON(w, status, ErrorResponse{Error: string(kind), Message: err.Error()})
}

func hexBytes(b []byte) string {
	return hex.EncodeToString(b)
}


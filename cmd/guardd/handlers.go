package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tokenguard/internal/domain"
	"tokenguard/internal/guard"
	"tokenguard/internal/observability"
)

// routes builds the HTTP mux for the guard service.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/transfer", s.handleTransfer)

	mux.HandleFunc("POST /v1/admin/enable-trading", s.adminHandler("enable_trading", func(ctx context.Context, r adminRequest) error {
		return s.engine.EnableTrading(ctx, r.Caller)
	}))
	mux.HandleFunc("POST /v1/admin/phase", s.adminHandler("set_trading_phase", func(ctx context.Context, r adminRequest) error {
		return s.engine.SetTradingPhase(ctx, r.Caller, r.Phase)
	}))
	mux.HandleFunc("POST /v1/admin/limits", s.adminHandler("update_limits", func(ctx context.Context, r adminRequest) error {
		return s.engine.UpdateLimits(ctx, r.Caller, r.MaxTransactionAmount, r.MaxWalletAmount)
	}))
	mux.HandleFunc("POST /v1/admin/cooldown", s.adminHandler("update_cooldown", func(ctx context.Context, r adminRequest) error {
		return s.engine.UpdateCooldown(ctx, r.Caller, r.CooldownSeconds)
	}))
	mux.HandleFunc("POST /v1/admin/exclude", s.adminHandler("exclude_from_limits", func(ctx context.Context, r adminRequest) error {
		return s.engine.ExcludeFromLimits(ctx, r.Caller, r.Address, r.Flag)
	}))
	mux.HandleFunc("POST /v1/admin/blacklist", s.adminHandler("blacklist_address", func(ctx context.Context, r adminRequest) error {
		return s.engine.BlacklistAddress(ctx, r.Caller, r.Address, r.Flag)
	}))
	mux.HandleFunc("POST /v1/admin/blacklist-batch", s.adminHandler("blacklist_batch", func(ctx context.Context, r adminRequest) error {
		return s.engine.BlacklistBatch(ctx, r.Caller, r.Addresses, r.Flag)
	}))
	mux.HandleFunc("POST /v1/admin/mark-bot", s.adminHandler("mark_as_bot", func(ctx context.Context, r adminRequest) error {
		return s.engine.MarkAsBot(ctx, r.Caller, r.Address)
	}))
	mux.HandleFunc("POST /v1/admin/pause", s.adminHandler("pause", func(ctx context.Context, r adminRequest) error {
		return s.engine.Pause(ctx, r.Caller)
	}))
	mux.HandleFunc("POST /v1/admin/unpause", s.adminHandler("unpause", func(ctx context.Context, r adminRequest) error {
		return s.engine.Unpause(ctx, r.Caller)
	}))
	mux.HandleFunc("POST /v1/admin/emergency-pause", s.adminHandler("emergency_pause", func(ctx context.Context, r adminRequest) error {
		return s.engine.EmergencyPause(ctx, r.Caller)
	}))
	mux.HandleFunc("POST /v1/admin/emergency-withdraw", s.adminHandler("emergency_withdraw", func(ctx context.Context, r adminRequest) error {
		return s.engine.EmergencyWithdraw(ctx, r.Caller, r.Asset, r.Amount)
	}))
	mux.HandleFunc("POST /v1/admin/transfer-ownership", s.adminHandler("initiate_ownership_transfer", func(ctx context.Context, r adminRequest) error {
		return s.engine.InitiateOwnershipTransfer(ctx, r.Caller, r.Address)
	}))
	mux.HandleFunc("POST /v1/admin/accept-ownership", s.adminHandler("accept_ownership", func(ctx context.Context, r adminRequest) error {
		return s.engine.AcceptOwnership(ctx, r.Caller)
	}))
	mux.HandleFunc("POST /v1/admin/renounce-ownership", s.adminHandler("renounce_ownership", func(ctx context.Context, r adminRequest) error {
		return s.engine.RenounceOwnership(ctx, r.Caller)
	}))

	mux.HandleFunc("GET /v1/token", s.handleTokenInfo)
	mux.HandleFunc("GET /v1/cooldown/{addr}", s.handleCooldown)
	mux.HandleFunc("GET /v1/launch", s.handleLaunch)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", observability.Handler())
	mux.Handle("GET /ws", s.hub)

	return mux
}

type transferRequest struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
}

// adminRequest is the shared body for admin endpoints; each handler reads
// the fields relevant to its operation.
type adminRequest struct {
	Caller               domain.Address   `json:"caller"`
	Address              domain.Address   `json:"address,omitempty"`
	Addresses            []domain.Address `json:"addresses,omitempty"`
	Flag                 bool             `json:"flag,omitempty"`
	Phase                domain.Phase     `json:"phase,omitempty"`
	MaxTransactionAmount uint64           `json:"max_transaction_amount,omitempty"`
	MaxWalletAmount      uint64           `json:"max_wallet_amount,omitempty"`
	CooldownSeconds      int64            `json:"cooldown_seconds,omitempty"`
	Asset                domain.Address   `json:"asset,omitempty"`
	Amount               uint64           `json:"amount,omitempty"`
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sender, err := domain.ParseAddress(trimAddr(req.Sender))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	recipient, err := domain.ParseAddress(trimAddr(req.Recipient))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	err = s.engine.Transfer(r.Context(), sender, recipient, req.Amount)
	s.metrics.EvaluationDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		writeGuardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "transferred"})
}

// adminHandler wraps an engine call with request decoding, error mapping
// and per-operation metrics.
func (s *Server) adminHandler(op string, fn func(context.Context, adminRequest) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if req.Caller == "" {
			writeError(w, http.StatusBadRequest, errors.New("caller is required"))
			return
		}

		if err := fn(r.Context(), req); err != nil {
			s.metrics.AdminOpErrors.WithLabelValues(op).Inc()
			writeGuardError(w, err)
			return
		}
		s.metrics.AdminOps.WithLabelValues(op).Inc()
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) handleTokenInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.TokenInfo())
}

func (s *Server) handleCooldown(w http.ResponseWriter, r *http.Request) {
	addr, err := domain.ParseAddress(trimAddr(r.PathValue("addr")))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{
		"remaining_seconds": s.engine.RemainingCooldown(addr),
	})
}

func (s *Server) handleLaunch(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int64{
		"seconds_until_trading": s.engine.TimeUntilTradingEnabled(),
	})
}

// writeGuardError maps engine rejections to HTTP statuses: role
// violations to 403, everything else the guard rejects to 422.
func writeGuardError(w http.ResponseWriter, err error) {
	status := http.StatusUnprocessableEntity
	switch {
	case errors.Is(err, guard.ErrNotOwner),
		errors.Is(err, guard.ErrNotPendingOwner),
		errors.Is(err, guard.ErrBlacklistOwner),
		errors.Is(err, guard.ErrRenounceDisabled):
		status = http.StatusForbidden
	}

	body := map[string]string{"error": err.Error()}
	if reason := guard.ReasonOf(err); reason != domain.ReasonNone {
		body["reason"] = string(reason)
	}
	writeJSON(w, status, body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

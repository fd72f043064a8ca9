// Package guard implements the transfer-admission engine: the ordered
// rule evaluation gating every balance-changing transfer, the privileged
// configuration surface, the blocklist and bot subsystem, the pause and
// emergency paths, and the two-phase ownership handover.
package guard

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"tokenguard/internal/domain"
	"tokenguard/internal/ledger"
	"tokenguard/internal/storage"
)

// Timing constants.
const (
	// TradingActivationDelay is the minimum time between construction and
	// the earliest successful EnableTrading call.
	TradingActivationDelay = 7 * 24 * time.Hour

	// DefaultCooldownSeconds is the initial per-sender transfer cooldown.
	DefaultCooldownSeconds int64 = 300

	// MaxCooldownSeconds is the ceiling UpdateCooldown enforces.
	MaxCooldownSeconds int64 = 3600
)

// Limit floors and defaults, expressed as supply divisors.
const (
	minTxDivisor      = 1000 // floor: 0.1% of supply
	minWalletDivisor  = 200  // floor: 0.5% of supply
	defaultTxDivisor  = 100  // default: 1% of supply
	defaultWalletDiv  = 50   // default: 2% of supply
)

// Config assembles an Engine. Owner and Ledger are required; everything
// else has a working default.
type Config struct {
	Name   string
	Symbol string
	Owner  domain.Address

	Ledger   ledger.Ledger
	Holdings *ledger.Holdings

	// Clock supplies the current time for admin operations. Defaults to
	// time.Now. Evaluate and Transfer take their instants explicitly.
	Clock func() time.Time

	Logger *log.Logger

	// Store, when set, receives a state snapshot after every mutation and
	// provides the snapshot restored at boot. Persistence is best-effort:
	// a failed save is logged, never surfaced to the caller.
	Store storage.StateStore

	// OnNotification receives every guard notification, exactly once per
	// successful state-changing call.
	OnNotification func(domain.Notification)

	// OnDecision receives the audit record of every admission evaluation.
	OnDecision func(domain.Decision)
}

// Engine is the transfer guard. All mutable state sits behind a single
// mutex so that every evaluation observes a consistent snapshot and every
// mutation is atomic: reject before any write, or write and succeed.
type Engine struct {
	mu sync.Mutex

	name   string
	symbol string

	owner         domain.Address
	pendingOwners map[domain.Address]struct{}

	tradingEnabled bool
	phase          domain.Phase
	paused         bool

	limitsEnabled bool
	maxTx         uint64
	maxWallet     uint64
	cooldownSecs  int64

	operationsStart time.Time

	excluded  map[domain.Address]struct{}
	blocklist map[domain.Address]struct{}
	bots      map[domain.Address]struct{}

	lastTransferAt map[domain.Address]int64 // Unix seconds

	ledger   ledger.Ledger
	holdings *ledger.Holdings

	clock    func() time.Time
	logger   *log.Logger
	store    storage.StateStore
	onNotify func(domain.Notification)
	onDecide func(domain.Decision)
}

// New constructs an Engine with trading disabled, limits enabled, the
// owner excluded from limits and the launch clock started now.
func New(cfg Config) (*Engine, error) {
	if cfg.Owner == "" {
		return nil, fmt.Errorf("guard: owner address is required")
	}
	if cfg.Ledger == nil {
		return nil, fmt.Errorf("guard: ledger is required")
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Holdings == nil {
		cfg.Holdings = ledger.NewHoldings()
	}

	supply := cfg.Ledger.TotalSupply()

	e := &Engine{
		name:            cfg.Name,
		symbol:          cfg.Symbol,
		owner:           cfg.Owner,
		pendingOwners:   make(map[domain.Address]struct{}),
		phase:           domain.PhaseDisabled,
		limitsEnabled:   true,
		maxTx:           supply / defaultTxDivisor,
		maxWallet:       supply / defaultWalletDiv,
		cooldownSecs:    DefaultCooldownSeconds,
		operationsStart: cfg.Clock(),
		excluded:        map[domain.Address]struct{}{cfg.Owner: {}},
		blocklist:       make(map[domain.Address]struct{}),
		bots:            make(map[domain.Address]struct{}),
		lastTransferAt:  make(map[domain.Address]int64),
		ledger:          cfg.Ledger,
		holdings:        cfg.Holdings,
		clock:           cfg.Clock,
		logger:          cfg.Logger,
		store:           cfg.Store,
		onNotify:        cfg.OnNotification,
		onDecide:        cfg.OnDecision,
	}
	return e, nil
}

// Evaluate runs the admission checks for a prospective transfer without
// committing anything. A nil return means the transfer is admissible at
// the given instant. The evaluation is recorded to the decision sink.
func (e *Engine) Evaluate(sender, recipient domain.Address, amount uint64, now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.evaluateLocked(sender, recipient, amount, now)
	e.recordDecisionLocked(sender, recipient, amount, now, err)
	return err
}

// Transfer admits and commits a transfer: evaluation, ledger mutation and
// the sender's cooldown stamp happen atomically under the engine lock.
// On rejection no state changes.
func (e *Engine) Transfer(ctx context.Context, sender, recipient domain.Address, amount uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	if err := e.evaluateLocked(sender, recipient, amount, now); err != nil {
		e.recordDecisionLocked(sender, recipient, amount, now, err)
		return err
	}

	if err := e.ledger.Transfer(sender, recipient, amount); err != nil {
		// Ledger overdrafts are not admission outcomes; no decision record.
		return fmt.Errorf("ledger transfer: %w", err)
	}

	// Cooldown is never enforced against excluded senders, so their clock
	// is not stamped either.
	if _, ok := e.excluded[sender]; !ok {
		e.lastTransferAt[sender] = now.Unix()
	}

	e.recordDecisionLocked(sender, recipient, amount, now, nil)
	e.persistLocked(ctx)
	return nil
}

// evaluateLocked runs the admission checks in their fixed order. Distinct
// checks surface distinct sentinels that callers branch on; reordering
// changes observable behavior.
func (e *Engine) evaluateLocked(sender, recipient domain.Address, amount uint64, now time.Time) error {
	// 1. Kill-switch. Applies to everyone, exclusion and role included.
	if e.paused {
		return ErrPaused
	}

	// 2. Blocklist on either side.
	if _, ok := e.blocklist[sender]; ok {
		return ErrBlacklisted
	}
	if _, ok := e.blocklist[recipient]; ok {
		return ErrBlacklisted
	}

	_, senderExcluded := e.excluded[sender]
	_, recipientExcluded := e.excluded[recipient]
	exempt := senderExcluded || recipientExcluded

	// 3. Trading gate. Excluded parties bypass it, which is what lets the
	// owner seed balances before launch.
	if !exempt && !e.tradingEnabled {
		return ErrTradingNotEnabled
	}

	// 4. Limits and cooldown.
	if e.limitsEnabled && !exempt {
		switch e.phase {
		case domain.PhaseRestricted:
			if amount > e.phase.TxCeiling(e.maxTx) {
				return ErrRestrictedPhaseAmount
			}
		case domain.PhaseNormal:
			if amount > e.phase.TxCeiling(e.maxTx) {
				return ErrExceedsMaxTransaction
			}
		}

		// Compare without summing so a huge amount cannot wrap uint64.
		bal := e.ledger.BalanceOf(recipient)
		if amount > e.maxWallet || bal > e.maxWallet-amount {
			return ErrExceedsMaxWallet
		}

		if last, ok := e.lastTransferAt[sender]; ok {
			if now.Unix()-last < e.cooldownSecs {
				return ErrCooldownActive
			}
		}
	}

	return nil
}

func (e *Engine) recordDecisionLocked(sender, recipient domain.Address, amount uint64, now time.Time, err error) {
	if e.onDecide == nil {
		return
	}
	e.onDecide(domain.Decision{
		Sender:      sender,
		Recipient:   recipient,
		Amount:      amount,
		Allowed:     err == nil,
		Reason:      ReasonOf(err),
		EvaluatedAt: now.Unix(),
	})
}

func (e *Engine) notifyLocked(n domain.Notification) {
	if e.onNotify == nil {
		return
	}
	if n.At == 0 {
		n.At = e.clock().Unix()
	}
	e.onNotify(n)
}

func (e *Engine) persistLocked(ctx context.Context) {
	if e.store == nil {
		return
	}
	if err := e.store.Save(ctx, e.snapshotLocked()); err != nil {
		e.logger.Printf("guard: save state snapshot: %v", err)
	}
}

func (e *Engine) requireOwnerLocked(caller domain.Address) error {
	if caller != e.owner {
		return ErrNotOwner
	}
	return nil
}

func (e *Engine) minMaxTx() uint64 {
	return e.ledger.TotalSupply() / minTxDivisor
}

func (e *Engine) minMaxWallet() uint64 {
	return e.ledger.TotalSupply() / minWalletDivisor
}

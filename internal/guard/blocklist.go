package guard

import (
	"context"

	"tokenguard/internal/domain"
)

// BlacklistAddress toggles blocklist membership for a single address.
// The current owner can never be blocklisted, and a bot-flagged address
// can never be removed: bot marking is one-way and every bot must stay
// blocklisted.
func (e *Engine) BlacklistAddress(ctx context.Context, caller, addr domain.Address, flag bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOwnerLocked(caller); err != nil {
		return err
	}
	if err := e.setBlacklistLocked(addr, flag); err != nil {
		return err
	}

	e.notifyLocked(domain.Notification{Kind: domain.NotifAddressBlacklisted, Address: addr, Flag: flag})
	e.persistLocked(ctx)
	return nil
}

// BlacklistBatch applies the same toggle to every address. The batch is
// all-or-nothing: if any target would be rejected, nothing mutates.
func (e *Engine) BlacklistBatch(ctx context.Context, caller domain.Address, addrs []domain.Address, flag bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOwnerLocked(caller); err != nil {
		return err
	}

	// Validate the whole batch before touching any entry.
	for _, addr := range addrs {
		if addr == e.owner {
			return ErrBlacklistOwner
		}
		if _, bot := e.bots[addr]; bot && !flag {
			return ErrBotUnblacklist
		}
	}

	for _, addr := range addrs {
		if flag {
			e.blocklist[addr] = struct{}{}
		} else {
			delete(e.blocklist, addr)
		}
		e.notifyLocked(domain.Notification{Kind: domain.NotifAddressBlacklisted, Address: addr, Flag: flag})
	}

	e.persistLocked(ctx)
	return nil
}

// MarkAsBot flags an address as an automated abuser. The flag is one-way:
// there is no unmark operation. Marking inserts into the bot set and the
// blocklist in the same step so the two sets cannot drift apart.
func (e *Engine) MarkAsBot(ctx context.Context, caller, addr domain.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOwnerLocked(caller); err != nil {
		return err
	}
	if addr == e.owner {
		return ErrBlacklistOwner
	}

	e.bots[addr] = struct{}{}
	e.blocklist[addr] = struct{}{}

	e.notifyLocked(domain.Notification{Kind: domain.NotifBotDetected, Address: addr})
	e.notifyLocked(domain.Notification{Kind: domain.NotifAddressBlacklisted, Address: addr, Flag: true})
	e.persistLocked(ctx)
	return nil
}

func (e *Engine) setBlacklistLocked(addr domain.Address, flag bool) error {
	if addr == e.owner {
		return ErrBlacklistOwner
	}
	if flag {
		e.blocklist[addr] = struct{}{}
		return nil
	}
	if _, bot := e.bots[addr]; bot {
		return ErrBotUnblacklist
	}
	delete(e.blocklist, addr)
	return nil
}

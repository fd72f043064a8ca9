package guard

import (
	"context"

	"tokenguard/internal/domain"
)

// InitiateOwnershipTransfer nominates a successor for the privileged role.
// The current holder keeps full privileges until the nominee accepts, and
// the number of simultaneously pending nominees is not limited.
func (e *Engine) InitiateOwnershipTransfer(ctx context.Context, caller, nominee domain.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOwnerLocked(caller); err != nil {
		return err
	}

	e.pendingOwners[nominee] = struct{}{}

	e.notifyLocked(domain.Notification{Kind: domain.NotifOwnershipTransferStarted, Address: nominee})
	e.persistLocked(ctx)
	return nil
}

// AcceptOwnership completes the handover. The caller must be a pending
// nominee; on success the caller becomes the privileged role and every
// pending nomination is cleared, so no stale nominee can later seize the
// role from the new holder. The new holder is excised from the blocklist
// and the bot set to keep the role clear of both.
func (e *Engine) AcceptOwnership(ctx context.Context, caller domain.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.pendingOwners[caller]; !ok {
		return ErrNotPendingOwner
	}

	e.owner = caller
	e.pendingOwners = make(map[domain.Address]struct{})
	delete(e.blocklist, caller)
	delete(e.bots, caller)

	e.notifyLocked(domain.Notification{Kind: domain.NotifOwnershipTransferred, Address: caller})
	e.persistLocked(ctx)
	return nil
}

// RenounceOwnership always rejects. Leaving the asset ownerless would
// strand every privileged operation, so the capability is removed
// outright rather than gated.
func (e *Engine) RenounceOwnership(_ context.Context, _ domain.Address) error {
	return ErrRenounceDisabled
}

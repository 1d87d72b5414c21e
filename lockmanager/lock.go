// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package lockmanager

import (
	"github.com/holiman/uint256"
	"github.com/luxfi/log"

	"github.com/luxfi/locker/external/escrow"
	"github.com/luxfi/locker/ledger"

	safemath "github.com/luxfi/locker/utils/math"
)

// InitialLock locks the manager's entire governance balance for the maximum
// duration. An expired lock is withdrawn first. Depositor only.
func (l *LockManager) InitialLock(ctx *ledger.Context) error {
	if err := l.onlyDepositor(ctx); err != nil {
		return err
	}
	self := ctx.As(l.address)

	lock, err := l.escrow.Locked(ctx, l.address)
	if err != nil {
		return err
	}
	if !lock.Amount.IsZero() {
		if lock.End > ctx.Time() {
			return ErrLockActive
		}
		if _, err := l.escrow.Withdraw(self); err != nil {
			return err
		}
	}

	balance, err := l.token.BalanceOf(ctx, l.address)
	if err != nil {
		return err
	}
	if balance.IsZero() {
		return ErrNothingToLock
	}
	unlockTime, err := l.maxUnlockTime(ctx)
	if err != nil {
		return err
	}
	ctx.Log().Info("creating escrow lock",
		log.Stringer("amount", balance),
		log.Uint64("unlockTime", unlockTime),
	)
	if err := l.token.Approve(self, l.escrow.Address(), balance); err != nil {
		return err
	}
	return l.escrow.CreateLock(self, balance, unlockTime)
}

// DepositAndRelock adds amount of the manager's unlocked balance to the lock
// and extends the lock end to the maximum. The lock end never decreases.
// Depositor only.
func (l *LockManager) DepositAndRelock(ctx *ledger.Context, amount *uint256.Int) error {
	if err := l.IncreaseAmount(ctx, amount); err != nil {
		return err
	}
	unlockTime, err := l.maxUnlockTime(ctx)
	if err != nil {
		return err
	}
	return l.IncreaseTime(ctx, unlockTime)
}

func (l *LockManager) maxUnlockTime(ctx *ledger.Context) (uint64, error) {
	return safemath.Add(ctx.Time(), l.escrow.MaxTime())
}

// IncreaseAmount adds amount to the lock without touching its end.
// Depositor only.
func (l *LockManager) IncreaseAmount(ctx *ledger.Context, amount *uint256.Int) error {
	if err := l.onlyDepositor(ctx); err != nil {
		return err
	}
	return l.increaseAmount(ctx, amount)
}

// IncreaseTime extends the lock to unlockTime. A time that would not extend
// the lock is a no-op. Depositor only.
func (l *LockManager) IncreaseTime(ctx *ledger.Context, unlockTime uint64) error {
	if err := l.onlyDepositor(ctx); err != nil {
		return err
	}
	return l.extend(ctx, unlockTime)
}

func (l *LockManager) activeLock(ctx *ledger.Context) (escrow.LockedBalance, error) {
	lock, err := l.escrow.Locked(ctx, l.address)
	if err != nil {
		return escrow.LockedBalance{}, err
	}
	if lock.Amount.IsZero() || lock.End <= ctx.Time() {
		return escrow.LockedBalance{}, ErrNoActiveLock
	}
	return lock, nil
}

func (l *LockManager) increaseAmount(ctx *ledger.Context, amount *uint256.Int) error {
	if _, err := l.activeLock(ctx); err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}
	self := ctx.As(l.address)
	if err := l.token.Approve(self, l.escrow.Address(), amount); err != nil {
		return err
	}
	return l.escrow.IncreaseAmount(self, amount)
}

func (l *LockManager) extend(ctx *ledger.Context, unlockTime uint64) error {
	lock, err := l.activeLock(ctx)
	if err != nil {
		return err
	}
	target := escrow.RoundToWeek(unlockTime)
	if target <= lock.End {
		return nil
	}
	ctx.Log().Debug("extending escrow lock",
		log.Uint64("from", lock.End),
		log.Uint64("to", target),
	)
	return l.escrow.IncreaseUnlockTime(ctx.As(l.address), target)
}

// Release withdraws an expired lock back to the manager. Depositor or
// operator.
func (l *LockManager) Release(ctx *ledger.Context) (*uint256.Int, error) {
	if err := l.onlyDepositor(ctx); err != nil {
		if err := l.onlyOperator(ctx); err != nil {
			return nil, err
		}
	}
	return l.escrow.Withdraw(ctx.As(l.address))
}

// Checkpoint brings the escrow's global voting power up to date. Anyone may
// call it.
func (l *LockManager) Checkpoint(ctx *ledger.Context) error {
	return l.escrow.Checkpoint(ctx.As(l.address))
}

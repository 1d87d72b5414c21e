// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package escrow implements a vote-escrow ledger: governance tokens locked
// until a week-aligned end time, with voting power decaying linearly to
// zero at the end of the lock.
package escrow

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/locker/ledger"
	"github.com/luxfi/locker/ownership"
	"github.com/luxfi/locker/token"
	"github.com/luxfi/locker/utils/units"

	safemath "github.com/luxfi/locker/utils/math"
)

var (
	lockedPrefix      = []byte("locked")
	supplyKey         = []byte("supply")
	checkerKey        = []byte("checker")
	emergencyKey      = []byte("emergency")
	lastCheckpointKey = []byte("checkpoint")

	ErrZeroAmount       = fmt.Errorf("%w: zero amount", ledger.ErrInvalidParameter)
	ErrLockExists       = fmt.Errorf("%w: withdraw old tokens first", ledger.ErrInvalidState)
	ErrNoLock           = fmt.Errorf("%w: no existing lock found", ledger.ErrInvalidState)
	ErrLockExpired      = fmt.Errorf("%w: lock expired, withdraw", ledger.ErrInvalidState)
	ErrLockNotExpired   = fmt.Errorf("%w: the lock didn't expire", ledger.ErrInvalidState)
	ErrUnlockInPast     = fmt.Errorf("%w: can only lock until a time in the future", ledger.ErrInvalidParameter)
	ErrUnlockTooLate    = fmt.Errorf("%w: lock exceeds the maximum duration", ledger.ErrInvalidParameter)
	ErrUnlockNotGreater = fmt.Errorf("%w: can only increase lock duration", ledger.ErrInvalidState)
	ErrWalletNotAllowed = fmt.Errorf("%w: smart contract depositors not allowed", ledger.ErrUnauthorized)
)

// LockedBalance is a single account's lock.
type LockedBalance struct {
	Amount uint256.Int `serialize:"true"`
	End    uint64      `serialize:"true"`
}

// WalletChecker gates which contracts may lock.
type WalletChecker interface {
	Check(ctx *ledger.Context, wallet ids.ShortID) (bool, error)
}

type VotingEscrow struct {
	ownership.Ownable

	address ids.ShortID
	token   token.ERC20
	maxTime uint64
}

func New(address ids.ShortID, lockToken token.ERC20, maxTime uint64) *VotingEscrow {
	return &VotingEscrow{
		Ownable: ownership.NewOwnable(address),
		address: address,
		token:   lockToken,
		maxTime: maxTime,
	}
}

func (e *VotingEscrow) Address() ids.ShortID {
	return e.address
}

// Token is the address of the token this escrow locks.
func (e *VotingEscrow) Token() ids.ShortID {
	return e.token.Address()
}

// MaxTime is the longest lock, in seconds.
func (e *VotingEscrow) MaxTime() uint64 {
	return e.maxTime
}

// RoundToWeek rounds a timestamp down to the start of its week.
func RoundToWeek(t uint64) uint64 {
	return t / units.Week * units.Week
}

func (e *VotingEscrow) Locked(ctx *ledger.Context, account ids.ShortID) (LockedBalance, error) {
	var lock LockedBalance
	_, err := ctx.Store(e.address).Get(ledger.Key(lockedPrefix, account[:]), &lock)
	return lock, err
}

func (e *VotingEscrow) putLocked(ctx *ledger.Context, account ids.ShortID, lock LockedBalance) error {
	return ctx.Store(e.address).Put(ledger.Key(lockedPrefix, account[:]), &lock)
}

// TotalLocked is the sum of every lock's amount.
func (e *VotingEscrow) TotalLocked(ctx *ledger.Context) (*uint256.Int, error) {
	return ctx.Store(e.address).Uint256(supplyKey)
}

// BalanceOf is the current voting power of account.
func (e *VotingEscrow) BalanceOf(ctx *ledger.Context, account ids.ShortID) (*uint256.Int, error) {
	lock, err := e.Locked(ctx, account)
	if err != nil {
		return nil, err
	}
	now := ctx.Time()
	if lock.End <= now {
		return new(uint256.Int), nil
	}
	return safemath.MulDiv(&lock.Amount, uint256.NewInt(lock.End-now), uint256.NewInt(e.maxTime))
}

func (e *VotingEscrow) EmergencyUnlocked(ctx *ledger.Context) (bool, error) {
	return ctx.Store(e.address).Bool(emergencyKey)
}

// ToggleEmergencyUnlock lets every lock be withdrawn regardless of its end.
// Admin only.
func (e *VotingEscrow) ToggleEmergencyUnlock(ctx *ledger.Context) error {
	if err := e.OnlyOwner(ctx); err != nil {
		return err
	}
	unlocked, err := e.EmergencyUnlocked(ctx)
	if err != nil {
		return err
	}
	ctx.Log().Warn("escrow emergency unlock toggled",
		log.Stringer("escrow", e.address),
		log.Bool("unlocked", !unlocked),
	)
	return ctx.Store(e.address).PutBool(emergencyKey, !unlocked)
}

// SetWalletChecker installs the contract consulted for contract depositors.
// Admin only.
func (e *VotingEscrow) SetWalletChecker(ctx *ledger.Context, checker ids.ShortID) error {
	if err := e.OnlyOwner(ctx); err != nil {
		return err
	}
	return ctx.Store(e.address).PutAddress(checkerKey, checker)
}

// assertNotContract lets accounts through and requires contracts to be
// approved by the wallet checker.
func (e *VotingEscrow) assertNotContract(ctx *ledger.Context) error {
	caller := ctx.Caller()
	if !ctx.IsContract(caller) {
		return nil
	}
	checkerAddr, err := ctx.Store(e.address).Address(checkerKey)
	if err != nil {
		return err
	}
	if checkerAddr == ids.ShortEmpty {
		return ErrWalletNotAllowed
	}
	checker, err := ledger.Resolve[WalletChecker](ctx, checkerAddr)
	if err != nil {
		return err
	}
	ok, err := checker.Check(ctx.As(e.address), caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrWalletNotAllowed
	}
	return nil
}

func (e *VotingEscrow) checkUnlockTime(ctx *ledger.Context, unlockTime uint64) (uint64, error) {
	rounded := RoundToWeek(unlockTime)
	now := ctx.Time()
	if rounded <= now {
		return 0, ErrUnlockInPast
	}
	if rounded > now+e.maxTime {
		return 0, ErrUnlockTooLate
	}
	return rounded, nil
}

// CreateLock locks amount of the caller's tokens until unlockTime, rounded
// down to a week.
func (e *VotingEscrow) CreateLock(ctx *ledger.Context, amount *uint256.Int, unlockTime uint64) error {
	if err := e.assertNotContract(ctx); err != nil {
		return err
	}
	if amount.IsZero() {
		return ErrZeroAmount
	}
	caller := ctx.Caller()
	lock, err := e.Locked(ctx, caller)
	if err != nil {
		return err
	}
	if !lock.Amount.IsZero() {
		return ErrLockExists
	}
	end, err := e.checkUnlockTime(ctx, unlockTime)
	if err != nil {
		return err
	}
	return e.depositFor(ctx, caller, caller, amount, end, lock)
}

// IncreaseAmount adds amount of the caller's tokens to its active lock.
func (e *VotingEscrow) IncreaseAmount(ctx *ledger.Context, amount *uint256.Int) error {
	if err := e.assertNotContract(ctx); err != nil {
		return err
	}
	caller := ctx.Caller()
	lock, err := e.activeLock(ctx, caller, amount)
	if err != nil {
		return err
	}
	return e.depositFor(ctx, caller, caller, amount, 0, lock)
}

// DepositFor adds amount of the caller's tokens to account's active lock.
func (e *VotingEscrow) DepositFor(ctx *ledger.Context, account ids.ShortID, amount *uint256.Int) error {
	lock, err := e.activeLock(ctx, account, amount)
	if err != nil {
		return err
	}
	return e.depositFor(ctx, ctx.Caller(), account, amount, 0, lock)
}

func (e *VotingEscrow) activeLock(ctx *ledger.Context, account ids.ShortID, amount *uint256.Int) (LockedBalance, error) {
	if amount.IsZero() {
		return LockedBalance{}, ErrZeroAmount
	}
	lock, err := e.Locked(ctx, account)
	if err != nil {
		return LockedBalance{}, err
	}
	if lock.Amount.IsZero() {
		return LockedBalance{}, ErrNoLock
	}
	if lock.End <= ctx.Time() {
		return LockedBalance{}, ErrLockExpired
	}
	return lock, nil
}

// IncreaseUnlockTime extends the caller's active lock. It never shortens it.
func (e *VotingEscrow) IncreaseUnlockTime(ctx *ledger.Context, unlockTime uint64) error {
	if err := e.assertNotContract(ctx); err != nil {
		return err
	}
	caller := ctx.Caller()
	lock, err := e.Locked(ctx, caller)
	if err != nil {
		return err
	}
	if lock.Amount.IsZero() {
		return ErrNoLock
	}
	if lock.End <= ctx.Time() {
		return ErrLockExpired
	}
	end, err := e.checkUnlockTime(ctx, unlockTime)
	if err != nil {
		return err
	}
	if end <= lock.End {
		return ErrUnlockNotGreater
	}
	lock.End = end
	ctx.Log().Debug("escrow lock extended",
		log.Stringer("account", caller),
		log.Uint64("end", end),
	)
	return e.putLocked(ctx, caller, lock)
}

func (e *VotingEscrow) depositFor(
	ctx *ledger.Context,
	payer ids.ShortID,
	account ids.ShortID,
	amount *uint256.Int,
	end uint64,
	lock LockedBalance,
) error {
	total, err := safemath.Add256(&lock.Amount, amount)
	if err != nil {
		return err
	}
	lock.Amount = *total
	if end != 0 {
		lock.End = end
	}
	if err := e.putLocked(ctx, account, lock); err != nil {
		return err
	}
	if err := e.addSupply(ctx, amount, true); err != nil {
		return err
	}
	ctx.Log().Debug("escrow deposit",
		log.Stringer("account", account),
		log.Stringer("amount", amount),
		log.Uint64("end", lock.End),
	)
	return e.token.TransferFrom(ctx.As(e.address), payer, e.address, amount)
}

func (e *VotingEscrow) addSupply(ctx *ledger.Context, amount *uint256.Int, increase bool) error {
	store := ctx.Store(e.address)
	supply, err := store.Uint256(supplyKey)
	if err != nil {
		return err
	}
	if increase {
		supply, err = safemath.Add256(supply, amount)
	} else {
		supply, err = safemath.Sub256(supply, amount)
	}
	if err != nil {
		return err
	}
	return store.PutUint256(supplyKey, supply)
}

// Withdraw returns the caller's whole lock once it has expired or the escrow
// is emergency unlocked.
func (e *VotingEscrow) Withdraw(ctx *ledger.Context) (*uint256.Int, error) {
	caller := ctx.Caller()
	lock, err := e.Locked(ctx, caller)
	if err != nil {
		return nil, err
	}
	if lock.Amount.IsZero() {
		return nil, ErrNoLock
	}
	emergency, err := e.EmergencyUnlocked(ctx)
	if err != nil {
		return nil, err
	}
	if lock.End > ctx.Time() && !emergency {
		return nil, ErrLockNotExpired
	}

	amount := lock.Amount.Clone()
	if err := e.putLocked(ctx, caller, LockedBalance{}); err != nil {
		return nil, err
	}
	if err := e.addSupply(ctx, amount, false); err != nil {
		return nil, err
	}
	ctx.Log().Debug("escrow withdraw",
		log.Stringer("account", caller),
		log.Stringer("amount", amount),
	)
	return amount, e.token.Transfer(ctx.As(e.address), caller, amount)
}

// Checkpoint records that global voting power was brought up to date.
func (e *VotingEscrow) Checkpoint(ctx *ledger.Context) error {
	return ctx.Store(e.address).PutUint64(lastCheckpointKey, ctx.Time())
}

func (e *VotingEscrow) LastCheckpoint(ctx *ledger.Context) (uint64, error) {
	return ctx.Store(e.address).Uint64(lastCheckpointKey)
}

// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package lockmanager implements the voter proxy: the single account that
// holds the shared escrow lock on behalf of every depositor. The depositor
// drives the lock lifecycle and the operator drives fee claims, delegation,
// rescues and migration.
package lockmanager

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/math/set"

	"github.com/luxfi/locker/external/escrow"
	"github.com/luxfi/locker/ledger"
	"github.com/luxfi/locker/ownership"
	"github.com/luxfi/locker/token"
)

var (
	operatorKey  = []byte("operator")
	depositorKey = []byte("depositor")

	ErrNotDepositor = fmt.Errorf("%w: caller is not the depositor", ledger.ErrUnauthorized)
	ErrNotOperator  = fmt.Errorf("%w: caller is not the operator", ledger.ErrUnauthorized)

	ErrLockActive       = fmt.Errorf("%w: escrow lock is still active", ledger.ErrInvalidState)
	ErrNothingToLock    = fmt.Errorf("%w: no governance tokens to lock", ledger.ErrInvalidState)
	ErrNoActiveLock     = fmt.Errorf("%w: no active escrow lock", ledger.ErrInvalidState)
	ErrOperatorActive   = fmt.Errorf("%w: current operator is not shut down", ledger.ErrInvalidState)
	ErrNothingToMigrate = fmt.Errorf("%w: no governance tokens to migrate", ledger.ErrInvalidState)

	ErrInvalidOperator  = fmt.Errorf("%w: operator failed the capability probe", ledger.ErrInvalidParameter)
	ErrProtectedAsset   = fmt.Errorf("%w: asset is locked or escrowed", ledger.ErrInvalidParameter)
	ErrZeroAddress      = fmt.Errorf("%w: zero address", ledger.ErrInvalidParameter)
	ErrFeeAssetMismatch = fmt.Errorf("%w: asset is not paid by the fee distro", ledger.ErrInvalidParameter)
)

// Escrow is the vote-escrow surface the manager drives.
type Escrow interface {
	Address() ids.ShortID
	MaxTime() uint64
	Locked(ctx *ledger.Context, account ids.ShortID) (escrow.LockedBalance, error)
	CreateLock(ctx *ledger.Context, amount *uint256.Int, unlockTime uint64) error
	IncreaseAmount(ctx *ledger.Context, amount *uint256.Int) error
	IncreaseUnlockTime(ctx *ledger.Context, unlockTime uint64) error
	Withdraw(ctx *ledger.Context) (*uint256.Int, error)
	Checkpoint(ctx *ledger.Context) error
}

// OperatorProbe is what a contract must answer to become the operator.
type OperatorProbe interface {
	Proxy() ids.ShortID
	IsShutdown(ctx *ledger.Context) (bool, error)
}

// FeeSource pays the caller its accrued fees in Asset.
type FeeSource interface {
	Asset() ids.ShortID
	Claim(ctx *ledger.Context) (*uint256.Int, error)
}

type DelegateRegistry interface {
	SetDelegate(ctx *ledger.Context, space ids.ID, delegate ids.ShortID) error
	ClearDelegate(ctx *ledger.Context, space ids.ID) error
}

// Migrator moves legacy governance tokens into a successor escrow.
type Migrator interface {
	Migrate(ctx *ledger.Context, amount *uint256.Int, to ids.ShortID) (*uint256.Int, error)
}

// Position is the manager's view of the shared lock.
type Position struct {
	LockedAmount *uint256.Int
	LockEnd      uint64
	Escrow       ids.ShortID
	// Unlocked is governance token held by the manager but not yet locked.
	Unlocked *uint256.Int
}

type LockManager struct {
	ownership.Ownable

	address ids.ShortID
	token   token.ERC20
	escrow  Escrow
}

func New(address ids.ShortID, governance token.ERC20, e Escrow) *LockManager {
	return &LockManager{
		Ownable: ownership.NewOwnable(address),
		address: address,
		token:   governance,
		escrow:  e,
	}
}

func (l *LockManager) Address() ids.ShortID {
	return l.address
}

// Token is the governance token address.
func (l *LockManager) Token() ids.ShortID {
	return l.token.Address()
}

func (l *LockManager) Escrow() ids.ShortID {
	return l.escrow.Address()
}

func (l *LockManager) MaxLockDuration() uint64 {
	return l.escrow.MaxTime()
}

// protected is the set of assets the manager never releases to a rescue.
func (l *LockManager) protected() set.Set[ids.ShortID] {
	return set.Of(l.token.Address(), l.escrow.Address())
}

func (l *LockManager) Operator(ctx *ledger.Context) (ids.ShortID, error) {
	return ctx.Store(l.address).Address(operatorKey)
}

func (l *LockManager) Depositor(ctx *ledger.Context) (ids.ShortID, error) {
	return ctx.Store(l.address).Address(depositorKey)
}

func (l *LockManager) Position(ctx *ledger.Context) (Position, error) {
	lock, err := l.escrow.Locked(ctx, l.address)
	if err != nil {
		return Position{}, err
	}
	unlocked, err := l.token.BalanceOf(ctx, l.address)
	if err != nil {
		return Position{}, err
	}
	return Position{
		LockedAmount: lock.Amount.Clone(),
		LockEnd:      lock.End,
		Escrow:       l.escrow.Address(),
		Unlocked:     unlocked,
	}, nil
}

func (l *LockManager) onlyRole(ctx *ledger.Context, key []byte, roleErr error) error {
	role, err := ctx.Store(l.address).Address(key)
	if err != nil {
		return err
	}
	if role == ids.ShortEmpty || ctx.Caller() != role {
		return roleErr
	}
	return nil
}

func (l *LockManager) onlyDepositor(ctx *ledger.Context) error {
	return l.onlyRole(ctx, depositorKey, ErrNotDepositor)
}

func (l *LockManager) onlyOperator(ctx *ledger.Context) error {
	return l.onlyRole(ctx, operatorKey, ErrNotOperator)
}

// SetOperator hands the operator role to newOperator. Owner only. The
// outgoing operator must report shutdown, and the candidate must be a
// deployed operator of this manager that is not itself shut down.
func (l *LockManager) SetOperator(ctx *ledger.Context, newOperator ids.ShortID) error {
	if err := l.OnlyOwner(ctx); err != nil {
		return err
	}
	current, err := l.Operator(ctx)
	if err != nil {
		return err
	}
	if current != ids.ShortEmpty {
		outgoing, err := ledger.Resolve[OperatorProbe](ctx, current)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrOperatorActive, err)
		}
		shutdown, err := outgoing.IsShutdown(ctx.As(l.address))
		if err != nil {
			return err
		}
		if !shutdown {
			return ErrOperatorActive
		}
	}

	candidate, err := ledger.Resolve[OperatorProbe](ctx, newOperator)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOperator, err)
	}
	if candidate.Proxy() != l.address {
		return fmt.Errorf("%w: operates %s", ErrInvalidOperator, candidate.Proxy())
	}
	shutdown, err := candidate.IsShutdown(ctx.As(l.address))
	if err != nil {
		return err
	}
	if shutdown {
		return fmt.Errorf("%w: candidate is shut down", ErrInvalidOperator)
	}

	ctx.Log().Info("operator updated",
		log.Stringer("previous", current),
		log.Stringer("operator", newOperator),
	)
	return ctx.Store(l.address).PutAddress(operatorKey, newOperator)
}

// SetDepositor assigns the depositor role. Owner only.
func (l *LockManager) SetDepositor(ctx *ledger.Context, depositor ids.ShortID) error {
	if err := l.OnlyOwner(ctx); err != nil {
		return err
	}
	if depositor == ids.ShortEmpty {
		return ErrZeroAddress
	}
	ctx.Log().Info("depositor updated",
		log.Stringer("depositor", depositor),
	)
	return ctx.Store(l.address).PutAddress(depositorKey, depositor)
}

// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package operator implements the booster: the owner-administered
// coordinator that drives the lock manager's fee claims, delegation, rescues
// and migration, and that can be irreversibly shut down to hand the lock
// manager to a successor.
package operator

//go:generate go run go.uber.org/mock/mockgen -package=${GOPACKAGE}mock -destination=${GOPACKAGE}mock/proxy.go -mock_names=Proxy=Proxy . Proxy

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/locker/ledger"
	"github.com/luxfi/locker/ownership"
	"github.com/luxfi/locker/token"
)

var (
	shutdownKey        = []byte("shutdown")
	feeQueueKey        = []byte("feeQueue")
	feeQueueEnabledKey = []byte("feeQueueEnabled")
	feeDistroPrefix    = []byte("feeDistro")

	ErrShutdown         = fmt.Errorf("%w: operator is shut down", ledger.ErrInvalidState)
	ErrFeeQueueDisabled = fmt.Errorf("%w: fee queue is disabled", ledger.ErrInvalidState)
	ErrInvalidFeeQueue  = fmt.Errorf("%w: invalid fee queue", ledger.ErrInvalidParameter)
	ErrUnknownFeeDistro = fmt.Errorf("%w: fee distro is not enabled", ledger.ErrInvalidParameter)
)

// Proxy is the lock manager surface the operator drives.
type Proxy interface {
	Address() ids.ShortID
	Checkpoint(ctx *ledger.Context) error
	ClaimFees(ctx *ledger.Context, distro, asset, to ids.ShortID) (*uint256.Int, error)
	Delegate(ctx *ledger.Context, registry ids.ShortID, delegate ids.ShortID, space ids.ID) error
	ClearDelegate(ctx *ledger.Context, registry ids.ShortID, space ids.ID) error
	RecoverERC20(ctx *ledger.Context, asset ids.ShortID, amount *uint256.Int, to ids.ShortID) error
	MigrateLock(ctx *ledger.Context, controller, key ids.ShortID) (*uint256.Int, error)
	Release(ctx *ledger.Context) (*uint256.Int, error)
}

// FeeSource is a fee distribution contract the lock manager claims from.
type FeeSource interface {
	Asset() ids.ShortID
}

// FeeQueue receives claimed fees and is notified after each claim.
type FeeQueue interface {
	OnFeesClaimed(ctx *ledger.Context) error
}

type Operator struct {
	ownership.Ownable

	address ids.ShortID
	proxy   Proxy
}

func New(address ids.ShortID, proxy Proxy) *Operator {
	return &Operator{
		Ownable: ownership.NewOwnable(address),
		address: address,
		proxy:   proxy,
	}
}

func (o *Operator) Address() ids.ShortID {
	return o.address
}

// Proxy reports the lock manager this operator drives.
func (o *Operator) Proxy() ids.ShortID {
	return o.proxy.Address()
}

func (o *Operator) IsShutdown(ctx *ledger.Context) (bool, error) {
	return ctx.Store(o.address).Bool(shutdownKey)
}

func (o *Operator) notShutdown(ctx *ledger.Context) error {
	shutdown, err := o.IsShutdown(ctx)
	if err != nil {
		return err
	}
	if shutdown {
		return ErrShutdown
	}
	return nil
}

// ShutdownSystem permanently retires this operator, allowing the lock
// manager's owner to install a successor. Owner only.
func (o *Operator) ShutdownSystem(ctx *ledger.Context) error {
	if err := o.OnlyOwner(ctx); err != nil {
		return err
	}
	if err := o.notShutdown(ctx); err != nil {
		return err
	}
	ctx.Log().Warn("operator shut down",
		log.Stringer("operator", o.address),
		log.Stringer("proxy", o.proxy.Address()),
	)
	return ctx.Store(o.address).PutBool(shutdownKey, true)
}

func (o *Operator) FeeQueue(ctx *ledger.Context) (ids.ShortID, bool, error) {
	store := ctx.Store(o.address)
	queue, err := store.Address(feeQueueKey)
	if err != nil {
		return ids.ShortEmpty, false, err
	}
	enabled, err := store.Bool(feeQueueEnabledKey)
	return queue, enabled, err
}

// SetFeeQueue configures where claimed fees are sent. Owner only.
func (o *Operator) SetFeeQueue(ctx *ledger.Context, queue ids.ShortID, enabled bool) error {
	if err := o.OnlyOwner(ctx); err != nil {
		return err
	}
	if enabled {
		if _, err := ledger.Resolve[FeeQueue](ctx, queue); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidFeeQueue, err)
		}
	}
	store := ctx.Store(o.address)
	if err := store.PutAddress(feeQueueKey, queue); err != nil {
		return err
	}
	ctx.Log().Info("fee queue updated",
		log.Stringer("queue", queue),
		log.Bool("enabled", enabled),
	)
	return store.PutBool(feeQueueEnabledKey, enabled)
}

func (o *Operator) IsFeeDistro(ctx *ledger.Context, distro ids.ShortID) (bool, error) {
	return ctx.Store(o.address).Bool(ledger.Key(feeDistroPrefix, distro[:]))
}

// SetFeeDistro allows or forbids claiming from distro. Owner only.
func (o *Operator) SetFeeDistro(ctx *ledger.Context, distro ids.ShortID, enabled bool) error {
	if err := o.OnlyOwner(ctx); err != nil {
		return err
	}
	if enabled {
		if _, err := ledger.Resolve[FeeSource](ctx, distro); err != nil {
			return fmt.Errorf("%w: %w", ErrUnknownFeeDistro, err)
		}
	}
	ctx.Log().Info("fee distro updated",
		log.Stringer("distro", distro),
		log.Bool("enabled", enabled),
	)
	return ctx.Store(o.address).PutBool(ledger.Key(feeDistroPrefix, distro[:]), enabled)
}

// ClaimFees claims the lock manager's fees of asset from an enabled distro
// into the fee queue and notifies the queue. Anyone may call it.
func (o *Operator) ClaimFees(ctx *ledger.Context, distro, asset ids.ShortID) (*uint256.Int, error) {
	if err := o.notShutdown(ctx); err != nil {
		return nil, err
	}
	queueAddr, enabled, err := o.FeeQueue(ctx)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, ErrFeeQueueDisabled
	}
	allowed, err := o.IsFeeDistro(ctx, distro)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrUnknownFeeDistro
	}
	queue, err := ledger.Resolve[FeeQueue](ctx, queueAddr)
	if err != nil {
		return nil, err
	}

	self := ctx.As(o.address)
	if err := o.proxy.Checkpoint(self); err != nil {
		return nil, err
	}
	amount, err := o.proxy.ClaimFees(self, distro, asset, queueAddr)
	if err != nil {
		return nil, err
	}
	return amount, queue.OnFeesClaimed(self)
}

// Release withdraws the lock manager's expired lock back to it. Owner only.
func (o *Operator) Release(ctx *ledger.Context) (*uint256.Int, error) {
	if err := o.OnlyOwner(ctx); err != nil {
		return nil, err
	}
	if err := o.notShutdown(ctx); err != nil {
		return nil, err
	}
	return o.proxy.Release(ctx.As(o.address))
}

// SetDelegate delegates the lock manager's votes. Owner only.
func (o *Operator) SetDelegate(ctx *ledger.Context, registry, delegate ids.ShortID, space ids.ID) error {
	if err := o.OnlyOwner(ctx); err != nil {
		return err
	}
	if err := o.notShutdown(ctx); err != nil {
		return err
	}
	return o.proxy.Delegate(ctx.As(o.address), registry, delegate, space)
}

func (o *Operator) ClearDelegate(ctx *ledger.Context, registry ids.ShortID, space ids.ID) error {
	if err := o.OnlyOwner(ctx); err != nil {
		return err
	}
	if err := o.notShutdown(ctx); err != nil {
		return err
	}
	return o.proxy.ClearDelegate(ctx.As(o.address), registry, space)
}

// RecoverERC20 sends tokens held by the operator to to. Owner only.
func (o *Operator) RecoverERC20(ctx *ledger.Context, asset ids.ShortID, amount *uint256.Int, to ids.ShortID) error {
	if err := o.OnlyOwner(ctx); err != nil {
		return err
	}
	assetToken, err := ledger.Resolve[token.ERC20](ctx, asset)
	if err != nil {
		return err
	}
	return assetToken.Transfer(ctx.As(o.address), to, amount)
}

// RecoverERC20FromProxy rescues non-governance tokens held by the lock
// manager. Owner only.
func (o *Operator) RecoverERC20FromProxy(ctx *ledger.Context, asset ids.ShortID, amount *uint256.Int, to ids.ShortID) error {
	if err := o.OnlyOwner(ctx); err != nil {
		return err
	}
	return o.proxy.RecoverERC20(ctx.As(o.address), asset, amount, to)
}

// MigrateLock moves the lock manager's expired position through controller
// into the successor escrow, crediting key. Owner only.
func (o *Operator) MigrateLock(ctx *ledger.Context, controller, key ids.ShortID) (*uint256.Int, error) {
	if err := o.OnlyOwner(ctx); err != nil {
		return nil, err
	}
	if err := o.notShutdown(ctx); err != nil {
		return nil, err
	}
	return o.proxy.MigrateLock(ctx.As(o.address), controller, key)
}

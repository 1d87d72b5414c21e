// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package depositor converts governance-token deposits into receipt tokens,
// withholding a platform share, and keeps the shared lock topped up.
package depositor

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/locker/config"
	"github.com/luxfi/locker/ledger"
	"github.com/luxfi/locker/ownership"
	"github.com/luxfi/locker/token"

	safemath "github.com/luxfi/locker/utils/math"
)

var (
	feeBpsKey    = []byte("feeBps")
	collectorKey = []byte("collector")

	ErrZeroAmount       = fmt.Errorf("%w: zero amount", ledger.ErrInvalidParameter)
	ErrFeeTooHigh       = fmt.Errorf("%w: fee above %d bps", ledger.ErrInvalidParameter, config.FeeDenominator)
	ErrMissingCollector = fmt.Errorf("%w: a non-zero fee needs a collector", ledger.ErrInvalidParameter)
)

// Proxy is the lock manager surface the depositor drives.
type Proxy interface {
	Address() ids.ShortID
	InitialLock(ctx *ledger.Context) error
	DepositAndRelock(ctx *ledger.Context, amount *uint256.Int) error
}

// Minter mints receipt tokens.
type Minter interface {
	Address() ids.ShortID
	Mint(ctx *ledger.Context, to ids.ShortID, amount *uint256.Int) error
}

type Depositor struct {
	ownership.Ownable

	address    ids.ShortID
	governance token.ERC20
	receipt    Minter
	proxy      Proxy
}

func New(address ids.ShortID, governance token.ERC20, receipt Minter, proxy Proxy) *Depositor {
	return &Depositor{
		Ownable:    ownership.NewOwnable(address),
		address:    address,
		governance: governance,
		receipt:    receipt,
		proxy:      proxy,
	}
}

func (d *Depositor) Address() ids.ShortID {
	return d.address
}

// PlatformHoldings returns the withholding in basis points and its collector.
func (d *Depositor) PlatformHoldings(ctx *ledger.Context) (uint16, ids.ShortID, error) {
	store := ctx.Store(d.address)
	bps, err := store.Uint64(feeBpsKey)
	if err != nil {
		return 0, ids.ShortEmpty, err
	}
	collector, err := store.Address(collectorKey)
	return uint16(bps), collector, err
}

// SetPlatformHoldings sets the withholding. A zero fee accepts any
// collector, including none. Owner only.
func (d *Depositor) SetPlatformHoldings(ctx *ledger.Context, feeBps uint16, collector ids.ShortID) error {
	if err := d.OnlyOwner(ctx); err != nil {
		return err
	}
	if feeBps > config.FeeDenominator {
		return ErrFeeTooHigh
	}
	if feeBps > 0 && collector == ids.ShortEmpty {
		return ErrMissingCollector
	}
	store := ctx.Store(d.address)
	if err := store.PutUint64(feeBpsKey, uint64(feeBps)); err != nil {
		return err
	}
	ctx.Log().Info("platform holdings updated",
		log.Uint64("feeBps", uint64(feeBps)),
		log.Stringer("collector", collector),
	)
	return store.PutAddress(collectorKey, collector)
}

// InitialLock creates the shared lock from the lock manager's balance.
// Owner only.
func (d *Depositor) InitialLock(ctx *ledger.Context) error {
	if err := d.OnlyOwner(ctx); err != nil {
		return err
	}
	return d.proxy.InitialLock(ctx.As(d.address))
}

// Deposit moves amount of the caller's governance token into the lock
// manager and mints receipts: amount minus the withholding to the caller and
// the withholding to the collector. With lock set, everything the manager
// holds unlocked is added to the lock and the lock is extended to the
// maximum. It returns the receipts minted to the caller.
func (d *Depositor) Deposit(ctx *ledger.Context, amount *uint256.Int, lock bool) (*uint256.Int, error) {
	if amount.IsZero() {
		return nil, ErrZeroAmount
	}
	feeBps, collector, err := d.PlatformHoldings(ctx)
	if err != nil {
		return nil, err
	}
	fee, err := safemath.MulDiv(amount, uint256.NewInt(uint64(feeBps)), uint256.NewInt(config.FeeDenominator))
	if err != nil {
		return nil, err
	}
	minted, err := safemath.Sub256(amount, fee)
	if err != nil {
		return nil, err
	}

	// Receipt supply is settled before any call that leaves this contract.
	self := ctx.As(d.address)
	caller := ctx.Caller()
	if err := d.receipt.Mint(self, caller, minted); err != nil {
		return nil, err
	}
	if !fee.IsZero() {
		if err := d.receipt.Mint(self, collector, fee); err != nil {
			return nil, err
		}
	}

	if err := d.governance.TransferFrom(self, caller, d.proxy.Address(), amount); err != nil {
		return nil, err
	}
	if lock {
		if err := d.relock(ctx); err != nil {
			return nil, err
		}
	}
	ctx.Log().Info("deposit",
		log.Stringer("account", caller),
		log.Stringer("amount", amount),
		log.Stringer("fee", fee),
		log.Bool("lock", lock),
	)
	return minted, nil
}

// DepositAll deposits the caller's whole governance balance.
func (d *Depositor) DepositAll(ctx *ledger.Context, lock bool) (*uint256.Int, error) {
	balance, err := d.governance.BalanceOf(ctx, ctx.Caller())
	if err != nil {
		return nil, err
	}
	return d.Deposit(ctx, balance, lock)
}

// Lock adds whatever the lock manager holds unlocked to the lock. Anyone may
// call it.
func (d *Depositor) Lock(ctx *ledger.Context) error {
	return d.relock(ctx)
}

func (d *Depositor) relock(ctx *ledger.Context) error {
	unlocked, err := d.governance.BalanceOf(ctx, d.proxy.Address())
	if err != nil {
		return err
	}
	return d.proxy.DepositAndRelock(ctx.As(d.address), unlocked)
}

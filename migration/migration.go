// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package migration moves legacy governance tokens into a successor escrow.
// Each migration burns the legacy tokens first and then either locks the
// converted amount directly for the recipient or hands it to the processor
// registered for the destination.
package migration

//go:generate go run go.uber.org/mock/mockgen -package=${GOPACKAGE}mock -destination=${GOPACKAGE}mock/processor.go -mock_names=Processor=Processor . Processor

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/locker/external/escrow"
	"github.com/luxfi/locker/ledger"
	"github.com/luxfi/locker/ownership"
	"github.com/luxfi/locker/token"
	"github.com/luxfi/locker/utils/units"

	safemath "github.com/luxfi/locker/utils/math"
)

var (
	processorPrefix  = []byte("processor")
	totalBurnedKey   = []byte("totalBurned")
	totalMigratedKey = []byte("totalMigrated")

	ErrZeroAmount          = fmt.Errorf("%w: zero amount", ledger.ErrInvalidParameter)
	ErrZeroAddress         = fmt.Errorf("%w: zero address", ledger.ErrInvalidParameter)
	ErrInvalidProcessor    = fmt.Errorf("%w: not a migration processor", ledger.ErrInvalidParameter)
	ErrLockTooShort        = fmt.Errorf("%w: lock too short", ledger.ErrInvalidState)
	ErrInsufficientReserve = fmt.Errorf("%w: successor reserve too small", ledger.ErrInsufficientBalance)
)

// Source is the legacy governance token. The controller must be a minter so
// it can burn what it pulls.
type Source interface {
	Address() ids.ShortID
	TransferFrom(ctx *ledger.Context, from, to ids.ShortID, amount *uint256.Int) error
	Burn(ctx *ledger.Context, amount *uint256.Int) error
}

// Destination is the successor escrow.
type Destination interface {
	Address() ids.ShortID
	Locked(ctx *ledger.Context, account ids.ShortID) (escrow.LockedBalance, error)
	DepositFor(ctx *ledger.Context, account ids.ShortID, amount *uint256.Int) error
}

// Processor completes a migration for a destination: it receives the
// converted successor tokens and must credit recipient.
type Processor interface {
	Address() ids.ShortID
	Process(ctx *ledger.Context, recipient ids.ShortID, amount *uint256.Int) error
}

type Controller struct {
	ownership.Ownable

	address         ids.ShortID
	source          Source
	successor       token.ERC20
	destination     Destination
	conversionRate  *uint256.Int
	minLockDuration uint64
}

// New returns a controller converting at conversionRate successor tokens
// per legacy token, scaled by 1e18. The rate is fixed for the controller's
// lifetime.
func New(
	address ids.ShortID,
	source Source,
	successor token.ERC20,
	destination Destination,
	conversionRate *uint256.Int,
	minLockDuration uint64,
) *Controller {
	return &Controller{
		Ownable:         ownership.NewOwnable(address),
		address:         address,
		source:          source,
		successor:       successor,
		destination:     destination,
		conversionRate:  conversionRate.Clone(),
		minLockDuration: minLockDuration,
	}
}

func (c *Controller) Address() ids.ShortID {
	return c.address
}

func (c *Controller) ConversionRate() *uint256.Int {
	return c.conversionRate.Clone()
}

func (c *Controller) MinLockDuration() uint64 {
	return c.minLockDuration
}

// Convert returns the successor amount for amount legacy tokens.
func (c *Controller) Convert(amount *uint256.Int) (*uint256.Int, error) {
	return safemath.MulDiv(amount, c.conversionRate, units.Precision())
}

func (c *Controller) Processor(ctx *ledger.Context, key ids.ShortID) (ids.ShortID, error) {
	return ctx.Store(c.address).Address(ledger.Key(processorPrefix, key[:]))
}

// AddProcessor routes migrations to key through processor, replacing any
// previous processor. The zero processor removes the route. Owner only.
func (c *Controller) AddProcessor(ctx *ledger.Context, key, processor ids.ShortID) error {
	if err := c.OnlyOwner(ctx); err != nil {
		return err
	}
	if key == ids.ShortEmpty {
		return ErrZeroAddress
	}
	if processor != ids.ShortEmpty {
		if _, err := ledger.Resolve[Processor](ctx, processor); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidProcessor, err)
		}
	}
	ctx.Log().Info("migration processor set",
		log.Stringer("key", key),
		log.Stringer("processor", processor),
	)
	return ctx.Store(c.address).PutAddress(ledger.Key(processorPrefix, key[:]), processor)
}

// TotalBurned is the legacy amount consumed by all migrations.
func (c *Controller) TotalBurned(ctx *ledger.Context) (*uint256.Int, error) {
	return ctx.Store(c.address).Uint256(totalBurnedKey)
}

// TotalMigrated is the successor amount issued by all migrations.
func (c *Controller) TotalMigrated(ctx *ledger.Context) (*uint256.Int, error) {
	return ctx.Store(c.address).Uint256(totalMigratedKey)
}

// checkEligible requires to's destination lock to outlast the minimum.
func (c *Controller) checkEligible(ctx *ledger.Context, to ids.ShortID) error {
	lock, err := c.destination.Locked(ctx, to)
	if err != nil {
		return err
	}
	now := ctx.Time()
	if lock.Amount.IsZero() || lock.End <= now || lock.End-now < c.minLockDuration {
		return fmt.Errorf("%w: %s unlocks at %d, need %d", ErrLockTooShort, to, lock.End, now+c.minLockDuration)
	}
	return nil
}

// Migrate burns amount of the caller's legacy tokens and issues the
// converted amount to to, either as a lock deposit in the destination escrow
// or through to's processor, which credits the caller. It returns the
// converted amount.
func (c *Controller) Migrate(ctx *ledger.Context, amount *uint256.Int, to ids.ShortID) (*uint256.Int, error) {
	if amount.IsZero() {
		return nil, ErrZeroAmount
	}
	if to == ids.ShortEmpty {
		return nil, ErrZeroAddress
	}
	if err := c.checkEligible(ctx, to); err != nil {
		return nil, err
	}
	converted, err := c.Convert(amount)
	if err != nil {
		return nil, err
	}
	if converted.IsZero() {
		return nil, ErrZeroAmount
	}
	reserve, err := c.successor.BalanceOf(ctx, c.address)
	if err != nil {
		return nil, err
	}
	if reserve.Lt(converted) {
		return nil, fmt.Errorf("%w: %s below %s", ErrInsufficientReserve, reserve, converted)
	}
	if err := c.record(ctx, amount, converted); err != nil {
		return nil, err
	}

	// The legacy value is destroyed before anything reaches the destination.
	caller := ctx.Caller()
	self := ctx.As(c.address)
	if err := c.source.TransferFrom(self, caller, c.address, amount); err != nil {
		return nil, err
	}
	if err := c.source.Burn(self, amount); err != nil {
		return nil, err
	}

	processorAddr, err := c.Processor(ctx, to)
	if err != nil {
		return nil, err
	}
	if processorAddr == ids.ShortEmpty {
		if err := c.successor.Approve(self, c.destination.Address(), converted); err != nil {
			return nil, err
		}
		if err := c.destination.DepositFor(self, to, converted); err != nil {
			return nil, err
		}
	} else {
		processor, err := ledger.Resolve[Processor](ctx, processorAddr)
		if err != nil {
			return nil, err
		}
		if err := c.successor.Transfer(self, processor.Address(), converted); err != nil {
			return nil, err
		}
		if err := processor.Process(self, caller, converted); err != nil {
			return nil, err
		}
	}

	ctx.Log().Info("migrated",
		log.Stringer("account", caller),
		log.Stringer("to", to),
		log.Stringer("processor", processorAddr),
		log.Stringer("amount", amount),
		log.Stringer("converted", converted),
	)
	return converted, nil
}

func (c *Controller) record(ctx *ledger.Context, burned, issued *uint256.Int) error {
	store := ctx.Store(c.address)
	totalBurned, err := store.Uint256(totalBurnedKey)
	if err != nil {
		return err
	}
	totalBurned, err = safemath.Add256(totalBurned, burned)
	if err != nil {
		return err
	}
	totalMigrated, err := store.Uint256(totalMigratedKey)
	if err != nil {
		return err
	}
	totalMigrated, err = safemath.Add256(totalMigrated, issued)
	if err != nil {
		return err
	}
	if err := store.PutUint256(totalBurnedKey, totalBurned); err != nil {
		return err
	}
	return store.PutUint256(totalMigratedKey, totalMigrated)
}

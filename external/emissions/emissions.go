// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package emissions implements the emission-weight authority: the owner
// assigns weights to receivers, funded emissions are split pro rata by
// weight, and receivers pull their share.
package emissions

import (
	"encoding/binary"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/locker/ledger"
	"github.com/luxfi/locker/ownership"
	"github.com/luxfi/locker/token"

	safemath "github.com/luxfi/locker/utils/math"
)

var (
	weightPrefix    = []byte("weight")
	claimablePrefix = []byte("claimable")
	receiverPrefix  = []byte("receiver")
	knownPrefix     = []byte("known")
	receiversKey    = []byte("receivers")
	totalWeightKey  = []byte("totalWeight")

	ErrZeroAmount = fmt.Errorf("%w: zero amount", ledger.ErrInvalidParameter)
	ErrNoWeight   = fmt.Errorf("%w: no receiver has weight", ledger.ErrInvalidState)
)

type Distributor struct {
	ownership.Ownable

	address ids.ShortID
	asset   token.ERC20
}

func New(address ids.ShortID, asset token.ERC20) *Distributor {
	return &Distributor{
		Ownable: ownership.NewOwnable(address),
		address: address,
		asset:   asset,
	}
}

func (d *Distributor) Address() ids.ShortID {
	return d.address
}

// Asset is the address of the emitted token.
func (d *Distributor) Asset() ids.ShortID {
	return d.asset.Address()
}

func (d *Distributor) Weight(ctx *ledger.Context, receiver ids.ShortID) (uint64, error) {
	return ctx.Store(d.address).Uint64(ledger.Key(weightPrefix, receiver[:]))
}

func (d *Distributor) TotalWeight(ctx *ledger.Context) (uint64, error) {
	return ctx.Store(d.address).Uint64(totalWeightKey)
}

// SetWeight assigns receiver's share of future emissions. Owner only.
func (d *Distributor) SetWeight(ctx *ledger.Context, receiver ids.ShortID, weight uint64) error {
	if err := d.OnlyOwner(ctx); err != nil {
		return err
	}
	if receiver == ids.ShortEmpty {
		return fmt.Errorf("%w: zero receiver", ledger.ErrInvalidParameter)
	}
	store := ctx.Store(d.address)
	previous, err := d.Weight(ctx, receiver)
	if err != nil {
		return err
	}
	total, err := d.TotalWeight(ctx)
	if err != nil {
		return err
	}
	total, err = safemath.Add(total-previous, weight)
	if err != nil {
		return err
	}
	if err := store.PutUint64(totalWeightKey, total); err != nil {
		return err
	}
	if err := store.PutUint64(ledger.Key(weightPrefix, receiver[:]), weight); err != nil {
		return err
	}
	if err := d.track(ctx, receiver); err != nil {
		return err
	}
	ctx.Log().Info("emission weight set",
		log.Stringer("receiver", receiver),
		log.Uint64("weight", weight),
		log.Uint64("totalWeight", total),
	)
	return nil
}

func (d *Distributor) track(ctx *ledger.Context, receiver ids.ShortID) error {
	store := ctx.Store(d.address)
	known, err := store.Bool(ledger.Key(knownPrefix, receiver[:]))
	if err != nil || known {
		return err
	}
	count, err := store.Uint64(receiversKey)
	if err != nil {
		return err
	}
	if err := store.PutAddress(ledger.Key(receiverPrefix, uint64Key(count)), receiver); err != nil {
		return err
	}
	if err := store.PutUint64(receiversKey, count+1); err != nil {
		return err
	}
	return store.PutBool(ledger.Key(knownPrefix, receiver[:]), true)
}

func (d *Distributor) Claimable(ctx *ledger.Context, receiver ids.ShortID) (*uint256.Int, error) {
	return ctx.Store(d.address).Uint256(ledger.Key(claimablePrefix, receiver[:]))
}

// Fund pulls amount from the caller and credits every weighted receiver its
// pro-rata share. Rounding dust stays with the distributor.
func (d *Distributor) Fund(ctx *ledger.Context, amount *uint256.Int) error {
	if amount.IsZero() {
		return ErrZeroAmount
	}
	total, err := d.TotalWeight(ctx)
	if err != nil {
		return err
	}
	if total == 0 {
		return ErrNoWeight
	}
	store := ctx.Store(d.address)
	count, err := store.Uint64(receiversKey)
	if err != nil {
		return err
	}
	for i := uint64(0); i < count; i++ {
		receiver, err := store.Address(ledger.Key(receiverPrefix, uint64Key(i)))
		if err != nil {
			return err
		}
		weight, err := d.Weight(ctx, receiver)
		if err != nil {
			return err
		}
		if weight == 0 {
			continue
		}
		share, err := safemath.MulDiv(amount, uint256.NewInt(weight), uint256.NewInt(total))
		if err != nil {
			return err
		}
		claimable, err := d.Claimable(ctx, receiver)
		if err != nil {
			return err
		}
		claimable, err = safemath.Add256(claimable, share)
		if err != nil {
			return err
		}
		if err := store.PutUint256(ledger.Key(claimablePrefix, receiver[:]), claimable); err != nil {
			return err
		}
	}
	return d.asset.TransferFrom(ctx.As(d.address), ctx.Caller(), d.address, amount)
}

// Claim pays the caller its accrued emissions and returns the amount.
func (d *Distributor) Claim(ctx *ledger.Context) (*uint256.Int, error) {
	receiver := ctx.Caller()
	amount, err := d.Claimable(ctx, receiver)
	if err != nil || amount.IsZero() {
		return new(uint256.Int), err
	}
	if err := ctx.Store(d.address).PutUint256(ledger.Key(claimablePrefix, receiver[:]), new(uint256.Int)); err != nil {
		return nil, err
	}
	return amount, d.asset.Transfer(ctx.As(d.address), receiver, amount)
}

func uint64Key(i uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, i)
}

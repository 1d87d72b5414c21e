// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package feedistro implements a fee distribution source: revenue is funded
// per recipient and pulled by the recipient with Claim.
package feedistro

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/locker/ledger"
	"github.com/luxfi/locker/token"

	safemath "github.com/luxfi/locker/utils/math"
)

var (
	claimablePrefix = []byte("claimable")

	ErrZeroAmount = fmt.Errorf("%w: zero amount", ledger.ErrInvalidParameter)
)

type Distributor struct {
	address ids.ShortID
	asset   token.ERC20
}

func New(address ids.ShortID, asset token.ERC20) *Distributor {
	return &Distributor{
		address: address,
		asset:   asset,
	}
}

func (d *Distributor) Address() ids.ShortID {
	return d.address
}

// Asset is the address of the token this source pays out.
func (d *Distributor) Asset() ids.ShortID {
	return d.asset.Address()
}

func (d *Distributor) Claimable(ctx *ledger.Context, recipient ids.ShortID) (*uint256.Int, error) {
	return ctx.Store(d.address).Uint256(ledger.Key(claimablePrefix, recipient[:]))
}

// Fund pulls amount from the caller and makes it claimable by recipient.
func (d *Distributor) Fund(ctx *ledger.Context, recipient ids.ShortID, amount *uint256.Int) error {
	if amount.IsZero() {
		return ErrZeroAmount
	}
	claimable, err := d.Claimable(ctx, recipient)
	if err != nil {
		return err
	}
	claimable, err = safemath.Add256(claimable, amount)
	if err != nil {
		return err
	}
	if err := ctx.Store(d.address).PutUint256(ledger.Key(claimablePrefix, recipient[:]), claimable); err != nil {
		return err
	}
	return d.asset.TransferFrom(ctx.As(d.address), ctx.Caller(), d.address, amount)
}

// Claim pays the caller everything claimable and returns the amount paid.
// Nothing claimable is not an error.
func (d *Distributor) Claim(ctx *ledger.Context) (*uint256.Int, error) {
	recipient := ctx.Caller()
	amount, err := d.Claimable(ctx, recipient)
	if err != nil || amount.IsZero() {
		return new(uint256.Int), err
	}
	if err := ctx.Store(d.address).PutUint256(ledger.Key(claimablePrefix, recipient[:]), new(uint256.Int)); err != nil {
		return nil, err
	}
	ctx.Log().Debug("fees claimed",
		log.Stringer("recipient", recipient),
		log.Stringer("amount", amount),
	)
	return amount, d.asset.Transfer(ctx.As(d.address), recipient, amount)
}

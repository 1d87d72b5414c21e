// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package burner permanently removes receipt tokens from circulation.
package burner

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/locker/ledger"
)

var ErrZeroAmount = fmt.Errorf("%w: zero amount", ledger.ErrInvalidParameter)

// Receipt is the burnable receipt token.
type Receipt interface {
	BalanceOf(ctx *ledger.Context, holder ids.ShortID) (*uint256.Int, error)
	Burn(ctx *ledger.Context, from ids.ShortID, amount *uint256.Int) error
}

type Burner struct {
	address ids.ShortID
	receipt Receipt
}

func New(address ids.ShortID, receipt Receipt) *Burner {
	return &Burner{
		address: address,
		receipt: receipt,
	}
}

func (b *Burner) Address() ids.ShortID {
	return b.address
}

// Burn destroys every receipt token the burner holds and returns the amount.
func (b *Burner) Burn(ctx *ledger.Context) (*uint256.Int, error) {
	balance, err := b.receipt.BalanceOf(ctx, b.address)
	if err != nil || balance.IsZero() {
		return balance, err
	}
	ctx.Log().Info("burning held receipts",
		log.Stringer("amount", balance),
	)
	return balance, b.receipt.Burn(ctx.As(b.address), b.address, balance)
}

// BurnAtSender destroys amount of the caller's receipt tokens. They are
// burned in the caller's account instead of being pulled into the burner
// first, so no allowance is needed. Supply and balances end the same.
func (b *Burner) BurnAtSender(ctx *ledger.Context, amount *uint256.Int) error {
	if amount.IsZero() {
		return ErrZeroAmount
	}
	caller := ctx.Caller()
	balance, err := b.receipt.BalanceOf(ctx, caller)
	if err != nil {
		return err
	}
	if balance.Lt(amount) {
		return fmt.Errorf("%w: balance %s below %s", ledger.ErrInsufficientBalance, balance, amount)
	}
	ctx.Log().Info("burning receipts",
		log.Stringer("account", caller),
		log.Stringer("amount", amount),
	)
	return b.receipt.Burn(ctx.As(b.address), caller, amount)
}

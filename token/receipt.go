// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/locker/ledger"
	"github.com/luxfi/locker/ownership"
)

var (
	_ ERC20 = (*Receipt)(nil)

	operatorKey = []byte("operator")
	burnerKey   = []byte("burner")

	ErrNotOperator = fmt.Errorf("%w: caller is not the receipt operator", ledger.ErrUnauthorized)
	ErrNotBurner   = fmt.Errorf("%w: caller may not burn receipts", ledger.ErrUnauthorized)
)

// Receipt is the liquid claim on locked value. Only its operator (the
// depositor) mints, and only the operator or the burner burns.
type Receipt struct {
	erc20
	ownership.Ownable
}

func NewReceipt(address ids.ShortID, name, symbol string) *Receipt {
	return &Receipt{
		erc20: erc20{
			address: address,
			name:    name,
			symbol:  symbol,
		},
		Ownable: ownership.NewOwnable(address),
	}
}

func (r *Receipt) Operator(ctx *ledger.Context) (ids.ShortID, error) {
	return ctx.Store(r.address).Address(operatorKey)
}

func (r *Receipt) Burner(ctx *ledger.Context) (ids.ShortID, error) {
	return ctx.Store(r.address).Address(burnerKey)
}

// SetOperators fixes the minting operator and the burner, then renounces
// ownership so they can never change. Owner only.
func (r *Receipt) SetOperators(ctx *ledger.Context, operator, burner ids.ShortID) error {
	if err := r.OnlyOwner(ctx); err != nil {
		return err
	}
	if operator == ids.ShortEmpty || burner == ids.ShortEmpty {
		return fmt.Errorf("%w: receipt operators must be set", ledger.ErrInvalidParameter)
	}
	store := ctx.Store(r.address)
	if err := store.PutAddress(operatorKey, operator); err != nil {
		return err
	}
	if err := store.PutAddress(burnerKey, burner); err != nil {
		return err
	}
	ctx.Log().Info("receipt operators set",
		log.String("token", r.symbol),
		log.Stringer("operator", operator),
		log.Stringer("burner", burner),
	)
	return r.Renounce(ctx)
}

func (r *Receipt) Mint(ctx *ledger.Context, to ids.ShortID, amount *uint256.Int) error {
	operator, err := r.Operator(ctx)
	if err != nil {
		return err
	}
	if operator == ids.ShortEmpty || ctx.Caller() != operator {
		return ErrNotOperator
	}
	return r.mint(ctx, to, amount)
}

// Burn destroys amount from from. Callable by the operator or the burner.
func (r *Receipt) Burn(ctx *ledger.Context, from ids.ShortID, amount *uint256.Int) error {
	operator, err := r.Operator(ctx)
	if err != nil {
		return err
	}
	burner, err := r.Burner(ctx)
	if err != nil {
		return err
	}
	caller := ctx.Caller()
	if caller == ids.ShortEmpty || (caller != operator && caller != burner) {
		return ErrNotBurner
	}
	return r.burn(ctx, from, amount)
}

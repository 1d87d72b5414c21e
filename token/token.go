// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package token implements the fungible tokens held on the ledger: plain
// governance-style tokens with owner-managed minters, and the receipt token
// whose supply only the depositor and burner may change.
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
	_ ERC20 = (*Token)(nil)

	minterPrefix = []byte("minter")

	ErrNotMinter = fmt.Errorf("%w: caller is not a minter", ledger.ErrUnauthorized)
)

// Token is an owner-administered token. Minters may mint to anyone and burn
// their own balance.
type Token struct {
	erc20
	ownership.Ownable
}

func New(address ids.ShortID, name, symbol string) *Token {
	return &Token{
		erc20: erc20{
			address: address,
			name:    name,
			symbol:  symbol,
		},
		Ownable: ownership.NewOwnable(address),
	}
}

func (t *Token) IsMinter(ctx *ledger.Context, addr ids.ShortID) (bool, error) {
	return ctx.Store(t.address).Bool(ledger.Key(minterPrefix, addr[:]))
}

// SetMinter grants or revokes minting rights. Owner only.
func (t *Token) SetMinter(ctx *ledger.Context, minter ids.ShortID, enabled bool) error {
	if err := t.OnlyOwner(ctx); err != nil {
		return err
	}
	ctx.Log().Info("minter updated",
		log.String("token", t.symbol),
		log.Stringer("minter", minter),
		log.Bool("enabled", enabled),
	)
	return ctx.Store(t.address).PutBool(ledger.Key(minterPrefix, minter[:]), enabled)
}

func (t *Token) onlyMinter(ctx *ledger.Context) error {
	ok, err := t.IsMinter(ctx, ctx.Caller())
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotMinter
	}
	return nil
}

func (t *Token) Mint(ctx *ledger.Context, to ids.ShortID, amount *uint256.Int) error {
	if err := t.onlyMinter(ctx); err != nil {
		return err
	}
	return t.mint(ctx, to, amount)
}

// Burn destroys amount of the calling minter's own balance.
func (t *Token) Burn(ctx *ledger.Context, amount *uint256.Int) error {
	if err := t.onlyMinter(ctx); err != nil {
		return err
	}
	return t.burn(ctx, ctx.Caller(), amount)
}

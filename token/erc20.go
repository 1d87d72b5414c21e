// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/locker/ledger"

	safemath "github.com/luxfi/locker/utils/math"
)

var (
	balancePrefix   = []byte("balance")
	allowancePrefix = []byte("allowance")
	supplyKey       = []byte("supply")
)

// ERC20 is the fungible-token surface other contracts depend on.
type ERC20 interface {
	Address() ids.ShortID
	BalanceOf(ctx *ledger.Context, holder ids.ShortID) (*uint256.Int, error)
	TotalSupply(ctx *ledger.Context) (*uint256.Int, error)
	Allowance(ctx *ledger.Context, owner, spender ids.ShortID) (*uint256.Int, error)
	Transfer(ctx *ledger.Context, to ids.ShortID, amount *uint256.Int) error
	Approve(ctx *ledger.Context, spender ids.ShortID, amount *uint256.Int) error
	TransferFrom(ctx *ledger.Context, from, to ids.ShortID, amount *uint256.Int) error
}

// erc20 is the balance book shared by every token type.
type erc20 struct {
	address ids.ShortID
	name    string
	symbol  string
}

func (t *erc20) Address() ids.ShortID {
	return t.address
}

func (t *erc20) Name() string {
	return t.name
}

func (t *erc20) Symbol() string {
	return t.symbol
}

func (*erc20) Decimals() uint8 {
	return 18
}

func (t *erc20) BalanceOf(ctx *ledger.Context, holder ids.ShortID) (*uint256.Int, error) {
	return ctx.Store(t.address).Uint256(ledger.Key(balancePrefix, holder[:]))
}

func (t *erc20) TotalSupply(ctx *ledger.Context) (*uint256.Int, error) {
	return ctx.Store(t.address).Uint256(supplyKey)
}

func (t *erc20) Allowance(ctx *ledger.Context, owner, spender ids.ShortID) (*uint256.Int, error) {
	return ctx.Store(t.address).Uint256(ledger.Key(allowancePrefix, owner[:], spender[:]))
}

// Transfer moves amount from the caller to to.
func (t *erc20) Transfer(ctx *ledger.Context, to ids.ShortID, amount *uint256.Int) error {
	return t.move(ctx, ctx.Caller(), to, amount)
}

// Approve sets the amount spender may move out of the caller's balance.
func (t *erc20) Approve(ctx *ledger.Context, spender ids.ShortID, amount *uint256.Int) error {
	if spender == ids.ShortEmpty {
		return fmt.Errorf("%w: approve to the zero address", ledger.ErrInvalidParameter)
	}
	owner := ctx.Caller()
	return ctx.Store(t.address).PutUint256(ledger.Key(allowancePrefix, owner[:], spender[:]), amount)
}

// TransferFrom moves amount from from to to, spending the caller's allowance.
func (t *erc20) TransferFrom(ctx *ledger.Context, from, to ids.ShortID, amount *uint256.Int) error {
	spender := ctx.Caller()
	if err := t.spendAllowance(ctx, from, spender, amount); err != nil {
		return err
	}
	return t.move(ctx, from, to, amount)
}

func (t *erc20) spendAllowance(ctx *ledger.Context, owner, spender ids.ShortID, amount *uint256.Int) error {
	key := ledger.Key(allowancePrefix, owner[:], spender[:])
	allowance, err := ctx.Store(t.address).Uint256(key)
	if err != nil {
		return err
	}
	remaining, err := safemath.Sub256(allowance, amount)
	if err != nil {
		return fmt.Errorf("%w: %s allowance %s below %s", ledger.ErrInsufficientBalance, t.symbol, allowance, amount)
	}
	return ctx.Store(t.address).PutUint256(key, remaining)
}

func (t *erc20) move(ctx *ledger.Context, from, to ids.ShortID, amount *uint256.Int) error {
	if to == ids.ShortEmpty {
		return fmt.Errorf("%w: transfer to the zero address", ledger.ErrInvalidParameter)
	}
	if err := t.debit(ctx, from, amount); err != nil {
		return err
	}
	if err := t.credit(ctx, to, amount); err != nil {
		return err
	}
	ctx.Log().Debug("transfer",
		log.String("token", t.symbol),
		log.Stringer("from", from),
		log.Stringer("to", to),
		log.Stringer("amount", amount),
	)
	return nil
}

func (t *erc20) debit(ctx *ledger.Context, holder ids.ShortID, amount *uint256.Int) error {
	store := ctx.Store(t.address)
	key := ledger.Key(balancePrefix, holder[:])
	balance, err := store.Uint256(key)
	if err != nil {
		return err
	}
	remaining, err := safemath.Sub256(balance, amount)
	if err != nil {
		return fmt.Errorf("%w: %s balance %s of %s below %s", ledger.ErrInsufficientBalance, t.symbol, balance, holder, amount)
	}
	return store.PutUint256(key, remaining)
}

func (t *erc20) credit(ctx *ledger.Context, holder ids.ShortID, amount *uint256.Int) error {
	store := ctx.Store(t.address)
	key := ledger.Key(balancePrefix, holder[:])
	balance, err := store.Uint256(key)
	if err != nil {
		return err
	}
	updated, err := safemath.Add256(balance, amount)
	if err != nil {
		return err
	}
	return store.PutUint256(key, updated)
}

// mint and burn keep totalSupply equal to the sum of all balances.
func (t *erc20) mint(ctx *ledger.Context, to ids.ShortID, amount *uint256.Int) error {
	if to == ids.ShortEmpty {
		return fmt.Errorf("%w: mint to the zero address", ledger.ErrInvalidParameter)
	}
	store := ctx.Store(t.address)
	supply, err := store.Uint256(supplyKey)
	if err != nil {
		return err
	}
	supply, err = safemath.Add256(supply, amount)
	if err != nil {
		return err
	}
	if err := store.PutUint256(supplyKey, supply); err != nil {
		return err
	}
	return t.credit(ctx, to, amount)
}

func (t *erc20) burn(ctx *ledger.Context, from ids.ShortID, amount *uint256.Int) error {
	if err := t.debit(ctx, from, amount); err != nil {
		return err
	}
	store := ctx.Store(t.address)
	supply, err := store.Uint256(supplyKey)
	if err != nil {
		return err
	}
	supply, err = safemath.Sub256(supply, amount)
	if err != nil {
		return err
	}
	return store.PutUint256(supplyKey, supply)
}

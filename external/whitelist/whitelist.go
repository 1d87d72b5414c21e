// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package whitelist implements the wallet checker an escrow consults before
// letting a contract lock tokens.
package whitelist

import (
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/locker/ledger"
	"github.com/luxfi/locker/ownership"
)

var approvedPrefix = []byte("approved")

type Checker struct {
	ownership.Ownable
	address ids.ShortID
}

func New(address ids.ShortID) *Checker {
	return &Checker{
		Ownable: ownership.NewOwnable(address),
		address: address,
	}
}

func (c *Checker) Address() ids.ShortID {
	return c.address
}

func (c *Checker) ApproveWallet(ctx *ledger.Context, wallet ids.ShortID) error {
	return c.set(ctx, wallet, true)
}

func (c *Checker) RevokeWallet(ctx *ledger.Context, wallet ids.ShortID) error {
	return c.set(ctx, wallet, false)
}

func (c *Checker) set(ctx *ledger.Context, wallet ids.ShortID, approved bool) error {
	if err := c.OnlyOwner(ctx); err != nil {
		return err
	}
	ctx.Log().Info("wallet whitelist updated",
		log.Stringer("wallet", wallet),
		log.Bool("approved", approved),
	)
	return ctx.Store(c.address).PutBool(ledger.Key(approvedPrefix, wallet[:]), approved)
}

// Check reports whether wallet may hold an escrow lock.
func (c *Checker) Check(ctx *ledger.Context, wallet ids.ShortID) (bool, error) {
	return ctx.Store(c.address).Bool(ledger.Key(approvedPrefix, wallet[:]))
}
